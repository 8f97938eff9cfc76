package user

import (
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/core/common/validation"
)

type CreateAccountDTO struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

func (d *CreateAccountDTO) Normalize() {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Phone = strings.TrimSpace(d.Phone)
	d.Role = strings.ToUpper(strings.TrimSpace(d.Role))
}

func (d CreateAccountDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("full_name", d.FullName).Required().MaxLength(200)
	v.Field("email", d.Email).Required().Email().MaxLength(254)
	v.Field("phone", d.Phone).MaxLength(30)
	v.Field("role", d.Role).Required().OneOf(internal.ErrCodeInvalidRole, internal.RoleAdmin, internal.RoleHR, internal.RoleEmployee)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// AccountCreatedResponse carries the initial password exactly once.
type AccountCreatedResponse struct {
	User            *User  `json:"user"`
	InitialPassword string `json:"initial_password"`
}

type UpdateProfileDTO struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func (d UpdateProfileDTO) Validate() error {
	v := validation.NewValidator()
	if d.FullName != nil {
		v.Field("full_name", d.FullName).Required().MaxLength(200)
	}
	if d.Email != nil {
		v.Field("email", d.Email).Required().Email().MaxLength(254)
	}
	if d.Phone != nil {
		v.Field("phone", d.Phone).MaxLength(30)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (d UpdateStatusDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", d.Status).Required().OneOf(internal.ErrCodeValidationFailed, StatusActive, StatusDisabled)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type PasswordResetResponse struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

type ListFilter struct {
	Role   string
	Status string
	Limit  int
	Offset int
}

type ListResponse struct {
	Users  []*User `json:"users"`
	Total  int64   `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}
