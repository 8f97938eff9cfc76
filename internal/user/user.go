package user

import (
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
	userDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/user"
)

const (
	StatusActive   = "ACTIVE"
	StatusDisabled = "DISABLED"
)

// User represents the internal user model
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	PasswordHash string    `json:"-"` // Never expose password hash
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) Actor() internal.Actor {
	return internal.Actor{ID: u.ID, Role: u.Role}
}

func IsValidRole(role string) bool {
	switch role {
	case internal.RoleAdmin, internal.RoleHR, internal.RoleEmployee:
		return true
	}
	return false
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Phone:        u.Phone,
		FullName:     u.FullName,
		Role:         u.Role,
		Status:       u.Status,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Phone:        u.Phone,
		FullName:     u.FullName,
		Role:         u.Role,
		Status:       u.Status,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
