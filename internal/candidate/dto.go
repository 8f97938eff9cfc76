package candidate

import (
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/core/common/validation"
)

type SubmitApplicationDTO struct {
	FullName          string `json:"full_name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	CVURL             string `json:"cv_url"`
	AppliedPositionID string `json:"applied_position_id"`
}

func (d *SubmitApplicationDTO) Normalize() {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Phone = strings.TrimSpace(d.Phone)
	d.CVURL = strings.TrimSpace(d.CVURL)
	d.AppliedPositionID = strings.TrimSpace(d.AppliedPositionID)
}

func (d SubmitApplicationDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("full_name", d.FullName).Required().MaxLength(200)
	v.Field("email", d.Email).Required().Email().MaxLength(254)
	v.Field("phone", d.Phone).Required().MaxLength(30)
	v.Field("cv_url", d.CVURL).Required().HTTPURL().MaxLength(2048)
	v.Field("applied_position_id", d.AppliedPositionID).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type TransitionDTO struct {
	Status string `json:"status"`
}

func (d TransitionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", d.Status).Required().OneOf(internal.ErrCodeValidationFailed, Statuses...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListFilter struct {
	Status     string
	PositionID string
	Limit      int
	Offset     int
}

type ListResponse struct {
	Candidates []*Candidate `json:"candidates"`
	Total      int64        `json:"total"`
	Limit      int          `json:"limit"`
	Offset     int          `json:"offset"`
}
