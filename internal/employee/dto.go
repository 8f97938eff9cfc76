package employee

import (
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/core/common/validation"
)

type CreateEmployeeDTO struct {
	UserID           *string `json:"user_id,omitempty"`
	CandidateID      *string `json:"candidate_id,omitempty"`
	PlaceOfResidence string  `json:"place_of_residence"`
	Hometown         string  `json:"hometown"`
	NationalID       *string `json:"national_id,omitempty"`
}

func (d *CreateEmployeeDTO) Normalize() {
	d.UserID = trimOptional(d.UserID)
	d.CandidateID = trimOptional(d.CandidateID)
	d.NationalID = trimOptional(d.NationalID)
	d.PlaceOfResidence = strings.TrimSpace(d.PlaceOfResidence)
	d.Hometown = strings.TrimSpace(d.Hometown)
}

func (d CreateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("place_of_residence", d.PlaceOfResidence).MaxLength(255)
	v.Field("hometown", d.Hometown).MaxLength(255)
	if d.NationalID != nil {
		v.Field("national_id", d.NationalID).Digits(NationalIDLength, internal.ErrCodeInvalidNationID)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateEmployeeDTO struct {
	PlaceOfResidence *string `json:"place_of_residence,omitempty"`
	Hometown         *string `json:"hometown,omitempty"`
	NationalID       *string `json:"national_id,omitempty"`
}

func (d *UpdateEmployeeDTO) Normalize() {
	d.PlaceOfResidence = trimPresent(d.PlaceOfResidence)
	d.Hometown = trimPresent(d.Hometown)
	d.NationalID = trimOptional(d.NationalID)
}

func (d UpdateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	if d.PlaceOfResidence != nil {
		v.Field("place_of_residence", d.PlaceOfResidence).MaxLength(255)
	}
	if d.Hometown != nil {
		v.Field("hometown", d.Hometown).MaxLength(255)
	}
	if d.NationalID != nil {
		v.Field("national_id", d.NationalID).Digits(NationalIDLength, internal.ErrCodeInvalidNationID)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type LinkUserDTO struct {
	UserID string `json:"user_id"`
}

type ListResponse struct {
	Employees []*Employee `json:"employees"`
	Total     int64       `json:"total"`
	Limit     int         `json:"limit"`
	Offset    int         `json:"offset"`
}

// trimOptional trims the value and treats blank input as absent.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func trimPresent(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
