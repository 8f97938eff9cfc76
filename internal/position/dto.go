package position

import (
	"strings"

	"github.com/frahmantamala/recruitment-management/internal/core/common/validation"
)

type CreatePositionDTO struct {
	Title       string `json:"title"`
	Department  string `json:"department"`
	Description string `json:"description"`
	IsOpen      *bool  `json:"is_open,omitempty"`
}

func (d *CreatePositionDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Department = strings.TrimSpace(d.Department)
	d.Description = strings.TrimSpace(d.Description)
}

func (d CreatePositionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("department", d.Department).MaxLength(100)
	v.Field("description", d.Description).MaxLength(5000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdatePositionDTO is a partial update; nil fields are left untouched.
type UpdatePositionDTO struct {
	Title       *string `json:"title,omitempty"`
	Department  *string `json:"department,omitempty"`
	Description *string `json:"description,omitempty"`
	IsOpen      *bool   `json:"is_open,omitempty"`
}

func (d UpdatePositionDTO) Validate() error {
	v := validation.NewValidator()
	if d.Title != nil {
		v.Field("title", d.Title).Required().MaxLength(200)
	}
	if d.Department != nil {
		v.Field("department", d.Department).MaxLength(100)
	}
	if d.Description != nil {
		v.Field("description", d.Description).MaxLength(5000)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListFilter struct {
	OnlyOpen bool
	Limit    int
	Offset   int
}

type ListResponse struct {
	Positions []*Position `json:"positions"`
	Total     int64       `json:"total"`
	Limit     int         `json:"limit"`
	Offset    int         `json:"offset"`
}
