package position

import (
	"time"

	positionDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/position"
)

type Position struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Department  string    `json:"department"`
	Description string    `json:"description"`
	IsOpen      bool      `json:"is_open"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToDataModel(p *Position) *positionDatamodel.Position {
	return &positionDatamodel.Position{
		ID:          p.ID,
		Title:       p.Title,
		Department:  p.Department,
		Description: p.Description,
		IsOpen:      p.IsOpen,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModel(p *positionDatamodel.Position) *Position {
	return &Position{
		ID:          p.ID,
		Title:       p.Title,
		Department:  p.Department,
		Description: p.Description,
		IsOpen:      p.IsOpen,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
