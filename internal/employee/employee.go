package employee

import (
	"time"

	employeeDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/employee"
)

// NationalIDLength is the number of digits in a citizen identity number.
const NationalIDLength = 12

type Employee struct {
	ID               string    `json:"id"`
	UserID           *string   `json:"user_id"`
	CandidateID      *string   `json:"candidate_id"`
	PlaceOfResidence string    `json:"place_of_residence"`
	Hometown         string    `json:"hometown"`
	NationalID       *string   `json:"national_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (e *Employee) OwnedBy(userID string) bool {
	return e.UserID != nil && *e.UserID == userID
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:               e.ID,
		UserID:           e.UserID,
		CandidateID:      e.CandidateID,
		PlaceOfResidence: e.PlaceOfResidence,
		Hometown:         e.Hometown,
		NationalID:       e.NationalID,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
