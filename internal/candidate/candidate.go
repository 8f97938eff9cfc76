package candidate

import (
	"time"

	candidateDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/candidate"
)

const (
	StatusSubmitted = "SUBMITTED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusInterview = "INTERVIEW"
	StatusOffered   = "OFFERED"
	StatusHired     = "HIRED"
	StatusNotHired  = "NOT_HIRED"
)

// Statuses lists every lifecycle state in pipeline order.
var Statuses = []string{
	StatusSubmitted,
	StatusApproved,
	StatusRejected,
	StatusInterview,
	StatusOffered,
	StatusHired,
	StatusNotHired,
}

var transitions = map[string][]string{
	StatusSubmitted: {StatusApproved, StatusRejected},
	StatusApproved:  {StatusInterview},
	StatusInterview: {StatusOffered, StatusNotHired},
	StatusOffered:   {StatusHired, StatusNotHired},
}

// CanTransition reports whether to is reachable from from in one step.
// Leaving INTERVIEW is only legal through a recorded decision.
func CanTransition(from, to string, viaDecision bool) bool {
	if from == StatusInterview && !viaDecision {
		return false
	}
	if viaDecision && from != StatusInterview {
		return false
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}

func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type Candidate struct {
	ID                string    `json:"id"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	CVURL             string    `json:"cv_url"`
	AppliedPositionID string    `json:"applied_position_id"`
	Status            string    `json:"status"`
	Version           int       `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func ToDataModel(c *Candidate) *candidateDatamodel.Candidate {
	return &candidateDatamodel.Candidate{
		ID:                c.ID,
		FullName:          c.FullName,
		Email:             c.Email,
		Phone:             c.Phone,
		CVURL:             c.CVURL,
		AppliedPositionID: c.AppliedPositionID,
		Status:            c.Status,
		Version:           c.Version,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func FromDataModel(c *candidateDatamodel.Candidate) *Candidate {
	return &Candidate{
		ID:                c.ID,
		FullName:          c.FullName,
		Email:             c.Email,
		Phone:             c.Phone,
		CVURL:             c.CVURL,
		AppliedPositionID: c.AppliedPositionID,
		Status:            c.Status,
		Version:           c.Version,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}
