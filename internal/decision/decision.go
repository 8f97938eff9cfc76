package decision

import (
	"time"

	"github.com/frahmantamala/recruitment-management/internal/candidate"
	decisionDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/decision"
)

const (
	Hire   = "HIRE"
	NoHire = "NO_HIRE"
)

type Decision struct {
	ID            string    `json:"id"`
	CandidateID   string    `json:"candidate_id"`
	DecidedBy     string    `json:"decided_by"`
	Decision      string    `json:"decision"`
	DecisionNotes string    `json:"decision_notes"`
	DecidedAt     time.Time `json:"decided_at"`
}

// Outcome maps a verdict to the candidate status it resolves to. HIRE never maps to HIRED.
func Outcome(verdict string) (string, bool) {
	switch verdict {
	case Hire:
		return candidate.StatusOffered, true
	case NoHire:
		return candidate.StatusNotHired, true
	}
	return "", false
}

func FromDataModel(d *decisionDatamodel.Decision) *Decision {
	return &Decision{
		ID:            d.ID,
		CandidateID:   d.CandidateID,
		DecidedBy:     d.DecidedBy,
		Decision:      d.Decision,
		DecisionNotes: d.DecisionNotes,
		DecidedAt:     d.DecidedAt,
	}
}
