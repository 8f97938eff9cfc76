package decision

import (
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/candidate"
	"github.com/frahmantamala/recruitment-management/internal/core/common/validation"
)

type RecordDecisionDTO struct {
	CandidateID string `json:"candidate_id"`
	Decision    string `json:"decision"`
	Notes       string `json:"decision_notes"`
}

func (d *RecordDecisionDTO) Normalize() {
	d.CandidateID = strings.TrimSpace(d.CandidateID)
	d.Decision = strings.ToUpper(strings.TrimSpace(d.Decision))
	d.Notes = strings.TrimSpace(d.Notes)
}

func (d RecordDecisionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("candidate_id", d.CandidateID).Required()
	v.Field("decision", d.Decision).Required().OneOf(internal.ErrCodeInvalidDecision, Hire, NoHire)
	v.Field("decision_notes", d.Notes).Notes()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type DecisionResponse struct {
	Decision  *Decision            `json:"decision"`
	Candidate *candidate.Candidate `json:"candidate"`
}

type ListResponse struct {
	Decisions []*Decision `json:"decisions"`
}
