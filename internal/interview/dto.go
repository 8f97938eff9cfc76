package interview

import (
	"strings"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/core/common/validation"
)

type CreateSessionDTO struct {
	CandidateID    string    `json:"candidate_id"`
	Title          string    `json:"title"`
	ScheduledDate  time.Time `json:"scheduled_date"`
	InterviewerIDs []string  `json:"interviewer_ids"`
}

func (d *CreateSessionDTO) Normalize() {
	d.CandidateID = strings.TrimSpace(d.CandidateID)
	d.Title = strings.TrimSpace(d.Title)
	for i, id := range d.InterviewerIDs {
		d.InterviewerIDs[i] = strings.TrimSpace(id)
	}
}

func (d CreateSessionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("candidate_id", d.CandidateID).Required()
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("scheduled_date", d.ScheduledDate).Custom(func(value interface{}) *internal.AppError {
		if value.(time.Time).IsZero() {
			return internal.NewValidationFieldError("scheduled_date", "scheduled_date is required", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type EvaluationDTO struct {
	TechNotes string `json:"tech_notes"`
	SoftNotes string `json:"soft_notes"`
	Result    string `json:"result"`
}

func (d *EvaluationDTO) Normalize() {
	d.TechNotes = strings.TrimSpace(d.TechNotes)
	d.SoftNotes = strings.TrimSpace(d.SoftNotes)
	d.Result = strings.ToUpper(strings.TrimSpace(d.Result))
}

// Validate accepts only final results; PENDING cannot be recorded.
func (d EvaluationDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("tech_notes", d.TechNotes).Notes()
	v.Field("soft_notes", d.SoftNotes).Notes()
	v.Field("result", d.Result).Required().OneOf(internal.ErrCodeInvalidResult, ResultPass, ResultFail)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
