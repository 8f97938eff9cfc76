package interview

import (
	"math"
	"time"

	interviewDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/interview"
)

const (
	SessionScheduled  = "SCHEDULED"
	SessionInProgress = "IN_PROGRESS"
	SessionCompleted  = "COMPLETED"
	SessionCancelled  = "CANCELLED"
)

const (
	ResultPending = "PENDING"
	ResultPass    = "PASS"
	ResultFail    = "FAIL"
)

type Session struct {
	ID            string    `json:"id"`
	CandidateID   string    `json:"candidate_id"`
	Title         string    `json:"title"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Status        string    `json:"status"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OpenSessionStatuses accept evaluations.
var OpenSessionStatuses = []string{SessionScheduled, SessionInProgress}

// IsClosed reports whether the session no longer accepts evaluations.
func (s *Session) IsClosed() bool {
	return s.Status == SessionCompleted || s.Status == SessionCancelled
}

type Interview struct {
	ID                 string    `json:"id"`
	CandidateID        string    `json:"candidate_id"`
	InterviewerID      string    `json:"interviewer_id"`
	InterviewSessionID string    `json:"interview_session_id"`
	TechNotes          string    `json:"tech_notes"`
	SoftNotes          string    `json:"soft_notes"`
	Result             string    `json:"result"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type Progress struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Passed     int `json:"passed"`
	Percentage int `json:"percentage"`
}

type SessionDetail struct {
	Session    *Session     `json:"session"`
	Interviews []*Interview `json:"interviews"`
	Progress   Progress     `json:"progress"`
}

// ComputeProgress aggregates interview results. Percentage is completed/total rounded half away from zero.
func ComputeProgress(interviews []*Interview) Progress {
	p := Progress{Total: len(interviews)}
	for _, i := range interviews {
		if i.Result != ResultPending {
			p.Completed++
		}
		if i.Result == ResultPass {
			p.Passed++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}

func SessionFromDataModel(s *interviewDatamodel.InterviewSession) *Session {
	return &Session{
		ID:            s.ID,
		CandidateID:   s.CandidateID,
		Title:         s.Title,
		ScheduledDate: s.ScheduledDate,
		Status:        s.Status,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func InterviewFromDataModel(i *interviewDatamodel.Interview) *Interview {
	return &Interview{
		ID:                 i.ID,
		CandidateID:        i.CandidateID,
		InterviewerID:      i.InterviewerID,
		InterviewSessionID: i.InterviewSessionID,
		TechNotes:          i.TechNotes,
		SoftNotes:          i.SoftNotes,
		Result:             i.Result,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
}

func interviewsFromDataModel(rows []*interviewDatamodel.Interview) []*Interview {
	out := make([]*Interview, 0, len(rows))
	for _, row := range rows {
		out = append(out, InterviewFromDataModel(row))
	}
	return out
}
