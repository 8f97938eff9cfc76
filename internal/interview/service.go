package interview

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/audit"
	"github.com/frahmantamala/recruitment-management/internal/candidate"
	interviewDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/interview"
	"github.com/frahmantamala/recruitment-management/internal/store"
	"github.com/frahmantamala/recruitment-management/internal/user"
)

type RepositoryAPI interface {
	CreateSession(ctx context.Context, s *interviewDatamodel.InterviewSession) error
	CreateInterviews(ctx context.Context, interviews []*interviewDatamodel.Interview) error
	GetSession(ctx context.Context, id string) (*interviewDatamodel.InterviewSession, error)
	ListSessionsByCandidate(ctx context.Context, candidateID string) ([]*interviewDatamodel.InterviewSession, error)
	// UpdateSessionStatus is a compare-and-set on status; a lost race yields store.ErrStaleRecord.
	UpdateSessionStatus(ctx context.Context, id, fromStatus, toStatus string) error
	GetInterview(ctx context.Context, id string) (*interviewDatamodel.Interview, error)
	ListInterviewsBySession(ctx context.Context, sessionID string) ([]*interviewDatamodel.Interview, error)
	ListInterviewsByInterviewer(ctx context.Context, interviewerID string) ([]*interviewDatamodel.Interview, error)
	// UpdateEvaluation is conditional on the session being open; a closed one yields store.ErrStaleRecord.
	UpdateEvaluation(ctx context.Context, i *interviewDatamodel.Interview) error
}

// CandidateWorkflow is the slice of the candidate lifecycle the coordinator drives.
type CandidateWorkflow interface {
	Find(ctx context.Context, id string) (*candidate.Candidate, error)
	EnterInterview(ctx context.Context, actor internal.Actor, id string) (*candidate.Candidate, error)
}

type UserDirectory interface {
	FindByIDs(ctx context.Context, ids []string) ([]*user.User, error)
}

type Service struct {
	repo       RepositoryAPI
	candidates CandidateWorkflow
	users      UserDirectory
	tx         store.Transactor
	audit      audit.Recorder
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, candidates CandidateWorkflow, users UserDirectory, tx store.Transactor, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		candidates: candidates,
		users:      users,
		tx:         tx,
		audit:      recorder,
		logger:     logger,
	}
}

// CreateSession schedules a session and fans it out to one PENDING interview per interviewer.
// The session, its interviews and the candidate's move to INTERVIEW commit together.
func (s *Service) CreateSession(ctx context.Context, actor internal.Actor, dto CreateSessionDTO) (*SessionDetail, error) {
	if len(dto.InterviewerIDs) == 0 {
		return nil, internal.ErrNoInterviewerSelected
	}

	dto.Normalize()
	if hasDuplicates(dto.InterviewerIDs) {
		return nil, internal.ErrDuplicateInterviewer
	}

	if !actor.IsStaff() {
		s.logger.Warn("session creation denied", "actor_id", actor.ID, "role", actor.Role)
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.candidates.Find(ctx, dto.CandidateID)
	if err != nil {
		return nil, err
	}
	if c.Status != candidate.StatusApproved && c.Status != candidate.StatusInterview {
		s.logger.Info("candidate not eligible for interview", "candidate_id", c.ID, "status", c.Status)
		return nil, internal.ErrCandidateNotEligible
	}

	if err := s.checkInterviewers(ctx, dto.InterviewerIDs); err != nil {
		return nil, err
	}

	session := &interviewDatamodel.InterviewSession{
		CandidateID:   c.ID,
		Title:         dto.Title,
		ScheduledDate: dto.ScheduledDate,
		Status:        SessionScheduled,
		CreatedBy:     actor.ID,
	}
	var rows []*interviewDatamodel.Interview

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateSession(ctx, session); err != nil {
			return err
		}

		rows = make([]*interviewDatamodel.Interview, 0, len(dto.InterviewerIDs))
		for _, interviewerID := range dto.InterviewerIDs {
			rows = append(rows, &interviewDatamodel.Interview{
				CandidateID:        c.ID,
				InterviewerID:      interviewerID,
				InterviewSessionID: session.ID,
				Result:             ResultPending,
			})
		}
		if err := s.repo.CreateInterviews(ctx, rows); err != nil {
			return err
		}

		if _, err := s.candidates.EnterInterview(ctx, actor, c.ID); err != nil {
			return err
		}

		store.AfterCommit(ctx, func(ctx context.Context) {
			s.audit.Record(ctx, audit.ActionInterviewSessionCreated, audit.TargetInterviewSession, session.ID, map[string]interface{}{
				"candidate_id":    c.ID,
				"interviewer_ids": dto.InterviewerIDs,
				"scheduled_date":  session.ScheduledDate,
			}, audit.ActorRef(actor.ID))
		})
		return nil
	})
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		if errors.Is(err, store.ErrUniqueViolation) {
			return nil, internal.ErrDuplicateInterviewer
		}
		s.logger.Error("failed to create interview session", "error", err, "candidate_id", c.ID)
		return nil, internal.NewInternalError("failed to create interview session", err)
	}

	s.logger.Info("interview session created", "session_id", session.ID, "candidate_id", c.ID, "interviewers", len(rows))

	interviews := interviewsFromDataModel(rows)
	return &SessionDetail{
		Session:    SessionFromDataModel(session),
		Interviews: interviews,
		Progress:   ComputeProgress(interviews),
	}, nil
}

func (s *Service) checkInterviewers(ctx context.Context, ids []string) error {
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[string]*user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, id := range ids {
		u, ok := byID[id]
		switch {
		case !ok:
			return internal.NewInvalidInterviewerError(id, "does not exist")
		case !u.IsActive():
			return internal.NewInvalidInterviewerError(id, "is not active")
		case !user.IsValidRole(u.Role):
			return internal.NewInvalidInterviewerError(id, "cannot conduct interviews")
		}
	}
	return nil
}

// GetSession is visible to staff and to the session's interviewers.
func (s *Service) GetSession(ctx context.Context, actor internal.Actor, id string) (*SessionDetail, error) {
	session, err := s.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListInterviewsBySession(ctx, id)
	if err != nil {
		s.logger.Error("failed to load interviews", "error", err, "session_id", id)
		return nil, internal.NewInternalError("failed to load interviews", err)
	}
	interviews := interviewsFromDataModel(rows)

	if !actor.IsStaff() && !isInterviewer(interviews, actor.ID) {
		return nil, internal.ErrUnauthorizedAccess
	}

	return &SessionDetail{
		Session:    SessionFromDataModel(session),
		Interviews: interviews,
		Progress:   ComputeProgress(interviews),
	}, nil
}

func (s *Service) GetProgress(ctx context.Context, actor internal.Actor, sessionID string) (*Progress, error) {
	detail, err := s.GetSession(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}
	return &detail.Progress, nil
}

func (s *Service) ListSessions(ctx context.Context, actor internal.Actor, candidateID string) ([]*Session, error) {
	if !actor.IsStaff() {
		return nil, internal.ErrUnauthorizedAccess
	}

	if _, err := s.candidates.Find(ctx, candidateID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListSessionsByCandidate(ctx, candidateID)
	if err != nil {
		s.logger.Error("failed to list sessions", "error", err, "candidate_id", candidateID)
		return nil, internal.NewInternalError("failed to list interview sessions", err)
	}

	sessions := make([]*Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, SessionFromDataModel(row))
	}
	return sessions, nil
}

func (s *Service) ListMyInterviews(ctx context.Context, actor internal.Actor) ([]*Interview, error) {
	rows, err := s.repo.ListInterviewsByInterviewer(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to list interviews", "error", err, "interviewer_id", actor.ID)
		return nil, internal.NewInternalError("failed to list interviews", err)
	}
	return interviewsFromDataModel(rows), nil
}

// RecordEvaluation stores an interviewer's verdict. Session and candidate status are not derived from it.
func (s *Service) RecordEvaluation(ctx context.Context, actor internal.Actor, interviewID string, dto EvaluationDTO) (*Interview, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetInterview(ctx, interviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, internal.ErrInterviewNotFound
		}
		s.logger.Error("failed to load interview", "error", err, "interview_id", interviewID)
		return nil, internal.NewInternalError("failed to load interview", err)
	}

	if row.InterviewerID != actor.ID && !actor.IsStaff() {
		s.logger.Warn("evaluation denied", "actor_id", actor.ID, "interview_id", interviewID)
		return nil, internal.ErrUnauthorizedAccess
	}

	session, err := s.loadSession(ctx, row.InterviewSessionID)
	if err != nil {
		return nil, err
	}
	if SessionFromDataModel(session).IsClosed() {
		return nil, internal.ErrSessionClosed
	}

	row.TechNotes = dto.TechNotes
	row.SoftNotes = dto.SoftNotes
	row.Result = dto.Result
	if err := s.repo.UpdateEvaluation(ctx, row); err != nil {
		if errors.Is(err, store.ErrStaleRecord) {
			s.logger.Info("session closed before evaluation was stored", "interview_id", interviewID, "session_id", row.InterviewSessionID)
			return nil, internal.ErrSessionClosed
		}
		s.logger.Error("failed to store evaluation", "error", err, "interview_id", interviewID)
		return nil, internal.NewInternalError("failed to record evaluation", err)
	}

	s.audit.Record(ctx, audit.ActionInterviewEvaluated, audit.TargetInterview, row.ID, map[string]interface{}{
		"session_id": row.InterviewSessionID,
		"result":     row.Result,
	}, audit.ActorRef(actor.ID))

	return InterviewFromDataModel(row), nil
}

func (s *Service) StartSession(ctx context.Context, actor internal.Actor, id string) (*Session, error) {
	return s.moveSession(ctx, actor, id, SessionInProgress, SessionScheduled)
}

// CloseSession marks a session COMPLETED; there is no automatic closeout.
func (s *Service) CloseSession(ctx context.Context, actor internal.Actor, id string) (*Session, error) {
	return s.moveSession(ctx, actor, id, SessionCompleted, SessionScheduled, SessionInProgress)
}

func (s *Service) CancelSession(ctx context.Context, actor internal.Actor, id string) (*Session, error) {
	return s.moveSession(ctx, actor, id, SessionCancelled, SessionScheduled, SessionInProgress)
}

func (s *Service) moveSession(ctx context.Context, actor internal.Actor, id, target string, allowedFrom ...string) (*Session, error) {
	if !actor.IsStaff() {
		return nil, internal.ErrUnauthorizedAccess
	}

	row, err := s.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	from := row.Status
	if !contains(allowedFrom, from) {
		s.logger.Info("invalid session status change", "session_id", id, "from", from, "to", target)
		return nil, internal.ErrInvalidSessionStatus
	}

	if err := s.repo.UpdateSessionStatus(ctx, id, from, target); err != nil {
		if errors.Is(err, store.ErrStaleRecord) {
			return nil, internal.ErrConcurrentModification
		}
		s.logger.Error("failed to update session status", "error", err, "session_id", id)
		return nil, internal.NewInternalError("failed to update interview session", err)
	}
	row.Status = target

	s.audit.Record(ctx, audit.ActionInterviewSessionUpdated, audit.TargetInterviewSession, id, map[string]interface{}{
		"from": from,
		"to":   target,
	}, audit.ActorRef(actor.ID))

	return SessionFromDataModel(row), nil
}

func (s *Service) loadSession(ctx context.Context, id string) (*interviewDatamodel.InterviewSession, error) {
	row, err := s.repo.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, internal.ErrInterviewSessionNotFound
		}
		s.logger.Error("failed to load interview session", "error", err, "session_id", id)
		return nil, internal.NewInternalError("failed to load interview session", err)
	}
	return row, nil
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func isInterviewer(interviews []*Interview, userID string) bool {
	for _, i := range interviews {
		if i.InterviewerID == userID {
			return true
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
