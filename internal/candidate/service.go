package candidate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/audit"
	candidateDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/candidate"
	"github.com/frahmantamala/recruitment-management/internal/store"
)

type RepositoryAPI interface {
	Create(ctx context.Context, c *candidateDatamodel.Candidate) error
	GetByID(ctx context.Context, id string) (*candidateDatamodel.Candidate, error)
	ExistsForPosition(ctx context.Context, email, positionID string) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]*candidateDatamodel.Candidate, int64, error)
	// UpdateStatus is a compare-and-set on (status, version); a lost race yields store.ErrStaleRecord.
	UpdateStatus(ctx context.Context, id, fromStatus string, version int, toStatus string) error
}

// PositionChecker gates applications on the target position being open.
type PositionChecker interface {
	EnsureOpen(ctx context.Context, positionID string) error
}

type Service struct {
	repo      RepositoryAPI
	positions PositionChecker
	audit     audit.Recorder
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, positions PositionChecker, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		positions: positions,
		audit:     recorder,
		logger:    logger,
	}
}

// SubmitApplication files an anonymous application against an open position.
func (s *Service) SubmitApplication(ctx context.Context, dto SubmitApplicationDTO) (*Candidate, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("application validation failed", "error", err)
		return nil, err
	}

	if err := s.positions.EnsureOpen(ctx, dto.AppliedPositionID); err != nil {
		s.logger.Info("application rejected by position check", "position_id", dto.AppliedPositionID, "error", err)
		return nil, err
	}

	exists, err := s.repo.ExistsForPosition(ctx, dto.Email, dto.AppliedPositionID)
	if err != nil {
		s.logger.Error("failed to check existing applications", "error", err)
		return nil, internal.NewInternalError("failed to submit application", err)
	}
	if exists {
		return nil, internal.ErrDuplicateApplication
	}

	row := &candidateDatamodel.Candidate{
		FullName:          dto.FullName,
		Email:             dto.Email,
		Phone:             dto.Phone,
		CVURL:             dto.CVURL,
		AppliedPositionID: dto.AppliedPositionID,
		Status:            StatusSubmitted,
		Version:           1,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return nil, internal.ErrDuplicateApplication
		}
		if errors.Is(err, store.ErrForeignKeyViolation) {
			return nil, internal.ErrPositionNotFound
		}
		s.logger.Error("failed to create candidate", "error", err)
		return nil, internal.NewInternalError("failed to submit application", err)
	}

	s.audit.Record(ctx, audit.ActionCandidateSubmitted, audit.TargetCandidate, row.ID, map[string]interface{}{
		"position_id": row.AppliedPositionID,
		"status":      row.Status,
	}, nil)

	s.logger.Info("application submitted", "candidate_id", row.ID, "position_id", row.AppliedPositionID)
	return FromDataModel(row), nil
}

func (s *Service) Get(ctx context.Context, actor internal.Actor, id string) (*Candidate, error) {
	if !actor.IsStaff() {
		return nil, internal.ErrUnauthorizedAccess
	}
	return s.Find(ctx, id)
}

// Find loads a candidate without an authorization check, for collaborating services.
func (s *Service) Find(ctx context.Context, id string) (*Candidate, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, actor internal.Actor, filter ListFilter) (*ListResponse, error) {
	if !actor.IsStaff() {
		return nil, internal.ErrUnauthorizedAccess
	}
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, internal.NewValidationFieldError("status", "unknown candidate status", internal.ErrCodeValidationFailed)
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list candidates", "error", err)
		return nil, internal.NewInternalError("failed to list candidates", err)
	}

	candidates := make([]*Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, FromDataModel(row))
	}
	return &ListResponse{Candidates: candidates, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// Transition moves a candidate one step along the lifecycle on behalf of HR or an admin.
func (s *Service) Transition(ctx context.Context, actor internal.Actor, id, target string) (*Candidate, error) {
	if !actor.IsStaff() {
		s.logger.Warn("candidate transition denied", "actor_id", actor.ID, "role", actor.Role, "candidate_id", id)
		return nil, internal.ErrUnauthorizedAccess
	}

	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(row.Status, target, false) {
		s.logger.Info("invalid candidate transition", "candidate_id", id, "from", row.Status, "to", target, "terminal", IsTerminal(row.Status))
		return nil, internal.NewInvalidTransitionError(row.Status, target)
	}

	return s.apply(ctx, actor, row, target)
}

func (s *Service) Approve(ctx context.Context, actor internal.Actor, id string) (*Candidate, error) {
	return s.Transition(ctx, actor, id, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, actor internal.Actor, id string) (*Candidate, error) {
	return s.Transition(ctx, actor, id, StatusRejected)
}

func (s *Service) MarkHired(ctx context.Context, actor internal.Actor, id string) (*Candidate, error) {
	return s.Transition(ctx, actor, id, StatusHired)
}

func (s *Service) MarkNotHired(ctx context.Context, actor internal.Actor, id string) (*Candidate, error) {
	return s.Transition(ctx, actor, id, StatusNotHired)
}

// EnterInterview moves an APPROVED candidate to INTERVIEW; candidates already
// interviewing are left as they are.
func (s *Service) EnterInterview(ctx context.Context, actor internal.Actor, id string) (*Candidate, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	switch row.Status {
	case StatusInterview:
		return FromDataModel(row), nil
	case StatusApproved:
		return s.apply(ctx, actor, row, StatusInterview)
	default:
		return nil, internal.ErrCandidateNotEligible
	}
}

// ApplyDecisionOutcome resolves an interviewing candidate to OFFERED or NOT_HIRED.
func (s *Service) ApplyDecisionOutcome(ctx context.Context, actor internal.Actor, id, target string) (*Candidate, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(row.Status, target, true) {
		return nil, internal.NewInvalidTransitionError(row.Status, target)
	}

	return s.apply(ctx, actor, row, target)
}

func (s *Service) apply(ctx context.Context, actor internal.Actor, row *candidateDatamodel.Candidate, target string) (*Candidate, error) {
	from := row.Status
	if err := s.repo.UpdateStatus(ctx, row.ID, from, row.Version, target); err != nil {
		if errors.Is(err, store.ErrStaleRecord) {
			s.logger.Warn("candidate modified concurrently", "candidate_id", row.ID, "from", from, "to", target)
			return nil, internal.ErrConcurrentModification
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, internal.ErrCandidateNotFound
		}
		s.logger.Error("failed to update candidate status", "error", err, "candidate_id", row.ID)
		return nil, internal.NewInternalError("failed to update candidate status", err)
	}

	row.Status = target
	row.Version++

	candidateID := row.ID
	store.AfterCommit(ctx, func(ctx context.Context) {
		s.audit.Record(ctx, audit.ActionStatusChanged, audit.TargetCandidate, candidateID, map[string]interface{}{
			"from":  from,
			"to":    target,
			"actor": actor.ID,
		}, audit.ActorRef(actor.ID))
	})

	s.logger.Info("candidate status changed", "candidate_id", row.ID, "from", from, "to", target, "final", IsTerminal(target), "actor_id", actor.ID)
	return FromDataModel(row), nil
}

func (s *Service) load(ctx context.Context, id string) (*candidateDatamodel.Candidate, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, internal.ErrCandidateNotFound
		}
		s.logger.Error("failed to load candidate", "error", err, "candidate_id", id)
		return nil, internal.NewInternalError("failed to load candidate", err)
	}
	return row, nil
}
