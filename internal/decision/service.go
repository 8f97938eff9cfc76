package decision

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/audit"
	"github.com/frahmantamala/recruitment-management/internal/candidate"
	decisionDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/decision"
	"github.com/frahmantamala/recruitment-management/internal/store"
)

type RepositoryAPI interface {
	Create(ctx context.Context, d *decisionDatamodel.Decision) error
	ListByCandidate(ctx context.Context, candidateID string) ([]*decisionDatamodel.Decision, error)
}

type CandidateWorkflow interface {
	Find(ctx context.Context, id string) (*candidate.Candidate, error)
	ApplyDecisionOutcome(ctx context.Context, actor internal.Actor, id, target string) (*candidate.Candidate, error)
}

type Service struct {
	repo       RepositoryAPI
	candidates CandidateWorkflow
	tx         store.Transactor
	audit      audit.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, candidates CandidateWorkflow, tx store.Transactor, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		candidates: candidates,
		tx:         tx,
		audit:      recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// RecordDecision stores the verdict and resolves the candidate in one transaction.
// Employee provisioning and the OFFERED to HIRED step stay with the caller.
func (s *Service) RecordDecision(ctx context.Context, actor internal.Actor, dto RecordDecisionDTO) (*DecisionResponse, error) {
	if !actor.IsStaff() {
		s.logger.Warn("decision denied", "actor_id", actor.ID, "role", actor.Role)
		return nil, internal.ErrUnauthorizedAccess
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	target, _ := Outcome(dto.Decision)

	c, err := s.candidates.Find(ctx, dto.CandidateID)
	if err != nil {
		return nil, err
	}
	if c.Status != candidate.StatusInterview {
		s.logger.Info("decision on candidate outside interview", "candidate_id", c.ID, "status", c.Status)
		return nil, internal.NewInvalidTransitionError(c.Status, target)
	}

	row := &decisionDatamodel.Decision{
		CandidateID:   c.ID,
		DecidedBy:     actor.ID,
		Decision:      dto.Decision,
		DecisionNotes: dto.Notes,
		DecidedAt:     s.now().UTC(),
	}

	var resolved *candidate.Candidate
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, row); err != nil {
			return err
		}

		updated, err := s.candidates.ApplyDecisionOutcome(ctx, actor, c.ID, target)
		if err != nil {
			return err
		}
		resolved = updated

		store.AfterCommit(ctx, func(ctx context.Context) {
			s.audit.Record(ctx, audit.ActionDecisionRecorded, audit.TargetDecision, row.ID, map[string]interface{}{
				"candidate_id": c.ID,
				"decision":     row.Decision,
			}, audit.ActorRef(actor.ID))
		})
		return nil
	})
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to record decision", "error", err, "candidate_id", c.ID)
		return nil, internal.NewInternalError("failed to record decision", err)
	}

	s.logger.Info("decision recorded", "candidate_id", c.ID, "decision", row.Decision, "status", resolved.Status)
	return &DecisionResponse{Decision: FromDataModel(row), Candidate: resolved}, nil
}

func (s *Service) ListByCandidate(ctx context.Context, actor internal.Actor, candidateID string) ([]*Decision, error) {
	if !actor.IsStaff() {
		return nil, internal.ErrUnauthorizedAccess
	}

	if _, err := s.candidates.Find(ctx, candidateID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByCandidate(ctx, candidateID)
	if err != nil {
		s.logger.Error("failed to list decisions", "error", err, "candidate_id", candidateID)
		return nil, internal.NewInternalError("failed to list decisions", err)
	}

	decisions := make([]*Decision, 0, len(rows))
	for _, row := range rows {
		decisions = append(decisions, FromDataModel(row))
	}
	return decisions, nil
}
