package position

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/audit"
	positionDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/position"
	"github.com/frahmantamala/recruitment-management/internal/store"
)

type RepositoryAPI interface {
	Create(ctx context.Context, p *positionDatamodel.Position) error
	GetByID(ctx context.Context, id string) (*positionDatamodel.Position, error)
	List(ctx context.Context, filter ListFilter) ([]*positionDatamodel.Position, int64, error)
	Update(ctx context.Context, p *positionDatamodel.Position) error
}

type Service struct {
	repo   RepositoryAPI
	audit  audit.Recorder
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		audit:  recorder,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, actor internal.Actor, dto CreatePositionDTO) (*Position, error) {
	if !actor.HasRole(internal.RoleAdmin) {
		s.logger.Warn("position creation denied", "actor_id", actor.ID, "role", actor.Role)
		return nil, internal.ErrUnauthorizedAccess
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	isOpen := true
	if dto.IsOpen != nil {
		isOpen = *dto.IsOpen
	}

	row := &positionDatamodel.Position{
		Title:       dto.Title,
		Department:  dto.Department,
		Description: dto.Description,
		IsOpen:      isOpen,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create position", "error", err, "title", dto.Title)
		return nil, internal.NewInternalError("failed to create position", err)
	}

	s.audit.Record(ctx, audit.ActionPositionCreated, audit.TargetPosition, row.ID, map[string]interface{}{
		"title":   row.Title,
		"is_open": row.IsOpen,
	}, audit.ActorRef(actor.ID))

	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actor internal.Actor, id string, dto UpdatePositionDTO) (*Position, error) {
	if !actor.HasRole(internal.RoleAdmin) {
		s.logger.Warn("position update denied", "actor_id", actor.ID, "position_id", id)
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{}
	if dto.Title != nil {
		row.Title = strings.TrimSpace(*dto.Title)
		payload["title"] = row.Title
	}
	if dto.Department != nil {
		row.Department = strings.TrimSpace(*dto.Department)
		payload["department"] = row.Department
	}
	if dto.Description != nil {
		row.Description = strings.TrimSpace(*dto.Description)
	}
	if dto.IsOpen != nil {
		row.IsOpen = *dto.IsOpen
		payload["is_open"] = row.IsOpen
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update position", "error", err, "position_id", id)
		return nil, internal.NewInternalError("failed to update position", err)
	}

	s.audit.Record(ctx, audit.ActionPositionUpdated, audit.TargetPosition, id, payload, audit.ActorRef(actor.ID))

	return FromDataModel(row), nil
}

// GetPublic returns an open position; closed positions are reported as missing.
func (s *Service) GetPublic(ctx context.Context, id string) (*Position, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !row.IsOpen {
		return nil, internal.ErrPositionNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) ListOpen(ctx context.Context, limit, offset int) (*ListResponse, error) {
	return s.list(ctx, ListFilter{OnlyOpen: true, Limit: limit, Offset: offset})
}

func (s *Service) ListAll(ctx context.Context, actor internal.Actor, limit, offset int) (*ListResponse, error) {
	if !actor.IsStaff() {
		return nil, internal.ErrUnauthorizedAccess
	}
	return s.list(ctx, ListFilter{Limit: limit, Offset: offset})
}

// EnsureOpen reports whether applications may be filed against the position.
func (s *Service) EnsureOpen(ctx context.Context, id string) error {
	row, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !row.IsOpen {
		return internal.ErrPositionClosed
	}
	return nil
}

func (s *Service) list(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list positions", "error", err)
		return nil, internal.NewInternalError("failed to list positions", err)
	}

	positions := make([]*Position, 0, len(rows))
	for _, row := range rows {
		positions = append(positions, FromDataModel(row))
	}
	return &ListResponse{Positions: positions, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *Service) load(ctx context.Context, id string) (*positionDatamodel.Position, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, internal.ErrPositionNotFound
		}
		s.logger.Error("failed to load position", "error", err, "position_id", id)
		return nil, internal.NewInternalError("failed to load position", err)
	}
	return row, nil
}
