package audit

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/recruitment-management/internal"
	auditDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/audit"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type RepositoryAPI interface {
	Create(ctx context.Context, entry *auditDatamodel.AuditLog) error
	List(ctx context.Context, filter ListFilter) ([]*auditDatamodel.AuditLog, int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, actor internal.Actor, filter ListFilter) (*ListResponse, error) {
	if !actor.HasRole(internal.RoleAdmin) {
		s.logger.Warn("audit log listing denied", "actor_id", actor.ID, "role", actor.Role)
		return nil, internal.ErrUnauthorizedAccess
	}

	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list audit logs", "error", err)
		return nil, internal.NewInternalError("failed to list audit logs", err)
	}

	logs := make([]*AuditLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, FromDataModel(row))
	}

	return &ListResponse{
		AuditLogs: logs,
		Total:     total,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	}, nil
}
