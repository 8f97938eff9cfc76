package audit

import (
	"context"
	"fmt"
	"log/slog"

	auditDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/audit"
	"github.com/frahmantamala/recruitment-management/internal/core/events"
)

type EventHandler struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewEventHandler(repo RepositoryAPI, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		repo:   repo,
		logger: logger,
	}
}

func (h *EventHandler) HandleAuditRecorded(ctx context.Context, event events.Event) error {
	auditEvent, ok := event.(*events.AuditRecordedEvent)
	if !ok {
		h.logger.Error("invalid event type for audit handler", "event_type", event.EventType())
		return fmt.Errorf("expected AuditRecordedEvent, got %T", event)
	}

	entry := &auditDatamodel.AuditLog{
		ActorID:    auditEvent.ActorID,
		Action:     auditEvent.Action,
		TargetType: auditEvent.TargetType,
		TargetID:   auditEvent.TargetID,
		Payload:    auditDatamodel.Payload(auditEvent.Details),
		CreatedAt:  auditEvent.OccurredAt(),
	}

	if err := h.repo.Create(ctx, entry); err != nil {
		h.logger.Error("failed to persist audit entry",
			"error", err,
			"action", auditEvent.Action,
			"target_type", auditEvent.TargetType,
			"target_id", auditEvent.TargetID,
			"event_id", auditEvent.EventID())
		return fmt.Errorf("audit entry for %s %s: %w", auditEvent.TargetType, auditEvent.TargetID, err)
	}

	h.logger.Debug("audit entry persisted",
		"audit_id", entry.ID,
		"action", auditEvent.Action,
		"target_id", auditEvent.TargetID)

	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeAuditRecorded, h.HandleAuditRecorded)

	h.logger.Info("audit event handlers registered",
		"handlers", []string{events.EventTypeAuditRecorded})
}
