package audit

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/recruitment-management/internal/core/events"
)

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// SyncPublisher runs the bus handlers before Publish returns.
type SyncPublisher struct {
	Bus *events.EventBus
}

func (p SyncPublisher) Publish(ctx context.Context, event events.Event) error {
	return p.Bus.PublishSync(ctx, event)
}

// EventRecorder hands audit entries to the event bus; EventHandler persists them.
type EventRecorder struct {
	publisher Publisher
	logger    *slog.Logger
}

func NewEventRecorder(publisher Publisher, logger *slog.Logger) *EventRecorder {
	return &EventRecorder{
		publisher: publisher,
		logger:    logger,
	}
}

func (r *EventRecorder) Record(ctx context.Context, action, targetType, targetID string, payload map[string]interface{}, actorID *string) {
	event := events.NewAuditRecordedEvent(action, targetType, targetID, payload, actorID)
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.logger.Error("failed to publish audit entry",
			"error", err,
			"action", action,
			"target_type", targetType,
			"target_id", targetID)
	}
}
