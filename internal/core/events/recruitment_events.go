package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAuditRecorded = "audit.recorded"
)

// AuditRecordedEvent carries one audit entry from the recorder to its persistence handler.
type AuditRecordedEvent struct {
	BaseEvent
	Action     string                 `json:"action"`
	TargetType string                 `json:"target_type"`
	TargetID   string                 `json:"target_id"`
	ActorID    *string                `json:"actor_id,omitempty"`
	Details    map[string]interface{} `json:"details"`
}

func NewAuditRecordedEvent(action, targetType, targetID string, details map[string]interface{}, actorID *string) *AuditRecordedEvent {
	data := map[string]interface{}{
		"action":      action,
		"target_type": targetType,
		"target_id":   targetID,
		"details":     details,
	}
	if actorID != nil {
		data["actor_id"] = *actorID
	}

	return &AuditRecordedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAuditRecorded,
			Timestamp: time.Now(),
			Data:      data,
		},
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		ActorID:    actorID,
		Details:    details,
	}
}
