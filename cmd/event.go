package cmd

import (
	"context"
	"encoding/json"
	"time"

	"github.com/frahmantamala/recruitment-management/internal/core/events"
	"github.com/frahmantamala/recruitment-management/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish events onto an in-process bus to check handler wiring.`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish an event to a local bus with a logging subscriber. Use "audit.recorded" to build a real audit event from --data.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent(args[0])
	},
}

var eventData string

func publishTestEvent(eventType string) {
	logger := logger.LoggerWrapper()

	eventBus := events.NewEventBus(logger)

	eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		logger.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	event := buildTestEvent(eventType, eventData)
	logger.Info("publishing test event", "event_type", eventType, "event_id", event.EventID())

	if err := eventBus.Publish(context.Background(), event); err != nil {
		logger.Error("failed to publish event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := eventBus.Shutdown(ctx); err != nil {
		logger.Error("handlers did not finish", "error", err)
		return
	}
	logger.Info("test event published successfully")
}

// buildTestEvent decodes data as an audit entry for audit.recorded, otherwise wraps it as a message.
func buildTestEvent(eventType, data string) events.Event {
	if eventType == events.EventTypeAuditRecorded {
		var entry struct {
			Action     string                 `json:"action"`
			TargetType string                 `json:"target_type"`
			TargetID   string                 `json:"target_id"`
			ActorID    *string                `json:"actor_id"`
			Details    map[string]interface{} `json:"details"`
		}
		if err := json.Unmarshal([]byte(data), &entry); err == nil {
			return events.NewAuditRecordedEvent(entry.Action, entry.TargetType, entry.TargetID, entry.Details, entry.ActorID)
		}
	}

	return events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"message": data,
			"source":  "cli-command",
		},
	}
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event payload; JSON audit entry for audit.recorded")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
