package submission

import (
	"context"
	"fmt"
	"log/slog"

	submissionDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/submission"
	"github.com/frahmantamala/resource-management/internal/core/events"
)

type ReminderStatusUpdater interface {
	MarkReminder(ctx context.Context, batchID string, resourceID int64, status string, failureReason *string) error
}

// EventHandler keeps reminder_logs in step with mail delivery outcomes.
type EventHandler struct {
	updater ReminderStatusUpdater
	logger  *slog.Logger
}

func NewEventHandler(updater ReminderStatusUpdater, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		updater: updater,
		logger:  logger,
	}
}

func (h *EventHandler) HandleReminderSent(ctx context.Context, event events.Event) error {
	sent, ok := event.(*events.ReminderSentEvent)
	if !ok {
		h.logger.Error("invalid event type for reminder sent handler", "event_type", event.EventType())
		return fmt.Errorf("expected ReminderSentEvent, got %T", event)
	}

	if err := h.updater.MarkReminder(ctx, sent.BatchID, sent.ResourceID, submissionDatamodel.ReminderStatusSent, nil); err != nil {
		return fmt.Errorf("mark reminder sent for resource %d: %w", sent.ResourceID, err)
	}
	return nil
}

func (h *EventHandler) HandleReminderFailed(ctx context.Context, event events.Event) error {
	failed, ok := event.(*events.ReminderFailedEvent)
	if !ok {
		h.logger.Error("invalid event type for reminder failed handler", "event_type", event.EventType())
		return fmt.Errorf("expected ReminderFailedEvent, got %T", event)
	}

	h.logger.Warn("reminder delivery failed",
		"batch_id", failed.BatchID,
		"resource_id", failed.ResourceID,
		"reason", failed.FailureReason)

	reason := failed.FailureReason
	if err := h.updater.MarkReminder(ctx, failed.BatchID, failed.ResourceID, submissionDatamodel.ReminderStatusFailed, &reason); err != nil {
		return fmt.Errorf("mark reminder failed for resource %d: %w", failed.ResourceID, err)
	}
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeReminderSent, h.HandleReminderSent)
	eventBus.Subscribe(events.EventTypeReminderFailed, h.HandleReminderFailed)

	h.logger.Info("submission event handlers registered",
		"handlers", []string{events.EventTypeReminderSent, events.EventTypeReminderFailed})
}
