package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRemindersRequested = "submission.reminders_requested"
	EventTypeReminderSent       = "submission.reminder_sent"
	EventTypeReminderFailed     = "submission.reminder_failed"
)

type ReminderRecipient struct {
	ResourceID int64  `json:"resource_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

type RemindersRequestedEvent struct {
	BaseEvent
	BatchID       string              `json:"batch_id"`
	WeekStartDate string              `json:"week_start_date"`
	RequestedBy   int64               `json:"requested_by"`
	Recipients    []ReminderRecipient `json:"recipients"`
}

func NewRemindersRequestedEvent(batchID, weekStartDate string, requestedBy int64, recipients []ReminderRecipient) *RemindersRequestedEvent {
	return &RemindersRequestedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRemindersRequested,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"batch_id":        batchID,
				"week_start_date": weekStartDate,
				"requested_by":    requestedBy,
				"recipients":      len(recipients),
			},
		},
		BatchID:       batchID,
		WeekStartDate: weekStartDate,
		RequestedBy:   requestedBy,
		Recipients:    recipients,
	}
}

type ReminderSentEvent struct {
	BaseEvent
	BatchID    string `json:"batch_id"`
	ResourceID int64  `json:"resource_id"`
	Email      string `json:"email"`
}

func NewReminderSentEvent(batchID string, resourceID int64, email string) *ReminderSentEvent {
	return &ReminderSentEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeReminderSent,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"batch_id":    batchID,
				"resource_id": resourceID,
				"email":       email,
			},
		},
		BatchID:    batchID,
		ResourceID: resourceID,
		Email:      email,
	}
}

type ReminderFailedEvent struct {
	BaseEvent
	BatchID       string `json:"batch_id"`
	ResourceID    int64  `json:"resource_id"`
	Email         string `json:"email"`
	FailureReason string `json:"failure_reason"`
}

func NewReminderFailedEvent(batchID string, resourceID int64, email, failureReason string) *ReminderFailedEvent {
	return &ReminderFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeReminderFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"batch_id":       batchID,
				"resource_id":    resourceID,
				"email":          email,
				"failure_reason": failureReason,
			},
		},
		BatchID:       batchID,
		ResourceID:    resourceID,
		Email:         email,
		FailureReason: failureReason,
	}
}
