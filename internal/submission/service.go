package submission

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/resource-management/internal"
	submissionDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/submission"
	"github.com/frahmantamala/resource-management/internal/core/events"
	"github.com/frahmantamala/resource-management/internal/resource"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	Overview(ctx context.Context, weekStart time.Time, department string) ([]Record, error)
	CreateReminderLogs(ctx context.Context, logs []*submissionDatamodel.ReminderLog) error
	UpdateReminderStatus(ctx context.Context, batchID string, resourceID int64, status string, failureReason *string) error
	StaleReminders(ctx context.Context, cutoff time.Time) ([]*submissionDatamodel.ReminderLog, error)
}

type ResourceLookupAPI interface {
	GetByIDs(ctx context.Context, ids []int64) ([]resource.Resource, error)
}

type EventPublisherAPI interface {
	PublishSync(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	resources ResourceLookupAPI
	publisher EventPublisherAPI
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, resources ResourceLookupAPI, publisher EventPublisherAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		resources: resources,
		publisher: publisher,
		logger:    logger,
	}
}

func normalizeDepartment(department string) string {
	department = strings.TrimSpace(department)
	if strings.EqualFold(department, "all") {
		return ""
	}
	return department
}

func (s *Service) Overview(ctx context.Context, week, department string) ([]Record, error) {
	weekStart, err := ParseWeek(week)
	if err != nil {
		return nil, internal.NewValidationFieldError("week", err.Error(), internal.ErrCodeInvalidWeek)
	}

	records, err := s.repo.Overview(ctx, weekStart, normalizeDepartment(department))
	if err != nil {
		s.logger.Error("failed to load submission overview", "error", err, "week", week, "department", department)
		return nil, internal.NewInternalError("failed to load submission overview", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// SendReminders records one reminder per resolved resource and hands the batch to
// the mailer. Unknown ids are ignored; sentCount is the number queued.
func (s *Service) SendReminders(ctx context.Context, req ReminderRequest) (*ReminderResponse, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn("invalid reminder request", "error", err)
		return nil, err
	}
	weekStart, _ := ParseWeek(req.WeekStartDate)
	ids := uniqueIDs(req.ResourceIDs)

	resources, err := s.resources.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("failed to resolve reminder recipients", "error", err)
		return nil, internal.NewInternalError("failed to resolve recipients", err)
	}
	if len(resources) == 0 {
		return nil, internal.NewNotFoundError("none of the requested resources exist", internal.ErrCodeResourceNotFound)
	}

	var requestedBy int64
	if user, ok := internal.UserFromContext(ctx); ok {
		requestedBy = user.ID
	}

	batchID := uuid.New().String()
	logs := make([]*submissionDatamodel.ReminderLog, 0, len(resources))
	recipients := make([]events.ReminderRecipient, 0, len(resources))
	for _, r := range resources {
		logs = append(logs, &submissionDatamodel.ReminderLog{
			BatchID:       batchID,
			ResourceID:    r.ID,
			WeekStartDate: weekStart,
			RequestedBy:   requestedBy,
			Status:        submissionDatamodel.ReminderStatusQueued,
		})
		recipients = append(recipients, events.ReminderRecipient{
			ResourceID: r.ID,
			Name:       r.Name,
			Email:      r.Email,
		})
	}

	if err := s.repo.CreateReminderLogs(ctx, logs); err != nil {
		s.logger.Error("failed to record reminders", "error", err, "batch_id", batchID)
		return nil, internal.NewInternalError("failed to record reminders", err)
	}

	event := events.NewRemindersRequestedEvent(batchID, req.WeekStartDate, requestedBy, recipients)
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Error("failed to queue reminders", "error", err, "batch_id", batchID)
		s.failBatch(ctx, batchID, recipients, err)
		return nil, internal.NewUnavailableError("reminders could not be queued", internal.ErrCodeReminderQueueFull, err)
	}

	s.logger.Info("reminders queued",
		"batch_id", batchID,
		"week_start_date", req.WeekStartDate,
		"requested", len(ids),
		"sent_count", len(resources),
		"requested_by", requestedBy)

	return &ReminderResponse{SentCount: len(resources), BatchID: batchID}, nil
}

// Export renders the overview for week and department as a workbook.
func (s *Service) Export(ctx context.Context, week, department string) ([]byte, string, error) {
	records, err := s.Overview(ctx, week, department)
	if err != nil {
		return nil, "", err
	}

	data, err := RenderWorkbook(records, ComputeStats(records, s.logger))
	if err != nil {
		s.logger.Error("failed to render submission workbook", "error", err, "week", week)
		return nil, "", &internal.AppError{
			Type:       internal.ErrorTypeInternal,
			Code:       internal.ErrCodeExportFailed,
			Message:    "failed to export submissions",
			StatusCode: http.StatusInternalServerError,
			Cause:      err,
		}
	}
	return data, FileName(week), nil
}

// failBatch closes out reminders the mailer refused so that no later sweep
// sends them.
func (s *Service) failBatch(ctx context.Context, batchID string, recipients []events.ReminderRecipient, cause error) {
	reason := "not queued: " + cause.Error()
	for _, r := range recipients {
		if err := s.repo.UpdateReminderStatus(ctx, batchID, r.ResourceID, submissionDatamodel.ReminderStatusFailed, &reason); err != nil {
			s.logger.Warn("failed to mark rejected reminder", "batch_id", batchID, "resource_id", r.ResourceID, "error", err)
		}
	}
}

func (s *Service) MarkReminder(ctx context.Context, batchID string, resourceID int64, status string, failureReason *string) error {
	return s.repo.UpdateReminderStatus(ctx, batchID, resourceID, status, failureReason)
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// RequeueStale hands reminders that stayed queued for longer than olderThan back
// to the mailer, one event per original batch. It returns how many were requeued.
func (s *Service) RequeueStale(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := s.repo.StaleReminders(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("load stale reminders: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(stale))
	for _, l := range stale {
		ids = append(ids, l.ResourceID)
	}
	resources, err := s.resources.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return 0, fmt.Errorf("resolve stale reminder recipients: %w", err)
	}
	byID := make(map[int64]resource.Resource, len(resources))
	for _, r := range resources {
		byID[r.ID] = r
	}

	var batches []*events.RemindersRequestedEvent
	index := make(map[string]*events.RemindersRequestedEvent)
	for _, l := range stale {
		r, ok := byID[l.ResourceID]
		if !ok {
			reason := "resource no longer exists"
			if err := s.repo.UpdateReminderStatus(ctx, l.BatchID, l.ResourceID, submissionDatamodel.ReminderStatusFailed, &reason); err != nil {
				s.logger.Warn("failed to mark orphaned reminder", "batch_id", l.BatchID, "resource_id", l.ResourceID, "error", err)
			}
			continue
		}

		event, ok := index[l.BatchID]
		if !ok {
			event = events.NewRemindersRequestedEvent(l.BatchID, l.WeekStartDate.Format(time.DateOnly), l.RequestedBy, nil)
			index[l.BatchID] = event
			batches = append(batches, event)
		}
		event.Recipients = append(event.Recipients, events.ReminderRecipient{ResourceID: r.ID, Name: r.Name, Email: r.Email})
	}

	requeued := 0
	for _, event := range batches {
		if err := s.publisher.PublishSync(ctx, event); err != nil {
			s.failBatch(ctx, event.BatchID, event.Recipients, err)
			return requeued, fmt.Errorf("requeue batch %s: %w", event.BatchID, err)
		}
		for _, rcpt := range event.Recipients {
			if err := s.repo.UpdateReminderStatus(ctx, event.BatchID, rcpt.ResourceID, submissionDatamodel.ReminderStatusQueued, nil); err != nil {
				s.logger.Warn("failed to touch requeued reminder", "batch_id", event.BatchID, "resource_id", rcpt.ResourceID, "error", err)
			}
		}
		requeued += len(event.Recipients)
		s.logger.Info("stale reminders requeued", "batch_id", event.BatchID, "count", len(event.Recipients))
	}
	return requeued, nil
}
