package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/frahmantamala/resource-management/internal/submission"
)

const allDepartments = "all"

type TrackerAPI interface {
	Submissions(ctx context.Context, week, department string) ([]submission.Record, error)
	SendReminders(ctx context.Context, req submission.ReminderRequest) (*submission.ReminderResponse, error)
	ExportSubmissions(ctx context.Context, week, department string) ([]byte, error)
}

// SubmissionTracker is the weekly timesheet compliance page.
type SubmissionTracker struct {
	api      TrackerAPI
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	guard    Guard

	mu         sync.RWMutex
	week       string
	department string
	snapshot   *trackerSnapshot
}

// trackerSnapshot is one loaded overview together with the filter it was
// loaded for.
type trackerSnapshot struct {
	week       string
	department string
	records    []submission.Record
}

func NewSubmissionTracker(api TrackerAPI, notifier Notifier, logger *slog.Logger) *SubmissionTracker {
	t := &SubmissionTracker{
		api:        api,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
		department: allDepartments,
	}
	t.week = submission.WeekStart(t.now()).Format(submission.WeekLayout)
	return t
}

func (t *SubmissionTracker) Weeks() []submission.Week {
	return submission.Weeks(t.now())
}

// Select changes the week and department filter. It does not fetch, but a
// change drops the loaded overview and any load still in flight.
func (t *SubmissionTracker) Select(week, department string) error {
	if week == "" {
		week = submission.WeekStart(t.now()).Format(submission.WeekLayout)
	}
	if _, err := submission.ParseWeek(week); err != nil {
		return err
	}
	if strings.TrimSpace(department) == "" {
		department = allDepartments
	}

	t.mu.Lock()
	changed := week != t.week || department != t.department
	t.week = week
	t.department = department
	if changed {
		t.snapshot = nil
	}
	t.mu.Unlock()

	if changed {
		t.guard.Reset()
	}
	return nil
}

func (t *SubmissionTracker) Selection() (week, department string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.week, t.department
}

func (t *SubmissionTracker) Load(ctx context.Context) error {
	week, dept := t.Selection()

	reqCtx, token := t.guard.Begin(ctx)
	records, err := t.api.Submissions(reqCtx, week, dept)
	if err != nil {
		if !t.guard.IsCurrent(token) {
			return ErrStaleResponse
		}
		t.guard.Done(token)
		t.logger.Error("failed to load submissions", "week", week, "department", dept, "error", err)
		t.notifier.Notify(errorNotice("Error", "Failed to load submission overview."))
		return fmt.Errorf("load submissions for %s: %w", week, err)
	}
	if records == nil {
		records = []submission.Record{}
	}

	return t.guard.Commit(token, func() {
		t.mu.Lock()
		t.snapshot = &trackerSnapshot{week: week, department: dept, records: records}
		t.mu.Unlock()
	})
}

// current returns the snapshot when it was loaded for the present selection.
func (t *SubmissionTracker) current() *trackerSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.snapshot == nil || t.snapshot.week != t.week || t.snapshot.department != t.department {
		return nil
	}
	return t.snapshot
}

// Records returns the overview of the selected week, or nil before it loads.
func (t *SubmissionTracker) Records() []submission.Record {
	if snap := t.current(); snap != nil {
		return snap.records
	}
	return nil
}

func (t *SubmissionTracker) Stats() submission.Stats {
	return submission.ComputeStats(t.Records(), t.logger)
}

// SendReminders sends one batch for the selected week and reloads the overview
// on success. Failures are reported once and never retried.
func (t *SubmissionTracker) SendReminders(ctx context.Context, resourceIDs []int64) (int, error) {
	week, _ := t.Selection()
	return t.sendReminders(ctx, week, resourceIDs)
}

// SendAll reminds every resource of the selected week and department that has
// not submitted. The overview is loaded first when it belongs to another selection.
func (t *SubmissionTracker) SendAll(ctx context.Context) (int, error) {
	snap := t.current()
	if snap == nil {
		if err := t.Load(ctx); err != nil {
			return 0, err
		}
		if snap = t.current(); snap == nil {
			return 0, ErrStaleResponse
		}
	}

	pending := submission.Pending(snap.records)
	if len(pending) == 0 {
		t.notifier.Notify(Notice{Level: LevelInfo, Title: "All submitted", Message: "Everyone has submitted for this week."})
		return 0, nil
	}
	return t.sendReminders(ctx, snap.week, pending)
}

func (t *SubmissionTracker) sendReminders(ctx context.Context, week string, resourceIDs []int64) (int, error) {
	if len(resourceIDs) == 0 {
		t.notifier.Notify(Notice{Level: LevelInfo, Title: "No recipients", Message: "Select at least one resource."})
		return 0, submission.ErrNoRecipients
	}

	resp, err := t.api.SendReminders(ctx, submission.ReminderRequest{
		WeekStartDate: week,
		ResourceIDs:   resourceIDs,
	})
	if err != nil {
		t.logger.Error("failed to send reminders", "week", week, "count", len(resourceIDs), "error", err)
		t.notifier.Notify(errorNotice("Error", "Failed to send reminders."))
		return 0, fmt.Errorf("send reminders for %s: %w", week, err)
	}

	t.notifier.Notify(Notice{
		Level:   LevelSuccess,
		Title:   "Reminders sent",
		Message: fmt.Sprintf("Sent %d reminder(s).", resp.SentCount),
	})

	if err := t.Load(ctx); err != nil {
		t.logger.Warn("failed to refresh submissions after reminders", "error", err)
	}
	return resp.SentCount, nil
}

// Export downloads the backend workbook into dir as submission-overview-<week>.xlsx.
func (t *SubmissionTracker) Export(ctx context.Context, dir string) (string, error) {
	week, dept := t.Selection()

	data, err := t.api.ExportSubmissions(ctx, week, dept)
	if err != nil {
		t.logger.Error("failed to export submissions", "week", week, "error", err)
		t.notifier.Notify(errorNotice("Export failed", "Failed to export submissions."))
		return "", fmt.Errorf("export submissions for %s: %w", week, err)
	}

	path := filepath.Join(dir, submission.FileName(week))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.logger.Error("failed to write submission export", "path", path, "error", err)
		t.notifier.Notify(errorNotice("Export failed", "The export could not be saved."))
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	t.notifier.Notify(Notice{Level: LevelSuccess, Title: "Exported", Message: path})
	return path, nil
}
