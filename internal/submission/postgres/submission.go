package postgres

import (
	"context"
	"time"

	reportDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/report"
	resourceDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/resource"
	submissionDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/submission"
	"github.com/frahmantamala/resource-management/internal/submission"
	"gorm.io/gorm"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Overview lists active resources, optionally in one department, with their
// submission for the week and whether they booked any time that week.
func (r *SubmissionRepository) Overview(ctx context.Context, weekStart time.Time, department string) ([]submission.Record, error) {
	var resources []*resourceDatamodel.Resource
	q := r.db.WithContext(ctx).
		Preload("Department").
		Where("resources.is_active = ?", true)
	if department != "" {
		q = q.Joins("JOIN departments ON departments.id = resources.department_id").
			Where("departments.name = ?", department)
	}
	if err := q.Order("resources.name ASC").Find(&resources).Error; err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return []submission.Record{}, nil
	}

	ids := make([]int64, len(resources))
	for i, res := range resources {
		ids[i] = res.ID
	}

	var submissions []*submissionDatamodel.TimesheetSubmission
	if err := r.db.WithContext(ctx).
		Where("week_start_date = ? AND resource_id IN ?", weekStart, ids).
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	byResource := make(map[int64]*submissionDatamodel.TimesheetSubmission, len(submissions))
	for _, s := range submissions {
		byResource[s.ResourceID] = s
	}

	var booked []int64
	if err := r.db.WithContext(ctx).
		Model(&reportDatamodel.TimeEntry{}).
		Distinct("resource_id").
		Where("entry_date >= ? AND entry_date <= ? AND resource_id IN ?", weekStart, weekStart.AddDate(0, 0, 6), ids).
		Pluck("resource_id", &booked).Error; err != nil {
		return nil, err
	}
	hasEntries := make(map[int64]bool, len(booked))
	for _, id := range booked {
		hasEntries[id] = true
	}

	week := weekStart.Format(submission.WeekLayout)
	records := make([]submission.Record, 0, len(resources))
	for _, res := range resources {
		rec := submission.Record{
			ResourceID:     res.ID,
			ResourceName:   res.Name,
			Email:          res.Email,
			WeekStartDate:  week,
			Submission:     submission.SubmissionFromDataModel(byResource[res.ID]),
			HasTimeEntries: hasEntries[res.ID],
		}
		if res.Department != nil {
			rec.Department = &submission.DepartmentRef{ID: res.Department.ID, Name: res.Department.Name}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *SubmissionRepository) CreateReminderLogs(ctx context.Context, logs []*submissionDatamodel.ReminderLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&logs).Error
}

func (r *SubmissionRepository) UpdateReminderStatus(ctx context.Context, batchID string, resourceID int64, status string, failureReason *string) error {
	return r.db.WithContext(ctx).
		Model(&submissionDatamodel.ReminderLog{}).
		Where("batch_id = ? AND resource_id = ?", batchID, resourceID).
		Updates(map[string]interface{}{
			"status":         status,
			"failure_reason": failureReason,
			"updated_at":     time.Now(),
		}).Error
}

// StaleReminders returns reminders still queued whose row was last touched before cutoff.
func (r *SubmissionRepository) StaleReminders(ctx context.Context, cutoff time.Time) ([]*submissionDatamodel.ReminderLog, error) {
	var logs []*submissionDatamodel.ReminderLog
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", submissionDatamodel.ReminderStatusQueued, cutoff).
		Order("batch_id ASC, resource_id ASC").
		Find(&logs).Error
	return logs, err
}

func (r *SubmissionRepository) ListReminderLogs(ctx context.Context, batchID string) ([]*submissionDatamodel.ReminderLog, error) {
	var logs []*submissionDatamodel.ReminderLog
	err := r.db.WithContext(ctx).Where("batch_id = ?", batchID).Order("resource_id ASC").Find(&logs).Error
	return logs, err
}

func (r *SubmissionRepository) UpsertSubmission(ctx context.Context, s *submissionDatamodel.TimesheetSubmission) error {
	return r.db.WithContext(ctx).
		Where("resource_id = ? AND week_start_date = ?", s.ResourceID, s.WeekStartDate).
		Assign(map[string]interface{}{
			"is_submitted": s.IsSubmitted,
			"submitted_at": s.SubmittedAt,
		}).
		FirstOrCreate(s).Error
}
