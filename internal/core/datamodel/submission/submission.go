package submission

import "time"

type TimesheetSubmission struct {
	ID            int64      `gorm:"primaryKey"`
	ResourceID    int64      `gorm:"column:resource_id;not null;uniqueIndex:idx_submission_resource_week"`
	WeekStartDate time.Time  `gorm:"column:week_start_date;type:date;not null;uniqueIndex:idx_submission_resource_week"`
	IsSubmitted   bool       `gorm:"column:is_submitted"`
	SubmittedAt   *time.Time `gorm:"column:submitted_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (TimesheetSubmission) TableName() string {
	return "timesheet_submissions"
}

const (
	ReminderStatusQueued = "queued"
	ReminderStatusSent   = "sent"
	ReminderStatusFailed = "failed"
)

type ReminderLog struct {
	ID            int64     `gorm:"primaryKey"`
	BatchID       string    `gorm:"column:batch_id;not null;index"`
	ResourceID    int64     `gorm:"column:resource_id;not null"`
	WeekStartDate time.Time `gorm:"column:week_start_date;type:date;not null"`
	RequestedBy   int64     `gorm:"column:requested_by"`
	Status        string    `gorm:"column:status;not null"`
	FailureReason *string   `gorm:"column:failure_reason"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ReminderLog) TableName() string {
	return "reminder_logs"
}
