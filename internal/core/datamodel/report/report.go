package report

import "time"

type Change struct {
	ID         int64      `gorm:"primaryKey"`
	Title      string     `gorm:"column:title;not null"`
	Status     string     `gorm:"column:status;not null"`
	Director   *string    `gorm:"column:director"`
	ChangeLead *string    `gorm:"column:change_lead"`
	Stream     *string    `gorm:"column:stream"`
	StartDate  time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate    *time.Time `gorm:"column:end_date;type:date"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Change) TableName() string {
	return "changes"
}

type TimeEntry struct {
	ID          int64     `gorm:"primaryKey"`
	ResourceID  int64     `gorm:"column:resource_id;not null;index"`
	ChangeID    int64     `gorm:"column:change_id;not null;index"`
	EntryDate   time.Time `gorm:"column:entry_date;type:date;not null"`
	Hours       float64   `gorm:"column:hours;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}
