package resource

import "time"

type Department struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	IsActive  bool      `gorm:"column:is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Department) TableName() string {
	return "departments"
}

type Resource struct {
	ID             int64       `gorm:"primaryKey"`
	Name           string      `gorm:"column:name;not null"`
	Email          string      `gorm:"column:email;uniqueIndex;not null"`
	DepartmentID   *int64      `gorm:"column:department_id;index"`
	Department     *Department `gorm:"foreignKey:DepartmentID"`
	Role           string      `gorm:"column:role"`
	WeeklyCapacity float64     `gorm:"column:weekly_capacity"`
	Skills         string      `gorm:"column:skills"`
	IsActive       bool        `gorm:"column:is_active"`
	CreatedAt      time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Resource) TableName() string {
	return "resources"
}

// Allocation hours are stored as entered (numeric text).
type Allocation struct {
	ID             int64      `gorm:"primaryKey"`
	ResourceID     int64      `gorm:"column:resource_id;not null;index"`
	ChangeID       *int64     `gorm:"column:change_id"`
	AllocatedHours string     `gorm:"column:allocated_hours;not null"`
	StartDate      *time.Time `gorm:"column:start_date;type:date"`
	EndDate        *time.Time `gorm:"column:end_date;type:date"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Allocation) TableName() string {
	return "allocations"
}
