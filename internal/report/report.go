package report

import (
	"errors"
	"fmt"
	"time"
)

const monthLayout = "2006-01"

const dateLayout = "2006-01-02"

var (
	ErrInvalidMonth  = errors.New("month must be formatted as YYYY-MM")
	ErrInvalidPeriod = errors.New("start date must not be after end date")
)

// Row is one (change, resource, month) triple with the actual hours booked.
type Row struct {
	ChangeID         int64   `json:"changeId" db:"change_id"`
	ChangeTitle      string  `json:"changeTitle" db:"change_title"`
	ChangeStatus     string  `json:"changeStatus" db:"change_status"`
	ResourceID       int64   `json:"resourceId" db:"resource_id"`
	ResourceName     string  `json:"resourceName" db:"resource_name"`
	Role             string  `json:"role,omitempty" db:"role"`
	Director         string  `json:"director,omitempty" db:"director"`
	ChangeLead       string  `json:"changeLead,omitempty" db:"change_lead"`
	Stream           string  `json:"stream,omitempty" db:"stream"`
	Month            string  `json:"month" db:"month"`
	TotalActualHours float64 `json:"totalActualHours" db:"total_actual_hours"`
}

type Period struct {
	Start time.Time
	End   time.Time
}

// PeriodFromMonth returns the first and last calendar day of month.
func PeriodFromMonth(month string) (Period, error) {
	start, err := time.ParseInLocation(monthLayout, month, time.UTC)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	return Period{
		Start: start,
		End:   start.AddDate(0, 1, -1),
	}, nil
}

func ParsePeriod(startDate, endDate string) (Period, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return Period{}, fmt.Errorf("invalid startDate %q: %w", startDate, err)
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return Period{}, fmt.Errorf("invalid endDate %q: %w", endDate, err)
	}
	if end.Before(start) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: start, End: end}, nil
}

func (p Period) StartDate() string {
	return p.Start.Format(dateLayout)
}

func (p Period) EndDate() string {
	return p.End.Format(dateLayout)
}

// Month is the YYYY-MM label of the period start.
func (p Period) Month() string {
	return p.Start.Format(monthLayout)
}

// Contains reports whether day falls on or between the period bounds.
func (p Period) Contains(day time.Time) bool {
	return !day.Before(p.Start) && !day.After(p.End)
}
