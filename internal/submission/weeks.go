package submission

import (
	"errors"
	"fmt"
	"time"
)

const (
	WeekLayout = "2006-01-02"
	WeekCount  = 8
)

var ErrInvalidWeek = errors.New("week must be a Monday formatted as YYYY-MM-DD")

type Week struct {
	Start     time.Time `json:"start"`
	Label     string    `json:"label"`
	IsCurrent bool      `json:"isCurrent"`
}

func (w Week) Key() string {
	return w.Start.Format(WeekLayout)
}

func (w Week) End() time.Time {
	return w.Start.AddDate(0, 0, 6)
}

// WeekStart returns the Monday at UTC midnight of the week containing t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Weeks lists the eight weeks ending with the one containing now, most recent first.
func Weeks(now time.Time) []Week {
	current := WeekStart(now)
	weeks := make([]Week, 0, WeekCount)
	for i := 0; i < WeekCount; i++ {
		start := current.AddDate(0, 0, -7*i)
		weeks = append(weeks, Week{
			Start:     start,
			Label:     weekLabel(start),
			IsCurrent: i == 0,
		})
	}
	return weeks
}

func weekLabel(start time.Time) string {
	end := start.AddDate(0, 0, 6)
	return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
}

func ParseWeek(value string) (time.Time, error) {
	start, err := time.ParseInLocation(WeekLayout, value, time.UTC)
	if err != nil || start.Weekday() != time.Monday {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidWeek, value)
	}
	return start, nil
}
