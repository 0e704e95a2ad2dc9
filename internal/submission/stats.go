package submission

import (
	"log/slog"
	"strings"
)

type Counts struct {
	Total        int `json:"total"`
	Submitted    int `json:"submitted"`
	NotSubmitted int `json:"notSubmitted"`
}

func (c Counts) CompletionRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Submitted) * 100 / float64(c.Total)
}

type Stats struct {
	Counts
	ByDepartment map[string]Counts `json:"byDepartment"`
	Skipped      int               `json:"skipped"`
}

// ComputeStats counts submissions overall and per department. Records without a
// named department count overall but are left out of the breakdown.
func ComputeStats(records []Record, logger *slog.Logger) Stats {
	stats := Stats{ByDepartment: make(map[string]Counts)}

	for _, r := range records {
		submitted := r.IsSubmitted()
		stats.Total++
		if submitted {
			stats.Submitted++
		}

		name := strings.TrimSpace(r.DepartmentName())
		if name == "" {
			stats.Skipped++
			if logger != nil {
				logger.Warn("submission record without department skipped from breakdown",
					"resource_id", r.ResourceID,
					"week_start_date", r.WeekStartDate)
			}
			continue
		}

		dept := stats.ByDepartment[name]
		dept.Total++
		if submitted {
			dept.Submitted++
		} else {
			dept.NotSubmitted++
		}
		stats.ByDepartment[name] = dept
	}

	stats.NotSubmitted = stats.Total - stats.Submitted
	return stats
}
