package submission

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	SheetOverview   = "Submission Overview"
	SheetDepartment = "Department Summary"

	noDepartment = "Unassigned"
)

func FileName(week string) string {
	return fmt.Sprintf("submission-overview-%s.xlsx", week)
}

// RenderWorkbook writes the overview records and their department totals as xlsx bytes.
func RenderWorkbook(records []Record, stats Stats) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetOverview); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetDepartment); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	header := []interface{}{"Resource", "Email", "Department", "Week Start", "Status", "Submitted At", "Time Entries"}
	if err := f.SetSheetRow(SheetOverview, "A1", &header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetOverview, "A1", "G1", bold); err != nil {
		return nil, err
	}

	for i, r := range records {
		dept := r.DepartmentName()
		if dept == "" {
			dept = noDepartment
		}
		status, submittedAt := "Not submitted", ""
		if r.IsSubmitted() {
			status = "Submitted"
			if r.Submission.SubmittedAt != nil {
				submittedAt = r.Submission.SubmittedAt.UTC().Format(time.RFC3339)
			}
		}
		entries := "No"
		if r.HasTimeEntries {
			entries = "Yes"
		}

		row := []interface{}{r.ResourceName, r.Email, dept, r.WeekStartDate, status, submittedAt, entries}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetOverview, cell, &row); err != nil {
			return nil, fmt.Errorf("write overview row %d: %w", i+1, err)
		}
	}

	deptHeader := []interface{}{"Department", "Total", "Submitted", "Not Submitted", "Completion %"}
	if err := f.SetSheetRow(SheetDepartment, "A1", &deptHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetDepartment, "A1", "E1", bold); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(stats.ByDepartment))
	for name := range stats.ByDepartment {
		names = append(names, name)
	}
	sort.Strings(names)

	rowIdx := 2
	for _, name := range names {
		c := stats.ByDepartment[name]
		row := []interface{}{name, c.Total, c.Submitted, c.NotSubmitted, roundPercent(c.CompletionRate())}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		if err := f.SetSheetRow(SheetDepartment, cell, &row); err != nil {
			return nil, err
		}
		rowIdx++
	}
	totals := []interface{}{"All", stats.Total, stats.Submitted, stats.NotSubmitted, roundPercent(stats.CompletionRate())}
	cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
	if err := f.SetSheetRow(SheetDepartment, cell, &totals); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func roundPercent(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
