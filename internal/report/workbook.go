package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	SheetReportData      = "Report Data"
	SheetChangeSummary   = "Change Summary"
	SheetResourceSummary = "Resource Summary"

	PlaceholderRole   = "Not specified"
	PlaceholderPerson = "Not assigned"
	PlaceholderStream = "General"
)

type ChangeSummary struct {
	ChangeID      int64
	ChangeTitle   string
	ChangeStatus  string
	TotalHours    float64
	ResourceCount int
}

type ResourceSummary struct {
	ResourceID   int64
	ResourceName string
	Role         string
	TotalHours   float64
	ChangeCount  int
}

// FileName is the export name for the given YYYY-MM month.
func FileName(month string) string {
	return fmt.Sprintf("business-controller-report-%s.xlsx", month)
}

func changeKey(r Row) string {
	return fmt.Sprintf("%d|%s", r.ChangeID, r.ChangeTitle)
}

func resourceKey(r Row) string {
	return fmt.Sprintf("%d|%s", r.ResourceID, r.ResourceName)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// SummarizeByChange groups rows by change id and title, in order of first appearance.
func SummarizeByChange(rows []Row) []ChangeSummary {
	index := make(map[string]int)
	members := make(map[string]map[int64]struct{})
	var out []ChangeSummary

	for _, row := range rows {
		key := changeKey(row)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			members[key] = make(map[int64]struct{})
			out = append(out, ChangeSummary{
				ChangeID:     row.ChangeID,
				ChangeTitle:  row.ChangeTitle,
				ChangeStatus: row.ChangeStatus,
			})
		}
		out[i].TotalHours += row.TotalActualHours
		members[key][row.ResourceID] = struct{}{}
		out[i].ResourceCount = len(members[key])
	}
	return out
}

// SummarizeByResource groups rows by resource id and name, in order of first appearance.
func SummarizeByResource(rows []Row) []ResourceSummary {
	index := make(map[string]int)
	members := make(map[string]map[int64]struct{})
	var out []ResourceSummary

	for _, row := range rows {
		key := resourceKey(row)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			members[key] = make(map[int64]struct{})
			out = append(out, ResourceSummary{
				ResourceID:   row.ResourceID,
				ResourceName: row.ResourceName,
				Role:         orDefault(row.Role, PlaceholderRole),
			})
		}
		out[i].TotalHours += row.TotalActualHours
		members[key][row.ChangeID] = struct{}{}
		out[i].ChangeCount = len(members[key])
	}
	return out
}

// BuildWorkbook lays rows out over the three report sheets. The caller owns the returned file.
func BuildWorkbook(rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetReportData); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{SheetChangeSummary, SheetResourceSummary} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	data := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		data = append(data, []interface{}{
			row.ChangeID,
			row.ChangeTitle,
			row.ChangeStatus,
			row.ResourceName,
			orDefault(row.Role, PlaceholderRole),
			orDefault(row.Director, PlaceholderPerson),
			orDefault(row.ChangeLead, PlaceholderPerson),
			orDefault(row.Stream, PlaceholderStream),
			row.Month,
			row.TotalActualHours,
		})
	}
	if err := writeSheet(f, SheetReportData, header, []interface{}{
		"Change ID", "Change Title", "Status", "Resource", "Role",
		"Director", "Change Lead", "Stream", "Month", "Actual Hours",
	}, data); err != nil {
		f.Close()
		return nil, err
	}

	changes := SummarizeByChange(rows)
	data = make([][]interface{}, 0, len(changes))
	for _, c := range changes {
		data = append(data, []interface{}{c.ChangeID, c.ChangeTitle, c.ChangeStatus, c.TotalHours, c.ResourceCount})
	}
	if err := writeSheet(f, SheetChangeSummary, header, []interface{}{
		"Change ID", "Change Title", "Status", "Total Hours", "Resources",
	}, data); err != nil {
		f.Close()
		return nil, err
	}

	resources := SummarizeByResource(rows)
	data = make([][]interface{}, 0, len(resources))
	for _, r := range resources {
		data = append(data, []interface{}{r.ResourceID, r.ResourceName, r.Role, r.TotalHours, r.ChangeCount})
	}
	if err := writeSheet(f, SheetResourceSummary, header, []interface{}{
		"Resource ID", "Resource Name", "Role", "Total Hours", "Changes",
	}, data); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook renders rows as an xlsx document into w.
func WriteWorkbook(w io.Writer, rows []Row) error {
	f, err := BuildWorkbook(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 18)
}
