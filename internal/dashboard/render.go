package dashboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/frahmantamala/resource-management/internal/report"
	"github.com/frahmantamala/resource-management/internal/resource"
	"github.com/frahmantamala/resource-management/internal/submission"
)

const gridColumns = 3

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(32)

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func utilizationLabel(r resource.Resource, allocated float64) string {
	if !r.IsActive {
		return "Inactive"
	}
	if allocated == 0 {
		return "Unassigned"
	}
	switch u := resource.Utilization(r, allocated); {
	case u > 100:
		return "Overallocated"
	case u >= 80:
		return "Near capacity"
	default:
		return "Available"
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// RenderResources draws resources in the given view mode.
func RenderResources(mode ViewMode, resources []resource.Resource, allocations []resource.Allocation) string {
	if len(resources) == 0 {
		return dimStyle.Render("No resources match the current filters.")
	}

	switch mode {
	case ViewTable:
		t := newTable("Name", "Email", "Department", "Role", "Capacity", "Allocated", "Utilization", "Status", "Skills")
		for _, r := range resources {
			allocated := resource.AllocatedHours(r.ID, allocations)
			t.Row(
				r.Name,
				r.Email,
				r.Department,
				r.Role,
				formatHours(r.Capacity()),
				formatHours(allocated),
				fmt.Sprintf("%.0f%%", resource.Utilization(r, allocated)),
				utilizationLabel(r, allocated),
				r.Skills.String(),
			)
		}
		return t.String()

	case ViewList:
		var sb strings.Builder
		for _, r := range resources {
			allocated := resource.AllocatedHours(r.ID, allocations)
			fmt.Fprintf(&sb, "%s  %s  %s / %s  %.0f%% (%s)\n",
				lipgloss.NewStyle().Bold(true).Render(r.Name),
				dimStyle.Render(r.Email),
				r.Role,
				r.Department,
				resource.Utilization(r, allocated),
				utilizationLabel(r, allocated))
		}
		return strings.TrimRight(sb.String(), "\n")

	default:
		cards := make([]string, 0, len(resources))
		for _, r := range resources {
			allocated := resource.AllocatedHours(r.ID, allocations)
			body := strings.Join([]string{
				lipgloss.NewStyle().Bold(true).Render(r.Name),
				dimStyle.Render(r.Email),
				fmt.Sprintf("%s · %s", r.Role, r.Department),
				fmt.Sprintf("%sh / %sh (%.0f%%)", formatHours(allocated), formatHours(r.Capacity()), resource.Utilization(r, allocated)),
				utilizationLabel(r, allocated),
			}, "\n")
			cards = append(cards, cardStyle.Render(body))
		}

		rows := make([]string, 0, (len(cards)+gridColumns-1)/gridColumns)
		for i := 0; i < len(cards); i += gridColumns {
			end := i + gridColumns
			if end > len(cards) {
				end = len(cards)
			}
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
		}
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}
}

func RenderReport(month string, rows []report.Row, summary report.Summary) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Business Controller Report " + month))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Changes: %d   Resources: %d   Hours: %s   Avg/change: %.2f\n\n",
		summary.TotalChanges, summary.TotalResources, formatHours(summary.TotalHours), summary.AverageHoursPerChange)

	if len(rows) == 0 {
		sb.WriteString(dimStyle.Render("No data for this period."))
		return sb.String()
	}

	top := newTable("Top resources", "Hours")
	for _, r := range summary.TopResources {
		top.Row(r.ResourceName, formatHours(r.TotalHours))
	}
	changes := newTable("Top changes", "Hours")
	for _, c := range summary.TopChanges {
		changes.Row(c.ChangeTitle, formatHours(c.TotalHours))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, top.String(), "  ", changes.String()))
	sb.WriteString("\n\n")

	data := newTable("Change", "Status", "Resource", "Role", "Director", "Change Lead", "Stream", "Hours")
	for _, r := range rows {
		data.Row(
			r.ChangeTitle,
			r.ChangeStatus,
			r.ResourceName,
			orPlaceholder(r.Role, report.PlaceholderRole),
			orPlaceholder(r.Director, report.PlaceholderPerson),
			orPlaceholder(r.ChangeLead, report.PlaceholderPerson),
			orPlaceholder(r.Stream, report.PlaceholderStream),
			formatHours(r.TotalActualHours),
		)
	}
	sb.WriteString(data.String())
	return sb.String()
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

func RenderSubmissions(week string, records []submission.Record, stats submission.Stats) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Timesheet submissions, week of " + week))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Total: %d   Submitted: %d   Not submitted: %d   Completion: %.0f%%\n\n",
		stats.Total, stats.Submitted, stats.NotSubmitted, stats.CompletionRate())

	if len(stats.ByDepartment) > 0 {
		names := make([]string, 0, len(stats.ByDepartment))
		for name := range stats.ByDepartment {
			names = append(names, name)
		}
		sort.Strings(names)

		depts := newTable("Department", "Total", "Submitted", "Not submitted")
		for _, name := range names {
			c := stats.ByDepartment[name]
			depts.Row(name, strconv.Itoa(c.Total), strconv.Itoa(c.Submitted), strconv.Itoa(c.NotSubmitted))
		}
		sb.WriteString(depts.String())
		sb.WriteString("\n\n")
	}

	if len(records) == 0 {
		sb.WriteString(dimStyle.Render("No resources for this selection."))
		return sb.String()
	}

	list := newTable("ID", "Resource", "Department", "Time entries", "Status")
	for _, r := range records {
		status := "Not submitted"
		if r.IsSubmitted() {
			status = "Submitted"
		}
		entries := "no"
		if r.HasTimeEntries {
			entries = "yes"
		}
		dept := r.DepartmentName()
		if dept == "" {
			dept = "-"
		}
		list.Row(strconv.FormatInt(r.ResourceID, 10), r.ResourceName, dept, entries, status)
	}
	sb.WriteString(list.String())
	return sb.String()
}
