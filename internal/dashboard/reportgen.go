package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/frahmantamala/resource-management/internal"
	"github.com/frahmantamala/resource-management/internal/report"
)

var (
	ErrAccessDenied    = errors.New("business controller role required")
	ErrNothingToExport = errors.New("no report data to export")
)

type ReportAPI interface {
	BusinessControllerReport(ctx context.Context, req report.GenerateRequest) (*report.GenerateResponse, error)
}

// ReportGenerator is the business controller report page. The caller's roles
// are checked before every call that touches the backend or the filesystem.
type ReportGenerator struct {
	api      ReportAPI
	user     *internal.User
	notifier Notifier
	logger   *slog.Logger
	guard    Guard

	mu         sync.RWMutex
	month      string
	activeOnly bool
	rows       []report.Row
	summary    report.Summary
}

func NewReportGenerator(api ReportAPI, user *internal.User, notifier Notifier, logger *slog.Logger) *ReportGenerator {
	return &ReportGenerator{
		api:      api,
		user:     user,
		notifier: notifier,
		logger:   logger,
	}
}

func (g *ReportGenerator) CanView() bool {
	return g.user.HasRole(internal.RoleBusinessController)
}

func (g *ReportGenerator) authorize() error {
	if g.CanView() {
		return nil
	}
	g.logger.Warn("report page denied", "required_role", internal.RoleBusinessController)
	g.notifier.Notify(errorNotice("Access denied", "You need the Business Controller role to view this report."))
	return ErrAccessDenied
}

// Generate fetches the actual hours for month (YYYY-MM) and keeps them as the page snapshot.
func (g *ReportGenerator) Generate(ctx context.Context, month string, activeOnly bool) (*report.GenerateResponse, error) {
	if err := g.authorize(); err != nil {
		return nil, err
	}

	period, err := report.PeriodFromMonth(month)
	if err != nil {
		g.notifier.Notify(errorNotice("Invalid month", err.Error()))
		return nil, err
	}

	reqCtx, token := g.guard.Begin(ctx)
	resp, err := g.api.BusinessControllerReport(reqCtx, report.GenerateRequest{
		StartDate:      period.StartDate(),
		EndDate:        period.EndDate(),
		ShowOnlyActive: activeOnly,
	})
	if err != nil {
		if !g.guard.IsCurrent(token) {
			return nil, ErrStaleResponse
		}
		g.guard.Done(token)
		g.logger.Error("failed to generate report", "month", month, "error", err)
		g.notifier.Notify(errorNotice("Error", "Failed to generate report. Please try again."))
		return nil, fmt.Errorf("generate report for %s: %w", month, err)
	}

	if resp.ReportData == nil {
		resp.ReportData = []report.Row{}
	}

	err = g.guard.Commit(token, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.month = period.Month()
		g.activeOnly = activeOnly
		g.rows = resp.ReportData
		g.summary = resp.Summary
	})
	if err != nil {
		return nil, err
	}

	if len(resp.ReportData) == 0 {
		g.notifier.Notify(Notice{Level: LevelInfo, Title: "No data", Message: fmt.Sprintf("No time entries found for %s.", period.Month())})
	} else {
		g.notifier.Notify(Notice{Level: LevelSuccess, Title: "Report generated", Message: fmt.Sprintf("%d rows for %s.", len(resp.ReportData), period.Month())})
	}
	return resp, nil
}

func (g *ReportGenerator) Month() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.month
}

func (g *ReportGenerator) Rows() []report.Row {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rows
}

func (g *ReportGenerator) Summary() report.Summary {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.summary
}

// Export writes the current snapshot to dir as business-controller-report-<month>.xlsx.
func (g *ReportGenerator) Export(dir string) (string, error) {
	if err := g.authorize(); err != nil {
		return "", err
	}

	g.mu.RLock()
	month, rows := g.month, g.rows
	g.mu.RUnlock()

	if len(rows) == 0 {
		g.notifier.Notify(Notice{Level: LevelInfo, Title: "Nothing to export", Message: "Generate a report with data first."})
		return "", ErrNothingToExport
	}

	path := filepath.Join(dir, report.FileName(month))
	if err := writeReportFile(path, rows); err != nil {
		g.logger.Error("failed to export report", "path", path, "error", err)
		g.notifier.Notify(errorNotice("Export failed", "The report could not be exported."))
		return "", err
	}

	g.notifier.Notify(Notice{Level: LevelSuccess, Title: "Exported", Message: path})
	return path, nil
}

func writeReportFile(path string, rows []report.Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return report.WriteWorkbook(f, rows)
}
