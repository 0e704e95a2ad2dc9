package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/resource-management/internal"
	"github.com/frahmantamala/resource-management/internal/dashboard"
	"github.com/frahmantamala/resource-management/internal/resource"
	"github.com/frahmantamala/resource-management/pkg/logger"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Terminal dashboard over the HTTP API",
	Long: `Renders the report generator, resource browser and submission tracker in the terminal.
Authenticates with --email/--password or the configured dashboard access token.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return connectDashboard(cmd.Context())
	},
}

var dashboardReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Business controller report for one month",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context())
	},
}

var dashboardResourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Browse and filter resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResources(cmd.Context())
	},
}

var dashboardSubmissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Weekly timesheet submissions, reminders and export",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubmissions(cmd.Context())
	},
}

type dashboardSession struct {
	config   internal.DashboardConfig
	client   *dashboard.Client
	user     *internal.User
	notifier dashboard.Notifier
}

var (
	session dashboardSession

	dashEmail    string
	dashPassword string
	dashWidth    int
	dashExport   bool

	reportMonth      string
	reportActiveOnly bool

	browseView   string
	browseFilter resource.Filter

	trackWeek       string
	trackDepartment string
	trackRemind     string
	trackRemindAll  bool
	trackListWeeks  bool
)

func connectDashboard(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	config, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	initLogger(config)
	lg := logger.LoggerWrapper()

	client := dashboard.NewClient(config.Dashboard, lg)
	if dashEmail != "" {
		if _, err := client.Login(ctx, dashEmail, dashPassword); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
	}

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current user: %w", err)
	}

	session = dashboardSession{
		config:   config.Dashboard,
		client:   client,
		user:     user,
		notifier: dashboard.NewConsoleNotifier(os.Stderr),
	}
	return nil
}

func exportDir() string {
	if session.config.ExportDir == "" {
		return "."
	}
	return session.config.ExportDir
}

func runReport(ctx context.Context) error {
	gen := dashboard.NewReportGenerator(session.client, session.user, session.notifier, logger.LoggerWrapper())

	month := reportMonth
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if _, err := gen.Generate(ctx, month, reportActiveOnly); err != nil {
		return err
	}
	fmt.Println(dashboard.RenderReport(gen.Month(), gen.Rows(), gen.Summary()))

	if dashExport {
		if _, err := gen.Export(exportDir()); err != nil && !errors.Is(err, dashboard.ErrNothingToExport) {
			return err
		}
	}
	return nil
}

func runResources(ctx context.Context) error {
	browser := dashboard.NewResourceBrowser(session.client, session.notifier, logger.LoggerWrapper(), session.config.NarrowWidth)

	mode, err := dashboard.ParseViewMode(browseView)
	if err != nil {
		return err
	}
	browser.SetView(mode)
	if err := browser.SetFilter(browseFilter); err != nil {
		return err
	}

	if err := browser.Load(ctx); err != nil && len(browser.Resources()) == 0 {
		return err
	}

	fmt.Printf("Roles: %s\n", strings.Join(browser.RoleOptions(), ", "))
	fmt.Printf("Departments: %s\n", strings.Join(browser.DepartmentOptions(), ", "))
	fmt.Printf("Skills: %s\n\n", strings.Join(browser.SkillOptions(), ", "))
	fmt.Println(browser.Render(dashWidth))
	return nil
}

func runSubmissions(ctx context.Context) error {
	tracker := dashboard.NewSubmissionTracker(session.client, session.notifier, logger.LoggerWrapper())

	if trackListWeeks {
		for _, w := range tracker.Weeks() {
			marker := " "
			if w.IsCurrent {
				marker = "*"
			}
			fmt.Printf("%s %s  %s\n", marker, w.Key(), w.Label)
		}
		return nil
	}

	week, department := tracker.Selection()
	if trackWeek != "" {
		week = trackWeek
	}
	if trackDepartment != "" {
		department = trackDepartment
	}
	if err := tracker.Select(week, department); err != nil {
		return err
	}

	if err := tracker.Load(ctx); err != nil {
		return err
	}

	switch {
	case trackRemindAll:
		if _, err := tracker.SendAll(ctx); err != nil {
			return err
		}
	case trackRemind != "":
		ids, err := parseIDs(trackRemind)
		if err != nil {
			return err
		}
		if _, err := tracker.SendReminders(ctx, ids); err != nil {
			return err
		}
	}

	week, _ = tracker.Selection()
	fmt.Println(dashboard.RenderSubmissions(week, tracker.Records(), tracker.Stats()))

	if dashExport {
		if _, err := tracker.Export(ctx, exportDir()); err != nil {
			return err
		}
	}
	return nil
}

func parseIDs(value string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid resource id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func init() {
	dashboardCmd.PersistentFlags().StringVar(&dashEmail, "email", "", "Log in with this email instead of the configured token")
	dashboardCmd.PersistentFlags().StringVar(&dashPassword, "password", "", "Password for --email")
	dashboardCmd.PersistentFlags().IntVar(&dashWidth, "width", 120, "Terminal width used to pick the layout")
	dashboardCmd.PersistentFlags().BoolVar(&dashExport, "export", false, "Write an xlsx export to the configured export directory")

	dashboardReportCmd.Flags().StringVar(&reportMonth, "month", "", "Month as YYYY-MM (defaults to the current month)")
	dashboardReportCmd.Flags().BoolVar(&reportActiveOnly, "active-only", false, "Only changes active during the month")

	dashboardResourcesCmd.Flags().StringVar(&browseView, "view", "grid", "grid, list or table")
	dashboardResourcesCmd.Flags().StringVar(&browseFilter.Search, "search", "", "Match name, email, role or department")
	dashboardResourcesCmd.Flags().StringVar(&browseFilter.Department, "department", "", "Department name or all")
	dashboardResourcesCmd.Flags().StringVar(&browseFilter.Role, "role", "", "Role or all")
	dashboardResourcesCmd.Flags().StringVar(&browseFilter.Status, "status", "", "available, near-capacity, overallocated or unassigned")
	dashboardResourcesCmd.Flags().StringVar(&browseFilter.Capacity, "capacity", "", "under-50, 50-80, 80-100 or over-100")
	dashboardResourcesCmd.Flags().StringVar(&browseFilter.Skill, "skill", "", "Skill terms that must all match")

	dashboardSubmissionsCmd.Flags().StringVar(&trackWeek, "week", "", "Monday of the week as YYYY-MM-DD (defaults to the current week)")
	dashboardSubmissionsCmd.Flags().StringVar(&trackDepartment, "department", "", "Department name or all")
	dashboardSubmissionsCmd.Flags().StringVar(&trackRemind, "remind", "", "Comma separated resource ids to remind")
	dashboardSubmissionsCmd.Flags().BoolVar(&trackRemindAll, "remind-all", false, "Remind everyone who has not submitted")
	dashboardSubmissionsCmd.Flags().BoolVar(&trackListWeeks, "weeks", false, "List the selectable weeks and exit")

	dashboardCmd.AddCommand(dashboardReportCmd, dashboardResourcesCmd, dashboardSubmissionsCmd)

	rootCmd.AddCommand(dashboardCmd)
}
