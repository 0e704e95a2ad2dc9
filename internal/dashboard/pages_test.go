package dashboard_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/frahmantamala/resource-management/internal"
	"github.com/frahmantamala/resource-management/internal/dashboard"
	"github.com/frahmantamala/resource-management/internal/department"
	"github.com/frahmantamala/resource-management/internal/report"
	"github.com/frahmantamala/resource-management/internal/resource"
	"github.com/frahmantamala/resource-management/internal/submission"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

type fakeReportAPI struct {
	mu       sync.Mutex
	calls    []report.GenerateRequest
	response *report.GenerateResponse
	err      error
	// block, when set, holds the first call until released.
	block chan struct{}
}

func (f *fakeReportAPI) BusinessControllerReport(ctx context.Context, req report.GenerateRequest) (*report.GenerateResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	first := len(f.calls) == 1
	f.mu.Unlock()

	if first && f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeReportAPI) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var _ = Describe("ReportGenerator", func() {
	var (
		api      *fakeReportAPI
		notifier *recordingNotifier
		bc       *internal.User
	)

	BeforeEach(func() {
		notifier = &recordingNotifier{}
		bc = &internal.User{ID: 1, Roles: []string{internal.RoleBusinessController}}
		api = &fakeReportAPI{response: &report.GenerateResponse{
			ReportData: []report.Row{
				{ChangeID: 1, ChangeTitle: "Migration", ResourceID: 1, ResourceName: "Ada", TotalActualHours: 10},
				{ChangeID: 1, ChangeTitle: "Migration", ResourceID: 2, ResourceName: "Ben", TotalActualHours: 6.5},
			},
			Summary: report.Summary{TotalChanges: 1, TotalResources: 2, TotalHours: 16.5},
		}}
	})

	It("should deny callers without the role before any request", func() {
		page := dashboard.NewReportGenerator(api, &internal.User{Roles: []string{internal.RoleChangeLead}}, notifier, quietLogger())

		_, err := page.Generate(context.Background(), "2024-02", false)
		Expect(err).To(MatchError(dashboard.ErrAccessDenied))
		_, err = page.Export(GinkgoT().TempDir())
		Expect(err).To(MatchError(dashboard.ErrAccessDenied))

		Expect(api.Calls()).To(BeZero())
		Expect(notifier.Levels()).To(Equal([]dashboard.Level{dashboard.LevelError, dashboard.LevelError}))
	})

	It("should send the calendar bounds of the month", func() {
		page := dashboard.NewReportGenerator(api, bc, notifier, quietLogger())

		_, err := page.Generate(context.Background(), "2024-02", true)
		Expect(err).NotTo(HaveOccurred())
		Expect(api.calls).To(Equal([]report.GenerateRequest{{StartDate: "2024-02-01", EndDate: "2024-02-29", ShowOnlyActive: true}}))
		Expect(page.Rows()).To(HaveLen(2))
		Expect(page.Summary().TotalHours).To(Equal(16.5))
		Expect(notifier.Last().Level).To(Equal(dashboard.LevelSuccess))
	})

	It("should reject a malformed month without calling the backend", func() {
		page := dashboard.NewReportGenerator(api, bc, notifier, quietLogger())

		_, err := page.Generate(context.Background(), "2024-13", false)
		Expect(err).To(HaveOccurred())
		Expect(api.Calls()).To(BeZero())
	})

	It("should report an empty result as information", func() {
		api.response = &report.GenerateResponse{}
		page := dashboard.NewReportGenerator(api, bc, notifier, quietLogger())

		resp, err := page.Generate(context.Background(), "2024-02", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.ReportData).To(BeEmpty())
		Expect(notifier.Last().Level).To(Equal(dashboard.LevelInfo))

		_, err = page.Export(GinkgoT().TempDir())
		Expect(err).To(MatchError(dashboard.ErrNothingToExport))
	})

	It("should surface backend failures as a generic error", func() {
		api.err = errors.New("connection refused")
		page := dashboard.NewReportGenerator(api, bc, notifier, quietLogger())

		_, err := page.Generate(context.Background(), "2024-02", false)
		Expect(err).To(MatchError(ContainSubstring("connection refused")))
		Expect(notifier.Last()).To(Equal(dashboard.Notice{Level: dashboard.LevelError, Title: "Error", Message: "Failed to generate report. Please try again."}))
	})

	It("should discard a response overtaken by a newer request", func() {
		api.block = make(chan struct{})
		page := dashboard.NewReportGenerator(api, bc, notifier, quietLogger())

		firstDone := make(chan error, 1)
		go func() {
			_, err := page.Generate(context.Background(), "2024-01", false)
			firstDone <- err
		}()
		Eventually(api.Calls).Should(Equal(1))

		_, err := page.Generate(context.Background(), "2024-02", false)
		Expect(err).NotTo(HaveOccurred())

		Eventually(firstDone).Should(Receive(MatchError(dashboard.ErrStaleResponse)))
		Expect(page.Month()).To(Equal("2024-02"))
	})

	It("should export the snapshot as a workbook", func() {
		page := dashboard.NewReportGenerator(api, bc, notifier, quietLogger())
		_, err := page.Generate(context.Background(), "2024-02", false)
		Expect(err).NotTo(HaveOccurred())

		dir := GinkgoT().TempDir()
		path, err := page.Export(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(dir, "business-controller-report-2024-02.xlsx")))

		f, err := excelize.OpenFile(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		Expect(f.GetSheetList()).To(Equal([]string{report.SheetReportData, report.SheetChangeSummary, report.SheetResourceSummary}))
	})
})

type fakeBrowserAPI struct {
	resources      []resource.Resource
	departments    []department.DepartmentResponse
	allocations    []resource.Allocation
	allocationsErr error
}

func (f *fakeBrowserAPI) Resources(ctx context.Context) ([]resource.Resource, error) {
	return f.resources, nil
}

func (f *fakeBrowserAPI) Departments(ctx context.Context) ([]department.DepartmentResponse, error) {
	return f.departments, nil
}

func (f *fakeBrowserAPI) Allocations(ctx context.Context) ([]resource.Allocation, error) {
	if f.allocationsErr != nil {
		return nil, f.allocationsErr
	}
	return f.allocations, nil
}

var _ = Describe("ResourceBrowser", func() {
	var (
		api      *fakeBrowserAPI
		notifier *recordingNotifier
		browser  *dashboard.ResourceBrowser
	)

	BeforeEach(func() {
		notifier = &recordingNotifier{}
		api = &fakeBrowserAPI{
			resources: []resource.Resource{
				{ID: 1, Name: "Ada", Department: "Engineering", Role: "Developer", WeeklyCapacity: 40, Skills: resource.Skills{"Java", "SQL"}, IsActive: true},
				{ID: 2, Name: "Ben", Department: "Finance", Role: "Business Controller", WeeklyCapacity: 40, IsActive: true},
			},
			departments: []department.DepartmentResponse{{ID: 1, Name: "Engineering"}, {ID: 2, Name: "Finance"}},
			allocations: []resource.Allocation{{ResourceID: 1, AllocatedHours: "32"}},
		}
		browser = dashboard.NewResourceBrowser(api, notifier, quietLogger(), 100)
	})

	It("should read as empty before loading", func() {
		Expect(browser.Visible()).To(BeEmpty())
		Expect(browser.RoleOptions()).To(Equal(resource.BaselineRoles))
	})

	It("should load all lists and derive facets", func() {
		Expect(browser.Load(context.Background())).To(Succeed())
		Expect(browser.RoleOptions()).To(Equal([]string{"Change Lead", "Manager Change", "Business Controller", "Developer"}))
		Expect(browser.SkillOptions()).To(Equal([]string{"Java", "SQL"}))
		Expect(browser.DepartmentOptions()).To(Equal([]string{"Engineering", "Finance"}))
	})

	It("should filter the loaded snapshot", func() {
		Expect(browser.Load(context.Background())).To(Succeed())
		Expect(browser.SetFilter(resource.Filter{Status: resource.StatusNearCapacity})).To(Succeed())

		visible := browser.Visible()
		Expect(visible).To(HaveLen(1))
		Expect(visible[0].Name).To(Equal("Ada"))

		Expect(browser.SetFilter(resource.Filter{Capacity: "nope"})).To(HaveOccurred())
		Expect(browser.Filter().Status).To(Equal(resource.StatusNearCapacity))
	})

	It("should keep the lists that loaded when one fails", func() {
		api.allocationsErr = errors.New("timeout")

		err := browser.Load(context.Background())
		Expect(err).To(MatchError(ContainSubstring("load allocations")))
		Expect(browser.Resources()).To(HaveLen(2))
		Expect(browser.Allocations()).To(BeEmpty())
		Expect(notifier.Last().Level).To(Equal(dashboard.LevelError))
	})

	It("should fall back from table to list on narrow terminals", func() {
		browser.SetView(dashboard.ViewTable)
		Expect(browser.EffectiveView(80)).To(Equal(dashboard.ViewList))
		Expect(browser.EffectiveView(120)).To(Equal(dashboard.ViewTable))

		browser.SetView(dashboard.ViewGrid)
		Expect(browser.EffectiveView(80)).To(Equal(dashboard.ViewGrid))
	})

	It("should parse view modes", func() {
		mode, err := dashboard.ParseViewMode(" Table ")
		Expect(err).NotTo(HaveOccurred())
		Expect(mode).To(Equal(dashboard.ViewTable))

		_, err = dashboard.ParseViewMode("kanban")
		Expect(err).To(HaveOccurred())
	})
})

type fakeTrackerAPI struct {
	mu          sync.Mutex
	records     []submission.Record
	byWeek      map[string][]submission.Record
	loads       int
	reminders   []submission.ReminderRequest
	reminderErr error
	export      []byte
}

func (f *fakeTrackerAPI) Submissions(ctx context.Context, week, dept string) ([]submission.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if records, ok := f.byWeek[week]; ok {
		return records, nil
	}
	return f.records, nil
}

func (f *fakeTrackerAPI) SendReminders(ctx context.Context, req submission.ReminderRequest) (*submission.ReminderResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, req)
	if f.reminderErr != nil {
		return nil, f.reminderErr
	}
	return &submission.ReminderResponse{SentCount: len(req.ResourceIDs)}, nil
}

func (f *fakeTrackerAPI) ExportSubmissions(ctx context.Context, week, dept string) ([]byte, error) {
	return f.export, nil
}

var _ = Describe("SubmissionTracker", func() {
	var (
		api      *fakeTrackerAPI
		notifier *recordingNotifier
		tracker  *dashboard.SubmissionTracker
	)

	BeforeEach(func() {
		notifier = &recordingNotifier{}
		eng := &submission.DepartmentRef{ID: 1, Name: "Engineering"}
		api = &fakeTrackerAPI{
			records: []submission.Record{
				{ResourceID: 1, Department: eng, Submission: &submission.Submission{IsSubmitted: true}},
				{ResourceID: 2, Department: eng, Submission: &submission.Submission{IsSubmitted: false}},
				{ResourceID: 3, Department: eng},
				{ResourceID: 4, Department: &submission.DepartmentRef{ID: 2, Name: ""}, Submission: &submission.Submission{IsSubmitted: true}},
			},
			export: []byte("xlsx"),
		}
		tracker = dashboard.NewSubmissionTracker(api, notifier, quietLogger())
		Expect(tracker.Select("2024-03-04", "")).To(Succeed())
	})

	It("should list eight weeks with the current one first", func() {
		weeks := tracker.Weeks()
		Expect(weeks).To(HaveLen(8))
		Expect(weeks[0].IsCurrent).To(BeTrue())
		Expect(weeks[0].Start.Weekday()).To(Equal(time.Monday))
	})

	It("should refuse a week that does not start on Monday", func() {
		Expect(tracker.Select("2024-03-05", "")).To(HaveOccurred())
		week, dept := tracker.Selection()
		Expect(week).To(Equal("2024-03-04"))
		Expect(dept).To(Equal("all"))
	})

	It("should compute stats over the loaded records", func() {
		Expect(tracker.Load(context.Background())).To(Succeed())

		stats := tracker.Stats()
		Expect(stats.Total).To(Equal(4))
		Expect(stats.Submitted).To(Equal(2))
		Expect(stats.NotSubmitted).To(Equal(2))
		Expect(stats.Skipped).To(Equal(1))
		Expect(stats.ByDepartment["Engineering"].Total).To(Equal(3))
	})

	It("should remind exactly the pending resources and refresh", func() {
		Expect(tracker.Load(context.Background())).To(Succeed())

		sent, err := tracker.SendAll(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(sent).To(Equal(2))
		Expect(api.reminders).To(Equal([]submission.ReminderRequest{{WeekStartDate: "2024-03-04", ResourceIDs: []int64{2, 3}}}))
		Expect(api.loads).To(Equal(2))
		Expect(notifier.Last().Level).To(Equal(dashboard.LevelSuccess))
	})

	It("should remind the pending resources of a newly selected week", func() {
		api.byWeek = map[string][]submission.Record{
			"2024-03-04": {
				{ResourceID: 1, Submission: &submission.Submission{IsSubmitted: false}},
				{ResourceID: 2, Submission: &submission.Submission{IsSubmitted: true}},
			},
			"2024-03-11": {
				{ResourceID: 1, Submission: &submission.Submission{IsSubmitted: true}},
				{ResourceID: 2},
			},
		}
		Expect(tracker.Load(context.Background())).To(Succeed())
		Expect(tracker.Select("2024-03-11", "")).To(Succeed())

		sent, err := tracker.SendAll(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(sent).To(Equal(1))
		Expect(api.reminders).To(Equal([]submission.ReminderRequest{{WeekStartDate: "2024-03-11", ResourceIDs: []int64{2}}}))
	})

	It("should drop the loaded overview when the selection changes", func() {
		Expect(tracker.Load(context.Background())).To(Succeed())
		Expect(tracker.Records()).To(HaveLen(4))

		Expect(tracker.Select("2024-03-04", "Engineering")).To(Succeed())
		Expect(tracker.Records()).To(BeNil())
		Expect(tracker.Stats().Total).To(BeZero())

		Expect(tracker.Select("2024-03-04", "Engineering")).To(Succeed())
		Expect(tracker.Load(context.Background())).To(Succeed())
		Expect(tracker.Records()).To(HaveLen(4))
	})

	It("should not send when everyone submitted", func() {
		api.records = api.records[:1]
		Expect(tracker.Load(context.Background())).To(Succeed())

		sent, err := tracker.SendAll(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(sent).To(BeZero())
		Expect(api.reminders).To(BeEmpty())
		Expect(notifier.Last().Level).To(Equal(dashboard.LevelInfo))
	})

	It("should report failures once without retrying", func() {
		api.reminderErr = errors.New("503")

		_, err := tracker.SendReminders(context.Background(), []int64{2})
		Expect(err).To(HaveOccurred())
		Expect(api.reminders).To(HaveLen(1))
		Expect(api.loads).To(BeZero())
		Expect(notifier.Last()).To(Equal(dashboard.Notice{Level: dashboard.LevelError, Title: "Error", Message: "Failed to send reminders."}))
	})

	It("should write the export with the week in its name", func() {
		dir := GinkgoT().TempDir()
		path, err := tracker.Export(context.Background(), dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(dir, "submission-overview-2024-03-04.xlsx")))

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("xlsx"))
	})
})
