package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/resource-management/internal"
	"github.com/frahmantamala/resource-management/internal/report"
	"github.com/frahmantamala/resource-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type MockRepository struct {
	rows       []report.Row
	err        error
	period     report.Period
	activeOnly bool
	calls      int
}

func (m *MockRepository) ActualHours(ctx context.Context, period report.Period, activeOnly bool) ([]report.Row, error) {
	m.calls++
	m.period = period
	m.activeOnly = activeOnly
	return m.rows, m.err
}

var _ = Describe("Report Service", func() {
	var (
		mockRepo *MockRepository
		service  *report.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = &MockRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = report.NewService(mockRepo, logger)
	})

	It("should pass the parsed period and flag to the repository", func() {
		mockRepo.rows = []report.Row{
			{ChangeID: 1, ChangeTitle: "A", ResourceID: 1, ResourceName: "Ana", TotalActualHours: 3},
		}

		resp, err := service.Generate(ctx, report.GenerateRequest{StartDate: "2024-03-01", EndDate: "2024-03-31", ShowOnlyActive: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(mockRepo.period.StartDate()).To(Equal("2024-03-01"))
		Expect(mockRepo.period.EndDate()).To(Equal("2024-03-31"))
		Expect(mockRepo.activeOnly).To(BeTrue())
		Expect(resp.ReportData).To(HaveLen(1))
		Expect(resp.Summary.TotalHours).To(Equal(3.0))
	})

	It("should return an empty list rather than nil", func() {
		resp, err := service.Generate(ctx, report.GenerateRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.ReportData).NotTo(BeNil())
		Expect(resp.ReportData).To(BeEmpty())
	})

	It("should reject malformed dates without querying", func() {
		_, err := service.Generate(ctx, report.GenerateRequest{StartDate: "03/01/2024", EndDate: "2024-03-31"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDate))
		Expect(mockRepo.calls).To(Equal(0))
	})

	It("should reject reversed periods", func() {
		_, err := service.Generate(ctx, report.GenerateRequest{StartDate: "2024-04-01", EndDate: "2024-03-01"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidPeriod))
	})

	It("should wrap repository failures", func() {
		mockRepo.err = errors.New("connection reset")
		_, err := service.Generate(ctx, report.GenerateRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
	})
})

var _ = Describe("Report Handler", func() {
	var (
		mockRepo *MockRepository
		handler  *report.Handler
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockRepo = &MockRepository{rows: []report.Row{
			{ChangeID: 4, ChangeTitle: "Data lake", ResourceID: 2, ResourceName: "Ben", Month: "2024-03", TotalActualHours: 7.5},
		}}
		handler = report.NewHandler(transport.NewBaseHandler(logger), report.NewService(mockRepo, logger))
	})

	It("should return camelCase report data and summary", func() {
		body, _ := json.Marshal(map[string]interface{}{
			"startDate":      "2024-03-01",
			"endDate":        "2024-03-31",
			"showOnlyActive": false,
		})
		req := httptest.NewRequest(http.MethodPost, "/reports/business-controller", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.GenerateBusinessControllerReport(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var raw map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &raw)).To(Succeed())
		Expect(raw).To(HaveKey("reportData"))
		Expect(raw).To(HaveKey("summary"))

		first := raw["reportData"].([]interface{})[0].(map[string]interface{})
		Expect(first["changeId"]).To(BeNumerically("==", 4))
		Expect(first["totalActualHours"]).To(BeNumerically("==", 7.5))
	})

	It("should reject an unparsable body", func() {
		req := httptest.NewRequest(http.MethodPost, "/reports/business-controller", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()

		handler.GenerateBusinessControllerReport(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should map validation errors to 400", func() {
		req := httptest.NewRequest(http.MethodPost, "/reports/business-controller",
			bytes.NewBufferString(`{"startDate":"2024-03-31","endDate":"2024-03-01"}`))
		w := httptest.NewRecorder()

		handler.GenerateBusinessControllerReport(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
