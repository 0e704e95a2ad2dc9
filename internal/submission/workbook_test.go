package submission_test

import (
	"bytes"
	"time"

	"github.com/frahmantamala/resource-management/internal/submission"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("Submission workbook", func() {
	It("should render the overview and department sheets", func() {
		at := time.Date(2024, 3, 8, 17, 0, 0, 0, time.UTC)
		records := []submission.Record{
			{ResourceID: 1, ResourceName: "Ana", Email: "ana@example.com", WeekStartDate: "2024-03-04",
				Department: &submission.DepartmentRef{ID: 1, Name: "Engineering"},
				Submission: &submission.Submission{IsSubmitted: true, SubmittedAt: &at}, HasTimeEntries: true},
			{ResourceID: 2, ResourceName: "Ben", Email: "ben@example.com", WeekStartDate: "2024-03-04"},
		}

		data, err := submission.RenderWorkbook(records, submission.ComputeStats(records, quietLogger))
		Expect(err).NotTo(HaveOccurred())

		f, err := excelize.OpenReader(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		Expect(f.GetSheetList()).To(Equal([]string{"Submission Overview", "Department Summary"}))

		rows, err := f.GetRows("Submission Overview")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[1]).To(Equal([]string{"Ana", "ana@example.com", "Engineering", "2024-03-04", "Submitted", "2024-03-08T17:00:00Z", "Yes"}))
		Expect(rows[2][2]).To(Equal("Unassigned"))
		Expect(rows[2][4]).To(Equal("Not submitted"))

		summary, err := f.GetRows("Department Summary")
		Expect(err).NotTo(HaveOccurred())
		Expect(summary).To(HaveLen(3))
		Expect(summary[2]).To(Equal([]string{"All", "2", "1", "1", "50"}))
	})

	It("should name the file after the week", func() {
		Expect(submission.FileName("2024-03-04")).To(Equal("submission-overview-2024-03-04.xlsx"))
	})
})
