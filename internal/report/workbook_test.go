package report_test

import (
	"bytes"

	"github.com/frahmantamala/resource-management/internal/report"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("Workbook export", func() {
	rows := []report.Row{
		{ChangeID: 7, ChangeTitle: "Ledger migration", ChangeStatus: "in_progress", ResourceID: 1, ResourceName: "Ana", Role: "Change Lead", Director: "Rui", ChangeLead: "Ana", Stream: "Finance", Month: "2024-03", TotalActualHours: 10},
		{ChangeID: 7, ChangeTitle: "Ledger migration", ChangeStatus: "in_progress", ResourceID: 2, ResourceName: "Ben", Month: "2024-03", TotalActualHours: 6.5},
		{ChangeID: 9, ChangeTitle: "Portal", ChangeStatus: "planned", ResourceID: 1, ResourceName: "Ana", Role: "Change Lead", Month: "2024-03", TotalActualHours: 4},
	}

	It("should merge rows sharing a change into one summary line", func() {
		changes := report.SummarizeByChange(rows)
		Expect(changes).To(HaveLen(2))
		Expect(changes[0].ChangeID).To(Equal(int64(7)))
		Expect(changes[0].ResourceCount).To(Equal(2))
		Expect(changes[0].TotalHours).To(Equal(16.5))
		Expect(changes[1].ResourceCount).To(Equal(1))
	})

	It("should count distinct changes per resource", func() {
		resources := report.SummarizeByResource(rows)
		Expect(resources).To(HaveLen(2))
		Expect(resources[0].ResourceName).To(Equal("Ana"))
		Expect(resources[0].ChangeCount).To(Equal(2))
		Expect(resources[0].TotalHours).To(Equal(14.0))
		Expect(resources[1].Role).To(Equal("Not specified"))
	})

	It("should not double count a repeated pair", func() {
		dup := append([]report.Row{}, rows[0], rows[0])
		changes := report.SummarizeByChange(dup)
		Expect(changes).To(HaveLen(1))
		Expect(changes[0].ResourceCount).To(Equal(1))
		Expect(changes[0].TotalHours).To(Equal(20.0))
	})

	It("should write three named sheets with placeholders", func() {
		var buf bytes.Buffer
		Expect(report.WriteWorkbook(&buf, rows)).To(Succeed())

		f, err := excelize.OpenReader(&buf)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		Expect(f.GetSheetList()).To(Equal([]string{"Report Data", "Change Summary", "Resource Summary"}))

		data, err := f.GetRows("Report Data")
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(HaveLen(4))
		Expect(data[0][0]).To(Equal("Change ID"))
		Expect(data[2][4]).To(Equal("Not specified"))
		Expect(data[2][5]).To(Equal("Not assigned"))
		Expect(data[2][6]).To(Equal("Not assigned"))
		Expect(data[2][7]).To(Equal("General"))

		summary, err := f.GetRows("Change Summary")
		Expect(err).NotTo(HaveOccurred())
		Expect(summary).To(HaveLen(3))
		Expect(summary[1][3]).To(Equal("16.5"))
		Expect(summary[1][4]).To(Equal("2"))
	})

	It("should name the file after the month", func() {
		Expect(report.FileName("2024-03")).To(Equal("business-controller-report-2024-03.xlsx"))
	})
})
