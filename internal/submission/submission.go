package submission

import (
	"time"

	submissionDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/submission"
)

type Submission struct {
	IsSubmitted bool       `json:"isSubmitted"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

type DepartmentRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Record is one resource's timesheet state for a single week.
type Record struct {
	ResourceID     int64          `json:"resourceId"`
	ResourceName   string         `json:"resourceName"`
	Email          string         `json:"email"`
	Department     *DepartmentRef `json:"department"`
	WeekStartDate  string         `json:"weekStartDate"`
	Submission     *Submission    `json:"submission"`
	HasTimeEntries bool           `json:"hasTimeEntries"`
}

func (r Record) IsSubmitted() bool {
	return r.Submission != nil && r.Submission.IsSubmitted
}

// DepartmentName is empty when the record carries no usable department.
func (r Record) DepartmentName() string {
	if r.Department == nil {
		return ""
	}
	return r.Department.Name
}

// Pending returns the ids of records without a true submitted flag, in record order.
func Pending(records []Record) []int64 {
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		if !r.IsSubmitted() {
			ids = append(ids, r.ResourceID)
		}
	}
	return ids
}

func SubmissionFromDataModel(s *submissionDatamodel.TimesheetSubmission) *Submission {
	if s == nil {
		return nil
	}
	return &Submission{
		IsSubmitted: s.IsSubmitted,
		SubmittedAt: s.SubmittedAt,
	}
}
