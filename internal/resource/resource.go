package resource

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	resourceDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/resource"
)

// DefaultWeeklyCapacity applies when a resource has no capacity recorded.
const DefaultWeeklyCapacity = 40.0

type Resource struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	DepartmentID   *int64  `json:"departmentId,omitempty"`
	Department     string  `json:"department"`
	Role           string  `json:"role"`
	WeeklyCapacity float64 `json:"weeklyCapacity"`
	Skills         Skills  `json:"skills"`
	IsActive       bool    `json:"isActive"`
}

// Capacity returns the weekly capacity, falling back to DefaultWeeklyCapacity.
func (r Resource) Capacity() float64 {
	if r.WeeklyCapacity <= 0 {
		return DefaultWeeklyCapacity
	}
	return r.WeeklyCapacity
}

type Allocation struct {
	ID             int64  `json:"id"`
	ResourceID     int64  `json:"resourceId"`
	ChangeID       *int64 `json:"changeId,omitempty"`
	AllocatedHours string `json:"allocatedHours"`
}

// Hours parses the allocated hours text; anything unparsable counts as zero.
func (a Allocation) Hours() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(a.AllocatedHours), 64)
	if err != nil {
		return 0
	}
	return v
}

// Skills accepts either a comma-separated string or a JSON list on decode.
type Skills []string

func ParseSkills(raw string) Skills {
	parts := strings.Split(raw, ",")
	out := make(Skills, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Skills) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*s = Skills{}
		return nil
	}

	if strings.HasPrefix(trimmed, "\"") {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("skills: %w", err)
		}
		*s = ParseSkills(raw)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("skills: expected string or list: %w", err)
	}
	out := make(Skills, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*s = out
	return nil
}

func (s Skills) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// Normalized joins the skills into one lowercase string for substring matching.
func (s Skills) Normalized() string {
	return strings.ToLower(strings.Join(s, ", "))
}

func (s Skills) String() string {
	return strings.Join(s, ", ")
}

// AllocatedHours sums the hours of every allocation belonging to resourceID.
func AllocatedHours(resourceID int64, allocations []Allocation) float64 {
	var total float64
	for _, a := range allocations {
		if a.ResourceID == resourceID {
			total += a.Hours()
		}
	}
	return total
}

// Utilization is allocated hours over weekly capacity, as a percentage.
func Utilization(r Resource, allocated float64) float64 {
	return allocated * 100 / r.Capacity()
}

func FromDataModel(r *resourceDatamodel.Resource) Resource {
	out := Resource{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		DepartmentID:   r.DepartmentID,
		Role:           r.Role,
		WeeklyCapacity: r.WeeklyCapacity,
		Skills:         ParseSkills(r.Skills),
		IsActive:       r.IsActive,
	}
	if r.Department != nil {
		out.Department = r.Department.Name
	}
	return out
}

func ToDataModel(r Resource) *resourceDatamodel.Resource {
	return &resourceDatamodel.Resource{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		DepartmentID:   r.DepartmentID,
		Role:           r.Role,
		WeeklyCapacity: r.WeeklyCapacity,
		Skills:         r.Skills.String(),
		IsActive:       r.IsActive,
	}
}

func AllocationFromDataModel(a *resourceDatamodel.Allocation) Allocation {
	return Allocation{
		ID:             a.ID,
		ResourceID:     a.ResourceID,
		ChangeID:       a.ChangeID,
		AllocatedHours: a.AllocatedHours,
	}
}
