package resource

import (
	"fmt"
	"strings"
)

const FilterAll = "all"

const (
	StatusAvailable     = "available"
	StatusNearCapacity  = "near-capacity"
	StatusOverallocated = "overallocated"
	StatusUnassigned    = "unassigned"
)

const (
	CapacityUnder50 = "under-50"
	Capacity50To80  = "50-80"
	Capacity80To100 = "80-100"
	CapacityOver100 = "over-100"
)

// Filter is the browser's filter state. Empty fields behave like "all".
type Filter struct {
	Search     string `json:"search,omitempty"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
	Status     string `json:"status,omitempty"`
	Capacity   string `json:"capacity,omitempty"`
	Skill      string `json:"skill,omitempty"`
}

// IsZero reports whether the filter lets every resource through.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" &&
		isAll(f.Department) && isAll(f.Role) && isAll(f.Status) &&
		isAll(f.Capacity) && isAll(f.Skill)
}

func (f Filter) Validate() error {
	if !isAll(f.Status) {
		switch normalize(f.Status) {
		case StatusAvailable, StatusNearCapacity, StatusOverallocated, StatusUnassigned:
		default:
			return fmt.Errorf("unknown status filter %q", f.Status)
		}
	}
	if !isAll(f.Capacity) {
		switch normalize(f.Capacity) {
		case CapacityUnder50, Capacity50To80, Capacity80To100, CapacityOver100:
		default:
			return fmt.Errorf("unknown capacity filter %q", f.Capacity)
		}
	}
	return nil
}

// Matches evaluates the filter against one resource and its allocations.
// Allocations of other resources are ignored.
func Matches(r Resource, allocations []Allocation, f Filter) bool {
	allocated := AllocatedHours(r.ID, allocations)
	utilization := Utilization(r, allocated)

	return matchesSearch(r, f.Search) &&
		matchesExact(r.Department, f.Department) &&
		matchesExact(r.Role, f.Role) &&
		matchesStatus(r, allocated, utilization, f.Status) &&
		matchesCapacity(utilization, f.Capacity) &&
		matchesSkills(r.Skills, f.Skill)
}

// Apply returns the resources passing f, in their original order.
func Apply(resources []Resource, allocations []Allocation, f Filter) []Resource {
	byResource := make(map[int64][]Allocation, len(resources))
	for _, a := range allocations {
		byResource[a.ResourceID] = append(byResource[a.ResourceID], a)
	}

	out := make([]Resource, 0, len(resources))
	for _, r := range resources {
		if Matches(r, byResource[r.ID], f) {
			out = append(out, r)
		}
	}
	return out
}

func matchesSearch(r Resource, term string) bool {
	term = normalize(term)
	if term == "" {
		return true
	}
	for _, field := range []string{r.Name, r.Email, r.Role, r.Department} {
		if strings.Contains(normalize(field), term) {
			return true
		}
	}
	return false
}

func matchesExact(value, filter string) bool {
	if isAll(filter) {
		return true
	}
	return normalize(value) == normalize(filter)
}

func matchesStatus(r Resource, allocated, utilization float64, status string) bool {
	if isAll(status) {
		return true
	}
	if !r.IsActive {
		return false
	}
	switch normalize(status) {
	case StatusAvailable:
		return utilization < 80
	case StatusNearCapacity:
		return utilization >= 80 && utilization <= 100
	case StatusOverallocated:
		return utilization > 100
	case StatusUnassigned:
		return allocated == 0
	default:
		return false
	}
}

func matchesCapacity(utilization float64, bucket string) bool {
	if isAll(bucket) {
		return true
	}
	switch normalize(bucket) {
	case CapacityUnder50:
		return utilization < 50
	case Capacity50To80:
		return utilization >= 50 && utilization < 80
	case Capacity80To100:
		return utilization >= 80 && utilization <= 100
	case CapacityOver100:
		return utilization > 100
	default:
		return false
	}
}

// matchesSkills requires every whitespace-separated term to appear.
func matchesSkills(skills Skills, filter string) bool {
	if isAll(filter) {
		return true
	}
	haystack := skills.Normalized()
	for _, term := range strings.Fields(strings.ToLower(filter)) {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

func isAll(v string) bool {
	v = normalize(v)
	return v == "" || v == FilterAll
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
