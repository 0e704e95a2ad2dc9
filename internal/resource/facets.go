package resource

import (
	"sort"
	"strings"
)

// BaselineRoles always lead the role facet.
var BaselineRoles = []string{"Change Lead", "Manager Change", "Business Controller"}

// RoleOptions lists the baseline roles followed by any other role observed
// in resources, in order of first appearance. Roles differing only in case
// are listed once.
func RoleOptions(resources []Resource) []string {
	out := make([]string, 0, len(BaselineRoles)+len(resources))
	seen := make(map[string]struct{}, len(BaselineRoles)+len(resources))
	for _, role := range BaselineRoles {
		seen[strings.ToLower(role)] = struct{}{}
		out = append(out, role)
	}
	for _, r := range resources {
		role := strings.TrimSpace(r.Role)
		if role == "" {
			continue
		}
		key := strings.ToLower(role)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, role)
	}
	return out
}

// SkillOptions is the sorted, de-duplicated union of all resource skills.
func SkillOptions(resources []Resource) []string {
	seen := make(map[string]struct{})
	for _, r := range resources {
		for _, skill := range r.Skills {
			if skill = strings.TrimSpace(skill); skill != "" {
				seen[skill] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for skill := range seen {
		out = append(out, skill)
	}
	sort.Strings(out)
	return out
}

// DepartmentOptions lists the distinct non-empty department names of resources, sorted.
func DepartmentOptions(resources []Resource) []string {
	seen := make(map[string]struct{})
	for _, r := range resources {
		if d := strings.TrimSpace(r.Department); d != "" {
			seen[d] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
