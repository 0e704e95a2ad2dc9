package report

import "sort"

const topN = 5

type ResourceHours struct {
	ResourceID   int64   `json:"resourceId"`
	ResourceName string  `json:"resourceName"`
	TotalHours   float64 `json:"totalHours"`
}

type ChangeHours struct {
	ChangeID    int64   `json:"changeId"`
	ChangeTitle string  `json:"changeTitle"`
	TotalHours  float64 `json:"totalHours"`
}

type Summary struct {
	TotalChanges          int             `json:"totalChanges"`
	TotalResources        int             `json:"totalResources"`
	TotalHours            float64         `json:"totalHours"`
	AverageHoursPerChange float64         `json:"averageHoursPerChange"`
	TopResources          []ResourceHours `json:"topResources"`
	TopChanges            []ChangeHours   `json:"topChanges"`
}

// Summarize derives the headline figures for rows. Top lists hold at most five
// entries ordered by hours descending, ties broken by name.
func Summarize(rows []Row) Summary {
	resources := make(map[int64]*ResourceHours)
	changes := make(map[int64]*ChangeHours)
	var total float64

	for _, row := range rows {
		total += row.TotalActualHours

		rh, ok := resources[row.ResourceID]
		if !ok {
			rh = &ResourceHours{ResourceID: row.ResourceID, ResourceName: row.ResourceName}
			resources[row.ResourceID] = rh
		}
		rh.TotalHours += row.TotalActualHours

		ch, ok := changes[row.ChangeID]
		if !ok {
			ch = &ChangeHours{ChangeID: row.ChangeID, ChangeTitle: row.ChangeTitle}
			changes[row.ChangeID] = ch
		}
		ch.TotalHours += row.TotalActualHours
	}

	summary := Summary{
		TotalChanges:   len(changes),
		TotalResources: len(resources),
		TotalHours:     total,
		TopResources:   make([]ResourceHours, 0, len(resources)),
		TopChanges:     make([]ChangeHours, 0, len(changes)),
	}
	if len(changes) > 0 {
		summary.AverageHoursPerChange = total / float64(len(changes))
	}

	for _, rh := range resources {
		summary.TopResources = append(summary.TopResources, *rh)
	}
	sort.Slice(summary.TopResources, func(i, j int) bool {
		a, b := summary.TopResources[i], summary.TopResources[j]
		if a.TotalHours != b.TotalHours {
			return a.TotalHours > b.TotalHours
		}
		if a.ResourceName != b.ResourceName {
			return a.ResourceName < b.ResourceName
		}
		return a.ResourceID < b.ResourceID
	})
	if len(summary.TopResources) > topN {
		summary.TopResources = summary.TopResources[:topN]
	}

	for _, ch := range changes {
		summary.TopChanges = append(summary.TopChanges, *ch)
	}
	sort.Slice(summary.TopChanges, func(i, j int) bool {
		a, b := summary.TopChanges[i], summary.TopChanges[j]
		if a.TotalHours != b.TotalHours {
			return a.TotalHours > b.TotalHours
		}
		if a.ChangeTitle != b.ChangeTitle {
			return a.ChangeTitle < b.ChangeTitle
		}
		return a.ChangeID < b.ChangeID
	})
	if len(summary.TopChanges) > topN {
		summary.TopChanges = summary.TopChanges[:topN]
	}

	return summary
}
