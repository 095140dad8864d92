package history

import (
	"slices"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// All is the selector value that disables a filter.
const All = "all"

// Sort returns a copy of events ordered by date, most recent first. Events
// with equal dates keep their projection order.
func Sort(events []models.HistoryEvent) []models.HistoryEvent {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b models.HistoryEvent) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// Filter narrows events by vehicle and kind. An empty selector behaves like All.
type Filter struct {
	VehicleID string
	Kind      string
}

func selected(sel string) bool {
	return sel != "" && sel != All
}

// Match reports whether e passes both selectors.
func (f Filter) Match(e models.HistoryEvent) bool {
	if selected(f.VehicleID) && e.VehicleID != f.VehicleID {
		return false
	}
	if selected(f.Kind) && string(e.Kind) != f.Kind {
		return false
	}
	return true
}

// Apply returns the events matching f in their original order. The input
// slice is not modified.
func (f Filter) Apply(events []models.HistoryEvent) []models.HistoryEvent {
	out := make([]models.HistoryEvent, 0, len(events))
	for _, e := range events {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
