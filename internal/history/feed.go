package history

import (
	"sync"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/metrics"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// AppointmentSource provides the latest appointments snapshot.
type AppointmentSource interface {
	Snapshot() []models.Appointment
	Version() uint64
}

// ServiceSource provides the latest catalog snapshot.
type ServiceSource interface {
	Snapshot() []models.Service
	Version() uint64
}

// VehicleSource provides the latest vehicles snapshot.
type VehicleSource interface {
	Snapshot() []models.Vehicle
	Version() uint64
}

// Result is a filtered, sorted history page. Results may be shared between
// callers and must not be modified.
type Result struct {
	Events []models.HistoryEvent
	Total  int
	// Vehicles is the vehicle snapshot the events were projected from, for
	// label resolution.
	Vehicles []models.Vehicle
}

// Label resolves the display label of vehicleID against the result's snapshot.
func (r Result) Label(vehicleID string) string {
	return VehicleLabel(r.Vehicles, vehicleID)
}

type memoKey struct {
	appointments, services, vehicles uint64
	day                              string
	filter                           Filter
}

// Feed computes the history from the record stores on each call. Results
// are memoized per store versions, calendar day and filter, so a repeated query with no
// intervening mutation returns the previous result.
type Feed struct {
	appointments AppointmentSource
	services     ServiceSource
	vehicles     VehicleSource
	policy       Policy

	// Memoize reuses the previous result when the store versions, the
	// policy's calendar day and the filter are unchanged.
	Memoize bool

	mu    sync.Mutex
	key   memoKey
	valid bool
	last  Result
}

// NewFeed wires a feed over the three stores. A nil policy uses SyntheticPolicy.
func NewFeed(appointments AppointmentSource, services ServiceSource, vehicles VehicleSource, policy Policy) *Feed {
	if policy == nil {
		policy = SyntheticPolicy{}
	}
	return &Feed{
		appointments: appointments,
		services:     services,
		vehicles:     vehicles,
		policy:       policy,
		Memoize:      true,
	}
}

// Query projects, sorts and filters the latest snapshots.
func (f *Feed) Query(filter Filter) Result {
	metrics.HistoryFeedRequestsTotal.Inc()

	today := f.policy.Today()
	key := memoKey{
		appointments: f.appointments.Version(),
		services:     f.services.Version(),
		vehicles:     f.vehicles.Version(),
		day:          today.In(f.policy.Location()).Format(models.DateLayout),
		filter:       normalize(filter),
	}
	if f.Memoize {
		f.mu.Lock()
		if f.valid && f.key == key {
			res := f.last
			f.mu.Unlock()
			metrics.HistoryFeedCacheHitsTotal.Inc()
			return res
		}
		f.mu.Unlock()
	}

	vehicles := f.vehicles.Snapshot()
	events := project(f.appointments.Snapshot(), f.services.Snapshot(), vehicles, f.policy, today)
	filtered := filter.Apply(Sort(events))
	res := Result{Events: filtered, Total: len(filtered), Vehicles: vehicles}

	if f.Memoize {
		f.mu.Lock()
		f.key, f.last, f.valid = key, res, true
		f.mu.Unlock()
	}
	return res
}

func normalize(f Filter) Filter {
	if !selected(f.VehicleID) {
		f.VehicleID = All
	}
	if !selected(f.Kind) {
		f.Kind = All
	}
	return f
}
