package history

import (
	"time"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// UnassignedVehicleID is the vehicle reference given to catalog service
// events when there is no vehicle to assign them to.
const UnassignedVehicleID = "unassigned"

// Policy decides the parts of the history that have no recorded source:
// which vehicle a catalog service is shown against and when services and
// documents appear to have happened. Swap it for a real service ledger or
// document audit log without touching the projector.
type Policy interface {
	// Today is read once per projection; every synthetic date of that
	// projection is derived from the same instant.
	Today() time.Time
	// ServiceVehicle returns the vehicle id for the catalog entry at index.
	ServiceVehicle(index int, vehicles []models.Vehicle) string
	// ServiceDate returns the event date for the catalog entry at index.
	ServiceDate(today time.Time, index int, service models.Service) time.Time
	// DocumentDate returns the event date for the document at index within its vehicle.
	DocumentDate(today time.Time, index int, doc models.Document) time.Time
	// Location is the time zone appointment dates and times are read in.
	Location() *time.Location
}

// SyntheticPolicy fabricates plausible past dates relative to the clock and
// assigns catalog services to vehicles round-robin. None of its dates are
// real event timestamps.
type SyntheticPolicy struct {
	// Now defaults to time.Now.
	Now func() time.Time
	// Loc defaults to time.Local.
	Loc *time.Location
	// ServiceMonthsCycle and DocumentMonthsCycle bound how far back the
	// synthetic dates go. Defaults: 6 and 3.
	ServiceMonthsCycle  int
	DocumentMonthsCycle int
}

// Today reads the clock.
func (p SyntheticPolicy) Today() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func cycle(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}

// ServiceVehicle assigns index modulo the vehicle count, falling back to
// UnassignedVehicleID when there are no vehicles.
func (p SyntheticPolicy) ServiceVehicle(index int, vehicles []models.Vehicle) string {
	if len(vehicles) == 0 {
		return UnassignedVehicleID
	}
	return vehicles[index%len(vehicles)].ID
}

// ServiceDate is today minus 1 + (index mod 6) months.
func (p SyntheticPolicy) ServiceDate(today time.Time, index int, _ models.Service) time.Time {
	return today.AddDate(0, -(1 + index%cycle(p.ServiceMonthsCycle, 6)), 0)
}

// DocumentDate is today minus 1 + (index mod 3) months. The document's own
// DateAdded is not used.
func (p SyntheticPolicy) DocumentDate(today time.Time, index int, _ models.Document) time.Time {
	return today.AddDate(0, -(1 + index%cycle(p.DocumentMonthsCycle, 3)), 0)
}

// Location returns the configured zone.
func (p SyntheticPolicy) Location() *time.Location {
	if p.Loc == nil {
		return time.Local
	}
	return p.Loc
}
