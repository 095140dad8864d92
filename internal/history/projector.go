// Package history builds the unified vehicle history feed: appointments,
// catalog services and vehicle documents projected into one list of
// events, sorted most recent first and filtered by vehicle and kind.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// Title and detail strings shown in the feed.
const (
	TitleRepair     = "Réparation"
	TitleInspection = "Inspection"

	// UnknownVehicleLabel is shown for events whose vehicle no longer exists.
	UnknownVehicleLabel = "Véhicule inconnu"
)

// Project maps the three record streams into history events: appointments
// first, then catalog services, then each vehicle's documents in stored
// order. It never drops a record and does not modify its inputs.
func Project(appointments []models.Appointment, services []models.Service, vehicles []models.Vehicle, policy Policy) []models.HistoryEvent {
	if policy == nil {
		policy = SyntheticPolicy{}
	}
	return project(appointments, services, vehicles, policy, policy.Today())
}

func project(appointments []models.Appointment, services []models.Service, vehicles []models.Vehicle, policy Policy, today time.Time) []models.HistoryEvent {

	docCount := 0
	for _, v := range vehicles {
		docCount += len(v.Documents)
	}
	events := make([]models.HistoryEvent, 0, len(appointments)+len(services)+docCount)

	loc := policy.Location()
	for _, a := range appointments {
		events = append(events, models.HistoryEvent{
			ID:        "appointment-" + a.ID,
			Kind:      models.EventAppointment,
			Date:      a.ScheduledAt(loc),
			Title:     appointmentTitle(a.ServiceType),
			VehicleID: a.VehicleID,
			Status:    string(a.Status),
			Details:   "Centre " + a.CenterID,
		})
	}

	for i, s := range services {
		events = append(events, models.HistoryEvent{
			ID:        "service-" + s.ID,
			Kind:      models.EventService,
			Date:      policy.ServiceDate(today, i, s),
			Title:     s.Name,
			VehicleID: policy.ServiceVehicle(i, vehicles),
			Status:    string(models.AppointmentCompleted),
			Details:   serviceDetails(s),
		})
	}

	for _, v := range vehicles {
		for i, d := range v.Documents {
			events = append(events, models.HistoryEvent{
				ID:        "document-" + d.ID,
				Kind:      models.EventDocument,
				Date:      policy.DocumentDate(today, i, d),
				Title:     "Document ajouté : " + d.Type,
				VehicleID: v.ID,
				Status:    string(models.AppointmentCompleted),
				Details:   documentDetails(d),
			})
		}
	}
	return events
}

func appointmentTitle(t models.ServiceType) string {
	if t == models.ServiceTypeRepair {
		return TitleRepair
	}
	return TitleInspection
}

func serviceDetails(s models.Service) string {
	parts := []string{string(s.Category)}
	if s.EstimatedDurationMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%d min", s.EstimatedDurationMinutes))
	}
	if s.Price != nil {
		parts = append(parts, fmt.Sprintf("%.2f $", *s.Price))
	}
	return strings.Join(parts, " · ")
}

func documentDetails(d models.Document) string {
	if t, ok := d.Expiry(); ok {
		return "Expire le " + t.Format("02/01/2006")
	}
	if d.ExpiryDate != nil {
		return "Expire le " + *d.ExpiryDate
	}
	return ""
}

// VehicleLabel resolves a vehicle id to "make model", or UnknownVehicleLabel
// when no vehicle has that id.
func VehicleLabel(vehicles []models.Vehicle, id string) string {
	for _, v := range vehicles {
		if v.ID == id {
			return v.Label()
		}
	}
	return UnknownVehicleLabel
}
