package models

import "time"

// ServiceType is the kind of work an appointment is booked for.
type ServiceType string

const (
	ServiceTypeInspection ServiceType = "inspection"
	ServiceTypeRepair     ServiceType = "repair"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a booked visit of a vehicle to a service center.
type Appointment struct {
	ID          string            `bson:"id" json:"id"`
	Date        string            `bson:"date" json:"date"` // YYYY-MM-DD
	Time        string            `bson:"time" json:"time"` // HH:MM, center local time
	ServiceType ServiceType       `bson:"service_type" json:"service_type"`
	VehicleID   string            `bson:"vehicle_id" json:"vehicle_id"`
	CenterID    string            `bson:"center_id" json:"center_id"`
	Status      AppointmentStatus `bson:"status" json:"status"`
	Notes       string            `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `bson:"updated_at" json:"updated_at"`
}

// BookingRequest is the payload of a new appointment.
type BookingRequest struct {
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	ServiceType ServiceType `json:"service_type"`
	VehicleID   string      `json:"vehicle_id"`
	CenterID    string      `json:"center_id"`
	Notes       string      `json:"notes"`
}

// IsValidServiceType checks if a service type is valid
func IsValidServiceType(t ServiceType) bool {
	return t == ServiceTypeInspection || t == ServiceTypeRepair
}

// IsValidAppointmentStatus checks if a status is valid
func IsValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed from s.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled
}

// CanTransition reports whether the appointment may move to status to.
// Confirmation and completion are administrative; cancellation is open to
// the customer while the appointment is not terminal.
func (a *Appointment) CanTransition(to AppointmentStatus) bool {
	if a.Status.IsTerminal() {
		return false
	}
	switch to {
	case AppointmentConfirmed:
		return a.Status == AppointmentPending
	case AppointmentCompleted:
		return a.Status == AppointmentConfirmed
	case AppointmentCancelled:
		return true
	default:
		return false
	}
}

// ScheduledAt combines the appointment date and time in loc. A missing or
// malformed time falls back to midnight; a malformed date yields the zero time.
func (a *Appointment) ScheduledAt(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(DateLayout+" 15:04", a.Date+" "+a.Time, loc); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(DateLayout, a.Date, loc); err == nil {
		return t
	}
	return time.Time{}
}
