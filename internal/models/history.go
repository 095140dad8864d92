package models

import "time"

// EventKind identifies the record stream a history event comes from.
type EventKind string

const (
	EventAppointment EventKind = "appointment"
	EventService     EventKind = "service"
	EventDocument    EventKind = "document"
)

// HistoryEvent is one entry of the unified vehicle history feed. It is
// derived from the record stores on every read and never persisted.
type HistoryEvent struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	Date      time.Time `json:"date"`
	Title     string    `json:"title"`
	VehicleID string    `json:"vehicle_id"`
	Status    string    `json:"status"`
	Details   string    `json:"details,omitempty"`
}

// IsValidEventKind checks if an event kind is valid
func IsValidEventKind(k EventKind) bool {
	return k == EventAppointment || k == EventService || k == EventDocument
}
