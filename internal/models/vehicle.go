package models

import "time"

// Vehicle represents a customer's taxi registered with the service center.
type Vehicle struct {
	ID           string     `bson:"id" json:"id"`
	Make         string     `bson:"make" json:"make"`
	Model        string     `bson:"model" json:"model"`
	Year         int        `bson:"year" json:"year"`
	LicensePlate string     `bson:"license_plate" json:"license_plate"`
	Status       string     `bson:"status" json:"status"` // "active", "in_service", "inactive"
	Documents    []Document `bson:"documents" json:"documents"`
}

// Document is a file attached to a vehicle (registration, insurance, inspection report...).
type Document struct {
	ID         string    `bson:"id" json:"id"`
	Type       string    `bson:"type" json:"type"`
	URL        string    `bson:"url" json:"url"`
	ExpiryDate *string   `bson:"expiry_date,omitempty" json:"expiry_date,omitempty"` // YYYY-MM-DD
	FolderID   *string   `bson:"folder_id,omitempty" json:"folder_id,omitempty"`
	DateAdded  time.Time `bson:"date_added" json:"date_added"`
}

const (
	VehicleStatusActive    = "active"
	VehicleStatusInService = "in_service"
	VehicleStatusInactive  = "inactive"
)

// DateLayout is the calendar-day layout used for appointment dates and document expiries.
const DateLayout = "2006-01-02"

// Label returns the display name of the vehicle.
func (v Vehicle) Label() string {
	return v.Make + " " + v.Model
}

// Clone returns a deep copy of the vehicle, documents included.
func (v Vehicle) Clone() Vehicle {
	out := v
	if v.Documents != nil {
		out.Documents = make([]Document, len(v.Documents))
		for i, d := range v.Documents {
			out.Documents[i] = d.Clone()
		}
	}
	return out
}

// Clone returns a copy of the document that shares no pointers with the original.
func (d Document) Clone() Document {
	out := d
	if d.ExpiryDate != nil {
		e := *d.ExpiryDate
		out.ExpiryDate = &e
	}
	if d.FolderID != nil {
		f := *d.FolderID
		out.FolderID = &f
	}
	return out
}

// Expiry parses the document expiry date. ok is false when the document
// has no expiry or the stored value is not a calendar day.
func (d Document) Expiry() (t time.Time, ok bool) {
	if d.ExpiryDate == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, *d.ExpiryDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsValidVehicleStatus checks if a vehicle status is known.
func IsValidVehicleStatus(status string) bool {
	switch status {
	case VehicleStatusActive, VehicleStatusInService, VehicleStatusInactive:
		return true
	default:
		return false
	}
}
