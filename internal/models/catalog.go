package models

import "time"

// ServiceCategory groups catalog entries.
type ServiceCategory string

const (
	CategoryInspection    ServiceCategory = "Inspection"
	CategoryMaintenance   ServiceCategory = "Maintenance"
	CategoryRepair        ServiceCategory = "Repair"
	CategoryCertification ServiceCategory = "Certification"
)

// Service is an entry of the service center catalog. Price is nil for
// services priced on inspection.
type Service struct {
	ID                       string          `bson:"id" json:"id"`
	Name                     string          `bson:"name" json:"name"`
	Category                 ServiceCategory `bson:"category" json:"category"`
	Description              string          `bson:"description" json:"description"`
	EstimatedDurationMinutes int             `bson:"estimated_duration_minutes" json:"estimated_duration_minutes"`
	Price                    *float64        `bson:"price,omitempty" json:"price,omitempty"` // in CAD
}

// Location represents a geographical location with latitude and longitude coordinates.
type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lon float64 `bson:"lon" json:"lon"`
}

// Center is a service center where appointments take place.
type Center struct {
	ID       string   `bson:"id" json:"id"`
	Name     string   `bson:"name" json:"name"`
	Address  string   `bson:"address" json:"address"`
	City     string   `bson:"city" json:"city"`
	Phone    string   `bson:"phone" json:"phone"`
	Location Location `bson:"location" json:"location"`
}

// QuoteStatus is the state of a quote request.
type QuoteStatus string

const (
	QuoteRequested QuoteStatus = "requested"
	QuoteAnswered  QuoteStatus = "answered"
)

// QuoteLine is one catalog service inside a quote.
type QuoteLine struct {
	ServiceID string   `bson:"service_id" json:"service_id"`
	Name      string   `bson:"name" json:"name"`
	Price     *float64 `bson:"price,omitempty" json:"price,omitempty"`
}

// Quote is a customer's request for pricing on a set of catalog services.
type Quote struct {
	ID               string      `bson:"id" json:"id"`
	VehicleID        string      `bson:"vehicle_id" json:"vehicle_id"`
	ServiceIDs       []string    `bson:"service_ids" json:"service_ids"`
	Lines            []QuoteLine `bson:"lines" json:"lines"`
	Total            float64     `bson:"total" json:"total"`
	HasUnpricedItems bool        `bson:"has_unpriced_items" json:"has_unpriced_items"`
	Status           QuoteStatus `bson:"status" json:"status"`
	Notes            string      `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time   `bson:"created_at" json:"created_at"`
}

// QuoteRequest is the payload of a new quote.
type QuoteRequest struct {
	VehicleID  string   `json:"vehicle_id"`
	ServiceIDs []string `json:"service_ids"`
	Notes      string   `json:"notes"`
}

// IsValidCategory checks if a catalog category is valid
func IsValidCategory(c ServiceCategory) bool {
	switch c {
	case CategoryInspection, CategoryMaintenance, CategoryRepair, CategoryCertification:
		return true
	default:
		return false
	}
}

// PriceQuote builds the quote lines for services and sums the known prices.
func PriceQuote(services []Service) (lines []QuoteLine, total float64, unpriced bool) {
	lines = make([]QuoteLine, 0, len(services))
	for _, s := range services {
		line := QuoteLine{ServiceID: s.ID, Name: s.Name}
		if s.Price != nil {
			p := *s.Price
			line.Price = &p
			total += p
		} else {
			unpriced = true
		}
		lines = append(lines, line)
	}
	return lines, total, unpriced
}
