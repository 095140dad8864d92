package models

import "time"

// Invoice represents a bill issued for work done on a vehicle.
type Invoice struct {
	ID            string     `bson:"id" json:"id"`
	Number        string     `bson:"number" json:"number"`
	AppointmentID string     `bson:"appointment_id" json:"appointment_id"`
	VehicleID     string     `bson:"vehicle_id" json:"vehicle_id"`
	Description   string     `bson:"description" json:"description"`
	Amount        float64    `bson:"amount" json:"amount"` // in CAD, taxes included
	Status        string     `bson:"status" json:"status"` // "pending", "paid", "overdue"
	IssuedAt      time.Time  `bson:"issued_at" json:"issued_at"`
	DueAt         time.Time  `bson:"due_at" json:"due_at"`
	PaidAt        *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
}

const (
	InvoicePending = "pending"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
)

// FinanceSummary aggregates the invoices of the account.
type FinanceSummary struct {
	InvoiceCount     int     `json:"invoice_count"`
	TotalPaid        float64 `json:"total_paid"`
	TotalOutstanding float64 `json:"total_outstanding"`
	OverdueCount     int     `json:"overdue_count"`
}

// EffectiveStatus returns "overdue" for a pending invoice past its due date.
func (i Invoice) EffectiveStatus(now time.Time) string {
	if i.Status == InvoicePending && now.After(i.DueAt) {
		return InvoiceOverdue
	}
	return i.Status
}

// Summarize totals paid and outstanding amounts as of now.
func Summarize(invoices []Invoice, now time.Time) FinanceSummary {
	var s FinanceSummary
	s.InvoiceCount = len(invoices)
	for _, inv := range invoices {
		switch inv.EffectiveStatus(now) {
		case InvoicePaid:
			s.TotalPaid += inv.Amount
		case InvoiceOverdue:
			s.OverdueCount++
			s.TotalOutstanding += inv.Amount
		default:
			s.TotalOutstanding += inv.Amount
		}
	}
	return s
}
