package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/store"
)

// AppointmentStore is the appointment persistence used by AppointmentHandler.
type AppointmentStore interface {
	ByStatus(status models.AppointmentStatus) []models.Appointment
	Book(ctx context.Context, req models.BookingRequest) (models.Appointment, error)
	Cancel(ctx context.Context, id string) (models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, to models.AppointmentStatus) (models.Appointment, error)
}

// VehicleLookup resolves vehicle references.
type VehicleLookup interface {
	Get(id string) (models.Vehicle, error)
}

// CenterLookup resolves service center references.
type CenterLookup interface {
	Center(id string) (models.Center, error)
}

// AppointmentHandler serves booking and the appointment lifecycle.
type AppointmentHandler struct {
	appointments AppointmentStore
	vehicles     VehicleLookup
	centers      CenterLookup
}

func NewAppointmentHandler(appointments AppointmentStore, vehicles VehicleLookup, centers CenterLookup) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, vehicles: vehicles, centers: centers}
}

// List returns the appointments, optionally narrowed by ?status=.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	status := models.AppointmentStatus(r.URL.Query().Get("status"))
	if status != "" && !models.IsValidAppointmentStatus(status) {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.appointments.ByStatus(status))
}

// Book creates a pending appointment for a known vehicle and center.
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := store.ValidateBooking(req); err != nil {
		writeError(w, err, "book_appointment")
		return
	}
	if _, err := h.vehicles.Get(req.VehicleID); errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Unknown vehicle", http.StatusBadRequest)
		return
	}
	if _, err := h.centers.Center(req.CenterID); errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Unknown center", http.StatusBadRequest)
		return
	}

	appointment, err := h.appointments.Book(r.Context(), req)
	if err != nil {
		writeError(w, err, "book_appointment")
		return
	}
	writeJSON(w, http.StatusCreated, appointment)
}

// Cancel cancels a pending or confirmed appointment.
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	appointment, err := h.appointments.Cancel(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "cancel_appointment")
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

// UpdateStatus applies an administrative transition.
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.AppointmentStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	appointment, err := h.appointments.UpdateStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeError(w, err, "update_appointment_status")
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}
