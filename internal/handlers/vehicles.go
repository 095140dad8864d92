package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/store"
)

const defaultExpiryWindowDays = 30

// VehicleStore is the vehicle persistence used by VehicleHandler.
type VehicleStore interface {
	Snapshot() []models.Vehicle
	Get(id string) (models.Vehicle, error)
	AddDocument(ctx context.Context, vehicleID string, doc store.NewDocument) (models.Document, error)
	RemoveDocument(ctx context.Context, vehicleID, documentID string) error
	ExpiringDocuments(within time.Duration) []store.ExpiringDocument
}

// VehicleHandler serves the vehicles and their documents.
type VehicleHandler struct {
	vehicles VehicleStore
}

func NewVehicleHandler(vehicles VehicleStore) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// List returns every vehicle.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.vehicles.Snapshot())
}

// Get returns one vehicle.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.vehicles.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "get_vehicle")
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// AddDocument attaches an uploaded document to a vehicle.
func (h *VehicleHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	var doc store.NewDocument
	if err := decodeJSON(r, &doc); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	created, err := h.vehicles.AddDocument(r.Context(), mux.Vars(r)["id"], doc)
	if err != nil {
		writeError(w, err, "add_document")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// RemoveDocument deletes a vehicle document.
func (h *VehicleHandler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.vehicles.RemoveDocument(r.Context(), vars["id"], vars["docID"]); err != nil {
		writeError(w, err, "remove_document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Expiring lists documents expiring within ?days= (default 30), expired ones included.
func (h *VehicleHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	days := defaultExpiryWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "days must be a non-negative integer", http.StatusBadRequest)
			return
		}
		days = n
	}

	docs := h.vehicles.ExpiringDocuments(time.Duration(days) * 24 * time.Hour)
	if docs == nil {
		docs = []store.ExpiringDocument{}
	}
	writeJSON(w, http.StatusOK, docs)
}
