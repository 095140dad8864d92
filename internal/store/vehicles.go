package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/db"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/metrics"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// VehicleStore holds the customer's vehicles and their documents.
type VehicleStore struct {
	kv   db.KV
	opts Options

	mu       sync.RWMutex
	loaded   bool
	version  uint64
	vehicles []models.Vehicle
}

// NewDocument is the payload of a document upload.
type NewDocument struct {
	Type       string  `json:"type"`
	URL        string  `json:"url"`
	ExpiryDate *string `json:"expiry_date,omitempty"`
	FolderID   *string `json:"folder_id,omitempty"`
}

// ExpiringDocument pairs a document with its vehicle.
type ExpiringDocument struct {
	VehicleID    string          `json:"vehicle_id"`
	VehicleLabel string          `json:"vehicle_label"`
	Document     models.Document `json:"document"`
	Expired      bool            `json:"expired"`
}

// NewVehicleStore creates a vehicle store.
func NewVehicleStore(kv db.KV, opts Options) *VehicleStore {
	return &VehicleStore{kv: kv, opts: opts}
}

// Load reads the persisted vehicles, seeding mock data when none exist.
func (s *VehicleStore) Load(ctx context.Context) error {
	var vehicles []models.Vehicle
	found, err := loadJSON(ctx, s.kv, KeyVehicles, &vehicles)
	if err != nil {
		return err
	}
	if !found {
		vehicles = seedVehicles(s.opts.now())
		if err := saveJSON(ctx, s.kv, KeyVehicles, vehicles); err != nil {
			return err
		}
		log.WithField("count", len(vehicles)).Info("Seeded vehicles")
	}

	s.mu.Lock()
	s.vehicles = vehicles
	s.loaded = true
	s.version++
	s.mu.Unlock()
	return nil
}

// Snapshot returns a deep copy of all vehicles in stored order.
func (s *VehicleStore) Snapshot() []models.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneLocked()
}

func (s *VehicleStore) cloneLocked() []models.Vehicle {
	out := make([]models.Vehicle, len(s.vehicles))
	for i, v := range s.vehicles {
		out[i] = v.Clone()
	}
	return out
}

// Version is bumped on every load and mutation.
func (s *VehicleStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Get returns the vehicle with id.
func (s *VehicleStore) Get(id string) (models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.vehicles {
		if v.ID == id {
			return v.Clone(), nil
		}
	}
	return models.Vehicle{}, ErrNotFound
}

// AddDocument appends a document to the vehicle's document list.
func (s *VehicleStore) AddDocument(ctx context.Context, vehicleID string, doc NewDocument) (models.Document, error) {
	if strings.TrimSpace(doc.Type) == "" {
		return models.Document{}, fmt.Errorf("%w: document type is required", ErrInvalidInput)
	}
	if strings.TrimSpace(doc.URL) == "" {
		return models.Document{}, fmt.Errorf("%w: document url is required", ErrInvalidInput)
	}
	if doc.ExpiryDate != nil {
		if _, err := time.Parse(models.DateLayout, *doc.ExpiryDate); err != nil {
			return models.Document{}, fmt.Errorf("%w: expiry date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}

	created := models.Document{
		ID:         uuid.NewString(),
		Type:       doc.Type,
		URL:        doc.URL,
		ExpiryDate: doc.ExpiryDate,
		FolderID:   doc.FolderID,
		DateAdded:  s.opts.now(),
	}.Clone()

	err := s.mutate(ctx, "add_document", vehicleID, func(v *models.Vehicle) error {
		v.Documents = append(v.Documents, created)
		return nil
	})
	if err != nil {
		return models.Document{}, err
	}
	log.WithFields(log.Fields{"vehicle_id": vehicleID, "document_id": created.ID}).Info("Added vehicle document")
	return created, nil
}

// RemoveDocument deletes a document from a vehicle.
func (s *VehicleStore) RemoveDocument(ctx context.Context, vehicleID, documentID string) error {
	return s.mutate(ctx, "remove_document", vehicleID, func(v *models.Vehicle) error {
		for i, d := range v.Documents {
			if d.ID == documentID {
				v.Documents = append(v.Documents[:i], v.Documents[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// UpdateStatus changes the operational status of a vehicle.
func (s *VehicleStore) UpdateStatus(ctx context.Context, vehicleID, status string) error {
	if !models.IsValidVehicleStatus(status) {
		return fmt.Errorf("%w: unknown vehicle status %q", ErrInvalidInput, status)
	}
	return s.mutate(ctx, "update_status", vehicleID, func(v *models.Vehicle) error {
		v.Status = status
		return nil
	})
}

// mutate applies fn to a copy of the vehicle, persists and commits.
func (s *VehicleStore) mutate(ctx context.Context, op, vehicleID string, fn func(*models.Vehicle) error) error {
	if err := simulateLatency(ctx, s.opts.Latency); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	next := s.cloneLocked()
	idx := -1
	for i := range next {
		if next[i].ID == vehicleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	if err := fn(&next[idx]); err != nil {
		return err
	}
	if err := saveJSON(ctx, s.kv, KeyVehicles, next); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues(op).Inc()
		return err
	}
	s.vehicles = next
	s.version++
	metrics.StoreMutationsTotal.WithLabelValues(KeyVehicles, op).Inc()
	return nil
}

// ExpiringDocuments lists documents expiring before now+within, already
// expired ones included, soonest first. Documents without expiry are skipped.
func (s *VehicleStore) ExpiringDocuments(within time.Duration) []ExpiringDocument {
	now := s.opts.now()
	limit := now.Add(within)

	var out []ExpiringDocument
	for _, v := range s.Snapshot() {
		for _, d := range v.Documents {
			expiry, ok := d.Expiry()
			if !ok || expiry.After(limit) {
				continue
			}
			out = append(out, ExpiringDocument{
				VehicleID:    v.ID,
				VehicleLabel: v.Label(),
				Document:     d,
				Expired:      expiry.Before(now),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].Document.Expiry()
		b, _ := out[j].Document.Expiry()
		return a.Before(b)
	})
	return out
}
