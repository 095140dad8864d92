package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/db"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/metrics"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/notify"
)

// AppointmentStore holds the appointments in creation order.
type AppointmentStore struct {
	kv        db.KV
	opts      Options
	publisher notify.Publisher

	mu           sync.RWMutex
	loaded       bool
	version      uint64
	appointments []models.Appointment
}

// NewAppointmentStore creates an appointment store. A nil publisher disables notifications.
func NewAppointmentStore(kv db.KV, opts Options, publisher notify.Publisher) *AppointmentStore {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &AppointmentStore{kv: kv, opts: opts, publisher: publisher}
}

// Load reads the persisted appointments, seeding mock data when none exist.
func (s *AppointmentStore) Load(ctx context.Context) error {
	var appointments []models.Appointment
	found, err := loadJSON(ctx, s.kv, KeyAppointments, &appointments)
	if err != nil {
		return err
	}
	if !found {
		appointments = seedAppointments(s.opts.now())
		if err := saveJSON(ctx, s.kv, KeyAppointments, appointments); err != nil {
			return err
		}
		log.WithField("count", len(appointments)).Info("Seeded appointments")
	}

	s.mu.Lock()
	s.appointments = appointments
	s.loaded = true
	s.version++
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of all appointments in creation order.
func (s *AppointmentStore) Snapshot() []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneLocked()
}

// cloneLocked copies the collection; s.mu must be held.
func (s *AppointmentStore) cloneLocked() []models.Appointment {
	out := make([]models.Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out
}

// Version is bumped on every load and mutation.
func (s *AppointmentStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Get returns the appointment with id.
func (s *AppointmentStore) Get(id string) (models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Appointment{}, ErrNotFound
}

// ByStatus returns the appointments in status, or all of them when status is empty.
func (s *AppointmentStore) ByStatus(status models.AppointmentStatus) []models.Appointment {
	all := s.Snapshot()
	if status == "" {
		return all
	}
	out := make([]models.Appointment, 0, len(all))
	for _, a := range all {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

// ValidateBooking checks the fields of a booking request.
func ValidateBooking(req models.BookingRequest) error {
	if !models.IsValidServiceType(req.ServiceType) {
		return fmt.Errorf("%w: service type must be inspection or repair", ErrInvalidInput)
	}
	if strings.TrimSpace(req.VehicleID) == "" {
		return fmt.Errorf("%w: vehicle is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.CenterID) == "" {
		return fmt.Errorf("%w: center is required", ErrInvalidInput)
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
	}
	return nil
}

// Book creates a pending appointment.
func (s *AppointmentStore) Book(ctx context.Context, req models.BookingRequest) (models.Appointment, error) {
	if err := ValidateBooking(req); err != nil {
		return models.Appointment{}, err
	}
	if err := simulateLatency(ctx, s.opts.Latency); err != nil {
		return models.Appointment{}, err
	}

	now := s.opts.now()
	appointment := models.Appointment{
		ID:          uuid.NewString(),
		Date:        req.Date,
		Time:        req.Time,
		ServiceType: req.ServiceType,
		VehicleID:   req.VehicleID,
		CenterID:    req.CenterID,
		Status:      models.AppointmentPending,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return models.Appointment{}, ErrNotLoaded
	}
	next := append(s.cloneLocked(), appointment)
	if err := saveJSON(ctx, s.kv, KeyAppointments, next); err != nil {
		s.mu.Unlock()
		metrics.OperationErrorsTotal.WithLabelValues("book_appointment").Inc()
		return models.Appointment{}, err
	}
	s.appointments = next
	s.version++
	s.mu.Unlock()

	metrics.StoreMutationsTotal.WithLabelValues(KeyAppointments, "book").Inc()
	log.WithFields(log.Fields{
		"appointment_id": appointment.ID,
		"vehicle_id":     appointment.VehicleID,
		"date":           appointment.Date,
	}).Info("Booked appointment")

	s.notify(ctx, notify.EventBooked, appointment, "")
	return appointment, nil
}

// Cancel moves a non-terminal appointment to cancelled.
func (s *AppointmentStore) Cancel(ctx context.Context, id string) (models.Appointment, error) {
	return s.transition(ctx, id, models.AppointmentCancelled, notify.EventCancelled)
}

// UpdateStatus applies an administrative transition (confirm, complete, cancel).
func (s *AppointmentStore) UpdateStatus(ctx context.Context, id string, to models.AppointmentStatus) (models.Appointment, error) {
	if !models.IsValidAppointmentStatus(to) {
		return models.Appointment{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, to)
	}
	event := notify.EventStatusChanged
	if to == models.AppointmentCancelled {
		event = notify.EventCancelled
	}
	return s.transition(ctx, id, to, event)
}

func (s *AppointmentStore) transition(ctx context.Context, id string, to models.AppointmentStatus, event string) (models.Appointment, error) {
	if err := simulateLatency(ctx, s.opts.Latency); err != nil {
		return models.Appointment{}, err
	}

	s.mu.Lock()
	next := s.cloneLocked()
	idx := -1
	for i := range next {
		if next[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.Appointment{}, ErrNotFound
	}
	previous := next[idx].Status
	if !next[idx].CanTransition(to) {
		s.mu.Unlock()
		return models.Appointment{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, previous, to)
	}
	next[idx].Status = to
	next[idx].UpdatedAt = s.opts.now()
	if err := saveJSON(ctx, s.kv, KeyAppointments, next); err != nil {
		s.mu.Unlock()
		metrics.OperationErrorsTotal.WithLabelValues("update_appointment").Inc()
		return models.Appointment{}, err
	}
	s.appointments = next
	s.version++
	updated := next[idx]
	s.mu.Unlock()

	metrics.StoreMutationsTotal.WithLabelValues(KeyAppointments, string(to)).Inc()
	log.WithFields(log.Fields{
		"appointment_id": id,
		"from":           previous,
		"to":             to,
	}).Info("Appointment status changed")

	s.notify(ctx, event, updated, previous)
	return updated, nil
}

// notify publishes the event; failures are logged and never undo the mutation.
func (s *AppointmentStore) notify(ctx context.Context, eventType string, a models.Appointment, previous models.AppointmentStatus) {
	err := s.publisher.Publish(ctx, notify.AppointmentEvent{
		Type:           eventType,
		AppointmentID:  a.ID,
		VehicleID:      a.VehicleID,
		CenterID:       a.CenterID,
		Status:         a.Status,
		PreviousStatus: previous,
		OccurredAt:     s.opts.now(),
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("publish_notification").Inc()
		log.WithError(err).WithField("appointment_id", a.ID).Warn("Failed to publish appointment event")
	}
}
