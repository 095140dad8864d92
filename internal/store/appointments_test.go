package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/notify"
)

func validBooking() models.BookingRequest {
	return models.BookingRequest{
		Date:        "2024-08-01",
		Time:        "09:30",
		ServiceType: models.ServiceTypeRepair,
		VehicleID:   "veh-1",
		CenterID:    "ctr-1",
	}
}

func TestAppointmentStore_LoadSeedsAndPersists(t *testing.T) {
	kv := openKV(t)
	ctx := context.Background()

	s := NewAppointmentStore(kv, testOptions(), nil)
	require.NoError(t, s.Load(ctx))
	seeded := s.Snapshot()
	assert.Len(t, seeded, 4)
	assert.Equal(t, uint64(1), s.Version())

	raw, err := kv.Get(ctx, KeyAppointments)
	require.NoError(t, err)
	assert.Contains(t, raw, `"apt-1"`)

	reloaded := NewAppointmentStore(kv, testOptions(), nil)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, seeded, reloaded.Snapshot())
}

func TestAppointmentStore_Book(t *testing.T) {
	ctx := context.Background()
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e notify.AppointmentEvent) bool {
		return e.Type == notify.EventBooked && e.Status == models.AppointmentPending
	})).Return(nil).Once()

	s := NewAppointmentStore(openKV(t), testOptions(), pub)
	require.NoError(t, s.Load(ctx))
	before := s.Version()

	apt, err := s.Book(ctx, validBooking())
	require.NoError(t, err)
	assert.NotEmpty(t, apt.ID)
	assert.Equal(t, models.AppointmentPending, apt.Status)
	assert.Equal(t, fixedNow, apt.CreatedAt)
	assert.Greater(t, s.Version(), before)

	all := s.Snapshot()
	assert.Equal(t, apt.ID, all[len(all)-1].ID, "insertion order is creation order")
	pub.AssertExpectations(t)
}

func TestAppointmentStore_BookValidation(t *testing.T) {
	s := NewAppointmentStore(openKV(t), testOptions(), nil)
	require.NoError(t, s.Load(context.Background()))

	tests := []struct {
		name   string
		mutate func(*models.BookingRequest)
	}{
		{"unknown service type", func(r *models.BookingRequest) { r.ServiceType = "towing" }},
		{"missing vehicle", func(r *models.BookingRequest) { r.VehicleID = " " }},
		{"missing center", func(r *models.BookingRequest) { r.CenterID = "" }},
		{"bad date", func(r *models.BookingRequest) { r.Date = "01/08/2024" }},
		{"bad time", func(r *models.BookingRequest) { r.Time = "9h30" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBooking()
			tt.mutate(&req)
			_, err := s.Book(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Len(t, s.Snapshot(), 4)
}

func TestAppointmentStore_Transitions(t *testing.T) {
	ctx := context.Background()
	s := NewAppointmentStore(openKV(t), testOptions(), nil)
	require.NoError(t, s.Load(ctx))

	apt, err := s.Book(ctx, validBooking())
	require.NoError(t, err)

	_, err = s.UpdateStatus(ctx, apt.ID, models.AppointmentCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition, "pending cannot complete")

	confirmed, err := s.UpdateStatus(ctx, apt.ID, models.AppointmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentConfirmed, confirmed.Status)

	completed, err := s.UpdateStatus(ctx, apt.ID, models.AppointmentCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCompleted, completed.Status)

	_, err = s.Cancel(ctx, apt.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition, "completed is immutable")

	_, err = s.UpdateStatus(ctx, apt.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Cancel(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppointmentStore_Cancel(t *testing.T) {
	ctx := context.Background()
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e notify.AppointmentEvent) bool {
		return e.Type == notify.EventCancelled &&
			e.AppointmentID == "apt-4" &&
			e.PreviousStatus == models.AppointmentPending
	})).Return(assert.AnError).Once()

	s := NewAppointmentStore(openKV(t), testOptions(), pub)
	require.NoError(t, s.Load(ctx))

	cancelled, err := s.Cancel(ctx, "apt-4")
	require.NoError(t, err, "publish failure must not fail the mutation")
	assert.Equal(t, models.AppointmentCancelled, cancelled.Status)

	got, err := s.Get("apt-4")
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, got.Status)
	pub.AssertExpectations(t)
}

func TestAppointmentStore_PersistFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{KV: openKV(t)}
	s := NewAppointmentStore(kv, testOptions(), nil)
	require.NoError(t, s.Load(ctx))
	version := s.Version()

	kv.failWrites = true
	_, err := s.Cancel(ctx, "apt-4")
	assert.Error(t, err)

	got, _ := s.Get("apt-4")
	assert.Equal(t, models.AppointmentPending, got.Status)
	assert.Equal(t, version, s.Version())
}

func TestAppointmentStore_LatencyHonoursContext(t *testing.T) {
	opts := testOptions()
	opts.Latency = time.Minute
	s := NewAppointmentStore(openKV(t), opts, nil)
	require.NoError(t, s.Load(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.Book(ctx, validBooking())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, s.Snapshot(), 4)
}

func TestAppointmentStore_ByStatus(t *testing.T) {
	s := NewAppointmentStore(openKV(t), testOptions(), nil)
	require.NoError(t, s.Load(context.Background()))

	assert.Len(t, s.ByStatus(""), 4)
	pending := s.ByStatus(models.AppointmentPending)
	require.Len(t, pending, 1)
	assert.Equal(t, "apt-4", pending[0].ID)
}

func TestAppointmentStore_BookBeforeLoad(t *testing.T) {
	s := NewAppointmentStore(openKV(t), testOptions(), nil)
	_, err := s.Book(context.Background(), validBooking())
	assert.ErrorIs(t, err, ErrNotLoaded)
}
