// Package store holds the record stores of the portal. Each store keeps its
// collection in memory, persists it as JSON under a fixed key of the
// key-value backend on every mutation, and seeds mock data on first load.
//
// Accessors are synchronous and return copies of the latest snapshot.
// Mutators wait a simulated latency first, standing in for the network
// round-trip of a real backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/db"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownService    = errors.New("unknown catalog service")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotLoaded         = errors.New("store not loaded")
)

// Fixed keys of the persisted collections.
const (
	KeyAppointments = "appointments"
	KeyVehicles     = "vehicles"
	KeyServices     = "services"
	KeyCenters      = "centers"
	KeyQuotes       = "quotes"
	KeyInvoices     = "invoices"
	KeyAccounts     = "accounts"
)

// Keys lists every persisted collection.
var Keys = []string{KeyAppointments, KeyVehicles, KeyServices, KeyCenters, KeyQuotes, KeyInvoices, KeyAccounts}

// Reset deletes every persisted collection, so the next Load of each store
// seeds fresh demo data.
func Reset(ctx context.Context, kv db.KV) error {
	for _, key := range Keys {
		if err := kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	log.WithField("keys", len(Keys)).Info("Cleared persisted records")
	return nil
}

// DefaultLatency is the simulated round-trip applied to mutators.
const DefaultLatency = 500 * time.Millisecond

// Options are shared by every store.
type Options struct {
	// Latency is waited before each mutation. Zero disables the delay.
	Latency time.Duration
	// Now is the clock used for timestamps and seed data. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// simulateLatency blocks for d or until ctx is done.
func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// loadJSON decodes the value under key into out. found is false when the
// key has never been written.
func loadJSON(ctx context.Context, kv db.KV, key string, out interface{}) (found bool, err error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// saveJSON encodes v and writes it under key.
func saveJSON(ctx context.Context, kv db.KV, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}
