package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/db"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/metrics"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// CatalogStore holds the static service catalog and service centers, and
// the customer's quote requests.
type CatalogStore struct {
	kv   db.KV
	opts Options

	mu       sync.RWMutex
	loaded   bool
	version  uint64
	services []models.Service
	centers  []models.Center
	quotes   []models.Quote
}

// NewCatalogStore creates a catalog store.
func NewCatalogStore(kv db.KV, opts Options) *CatalogStore {
	return &CatalogStore{kv: kv, opts: opts}
}

// Load reads services, centers and quotes, seeding each missing key.
func (s *CatalogStore) Load(ctx context.Context) error {
	var services []models.Service
	if err := s.loadOrSeed(ctx, KeyServices, &services, func() interface{} {
		services = seedServices()
		return services
	}); err != nil {
		return err
	}

	var centers []models.Center
	if err := s.loadOrSeed(ctx, KeyCenters, &centers, func() interface{} {
		centers = seedCenters()
		return centers
	}); err != nil {
		return err
	}

	var quotes []models.Quote
	if err := s.loadOrSeed(ctx, KeyQuotes, &quotes, func() interface{} {
		quotes = []models.Quote{}
		return quotes
	}); err != nil {
		return err
	}

	s.mu.Lock()
	s.services = services
	s.centers = centers
	s.quotes = quotes
	s.loaded = true
	s.version++
	s.mu.Unlock()
	return nil
}

func (s *CatalogStore) loadOrSeed(ctx context.Context, key string, out interface{}, seed func() interface{}) error {
	found, err := loadJSON(ctx, s.kv, key, out)
	if err != nil || found {
		return err
	}
	if err := saveJSON(ctx, s.kv, key, seed()); err != nil {
		return err
	}
	log.WithField("key", key).Info("Seeded catalog data")
	return nil
}

// Snapshot returns the services in catalog definition order.
func (s *CatalogStore) Snapshot() []models.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Service, len(s.services))
	for i, svc := range s.services {
		out[i] = cloneService(svc)
	}
	return out
}

func cloneService(svc models.Service) models.Service {
	if svc.Price != nil {
		p := *svc.Price
		svc.Price = &p
	}
	return svc
}

// Version is bumped on every load and mutation.
func (s *CatalogStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// ServicesByCategory returns the services of category, or all when category is empty.
func (s *CatalogStore) ServicesByCategory(category models.ServiceCategory) []models.Service {
	all := s.Snapshot()
	if category == "" {
		return all
	}
	out := make([]models.Service, 0, len(all))
	for _, svc := range all {
		if svc.Category == category {
			out = append(out, svc)
		}
	}
	return out
}

// Service returns the catalog entry with id.
func (s *CatalogStore) Service(id string) (models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, svc := range s.services {
		if svc.ID == id {
			return cloneService(svc), nil
		}
	}
	return models.Service{}, ErrNotFound
}

// Centers returns the service centers.
func (s *CatalogStore) Centers() []models.Center {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Center, len(s.centers))
	copy(out, s.centers)
	return out
}

// Center returns the service center with id.
func (s *CatalogStore) Center(id string) (models.Center, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.centers {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Center{}, ErrNotFound
}

// Quotes returns the quote requests, most recent last.
func (s *CatalogStore) Quotes() []models.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Quote, len(s.quotes))
	copy(out, s.quotes)
	return out
}

// RequestQuote prices the requested services and records the quote request.
func (s *CatalogStore) RequestQuote(ctx context.Context, req models.QuoteRequest) (models.Quote, error) {
	if strings.TrimSpace(req.VehicleID) == "" {
		return models.Quote{}, fmt.Errorf("%w: vehicle is required", ErrInvalidInput)
	}
	if len(req.ServiceIDs) == 0 {
		return models.Quote{}, fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	selected := make([]models.Service, 0, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		svc, err := s.Service(id)
		if err != nil {
			return models.Quote{}, fmt.Errorf("%w: %s", ErrUnknownService, id)
		}
		selected = append(selected, svc)
	}
	lines, total, unpriced := models.PriceQuote(selected)

	if err := simulateLatency(ctx, s.opts.Latency); err != nil {
		return models.Quote{}, err
	}

	quote := models.Quote{
		ID:               uuid.NewString(),
		VehicleID:        req.VehicleID,
		ServiceIDs:       append([]string(nil), req.ServiceIDs...),
		Lines:            lines,
		Total:            total,
		HasUnpricedItems: unpriced,
		Status:           models.QuoteRequested,
		Notes:            req.Notes,
		CreatedAt:        s.opts.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return models.Quote{}, ErrNotLoaded
	}
	next := make([]models.Quote, len(s.quotes), len(s.quotes)+1)
	copy(next, s.quotes)
	next = append(next, quote)
	if err := saveJSON(ctx, s.kv, KeyQuotes, next); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("request_quote").Inc()
		return models.Quote{}, err
	}
	s.quotes = next
	s.version++
	metrics.StoreMutationsTotal.WithLabelValues(KeyQuotes, "request").Inc()
	log.WithFields(log.Fields{"quote_id": quote.ID, "total": quote.Total}).Info("Recorded quote request")
	return quote, nil
}
