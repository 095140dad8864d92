package store

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/db"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/metrics"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// FinanceStore holds the invoices of the account.
type FinanceStore struct {
	kv   db.KV
	opts Options

	mu       sync.RWMutex
	loaded   bool
	invoices []models.Invoice
}

// NewFinanceStore creates a finance store.
func NewFinanceStore(kv db.KV, opts Options) *FinanceStore {
	return &FinanceStore{kv: kv, opts: opts}
}

// Load reads the persisted invoices, seeding mock data when none exist.
func (s *FinanceStore) Load(ctx context.Context) error {
	var invoices []models.Invoice
	found, err := loadJSON(ctx, s.kv, KeyInvoices, &invoices)
	if err != nil {
		return err
	}
	if !found {
		invoices = seedInvoices(s.opts.now())
		if err := saveJSON(ctx, s.kv, KeyInvoices, invoices); err != nil {
			return err
		}
		log.WithField("count", len(invoices)).Info("Seeded invoices")
	}

	s.mu.Lock()
	s.invoices = invoices
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Invoices returns the invoices with their effective status as of now.
func (s *FinanceStore) Invoices() []models.Invoice {
	now := s.opts.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Invoice, len(s.invoices))
	for i, inv := range s.invoices {
		inv.Status = inv.EffectiveStatus(now)
		out[i] = inv
	}
	return out
}

// Summary totals paid and outstanding amounts.
func (s *FinanceStore) Summary() models.FinanceSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Summarize(s.invoices, s.opts.now())
}

// Pay marks an unpaid invoice as paid. Paying a paid invoice is a no-op.
func (s *FinanceStore) Pay(ctx context.Context, id string) (models.Invoice, error) {
	if err := simulateLatency(ctx, s.opts.Latency); err != nil {
		return models.Invoice{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return models.Invoice{}, ErrNotLoaded
	}
	next := make([]models.Invoice, len(s.invoices))
	copy(next, s.invoices)
	for i := range next {
		if next[i].ID != id {
			continue
		}
		if next[i].Status == models.InvoicePaid {
			return next[i], nil
		}
		paidAt := s.opts.now()
		next[i].Status = models.InvoicePaid
		next[i].PaidAt = &paidAt
		if err := saveJSON(ctx, s.kv, KeyInvoices, next); err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("pay_invoice").Inc()
			return models.Invoice{}, err
		}
		s.invoices = next
		metrics.StoreMutationsTotal.WithLabelValues(KeyInvoices, "pay").Inc()
		log.WithFields(log.Fields{"invoice_id": id, "amount": next[i].Amount}).Info("Invoice paid")
		return next[i], nil
	}
	return models.Invoice{}, ErrNotFound
}
