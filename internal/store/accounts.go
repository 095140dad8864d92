package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/db"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/metrics"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// accountRecord exposes the password hash to JSON so it survives persistence;
// models.Account hides it from API responses.
type accountRecord struct {
	models.Account
	PasswordHash string `json:"password_hash"`
}

// AccountStore holds the portal accounts known on this device.
type AccountStore struct {
	kv   db.KV
	opts Options
	// hash turns a seed password into a stored hash.
	hash func(string) (string, error)

	mu       sync.RWMutex
	loaded   bool
	accounts []models.Account
}

// NewAccountStore creates an account store. hash is used to store the
// passwords of seeded accounts.
func NewAccountStore(kv db.KV, opts Options, hash func(string) (string, error)) *AccountStore {
	return &AccountStore{kv: kv, opts: opts, hash: hash}
}

// Load reads the persisted accounts, seeding the demo accounts when none exist.
func (s *AccountStore) Load(ctx context.Context) error {
	var records []accountRecord
	found, err := loadJSON(ctx, s.kv, KeyAccounts, &records)
	if err != nil {
		return err
	}

	var accounts []models.Account
	if found {
		accounts = make([]models.Account, len(records))
		for i, r := range records {
			accounts[i] = r.Account
			accounts[i].PasswordHash = r.PasswordHash
		}
	} else {
		accounts, err = seedAccounts(s.opts.now(), s.hash)
		if err != nil {
			return err
		}
		if err := s.persist(ctx, accounts); err != nil {
			return err
		}
		log.WithField("count", len(accounts)).Info("Seeded accounts")
	}

	s.mu.Lock()
	s.accounts = accounts
	s.loaded = true
	s.mu.Unlock()
	return nil
}

func (s *AccountStore) persist(ctx context.Context, accounts []models.Account) error {
	records := make([]accountRecord, len(accounts))
	for i, a := range accounts {
		records[i] = accountRecord{Account: a, PasswordHash: a.PasswordHash}
	}
	return saveJSON(ctx, s.kv, KeyAccounts, records)
}

// ByEmail returns the account registered with email (case-insensitive).
func (s *AccountStore) ByEmail(email string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, strings.TrimSpace(email)) {
			return a, nil
		}
	}
	return models.Account{}, ErrNotFound
}

// ByID returns the account with id.
func (s *AccountStore) ByID(id string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Account{}, ErrNotFound
}

// UpdateProfile applies the non-empty fields of update. The new email must
// not belong to another account.
func (s *AccountStore) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.Account, error) {
	if update.Email != "" {
		if other, err := s.ByEmail(update.Email); err == nil && other.ID != id {
			return models.Account{}, fmt.Errorf("%w: email already in use", ErrInvalidInput)
		}
	}
	return s.mutate(ctx, "update_profile", id, func(a *models.Account) {
		update.Apply(a)
	})
}

// SetPasswordHash replaces the stored password hash.
func (s *AccountStore) SetPasswordHash(ctx context.Context, id, hash string) error {
	_, err := s.mutate(ctx, "set_password", id, func(a *models.Account) {
		a.PasswordHash = hash
	})
	return err
}

// TouchLogin records a successful login.
func (s *AccountStore) TouchLogin(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, "touch_login", id, func(a *models.Account) {
		now := s.opts.now()
		a.LastLogin = &now
	})
	return err
}

func (s *AccountStore) mutate(ctx context.Context, op, id string, fn func(*models.Account)) (models.Account, error) {
	if err := simulateLatency(ctx, s.opts.Latency); err != nil {
		return models.Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return models.Account{}, ErrNotLoaded
	}
	next := make([]models.Account, len(s.accounts))
	copy(next, s.accounts)
	for i := range next {
		if next[i].ID != id {
			continue
		}
		fn(&next[i])
		next[i].UpdatedAt = s.opts.now()
		if err := s.persist(ctx, next); err != nil {
			metrics.OperationErrorsTotal.WithLabelValues(op).Inc()
			return models.Account{}, err
		}
		s.accounts = next
		metrics.StoreMutationsTotal.WithLabelValues(KeyAccounts, op).Inc()
		return next[i], nil
	}
	return models.Account{}, ErrNotFound
}
