package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/auth"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/db"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/history"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/middleware"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/notify"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/store"
)

var fixedNow = time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	handler      http.Handler
	authService  *auth.Service
	appointments *store.AppointmentStore
	vehicles     *store.VehicleStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	kv, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	opts := store.Options{Now: func() time.Time { return fixedNow }}
	authService := auth.NewService("test-secret", time.Hour, 0)

	appointments := store.NewAppointmentStore(kv, opts, notify.NopPublisher{})
	vehicles := store.NewVehicleStore(kv, opts)
	catalog := store.NewCatalogStore(kv, opts)
	finance := store.NewFinanceStore(kv, opts)
	accounts := store.NewAccountStore(kv, opts, authService.HashPassword)
	for _, l := range []interface{ Load(context.Context) error }{appointments, vehicles, catalog, finance, accounts} {
		require.NoError(t, l.Load(ctx))
	}

	policy := history.SyntheticPolicy{Now: func() time.Time { return fixedNow }, Loc: time.UTC}
	logger, _ := test.NewNullLogger()

	rt := &Router{
		Auth:           NewAuthHandler(authService, accounts),
		Vehicles:       NewVehicleHandler(vehicles),
		Appointments:   NewAppointmentHandler(appointments, vehicles, catalog),
		Catalog:        NewCatalogHandler(catalog),
		Finance:        NewFinanceHandler(finance),
		History:        NewHistoryHandler(history.NewFeed(appointments, catalog, vehicles, policy)),
		AuthMiddleware: middleware.NewAuthMiddleware(authService),
		RequestLogger:  middleware.NewRequestLogger(logger),
		RateLimiter:    middleware.NewRateLimitMiddleware(),
		LoginRateLimit: 100,
	}

	return &testEnv{
		handler:      rt.Handler(),
		authService:  authService,
		appointments: appointments,
		vehicles:     vehicles,
	}
}

func (e *testEnv) token(t *testing.T, id, email string, role models.Role) string {
	token, err := e.authService.GenerateToken(&models.Account{ID: id, Email: email, Role: role})
	require.NoError(t, err)
	return token
}

func (e *testEnv) customer(t *testing.T) string {
	return e.token(t, "acc-1", store.DemoCustomerEmail, models.RoleCustomer)
}

func (e *testEnv) staff(t *testing.T) string {
	return e.token(t, "acc-2", store.DemoStaffEmail, models.RoleStaff)
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")

	w = env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_RequireSession(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/vehicles", "/api/history", "/api/account", "/api/invoices"} {
		w := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"invalid transition", store.ErrInvalidTransition, http.StatusConflict},
		{"invalid input", store.ErrInvalidInput, http.StatusBadRequest},
		{"unknown service", store.ErrUnknownService, http.StatusBadRequest},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable},
		{"unexpected", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tt.err, "test")
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

// MockFinanceStore is a mock implementation of FinanceStore
type MockFinanceStore struct {
	mock.Mock
}

func (m *MockFinanceStore) Invoices() []models.Invoice {
	return m.Called().Get(0).([]models.Invoice)
}

func (m *MockFinanceStore) Summary() models.FinanceSummary {
	return m.Called().Get(0).(models.FinanceSummary)
}

func (m *MockFinanceStore) Pay(ctx context.Context, id string) (models.Invoice, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Invoice), args.Error(1)
}

func TestFinanceHandler_PayStorageFailure(t *testing.T) {
	finance := new(MockFinanceStore)
	finance.On("Pay", mock.Anything, "inv-3").Return(models.Invoice{}, errors.New("disk full"))

	authService := auth.NewService("test-secret", 0, 0)
	rt := &Router{
		Auth:           NewAuthHandler(authService, nil),
		Vehicles:       NewVehicleHandler(nil),
		Appointments:   NewAppointmentHandler(nil, nil, nil),
		Catalog:        NewCatalogHandler(nil),
		Finance:        NewFinanceHandler(finance),
		History:        NewHistoryHandler(nil),
		AuthMiddleware: middleware.NewAuthMiddleware(authService),
	}
	token, err := authService.GenerateToken(&models.Account{ID: "acc-1", Email: "a@b.ca", Role: models.RoleCustomer})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/invoices/inv-3/pay", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	rt.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	finance.AssertExpectations(t)
}
