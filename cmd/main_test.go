package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/config"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/db"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/notify"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/store"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Port:            "0",
		KVBackend:       db.BackendSQLite,
		SQLitePath:      filepath.Join(t.TempDir(), "portal.db"),
		JWTSecret:       "test-secret",
		JWTExpiry:       time.Hour,
		RateLimitLogin:  5,
		MQTTTopicPrefix: "portal",
	}
}

func TestNewPublisher_DisabledWithoutBroker(t *testing.T) {
	assert.IsType(t, notify.NopPublisher{}, newPublisher(testConfig(t)))
}

func TestBuildApp_ServesSeededPortal(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	kv, err := db.Open(ctx, cfg.KVOptions())
	require.NoError(t, err)
	a, err := buildApp(ctx, cfg, kv, notify.NopPublisher{})
	require.NoError(t, err)
	defer a.Close()

	srv := httptest.NewServer(a.handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := `{"email":"` + store.DemoCustomerEmail + `","password":"` + store.DemoPassword + `"}`
	resp, err = http.Post(srv.URL+"/api/auth/login", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/history")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBuildApp_ResetOnStartReseeds(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	kv, err := db.Open(ctx, cfg.KVOptions())
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, store.KeyAppointments, `[]`))

	cfg.ResetOnStart = true
	a, err := buildApp(ctx, cfg, kv, notify.NopPublisher{})
	require.NoError(t, err)
	defer a.Close()

	raw, err := kv.Get(ctx, store.KeyAppointments)
	require.NoError(t, err)
	assert.NotEqual(t, `[]`, raw, "appointments are reseeded after the reset")
}

func TestBuildApp_StorageFailure(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	kv, err := db.Open(ctx, cfg.KVOptions())
	require.NoError(t, err)
	require.NoError(t, kv.Close())

	_, err = buildApp(ctx, cfg, kv, notify.NopPublisher{})
	assert.Error(t, err)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.KVBackend = "etcd"
	assert.Error(t, run(context.Background(), cfg))
}
