package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/db"
)

func noDotenv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(noDotenv(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, db.BackendSQLite, cfg.KVBackend)
	assert.Equal(t, "portal.db", cfg.SQLitePath)
	assert.False(t, cfg.ResetOnStart)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 500*time.Millisecond, cfg.SimulatedLatency)
	assert.Equal(t, 10, cfg.RateLimitLogin)
	assert.Empty(t, cfg.MQTTBroker)
	assert.Equal(t, "portal", cfg.MQTTTopicPrefix)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("KV_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SIMULATED_LATENCY", "0s")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("RESET_ON_START", "true")

	cfg, err := Load(noDotenv(t))
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.ResetOnStart)
	assert.Equal(t, time.Duration(0), cfg.SimulatedLatency)
	assert.Equal(t, "json", cfg.Log.Format)

	opts := cfg.KVOptions()
	assert.Equal(t, db.BackendRedis, opts.Backend)
	assert.Equal(t, "cache:6379", opts.RedisAddr)
	assert.Equal(t, 2, opts.RedisDB)
}

func TestLoad_Dotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MQTT_BROKER=tcp://broker:1883\nJWT_SECRET=from-file\n"), 0o600))
	t.Setenv("JWT_SECRET", "from-env")
	t.Cleanup(func() { os.Unsetenv("MQTT_BROKER") })

	cfg, err := Load(noDotenv(t), path)
	require.NoError(t, err)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTTBroker)
	assert.Equal(t, "from-env", cfg.JWTSecret, "existing variables win over the file")
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("KV_BACKEND", "etcd")
		_, err := Load(noDotenv(t))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("JWT_EXPIRY", "tomorrow")
		_, err := Load(noDotenv(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env:")
	})

	t.Run("negative latency", func(t *testing.T) {
		t.Setenv("SIMULATED_LATENCY", "-1s")
		_, err := Load(noDotenv(t))
		assert.Error(t, err)
	})
}

func TestLoadSimulator(t *testing.T) {
	cfg, err := LoadSimulator(noDotenv(t))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.PortalURL)
	assert.Equal(t, "atelier@mobilitaxi.ca", cfg.Email)
	assert.Equal(t, 5*time.Second, cfg.Tick())

	t.Setenv("SIM_TICK_SECONDS", "0")
	_, err = LoadSimulator(noDotenv(t))
	assert.Error(t, err)
}
