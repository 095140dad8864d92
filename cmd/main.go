package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/auth"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/config"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/db"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/handlers"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/history"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/middleware"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/notify"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/store"
)

const shutdownTimeout = 30 * time.Second

// app is the wired portal: stores loaded, handlers registered.
type app struct {
	handler   http.Handler
	publisher notify.Publisher
	kv        db.KV
}

func (a *app) Close() {
	if p, ok := a.publisher.(*notify.MQTTPublisher); ok {
		p.Close()
	}
	if err := a.kv.Close(); err != nil {
		log.WithError(err).Warn("Failed to close storage")
	}
}

func newPublisher(cfg config.Config) notify.Publisher {
	if cfg.MQTTBroker == "" {
		log.Info("MQTT_BROKER not set, appointment notifications disabled")
		return notify.NopPublisher{}
	}
	publisher, err := notify.ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopicPrefix)
	if err != nil {
		log.WithError(err).WithField("broker", cfg.MQTTBroker).Warn("MQTT unavailable, appointment notifications disabled")
		return notify.NopPublisher{}
	}
	log.WithField("broker", cfg.MQTTBroker).Info("Connected to MQTT broker")
	return publisher
}

// buildApp loads every store from kv and wires the HTTP routes.
func buildApp(ctx context.Context, cfg config.Config, kv db.KV, publisher notify.Publisher) (*app, error) {
	opts := store.Options{Latency: cfg.SimulatedLatency}
	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry, cfg.SimulatedLatency)
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, using the development secret")
	}

	appointments := store.NewAppointmentStore(kv, opts, publisher)
	vehicles := store.NewVehicleStore(kv, opts)
	catalog := store.NewCatalogStore(kv, opts)
	finance := store.NewFinanceStore(kv, opts)
	accounts := store.NewAccountStore(kv, opts, authService.HashPassword)

	if cfg.ResetOnStart {
		if err := store.Reset(ctx, kv); err != nil {
			return nil, err
		}
	}

	loaders := []struct {
		name  string
		store interface{ Load(context.Context) error }
	}{
		{"appointments", appointments},
		{"vehicles", vehicles},
		{"catalog", catalog},
		{"finance", finance},
		{"accounts", accounts},
	}
	for _, l := range loaders {
		if err := l.store.Load(ctx); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", l.name, err)
		}
	}

	feed := history.NewFeed(appointments, catalog, vehicles, history.SyntheticPolicy{})

	router := &handlers.Router{
		Auth:           handlers.NewAuthHandler(authService, accounts),
		Vehicles:       handlers.NewVehicleHandler(vehicles),
		Appointments:   handlers.NewAppointmentHandler(appointments, vehicles, catalog),
		Catalog:        handlers.NewCatalogHandler(catalog),
		Finance:        handlers.NewFinanceHandler(finance),
		History:        handlers.NewHistoryHandler(feed),
		AuthMiddleware: middleware.NewAuthMiddleware(authService),
		RequestLogger:  middleware.NewRequestLogger(log.StandardLogger()),
		RateLimiter:    middleware.NewRateLimitMiddleware(),
		LoginRateLimit: cfg.RateLimitLogin,
	}

	return &app{handler: router.Handler(), publisher: publisher, kv: kv}, nil
}

func run(ctx context.Context, cfg config.Config) error {
	kv, err := db.Open(ctx, cfg.KVOptions())
	if err != nil {
		return err
	}
	log.WithField("backend", cfg.KVBackend).Info("Connected to storage")

	a, err := buildApp(ctx, cfg, kv, newPublisher(cfg))
	if err != nil {
		_ = kv.Close()
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server shutdown completed")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.Log.ConfigureLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
