package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/config"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// backOffice drives the administrative side of the appointment lifecycle
// against a running portal: it confirms pending bookings and completes
// confirmed ones once their slot has passed.
type backOffice struct {
	baseURL string
	client  *http.Client
	token   string
	now     func() time.Time
	loc     *time.Location
}

func newBackOffice(baseURL string) *backOffice {
	return &backOffice{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
		loc:     time.Local,
	}
}

func (b *backOffice) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed with status: %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// login opens a staff session.
func (b *backOffice) login(ctx context.Context, email, password string) error {
	var resp models.LoginResponse
	err := b.do(ctx, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if resp.Account.Role != models.RoleStaff {
		return fmt.Errorf("account %s is not a staff account", email)
	}
	b.token = resp.Token
	log.WithField("account_id", resp.Account.ID).Info("Logged in to portal")
	return nil
}

func (b *backOffice) appointments(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	var out []models.Appointment
	err := b.do(ctx, http.MethodGet, "/api/appointments?status="+string(status), nil, &out)
	return out, err
}

func (b *backOffice) setStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	body := map[string]models.AppointmentStatus{"status": status}
	if err := b.do(ctx, http.MethodPut, "/api/appointments/"+id+"/status", body, nil); err != nil {
		return err
	}
	log.WithFields(log.Fields{"appointment_id": id, "status": status}).Info("Updated appointment")
	return nil
}

// step runs one pass and returns the number of transitions applied.
// A failed transition is logged and the pass continues.
func (b *backOffice) step(ctx context.Context) (int, error) {
	applied := 0

	pending, err := b.appointments(ctx, models.AppointmentPending)
	if err != nil {
		return 0, err
	}
	for _, a := range pending {
		if err := b.setStatus(ctx, a.ID, models.AppointmentConfirmed); err != nil {
			log.WithError(err).WithField("appointment_id", a.ID).Warn("Failed to confirm appointment")
			continue
		}
		applied++
	}

	confirmed, err := b.appointments(ctx, models.AppointmentConfirmed)
	if err != nil {
		return applied, err
	}
	now := b.now()
	for _, a := range confirmed {
		at := a.ScheduledAt(b.loc)
		if at.IsZero() || at.After(now) {
			continue
		}
		if err := b.setStatus(ctx, a.ID, models.AppointmentCompleted); err != nil {
			log.WithError(err).WithField("appointment_id", a.ID).Warn("Failed to complete appointment")
			continue
		}
		applied++
	}
	return applied, nil
}

func (b *backOffice) run(ctx context.Context, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		if n, err := b.step(ctx); err != nil {
			log.WithError(err).Error("Simulation pass failed")
		} else if n > 0 {
			log.WithField("transitions", n).Info("Simulation pass completed")
		}

		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

func main() {
	cfg, err := config.LoadSimulator()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.Log.ConfigureLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"portal_url": cfg.PortalURL,
		"interval":   cfg.Tick(),
	}).Info("Starting back-office simulation")

	b := newBackOffice(cfg.PortalURL)
	if err := b.login(ctx, cfg.Email, cfg.Password); err != nil {
		log.WithError(err).Fatal("Ensure the portal is reachable and the staff credentials are valid")
	}

	b.run(ctx, cfg.Tick())
	log.Info("Simulation stopped")
}
