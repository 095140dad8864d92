// Package notify publishes appointment lifecycle events to interested
// parties (dispatch screens, the back office) over MQTT.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/metrics"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// Appointment event types.
const (
	EventBooked        = "booked"
	EventCancelled     = "cancelled"
	EventStatusChanged = "status_changed"
)

// AppointmentEvent is the payload published for every appointment mutation.
type AppointmentEvent struct {
	Type           string                   `json:"type"`
	AppointmentID  string                   `json:"appointment_id"`
	VehicleID      string                   `json:"vehicle_id"`
	CenterID       string                   `json:"center_id"`
	Status         models.AppointmentStatus `json:"status"`
	PreviousStatus models.AppointmentStatus `json:"previous_status,omitempty"`
	OccurredAt     time.Time                `json:"occurred_at"`
}

// Publisher delivers appointment events.
type Publisher interface {
	Publish(ctx context.Context, event AppointmentEvent) error
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, AppointmentEvent) error { return nil }

// MQTTPublisher publishes events as JSON on <prefix>/appointments/<id>.
type MQTTPublisher struct {
	client  mqtt.Client
	prefix  string
	timeout time.Duration
}

// ConnectMQTT connects to broker and returns a publisher on topicPrefix.
func ConnectMQTT(broker, clientID, topicPrefix string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", err)
	}
	return NewMQTTPublisher(client, topicPrefix), nil
}

// NewMQTTPublisher wraps an already configured client.
func NewMQTTPublisher(client mqtt.Client, topicPrefix string) *MQTTPublisher {
	if topicPrefix == "" {
		topicPrefix = "portal"
	}
	return &MQTTPublisher{client: client, prefix: topicPrefix, timeout: 5 * time.Second}
}

// Topic returns the topic an appointment's events are published on.
func (p *MQTTPublisher) Topic(appointmentID string) string {
	return p.prefix + "/appointments/" + appointmentID
}

// Publish sends event at QoS 1 and waits for the broker acknowledgement,
// bounded by the publisher timeout and ctx.
func (p *MQTTPublisher) Publish(ctx context.Context, event AppointmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal appointment event: %w", err)
	}
	token := p.client.Publish(p.Topic(event.AppointmentID), 1, false, payload)

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return errors.New("mqtt publish timed out")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish error: %w", err)
	}
	metrics.NotificationsPublishedTotal.Inc()
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
