package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eclipse/paho.golang/paho"

	"github.com/khmm12/wan-monitor/internal/ports"
)

const (
	payloadOn      = "ON"
	payloadOff     = "OFF"
	payloadOnline  = "online"
	payloadOffline = "offline"
)

type connection interface {
	Publish(ctx context.Context, p *paho.Publish) (*paho.PublishResponse, error)
}

type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
	SerialNumber string   `json:"serial_number"`
}

type discoveryConfig struct {
	Name                string          `json:"name"`
	UniqueID            string          `json:"unique_id"`
	DeviceClass         string          `json:"device_class"`
	StateTopic          string          `json:"state_topic"`
	JSONAttributesTopic string          `json:"json_attributes_topic"`
	AvailabilityTopic   string          `json:"availability_topic"`
	PayloadOn           string          `json:"payload_on"`
	PayloadOff          string          `json:"payload_off"`
	PayloadAvailable    string          `json:"payload_available"`
	PayloadNotAvailable string          `json:"payload_not_available"`
	Device              discoveryDevice `json:"device"`
}

type attributes struct {
	IP        string    `json:"ip"`
	ISP       string    `json:"isp"`
	State     string    `json:"state"`
	Previous  string    `json:"previous_state"`
	CheckedAt time.Time `json:"checked_at"`
}

// WANStatePublisher exposes the WAN state as a Home Assistant binary sensor. Open (ON) means
// traffic egresses through a secondary provider. A state is sent only when it differs from the
// one last delivered on the current connection; the last known state is replayed whenever the
// broker connection comes up.
type WANStatePublisher struct {
	logger    *slog.Logger
	topics    *Topics
	accessory ports.Accessory

	// sendMu orders announcements and state publishes on the wire.
	sendMu sync.Mutex

	mu        sync.Mutex
	conn      connection
	last      ports.WANStateUpdate
	delivered string
}

func NewWANStatePublisher(logger *slog.Logger, topics *Topics, accessory ports.Accessory) *WANStatePublisher {
	return &WANStatePublisher{
		logger:    logger,
		topics:    topics,
		accessory: accessory,
	}
}

// Attach binds a live connection and announces the sensor on it.
func (p *WANStatePublisher) Attach(ctx context.Context, conn connection) error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	p.mu.Lock()
	p.conn = conn
	p.delivered = ""
	last := p.last
	p.mu.Unlock()

	return p.announce(ctx, conn, last)
}

// Offline marks the sensor unavailable. Call before a clean disconnect, which suppresses the will message.
func (p *WANStatePublisher) Offline(ctx context.Context) error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	p.mu.Lock()
	conn := p.conn
	p.conn = nil
	p.delivered = ""
	p.mu.Unlock()

	if conn == nil {
		return nil
	}

	return p.send(ctx, conn, p.topics.Availability(), []byte(payloadOffline))
}

func (p *WANStatePublisher) Publish(ctx context.Context, update ports.WANStateUpdate) error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	p.mu.Lock()
	p.last = update
	conn := p.conn
	delivered := p.delivered
	p.mu.Unlock()

	if conn == nil {
		if update.Changed {
			p.logger.WarnContext(ctx, "MQTT not connected, state will be announced on connect",
				slog.String("state", update.Result.State.String()))
		}

		return nil
	}

	if statePayload(update.Result.State) == delivered {
		p.logger.DebugContext(ctx, "WAN state already delivered, skipping mqtt publish")
		return nil
	}

	return p.publishState(ctx, conn, update)
}

func (p *WANStatePublisher) announce(ctx context.Context, conn connection, last ports.WANStateUpdate) error {
	payload, err := json.Marshal(p.discoveryConfig())
	if err != nil {
		return fmt.Errorf("failed to encode discovery config: %w", err)
	}

	err = p.send(ctx, conn, p.topics.Discovery(), payload)
	if err != nil {
		return err
	}

	err = p.send(ctx, conn, p.topics.Availability(), []byte(payloadOnline))
	if err != nil {
		return err
	}

	return p.publishState(ctx, conn, last)
}

func (p *WANStatePublisher) publishState(ctx context.Context, conn connection, update ports.WANStateUpdate) error {
	p.logger.DebugContext(ctx, "Publishing wan state to mqtt",
		slog.String("topic", p.topics.State()),
		slog.String("state", update.Result.State.String()))

	state := statePayload(update.Result.State)

	err := p.send(ctx, conn, p.topics.State(), []byte(state))
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.conn == conn {
		p.delivered = state
	}
	p.mu.Unlock()

	if update.CheckedAt.IsZero() {
		return nil
	}

	payload, err := json.Marshal(attributes{
		IP:        update.Result.IP,
		ISP:       update.Result.ISPName,
		State:     update.Result.State.String(),
		Previous:  update.Previous.String(),
		CheckedAt: update.CheckedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode state attributes: %w", err)
	}

	return p.send(ctx, conn, p.topics.Attributes(), payload)
}

func (p *WANStatePublisher) send(ctx context.Context, conn connection, topic string, payload []byte) error {
	_, err := conn.Publish(ctx, &paho.Publish{
		Topic:   topic,
		Payload: payload,
		QoS:     1,
		Retain:  true,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	return nil
}

func (p *WANStatePublisher) discoveryConfig() discoveryConfig {
	uniqueID := "wan_monitor_" + p.topics.ObjectID()

	return discoveryConfig{
		Name:                p.accessory.Name,
		UniqueID:            uniqueID,
		DeviceClass:         "opening",
		StateTopic:          p.topics.State(),
		JSONAttributesTopic: p.topics.Attributes(),
		AvailabilityTopic:   p.topics.Availability(),
		PayloadOn:           payloadOn,
		PayloadOff:          payloadOff,
		PayloadAvailable:    payloadOnline,
		PayloadNotAvailable: payloadOffline,
		Device: discoveryDevice{
			Identifiers:  []string{uniqueID},
			Name:         p.accessory.Name,
			Manufacturer: p.accessory.Manufacturer,
			Model:        p.accessory.Model,
			SerialNumber: p.accessory.SerialNumber,
		},
	}
}

func statePayload(state ports.WANState) string {
	if state == ports.WANSecondary {
		return payloadOn
	}

	return payloadOff
}
