package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	"github.com/khmm12/wan-monitor/internal/common/logging"
)

const DefaultClientID = "wan-monitor"

type Config struct {
	BrokerURL string
	Username  string
	Password  string
	ClientID  string
}

// Connect starts a self-reconnecting connection. onUp runs after every (re)connect.
// The connection lives until ctx is cancelled or Disconnect is called.
func Connect(
	ctx context.Context,
	logger *slog.Logger,
	cfg Config,
	topics *Topics,
	onUp func(ctx context.Context, cm *autopaho.ConnectionManager),
) (*autopaho.ConnectionManager, error) {
	broker, err := url.Parse(cfg.BrokerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mqtt broker url: %w", err)
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}

	logger = logger.With(slog.String("broker", broker.Redacted()), slog.String("client_id", clientID))

	mqttcfg := autopaho.ClientConfig{
		ServerUrls:                    []*url.URL{broker},
		CleanStartOnInitialConnection: true,
		SessionExpiryInterval:         60,
		KeepAlive:                     30,

		ConnectUsername: cfg.Username,
		ConnectPassword: []byte(cfg.Password),

		WillMessage: &paho.WillMessage{
			Retain:  true,
			QoS:     1,
			Topic:   topics.Availability(),
			Payload: []byte(payloadOffline),
		},

		OnConnectionUp: func(cm *autopaho.ConnectionManager, _ *paho.Connack) {
			logger.Info("MQTT connection up")

			upCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			onUp(upCtx, cm)
		},
		OnConnectError: func(err error) {
			logger.Error("Failed to connect to MQTT broker", logging.Error(err))
		},
		ClientConfig: paho.ClientConfig{
			ClientID: clientID,
			OnClientError: func(err error) {
				logger.Error("MQTT client error", logging.Error(err))
			},
			OnServerDisconnect: func(d *paho.Disconnect) {
				if d.Properties != nil {
					logger.Error("MQTT server requested disconnect", slog.String("reason", d.Properties.ReasonString))
				} else {
					logger.Error("MQTT server requested disconnect", slog.Int("reason_code", int(d.ReasonCode)))
				}
			},
		},
	}

	return autopaho.NewConnection(ctx, mqttcfg)
}
