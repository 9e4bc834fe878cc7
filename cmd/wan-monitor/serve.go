package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/eclipse/paho.golang/autopaho"

	"github.com/khmm12/wan-monitor/internal/adapter/fanout"
	"github.com/khmm12/wan-monitor/internal/adapter/httpsrv"
	"github.com/khmm12/wan-monitor/internal/adapter/lookup"
	"github.com/khmm12/wan-monitor/internal/adapter/mqtt"
	"github.com/khmm12/wan-monitor/internal/adapter/prometheus"
	"github.com/khmm12/wan-monitor/internal/adapter/worker"
	"github.com/khmm12/wan-monitor/internal/common/logging"
	"github.com/khmm12/wan-monitor/internal/ports"
	"github.com/khmm12/wan-monitor/internal/usecase"
)

type Monitor struct {
	Name          string        `name:"name" env:"WAN_NAME" default:"Secondary Internet" help:"Display name of the secondary internet sensor."`
	PrimaryISP    string        `name:"primary-isp" env:"WAN_PRIMARY_ISP" help:"Name of the primary ISP, matched case-insensitively as a substring of the observed ISP (e.g. 'Comcast'). Required."`
	CheckInterval time.Duration `name:"check-interval" env:"WAN_CHECK_INTERVAL" default:"30m" help:"Interval between WAN checks (e.g. 5m, 1h). Values below 1m are raised to 1m."`
	Verbose       bool          `name:"verbose" env:"WAN_VERBOSE" help:"Log lookup details and force debug log level."`
}

type Lookup struct {
	IPURL   string        `name:"ip-url" env:"LOOKUP_IP_URL" default:"https://api.ipify.org" help:"Plain text endpoint returning the public IP address."`
	ISPURL  string        `name:"isp-url" env:"LOOKUP_ISP_URL" default:"https://ipinfo.io/%s/json" help:"JSON endpoint returning isp/org for an IP, %s is replaced with the IP."`
	Timeout time.Duration `name:"timeout" env:"LOOKUP_TIMEOUT" default:"10s" help:"Maximum duration of a single lookup request (e.g. 5s, 10s)."`
}

type MQTT struct {
	Broker          string `name:"broker" env:"MQTT_BROKER" help:"MQTT broker URL (e.g. mqtt://homeassistant.local:1883). MQTT publishing is disabled when empty."`
	Username        string `name:"username" env:"MQTT_USERNAME" help:"MQTT username."`
	Password        string `name:"password" env:"MQTT_PASSWORD" help:"MQTT password."`
	ClientID        string `name:"client-id" env:"MQTT_CLIENT_ID" default:"wan-monitor" help:"MQTT client ID."`
	TopicPrefix     string `name:"topic-prefix" env:"MQTT_TOPIC_PREFIX" default:"wan-monitor" help:"Prefix of the state, attributes and availability topics."`
	DiscoveryPrefix string `name:"discovery-prefix" env:"MQTT_DISCOVERY_PREFIX" default:"homeassistant" help:"Home Assistant discovery prefix."`
}

type Metrics struct {
	Addr string `name:"addr" env:"METRICS_ADDR" default:"0.0.0.0:8080" help:"HTTP Address to bind Prometheus metrics, state and check endpoints"`
	Path string `name:"path" env:"METRICS_PATH" default:"/metrics" help:"Path to serve Prometheus metrics"`
}

type Serve struct {
	Monitor  Monitor `embed:""`
	Lookup   Lookup  `embed:"" prefix:"lookup."`
	MQTT     MQTT    `embed:"" prefix:"mqtt."`
	Metrics  Metrics `embed:"" prefix:"metrics."`
	LogLevel string  `name:"log.level" env:"LOG_LEVEL" default:"info" help:"Log level (debug, info, warn, error)"`
}

func serve(ctx context.Context, cli *CLI, out io.Writer) error {
	s := &cli.Serve

	logLevel, err := logging.ParseLevel(s.LogLevel, s.Monitor.Verbose)
	if err != nil {
		return fmt.Errorf("failed to parse to log level: %w", err)
	}

	logger := slog.New(logging.NewEnhancedHandler(
		slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: logLevel,
		}),
	)).With(logging.NewProgramAttr())

	monitorConfig, err := usecase.NewMonitorConfig(s.Monitor.PrimaryISP, s.Monitor.CheckInterval, s.Monitor.Verbose)
	if err != nil {
		logger.ErrorContext(ctx, "Invalid monitor configuration, WAN monitoring is not started", logging.Error(err))
		return err
	}

	if monitorConfig.PollInterval != s.Monitor.CheckInterval {
		logger.WarnContext(ctx, "Check interval adjusted",
			slog.Duration("configured", s.Monitor.CheckInterval),
			slog.Duration("interval", monitorConfig.PollInterval))
	}

	exporter, err := prometheus.NewExporter()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create prometheus exporter", logging.Error(err))
		return err
	}

	accessory := ports.NewAccessory(s.Monitor.Name)

	publishers := []ports.WANStatePublisher{
		prometheus.NewWANStatePublisher(logger, exporter),
	}

	var (
		mqttPublisher *mqtt.WANStatePublisher
		mqttConn      *autopaho.ConnectionManager
	)

	// Outlives ctx so the offline availability can still be published during shutdown.
	mqttCtx, mqttCancel := context.WithCancel(context.WithoutCancel(ctx))
	defer mqttCancel()

	if s.MQTT.Broker != "" {
		topics := mqtt.NewTopics(s.MQTT.TopicPrefix, s.MQTT.DiscoveryPrefix, accessory.Name)
		mqttPublisher = mqtt.NewWANStatePublisher(logger, topics, accessory)

		mqttConn, err = mqtt.Connect(mqttCtx, logger, mqtt.Config{
			BrokerURL: s.MQTT.Broker,
			Username:  s.MQTT.Username,
			Password:  s.MQTT.Password,
			ClientID:  s.MQTT.ClientID,
		}, topics, func(ctx context.Context, cm *autopaho.ConnectionManager) {
			if aerr := mqttPublisher.Attach(ctx, cm); aerr != nil {
				logger.ErrorContext(ctx, "Failed to announce sensor over MQTT", logging.Error(aerr))
			}
		})
		if err != nil {
			logger.ErrorContext(ctx, "Failed to create MQTT connection", logging.Error(err))
			return err
		}

		publishers = append(publishers, mqttPublisher)
	}

	lookupClient := lookup.NewClient(logger)

	uc := usecase.NewCheckWANUseCase(
		logger,
		lookup.NewIPResolver(lookupClient, s.Lookup.IPURL),
		lookup.NewISPResolver(lookupClient, s.Lookup.ISPURL),
		fanout.NewPublisher(publishers...),
		monitorConfig,
		s.Lookup.Timeout,
	)

	httpsrv := httpsrv.NewServer(s.Metrics.Addr, httpsrv.ServerOptions{
		MetricsHandler: exporter.Handler().ServeHTTP,
		MetricsPath:    s.Metrics.Path,
		StateHandler:   httpsrv.StateHandler(uc, accessory),
		CheckHandler:   httpsrv.CheckHandler(logger, uc, accessory),
	})

	worker := worker.NewWorker(
		logger,
		monitorConfig.PollInterval,
		newTask(logger, uc),
	)

	defer func() {
		logger.InfoContext(ctx, "Stopping...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		logger.InfoContext(ctx, "Stopping Worker...")
		serr := worker.Shutdown(shutdownCtx)
		if serr != nil {
			logger.ErrorContext(ctx, "Failed to stop Worker", logging.Error(serr))
		}

		logger.InfoContext(ctx, "Stopping HTTP Server...")
		serr = httpsrv.Shutdown(shutdownCtx)
		if serr != nil {
			logger.ErrorContext(ctx, "Failed to stop HTTP Server", logging.Error(serr))
		}

		if mqttConn != nil {
			logger.InfoContext(ctx, "Disconnecting MQTT...")
			serr = mqttPublisher.Offline(shutdownCtx)
			if serr != nil {
				logger.WarnContext(ctx, "Failed to publish offline availability", logging.Error(serr))
			}

			serr = mqttConn.Disconnect(shutdownCtx)
			if serr != nil {
				logger.ErrorContext(ctx, "Failed to disconnect MQTT", logging.Error(serr))
			}
		}

		logger.InfoContext(ctx, "Stopped")
	}()

	logger.InfoContext(ctx, "WAN monitor initialized",
		slog.String("name", accessory.Name),
		slog.String("primary_isp", monitorConfig.ExpectedProvider),
		slog.Duration("interval", monitorConfig.PollInterval),
		slog.Bool("mqtt", mqttConn != nil),
	)

	errCh := make(chan error, 2)

	go func() {
		logger.InfoContext(ctx, "Start HTTP Server", slog.String("address", httpsrv.ListenAddr()))

		err := httpsrv.Start()
		if err != nil {
			logger.ErrorContext(ctx, "Failed to start HTTP Server", logging.Error(err))
			errCh <- err
		}
	}()

	go func() {
		logger.InfoContext(ctx, "Start Worker", slog.Duration("interval", monitorConfig.PollInterval))

		err := worker.Start()
		if err != nil {
			logger.ErrorContext(ctx, "Failed to start Worker", logging.Error(err))
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

type taskUC interface {
	Execute(ctx context.Context) error
}

type task struct {
	logger *slog.Logger
	uc     taskUC
}

func newTask(logger *slog.Logger, uc taskUC) *task {
	return &task{
		logger: logger,
		uc:     uc,
	}
}

// Execute never returns an error: a failed cycle is logged and the next tick proceeds normally.
func (t *task) Execute(ctx context.Context) error {
	now := time.Now()

	err := t.uc.Execute(ctx)

	switch {
	case errors.Is(err, usecase.ErrCheckInProgress):
		t.logger.InfoContext(ctx, "Skipped WAN check, another check is in progress")
	case err != nil:
		t.logger.ErrorContext(ctx, "Failed to check WAN status", logging.Error(err), slog.Duration("duration", time.Since(now)))
	default:
		t.logger.InfoContext(ctx, "Finished WAN check", slog.Duration("duration", time.Since(now)))
	}

	return nil
}

func (c *CLI) Validate() error {
	var errs []error

	s := &c.Serve

	if s.Lookup.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("--lookup.timeout: must be greater than zero"))
	}

	// A cycle issues two sequential lookups and must finish within one interval.
	if interval := usecase.ClampPollInterval(s.Monitor.CheckInterval); 2*s.Lookup.Timeout >= interval {
		errs = append(errs, fmt.Errorf("--lookup.timeout: must be less than half of the check interval (%s)", interval))
	}

	if !isHTTPURL(s.Lookup.IPURL) {
		errs = append(errs, fmt.Errorf("--lookup.ip-url: must be a valid http(s) URL"))
	}

	if !isISPURLTemplate(s.Lookup.ISPURL) {
		errs = append(errs, fmt.Errorf("--lookup.isp-url: must be a valid http(s) URL containing a single %%s placeholder"))
	}

	if s.MQTT.Broker != "" && !isBrokerURL(s.MQTT.Broker) {
		errs = append(errs, fmt.Errorf("--mqtt.broker: must be a valid broker URL (e.g. mqtt://localhost:1883)"))
	}

	if !isTCPAddr(s.Metrics.Addr) {
		errs = append(errs, fmt.Errorf("--metrics.addr: must be a valid tcp listening address (e.g. 0.0.0.0:8080)"))
	}

	if !isLogLevel(s.LogLevel) {
		errs = append(errs, fmt.Errorf("--log.level: must be one of debug, info, warn, error"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
