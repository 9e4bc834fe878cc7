package prometheus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/khmm12/wan-monitor/internal/ports"
)

type WANStatePublisher struct {
	logger   *slog.Logger
	exporter *Exporter

	mu  sync.Mutex
	isp string
}

func NewWANStatePublisher(logger *slog.Logger, exporter *Exporter) *WANStatePublisher {
	return &WANStatePublisher{
		logger:   logger,
		exporter: exporter,
	}
}

func (p *WANStatePublisher) Publish(ctx context.Context, update ports.WANStateUpdate) error {
	p.logger.DebugContext(ctx, "Publishing wan state metrics",
		slog.Group("publish",
			slog.String("state", update.Result.State.String()),
			slog.Bool("changed", update.Changed),
		))

	m := p.exporter.metrics

	var secondary float64
	if update.Result.State == ports.WANSecondary {
		secondary = 1.0
	}

	m.secondaryActive.Set(secondary)
	m.checksTotal.Inc()
	m.lastCheckTimestamp.Set(float64(update.CheckedAt.Unix()))

	p.setISP(update.Result.ISPName)

	if update.Changed {
		m.transitionsTotal.WithLabelValues(update.Result.State.String()).Inc()
	}

	return nil
}

// setISP swaps the wan_isp_info series without a window where none is exported.
func (p *WANStatePublisher) setISP(isp string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m := p.exporter.metrics
	m.ispInfo.WithLabelValues(isp).Set(1.0)

	if p.isp != "" && p.isp != isp {
		m.ispInfo.DeleteLabelValues(p.isp)
	}

	p.isp = isp
}
