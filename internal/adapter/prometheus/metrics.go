package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	secondaryActive    prometheus.Gauge
	transitionsTotal   *prometheus.CounterVec
	checksTotal        prometheus.Counter
	lastCheckTimestamp prometheus.Gauge
	ispInfo            *prometheus.GaugeVec
}

const (
	prefix = "wan_"
)

func newMetrics(reg *prometheus.Registry) (*metrics, error) {
	m := &metrics{
		secondaryActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "secondary_active",
			Help: "Whether traffic egresses through a secondary provider (1: secondary, 0: primary)",
		}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "state_transitions_total",
			Help: "Number of WAN state changes, by the state entered",
		}, []string{"state"}),
		checksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "checks_total",
			Help: "Number of completed WAN checks",
		}),
		lastCheckTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "last_check_timestamp_seconds",
			Help: "Unix time of the last completed WAN check",
		}),
		ispInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: prefix + "isp_info",
			Help: "Provider observed by the last completed WAN check",
		}, []string{"isp"}),
	}

	err := register(reg,
		m.secondaryActive,
		m.transitionsTotal,
		m.checksTotal,
		m.lastCheckTimestamp,
		m.ispInfo,
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func register(r *prometheus.Registry, cs ...prometheus.Collector) error {
	for i, c := range cs {
		if err := r.Register(c); err != nil {
			for _, c := range cs[:i] {
				r.Unregister(c)
			}

			return err
		}
	}

	return nil
}
