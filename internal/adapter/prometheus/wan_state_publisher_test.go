package prometheus

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/khmm12/wan-monitor/internal/ports"
)

var checkedAt = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func TestWANStatePublisher_PublishSecondaryTransition(t *testing.T) {
	ctx := context.Background()
	exporter, publisher := newTestPublisher(t)

	err := publisher.Publish(ctx, newUpdate(ports.WANSecondary, "Verizon Business", true))
	require.NoError(t, err)

	requireMetric(t, 1.0, exporter.metrics.secondaryActive)
	requireMetric(t, 1.0, exporter.metrics.checksTotal)
	requireMetric(t, float64(checkedAt.Unix()), exporter.metrics.lastCheckTimestamp)
	requireMetric(t, 1.0, exporter.metrics.transitionsTotal.WithLabelValues("secondary"))
	requireMetric(t, 1.0, exporter.metrics.ispInfo.WithLabelValues("Verizon Business"))
}

func TestWANStatePublisher_UnchangedDoesNotCountTransition(t *testing.T) {
	ctx := context.Background()
	exporter, publisher := newTestPublisher(t)

	require.NoError(t, publisher.Publish(ctx, newUpdate(ports.WANSecondary, "Verizon Business", true)))
	require.NoError(t, publisher.Publish(ctx, newUpdate(ports.WANSecondary, "Verizon Business", false)))
	require.NoError(t, publisher.Publish(ctx, newUpdate(ports.WANPrimary, "Comcast Cable", true)))
	require.NoError(t, publisher.Publish(ctx, newUpdate(ports.WANPrimary, "Comcast Cable", false)))

	requireMetric(t, 0.0, exporter.metrics.secondaryActive)
	requireMetric(t, 4.0, exporter.metrics.checksTotal)
	requireMetric(t, 1.0, exporter.metrics.transitionsTotal.WithLabelValues("secondary"))
	requireMetric(t, 1.0, exporter.metrics.transitionsTotal.WithLabelValues("primary"))
	require.Equal(t, 1, testutil.CollectAndCount(exporter.metrics.ispInfo))
	requireMetric(t, 1.0, exporter.metrics.ispInfo.WithLabelValues("Comcast Cable"))
}

func TestWANStatePublisher_ISPInfoAlwaysHasOneSeries(t *testing.T) {
	ctx := context.Background()
	exporter, publisher := newTestPublisher(t)

	require.NoError(t, publisher.Publish(ctx, newUpdate(ports.WANPrimary, "Comcast Cable", false)))

	stop := make(chan struct{})
	empty := make(chan struct{}, 1)

	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}

			if testutil.CollectAndCount(exporter.metrics.ispInfo) == 0 {
				select {
				case empty <- struct{}{}:
				default:
				}
			}
		}
	}()

	for i := range 200 {
		isp := "Comcast Cable"
		if i%2 == 0 {
			isp = "Verizon Business"
		}

		require.NoError(t, publisher.Publish(ctx, newUpdate(ports.WANPrimary, isp, false)))
	}

	close(stop)

	select {
	case <-empty:
		t.Fatal("scrape observed no wan_isp_info series")
	default:
	}

	require.Equal(t, 1, testutil.CollectAndCount(exporter.metrics.ispInfo))
	requireMetric(t, 1.0, exporter.metrics.ispInfo.WithLabelValues("Comcast Cable"))
}

func TestExporter_HandlerServesWANMetrics(t *testing.T) {
	exporter, publisher := newTestPublisher(t)

	require.NoError(t, publisher.Publish(context.Background(), newUpdate(ports.WANPrimary, "Comcast Cable", false)))

	rec := httptest.NewRecorder()
	exporter.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Contains(t, rec.Body.String(), "wan_secondary_active 0")
	require.Contains(t, rec.Body.String(), `wan_isp_info{isp="Comcast Cable"} 1`)
}

func newTestPublisher(t *testing.T) (*Exporter, *WANStatePublisher) {
	t.Helper()

	exporter, err := NewExporter()
	require.NoError(t, err)

	publisher := NewWANStatePublisher(slog.New(slog.NewTextHandler(io.Discard, nil)), exporter)

	return exporter, publisher
}

func newUpdate(state ports.WANState, isp string, changed bool) ports.WANStateUpdate {
	previous := state
	if changed {
		previous = 1 - state
	}

	return ports.WANStateUpdate{
		Result: ports.CheckResult{
			IP:      "203.0.113.7",
			ISPName: isp,
			State:   state,
		},
		Previous:  previous,
		Changed:   changed,
		CheckedAt: checkedAt,
	}
}

func requireMetric(t *testing.T, expected float64, metric prometheus.Collector) {
	t.Helper()

	require.InDelta(t, expected, testutil.ToFloat64(metric), 0.001)
}
