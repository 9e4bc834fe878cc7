package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/khmm12/wan-monitor/internal/ports"
)

const (
	DefaultPollInterval = 30 * time.Minute
	MinPollInterval     = time.Minute
)

type MonitorConfig struct {
	ExpectedProvider string
	PollInterval     time.Duration
	Verbose          bool
}

func NewMonitorConfig(expectedProvider string, pollInterval time.Duration, verbose bool) (MonitorConfig, error) {
	provider := strings.TrimSpace(expectedProvider)
	if provider == "" {
		return MonitorConfig{}, fmt.Errorf("%w: primary ISP name is required", ports.ErrConfig)
	}

	return MonitorConfig{
		ExpectedProvider: provider,
		PollInterval:     ClampPollInterval(pollInterval),
		Verbose:          verbose,
	}, nil
}

// ClampPollInterval falls back to DefaultPollInterval for unset values and never returns less than MinPollInterval.
func ClampPollInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultPollInterval
	}

	return max(d, MinPollInterval)
}
