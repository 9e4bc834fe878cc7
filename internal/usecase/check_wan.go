package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/khmm12/wan-monitor/internal/ports"
)

var ErrCheckInProgress = errors.New("wan check already in progress")

type CheckWANUseCase struct {
	logger      *slog.Logger
	ipResolver  ports.IPResolver
	ispResolver ports.ISPResolver
	publisher   ports.WANStatePublisher
	config      MonitorConfig
	timeout     time.Duration
	now         func() time.Time

	running sync.Mutex

	mu        sync.RWMutex
	state     ports.WANState
	last      ports.CheckResult
	checkedAt time.Time
}

// Snapshot is a consistent view of the stored state. CheckedAt is zero until the first check completes.
type Snapshot struct {
	State     ports.WANState
	Result    ports.CheckResult
	CheckedAt time.Time
}

func NewCheckWANUseCase(
	logger *slog.Logger,
	ipResolver ports.IPResolver,
	ispResolver ports.ISPResolver,
	publisher ports.WANStatePublisher,
	config MonitorConfig,
	timeout time.Duration,
) *CheckWANUseCase {
	return &CheckWANUseCase{
		logger:      logger,
		ipResolver:  ipResolver,
		ispResolver: ispResolver,
		publisher:   publisher,
		config:      config,
		timeout:     timeout,
		now:         time.Now,
		state:       ports.WANPrimary,
	}
}

func (u *CheckWANUseCase) State() Snapshot {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return Snapshot{
		State:     u.state,
		Result:    u.last,
		CheckedAt: u.checkedAt,
	}
}

// Execute runs one check cycle. Cycles never overlap: a call made while another one is running
// returns ErrCheckInProgress without touching the network.
func (u *CheckWANUseCase) Execute(ctx context.Context) error {
	if !u.running.TryLock() {
		return ErrCheckInProgress
	}

	defer u.running.Unlock()

	u.logger.InfoContext(ctx, "Checking WAN status")

	ip, err := u.ipResolver.ResolveIP(ctx, u.timeout)
	if err != nil {
		return fmt.Errorf("failed to resolve current IP: %w", err)
	}

	if ip == "" {
		return errors.New("failed to resolve current IP: empty response")
	}

	info, err := u.ispResolver.ResolveISP(ctx, ip, u.timeout)
	if err != nil {
		return fmt.Errorf("failed to resolve ISP for %s: %w", ip, err)
	}

	u.logISPInfo(ctx, ip, info)

	name := DisplayName(info)
	update := u.transition(ports.CheckResult{
		IP:      ip,
		ISPName: name,
		State:   Classify(name, u.config.ExpectedProvider),
	})

	u.logTransition(ctx, update)

	err = u.publisher.Publish(ctx, update)
	if err != nil {
		return fmt.Errorf("failed to publish wan state: %w", err)
	}

	return nil
}

// transition is the only writer of the stored state.
func (u *CheckWANUseCase) transition(result ports.CheckResult) ports.WANStateUpdate {
	u.mu.Lock()
	defer u.mu.Unlock()

	update := ports.WANStateUpdate{
		Result:    result,
		Previous:  u.state,
		Changed:   result.State != u.state,
		CheckedAt: u.now(),
	}

	u.state = result.State
	u.last = result
	u.checkedAt = update.CheckedAt

	return update
}

func (u *CheckWANUseCase) logISPInfo(ctx context.Context, ip string, info ports.ISPInfo) {
	level := slog.LevelDebug
	if u.config.Verbose {
		level = slog.LevelInfo
	}

	u.logger.Log(ctx, level, "Resolved ISP information",
		slog.String("ip", ip),
		slog.String("isp", info.ISP),
		slog.String("org", info.Org),
	)
}

func (u *CheckWANUseCase) logTransition(ctx context.Context, update ports.WANStateUpdate) {
	attrs := []any{
		slog.String("ip", update.Result.IP),
		slog.String("isp", update.Result.ISPName),
		slog.String("state", update.Result.State.String()),
	}

	switch {
	case update.Changed && update.Result.State == ports.WANSecondary:
		u.logger.WarnContext(ctx, "Secondary internet opened, primary WAN failed", attrs...)
	case update.Changed:
		u.logger.InfoContext(ctx, "Secondary internet closed, primary WAN restored", attrs...)
	default:
		u.logger.InfoContext(ctx, "WAN status unchanged", attrs...)
	}
}
