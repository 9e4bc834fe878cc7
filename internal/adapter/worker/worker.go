package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/khmm12/wan-monitor/internal/common/logging"
	"github.com/khmm12/wan-monitor/internal/common/tracing"
)

type Task interface {
	Execute(ctx context.Context) error
}

// Worker runs a task once right away and then on every interval tick until shut down.
// Ticks that fire while the task is still running are dropped, so runs never overlap
// and a long run is never followed by a catch-up run.
type Worker struct {
	logger *slog.Logger

	interval time.Duration
	task     Task

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	started chan struct{}
}

func NewWorker(logger *slog.Logger, interval time.Duration, task Task) *Worker {
	return &Worker{
		logger:   logger,
		interval: interval,
		task:     task,
		started:  make(chan struct{}),
	}
}

func (w *Worker) Start() error {
	locked := w.mu.TryLock()
	if !locked {
		return fmt.Errorf("worker is already running")
	}

	defer w.mu.Unlock()

	w.ctx, w.cancel = context.WithCancel(context.Background())
	defer w.cancel()

	select {
	case <-w.started:
	default:
		close(w.started)
	}

	ticks, anchor := newTicker(w.ctx, w.interval)

	for {
		select {
		case <-w.ctx.Done():
			return nil
		case <-ticks:
			ctx := tracing.WithCycleID(w.ctx)

			err := w.run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				w.logger.ErrorContext(ctx, "Failed to execute task", logging.Error(err))
			}

			w.logger.InfoContext(ctx, "Next run scheduled",
				slog.Time("next_run", nextTick(anchor, w.interval, time.Now())))
		}
	}
}

func (w *Worker) Shutdown(ctx context.Context) error {
	select {
	case <-w.started:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.cancel()

	return nil
}

func (w *Worker) run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	return w.task.Execute(ctx)
}

// newTicker fires once immediately and then every repeat. The returned channel is unbuffered
// and ticks nobody is waiting for are discarded. It also returns the time ticks are aligned to.
func newTicker(ctx context.Context, repeat time.Duration) (<-chan time.Time, time.Time) {
	ticker := time.NewTicker(repeat)
	anchor := time.Now()

	c := make(chan time.Time)

	go func() {
		defer ticker.Stop()

		select {
		case c <- anchor:
		case <-ctx.Done():
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case tm := <-ticker.C:
				select {
				case c <- tm:
				default:
				}
			}
		}
	}()

	return c, anchor
}

// nextTick returns the first tick strictly after now.
func nextTick(anchor time.Time, interval time.Duration, now time.Time) time.Time {
	elapsed := now.Sub(anchor)
	if elapsed < 0 {
		return anchor.Add(interval)
	}

	return anchor.Add((elapsed/interval + 1) * interval)
}
