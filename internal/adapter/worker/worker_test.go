package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/khmm12/wan-monitor/internal/common/logging/logtest"
	"github.com/khmm12/wan-monitor/internal/common/tracing"
)

type taskFunc func(ctx context.Context) error

func (f taskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

func TestWorker_RunsImmediatelyAndRepeats(t *testing.T) {
	var calls atomic.Int32

	w := NewWorker(discardLogger(), 20*time.Millisecond, taskFunc(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}))

	done := startWorker(t, w)

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	stopWorker(t, w, done)
}

func TestWorker_FirstRunDoesNotWaitForInterval(t *testing.T) {
	var calls atomic.Int32

	w := NewWorker(discardLogger(), time.Hour, taskFunc(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}))

	done := startWorker(t, w)

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	stopWorker(t, w, done)
}

func TestWorker_AssignsCycleID(t *testing.T) {
	ids := make(chan string, 1)

	w := NewWorker(discardLogger(), time.Hour, taskFunc(func(ctx context.Context) error {
		ids <- tracing.GetCycleID(ctx)
		return nil
	}))

	done := startWorker(t, w)

	select {
	case id := <-ids:
		require.NotEmpty(t, id)
	case <-time.After(time.Second):
		t.Fatal("task was not executed")
	}

	stopWorker(t, w, done)
}

func TestWorker_KeepsRunningAfterErrorsAndPanics(t *testing.T) {
	var calls atomic.Int32

	logger, logs := logtest.NewLogger()

	w := NewWorker(logger, 10*time.Millisecond, taskFunc(func(ctx context.Context) error {
		switch calls.Add(1) {
		case 1:
			panic("boom")
		case 2:
			return errors.New("task failed")
		default:
			return nil
		}
	}))

	done := startWorker(t, w)

	require.Eventually(t, func() bool { return calls.Load() >= 4 }, time.Second, 5*time.Millisecond)

	stopWorker(t, w, done)

	require.Equal(t, 2, logs.Count(slog.LevelError))
}

func TestWorker_LongRunIsNotOverlappedOrCaughtUp(t *testing.T) {
	const interval = 100 * time.Millisecond

	var (
		mu      sync.Mutex
		starts  []time.Time
		ends    []time.Time
		active  atomic.Int32
		overlap atomic.Bool
	)

	w := NewWorker(discardLogger(), interval, taskFunc(func(ctx context.Context) error {
		if active.Add(1) > 1 {
			overlap.Store(true)
		}
		defer active.Add(-1)

		mu.Lock()
		starts = append(starts, time.Now())
		first := len(starts) == 1
		mu.Unlock()

		if first {
			time.Sleep(250 * time.Millisecond)
		}

		mu.Lock()
		ends = append(ends, time.Now())
		mu.Unlock()

		return nil
	}))

	done := startWorker(t, w)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(starts) >= 2
	}, 2*time.Second, 5*time.Millisecond)

	stopWorker(t, w, done)

	require.False(t, overlap.Load())

	mu.Lock()
	defer mu.Unlock()

	// The first run swallows the ticks at 100ms and 200ms; the next run waits for the 300ms tick.
	require.GreaterOrEqual(t, starts[1].Sub(ends[0]), 20*time.Millisecond)
	require.GreaterOrEqual(t, starts[1].Sub(starts[0]), 280*time.Millisecond)
}

func TestWorker_LogsNextRun(t *testing.T) {
	logger, logs := logtest.NewLogger()

	w := NewWorker(logger, time.Hour, taskFunc(func(ctx context.Context) error {
		return errors.New("task failed")
	}))

	before := time.Now()

	done := startWorker(t, w)

	require.Eventually(t, func() bool {
		_, ok := logs.Attr("Next run scheduled", "next_run")
		return ok
	}, time.Second, time.Millisecond)

	stopWorker(t, w, done)

	next, ok := logs.Attr("Next run scheduled", "next_run")
	require.True(t, ok)
	require.WithinDuration(t, before.Add(time.Hour), next.Time(), time.Second)
}

func TestNextTick(t *testing.T) {
	anchor := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	require.Equal(t, anchor.Add(time.Minute), nextTick(anchor, time.Minute, anchor))
	require.Equal(t, anchor.Add(time.Minute), nextTick(anchor, time.Minute, anchor.Add(59*time.Second)))
	require.Equal(t, anchor.Add(2*time.Minute), nextTick(anchor, time.Minute, anchor.Add(time.Minute)))
	require.Equal(t, anchor.Add(3*time.Minute), nextTick(anchor, time.Minute, anchor.Add(150*time.Second)))
}

func TestWorker_RejectsSecondStart(t *testing.T) {
	w := NewWorker(discardLogger(), time.Hour, taskFunc(func(ctx context.Context) error {
		return nil
	}))

	done := startWorker(t, w)

	require.ErrorContains(t, w.Start(), "already running")

	stopWorker(t, w, done)
}

func startWorker(t *testing.T, w *Worker) <-chan error {
	t.Helper()

	done := make(chan error, 1)

	go func() {
		done <- w.Start()
	}()

	select {
	case <-w.started:
	case <-time.After(time.Second):
		t.Fatal("worker did not start")
	}

	return done
}

func stopWorker(t *testing.T, w *Worker, done <-chan error) {
	t.Helper()

	require.NoError(t, w.Shutdown(t.Context()))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
