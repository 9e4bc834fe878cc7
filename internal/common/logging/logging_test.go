package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/khmm12/wan-monitor/internal/common/tracing"
)

func TestEnhancedHandler_AddsCycleID(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(NewEnhancedHandler(slog.NewJSONHandler(&buf, nil))).With(slog.String("component", "test"))

	ctx := tracing.WithCycleID(context.Background())
	logger.InfoContext(ctx, "Checking WAN status")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, tracing.GetCycleID(ctx), record["cycle_id"])
	require.Equal(t, "test", record["component"])
}

func TestEnhancedHandler_OmitsCycleIDWithoutContext(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(NewEnhancedHandler(slog.NewJSONHandler(&buf, nil)))
	logger.Info("Stopped")

	require.NotContains(t, buf.String(), "cycle_id")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN", false)
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, level)

	level, err = ParseLevel("error", true)
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)

	_, err = ParseLevel("fatal", false)
	require.Error(t, err)
}
