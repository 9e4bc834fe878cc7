package logging

import (
	"context"
	"log/slog"

	"github.com/khmm12/wan-monitor/internal/common/tracing"
)

var _ slog.Handler = (*EnhancedHandler)(nil)

// EnhancedHandler decorates records with the check cycle ID carried by the context.
type EnhancedHandler struct {
	w slog.Handler
}

func NewEnhancedHandler(handler slog.Handler) *EnhancedHandler {
	return &EnhancedHandler{w: handler}
}

func (h *EnhancedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.w.Enabled(ctx, level)
}

func (h *EnhancedHandler) Handle(ctx context.Context, r slog.Record) error {
	if cycleID := tracing.GetCycleID(ctx); cycleID != "" {
		r.AddAttrs(slog.String("cycle_id", cycleID))
	}

	return h.w.Handle(ctx, r)
}

func (h *EnhancedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EnhancedHandler{w: h.w.WithAttrs(attrs)}
}

func (h *EnhancedHandler) WithGroup(name string) slog.Handler {
	return &EnhancedHandler{w: h.w.WithGroup(name)}
}
