package httpsrv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/khmm12/wan-monitor/internal/common/logging"
	"github.com/khmm12/wan-monitor/internal/common/tracing"
	"github.com/khmm12/wan-monitor/internal/ports"
	"github.com/khmm12/wan-monitor/internal/usecase"
)

type StateReader interface {
	State() usecase.Snapshot
}

type Checker interface {
	StateReader
	Execute(ctx context.Context) error
}

type stateResponse struct {
	Name         string     `json:"name"`
	Manufacturer string     `json:"manufacturer"`
	Model        string     `json:"model"`
	SerialNumber string     `json:"serial_number"`
	State        string     `json:"state"`
	Secondary    bool       `json:"secondary"`
	IP           string     `json:"ip,omitempty"`
	ISP          string     `json:"isp,omitempty"`
	CheckedAt    *time.Time `json:"checked_at,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

func StateHandler(reader StateReader, accessory ports.Accessory) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, newStateResponse(reader.State(), accessory))
	}
}

// CheckHandler runs a check cycle on demand and answers with the resulting state.
func CheckHandler(logger *slog.Logger, checker Checker, accessory ports.Accessory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := tracing.WithCycleID(r.Context())

		logger.InfoContext(ctx, "Run forced WAN check")

		err := checker.Execute(ctx)

		switch {
		case errors.Is(err, usecase.ErrCheckInProgress):
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		case err != nil:
			logger.ErrorContext(ctx, "Failed to execute forced WAN check", logging.Error(err))
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusOK, newStateResponse(checker.State(), accessory))
		}
	}
}

func newStateResponse(snapshot usecase.Snapshot, accessory ports.Accessory) stateResponse {
	resp := stateResponse{
		Name:         accessory.Name,
		Manufacturer: accessory.Manufacturer,
		Model:        accessory.Model,
		SerialNumber: accessory.SerialNumber,
		State:        snapshot.State.String(),
		Secondary:    snapshot.State == ports.WANSecondary,
	}

	if !snapshot.CheckedAt.IsZero() {
		checkedAt := snapshot.CheckedAt
		resp.IP = snapshot.Result.IP
		resp.ISP = snapshot.Result.ISPName
		resp.CheckedAt = &checkedAt
	}

	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
