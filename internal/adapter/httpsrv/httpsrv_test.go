package httpsrv

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/khmm12/wan-monitor/internal/ports"
	"github.com/khmm12/wan-monitor/internal/usecase"
)

type fakeChecker struct {
	snapshot usecase.Snapshot
	err      error
	after    usecase.Snapshot
}

func (c *fakeChecker) State() usecase.Snapshot {
	return c.snapshot
}

func (c *fakeChecker) Execute(context.Context) error {
	if c.err != nil {
		return c.err
	}

	c.snapshot = c.after

	return nil
}

var checkedAt = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func TestServer_Health(t *testing.T) {
	srv := NewServer("127.0.0.1:0", ServerOptions{})

	rec := serve(srv, http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}

func TestServer_StateBeforeFirstCheck(t *testing.T) {
	checker := &fakeChecker{}
	srv := newTestServer(checker)

	rec := serve(srv, http.MethodGet, "/state")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Secondary Internet", resp["name"])
	require.Equal(t, "WANMon-001", resp["serial_number"])
	require.Equal(t, "primary", resp["state"])
	require.Equal(t, false, resp["secondary"])
	require.NotContains(t, resp, "checked_at")
}

func TestServer_StateRejectsPost(t *testing.T) {
	srv := newTestServer(&fakeChecker{})

	rec := serve(srv, http.MethodPost, "/state")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_CheckReturnsNewState(t *testing.T) {
	checker := &fakeChecker{
		after: usecase.Snapshot{
			State:     ports.WANSecondary,
			Result:    ports.CheckResult{IP: "203.0.113.7", ISPName: "Verizon Business", State: ports.WANSecondary},
			CheckedAt: checkedAt,
		},
	}
	srv := newTestServer(checker)

	rec := serve(srv, http.MethodPost, "/check")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp stateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "secondary", resp.State)
	require.True(t, resp.Secondary)
	require.Equal(t, "Verizon Business", resp.ISP)
	require.NotNil(t, resp.CheckedAt)
	require.True(t, checkedAt.Equal(*resp.CheckedAt))
}

func TestServer_CheckInProgress(t *testing.T) {
	srv := newTestServer(&fakeChecker{err: usecase.ErrCheckInProgress})

	rec := serve(srv, http.MethodPost, "/check")
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_CheckFailure(t *testing.T) {
	srv := newTestServer(&fakeChecker{err: errors.New("failed to resolve current IP: network error")})

	rec := serve(srv, http.MethodPost, "/check")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "failed to resolve current IP")
}

func newTestServer(checker Checker) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	accessory := ports.NewAccessory("")

	return NewServer("127.0.0.1:0", ServerOptions{
		MetricsHandler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) },
		StateHandler:   StateHandler(checker, accessory),
		CheckHandler:   CheckHandler(logger, checker, accessory),
	})
}

func serve(srv *Server, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	return rec
}
