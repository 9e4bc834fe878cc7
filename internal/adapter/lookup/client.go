package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/khmm12/wan-monitor/internal/ports"
)

const (
	DefaultIPURL  = "https://api.ipify.org"
	DefaultISPURL = "https://ipinfo.io/%s/json"

	userAgent   = "wan-monitor"
	maxBodySize = 64 << 10
)

// Client performs single-shot GET requests, each bounded by its own deadline. It never retries.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
}

func NewClient(logger *slog.Logger) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return newClient(logger, &http.Client{Transport: transport})
}

func newClient(logger *slog.Logger, httpClient *http.Client) *Client {
	return &Client{
		logger:     logger,
		httpClient: httpClient,
	}
}

func (c *Client) get(ctx context.Context, url, accept string, timeout time.Duration) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrTransport, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)

	now := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkError(reqCtx, timeout, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		if reqCtx.Err() != nil {
			return nil, networkError(reqCtx, timeout, err)
		}

		return nil, fmt.Errorf("%w: failed to read response body: %w", ports.ErrTransport, err)
	}

	if len(body) > maxBodySize {
		return nil, fmt.Errorf("%w: response body from %s exceeds %d bytes", ports.ErrTransport, url, maxBodySize)
	}

	c.logger.DebugContext(ctx, "Lookup request finished",
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(now)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", ports.ErrTransport, resp.StatusCode, url)
	}

	return body, nil
}

func networkError(reqCtx context.Context, timeout time.Duration, err error) error {
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timeout after %s: %w", ports.ErrNetwork, timeout, err)
	}

	return fmt.Errorf("%w: %w", ports.ErrNetwork, err)
}
