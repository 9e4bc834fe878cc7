package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/khmm12/wan-monitor/internal/ports"
)

type ISPResolver struct {
	client      *Client
	urlTemplate string
}

type ispPayload struct {
	ISP string `json:"isp"`
	Org string `json:"org"`
}

// NewISPResolver expects urlTemplate to contain a single %s placeholder for the IP address.
// The template is not a format string, so percent-encoded bytes elsewhere are kept as is.
func NewISPResolver(client *Client, urlTemplate string) *ISPResolver {
	if urlTemplate == "" {
		urlTemplate = DefaultISPURL
	}

	return &ISPResolver{client: client, urlTemplate: urlTemplate}
}

func (r *ISPResolver) ResolveISP(ctx context.Context, ip string, timeout time.Duration) (ports.ISPInfo, error) {
	body, err := r.client.get(ctx, strings.Replace(r.urlTemplate, "%s", url.PathEscape(ip), 1), "application/json", timeout)
	if err != nil {
		return ports.ISPInfo{}, err
	}

	var payload *ispPayload

	if err := json.Unmarshal(body, &payload); err != nil {
		return ports.ISPInfo{}, fmt.Errorf("%w: failed to decode ISP information: %w", ports.ErrParse, err)
	}

	if payload == nil {
		return ports.ISPInfo{}, fmt.Errorf("%w: empty ISP information", ports.ErrParse)
	}

	return ports.ISPInfo{
		ISP: payload.ISP,
		Org: payload.Org,
	}, nil
}
