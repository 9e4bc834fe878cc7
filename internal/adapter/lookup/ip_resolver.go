package lookup

import (
	"context"
	"strings"
	"time"
)

type IPResolver struct {
	client *Client
	url    string
}

func NewIPResolver(client *Client, url string) *IPResolver {
	if url == "" {
		url = DefaultIPURL
	}

	return &IPResolver{client: client, url: url}
}

// ResolveIP returns the trimmed response body as is. The address syntax is not validated.
func (r *IPResolver) ResolveIP(ctx context.Context, timeout time.Duration) (string, error) {
	body, err := r.client.get(ctx, r.url, "text/plain", timeout)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(body)), nil
}
