package ports

import (
	"context"
	"time"
)

// ISPInfo holds the raw organization fields reported for an IP. Empty means absent.
type ISPInfo struct {
	ISP string
	Org string
}

type ISPResolver interface {
	ResolveISP(ctx context.Context, ip string, timeout time.Duration) (ISPInfo, error)
}
