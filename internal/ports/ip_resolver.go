package ports

import (
	"context"
	"time"
)

type IPResolver interface {
	ResolveIP(ctx context.Context, timeout time.Duration) (string, error)
}
