package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/khmm12/wan-monitor/internal/ports"
)

// Publisher delivers every update to all wrapped publishers concurrently.
type Publisher struct {
	publishers []ports.WANStatePublisher
}

func NewPublisher(publishers ...ports.WANStatePublisher) *Publisher {
	return &Publisher{publishers: publishers}
}

func (p *Publisher) Publish(ctx context.Context, update ports.WANStateUpdate) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, publisher := range p.publishers {
		g.Go(func() error {
			return publisher.Publish(gctx, update)
		})
	}

	return g.Wait()
}
