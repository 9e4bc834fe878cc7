package ports

import "context"

type WANStatePublisher interface {
	Publish(ctx context.Context, update WANStateUpdate) error
}
