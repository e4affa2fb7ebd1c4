package pubsub

import "context"

// Publisher publishes messages to a named channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, message string) error
	Ping(ctx context.Context) error
	Close() error
}
