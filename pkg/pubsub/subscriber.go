package pubsub

import (
	"context"
	"time"
)

type SubscribeHandler func(ctx context.Context, topic string, pack *Pack, t time.Time)

type Subscriber interface {
	// Subscribe blocks until ctx is done or the subscriber is stopped.
	Subscribe(ctx context.Context)
	Stop(ctx context.Context) error
}
