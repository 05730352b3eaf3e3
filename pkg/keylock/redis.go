package keylock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"github.com/nextlevel/reward-engine/pkg/xredis"
)

const (
	minRetryInterval = 5 * time.Millisecond
	maxRetryInterval = 100 * time.Millisecond
)

type redisLocker struct {
	redisClient xredis.Client
	prefix      string
	timeout     time.Duration
	ttl         time.Duration
}

// NewRedisLocker returns a Locker shared by every instance using the same
// redis. The ttl bounds how long a crashed holder keeps the key.
func NewRedisLocker(redisClient xredis.Client, prefix string, timeout, ttl time.Duration) *redisLocker {
	return &redisLocker{
		redisClient: redisClient,
		prefix:      prefix,
		timeout:     timeout,
		ttl:         ttl,
	}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (UnlockFunc, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)
	token := uuid.NewString()
	deadline := time.Now().Add(l.timeout)
	interval := minRetryInterval

	for {
		ok, err := l.redisClient.SetNX(ctx, redisKey, token, l.ttl)
		if err != nil {
			return nil, err
		}

		if ok {
			return func() {
				// Release with a fresh context, the caller's one may be done.
				released, err := l.redisClient.CompareAndDel(context.Background(), redisKey, token)
				if err != nil {
					xcontext.Logger(ctx).Errorf("Cannot release lock %s: %v", redisKey, err)
				} else if !released {
					xcontext.Logger(ctx).Warnf("Lock %s expired before release", redisKey)
				}
			}, nil
		}

		if time.Now().Add(interval).After(deadline) {
			return nil, ErrTimeout
		}

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		interval *= 2
		if interval > maxRetryInterval {
			interval = maxRetryInterval
		}
	}
}
