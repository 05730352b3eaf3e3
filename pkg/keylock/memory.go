package keylock

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync"
)

type memoryLocker struct {
	timeout time.Duration
	slots   *xsync.MapOf[string, chan struct{}]
}

// NewMemoryLocker returns a Locker which only serializes callers in the same
// process. A slot is created per key on first use and kept afterwards.
func NewMemoryLocker(timeout time.Duration) *memoryLocker {
	return &memoryLocker{
		timeout: timeout,
		slots:   xsync.NewMapOf[chan struct{}](),
	}
}

func (l *memoryLocker) Lock(ctx context.Context, key string) (UnlockFunc, error) {
	slot, _ := l.slots.LoadOrStore(key, make(chan struct{}, 1))

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case slot <- struct{}{}:
		return func() { <-slot }, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
