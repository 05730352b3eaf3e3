package keylock

import (
	"context"
	"errors"
)

// ErrTimeout is returned when the lock couldn't be acquired in the bounded
// wait. Nothing is held in this case.
var ErrTimeout = errors.New("timeout while waiting for lock")

type UnlockFunc func()

// Locker serializes callers which use the same key. Different keys never
// block each other.
type Locker interface {
	Lock(ctx context.Context, key string) (UnlockFunc, error)
}
