package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a session lock.
type UnlockFunc func(ctx context.Context) error

// SessionLocker defines the interface for distributed concurrency control.
// It lets the session manager serialise turns of one session across replicas.
type SessionLocker interface {
	// Lock blocks until the lock for key is acquired or ctx is done.
	// The returned UnlockFunc MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
