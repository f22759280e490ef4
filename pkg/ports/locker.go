package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a held lock.
type UnlockFunc func(ctx context.Context) error

// CallLocker defines the interface for per-call concurrency control. Twilio
// retries webhooks and can deliver a status callback while an action callback
// is still in flight, so updates to one call's state must be serialized,
// across replicas when the host runs more than one.
type CallLocker interface {
	// Lock attempts to acquire the lock for the given key (a call SID).
	// It blocks until the lock is acquired, the context is canceled, or the
	// TTL expires (implementation specific).
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
