package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mulesoft-labs/twiml/pkg/ports"
)

// Locker implements ports.CallLocker in process. The TTL is ignored; it
// exists as a crash-safety net for distributed lockers, and an in-process
// lock dies with the process anyway.
type Locker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewLocker creates a new in-process locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]chan struct{})}
}

// Lock acquires the lock for key, waiting for the current holder if needed.
func (l *Locker) Lock(ctx context.Context, key string, _ time.Duration) (ports.UnlockFunc, error) {
	for {
		l.mu.Lock()
		ch, held := l.locks[key]
		if !held {
			ch = make(chan struct{})
			l.locks[key] = ch
			l.mu.Unlock()
			return func(context.Context) error {
				l.mu.Lock()
				delete(l.locks, key)
				l.mu.Unlock()
				close(ch)
				return nil
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ch:
			// Holder released; try again.
		}
	}
}
