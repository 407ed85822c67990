// Package lock provides the per-user critical section the timer start
// path needs: stop-all-running and insert-new must not interleave for
// the same user.
package lock

import (
	"context"
	"sync"
)

// Locker serializes a function per key.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// MemoryLocker serializes per key within a single process. Used when
// Redis is not configured; sufficient for single-instance deployments.
// Key mutexes are kept for the process lifetime: keys are user IDs, so
// the map is bounded by the number of users that ever start a timer.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMemoryLocker creates a new in-process locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*sync.Mutex)}
}

// WithLock runs fn while holding the key's mutex.
func (l *MemoryLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	keyLock, ok := l.locks[key]
	if !ok {
		keyLock = &sync.Mutex{}
		l.locks[key] = keyLock
	}
	l.mu.Unlock()

	keyLock.Lock()
	defer keyLock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
