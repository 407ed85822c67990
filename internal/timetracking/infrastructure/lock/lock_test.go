package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker_WithLock_SerializesPerKey(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	const goroutines = 32
	const iterations = 50

	// Plain int on purpose: lost updates would show up as a short count.
	counter := 0
	inCritical := false
	overlapped := false
	errs := make(chan error, goroutines*iterations)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				errs <- locker.WithLock(ctx, "user-1", func(context.Context) error {
					if inCritical {
						overlapped = true
					}
					inCritical = true
					counter++
					inCritical = false
					return nil
				})
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.False(t, overlapped, "two holders inside the critical section")
	assert.Equal(t, goroutines*iterations, counter)
}

func TestMemoryLocker_WithLock_IndependentKeys(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- locker.WithLock(ctx, "user-1", func(context.Context) error {
			close(holding)
			<-release
			return nil
		})
	}()

	<-holding

	// A different key must not wait on user-1's lock.
	err := locker.WithLock(ctx, "user-2", func(context.Context) error { return nil })
	require.NoError(t, err)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("lock on user-1 never released")
	}
}

func TestMemoryLocker_WithLock_PropagatesError(t *testing.T) {
	locker := NewMemoryLocker()
	sentinel := errors.New("timer already running")

	err := locker.WithLock(context.Background(), "user-1", func(context.Context) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestMemoryLocker_WithLock_CancelledContext(t *testing.T) {
	locker := NewMemoryLocker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := locker.WithLock(ctx, "user-1", func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
