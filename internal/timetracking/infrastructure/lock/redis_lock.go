package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockTTL       = 10 * time.Second
	retryInterval = 50 * time.Millisecond
	acquireWindow = 5 * time.Second
)

// releaseScript deletes the lock only if this process still holds it,
// so an expired-and-reacquired lock is never released by the old owner.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// RedisLocker serializes per key across processes using a Redis lease.
type RedisLocker struct {
	client *redis.Client
	prefix string
}

// NewRedisLocker creates a new Redis-backed locker.
func NewRedisLocker(client *redis.Client, prefix string) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix}
}

// WithLock acquires the key's lease, runs fn, and releases the lease.
// Acquisition is retried until the acquire window elapses.
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	fullKey := fmt.Sprintf("%s:%s", l.prefix, key)
	token := uuid.NewString()

	deadline := time.Now().Add(acquireWindow)
	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, lockTTL).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", fullKey, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out acquiring lock %s", fullKey)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{fullKey}, token).Err()
	}()

	return fn(ctx)
}
