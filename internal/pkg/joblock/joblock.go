// Package joblock provides a named, TTL-bound distributed mutex backed by
// Redis. It keeps concurrent reconciliation runs mutually exclusive across
// process replicas.
package joblock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock is a distributed mutual-exclusion primitive. Acquire must be atomic
// with respect to concurrent callers across processes and must fail closed
// when the backing store is unreachable.
type Lock interface {
	// Acquire returns true and records ownership iff no live holder exists
	// for jobName. An expired holder's lock is stealable.
	Acquire(ctx context.Context, jobName string, ttl time.Duration, ownerToken string) (bool, error)

	// Release clears the lock only when ownerToken matches the current
	// holder; a mismatched release is a no-op.
	Release(ctx context.Context, jobName string, ownerToken string) error
}

const keyPrefix = "joblock:"

// Compare-owner-then-delete, executed server-side so release stays a single
// atomic round trip.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLock struct {
	client *redis.Client
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

// Acquire implements Lock via SET NX PX: the key is written only when absent,
// and Redis expires it at the TTL, which makes stale locks stealable without
// any read-then-write pair on our side.
func (l *RedisLock) Acquire(ctx context.Context, jobName string, ttl time.Duration, ownerToken string) (bool, error) {
	ok, err := l.client.SetNX(ctx, keyPrefix+jobName, ownerToken, ttl).Result()
	if err != nil {
		// Fail closed: an unreachable store must never grant exclusivity.
		return false, fmt.Errorf("failed to acquire job lock %q: %w", jobName, err)
	}
	return ok, nil
}

// Release implements Lock. Only the current owner's token clears the key, so
// a slow caller cannot release a lock that expired and was re-acquired by
// someone else.
func (l *RedisLock) Release(ctx context.Context, jobName string, ownerToken string) error {
	if err := releaseScript.Run(ctx, l.client, []string{keyPrefix + jobName}, ownerToken).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release job lock %q: %w", jobName, err)
	}
	return nil
}
