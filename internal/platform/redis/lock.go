// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package redis

import (
	stdctx "context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned by [Locker.Acquire] when another holder owns the key.
var ErrLockHeld = errors.New("redis: lock already held")

// releaseScript deletes the key only if it still carries our token, so an
// expired lock re-acquired by someone else is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out exclusive, expiring locks keyed by string.
type Locker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewLocker builds a [Locker] whose keys are prefix+key and expire after ttl.
func NewLocker(client *redis.Client, prefix string, ttl time.Duration) *Locker {
	return &Locker{client: client, prefix: prefix, ttl: ttl}
}

// Acquire takes the lock for key. The returned release func must be called
// once; it uses a fresh context so a cancelled request still unlocks.
func (locker *Locker) Acquire(context stdctx.Context, key string) (func(), error) {
	token := uuid.NewString()
	fullKey := locker.prefix + key

	acquired, err := locker.client.SetNX(context, fullKey, token, locker.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: acquire %s: %w", fullKey, err)
	}
	if !acquired {
		return nil, ErrLockHeld
	}

	release := func() {
		releaseCtx, cancel := stdctx.WithTimeout(stdctx.Background(), writeTimeout)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, locker.client, []string{fullKey}, token).Err()
	}

	return release, nil
}
