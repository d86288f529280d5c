package ratelimit

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryLimiter keeps counters in a process-local go-cache. Each counter
// expires with its window, so the first request after expiry opens a new one.
type MemoryLimiter struct {
	cache  *cache.Cache
	policy Policy
}

var _ Limiter = &MemoryLimiter{}

func NewMemoryLimiter(policy Policy) *MemoryLimiter {
	// purge expired counters every window
	cleanup := policy.Window
	if cleanup <= 0 {
		cleanup = cache.NoExpiration
	}
	return &MemoryLimiter{
		cache:  cache.New(policy.Window, cleanup),
		policy: policy,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	if l.policy.Disabled() {
		return true, nil
	}

	for {
		// Add only succeeds when no live counter exists.
		if err := l.cache.Add(key, 1, l.policy.Window); err == nil {
			return true, nil
		}
		n, err := l.cache.IncrementInt(key, 1)
		if err == nil {
			return n <= l.policy.Max, nil
		}
		// the counter expired between Add and IncrementInt
	}
}
