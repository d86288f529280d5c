package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares counters across instances. INCR and EXPIRE NX run in
// one MULTI so every counter gets exactly one expiry.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	policy Policy
}

var _ Limiter = &RedisLimiter{}

func NewRedisLimiter(rdb *redis.Client, prefix string, policy Policy) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		prefix: prefix,
		policy: policy,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.policy.Disabled() {
		return true, nil
	}

	k := l.prefix + key
	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.policy.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter %s: %w", k, err)
	}

	return incr.Val() <= int64(l.policy.Max), nil
}
