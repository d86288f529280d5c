package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterCapsPerKey(t *testing.T) {
	l := NewMemoryLimiter(Policy{Max: 10, Window: time.Minute})
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i)
	}

	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok, "11th request should be limited")

	ok, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok, "other callers keep their own counter")
}

func TestMemoryLimiterWindowResets(t *testing.T) {
	l := NewMemoryLimiter(Policy{Max: 1, Window: 50 * time.Millisecond})
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "k")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "k")
	assert.False(t, ok)

	time.Sleep(80 * time.Millisecond)

	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryLimiterConcurrent(t *testing.T) {
	l := NewMemoryLimiter(Policy{Max: 10, Window: time.Minute})
	ctx := context.Background()

	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow(ctx, "shared"); ok {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), allowed)
}

func TestMemoryLimiterDisabled(t *testing.T) {
	l := NewMemoryLimiter(Policy{Max: 0, Window: time.Minute})
	for i := 0; i < 100; i++ {
		ok, err := l.Allow(context.Background(), "k")
		require.NoError(t, err)
		require.True(t, ok)
	}
}
