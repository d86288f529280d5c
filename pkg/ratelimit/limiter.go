package ratelimit

import (
	"context"
	"time"
)

// Limiter counts requests per caller in fixed windows.
type Limiter interface {
	// Allow records one request for key and reports whether it is within
	// the limit for the current window.
	Allow(ctx context.Context, key string) (bool, error)
}

// Policy is the per-caller cap. A Max of zero or less disables limiting.
type Policy struct {
	Max    int
	Window time.Duration
}

func (p Policy) Disabled() bool {
	return p.Max <= 0 || p.Window <= 0
}
