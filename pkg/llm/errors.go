package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamBusy        = errors.New("upstream busy")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrUpstreamMalformed   = errors.New("upstream response malformed")
)

// StatusError maps a non-2xx status to the upstream error taxonomy.
func StatusError(provider string, status int, body []byte) error {
	kind := ErrUpstreamUnavailable
	if status == http.StatusTooManyRequests {
		kind = ErrUpstreamBusy
	}
	return fmt.Errorf("%w: %s status %d, body: %s", kind, provider, status, truncate(body, 512))
}

// TransportError classifies a failure from http.Client.Do or a body read.
func TransportError(provider string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s: %v", ErrUpstreamTimeout, provider, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, provider, err)
}

// MalformedError marks a 2xx body that does not carry the expected fields.
func MalformedError(provider, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrUpstreamMalformed, provider, reason)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
