package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const maxRetryAfter = time.Minute

func retryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// idempotentMethod reports whether a request that failed before a response
// arrived may be sent again.
func idempotentMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}

// parseRetryAfter accepts delta-seconds, including the fractional values
// Shopify sends ("2.0"), and HTTP dates.
func parseRetryAfter(value string, now time.Time) time.Duration {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}

	var delay time.Duration
	if seconds, err := strconv.ParseFloat(trimmed, 64); err == nil {
		delay = time.Duration(seconds * float64(time.Second))
	} else if at, err := http.ParseTime(trimmed); err == nil {
		delay = at.Sub(now)
	}

	if delay <= 0 {
		return 0
	}
	if delay > maxRetryAfter {
		return maxRetryAfter
	}
	return delay
}

// retryAfterBackOff serves a server-provided delay once, then falls back to
// the wrapped policy.
type retryAfterBackOff struct {
	backoff.BackOff

	mu      sync.Mutex
	pending time.Duration
}

func (b *retryAfterBackOff) setRetryAfter(delay time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = delay
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	b.mu.Lock()
	pending := b.pending
	b.pending = 0
	b.mu.Unlock()

	fallback := b.BackOff.NextBackOff()
	if pending > 0 {
		return pending
	}
	return fallback
}

func newExponentialBackOff(initial time.Duration, maxInterval time.Duration) *backoff.ExponentialBackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initial
	policy.MaxInterval = maxInterval
	return policy
}

// unwrapPermanent strips the marker backoff.Retry leaves on a permanent
// error returned from the final allowed attempt.
func unwrapPermanent(err error) error {
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Unwrap()
	}
	return err
}
