package api

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryConfig controls how failed requests are retried.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	// Jitter spreads each delay by up to this fraction in either direction.
	Jitter float64
	// RetryableOn reports whether a response status is worth another attempt.
	RetryableOn func(statusCode int) bool
}

// DefaultRetryConfig retries timeouts, rate limiting and gateway failures
// three times, starting at one second.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.2,
		RetryableOn: statusIn([]int{
			http.StatusRequestTimeout,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		}),
	}
}

// ShouldRetry reports whether attempt (zero-based) may be followed by
// another one after a response with statusCode.
func (r *RetryConfig) ShouldRetry(attempt, statusCode int) bool {
	if attempt >= r.MaxRetries || r.RetryableOn == nil {
		return false
	}
	return r.RetryableOn(statusCode)
}

// Delay returns the backoff before the retry following attempt. The result
// never exceeds MaxDelay.
func (r *RetryConfig) Delay(attempt int) time.Duration {
	delay := float64(r.BaseDelay) * math.Pow(r.Multiplier, float64(attempt))
	if r.Jitter > 0 {
		spread := delay * r.Jitter
		delay += (rand.Float64()*2 - 1) * spread
	}
	if r.MaxDelay > 0 && delay > float64(r.MaxDelay) {
		delay = float64(r.MaxDelay)
	}
	return time.Duration(delay)
}

// Wait sleeps for Delay(attempt) or until ctx ends.
func (r *RetryConfig) Wait(ctx context.Context, attempt int) error {
	return r.WaitAtLeast(ctx, attempt, 0)
}

// WaitAtLeast is Wait with a lower bound, used to honour a server's
// Retry-After hint. The bound is itself capped at MaxDelay.
func (r *RetryConfig) WaitAtLeast(ctx context.Context, attempt int, min time.Duration) error {
	delay := r.Delay(attempt)
	if r.MaxDelay > 0 && min > r.MaxDelay {
		min = r.MaxDelay
	}
	if min > delay {
		delay = min
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryAfter parses a Retry-After header given in seconds. HTTP dates and
// malformed values yield zero.
func retryAfter(h http.Header) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
