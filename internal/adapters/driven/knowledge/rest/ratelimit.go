package rest

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultHold is how long to back off after a throttled response that
// carries no Retry-After header.
const defaultHold = time.Second

// RateLimiter combines proactive token-bucket throttling with reactive
// backoff driven by Retry-After headers.
type RateLimiter struct {
	mu      sync.Mutex
	bucket  *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests.
func NewRateLimiter(perSecond float64) *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if until := time.Until(retryAt); until > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(until):
		}
	}

	return nil
}

// Observe updates backoff state from a response. A throttled response
// defers subsequent requests until its Retry-After window passes.
func (r *RateLimiter) Observe(resp *http.Response) {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return
	}

	hold := defaultHold
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			hold = time.Duration(seconds) * time.Second
		}
	}

	r.mu.Lock()
	r.retryAt = time.Now().Add(hold)
	r.mu.Unlock()
}

// RetryAt returns when the current backoff window ends.
func (r *RateLimiter) RetryAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retryAt
}
