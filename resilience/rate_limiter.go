package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when a call cannot be admitted before the
// caller's deadline.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimiterConfig paces outgoing calls with a token bucket.
type RateLimiterConfig struct {
	// Rate is the sustained number of calls per second. Zero disables pacing.
	Rate float64 `yaml:"rate" mapstructure:"rate" validate:"gte=0"`
	// Burst is the number of calls admitted back to back. Defaults to 1.
	Burst int `yaml:"burst" mapstructure:"burst" validate:"gte=0"`
}

// DefaultRateLimiterConfig returns a crawl-friendly pace of two calls per
// second without bursts.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{Rate: 2, Burst: 1}
}

// RateLimiter admits calls at a configured rate. A pause requested by the
// remote side (see PauseUntil) holds every caller until it has passed.
type RateLimiter struct {
	bucket *rate.Limiter

	mu          sync.Mutex
	pausedUntil time.Time
}

// NewRateLimiter creates a limiter from cfg.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{bucket: rate.NewLimiter(limit, burst)}
}

// Allow reports whether a call may proceed right now, consuming a token if so.
func (r *RateLimiter) Allow() bool {
	if r.pause() > 0 {
		return false
	}
	return r.bucket.Allow()
}

// Wait blocks until a call may proceed. It returns ctx.Err() when ctx ends
// first and ErrRateLimited when the wait is known to outlast ctx's deadline.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if d := r.pause(); d > 0 {
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < d {
			return fmt.Errorf("%w: paused for another %s", ErrRateLimited, d.Round(time.Millisecond))
		}
		if err := wait(ctx, d); err != nil {
			return err
		}
	}
	if err := r.bucket.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return nil
}

// PauseUntil holds all callers until t. A pause is only ever extended.
func (r *RateLimiter) PauseUntil(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.After(r.pausedUntil) {
		r.pausedUntil = t
	}
}

// PausedFor returns the time left on the current pause, zero if none.
func (r *RateLimiter) PausedFor() time.Duration {
	return max(r.pause(), 0)
}

func (r *RateLimiter) pause() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Until(r.pausedUntil)
}

// Limit returns the sustained rate in calls per second. It is +Inf for an
// unpaced limiter.
func (r *RateLimiter) Limit() float64 {
	return float64(r.bucket.Limit())
}

// Burst returns the bucket size.
func (r *RateLimiter) Burst() int {
	return r.bucket.Burst()
}
