package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig configures Retry. The yaml form covers the numeric fields:
//
//	retry:
//	  max_attempts: 3
//	  initial_backoff: 200ms
//	  max_backoff: 5s
//	  backoff_factor: 2
//	  jitter: 0.1
type RetryConfig struct {
	// MaxAttempts counts every call, the first one included.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=0"`
	// InitialBackoff is the delay after the first failure.
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff" validate:"gte=0"`
	// MaxBackoff caps every delay.
	MaxBackoff time.Duration `yaml:"max_backoff" mapstructure:"max_backoff" validate:"gte=0"`
	// BackoffFactor multiplies the delay after each failure. 1 gives a fixed delay.
	BackoffFactor float64 `yaml:"backoff_factor" mapstructure:"backoff_factor" validate:"gte=0"`
	// Jitter spreads each delay by up to this fraction in either direction.
	Jitter float64 `yaml:"jitter" mapstructure:"jitter" validate:"gte=0,lte=1"`
	// RetryIf selects retryable errors. Defaults to DefaultRetryIf.
	RetryIf func(error) bool `yaml:"-" mapstructure:"-"`
	// OnRetry runs before each wait that precedes another attempt.
	OnRetry func(attempt int, err error, backoff time.Duration) `yaml:"-" mapstructure:"-"`
	// WaitAfterLastAttempt also waits after the final failure, so an exhausted
	// run spends MaxAttempts delays rather than MaxAttempts-1.
	WaitAfterLastAttempt bool `yaml:"-" mapstructure:"-"`
}

// DefaultRetryConfig returns three attempts with jittered exponential backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		BackoffFactor:  2,
		Jitter:         0.1,
		RetryIf:        DefaultRetryIf,
	}
}

// FixedRetryConfig retries every error up to attempts times, waiting delay
// between attempts.
func FixedRetryConfig(attempts int, delay time.Duration) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: delay,
		MaxBackoff:     delay,
		BackoffFactor:  1,
		RetryIf:        func(error) bool { return true },
	}
}

// DefaultRetryIf retries everything except context cancellation and expiry.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c RetryConfig) withDefaults() RetryConfig {
	def := DefaultRetryConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = def.InitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = def.MaxBackoff
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = def.BackoffFactor
	}
	if c.RetryIf == nil {
		c.RetryIf = DefaultRetryIf
	}
	return c
}

// backoff returns the delay that follows failed attempt n (1-based).
func (c RetryConfig) backoff(n int) time.Duration {
	d := float64(c.InitialBackoff) * math.Pow(c.BackoffFactor, float64(n-1))
	if c.Jitter > 0 {
		d += d * c.Jitter * (2*rand.Float64() - 1)
	}
	d = min(d, float64(c.MaxBackoff))
	if d < 0 {
		return c.InitialBackoff
	}
	return time.Duration(d)
}

// Retry calls fn until it succeeds, RetryIf rejects its error, attempts run
// out or ctx ends. It returns the last error from fn, or ctx's error when the
// context ended first.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	cfg = cfg.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		out, err := fn()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !cfg.RetryIf(err) {
			return zero, err
		}

		last := attempt == cfg.MaxAttempts
		if last && !cfg.WaitAfterLastAttempt {
			break
		}
		delay := cfg.backoff(attempt)
		if !last && cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}
		if err := wait(ctx, delay); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

// RetryFunc is Retry for operations without a result.
func RetryFunc(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := Retry(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// wait sleeps for d unless ctx ends first.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
