package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errFlaky = errors.New("flaky")

// failing returns an operation that fails the first n calls and counts calls.
func failing(n int, calls *int) func() (string, error) {
	return func() (string, error) {
		*calls++
		if *calls <= n {
			return "", errFlaky
		}
		return "ok", nil
	}
}

func TestRetry_Attempts(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"first try", 0, 3, 1, false},
		{"recovers", 2, 3, 3, false},
		{"exhausted", 5, 3, 3, true},
		{"single attempt", 1, 1, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			out, err := Retry(context.Background(), FixedRetryConfig(tt.attempts, time.Millisecond), failing(tt.failures, &calls))

			if calls != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, calls)
			}
			if tt.wantErr {
				if !errors.Is(err, errFlaky) {
					t.Errorf("expected last operation error, got %v", err)
				}
				return
			}
			if err != nil || out != "ok" {
				t.Errorf("expected ok, got %q (%v)", out, err)
			}
		})
	}
}

func TestRetry_ZeroConfigUsesDefaults(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), RetryConfig{InitialBackoff: time.Millisecond}, failing(10, &calls))
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != DefaultRetryConfig().MaxAttempts {
		t.Errorf("expected %d calls, got %d", DefaultRetryConfig().MaxAttempts, calls)
	}
}

func TestRetry_StopsOnNonRetryable(t *testing.T) {
	errFatal := errors.New("malformed")
	cfg := FixedRetryConfig(5, time.Millisecond)
	cfg.RetryIf = func(err error) bool { return !errors.Is(err, errFatal) }

	calls := 0
	_, err := Retry(context.Background(), cfg, func() (int, error) {
		calls++
		return 0, errFatal
	})
	if calls != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
	if !errors.Is(err, errFatal) {
		t.Errorf("expected errFatal, got %v", err)
	}
}

func TestRetry_ContextEndsDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	calls := 0
	_, err := Retry(ctx, FixedRetryConfig(10, 100*time.Millisecond), failing(10, &calls))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected one call before the deadline, got %d", calls)
	}
}

func TestRetry_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Retry(ctx, FixedRetryConfig(3, time.Millisecond), failing(0, &calls))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no calls, got %d", calls)
	}
}

func TestRetry_OnRetry(t *testing.T) {
	var seen []int
	cfg := FixedRetryConfig(3, time.Millisecond)
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		if !errors.Is(err, errFlaky) || backoff != time.Millisecond {
			t.Errorf("unexpected OnRetry args: %v, %v", err, backoff)
		}
		seen = append(seen, attempt)
	}
	cfg.WaitAfterLastAttempt = true

	calls := 0
	_, _ = Retry(context.Background(), cfg, failing(10, &calls))

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("expected OnRetry before attempts 2 and 3 only, got %v", seen)
	}
}

func TestRetry_WaitAfterLastAttempt(t *testing.T) {
	cfg := FixedRetryConfig(3, 10*time.Millisecond)
	cfg.WaitAfterLastAttempt = true

	calls := 0
	start := time.Now()
	_, err := Retry(context.Background(), cfg, failing(10, &calls))

	if !errors.Is(err, errFlaky) {
		t.Fatalf("expected errFlaky, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("expected three 10ms waits, took %v", elapsed)
	}
}

func TestRetry_WaitAfterLastAttemptHonorsContext(t *testing.T) {
	cfg := FixedRetryConfig(1, time.Second)
	cfg.WaitAfterLastAttempt = true

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	_, err := Retry(ctx, cfg, failing(1, &calls))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestRetryFunc(t *testing.T) {
	calls := 0
	err := RetryFunc(context.Background(), FixedRetryConfig(3, time.Millisecond), func() error {
		calls++
		if calls < 2 {
			return errFlaky
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("expected success on call 2, got %d calls (%v)", calls, err)
	}
}

func TestRetryConfig_Backoff(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
		BackoffFactor:  2,
	}
	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
		time.Second,
	}
	for i, w := range want {
		if got := cfg.backoff(i + 1); got != w {
			t.Errorf("attempt %d: expected %v, got %v", i+1, w, got)
		}
	}
}

func TestRetryConfig_BackoffJitterBounds(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
		BackoffFactor:  1,
		Jitter:         0.5,
	}
	for i := 0; i < 100; i++ {
		d := cfg.backoff(1)
		if d < 50*time.Millisecond || d > 150*time.Millisecond {
			t.Fatalf("jittered delay %v outside [50ms, 150ms]", d)
		}
	}
}

func TestFixedRetryConfig(t *testing.T) {
	cfg := FixedRetryConfig(20, 5*time.Millisecond)

	if cfg.MaxAttempts != 20 {
		t.Errorf("expected 20 attempts, got %d", cfg.MaxAttempts)
	}
	for attempt := 1; attempt <= 20; attempt++ {
		if got := cfg.backoff(attempt); got != 5*time.Millisecond {
			t.Errorf("attempt %d: expected 5ms, got %v", attempt, got)
		}
	}
	if !cfg.RetryIf(context.Canceled) {
		t.Error("expected fixed policy to retry every error")
	}
}
