package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while a breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the position of a circuit breaker.
type State int

const (
	// StateClosed admits every call.
	StateClosed State = iota
	// StateOpen rejects every call until the cooldown has passed.
	StateOpen
	// StateHalfOpen admits a single probe call.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	// Threshold is the number of consecutive failures that opens the breaker.
	Threshold int `yaml:"threshold" mapstructure:"threshold" validate:"gte=0"`
	// Cooldown is how long the breaker stays open before admitting a probe.
	Cooldown time.Duration `yaml:"cooldown" mapstructure:"cooldown" validate:"gte=0"`
	// IsFailure selects the errors that count against Threshold. Nil counts
	// every error; other errors reset the streak like a success.
	IsFailure func(error) bool `yaml:"-" mapstructure:"-"`
	// OnStateChange observes transitions. It runs with the breaker locked and
	// must not call back into it.
	OnStateChange func(from, to State) `yaml:"-" mapstructure:"-"`
}

// DefaultCircuitBreakerConfig opens after five consecutive failures and
// probes again after thirty seconds.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{Threshold: 5, Cooldown: 30 * time.Second}
}

// CircuitBreaker fails fast once a dependency has failed Threshold times in
// a row. After Cooldown one probe call is let through; its outcome closes the
// breaker or opens it for another Cooldown.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    State
	streak   int
	openedAt time.Time
	probing  bool
}

// NewCircuitBreaker creates a closed breaker. Zero config fields take the
// DefaultCircuitBreakerConfig values.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCircuitBreakerConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// Do runs fn unless the breaker rejects the call with ErrCircuitOpen.
func (cb *CircuitBreaker) Do(fn func() error) error {
	if err := cb.admit(); err != nil {
		return err
	}
	err := fn()
	cb.record(err)
	return err
}

// Guard runs fn through cb and returns its result.
func Guard[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var out T
	err := cb.Do(func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}

// State returns the current position.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.expireCooldown()
	return cb.state
}

// Failures returns the current run of consecutive failures.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.streak
}

// Reset closes the breaker and clears the failure streak.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.moveTo(StateClosed)
	cb.streak = 0
}

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.expireCooldown()

	switch cb.state {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.probing {
			return ErrCircuitOpen
		}
		cb.probing = true
	}
	return nil
}

func (cb *CircuitBreaker) record(err error) {
	failed := err != nil && (cb.cfg.IsFailure == nil || cb.cfg.IsFailure(err))

	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateHalfOpen:
		if failed {
			cb.moveTo(StateOpen)
		} else {
			cb.moveTo(StateClosed)
		}
	case StateClosed:
		if !failed {
			cb.streak = 0
			return
		}
		cb.streak++
		if cb.streak >= cb.cfg.Threshold {
			cb.moveTo(StateOpen)
		}
	}
}

func (cb *CircuitBreaker) expireCooldown() {
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.Cooldown {
		cb.moveTo(StateHalfOpen)
	}
}

func (cb *CircuitBreaker) moveTo(to State) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	cb.probing = false
	switch to {
	case StateOpen:
		cb.openedAt = cb.now()
	case StateClosed:
		cb.streak = 0
	}
	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(from, to)
	}
}
