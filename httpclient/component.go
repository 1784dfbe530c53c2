package httpclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/docclient/component"
	"github.com/kbukum/docclient/resilience"
)

// Component manages an Adapter's lifecycle inside a component.Registry.
// The adapter is built in Start, so configuration errors surface there.
type Component struct {
	adapter *Adapter
	config  Config
	opts    []Option
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent returns a component that builds its adapter from cfg and opts.
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// Name returns the configured adapter name, or "http".
func (c *Component) Name() string {
	if c.config.Name == "" {
		return defaultName
	}
	return c.config.Name
}

// Start builds the adapter.
func (c *Component) Start(_ context.Context) error {
	a, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.adapter = a
	return nil
}

// Stop closes idle connections.
func (c *Component) Stop(ctx context.Context) error {
	if c.adapter == nil {
		return nil
	}
	return c.adapter.Close(ctx)
}

// Health is unhealthy before Start and while the circuit breaker is open,
// and degraded while the breaker is probing.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.adapter == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case c.adapter.breaker != nil:
		switch c.adapter.breaker.State() {
		case resilience.StateOpen:
			h.Status = component.StatusUnhealthy
			h.Message = "circuit open"
		case resilience.StateHalfOpen:
			h.Status = component.StatusDegraded
			h.Message = "circuit half-open"
		}
	}
	return h
}

// Describe summarizes the base URL and the resilience settings in use, for
// example "https://docs.example.com retry=3 breaker=5/30s rate=2/s".
func (c *Component) Describe() component.Description {
	cfg := c.config
	parts := []string{cfg.BaseURL}
	if cfg.BaseURL == "" {
		parts[0] = "(no base url)"
	}
	if cfg.Auth != nil && cfg.Auth.Type != AuthNone {
		parts = append(parts, "auth="+string(cfg.Auth.Type))
	}
	if cfg.Retry != nil {
		parts = append(parts, fmt.Sprintf("retry=%d", cfg.Retry.MaxAttempts))
	}
	if cb := cfg.CircuitBreaker; cb != nil {
		parts = append(parts, fmt.Sprintf("breaker=%d/%s", cb.Threshold, cb.Cooldown))
	}
	if rl := cfg.RateLimit; rl != nil {
		parts = append(parts, fmt.Sprintf("rate=%g/s", rl.Rate))
	}
	return component.Description{
		Name:    c.Name(),
		Type:    "http-adapter",
		Details: strings.Join(parts, " "),
	}
}

// Adapter returns the adapter built by Start, or nil before it.
func (c *Component) Adapter() *Adapter {
	return c.adapter
}
