package component

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kbukum/docclient/logger"
)

// DefaultStopTimeout bounds each component's Stop call.
const DefaultStopTimeout = 10 * time.Second

// Registry starts components in registration order and stops them in
// reverse. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	components  []Component
	running     map[string]bool
	stopTimeout time.Duration
	log         *logger.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		running:     make(map[string]bool),
		stopTimeout: DefaultStopTimeout,
		log:         logger.Get("component"),
	}
}

// WithStopTimeout overrides the per-component stop timeout.
func (r *Registry) WithStopTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.stopTimeout = d
	}
	return r
}

// Register appends c. Names must be unique.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(c.Name()) >= 0 {
		return fmt.Errorf("component %s already registered", c.Name())
	}
	r.components = append(r.components, c)
	return nil
}

func (r *Registry) indexOf(name string) int {
	return slices.IndexFunc(r.components, func(c Component) bool { return c.Name() == name })
}

// StartAll starts every component that is not running. When one fails, the
// components started by this call are stopped again before the error is
// returned.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var started []Component
	for _, c := range r.components {
		if r.running[c.Name()] {
			continue
		}
		if err := c.Start(ctx); err != nil {
			r.log.Error("component start failed", logger.Fields(
				logger.FieldComponent, c.Name(),
				logger.FieldError, err.Error(),
			))
			slices.Reverse(started)
			rollback := r.stop(context.WithoutCancel(ctx), started)
			return errors.Join(fmt.Errorf("start %s: %w", c.Name(), err), rollback)
		}
		r.running[c.Name()] = true
		started = append(started, c)
		r.log.Debug("component started", logger.Fields(logger.FieldComponent, c.Name()))
	}
	return nil
}

// StopAll stops running components in reverse registration order and
// returns every Stop error joined.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var running []Component
	for _, c := range slices.Backward(r.components) {
		if r.running[c.Name()] {
			running = append(running, c)
		}
	}
	return r.stop(ctx, running)
}

func (r *Registry) stop(ctx context.Context, cs []Component) error {
	var errs []error
	for _, c := range cs {
		stopCtx, cancel := context.WithTimeout(ctx, r.stopTimeout)
		err := c.Stop(stopCtx)
		cancel()
		delete(r.running, c.Name())
		if err != nil {
			r.log.Warn("component stop failed", logger.Fields(
				logger.FieldComponent, c.Name(),
				logger.FieldError, err.Error(),
			))
			errs = append(errs, fmt.Errorf("stop %s: %w", c.Name(), err))
			continue
		}
		r.log.Debug("component stopped", logger.Fields(logger.FieldComponent, c.Name()))
	}
	return errors.Join(errs...)
}

// HealthAll reports every component's health in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, 0, len(r.components))
	for _, c := range r.components {
		out = append(out, c.Health(ctx))
	}
	return out
}

// Get returns the component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(name); i >= 0 {
		return r.components[i]
	}
	return nil
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.components)
}
