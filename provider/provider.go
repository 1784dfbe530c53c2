package provider

import "context"

// Provider is a named unit of work that can report whether it is ready.
type Provider interface {
	Name() string
	// IsAvailable is false while the provider cannot serve calls, for example
	// while an HTTP adapter's circuit breaker is open.
	IsAvailable(ctx context.Context) bool
}

// RequestResponse maps one input to one output, such as a request to the
// document it fetched.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Closeable is implemented by providers holding resources such as idle
// connections.
type Closeable interface {
	Close(ctx context.Context) error
}

// Close closes p if it is Closeable.
func Close(ctx context.Context, p Provider) error {
	if c, ok := p.(Closeable); ok {
		return c.Close(ctx)
	}
	return nil
}
