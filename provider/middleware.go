package provider

import (
	"context"
	"slices"
)

// Middleware wraps a RequestResponse with cross-cutting behavior.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes mws so that the first one listed sees each call first:
// Chain(a, b)(p) is a(b(p)).
func Chain[I, O any](mws ...Middleware[I, O]) Middleware[I, O] {
	return func(p RequestResponse[I, O]) RequestResponse[I, O] {
		for _, mw := range slices.Backward(mws) {
			p = mw(p)
		}
		return p
	}
}

// wrap keeps inner's name and lifecycle and replaces its Execute with around.
func wrap[I, O any](inner RequestResponse[I, O], around func(ctx context.Context, input I, next func(context.Context, I) (O, error)) (O, error)) RequestResponse[I, O] {
	return &bound[I, O]{
		name: inner.Name(),
		base: inner,
		exec: func(ctx context.Context, input I) (O, error) {
			return around(ctx, input, inner.Execute)
		},
	}
}
