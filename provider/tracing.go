package provider

import (
	"context"

	"github.com/kbukum/docclient/observability"
)

// AttrProviderName is the span attribute carrying the provider name.
const AttrProviderName = "provider.name"

// WithTracing opens a span named "<service>.<provider>" for every call and
// marks it failed when the call returns an error.
func WithTracing[I, O any](serviceName string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		spanName := serviceName + "." + inner.Name()
		return wrap(inner, func(ctx context.Context, input I, next func(context.Context, I) (O, error)) (O, error) {
			ctx, span := observability.StartSpan(ctx, spanName)
			defer span.End()
			observability.SetSpanAttribute(ctx, observability.AttrServiceName, serviceName)
			observability.SetSpanAttribute(ctx, AttrProviderName, inner.Name())

			out, err := next(ctx, input)
			if err != nil {
				observability.SetSpanError(ctx, err)
			}
			return out, err
		})
	}
}
