package provider

import (
	"context"
	"time"

	"github.com/kbukum/docclient/logger"
)

// FieldProvider is the log field carrying the provider name.
const FieldProvider = "provider"

// WithLogging logs each call with its duration, at debug on success and at
// warn with the error on failure.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return wrap(inner, func(ctx context.Context, input I, next func(context.Context, I) (O, error)) (O, error) {
			start := time.Now()
			out, err := next(ctx, input)

			fields := logger.MergeWithDuration(logger.Fields(FieldProvider, inner.Name()), time.Since(start))
			if err != nil {
				log.WithContext(ctx).Warn("provider call failed", logger.MergeWithError(fields, err))
				return out, err
			}
			log.WithContext(ctx).Debug("provider call done", fields)
			return out, nil
		})
	}
}
