package observability

import (
	"context"
	"errors"
)

// Setup installs both the tracer and the meter provider for target. The
// returned function flushes and stops both.
func Setup(ctx context.Context, target Target, sampleRate float64) (func(context.Context) error, error) {
	tp, err := InitTracer(ctx, &TracerConfig{Target: target, SampleRate: sampleRate})
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, &MeterConfig{Target: target})
	if err != nil {
		return nil, errors.Join(err, tp.Shutdown(ctx))
	}
	return func(ctx context.Context) error {
		return errors.Join(mp.Shutdown(ctx), tp.Shutdown(ctx))
	}, nil
}
