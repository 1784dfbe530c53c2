package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/docclient/logger"
)

// MeterConfig configures metric export.
type MeterConfig struct {
	Target
	// Interval between exports. Zero uses the SDK default of one minute.
	Interval time.Duration
}

// DefaultMeterConfig exports every 15s to a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{Target: DefaultTarget(serviceName), Interval: 15 * time.Second}
}

// InitMeter installs a periodic OTLP/HTTP meter provider as the process
// global. The caller shuts the provider down.
func InitMeter(ctx context.Context, cfg *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}
	res, err := cfg.resource()
	if err != nil {
		return nil, fmt.Errorf("metric resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Debug("metrics enabled", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Transform outcomes.
const (
	OutcomeReplaced  = "replaced"
	OutcomeUnchanged = "unchanged"
	OutcomeFailed    = "failed"
)

// TransformMetrics holds instruments for response body transformations.
// A nil *TransformMetrics records nothing.
type TransformMetrics struct {
	transforms metric.Int64Counter
	attempts   metric.Int64Histogram
	duration   metric.Float64Histogram
}

// NewTransformMetrics creates transformation instruments on the given meter.
func NewTransformMetrics(meter metric.Meter) (*TransformMetrics, error) {
	transforms, err := meter.Int64Counter("markup.transform.total",
		metric.WithDescription("Response transformations by media type and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markup.transform.total counter: %w", err)
	}

	attempts, err := meter.Int64Histogram("markup.parse.attempts",
		metric.WithDescription("Parser invocations per transformation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markup.parse.attempts histogram: %w", err)
	}

	duration, err := meter.Float64Histogram("markup.parse.duration",
		metric.WithDescription("Duration of transformations including retry waits"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markup.parse.duration histogram: %w", err)
	}

	return &TransformMetrics{
		transforms: transforms,
		attempts:   attempts,
		duration:   duration,
	}, nil
}

// RecordTransform records one transformation. attempts and duration are only
// recorded when a parser ran.
func (m *TransformMetrics) RecordTransform(ctx context.Context, mediaType, outcome string, attempts int, duration time.Duration) {
	if m == nil {
		return
	}
	m.transforms.Add(ctx, 1, metric.WithAttributes(
		attribute.String("media_type", mediaType),
		attribute.String("outcome", outcome),
	))
	if attempts == 0 {
		return
	}
	attrs := metric.WithAttributes(attribute.String("media_type", mediaType))
	m.attempts.Record(ctx, int64(attempts), attrs)
	m.duration.Record(ctx, duration.Seconds(), attrs)
}
