// Package observability wires OpenTelemetry tracing and metrics for the
// markup pipeline.
//
// Both providers export over OTLP/HTTP to one Target:
//
//	shutdown, err := observability.Setup(ctx, observability.DefaultTarget("docfetch"), 1)
//	defer shutdown(context.Background())
//
// The transformer records a markup.transform span and the
// markup.transform.total, markup.parse.attempts and markup.parse.duration
// instruments:
//
//	metrics, err := observability.NewTransformMetrics(observability.Meter("docfetch"))
//	metrics.RecordTransform(ctx, "text/html", observability.OutcomeReplaced, 1, elapsed)
package observability
