package observability

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Target identifies the process and the OTLP/HTTP collector its telemetry
// is exported to.
type Target struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is host:port, e.g. "localhost:4318".
	Endpoint string
	Insecure bool
}

// DefaultTarget points at a local collector without TLS.
func DefaultTarget(serviceName string) Target {
	return Target{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
	}
}

func (t Target) resource() (*resource.Resource, error) {
	return resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String(AttrServiceName, t.ServiceName),
		attribute.String(AttrServiceVersion, t.ServiceVersion),
		attribute.String(AttrEnvironment, t.Environment),
	))
}
