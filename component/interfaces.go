package component

import "context"

// HealthStatus is the coarse state reported by Health.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is a component's self-reported state.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of a command, such as the HTTP
// adapter documents are fetched through. Name must be unique within a
// Registry.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	// Stop releases resources. ctx carries the registry's stop timeout.
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is the line printed for a component in verbose mode.
type Description struct {
	// Name defaults to the component's Name when empty.
	Name    string
	Type    string
	Details string
}

// Describable is implemented by components that can summarize their
// configuration.
type Describable interface {
	Describe() Description
}
