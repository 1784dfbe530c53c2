package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/docclient/resilience"
	"github.com/kbukum/docclient/security"
	"github.com/kbukum/docclient/validation"
)

const (
	defaultTimeout = 30 * time.Second
	defaultName    = "http"
)

// Config configures the HTTP adapter.
//
//	http:
//	  name: docs
//	  base_url: https://docs.example.com
//	  timeout: 10s
//	  headers:
//	    Accept-Language: en
//	  auth:
//	    type: bearer
//	    token: ${DOCS_TOKEN}
//	  retry:
//	    max_attempts: 3
//	  circuit_breaker:
//	    threshold: 5
//	    cooldown: 30s
//	  rate_limit:
//	    rate: 2
//	    burst: 1
type Config struct {
	// Name identifies the adapter in logs, health checks and provider registries.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to request paths that are not absolute URLs.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Timeout bounds each attempt. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// Auth is applied to every request unless the request carries its own.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`

	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are sent with every request; request headers win on conflict.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// RequestIDHeader, when set, names a header that receives a fresh UUID on
	// every request that does not already carry one.
	RequestIDHeader string `yaml:"request_id_header" mapstructure:"request_id_header"`

	// Retry re-sends requests that fail with a retryable error. Nil disables it.
	Retry *resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`

	// CircuitBreaker fails fast after consecutive retryable failures. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`

	// RateLimit paces requests and honors Retry-After on 429 responses. Nil disables it.
	RateLimit *resilience.RateLimiterConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Retry != nil && c.Retry.RetryIf == nil {
		c.Retry.RetryIf = IsRetryable
	}
	if c.CircuitBreaker != nil && c.CircuitBreaker.IsFailure == nil {
		c.CircuitBreaker.IsFailure = IsRetryable
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRetryConfig returns the resilience defaults restricted to
// retryable HTTP errors.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}

// DefaultCircuitBreakerConfig returns the resilience defaults counting only
// retryable HTTP errors as failures.
func DefaultCircuitBreakerConfig() *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig()
	cfg.IsFailure = IsRetryable
	return &cfg
}

// DefaultRateLimitConfig returns the resilience rate limiter defaults.
func DefaultRateLimitConfig() *resilience.RateLimiterConfig {
	cfg := resilience.DefaultRateLimiterConfig()
	return &cfg
}
