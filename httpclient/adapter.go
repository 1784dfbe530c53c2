package httpclient

import (
	"context"
	"net/http"
	"reflect"

	"github.com/kbukum/docclient/provider"
	"github.com/kbukum/docclient/resilience"
)

// Adapter sends requests against one configured service. Every attempt
// passes the rate limiter and the circuit breaker; Do retries per
// Config.Retry. Decode hands a finished response to the stage pipeline.
type Adapter struct {
	httpClient *http.Client
	config     Config
	breaker    *resilience.CircuitBreaker
	limiter    *resilience.RateLimiter
	stages     Pipeline
}

// Option configures an Adapter at construction time.
type Option func(*Adapter)

// WithStages appends response stages to the adapter pipeline. Stages run in
// the order given, after any stages added by earlier options.
func WithStages(stages ...ResponseStage) Option {
	return func(a *Adapter) {
		a.stages = append(a.stages, stages...)
	}
}

// WithTransport replaces the adapter's HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(a *Adapter) {
		a.httpClient.Transport = rt
	}
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Build on a nil *TLSConfig yields nil, keeping the default verification.
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsCfg

	a := &Adapter{
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		config:     cfg,
	}

	if cfg.CircuitBreaker != nil {
		a.breaker = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	if cfg.RateLimit != nil {
		a.limiter = resilience.NewRateLimiter(*cfg.RateLimit)
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Do sends req and returns the buffered response. On a non-2xx status the
// response is returned together with an *Error classifying it.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	attempt := func() (*Response, error) { return a.attempt(ctx, req) }
	if a.config.Retry == nil {
		return attempt()
	}
	return resilience.Retry(ctx, *a.config.Retry, attempt)
}

// Decode runs the response pipeline for resp and returns the value produced
// by a stage, or ok=false when no stage replaced the raw body.
func (a *Adapter) Decode(ctx context.Context, resp *Response, target reflect.Type) (value any, ok bool, err error) {
	ex := NewExchange(resp, target)
	if err := a.stages.Run(ctx, ex); err != nil {
		return nil, false, err
	}
	return ex.Value(), ex.Decoded(), nil
}

// Stages returns the adapter's response pipeline.
func (a *Adapter) Stages() Pipeline {
	return a.stages
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (a *Adapter) Unwrap() *http.Client {
	return a.httpClient
}

var (
	_ provider.RequestResponse[Request, *Response] = (*Adapter)(nil)
	_ provider.Closeable                           = (*Adapter)(nil)
)

// Name returns Config.Name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// IsAvailable is false while the circuit breaker is open.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	return a.breaker == nil || a.breaker.State() != resilience.StateOpen
}

// Execute is Do under the provider interface.
func (a *Adapter) Execute(ctx context.Context, req Request) (*Response, error) {
	return a.Do(ctx, req)
}

// Close drops idle keep-alive connections.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// GetConfig returns the adapter's configuration.
func (a *Adapter) GetConfig() Config {
	return a.config
}
