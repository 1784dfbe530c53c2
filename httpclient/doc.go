// Package httpclient is the HTTP adapter documents are fetched through. It
// handles authentication, TLS, retry, circuit breaking and rate limiting, and
// runs a response pipeline that can replace raw bodies with decoded values.
//
// # Basic Usage
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://docs.example.com",
//	    Timeout: 30 * time.Second,
//	    Auth:    httpclient.BearerAuth(token),
//	})
//
//	resp, err := adapter.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/guide/index.html",
//	})
//
// # Response Stages
//
// Stages run in the typed helpers (Get, Post, ...) before the JSON fallback.
// The markup subpackage provides a stage that parses HTML and XML bodies:
//
//	adapter, err := httpclient.New(cfg, httpclient.WithStages(transformer))
//	page, err := httpclient.Get[markup.Document](adapter, ctx, "/index.html")
//
// # Resilience
//
// Retry, the circuit breaker and the rate limiter are each optional and
// configurable from yaml under retry, circuit_breaker and rate_limit. A 429 response carrying Retry-After pauses the rate limiter until the
// requested time.
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    BaseURL:        "https://docs.example.com",
//	    Retry:          httpclient.DefaultRetryConfig(),
//	    CircuitBreaker: httpclient.DefaultCircuitBreakerConfig(),
//	    RateLimit:      httpclient.DefaultRateLimitConfig(),
//	})
package httpclient
