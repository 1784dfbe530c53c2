// Package resilience holds the failure-handling primitives used by the HTTP
// adapter and the markup transformer.
//
//   - Retry runs an operation until it succeeds, with exponential or fixed
//     (FixedRetryConfig) delays between attempts.
//   - CircuitBreaker fails fast after a run of consecutive failures.
//   - Bulkhead caps concurrent calls.
//   - RateLimiter paces calls and honors server-requested pauses.
//
// The adapter composes them per request as rate limiter, then breaker, then
// the call itself, with Retry wrapped around the whole sequence:
//
//	resp, err := resilience.Retry(ctx, retryCfg, func() (*Response, error) {
//	    if err := rl.Wait(ctx); err != nil {
//	        return nil, err
//	    }
//	    return resilience.Guard(cb, send)
//	})
package resilience
