// Package provider defines the request/response provider abstraction used to
// expose clients behind a small generic interface.
//
// RequestResponse[I, O] is one input to one output. Providers holding
// resources optionally implement Closeable. Func turns a plain function
// into a provider.
//
// # Adapting
//
// Adapt bridges a backend provider with types [BI, BO] to a domain
// interface with types [I, O]:
//
//	docs := provider.Adapt[Request, Document, Request, *Response](
//	    adapter, "markup", passThrough, decode)
//
// # Middleware
//
// Middleware[I, O] is a function that wraps a RequestResponse provider.
// Use Chain to compose multiple middlewares:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithTracing[In, Out]("my-service"),
//	)(rawProvider)
package provider
