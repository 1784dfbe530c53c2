package httpclient

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"strings"
)

// ResponseStage is one step of the response pipeline. Stages run in order
// after the response headers and body are available and before the body is
// decoded into the caller's type. A stage that does not apply must leave the
// Exchange untouched and return nil.
type ResponseStage interface {
	Process(ctx context.Context, ex *Exchange) error
}

// ResponseStageFunc adapts a function to ResponseStage.
type ResponseStageFunc func(ctx context.Context, ex *Exchange) error

// Process calls f(ctx, ex).
func (f ResponseStageFunc) Process(ctx context.Context, ex *Exchange) error {
	return f(ctx, ex)
}

// Exchange carries a single response through the pipeline.
type Exchange struct {
	// URL is the resolved request URL.
	URL string
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Target is the type the caller asked the response to be decoded into.
	// Nil means the caller did not ask for a typed value.
	Target reflect.Type

	body    io.Reader
	value   any
	decoded bool
}

// NewExchange creates an Exchange for resp, to be decoded into target.
func NewExchange(resp *Response, target reflect.Type) *Exchange {
	return &Exchange{
		URL:        resp.URL,
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Target:     target,
		body:       bytes.NewReader(resp.Body),
	}
}

// ContentType returns the declared Content-Type header, or "" if absent.
func (ex *Exchange) ContentType() string {
	if v, ok := ex.Headers["Content-Type"]; ok {
		return v
	}
	for k, v := range ex.Headers {
		if strings.EqualFold(k, "Content-Type") {
			return v
		}
	}
	return ""
}

// Body returns the raw body reader. It can be consumed once, and is nil once
// a stage has replaced the body with a decoded value.
func (ex *Exchange) Body() io.Reader {
	return ex.body
}

// Decoded reports whether a stage has already replaced the raw body.
func (ex *Exchange) Decoded() bool {
	return ex.decoded
}

// Value returns the value substituted by a stage, or nil.
func (ex *Exchange) Value() any {
	return ex.value
}

// Replace substitutes v for the raw body. Later stages see the Exchange as decoded.
func (ex *Exchange) Replace(v any) {
	ex.value = v
	ex.decoded = true
	ex.body = nil
}

// Pipeline runs stages in order over a single Exchange.
type Pipeline []ResponseStage

// Run processes ex through every stage, stopping at the first error.
func (p Pipeline) Run(ctx context.Context, ex *Exchange) error {
	for _, stage := range p {
		if err := stage.Process(ctx, ex); err != nil {
			return err
		}
	}
	return nil
}
