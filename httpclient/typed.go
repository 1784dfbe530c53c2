package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
)

// TypedResponse is a Response whose body has been decoded into T.
type TypedResponse[T any] struct {
	StatusCode int
	Headers    map[string]string
	// URL is the final URL after redirects.
	URL  string
	Data T
}

// Get sends a GET and decodes the body into T, giving the adapter's stages
// the first chance and falling back to JSON.
func Get[T any](a *Adapter, ctx context.Context, path string, opts ...RequestOption) (*TypedResponse[T], error) {
	return call[T](a, ctx, NewRequest(http.MethodGet, path, opts...))
}

// Post sends body as a POST. Decoding follows Get.
func Post[T any](a *Adapter, ctx context.Context, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return call[T](a, ctx, withBody(NewRequest(http.MethodPost, path, opts...), body))
}

func Put[T any](a *Adapter, ctx context.Context, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return call[T](a, ctx, withBody(NewRequest(http.MethodPut, path, opts...), body))
}

func Patch[T any](a *Adapter, ctx context.Context, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return call[T](a, ctx, withBody(NewRequest(http.MethodPatch, path, opts...), body))
}

func Delete[T any](a *Adapter, ctx context.Context, path string, opts ...RequestOption) (*TypedResponse[T], error) {
	return call[T](a, ctx, NewRequest(http.MethodDelete, path, opts...))
}

func withBody(req Request, body any) Request {
	if body != nil {
		req.Body = body
	}
	return req
}

// call runs req. An error status still yields a TypedResponse when its body
// is valid JSON for T, so callers can read structured error payloads.
func call[T any](a *Adapter, ctx context.Context, req Request) (*TypedResponse[T], error) {
	resp, err := a.Do(ctx, req)
	if err != nil {
		var data T
		if resp == nil || json.Unmarshal(resp.Body, &data) != nil {
			return nil, err
		}
		return typed(resp, data), err
	}

	data, err := DecodeResponse[T](a, ctx, resp)
	if err != nil {
		return nil, err
	}
	return typed(resp, data), nil
}

// DecodeResponse decodes resp into T by running the adapter's response
// stages, falling back to JSON when no stage replaced the body.
func DecodeResponse[T any](a *Adapter, ctx context.Context, resp *Response) (T, error) {
	var data T
	target := reflect.TypeFor[T]()

	value, replaced, err := a.Decode(ctx, resp, target)
	switch {
	case err != nil:
		return data, err
	case replaced:
		v, ok := value.(T)
		if !ok {
			return data, NewDecodeError(resp.StatusCode, fmt.Errorf("response decoded to %T, want %s", value, target))
		}
		return v, nil
	case len(resp.Body) == 0:
		return data, nil
	}
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return data, NewDecodeError(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return data, nil
}

func typed[T any](resp *Response, data T) *TypedResponse[T] {
	return &TypedResponse[T]{StatusCode: resp.StatusCode, Headers: resp.Headers, URL: resp.URL, Data: data}
}
