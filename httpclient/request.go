package httpclient

import "net/http"

// Request is one outbound call. Path is joined to Config.BaseURL unless it
// is an absolute URL.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Query   map[string]string
	// Body is sent as is for io.Reader, []byte and string; other values are
	// JSON-encoded.
	Body any
	// Auth replaces the adapter's auth for this request only.
	Auth *AuthConfig
}

// RequestOption adjusts a Request before it is sent.
type RequestOption func(*Request)

// NewRequest builds a request and applies opts in order.
func NewRequest(method, path string, opts ...RequestOption) Request {
	req := Request{Method: method, Path: path}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// WithHeader sets a request header, replacing an adapter default of the
// same name.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithQueryParam sets a query parameter.
func WithQueryParam(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(map[string]string)
		}
		r.Query[key] = value
	}
}

// WithRequestAuth overrides authentication for the request.
func WithRequestAuth(auth *AuthConfig) RequestOption {
	return func(r *Request) { r.Auth = auth }
}

// Response is a completed exchange with its body fully read. For a non-2xx
// status Do returns it together with an *Error.
type Response struct {
	StatusCode int
	// Headers holds the first value of each header under its canonical name.
	Headers map[string]string
	Body    []byte
	// URL is the final URL after redirects, including the query string.
	URL string
}

// Header returns the named header, "" when absent.
func (r *Response) Header(name string) string {
	return r.Headers[http.CanonicalHeaderKey(name)]
}

// ContentType returns the declared Content-Type header, "" when absent.
func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}
