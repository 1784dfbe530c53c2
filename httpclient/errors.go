package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed exchange.
type Kind string

const (
	KindTimeout    Kind = "timeout"
	KindConnection Kind = "connection"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindRateLimit  Kind = "rate_limit"
	KindValidation Kind = "validation"
	KindServer     Kind = "server"
	// KindDecode marks a response whose body could not be turned into the
	// requested value, including a markup document that failed to parse.
	KindDecode Kind = "decode"
)

// Transient kinds are retried by the default policy and trip the breaker.
var transient = map[Kind]bool{
	KindTimeout:    true,
	KindConnection: true,
	KindRateLimit:  true,
	KindServer:     true,
}

// Error is returned by every adapter call that does not yield a usable
// response.
type Error struct {
	Kind Kind
	// StatusCode is zero when no response was received.
	StatusCode int
	Message    string
	Retryable  bool
	// Body holds the raw response body of an unsuccessful status.
	Body []byte
	Err  error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("httpclient: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, status int, msg string) *Error {
	return &Error{Kind: kind, StatusCode: status, Message: msg, Retryable: transient[kind]}
}

func wrapError(kind Kind, status int, err error) *Error {
	e := newError(kind, status, err.Error())
	e.Err = err
	return e
}

// NewTimeoutError wraps a deadline or client timeout.
func NewTimeoutError(err error) *Error { return wrapError(KindTimeout, 0, err) }

// NewConnectionError wraps a transport failure such as a refused dial or a
// truncated body.
func NewConnectionError(err error) *Error { return wrapError(KindConnection, 0, err) }

// NewValidationError reports a request that could not be built.
func NewValidationError(msg string) *Error { return newError(KindValidation, 0, msg) }

// NewDecodeError reports a body that could not be decoded. It is never
// retryable.
func NewDecodeError(statusCode int, err error) *Error {
	return wrapError(KindDecode, statusCode, err)
}

// ClassifyStatusCode maps an unsuccessful status to an *Error carrying body.
// It returns nil for 2xx.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	var kind Kind
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		kind = KindAuth
	case statusCode == http.StatusNotFound:
		kind = KindNotFound
	case statusCode == http.StatusTooManyRequests:
		kind = KindRateLimit
	case statusCode >= 400 && statusCode < 500:
		kind = KindValidation
	default:
		kind = KindServer
	}
	e := newError(kind, statusCode, fmt.Sprintf("HTTP %d", statusCode))
	// 1xx and 3xx that reach here are unexpected but not worth repeating.
	e.Retryable = e.Retryable && statusCode >= 400
	e.Body = body
	return e
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsTimeout(err error) bool     { return KindOf(err) == KindTimeout }
func IsConnection(err error) bool  { return KindOf(err) == KindConnection }
func IsAuth(err error) bool        { return KindOf(err) == KindAuth }
func IsNotFound(err error) bool    { return KindOf(err) == KindNotFound }
func IsRateLimit(err error) bool   { return KindOf(err) == KindRateLimit }
func IsServerError(err error) bool { return KindOf(err) == KindServer }
func IsDecode(err error) bool      { return KindOf(err) == KindDecode }

// IsRetryable reports whether err is an *Error marked retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
