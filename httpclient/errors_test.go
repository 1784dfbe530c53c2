package httpclient

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"with status", ClassifyStatusCode(404, nil), "httpclient: not_found (HTTP 404): HTTP 404"},
		{"transport", NewConnectionError(errors.New("connection refused")), "httpclient: connection: connection refused"},
		{"decode", NewDecodeError(200, errors.New("unexpected EOF")), "httpclient: decode (HTTP 200): unexpected EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		code  int
		kind  Kind
		retry bool
	}{
		{200, "", false},
		{204, "", false},
		{304, KindServer, false},
		{400, KindValidation, false},
		{401, KindAuth, false},
		{403, KindAuth, false},
		{404, KindNotFound, false},
		{410, KindValidation, false},
		{429, KindRateLimit, true},
		{500, KindServer, true},
		{502, KindServer, true},
		{503, KindServer, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			e := ClassifyStatusCode(tt.code, []byte("body"))
			if tt.kind == "" {
				if e != nil {
					t.Fatalf("expected nil, got %v", e)
				}
				return
			}
			if e == nil {
				t.Fatal("expected error")
			}
			if e.Kind != tt.kind || e.Retryable != tt.retry {
				t.Errorf("got kind=%s retryable=%v, want kind=%s retryable=%v", e.Kind, e.Retryable, tt.kind, tt.retry)
			}
			if string(e.Body) != "body" {
				t.Errorf("body not kept: %q", e.Body)
			}
		})
	}
}

func TestKindPredicates(t *testing.T) {
	wrapped := fmt.Errorf("fetch: %w", ClassifyStatusCode(429, nil))

	checks := []struct {
		name string
		is   func(error) bool
		err  error
	}{
		{"timeout", IsTimeout, NewTimeoutError(errors.New("timed out"))},
		{"connection", IsConnection, NewConnectionError(errors.New("refused"))},
		{"auth", IsAuth, ClassifyStatusCode(401, nil)},
		{"not found", IsNotFound, ClassifyStatusCode(404, nil)},
		{"rate limit through wrap", IsRateLimit, wrapped},
		{"server", IsServerError, ClassifyStatusCode(500, nil)},
		{"decode", IsDecode, NewDecodeError(200, errors.New("bad"))},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if !c.is(c.err) {
				t.Errorf("predicate did not match %v", c.err)
			}
		})
	}

	if IsDecode(ClassifyStatusCode(500, nil)) {
		t.Error("server error matched IsDecode")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("plain error has a kind")
	}
}

func TestIsRetryable(t *testing.T) {
	retryable := []error{
		NewTimeoutError(errors.New("timed out")),
		NewConnectionError(errors.New("refused")),
		ClassifyStatusCode(503, nil),
	}
	for _, err := range retryable {
		if !IsRetryable(err) {
			t.Errorf("%v should be retryable", err)
		}
	}

	final := []error{
		ClassifyStatusCode(403, nil),
		NewValidationError("bad"),
		NewDecodeError(200, errors.New("bad")),
		errors.New("plain"),
	}
	for _, err := range final {
		if IsRetryable(err) {
			t.Errorf("%v should not be retryable", err)
		}
	}
}

func TestDecodeError_WrapsCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewDecodeError(200, cause)
	if !errors.Is(err, cause) {
		t.Error("decode error should wrap its cause")
	}
}
