package httpclient

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func newAuthRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://docs.example.com/feed.xml?lang=en", nil)
	if err != nil {
		t.Fatal(err)
	}
	return req
}

func TestAuth_Apply(t *testing.T) {
	tests := []struct {
		name  string
		auth  *AuthConfig
		check func(t *testing.T, req *http.Request)
	}{
		{
			name: "bearer",
			auth: BearerAuth("tok"),
			check: func(t *testing.T, req *http.Request) {
				if got := req.Header.Get("Authorization"); got != "Bearer tok" {
					t.Errorf("Authorization = %q", got)
				}
			},
		},
		{
			name: "basic",
			auth: BasicAuth("reader", "s3cret"),
			check: func(t *testing.T, req *http.Request) {
				u, p, ok := req.BasicAuth()
				if !ok || u != "reader" || p != "s3cret" {
					t.Errorf("basic auth = %q/%q (%v)", u, p, ok)
				}
			},
		},
		{
			name: "api key default header",
			auth: APIKeyAuth("k1"),
			check: func(t *testing.T, req *http.Request) {
				if got := req.Header.Get("X-API-Key"); got != "k1" {
					t.Errorf("X-API-Key = %q", got)
				}
			},
		},
		{
			name: "api key from file without name",
			auth: &AuthConfig{Type: AuthAPIKey, Key: "k2"},
			check: func(t *testing.T, req *http.Request) {
				if got := req.Header.Get("X-API-Key"); got != "k2" {
					t.Errorf("X-API-Key = %q", got)
				}
			},
		},
		{
			name: "api key custom header",
			auth: APIKeyAuthHeader("k3", "X-Feed-Token"),
			check: func(t *testing.T, req *http.Request) {
				if got := req.Header.Get("X-Feed-Token"); got != "k3" {
					t.Errorf("X-Feed-Token = %q", got)
				}
			},
		},
		{
			name: "api key query keeps existing params",
			auth: APIKeyAuthQuery("k4", "key"),
			check: func(t *testing.T, req *http.Request) {
				q := req.URL.Query()
				if q.Get("key") != "k4" || q.Get("lang") != "en" {
					t.Errorf("query = %q", req.URL.RawQuery)
				}
			},
		},
		{
			name: "custom",
			auth: CustomAuth(func(r *http.Request) { r.Header.Set("X-Signed", "yes") }),
			check: func(t *testing.T, req *http.Request) {
				if got := req.Header.Get("X-Signed"); got != "yes" {
					t.Errorf("X-Signed = %q", got)
				}
			},
		},
		{
			name: "none",
			auth: &AuthConfig{},
			check: func(t *testing.T, req *http.Request) {
				if len(req.Header) != 0 {
					t.Errorf("expected no headers, got %v", req.Header)
				}
			},
		},
		{
			name: "nil",
			auth: nil,
			check: func(t *testing.T, req *http.Request) {
				if len(req.Header) != 0 {
					t.Errorf("expected no headers, got %v", req.Header)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newAuthRequest(t)
			tt.auth.apply(req)
			tt.check(t, req)
		})
	}
}

func TestAuth_ValidateThroughConfig(t *testing.T) {
	tests := []struct {
		name    string
		auth    *AuthConfig
		wantErr string
	}{
		{"bearer without token", &AuthConfig{Type: AuthBearer}, "auth.token"},
		{"basic without username", &AuthConfig{Type: AuthBasic}, "auth.username"},
		{"api key without key", &AuthConfig{Type: AuthAPIKey}, "auth.key"},
		{"bad placement", &AuthConfig{Type: AuthAPIKey, Key: "k", In: "cookie"}, "auth.in"},
		{"unknown type", &AuthConfig{Type: "digest"}, "auth.type"},
		{"custom without func", &AuthConfig{Type: AuthCustom}, "Apply function"},
		{"valid", BearerAuth("tok"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Timeout: time.Second, Auth: tt.auth}
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}
