package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/docclient/component"
	"github.com/kbukum/docclient/resilience"
)

func TestComponent_Lifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<title>Docs</title>"))
	}))
	defer srv.Close()

	comp := NewComponent(Config{Name: "docs", BaseURL: srv.URL})
	ctx := context.Background()

	if comp.Adapter() != nil {
		t.Fatal("expected no adapter before Start")
	}
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy || h.Message != "not started" {
		t.Errorf("unexpected health before Start: %+v", h)
	}

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy || h.Name != "docs" {
		t.Errorf("unexpected health after Start: %+v", h)
	}

	resp, err := comp.Adapter().Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.ContentType() != "text/html" {
		t.Errorf("ContentType() = %q", resp.ContentType())
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestComponent_StartRejectsInvalidConfig(t *testing.T) {
	comp := NewComponent(Config{BaseURL: "::not a url"})
	if err := comp.Start(context.Background()); err == nil {
		t.Fatal("expected Start to fail")
	}
	if comp.Adapter() != nil {
		t.Error("expected no adapter after failed Start")
	}
	if err := comp.Stop(context.Background()); err != nil {
		t.Errorf("Stop() after failed Start = %v", err)
	}
}

func TestComponent_HealthFollowsBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	comp := NewComponent(Config{
		BaseURL:        srv.URL,
		CircuitBreaker: &resilience.CircuitBreakerConfig{Threshold: 1, Cooldown: time.Hour},
	})
	ctx := context.Background()
	if err := comp.Start(ctx); err != nil {
		t.Fatal(err)
	}

	_, _ = comp.Adapter().Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy || h.Message != "circuit open" {
		t.Errorf("unexpected health with open breaker: %+v", h)
	}
}

func TestComponent_Name(t *testing.T) {
	if got := NewComponent(Config{}).Name(); got != "http" {
		t.Errorf("default name = %q", got)
	}
	if got := NewComponent(Config{Name: "feeds"}).Name(); got != "feeds" {
		t.Errorf("name = %q", got)
	}
}

func TestComponent_Describe(t *testing.T) {
	plain := NewComponent(Config{Name: "docs", BaseURL: "https://docs.example.com"}).Describe()
	if plain.Type != "http-adapter" || plain.Details != "https://docs.example.com" {
		t.Errorf("unexpected description: %+v", plain)
	}

	full := NewComponent(Config{
		Auth:           BearerAuth("tok"),
		Retry:          &resilience.RetryConfig{MaxAttempts: 3},
		CircuitBreaker: &resilience.CircuitBreakerConfig{Threshold: 5, Cooldown: 30 * time.Second},
		RateLimit:      &resilience.RateLimiterConfig{Rate: 2, Burst: 1},
	}).Describe()
	want := "(no base url) auth=bearer retry=3 breaker=5/30s rate=2/s"
	if full.Details != want {
		t.Errorf("Details = %q, want %q", full.Details, want)
	}
	if strings.Contains(full.Details, "tok") {
		t.Error("description must not leak credentials")
	}
}
