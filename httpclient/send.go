package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/docclient/resilience"
)

// attempt makes one call through the limiter and the breaker. A 429 carrying
// Retry-After pauses the limiter until the advertised time.
func (a *Adapter) attempt(ctx context.Context, req Request) (*Response, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	send := func() (*Response, error) { return a.send(ctx, req) }
	var (
		resp *Response
		err  error
	)
	if a.breaker == nil {
		resp, err = send()
	} else {
		resp, err = resilience.Guard(a.breaker, send)
	}

	if a.limiter == nil || resp == nil || !IsRateLimit(err) {
		return resp, err
	}
	if until, ok := retryAfter(resp.Header("Retry-After"), time.Now()); ok {
		a.limiter.PauseUntil(until)
	}
	return resp, err
}

// retryAfter reads a Retry-After value in delta-seconds or HTTP-date form.
func retryAfter(v string, now time.Time) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return time.Time{}, false
		}
		return now.Add(time.Duration(secs) * time.Second), true
	}
	t, err := http.ParseTime(v)
	return t, err == nil
}

func (a *Adapter) send(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := a.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	// After redirects the response's own request holds the final URL.
	final := httpReq.URL
	if httpResp.Request != nil && httpResp.Request.URL != nil {
		final = httpResp.Request.URL
	}
	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    make(map[string]string, len(httpResp.Header)),
		Body:       body,
		URL:        final.String(),
	}
	for name, values := range httpResp.Header {
		if len(values) > 0 {
			resp.Headers[name] = values[0]
		}
	}

	if statusErr := ClassifyStatusCode(resp.StatusCode, body); statusErr != nil {
		return resp, statusErr
	}
	return resp, nil
}

func (a *Adapter) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	body, bodyType, err := requestBody(req.Body)
	if err != nil {
		return nil, NewValidationError("encode body: " + err.Error())
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, a.resolve(req.Path), body)
	if err != nil {
		return nil, NewValidationError("create request: " + err.Error())
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for name, value := range req.Query {
			q.Set(name, value)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	h := httpReq.Header
	for _, headers := range []map[string]string{a.config.Headers, req.Headers} {
		for name, value := range headers {
			h.Set(name, value)
		}
	}
	if bodyType != "" && h.Get("Content-Type") == "" {
		h.Set("Content-Type", bodyType)
	}
	if name := a.config.RequestIDHeader; name != "" && h.Get(name) == "" {
		h.Set(name, uuid.NewString())
	}

	auth := a.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)
	return httpReq, nil
}

// resolve joins a relative path onto BaseURL. Absolute URLs pass through.
func (a *Adapter) resolve(path string) string {
	if a.config.BaseURL == "" {
		return path
	}
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	return strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// requestBody encodes a Request body. Readers and byte slices are sent as
// is, strings as text/plain and anything else as JSON.
func requestBody(v any) (io.Reader, string, error) {
	switch b := v.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return b, "", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case string:
		return strings.NewReader(b), "text/plain", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}
