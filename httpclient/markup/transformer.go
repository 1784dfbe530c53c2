package markup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/kbukum/docclient/httpclient"
	"github.com/kbukum/docclient/logger"
	"github.com/kbukum/docclient/observability"
	"github.com/kbukum/docclient/resilience"
)

// Retry defaults. An exhausted transformation runs DefaultMaxAttempts parser
// calls and waits DefaultRetryDelay after each of them.
const (
	DefaultMaxAttempts = 20
	DefaultRetryDelay  = 5 * time.Millisecond
)

var documentType = reflect.TypeFor[Document]()

// Meta is the part of a response the transformer looks at besides the body.
type Meta struct {
	// ContentType is the declared Content-Type header value.
	ContentType string
	// URL is the resolved request URL, used as the document base URL.
	URL string
	// StatusCode is carried into decode errors.
	StatusCode int
}

// Outcome is the result of a transformation. When Replaced is false the body
// was left untouched and Document is nil.
type Outcome struct {
	Replaced bool
	Document Document
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithRegistry sets the registry used to select parsers.
func WithRegistry(r *Registry) Option {
	return func(t *Transformer) {
		if r != nil {
			t.registry = r
		}
	}
}

// WithRetry sets the number of parse attempts and the fixed delay waited
// after each failed attempt.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(t *Transformer) {
		if attempts > 0 {
			t.retry.MaxAttempts = attempts
		}
		if delay > 0 {
			t.retry.InitialBackoff = delay
			t.retry.MaxBackoff = delay
		}
	}
}

// WithMaxConcurrentParses caps concurrent parser invocations across all
// transformations sharing the Transformer. maxWait bounds how long an attempt
// waits for a slot; a zero maxWait fails the attempt immediately when full.
func WithMaxConcurrentParses(n int, maxWait time.Duration) Option {
	return func(t *Transformer) {
		if n <= 0 {
			return
		}
		t.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          "markup-parse",
			MaxConcurrent: n,
			MaxWait:       maxWait,
		})
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(t *Transformer) {
		if l != nil {
			t.log = l
		}
	}
}

// WithMetrics records every transformation on m.
func WithMetrics(m *observability.TransformMetrics) Option {
	return func(t *Transformer) {
		t.metrics = m
	}
}

// Transformer turns raw HTML and XML response bodies into Documents.
// It is immutable after construction and safe for concurrent use.
type Transformer struct {
	registry *Registry
	retry    resilience.RetryConfig
	bulkhead *resilience.Bulkhead
	log      *logger.Logger
	metrics  *observability.TransformMetrics
}

var _ httpclient.ResponseStage = (*Transformer)(nil)

// NewTransformer creates a Transformer using DefaultRegistry and the default
// retry policy unless overridden by opts.
func NewTransformer(opts ...Option) *Transformer {
	t := &Transformer{
		registry: DefaultRegistry(),
		retry:    resilience.FixedRetryConfig(DefaultMaxAttempts, DefaultRetryDelay),
		log:      logger.Get("markup"),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.retry.WaitAfterLastAttempt = true
	return t
}

// Registry returns the registry the transformer selects parsers from.
func (t *Transformer) Registry() *Registry {
	return t.registry
}

// MaxAttempts returns the number of parser calls made before giving up.
func (t *Transformer) MaxAttempts() int {
	return t.retry.MaxAttempts
}

// RetryDelay returns the wait after each failed parser call.
func (t *Transformer) RetryDelay() time.Duration {
	return t.retry.InitialBackoff
}

// Accepts reports whether a value of type target can hold a Document: either
// Document is assignable to it (Document, any) or it is a concrete Document
// implementation such as *HTMLDocument.
func Accepts(target reflect.Type) bool {
	if target == nil {
		return false
	}
	return documentType.AssignableTo(target) || target.Implements(documentType)
}

// Process implements httpclient.ResponseStage. It replaces the raw body with
// a Document when the response qualifies and is a no-op otherwise.
func (t *Transformer) Process(ctx context.Context, ex *httpclient.Exchange) error {
	if ex.Decoded() {
		return nil
	}
	meta := Meta{
		ContentType: ex.ContentType(),
		URL:         ex.URL,
		StatusCode:  ex.StatusCode,
	}
	out, err := t.Transform(ctx, meta, ex.Body(), ex.Target)
	if err != nil {
		return err
	}
	if out.Replaced {
		ex.Replace(out.Document)
	}
	return nil
}

// Transform parses body into a Document when target accepts a Document and
// meta.ContentType matches a registry key. Otherwise it returns an unchanged
// Outcome without reading body. Parse failures are retried; once attempts are
// exhausted the last parser error is returned as an httpclient decode error.
func (t *Transformer) Transform(ctx context.Context, meta Meta, body io.Reader, target reflect.Type) (Outcome, error) {
	if !Accepts(target) || body == nil {
		return Outcome{}, nil
	}
	declared, params, ok := t.match(meta.ContentType)
	if !ok {
		t.metrics.RecordTransform(ctx, mediaTypeLabel(meta.ContentType), observability.OutcomeUnchanged, 0, 0)
		return Outcome{}, nil
	}
	parser, key, _ := t.registry.Lookup(declared)

	ctx, span := observability.StartSpan(ctx, observability.SpanMarkupTransform)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrMediaType, declared.String())
	observability.SetSpanAttribute(ctx, observability.AttrURL, meta.URL)

	start := time.Now()
	log := t.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldMediaType, declared.String(),
		logger.FieldURL, meta.URL,
	))

	text, err := readText(body, params["charset"], log)
	if err != nil {
		t.fail(ctx, declared, 0, start, err)
		return Outcome{}, fmt.Errorf("markup: read body: %w", err)
	}

	attempts := 0
	doc, err := resilience.Retry(ctx, t.retry, func() (Document, error) {
		attempts++
		doc, err := t.parse(ctx, parser, text, meta.URL)
		if err != nil {
			log.Debug("parse attempt failed", logger.Fields(
				logger.FieldAttempt, attempts,
				logger.FieldParser, key.String(),
				logger.FieldError, err.Error(),
			))
		}
		return doc, err
	})
	observability.SetSpanAttribute(ctx, observability.AttrAttempts, attempts)

	if err != nil {
		t.fail(ctx, declared, attempts, start, err)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return Outcome{}, ctxErr
		}
		log.Warn("giving up on response body", logger.Fields(
			logger.FieldAttempt, attempts,
			logger.FieldError, err.Error(),
		))
		return Outcome{}, httpclient.NewDecodeError(meta.StatusCode,
			fmt.Errorf("markup: parse %s after %d attempts: %w", declared, attempts, err))
	}

	if mt, ok := doc.(mediaTyper); ok {
		mt.setMediaType(declared)
	}
	observability.SetSpanAttribute(ctx, observability.AttrOutcome, observability.OutcomeReplaced)
	t.metrics.RecordTransform(ctx, declared.String(), observability.OutcomeReplaced, attempts, time.Since(start))
	return Outcome{Replaced: true, Document: doc}, nil
}

// match resolves the declared content type against the registry. Missing or
// malformed headers never match.
func (t *Transformer) match(contentType string) (MediaType, map[string]string, bool) {
	if strings.TrimSpace(contentType) == "" {
		return MediaType{}, nil, false
	}
	declared, params, err := parseContentType(contentType)
	if err != nil {
		return MediaType{}, nil, false
	}
	if _, _, ok := t.registry.Lookup(declared); !ok {
		return MediaType{}, nil, false
	}
	return declared, params, true
}

// parse runs one parser attempt, inside the bulkhead when one is configured.
func (t *Transformer) parse(ctx context.Context, p Parser, text, baseURL string) (Document, error) {
	call := func() (Document, error) {
		doc, err := p.Parse(text, baseURL)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, errors.New("markup: parser returned no document")
		}
		return doc, nil
	}
	if t.bulkhead == nil {
		return call()
	}
	return resilience.ExecuteWithResult(t.bulkhead, ctx, call)
}

func (t *Transformer) fail(ctx context.Context, declared MediaType, attempts int, start time.Time, err error) {
	observability.SetSpanError(ctx, err)
	observability.SetSpanAttribute(ctx, observability.AttrOutcome, observability.OutcomeFailed)
	t.metrics.RecordTransform(ctx, declared.String(), observability.OutcomeFailed, attempts, time.Since(start))
}

// readText reads the whole body, converting it to UTF-8 when the response
// declares another charset.
func readText(body io.Reader, label string, log *logger.Logger) (string, error) {
	if label != "" && !strings.EqualFold(label, "utf-8") && !strings.EqualFold(label, "utf8") {
		decoded, err := charset.NewReaderLabel(label, body)
		if err == nil {
			body = decoded
		} else {
			log.Debug("unknown charset, reading body as utf-8", logger.Fields("charset", label))
		}
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func mediaTypeLabel(contentType string) string {
	mt, err := ParseMediaType(contentType)
	if err != nil {
		return "unknown"
	}
	return mt.String()
}
