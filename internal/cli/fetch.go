package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kbukum/docclient/component"
	"github.com/kbukum/docclient/httpclient"
	"github.com/kbukum/docclient/httpclient/markup"
	"github.com/kbukum/docclient/logger"
	"github.com/kbukum/docclient/observability"
	"github.com/kbukum/docclient/provider"
	"github.com/kbukum/docclient/version"
)

func runFetch(cmd *cobra.Command, target string, o *fetchOptions) error {
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	logger.Init(&cfg.Logging)
	log := logger.Get(serviceName)

	ctx := logger.ContextWithRequestID(cmd.Context(), uuid.NewString())

	shutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown()

	metrics, err := observability.NewTransformMetrics(observability.Meter(serviceName))
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}
	transformer, err := markup.NewFromConfig(cfg.Markup,
		markup.WithLogger(logger.Get("markup")),
		markup.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	registry := component.NewRegistry()
	client := httpclient.NewComponent(cfg.HTTP, httpclient.WithStages(transformer))
	if err := registry.Register(client); err != nil {
		return err
	}
	if err := registry.StartAll(ctx); err != nil {
		return err
	}
	defer func() {
		if err := registry.StopAll(context.Background()); err != nil {
			log.Warn("shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()
	if o.verbose {
		describe(cmd.ErrOrStderr(), registry, transformer)
	}

	reqOpts, err := requestOptions(o)
	if err != nil {
		return err
	}
	path, err := requestPath(target, cfg.HTTP.BaseURL)
	if err != nil {
		return err
	}

	fetcher := provider.Chain(
		provider.WithTracing[httpclient.Request, markup.Document](serviceName),
		provider.WithLogging[httpclient.Request, markup.Document](log),
	)(markup.NewProvider(client.Adapter(), nil))

	log.WithContext(ctx).Debug("fetching document", logger.Fields(logger.FieldURL, path))
	doc, err := fetcher.Execute(ctx, httpclient.NewRequest(http.MethodGet, path, reqOpts...))
	if o.verbose {
		reportHealth(cmd.ErrOrStderr(), registry.HealthAll(ctx))
	}
	if err != nil {
		return fmt.Errorf("fetch %s: %w", target, err)
	}
	return render(cmd.OutOrStdout(), doc, query{
		selector: o.selector,
		xpath:    o.xpath,
		attr:     o.attr,
	})
}

// requestPath returns the path handed to the adapter. Absolute URLs are used
// as is; anything else is relative to http.base_url, or gets an https scheme
// when no base URL is configured.
func requestPath(target, baseURL string) (string, error) {
	if target == "" {
		return "", errors.New("empty URL")
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		if _, err := url.Parse(target); err != nil {
			return "", fmt.Errorf("invalid URL %q: %w", target, err)
		}
		return target, nil
	}
	if baseURL != "" {
		return target, nil
	}
	return "https://" + target, nil
}

func requestOptions(o *fetchOptions) ([]httpclient.RequestOption, error) {
	opts := make([]httpclient.RequestOption, 0, len(o.headers)+1)
	if o.accept != "" {
		opts = append(opts, httpclient.WithHeader("Accept", o.accept))
	}
	for _, h := range o.headers {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, want 'Name: value'", h)
		}
		opts = append(opts, httpclient.WithHeader(name, strings.TrimSpace(value)))
	}
	return opts, nil
}

// initTelemetry installs OTLP trace and metric providers when enabled. The
// returned function flushes and stops them.
func initTelemetry(ctx context.Context, cfg *FetchConfig) (func(), error) {
	if !cfg.Telemetry.Enabled {
		return func() {}, nil
	}
	shutdown, err := observability.Setup(ctx, observability.Target{
		ServiceName:    cfg.Name,
		ServiceVersion: version.GetShortVersion(),
		Environment:    cfg.Environment,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
	}, cfg.Telemetry.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	return func() {
		// The command context may already be cancelled.
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}, nil
}

func describe(w io.Writer, registry *component.Registry, t *markup.Transformer) {
	for _, c := range registry.All() {
		d, ok := c.(component.Describable)
		if !ok {
			continue
		}
		desc := d.Describe()
		fmt.Fprintf(w, "%-12s %-14s %s\n", desc.Name, desc.Type, desc.Details)
	}
	keys := make([]string, 0, t.Registry().Len())
	for _, k := range t.Registry().Keys() {
		keys = append(keys, k.String())
	}
	fmt.Fprintf(w, "%-12s %-14s %s (attempts=%d delay=%s)\n",
		"markup", "transformer", strings.Join(keys, ","), t.MaxAttempts(), t.RetryDelay())
}

func reportHealth(w io.Writer, hs []component.Health) {
	for _, h := range hs {
		line := fmt.Sprintf("%-12s %s", h.Name, h.Status)
		if h.Message != "" {
			line += ": " + h.Message
		}
		fmt.Fprintln(w, line)
	}
}
