package nav

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/projectman/pmweb/internal/errors"
	"github.com/projectman/pmweb/pkg/middleware"
)

// AppConfig is the document served by the configuration endpoint.
type AppConfig struct {
	Name     string   `json:"name"`
	Hub      bool     `json:"hub"`
	Projects []string `json:"projects"`
}

// Fetcher retrieves the AppConfig.
type Fetcher interface {
	FetchConfig(ctx context.Context) (AppConfig, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (AppConfig, error)

// FetchConfig implements Fetcher.
func (f FetcherFunc) FetchConfig(ctx context.Context) (AppConfig, error) { return f(ctx) }

// HTTPFetcher fetches the AppConfig over HTTP.
type HTTPFetcher struct {
	url    string
	client *http.Client
	tracer trace.Tracer
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient sets the HTTP client (default: http.DefaultClient).
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

// WithTracerProvider sets the tracer provider for fetch spans.
func WithTracerProvider(tp trace.TracerProvider) FetcherOption {
	return func(f *HTTPFetcher) {
		f.tracer = tp.Tracer("pmweb/nav")
	}
}

// NewHTTPFetcher returns a fetcher for endpoint resolved against baseURL.
func NewHTTPFetcher(baseURL, endpoint string, opts ...FetcherOption) (*HTTPFetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("nav: base URL: %w", err)
	}
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("nav: endpoint: %w", err)
	}

	f := &HTTPFetcher{
		url:    base.ResolveReference(ref).String(),
		client: http.DefaultClient,
		tracer: otel.Tracer("pmweb/nav"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// URL returns the resolved endpoint URL.
func (f *HTTPFetcher) URL() string {
	return f.url
}

// FetchConfig issues one GET. Unreachable endpoints and non-2xx statuses
// return E130; bodies that are not an AppConfig return E131.
func (f *HTTPFetcher) FetchConfig(ctx context.Context) (cfg AppConfig, err error) {
	ctx, span := f.tracer.Start(ctx, "nav.fetch_config",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", f.url)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		middleware.RecordConfigFetch(middleware.FetchNetwork)
		return cfg, errors.New("E130").Wrap(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		middleware.RecordConfigFetch(middleware.FetchNetwork)
		return cfg, errors.New("E130").WithDetail(f.url).Wrap(err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		middleware.RecordConfigFetch(middleware.FetchBadStatus)
		return cfg, errors.New("E130").WithDetail(fmt.Sprintf("%s returned %s", f.url, resp.Status))
	}

	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		middleware.RecordConfigFetch(middleware.FetchInvalidJSON)
		return AppConfig{}, errors.New("E131").WithDetail(f.url).Wrap(err)
	}

	middleware.RecordConfigFetch(middleware.FetchOK)
	return cfg, nil
}
