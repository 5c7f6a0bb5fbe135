package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/projectman/pmweb/internal/errors"
	"github.com/projectman/pmweb/pkg/dom"
	"github.com/projectman/pmweb/pkg/eventloop"
	"github.com/projectman/pmweb/pkg/middleware"
	"github.com/projectman/pmweb/pkg/vdom"
)

// maxBody bounds how much of a response is swapped into the page.
const maxBody = 4 << 20

// Response is a completed partial-update response.
type Response struct {
	Status int
	Header http.Header
	Body   string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client (default: http.DefaultClient).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTracerProvider sets the tracer provider for request spans.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *Client) {
		c.tracer = tp.Tracer("pmweb/transport")
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithCurrentURL sets the function reporting the page URL sent as
// HX-Current-URL.
func WithCurrentURL(fn func() string) ClientOption {
	return func(c *Client) {
		c.currentURL = fn
	}
}

// Client issues partial-update requests for one page.
type Client struct {
	base       *url.URL
	http       *http.Client
	bus        *Bus
	loop       *eventloop.Loop
	doc        *dom.Document
	tracer     trace.Tracer
	logger     *slog.Logger
	currentURL func() string
}

// NewClient creates a client resolving paths against baseURL. Events are
// emitted on bus from loop; a nil loop emits them inline.
func NewClient(baseURL string, bus *Bus, loop *eventloop.Loop, doc *dom.Document, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("transport: base URL: %w", err)
	}

	c := &Client{
		base:   base,
		http:   http.DefaultClient,
		bus:    bus,
		loop:   loop,
		doc:    doc,
		tracer: otel.Tracer("pmweb/transport"),
		logger: slog.Default().With("component", "transport"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get issues a GET request and swaps the response into target.
func (c *Client) Get(ctx context.Context, path string, target *vdom.VNode) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, target)
}

// Post issues a form-encoded POST request and swaps the response into
// target.
func (c *Client) Post(ctx context.Context, path string, form url.Values, target *vdom.VNode) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, form, target)
}

// Do issues a request. A 2xx body replaces the children of target (when
// non-nil) as raw HTML. Error statuses are reported through events, not
// the returned error; the error is set only when no response arrived.
func (c *Client) Do(ctx context.Context, method, path string, form url.Values, target *vdom.VNode) (*Response, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, errors.New("E140").Wrap(err)
	}
	u := c.base.ResolveReference(ref)

	ctx, span := c.tracer.Start(ctx, "transport "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", u.String()),
		),
	)
	defer span.End()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.New("E140").Wrap(err)
	}
	req.Header.Set("HX-Request", "true")
	if c.currentURL != nil {
		req.Header.Set("HX-Current-URL", c.currentURL())
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	detail := Detail{Method: method, URL: u.String(), Header: http.Header{}}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		middleware.RecordTransportError(0)
		c.logger.Debug("request failed", "method", method, "url", u.String(), "error", err)

		detail.Err = err
		c.emit(func() {
			c.bus.Emit(Event{Type: EventSendError, Detail: detail})
			c.bus.Emit(Event{Type: EventAfterRequest, Detail: detail})
		})
		return nil, errors.New("E140").WithDetail(method + " " + u.String()).Wrap(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		c.logger.Debug("reading response body", "url", u.String(), "error", err)
	}

	out := &Response{Status: resp.StatusCode, Header: resp.Header, Body: string(data)}
	detail.Status = resp.StatusCode
	detail.Header = resp.Header

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		middleware.RecordTransportError(resp.StatusCode)
	}

	c.emit(func() {
		if detail.Successful() && target != nil && c.doc != nil {
			c.doc.ReplaceChildren(target, vdom.Raw(out.Body))
		}
		if resp.StatusCode >= 400 {
			c.bus.Emit(Event{Type: EventResponseError, Detail: detail})
		}
		c.bus.Emit(Event{Type: EventAfterRequest, Detail: detail})
	})

	return out, nil
}

func (c *Client) emit(fn func()) {
	if c.loop == nil {
		fn()
		return
	}
	c.loop.Post(fn)
}
