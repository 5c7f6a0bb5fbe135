// Package page assembles the browser-side runtime of a ProjectMan page.
//
// A Page owns one document, one event loop and the three components that
// coordinate over them: the theme preference, the toast queue and the
// navigation composer. Load runs the page-load sequence; the other methods
// drive the page the way user actions and server responses would.
//
//	p, err := page.New(cfg, "http://127.0.0.1:8000/?project=alpha")
//	if err != nil {
//	    return err
//	}
//	p.Load(ctx)
//	html, _ := p.HTML()
//
// A Page drains its loop itself after each operation and is not safe for
// concurrent use, except for Listen, which only posts to the loop.
package page

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/projectman/pmweb/internal/config"
	"github.com/projectman/pmweb/pkg/dom"
	"github.com/projectman/pmweb/pkg/eventloop"
	"github.com/projectman/pmweb/pkg/nav"
	"github.com/projectman/pmweb/pkg/pref"
	"github.com/projectman/pmweb/pkg/render"
	"github.com/projectman/pmweb/pkg/theme"
	"github.com/projectman/pmweb/pkg/toast"
	"github.com/projectman/pmweb/pkg/transport"
)

// TriggerPath is the server's websocket trigger endpoint.
const TriggerPath = "/ws/triggers"

// Option configures a Page.
type Option func(*options)

type options struct {
	clock          eventloop.Clock
	store          pref.Store
	scheme         theme.ColorScheme
	httpClient     *http.Client
	tracerProvider trace.TracerProvider
	logger         *slog.Logger
	pretty         bool
}

// WithClock sets the clock toast timers run on (default: real time).
func WithClock(c eventloop.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithStore sets the preference store. Default: the store selected by
// the config's client.storage section.
func WithStore(s pref.Store) Option {
	return func(o *options) { o.store = s }
}

// WithColorScheme sets the system color scheme consulted when no theme is
// saved.
func WithColorScheme(s theme.ColorScheme) Option {
	return func(o *options) { o.scheme = s }
}

// WithHTTPClient sets the client used for the config fetch and for
// partial-update requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTracerProvider sets the tracer provider for client spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPrettyHTML makes HTML indent its output.
func WithPrettyHTML() Option {
	return func(o *options) { o.pretty = true }
}

// Page is one loaded ProjectMan page.
type Page struct {
	cfg      *config.Config
	base     *url.URL
	loop     *eventloop.Loop
	doc      *dom.Document
	location *nav.MemoryLocation
	bus      *transport.Bus
	client   *transport.Client
	theme    *theme.Preference
	toasts   *toast.Queue
	composer *nav.Composer
	renderer *render.Renderer
	logger   *slog.Logger
	loaded   nav.Result
}

// New builds a page at pageURL. The server base is pageURL's scheme and
// host.
func New(cfg *config.Config, pageURL string, opts ...Option) (*Page, error) {
	o := options{
		httpClient:     http.DefaultClient,
		tracerProvider: otel.GetTracerProvider(),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	location, err := nav.NewMemoryLocation(pageURL)
	if err != nil {
		return nil, fmt.Errorf("page: url: %w", err)
	}
	u := location.URL()
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("page: url %q must be absolute", pageURL)
	}
	base := &url.URL{Scheme: u.Scheme, Host: u.Host}

	if o.store == nil {
		if o.store, err = pref.Open(context.Background(), cfg); err != nil {
			return nil, err
		}
	}

	p := &Page{
		cfg:      cfg,
		base:     base,
		location: location,
		bus:      transport.NewBus(),
		renderer: render.NewRenderer(render.RendererConfig{Pretty: o.pretty}),
		logger:   o.logger.With("component", "page"),
	}
	p.loop = eventloop.New(o.clock, eventloop.WithLogger(o.logger.With("component", "eventloop")))
	p.doc = dom.NewPage(dom.DefaultBrand)

	p.client, err = transport.NewClient(base.String(), p.bus, p.loop, p.doc,
		transport.WithHTTPClient(o.httpClient),
		transport.WithTracerProvider(o.tracerProvider),
		transport.WithLogger(o.logger.With("component", "transport")),
		transport.WithCurrentURL(func() string { return p.location.URL().String() }),
	)
	if err != nil {
		return nil, err
	}

	fetcher, err := nav.NewHTTPFetcher(base.String(), cfg.Client.ConfigEndpoint,
		nav.WithHTTPClient(o.httpClient),
		nav.WithTracerProvider(o.tracerProvider),
	)
	if err != nil {
		return nil, err
	}

	p.theme = theme.New(p.doc, o.store, o.scheme, theme.WithLogger(o.logger.With("component", "theme")))
	p.toasts = toast.NewQueue(p.doc, p.loop,
		toast.WithTiming(cfg.ToastDisplay(), cfg.ToastFade()),
		toast.WithLogger(o.logger.With("component", "toast")),
	)
	p.composer = nav.NewComposer(p.doc, fetcher, p.location, p.loop)

	return p, nil
}

// Load runs the page-load sequence: the theme is resolved and applied, the
// toast queue starts listening for transport events and the navigation is
// composed from the server's AppConfig. Each step is independent; a
// failing config fetch leaves the base layout in place.
func (p *Page) Load(ctx context.Context) nav.Result {
	state := p.theme.Initialize(ctx)
	p.toasts.Attach(p.bus)
	p.loaded = p.composer.Compose(ctx)
	p.loop.Drain()

	p.logger.Debug("page loaded",
		"url", p.location.URL().String(),
		"theme", state,
		"configured", p.loaded.Applied,
	)
	return p.loaded
}

// ToggleTheme flips the theme as a click on the toggle control would.
func (p *Page) ToggleTheme(ctx context.Context) theme.State {
	return p.theme.Toggle(ctx)
}

// SelectProject changes the hub project selector to project. It reports
// false when the page has no selector or project is not one of its
// options.
func (p *Page) SelectProject(project string) bool {
	sel := p.loaded.Selector
	if sel == nil {
		return false
	}
	for _, opt := range dom.Options(sel) {
		if v, _ := opt.Attr("value"); v == project {
			ok := p.doc.Dispatch(sel, "change", project)
			p.loop.Drain()
			return ok
		}
	}
	return false
}

// Get issues a partial-update GET and swaps the response into the page's
// main content.
func (p *Page) Get(ctx context.Context, path string) (*transport.Response, error) {
	resp, err := p.client.Get(ctx, path, p.doc.GetElementByID("content"))
	p.loop.Drain()
	return resp, err
}

// Post issues a form POST whose response is not swapped into the page.
// Toast directives in the response are shown.
func (p *Page) Post(ctx context.Context, path string, form url.Values) (*transport.Response, error) {
	resp, err := p.client.Post(ctx, path, form, nil)
	p.loop.Drain()
	return resp, err
}

// Listen shows toasts pushed by the server until ctx is done. The caller
// must keep draining the loop (Advance or Settle) while Listen runs on
// another goroutine.
func (p *Page) Listen(ctx context.Context, opts ...transport.StreamOption) error {
	ws := *p.base
	switch ws.Scheme {
	case "https":
		ws.Scheme = "wss"
	default:
		ws.Scheme = "ws"
	}
	ws.Path = TriggerPath

	opts = append([]transport.StreamOption{
		transport.WithStreamLogger(p.logger.With("component", "trigger-stream")),
	}, opts...)
	return transport.NewStream(ws.String(), p.bus, p.loop, opts...).Run(ctx)
}

// Settle runs everything queued on the loop.
func (p *Page) Settle() int {
	return p.loop.Drain()
}

// Advance moves a manual clock forward, firing toast timers.
func (p *Page) Advance(d time.Duration) {
	p.loop.Advance(d)
}

// Close stops toast timers and the loop.
func (p *Page) Close() {
	p.toasts.Close()
	p.loop.Close()
}

// HTML renders the current document, doctype included.
func (p *Page) HTML() (string, error) {
	var b strings.Builder
	if err := p.renderer.RenderDocument(&b, p.doc.Root()); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Document returns the page document.
func (p *Page) Document() *dom.Document { return p.doc }

// Location returns the page location. Project selection navigates it.
func (p *Page) Location() *nav.MemoryLocation { return p.location }

// Theme returns the theme preference.
func (p *Page) Theme() *theme.Preference { return p.theme }

// Toasts returns the toast queue.
func (p *Page) Toasts() *toast.Queue { return p.toasts }

// Bus returns the transport event bus.
func (p *Page) Bus() *transport.Bus { return p.bus }
