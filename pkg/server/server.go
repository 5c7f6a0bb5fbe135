package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/projectman/pmweb/internal/config"
	"github.com/projectman/pmweb/internal/project"
	"github.com/projectman/pmweb/pkg/middleware"
	"github.com/projectman/pmweb/pkg/render"
)

const shutdownTimeout = 10 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRegistry sets the Prometheus registry metrics are registered with
// and served from. Default: a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithTracerProvider sets the tracer provider for server spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) {
		s.tracerProvider = tp
	}
}

// Server serves one ProjectMan project (or hub).
type Server struct {
	cfg     *config.Config
	project *project.Config
	root    string

	router         chi.Router
	hub            *Hub
	renderer       *render.Renderer
	registry       *prometheus.Registry
	tracerProvider trace.TracerProvider
	logger         *slog.Logger
	httpServer     *http.Server
}

// New builds the server. root is the project root directory, used to
// resolve hub sub-projects; proj is its loaded configuration.
func New(cfg *config.Config, root string, proj *project.Config, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		project:  proj,
		root:     root,
		renderer: render.NewRenderer(render.RendererConfig{}),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.hub = NewHub(s.logger)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)

	if s.cfg.Server.Tracing {
		opts := []middleware.OTelOption{
			middleware.WithRequestFilter(func(r *http.Request) bool {
				return r.URL.Path != "/healthz" && r.URL.Path != s.cfg.Server.MetricsPath
			}),
		}
		if s.tracerProvider != nil {
			opts = append(opts, middleware.WithTracerProvider(s.tracerProvider))
		}
		r.Use(middleware.OpenTelemetry(opts...))
	}
	if s.cfg.Server.Metrics {
		m := middleware.NewMetrics(middleware.WithRegistry(s.registry))
		middleware.SetDefault(m)
		r.Use(m.Handler)
		r.Method(http.MethodGet, s.cfg.Server.MetricsPath,
			promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Get("/", s.handlePage)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.handleConfig)
		r.Post("/theme", s.handleTheme)
		r.Post("/notify", s.handleNotify)
	})
	r.Handle("/ws/triggers", s.hub)

	return r
}

// logRequests logs each request at debug level, in the style of the
// other server logs.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hub returns the trigger hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run listens on the configured address until ctx is done, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Address(),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.cfg.Address(), "project", s.project.Name)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes trigger clients and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	s.hub.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
