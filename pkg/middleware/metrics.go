package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "pmweb").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "pmweb",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the pmweb collectors.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	toastsTotal     *prometheus.CounterVec
	configFetches   *prometheus.CounterVec
	transportErrors *prometheus.CounterVec
	triggerClients  prometheus.Gauge
}

// globalMetrics is the instance the Record functions write to.
var (
	globalMetrics   *Metrics
	globalMetricsMu sync.Mutex
)

// NewMetrics registers a fresh set of collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests served",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route", "method"}),

		toastsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "toasts_total",
			Help:        "Total number of toasts shown by the page runtime",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		configFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "config_fetches_total",
			Help:        "Total number of app config fetches by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		transportErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transport_errors_total",
			Help:        "Total number of failed partial-update requests by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		triggerClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "trigger_clients",
			Help:        "Number of connected trigger stream clients",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus returns the process-wide Metrics, creating them on first call.
// Later calls ignore opts.
func Prometheus(opts ...MetricsOption) *Metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		globalMetrics = NewMetrics(opts...)
	}
	return globalMetrics
}

// SetDefault makes m the instance the Record functions write to. A nil m
// turns recording off.
func SetDefault(m *Metrics) {
	globalMetricsMu.Lock()
	globalMetrics = m
	globalMetricsMu.Unlock()
}

func global() *Metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics
}

// Handler records request count and duration for next. The route label is
// the chi route pattern, so path parameters do not create new series.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		m.requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	})
}

// routePattern returns the matched chi pattern, or "unmatched".
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// RecordToast records a toast of the given kind being shown.
func RecordToast(kind string) {
	if m := global(); m != nil {
		m.toastsTotal.WithLabelValues(kind).Inc()
	}
}

// Config fetch results.
const (
	FetchOK          = "ok"
	FetchNetwork     = "network_error"
	FetchBadStatus   = "bad_status"
	FetchInvalidJSON = "invalid_json"
)

// RecordConfigFetch records the result of an app config fetch.
func RecordConfigFetch(result string) {
	if m := global(); m != nil {
		m.configFetches.WithLabelValues(result).Inc()
	}
}

// RecordTransportError records a partial-update request that failed with
// status (0 for network failures).
func RecordTransportError(status int) {
	if m := global(); m != nil {
		m.transportErrors.WithLabelValues(strconv.Itoa(status)).Inc()
	}
}

// RecordTriggerClient adjusts the connected trigger client gauge by delta.
func RecordTriggerClient(delta int) {
	if m := global(); m != nil {
		m.triggerClients.Add(float64(delta))
	}
}
