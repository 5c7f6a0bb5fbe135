package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func resetGlobalMetricsForTest(t *testing.T) {
	t.Helper()
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
	t.Cleanup(func() {
		globalMetricsMu.Lock()
		globalMetrics = nil
		globalMetricsMu.Unlock()
	})
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsHandler_UsesRoutePattern(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/stories/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	for _, path := range []string{"/stories/PRJ-1", "/stories/PRJ-2", "/broken", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("/stories/{id}", "GET", "200")); got != 2 {
		t.Errorf("requests for /stories/{id} = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("/broken", "GET", "500")); got != 1 {
		t.Errorf("requests for /broken = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Errorf("unmatched requests = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.requestDuration.WithLabelValues("/stories/{id}", "GET")); got != 2 {
		t.Errorf("duration samples = %d, want 2", got)
	}
}

func TestRecordFunctions_NoopWithoutMetrics(t *testing.T) {
	resetGlobalMetricsForTest(t)

	// Must not panic before Prometheus is called.
	RecordToast("success")
	RecordConfigFetch(FetchOK)
	RecordTransportError(500)
	RecordTriggerClient(1)
}

func TestRecordFunctions(t *testing.T) {
	resetGlobalMetricsForTest(t)
	m := Prometheus(WithRegistry(prometheus.NewRegistry()))

	if again := Prometheus(WithNamespace("ignored")); again != m {
		t.Fatal("Prometheus should return the same instance on later calls")
	}

	RecordToast("success")
	RecordToast("success")
	RecordToast("error")
	RecordConfigFetch(FetchInvalidJSON)
	RecordTransportError(503)
	RecordTriggerClient(1)
	RecordTriggerClient(1)
	RecordTriggerClient(-1)

	if got := metricCounterValue(t, m.toastsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("success toasts = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.toastsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("error toasts = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.configFetches.WithLabelValues(FetchInvalidJSON)); got != 1 {
		t.Errorf("invalid_json fetches = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.transportErrors.WithLabelValues("503")); got != 1 {
		t.Errorf("503 transport errors = %v, want 1", got)
	}
	if got := metricGaugeValue(t, m.triggerClients); got != 1 {
		t.Errorf("trigger clients = %v, want 1", got)
	}
}

func TestSetDefault(t *testing.T) {
	resetGlobalMetricsForTest(t)

	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	SetDefault(m)
	RecordConfigFetch(FetchBadStatus)
	if got := metricCounterValue(t, m.configFetches.WithLabelValues(FetchBadStatus)); got != 1 {
		t.Errorf("config fetches = %v, want 1", got)
	}
	if Prometheus() != m {
		t.Error("Prometheus() should return the default set with SetDefault")
	}

	SetDefault(nil)
	RecordConfigFetch(FetchBadStatus)
	if got := metricCounterValue(t, m.configFetches.WithLabelValues(FetchBadStatus)); got != 1 {
		t.Errorf("recording after SetDefault(nil) changed the counter to %v", got)
	}
}
