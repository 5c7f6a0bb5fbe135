package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type startedSpan struct {
	name  string
	kind  trace.SpanKind
	attrs []attribute.KeyValue
}

type recordingTracer struct {
	noop.Tracer
	mu    sync.Mutex
	spans []startedSpan
}

func (r *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	r.mu.Lock()
	r.spans = append(r.spans, startedSpan{name: name, kind: cfg.SpanKind(), attrs: cfg.Attributes()})
	r.mu.Unlock()
	return r.Tracer.Start(ctx, name, opts...)
}

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
}

func (p recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return p.tracer
}

func hasAttr(attrs []attribute.KeyValue, key string, want attribute.Value) bool {
	for _, kv := range attrs {
		if string(kv.Key) == key && kv.Value == want {
			return true
		}
	}
	return false
}

func TestOpenTelemetry_StartsServerSpan(t *testing.T) {
	tracer := &recordingTracer{}
	mw := OpenTelemetry(
		WithTracerProvider(recordingProvider{tracer: tracer}),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)

	var sawSpan bool
	r := chi.NewRouter()
	r.Use(mw)
	r.Post("/api/theme", func(w http.ResponseWriter, r *http.Request) {
		sawSpan = trace.SpanFromContext(r.Context()) != nil
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/theme", nil)
	req.Header.Set("HX-Request", "true")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if !sawSpan {
		t.Error("handler context should carry a span")
	}
	if len(tracer.spans) != 1 {
		t.Fatalf("started %d spans, want 1", len(tracer.spans))
	}
	span := tracer.spans[0]
	if span.name != "POST /api/theme" {
		t.Errorf("span name = %q", span.name)
	}
	if span.kind != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", span.kind)
	}
	if !hasAttr(span.attrs, "pmweb.partial", attribute.BoolValue(true)) {
		t.Errorf("missing pmweb.partial attribute: %v", span.attrs)
	}
	if !hasAttr(span.attrs, "test.attr", attribute.StringValue("ok")) {
		t.Errorf("missing extractor attribute: %v", span.attrs)
	}
}

func TestOpenTelemetry_FilterSkipsTracing(t *testing.T) {
	tracer := &recordingTracer{}
	mw := OpenTelemetry(
		WithTracerProvider(recordingProvider{tracer: tracer}),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
	)

	nextCalled := false
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { nextCalled = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !nextCalled {
		t.Error("filtered request should still reach the handler")
	}
	if len(tracer.spans) != 0 {
		t.Errorf("filtered request started %d spans", len(tracer.spans))
	}
}
