// Package middleware provides observability for the pmweb server and the
// headless page runtime.
//
// This package includes:
//   - Prometheus request metrics for net/http handlers
//   - OpenTelemetry server spans
//   - Counters recorded by page components (toasts, config fetches,
//     transport errors)
//
// # Prometheus Metrics
//
//	m := middleware.Prometheus(middleware.WithRegistry(reg))
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Metrics collected:
//   - pmweb_http_requests_total: requests by route, method and status
//   - pmweb_http_request_duration_seconds: request latency by route and method
//   - pmweb_toasts_total: toasts shown by the page runtime, by kind
//   - pmweb_config_fetches_total: /api/config fetches by result
//   - pmweb_transport_errors_total: failed partial-update requests by status
//   - pmweb_trigger_clients: connected trigger stream clients
//
// Page components call the Record functions, which do nothing until
// Prometheus has been called.
//
// # OpenTelemetry
//
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("pmweb")))
//
// The tracer comes from the global provider unless WithTracerProvider is
// given. Configure the provider in main() before serving.
package middleware
