// Package server is the pmweb HTTP server.
//
// It serves the ProjectMan base page, the AppConfig document the page
// runtime fetches at load time, a theme endpoint that answers with a toast
// directive, and a websocket that pushes HX-Trigger payloads to connected
// pages.
//
// Routes:
//
//	GET  /              base page
//	GET  /api/config    project configuration (AppConfig superset)
//	POST /api/theme     acknowledge a theme change with a toast
//	POST /api/notify    broadcast a toast to every trigger client
//	GET  /ws/triggers   trigger websocket
//	GET  /healthz       liveness
//	GET  /metrics       Prometheus metrics, when enabled
package server
