// Package middleware provides observability for renders and the HTTP
// server.
//
// This package includes:
//   - Prometheus metrics for renders, compiles, hook failures and HTTP
//     requests
//   - OpenTelemetry tracing middleware for net/http handlers
//
// # Prometheus Metrics
//
// Metrics implements component.Observer, so an App reports every render to
// it:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	app, _ := component.NewApp(component.WithObserver(m))
//
//	r := chi.NewRouter()
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Metrics collected:
//   - vdirective_renders_total: renders by component, path and status
//   - vdirective_render_duration_seconds: render duration histogram
//   - vdirective_hook_errors_total: hook failures by directive and phase
//   - vdirective_compile_errors_total: compile failures by error code
//   - vdirective_http_requests_total: requests by route and status
//   - vdirective_live_sessions: open live preview connections
//
// # OpenTelemetry
//
// Tracing starts a server span per request and stores it in the request
// context, where the renderer picks it up as the parent of its own
// vdirective.render span:
//
//	r.Use(middleware.Tracing(middleware.WithTracerName("my-app")))
package middleware
