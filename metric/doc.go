// Package metric provides Prometheus metrics for the editor metadata registry.
//
// MetricsRegistry owns a private prometheus.Registry with the core editor
// metrics (registrations by category, skipped registrations, registered and
// declared counts, plugin installs, open sessions) plus the Go runtime and
// process collectors. Services can add their own collectors through the
// MetricsRegistrar methods.
//
//	registry := metric.NewMetricsRegistry()
//	reg := component.NewRegistry(store, component.WithMetrics(registry.CoreMetrics()))
//	mux.Handle("/metrics", metric.Handler(registry))
package metric
