// Package health reports readiness of the editor registry service.
//
// A Monitor holds named Checkers and, on demand, runs them and folds their
// results into one aggregate Status:
//
//	monitor := health.NewMonitor()
//	monitor.Register(health.RegistryCheck(registry))
//	monitor.Register(health.NATSCheck(nc))
//	status := monitor.Check(ctx, "nova-editor")
//
// The aggregate is unhealthy when any check is unhealthy, degraded when any
// check is degraded, and healthy otherwise. Messages built from errors pass
// through Sanitize so URLs, paths and credentials never reach the API.
package health
