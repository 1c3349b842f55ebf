// Package gateway serves the component registry to inspector UIs over HTTP.
//
// All component routes are read-only JSON:
//
//	GET /api/components                    every registration, registration order
//	GET /api/components/addable            addable registrations sorted by order
//	GET /api/components/grouped            registrations grouped by category
//	GET /api/components/{name}             one registration plus resolved lookups
//	GET /api/components/{name}/properties  properties grouped by category
//	GET /api/categories/{category}         exact category match sorted by order
//	GET /api/statistics                    registry statistics
//
// {name} is the Go type name or the numeric type id. With a session manager
// configured, POST/GET /api/sessions and DELETE /api/sessions/{id} manage
// editor sessions, and any component route accepts ?session=<id> to read that
// session's registry instead of the default one. With a metrics registry and
// Config.MetricsPath set, the Prometheus endpoint is mounted as well.
// WithHealth adds GET /api/health (503 while unhealthy) and WithCatalog adds
// GET /api/catalog, the components mirrored into the NATS KV bucket.
package gateway
