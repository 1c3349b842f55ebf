package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nova_editor"

// Metrics contains the editor registry metrics
type Metrics struct {
	// Registry metrics
	Registrations        *prometheus.CounterVec
	SkippedRegistrations prometheus.Counter
	RegisteredComponents prometheus.Gauge

	// Metadata metrics
	DeclaredTypes prometheus.Gauge

	// Plugin and session metrics
	PluginInstalls *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		Registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "registry",
				Name:      "registrations_total",
				Help:      "Total number of component registrations, by component category",
			},
			[]string{"category"},
		),

		SkippedRegistrations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "registry",
				Name:      "skipped_total",
				Help:      "Register calls ignored because the type had no component metadata",
			},
		),

		RegisteredComponents: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "registry",
				Name:      "components",
				Help:      "Number of components currently registered",
			},
		),

		DeclaredTypes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "metadata",
				Name:      "declared_types",
				Help:      "Number of component types declared in the metadata store",
			},
		),

		PluginInstalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "plugin",
				Name:      "installs_total",
				Help:      "Plugin installations, by plugin name and outcome",
			},
			[]string{"plugin", "status"},
		),

		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "active",
				Help:      "Number of open editor sessions",
			},
		),
	}
}

// Collectors returns every metric for registration with a prometheus registry
func (c *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.Registrations,
		c.SkippedRegistrations,
		c.RegisteredComponents,
		c.DeclaredTypes,
		c.PluginInstalls,
		c.ActiveSessions,
	}
}

// RecordRegistration counts a registration and updates the component gauge
func (c *Metrics) RecordRegistration(category string, registered int) {
	c.Registrations.WithLabelValues(category).Inc()
	c.RegisteredComponents.Set(float64(registered))
}

// RecordSkipped counts a register call that found no metadata
func (c *Metrics) RecordSkipped() {
	c.SkippedRegistrations.Inc()
}

// RecordRegistryCleared resets the component gauge
func (c *Metrics) RecordRegistryCleared() {
	c.RegisteredComponents.Set(0)
}

// RecordDeclaredTypes updates the declared types gauge
func (c *Metrics) RecordDeclaredTypes(n int) {
	c.DeclaredTypes.Set(float64(n))
}

// RecordPluginInstall counts a plugin installation outcome
func (c *Metrics) RecordPluginInstall(plugin string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	c.PluginInstalls.WithLabelValues(plugin, status).Inc()
}

// RecordSessions updates the open session gauge
func (c *Metrics) RecordSessions(n int) {
	c.ActiveSessions.Set(float64(n))
}
