package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/esengine/nova-ecs-editor/errors"
)

// Defaults applied by ApplyDefaults
const (
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultHTTPAddr      = ":8080"
	DefaultHTTPTimeout   = "10s"
	DefaultMetricsPath   = "/metrics"
	DefaultSubjectPrefix = "editor.components"
	DefaultNATSTimeout   = "5s"
	DefaultExportFormat  = "json"
)

// Config represents the complete editor service configuration
type Config struct {
	Log      LogConfig      `json:"log" yaml:"log"`
	Registry RegistryConfig `json:"registry" yaml:"registry"`
	HTTP     HTTPConfig     `json:"http" yaml:"http"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics"`
	NATS     NATSConfig     `json:"nats" yaml:"nats"`
	Export   ExportConfig   `json:"export" yaml:"export"`
}

// LogConfig configures the slog handler
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json, text
}

// RegistryConfig selects how the default registry is populated
type RegistryConfig struct {
	// Discover registers every declared type instead of installing plugins
	Discover bool `json:"discover" yaml:"discover"`
	// Plugins limits plugin installation to these names; empty installs all
	Plugins []string `json:"plugins,omitempty" yaml:"plugins,omitempty"`
}

// HTTPConfig configures the inspector API
type HTTPConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Addr        string `json:"addr" yaml:"addr"`
	ReadTimeout string `json:"read_timeout" yaml:"read_timeout"`
	// CORSOrigins lists browser origins allowed to call the API; "*" allows
	// any. Empty disables CORS.
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
}

// MetricsConfig configures the prometheus endpoint served by the HTTP API
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

// NATSConfig configures registration event publishing. An empty URL disables it.
type NATSConfig struct {
	URL           string `json:"url,omitempty" yaml:"url,omitempty"`
	SubjectPrefix string `json:"subject_prefix" yaml:"subject_prefix"`
	Timeout       string `json:"timeout" yaml:"timeout"`
	// CatalogBucket mirrors the default registry into this JetStream KV
	// bucket; empty disables the mirror
	CatalogBucket string `json:"catalog_bucket,omitempty" yaml:"catalog_bucket,omitempty"`
}

// ExportConfig configures snapshot export
type ExportConfig struct {
	Format string `json:"format" yaml:"format"` // json, yaml
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{
		HTTP:    HTTPConfig{Enabled: true},
		Metrics: MetricsConfig{Enabled: true},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with their defaults
func (c *Config) ApplyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.HTTP.ReadTimeout == "" {
		c.HTTP.ReadTimeout = DefaultHTTPTimeout
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = DefaultSubjectPrefix
	}
	if c.NATS.Timeout == "" {
		c.NATS.Timeout = DefaultNATSTimeout
	}
	if c.Export.Format == "" {
		c.Export.Format = DefaultExportFormat
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log.level", c.Log.Level)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return invalid("log.format", c.Log.Format)
	}

	if c.HTTP.Enabled && c.HTTP.Addr == "" {
		return errors.WrapInvalid(fmt.Errorf("%w: http.addr is required", errors.ErrMissingConfig),
			"Config", "Validate", "http validation")
	}
	if _, err := time.ParseDuration(c.HTTP.ReadTimeout); err != nil {
		return invalid("http.read_timeout", c.HTTP.ReadTimeout)
	}
	for _, origin := range c.HTTP.CORSOrigins {
		if !validOrigin(origin) {
			return invalid("http.cors_origins", origin)
		}
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path", c.Metrics.Path)
	}

	if _, err := time.ParseDuration(c.NATS.Timeout); err != nil {
		return invalid("nats.timeout", c.NATS.Timeout)
	}
	if strings.ContainsAny(c.NATS.SubjectPrefix, " *>") {
		return invalid("nats.subject_prefix", c.NATS.SubjectPrefix)
	}
	if !validBucketName(c.NATS.CatalogBucket) {
		return invalid("nats.catalog_bucket", c.NATS.CatalogBucket)
	}

	switch c.Export.Format {
	case "json", "yaml":
	default:
		return invalid("export.format", c.Export.Format)
	}

	return nil
}

// validOrigin accepts "*" or a scheme://host[:port] origin without a path
func validOrigin(origin string) bool {
	if origin == "*" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return (u.Path == "" || u.Path == "/") && u.RawQuery == "" && u.Fragment == "" && u.User == nil
}

// validBucketName accepts the empty name and JetStream KV bucket names
func validBucketName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

func invalid(field, value string) error {
	return errors.WrapInvalid(fmt.Errorf("%w: %s %q", errors.ErrInvalidConfig, field, value),
		"Config", "Validate", field+" validation")
}

// HTTPReadTimeout returns the parsed HTTP read timeout
func (c *Config) HTTPReadTimeout() time.Duration {
	d, err := time.ParseDuration(c.HTTP.ReadTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// NATSTimeout returns the parsed NATS connect timeout
func (c *Config) NATSTimeout() time.Duration {
	d, err := time.ParseDuration(c.NATS.Timeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// PluginEnabled reports whether the named plugin should be installed
func (c *Config) PluginEnabled(name string) bool {
	if len(c.Registry.Plugins) == 0 {
		return true
	}
	for _, p := range c.Registry.Plugins {
		if p == name {
			return true
		}
	}
	return false
}

// ToJSON converts config to JSON string for debugging
func (c *Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
