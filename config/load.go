package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/esengine/nova-ecs-editor/errors"
)

// Load reads a YAML or JSON configuration file, chosen by extension,
// applies defaults and validates the result. Unknown fields are rejected.
func Load(path string) (*Config, error) {
	data, err := safeReadFile(path)
	if err != nil {
		if errors.IsInvalid(err) {
			return nil, err
		}
		return nil, errors.WrapFatal(fmt.Errorf("%w: %v", errors.ErrConfigNotFound, err),
			"Config", "Load", "config file read")
	}

	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration data in the given format ("json" or "yaml")
func Parse(data []byte, format string) (*Config, error) {
	cfg := &Config{
		HTTP:    HTTPConfig{Enabled: true},
		Metrics: MetricsConfig{Enabled: true},
	}

	switch format {
	case "json":
		// Validate JSON depth to prevent DoS
		if err := validateJSONDepth(data); err != nil {
			return nil, errors.WrapInvalid(fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err),
				"Config", "Parse", "JSON structure check")
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.WrapInvalid(fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err),
				"Config", "Parse", "JSON decode")
		}
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document leaves the defaults in place
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, errors.WrapInvalid(fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err),
				"Config", "Parse", "YAML decode")
		}
	default:
		return nil, errors.WrapInvalid(fmt.Errorf("%w: unsupported format %q", errors.ErrInvalidConfig, format),
			"Config", "Parse", "format check")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path in the format implied by its extension
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if formatOf(path) == "yaml" {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.WrapInvalid(err, "Config", "Save", "config encode")
	}

	if err := safeWriteFile(path, data); err != nil {
		return errors.Wrap(err, "Config", "Save", "config write")
	}
	return nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
