package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath      string
	LogLevel        string
	LogFormat       string
	HTTPAddr        string
	NATSURL         string
	Export          string
	ExportPath      string
	Discover        bool
	ShutdownTimeout time.Duration
	ShowVersion     bool
	ShowHelp        bool
	Validate        bool
}

func parseFlags(args []string, stderr io.Writer) (*CLIConfig, error) {
	cfg := &CLIConfig{}
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Define flags with environment variable fallback
	fs.StringVar(&cfg.ConfigPath, "config",
		getEnv("NOVA_EDITOR_CONFIG", ""),
		"Path to a YAML or JSON configuration file (env: NOVA_EDITOR_CONFIG)")
	fs.StringVar(&cfg.ConfigPath, "c",
		getEnv("NOVA_EDITOR_CONFIG", ""),
		"Path to a YAML or JSON configuration file (env: NOVA_EDITOR_CONFIG)")

	fs.StringVar(&cfg.LogLevel, "log-level",
		getEnv("NOVA_EDITOR_LOG_LEVEL", ""),
		"Log level: debug, info, warn, error (env: NOVA_EDITOR_LOG_LEVEL)")

	fs.StringVar(&cfg.LogFormat, "log-format",
		getEnv("NOVA_EDITOR_LOG_FORMAT", ""),
		"Log format: json, text (env: NOVA_EDITOR_LOG_FORMAT)")

	fs.StringVar(&cfg.HTTPAddr, "http-addr",
		getEnv("NOVA_EDITOR_HTTP_ADDR", ""),
		"Inspector API listen address (env: NOVA_EDITOR_HTTP_ADDR)")

	fs.StringVar(&cfg.NATSURL, "nats-url",
		getEnv("NOVA_EDITOR_NATS_URL", ""),
		"NATS server for registration events, empty disables (env: NOVA_EDITOR_NATS_URL)")

	fs.StringVar(&cfg.Export, "export", "",
		"Write a registry snapshot in this format (json, yaml) and exit")
	fs.StringVar(&cfg.ExportPath, "export-path", "-",
		"Snapshot destination, - for stdout")

	fs.BoolVar(&cfg.Discover, "discover",
		getEnvBool("NOVA_EDITOR_DISCOVER", false),
		"Register every declared component instead of installing plugins (env: NOVA_EDITOR_DISCOVER)")

	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("NOVA_EDITOR_SHUTDOWN_TIMEOUT", 10*time.Second),
		"Graceful shutdown timeout (env: NOVA_EDITOR_SHUTDOWN_TIMEOUT)")

	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	fs.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	fs.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	fs.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	fs.Usage = func() {
		printDetailedHelp(fs, stderr)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.ShowHelp {
		fs.Usage()
	}
	return cfg, nil
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if cfg.LogLevel != "" && !contains([]string{"debug", "info", "warn", "error"}, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	if cfg.LogFormat != "" && !contains([]string{"json", "text"}, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.Export != "" && !contains([]string{"json", "yaml", "yml"}, cfg.Export) {
		return fmt.Errorf("invalid export format: %s", cfg.Export)
	}

	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %s", cfg.ShutdownTimeout)
	}

	return nil
}

func printDetailedHelp(fs *flag.FlagSet, w io.Writer) {
	_, _ = fmt.Fprintf(w, `%s - editor component registry service

Usage: %s [options]

Options:
`, appName, appName)
	fs.PrintDefaults()
	_, _ = fmt.Fprintf(w, `
Examples:
  # Serve the inspector API with a config file
  %s --config=nova-editor.yaml

  # Dump the registry as YAML
  %s --export=yaml --export-path=registry.yaml

  # Run with environment variables
  export NOVA_EDITOR_LOG_LEVEL=debug
  export NOVA_EDITOR_NATS_URL=nats://localhost:4222
  %s

Version: %s
Build: %s
`, appName, appName, appName, Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
