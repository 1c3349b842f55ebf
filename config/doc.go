// Package config loads the editor service configuration.
//
// Files are YAML or JSON, picked by extension. Loading reads the file with
// size and path checks, decodes it rejecting unknown fields, applies defaults
// and validates the result:
//
//	cfg, err := config.Load("nova-editor.yaml")
//	if err != nil {
//		return err // classified: invalid config or fatal read failure
//	}
//
// A minimal YAML file:
//
//	log:
//	  level: debug
//	  format: text
//	registry:
//	  plugins: [core]
//	http:
//	  addr: ":9090"
//	nats:
//	  url: nats://localhost:4222
//
// Durations are Go duration strings ("5s", "250ms").
package config
