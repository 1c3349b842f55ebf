// Package export writes registry snapshots for tooling outside the editor.
//
// A Snapshot is the registry's GetAll view plus statistics. Snapshots are
// validated against an embedded JSON schema before being written as JSON or
// YAML.
package export

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/esengine/nova-ecs-editor/component"
	"github.com/esengine/nova-ecs-editor/errors"
	"github.com/esengine/nova-ecs-editor/metadata"
)

// SnapshotVersion is the schema version written into every snapshot
const SnapshotVersion = "v1"

//go:embed snapshot.schema.json
var snapshotSchema []byte

// Format is an output encoding
type Format string

const (
	// FormatJSON writes indented JSON
	FormatJSON Format = "json"
	// FormatYAML writes YAML
	FormatYAML Format = "yaml"
)

// ParseFormat maps a config value onto a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", errors.WrapInvalid(fmt.Errorf("%w: unknown export format %q", errors.ErrInvalidConfig, s),
		"Export", "ParseFormat", "format check")
}

// Snapshot is a serialisable view of a registry
type Snapshot struct {
	Version     string               `json:"version" yaml:"version"`
	GeneratedAt time.Time            `json:"generatedAt" yaml:"generatedAt"`
	Components  []Component          `json:"components" yaml:"components"`
	Statistics  component.Statistics `json:"statistics" yaml:"statistics"`
}

// Component is one registration in a snapshot
type Component struct {
	ID         uint32                       `json:"id" yaml:"id"`
	Type       string                       `json:"type" yaml:"type"` // fully qualified Go type
	Name       string                       `json:"name" yaml:"name"`
	Metadata   metadata.ComponentDescriptor `json:"metadata" yaml:"metadata"`
	Properties []metadata.PropertyEntry     `json:"properties" yaml:"properties"`
}

// Take captures the current registry contents in registration order
func Take(registry *component.Registry) Snapshot {
	regs := registry.GetAll()
	snap := Snapshot{
		Version:     SnapshotVersion,
		GeneratedAt: time.Now().UTC(),
		Components:  make([]Component, 0, len(regs)),
		Statistics:  registry.GetStatistics(),
	}
	for _, reg := range regs {
		snap.Components = append(snap.Components, FromRegistration(reg))
	}
	return snap
}

// FromRegistration converts one registration to its snapshot form
func FromRegistration(reg component.Registration) Component {
	typeName := reg.Name
	if reg.Type != nil {
		typeName = reg.Type.String()
	}
	return Component{
		ID:         uint32(reg.ID),
		Type:       typeName,
		Name:       reg.Name,
		Metadata:   reg.Metadata,
		Properties: reg.Properties.Entries(),
	}
}

// Validate checks a JSON encoded snapshot against the snapshot schema
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(snapshotSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return errors.WrapInvalid(fmt.Errorf("%w: %v", errors.ErrSchemaViolation, err),
			"Export", "Validate", "schema validation")
	}

	if !result.Valid() {
		var msg strings.Builder
		for _, desc := range result.Errors() {
			fmt.Fprintf(&msg, "\n  - %s: %s", desc.Field(), desc.Description())
		}
		return errors.WrapInvalid(fmt.Errorf("%w:%s", errors.ErrSchemaViolation, msg.String()),
			"Export", "Validate", "schema validation")
	}
	return nil
}

// Write validates snap and encodes it to w
func Write(w io.Writer, snap Snapshot, format Format) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.WrapInvalid(fmt.Errorf("%w: %v", errors.ErrExportFailed, err),
			"Export", "Write", "snapshot marshal")
	}

	if err := Validate(data); err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(snap)
		if err != nil {
			return errors.WrapInvalid(fmt.Errorf("%w: %v", errors.ErrExportFailed, err),
				"Export", "Write", "snapshot YAML marshal")
		}
	default:
		return errors.WrapInvalid(fmt.Errorf("%w: unknown format %q", errors.ErrExportFailed, format),
			"Export", "Write", "format check")
	}

	if _, err := w.Write(data); err != nil {
		return errors.WrapTransient(fmt.Errorf("%w: %v", errors.ErrExportFailed, err),
			"Export", "Write", "snapshot write")
	}
	return nil
}

// WriteRegistry takes a snapshot of registry and writes it
func WriteRegistry(w io.Writer, registry *component.Registry, format Format) error {
	return Write(w, Take(registry), format)
}
