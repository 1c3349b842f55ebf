package component

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/esengine/nova-ecs-editor/errors"
)

// DefaultSubjectPrefix is the NATS subject prefix for registry events
const DefaultSubjectPrefix = "editor.components"

// RegistrationEvent is published after a component is registered
type RegistrationEvent struct {
	Timestamp   string `json:"timestamp"` // RFC3339 format
	TypeID      uint32 `json:"type_id"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Addable     bool   `json:"addable"`
	Removable   bool   `json:"removable"`
	Properties  int    `json:"properties"`
}

// NewRegistrationEvent builds the event for reg
func NewRegistrationEvent(reg *Registration) RegistrationEvent {
	return RegistrationEvent{
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
		TypeID:      uint32(reg.ID),
		Type:        reg.Name,
		DisplayName: reg.Metadata.DisplayName,
		Category:    reg.Metadata.EffectiveCategory(),
		Addable:     reg.Metadata.Addable,
		Removable:   reg.Metadata.Removable,
		Properties:  reg.Properties.Len(),
	}
}

// EventPublisher receives registration events. Publish failures are logged by
// the registry and never change a registration result.
type EventPublisher interface {
	PublishRegistration(ctx context.Context, event RegistrationEvent) error
}

// NATSPublisher publishes registration events as JSON to
// {prefix}.registered.{type}
type NATSPublisher struct {
	prefix  string
	nc      *nats.Conn
	logger  *slog.Logger
	enabled bool // whether NATS publishing is enabled
}

// NewNATSPublisher creates a publisher. A nil connection disables publishing.
func NewNATSPublisher(nc *nats.Conn, prefix string, logger *slog.Logger) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{
		prefix:  prefix,
		nc:      nc,
		logger:  logger,
		enabled: nc != nil,
	}
}

// Subject returns the subject an event for typeName is published on
func (p *NATSPublisher) Subject(typeName string) string {
	return fmt.Sprintf("%s.registered.%s", p.prefix, subjectToken(typeName))
}

// PublishRegistration publishes event to NATS
func (p *NATSPublisher) PublishRegistration(ctx context.Context, event RegistrationEvent) error {
	if !p.enabled {
		return nil
	}

	// Check context before performing I/O
	if err := ctx.Err(); err != nil {
		return errors.WrapTransient(err, "NATSPublisher", "PublishRegistration", "context check")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return errors.WrapInvalid(err, "NATSPublisher", "PublishRegistration", "event marshal")
	}

	nc := p.nc
	if nc == nil || nc.IsClosed() {
		return errors.WrapTransient(errors.ErrNoConnection, "NATSPublisher", "PublishRegistration", "connection check")
	}

	subject := p.Subject(event.Type)
	if err := nc.Publish(subject, data); err != nil {
		return errors.WrapTransient(fmt.Errorf("%w: %v", errors.ErrPublishFailed, err),
			"NATSPublisher", "PublishRegistration", "publish to "+subject)
	}

	p.logger.Debug("Published registration event", "subject", subject)
	return nil
}

// subjectToken makes a Go type name safe as a single NATS subject token
func subjectToken(name string) string {
	if name == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '[', ']':
			return '_'
		}
		return r
	}, name)
}
