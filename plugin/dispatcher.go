package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/esengine/nova-ecs-editor/errors"
	"github.com/esengine/nova-ecs-editor/metric"
)

// Dispatcher tracks installed plugins and forwards host events to the ones
// implementing the matching capability. It never drives a loop itself.
type Dispatcher struct {
	plugins []Plugin
	names   map[string]struct{}
	logger  *slog.Logger
	metrics *metric.Metrics
	mu      sync.RWMutex
}

// NewDispatcher creates an empty dispatcher. Both arguments are optional.
func NewDispatcher(logger *slog.Logger, metrics *metric.Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		names:   make(map[string]struct{}),
		logger:  logger,
		metrics: metrics,
	}
}

// Install installs p and starts forwarding events to it.
// Plugin names must be unique within a dispatcher.
func (d *Dispatcher) Install(ctx context.Context, p Plugin, world World, opts Options) error {
	if IsNil(p) {
		return errors.WrapInvalid(fmt.Errorf("%w: plugin is nil", errors.ErrPluginInstall),
			"Dispatcher", "Install", "plugin validation")
	}
	name := p.Metadata().Name

	// The name is reserved before installing so concurrent installs of the
	// same plugin cannot both succeed.
	d.mu.Lock()
	_, exists := d.names[name]
	if !exists {
		d.names[name] = struct{}{}
	}
	d.mu.Unlock()
	if exists {
		return errors.WrapInvalid(
			fmt.Errorf("%w: plugin %q already installed", errors.ErrPluginInstall, name),
			"Dispatcher", "Install", "duplicate check")
	}

	if err := Install(ctx, p, world, opts); err != nil {
		d.mu.Lock()
		delete(d.names, name)
		d.mu.Unlock()

		d.record(name, false)
		d.logger.Error("Plugin install failed", "plugin", name, "error", err)
		return errors.Wrap(fmt.Errorf("%w: %s: %w", errors.ErrPluginInstall, name, err),
			"Dispatcher", "Install", "plugin install")
	}

	d.mu.Lock()
	d.plugins = append(d.plugins, p)
	d.mu.Unlock()

	d.record(name, true)
	d.logger.Info("Plugin installed", "plugin", name, "version", p.Metadata().Version)
	return nil
}

func (d *Dispatcher) record(name string, success bool) {
	if d.metrics != nil {
		d.metrics.RecordPluginInstall(name, success)
	}
}

// Uninstall removes the named plugin, calling its Uninstaller if present.
// Unknown names are ignored.
func (d *Dispatcher) Uninstall(ctx context.Context, name string, world World) error {
	d.mu.Lock()
	var target Plugin
	for i, p := range d.plugins {
		if p.Metadata().Name == name {
			target = p
			d.plugins = append(d.plugins[:i:i], d.plugins[i+1:]...)
			delete(d.names, name)
			break
		}
	}
	d.mu.Unlock()

	if target == nil {
		return nil
	}
	if u, ok := target.(Uninstaller); ok {
		if err := u.Uninstall(ctx, world); err != nil {
			return errors.Wrap(err, "Dispatcher", "Uninstall", "plugin "+name+" uninstall")
		}
	}
	d.logger.Info("Plugin uninstalled", "plugin", name)
	return nil
}

// Installed returns the metadata of installed plugins in install order
func (d *Dispatcher) Installed() []Metadata {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Metadata, 0, len(d.plugins))
	for _, p := range d.plugins {
		out = append(out, p.Metadata())
	}
	return out
}

func (d *Dispatcher) snapshot() []Plugin {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Plugin(nil), d.plugins...)
}

// Update forwards a frame tick
func (d *Dispatcher) Update(dt time.Duration) {
	for _, p := range d.snapshot() {
		if u, ok := p.(Updater); ok {
			u.Update(dt)
		}
	}
}

// WorldUpdateStart forwards the start of a world update
func (d *Dispatcher) WorldUpdateStart(world World) {
	for _, p := range d.snapshot() {
		if l, ok := p.(WorldListener); ok {
			l.OnWorldUpdateStart(world)
		}
	}
}

// WorldUpdateEnd forwards the end of a world update
func (d *Dispatcher) WorldUpdateEnd(world World) {
	for _, p := range d.snapshot() {
		if l, ok := p.(WorldListener); ok {
			l.OnWorldUpdateEnd(world)
		}
	}
}

// EntityCreated forwards an entity creation
func (d *Dispatcher) EntityCreated(world World, entity EntityID) {
	for _, p := range d.snapshot() {
		if l, ok := p.(EntityListener); ok {
			l.OnEntityCreate(world, entity)
		}
	}
}

// EntityDestroyed forwards an entity destruction
func (d *Dispatcher) EntityDestroyed(world World, entity EntityID) {
	for _, p := range d.snapshot() {
		if l, ok := p.(EntityListener); ok {
			l.OnEntityDestroy(world, entity)
		}
	}
}

// ComponentAdded forwards a component attach
func (d *Dispatcher) ComponentAdded(world World, entity EntityID, t reflect.Type) {
	for _, p := range d.snapshot() {
		if l, ok := p.(ComponentListener); ok {
			l.OnComponentAdd(world, entity, t)
		}
	}
}

// ComponentRemoved forwards a component detach
func (d *Dispatcher) ComponentRemoved(world World, entity EntityID, t reflect.Type) {
	for _, p := range d.snapshot() {
		if l, ok := p.(ComponentListener); ok {
			l.OnComponentRemove(world, entity, t)
		}
	}
}
