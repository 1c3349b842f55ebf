package plugin

import (
	"context"
	"fmt"
	"reflect"

	"github.com/esengine/nova-ecs-editor/component"
	"github.com/esengine/nova-ecs-editor/errors"
)

// TypeSource lists component types on demand
type TypeSource func(ctx context.Context) ([]reflect.Type, error)

// RegistryBinder is implemented by plugins that register into a registry
// chosen at install time.
type RegistryBinder interface {
	BindRegistry(registry *component.Registry)
}

// ComponentPlugin is a plugin that only contributes component types.
// Installing it registers each type with its registry; it has no other hooks.
type ComponentPlugin struct {
	meta     Metadata
	source   TypeSource
	registry *component.Registry
}

// NewComponentPlugin creates a plugin contributing a fixed list of types
func NewComponentPlugin(meta Metadata, types ...reflect.Type) *ComponentPlugin {
	fixed := append([]reflect.Type(nil), types...)
	return NewComponentPluginFunc(meta, func(context.Context) ([]reflect.Type, error) {
		return fixed, nil
	})
}

// NewComponentPluginFunc creates a plugin whose types come from source
func NewComponentPluginFunc(meta Metadata, source TypeSource) *ComponentPlugin {
	return &ComponentPlugin{meta: meta, source: source}
}

// Metadata implements Plugin
func (p *ComponentPlugin) Metadata() Metadata {
	if p == nil {
		return Metadata{}
	}
	return p.meta
}

// ComponentTypes implements Plugin
func (p *ComponentPlugin) ComponentTypes(ctx context.Context) ([]reflect.Type, error) {
	if p == nil || p.source == nil {
		return nil, nil
	}
	return p.source(ctx)
}

// BindRegistry implements RegistryBinder
func (p *ComponentPlugin) BindRegistry(registry *component.Registry) {
	if p == nil {
		return
	}
	p.registry = registry
}

// Registry returns the bound registry
func (p *ComponentPlugin) Registry() *component.Registry {
	if p == nil {
		return nil
	}
	return p.registry
}

// Install registers every contributed type. Types without component metadata
// are skipped by the registry.
func (p *ComponentPlugin) Install(ctx context.Context, _ World, _ Options) error {
	if p == nil {
		return errors.WrapInvalid(fmt.Errorf("%w: component plugin is nil", errors.ErrPluginInstall),
			"ComponentPlugin", "Install", "plugin validation")
	}
	if p.registry == nil {
		return errors.WrapFatal(errors.ErrNilRegistry, "ComponentPlugin", "Install",
			fmt.Sprintf("plugin %s registry check", p.meta.Name))
	}

	types, err := p.ComponentTypes(ctx)
	if err != nil {
		return errors.Wrap(err, "ComponentPlugin", "Install",
			fmt.Sprintf("plugin %s component type listing", p.meta.Name))
	}

	for _, t := range types {
		p.registry.RegisterContext(ctx, t)
	}
	return nil
}
