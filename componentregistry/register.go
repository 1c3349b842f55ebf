// Package componentregistry wires declared component types and plugins into
// an editor component registry.
package componentregistry

import (
	"context"
	"errors"
	"fmt"

	"github.com/esengine/nova-ecs-editor/component"
	pkgerrors "github.com/esengine/nova-ecs-editor/errors"
	"github.com/esengine/nova-ecs-editor/plugin"
)

// DiscoverAndRegisterComponents registers every type declared in the
// registry's metadata store, regardless of which plugin contributed it.
// It is idempotent and returns the number of types registered.
func DiscoverAndRegisterComponents(registry *component.Registry) int {
	if registry == nil {
		return 0
	}

	registered := 0
	for _, t := range registry.Store().GetAllRegisteredComponentTypes() {
		if registry.Register(t) {
			registered++
		}
	}
	return registered
}

// RegisterPlugins binds each plugin that accepts a registry to registry and
// installs it through dispatcher. A nil dispatcher installs without tracking.
// Installation stops at the first failing plugin.
func RegisterPlugins(ctx context.Context, registry *component.Registry, dispatcher *plugin.Dispatcher,
	world plugin.World, plugins ...plugin.Plugin,
) error {
	// CRITICAL: Nil registry is a programming error (fatal), not invalid input
	if registry == nil {
		return pkgerrors.WrapFatal(
			fmt.Errorf("%w: registry cannot be nil", pkgerrors.ErrNilRegistry),
			"ComponentRegistry", "RegisterPlugins", "registry validation")
	}

	for _, p := range plugins {
		if plugin.IsNil(p) {
			return pkgerrors.WrapInvalid(errors.New("plugin cannot be nil"),
				"ComponentRegistry", "RegisterPlugins", "plugin validation")
		}

		if binder, ok := p.(plugin.RegistryBinder); ok {
			binder.BindRegistry(registry)
		}

		var err error
		if dispatcher != nil {
			err = dispatcher.Install(ctx, p, world, nil)
		} else {
			err = plugin.Install(ctx, p, world, nil)
		}
		if err != nil {
			if pkgerrors.IsFatal(err) {
				return err
			}
			return pkgerrors.WrapInvalid(err, "ComponentRegistry", "RegisterPlugins",
				fmt.Sprintf("%s plugin registration", p.Metadata().Name))
		}
	}
	return nil
}
