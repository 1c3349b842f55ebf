package plugin

import (
	"context"
	"reflect"
	"time"
)

// Metadata identifies a plugin
type Metadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// EntityID identifies an entity in the host world
type EntityID uint64

// World is the slice of the host world plugins are handed
type World interface {
	Name() string
}

// Options are host supplied install options
type Options map[string]any

// Plugin is the part every editor plugin implements.
// ComponentTypes may do I/O (for example loading a manifest), hence the context.
type Plugin interface {
	Metadata() Metadata
	ComponentTypes(ctx context.Context) ([]reflect.Type, error)
}

// Installer is called once when the host activates the plugin
type Installer interface {
	Install(ctx context.Context, world World, opts Options) error
}

// Uninstaller is called when the host deactivates the plugin
type Uninstaller interface {
	Uninstall(ctx context.Context, world World) error
}

// Updater is called every frame
type Updater interface {
	Update(dt time.Duration)
}

// WorldListener observes world update boundaries
type WorldListener interface {
	OnWorldUpdateStart(world World)
	OnWorldUpdateEnd(world World)
}

// EntityListener observes entity creation and destruction
type EntityListener interface {
	OnEntityCreate(world World, entity EntityID)
	OnEntityDestroy(world World, entity EntityID)
}

// ComponentListener observes components being attached and detached
type ComponentListener interface {
	OnComponentAdd(world World, entity EntityID, componentType reflect.Type)
	OnComponentRemove(world World, entity EntityID, componentType reflect.Type)
}

// IsNil reports whether p is nil or an interface holding a nil pointer
func IsNil(p Plugin) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Install runs p's Installer, if it has one
func Install(ctx context.Context, p Plugin, world World, opts Options) error {
	if installer, ok := p.(Installer); ok {
		return installer.Install(ctx, world, opts)
	}
	return nil
}
