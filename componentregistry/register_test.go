package componentregistry

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esengine/nova-ecs-editor/component"
	"github.com/esengine/nova-ecs-editor/errors"
	"github.com/esengine/nova-ecs-editor/metadata"
	"github.com/esengine/nova-ecs-editor/plugin"
)

type world struct{}

func (world) Name() string { return "test" }

type transform struct{}
type sprite struct{}
type collider struct{}

func newRegistry() *component.Registry {
	store := metadata.NewStore()
	metadata.DeclareComponent[transform](store, metadata.ComponentOptions{DisplayName: "Transform"})
	metadata.DeclareComponent[sprite](store, metadata.ComponentOptions{DisplayName: "Sprite"})
	metadata.DeclareProperty[collider](store, "Radius", metadata.PropertyDescriptor{Kind: metadata.KindNumber})
	return component.NewRegistry(store)
}

func TestDiscoverAndRegisterComponents(t *testing.T) {
	registry := newRegistry()

	assert.Equal(t, 2, DiscoverAndRegisterComponents(registry))
	assert.Equal(t, 2, DiscoverAndRegisterComponents(registry))
	assert.Equal(t, 2, registry.Len())
	assert.False(t, registry.Has(metadata.TypeOf[collider]()))

	all := registry.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "Transform", all[0].Metadata.DisplayName)
}

func TestDiscoverAndRegisterComponents_NilRegistry(t *testing.T) {
	assert.Equal(t, 0, DiscoverAndRegisterComponents(nil))
}

func TestRegisterPlugins(t *testing.T) {
	registry := newRegistry()
	dispatcher := plugin.NewDispatcher(nil, nil)
	core := plugin.NewComponentPlugin(plugin.Metadata{Name: "core"}, metadata.TypeOf[transform]())

	require.NoError(t, RegisterPlugins(context.Background(), registry, dispatcher, world{}, core))

	assert.True(t, registry.Has(metadata.TypeOf[transform]()))
	assert.False(t, registry.Has(metadata.TypeOf[sprite]()))
	assert.Equal(t, []plugin.Metadata{{Name: "core"}}, dispatcher.Installed())
}

func TestRegisterPlugins_WithoutDispatcher(t *testing.T) {
	registry := newRegistry()
	core := plugin.NewComponentPlugin(plugin.Metadata{Name: "core"}, metadata.TypeOf[sprite]())

	require.NoError(t, RegisterPlugins(context.Background(), registry, nil, world{}, core))
	assert.True(t, registry.Has(metadata.TypeOf[sprite]()))
}

func TestRegisterPlugins_NilRegistry(t *testing.T) {
	err := RegisterPlugins(context.Background(), nil, nil, world{})
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.ErrorIs(t, err, errors.ErrNilRegistry)
}

func TestRegisterPlugins_PluginFailure(t *testing.T) {
	registry := newRegistry()
	broken := plugin.NewComponentPluginFunc(plugin.Metadata{Name: "broken"}, func(context.Context) ([]reflect.Type, error) {
		return nil, errors.ErrInvalidConfig
	})

	err := RegisterPlugins(context.Background(), registry, nil, world{}, broken)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	assert.Contains(t, err.Error(), "broken plugin registration failed")

	err = RegisterPlugins(context.Background(), registry, nil, world{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestRegisterPlugins_TypedNilPlugin(t *testing.T) {
	registry := newRegistry()
	dispatcher := plugin.NewDispatcher(nil, nil)
	var p *plugin.ComponentPlugin

	var err error
	require.NotPanics(t, func() {
		err = RegisterPlugins(context.Background(), registry, dispatcher, world{}, p)
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	assert.Contains(t, err.Error(), "plugin cannot be nil")
	assert.Empty(t, dispatcher.Installed())
}
