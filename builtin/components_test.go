package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esengine/nova-ecs-editor/component"
	"github.com/esengine/nova-ecs-editor/metadata"
)

type world struct{}

func (world) Name() string { return "builtin-test" }

func declared(t *testing.T) (*metadata.Store, *component.Registry) {
	t.Helper()
	store := metadata.NewStore()
	require.NoError(t, Declare(store))
	return store, component.NewRegistry(store)
}

func TestDeclare(t *testing.T) {
	store, _ := declared(t)

	assert.Equal(t, Types(), store.GetAllRegisteredComponentTypes())

	props := store.GetAllPropertyMetadata(metadata.TypeOf[AudioSource]())
	assert.Equal(t, []string{"Clip", "Volume", "Pitch", "Loop", "Rolloff"}, props.Names())
	rolloff, _ := props.Get("Rolloff")
	assert.Equal(t, []string{"linear", "logarithmic", "none"}, rolloff.Options)

	rb := store.GetAllPropertyMetadata(metadata.TypeOf[RigidBody]())
	assert.False(t, rb.Has("SleepThreshold"))
	assert.Equal(t, 5, rb.Len())
}

func TestDeclare_Idempotent(t *testing.T) {
	store, _ := declared(t)
	require.NoError(t, Declare(store))

	assert.Len(t, store.GetAllRegisteredComponentTypes(), len(Types()))
	assert.Equal(t, 2, store.GetAllPropertyMetadata(metadata.TypeOf[Name]()).Len())
}

func TestCorePlugin_Install(t *testing.T) {
	_, registry := declared(t)
	core := CorePlugin()
	core.BindRegistry(registry)

	require.NoError(t, core.Install(context.Background(), world{}, nil))
	assert.Equal(t, len(Types()), registry.Len())
	assert.Equal(t, "core", core.Metadata().Name)
}

func TestCoreComponents_Queries(t *testing.T) {
	_, registry := declared(t)
	for _, typ := range Types() {
		registry.Register(typ)
	}

	var addable []string
	for _, reg := range component.GetAddableComponents(registry) {
		addable = append(addable, reg.Metadata.DisplayName)
	}
	assert.Equal(t, []string{"Transform", "Sprite", "Rigid Body", "Audio Source"}, addable)

	stats := registry.GetStatistics()
	assert.Equal(t, 5, stats.TotalComponents)
	assert.Equal(t, 4, stats.AddableComponents)
	assert.Equal(t, map[string]int{"Core": 2, "Rendering": 1, "Physics": 1}, stats.CategorizedComponents)

	groups := component.GetComponentsByCategory(registry)
	assert.Equal(t, []string{"Core", "Physics", "Rendering", metadata.DefaultComponentCategory},
		component.SortedCategories(groups))

	spriteProps := component.GetPropertiesByCategory(registry, metadata.TypeOf[Sprite]())
	require.Len(t, spriteProps["Layout"], 2)
	assert.Equal(t, "Layer", spriteProps["Layout"][0].Name)
	assert.Equal(t, "Anchor", spriteProps["Layout"][1].Name)
	require.Len(t, spriteProps["Appearance"], 3)
	assert.Equal(t, "FlipX", spriteProps["Appearance"][0].Name)
	assert.Len(t, spriteProps[metadata.DefaultPropertyCategory], 1)

	assert.False(t, component.CanRemoveComponent(registry, metadata.TypeOf[Name]()))
	assert.False(t, component.CanAddComponent(registry, metadata.TypeOf[Name]()))
	assert.True(t, component.CanRemoveComponent(registry, metadata.TypeOf[Sprite]()))
	assert.Equal(t, "🔊", component.GetComponentIcon(registry, metadata.TypeOf[AudioSource]()))
	assert.Equal(t, metadata.DefaultComponentCategory, component.GetComponentCategory(registry, metadata.TypeOf[AudioSource]()))
}
