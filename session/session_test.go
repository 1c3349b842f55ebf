package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esengine/nova-ecs-editor/errors"
	"github.com/esengine/nova-ecs-editor/metadata"
	"github.com/esengine/nova-ecs-editor/metric"
)

type rigidBody struct{}
type script struct{}

func newStore() *metadata.Store {
	store := metadata.NewStore()
	metadata.DeclareComponent[rigidBody](store, metadata.ComponentOptions{DisplayName: "Rigid Body", Category: "Physics"})
	metadata.DeclareComponent[script](store, metadata.ComponentOptions{DisplayName: "Script"})
	return store
}

func TestManager_OpenPopulatesRegistry(t *testing.T) {
	m := NewManager(newStore(), nil, nil)

	s := m.Open()
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, 2, s.Registry.Len())
	assert.True(t, s.Registry.Has(metadata.TypeOf[rigidBody]()))
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m := NewManager(newStore(), nil, nil)
	a := m.Open()
	b := m.Open()

	a.Registry.Clear()

	assert.Equal(t, 0, a.Registry.Len())
	assert.Equal(t, 2, b.Registry.Len())
}

func TestManager_GetLookupClose(t *testing.T) {
	metrics := metric.NewMetrics()
	m := NewManager(newStore(), nil, metrics)
	s := m.Open()

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	got, err = m.Lookup(s.ID.String())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ActiveSessions))

	require.NoError(t, m.Close(s.ID))
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, s.Registry.Len())
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ActiveSessions))

	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)

	err = m.Close(s.ID)
	assert.True(t, errors.IsInvalid(err))

	_, err = m.Lookup("not-a-uuid")
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestManager_List(t *testing.T) {
	m := NewManager(newStore(), nil, nil)
	first := m.Open()
	second := m.Open()

	list := m.List()
	require.Len(t, list, 2)
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, []uuid.UUID{list[0].ID, list[1].ID})
	assert.False(t, list[1].CreatedAt.Before(list[0].CreatedAt))
}
