package catalog

import (
	"context"
	"os"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esengine/nova-ecs-editor/component"
	"github.com/esengine/nova-ecs-editor/errors"
	"github.com/esengine/nova-ecs-editor/metadata"
	"github.com/esengine/nova-ecs-editor/natsclient"
)

// memoryKV implements the part of jetstream.KeyValue the store uses
type memoryKV struct {
	jetstream.KeyValue
	mu   sync.Mutex
	data map[string][]byte
	rev  uint64
}

func newMemoryKV() *memoryKV { return &memoryKV{data: make(map[string][]byte)} }

func (m *memoryKV) Put(_ context.Context, key string, value []byte) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rev++
	m.data[key] = append([]byte(nil), value...)
	return m.rev, nil
}

func (m *memoryKV) Get(_ context.Context, key string) (jetstream.KeyValueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return entry{key: key, value: v, rev: m.rev}, nil
}

func (m *memoryKV) Keys(_ context.Context, _ ...jetstream.WatchOpt) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.data) == 0 {
		return nil, jetstream.ErrNoKeysFound
	}
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memoryKV) Delete(_ context.Context, key string, _ ...jetstream.KVDeleteOpt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type entry struct {
	key   string
	value []byte
	rev   uint64
}

func (e entry) Bucket() string                  { return "memory" }
func (e entry) Key() string                     { return e.key }
func (e entry) Value() []byte                   { return e.value }
func (e entry) Revision() uint64                { return e.rev }
func (e entry) Created() time.Time              { return time.Time{} }
func (e entry) Delta() uint64                   { return 0 }
func (e entry) Operation() jetstream.KeyValueOp { return jetstream.KeyValuePut }

type transform struct {
	X float64 `editor:"kind:number,name:X"`
}
type camera struct{}

func newRegistry() *component.Registry {
	store := metadata.NewStore()
	metadata.DeclareComponent[transform](store, metadata.ComponentOptions{DisplayName: "Transform", Category: "Core"})
	_ = metadata.DeclareTaggedProperties[transform](store)
	metadata.DeclareComponent[camera](store, metadata.ComponentOptions{DisplayName: "Camera"})
	registry := component.NewRegistry(store)
	component.RegisterType[transform](registry)
	component.RegisterType[camera](registry)
	return registry
}

func TestKey(t *testing.T) {
	assert.Equal(t, "_", Key(""))
	assert.Equal(t, "builtin.Transform", Key("builtin.Transform"))
	assert.Equal(t, "Pair_int_string_", Key("Pair[int,string]"))
	assert.Equal(t, "a_b", Key("a b"))
}

func TestStore_SyncAndList(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	s := NewStore(kv)
	registry := newRegistry()

	result, err := s.Sync(ctx, registry)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Written: 2}, result)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Transform", list[0].Metadata.DisplayName)
	assert.Equal(t, "Camera", list[1].Metadata.DisplayName)
	require.Len(t, list[0].Properties, 1)
	assert.Equal(t, "X", list[0].Properties[0].Name)

	registry.Clear()
	component.RegisterType[camera](registry)
	result, err = s.Sync(ctx, registry)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Written: 1, Deleted: 1}, result)

	cam, ok := registry.Get(metadata.TypeOf[camera]())
	require.True(t, ok)
	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{EntryKey(cam)}, keys)
}

func TestEntryKey(t *testing.T) {
	registry := newRegistry()
	cam, ok := registry.Get(metadata.TypeOf[camera]())
	require.True(t, ok)

	assert.Equal(t, "github.com_esengine_nova-ecs-editor_catalog.camera."+strconv.FormatUint(uint64(cam.ID), 10),
		EntryKey(cam))
}

func localTransformA() reflect.Type {
	type Transform struct{ A float64 }
	return reflect.TypeOf(Transform{})
}

func localTransformB() reflect.Type {
	type Transform struct{ B float64 }
	return reflect.TypeOf(Transform{})
}

func TestStore_SyncKeepsSameNamedTypesApart(t *testing.T) {
	ctx := context.Background()
	store := metadata.NewStore()
	a, b := localTransformA(), localTransformB()
	metadata.DeclareComponentType(store, a, metadata.ComponentOptions{DisplayName: "Local Transform"})
	metadata.DeclareComponentType(store, b, metadata.ComponentOptions{DisplayName: "Other Transform"})
	registry := component.NewRegistry(store)
	require.True(t, registry.Register(a))
	require.True(t, registry.Register(b))

	s := NewStore(newMemoryKV())
	result, err := s.Sync(ctx, registry)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Written: 2}, result)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Local Transform", list[0].Metadata.DisplayName)
	assert.Equal(t, "Other Transform", list[1].Metadata.DisplayName)

	result, err = s.Sync(ctx, registry)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Written: 2}, result)
}

func TestStore_EmptyAndMissing(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemoryKV())

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = s.Get(ctx, "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, errors.IsInvalid(err))

	_, err = s.Sync(ctx, nil)
	assert.True(t, errors.IsFatal(err))
}

func TestOpen_NilClient(t *testing.T) {
	_, err := Open(context.Background(), nil, "")
	assert.True(t, errors.IsInvalid(err))
}

func TestIntegration_SyncToJetStream(t *testing.T) {
	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("set INTEGRATION_TESTS to run against a NATS container")
	}
	ctx := context.Background()
	tc := natsclient.NewTestClient(t)

	s, err := Open(ctx, tc.Client, "")
	require.NoError(t, err)

	registry := newRegistry()
	result, err := s.Sync(ctx, registry)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Written)

	reg, ok := registry.Get(metadata.TypeOf[transform]())
	require.True(t, ok)
	c, err := s.Get(ctx, EntryKey(reg))
	require.NoError(t, err)
	assert.Equal(t, "Core", c.Metadata.Category)
}
