package metadata

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeHealth struct{ HP float64 }
type storeMana struct{ MP float64 }
type storeUndeclared struct{}

func TestStore_ComponentMetadata(t *testing.T) {
	s := NewStore()
	typ := TypeOf[storeHealth]()

	_, ok := s.GetComponentMetadata(typ)
	assert.False(t, ok)
	assert.False(t, s.HasComponentMetadata(typ))

	s.SetComponentMetadata(typ, ComponentDescriptor{DisplayName: "Health", Addable: true})
	d, ok := s.GetComponentMetadata(typ)
	require.True(t, ok)
	assert.Equal(t, "Health", d.DisplayName)
	assert.True(t, s.HasComponentMetadata(typ))

	s.SetComponentMetadata(typ, ComponentDescriptor{DisplayName: "Vitality"})
	d, _ = s.GetComponentMetadata(typ)
	assert.Equal(t, "Vitality", d.DisplayName)
}

func TestStore_PointerTypesShareMetadata(t *testing.T) {
	s := NewStore()
	s.SetComponentMetadata(reflect.TypeOf(&storeHealth{}), ComponentDescriptor{DisplayName: "Health"})

	assert.True(t, s.HasComponentMetadata(reflect.TypeOf(storeHealth{})))

	ptrID, ok := s.TypeID(reflect.TypeOf(&storeHealth{}))
	require.True(t, ok)
	valID, ok := s.TypeID(reflect.TypeOf(storeHealth{}))
	require.True(t, ok)
	assert.Equal(t, valID, ptrID)
}

func TestStore_NilTypeIsAbsent(t *testing.T) {
	s := NewStore()
	s.SetComponentMetadata(nil, ComponentDescriptor{DisplayName: "ghost"})
	s.SetPropertyMetadata(nil, "x", PropertyDescriptor{Kind: KindNumber})

	assert.False(t, s.HasComponentMetadata(nil))
	assert.Equal(t, 0, s.GetAllPropertyMetadata(nil).Len())
	_, ok := s.TypeID(nil)
	assert.False(t, ok)
}

func TestStore_PropertyMetadataOrder(t *testing.T) {
	s := NewStore()
	typ := TypeOf[storeHealth]()

	assert.Equal(t, 0, s.GetAllPropertyMetadata(typ).Len())

	s.SetPropertyMetadata(typ, "current", PropertyDescriptor{Kind: KindNumber})
	s.SetPropertyMetadata(typ, "max", PropertyDescriptor{Kind: KindNumber})
	s.SetPropertyMetadata(typ, "current", PropertyDescriptor{Kind: KindRange})

	props := s.GetAllPropertyMetadata(typ)
	assert.Equal(t, []string{"current", "max"}, props.Names())

	d, ok := s.GetPropertyMetadata(typ, "current")
	require.True(t, ok)
	assert.Equal(t, KindRange, d.Kind)

	_, ok = s.GetPropertyMetadata(typ, "missing")
	assert.False(t, ok)
	_, ok = s.GetPropertyMetadata(TypeOf[storeMana](), "current")
	assert.False(t, ok)
}

func TestStore_ReturnedValuesAreCopies(t *testing.T) {
	s := NewStore()
	typ := TypeOf[storeHealth]()
	s.SetPropertyMetadata(typ, "mode", PropertyDescriptor{Kind: KindEnum, Options: []string{"a", "b"}, Order: Int(1)})

	d, _ := s.GetPropertyMetadata(typ, "mode")
	d.Options[0] = "mutated"
	*d.Order = 50

	again, _ := s.GetPropertyMetadata(typ, "mode")
	assert.Equal(t, []string{"a", "b"}, again.Options)
	assert.Equal(t, 1, *again.Order)
}

func TestStore_TypeArena(t *testing.T) {
	s := NewStore()
	health := TypeOf[storeHealth]()
	mana := TypeOf[storeMana]()

	s.SetComponentMetadata(health, ComponentDescriptor{DisplayName: "Health"})
	s.SetPropertyMetadata(mana, "MP", PropertyDescriptor{Kind: KindNumber})

	hid, ok := s.TypeID(health)
	require.True(t, ok)
	mid, ok := s.TypeID(mana)
	require.True(t, ok)
	assert.NotEqual(t, hid, mid)

	resolved, ok := s.TypeByID(mid)
	require.True(t, ok)
	assert.Equal(t, mana, resolved)

	_, ok = s.TypeByID(0)
	assert.False(t, ok)
	_, ok = s.TypeByID(TypeID(42))
	assert.False(t, ok)

	_, ok = s.TypeID(TypeOf[storeUndeclared]())
	assert.False(t, ok)
}

func TestStore_ClearAll(t *testing.T) {
	s := NewStore()
	health := DeclareComponent[storeHealth](s, ComponentOptions{DisplayName: "Health"})
	DeclareProperty[storeHealth](s, "HP", PropertyDescriptor{Kind: KindNumber})
	idBefore, _ := s.TypeID(health)

	s.ClearAll()

	assert.Empty(t, s.GetAllRegisteredComponentTypes())
	assert.Equal(t, 0, s.DeclaredCount())
	assert.False(t, s.HasComponentMetadata(health))
	assert.Equal(t, 0, s.GetAllPropertyMetadata(health).Len())

	// ids survive a reset so stale ids never alias a new type
	DeclareComponent[storeMana](s, ComponentOptions{DisplayName: "Mana"})
	idAfter, _ := s.TypeID(health)
	manaID, _ := s.TypeID(TypeOf[storeMana]())
	assert.Equal(t, idBefore, idAfter)
	assert.NotEqual(t, idBefore, manaID)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	typ := TypeOf[storeHealth]()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			DeclareComponent[storeHealth](s, ComponentOptions{DisplayName: "Health"})
			s.SetPropertyMetadata(typ, "HP", PropertyDescriptor{Kind: KindNumber})
		}()
		go func() {
			defer wg.Done()
			_ = s.HasComponentMetadata(typ)
			_ = s.GetAllPropertyMetadata(typ)
			_ = s.GetAllRegisteredComponentTypes()
		}()
	}
	wg.Wait()

	assert.Len(t, s.GetAllRegisteredComponentTypes(), 1)
}
