package metadata

import (
	"reflect"
	"sync"
)

// TypeID is the stable identifier the Store assigns to a component type on first
// use. Ids are never recycled, not even by ClearAll, so a stale id can never
// alias a different type.
type TypeID uint32

// Store holds component-level and property-level descriptors keyed by type.
//
// Descriptors are keyed by TypeID. The arena (ids and types) owns the
// TypeID -> reflect.Type table; the declared list records, in declaration
// order, which types went through DeclareComponent. Lookups never iterate.
//
// Store is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	ids   map[reflect.Type]TypeID
	types []reflect.Type // types[id-1]

	components map[TypeID]ComponentDescriptor
	properties map[TypeID]*PropertyMap

	declared    []TypeID
	declaredSet map[TypeID]struct{}
}

// NewStore creates an empty metadata store
func NewStore() *Store {
	return &Store{
		ids:         make(map[reflect.Type]TypeID),
		components:  make(map[TypeID]ComponentDescriptor),
		properties:  make(map[TypeID]*PropertyMap),
		declaredSet: make(map[TypeID]struct{}),
	}
}

// normalize maps pointer types onto their element type so *Health and Health
// share metadata.
func normalize(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// TypeID returns the id assigned to t, if any.
func (s *Store) TypeID(t reflect.Type) (TypeID, bool) {
	t = normalize(t)
	if t == nil {
		return 0, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.ids[t]
	return id, ok
}

// TypeByID resolves an id back to its type.
func (s *Store) TypeByID(id TypeID) (reflect.Type, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.typeByIDLocked(id)
}

func (s *Store) typeByIDLocked(id TypeID) (reflect.Type, bool) {
	if id == 0 || int(id) > len(s.types) {
		return nil, false
	}
	return s.types[id-1], true
}

// idForLocked returns the id of t, assigning one if needed. Caller holds the write lock.
func (s *Store) idForLocked(t reflect.Type) TypeID {
	if id, ok := s.ids[t]; ok {
		return id
	}
	s.types = append(s.types, t)
	id := TypeID(len(s.types))
	s.ids[t] = id
	return id
}

// SetComponentMetadata stores the component descriptor for t, replacing any previous one.
func (s *Store) SetComponentMetadata(t reflect.Type, d ComponentDescriptor) {
	t = normalize(t)
	if t == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components[s.idForLocked(t)] = d.Clone()
}

// GetComponentMetadata returns the component descriptor for t.
func (s *Store) GetComponentMetadata(t reflect.Type) (ComponentDescriptor, bool) {
	t = normalize(t)
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.ids[t]
	if !ok {
		return ComponentDescriptor{}, false
	}
	d, ok := s.components[id]
	if !ok {
		return ComponentDescriptor{}, false
	}
	return d.Clone(), true
}

// HasComponentMetadata reports whether t has a component descriptor.
func (s *Store) HasComponentMetadata(t reflect.Type) bool {
	_, ok := s.GetComponentMetadata(t)
	return ok
}

// SetPropertyMetadata stores the descriptor for one field of t. The field map is
// created on first use and keeps first-insertion order.
func (s *Store) SetPropertyMetadata(t reflect.Type, field string, d PropertyDescriptor) {
	t = normalize(t)
	if t == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.idForLocked(t)
	props, ok := s.properties[id]
	if !ok {
		props = &PropertyMap{}
		s.properties[id] = props
	}
	props.set(field, d)
}

// GetPropertyMetadata returns the descriptor for one field of t.
func (s *Store) GetPropertyMetadata(t reflect.Type, field string) (PropertyDescriptor, bool) {
	t = normalize(t)
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.ids[t]
	if !ok {
		return PropertyDescriptor{}, false
	}
	props, ok := s.properties[id]
	if !ok {
		return PropertyDescriptor{}, false
	}
	return props.Get(field)
}

// GetAllPropertyMetadata returns a copy of the field map of t, empty if none.
func (s *Store) GetAllPropertyMetadata(t reflect.Type) PropertyMap {
	t = normalize(t)
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.ids[t]
	if !ok {
		return PropertyMap{}
	}
	props, ok := s.properties[id]
	if !ok {
		return PropertyMap{}
	}
	return props.clone()
}

// GetAllRegisteredComponentTypes lists every type declared through
// DeclareComponent, in first declaration order.
func (s *Store) GetAllRegisteredComponentTypes() []reflect.Type {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]reflect.Type, 0, len(s.declared))
	for _, id := range s.declared {
		if t, ok := s.typeByIDLocked(id); ok {
			out = append(out, t)
		}
	}
	return out
}

// DeclaredCount returns the number of declared component types.
func (s *Store) DeclaredCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.declared)
}

// declare writes the descriptor and records the type in the declared list once.
func (s *Store) declare(t reflect.Type, d ComponentDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.idForLocked(t)
	s.components[id] = d.Clone()
	if _, seen := s.declaredSet[id]; !seen {
		s.declaredSet[id] = struct{}{}
		s.declared = append(s.declared, id)
	}
}

// ClearAll drops every descriptor and the declared list. Intended for test
// isolation. Type ids stay assigned.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components = make(map[TypeID]ComponentDescriptor)
	s.properties = make(map[TypeID]*PropertyMap)
	s.declared = nil
	s.declaredSet = make(map[TypeID]struct{})
}
