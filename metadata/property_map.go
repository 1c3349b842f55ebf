package metadata

import (
	"encoding/json"
)

// PropertyEntry pairs a field name with its descriptor.
type PropertyEntry struct {
	Name       string             `json:"name" yaml:"name"`
	Descriptor PropertyDescriptor `json:"descriptor" yaml:"descriptor"`
}

// PropertyMap is an ordered field name -> PropertyDescriptor mapping.
// Order is first insertion; overwriting a field keeps its position.
// The zero value is an empty map.
type PropertyMap struct {
	entries []PropertyEntry
	index   map[string]int
}

// NewPropertyMap builds a map from entries; later duplicates overwrite earlier ones
// in place.
func NewPropertyMap(entries ...PropertyEntry) PropertyMap {
	var m PropertyMap
	for _, e := range entries {
		m.set(e.Name, e.Descriptor)
	}
	return m
}

// Len returns the number of fields.
func (m PropertyMap) Len() int {
	return len(m.entries)
}

// Get returns the descriptor for a field.
func (m PropertyMap) Get(name string) (PropertyDescriptor, bool) {
	i, ok := m.index[name]
	if !ok {
		return PropertyDescriptor{}, false
	}
	return m.entries[i].Descriptor.Clone(), true
}

// Has reports whether the field is present.
func (m PropertyMap) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Names returns field names in order.
func (m PropertyMap) Names() []string {
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the entries in order.
func (m PropertyMap) Entries() []PropertyEntry {
	out := make([]PropertyEntry, len(m.entries))
	for i, e := range m.entries {
		out[i] = PropertyEntry{Name: e.Name, Descriptor: e.Descriptor.Clone()}
	}
	return out
}

// MarshalJSON encodes the map as an ordered list of entries.
func (m PropertyMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Entries())
}

// UnmarshalJSON decodes an ordered list of entries.
func (m *PropertyMap) UnmarshalJSON(data []byte) error {
	var entries []PropertyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*m = NewPropertyMap(entries...)
	return nil
}

// MarshalYAML encodes the map as an ordered list of entries.
func (m PropertyMap) MarshalYAML() (any, error) {
	return m.Entries(), nil
}

func (m *PropertyMap) set(name string, d PropertyDescriptor) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	d = d.Clone()
	if i, ok := m.index[name]; ok {
		m.entries[i].Descriptor = d
		return
	}
	m.index[name] = len(m.entries)
	m.entries = append(m.entries, PropertyEntry{Name: name, Descriptor: d})
}

func (m PropertyMap) clone() PropertyMap {
	return NewPropertyMap(m.entries...)
}
