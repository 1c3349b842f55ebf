package component

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/esengine/nova-ecs-editor/metadata"
)

// DefaultIcon is shown for components that declare no icon
const DefaultIcon = "📦"

// GetAddableComponents returns the addable registrations sorted by order.
// Ties keep registration order.
func GetAddableComponents(r *Registry) []Registration {
	regs := r.GetAddable()
	sortByOrder(regs)
	return regs
}

// GetComponentsByCategory groups every registration by category, filing
// components without one under metadata.DefaultComponentCategory. Each group
// is sorted by order.
func GetComponentsByCategory(r *Registry) map[string][]Registration {
	groups := make(map[string][]Registration)
	for _, reg := range r.GetAll() {
		category := reg.Metadata.EffectiveCategory()
		groups[category] = append(groups[category], reg)
	}
	for _, regs := range groups {
		sortByOrder(regs)
	}
	return groups
}

// SortedCategories returns the keys of a grouping in lexical order
func SortedCategories[V any](groups map[string]V) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// GetPropertiesByCategory groups the registered properties of t by category,
// filing fields without one under metadata.DefaultPropertyCategory. Each group
// is sorted by order, ties keeping declaration order. Unregistered types yield
// an empty map.
func GetPropertiesByCategory(r *Registry, t reflect.Type) map[string][]metadata.PropertyEntry {
	groups := make(map[string][]metadata.PropertyEntry)
	reg, ok := r.Get(t)
	if !ok {
		return groups
	}
	for _, entry := range reg.Properties.Entries() {
		category := entry.Descriptor.EffectiveCategory()
		groups[category] = append(groups[category], entry)
	}
	for _, entries := range groups {
		slices.SortStableFunc(entries, func(a, b metadata.PropertyEntry) int {
			return cmp.Compare(a.Descriptor.EffectiveOrder(), b.Descriptor.EffectiveOrder())
		})
	}
	return groups
}

// GetComponentDisplayName returns the declared display name or the Go type name
func GetComponentDisplayName(r *Registry, t reflect.Type) string {
	if reg, ok := r.Get(t); ok {
		return reg.Metadata.DisplayName
	}
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return typeName(t)
}

// GetComponentIcon returns the declared icon or DefaultIcon
func GetComponentIcon(r *Registry, t reflect.Type) string {
	if reg, ok := r.Get(t); ok && reg.Metadata.Icon != "" {
		return reg.Metadata.Icon
	}
	return DefaultIcon
}

// GetComponentCategory returns the declared category or metadata.DefaultComponentCategory
func GetComponentCategory(r *Registry, t reflect.Type) string {
	if reg, ok := r.Get(t); ok {
		return reg.Metadata.EffectiveCategory()
	}
	return metadata.DefaultComponentCategory
}

// CanRemoveComponent reports whether the editor may detach t from an entity.
// Only an explicit removable=false forbids it.
func CanRemoveComponent(r *Registry, t reflect.Type) bool {
	if reg, ok := r.Get(t); ok {
		return reg.Metadata.Removable
	}
	return true
}

// CanAddComponent reports whether the editor may attach t to an entity.
// Only an explicit addable=false forbids it.
func CanAddComponent(r *Registry, t reflect.Type) bool {
	if reg, ok := r.Get(t); ok {
		return reg.Metadata.Addable
	}
	return true
}

// QualifiedName returns the import path qualified type name, such as
// "github.com/esengine/nova-ecs-editor/builtin.Transform". Unnamed types fall
// back to their type string.
func QualifiedName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
