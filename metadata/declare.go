package metadata

import "reflect"

// TypeOf returns the component type identity of T. Pointer types resolve to
// their element type.
func TypeOf[T any]() reflect.Type {
	return normalize(reflect.TypeFor[T]())
}

// DeclareComponent attaches component metadata to T and adds T to the declared
// types listing. Declaring again replaces the descriptor without duplicating
// the listing entry.
//
//	type Health struct{ HP float64 }
//
//	var _ = metadata.DeclareComponent[Health](store, metadata.ComponentOptions{
//	    DisplayName: "Health",
//	    Category:    "Gameplay",
//	})
func DeclareComponent[T any](s *Store, opts ComponentOptions) reflect.Type {
	return DeclareComponentType(s, TypeOf[T](), opts)
}

// DeclareComponentType is the non-generic form of DeclareComponent.
func DeclareComponentType(s *Store, t reflect.Type, opts ComponentOptions) reflect.Type {
	t = normalize(t)
	if s == nil || t == nil {
		return t
	}
	s.declare(t, NewComponentDescriptor(opts))
	return t
}

// DeclareProperty attaches a field descriptor to T, stored as given.
func DeclareProperty[T any](s *Store, field string, d PropertyDescriptor) reflect.Type {
	t := TypeOf[T]()
	DeclarePropertyOf(s, t, field, d)
	return t
}

// DeclarePropertyOf is the non-generic form of DeclareProperty.
func DeclarePropertyOf(s *Store, t reflect.Type, field string, d PropertyDescriptor) {
	if s == nil {
		return
	}
	s.SetPropertyMetadata(t, field, d)
}

// Builder declares a component and its fields in one chain:
//
//	metadata.Describe[Health](store).
//	    Component(metadata.ComponentOptions{DisplayName: "Health"}).
//	    Property("HP", metadata.PropertyDescriptor{Kind: metadata.KindRange})
type Builder struct {
	store *Store
	typ   reflect.Type
}

// Describe starts a declaration chain for T.
func Describe[T any](s *Store) *Builder {
	return &Builder{store: s, typ: TypeOf[T]()}
}

// Component declares the component-level metadata.
func (b *Builder) Component(opts ComponentOptions) *Builder {
	DeclareComponentType(b.store, b.typ, opts)
	return b
}

// Property declares one field.
func (b *Builder) Property(field string, d PropertyDescriptor) *Builder {
	DeclarePropertyOf(b.store, b.typ, field, d)
	return b
}

// Tagged declares every `editor` tagged field of the type.
func (b *Builder) Tagged() (*Builder, error) {
	if err := declareTagged(b.store, b.typ); err != nil {
		return b, err
	}
	return b, nil
}

// Type returns the type being described.
func (b *Builder) Type() reflect.Type {
	return b.typ
}
