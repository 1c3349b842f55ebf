// Package metadata stores editor-facing descriptors for component types.
//
// Two kinds of metadata are kept per type: one ComponentDescriptor (display
// name, icon, category, addable/removable flags, sort order) and an ordered
// PropertyMap of per-field PropertyDescriptors (control kind, bounds, options,
// category, sort order).
//
// # Declaring
//
// Authors declare metadata right after defining a type:
//
//	type Health struct {
//	    HP float64 `editor:"kind:range,name:Hit Points,min:0,max:100,category:Stats,order:1"`
//	}
//
//	func init() {
//	    metadata.DeclareComponent[Health](store, metadata.ComponentOptions{
//	        DisplayName: "Health",
//	        Category:    "Gameplay",
//	        Order:       metadata.Int(2),
//	    })
//	    if err := metadata.DeclareTaggedProperties[Health](store); err != nil {
//	        panic(err)
//	    }
//	}
//
// or with the builder:
//
//	metadata.Describe[Mana](store).
//	    Component(metadata.ComponentOptions{DisplayName: "Mana"}).
//	    Property("MP", metadata.PropertyDescriptor{Kind: metadata.KindNumber})
//
// Declarations never fail: missing required fields are a caller mistake, not a
// runtime condition. Only the struct tag parser returns errors.
//
// # Identity
//
// A component type is its reflect.Type; pointer types resolve to their element.
// The Store assigns each type a TypeID on first use and keys every descriptor
// map by that id. The declared-types listing holds ids too, so enumeration
// never needs to walk live instances and lookups never iterate.
package metadata
