// Package builtin declares the core components every editor session offers.
package builtin

import (
	"reflect"

	"github.com/esengine/nova-ecs-editor/errors"
	"github.com/esengine/nova-ecs-editor/metadata"
	"github.com/esengine/nova-ecs-editor/plugin"
)

// Vector2 is a 2D vector
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vector3 is a 3D vector
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Name labels an entity. Every entity carries one, so it cannot be removed.
type Name struct {
	Value string `editor:"kind:string,name:Name,order:0"`
	Tag   string `editor:"kind:string,name:Tag,order:1"`
}

// Transform places an entity in the scene
type Transform struct {
	Position Vector3 `editor:"kind:vector3,name:Position,order:0"`
	Rotation Vector3 `editor:"kind:vector3,name:Rotation,step:0.1,order:1"`
	Scale    Vector3 `editor:"kind:vector3,name:Scale,step:0.1,order:2"`
}

// Sprite draws a texture at the entity's transform
type Sprite struct {
	Texture string  `editor:"kind:string,name:Texture"`
	Tint    string  `editor:"kind:color,name:Tint,category:Appearance"`
	Opacity float64 `editor:"kind:range,name:Opacity,min:0,max:1,step:0.01,category:Appearance"`
	FlipX   bool    `editor:"kind:boolean,name:Flip X,category:Appearance,order:10"`
	Anchor  Vector2 `editor:"kind:vector2,name:Anchor,category:Layout"`
	Layer   int     `editor:"kind:number,name:Layer,category:Layout,order:0"`
}

// BodyType is how the physics step treats a RigidBody
type BodyType string

// RigidBody makes an entity take part in physics
type RigidBody struct {
	Type           BodyType
	Mass           float64
	Drag           float64
	GravityScale   float64
	FixedRotation  bool
	SleepThreshold float64 // engine managed
}

// AudioSource plays a clip from the entity's position
type AudioSource struct {
	Clip    string  `editor:"kind:string,name:Clip"`
	Volume  float64 `editor:"kind:range,name:Volume,min:0,max:1,step:0.05,order:0"`
	Pitch   float64 `editor:"kind:range,name:Pitch,min:0.1,max:3,step:0.1,order:1"`
	Loop    bool    `editor:"kind:boolean,name:Loop"`
	Rolloff string  `editor:"kind:enum,name:Rolloff,options:linear|logarithmic|none,category:Spatial"`
	Handle  uint64  `editor:"-"` // runtime voice handle
}

// Types returns the core component types in declaration order
func Types() []reflect.Type {
	return []reflect.Type{
		metadata.TypeOf[Name](),
		metadata.TypeOf[Transform](),
		metadata.TypeOf[Sprite](),
		metadata.TypeOf[RigidBody](),
		metadata.TypeOf[AudioSource](),
	}
}

// Declare writes the editor metadata of the core components into s
func Declare(s *metadata.Store) error {
	if _, err := metadata.Describe[Name](s).
		Component(metadata.ComponentOptions{
			DisplayName: "Name",
			Description: "Human readable entity label",
			Icon:        "🏷",
			Category:    "Core",
			Order:       metadata.Int(0),
			Removable:   metadata.Bool(false),
			Addable:     metadata.Bool(false),
		}).
		Tagged(); err != nil {
		return errors.Wrap(err, "Builtin", "Declare", "Name declaration")
	}

	if _, err := metadata.Describe[Transform](s).
		Component(metadata.ComponentOptions{
			DisplayName: "Transform",
			Description: "Position, rotation and scale",
			Icon:        "📐",
			Category:    "Core",
			Order:       metadata.Int(1),
			Removable:   metadata.Bool(false),
		}).
		Tagged(); err != nil {
		return errors.Wrap(err, "Builtin", "Declare", "Transform declaration")
	}

	metadata.DeclareComponent[Sprite](s, metadata.ComponentOptions{
		DisplayName: "Sprite",
		Description: "Draws a texture",
		Icon:        "🖼",
		Category:    "Rendering",
	})
	if err := metadata.DeclareTaggedProperties[Sprite](s); err != nil {
		return errors.Wrap(err, "Builtin", "Declare", "Sprite declaration")
	}

	// RigidBody is declared field by field; SleepThreshold stays hidden.
	metadata.Describe[RigidBody](s).
		Component(metadata.ComponentOptions{
			DisplayName: "Rigid Body",
			Description: "Dynamic, kinematic or static physics body",
			Icon:        "⚙",
			Category:    "Physics",
		}).
		Property("Type", metadata.PropertyDescriptor{
			Kind:    metadata.KindEnum,
			Options: []string{"dynamic", "kinematic", "static"},
			Order:   metadata.Int(0),
		}).
		Property("Mass", metadata.PropertyDescriptor{
			Kind: metadata.KindNumber, Min: metadata.Float(0), Step: metadata.Float(0.1), Order: metadata.Int(1),
		}).
		Property("Drag", metadata.PropertyDescriptor{
			Kind: metadata.KindRange, Min: metadata.Float(0), Max: metadata.Float(1), Step: metadata.Float(0.01),
		}).
		Property("GravityScale", metadata.PropertyDescriptor{
			Kind: metadata.KindNumber, DisplayName: "Gravity Scale", Step: metadata.Float(0.1),
		}).
		Property("FixedRotation", metadata.PropertyDescriptor{
			Kind: metadata.KindBoolean, DisplayName: "Fixed Rotation", Category: "Constraints",
		})

	// No category: counted under Uncategorized when grouped, left out of statistics.
	if _, err := metadata.Describe[AudioSource](s).
		Component(metadata.ComponentOptions{
			DisplayName: "Audio Source",
			Description: "Plays an audio clip",
			Icon:        "🔊",
		}).
		Tagged(); err != nil {
		return errors.Wrap(err, "Builtin", "Declare", "AudioSource declaration")
	}

	return nil
}

// CorePlugin returns a plugin contributing the core components
func CorePlugin() *plugin.ComponentPlugin {
	return plugin.NewComponentPlugin(plugin.Metadata{
		Name:        "core",
		Version:     "1.0.0",
		Description: "Core editor components",
	}, Types()...)
}
