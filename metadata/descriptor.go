package metadata

// PropertyKind identifies the editor control used for a field
type PropertyKind string

const (
	// KindString renders a text input
	KindString PropertyKind = "string"
	// KindNumber renders a numeric input
	KindNumber PropertyKind = "number"
	// KindBoolean renders a checkbox
	KindBoolean PropertyKind = "boolean"
	// KindVector2 renders an x/y pair
	KindVector2 PropertyKind = "vector2"
	// KindVector3 renders an x/y/z triple
	KindVector3 PropertyKind = "vector3"
	// KindColor renders a color picker
	KindColor PropertyKind = "color"
	// KindRange renders a slider bounded by Min/Max
	KindRange PropertyKind = "range"
	// KindEnum renders a dropdown over Options
	KindEnum PropertyKind = "enum"
)

// Kinds lists every known PropertyKind in declaration order.
var Kinds = []PropertyKind{
	KindString, KindNumber, KindBoolean, KindVector2,
	KindVector3, KindColor, KindRange, KindEnum,
}

// Valid reports whether k is one of the known kinds.
func (k PropertyKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Grouping defaults. The component and property labels differ on purpose and
// are user-facing group keys.
const (
	DefaultComponentCategory = "Uncategorized"
	DefaultPropertyCategory  = "General"
	DefaultOrder             = 999
)

// PropertyDescriptor is the editor hint declared for a single field.
// Min, Max and Step only mean something for number and range kinds; Options only
// for enum. Combinations are not validated.
type PropertyDescriptor struct {
	Kind        PropertyKind `json:"kind" yaml:"kind"`
	DisplayName string       `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	ReadOnly    bool         `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Min         *float64     `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64     `json:"max,omitempty" yaml:"max,omitempty"`
	Step        *float64     `json:"step,omitempty" yaml:"step,omitempty"`
	Options     []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Category    string       `json:"category,omitempty" yaml:"category,omitempty"`
	Order       *int         `json:"order,omitempty" yaml:"order,omitempty"`
}

// Clone returns a copy that shares no pointers or slices with d.
func (d PropertyDescriptor) Clone() PropertyDescriptor {
	d.Min = cloneFloat(d.Min)
	d.Max = cloneFloat(d.Max)
	d.Step = cloneFloat(d.Step)
	d.Order = cloneInt(d.Order)
	if d.Options != nil {
		d.Options = append([]string(nil), d.Options...)
	}
	return d
}

// EffectiveCategory returns the category or DefaultPropertyCategory.
func (d PropertyDescriptor) EffectiveCategory() string {
	if d.Category == "" {
		return DefaultPropertyCategory
	}
	return d.Category
}

// EffectiveOrder returns the order or DefaultOrder.
func (d PropertyDescriptor) EffectiveOrder() int {
	return OrderOf(d.Order)
}

// ComponentDescriptor is the editor-facing description of a component type.
type ComponentDescriptor struct {
	DisplayName string `json:"displayName" yaml:"displayName"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Removable   bool   `json:"removable" yaml:"removable"`
	Addable     bool   `json:"addable" yaml:"addable"`
	Order       *int   `json:"order,omitempty" yaml:"order,omitempty"`
}

// Clone returns a copy that shares no pointers with d.
func (d ComponentDescriptor) Clone() ComponentDescriptor {
	d.Order = cloneInt(d.Order)
	return d
}

// EffectiveCategory returns the category or DefaultComponentCategory.
func (d ComponentDescriptor) EffectiveCategory() string {
	if d.Category == "" {
		return DefaultComponentCategory
	}
	return d.Category
}

// EffectiveOrder returns the order or DefaultOrder.
func (d ComponentDescriptor) EffectiveOrder() int {
	return OrderOf(d.Order)
}

// ComponentOptions is what an author supplies when declaring a component.
// Removable and Addable are pointers so that "omitted" and "false" differ;
// only an explicit false disables them.
type ComponentOptions struct {
	DisplayName string `json:"displayName" yaml:"displayName"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Removable   *bool  `json:"removable,omitempty" yaml:"removable,omitempty"`
	Addable     *bool  `json:"addable,omitempty" yaml:"addable,omitempty"`
	Order       *int   `json:"order,omitempty" yaml:"order,omitempty"`
}

// NewComponentDescriptor builds a descriptor from options, defaulting Removable
// and Addable to true unless explicitly false.
func NewComponentDescriptor(opts ComponentOptions) ComponentDescriptor {
	return ComponentDescriptor{
		DisplayName: opts.DisplayName,
		Description: opts.Description,
		Icon:        opts.Icon,
		Category:    opts.Category,
		Removable:   opts.Removable == nil || *opts.Removable,
		Addable:     opts.Addable == nil || *opts.Addable,
		Order:       cloneInt(opts.Order),
	}
}

// OrderOf resolves an optional order to its sort key.
func OrderOf(order *int) int {
	if order == nil {
		return DefaultOrder
	}
	return *order
}

// Int returns a pointer to v, for optional Order fields.
func Int(v int) *int { return &v }

// Float returns a pointer to v, for optional Min/Max/Step fields.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for optional Removable/Addable fields.
func Bool(v bool) *bool { return &v }

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
