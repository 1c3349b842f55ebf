package metadata

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/esengine/nova-ecs-editor/errors"
)

// TagName is the struct tag key read by DeclareTaggedProperties.
const TagName = "editor"

// ParseEditorTag parses an editor struct tag into a PropertyDescriptor.
//
// Tag Syntax:
//   - Directives are comma-separated
//   - Key-value pairs use colon: "key:value"
//   - Boolean flags have no colon: "readonly"
//   - Enum options are pipe-separated: "options:low|medium|high"
//   - Whitespace is trimmed from all values
//
// Directives: kind (required), name, description, category, order, min, max,
// step, options, readonly.
//
// Example Tags:
//
//	editor:"kind:range,name:Hit Points,min:0,max:100,category:Stats,order:1"
//	editor:"kind:enum,options:idle|walk|run"
//	editor:"readonly,kind:string,name:Entity Name"
func ParseEditorTag(tag string) (PropertyDescriptor, error) {
	var d PropertyDescriptor

	if strings.TrimSpace(tag) == "" {
		return d, errors.WrapInvalid(errors.ErrInvalidTag, "EditorTag", "ParseEditorTag", "empty tag check")
	}

	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if !strings.Contains(part, ":") {
			if err := parseFlag(part, &d); err != nil {
				return d, err
			}
			continue
		}

		if err := parseDirective(part, &d); err != nil {
			return d, err
		}
	}

	if d.Kind == "" {
		return d, errors.WrapInvalid(
			fmt.Errorf("%w: kind directive is required", errors.ErrInvalidTag),
			"EditorTag", "ParseEditorTag", "required field validation",
		)
	}

	return d, nil
}

func parseFlag(flag string, d *PropertyDescriptor) error {
	switch flag {
	case "readonly":
		d.ReadOnly = true
	default:
		return errors.WrapInvalid(
			fmt.Errorf("%w: unknown flag %q", errors.ErrInvalidTag, flag),
			"EditorTag", "parseFlag", "flag parsing",
		)
	}
	return nil
}

func parseDirective(part string, d *PropertyDescriptor) error {
	kv := strings.SplitN(part, ":", 2)
	key := strings.TrimSpace(kv[0])
	value := strings.TrimSpace(kv[1])

	if value == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: empty value for %s", errors.ErrInvalidTag, key),
			"EditorTag", "parseDirective", "value validation",
		)
	}

	switch key {
	case "kind":
		kind := PropertyKind(value)
		if !kind.Valid() {
			return errors.WrapInvalid(
				fmt.Errorf("%w: unknown kind %q", errors.ErrInvalidTag, value),
				"EditorTag", "parseDirective", "kind validation",
			)
		}
		d.Kind = kind
	case "name":
		d.DisplayName = value
	case "description":
		d.Description = value
	case "category":
		d.Category = value
	case "order":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.WrapInvalid(
				fmt.Errorf("%w: invalid order %q", errors.ErrInvalidTag, value),
				"EditorTag", "parseDirective", "order parsing",
			)
		}
		d.Order = &n
	case "min", "max", "step":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.WrapInvalid(
				fmt.Errorf("%w: invalid %s %q", errors.ErrInvalidTag, key, value),
				"EditorTag", "parseDirective", key+" parsing",
			)
		}
		switch key {
		case "min":
			d.Min = &f
		case "max":
			d.Max = &f
		default:
			d.Step = &f
		}
	case "options":
		d.Options = strings.Split(value, "|")
		for i := range d.Options {
			d.Options[i] = strings.TrimSpace(d.Options[i])
		}
	default:
		return errors.WrapInvalid(
			fmt.Errorf("%w: unknown directive %q", errors.ErrInvalidTag, key),
			"EditorTag", "parseDirective", "directive validation",
		)
	}

	return nil
}

// DeclareTaggedProperties declares a property for every exported field of T
// that carries an `editor` tag, in struct field order, keyed by the Go field
// name. Fields tagged "-" or without a tag are skipped.
//
// All tags are parsed before anything is written: a malformed tag returns an
// invalid-class error and leaves the store untouched.
func DeclareTaggedProperties[T any](s *Store) error {
	return declareTagged(s, TypeOf[T]())
}

// DeclareTaggedPropertiesOf is the non-generic form of DeclareTaggedProperties.
func DeclareTaggedPropertiesOf(s *Store, t reflect.Type) error {
	return declareTagged(s, normalize(t))
}

func declareTagged(s *Store, t reflect.Type) error {
	if t == nil || t.Kind() != reflect.Struct {
		return errors.WrapInvalid(errors.ErrNotStruct, "EditorTag", "DeclareTaggedProperties", "type validation")
	}

	var entries []PropertyEntry
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag, ok := field.Tag.Lookup(TagName)
		if !ok || tag == "-" {
			continue
		}

		d, err := ParseEditorTag(tag)
		if err != nil {
			return errors.Wrap(err, "EditorTag", "DeclareTaggedProperties",
				fmt.Sprintf("%s.%s tag parsing", t.Name(), field.Name))
		}
		entries = append(entries, PropertyEntry{Name: field.Name, Descriptor: d})
	}

	for _, e := range entries {
		DeclarePropertyOf(s, t, e.Name, e.Descriptor)
	}
	return nil
}
