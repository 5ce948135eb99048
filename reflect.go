package gqlshape

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/gqlshape/schema/types"
)

// StructOf builds a Struct from a Go struct type. v may be a struct value, a
// pointer to one, or its reflect.Type.
//
// Fields are read from the `graphql` tag:
//
//	type User struct {
//		ID        int        `graphql:"id,primary_key"`
//		GroupID   int        `graphql:",foreign_key"`
//		Name      *string    // optional, key "name"
//		Email     string     `validate:"required,email"`
//		Secret    string     `graphql:"-"`
//	}
//
// Key names default to the json tag name, or the snake-cased field name.
// Pointers are optional, slices are lists, maps are unstructured hashes and
// nested structs are reflected when they are reduced.
func StructOf(v any) (*Struct, error) {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, &TypeMappingError{Value: v, Reason: "not a struct type"}
	}
	if t.Name() == "" {
		return nil, NewNameGenerationError(t, errEmptyName)
	}
	keys, err := reflectKeys(t)
	if err != nil {
		return nil, err
	}
	s := NewStruct(t.Name(), keys...)
	s.origin = t
	if t.PkgPath() != "" {
		s.model = t.PkgPath() + "." + t.Name()
	}
	return s, nil
}

// MustStructOf is like StructOf but panics on error.
func MustStructOf(v any) *Struct {
	s, err := StructOf(v)
	if err != nil {
		panic(err)
	}
	return s
}

type fieldTag struct {
	name       string
	skip       bool
	primaryKey bool
	foreignKey bool
}

func parseTag(f reflect.StructField) fieldTag {
	var tag fieldTag
	raw, ok := f.Tag.Lookup("graphql")
	if raw == "-" {
		return fieldTag{skip: true}
	}
	if ok {
		parts := strings.Split(raw, ",")
		tag.name = parts[0]
		for _, opt := range parts[1:] {
			switch strings.TrimSpace(opt) {
			case "primary_key":
				tag.primaryKey = true
			case "foreign_key":
				tag.foreignKey = true
			}
		}
	}
	if tag.name == "" {
		if js, _, _ := strings.Cut(f.Tag.Get("json"), ","); js != "" && js != "-" {
			tag.name = js
		}
	}
	if tag.name == "" {
		tag.name = inflect.Underscore(f.Name)
	}
	return tag
}

// reflectKeys returns the keys of the struct type t. Embedded structs without
// a graphql tag are flattened.
func reflectKeys(t reflect.Type) (types.Keys, error) {
	return flattenKeys(t, make(map[reflect.Type]bool))
}

// flattenKeys is reflectKeys with the set of structs being flattened. A struct
// embedding itself, directly or not, is an error.
func flattenKeys(t reflect.Type, visiting map[reflect.Type]bool) (types.Keys, error) {
	if visiting[t] {
		return nil, &TypeMappingError{Value: t, Reason: "recursive embedded struct"}
	}
	visiting[t] = true
	defer delete(visiting, t)
	var keys types.Keys
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() && !f.Anonymous {
			continue
		}
		tag := parseTag(f)
		if tag.skip {
			continue
		}
		if _, tagged := f.Tag.Lookup("graphql"); f.Anonymous && !tagged {
			et := f.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				embedded, err := flattenKeys(et, visiting)
				if err != nil {
					return nil, fmt.Errorf("embedded %s: %w", et, err)
				}
				keys = append(keys, embedded...)
				continue
			}
			if !f.IsExported() {
				continue
			}
		}
		node := describeType(f.Type)
		if rule := f.Tag.Get("validate"); rule != "" {
			node = constrain(node, rule)
		}
		if tag.primaryKey || tag.foreignKey {
			node = types.Annotate(node, types.Meta{PrimaryKey: tag.primaryKey, ForeignKey: tag.foreignKey})
		}
		keys = append(keys, types.Attr(tag.name, node))
	}
	return keys, nil
}

// constrain places the rule inside an optional wrapper so nullability is kept.
func constrain(n types.Node, rule string) types.Node {
	if u, ok := n.(*types.Union); ok {
		return types.Optional(types.Constrain(u.Right(), rule))
	}
	return types.Constrain(n, rule)
}

// describeType converts a Go type into a description node.
func describeType(t reflect.Type) types.Node {
	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		for elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		return types.Optional(describeType(elem))
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return types.Of(t)
		}
		return types.ArrayOf(describeType(t.Elem()))
	case reflect.Array:
		if t == types.UUIDType {
			return types.UUID()
		}
		return types.ArrayOf(describeType(t.Elem()))
	case reflect.Map:
		return types.Map()
	}
	return types.Of(t)
}

// isComposite reports whether t is described by a container node rather than
// by its primitive.
func isComposite(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map:
		return true
	case reflect.Slice:
		return t.Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return t != types.UUIDType
	}
	return false
}
