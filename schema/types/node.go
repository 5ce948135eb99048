package types

import (
	"reflect"
	"strings"
)

// Node is a single type description. String describes the node for diagnostics.
type Node interface {
	String() string
}

// HasPrimitive is implemented by nodes classified by a primitive Go type.
type HasPrimitive interface {
	Node
	Primitive() reflect.Type
}

// HasMeta is implemented by nodes that carry a metadata sidecar.
type HasMeta interface {
	Node
	Meta() Meta
}

// HasKeys is implemented by keyed containers. The boolean reports whether the
// container declares its keys; an undeclared container is unstructured.
type HasKeys interface {
	Node
	Keys() (Keys, bool)
}

// HasMember is implemented by list-like nodes.
type HasMember interface {
	Node
	Member() Node
}

// HasInner is implemented by validation and coercion wrappers.
type HasInner interface {
	Node
	Unwrap() Node
}

// HasBranches is implemented by two-armed unions. Left conventionally holds the
// null branch.
type HasBranches interface {
	Node
	Left() Node
	Right() Node
}

// HasSchema is implemented by record entities exposing a nested schema.
type HasSchema interface {
	Node
	Schema() Keys
}

// GraphQLNamer is implemented by nodes that supply their own GraphQL type name.
type GraphQLNamer interface {
	GraphQLName() string
}

// Key is a named member of a record.
type Key struct {
	Name string
	Type Node
}

// Attr returns a Key.
func Attr(name string, t Node) Key {
	return Key{Name: name, Type: t}
}

// Keys is an ordered set of record members. Declaration order is preserved.
type Keys []Key

// String implements Node, so a bare Keys value can be reduced directly.
func (ks Keys) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, k := range ks {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k.Name)
		b.WriteString(": ")
		if k.Type == nil {
			b.WriteString("<nil>")
		} else {
			b.WriteString(k.Type.String())
		}
	}
	b.WriteString("}")
	return b.String()
}

// Names returns the key names in declaration order.
func (ks Keys) Names() []string {
	names := make([]string, len(ks))
	for i, k := range ks {
		names[i] = k.Name
	}
	return names
}

// Lookup returns the node declared for name.
func (ks Keys) Lookup(name string) (Node, bool) {
	for _, k := range ks {
		if k.Name == name {
			return k.Type, true
		}
	}
	return nil, false
}

// Opaque is a node exposing no capabilities at all. It stands in for host
// types the reducer cannot classify, such as unsupported database columns.
type Opaque struct {
	name string
}

// Unknown returns an Opaque node described by name.
func Unknown(name string) *Opaque {
	return &Opaque{name: name}
}

func (o *Opaque) String() string { return o.name }

// PrimitiveOf walks wrappers down to the innermost primitive of n. It returns
// nil when n carries no primitive.
func PrimitiveOf(n any) reflect.Type {
	for n != nil {
		switch v := n.(type) {
		case reflect.Type:
			return v
		case HasInner:
			n = v.Unwrap()
		case HasPrimitive:
			return v.Primitive()
		default:
			return nil
		}
	}
	return nil
}

// IsNull reports whether n resolves to the absence primitive.
func IsNull(n any) bool {
	return PrimitiveOf(n) == NullType
}
