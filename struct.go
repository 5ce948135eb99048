package gqlshape

import (
	"log/slog"
	"reflect"

	"github.com/graphql-go/graphql"

	"github.com/syssam/gqlshape/schema/types"
)

// Struct is a record entity. It derives its own GraphQL object type and can
// be used as a nested node in other records.
//
// Attributes must be declared before the first call to GraphQLType.
type Struct struct {
	name        string
	graphqlName string
	model       string
	keys        types.Keys
	origin      reflect.Type
	cache       typeCache
}

// NewStruct returns a Struct named name with the given attributes.
func NewStruct(name string, keys ...types.Key) *Struct {
	return &Struct{name: name, keys: keys}
}

// Attribute declares the attribute name. Redeclaring an attribute replaces its
// type in place.
func (s *Struct) Attribute(name string, t types.Node) *Struct {
	for i := range s.keys {
		if s.keys[i].Name == name {
			s.keys[i].Type = t
			s.cache.Clear()
			return s
		}
	}
	s.keys = append(s.keys, types.Attr(name, t))
	s.cache.Clear()
	return s
}

// WithGraphQLName sets the GraphQL type name used instead of the type name.
func (s *Struct) WithGraphQLName(name string) *Struct {
	s.graphqlName = name
	s.cache.Clear()
	return s
}

// WithModel sets the Go type the entity binds to, as a package qualified
// name such as "example.com/app/models.User".
func (s *Struct) WithModel(model string) *Struct {
	s.model = model
	return s
}

// TypeName returns the declared type name.
func (s *Struct) TypeName() string { return s.name }

// GraphQLName returns the name of the derived top-level object.
func (s *Struct) GraphQLName() string {
	if s.graphqlName != "" {
		return s.graphqlName
	}
	return s.name
}

// Model returns the bound Go type, if any.
func (s *Struct) Model() string { return s.model }

// Schema returns the attributes in declaration order.
func (s *Struct) Schema() types.Keys { return s.keys }

func (s *Struct) String() string { return s.name }

func (s *Struct) sourceKey() any {
	if s.origin != nil {
		return s.origin
	}
	return s
}

// GraphQLType returns the object type derived from the attributes. The first
// successful derivation for a given set of options is cached on s and returned
// by later calls; failures are not cached.
func (s *Struct) GraphQLType(opts ...Option) (*graphql.Object, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	key := o.key()
	if obj, ok := s.cache.Load(key); ok {
		return obj, nil
	}
	root := &reduction{name: s.GraphQLName(), node: s, opts: o}
	obj, err := root.record(s.keys, s.sourceKey())
	if err != nil {
		return nil, err
	}
	slog.Debug("gqlshape: derived type", "entity", s.name, "type", obj.Name())
	return s.cache.Store(key, obj), nil
}

// Reset drops the cached object types.
func (s *Struct) Reset() { s.cache.Clear() }
