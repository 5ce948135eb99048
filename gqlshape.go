// Package gqlshape derives GraphQL object types from structural type
// descriptions.
//
// A description is a tree of nodes from the schema/types package: primitives,
// records, lists, optional values and validation or coercion wrappers. Each
// node is classified in a fixed order and turned into a graphql-go output
// type. Records become freshly named objects whose names follow the path from
// the root entity, e.g. a field "info" of "User" becomes "User__Info".
//
//	user := gqlshape.NewStruct("User",
//		types.Attr("name", types.Optional(types.String())),
//		types.Attr("age", types.Int()),
//	)
//	obj, err := user.GraphQLType()
//
// Scalars resolve through a registry.Registry. Extend it with
// RegisterTypeMapping before the first derivation that needs the mapping.
package gqlshape

import (
	"github.com/graphql-go/graphql"

	"github.com/syssam/gqlshape/registry"
	"github.com/syssam/gqlshape/schema/types"
)

// Derive returns the GraphQL type of desc. Records are named name; other
// nodes ignore it. Nothing is cached.
func Derive(desc types.Node, name string, opts ...Option) (graphql.Output, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	root := &reduction{name: name, node: desc, opts: o}
	return root.reduce()
}

// RegisterTypeMapping maps in to out in the default registry. in is a
// primitive (reflect.Type) or a comparable description node.
func RegisterTypeMapping(in any, out graphql.Output) error {
	return registry.Default().Register(in, out)
}

// MapFrom registers out as the GraphQL type of each host entity in the
// default registry, so records nesting them reuse out.
func MapFrom(out graphql.Output, hosts ...any) error {
	return MapFromRegistry(registry.Default(), out, hosts...)
}

// MapFromRegistry is like MapFrom for the registry r.
func MapFromRegistry(r *registry.Registry, out graphql.Output, hosts ...any) error {
	for _, h := range hosts {
		if err := r.Register(h, out); err != nil {
			return err
		}
	}
	return nil
}
