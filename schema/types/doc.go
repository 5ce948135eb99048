// Package types provides the structural type descriptions consumed by gqlshape.
//
// A description is a tree of nodes. Leaves carry a primitive (a reflect.Type),
// containers carry member nodes, and wrappers decorate an inner node with
// validation, coercion or optionality:
//
//	types.String()                          // string
//	types.Int().With(types.Meta{PrimaryKey: true})
//	types.Optional(types.String())          // null | string
//	types.ArrayOf(types.String())           // []string
//	types.Map()                             // unstructured hash
//	types.Object(                           // hash with declared keys
//	    types.Attr("name", types.Optional(types.String())),
//	    types.Attr("age", types.Coercible(types.Int())),
//	)
//	types.Constrain(types.String(), "email") // validated by go-playground/validator
//
// The reducer never switches on the concrete node types declared here. It probes
// nodes through the Has* interfaces, so hosts can supply their own node
// implementations as long as they expose the same capabilities.
//
// # Metadata
//
// Every node accepts a Meta sidecar with exactly three recognized keys:
// an explicit GraphQL type override, and primary/foreign key markers.
// Wrappers merge their own metadata over the metadata of the node they wrap.
package types
