package types

import "github.com/graphql-go/graphql"

// Meta is the metadata sidecar attached to a node.
type Meta struct {
	// GraphQLType, when set, is emitted verbatim for the node.
	GraphQLType graphql.Output
	// PrimaryKey marks the node as a primary key. Keys reduce to ID.
	PrimaryKey bool
	// ForeignKey marks the node as a foreign key. Keys reduce to ID.
	ForeignKey bool
}

// IsZero reports whether no key is set.
func (m Meta) IsZero() bool {
	return m.GraphQLType == nil && !m.PrimaryKey && !m.ForeignKey
}

// IsKey reports whether the node is marked as a primary or foreign key.
func (m Meta) IsKey() bool {
	return m.PrimaryKey || m.ForeignKey
}

// Merge returns m overlaid on base: keys set on m win.
func (m Meta) Merge(base Meta) Meta {
	out := base
	if m.GraphQLType != nil {
		out.GraphQLType = m.GraphQLType
	}
	out.PrimaryKey = out.PrimaryKey || m.PrimaryKey
	out.ForeignKey = out.ForeignKey || m.ForeignKey
	return out
}

// MetaOf returns the metadata of n, or the zero Meta.
func MetaOf(n any) Meta {
	if m, ok := n.(HasMeta); ok {
		return m.Meta()
	}
	return Meta{}
}

type annotatable interface {
	withMeta(Meta) Node
}

// Annotate returns a copy of n carrying m merged over its current metadata.
// Nodes that do not accept metadata are returned unchanged.
func Annotate(n Node, m Meta) Node {
	if a, ok := n.(annotatable); ok {
		return a.withMeta(m.Merge(MetaOf(n)))
	}
	return n
}
