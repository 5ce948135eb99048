package gqlshape

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/graphql-go/graphql"

	"github.com/syssam/gqlshape/scalar"
	"github.com/syssam/gqlshape/schema/types"
)

// reduction is the context of a single reduce step. It is never mutated once
// built; child and withNode return new contexts.
type reduction struct {
	name   string
	node   types.Node
	target *graphql.Object
	source any
	opts   *options
	parent *reduction
}

// child returns the context for the record member name, one level below c.
func (c *reduction) child(name string, node types.Node, opts *options) *reduction {
	return &reduction{name: name, node: node, opts: opts, parent: c}
}

// withNode returns a context for node at the same level as c.
func (c *reduction) withNode(node types.Node) *reduction {
	return &reduction{name: c.name, node: node, opts: c.opts, parent: c.parent}
}

// reduce classifies the node and returns its GraphQL type. The checks run in
// a fixed order and the first match wins.
func (c *reduction) reduce() (graphql.Output, error) {
	node := c.node
	meta := types.MetaOf(node)
	// Explicit override.
	if meta.GraphQLType != nil {
		return meta.GraphQLType, nil
	}
	// Primary and foreign keys.
	if meta.IsKey() {
		return graphql.ID, nil
	}
	// Registered values and known scalar primitives.
	if out, ok, err := c.scalar(); ok {
		return out, err
	}
	// Records with declared keys.
	if keys, ok := declaredKeys(node); ok {
		return output(c.record(keys, sourceOf(node)))
	}
	// Unstructured hashes.
	if h, ok := node.(types.HasKeys); ok {
		if _, declared := h.Keys(); !declared {
			return scalar.JSON, nil
		}
	}
	// Lists.
	if l, ok := node.(types.HasMember); ok {
		member, err := c.withNode(l.Member()).reduce()
		if err != nil {
			return nil, err
		}
		if !nullable(l.Member()) {
			member = nonNull(member)
		}
		return graphql.NewList(member), nil
	}
	// Already reduced.
	if out, ok := node.(graphql.Output); ok {
		return out, nil
	}
	// Validation and coercion wrappers.
	if w, ok := node.(types.HasInner); ok {
		return c.withNode(w.Unwrap()).reduce()
	}
	// Two-armed unions; the left arm only decides nullability.
	if u, ok := node.(types.HasBranches); ok {
		if isUnion(u.Left()) || isUnion(u.Right()) {
			return nil, &TypeMappingError{Value: node, Reason: "unions of more than two arms are not supported"}
		}
		return c.withNode(u.Right()).reduce()
	}
	// Nominal types without a scalar match.
	if p, ok := node.(types.HasPrimitive); ok {
		if prim := p.Primitive(); prim != nil {
			return c.withNode(prim).reduce()
		}
	}
	// Nested schema accessors.
	if s, ok := node.(types.HasSchema); ok {
		return output(c.record(s.Schema(), sourceOf(node)))
	}
	if t, ok := node.(reflect.Type); ok {
		switch {
		case t.Kind() == reflect.Struct:
			keys, err := reflectKeys(t)
			if err != nil {
				return nil, err
			}
			return output(c.record(keys, t))
		case isComposite(t):
			return c.withNode(describeType(t)).reduce()
		}
	}
	return nil, NewTypeMappingError(node)
}

func (c *reduction) scalar() (graphql.Output, bool, error) {
	reg := c.opts.registry
	if reg.Has(c.node) {
		out, err := reg.MapType(c.node)
		return out, true, err
	}
	var prim reflect.Type
	switch n := c.node.(type) {
	case reflect.Type:
		prim = n
	case types.HasPrimitive:
		prim = n.Primitive()
	}
	if prim == nil || (!reg.IsScalar(prim) && !reg.Has(prim)) {
		return nil, false, nil
	}
	out, err := reg.MapType(prim)
	return out, true, err
}

// record allocates a fresh named object for keys and populates it.
func (c *reduction) record(keys types.Keys, source any) (*graphql.Object, error) {
	if source != nil {
		for p := c; p != nil; p = p.parent {
			if p.source == source {
				return nil, &TypeMappingError{Value: c.node, Reason: "recursive type"}
			}
		}
	}
	name, err := c.generateName()
	if err != nil {
		return nil, err
	}
	obj := graphql.NewObject(graphql.ObjectConfig{Name: name, Fields: graphql.Fields{}})
	if err := obj.Error(); err != nil {
		return nil, NewNameGenerationError(c.node, err)
	}
	slog.Debug("gqlshape: allocated object", "name", name, "keys", len(keys))
	owner := &reduction{name: c.name, node: c.node, target: obj, source: source, opts: c.opts, parent: c.parent}
	return owner.populate(keys)
}

// populate adds one field per unfiltered key, in declaration order.
func (c *reduction) populate(keys types.Keys) (*graphql.Object, error) {
	nested := c.opts.nested()
	seen := make(map[string]string, len(keys))
	objects := make(map[string]objectOrigin)
	for _, k := range keys {
		skip, err := c.opts.excluded(k.Name)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		field := c.opts.fieldName(k.Name)
		if !validName.MatchString(field) {
			return nil, NewNameGenerationError(k.Type, fmt.Errorf("invalid field name %q for key %q", field, k.Name))
		}
		if prev, ok := seen[field]; ok {
			return nil, NewNameGenerationError(k.Type, fmt.Errorf("keys %q and %q both map to field %q", prev, k.Name, field))
		}
		seen[field] = k.Name
		out, err := c.child(k.Name, k.Type, nested).reduce()
		if err != nil {
			return nil, err
		}
		if obj, ok := innermost(out).(*graphql.Object); ok {
			if prev, ok := objects[obj.Name()]; ok && prev.obj != obj {
				return nil, NewNameGenerationError(k.Type, fmt.Errorf("keys %q and %q both produce type %q", prev.key, k.Name, obj.Name()))
			}
			objects[obj.Name()] = objectOrigin{key: k.Name, obj: obj}
		}
		if !nullable(k.Type) {
			out = nonNull(out)
		}
		c.target.AddFieldConfig(field, &graphql.Field{Name: field, Type: out})
	}
	if len(seen) == 0 {
		return nil, &TypeMappingError{Value: c.node, Reason: "record " + c.target.Name() + " has no fields to emit"}
	}
	return c.target, nil
}

type objectOrigin struct {
	key string
	obj *graphql.Object
}

// innermost strips list and non-null wrappers.
func innermost(t graphql.Type) graphql.Type {
	for {
		switch w := t.(type) {
		case *graphql.List:
			t = w.OfType
		case *graphql.NonNull:
			t = w.OfType
		default:
			return t
		}
	}
}

func output(obj *graphql.Object, err error) (graphql.Output, error) {
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// nullable reports whether n is a two-armed union with a null left arm.
func nullable(n types.Node) bool {
	u, ok := n.(types.HasBranches)
	return ok && types.IsNull(u.Left())
}

func nonNull(out graphql.Output) graphql.Output {
	if _, ok := out.(*graphql.NonNull); ok {
		return out
	}
	return graphql.NewNonNull(out)
}

func isUnion(n types.Node) bool {
	for {
		switch v := n.(type) {
		case types.HasBranches:
			return true
		case types.HasInner:
			n = v.Unwrap()
		default:
			return false
		}
	}
}

func declaredKeys(n types.Node) (types.Keys, bool) {
	switch v := n.(type) {
	case types.Keys:
		return v, true
	case types.HasKeys:
		keys, declared := v.Keys()
		return keys, declared
	}
	return nil, false
}

// sourceOf returns the identity used to detect recursive records.
func sourceOf(n types.Node) any {
	if s, ok := n.(interface{ sourceKey() any }); ok {
		return s.sourceKey()
	}
	if n == nil || !reflect.TypeOf(n).Comparable() {
		return nil
	}
	return n
}
