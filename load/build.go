package load

import (
	"fmt"
	"slices"
	"sort"

	"github.com/graphql-go/graphql"

	"github.com/syssam/gqlshape"
	"github.com/syssam/gqlshape/registry"
	"github.com/syssam/gqlshape/scalar"
	"github.com/syssam/gqlshape/schema/types"
)

// Type keywords.
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeInt64  = "int64"
	TypeFloat  = "float"
	TypeBool   = "bool"
	TypeTime   = "time"
	TypeDate   = "date"
	TypeUUID   = "uuid"
	TypeBytes  = "bytes"
	TypeJSON   = "json"
	TypeArray  = "array"
	TypeObject = "object"
)

var keywords = map[string]func() types.Node{
	TypeString: func() types.Node { return types.String() },
	TypeInt:    func() types.Node { return types.Int() },
	TypeInt64:  func() types.Node { return types.Int64() },
	TypeFloat:  func() types.Node { return types.Float() },
	TypeBool:   func() types.Node { return types.Bool() },
	"boolean":  func() types.Node { return types.Bool() },
	TypeTime:   func() types.Node { return types.Time() },
	"datetime": func() types.Node { return types.Time() },
	TypeDate:   func() types.Node { return types.DateOnly() },
	TypeUUID:   func() types.Node { return types.UUID() },
	TypeBytes:  func() types.Node { return types.Bytes() },
	TypeJSON:   func() types.Node { return types.Map() },
}

// Builtin GraphQL types a scalar or an override may name.
var builtins = map[string]graphql.Output{
	"String":   graphql.String,
	"Int":      graphql.Int,
	"Float":    graphql.Float,
	"Boolean":  graphql.Boolean,
	"ID":       graphql.ID,
	"DateTime": graphql.DateTime,
	"JSON":     scalar.JSON,
}

// Entity is a built entity with the options its type declared.
type Entity struct {
	*gqlshape.Struct
	Options []gqlshape.Option
}

// Derive returns the object type of e. opts are applied after the declared
// options.
func (e *Entity) Derive(opts ...gqlshape.Option) (*graphql.Object, error) {
	return e.GraphQLType(append(slices.Clone(e.Options), opts...)...)
}

type builder struct {
	reg      *registry.Registry
	scalars  map[string]types.Node
	outputs  map[string]graphql.Output
	entities map[string]*gqlshape.Struct
}

// Build turns doc into entities. Custom scalars are registered in reg and
// every entity derives with reg. Entities are returned in declaration order.
func (doc *Document) Build(reg *registry.Registry) ([]*Entity, error) {
	b := &builder{
		reg:      reg,
		scalars:  make(map[string]types.Node),
		outputs:  make(map[string]graphql.Output),
		entities: make(map[string]*gqlshape.Struct),
	}
	if err := b.registerScalars(doc.Scalars); err != nil {
		return nil, err
	}
	for _, ts := range doc.Types {
		if _, dup := b.entities[ts.Name]; dup {
			return nil, fmt.Errorf("load: duplicate type %q", ts.Name)
		}
		s := gqlshape.NewStruct(ts.Name).WithModel(ts.Model)
		if ts.GraphQLName != "" {
			s.WithGraphQLName(ts.GraphQLName)
		}
		b.entities[ts.Name] = s
	}
	out := make([]*Entity, 0, len(doc.Types))
	for _, ts := range doc.Types {
		s := b.entities[ts.Name]
		for _, f := range ts.Fields {
			node, err := b.node(f.Spec)
			if err != nil {
				return nil, fmt.Errorf("load: type %q field %q: %w", ts.Name, f.Name, err)
			}
			s.Attribute(f.Name, node)
		}
		opts := []gqlshape.Option{gqlshape.WithRegistry(reg)}
		if ts.Only != nil {
			opts = append(opts, gqlshape.Only(ts.Only...))
		}
		if ts.Skip != nil {
			opts = append(opts, gqlshape.Skip(ts.Skip...))
		}
		if ts.Deep {
			opts = append(opts, gqlshape.Deep())
		}
		out = append(out, &Entity{Struct: s, Options: opts})
	}
	return out, nil
}

func (b *builder) registerScalars(decl map[string]string) error {
	names := make([]string, 0, len(decl))
	for name := range decl {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if gqlshape.GraphQLName(name) != name {
			return fmt.Errorf("load: invalid scalar name %q", name)
		}
		if _, ok := keywords[name]; ok {
			return fmt.Errorf("load: scalar %q shadows a type keyword", name)
		}
		var out graphql.Output
		if base := decl[name]; base == "" {
			out = scalar.Passthrough(name, "")
		} else if out = builtins[base]; out == nil {
			return fmt.Errorf("load: scalar %q: unknown builtin %q", name, base)
		}
		node := types.Named(name, types.StringType)
		if err := b.reg.Register(node, out); err != nil {
			return fmt.Errorf("load: scalar %q: %w", name, err)
		}
		b.scalars[name] = node
		b.outputs[name] = out
	}
	return nil
}

func (b *builder) node(spec FieldSpec) (types.Node, error) {
	n, err := b.base(spec)
	if err != nil {
		return nil, err
	}
	if spec.Coercible {
		n = types.Coercible(n)
	}
	if spec.Constraint != "" {
		n = types.Constrain(n, spec.Constraint)
	}
	if spec.Optional {
		n = types.Optional(n)
	}
	meta := types.Meta{PrimaryKey: spec.PrimaryKey, ForeignKey: spec.ForeignKey}
	if spec.GraphQLType != "" {
		if meta.GraphQLType = b.output(spec.GraphQLType); meta.GraphQLType == nil {
			return nil, fmt.Errorf("unknown graphql_type %q", spec.GraphQLType)
		}
	}
	if !meta.IsZero() {
		n = types.Annotate(n, meta)
	}
	return n, nil
}

func (b *builder) base(spec FieldSpec) (types.Node, error) {
	if spec.Ref != "" {
		return b.ref(spec.Ref)
	}
	switch spec.Type {
	case "":
		if len(spec.Fields) > 0 {
			return b.object(spec.Fields)
		}
		if spec.Of != nil {
			return b.array(spec.Of)
		}
		return nil, fmt.Errorf("missing type")
	case TypeArray:
		if spec.Of == nil {
			return nil, fmt.Errorf("array without member type")
		}
		return b.array(spec.Of)
	case TypeObject:
		return b.object(spec.Fields)
	}
	if mk, ok := keywords[spec.Type]; ok {
		return mk(), nil
	}
	if n, ok := b.scalars[spec.Type]; ok {
		return n, nil
	}
	if _, ok := b.entities[spec.Type]; ok {
		return b.ref(spec.Type)
	}
	return nil, fmt.Errorf("unknown type %q", spec.Type)
}

func (b *builder) ref(name string) (types.Node, error) {
	s, ok := b.entities[name]
	if !ok {
		return nil, fmt.Errorf("unknown ref %q", name)
	}
	return s, nil
}

func (b *builder) array(of *FieldSpec) (types.Node, error) {
	member, err := b.node(*of)
	if err != nil {
		return nil, err
	}
	return types.ArrayOf(member), nil
}

func (b *builder) object(fields Fields) (types.Node, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("object without fields")
	}
	keys := make([]types.Key, 0, len(fields))
	for _, f := range fields {
		n, err := b.node(f.Spec)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		keys = append(keys, types.Attr(f.Name, n))
	}
	return types.Object(keys...), nil
}

func (b *builder) output(name string) graphql.Output {
	if out, ok := b.outputs[name]; ok {
		return out
	}
	return builtins[name]
}
