// Package sdl prints derived graphql-go types as GraphQL schema definition
// language, using the gqlparser AST and formatter.
package sdl

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/go-openapi/inflect"
	"github.com/graphql-go/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// builtins are declared by every GraphQL schema and are never printed.
var builtins = map[string]bool{
	"String":  true,
	"Int":     true,
	"Float":   true,
	"Boolean": true,
	"ID":      true,
}

// Document returns a schema document holding every named type reachable from
// roots. Definitions are sorted by name, and so are their fields.
func Document(roots ...graphql.Type) (*ast.SchemaDocument, error) {
	c := &collector{seen: make(map[string]*ast.Definition), origin: make(map[string]graphql.Type)}
	for _, root := range roots {
		if err := c.walk(root); err != nil {
			return nil, err
		}
	}
	names := make([]string, 0, len(c.seen))
	for name := range c.seen {
		names = append(names, name)
	}
	sort.Strings(names)
	doc := &ast.SchemaDocument{}
	for _, name := range names {
		doc.Definitions = append(doc.Definitions, c.seen[name])
	}
	return doc, nil
}

// Print writes the document for roots to w.
func Print(w io.Writer, roots ...graphql.Type) error {
	doc, err := Document(roots...)
	if err != nil {
		return err
	}
	formatter.NewFormatter(w).FormatSchemaDocument(doc)
	return nil
}

// String returns the document for roots as text.
func String(roots ...graphql.Type) (string, error) {
	var buf bytes.Buffer
	if err := Print(&buf, roots...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Validate prints the document for roots and loads it back with gqlparser,
// which checks it against the GraphQL type system rules.
func Validate(roots ...graphql.Type) (*ast.Schema, error) {
	src, err := String(roots...)
	if err != nil {
		return nil, err
	}
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "derived.graphql", Input: src})
	if err != nil {
		return nil, fmt.Errorf("sdl: invalid schema: %w", err)
	}
	return schema, nil
}

// Query returns a root query object with one non-null field per object,
// named after the object in lower camel case.
func Query(objs ...*graphql.Object) *graphql.Object {
	fields := graphql.Fields{}
	for _, obj := range objs {
		name := inflect.CamelizeDownFirst(obj.Name())
		fields[name] = &graphql.Field{Name: name, Type: graphql.NewNonNull(obj)}
	}
	return graphql.NewObject(graphql.ObjectConfig{Name: "Query", Fields: fields})
}

type collector struct {
	seen map[string]*ast.Definition
	// origin is the type each definition was built from.
	origin map[string]graphql.Type
}

func (c *collector) walk(t graphql.Type) error {
	switch t := t.(type) {
	case nil:
		return nil
	case *graphql.NonNull:
		return c.walk(t.OfType)
	case *graphql.List:
		return c.walk(t.OfType)
	}
	if err := t.Error(); err != nil {
		return fmt.Errorf("sdl: type %s: %w", t.Name(), err)
	}
	if builtins[t.Name()] {
		return nil
	}
	if prev, ok := c.origin[t.Name()]; ok {
		if prev != t {
			return fmt.Errorf("sdl: distinct types share the name %s", t.Name())
		}
		return nil
	}
	c.origin[t.Name()] = t
	switch t := t.(type) {
	case *graphql.Scalar:
		c.seen[t.Name()] = &ast.Definition{Kind: ast.Scalar, Name: t.Name(), Description: t.Description()}
	case *graphql.Enum:
		def := &ast.Definition{Kind: ast.Enum, Name: t.Name(), Description: t.Description()}
		for _, v := range t.Values() {
			def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{Name: v.Name, Description: v.Description})
		}
		c.seen[t.Name()] = def
	case *graphql.Object:
		def := &ast.Definition{Kind: ast.Object, Name: t.Name(), Description: t.Description()}
		// Register before walking fields so self references terminate.
		c.seen[t.Name()] = def
		fields := t.Fields()
		if err := t.Error(); err != nil {
			return fmt.Errorf("sdl: type %s: %w", t.Name(), err)
		}
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			f := fields[name]
			fd := &ast.FieldDefinition{Name: name, Description: f.Description, Type: typeRef(f.Type)}
			for _, arg := range f.Args {
				fd.Arguments = append(fd.Arguments, &ast.ArgumentDefinition{
					Name:        arg.Name(),
					Description: arg.Description(),
					Type:        typeRef(arg.Type),
				})
				if err := c.walk(arg.Type); err != nil {
					return err
				}
			}
			def.Fields = append(def.Fields, fd)
			if err := c.walk(f.Type); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("sdl: unsupported type %s (%T)", t.Name(), t)
	}
	return nil
}

func typeRef(t graphql.Type) *ast.Type {
	switch t := t.(type) {
	case *graphql.NonNull:
		inner := *typeRef(t.OfType)
		inner.NonNull = true
		return &inner
	case *graphql.List:
		return ast.ListType(typeRef(t.OfType), nil)
	default:
		return ast.NamedType(t.Name(), nil)
	}
}
