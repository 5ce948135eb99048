package gqlgen

import (
	"sort"

	"github.com/graphql-go/graphql"
)

// Scalar models understood by gqlgen's runtime.
const (
	MapModel  = "github.com/99designs/gqlgen/graphql.Map"
	TimeModel = "github.com/99designs/gqlgen/graphql.Time"
	IDModel   = "github.com/99designs/gqlgen/graphql.ID"
)

// ScalarModels maps the custom scalars emitted by derivation to their gqlgen
// models.
var ScalarModels = map[string]string{
	"JSON":     MapModel,
	"DateTime": TimeModel,
}

// Entity is a derived entity that may declare a Go model.
type Entity interface {
	Model() string
}

// Binding pairs a derived object with the entity it came from.
type Binding struct {
	Object *graphql.Object
	Entity Entity
}

// Bind adds schemaPath to cfg and binds the scalars and entity models the
// bindings reference. It returns the names of the types it bound, sorted.
func Bind(cfg *Config, schemaPath string, bindings ...Binding) []string {
	if schemaPath != "" {
		cfg.AddSchemaPath(schemaPath)
	}
	bound := make(map[string]bool)
	for _, b := range bindings {
		if b.Object == nil {
			continue
		}
		if b.Entity != nil && b.Entity.Model() != "" {
			cfg.SetModel(b.Object.Name(), b.Entity.Model())
			bound[b.Object.Name()] = true
		}
		for name := range scalarsOf(b.Object, map[string]bool{}) {
			if model, ok := ScalarModels[name]; ok {
				cfg.SetModel(name, model)
				bound[name] = true
			}
		}
	}
	names := make([]string, 0, len(bound))
	for name := range bound {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// scalarsOf collects the scalar names reachable from t.
func scalarsOf(t graphql.Type, seen map[string]bool) map[string]bool {
	out := make(map[string]bool)
	var walk func(graphql.Type)
	walk = func(t graphql.Type) {
		switch t := t.(type) {
		case *graphql.NonNull:
			walk(t.OfType)
		case *graphql.List:
			walk(t.OfType)
		case *graphql.Scalar:
			out[t.Name()] = true
		case *graphql.Object:
			if seen[t.Name()] {
				return
			}
			seen[t.Name()] = true
			for _, f := range t.Fields() {
				walk(f.Type)
			}
		}
	}
	walk(t)
	return out
}
