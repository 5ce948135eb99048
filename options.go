package gqlshape

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/gqlshape/registry"
)

// Option configures a derivation.
type Option func(*options)

type options struct {
	only      []string
	skip      []string
	deep      bool
	registry  *registry.Registry
	fieldName func(string) string
}

func newOptions(opts []Option) (*options, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.only != nil && o.skip != nil {
		return nil, NewInvalidOptionsError(o.only, o.skip)
	}
	if o.registry == nil {
		o.registry = registry.Default()
	}
	if o.fieldName == nil {
		o.fieldName = inflect.CamelizeDownFirst
	}
	return o, nil
}

// Only restricts the top-level record to the named fields. A record left
// without fields fails to derive with a TypeMappingError.
func Only(fields ...string) Option {
	return func(o *options) {
		o.only = append(nonNil(o.only), fields...)
	}
}

// Skip excludes the named fields from the top-level record.
func Skip(fields ...string) Option {
	return func(o *options) {
		o.skip = append(nonNil(o.skip), fields...)
	}
}

// Deep applies the field filter to nested records as well. Filters are
// shallow by default.
func Deep() Option {
	return func(o *options) {
		o.deep = true
	}
}

// WithRegistry resolves scalars against r instead of the default registry.
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithFieldNamer converts declared key names into GraphQL field names.
// Field names are camelized by default.
func WithFieldNamer(fn func(string) string) Option {
	return func(o *options) {
		o.fieldName = fn
	}
}

// excluded reports whether field is filtered out.
func (o *options) excluded(field string) (bool, error) {
	switch {
	case o.only != nil && o.skip != nil:
		return false, NewInvalidOptionsError(o.only, o.skip)
	case o.skip != nil:
		return slices.Contains(o.skip, field), nil
	case o.only != nil:
		return !slices.Contains(o.only, field), nil
	default:
		return false, nil
	}
}

// nested returns the options used for records below the top level.
func (o *options) nested() *options {
	if o.deep || (o.only == nil && o.skip == nil) {
		return o
	}
	c := *o
	c.only, c.skip = nil, nil
	return &c
}

// key identifies the derived shape the options produce. Field namers are
// compared by function identity, so closures sharing code share a key.
func (o *options) key() string {
	only, skip := slices.Clone(o.only), slices.Clone(o.skip)
	slices.Sort(only)
	slices.Sort(skip)
	return fmt.Sprintf("only=%s;skip=%s;deep=%t;registry=%p;namer=%p",
		joinSet(only), joinSet(skip), o.deep, o.registry, o.fieldName)
}

func joinSet(s []string) string {
	if s == nil {
		return "-"
	}
	return "[" + strings.Join(s, ",") + "]"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
