// Package registry maps primitive Go types and registered description values
// to GraphQL output types.
//
// A Registry holds two tables. The scalar table is seeded with the built-in
// primitives and is consulted by MapScalar and IsScalar. The type table holds
// runtime registrations and is consulted, together with the scalar table, by
// MapType. Entries are merged and never removed.
package registry

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	"github.com/syssam/gqlshape/schema/types"
)

// Registry maps primitives and description values to GraphQL types.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	scalars map[reflect.Type]graphql.Output
	types   map[any]graphql.Output
}

// New returns a registry seeded with the built-in scalars.
func New() *Registry {
	r := &Registry{
		scalars: make(map[reflect.Type]graphql.Output, len(builtins)),
		types:   make(map[any]graphql.Output),
	}
	for t, out := range builtins {
		r.scalars[t] = out
	}
	return r
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultOnce.Do(func() { defaultReg = New() })
	return defaultReg
}

var builtins = map[reflect.Type]graphql.Output{
	reflect.TypeFor[string]():    graphql.String,
	reflect.TypeFor[int]():       graphql.Int,
	reflect.TypeFor[int8]():      graphql.Int,
	reflect.TypeFor[int16]():     graphql.Int,
	reflect.TypeFor[int32]():     graphql.Int,
	reflect.TypeFor[int64]():     graphql.Int,
	reflect.TypeFor[uint]():      graphql.Int,
	reflect.TypeFor[uint8]():     graphql.Int,
	reflect.TypeFor[uint16]():    graphql.Int,
	reflect.TypeFor[uint32]():    graphql.Int,
	reflect.TypeFor[uint64]():    graphql.Int,
	reflect.TypeFor[bool]():      graphql.Boolean,
	reflect.TypeFor[float32]():   graphql.Float,
	reflect.TypeFor[float64]():   graphql.Float,
	reflect.TypeFor[time.Time](): graphql.DateTime,
	types.DateType:               graphql.DateTime,
	reflect.TypeFor[uuid.UUID](): graphql.ID,
}

// MapScalar resolves a primitive against the built-in scalar table only.
func (r *Registry) MapScalar(t reflect.Type) (graphql.Output, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if out, ok := r.scalars[t]; ok {
		return out, nil
	}
	return nil, NewUnmappableTypeError(t)
}

// IsScalar reports whether t is in the built-in scalar table.
func (r *Registry) IsScalar(t reflect.Type) bool {
	if t == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.scalars[t]
	return ok
}

// MapType resolves v against runtime registrations first and then the
// built-in scalar table. v may be a primitive or a description node.
func (r *Registry) MapType(v any) (graphql.Output, error) {
	if v == nil || !reflect.TypeOf(v).Comparable() {
		return nil, NewUnmappableTypeError(v)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if out, ok := r.types[v]; ok {
		return out, nil
	}
	if t, ok := v.(reflect.Type); ok {
		if out, ok := r.scalars[t]; ok {
			return out, nil
		}
	}
	return nil, NewUnmappableTypeError(v)
}

// Has reports whether v has a runtime registration.
func (r *Registry) Has(v any) bool {
	if v == nil || !reflect.TypeOf(v).Comparable() {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[v]
	return ok
}

// Register merges one mapping into the registry. The last registration for a
// key wins. Keys must be comparable: primitives (reflect.Type) and pointer
// nodes qualify.
func (r *Registry) Register(in any, out graphql.Output) error {
	switch {
	case in == nil:
		return fmt.Errorf("registry: nil input type")
	case out == nil:
		return fmt.Errorf("registry: nil output type for %v", in)
	case !reflect.TypeOf(in).Comparable():
		return fmt.Errorf("registry: input %v of type %T is not comparable", in, in)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[in] = out
	return nil
}

// Scalars returns a copy of the built-in scalar table.
func (r *Registry) Scalars() map[reflect.Type]graphql.Output {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[reflect.Type]graphql.Output, len(r.scalars))
	for t, s := range r.scalars {
		out[t] = s
	}
	return out
}
