package types

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Constrained wraps a node with a validation rule written in
// go-playground/validator tag syntax, e.g. "required,min=1,max=64".
type Constrained struct {
	inner Node
	rule  string
	meta  Meta
}

// Constrain wraps inner with rule.
func Constrain(inner Node, rule string) *Constrained {
	return &Constrained{inner: inner, rule: rule}
}

// Strict wraps inner with the "required" rule.
func Strict(inner Node) *Constrained {
	return Constrain(inner, "required")
}

// Unwrap implements HasInner.
func (c *Constrained) Unwrap() Node { return c.inner }

// Rule returns the validation rule.
func (c *Constrained) Rule() string { return c.rule }

// Primitive implements HasPrimitive by delegating to the wrapped node.
func (c *Constrained) Primitive() reflect.Type { return PrimitiveOf(c.inner) }

// Meta implements HasMeta. The wrapper's own keys win over the inner node's.
func (c *Constrained) Meta() Meta { return c.meta.Merge(MetaOf(c.inner)) }

// With returns a copy of c carrying m.
func (c *Constrained) With(m Meta) *Constrained {
	cc := *c
	cc.meta = m.Merge(c.meta)
	return &cc
}

func (c *Constrained) withMeta(m Meta) Node {
	cc := *c
	cc.meta = m
	return &cc
}

// Validate checks v against the rule.
func (c *Constrained) Validate(v any) error {
	if c.rule == "" {
		return nil
	}
	if err := validate.Var(v, c.rule); err != nil {
		return fmt.Errorf("types: %s rejected %v: %w", c, v, err)
	}
	return nil
}

func (c *Constrained) String() string {
	return fmt.Sprintf("Constrained<%s rule=%q>", nodeString(c.inner), c.rule)
}

// CoerceFunc converts an input value into the wrapped node's representation.
type CoerceFunc func(any) (any, error)

// Constructor wraps a node with a coercion function.
type Constructor struct {
	inner Node
	fn    CoerceFunc
	meta  Meta
}

// Coerce wraps inner with fn.
func Coerce(inner Node, fn CoerceFunc) *Constructor {
	return &Constructor{inner: inner, fn: fn}
}

// Coercible wraps inner with the default coercion for its primitive kind.
// Strings are parsed into integers, floats and booleans.
func Coercible(inner Node) *Constructor {
	return Coerce(inner, defaultCoercion(PrimitiveOf(inner)))
}

// Unwrap implements HasInner.
func (c *Constructor) Unwrap() Node { return c.inner }

// Primitive implements HasPrimitive by delegating to the wrapped node.
func (c *Constructor) Primitive() reflect.Type { return PrimitiveOf(c.inner) }

// Meta implements HasMeta. The wrapper's own keys win over the inner node's.
func (c *Constructor) Meta() Meta { return c.meta.Merge(MetaOf(c.inner)) }

// With returns a copy of c carrying m.
func (c *Constructor) With(m Meta) *Constructor {
	cc := *c
	cc.meta = m.Merge(c.meta)
	return &cc
}

func (c *Constructor) withMeta(m Meta) Node {
	cc := *c
	cc.meta = m
	return &cc
}

// Apply runs the coercion. A nil function returns v unchanged.
func (c *Constructor) Apply(v any) (any, error) {
	if c.fn == nil {
		return v, nil
	}
	return c.fn(v)
}

func (c *Constructor) String() string {
	return "Constructor<" + nodeString(c.inner) + ">"
}

func defaultCoercion(t reflect.Type) CoerceFunc {
	if t == nil {
		return nil
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(v any) (any, error) {
			if s, ok := v.(string); ok {
				n, err := strconv.ParseInt(s, 10, 64)
				if err != nil {
					return nil, err
				}
				return reflect.ValueOf(n).Convert(t).Interface(), nil
			}
			return v, nil
		}
	case reflect.Float32, reflect.Float64:
		return func(v any) (any, error) {
			if s, ok := v.(string); ok {
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return nil, err
				}
				return reflect.ValueOf(f).Convert(t).Interface(), nil
			}
			return v, nil
		}
	case reflect.Bool:
		return func(v any) (any, error) {
			if s, ok := v.(string); ok {
				return strconv.ParseBool(s)
			}
			return v, nil
		}
	case reflect.String:
		return func(v any) (any, error) {
			if s, ok := v.(fmt.Stringer); ok {
				return s.String(), nil
			}
			return fmt.Sprint(v), nil
		}
	}
	return nil
}

func nodeString(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}
