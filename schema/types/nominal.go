package types

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Null is the absence primitive. The left branch of an optional union resolves
// to it.
type Null struct{}

// Date is a civil calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the Date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String returns the date in ISO 8601 form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Primitive identifiers.
var (
	NullType   = reflect.TypeFor[Null]()
	StringType = reflect.TypeFor[string]()
	IntType    = reflect.TypeFor[int]()
	Int64Type  = reflect.TypeFor[int64]()
	BoolType   = reflect.TypeFor[bool]()
	FloatType  = reflect.TypeFor[float64]()
	TimeType   = reflect.TypeFor[time.Time]()
	DateType   = reflect.TypeFor[Date]()
	UUIDType   = reflect.TypeFor[uuid.UUID]()
	BytesType  = reflect.TypeFor[[]byte]()
)

// Nominal is a node classified by its primitive alone.
type Nominal struct {
	prim reflect.Type
	name string
	meta Meta
}

// Of returns a Nominal node for the primitive t.
func Of(t reflect.Type) *Nominal {
	return &Nominal{prim: t}
}

// Named returns a Nominal node for t that describes itself as name. Distinct
// named nodes are distinct registry keys even when they share a primitive.
func Named(name string, t reflect.Type) *Nominal {
	return &Nominal{prim: t, name: name}
}

// Nil returns the absence node.
func Nil() *Nominal { return Of(NullType) }

// String returns a string node.
func String() *Nominal { return Of(StringType) }

// Int returns an integer node.
func Int() *Nominal { return Of(IntType) }

// Int64 returns a 64-bit integer node.
func Int64() *Nominal { return Of(Int64Type) }

// Bool returns a boolean node.
func Bool() *Nominal { return Of(BoolType) }

// Float returns a float node.
func Float() *Nominal { return Of(FloatType) }

// Time returns a date-time node.
func Time() *Nominal { return Of(TimeType) }

// DateOnly returns a calendar date node.
func DateOnly() *Nominal { return Of(DateType) }

// UUID returns a UUID node.
func UUID() *Nominal { return Of(UUIDType) }

// Bytes returns a byte slice node. No built-in scalar covers it.
func Bytes() *Nominal { return Of(BytesType) }

// Primitive implements HasPrimitive.
func (n *Nominal) Primitive() reflect.Type { return n.prim }

// Meta implements HasMeta.
func (n *Nominal) Meta() Meta { return n.meta }

// With returns a copy of n carrying m merged over its metadata.
func (n *Nominal) With(m Meta) *Nominal {
	c := *n
	c.meta = m.Merge(n.meta)
	return &c
}

func (n *Nominal) withMeta(m Meta) Node {
	c := *n
	c.meta = m
	return &c
}

func (n *Nominal) String() string {
	switch {
	case n.name != "":
		return n.name
	case n.prim == nil:
		return "Nominal<nil>"
	default:
		return "Nominal<" + n.prim.String() + ">"
	}
}
