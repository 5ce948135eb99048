package types

import "fmt"

// Union is a two-armed union. Optional values are unions whose left arm is Nil.
type Union struct {
	left, right Node
	meta        Meta
}

// Or returns the union of left and right.
func Or(left, right Node) *Union {
	return &Union{left: left, right: right}
}

// Optional returns the union of Nil and n.
func Optional(n Node) *Union {
	return Or(Nil(), n)
}

// Left implements HasBranches.
func (u *Union) Left() Node { return u.left }

// Right implements HasBranches.
func (u *Union) Right() Node { return u.right }

// Meta implements HasMeta.
func (u *Union) Meta() Meta { return u.meta }

// With returns a copy of u carrying m.
func (u *Union) With(m Meta) *Union {
	c := *u
	c.meta = m.Merge(u.meta)
	return &c
}

func (u *Union) withMeta(m Meta) Node {
	c := *u
	c.meta = m
	return &c
}

func (u *Union) String() string {
	return fmt.Sprintf("Union<%s | %s>", nodeString(u.left), nodeString(u.right))
}

// Array is a list of a single member type.
type Array struct {
	member Node
	meta   Meta
}

// ArrayOf returns an Array of member.
func ArrayOf(member Node) *Array {
	return &Array{member: member}
}

// Member implements HasMember.
func (a *Array) Member() Node { return a.member }

// Meta implements HasMeta.
func (a *Array) Meta() Meta { return a.meta }

// With returns a copy of a carrying m.
func (a *Array) With(m Meta) *Array {
	c := *a
	c.meta = m.Merge(a.meta)
	return &c
}

func (a *Array) withMeta(m Meta) Node {
	c := *a
	c.meta = m
	return &c
}

func (a *Array) String() string {
	return "Array<" + nodeString(a.member) + ">"
}

// Hash is a keyed container. A hash built with Object declares its keys and
// describes a record; a hash built with Map is unstructured.
type Hash struct {
	keys     Keys
	declared bool
	meta     Meta
}

// Object returns a Hash declaring keys.
func Object(keys ...Key) *Hash {
	return &Hash{keys: Keys(keys), declared: true}
}

// Map returns an unstructured Hash.
func Map() *Hash {
	return &Hash{}
}

// Keys implements HasKeys.
func (h *Hash) Keys() (Keys, bool) { return h.keys, h.declared }

// Meta implements HasMeta.
func (h *Hash) Meta() Meta { return h.meta }

// With returns a copy of h carrying m.
func (h *Hash) With(m Meta) *Hash {
	c := *h
	c.meta = m.Merge(h.meta)
	return &c
}

func (h *Hash) withMeta(m Meta) Node {
	c := *h
	c.meta = m
	return &c
}

func (h *Hash) String() string {
	if !h.declared {
		return "Hash"
	}
	return "Hash" + h.keys.String()
}
