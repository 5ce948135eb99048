package gqlshape

import (
	"sync"

	"github.com/graphql-go/graphql"
)

// typeCache memoizes the objects derived for one entity, keyed by the
// options that produced them. Only successful derivations are stored.
type typeCache struct {
	entries sync.Map // string -> *graphql.Object
}

// Load returns the object stored for key.
func (c *typeCache) Load(key string) (*graphql.Object, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*graphql.Object), true
}

// Store records obj for key unless a concurrent derivation stored one first.
// It returns the object that is cached.
func (c *typeCache) Store(key string, obj *graphql.Object) *graphql.Object {
	v, _ := c.entries.LoadOrStore(key, obj)
	return v.(*graphql.Object)
}

// Clear drops every cached object.
func (c *typeCache) Clear() {
	c.entries.Range(func(k, _ any) bool {
		c.entries.Delete(k)
		return true
	})
}

// Len returns the number of cached objects.
func (c *typeCache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
