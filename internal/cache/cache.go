// Package cache holds per-entry render artefacts between repaints.
package cache

import "github.com/lumipallolabs/foldergrid/internal/deferred"

// Key identifies one rendered artefact: an entry and a variant such as
// "normal", "selected" or "hover" combined with the icon size
type Key struct {
	ID      string
	Variant string
}

// RenderCache stores rendered values. Touch restarts the inactivity timer;
// when it fires the owner calls Clear.
type RenderCache[V any] struct {
	items  map[Key]V
	clear  *deferred.Task
	hits   int
	misses int
}

// New creates an empty cache. clear may be nil.
func New[V any](clear *deferred.Task) *RenderCache[V] {
	return &RenderCache[V]{items: make(map[Key]V), clear: clear}
}

// Get returns the cached value for k
func (c *RenderCache[V]) Get(k Key) (V, bool) {
	v, ok := c.items[k]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Put stores v under k
func (c *RenderCache[V]) Put(k Key, v V) {
	c.items[k] = v
}

// GetOrRender returns the cached value or renders and stores it
func (c *RenderCache[V]) GetOrRender(k Key, render func() V) V {
	if v, ok := c.Get(k); ok {
		return v
	}
	v := render()
	c.items[k] = v
	return v
}

// InvalidateID drops every variant of id
func (c *RenderCache[V]) InvalidateID(id string) {
	for k := range c.items {
		if k.ID == id {
			delete(c.items, k)
		}
	}
}

// Clear drops everything
func (c *RenderCache[V]) Clear() {
	if len(c.items) > 0 {
		c.items = make(map[Key]V)
	}
}

// Len returns the number of cached values
func (c *RenderCache[V]) Len() int { return len(c.items) }

// Stats returns hit and miss counts
func (c *RenderCache[V]) Stats() (hits, misses int) { return c.hits, c.misses }

// Touch marks the cache as in use. Call it once per repaint rather than per
// lookup.
func (c *RenderCache[V]) Touch() {
	if c.clear != nil {
		c.clear.Start()
	}
}
