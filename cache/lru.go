// Package cache provides capacity-bounded in-memory caches used by
// event-loop programs to track per-connection state: a recency-evicting
// LRUCache and a time-evicting TTLCache.
//
// The caches are not goroutine safe; they are meant to live inside a
// single event loop.
package cache

import "container/list"

// LRUCache holds up to a fixed number of entries, evicting the least
// recently used one on overflow. Get counts as a use.
type LRUCache[K comparable, V any] struct {
	capacity int
	ll       *list.List // front is most recently used
	items    map[K]*list.Element
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// NewLRU creates a cache holding up to capacity entries. It panics if
// capacity is not positive.
func NewLRU[K comparable, V any](capacity int) *LRUCache[K, V] {
	if capacity <= 0 {
		panic("cache: LRU capacity must be positive")
	}
	return &LRUCache[K, V]{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[K]*list.Element, capacity),
	}
}

// Put inserts or replaces the value for k, evicting the least recently
// used entry if the cache is full.
func (c *LRUCache[K, V]) Put(k K, v V) {
	if el, ok := c.items[k]; ok {
		el.Value.(*lruEntry[K, V]).value = v
		c.ll.MoveToFront(el)
		return
	}
	if c.ll.Len() >= c.capacity {
		c.evictOldest()
	}
	c.items[k] = c.ll.PushFront(&lruEntry[K, V]{key: k, value: v})
}

// Get returns the value for k and marks it most recently used.
func (c *LRUCache[K, V]) Get(k K) (V, bool) {
	if el, ok := c.items[k]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*lruEntry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Pop removes and returns the value for k.
func (c *LRUCache[K, V]) Pop(k K) (V, bool) {
	if el, ok := c.items[k]; ok {
		c.ll.Remove(el)
		delete(c.items, k)
		return el.Value.(*lruEntry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Len returns the number of cached entries.
func (c *LRUCache[K, V]) Len() int { return c.ll.Len() }

// Capacity returns the maximum number of entries.
func (c *LRUCache[K, V]) Capacity() int { return c.capacity }

// IsEmpty reports whether the cache holds no entries.
func (c *LRUCache[K, V]) IsEmpty() bool { return c.ll.Len() == 0 }

// ChangeCapacity resizes the cache, evicting least recently used entries
// as needed. It panics if capacity is not positive.
func (c *LRUCache[K, V]) ChangeCapacity(capacity int) {
	if capacity <= 0 {
		panic("cache: LRU capacity must be positive")
	}
	for c.ll.Len() > capacity {
		c.evictOldest()
	}
	c.capacity = capacity
}

func (c *LRUCache[K, V]) evictOldest() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*lruEntry[K, V]).key)
}
