package cache

import (
	"container/list"
	"time"
)

// TTLCache holds up to a fixed number of entries, each expiring after its
// own time-to-live. Expired entries read as misses and are dropped
// lazily; when a full cache takes a new key, the oldest insertion is
// evicted.
//
// Hit and miss counters are kept for cache tuning.
type TTLCache[K comparable, V any] struct {
	capacity int
	ll       *list.List // front is oldest insertion
	items    map[K]*list.Element

	hits       uint64
	misses     uint64
	statsSince time.Time
}

type ttlEntry[K comparable, V any] struct {
	key      K
	value    V
	deadline time.Time
}

func (e *ttlEntry[K, V]) expired(now time.Time) bool {
	return !now.Before(e.deadline)
}

// NewTTL creates a cache holding up to capacity entries. It panics if
// capacity is not positive.
func NewTTL[K comparable, V any](capacity int) *TTLCache[K, V] {
	if capacity <= 0 {
		panic("cache: TTL capacity must be positive")
	}
	return &TTLCache[K, V]{
		capacity:   capacity,
		ll:         list.New(),
		items:      make(map[K]*list.Element, capacity),
		statsSince: time.Now(),
	}
}

// Insert stores v under k for ttl and returns the live value it
// displaced, if any.
func (c *TTLCache[K, V]) Insert(k K, v V, ttl time.Duration) (V, bool) {
	var displaced V
	var hadLive bool
	now := time.Now()

	if el, ok := c.items[k]; ok {
		old := el.Value.(*ttlEntry[K, V])
		if !old.expired(now) {
			displaced, hadLive = old.value, true
		}
		c.ll.Remove(el)
		delete(c.items, k)
	}

	if c.ll.Len() >= c.capacity {
		c.evictOldest()
	}
	c.items[k] = c.ll.PushBack(&ttlEntry[K, V]{key: k, value: v, deadline: now.Add(ttl)})
	return displaced, hadLive
}

// Get returns the live value for k. Expired entries count as misses and
// are removed.
func (c *TTLCache[K, V]) Get(k K) (V, bool) {
	var zero V
	el, ok := c.items[k]
	if !ok {
		c.misses++
		return zero, false
	}
	e := el.Value.(*ttlEntry[K, V])
	if e.expired(time.Now()) {
		c.ll.Remove(el)
		delete(c.items, k)
		c.misses++
		return zero, false
	}
	c.hits++
	return e.value, true
}

// ContainsKey reports whether k maps to a live value. It does not touch
// the hit/miss counters.
func (c *TTLCache[K, V]) ContainsKey(k K) bool {
	el, ok := c.items[k]
	if !ok {
		return false
	}
	return !el.Value.(*ttlEntry[K, V]).expired(time.Now())
}

// Remove drops the entry for k and returns its live value, if any.
func (c *TTLCache[K, V]) Remove(k K) (V, bool) {
	var zero V
	el, ok := c.items[k]
	if !ok {
		return zero, false
	}
	e := el.Value.(*ttlEntry[K, V])
	c.ll.Remove(el)
	delete(c.items, k)
	if e.expired(time.Now()) {
		return zero, false
	}
	return e.value, true
}

// Len returns the number of live entries, dropping expired ones.
func (c *TTLCache[K, V]) Len() int {
	now := time.Now()
	for el := c.ll.Front(); el != nil; {
		next := el.Next()
		e := el.Value.(*ttlEntry[K, V])
		if e.expired(now) {
			c.ll.Remove(el)
			delete(c.items, e.key)
		}
		el = next
	}
	return c.ll.Len()
}

// Capacity returns the maximum number of entries.
func (c *TTLCache[K, V]) Capacity() int { return c.capacity }

// SetCapacity resizes the cache, evicting oldest insertions as needed.
// It panics if capacity is not positive.
func (c *TTLCache[K, V]) SetCapacity(capacity int) {
	if capacity <= 0 {
		panic("cache: TTL capacity must be positive")
	}
	for c.ll.Len() > capacity {
		c.evictOldest()
	}
	c.capacity = capacity
}

// Clear drops all entries. Counters are unaffected.
func (c *TTLCache[K, V]) Clear() {
	c.ll.Init()
	clear(c.items)
}

// HitCount returns the number of Get hits since the last reset.
func (c *TTLCache[K, V]) HitCount() uint64 { return c.hits }

// MissCount returns the number of Get misses since the last reset.
func (c *TTLCache[K, V]) MissCount() uint64 { return c.misses }

// StatsSince returns when the counters were last reset.
func (c *TTLCache[K, V]) StatsSince() time.Time { return c.statsSince }

// ResetStats zeroes the hit/miss counters.
func (c *TTLCache[K, V]) ResetStats() {
	c.hits = 0
	c.misses = 0
	c.statsSince = time.Now()
}

func (c *TTLCache[K, V]) evictOldest() {
	el := c.ll.Front()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*ttlEntry[K, V]).key)
}
