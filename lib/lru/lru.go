// Package lru provides a fixed-capacity least-recently-used cache.
//
// Recency is kept in a list.List of keys, most recent at the head. Get moves
// a key to the head; inserting a new key when the cache is full evicts the
// key at the tail. Overwriting an existing key replaces its value and leaves
// its recency position unchanged.
//
// Thread-safety: Cache is not thread-safe.
package lru

import "github.com/ValentinKolb/avlkv/lib/list"

type entry[K comparable, V any] struct {
	value  V
	handle *list.Handle[K]
}

// Cache is an LRU cache holding at most Capacity entries.
type Cache[K comparable, V any] struct {
	entries  map[K]*entry[K, V]
	recent   *list.List[K]
	capacity int
}

// New creates a cache for up to capacity entries. A cache with capacity < 1
// stores nothing.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*entry[K, V]),
		recent:   list.New[K](),
		capacity: capacity,
	}
}

// Capacity returns the maximum number of entries.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return len(c.entries)
}

// Insert stores v under k. If a new key does not fit, the least recently
// used key is evicted and returned with evicted set to true.
func (c *Cache[K, V]) Insert(k K, v V) (evictedKey K, evicted bool) {
	if e, ok := c.entries[k]; ok {
		e.value = v
		return evictedKey, false
	}
	if c.capacity < 1 {
		return evictedKey, false
	}
	if len(c.entries) >= c.capacity {
		evictedKey, evicted = c.recent.PopTail()
		delete(c.entries, evictedKey)
	}
	c.entries[k] = &entry[K, V]{value: v, handle: c.recent.PushHead(k)}
	return evictedKey, evicted
}

// Get returns the value for k and marks k as most recently used.
// An absent key is reported with ok == false and does not touch the cache.
func (c *Cache[K, V]) Get(k K) (v V, ok bool) {
	e, ok := c.entries[k]
	if !ok {
		return v, false
	}
	c.recent.MoveToHead(e.handle)
	return e.value, true
}

// Peek returns the value for k without changing its recency.
func (c *Cache[K, V]) Peek(k K) (v V, ok bool) {
	e, ok := c.entries[k]
	if !ok {
		return v, false
	}
	return e.value, true
}

// Keys returns the cached keys from most to least recently used.
func (c *Cache[K, V]) Keys() []K {
	return c.recent.Values()
}
