package avl

import (
	"cmp"
	"iter"
)

// Map is an ordered map from K to V backed by an AVL tree.
// Use New or NewFunc to create one.
//
// Thread-safety: Map is not thread-safe.
type Map[K, V any] struct {
	root *node[K, V]
	cmp  func(a, b K) int
	size int
}

// New creates an empty map ordered by the natural ordering of K.
func New[K cmp.Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{cmp: cmp.Compare[K]}
}

// NewFunc creates an empty map ordered by cmp, which must define a total
// order (negative if a < b, zero if a == b, positive if a > b).
func NewFunc[K, V any](cmp func(a, b K) int) *Map[K, V] {
	return &Map[K, V]{cmp: cmp}
}

// --------------------------------------------------------------------------
// Queries
// --------------------------------------------------------------------------

// Get returns the value stored for key.
// The boolean return value indicates whether the key was found.
func (m *Map[K, V]) Get(key K) (V, bool) {
	n := m.root
	for n != nil {
		c := m.cmp(key, n.key)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n.value, true
		}
	}
	var zero V
	return zero, false
}

// Has reports whether key is in the map.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// First returns the smallest key, false if the map is empty.
func (m *Map[K, V]) First() (K, bool) {
	var key K
	if m.root == nil {
		return key, false
	}
	n := m.root
	for n.left != nil {
		n = n.left
	}
	return n.key, true
}

// Last returns the largest key, false if the map is empty.
func (m *Map[K, V]) Last() (K, bool) {
	var key K
	if m.root == nil {
		return key, false
	}
	n := m.root
	for n.right != nil {
		n = n.right
	}
	return n.key, true
}

// Height returns the height of the tree (0 for an empty map).
// For n entries it never exceeds ~1.44*log2(n+2).
func (m *Map[K, V]) Height() int {
	return height(m.root)
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.size
}

// All returns an iterator over all entries in ascending key order.
// The map must not be modified during the iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.root.walk(yield)
	}
}

// Backward returns an iterator over all entries in descending key order.
// The map must not be modified during the iteration.
func (m *Map[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.root.walkBackward(yield)
	}
}

// --------------------------------------------------------------------------
// Mutations
// --------------------------------------------------------------------------

// Insert stores value for key. If the key already existed, its value is
// replaced and the previous value is returned together with true.
func (m *Map[K, V]) Insert(key K, value V) (V, bool) {
	old, replaced := insert(&m.root, key, value, m.cmp)
	if !replaced {
		m.size++
	}
	return old, replaced
}

// Remove deletes key from the map and returns its value.
// The boolean return value indicates whether the key was found.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	removed, ok := remove(&m.root, key, m.cmp)
	if ok {
		m.size--
	}
	return removed, ok
}

// Clear removes all entries.
func (m *Map[K, V]) Clear() {
	m.root = nil
	m.size = 0
}
