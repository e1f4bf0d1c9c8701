// Package trie provides HashTrie, a trie whose children are kept in hash maps.
//
// Keys are sequences of segments ([]K), for example the bytes of a string.
// Every node may hold a value. Removing a key prunes the branches that no
// longer lead to any value.
package trie

// HashTrie maps segment sequences to values.
type HashTrie[K comparable, V any] struct {
	value    V
	hasValue bool
	children map[K]*HashTrie[K, V]
}

// Entry is a key and its value as returned by EntriesWithPrefix.
type Entry[K comparable, V any] struct {
	Key   []K
	Value V
}

// New creates an empty trie.
func New[K comparable, V any]() *HashTrie[K, V] {
	return &HashTrie[K, V]{}
}

// Insert stores v under key and returns the previous value, if any.
func (t *HashTrie[K, V]) Insert(key []K, v V) (old V, replaced bool) {
	n := t
	for _, seg := range key {
		child, ok := n.children[seg]
		if !ok {
			if n.children == nil {
				n.children = make(map[K]*HashTrie[K, V])
			}
			child = &HashTrie[K, V]{}
			n.children[seg] = child
		}
		n = child
	}
	old, replaced = n.value, n.hasValue
	n.value, n.hasValue = v, true
	return old, replaced
}

// Get returns the value stored under key.
func (t *HashTrie[K, V]) Get(key []K) (v V, ok bool) {
	n := t.find(key)
	if n == nil || !n.hasValue {
		return v, false
	}
	return n.value, true
}

// Remove deletes key and returns its value.
func (t *HashTrie[K, V]) Remove(key []K) (v V, ok bool) {
	v, ok, _ = t.remove(key)
	return v, ok
}

// remove reports, besides the removed value, whether t is now empty and can
// be dropped by its parent.
func (t *HashTrie[K, V]) remove(key []K) (v V, ok bool, empty bool) {
	if len(key) == 0 {
		v, ok = t.value, t.hasValue
		var zero V
		t.value, t.hasValue = zero, false
		return v, ok, len(t.children) == 0
	}
	child, found := t.children[key[0]]
	if !found {
		return v, false, false
	}
	v, ok, childEmpty := child.remove(key[1:])
	if childEmpty {
		delete(t.children, key[0])
	}
	return v, ok, len(t.children) == 0 && !t.hasValue
}

// IsEmpty reports whether the trie holds no values.
func (t *HashTrie[K, V]) IsEmpty() bool {
	return !t.hasValue && len(t.children) == 0
}

// EntriesWithPrefix returns the entries related to prefix: every entry whose
// key starts with prefix, plus the entries whose key is itself a prefix of
// prefix. If the path for prefix does not exist nothing is returned.
// The order of the entries is unspecified.
func (t *HashTrie[K, V]) EntriesWithPrefix(prefix []K) []Entry[K, V] {
	var acc []Entry[K, V]
	n := t
	for i, seg := range prefix {
		child, ok := n.children[seg]
		if !ok {
			return nil
		}
		if n.hasValue {
			acc = append(acc, Entry[K, V]{Key: clone(prefix[:i]), Value: n.value})
		}
		n = child
	}
	return n.collect(clone(prefix), acc)
}

// KeysWithPrefix is EntriesWithPrefix without the values.
func (t *HashTrie[K, V]) KeysWithPrefix(prefix []K) [][]K {
	entries := t.EntriesWithPrefix(prefix)
	keys := make([][]K, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// ValuesWithPrefix is EntriesWithPrefix without the keys.
func (t *HashTrie[K, V]) ValuesWithPrefix(prefix []K) []V {
	entries := t.EntriesWithPrefix(prefix)
	values := make([]V, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	return values
}

func (t *HashTrie[K, V]) collect(key []K, acc []Entry[K, V]) []Entry[K, V] {
	if t.hasValue {
		acc = append(acc, Entry[K, V]{Key: clone(key), Value: t.value})
	}
	for seg, child := range t.children {
		acc = child.collect(append(key, seg), acc)
	}
	return acc
}

func (t *HashTrie[K, V]) find(key []K) *HashTrie[K, V] {
	n := t
	for _, seg := range key {
		child, ok := n.children[seg]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

func clone[K any](s []K) []K {
	out := make([]K, len(s))
	copy(out, s)
	return out
}
