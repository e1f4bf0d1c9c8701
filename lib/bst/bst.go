// Package bst provides BSTree, a plain (unbalanced) binary search tree set.
//
// BSTree shares the ordering concept of the avl package but never rebalances,
// so its height depends on the insertion order (ascending inserts degrade it
// into a chain). It is kept as a baseline for the balanced avl.Map.
//
// Thread-safety: BSTree is not thread-safe.
package bst

import (
	"cmp"
	"iter"
)

type node[T any] struct {
	value T
	left  *node[T]
	right *node[T]
}

// BSTree is an unbalanced binary search tree holding unique values.
// The zero value is an empty tree ready to use.
type BSTree[T cmp.Ordered] struct {
	root *node[T]
}

// New creates an empty tree.
func New[T cmp.Ordered]() *BSTree[T] {
	return &BSTree[T]{}
}

// Search reports whether v is in the tree.
func (t *BSTree[T]) Search(v T) bool {
	n := t.root
	for n != nil {
		switch {
		case v < n.value:
			n = n.left
		case v > n.value:
			n = n.right
		default:
			return true
		}
	}
	return false
}

// Insert adds v to the tree.
// It returns true if v was already present (the tree is unchanged then).
func (t *BSTree[T]) Insert(v T) bool {
	slot := &t.root
	for *slot != nil {
		n := *slot
		switch {
		case v < n.value:
			slot = &n.left
		case v > n.value:
			slot = &n.right
		default:
			return true
		}
	}
	*slot = &node[T]{value: v}
	return false
}

// Remove deletes v from the tree and reports whether it was present.
// A node with two children takes the value of the leftmost node of its right
// subtree, which is then unlinked.
func (t *BSTree[T]) Remove(v T) bool {
	slot := &t.root
	for *slot != nil {
		n := *slot
		switch {
		case v < n.value:
			slot = &n.left
		case v > n.value:
			slot = &n.right
		default:
			switch {
			case n.left != nil && n.right != nil:
				n.value = takeLeftmost(&n.right)
			case n.left != nil:
				*slot = n.left
			default:
				*slot = n.right
			}
			return true
		}
	}
	return false
}

// takeLeftmost unlinks the leftmost node of the non-empty subtree in *slot
// and returns its value.
func takeLeftmost[T any](slot **node[T]) T {
	for (*slot).left != nil {
		slot = &(*slot).left
	}
	n := *slot
	*slot = n.right
	return n.value
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *BSTree[T]) Height() int {
	return height(t.root)
}

// Balance returns height(right) - height(left) of the root.
func (t *BSTree[T]) Balance() int {
	if t.root == nil {
		return 0
	}
	return height(t.root.right) - height(t.root.left)
}

func height[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return 1 + max(height(n.left), height(n.right))
}

// All returns an iterator over the values in ascending order.
func (t *BSTree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		walk(t.root, yield)
	}
}

func walk[T any](n *node[T], yield func(T) bool) bool {
	if n == nil {
		return true
	}
	return walk(n.left, yield) && yield(n.value) && walk(n.right, yield)
}
