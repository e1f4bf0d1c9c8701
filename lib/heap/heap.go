// Package heap provides a binary min-heap over a slice.
//
// The heap keeps the shape invariant of a complete binary tree stored in
// level order: the children of index i live at 2i+1 and 2i+2 and no child is
// less than its parent. Push sifts the new element up, Pop moves the last
// element to the root and sifts it down.
//
// Thread-safety: Heap is not thread-safe.
package heap

import "cmp"

// Heap is a binary min-heap ordered by less.
type Heap[T any] struct {
	items []T
	less  func(a, b T) bool
}

// New creates an empty heap ordered by the natural order of T.
func New[T cmp.Ordered]() *Heap[T] {
	return NewFunc(cmp.Less[T])
}

// NewFunc creates an empty heap ordered by less.
func NewFunc[T any](less func(a, b T) bool) *Heap[T] {
	return &Heap[T]{less: less}
}

// Len returns the number of elements.
func (h *Heap[T]) Len() int {
	return len(h.items)
}

// Push adds v to the heap.
func (h *Heap[T]) Push(v T) {
	h.items = append(h.items, v)
	h.up(len(h.items) - 1)
}

// Peek returns the minimum element without removing it.
func (h *Heap[T]) Peek() (T, bool) {
	if len(h.items) == 0 {
		var zero T
		return zero, false
	}
	return h.items[0], true
}

// Pop removes and returns the minimum element.
func (h *Heap[T]) Pop() (T, bool) {
	var zero T
	n := len(h.items)
	if n == 0 {
		return zero, false
	}
	top := h.items[0]
	h.items[0] = h.items[n-1]
	h.items[n-1] = zero
	h.items = h.items[:n-1]
	if len(h.items) > 1 {
		h.down(0)
	}
	return top, true
}

func (h *Heap[T]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(h.items[i], h.items[parent]) {
			return
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *Heap[T]) down(i int) {
	n := len(h.items)
	for {
		smallest := i
		if l := 2*i + 1; l < n && h.less(h.items[l], h.items[smallest]) {
			smallest = l
		}
		if r := 2*i + 2; r < n && h.less(h.items[r], h.items[smallest]) {
			smallest = r
		}
		if smallest == i {
			return
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
