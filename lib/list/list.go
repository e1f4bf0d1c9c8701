// Package list provides a doubly linked list addressed through handles.
//
// PushHead returns a Handle for the new element. The handle stays valid until
// the element is removed, and Remove(h) unlinks it in constant time, which is
// what the lru package relies on.
package list

// Handle refers to one element of a List.
type Handle[T any] struct {
	Value T
	prev  *Handle[T]
	next  *Handle[T]
	list  *List[T]
}

// List is a doubly linked list. The zero value is an empty list.
type List[T any] struct {
	head *Handle[T]
	tail *Handle[T]
	len  int
}

// New creates an empty list.
func New[T any]() *List[T] {
	return &List[T]{}
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return l.len
}

// Head returns the first element, or nil if the list is empty.
func (l *List[T]) Head() *Handle[T] {
	return l.head
}

// Tail returns the last element, or nil if the list is empty.
func (l *List[T]) Tail() *Handle[T] {
	return l.tail
}

// PushHead inserts v at the front of the list.
func (l *List[T]) PushHead(v T) *Handle[T] {
	h := &Handle[T]{Value: v, list: l}
	l.linkHead(h)
	return h
}

// PopTail removes the last element and returns its value.
func (l *List[T]) PopTail() (T, bool) {
	if l.tail == nil {
		var zero T
		return zero, false
	}
	h := l.tail
	l.Remove(h)
	return h.Value, true
}

// Remove unlinks h from the list. It reports false if h does not belong to l
// (for example because it was already removed).
func (l *List[T]) Remove(h *Handle[T]) bool {
	if h == nil || h.list != l {
		return false
	}
	l.unlink(h)
	h.list = nil
	return true
}

// MoveToHead moves h to the front of the list.
func (l *List[T]) MoveToHead(h *Handle[T]) bool {
	if h == nil || h.list != l {
		return false
	}
	if l.head != h {
		l.unlink(h)
		l.linkHead(h)
	}
	return true
}

// Values returns the values from head to tail.
func (l *List[T]) Values() []T {
	out := make([]T, 0, l.len)
	for h := l.head; h != nil; h = h.next {
		out = append(out, h.Value)
	}
	return out
}

func (l *List[T]) linkHead(h *Handle[T]) {
	h.prev = nil
	h.next = l.head
	if l.head != nil {
		l.head.prev = h
	} else {
		l.tail = h
	}
	l.head = h
	l.len++
}

func (l *List[T]) unlink(h *Handle[T]) {
	if h.prev != nil {
		h.prev.next = h.next
	} else {
		l.head = h.next
	}
	if h.next != nil {
		h.next.prev = h.prev
	} else {
		l.tail = h.prev
	}
	h.prev, h.next = nil, nil
	l.len--
}
