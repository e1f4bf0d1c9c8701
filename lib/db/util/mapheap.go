// Package util
//
// This file provides a specialized priority queue for garbage collection purposes.
//
// The queue combines a binary heap with a hash map: priority operations are
// O(log n), lookups and existence checks by key are O(1) and removal by key is
// O(log n). The AVL engine keeps one queue for expiration and one for deletion
// per shard, keyed by the entry key and prioritized by the write index at
// which the entry expires or is deleted.
//
// Note: This implementation is not thread-safe. The engine only touches it
// while holding the shard lock.
//
// Example usage:
//
//	gcQueue := NewMapHeap[string]()
//
//	gcQueue.AddItem("session:1", 120)
//	gcQueue.AddItem("session:2", 80)
//
//	oldest, exists := gcQueue.Peek() // session:2
//
//	gcQueue.RemoveByKey("session:1")
//
//	for gcQueue.Len() > 0 {
//	    item := gcQueue.PopItem()
//	    // collect item.Key
//	}
package util

import (
	"container/heap"
	"fmt"
)

// HeapItem is an entry of a MapHeap
type HeapItem[K comparable] struct {
	Key      K      // Unique identifier for the item
	Priority uint64 // Priority used for ordering in the heap
	index    int    // Index in the heap, maintained by heap package
}

func (i *HeapItem[K]) String() string {
	return fmt.Sprintf("{Key: %v, Priority: %d}", i.Key, i.Priority)
}

// MapHeap implements a min priority queue with key-based access
type MapHeap[K comparable] struct {
	items    []*HeapItem[K]     // The actual heap slice
	itemsMap map[K]*HeapItem[K] // Map for O(1) access by key
}

// NewMapHeap creates a new garbage collection queue
func NewMapHeap[K comparable]() *MapHeap[K] {
	return &MapHeap[K]{
		items:    make([]*HeapItem[K], 0),
		itemsMap: make(map[K]*HeapItem[K]),
	}
}

// Len returns the number of items in the queue (part of heap.Interface)
func (gcq *MapHeap[K]) Len() int { return len(gcq.items) }

// Less compares items by priority (part of heap.Interface)
func (gcq *MapHeap[K]) Less(i, j int) bool {
	return gcq.items[i].Priority < gcq.items[j].Priority
}

// Swap exchanges items at positions i and j (part of heap.Interface)
func (gcq *MapHeap[K]) Swap(i, j int) {
	gcq.items[i], gcq.items[j] = gcq.items[j], gcq.items[i]
	gcq.items[i].index = i
	gcq.items[j].index = j
}

// Push adds an item to the heap (part of heap.Interface, use AddItem instead)
func (gcq *MapHeap[K]) Push(x any) {
	item := x.(*HeapItem[K])
	item.index = len(gcq.items)
	gcq.items = append(gcq.items, item)
	gcq.itemsMap[item.Key] = item
}

// Pop removes and returns the last item (part of heap.Interface, use PopItem instead)
func (gcq *MapHeap[K]) Pop() any {
	old := gcq.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // Avoid memory leak
	item.index = -1 // For safety
	gcq.items = old[:n-1]
	delete(gcq.itemsMap, item.Key)
	return item
}

// AddItem adds a new item to the queue or updates the priority of an existing one
func (gcq *MapHeap[K]) AddItem(key K, priority uint64) {
	if item, exists := gcq.itemsMap[key]; exists {
		item.Priority = priority
		heap.Fix(gcq, item.index)
		return
	}

	heap.Push(gcq, &HeapItem[K]{
		Key:      key,
		Priority: priority,
	})
}

// PopItem removes and returns the item with the lowest priority.
// It returns nil if the queue is empty.
func (gcq *MapHeap[K]) PopItem() *HeapItem[K] {
	if len(gcq.items) == 0 {
		return nil
	}
	return heap.Pop(gcq).(*HeapItem[K])
}

// RemoveByKey removes an item by its key and returns its priority
func (gcq *MapHeap[K]) RemoveByKey(key K) (uint64, bool) {
	item, exists := gcq.itemsMap[key]
	if !exists {
		return 0, false
	}

	heap.Remove(gcq, item.index)
	return item.Priority, true
}

// Peek returns the item with the lowest priority without removing it
func (gcq *MapHeap[K]) Peek() (*HeapItem[K], bool) {
	if len(gcq.items) == 0 {
		return nil, false
	}
	return gcq.items[0], true
}

// Contains checks if a key exists in the queue
func (gcq *MapHeap[K]) Contains(key K) bool {
	_, exists := gcq.itemsMap[key]
	return exists
}

// GetByKey retrieves an item by its key without removing it
func (gcq *MapHeap[K]) GetByKey(key K) (*HeapItem[K], bool) {
	item, exists := gcq.itemsMap[key]
	return item, exists
}

// Clear removes all items
func (gcq *MapHeap[K]) Clear() {
	clear(gcq.items)
	gcq.items = gcq.items[:0]
	clear(gcq.itemsMap)
}
