package util

import (
	"sort"
	"testing"
)

// TestNewMapHeap tests the creation of a new MapHeap
func TestNewMapHeap(t *testing.T) {
	mh := NewMapHeap[string]()

	if mh.Len() != 0 {
		t.Errorf("New heap should be empty, but has length %d", mh.Len())
	}

	if _, exists := mh.Peek(); exists {
		t.Error("Peek on empty heap should return exists=false")
	}

	if item := mh.PopItem(); item != nil {
		t.Errorf("PopItem on empty heap should return nil, got %v", item)
	}
}

// TestAddAndUpdate tests adding items and updating their priority
func TestAddAndUpdate(t *testing.T) {
	mh := NewMapHeap[string]()

	mh.AddItem("a", 100)
	mh.AddItem("b", 200)
	mh.AddItem("c", 50)

	if mh.Len() != 3 {
		t.Fatalf("Heap should have 3 items, but has %d", mh.Len())
	}

	for _, key := range []string{"a", "b", "c"} {
		if !mh.Contains(key) {
			t.Errorf("Heap should contain key %q", key)
		}
	}

	item, _ := mh.Peek()
	if item.Key != "c" || item.Priority != 50 {
		t.Errorf("Expected min item to be (c,50), got %v", item)
	}

	// raising the minimum moves another item to the top
	mh.AddItem("c", 300)
	item, _ = mh.Peek()
	if item.Key != "a" {
		t.Errorf("Min item should now be a, got %v", item)
	}

	// lowering an item moves it to the top
	mh.AddItem("b", 10)
	item, _ = mh.Peek()
	if item.Key != "b" || item.Priority != 10 {
		t.Errorf("Min item should now be (b,10), got %v", item)
	}

	if mh.Len() != 3 {
		t.Errorf("Updates must not add items, heap has %d", mh.Len())
	}
}

// TestRemoveByKey tests removing items by key
func TestRemoveByKey(t *testing.T) {
	mh := NewMapHeap[string]()

	mh.AddItem("a", 100)
	mh.AddItem("b", 200)
	mh.AddItem("c", 300)

	priority, exists := mh.RemoveByKey("b")
	if !exists {
		t.Fatal("RemoveByKey should return true for existing key")
	}
	if priority != 200 {
		t.Errorf("RemoveByKey should return priority 200, got %d", priority)
	}
	if mh.Contains("b") {
		t.Error("Heap should not contain b after removal")
	}
	if _, exists := mh.GetByKey("b"); exists {
		t.Error("GetByKey should not find b after removal")
	}

	if _, exists = mh.RemoveByKey("zz"); exists {
		t.Error("RemoveByKey should return false for non-existent key")
	}
}

// TestPopOrder tests if items are popped in priority order
func TestPopOrder(t *testing.T) {
	mh := NewMapHeap[uint64]()

	items := []struct {
		key      uint64
		priority uint64
	}{
		{5, 50},
		{3, 30},
		{1, 10},
		{4, 40},
		{2, 20},
	}

	for _, item := range items {
		mh.AddItem(item.key, item.priority)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].priority < items[j].priority
	})

	for i, expected := range items {
		item := mh.PopItem()
		if item == nil {
			t.Fatalf("Heap empty after %d items, expected %d items", i, len(items))
		}
		if item.Key != expected.key || item.Priority != expected.priority {
			t.Errorf("Pop %d: expected (%d,%d), got %v", i, expected.key, expected.priority, item)
		}
		if mh.Contains(item.Key) {
			t.Errorf("Popped key %d is still indexed", item.Key)
		}
	}
}

// TestClear tests that a cleared heap can be reused
func TestClear(t *testing.T) {
	mh := NewMapHeap[string]()
	for i := 0; i < 100; i++ {
		mh.AddItem(string(rune('a'+i%26))+string(rune('a'+i/26)), uint64(i))
	}

	mh.Clear()
	if mh.Len() != 0 || mh.Contains("aa") {
		t.Fatalf("Heap should be empty after Clear, has %d items", mh.Len())
	}

	mh.AddItem("x", 1)
	if item, _ := mh.Peek(); item.Key != "x" {
		t.Errorf("Expected x after reuse, got %v", item)
	}
}
