package heap

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmpty(t *testing.T) {
	h := New[int]()
	_, ok := h.Pop()
	assert.False(t, ok)
	_, ok = h.Peek()
	assert.False(t, ok)
	assert.Zero(t, h.Len())
}

func TestPopOrder(t *testing.T) {
	h := New[int]()
	for _, v := range []int{5, 3, 8, 1, 9, 2, 7} {
		h.Push(v)
	}
	require.Equal(t, 7, h.Len())

	top, ok := h.Peek()
	require.True(t, ok)
	assert.Equal(t, 1, top)

	var got []int
	for h.Len() > 0 {
		v, _ := h.Pop()
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2, 3, 5, 7, 8, 9}, got)
}

func TestRandomHeapSort(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	h := New[int]()
	values := make([]int, 500)
	for i := range values {
		values[i] = r.Intn(100)
		h.Push(values[i])
	}
	slices.Sort(values)

	for i, want := range values {
		v, ok := h.Pop()
		require.True(t, ok)
		require.Equal(t, want, v, "pop %d", i)
	}
}

func TestNewFuncMaxHeap(t *testing.T) {
	h := NewFunc(func(a, b string) bool { return a > b })
	h.Push("b")
	h.Push("c")
	h.Push("a")
	v, _ := h.Pop()
	assert.Equal(t, "c", v)
	v, _ = h.Peek()
	assert.Equal(t, "b", v)
}
