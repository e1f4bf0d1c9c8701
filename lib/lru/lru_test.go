package lru

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Insert("a", 1)
	c.Insert("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	evicted, ok := c.Insert("c", 3)
	require.True(t, ok)
	assert.Equal(t, "b", evicted)

	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, []string{"c", "a"}, c.Keys())
	assert.Equal(t, 2, c.Len())
}

func TestOverwriteKeepsPosition(t *testing.T) {
	c := New[string, int](2)
	c.Insert("a", 1)
	c.Insert("b", 2)

	_, evicted := c.Insert("a", 10)
	require.False(t, evicted)
	assert.Equal(t, []string{"b", "a"}, c.Keys())

	key, _ := c.Insert("c", 3)
	assert.Equal(t, "a", key)

	v, ok := c.Peek("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestGetAbsentDoesNotInsert(t *testing.T) {
	c := New[string, int](1)
	_, ok := c.Get("missing")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Keys())
}

func TestPeekKeepsRecency(t *testing.T) {
	c := New[int, string](2)
	c.Insert(1, "one")
	c.Insert(2, "two")

	_, ok := c.Peek(1)
	require.True(t, ok)

	key, evicted := c.Insert(3, "three")
	require.True(t, evicted)
	assert.Equal(t, 1, key)
}

func TestZeroCapacity(t *testing.T) {
	c := New[int, int](0)
	_, evicted := c.Insert(1, 1)
	assert.False(t, evicted)
	_, ok := c.Get(1)
	assert.False(t, ok)
}
