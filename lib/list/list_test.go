package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPop(t *testing.T) {
	l := New[int]()
	_, ok := l.PopTail()
	require.False(t, ok)

	l.PushHead(1)
	l.PushHead(2)
	l.PushHead(3)
	assert.Equal(t, []int{3, 2, 1}, l.Values())
	assert.Equal(t, 3, l.Len())

	v, ok := l.PopTail()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []int{3, 2}, l.Values())
}

func TestRemoveHandle(t *testing.T) {
	testCases := []struct {
		name     string
		remove   int
		expected []string
	}{
		{name: "head", remove: 2, expected: []string{"b", "a"}},
		{name: "middle", remove: 1, expected: []string{"c", "a"}},
		{name: "tail", remove: 0, expected: []string{"c", "b"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := New[string]()
			handles := []*Handle[string]{l.PushHead("a"), l.PushHead("b"), l.PushHead("c")}
			require.True(t, l.Remove(handles[tc.remove]))
			assert.Equal(t, tc.expected, l.Values())
			assert.Equal(t, 2, l.Len())
			assert.False(t, l.Remove(handles[tc.remove]), "second remove is a no-op")
		})
	}
}

func TestRemoveLast(t *testing.T) {
	l := New[int]()
	h := l.PushHead(1)
	require.True(t, l.Remove(h))
	assert.Nil(t, l.Head())
	assert.Nil(t, l.Tail())
	assert.Zero(t, l.Len())
}

func TestMoveToHead(t *testing.T) {
	l := New[int]()
	one := l.PushHead(1)
	l.PushHead(2)
	l.PushHead(3)

	require.True(t, l.MoveToHead(one))
	assert.Equal(t, []int{1, 3, 2}, l.Values())
	assert.Equal(t, 2, l.Tail().Value)

	other := New[int]()
	assert.False(t, other.MoveToHead(one))
}
