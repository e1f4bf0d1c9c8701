package avl

import (
	"math"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// requireValid walks the whole tree and checks ordering, cached heights, the
// AVL balance of every node and the entry count.
func requireValid[K, V any](t *testing.T, m *Map[K, V]) {
	t.Helper()

	var (
		prev    K
		hasPrev bool
		count   int
	)

	var check func(n *node[K, V]) int
	check = func(n *node[K, V]) int {
		if n == nil {
			return 0
		}
		lh := check(n.left)

		if hasPrev {
			require.Negative(t, m.cmp(prev, n.key), "keys out of order: %v before %v", prev, n.key)
		}
		prev, hasPrev = n.key, true
		count++

		rh := check(n.right)

		require.Equal(t, 1+max(lh, rh), n.height, "wrong cached height at %v", n.key)
		require.LessOrEqual(t, rh-lh, 1, "right heavy at %v", n.key)
		require.GreaterOrEqual(t, rh-lh, -1, "left heavy at %v", n.key)
		return n.height
	}

	check(m.root)
	require.Equal(t, m.Len(), count)
}

func insertAll(m *Map[int, int], keys ...int) {
	for _, k := range keys {
		m.Insert(k, k*10)
	}
}

func keys[K, V any](m *Map[K, V]) []K {
	var out []K
	for k := range m.All() {
		out = append(out, k)
	}
	return out
}

// --------------------------------------------------------------------------
// Scenarios
// --------------------------------------------------------------------------

func TestEmptyMap(t *testing.T) {
	m := New[int, string]()

	_, ok := m.Get(1)
	assert.False(t, ok)
	_, ok = m.First()
	assert.False(t, ok)
	_, ok = m.Last()
	assert.False(t, ok)
	_, ok = m.Remove(1)
	assert.False(t, ok)

	assert.Equal(t, 0, m.Height())
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, keys(m))
}

func TestRotations(t *testing.T) {
	testCases := []struct {
		name     string
		keys     []int
		root     int
		height   int
		rootLeft int
	}{
		{name: "right rotation", keys: []int{15, 20, 10, 5, 0}, root: 15, height: 3, rootLeft: 5},
		{name: "left rotations", keys: []int{0, 5, 10, 15, 20, 25, 30}, root: 15, height: 3, rootLeft: 5},
		{name: "right-left rotation", keys: []int{15, 10, 20, 18, 25, 19}, root: 18, height: 3, rootLeft: 15},
		{name: "left-right rotation", keys: []int{15, 10, 20, 5, 12, 14}, root: 12, height: 3, rootLeft: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := New[int, int]()
			insertAll(m, tc.keys...)
			requireValid(t, m)

			assert.Equal(t, tc.root, m.root.key)
			assert.Equal(t, tc.rootLeft, m.root.left.key)
			assert.Equal(t, tc.height, m.Height())

			for _, k := range tc.keys {
				v, ok := m.Get(k)
				require.True(t, ok, "key %d not found", k)
				assert.Equal(t, k*10, v)
			}
		})
	}
}

func TestAscendingInsertHeightBound(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < 1023; i++ {
		m.Insert(i, i)
		bound := int(math.Ceil(math.Log2(float64(m.Len() + 1))))
		// ascending inserts build a complete tree
		require.Equal(t, bound, m.Height(), "after %d inserts", m.Len())
	}
	requireValid(t, m)
}

func TestRemoveRebalances(t *testing.T) {
	m := New[int, int]()
	insertAll(m, 5, 4, 6, 7)

	v, ok := m.Remove(4)
	require.True(t, ok)
	assert.Equal(t, 40, v)

	requireValid(t, m)
	assert.Equal(t, []int{5, 6, 7}, keys(m))
	assert.Equal(t, 6, m.root.key)
}

func TestRemoveCases(t *testing.T) {
	testCases := []struct {
		name     string
		initial  []int
		remove   []int
		expected []int
	}{
		{name: "leaf", initial: []int{2, 1, 3}, remove: []int{3}, expected: []int{1, 2}},
		{name: "only left child", initial: []int{3, 2, 4, 1}, remove: []int{2}, expected: []int{1, 3, 4}},
		{name: "only right child", initial: []int{2, 1, 3, 4}, remove: []int{3}, expected: []int{1, 2, 4}},
		{name: "two children", initial: []int{4, 2, 6, 1, 3, 5, 7}, remove: []int{2}, expected: []int{1, 3, 4, 5, 6, 7}},
		{name: "root", initial: []int{4, 2, 6, 1, 3, 5, 7}, remove: []int{4}, expected: []int{1, 2, 3, 5, 6, 7}},
		{name: "absent", initial: []int{1, 2, 3}, remove: []int{9}, expected: []int{1, 2, 3}},
		{name: "all", initial: []int{1, 2, 3}, remove: []int{2, 1, 3}, expected: nil},
		// successor path needs rebalancing: removing 8 promotes 9 out of an unbalanced right spine
		{name: "deep successor", initial: []int{8, 4, 12, 2, 6, 10, 14, 1, 3, 5, 7, 9, 11, 13, 15, 16}, remove: []int{8, 9, 10}, expected: []int{1, 2, 3, 4, 5, 6, 7, 11, 12, 13, 14, 15, 16}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := New[int, int]()
			insertAll(m, tc.initial...)
			for _, k := range tc.remove {
				m.Remove(k)
				requireValid(t, m)
			}
			assert.Equal(t, tc.expected, keys(m))
		})
	}
}

func TestRemoveCascadingRotations(t *testing.T) {
	// A minimal AVL tree (Fibonacci shape) needs a rotation on every level
	// when its shallowest leaf is removed.
	m := New[int, int]()
	insertAll(m, 8, 5, 11, 3, 7, 10, 12, 2, 4, 6, 9, 1)
	requireValid(t, m)
	before := m.Height()

	m.Remove(12)
	requireValid(t, m)
	assert.Less(t, m.Height(), before)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, keys(m))
}

// --------------------------------------------------------------------------
// Properties
// --------------------------------------------------------------------------

func TestOverwrite(t *testing.T) {
	m := New[string, int]()

	old, replaced := m.Insert("a", 1)
	assert.False(t, replaced)
	assert.Zero(t, old)

	old, replaced = m.Insert("a", 2)
	assert.True(t, replaced)
	assert.Equal(t, 1, old)

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 1, m.Height())
}

func TestFirstLast(t *testing.T) {
	m := New[int, int]()
	insertAll(m, 15, 20, 10, 5, 0, 25)

	first, ok := m.First()
	require.True(t, ok)
	assert.Equal(t, 0, first)

	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, 25, last)

	m.Remove(0)
	m.Remove(25)
	first, _ = m.First()
	last, _ = m.Last()
	assert.Equal(t, 5, first)
	assert.Equal(t, 20, last)
}

func TestRandomInsertRemove(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		n := 1 + rng.Intn(500)
		values := make(map[int]int, n)
		for len(values) < n {
			values[rng.Intn(100_000)-50_000] = rng.Int()
		}

		m := New[int, int]()
		for k, v := range values {
			m.Insert(k, v)
		}
		requireValid(t, m)

		bound := 1.44 * math.Log2(float64(n+2))
		require.LessOrEqual(t, float64(m.Height()), bound)

		for k, v := range values {
			got, ok := m.Get(k)
			require.True(t, ok)
			require.Equal(t, v, got)
		}

		order := make([]int, 0, n)
		for k := range values {
			order = append(order, k)
		}
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		for i, k := range order {
			got, ok := m.Remove(k)
			require.True(t, ok)
			require.Equal(t, values[k], got)
			requireValid(t, m)

			_, ok = m.Get(k)
			require.False(t, ok)

			// the rest stays retrievable
			if i+1 < len(order) {
				next := order[i+1]
				got, ok = m.Get(next)
				require.True(t, ok)
				require.Equal(t, values[next], got)
			}
		}

		_, ok := m.First()
		assert.False(t, ok)
		_, ok = m.Last()
		assert.False(t, ok)
		assert.Equal(t, 0, m.Len())
	}
}

func TestAllOrderAndEarlyStop(t *testing.T) {
	m := New[int, int]()
	insertAll(m, 9, 3, 7, 1, 5, 8, 2, 6, 4)

	assert.True(t, slices.IsSorted(keys(m)))

	var seen []int
	for k := range m.All() {
		if k > 3 {
			break
		}
		seen = append(seen, k)
	}
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestBackward(t *testing.T) {
	m := New[int, int]()
	insertAll(m, 4, 2, 6, 1, 3, 5, 7)

	var seen []int
	for k, v := range m.Backward() {
		assert.Equal(t, k*10, v)
		if k < 5 {
			break
		}
		seen = append(seen, k)
	}
	assert.Equal(t, []int{7, 6, 5}, seen)
}

func TestNewFunc(t *testing.T) {
	// case-insensitive ordering
	m := NewFunc[string, int](func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	m.Insert("b", 1)
	m.Insert("A", 2)
	m.Insert("B", 3)

	assert.Equal(t, 2, m.Len())
	v, _ := m.Get("b")
	assert.Equal(t, 3, v)
	first, _ := m.First()
	assert.Equal(t, "A", first)
	requireValid(t, m)
}

func TestClear(t *testing.T) {
	m := New[int, int]()
	insertAll(m, 1, 2, 3)
	m.Clear()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, m.Height())
	_, ok := m.Get(1)
	assert.False(t, ok)
}

func TestCorruptTreePanics(t *testing.T) {
	// hand-built chain of three left children with a forged height
	leaf := &node[int, int]{key: 1, height: 1}
	mid := &node[int, int]{key: 2, left: leaf, height: 2}
	top := &node[int, int]{key: 3, left: mid, height: 3}
	root := &node[int, int]{key: 4, left: top, height: 4}

	assert.Panics(t, func() { rebalance(&root) })
}

// --------------------------------------------------------------------------
// Benchmarks
// --------------------------------------------------------------------------

func BenchmarkInsert(b *testing.B) {
	m := New[int, int]()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Insert(i, i)
	}
}

func BenchmarkGet(b *testing.B) {
	m := New[int, int]()
	for i := 0; i < 1<<16; i++ {
		m.Insert(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Get(i & (1<<16 - 1))
	}
}
