package avl

import "fmt"

// --------------------------------------------------------------------------
// Node
// --------------------------------------------------------------------------

// node is a single entry of the tree. A nil *node is the empty tree.
type node[K, V any] struct {
	key    K
	value  V
	left   *node[K, V]
	right  *node[K, V]
	height int // height of the subtree rooted at this node (leaf = 1)
}

// height returns the cached height of n, 0 for the empty tree.
func height[K, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return n.height
}

// fix recomputes the cached height of n from its children.
// The children's heights must already be correct.
func (n *node[K, V]) fix() {
	n.height = 1 + max(height(n.left), height(n.right))
}

// balance returns height(right) - height(left), 0 for the empty tree.
func (n *node[K, V]) balance() int {
	if n == nil {
		return 0
	}
	return height(n.right) - height(n.left)
}

// --------------------------------------------------------------------------
// Rotations
// --------------------------------------------------------------------------

// rotateRight turns (p (c a g) b) into (c a (p g b)) in place of *slot.
// The old root p is fixed first since it is now a child of c.
func rotateRight[K, V any](slot **node[K, V]) {
	p := *slot
	c := p.left
	p.left = c.right
	c.right = p
	p.fix()
	c.fix()
	*slot = c
}

// rotateLeft turns (p a (c g b)) into (c (p a g) b) in place of *slot.
func rotateLeft[K, V any](slot **node[K, V]) {
	p := *slot
	c := p.right
	p.right = c.left
	c.left = p
	p.fix()
	c.fix()
	*slot = c
}

// rebalance restores the AVL property of the subtree in *slot. The height of
// *slot must be up-to-date and both of its subtrees must already be balanced.
//
// Panics if the balance factor is outside [-2, 2], which means the tree was
// corrupted by an earlier operation.
func rebalance[K, V any](slot **node[K, V]) {
	n := *slot
	switch b := n.balance(); b {
	case -2:
		// left-right case
		if n.left.balance() > 0 {
			rotateLeft(&n.left)
		}
		rotateRight(slot)
	case 2:
		// right-left case
		if n.right.balance() < 0 {
			rotateRight(&n.right)
		}
		rotateLeft(slot)
	case -1, 0, 1:
	default:
		panic(fmt.Sprintf("avl: corrupt tree, balance factor %d at node of height %d", b, n.height))
	}
}

// --------------------------------------------------------------------------
// Recursive operations
// --------------------------------------------------------------------------

// insert adds key/value below *slot. If the key already exists its value is
// replaced and the previous value is returned together with true.
func insert[K, V any](slot **node[K, V], key K, value V, cmp func(a, b K) int) (old V, replaced bool) {
	n := *slot
	if n == nil {
		*slot = &node[K, V]{key: key, value: value, height: 1}
		return old, false
	}

	c := cmp(key, n.key)
	switch {
	case c == 0:
		old, n.value = n.value, value
		return old, true
	case c < 0:
		old, replaced = insert(&n.left, key, value, cmp)
	default:
		old, replaced = insert(&n.right, key, value, cmp)
	}

	// an overwrite doesn't change the shape of the tree
	if replaced {
		return old, true
	}

	n.fix()
	rebalance(slot)
	return old, false
}

// remove deletes key from the subtree in *slot and returns its value.
func remove[K, V any](slot **node[K, V], key K, cmp func(a, b K) int) (removed V, ok bool) {
	n := *slot
	if n == nil {
		return removed, false
	}

	c := cmp(key, n.key)
	switch {
	case c < 0:
		removed, ok = remove(&n.left, key, cmp)
	case c > 0:
		removed, ok = remove(&n.right, key, cmp)
	default:
		removed, ok = n.value, true

		// no right subtree: the left subtree (maybe empty) takes our place,
		// it is balanced and its heights are correct
		if n.right == nil {
			*slot = n.left
			n.left = nil
			return removed, true
		}

		// two children or only a right child: promote the in-order successor
		succ := popMin(&n.right)
		n.key, n.value = succ.key, succ.value
	}

	if !ok {
		return removed, false
	}

	n.fix()
	rebalance(slot)
	return removed, true
}

// popMin unlinks the leftmost node of the non-empty subtree in *slot and
// returns it. Every level of the left spine is fixed and rebalanced on the
// way back up.
func popMin[K, V any](slot **node[K, V]) *node[K, V] {
	n := *slot
	if n.left == nil {
		*slot = n.right
		n.right = nil
		return n
	}

	m := popMin(&n.left)
	n.fix()
	rebalance(slot)
	return m
}

// walk calls yield for every entry of n in ascending key order.
// It returns false as soon as yield does.
func (n *node[K, V]) walk(yield func(K, V) bool) bool {
	if n == nil {
		return true
	}
	return n.left.walk(yield) && yield(n.key, n.value) && n.right.walk(yield)
}

// walkBackward is walk in descending key order.
func (n *node[K, V]) walkBackward(yield func(K, V) bool) bool {
	if n == nil {
		return true
	}
	return n.right.walkBackward(yield) && yield(n.key, n.value) && n.left.walkBackward(yield)
}
