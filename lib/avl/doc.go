// Package avl provides Map, an in-memory ordered key-value container backed by
// a self-balancing binary search tree (AVL tree).
//
// The map keeps its keys in sorted order and guarantees that, after every
// Insert and Remove, the heights of the two subtrees of any node differ by at
// most one. Point lookups, insertions, removals and the ordered queries First
// and Last therefore all run in O(log n).
//
// Key Components:
//
//   - node: a single key/value cell with two exclusively owned child subtrees
//     and the cached height of the subtree rooted at it (a leaf has height 1,
//     an empty subtree height 0). There are no parent pointers.
//
//   - Slots: every mutation goes through a pointer to the slot that owns a
//     subtree (the map's root field or a node's left/right field). Rotations
//     rewrite that slot, so a subtree is reachable from exactly one parent at
//     any time and entries are never copied while the tree is restructured.
//
//   - Rebalancing: insert and remove descend recursively and, on the way back
//     up, recompute the height of every node on the path and apply at most one
//     single or double rotation per level. Removal of a node with two children
//     promotes the in-order successor (the leftmost node of the right subtree)
//     in the same recursive pass, so the successor path is rebalanced too.
//
// Invariants (hold whenever a public method returns):
//   - BST ordering: keys in a left subtree < node key < keys in the right subtree
//   - AVL balance: |height(left) - height(right)| <= 1 for every node
//   - Height correctness: height = 1 + max(height(left), height(right))
//   - Key uniqueness: inserting an existing key replaces its value
//
// A balance factor outside [-2, 2] can only be the result of a bug in the
// rebalancing code. Map panics in that case instead of continuing with a
// corrupted tree.
//
// Concurrency Considerations:
//   - Map is not thread-safe. It is meant to be owned by a single goroutine.
//   - For concurrent use guard the whole map with one lock (see the avl engine in
//     lib/db/engines/avl, which keeps one Map per shard behind an xsync.RBMutex).
//
// Example usage:
//
//	m := avl.New[int, string]()
//	m.Insert(15, "a")
//	m.Insert(20, "b")
//	m.Insert(10, "c")
//
//	v, ok := m.Get(20)    // "b", true
//	k, _ := m.First()     // 10
//	old, _ := m.Remove(15) // "a", true
//
//	for k, v := range m.All() {
//	    fmt.Println(k, v) // ascending key order
//	}
package avl
