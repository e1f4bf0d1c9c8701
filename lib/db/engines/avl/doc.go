// Package avl implements an ordered key-value database (db.OrderedKVDB) on
// top of sharded AVL trees from lib/avl.
//
// Key Components:
//
//   - avlImpl: The database structure. It owns the shards, the monotonically
//     increasing write index, one garbage collection goroutine per shard and a
//     VictoriaMetrics set with per-operation counters. As in every db.KVDB the
//     caller provides the write index, which serves as logical clock for
//     stale write detection and for the time-based operations.
//
//   - Shard: A partition of the key space. It holds an AVL tree of entries,
//     an expiration heap and a deletion heap (util.MapHeap keyed by entry key),
//     guarded by an xsync.RBMutex. Reads take the reader-biased read lock;
//     writes and the gc take the write lock, so the tree and both heaps are
//     always updated together.
//
//   - Entry: The stored value with its expiration index, deletion index and the
//     write index of its last update.
//
// Sharding: A key lives in the shard HashString(key, seed)>>7 % numShards.
// Ordered queries therefore combine the shards: First and Last take the best
// candidate of every shard, Ascend merges the sorted runs of all shards with a
// min-heap of cursors.
//
// Time-based Operations:
//
//  1. Expiration (expireIn): the entry keeps its key but loses its value.
//     Expired entries return false for Get() but true for Has().
//  2. Deletion (deleteIn): the entry is removed. Deleted entries return false
//     for Get() and Has() and are skipped by First, Last and Ascend.
//
// Both take effect as soon as the write index reaches the threshold, even if
// the gc has not yet processed the entry. Delete() removes the entry from its
// tree immediately.
//
// Garbage Collection: Every gc goroutine wakes up each GCInterval, locks its
// shard and pops all due items from the two heaps. Expired entries get their
// value dropped, deleted entries are removed from the tree. Close stops the
// goroutines and waits for them on a latch.
//
// Persistence Format:
//  1. Magic number "AVLKVDB\x00"
//  2. Version (uint8, currently 1)
//  3. Write index (uint64)
//  4. Number of entries (uint64)
//  5. For each entry in ascending key order: key length (uint32), key bytes,
//     expiration index, deletion index, write index (uint64 each), value
//     length (uint32), value bytes
//
// All integers are little endian. Save copies one shard at a time, so a
// snapshot taken under concurrent writes is not a consistent cut. Load decodes
// the whole snapshot before it replaces the content of the database.
package avl
