// Package internal holds the building blocks of the AVL engine: the stored
// Entry with its TTL metadata and the Shard, one AVL tree plus its gc heaps
// behind a reader-biased mutex.
package internal
