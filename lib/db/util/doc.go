// Package util provides utility components for
// database implementations that satisfy the db.KVDB interface.
//
// The package contains:
//   - statistics: Size and distribution statistics computed from go-metrics samples
//   - functions: Hash functions and other utility functions
//   - mapheap: A priority queue implementation for garbage collection that also supports key-based access
//
// This package is particularly useful for:
//   - Database developers implementing the KVDB interface
//   - Implementation of garbage collection or other priority queue systems
//   - Monitoring systems that need to track database size and distribution metrics
package util
