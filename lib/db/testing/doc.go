// Package testing provides standardised tests and benchmarks for
// database implementations that satisfy the db.KVDB interface.
//
// The package contains:
//   - testing: A conformance suite for the KVDB contract (RunKVDBTests) and for
//     the ordered queries of db.OrderedKVDB (RunOrderedKVDBTests)
//   - benchmark: Performance tests for measuring throughput of common database operations
//
// Example usage:
//
//	factory := func() db.OrderedKVDB {
//		return NewMyDatabase()
//	}
//
//	// Running the standard and the ordered test suite
//	dbtesting.RunOrderedKVDBTests(t, "MyDatabase", factory)
//
//	// Running performance benchmarks
//	dbtesting.RunKVDBBenchmarks(b, "MyDatabase", func() db.KVDB { return factory() })
package testing
