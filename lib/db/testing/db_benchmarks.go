package testing

import (
	"bytes"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/avlkv/lib/db"
)

// RunKVDBBenchmarks runs all benchmarks for a key-value database implementation.
// Implementations of db.OrderedKVDB are additionally benchmarked on their ordered queries.
func RunKVDBBenchmarks(b *testing.B, name string, factory DBFactory) {
	benchmarks := []struct {
		name string
		run  func(b *testing.B, database db.KVDB)
	}{
		{"Set", benchmarkSet},
		{"SetExisting", benchmarkSetExisting},
		{"SetWithExpiry", benchmarkSetWithExpiry},
		{"Get", benchmarkGet},
		{"GetWithExpiry", benchmarkGetWithExpiry},
		{"Delete", benchmarkDelete},
		{"Has", benchmarkHas},
		{"MixedUsage", benchmarkMixedUsage},
		{"First", benchmarkFirst},
		{"Ascend", benchmarkAscend},
	}

	b.Run(name, func(b *testing.B) {
		for _, bm := range benchmarks {
			b.Run(bm.name, func(b *testing.B) {
				database := factory()
				b.Cleanup(func() {
					database.Close()
				})
				bm.run(b, database)
			})
		}

		b.Run("SaveLoad", func(b *testing.B) {
			benchmarkSaveLoad(b, factory)
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// prefill writes n keys test-key-0 ... test-key-(n-1) and returns them
func prefill(database db.KVDB, n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("test-key-%d", i)
		database.Set(keys[i], []byte(fmt.Sprintf("test-value-%d", i)), 0)
	}
	return keys
}

func requireOrdered(b *testing.B, database db.KVDB) db.OrderedKVDB {
	ordered, ok := database.(db.OrderedKVDB)
	if !ok || !database.SupportsFeature(db.FeatureOrdered) {
		b.Skip("ordered queries not supported")
	}
	return ordered
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkSet(b *testing.B, database db.KVDB) {
	requireFeature(b, database, db.FeatureSet)

	var counter atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := counter.Add(1)
			database.Set(fmt.Sprintf("test-key-%d", i), []byte(fmt.Sprintf("test-value-%d", i)), 0)
		}
	})
}

func benchmarkSetExisting(b *testing.B, database db.KVDB) {
	requireFeature(b, database, db.FeatureSet)

	keys := prefill(database, 10_000)
	value := []byte("updated-value")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			database.Set(keys[r.Intn(len(keys))], value, 0)
		}
	})
}

func benchmarkSetWithExpiry(b *testing.B, database db.KVDB) {
	requireFeature(b, database, db.FeatureSetE)

	var counter atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := counter.Add(1)
			database.SetE(fmt.Sprintf("ttl-key-%d", i), []byte("value"), uint64(i), 100, 200)
		}
	})
}

func benchmarkGet(b *testing.B, database db.KVDB) {
	requireFeature(b, database, db.FeatureSet|db.FeatureGet)

	keys := prefill(database, 10_000)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			database.Get(keys[r.Intn(len(keys))])
		}
	})
}

func benchmarkGetWithExpiry(b *testing.B, database db.KVDB) {
	requireFeature(b, database, db.FeatureSetE|db.FeatureGet)

	keys := make([]string, 10_000)
	for i := range keys {
		keys[i] = fmt.Sprintf("ttl-key-%d", i)
		// half of the keys are expired once the index reaches 5000
		database.SetE(keys[i], []byte("value"), uint64(i), uint64(5000+i%2*10_000), 0)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			database.Get(keys[r.Intn(len(keys))])
		}
	})
}

func benchmarkDelete(b *testing.B, database db.KVDB) {
	requireFeature(b, database, db.FeatureSet|db.FeatureDelete)

	keys := prefill(database, b.N)

	var counter atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := counter.Add(1) - 1
			database.Delete(keys[int(i)%len(keys)], 0)
		}
	})
}

func benchmarkHas(b *testing.B, database db.KVDB) {
	requireFeature(b, database, db.FeatureSet|db.FeatureHas)

	keys := prefill(database, 10_000)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			// every second lookup misses
			if r.Intn(2) == 0 {
				database.Has(keys[r.Intn(len(keys))])
			} else {
				database.Has("missing-key")
			}
		}
	})
}

func benchmarkMixedUsage(b *testing.B, database db.KVDB) {
	requireFeature(b, database, db.FeatureSet|db.FeatureGet|db.FeatureDelete|db.FeatureHas)

	keys := prefill(database, 10_000)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			key := keys[r.Intn(len(keys))]
			switch r.Intn(10) {
			case 0, 1, 2, 3:
				database.Get(key)
			case 4, 5, 6:
				database.Set(key, []byte("mixed-value"), 0)
			case 7, 8:
				database.Has(key)
			default:
				database.Delete(key, 0)
			}
		}
	})
}

func benchmarkFirst(b *testing.B, database db.KVDB) {
	ordered := requireOrdered(b, database)
	prefill(database, 10_000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ordered.First()
		ordered.Last()
	}
}

func benchmarkAscend(b *testing.B, database db.KVDB) {
	ordered := requireOrdered(b, database)
	prefill(database, 10_000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range ordered.Ascend() {
		}
	}
}

// Save and Load are benchmarked sequentially since both touch the whole database
func benchmarkSaveLoad(b *testing.B, factory DBFactory) {
	database := factory()
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeatureSet|db.FeatureSave|db.FeatureLoad)

	prefill(database, 10_000)

	b.Run("Save", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var buf bytes.Buffer
			if err := database.Save(&buf); err != nil {
				b.Fatal(err)
			}
		}
	})

	var snapshot bytes.Buffer
	if err := database.Save(&snapshot); err != nil {
		b.Fatal(err)
	}
	data := snapshot.Bytes()

	b.Run("Load", func(b *testing.B) {
		loadDB := factory()
		b.Cleanup(func() {
			loadDB.Close()
		})
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if err := loadDB.Load(bytes.NewReader(data)); err != nil {
				b.Fatal(err)
			}
		}
	})
}
