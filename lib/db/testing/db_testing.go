package testing

import (
	"bytes"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"testing"

	"github.com/ValentinKolb/avlkv/lib/db"
)

// DBFactory is a function that creates a new instance of a KVDB implementation
type DBFactory func() db.KVDB

// OrderedDBFactory is a function that creates a new instance of an OrderedKVDB implementation
type OrderedDBFactory func() db.OrderedKVDB

// RunKVDBTests runs a comprehensive test suite for a KVDB implementation.
func RunKVDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		tests := []struct {
			name string
			run  func(t *testing.T, database db.KVDB)
		}{
			{"Set&Get", testSetGet},
			{"Expire", testExpire},
			{"Delete", testDelete},
			{"Has", testHas},
			{"SetEIfUnset", testSetEIfUnset},
			{"StaleWrites", testStaleWrites},
			{"KeyExpiry", testKeyExpiry},
			{"ManyExpiringKeys", testManyExpiringKeys},
			{"WriteIndex", testWriteIndex},
			{"EdgeCases", testEdgeCases},
			{"ManyKeys", testManyKeys},
			{"ConcurrentUsage", testConcurrentUsage},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				database := factory()
				defer database.Close()
				tc.run(t, database)
			})
		}

		t.Run("SaveLoad", func(t *testing.T) {
			testSaveLoad(t, factory)
		})
	})
}

// RunOrderedKVDBTests runs the KVDB suite and the tests for the ordered queries
// of an OrderedKVDB implementation.
func RunOrderedKVDBTests(t *testing.T, name string, factory OrderedDBFactory) {
	RunKVDBTests(t, name, func() db.KVDB { return factory() })

	t.Run(name, func(t *testing.T) {
		tests := []struct {
			name string
			run  func(t *testing.T, database db.OrderedKVDB)
		}{
			{"FirstLast", testFirstLast},
			{"FirstLastSkipDeleted", testFirstLastSkipDeleted},
			{"Ascend", testAscend},
			{"AscendEarlyStop", testAscendEarlyStop},
			{"AscendRandomized", testAscendRandomized},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				database := factory()
				defer database.Close()
				requireFeature(t, database, db.FeatureOrdered)
				tc.run(t, database)
			})
		}

		t.Run("SaveLoadOrder", func(t *testing.T) {
			testSaveLoadOrder(t, factory)
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the database supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, database db.KVDB, feature db.Feature) {
	if !database.SupportsFeature(feature) {
		t.Skipf("feature %s not supported", feature)
	}
}

func expectValue(t *testing.T, database db.KVDB, key string, expected []byte) {
	t.Helper()
	value, exists := database.Get(key)
	if !exists {
		t.Errorf("Expected key %q to exist", key)
		return
	}
	if !bytes.Equal(value, expected) {
		t.Errorf("Expected value %q for key %q, got %q", expected, key, value)
	}
}

func expectMissing(t *testing.T, database db.KVDB, key string) {
	t.Helper()
	if value, exists := database.Get(key); exists {
		t.Errorf("Expected key %q to have no value, got %q", key, value)
	}
}

func expectHas(t *testing.T, database db.KVDB, key string, expected bool) {
	t.Helper()
	if has := database.Has(key); has != expected {
		t.Errorf("Expected Has(%q) = %v at index %d", key, expected, database.WriteIdx())
	}
}

// --------------------------------------------------------------------------
// KVDB test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, database db.KVDB) {
	requireFeature(t, database, db.FeatureSet|db.FeatureGet)

	key := "test-key"
	database.Set(key, []byte("value-1"), 0)
	expectValue(t, database, key, []byte("value-1"))

	database.Set(key, []byte("value-2"), 0)
	expectValue(t, database, key, []byte("value-2"))

	expectMissing(t, database, "nonexistent-key")

	// Get returns a copy
	retrieved, _ := database.Get(key)
	retrieved[0] = 'X'
	expectValue(t, database, key, []byte("value-2"))

	// Set copies the value
	input := []byte("value-3")
	database.Set(key, input, 1)
	input[0] = 'X'
	expectValue(t, database, key, []byte("value-3"))
}

func testExpire(t *testing.T, database db.KVDB) {
	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureExpire)

	key := "expire-test-key"
	database.Set(key, []byte("value"), 0)
	expectValue(t, database, key, []byte("value"))

	database.Expire(key, 10)
	expectMissing(t, database, key)
	expectHas(t, database, key, true)

	// expiring an unknown key does not create it
	database.Expire("nonexistent-key", 11)
	expectHas(t, database, "nonexistent-key", false)

	// a new write revives the key
	database.Set(key, []byte("again"), 12)
	expectValue(t, database, key, []byte("again"))
}

func testDelete(t *testing.T, database db.KVDB) {
	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureDelete)

	key := "delete-test-key"
	database.Set(key, []byte("value"), 0)
	database.Delete(key, 10)

	expectMissing(t, database, key)
	expectHas(t, database, key, false)

	// deleting an unknown key does not create it
	database.Delete("nonexistent-key", 11)
	expectHas(t, database, "nonexistent-key", false)

	database.Set(key, []byte("again"), 12)
	expectValue(t, database, key, []byte("again"))
}

func testHas(t *testing.T, database db.KVDB) {
	requireFeature(t, database, db.FeatureSet|db.FeatureHas|db.FeatureExpire)

	key := "has-test-key"
	expectHas(t, database, key, false)

	database.Set(key, []byte("value"), 0)
	expectHas(t, database, key, true)

	database.Expire(key, 1)
	expectHas(t, database, key, true)
}

func testSetEIfUnset(t *testing.T, database db.KVDB) {
	requireFeature(t, database, db.FeatureSetEIfUnset|db.FeatureGet)

	key := "test-key"
	database.SetEIfUnset(key, []byte("first"), 0, 10, 0)
	expectValue(t, database, key, []byte("first"))

	// the key exists, neither value nor ttl change
	database.SetEIfUnset(key, []byte("second"), 5, 20, 0)
	expectValue(t, database, key, []byte("first"))

	database.SetWriteIdx(11)
	expectMissing(t, database, key)

	// a logically deleted key counts as unset
	database.SetE("deleted-key", []byte("old"), 20, 0, 5)
	database.SetWriteIdx(25)
	database.SetEIfUnset("deleted-key", []byte("new"), 26, 0, 0)
	expectValue(t, database, "deleted-key", []byte("new"))
}

func testStaleWrites(t *testing.T, database db.KVDB) {
	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureExpire)

	key := "stale-key"
	database.Set(key, []byte("newer"), 10)
	database.Set(key, []byte("older"), 5)
	expectValue(t, database, key, []byte("newer"))

	database.Expire(key, 7)
	expectValue(t, database, key, []byte("newer"))

	// writes with the same index are applied
	database.Set(key, []byte("same"), 10)
	expectValue(t, database, key, []byte("same"))
}

func testKeyExpiry(t *testing.T, database db.KVDB) {
	requireFeature(t, database, db.FeatureSetE|db.FeatureGet|db.FeatureHas)

	steps := []struct {
		key               string
		writeIdx          uint64
		expireIn          uint64
		deleteIn          uint64
		checkAt           uint64
		expectGet         bool
		expectHas         bool
		expectedAfterWait []byte
	}{
		{"expiring-key", 100, 10, 20, 109, true, true, []byte("value")},
		{"expiring-key", 100, 10, 20, 110, false, true, nil},
		{"expiring-key", 100, 10, 20, 120, false, false, nil},
		{"delete-only-key", 200, 0, 10, 209, true, true, []byte("value")},
		{"delete-only-key", 200, 0, 10, 210, false, false, nil},
		{"forever-key", 300, 0, 0, 1000, true, true, []byte("value")},
	}

	written := make(map[string]bool)
	for _, step := range steps {
		if !written[step.key] {
			database.SetE(step.key, []byte("value"), step.writeIdx, step.expireIn, step.deleteIn)
			written[step.key] = true
		}
		database.SetWriteIdx(step.checkAt)

		value, exists := database.Get(step.key)
		if exists != step.expectGet {
			t.Errorf("Get(%q) at index %d: expected exists=%v", step.key, step.checkAt, step.expectGet)
		}
		if exists && !bytes.Equal(value, step.expectedAfterWait) {
			t.Errorf("Get(%q) at index %d: expected %q, got %q", step.key, step.checkAt, step.expectedAfterWait, value)
		}
		expectHas(t, database, step.key, step.expectHas)
	}
}

func testManyExpiringKeys(t *testing.T, database db.KVDB) {
	requireFeature(t, database, db.FeatureSetE|db.FeatureGet|db.FeatureHas)

	numKeys := 1000
	baseIndex := uint64(1000)

	for i := 0; i < numKeys; i++ {
		key := fmt.Sprintf("expire-key-%d", i)
		database.SetE(key, []byte(key), baseIndex, uint64(i%100), 0)
		expectHas(t, database, key, true)
	}

	for offset := uint64(0); offset <= 100; offset += 10 {
		database.SetWriteIdx(baseIndex + offset)

		for i := 0; i < numKeys; i++ {
			key := fmt.Sprintf("expire-key-%d", i)
			ttl := uint64(i % 100)
			_, exists := database.Get(key)
			if shouldExpire := ttl > 0 && ttl <= offset; exists == shouldExpire {
				t.Fatalf("Key %s (ttl %d) at offset %d: exists=%v", key, ttl, offset, exists)
			}
		}
	}
}

func testWriteIndex(t *testing.T, database db.KVDB) {
	requireFeature(t, database, db.FeatureSet)

	if idx := database.WriteIdx(); idx != 0 {
		t.Errorf("Expected initial write index 0, got %d", idx)
	}

	database.Set("key", []byte("value"), 42)
	if idx := database.WriteIdx(); idx != 42 {
		t.Errorf("Expected write index 42 after write, got %d", idx)
	}

	database.SetWriteIdx(10)
	if idx := database.WriteIdx(); idx != 42 {
		t.Errorf("Write index must never decrease, got %d", idx)
	}

	database.SetWriteIdx(50)
	if idx := database.WriteIdx(); idx != 50 {
		t.Errorf("Expected write index 50, got %d", idx)
	}
}

func testEdgeCases(t *testing.T, database db.KVDB) {
	requireFeature(t, database, db.FeatureSet|db.FeatureGet)

	database.Set("", []byte("value for empty key"), 0)
	expectValue(t, database, "", []byte("value for empty key"))

	database.Set("empty-value-key", []byte{}, 0)
	expectValue(t, database, "empty-value-key", []byte{})

	database.Set("nil-value-key", nil, 0)
	if value, exists := database.Get("nil-value-key"); !exists || len(value) != 0 {
		t.Errorf("Expected empty value for nil-value-key, got %v (exists=%v)", value, exists)
	}

	largeKey := string(make([]byte, 1000))
	database.Set(largeKey, []byte("value for large key"), 0)
	expectValue(t, database, largeKey, []byte("value for large key"))

	largeValue := make([]byte, 16*1024*1024)
	for i := range largeValue {
		largeValue[i] = byte(i % 256)
	}
	database.Set("large-value-key", largeValue, 0)
	if value, _ := database.Get("large-value-key"); !bytes.Equal(value, largeValue) {
		t.Errorf("Large value mismatch (got %d bytes, expected %d)", len(value), len(largeValue))
	}
}

func testManyKeys(t *testing.T, database db.KVDB) {
	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureDelete)

	numKeys := 1000
	for i := 0; i < numKeys; i++ {
		database.Set(fmt.Sprintf("many-keys-%d", i), []byte(fmt.Sprintf("value-%d", i)), 0)
	}
	for i := 0; i < numKeys; i += 2 {
		database.Delete(fmt.Sprintf("many-keys-%d", i), 10)
	}

	for i := 0; i < numKeys; i++ {
		key := fmt.Sprintf("many-keys-%d", i)
		if i%2 == 0 {
			expectMissing(t, database, key)
		} else {
			expectValue(t, database, key, []byte(fmt.Sprintf("value-%d", i)))
		}
	}
}

func testConcurrentUsage(t *testing.T, database db.KVDB) {
	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureDelete)

	numWorkers := 8
	opsPerWorker := 2000

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(worker)))
			for i := 0; i < opsPerWorker; i++ {
				key := fmt.Sprintf("hot-key-%d", r.Intn(50))
				switch r.Intn(10) {
				case 0, 1, 2, 3, 4, 5:
					database.Set(key, []byte(key), 0)
				case 6, 7, 8:
					database.Get(key)
				default:
					database.Delete(key, 0)
				}
			}
			// every worker leaves one private key behind
			private := fmt.Sprintf("worker-%d", worker)
			database.Set(private, []byte(private), 0)
		}(w)
	}
	wg.Wait()

	for w := 0; w < numWorkers; w++ {
		private := fmt.Sprintf("worker-%d", w)
		expectValue(t, database, private, []byte(private))
	}

	// surviving hot keys hold the value written for them
	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("hot-key-%d", i)
		if value, exists := database.Get(key); exists && !bytes.Equal(value, []byte(key)) {
			t.Errorf("Key %s holds foreign value %q", key, value)
		}
	}
}

func testSaveLoad(t *testing.T, factory DBFactory) {
	database := factory()
	database2 := factory()
	defer database.Close()
	defer database2.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureSave|db.FeatureLoad)

	numEntries := 1000
	for i := 0; i < numEntries; i++ {
		database.Set(fmt.Sprintf("save-load-key-%d", i), []byte(fmt.Sprintf("value-%d", i)), uint64(i))
	}
	database.SetE("expiring", []byte("value"), 1000, 5, 0)
	database.SetE("deleted", []byte("value"), 1000, 0, 5)
	database.SetWriteIdx(1010)

	// stale content of the target must be replaced
	database2.Set("only-in-target", []byte("value"), 0)

	var buf bytes.Buffer
	if err := database.Save(&buf); err != nil {
		t.Fatalf("Unexpected error during Save: %v", err)
	}
	if err := database2.Load(&buf); err != nil {
		t.Fatalf("Unexpected error during Load: %v", err)
	}

	for i := 0; i < numEntries; i++ {
		key := fmt.Sprintf("save-load-key-%d", i)
		expectValue(t, database2, key, []byte(fmt.Sprintf("value-%d", i)))
		expectValue(t, database, key, []byte(fmt.Sprintf("value-%d", i)))
	}
	expectHas(t, database2, "only-in-target", false)
	expectHas(t, database2, "deleted", false)
	expectHas(t, database2, "expiring", true)
	expectMissing(t, database2, "expiring")

	if idx := database2.WriteIdx(); idx < 1000 {
		t.Errorf("Expected write index >= 1000 after Load, got %d", idx)
	}

	// invalid input leaves the database unchanged
	if err := database2.Load(bytes.NewReader([]byte("not a snapshot"))); err == nil {
		t.Errorf("Expected an error when loading garbage")
	}
	expectValue(t, database2, "save-load-key-0", []byte("value-0"))
}

// --------------------------------------------------------------------------
// OrderedKVDB test functions
// --------------------------------------------------------------------------

func testFirstLast(t *testing.T, database db.OrderedKVDB) {
	if _, ok := database.First(); ok {
		t.Errorf("First on an empty database must report false")
	}
	if _, ok := database.Last(); ok {
		t.Errorf("Last on an empty database must report false")
	}

	for _, key := range []string{"m", "c", "x", "a", "q"} {
		database.Set(key, []byte(key), 0)
	}

	if first, ok := database.First(); !ok || first != "a" {
		t.Errorf("Expected first key a, got %q (ok=%v)", first, ok)
	}
	if last, ok := database.Last(); !ok || last != "x" {
		t.Errorf("Expected last key x, got %q (ok=%v)", last, ok)
	}

	database.Delete("a", 1)
	database.Delete("x", 1)
	if first, _ := database.First(); first != "c" {
		t.Errorf("Expected first key c after delete, got %q", first)
	}
	if last, _ := database.Last(); last != "q" {
		t.Errorf("Expected last key q after delete, got %q", last)
	}
}

func testFirstLastSkipDeleted(t *testing.T, database db.OrderedKVDB) {
	database.SetE("a", []byte("a"), 10, 0, 5)
	database.SetE("b", []byte("b"), 10, 2, 0)
	database.SetE("y", []byte("y"), 10, 2, 0)
	database.SetE("z", []byte("z"), 10, 0, 5)
	database.SetWriteIdx(15)

	// a and z are logically deleted, b and y only expired
	if first, ok := database.First(); !ok || first != "b" {
		t.Errorf("Expected first key b, got %q (ok=%v)", first, ok)
	}
	if last, ok := database.Last(); !ok || last != "y" {
		t.Errorf("Expected last key y, got %q (ok=%v)", last, ok)
	}
}

func collectAscend(database db.OrderedKVDB) (keys []string, values [][]byte) {
	for key, value := range database.Ascend() {
		keys = append(keys, key)
		values = append(values, value)
	}
	return keys, values
}

func testAscend(t *testing.T, database db.OrderedKVDB) {
	database.Set("b", []byte("2"), 1)
	database.Set("a", []byte("1"), 1)
	database.SetE("c", []byte("3"), 1, 1, 0)
	database.SetE("d", []byte("4"), 1, 0, 1)
	database.SetWriteIdx(2)

	keys, values := collectAscend(database)
	if !slices.Equal(keys, []string{"a", "b", "c"}) {
		t.Fatalf("Expected keys [a b c], got %v", keys)
	}
	if !bytes.Equal(values[0], []byte("1")) || !bytes.Equal(values[1], []byte("2")) {
		t.Errorf("Unexpected values %q", values)
	}
	if values[2] != nil {
		t.Errorf("Expired entry must yield a nil value, got %q", values[2])
	}
}

func testAscendEarlyStop(t *testing.T, database db.OrderedKVDB) {
	for i := 0; i < 100; i++ {
		database.Set(fmt.Sprintf("key-%03d", i), nil, 0)
	}

	var seen []string
	for key := range database.Ascend() {
		if len(seen) == 3 {
			break
		}
		seen = append(seen, key)
	}
	if !slices.Equal(seen, []string{"key-000", "key-001", "key-002"}) {
		t.Errorf("Unexpected prefix %v", seen)
	}
}

func testAscendRandomized(t *testing.T, database db.OrderedKVDB) {
	r := rand.New(rand.NewSource(42))
	expected := make(map[string]bool)

	for i := 0; i < 2000; i++ {
		key := fmt.Sprintf("%x", r.Intn(500))
		if r.Intn(3) == 0 {
			database.Delete(key, uint64(i))
			delete(expected, key)
		} else {
			database.Set(key, []byte(key), uint64(i))
			expected[key] = true
		}
	}

	want := make([]string, 0, len(expected))
	for key := range expected {
		want = append(want, key)
	}
	slices.Sort(want)

	keys, values := collectAscend(database)
	if !slices.Equal(keys, want) {
		t.Fatalf("Ascend returned %d keys, expected %d", len(keys), len(want))
	}
	for i, key := range keys {
		if !bytes.Equal(values[i], []byte(key)) {
			t.Errorf("Key %s has value %q", key, values[i])
		}
	}

	if len(want) > 0 {
		if first, _ := database.First(); first != want[0] {
			t.Errorf("Expected first key %s, got %s", want[0], first)
		}
		if last, _ := database.Last(); last != want[len(want)-1] {
			t.Errorf("Expected last key %s, got %s", want[len(want)-1], last)
		}
	}
}

func testSaveLoadOrder(t *testing.T, factory OrderedDBFactory) {
	database := factory()
	database2 := factory()
	defer database.Close()
	defer database2.Close()

	requireFeature(t, database, db.FeatureOrdered|db.FeatureSave|db.FeatureLoad)

	for i := 99; i >= 0; i-- {
		database.Set(fmt.Sprintf("key-%02d", i), []byte{byte(i)}, 0)
	}

	var buf bytes.Buffer
	if err := database.Save(&buf); err != nil {
		t.Fatalf("Unexpected error during Save: %v", err)
	}
	if err := database2.Load(&buf); err != nil {
		t.Fatalf("Unexpected error during Load: %v", err)
	}

	keys, _ := collectAscend(database2)
	if len(keys) != 100 || !slices.IsSorted(keys) {
		t.Errorf("Expected 100 sorted keys after Load, got %d (sorted=%v)", len(keys), slices.IsSorted(keys))
	}
	if first, _ := database2.First(); first != "key-00" {
		t.Errorf("Expected first key key-00, got %s", first)
	}
}
