package avl

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/avlkv/lib/db"
	"github.com/ValentinKolb/avlkv/lib/db/engines/avl/internal"
	"github.com/ValentinKolb/avlkv/lib/db/util"
	"github.com/ValentinKolb/avlkv/lib/heap"
	"github.com/ValentinKolb/avlkv/lib/latch"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var plog = logger.GetLogger("avldb")

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// Constants for database behavior and structure
const (
	magicNum          = "AVLKVDB\x00"          // File format identifier
	avlVersion        = 1                      // Snapshot format version
	defaultGCInterval = 100 * time.Millisecond // Default interval between GC runs
	samplesPerShard   = 100                    // Entries per shard sampled by GetInfo
	entryOverhead     = 56                     // expireAt, deleteAt, index, tree links and height
)

// --------------------------------------------------------------------------
// Core AVL database structure
// --------------------------------------------------------------------------

// avlImpl implements an ordered database with sharded AVL trees
type avlImpl struct {
	seed      uint64            // Seed for hash function
	shards    []*internal.Shard // Array of shards
	currIndex atomic.Uint64     // Current logical timestamp (for TTLInfo)
	live      *xsync.Counter    // Entries physically present in the trees

	// garbage collection
	gcInterval time.Duration
	stop       chan struct{}
	gcDone     *latch.Latch
	closed     atomic.Bool

	// metrics
	metrics *metrics.Set
	ops     map[string]*metrics.Counter
	stale   *metrics.Counter
	expired *metrics.Counter
	deleted *metrics.Counter
}

// DBOptions configures the avlImpl behavior during initialization
type DBOptions struct {
	NumShards  int           // Number of shards (0 = runtime.NumCPU())
	GCInterval time.Duration // Time between GC runs (0 = use default: 100ms)
}

// DefaultOptions returns the default avlImpl options
func DefaultOptions() *DBOptions {
	return &DBOptions{
		NumShards:  runtime.NumCPU(),
		GCInterval: defaultGCInterval,
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewAVLDB creates a new database with the specified options (optional).
// The returned database runs one garbage collection goroutine per shard
// until Close is called.
func NewAVLDB(opts *DBOptions) db.OrderedKVDB {
	if opts == nil {
		opts = DefaultOptions()
	}
	numShards := opts.NumShards
	if numShards <= 0 {
		numShards = runtime.NumCPU()
	}
	gcInterval := opts.GCInterval
	if gcInterval <= 0 {
		gcInterval = defaultGCInterval
	}

	shards := make([]*internal.Shard, numShards)
	for i := range shards {
		shards[i] = internal.NewShard()
	}

	newDB := &avlImpl{
		seed:       util.GenerateSeed(),
		shards:     shards,
		live:       xsync.NewCounter(),
		gcInterval: gcInterval,
		stop:       make(chan struct{}),
		gcDone:     latch.New(numShards),
	}
	newDB.initMetrics()

	for _, shard := range shards {
		go newDB.garbageCollector(shard)
	}

	return newDB
}

func (a *avlImpl) initMetrics() {
	a.metrics = metrics.NewSet()
	a.ops = make(map[string]*metrics.Counter)
	for _, op := range []string{"set", "setE", "setEIfUnset", "expire", "delete", "get", "has"} {
		a.ops[op] = a.metrics.NewCounter(fmt.Sprintf(`avlkv_ops_total{op=%q}`, op))
	}
	a.stale = a.metrics.NewCounter(`avlkv_stale_writes_total`)
	a.expired = a.metrics.NewCounter(`avlkv_gc_expired_total`)
	a.deleted = a.metrics.NewCounter(`avlkv_gc_deleted_total`)
	a.metrics.NewGauge(`avlkv_entries`, func() float64 {
		return float64(a.live.Value())
	})
	a.metrics.NewGauge(`avlkv_write_index`, func() float64 {
		return float64(a.currIndex.Load())
	})
	a.metrics.NewGauge(`avlkv_max_tree_height`, func() float64 {
		maxHeight := 0
		for _, shard := range a.shards {
			t := shard.Mu.RLock()
			maxHeight = max(maxHeight, shard.Data.Height())
			shard.Mu.RUnlock(t)
		}
		return float64(maxHeight)
	})
}

// shardFor returns the shard responsible for key
func (a *avlImpl) shardFor(key string) *internal.Shard {
	return internal.GetShard(util.HashString(key, a.seed), a.shards)
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Set inserts or updates an entry with the given key, value, and currentIndex.
// If the key already exists, the old value is overwritten.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (a *avlImpl) Set(key string, value []byte, writeIdx uint64) {
	a.ops["set"].Inc()
	a.compute(key, value, writeIdx, 0, 0, func(new, _ internal.Entry, _ bool) (internal.Entry, bool) {
		return new, false
	})
}

// SetE stores a value for a key with an expiration and a deletion time
// relative to writeIndex (0 = never). If the key already exists, the old
// value, expireAt and deleteAt are overwritten.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (a *avlImpl) SetE(key string, value []byte, writeIndex uint64, expireIn, deleteIn uint64) {
	a.ops["setE"].Inc()
	a.compute(key, value, writeIndex, expireIn, deleteIn, func(new, _ internal.Entry, _ bool) (internal.Entry, bool) {
		return new, false
	})
}

// SetEIfUnset is SetE for keys that do not exist (or are logically deleted).
// An existing key keeps its value.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (a *avlImpl) SetEIfUnset(key string, value []byte, writeIndex uint64, expireIn, deleteIn uint64) {
	a.ops["setEIfUnset"].Inc()
	a.compute(key, value, writeIndex, expireIn, deleteIn, func(new, old internal.Entry, loaded bool) (internal.Entry, bool) {
		if loaded {
			return old, false
		}
		return new, false
	})
}

// Expire marks the entry with the specified key as expired. This change is immediate.
// The key is still findable with the Has() method.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (a *avlImpl) Expire(key string, writeIndex uint64) {
	a.ops["expire"].Inc()
	a.compute(key, nil, writeIndex, 0, 0, func(_, old internal.Entry, loaded bool) (internal.Entry, bool) {
		if !loaded {
			return old, true
		}
		old.ExpireAt = writeIndex
		old.Value = nil
		return old, false
	})
}

// Delete removes the entry with the specified key from its tree.
// This change is immediate.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (a *avlImpl) Delete(key string, writeIndex uint64) {
	a.ops["delete"].Inc()
	a.compute(key, nil, writeIndex, 0, 0, func(_, old internal.Entry, _ bool) (internal.Entry, bool) {
		return old, true
	})
}

// compute is the shared implementation of all write operations.
// It ignores stale writes, hands fn a consistent view of the old entry and
// stores (or removes, if fn says so) the result while keeping the gc heaps
// of the shard in sync.
//
// Thread-safety: The shard is locked for the whole read-modify-write.
func (a *avlImpl) compute(key string, value []byte, writeIndex uint64, expireIn, deleteIn uint64, fn func(new, old internal.Entry, loaded bool) (entry internal.Entry, delete bool)) {
	a.SetWriteIdx(writeIndex)

	var valueCopy []byte
	if value != nil {
		valueCopy = make([]byte, len(value))
		copy(valueCopy, value)
	}

	newEntry := internal.Entry{Value: valueCopy, Index: writeIndex}
	if expireIn > 0 {
		newEntry.ExpireAt = writeIndex + expireIn
	}
	if deleteIn > 0 {
		newEntry.DeleteAt = writeIndex + deleteIn
	}

	shard := a.shardFor(key)
	shard.Mu.Lock()
	defer shard.Mu.Unlock()

	oldEntry, exists := shard.Data.Get(key)
	if exists && writeIndex < oldEntry.Index {
		a.stale.Inc()
		return
	}

	loaded := exists
	if exists {
		isExpired, isDeleted := oldEntry.TTLInfo(writeIndex)
		loaded = !isDeleted
		if isExpired {
			oldEntry.Value = nil
			oldEntry.ExpireAt = writeIndex
		}
	}

	entry, del := fn(newEntry, oldEntry, loaded)
	if del {
		if exists {
			shard.Data.Remove(key)
			shard.Unschedule(key)
			a.live.Dec()
		}
		return
	}

	if _, replaced := shard.Data.Insert(key, entry); !replaced {
		a.live.Inc()
	}
	shard.Schedule(key, entry)
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Read Operations
// --------------------------------------------------------------------------

// Get retrieves a value for a key.
// The boolean indicates whether a (not expired) value for the key was found.
// The returned value is a copy of the stored data and therefore safe to use and modify.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (a *avlImpl) Get(key string) ([]byte, bool) {
	a.ops["get"].Inc()
	shard := a.shardFor(key)

	t := shard.Mu.RLock()
	defer shard.Mu.RUnlock(t)

	e, ok := shard.Data.Get(key)
	if !ok {
		return nil, false
	}
	if isExpired, isDeleted := e.TTLInfo(a.currIndex.Load()); isExpired || isDeleted {
		return nil, false
	}

	data := make([]byte, len(e.Value))
	copy(data, e.Value)
	return data, true
}

// Has checks if a key exists in the database.
// This method does not check if the value for the key is expired. Use Get() for that.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (a *avlImpl) Has(key string) bool {
	a.ops["has"].Inc()
	shard := a.shardFor(key)

	t := shard.Mu.RLock()
	defer shard.Mu.RUnlock(t)

	e, ok := shard.Data.Get(key)
	if !ok {
		return false
	}
	_, isDeleted := e.TTLInfo(a.currIndex.Load())
	return !isDeleted
}

// --------------------------------------------------------------------------
// OrderedKVDB Interface Methods
// --------------------------------------------------------------------------

// First returns the smallest key that is not logically deleted.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
// Shards are inspected one after another, so the result is not a consistent
// cut under concurrent writes.
func (a *avlImpl) First() (string, bool) {
	return a.edge(func(shard *internal.Shard) iter.Seq2[string, internal.Entry] {
		return shard.Data.All()
	}, func(candidate, best string) bool {
		return candidate < best
	})
}

// Last returns the largest key that is not logically deleted.
//
// Thread-safety: see First.
func (a *avlImpl) Last() (string, bool) {
	return a.edge(func(shard *internal.Shard) iter.Seq2[string, internal.Entry] {
		return shard.Data.Backward()
	}, func(candidate, best string) bool {
		return candidate > best
	})
}

// edge finds the first live key of every shard in the order given by seq
// and returns the best of them.
func (a *avlImpl) edge(seq func(*internal.Shard) iter.Seq2[string, internal.Entry], better func(candidate, best string) bool) (string, bool) {
	writeIndex := a.currIndex.Load()

	var (
		best  string
		found bool
	)
	for _, shard := range a.shards {
		t := shard.Mu.RLock()
		for key, e := range seq(shard) {
			if _, isDeleted := e.TTLInfo(writeIndex); isDeleted {
				continue
			}
			if !found || better(key, best) {
				best, found = key, true
			}
			break
		}
		shard.Mu.RUnlock(t)
	}
	return best, found
}

// Ascend returns an iterator over all keys that are not logically deleted
// in ascending order. Expired entries yield a nil value.
//
// Thread-safety: The iterator works on a copy of the data taken shard by
// shard when the iteration starts. It is safe to modify the database while
// iterating.
func (a *avlImpl) Ascend() iter.Seq2[string, []byte] {
	return func(yield func(string, []byte) bool) {
		mergeRuns(a.snapshot(), func(r record) bool {
			return yield(r.key, r.entry.Value)
		})
	}
}

// record is one key with its entry, as stored in a snapshot
type record struct {
	key   string
	entry internal.Entry
}

// snapshot copies the entries of every shard that are not logically deleted.
// Each returned run is sorted by key. Expired entries are copied without value.
func (a *avlImpl) snapshot() [][]record {
	writeIndex := a.currIndex.Load()

	runs := make([][]record, len(a.shards))
	for i, shard := range a.shards {
		t := shard.Mu.RLock()
		run := make([]record, 0, shard.Data.Len())
		for key, e := range shard.Data.All() {
			isExpired, isDeleted := e.TTLInfo(writeIndex)
			if isDeleted {
				continue
			}
			if isExpired {
				e.Value = nil
			}
			run = append(run, record{key: key, entry: e.Copy()})
		}
		shard.Mu.RUnlock(t)
		runs[i] = run
	}
	return runs
}

// mergeRuns calls yield for the records of the sorted runs in ascending key
// order until yield returns false. Keys are unique across runs since every
// key lives in exactly one shard.
func mergeRuns(runs [][]record, yield func(record) bool) {
	type cursor struct {
		run []record
		pos int
	}

	h := heap.NewFunc(func(a, b *cursor) bool {
		return a.run[a.pos].key < b.run[b.pos].key
	})
	for _, run := range runs {
		if len(run) > 0 {
			h.Push(&cursor{run: run})
		}
	}

	for {
		c, ok := h.Pop()
		if !ok {
			return
		}
		if !yield(c.run[c.pos]) {
			return
		}
		c.pos++
		if c.pos < len(c.run) {
			h.Push(c)
		}
	}
}

// --------------------------------------------------------------------------
// Garbage Collection
// --------------------------------------------------------------------------

// garbageCollector periodically collects expired and deleted entries of one
// shard until the database is closed.
func (a *avlImpl) garbageCollector(shard *internal.Shard) {
	defer a.gcDone.CountDown()

	ticker := time.NewTicker(a.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			/*
				Note: The index is read once per cycle so that writes during
				the cycle can not keep it running.
			*/
			expired, deleted := a.collectShard(shard, a.currIndex.Load())
			if expired > 0 || deleted > 0 {
				plog.Debugf("gc cycle: %d expired, %d deleted", expired, deleted)
			}
		}
	}
}

// collectShard drops the values of expired entries and removes deleted
// entries from the tree. The gc heaps are updated together with the tree
// under the shard lock, so every heap item matches its entry.
func (a *avlImpl) collectShard(shard *internal.Shard, writeIndex uint64) (expired, deleted int) {
	shard.Mu.Lock()
	defer shard.Mu.Unlock()

	for {
		item, exists := shard.ExpireHeap.Peek()
		if !exists || item.Priority > writeIndex {
			break
		}
		key := item.Key
		shard.ExpireHeap.RemoveByKey(key)

		if e, ok := shard.Data.Get(key); ok {
			e.Value = nil // help the go gc
			shard.Data.Insert(key, e)
			expired++
		}
	}

	for {
		item, exists := shard.DeleteHeap.Peek()
		if !exists || item.Priority > writeIndex {
			break
		}
		key := item.Key
		shard.Unschedule(key)

		if _, ok := shard.Data.Remove(key); ok {
			a.live.Dec()
			deleted++
		}
	}

	a.expired.Add(expired)
	a.deleted.Add(deleted)
	return expired, deleted
}

// --------------------------------------------------------------------------
// Persistence Operations
// --------------------------------------------------------------------------

// Save persists the database to the writer.
// Entries are written in ascending key order. Logically deleted entries are skipped.
//
// Thread-safety: Save copies one shard at a time and does not block writers
// for longer than that. The snapshot is therefore fuzzy under concurrent writes.
func (a *avlImpl) Save(w io.Writer) error {
	writeIndex := a.currIndex.Load()
	runs := a.snapshot()
	count := 0
	for _, run := range runs {
		count += len(run)
	}

	bw := bufio.NewWriterSize(w, 1024*1024) // 1 MB buffer

	if _, err := bw.WriteString(magicNum); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint8(avlVersion)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, writeIndex); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(count)); err != nil {
		return err
	}

	var err error
	mergeRuns(runs, func(r record) bool {
		err = writeRecord(bw, r)
		return err == nil
	})
	if err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	plog.Infof("saved %d entries (write index %d)", count, writeIndex)
	return nil
}

func writeRecord(w io.Writer, r record) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(r.key))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, r.key); err != nil {
		return err
	}
	for _, v := range []any{r.entry.ExpireAt, r.entry.DeleteAt, r.entry.Index, uint32(len(r.entry.Value))} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	_, err := w.Write(r.entry.Value)
	return err
}

func readRecord(r io.Reader) (record, error) {
	var rec record

	var keyLen uint32
	if err := binary.Read(r, binary.LittleEndian, &keyLen); err != nil {
		return rec, err
	}
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return rec, err
	}
	rec.key = string(key)

	for _, v := range []*uint64{&rec.entry.ExpireAt, &rec.entry.DeleteAt, &rec.entry.Index} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return rec, err
		}
	}

	var valueLen uint32
	if err := binary.Read(r, binary.LittleEndian, &valueLen); err != nil {
		return rec, err
	}
	rec.entry.Value = make([]byte, valueLen)
	if _, err := io.ReadFull(r, rec.entry.Value); err != nil {
		return rec, err
	}
	return rec, nil
}

// Load replaces the content of the database with the snapshot read from r.
// The snapshot is decoded completely before the database is touched, so a
// failed Load leaves the database unchanged.
//
// Thread-safety: All shards are locked while the decoded entries are applied.
// Load must not be called concurrently with itself.
func (a *avlImpl) Load(r io.Reader) error {
	br := bufio.NewReaderSize(r, 1024*1024) // 1 MB buffer

	magicBytes := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magicBytes); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if string(magicBytes) != magicNum {
		return errors.New("invalid file format: magic number mismatch")
	}

	var version uint8
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}
	if int(version) != avlVersion {
		return fmt.Errorf("unsupported version: %d (expected %d)", version, avlVersion)
	}

	var savedIndex uint64
	if err := binary.Read(br, binary.LittleEndian, &savedIndex); err != nil {
		return fmt.Errorf("failed to read write index: %w", err)
	}

	var dataCount uint64
	if err := binary.Read(br, binary.LittleEndian, &dataCount); err != nil {
		return fmt.Errorf("failed to read entry count: %w", err)
	}

	records := make([]record, 0, min(dataCount, 1<<20))
	maxIndex := savedIndex
	for i := uint64(0); i < dataCount; i++ {
		rec, err := readRecord(br)
		if err != nil {
			return fmt.Errorf("failed to read entry %d of %d: %w", i, dataCount, err)
		}
		maxIndex = max(maxIndex, rec.entry.Index)
		records = append(records, rec)
	}

	for _, shard := range a.shards {
		shard.Mu.Lock()
		a.live.Add(-int64(shard.Data.Len()))
		shard.Reset()
	}
	for _, rec := range records {
		if isExpired, _ := rec.entry.TTLInfo(maxIndex); isExpired {
			rec.entry.Value = nil
		}
		shard := a.shardFor(rec.key)
		if _, replaced := shard.Data.Insert(rec.key, rec.entry); !replaced {
			a.live.Inc()
		}
		shard.Schedule(rec.key, rec.entry)
	}
	for _, shard := range a.shards {
		shard.Mu.Unlock()
	}

	a.SetWriteIdx(maxIndex)
	plog.Infof("loaded %d entries (write index %d)", len(records), a.currIndex.Load())
	return nil
}

// --------------------------------------------------------------------------
// KVDB Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

const supportedFeatures = db.FeatureSet |
	db.FeatureSetE |
	db.FeatureSetEIfUnset |
	db.FeatureGet |
	db.FeatureExpire |
	db.FeatureDelete |
	db.FeatureHas |
	db.FeatureSave |
	db.FeatureLoad |
	db.FeatureGarbageCollect |
	db.FeatureOrdered

// GetInfo returns statistics about the database.
// Sizes are estimated from a sample of the entries of every shard.
func (a *avlImpl) GetInfo() db.DatabaseInfo {
	currentWriteIndex := a.currIndex.Load()

	histogram := util.NewSizeHistogram(samplesPerShard * len(a.shards))

	var (
		wg             sync.WaitGroup
		mu             sync.Mutex
		samplesCount   int
		expiredBacklog int
		deletedBacklog int
		shardSizes     = make([]int64, len(a.shards))
		shardHeights   = make([]int, len(a.shards))
	)

	wg.Add(len(a.shards))
	for shardIndex, shard := range a.shards {
		go func(i int, s *internal.Shard) {
			defer wg.Done()

			count, expiredCount, deletedCount := 0, 0, 0

			t := s.Mu.RLock()
			for key, entry := range s.Data.All() {
				if count >= samplesPerShard {
					break
				}
				histogram.Update(int64(len(key) + len(entry.Value)))

				// expired or deleted but not yet processed by the gc
				isExpired, isDeleted := entry.TTLInfo(currentWriteIndex)
				if isExpired && entry.Value != nil {
					expiredCount++
				}
				if isDeleted {
					deletedCount++
				}
				count++
			}
			size, height := s.Data.Len(), s.Data.Height()
			s.Mu.RUnlock(t)

			mu.Lock()
			defer mu.Unlock()
			samplesCount += count
			expiredBacklog += expiredCount
			deletedBacklog += deletedCount
			shardSizes[i] = int64(size)
			shardHeights[i] = height
		}(shardIndex, shard)
	}
	wg.Wait()

	var expiredRatio, deletedRatio float64
	if samplesCount > 0 {
		expiredRatio = float64(expiredBacklog) / float64(samplesCount)
		deletedRatio = float64(deletedBacklog) / float64(samplesCount)
	}

	meta := &struct {
		CurrentWriteIndex uint64                 `json:"current_write_index"`
		Entries           int64                  `json:"entries"`
		ShardCount        int                    `json:"shard_count"`
		ShardDistribution util.DistributionStats `json:"shard_distribution"`
		ShardHeights      []int                  `json:"shard_heights"`
		ExpiredBacklog    float64                `json:"expired_backlog"`
		DeletedBacklog    float64                `json:"deleted_backlog"`
		Info              string                 `json:"info"`
	}{
		CurrentWriteIndex: currentWriteIndex,
		Entries:           a.live.Value(),
		ShardCount:        len(a.shards),
		ShardDistribution: util.NewDistributionStats(shardSizes),
		ShardHeights:      shardHeights,
		ExpiredBacklog:    expiredRatio,
		DeletedBacklog:    deletedRatio,
		Info:              "All values (including SizeBytes) are estimates and may vary depending on the database state.",
	}

	features := []db.Feature{
		db.FeatureSet, db.FeatureSetE, db.FeatureSetEIfUnset,
		db.FeatureExpire | db.FeatureDelete,
		db.FeatureGet, db.FeatureHas,
		db.FeatureSave, db.FeatureLoad,
		db.FeatureGarbageCollect,
		db.FeatureOrdered,
	}

	return db.DatabaseInfo{
		SizeBytes:         util.EstimateEntrySize(histogram, entryOverhead) * int(a.live.Value()),
		DbType:            db.ImplAVL,
		SupportedFeatures: features,
		Metadata:          meta,
	}
}

// SupportsFeature checks if this implementation supports a specific KVDB feature
func (a *avlImpl) SupportsFeature(feature db.Feature) bool {
	return supportedFeatures&feature == feature
}

// WriteMetrics writes the operation counters and gauges of the database in
// Prometheus text format.
func (a *avlImpl) WriteMetrics(w io.Writer) {
	a.metrics.WritePrometheus(w)
}

// Close stops the garbage collector and waits until all gc goroutines have exited.
// Calling Close more than once is a no-op.
func (a *avlImpl) Close() error {
	if a.closed.CompareAndSwap(false, true) {
		close(a.stop)
		a.gcDone.Wait()
	}
	return nil
}

// --------------------------------------------------------------------------
// Index and Timestamp Management
// --------------------------------------------------------------------------

// SetWriteIdx safely updates the current index
// It only updates if the new index is greater than the current one
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (a *avlImpl) SetWriteIdx(newIdx uint64) {
	for {
		currIdx := a.currIndex.Load()
		if newIdx <= currIdx {
			return
		}
		if a.currIndex.CompareAndSwap(currIdx, newIdx) {
			return
		}
	}
}

// WriteIdx returns the current index of the database
func (a *avlImpl) WriteIdx() uint64 {
	return a.currIndex.Load()
}
