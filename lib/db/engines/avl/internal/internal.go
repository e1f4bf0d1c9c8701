package internal

import (
	"github.com/ValentinKolb/avlkv/lib/avl"
	"github.com/ValentinKolb/avlkv/lib/db/util"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Entry Type (value with metadata)
// --------------------------------------------------------------------------

// Entry stores a value with its metadata
type Entry struct {
	Value    []byte // Stored data (nil once expired)
	ExpireAt uint64 // Expiration timestamp (0 = never)
	DeleteAt uint64 // Deletion timestamp (0 = never)
	Index    uint64 // Write index when this entry was created/updated
}

// TTLInfo returns whether the entry is expired and whether the entry is deleted (at the given write index)
func (e Entry) TTLInfo(writeIdx uint64) (isExpired bool, isDeleted bool) {
	isExpired = e.ExpireAt != 0 && writeIdx >= e.ExpireAt
	isDeleted = e.DeleteAt != 0 && writeIdx >= e.DeleteAt
	return isExpired, isDeleted
}

// Copy returns a deep copy of the entry
func (e Entry) Copy() Entry {
	if e.Value != nil {
		value := make([]byte, len(e.Value))
		copy(value, e.Value)
		e.Value = value
	}
	return e
}

// --------------------------------------------------------------------------
// Shard Type (partition of the database)
// --------------------------------------------------------------------------

// Shard represents a partition of the database.
// All fields except Mu must only be accessed while holding Mu.
type Shard struct {
	Mu         *xsync.RBMutex
	Data       *avl.Map[string, Entry] // Entries ordered by key
	ExpireHeap *util.MapHeap[string]   // Keys by expiration index
	DeleteHeap *util.MapHeap[string]   // Keys by deletion index
}

// NewShard creates a new empty shard
func NewShard() *Shard {
	return &Shard{
		Mu:         xsync.NewRBMutex(),
		Data:       avl.New[string, Entry](),
		ExpireHeap: util.NewMapHeap[string](),
		DeleteHeap: util.NewMapHeap[string](),
	}
}

// Schedule registers the TTLs of the entry stored under key with the
// shard's gc heaps, replacing earlier registrations.
func (s *Shard) Schedule(key string, e Entry) {
	if e.ExpireAt != 0 && e.Value != nil {
		s.ExpireHeap.AddItem(key, e.ExpireAt)
	} else {
		s.ExpireHeap.RemoveByKey(key)
	}
	if e.DeleteAt != 0 {
		s.DeleteHeap.AddItem(key, e.DeleteAt)
	} else {
		s.DeleteHeap.RemoveByKey(key)
	}
}

// Unschedule removes key from the shard's gc heaps
func (s *Shard) Unschedule(key string) {
	s.ExpireHeap.RemoveByKey(key)
	s.DeleteHeap.RemoveByKey(key)
}

// Reset removes all entries and gc registrations
func (s *Shard) Reset() {
	s.Data.Clear()
	s.ExpireHeap.Clear()
	s.DeleteHeap.Clear()
}

// GetShard returns the appropriate shard for a given key
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func GetShard[T any](key util.UintKey, shards []*T) *T {
	// Shift right by 7 bits to use higher-quality bits for distribution
	shiftedKey := uint64(key) >> 7
	shardPos := shiftedKey % uint64(len(shards))
	return shards[shardPos]
}
