package lstore

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ValentinKolb/avlkv/lib/db"
	"github.com/ValentinKolb/avlkv/lib/db/engines/avl"
	"github.com/ValentinKolb/avlkv/lib/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) store.IStore {
	t.Helper()
	s := NewLocalStore(func() db.KVDB { return avl.NewAVLDB(&avl.DBOptions{NumShards: 2}) })
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// unorderedDB hides the ordered queries and the write features of a database
type unorderedDB struct {
	db.KVDB
}

func (u unorderedDB) SupportsFeature(feature db.Feature) bool {
	return feature&(db.FeatureSet|db.FeatureOrdered) == 0 && u.KVDB.SupportsFeature(feature)
}

func TestWritesAdvanceIndex(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.Set("a", []byte("1")))
	require.NoError(t, s.Set("a", []byte("2")))

	value, ok, err := s.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("2"), value)
}

func TestTTL(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.SetE("session", []byte("data"), 2, 3))
	require.NoError(t, s.Set("other", nil)) // index +1

	_, ok, _ := s.Get("session")
	assert.True(t, ok)

	require.NoError(t, s.Set("other", nil)) // expireAt reached
	_, ok, _ = s.Get("session")
	assert.False(t, ok)
	has, _ := s.Has("session")
	assert.True(t, has)

	require.NoError(t, s.Set("other", nil)) // deleteAt reached
	has, _ = s.Has("session")
	assert.False(t, has)
}

func TestSetEIfUnsetAndDelete(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.SetEIfUnset("lock", []byte("owner-1"), 0, 0))
	require.NoError(t, s.SetEIfUnset("lock", []byte("owner-2"), 0, 0))
	value, _, _ := s.Get("lock")
	assert.Equal(t, []byte("owner-1"), value)

	require.NoError(t, s.Delete("lock"))
	require.NoError(t, s.SetEIfUnset("lock", []byte("owner-2"), 0, 0))
	value, _, _ = s.Get("lock")
	assert.Equal(t, []byte("owner-2"), value)

	require.NoError(t, s.Expire("lock"))
	_, ok, _ := s.Get("lock")
	assert.False(t, ok)
}

func TestOrderedQueries(t *testing.T) {
	s := newStore(t)

	_, ok, err := s.First()
	require.NoError(t, err)
	assert.False(t, ok)

	for _, key := range []string{"b", "c", "a"} {
		require.NoError(t, s.Set(key, []byte(key)))
	}

	first, _, _ := s.First()
	last, _, _ := s.Last()
	assert.Equal(t, "a", first)
	assert.Equal(t, "c", last)

	entries, err := s.Ascend()
	require.NoError(t, err)
	var keys []string
	for key := range entries {
		keys = append(keys, key)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestUnsupportedOperations(t *testing.T) {
	s := NewLocalStore(func() db.KVDB {
		return unorderedDB{avl.NewAVLDB(&avl.DBOptions{NumShards: 1})}
	})
	defer s.Close()

	var storeErr *store.Error

	err := s.Set("a", nil)
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, store.RetCUnsupportedOperation, storeErr.Code)
	assert.Contains(t, err.Error(), "UnsupportedOperation")

	_, _, err = s.First()
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, store.RetCUnsupportedOperation, storeErr.Code)

	_, err = s.Ascend()
	assert.Error(t, err)

	// features that are not hidden keep working
	require.NoError(t, s.SetE("a", []byte("1"), 0, 0))
	has, err := s.Has("a")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSnapshotRestore(t *testing.T) {
	source := newStore(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, source.Set("key", []byte{byte(i)}))
	}
	require.NoError(t, source.Set("other", []byte("x")))

	var buf bytes.Buffer
	require.NoError(t, source.Snapshot(&buf))

	target := newStore(t)
	require.NoError(t, target.Restore(&buf))

	// a write after the restore must not be treated as stale
	require.NoError(t, target.Set("key", []byte("new")))
	value, _, _ := target.Get("key")
	assert.Equal(t, []byte("new"), value)

	value, _, _ = target.Get("other")
	assert.Equal(t, []byte("x"), value)

	err := target.Restore(bytes.NewReader([]byte("garbage!")))
	var storeErr *store.Error
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, store.RetCInternalError, storeErr.Code)
}
