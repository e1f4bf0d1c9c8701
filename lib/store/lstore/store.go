package lstore

import (
	"fmt"
	"io"
	"iter"
	"sync/atomic"

	"github.com/ValentinKolb/avlkv/lib/db"
	"github.com/ValentinKolb/avlkv/lib/store"
)

type storeImpl struct {
	db    db.KVDB
	index atomic.Uint64
}

// NewLocalStore creates a new local store instance.
// This store implementation is not distributed and only works on a single node.
func NewLocalStore(factory store.DBFactory) store.IStore {
	return &storeImpl{
		db: factory(),
	}
}

// incAndGetIndex increments the index and returns the new value.
// It is used to ensure that each write operation has a unique index.
//
// Thread-safety: This method is thread-safe since it uses atomic operations.
func (s *storeImpl) incAndGetIndex() uint64 {
	return s.index.Add(1)
}

func unsupported(op string) error {
	return store.NewError(store.RetCUnsupportedOperation, op+" operation is not supported")
}

// ordered returns the underlying database if it answers ordered queries
func (s *storeImpl) ordered(op string) (db.OrderedKVDB, error) {
	ordered, ok := s.db.(db.OrderedKVDB)
	if !ok || !s.db.SupportsFeature(db.FeatureOrdered) {
		return nil, unsupported(op)
	}
	return ordered, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(key string, value []byte) error {
	if !s.db.SupportsFeature(db.FeatureSet) {
		return unsupported("Set")
	}
	s.db.Set(key, value, s.incAndGetIndex())
	return nil
}

func (s *storeImpl) SetE(key string, value []byte, expireIn, deleteIn uint64) error {
	if !s.db.SupportsFeature(db.FeatureSetE) {
		return unsupported("SetE")
	}
	s.db.SetE(key, value, s.incAndGetIndex(), expireIn, deleteIn)
	return nil
}

func (s *storeImpl) SetEIfUnset(key string, value []byte, expireIn, deleteIn uint64) error {
	if !s.db.SupportsFeature(db.FeatureSetEIfUnset) {
		return unsupported("SetEIfUnset")
	}
	s.db.SetEIfUnset(key, value, s.incAndGetIndex(), expireIn, deleteIn)
	return nil
}

func (s *storeImpl) Expire(key string) error {
	if !s.db.SupportsFeature(db.FeatureExpire) {
		return unsupported("Expire")
	}
	s.db.Expire(key, s.incAndGetIndex())
	return nil
}

func (s *storeImpl) Delete(key string) error {
	if !s.db.SupportsFeature(db.FeatureDelete) {
		return unsupported("Delete")
	}
	s.db.Delete(key, s.incAndGetIndex())
	return nil
}

func (s *storeImpl) Get(key string) ([]byte, bool, error) {
	if !s.db.SupportsFeature(db.FeatureGet) {
		return nil, false, unsupported("Get")
	}
	val, ok := s.db.Get(key)
	return val, ok, nil
}

func (s *storeImpl) Has(key string) (bool, error) {
	if !s.db.SupportsFeature(db.FeatureHas) {
		return false, unsupported("Has")
	}
	return s.db.Has(key), nil
}

func (s *storeImpl) First() (string, bool, error) {
	ordered, err := s.ordered("First")
	if err != nil {
		return "", false, err
	}
	key, ok := ordered.First()
	return key, ok, nil
}

func (s *storeImpl) Last() (string, bool, error) {
	ordered, err := s.ordered("Last")
	if err != nil {
		return "", false, err
	}
	key, ok := ordered.Last()
	return key, ok, nil
}

func (s *storeImpl) Ascend() (iter.Seq2[string, []byte], error) {
	ordered, err := s.ordered("Ascend")
	if err != nil {
		return nil, err
	}
	return ordered.Ascend(), nil
}

func (s *storeImpl) GetDBInfo() (db.DatabaseInfo, error) {
	return s.db.GetInfo(), nil
}

func (s *storeImpl) Snapshot(w io.Writer) error {
	if !s.db.SupportsFeature(db.FeatureSave) {
		return unsupported("Snapshot")
	}
	if err := s.db.Save(w); err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("failed to save database: %v", err))
	}
	return nil
}

// Restore loads the snapshot and continues the write index after the highest
// index the snapshot contains, so new writes are never treated as stale.
func (s *storeImpl) Restore(r io.Reader) error {
	if !s.db.SupportsFeature(db.FeatureLoad) {
		return unsupported("Restore")
	}
	if err := s.db.Load(r); err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("failed to load database: %v", err))
	}
	for {
		current := s.index.Load()
		loaded := s.db.WriteIdx()
		if loaded <= current || s.index.CompareAndSwap(current, loaded) {
			return nil
		}
	}
}

func (s *storeImpl) Close() error {
	return s.db.Close()
}
