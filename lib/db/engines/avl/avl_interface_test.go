package avl

import (
	"testing"

	"github.com/ValentinKolb/avlkv/lib/db"
	dbtesting "github.com/ValentinKolb/avlkv/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunOrderedKVDBTests(t, "AVLDB", func() db.OrderedKVDB {
		return NewAVLDB(nil)
	})
}

func TestSingleShard(t *testing.T) {
	dbtesting.RunOrderedKVDBTests(t, "AVLDB(1 shard)", func() db.OrderedKVDB {
		return NewAVLDB(&DBOptions{NumShards: 1})
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "AVLDB", func() db.KVDB {
		return NewAVLDB(nil)
	})
}
