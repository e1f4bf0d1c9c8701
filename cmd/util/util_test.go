package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/avlkv/lib/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, "short text", WrapString("  short   text "))
	assert.Equal(t, "", WrapString(""))
}

func TestOpenStoreWithoutSnapshot(t *testing.T) {
	config := &common.Config{File: filepath.Join(t.TempDir(), "missing.db"), Shards: 2, GCInterval: time.Second}

	s, engine, err := OpenStore(config)
	require.NoError(t, err)
	require.NotNil(t, engine)
	defer s.Close()

	_, ok, err := s.First()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveAndReopenStore(t *testing.T) {
	config := &common.Config{File: filepath.Join(t.TempDir(), "store.db"), Shards: 2, GCInterval: time.Second}

	s, _, err := OpenStore(config)
	require.NoError(t, err)
	require.NoError(t, s.Set("b", []byte("2")))
	require.NoError(t, s.Set("a", []byte("1")))
	require.NoError(t, SaveStore(s, config.File))
	require.NoError(t, s.Close())

	// no temporary files are left behind
	files, err := os.ReadDir(filepath.Dir(config.File))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	reopened, _, err := OpenStore(config)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), value)

	last, ok, err := reopened.Last()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", last)

	// writes after the restore must not be treated as stale
	require.NoError(t, reopened.Set("a", []byte("3")))
	value, _, err = reopened.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), value)
}

func TestOpenStoreRejectsCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.db")
	require.NoError(t, os.WriteFile(path, []byte("not a snapshot"), 0o644))

	_, _, err := OpenStore(&common.Config{File: path})
	assert.Error(t, err)
}
