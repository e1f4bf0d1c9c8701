package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ValentinKolb/avlkv/lib/common"
	"github.com/ValentinKolb/avlkv/lib/db"
	"github.com/ValentinKolb/avlkv/lib/db/engines/avl"
	"github.com/ValentinKolb/avlkv/lib/store"
	"github.com/ValentinKolb/avlkv/lib/store/lstore"
	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

var plog = logger.GetLogger("cli")

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		if lineWidth > 0 && lineWidth+1+len(word) > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}
		currentLine.WriteString(word)
		lineWidth += len(word)
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStoreFlags adds the flags that select and configure the snapshot file to a command
func SetupStoreFlags(cmd *cobra.Command) {
	key := "file"
	cmd.PersistentFlags().String(key, "avlkv.db", WrapString("Snapshot file the store is loaded from and written back to"))

	key = "shards"
	cmd.PersistentFlags().Int(key, 0, WrapString("Number of shards of the engine (0 = number of CPUs)"))

	key = "gc-interval"
	cmd.PersistentFlags().Duration(key, avl.DefaultOptions().GCInterval, WrapString("Time between two garbage collection runs of the engine"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("avlkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// GetConfig reads the configuration from viper
func GetConfig() *common.Config {
	return &common.Config{
		File:       viper.GetString("file"),
		Shards:     viper.GetInt("shards"),
		GCInterval: viper.GetDuration("gc-interval"),
		LogLevel:   viper.GetString("log-level"),
	}
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// --------------------------------------------------------------------------
// Store Handling
// --------------------------------------------------------------------------

// OpenStore creates a local store backed by the avl engine and restores the
// snapshot file of the config if it exists. The engine is returned as well
// so callers can reach engine specific functionality like metrics.
func OpenStore(config *common.Config) (store.IStore, db.KVDB, error) {
	engine := avl.NewAVLDB(&avl.DBOptions{
		NumShards:  config.Shards,
		GCInterval: config.GCInterval,
	})
	s := lstore.NewLocalStore(func() db.KVDB { return engine })

	file, err := os.Open(config.File)
	if errors.Is(err, fs.ErrNotExist) {
		plog.Debugf("snapshot %s does not exist, starting empty", config.File)
		return s, engine, nil
	} else if err != nil {
		_ = s.Close()
		return nil, nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	if err := s.Restore(file); err != nil {
		_ = s.Close()
		return nil, nil, fmt.Errorf("failed to restore snapshot %s: %w", config.File, err)
	}
	return s, engine, nil
}

// SaveStore writes a snapshot of the store to path. The snapshot is written
// to a temporary file in the same directory first and then renamed, so an
// existing snapshot is never left half written.
func SaveStore(s store.IStore, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.Snapshot(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	plog.Debugf("snapshot written to %s", path)
	return nil
}
