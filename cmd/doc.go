// Package cmd implements the command-line interface of avlkv. The kv command
// group loads a snapshot file into a local store backed by the avl engine,
// runs a single operation and writes the snapshot back if the operation
// changed the store.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value operations (get, set, first, dump, stats, perf, etc.)
//   - util: Shared utilities for flags, configuration and snapshot handling (internal use)
//
// Every flag can also be set through an environment variable with the prefix
// AVLKV_, e.g. AVLKV_FILE=/tmp/data.db. Variables are also read from .env and
// .env.local in the working directory.
//
// See avlkv -help for a list of all commands.
package cmd
