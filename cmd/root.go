package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/avlkv/cmd/kv"
	"github.com/ValentinKolb/avlkv/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "avlkv",
		Short: "ordered key-value store on AVL trees",
		Long: fmt.Sprintf(`avlkv (v%s)

An ordered key-value store written in Go. Keys are kept in sharded AVL
trees with write-index based expiry, and the store is persisted as a
snapshot file.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of avlkv",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("avlkv v%s\n", Version)
		},
	}
)

func init() {
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)

	key := "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("Log level (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
