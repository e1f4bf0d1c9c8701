package kv

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// metricsWriter is implemented by engines that export Prometheus metrics
type metricsWriter interface {
	WriteMetrics(w io.Writer)
}

var (
	setCmd = &cobra.Command{
		Use:         "set [key] [value]",
		Short:       "Sets the value for a key",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{mutates: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := localStore.Set(args[0], []byte(args[1])); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	setECmd = &cobra.Command{
		Use:         "setE [key] [value] [expireIn] [deleteIn]",
		Short:       "Sets the value for a key with expiration and deletion time",
		Long:        "Sets the value for a key. expireIn and deleteIn count write operations, 0 disables them.",
		Args:        cobra.ExactArgs(4),
		Annotations: map[string]string{mutates: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			expireIn, deleteIn, err := parseTTL(args[2], args[3])
			if err != nil {
				return err
			}
			if err := localStore.SetE(args[0], []byte(args[1]), expireIn, deleteIn); err != nil {
				return err
			}
			fmt.Println("setE successfully")
			return nil
		},
	}
	setEIfUnsetCmd = &cobra.Command{
		Use:         "setEIfUnset [key] [value] [expireIn] [deleteIn]",
		Short:       "Sets the value for a key with expiration and deletion time if the key is not already set",
		Args:        cobra.ExactArgs(4),
		Annotations: map[string]string{mutates: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			expireIn, deleteIn, err := parseTTL(args[2], args[3])
			if err != nil {
				return err
			}
			if err := localStore.SetEIfUnset(args[0], []byte(args[1]), expireIn, deleteIn); err != nil {
				return err
			}
			fmt.Println("setEIfUnset successfully")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, ok, err := localStore.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%v, resp=%s\n", args[0], ok, resp)
			return nil
		},
	}
	exprCmd = &cobra.Command{
		Use:         "expr [key]",
		Short:       "Expires the value for a key",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{mutates: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := localStore.Expire(args[0]); err != nil {
				return err
			}
			fmt.Println("expire successfully")
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:         "del [key]",
		Short:       "Deletes a key value pair",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{mutates: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := localStore.Delete(args[0]); err != nil {
				return err
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := localStore.Has(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%t\n", args[0], found)
			return nil
		},
	}
	firstCmd = &cobra.Command{
		Use:   "first",
		Short: "Prints the smallest key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok, err := localStore.First()
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%t\n", key, ok)
			return nil
		},
	}
	lastCmd = &cobra.Command{
		Use:   "last",
		Short: "Prints the largest key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok, err := localStore.Last()
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%t\n", key, ok)
			return nil
		},
	}
	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Prints all key value pairs in ascending key order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := localStore.Ascend()
			if err != nil {
				return err
			}
			limit := viper.GetInt("limit")
			n := 0
			for key, value := range entries {
				if limit > 0 && n == limit {
					break
				}
				if value == nil {
					fmt.Printf("%s (expired)\n", key)
				} else {
					fmt.Printf("%s=%s\n", key, value)
				}
				n++
			}
			return nil
		},
	}
	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Prints information and metrics of the underlying database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := localStore.GetDBInfo()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode database info: %w", err)
			}
			fmt.Println(string(out))

			if viper.GetBool("metrics") {
				if w, ok := engine.(metricsWriter); ok {
					fmt.Println()
					w.WriteMetrics(os.Stdout)
				}
			}
			return nil
		},
	}
)

func init() {
	dumpCmd.Flags().Int("limit", 0, "Maximum number of entries to print (0 = all)")
	statsCmd.Flags().Bool("metrics", false, "Also print the engine metrics in Prometheus text format")
}

func parseTTL(expire, del string) (expireIn, deleteIn uint64, err error) {
	expireIn, err = strconv.ParseUint(expire, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("expireIn must be a number: %w", err)
	}
	deleteIn, err = strconv.ParseUint(del, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("deleteIn must be a number: %w", err)
	}
	return expireIn, deleteIn, nil
}
