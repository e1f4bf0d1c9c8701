package kv

import (
	"github.com/ValentinKolb/avlkv/cmd/util"
	"github.com/ValentinKolb/avlkv/lib/common"
	"github.com/ValentinKolb/avlkv/lib/db"
	"github.com/ValentinKolb/avlkv/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
)

// annotation marking commands whose changes are written back to the snapshot file
const mutates = "mutates"

var plog = logger.GetLogger("cli")

var (
	localStore store.IStore
	engine     db.KVDB
	config     *common.Config

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:                "kv",
		Short:              "Perform key-value store operations on a snapshot file",
		PersistentPreRunE:  openStore,
		PersistentPostRunE: closeStore,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	util.SetupStoreFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(setECmd)
	KeyValueCommands.AddCommand(setEIfUnsetCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(exprCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(hasCmd)
	KeyValueCommands.AddCommand(firstCmd)
	KeyValueCommands.AddCommand(lastCmd)
	KeyValueCommands.AddCommand(dumpCmd)
	KeyValueCommands.AddCommand(statsCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// openStore loads the snapshot file into a local store
func openStore(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	config = util.GetConfig()
	if err := common.InitLoggers(config); err != nil {
		return err
	}

	var err error
	localStore, engine, err = util.OpenStore(config)
	return err
}

// closeStore writes the store back to the snapshot file if the command
// changed it and releases the store
func closeStore(cmd *cobra.Command, _ []string) error {
	defer localStore.Close()

	if cmd.Annotations[mutates] != "true" {
		return nil
	}
	return util.SaveStore(localStore, config.File)
}
