package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkhuang/giftledger/internal/auth"
	"github.com/mkhuang/giftledger/internal/backup"
	"github.com/mkhuang/giftledger/internal/codec"
	"github.com/mkhuang/giftledger/internal/config"
	"github.com/mkhuang/giftledger/internal/storage/sqlite"
	"github.com/mkhuang/giftledger/pkg/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "giftledger",
	Short: "Track reciprocal gift-giving with your contacts",
	Long: `giftledger records gifts given and received per contact and keeps a
running net balance for each person.

Available subcommands:
  serve           - Run the HTTP API server
  export          - Write a backup file of the current ledger
  import          - Restore the ledger from a backup file
  hash-passphrase - Generate a bcrypt hash for auth_passphrase_hash`,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "giftledger.yaml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, exportCmd, importCmd, hashPassphraseCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config, configures logging, and opens the store. Callers own
// the returned store and must Close it.
func setup() (*config.Config, codec.Codec, *sqlite.SQLiteStore, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logging.Setup(cfg.LogLevel)

	c, err := cfg.NewCodec()
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := sqlite.New(cfg.DBPath, c)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, c, store, nil
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a backup file of the current ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, c, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		dir, _ := cmd.Flags().GetString("out")
		if dir == "" {
			dir = cfg.BackupDir
		}
		path, err := backup.NewManager(store, c).Export(cmd.Context(), dir)
		if err != nil {
			return err
		}
		if path == "" {
			fmt.Println("nothing persisted yet, no backup written")
			return nil
		}
		fmt.Println(path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore the ledger from a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		snap, err := backup.NewManager(store, c).Import(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("restored %d people, %d transactions\n", len(snap.People), len(snap.Transactions))
		return nil
	},
}

var hashPassphraseCmd = &cobra.Command{
	Use:   "hash-passphrase <passphrase>",
	Short: "Generate a bcrypt hash for auth_passphrase_hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassphrase(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "output directory (default: backup_dir from config)")
}
