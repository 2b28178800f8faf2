package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dolanbernard/mobilecoin/mint"
	"github.com/dolanbernard/mobilecoin/txstore"
)

const (
	flagNameStoreDir = "store-dir"
	flagNameHash     = "hash"
)

type storeConfig struct {
	base     *baseConfiguration
	StoreDir string
}

func (c *storeConfig) open() (*txstore.Store, error) {
	dir := c.StoreDir
	if dir == "" {
		dir = c.base.defaultStoreDir()
	}
	return txstore.New(dir)
}

// newStoreCmd creates commands of the local store of partially signed transactions.
func newStoreCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &storeConfig{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "store",
		Short: "keeps partially signed transactions in local database",
		Long:  "Transactions are keyed by the hash of their prefix, putting the same transaction again merges the signatures.",
	}
	cmd.PersistentFlags().StringVar(&config.StoreDir, flagNameStoreDir, "", fmt.Sprintf("directory of the store database (default $MC_HOME/%s)", defaultStoreDir))
	cmd.AddCommand(newStorePutCmd(config))
	cmd.AddCommand(newStoreGetCmd(config))
	cmd.AddCommand(newStoreListCmd(config))
	cmd.AddCommand(newStoreDeleteCmd(config))
	return cmd
}

func newStorePutCmd(config *storeConfig) *cobra.Command {
	var txFiles []string
	var cmd = &cobra.Command{
		Use:   "put",
		Short: "adds tx files to the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.open()
			if err != nil {
				return err
			}
			defer store.Close()
			for _, filename := range txFiles {
				f, err := mint.LoadTxFile(filename)
				if err != nil {
					return err
				}
				hash, stored, err := store.Put(f)
				if err != nil {
					return err
				}
				printf("%X %s %d signature(s)", hash, stored.Kind(), stored.Signature().Len())
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&txFiles, flagNameTxFile, nil, "tx file to add, can be repeated")
	_ = cmd.MarkFlagRequired(flagNameTxFile)
	return cmd
}

func newStoreGetCmd(config *storeConfig) *cobra.Command {
	var hash, outFile string
	var cmd = &cobra.Command{
		Use:   "get",
		Short: "writes stored transaction into tx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseHash(hash)
			if err != nil {
				return err
			}
			store, err := config.open()
			if err != nil {
				return err
			}
			defer store.Close()
			f, err := store.Get(key)
			if err != nil {
				return err
			}
			return writeTxFile(f, outFile)
		},
	}
	cmd.Flags().StringVar(&hash, flagNameHash, "", "hex encoded prefix hash of the transaction")
	cmd.Flags().StringVar(&outFile, flagNameOutFile, "", "tx file to write")
	_ = cmd.MarkFlagRequired(flagNameHash)
	_ = cmd.MarkFlagRequired(flagNameOutFile)
	return cmd
}

func newStoreListCmd(config *storeConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "lists stored transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.open()
			if err != nil {
				return err
			}
			defer store.Close()
			entries, err := store.List()
			if err != nil {
				return err
			}
			for _, e := range entries {
				printf("%X %s %d signature(s)", e.PrefixHash, e.Kind, e.Signatures)
			}
			return nil
		},
	}
}

func newStoreDeleteCmd(config *storeConfig) *cobra.Command {
	var hash string
	var cmd = &cobra.Command{
		Use:   "delete",
		Short: "removes transaction from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseHash(hash)
			if err != nil {
				return err
			}
			store, err := config.open()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Delete(key)
		},
	}
	cmd.Flags().StringVar(&hash, flagNameHash, "", "hex encoded prefix hash of the transaction")
	_ = cmd.MarkFlagRequired(flagNameHash)
	return cmd
}

func parseHash(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil {
		return nil, fmt.Errorf("invalid hash '%s': %w", s, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("invalid hash '%s': empty", s)
	}
	return b, nil
}
