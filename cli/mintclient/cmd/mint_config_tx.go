package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dolanbernard/mobilecoin/mint"
	"github.com/dolanbernard/mobilecoin/types"
)

type (
	generateMintConfigTxConfig struct {
		base    *baseConfiguration
		OutFile string
		mintConfigTxFlags
	}

	submitMintConfigTxConfig struct {
		base *baseConfiguration
		mintConfigTxFlags
		nodeFlags
	}
)

func newGenerateAndSubmitMintConfigTxCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &submitMintConfigTxConfig{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "generate-and-submit-mint-config-tx",
		Short: "generates, signs and submits MintConfigTx",
		Long:  "Generates MintConfigTx, signs it with the given keys and submits it to the node. When --tombstone is not set it is derived from the current block index of the node.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateAndSubmitMintConfigTx(cmd, config)
		},
	}
	config.mintConfigTxFlags.addFlags(cmd)
	config.addNodeFlags(cmd)
	return cmd
}

func generateAndSubmitMintConfigTx(cmd *cobra.Command, config *submitMintConfigTxConfig) error {
	ctx := cmd.Context()
	log := config.base.log
	params, err := config.params(cmd, log)
	if err != nil {
		return err
	}
	client, err := config.dial(ctx, log)
	if err != nil {
		return err
	}
	defer client.Close()

	tx, err := buildMintConfigTx(params, ledgerTombstone(ctx, client), &config.signingFlags)
	if err != nil {
		return err
	}
	return submitTxFile(ctx, client, &mint.TxFile{MintConfigTx: tx}, config.SubmitAttempts, log)
}

func newGenerateMintConfigTxCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &generateMintConfigTxConfig{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "generate-mint-config-tx",
		Short: "generates MintConfigTx and writes it into tx file",
		Long:  "Generates MintConfigTx, signs it with the given keys (if any) and writes it into JSON tx file for other signers to sign and eventually to be submitted. Requires --tombstone.",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := config.params(cmd, config.base.log)
			if err != nil {
				return err
			}
			tx, err := buildMintConfigTx(params, mint.NoTombstone, &config.signingFlags)
			if err != nil {
				return err
			}
			return writeTxFile(&mint.TxFile{MintConfigTx: tx}, config.OutFile)
		},
	}
	config.addFlags(cmd)
	cmd.Flags().StringVar(&config.OutFile, flagNameOutFile, "", "tx file to write")
	_ = cmd.MarkFlagRequired(flagNameOutFile)
	return cmd
}

func newHashMintConfigTxCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &mintConfigTxFlags{}
	var cmd = &cobra.Command{
		Use:   "hash-mint-config-tx",
		Short: "prints hash of the MintConfigTx prefix",
		Long:  "Prints the hash of the MintConfigTx prefix built from the parameters, ie the message the signers must sign. Requires --tombstone and --nonce.",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := config.params(cmd, baseConfig.log)
			if err != nil {
				return err
			}
			if params.Nonce == nil {
				return fmt.Errorf("--%s is required to compute the hash", flagNameNonce)
			}
			prefix, err := mint.NewPrefixBuilder().BuildMintConfigTxPrefix(params, mint.NoTombstone)
			if err != nil {
				return err
			}
			return printPrefixHash(prefix.Hash())
		},
	}
	config.addFlags(cmd)
	return cmd
}

func newSubmitMintConfigTxCmd(baseConfig *baseConfiguration) *cobra.Command {
	return newSubmitTxFilesCmd(baseConfig, "submit-mint-config-tx", mint.KindMintConfigTx)
}

func buildMintConfigTx(params *mint.MintConfigTxPrefixParams, fallback mint.TombstoneFunc, signing *signingFlags) (*types.MintConfigTx, error) {
	prefix, err := mint.NewPrefixBuilder().BuildMintConfigTxPrefix(params, fallback)
	if err != nil {
		return nil, err
	}
	signers, sigs, err := signing.load()
	if err != nil {
		return nil, err
	}
	return mint.NewMintConfigTx(prefix, signers, sigs)
}

type submitTxFilesConfig struct {
	base    *baseConfiguration
	TxFiles []string
	nodeFlags
}

/*
newSubmitTxFilesCmd returns command which loads the tx files, merges their
signatures and submits the result. All the files must contain transaction
of the given kind with the same prefix.
*/
func newSubmitTxFilesCmd(baseConfig *baseConfiguration, use, kind string) *cobra.Command {
	config := &submitTxFilesConfig{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("merges signatures of the %s tx files and submits the result", kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitTxFiles(cmd.Context(), config, kind)
		},
	}
	cmd.Flags().StringArrayVar(&config.TxFiles, flagNameTxFile, nil, "tx file to submit, can be repeated to merge signatures of several files")
	_ = cmd.MarkFlagRequired(flagNameTxFile)
	config.addNodeFlags(cmd)
	return cmd
}

func submitTxFiles(ctx context.Context, config *submitTxFilesConfig, kind string) error {
	f, err := mint.LoadTxFiles(config.TxFiles...)
	if err != nil {
		return err
	}
	if f.Kind() != kind {
		return fmt.Errorf("tx files contain %s, expected %s", f.Kind(), kind)
	}
	client, err := config.dial(ctx, config.base.log)
	if err != nil {
		return err
	}
	defer client.Close()
	return submitTxFile(ctx, client, f, config.SubmitAttempts, config.base.log)
}

func writeTxFile(f *mint.TxFile, filename string) error {
	if filename == "" {
		return errors.New("output file name is empty")
	}
	if err := f.Save(filename); err != nil {
		return err
	}
	hash, err := f.PrefixHash()
	if err != nil {
		return err
	}
	printf("Wrote %s %X with %d signature(s) to %s", f.Kind(), hash, f.Signature().Len(), filename)
	return nil
}

func printPrefixHash(hash []byte, err error) error {
	if err != nil {
		return err
	}
	consoleWriter.Println(fmt.Sprintf("%X", hash))
	return nil
}
