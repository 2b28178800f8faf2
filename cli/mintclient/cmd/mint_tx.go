package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dolanbernard/mobilecoin/fog"
	"github.com/dolanbernard/mobilecoin/mint"
	"github.com/dolanbernard/mobilecoin/types"
)

type (
	generateMintTxConfig struct {
		base    *baseConfiguration
		OutFile string
		ChainID string
		mintTxFlags
	}

	submitMintTxConfig struct {
		base *baseConfiguration
		mintTxFlags
		nodeFlags
	}
)

func newGenerateAndSubmitMintTxCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &submitMintTxConfig{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "generate-and-submit-mint-tx",
		Short: "generates, signs and submits MintTx",
		Long:  "Generates MintTx, signs it with the given keys and submits it to the node. When --tombstone is not set it is derived from the current block index of the node.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateAndSubmitMintTx(cmd, config)
		},
	}
	config.mintTxFlags.addFlags(cmd)
	config.addNodeFlags(cmd)
	return cmd
}

func generateAndSubmitMintTx(cmd *cobra.Command, config *submitMintTxConfig) error {
	ctx := cmd.Context()
	params, err := config.params(cmd)
	if err != nil {
		return err
	}
	resolver, err := config.fogResolver(config.ChainID)
	if err != nil {
		return err
	}
	client, err := config.dial(ctx, config.base.log)
	if err != nil {
		return err
	}
	defer client.Close()

	tx, err := buildMintTx(ctx, params, resolver, ledgerTombstone(ctx, client), &config.signingFlags)
	if err != nil {
		return err
	}
	return submitTxFile(ctx, client, &mint.TxFile{MintTx: tx}, config.SubmitAttempts, config.base.log)
}

func newGenerateMintTxCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &generateMintTxConfig{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "generate-mint-tx",
		Short: "generates MintTx and writes it into tx file",
		Long:  "Generates MintTx, signs it with the given keys (if any) and writes it into JSON tx file. Requires --tombstone, fog recipients also need --fog-ingest-enclave-css and --chain-id.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			params, err := config.params(cmd)
			if err != nil {
				return err
			}
			resolver, err := config.fogResolver(config.ChainID)
			if err != nil {
				return err
			}
			tx, err := buildMintTx(ctx, params, resolver, mint.NoTombstone, &config.signingFlags)
			if err != nil {
				return err
			}
			return writeTxFile(&mint.TxFile{MintTx: tx}, config.OutFile)
		},
	}
	config.addFlags(cmd)
	cmd.Flags().StringVar(&config.OutFile, flagNameOutFile, "", "tx file to write")
	cmd.Flags().StringVar(&config.ChainID, flagNameChainID, "", "chain id the fog reports must be issued for")
	_ = cmd.MarkFlagRequired(flagNameOutFile)
	return cmd
}

func newHashMintTxCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &mintTxFlags{}
	var cmd = &cobra.Command{
		Use:   "hash-mint-tx",
		Short: "prints hash of the MintTx prefix",
		Long:  "Prints the hash of the MintTx prefix built from the parameters, ie the message the signers must sign. Requires --tombstone and --nonce, recipient must not use fog as the fog hint is random.",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := config.params(cmd)
			if err != nil {
				return err
			}
			if params.Nonce == nil {
				return fmt.Errorf("--%s is required to compute the hash", flagNameNonce)
			}
			prefix, err := mint.NewPrefixBuilder().BuildMintTxPrefix(cmd.Context(), params, nil, mint.NoTombstone)
			if err != nil {
				return err
			}
			return printPrefixHash(prefix.Hash())
		},
	}
	config.addFlags(cmd)
	return cmd
}

func newSubmitMintTxCmd(baseConfig *baseConfiguration) *cobra.Command {
	return newSubmitTxFilesCmd(baseConfig, "submit-mint-tx", mint.KindMintTx)
}

func buildMintTx(ctx context.Context, params *mint.MintTxPrefixParams, resolver fog.Resolver, fallback mint.TombstoneFunc, signing *signingFlags) (*types.MintTx, error) {
	prefix, err := mint.NewPrefixBuilder().BuildMintTxPrefix(ctx, params, resolver, fallback)
	if err != nil {
		return nil, err
	}
	signers, sigs, err := signing.load()
	if err != nil {
		return nil, err
	}
	return mint.NewMintTx(prefix, signers, sigs)
}
