package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dolanbernard/mobilecoin/mint"
)

const (
	flagNameTokens       = "tokens"
	flagNameMintConfigTx = "mint-config-tx"
)

type (
	signConfig struct {
		base   *baseConfiguration
		TxFile string
		signingFlags
	}

	dumpConfig struct {
		TxFile       string
		TokensFile   string
		MintConfigTx string
	}
)

func newHashTxFileCmd(baseConfig *baseConfiguration) *cobra.Command {
	var txFile string
	var cmd = &cobra.Command{
		Use:   "hash-tx-file",
		Short: "prints hash of the transaction prefix in the tx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := mint.LoadTxFile(txFile)
			if err != nil {
				return err
			}
			return printPrefixHash(f.PrefixHash())
		},
	}
	cmd.Flags().StringVar(&txFile, flagNameTxFile, "", "tx file to hash")
	_ = cmd.MarkFlagRequired(flagNameTxFile)
	return cmd
}

func newSignCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &signConfig{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "sign",
		Short: "adds signatures to the tx file",
		Long:  "Signs the transaction in the tx file with the given keys, adds the given pre-made signatures and rewrites the file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signTxFile(config)
		},
	}
	cmd.Flags().StringVar(&config.TxFile, flagNameTxFile, "", "tx file to sign")
	_ = cmd.MarkFlagRequired(flagNameTxFile)
	config.addSigningFlags(cmd)
	return cmd
}

func signTxFile(config *signConfig) error {
	if len(config.SigningKeys) == 0 && len(config.Signatures) == 0 {
		return fmt.Errorf("at least one --%s or --%s is required", flagNameSigningKey, flagNameSignature)
	}
	f, err := mint.LoadTxFile(config.TxFile)
	if err != nil {
		return err
	}
	signers, sigs, err := config.load()
	if err != nil {
		return err
	}
	before := f.Signature().Len()
	if err := f.Sign(signers, sigs); err != nil {
		return err
	}
	config.base.log.Debug().Str("file", config.TxFile).Int("added", f.Signature().Len()-before).Msg("signed tx file")
	return writeTxFile(f, config.TxFile)
}

func newDumpCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &dumpConfig{}
	var cmd = &cobra.Command{
		Use:   "dump",
		Short: "prints the content of the tx file",
		Long: `Prints the transaction in the tx file and the hash of its prefix.
The signatures can be checked against the governors of the token (MintConfigTx)
or against the configs of a MintConfigTx (MintTx).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpTxFile(config)
		},
	}
	cmd.Flags().StringVar(&config.TxFile, flagNameTxFile, "", "tx file to dump")
	cmd.Flags().StringVar(&config.TokensFile, flagNameTokens, "", "tokens config (TOML or JSON) to verify MintConfigTx signatures against")
	cmd.Flags().StringVar(&config.MintConfigTx, flagNameMintConfigTx, "", "MintConfigTx file to verify MintTx signatures against")
	_ = cmd.MarkFlagRequired(flagNameTxFile)
	return cmd
}

func dumpTxFile(config *dumpConfig) error {
	f, err := mint.LoadTxFile(config.TxFile)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding tx file: %w", err)
	}
	consoleWriter.Println(string(b))
	hash, err := f.PrefixHash()
	if err != nil {
		return err
	}
	printf("Prefix hash: %X", hash)

	switch {
	case config.TokensFile != "":
		if f.MintConfigTx == nil {
			return fmt.Errorf("--%s can be used only with %s", flagNameTokens, mint.KindMintConfigTx)
		}
		tokens, err := mint.LoadTokensConfig(config.TokensFile)
		if err != nil {
			return err
		}
		governors, err := tokens.Governors(f.MintConfigTx.Prefix.TokenID)
		if err != nil {
			return err
		}
		if err := f.Verify(governors); err != nil {
			return err
		}
		consoleWriter.Println("Signatures satisfy the governors of the token")
	case config.MintConfigTx != "":
		if f.MintTx == nil {
			return fmt.Errorf("--%s can be used only with %s", flagNameMintConfigTx, mint.KindMintTx)
		}
		cf, err := mint.LoadTxFile(config.MintConfigTx)
		if err != nil {
			return err
		}
		if cf.MintConfigTx == nil {
			return fmt.Errorf("%s does not contain %s", config.MintConfigTx, mint.KindMintConfigTx)
		}
		idx, err := verifyAgainstConfigs(f, cf)
		if err != nil {
			return err
		}
		printf("Signatures satisfy mint config %d", idx)
	}
	return nil
}

// verifyAgainstConfigs returns index of the first config whose signer set the signatures satisfy.
func verifyAgainstConfigs(f, configTx *mint.TxFile) (int, error) {
	prefix := configTx.MintConfigTx.Prefix
	if prefix.TokenID != f.MintTx.Prefix.TokenID {
		return -1, fmt.Errorf("MintTx is for token %d, MintConfigTx for token %d", f.MintTx.Prefix.TokenID, prefix.TokenID)
	}
	var errs []error
	for i, c := range prefix.Configs {
		if f.MintTx.Prefix.Amount > c.MintLimit {
			errs = append(errs, fmt.Errorf("config %d: amount exceeds mint limit %d", i, c.MintLimit))
			continue
		}
		err := f.Verify(c.SignerSet)
		if err == nil {
			return i, nil
		}
		errs = append(errs, fmt.Errorf("config %d: %w", i, err))
	}
	return -1, fmt.Errorf("signatures satisfy none of the mint configs: %w", errors.Join(errs...))
}
