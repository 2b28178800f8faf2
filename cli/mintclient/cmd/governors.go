package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dolanbernard/mobilecoin/crypto"
	"github.com/dolanbernard/mobilecoin/mint"
)

const (
	flagNameOutputTOML = "output-toml"
	flagNameOutputJSON = "output-json"
)

type signGovernorsConfig struct {
	base       *baseConfiguration
	SigningKey string
	TokensFile string
	OutputTOML string
	OutputJSON string
}

func newSignGovernorsCmd(baseConfig *baseConfiguration) *cobra.Command {
	config := &signGovernorsConfig{base: baseConfig}
	var cmd = &cobra.Command{
		Use:   "sign-governors",
		Short: "signs the governors of the tokens config",
		Long:  "Signs the governors of all the tokens in the tokens config and writes the config with the signature in TOML and/or JSON format.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signGovernors(config)
		},
	}
	cmd.Flags().StringVar(&config.SigningKey, flagNameSigningKey, "", "PEM file of the Ed25519 private key to sign with")
	cmd.Flags().StringVar(&config.TokensFile, flagNameTokens, "", "tokens config file (TOML or JSON)")
	cmd.Flags().StringVar(&config.OutputTOML, flagNameOutputTOML, "", "file to write the signed config to in TOML format")
	cmd.Flags().StringVar(&config.OutputJSON, flagNameOutputJSON, "", "file to write the signed config to in JSON format")
	_ = cmd.MarkFlagRequired(flagNameSigningKey)
	_ = cmd.MarkFlagRequired(flagNameTokens)
	return cmd
}

func signGovernors(config *signGovernorsConfig) error {
	signer, err := crypto.LoadSigner(config.SigningKey)
	if err != nil {
		return fmt.Errorf("loading signing key: %w", err)
	}
	tokens, err := mint.LoadTokensConfig(config.TokensFile)
	if err != nil {
		return err
	}
	if err := tokens.SignGovernors(signer); err != nil {
		return err
	}
	printf("Governors signature: %X", []byte(tokens.GovernorsSignature))

	var errs []error
	if config.OutputTOML != "" {
		if err := tokens.SaveTOML(config.OutputTOML); err != nil {
			errs = append(errs, err)
		} else {
			printf("Wrote %s", config.OutputTOML)
		}
	}
	if config.OutputJSON != "" {
		if err := tokens.SaveJSON(config.OutputJSON); err != nil {
			errs = append(errs, err)
		} else {
			printf("Wrote %s", config.OutputJSON)
		}
	}
	if len(errs) == 0 && config.OutputTOML == "" && config.OutputJSON == "" {
		config.base.log.Warn().Msg("no output file given, signed tokens config was not saved")
	}
	return errors.Join(errs...)
}
