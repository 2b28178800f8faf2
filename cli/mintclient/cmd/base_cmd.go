package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type mintClientApp struct {
	baseCmd    *cobra.Command
	baseConfig *baseConfiguration
}

// New creates a new mint client application
func New() *mintClientApp {
	baseCmd, baseConfig := newBaseCmd()
	return &mintClientApp{baseCmd, baseConfig}
}

// Execute adds all child commands and runs the application
func (a *mintClientApp) Execute(ctx context.Context) error {
	return a.addAndExecuteCommand(ctx)
}

func (a *mintClientApp) addAndExecuteCommand(ctx context.Context) error {
	a.baseCmd.AddCommand(newGenerateAndSubmitMintConfigTxCmd(a.baseConfig))
	a.baseCmd.AddCommand(newGenerateMintConfigTxCmd(a.baseConfig))
	a.baseCmd.AddCommand(newHashMintConfigTxCmd(a.baseConfig))
	a.baseCmd.AddCommand(newSubmitMintConfigTxCmd(a.baseConfig))
	a.baseCmd.AddCommand(newGenerateAndSubmitMintTxCmd(a.baseConfig))
	a.baseCmd.AddCommand(newGenerateMintTxCmd(a.baseConfig))
	a.baseCmd.AddCommand(newHashMintTxCmd(a.baseConfig))
	a.baseCmd.AddCommand(newSubmitMintTxCmd(a.baseConfig))
	a.baseCmd.AddCommand(newHashTxFileCmd(a.baseConfig))
	a.baseCmd.AddCommand(newSignCmd(a.baseConfig))
	a.baseCmd.AddCommand(newDumpCmd(a.baseConfig))
	a.baseCmd.AddCommand(newSignGovernorsCmd(a.baseConfig))
	a.baseCmd.AddCommand(newStoreCmd(a.baseConfig))
	return a.baseCmd.ExecuteContext(ctx)
}

func newBaseCmd() (*cobra.Command, *baseConfiguration) {
	config := &baseConfiguration{}
	var baseCmd = &cobra.Command{
		Use:           "mint-client",
		Short:         "The MobileCoin mint client",
		Long:          `The mint client generates, signs, inspects and submits MintConfigTx and MintTx transactions.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// If subcommand does not define PersistentPreRunE, the one from base cmd is used.
			if err := initializeConfig(cmd, config); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			return nil
		},
	}
	config.addConfigurationFlags(baseCmd)

	return baseCmd, config
}

func initializeConfig(cmd *cobra.Command, config *baseConfiguration) error {
	var errs []error

	if err := config.initializeConfig(cmd); err != nil {
		errs = append(errs, fmt.Errorf("reading configuration: %w", err))
	}

	if err := config.initLogger(cmd); err != nil {
		errs = append(errs, fmt.Errorf("initializing logger: %w", err))
	}

	return errors.Join(errs...)
}

// initializeConfig reads in config file and ENV variables if set.
func (config *baseConfiguration) initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	config.initConfigFileLocation()

	if config.configFileExists() {
		v.SetConfigFile(config.CfgFile)
	}

	// It's okay if there isn't a config file but it must be parseable when there is.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	// flag like --token-id binds to the environment variable MC_TOKEN_ID
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := bindFlags(cmd, v); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	return nil
}

// Bind each cobra flag to its associated viper configuration (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindFlagErr []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == keyHome || f.Name == keyConfig {
			// "home" and "config" are special configuration values, handled separately.
			return
		}

		// Environment variables can't have dashes in them, so bind them to their equivalent
		// keys with underscores, e.g. --chain-id to MC_CHAIN_ID
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				bindFlagErr = append(bindFlagErr, fmt.Errorf("binding env to flag %q: %w", f.Name, err))
				return
			}
		}

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(f.Name) {
			for _, val := range flagValues(f, v) {
				if err := cmd.Flags().Set(f.Name, val); err != nil {
					bindFlagErr = append(bindFlagErr, fmt.Errorf("setting flag %q value: %w", f.Name, err))
					return
				}
			}
		}
	})

	return errors.Join(bindFlagErr...)
}

/*
flagValues returns the viper value of the flag as a list of values to Set.
Repeatable flags take comma separated list from environment, each element
is set separately as StringArray flags do not split the value themselves.
*/
func flagValues(f *pflag.Flag, v *viper.Viper) []string {
	switch f.Value.Type() {
	case "stringArray", "stringSlice":
		var res []string
		for _, s := range v.GetStringSlice(f.Name) {
			res = append(res, strings.Split(s, ",")...)
		}
		return res
	default:
		return []string{fmt.Sprintf("%v", v.Get(f.Name))}
	}
}
