package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dolanbernard/mobilecoin/account"
	"github.com/dolanbernard/mobilecoin/crypto"
	"github.com/dolanbernard/mobilecoin/fog"
	"github.com/dolanbernard/mobilecoin/logger"
	"github.com/dolanbernard/mobilecoin/mint"
	"github.com/dolanbernard/mobilecoin/rpc"
	"github.com/dolanbernard/mobilecoin/types"
)

const (
	flagNameTokenID        = "token-id"
	flagNameTombstone      = "tombstone"
	flagNameNonce          = "nonce"
	flagNameMintConfig     = "config"
	flagNameTotalMintLimit = "total-mint-limit"
	flagNameRecipient      = "recipient"
	flagNameAmount         = "amount"
	flagNameSigningKey     = "signing-key"
	flagNameSignature      = "signature"
	flagNameChainID        = "chain-id"
	flagNameNode           = "node"
	flagNameSubmitAttempts = "submit-attempts"
	flagNameRequestTimeout = "request-timeout"
	flagNameFogCSS         = "fog-ingest-enclave-css"
	flagNameTxFile         = "tx-file"
	flagNameOutFile        = "out"

	// tombstone block used when not given is this many blocks ahead of the ledger
	tombstoneBlocksAhead = 10
)

type (
	signingFlags struct {
		SigningKeys []string
		Signatures  []string
	}

	nodeFlags struct {
		NodeURI        string
		ChainID        string
		SubmitAttempts uint
		RequestTimeout time.Duration
	}

	mintConfigTxFlags struct {
		TokenID        uint64
		Tombstone      uint64
		Nonce          string
		Configs        []string
		TotalMintLimit uint64
		signingFlags
	}

	mintTxFlags struct {
		Recipient string
		TokenID   uint64
		Amount    uint64
		Tombstone uint64
		Nonce     string
		FogCSS    []string
		signingFlags
	}
)

func (f *signingFlags) addSigningFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.SigningKeys, flagNameSigningKey, nil, "PEM file of Ed25519 private key to sign the transaction with, can be repeated")
	cmd.Flags().StringArrayVar(&f.Signatures, flagNameSignature, nil, "pre-made signature of the transaction, hex or PEM file, can be repeated")
}

func (f *signingFlags) load() ([]crypto.Signer, []crypto.Signature, error) {
	signers := make([]crypto.Signer, 0, len(f.SigningKeys))
	for _, filename := range f.SigningKeys {
		s, err := crypto.LoadSigner(filename)
		if err != nil {
			return nil, nil, fmt.Errorf("loading signing key: %w", err)
		}
		signers = append(signers, s)
	}
	sigs := make([]crypto.Signature, 0, len(f.Signatures))
	for _, v := range f.Signatures {
		sig, err := crypto.LoadOrParseSignature(v)
		if err != nil {
			return nil, nil, fmt.Errorf("loading signature: %w", err)
		}
		sigs = append(sigs, sig)
	}
	return signers, sigs, nil
}

func (f *nodeFlags) addNodeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.NodeURI, flagNameNode, "", "URI of the consensus node, ie mc://node1.test.mobilecoin.com/")
	cmd.Flags().StringVar(&f.ChainID, flagNameChainID, "", "chain id of the network the node must belong to")
	cmd.Flags().UintVar(&f.SubmitAttempts, flagNameSubmitAttempts, 3, "how many times to try submitting the transaction when the node can't be reached")
	cmd.Flags().DurationVar(&f.RequestTimeout, flagNameRequestTimeout, 30*time.Second, "timeout of single request to the node")
	_ = cmd.MarkFlagRequired(flagNameNode)
	_ = cmd.MarkFlagRequired(flagNameChainID)
}

// dial connects to the node and makes sure it belongs to the expected chain.
func (f *nodeFlags) dial(ctx context.Context, log zerolog.Logger) (*rpc.NodeClient, error) {
	client, err := rpc.DialNode(ctx, f.NodeURI, rpc.WithRequestTimeout(f.RequestTimeout), rpc.WithLogger(logger.WithNode(log, f.NodeURI)))
	if err != nil {
		return nil, err
	}
	if err := client.VerifyChainID(ctx, f.ChainID); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// ledgerTombstone returns tombstone func which asks the node for the current block index.
func ledgerTombstone(ctx context.Context, client *rpc.NodeClient) mint.TombstoneFunc {
	return func() (uint64, error) {
		idx, err := client.GetLastBlockIndex(ctx)
		if err != nil {
			return 0, fmt.Errorf("reading last block index: %w", err)
		}
		return idx + tombstoneBlocksAhead, nil
	}
}

func (f *mintConfigTxFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&f.TokenID, flagNameTokenID, 0, "id of the token the configs are for")
	cmd.Flags().Uint64Var(&f.Tombstone, flagNameTombstone, 0, "block index at which the transaction expires")
	cmd.Flags().StringVar(&f.Nonce, flagNameNonce, "", "hex encoded 64 byte nonce, random when not set")
	cmd.Flags().StringArrayVar(&f.Configs, flagNameMintConfig, nil, "mint config in format <mint_limit>:<signing_threshold>:keyfile1.pem[:keyfile2.pem:...], can be repeated")
	cmd.Flags().Uint64Var(&f.TotalMintLimit, flagNameTotalMintLimit, 0, "total mint limit shared by all the configs")
	_ = cmd.MarkFlagRequired(flagNameTokenID)
	_ = cmd.MarkFlagRequired(flagNameMintConfig)
	_ = cmd.MarkFlagRequired(flagNameTotalMintLimit)
	f.addSigningFlags(cmd)
}

func (f *mintConfigTxFlags) params(cmd *cobra.Command, log zerolog.Logger) (*mint.MintConfigTxPrefixParams, error) {
	params := &mint.MintConfigTxPrefixParams{
		TokenID:        types.TokenID(f.TokenID),
		TotalMintLimit: f.TotalMintLimit,
	}
	if cmd.Flags().Changed(flagNameTombstone) {
		params.Tombstone = &f.Tombstone
	}
	if f.Nonce != "" {
		nonce, err := mint.ParseNonce(f.Nonce)
		if err != nil {
			return nil, err
		}
		params.Nonce = nonce
	}
	for _, src := range f.Configs {
		c, err := mint.ParseMintConfig(src)
		if err != nil {
			return nil, err
		}
		if dups := c.SignerSet.DuplicateSigners(); len(dups) > 0 {
			logger.TokenID(log.Warn(), f.TokenID).Str("config", src).Int("duplicates", len(dups)).
				Msg("mint config lists the same signer more than once, duplicates do not count towards the threshold")
		}
		params.Configs = append(params.Configs, c)
	}
	return params, nil
}

func (f *mintTxFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Recipient, flagNameRecipient, "", "b58 encoded public address of the recipient")
	cmd.Flags().Uint64Var(&f.TokenID, flagNameTokenID, 0, "id of the token to mint")
	cmd.Flags().Uint64Var(&f.Amount, flagNameAmount, 0, "amount to mint")
	cmd.Flags().Uint64Var(&f.Tombstone, flagNameTombstone, 0, "block index at which the transaction expires")
	cmd.Flags().StringVar(&f.Nonce, flagNameNonce, "", "hex encoded 64 byte nonce, random when not set")
	cmd.Flags().StringArrayVar(&f.FogCSS, flagNameFogCSS, nil, "CSS file of the allowed fog ingest enclave, required when the recipient uses fog, can be repeated")
	_ = cmd.MarkFlagRequired(flagNameRecipient)
	_ = cmd.MarkFlagRequired(flagNameTokenID)
	_ = cmd.MarkFlagRequired(flagNameAmount)
	f.addSigningFlags(cmd)
}

func (f *mintTxFlags) params(cmd *cobra.Command) (*mint.MintTxPrefixParams, error) {
	recipient, err := account.ParsePublicAddress(f.Recipient)
	if err != nil {
		return nil, err
	}
	params := &mint.MintTxPrefixParams{
		Recipient: recipient,
		TokenID:   types.TokenID(f.TokenID),
		Amount:    f.Amount,
	}
	if cmd.Flags().Changed(flagNameTombstone) {
		params.Tombstone = &f.Tombstone
	}
	if f.Nonce != "" {
		if params.Nonce, err = mint.ParseNonce(f.Nonce); err != nil {
			return nil, err
		}
	}
	return params, nil
}

/*
fogResolver returns resolver for recipients using fog. Returns nil when no
enclave CSS files were given, building the prefix then fails for fog
recipients.
*/
func (f *mintTxFlags) fogResolver(chainID string) (fog.Resolver, error) {
	if len(f.FogCSS) == 0 {
		return nil, nil
	}
	if chainID == "" {
		return nil, fmt.Errorf("--%s is required with --%s", flagNameChainID, flagNameFogCSS)
	}
	measurements := make([][]byte, 0, len(f.FogCSS))
	for _, filename := range f.FogCSS {
		measurement, err := fog.LoadCSSFile(filename)
		if err != nil {
			return nil, err
		}
		measurements = append(measurements, measurement)
	}
	fogCtx, err := fog.NewContext(chainID, measurements)
	if err != nil {
		return nil, err
	}
	return fogCtx, nil
}
