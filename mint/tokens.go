package mint

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dolanbernard/mobilecoin/cbor"
	"github.com/dolanbernard/mobilecoin/crypto"
	"github.com/dolanbernard/mobilecoin/internal/util"
	"github.com/dolanbernard/mobilecoin/multisig"
	"github.com/dolanbernard/mobilecoin/types"
)

// GovernorsMapTag is the domain separation tag of the governors digest.
const GovernorsMapTag = "mc_governors_map"

type (
	/*
	TokensConfig is the tokens.toml / tokens.json file of the consensus
	service. Governors of a token are the ones who authorize its
	MintConfigTx, the governors of all the tokens are in turn authorized by
	GovernorsSignature.
	*/
	TokensConfig struct {
		GovernorsSignature types.Bytes    `toml:"governors_signature,omitempty" json:"governors_signature,omitempty"`
		Tokens             []*TokenConfig `toml:"tokens" json:"tokens"`
	}

	TokenConfig struct {
		TokenID    types.TokenID    `toml:"token_id" json:"token_id"`
		MinimumFee uint64           `toml:"minimum_fee,omitempty" json:"minimum_fee,omitempty"`
		Governors  *GovernorsConfig `toml:"governors,omitempty" json:"governors,omitempty"`
	}

	GovernorsConfig struct {
		// Signers is the list of PEM encoded Ed25519 public keys.
		Signers   string `toml:"signers" json:"signers"`
		Threshold uint32 `toml:"threshold" json:"threshold"`
	}

	governorsEntry struct {
		_         struct{} `cbor:",toarray"`
		TokenID   types.TokenID
		SignerSet *multisig.SignerSet
	}
)

// LoadTokensConfig loads the file in TOML or JSON format depending on the file extension.
func LoadTokensConfig(path string) (*TokensConfig, error) {
	var c *TokensConfig
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		c, err = util.ReadTOMLFile(path, &TokensConfig{})
	case ".json":
		c, err = util.ReadJsonFile(path, &TokensConfig{})
	default:
		err = fmt.Errorf("unrecognized extension '%s', expected .toml or .json", filepath.Ext(path))
	}
	if err != nil {
		return nil, &ParseError{Kind: ErrInvalidTokensFile, Path: path, Err: err}
	}
	if err := c.IsValid(); err != nil {
		return nil, &ParseError{Kind: ErrInvalidTokensFile, Path: path, Err: err}
	}
	return c, nil
}

func (c *TokensConfig) SaveTOML(path string) error {
	return util.WriteTOMLFile(path, c)
}

func (c *TokensConfig) SaveJSON(path string) error {
	return util.WriteJsonFile(path, c)
}

func (c *TokensConfig) IsValid() error {
	seen := map[types.TokenID]struct{}{}
	for i, t := range c.Tokens {
		if t == nil {
			return fmt.Errorf("token %d is nil", i)
		}
		if _, ok := seen[t.TokenID]; ok {
			return fmt.Errorf("duplicate token id %d", t.TokenID)
		}
		seen[t.TokenID] = struct{}{}
		if t.Governors == nil {
			continue
		}
		if t.TokenID == types.MobTokenID {
			return fmt.Errorf("token %d is the native token, it can not have governors", t.TokenID)
		}
		if _, err := t.Governors.SignerSet(); err != nil {
			return fmt.Errorf("token %d governors: %w", t.TokenID, err)
		}
	}
	return nil
}

func (g *GovernorsConfig) SignerSet() (*multisig.SignerSet, error) {
	keys, err := crypto.ParsePublicKeysPEM([]byte(g.Signers))
	if err != nil {
		return nil, err
	}
	return multisig.NewSignerSet(keys, g.Threshold)
}

// Governors returns the signer set which authorizes mint config transactions of the token.
func (c *TokensConfig) Governors(tokenID types.TokenID) (*multisig.SignerSet, error) {
	for _, t := range c.Tokens {
		if t.TokenID == tokenID {
			if t.Governors == nil {
				return nil, fmt.Errorf("token %d has no governors", tokenID)
			}
			return t.Governors.SignerSet()
		}
	}
	return nil, fmt.Errorf("token %d not found", tokenID)
}

// GovernorsDigest returns the message GovernorsSignature is calculated over,
// the tokens with governors ordered by token id.
func (c *TokensConfig) GovernorsDigest() ([]byte, error) {
	var entries []*governorsEntry
	for _, t := range c.Tokens {
		if t.Governors == nil {
			continue
		}
		ss, err := t.Governors.SignerSet()
		if err != nil {
			return nil, fmt.Errorf("token %d governors: %w", t.TokenID, err)
		}
		entries = append(entries, &governorsEntry{TokenID: t.TokenID, SignerSet: ss})
	}
	slices.SortFunc(entries, func(a, b *governorsEntry) int {
		return cmp.Compare(a.TokenID, b.TokenID)
	})
	b, err := cbor.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encoding governors: %w", err)
	}
	return types.TaggedHash(GovernorsMapTag, b), nil
}

// SignGovernors replaces GovernorsSignature with signature of the signer.
func (c *TokensConfig) SignGovernors(signer crypto.Signer) error {
	digest, err := c.GovernorsDigest()
	if err != nil {
		return err
	}
	sig, err := signer.SignBytes(digest)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSigning, err)
	}
	c.GovernorsSignature = types.Bytes(sig)
	return nil
}

func (c *TokensConfig) VerifyGovernorsSignature(pk crypto.PublicKey) error {
	if len(c.GovernorsSignature) == 0 {
		return ErrMissingGovernorSig
	}
	digest, err := c.GovernorsDigest()
	if err != nil {
		return err
	}
	v, err := crypto.NewEd25519Verifier(pk)
	if err != nil {
		return err
	}
	return v.VerifyBytes(crypto.Signature(c.GovernorsSignature), digest)
}
