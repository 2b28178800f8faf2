package types

import (
	"errors"
	"fmt"

	"github.com/dolanbernard/mobilecoin/cbor"
	"github.com/dolanbernard/mobilecoin/multisig"
)

const (
	// NonceLength is the length of the nonce of mint transactions in bytes.
	NonceLength = 64
	// AddressKeyLength is the length of the view and spend public keys of an address.
	AddressKeyLength = 32
	// EFogHintLength is the length of the encrypted fog hint (view key in an anonymous sealed box).
	EFogHintLength = AddressKeyLength + 48
)

var (
	ErrPrefixIsNil     = errors.New("prefix is nil")
	ErrInvalidNonce    = errors.New("invalid nonce")
	ErrNoMintConfigs   = errors.New("at least one mint config is required")
	ErrSignerSetIsNil  = errors.New("signer set is nil")
	ErrInvalidKey      = errors.New("invalid address key")
	ErrInvalidFogHint  = errors.New("invalid encrypted fog hint")
	ErrTokenIDMismatch = errors.New("token id mismatch")
)

type (
	// MintConfig allows the SignerSet to mint up to MintLimit tokens of TokenID.
	MintConfig struct {
		_         struct{}            `cbor:",toarray"`
		TokenID   TokenID             `json:"token_id"`
		SignerSet *multisig.SignerSet `json:"signer_set"`
		MintLimit uint64              `json:"mint_limit"`
	}

	// MintConfigTxPrefix is the signed part of the MintConfigTx.
	MintConfigTxPrefix struct {
		_              struct{}      `cbor:",toarray"`
		TokenID        TokenID       `json:"token_id"`
		Configs        []*MintConfig `json:"configs"`
		Nonce          Bytes         `json:"nonce"`
		TombstoneBlock uint64        `json:"tombstone_block"`
		TotalMintLimit uint64        `json:"total_mint_limit"` // shared by all the configs
	}

	// MintConfigTx replaces the set of mint configurations of a token.
	MintConfigTx struct {
		_         struct{}            `cbor:",toarray"`
		Prefix    *MintConfigTxPrefix `json:"prefix"`
		Signature *multisig.MultiSig  `json:"signature"`
	}

	// MintTxPrefix is the signed part of the MintTx.
	MintTxPrefix struct {
		_              struct{} `cbor:",toarray"`
		TokenID        TokenID  `json:"token_id"`
		Amount         uint64   `json:"amount"`
		ViewPublicKey  Bytes    `json:"view_public_key"`
		SpendPublicKey Bytes    `json:"spend_public_key"`
		Nonce          Bytes    `json:"nonce"`
		TombstoneBlock uint64   `json:"tombstone_block"`
		EFogHint       Bytes    `json:"e_fog_hint,omitempty"`
	}

	// MintTx mints Amount of new tokens to the recipient.
	MintTx struct {
		_         struct{}           `cbor:",toarray"`
		Prefix    *MintTxPrefix      `json:"prefix"`
		Signature *multisig.MultiSig `json:"signature"`
	}
)

func (c *MintConfig) IsValid() error {
	if c.SignerSet == nil {
		return ErrSignerSetIsNil
	}
	if _, err := multisig.NewSignerSet(c.SignerSet.Signers, c.SignerSet.Threshold); err != nil {
		return fmt.Errorf("invalid signer set: %w", err)
	}
	return nil
}

func (p *MintConfigTxPrefix) IsValid() error {
	if p == nil {
		return ErrPrefixIsNil
	}
	if len(p.Nonce) != NonceLength {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidNonce, NonceLength, len(p.Nonce))
	}
	if len(p.Configs) == 0 {
		return ErrNoMintConfigs
	}
	for i, c := range p.Configs {
		if c == nil {
			return fmt.Errorf("mint config %d is nil", i)
		}
		if c.TokenID != p.TokenID {
			return fmt.Errorf("mint config %d: %w: %d vs %d", i, ErrTokenIDMismatch, c.TokenID, p.TokenID)
		}
		if err := c.IsValid(); err != nil {
			return fmt.Errorf("mint config %d: %w", i, err)
		}
	}
	return nil
}

// Bytes returns the canonical encoding of the prefix.
func (p *MintConfigTxPrefix) Bytes() ([]byte, error) {
	return cbor.Marshal(p)
}

// Hash returns the message signers of the MintConfigTx sign.
func (p *MintConfigTxPrefix) Hash() ([]byte, error) {
	b, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding mint config tx prefix: %w", err)
	}
	return TaggedHash(MintConfigTxPrefixTag, b), nil
}

func (p *MintTxPrefix) IsValid() error {
	if p == nil {
		return ErrPrefixIsNil
	}
	if len(p.Nonce) != NonceLength {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidNonce, NonceLength, len(p.Nonce))
	}
	if len(p.ViewPublicKey) != AddressKeyLength {
		return fmt.Errorf("%w: view public key length %d", ErrInvalidKey, len(p.ViewPublicKey))
	}
	if len(p.SpendPublicKey) != AddressKeyLength {
		return fmt.Errorf("%w: spend public key length %d", ErrInvalidKey, len(p.SpendPublicKey))
	}
	if len(p.EFogHint) != 0 && len(p.EFogHint) != EFogHintLength {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidFogHint, EFogHintLength, len(p.EFogHint))
	}
	return nil
}

// Bytes returns the canonical encoding of the prefix.
func (p *MintTxPrefix) Bytes() ([]byte, error) {
	return cbor.Marshal(p)
}

// Hash returns the message signers of the MintTx sign.
func (p *MintTxPrefix) Hash() ([]byte, error) {
	b, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding mint tx prefix: %w", err)
	}
	return TaggedHash(MintTxPrefixTag, b), nil
}

func (tx *MintConfigTx) Bytes() ([]byte, error) {
	return cbor.Marshal(tx)
}

func (tx *MintTx) Bytes() ([]byte, error) {
	return cbor.Marshal(tx)
}
