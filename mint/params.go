package mint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/dolanbernard/mobilecoin/account"
	"github.com/dolanbernard/mobilecoin/crypto"
	"github.com/dolanbernard/mobilecoin/multisig"
	"github.com/dolanbernard/mobilecoin/types"
)

const mintConfigFormat = "<mint_limit>:<signing_threshold>:keyfile1.pem[:keyfile2.pem:...]"

type (
	// MintConfigParam is one (mint limit, signer set) pair of a mint config tx.
	MintConfigParam struct {
		MintLimit uint64
		SignerSet *multisig.SignerSet
	}

	MintConfigTxPrefixParams struct {
		TokenID        types.TokenID
		Tombstone      *uint64 // when nil the fallback is used
		Nonce          []byte  // when nil a random nonce is generated
		Configs        []*MintConfigParam
		TotalMintLimit uint64
	}

	MintTxPrefixParams struct {
		Recipient *account.PublicAddress
		TokenID   types.TokenID
		Amount    uint64
		Tombstone *uint64
		Nonce     []byte
	}
)

func (p *MintConfigTxPrefixParams) IsValid() error {
	if p == nil {
		return fmt.Errorf("%w: mint config tx params are nil", ErrInvalidParams)
	}
	if len(p.Configs) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidParams, types.ErrNoMintConfigs)
	}
	for i, c := range p.Configs {
		if c == nil || c.SignerSet == nil {
			return fmt.Errorf("%w: mint config %d: %w", ErrInvalidParams, i, types.ErrSignerSetIsNil)
		}
	}
	return validateNonce(p.Nonce)
}

func (p *MintTxPrefixParams) IsValid() error {
	if p == nil {
		return fmt.Errorf("%w: mint tx params are nil", ErrInvalidParams)
	}
	if err := p.Recipient.IsValid(); err != nil {
		return fmt.Errorf("%w: recipient: %w", ErrInvalidParams, err)
	}
	return validateNonce(p.Nonce)
}

func validateNonce(nonce []byte) error {
	if nonce != nil && len(nonce) != types.NonceLength {
		return fmt.Errorf("%w: %w: expected %d bytes, got %d", ErrInvalidParams, types.ErrInvalidNonce, types.NonceLength, len(nonce))
	}
	return nil
}

/*
ParseMintConfig parses mint limit and signer set from string in the format
"<mint_limit>:<signing_threshold>:keyfile1.pem[:keyfile2.pem...]", for example
"10000:2:signer1.pem:signer2.pem:signer3.pem" allows minting up to 10000 tokens
with signatures of any 2 of the 3 signers. Key files are PEM files containing
DER encoded Ed25519 public keys.
*/
func ParseMintConfig(src string) (*MintConfigParam, error) {
	parts := strings.Split(src, ":")
	if len(parts) < 3 {
		return nil, &ParseError{Kind: ErrInvalidMintConfig, Value: src, Err: fmt.Errorf("expected format is '%s'", mintConfigFormat)}
	}
	limit, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return nil, &ParseError{Kind: ErrInvalidMintConfig, Value: src, Field: "mint limit", Err: err}
	}
	threshold, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return nil, &ParseError{Kind: ErrInvalidMintConfig, Value: src, Field: "signing threshold", Err: err}
	}
	keys := make([]crypto.PublicKey, 0, len(parts)-2)
	for _, filename := range parts[2:] {
		pk, err := crypto.LoadPublicKey(filename)
		if err != nil {
			var fe *crypto.FileError
			if errors.As(err, &fe) && fe.Err != nil {
				err = fmt.Errorf("%w: %w", fe.Kind, fe.Err)
			}
			return nil, &ParseError{Kind: ErrInvalidMintConfig, Value: src, Path: filename, Err: err}
		}
		keys = append(keys, pk)
	}
	ss, err := multisig.NewSignerSet(keys, uint32(threshold))
	if err != nil {
		return nil, &ParseError{Kind: ErrInvalidMintConfig, Value: src, Err: err}
	}
	return &MintConfigParam{MintLimit: limit, SignerSet: ss}, nil
}

// ParseNonce decodes hex (optionally 0x prefixed) nonce of NonceLength bytes.
func ParseNonce(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	nonce, err := hexutil.Decode(s)
	if err != nil {
		return nil, &ParseError{Kind: ErrInvalidParams, Field: "nonce", Err: err}
	}
	if len(nonce) != types.NonceLength {
		return nil, &ParseError{Kind: ErrInvalidParams, Field: "nonce", Err: fmt.Errorf("%w: expected %d bytes, got %d", types.ErrInvalidNonce, types.NonceLength, len(nonce))}
	}
	return nonce, nil
}
