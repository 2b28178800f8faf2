package crypto

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// PublicKeySize is the size of an Ed25519 public key in bytes.
	PublicKeySize = ed25519.PublicKeySize
	// SignatureSize is the native size of an Ed25519 signature in bytes.
	SignatureSize = ed25519.SignatureSize
)

type (
	// Signer component for digitally signing data.
	Signer interface {
		// SignBytes signs the data using the private key specified by the Signer.
		// Returns signature bytes or error.
		SignBytes(data []byte) (Signature, error)
		// MarshalPrivateKey returns the private key bytes so these could be unmarshalled later to create the Signer.
		MarshalPrivateKey() ([]byte, error)
		// Verifier returns a verifier that verifies using the public key part.
		Verifier() (Verifier, error)
	}

	// Verifier component for verifying signatures.
	Verifier interface {
		// VerifyBytes verifies the bytes against the signature, using the internal public key.
		VerifyBytes(sig Signature, data []byte) error
		// PublicKey returns the public key of the verifier.
		PublicKey() PublicKey
	}

	// PublicKey is an Ed25519 public key. Text form is 0x prefixed hex.
	PublicKey []byte

	// Signature is an Ed25519 signature. Text form is 0x prefixed hex.
	Signature []byte
)

func (pk PublicKey) Equal(other PublicKey) bool {
	return bytes.Equal(pk, other)
}

func (pk PublicKey) Compare(other PublicKey) int {
	return bytes.Compare(pk, other)
}

func (pk PublicKey) String() string {
	return hexutil.Encode(pk)
}

func (pk PublicKey) MarshalText() ([]byte, error) {
	return hexutil.Bytes(pk).MarshalText()
}

func (pk *PublicKey) UnmarshalText(src []byte) error {
	var b hexutil.Bytes
	if err := b.UnmarshalText(src); err != nil {
		return err
	}
	if len(b) != PublicKeySize {
		return fmt.Errorf("invalid public key length: expected %d bytes, got %d", PublicKeySize, len(b))
	}
	*pk = PublicKey(b)
	return nil
}

func (s Signature) Equal(other Signature) bool {
	return bytes.Equal(s, other)
}

func (s Signature) Compare(other Signature) int {
	return bytes.Compare(s, other)
}

func (s Signature) String() string {
	return hexutil.Encode(s)
}

func (s Signature) MarshalText() ([]byte, error) {
	return hexutil.Bytes(s).MarshalText()
}

func (s *Signature) UnmarshalText(src []byte) error {
	var b hexutil.Bytes
	if err := b.UnmarshalText(src); err != nil {
		return err
	}
	sig, err := NewSignature(b)
	if err != nil {
		return err
	}
	*s = sig
	return nil
}

// NewSignature validates that b has the native signature size and returns a copy of it.
func NewSignature(b []byte) (Signature, error) {
	if len(b) != SignatureSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, SignatureSize, len(b))
	}
	return Signature(bytes.Clone(b)), nil
}
