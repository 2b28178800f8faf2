package crypto

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
)

type (
	// InMemoryEd25519Signer keeps the private key in process memory.
	InMemoryEd25519Signer struct {
		key ed25519.PrivateKey
	}

	Ed25519Verifier struct {
		key ed25519.PublicKey
	}
)

var errNilSigner = errors.New("nil signer")

// NewInMemoryEd25519Signer generates new key and creates a new InMemoryEd25519Signer.
func NewInMemoryEd25519Signer() (*InMemoryEd25519Signer, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &InMemoryEd25519Signer{key: privateKey}, nil
}

// NewInMemoryEd25519SignerFromSeed creates new InMemoryEd25519Signer from private key seed bytes.
func NewInMemoryEd25519SignerFromSeed(seed []byte) (*InMemoryEd25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid seed length: expected %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &InMemoryEd25519Signer{key: ed25519.NewKeyFromSeed(seed)}, nil
}

func (s *InMemoryEd25519Signer) SignBytes(data []byte) (Signature, error) {
	if s == nil || len(s.key) != ed25519.PrivateKeySize {
		return nil, errNilSigner
	}
	// Ed25519 is deterministic, the rand argument is ignored
	sig, err := s.key.Sign(nil, data, crypto.Hash(0))
	if err != nil {
		return nil, err
	}
	return sig, nil
}

func (s *InMemoryEd25519Signer) MarshalPrivateKey() ([]byte, error) {
	if s == nil {
		return nil, errNilSigner
	}
	return s.key.Seed(), nil
}

func (s *InMemoryEd25519Signer) Verifier() (Verifier, error) {
	if s == nil {
		return nil, errNilSigner
	}
	return NewEd25519Verifier(PublicKey(s.key.Public().(ed25519.PublicKey)))
}

// PublicKey is a shortcut for Verifier().PublicKey().
func (s *InMemoryEd25519Signer) PublicKey() PublicKey {
	return PublicKey(s.key.Public().(ed25519.PublicKey))
}

func NewEd25519Verifier(pubKey PublicKey) (*Ed25519Verifier, error) {
	if len(pubKey) != PublicKeySize {
		return nil, fmt.Errorf("invalid public key length: expected %d bytes, got %d", PublicKeySize, len(pubKey))
	}
	return &Ed25519Verifier{key: ed25519.PublicKey(pubKey)}, nil
}

func (v *Ed25519Verifier) VerifyBytes(sig Signature, data []byte) error {
	if len(sig) != SignatureSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, SignatureSize, len(sig))
	}
	if !ed25519.Verify(v.key, data, sig) {
		return ErrVerificationFailed
	}
	return nil
}

func (v *Ed25519Verifier) PublicKey() PublicKey {
	return PublicKey(v.key)
}
