package crypto

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	pemTypePublicKey  = "PUBLIC KEY"
	pemTypePrivateKey = "PRIVATE KEY"
	pemTypeSignature  = "SIGNATURE"
)

// LoadPublicKey reads a PEM file containing a DER (SubjectPublicKeyInfo) encoded Ed25519 public key.
func LoadPublicKey(filename string) (PublicKey, error) {
	der, err := readPEM(filename)
	if err != nil {
		return nil, err
	}
	key, err := ParsePublicKeyDER(der)
	if err != nil {
		return nil, &FileError{Kind: ErrParseDER, Path: filename, Err: err}
	}
	return key, nil
}

// LoadSigner reads a PEM file containing a DER (PKCS #8) encoded Ed25519 private key.
func LoadSigner(filename string) (*InMemoryEd25519Signer, error) {
	der, err := readPEM(filename)
	if err != nil {
		return nil, err
	}
	signer, err := ParsePrivateKeyDER(der)
	if err != nil {
		return nil, &FileError{Kind: ErrParseDER, Path: filename, Err: err}
	}
	return signer, nil
}

func ParsePublicKeyDER(der []byte) (PublicKey, error) {
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}
	pk, ok := key.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("expected Ed25519 public key, got %T", key)
	}
	return PublicKey(pk), nil
}

func ParsePrivateKeyDER(der []byte) (*InMemoryEd25519Signer, error) {
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	pk, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("expected Ed25519 private key, got %T", key)
	}
	return &InMemoryEd25519Signer{key: pk}, nil
}

// ParsePublicKeysPEM parses all the "PUBLIC KEY" blocks of data.
func ParsePublicKeysPEM(data []byte) ([]PublicKey, error) {
	var keys []PublicKey
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != pemTypePublicKey {
			return nil, fmt.Errorf("%w: unexpected block type '%s'", ErrParsePEM, block.Type)
		}
		pk, err := ParsePublicKeyDER(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: key %d: %w", ErrParseDER, len(keys), err)
		}
		keys = append(keys, pk)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no public keys found", ErrParsePEM)
	}
	return keys, nil
}

// MarshalPublicKeyPEM returns the key as DER inside a "PUBLIC KEY" PEM block.
func MarshalPublicKeyPEM(pk PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(ed25519.PublicKey(pk))
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: der}), nil
}

// MarshalPrivateKeyPEM returns the signer's key as DER inside a "PRIVATE KEY" PEM block.
func MarshalPrivateKeyPEM(s *InMemoryEd25519Signer) ([]byte, error) {
	if s == nil {
		return nil, errNilSigner
	}
	der, err := x509.MarshalPKCS8PrivateKey(s.key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePrivateKey, Bytes: der}), nil
}

// MarshalSignaturePEM wraps raw signature bytes into a "SIGNATURE" PEM block.
func MarshalSignaturePEM(sig Signature) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: pemTypeSignature, Bytes: sig})
}

/*
LoadOrParseSignature accepts either a path of an existing PEM file (the block
contents being the raw signature) or a hex string whose decoded length equals
SignatureSize. Anything else is an error.
*/
func LoadOrParseSignature(filenameOrHex string) (Signature, error) {
	var raw []byte
	if fileExists(filenameOrHex) {
		var err error
		if raw, err = readPEM(filenameOrHex); err != nil {
			return nil, err
		}
	} else if len(filenameOrHex) == SignatureSize*2 {
		var err error
		if raw, err = hex.DecodeString(filenameOrHex); err != nil {
			return nil, fmt.Errorf("failed decoding hex signature: %w", err)
		}
	} else {
		return nil, ErrSignatureFormat
	}

	sig, err := NewSignature(raw)
	if err != nil {
		return nil, fmt.Errorf("failed parsing Ed25519 signature: %w", err)
	}
	return sig, nil
}

func readPEM(filename string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(filename))
	if err != nil {
		return nil, &FileError{Kind: ErrReadFile, Path: filename, Err: err}
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, &FileError{Kind: ErrParsePEM, Path: filename, Err: errors.New("no PEM data found")}
	}
	return block.Bytes, nil
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
