package mint

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolanbernard/mobilecoin/account"
	"github.com/dolanbernard/mobilecoin/crypto"
	"github.com/dolanbernard/mobilecoin/multisig"
	"github.com/dolanbernard/mobilecoin/types"
)

func newSigners(t *testing.T, n int) []*crypto.InMemoryEd25519Signer {
	t.Helper()
	signers := make([]*crypto.InMemoryEd25519Signer, n)
	for i := range signers {
		s, err := crypto.NewInMemoryEd25519Signer()
		require.NoError(t, err)
		signers[i] = s
	}
	return signers
}

func publicKeys(signers []*crypto.InMemoryEd25519Signer) []crypto.PublicKey {
	keys := make([]crypto.PublicKey, len(signers))
	for i, s := range signers {
		keys[i] = s.PublicKey()
	}
	return keys
}

func writePublicKeyFile(t *testing.T, dir, name string, pk crypto.PublicKey) string {
	t.Helper()
	b, err := crypto.MarshalPublicKeyPEM(pk)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, b, 0600))
	return path
}

func newSignerSet(t *testing.T, signers []*crypto.InMemoryEd25519Signer, threshold uint32) *multisig.SignerSet {
	t.Helper()
	ss, err := multisig.NewSignerSet(publicKeys(signers), threshold)
	require.NoError(t, err)
	return ss
}

func testNonce(b byte) []byte {
	return bytes.Repeat([]byte{b}, types.NonceLength)
}

func testRecipient(t *testing.T) *account.PublicAddress {
	t.Helper()
	addr, err := account.NewPublicAddress(bytes.Repeat([]byte{1}, types.AddressKeyLength), bytes.Repeat([]byte{2}, types.AddressKeyLength))
	require.NoError(t, err)
	return addr
}

func ptr[T any](v T) *T {
	return &v
}
