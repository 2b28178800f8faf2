package multisig

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolanbernard/mobilecoin/cbor"
	"github.com/dolanbernard/mobilecoin/crypto"
)

func newSigners(t *testing.T, n int) ([]*crypto.InMemoryEd25519Signer, []crypto.PublicKey) {
	t.Helper()
	signers := make([]*crypto.InMemoryEd25519Signer, n)
	keys := make([]crypto.PublicKey, n)
	for i := range signers {
		s, err := crypto.NewInMemoryEd25519Signer()
		require.NoError(t, err)
		signers[i] = s
		keys[i] = s.PublicKey()
	}
	return signers, keys
}

func TestNewSignerSet_Threshold(t *testing.T) {
	_, keys := newSigners(t, 3)
	for n := 0; n <= len(keys); n++ {
		for threshold := uint32(0); threshold <= 4; threshold++ {
			ss, err := NewSignerSet(keys[:n], threshold)
			if threshold > 0 && int(threshold) <= n {
				require.NoError(t, err, "n=%d t=%d", n, threshold)
				require.Equal(t, threshold, ss.Threshold)
				require.Len(t, ss.Signers, n)
			} else {
				require.ErrorIs(t, err, ErrInvalidThreshold, "n=%d t=%d", n, threshold)
				require.Nil(t, ss)
			}
		}
	}
}

func TestNewSignerSet_InvalidKey(t *testing.T) {
	_, err := NewSignerSet([]crypto.PublicKey{{1, 2, 3}}, 1)
	require.EqualError(t, err, "signer 0: invalid public key length 3")
}

func TestSignerSet_Equal(t *testing.T) {
	_, keys := newSigners(t, 3)
	a, err := NewSignerSet([]crypto.PublicKey{keys[0], keys[1], keys[2]}, 2)
	require.NoError(t, err)
	b, err := NewSignerSet([]crypto.PublicKey{keys[2], keys[0], keys[1]}, 2)
	require.NoError(t, err)
	c, err := NewSignerSet([]crypto.PublicKey{keys[2], keys[0], keys[1]}, 3)
	require.NoError(t, err)
	d, err := NewSignerSet([]crypto.PublicKey{keys[0], keys[1]}, 2)
	require.NoError(t, err)

	require.True(t, a.Equal(b))
	require.True(t, b.Equal(a))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(d))
	require.False(t, a.Equal(nil))
	// display order is preserved
	require.Equal(t, keys[2], b.Signers[0])
}

func TestSignerSet_CBOROrderIndependent(t *testing.T) {
	_, keys := newSigners(t, 3)
	a, err := NewSignerSet([]crypto.PublicKey{keys[0], keys[1], keys[2]}, 2)
	require.NoError(t, err)
	b, err := NewSignerSet([]crypto.PublicKey{keys[1], keys[2], keys[0]}, 2)
	require.NoError(t, err)

	ab, err := cbor.Marshal(a)
	require.NoError(t, err)
	bb, err := cbor.Marshal(b)
	require.NoError(t, err)
	require.Equal(t, ab, bb)

	var decoded SignerSet
	require.NoError(t, cbor.Unmarshal(ab, &decoded))
	require.True(t, a.Equal(&decoded))
}

func TestSignerSet_Duplicates(t *testing.T) {
	signers, keys := newSigners(t, 2)
	// duplicates count toward n
	ss, err := NewSignerSet([]crypto.PublicKey{keys[0], keys[0], keys[1]}, 3)
	require.NoError(t, err)
	require.Equal(t, []crypto.PublicKey{keys[0]}, ss.DuplicateSigners())

	msg := []byte("message")
	sig0, err := signers[0].SignBytes(msg)
	require.NoError(t, err)
	sig1, err := signers[1].SignBytes(msg)
	require.NoError(t, err)

	// but can not satisfy the threshold by themselves
	err = ss.Verify(msg, New([]crypto.Signature{sig0, sig1}))
	require.ErrorIs(t, err, ErrThresholdNotMet)
	require.ErrorContains(t, err, "got 2 valid signatures, need 3")
}

func TestSignerSet_Verify(t *testing.T) {
	signers, keys := newSigners(t, 3)
	ss, err := NewSignerSet(keys, 2)
	require.NoError(t, err)

	msg := []byte("message")
	var sigs []crypto.Signature
	for _, s := range signers {
		sig, err := s.SignBytes(msg)
		require.NoError(t, err)
		sigs = append(sigs, sig)
	}
	outsider, _ := newSigners(t, 1)
	outsiderSig, err := outsider[0].SignBytes(msg)
	require.NoError(t, err)

	require.NoError(t, ss.Verify(msg, New(sigs)))
	require.NoError(t, ss.Verify(msg, New(sigs[1:])))
	require.ErrorIs(t, ss.Verify(msg, New(sigs[:1])), ErrThresholdNotMet)
	require.ErrorIs(t, ss.Verify(msg, New([]crypto.Signature{sigs[0], outsiderSig})), ErrThresholdNotMet)
	require.ErrorIs(t, ss.Verify([]byte("other"), New(sigs)), ErrThresholdNotMet)
	require.ErrorIs(t, ss.Verify(msg, nil), ErrThresholdNotMet)
}
