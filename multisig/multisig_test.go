package multisig

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolanbernard/mobilecoin/cbor"
	"github.com/dolanbernard/mobilecoin/crypto"
)

func sig(b ...byte) crypto.Signature {
	s := make(crypto.Signature, crypto.SignatureSize)
	copy(s, b)
	return s
}

func TestCanonicalize(t *testing.T) {
	a, b, c := sig(1), sig(2), sig(3)

	got := Canonicalize([]crypto.Signature{c, a, b, a, c})
	require.Equal(t, []crypto.Signature{a, b, c}, got)

	require.Empty(t, Canonicalize(nil))
}

func TestCanonicalize_OrderIndependent(t *testing.T) {
	sigs := []crypto.Signature{sig(9), sig(1, 2), sig(1, 1), sig(0, 255), sig(9), sig(200)}
	expected := New(sigs)
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := make([]crypto.Signature, len(sigs))
		copy(shuffled, sigs)
		rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := New(shuffled)
		require.True(t, expected.Equal(got))

		eb, err := cbor.Marshal(expected)
		require.NoError(t, err)
		gb, err := cbor.Marshal(got)
		require.NoError(t, err)
		require.Equal(t, eb, gb)
	}
	require.Equal(t, 5, expected.Len())
}

func TestCanonicalize_DoesNotAlias(t *testing.T) {
	s := sig(5)
	got := Canonicalize([]crypto.Signature{s})
	s[0] = 6
	require.Equal(t, byte(5), got[0][0])
}

func TestMerge(t *testing.T) {
	a := New([]crypto.Signature{sig(1), sig(3)})
	b := New([]crypto.Signature{sig(2), sig(3)})
	c := New([]crypto.Signature{sig(4)})
	union := New([]crypto.Signature{sig(1), sig(2), sig(3), sig(4)})

	t.Run("commutative", func(t *testing.T) {
		require.True(t, a.Merge(b).Equal(b.Merge(a)))
	})

	t.Run("associative", func(t *testing.T) {
		require.True(t, a.Merge(b).Merge(c).Equal(a.Merge(b.Merge(c))))
		require.True(t, Merge(a, b, c).Equal(union))
		require.True(t, Merge(c, a, b).Equal(union))
	})

	t.Run("idempotent", func(t *testing.T) {
		require.True(t, a.Merge(a).Equal(a))
	})

	t.Run("nil values", func(t *testing.T) {
		require.True(t, Merge(nil, a, nil).Equal(a))
		require.Equal(t, 0, Merge().Len())
	})
}
