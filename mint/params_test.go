package mint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolanbernard/mobilecoin/crypto"
	"github.com/dolanbernard/mobilecoin/multisig"
	"github.com/dolanbernard/mobilecoin/types"
)

func TestParseMintConfig(t *testing.T) {
	dir := t.TempDir()
	signers := newSigners(t, 3)
	var files []string
	for i, pk := range publicKeys(signers) {
		files = append(files, writePublicKeyFile(t, dir, "signer"+string(rune('1'+i))+".pem", pk))
	}

	t.Run("ok", func(t *testing.T) {
		c, err := ParseMintConfig("10000:2:" + strings.Join(files, ":"))
		require.NoError(t, err)
		require.EqualValues(t, 10000, c.MintLimit)
		require.EqualValues(t, 2, c.SignerSet.Threshold)
		require.Equal(t, publicKeys(signers), c.SignerSet.Signers)
	})

	t.Run("too few parts", func(t *testing.T) {
		_, err := ParseMintConfig("10000:2")
		require.ErrorIs(t, err, ErrInvalidMintConfig)
		require.EqualError(t, err, "invalid mint config '10000:2': expected format is '<mint_limit>:<signing_threshold>:keyfile1.pem[:keyfile2.pem:...]'")
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := ParseMintConfig("ten:2:" + files[0])
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		require.Equal(t, "mint limit", perr.Field)
		require.ErrorContains(t, err, `failed parsing mint limit: strconv.ParseUint: parsing "ten": invalid syntax`)
	})

	t.Run("invalid threshold", func(t *testing.T) {
		_, err := ParseMintConfig("10:-1:" + files[0])
		require.ErrorContains(t, err, "failed parsing signing threshold")
		_, err = ParseMintConfig("10:4294967296:" + files[0])
		require.ErrorContains(t, err, "failed parsing signing threshold")
	})

	t.Run("threshold greater than number of keys", func(t *testing.T) {
		_, err := ParseMintConfig("10:3:" + files[0] + ":" + files[1])
		require.ErrorIs(t, err, multisig.ErrInvalidThreshold)
		require.ErrorContains(t, err, "signing threshold '3' is greater than the number of public keys '2'")
	})

	t.Run("zero threshold", func(t *testing.T) {
		_, err := ParseMintConfig("10:0:" + files[0])
		require.ErrorIs(t, err, multisig.ErrInvalidThreshold)
	})

	t.Run("missing key file", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.pem")
		_, err := ParseMintConfig("10:1:" + files[0] + ":" + missing)
		require.ErrorIs(t, err, crypto.ErrReadFile)
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		require.Equal(t, missing, perr.Path)
		require.ErrorContains(t, err, "file '"+missing+"': failed reading file")
	})

	t.Run("not a PEM file", func(t *testing.T) {
		garbage := filepath.Join(dir, "garbage.pem")
		require.NoError(t, os.WriteFile(garbage, []byte("garbage"), 0600))
		_, err := ParseMintConfig("10:1:" + garbage)
		require.ErrorIs(t, err, crypto.ErrParsePEM)
		require.ErrorContains(t, err, garbage)
	})

	t.Run("duplicate key files", func(t *testing.T) {
		c, err := ParseMintConfig("10:2:" + files[0] + ":" + files[0])
		require.NoError(t, err)
		require.Len(t, c.SignerSet.DuplicateSigners(), 1)
	})
}

func TestParseNonce(t *testing.T) {
	hex := strings.Repeat("ab", types.NonceLength)
	n, err := ParseNonce(hex)
	require.NoError(t, err)
	require.Len(t, n, types.NonceLength)

	n2, err := ParseNonce("0x" + hex)
	require.NoError(t, err)
	require.Equal(t, n, n2)

	_, err = ParseNonce("abcd")
	require.ErrorIs(t, err, types.ErrInvalidNonce)
	require.ErrorIs(t, err, ErrInvalidParams)

	_, err = ParseNonce("zz")
	require.ErrorContains(t, err, "failed parsing nonce")
}
