package mint

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolanbernard/mobilecoin/crypto"
)

func governorsPEM(t *testing.T, signers []*crypto.InMemoryEd25519Signer) string {
	t.Helper()
	var s string
	for _, pk := range publicKeys(signers) {
		b, err := crypto.MarshalPublicKeyPEM(pk)
		require.NoError(t, err)
		s += string(b)
	}
	return s
}

func writeTokensTOML(t *testing.T, dir string, governors []*crypto.InMemoryEd25519Signer) string {
	t.Helper()
	content := fmt.Sprintf(`
[[tokens]]
token_id = 0
minimum_fee = 400000000

[[tokens]]
token_id = 8192
minimum_fee = 1024

[tokens.governors]
signers = """
%s"""
threshold = 2
`, governorsPEM(t, governors))
	path := filepath.Join(dir, "tokens.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadTokensConfig_TOML(t *testing.T) {
	governors := newSigners(t, 3)
	c, err := LoadTokensConfig(writeTokensTOML(t, t.TempDir(), governors))
	require.NoError(t, err)
	require.Len(t, c.Tokens, 2)
	require.EqualValues(t, 8192, c.Tokens[1].TokenID)
	require.EqualValues(t, 1024, c.Tokens[1].MinimumFee)

	ss, err := c.Governors(8192)
	require.NoError(t, err)
	require.True(t, newSignerSet(t, governors, 2).Equal(ss))

	_, err = c.Governors(0)
	require.EqualError(t, err, "token 0 has no governors")
	_, err = c.Governors(5)
	require.EqualError(t, err, "token 5 not found")
}

func TestTokensConfig_SignGovernors(t *testing.T) {
	dir := t.TempDir()
	c, err := LoadTokensConfig(writeTokensTOML(t, dir, newSigners(t, 3)))
	require.NoError(t, err)

	signer := newSigners(t, 1)[0]
	require.ErrorIs(t, c.VerifyGovernorsSignature(signer.PublicKey()), ErrMissingGovernorSig)
	require.NoError(t, c.SignGovernors(signer))
	require.NoError(t, c.VerifyGovernorsSignature(signer.PublicKey()))
	require.ErrorIs(t, c.VerifyGovernorsSignature(newSigners(t, 1)[0].PublicKey()), crypto.ErrVerificationFailed)

	t.Run("toml", func(t *testing.T) {
		path := filepath.Join(dir, "signed.toml")
		require.NoError(t, c.SaveTOML(path))
		loaded, err := LoadTokensConfig(path)
		require.NoError(t, err)
		require.Equal(t, c.GovernorsSignature, loaded.GovernorsSignature)
		require.NoError(t, loaded.VerifyGovernorsSignature(signer.PublicKey()))
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "signed.json")
		require.NoError(t, c.SaveJSON(path))
		loaded, err := LoadTokensConfig(path)
		require.NoError(t, err)
		require.NoError(t, loaded.VerifyGovernorsSignature(signer.PublicKey()))
	})
}

func TestTokensConfig_GovernorsDigestIndependentOfOrder(t *testing.T) {
	a := &TokensConfig{Tokens: []*TokenConfig{
		{TokenID: 1, Governors: &GovernorsConfig{Signers: governorsPEM(t, newSigners(t, 1)), Threshold: 1}},
		{TokenID: 2, Governors: &GovernorsConfig{Signers: governorsPEM(t, newSigners(t, 2)), Threshold: 2}},
		{TokenID: 0},
	}}
	b := &TokensConfig{Tokens: []*TokenConfig{a.Tokens[2], a.Tokens[1], a.Tokens[0]}}
	da, err := a.GovernorsDigest()
	require.NoError(t, err)
	db, err := b.GovernorsDigest()
	require.NoError(t, err)
	require.Equal(t, da, db)

	// tokens without governors do not change the digest
	c := &TokensConfig{Tokens: a.Tokens[:2]}
	dc, err := c.GovernorsDigest()
	require.NoError(t, err)
	require.Equal(t, da, dc)
}

func TestTokensConfig_IsValid(t *testing.T) {
	gov := &GovernorsConfig{Signers: governorsPEM(t, newSigners(t, 1)), Threshold: 1}

	c := &TokensConfig{Tokens: []*TokenConfig{{TokenID: 1}, {TokenID: 1}}}
	require.EqualError(t, c.IsValid(), "duplicate token id 1")

	c = &TokensConfig{Tokens: []*TokenConfig{{TokenID: 0, Governors: gov}}}
	require.EqualError(t, c.IsValid(), "token 0 is the native token, it can not have governors")

	c = &TokensConfig{Tokens: []*TokenConfig{{TokenID: 1, Governors: &GovernorsConfig{Signers: gov.Signers, Threshold: 2}}}}
	require.ErrorContains(t, c.IsValid(), "token 1 governors: invalid signing threshold")

	c = &TokensConfig{Tokens: []*TokenConfig{{TokenID: 1, Governors: &GovernorsConfig{Signers: "nope", Threshold: 1}}}}
	require.ErrorIs(t, c.IsValid(), crypto.ErrParsePEM)
}

func TestLoadTokensConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tokens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tokens: []"), 0600))
	_, err := LoadTokensConfig(path)
	require.ErrorIs(t, err, ErrInvalidTokensFile)
	require.ErrorContains(t, err, "unrecognized extension '.yaml'")

	path = filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[tokens]\n"), 0600))
	_, err = LoadTokensConfig(path)
	require.ErrorIs(t, err, ErrInvalidTokensFile)
	require.ErrorContains(t, err, "broken.toml")
}
