package cmd

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/nacl/box"

	"github.com/dolanbernard/mobilecoin/account"
	"github.com/dolanbernard/mobilecoin/crypto"
	"github.com/dolanbernard/mobilecoin/fog"
	"github.com/dolanbernard/mobilecoin/mint"
	"github.com/dolanbernard/mobilecoin/rpc"
	"github.com/dolanbernard/mobilecoin/types"
)

func mintTxArgs(t *testing.T) string {
	return fmt.Sprintf("--recipient %s --token-id 1 --amount 500 --nonce %s", testRecipientB58(t), testNonceHex)
}

func TestGenerateMintTx(t *testing.T) {
	homeDir := t.TempDir()
	keys := newTestKeys(t, homeDir, 1)
	txFile := filepath.Join(homeDir, "mint-tx.json")

	execCmd(t, homeDir, "generate-mint-tx "+mintTxArgs(t)+" --tombstone 20 --signing-key "+keys[0].keyFile+" --out "+txFile)
	f, err := mint.LoadTxFile(txFile)
	require.NoError(t, err)
	require.NotNil(t, f.MintTx)
	prefix := f.MintTx.Prefix
	require.EqualValues(t, 500, prefix.Amount)
	require.EqualValues(t, 20, prefix.TombstoneBlock)
	require.Equal(t, bytes.Repeat([]byte{1}, types.AddressKeyLength), []byte(prefix.ViewPublicKey))
	require.Empty(t, prefix.EFogHint)
	require.Equal(t, 1, f.Signature().Len())

	hashOut := execCmd(t, homeDir, "hash-mint-tx "+mintTxArgs(t)+" --tombstone 20")
	h, err := f.PrefixHash()
	require.NoError(t, err)
	require.Equal(t, []string{fmt.Sprintf("%X", h)}, hashOut.lines)
}

func TestGenerateMintTx_Errors(t *testing.T) {
	homeDir := t.TempDir()
	txFile := filepath.Join(homeDir, "mint-tx.json")

	_, err := doExecCmd(homeDir, "generate-mint-tx "+mintTxArgs(t)+" --out "+txFile)
	require.ErrorIs(t, err, mint.ErrTombstoneRequired)

	_, err = doExecCmd(homeDir, "generate-mint-tx --recipient notanaddress --token-id 1 --amount 5 --tombstone 20 --out "+txFile)
	require.ErrorContains(t, err, "failed parsing b58 address 'notanaddress'")

	// recipient using fog requires enclave measurements to validate its fog report
	addr, err := account.NewPublicAddress(bytes.Repeat([]byte{1}, types.AddressKeyLength), bytes.Repeat([]byte{2}, types.AddressKeyLength))
	require.NoError(t, err)
	fogAddr, err := account.B58Encode(addr.WithFog("fog://fog.test.mobilecoin.com", "", []byte{1, 2, 3}))
	require.NoError(t, err)
	_, err = doExecCmd(homeDir, "generate-mint-tx --recipient "+fogAddr+" --token-id 1 --amount 5 --tombstone 20 --out "+txFile)
	require.ErrorIs(t, err, mint.ErrMissingFogContext)

	cssFile := filepath.Join(homeDir, "ingest.css")
	require.NoError(t, os.WriteFile(cssFile, []byte("enclave signature"), 0600))
	_, err = doExecCmd(homeDir, "generate-mint-tx --recipient "+fogAddr+" --token-id 1 --amount 5 --tombstone 20 --fog-ingest-enclave-css "+cssFile+" --out "+txFile)
	require.EqualError(t, err, "--chain-id is required with --fog-ingest-enclave-css")

	require.NoFileExists(t, txFile)
}

type mockFogAPI struct {
	resp *fog.ReportResponse
}

func (a *mockFogAPI) GetReports() (*fog.ReportResponse, error) {
	return a.resp, nil
}

/*
startFogReportServer serves a report of an enclave whose CSS file is css,
signed for testChainID with ingress key expiring at block expiry. Returns
fog URL and the ingress key pair.
*/
func startFogReportServer(t *testing.T, css []byte, expiry uint64) (string, *[32]byte, *[32]byte) {
	t.Helper()
	signer, err := crypto.NewInMemoryEd25519Signer()
	require.NoError(t, err)
	ingressPub, ingressKey, err := box.GenerateKey(rand.Reader)
	require.NoError(t, err)
	report := &fog.Report{
		ChainID:          testChainID,
		Measurement:      fog.Measurement(css),
		IngressPublicKey: ingressPub[:],
		PubkeyExpiry:     hexutil.Uint64(expiry),
	}
	require.NoError(t, report.Sign(signer))

	server := ethrpc.NewServer()
	t.Cleanup(server.Stop)
	require.NoError(t, server.RegisterName("fog", &mockFogAPI{resp: &fog.ReportResponse{Reports: []*fog.Report{report}, SigningKey: signer.PublicKey()}}))
	httpSrv := httptest.NewServer(server)
	t.Cleanup(httpSrv.Close)
	return "insecure-fog://" + strings.TrimPrefix(httpSrv.URL, "http://"), ingressPub, ingressKey
}

func TestGenerateMintTx_FogRecipient(t *testing.T) {
	homeDir := t.TempDir()
	txFile := filepath.Join(homeDir, "mint-tx.json")
	css := []byte("ingest enclave css")
	cssFile := filepath.Join(homeDir, "ingest.css")
	require.NoError(t, os.WriteFile(cssFile, css, 0600))

	fogURL, ingressPub, ingressKey := startFogReportServer(t, css, 15)
	addr, err := account.NewPublicAddress(bytes.Repeat([]byte{1}, types.AddressKeyLength), bytes.Repeat([]byte{2}, types.AddressKeyLength))
	require.NoError(t, err)
	fogAddr, err := account.B58Encode(addr.WithFog(fogURL, "", nil))
	require.NoError(t, err)
	args := "generate-mint-tx --recipient " + fogAddr + " --token-id 1 --amount 5 --tombstone 20 --chain-id " + testChainID

	t.Run("hint resolved", func(t *testing.T) {
		execCmd(t, homeDir, args+" --fog-ingest-enclave-css "+cssFile+" --out "+txFile)
		f, err := mint.LoadTxFile(txFile)
		require.NoError(t, err)
		prefix := f.MintTx.Prefix
		// fog pubkey expires before the requested tombstone
		require.EqualValues(t, 15, prefix.TombstoneBlock)
		require.Len(t, prefix.EFogHint, types.EFogHintLength)
		viewKey, err := fog.OpenHint(prefix.EFogHint, ingressPub, ingressKey)
		require.NoError(t, err)
		require.EqualValues(t, addr.ViewPublicKey, viewKey)
	})

	t.Run("enclave not allowed", func(t *testing.T) {
		otherCSS := filepath.Join(homeDir, "other.css")
		require.NoError(t, os.WriteFile(otherCSS, []byte("other enclave css"), 0600))
		_, err := doExecCmd(homeDir, args+" --fog-ingest-enclave-css "+otherCSS+" --out "+filepath.Join(homeDir, "other.json"))
		require.ErrorIs(t, err, fog.ErrUnknownMeasurement)
		require.NoFileExists(t, filepath.Join(homeDir, "other.json"))
	})
}

func TestGenerateAndSubmitMintTx(t *testing.T) {
	homeDir := t.TempDir()
	keys := newTestKeys(t, homeDir, 2)
	node, uri := startMockNode(t, rpc.ResultOk)

	out := execCmd(t, homeDir, "generate-and-submit-mint-tx "+mintTxArgs(t)+" --tombstone 45"+
		" --signing-key "+keys[0].keyFile+" --signing-key "+keys[1].keyFile+" --signing-key "+keys[0].keyFile+
		" --node "+uri+" --chain-id "+testChainID)
	require.Contains(t, out.String(), "Submitted MintTx")

	_, mintTxs := node.submitted()
	require.Len(t, mintTxs, 1)
	tx := mintTxs[0]
	require.EqualValues(t, 45, tx.Prefix.TombstoneBlock)
	// same key given twice produces one signature
	require.Equal(t, 2, tx.Signature.Len())
}

func TestSubmitMintTx(t *testing.T) {
	homeDir := t.TempDir()
	keys := newTestKeys(t, homeDir, 1)
	node, uri := startMockNode(t, rpc.ResultOk)
	txFile := filepath.Join(homeDir, "mint-tx.json")

	execCmd(t, homeDir, "generate-mint-tx "+mintTxArgs(t)+" --tombstone 50 --signing-key "+keys[0].keyFile+" --out "+txFile)
	execCmd(t, homeDir, "submit-mint-tx --tx-file "+txFile+" --node "+uri+" --chain-id "+testChainID)

	_, mintTxs := node.submitted()
	require.Len(t, mintTxs, 1)
	f, err := mint.LoadTxFile(txFile)
	require.NoError(t, err)
	require.True(t, f.Signature().Equal(mintTxs[0].Signature))
}
