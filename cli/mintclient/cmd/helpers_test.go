package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"

	"github.com/dolanbernard/mobilecoin/account"
	"github.com/dolanbernard/mobilecoin/cbor"
	"github.com/dolanbernard/mobilecoin/crypto"
	"github.com/dolanbernard/mobilecoin/rpc"
	"github.com/dolanbernard/mobilecoin/types"
)

const testChainID = "local"

var testNonceHex = strings.Repeat("07", types.NonceLength)

type testConsoleWriter struct {
	lines []string
}

func (w *testConsoleWriter) Println(a ...any) {
	s := fmt.Sprintln(a...)
	w.lines = append(w.lines, s[:len(s)-1]) // remove newline
}

func (w *testConsoleWriter) String() string {
	return strings.Join(w.lines, "\n")
}

func execCmd(t *testing.T, homeDir, command string) *testConsoleWriter {
	t.Helper()
	out, err := doExecCmd(homeDir, command)
	require.NoError(t, err)
	return out
}

func doExecCmd(homeDir, command string) (*testConsoleWriter, error) {
	outputWriter := &testConsoleWriter{}
	consoleWriter = outputWriter

	app := New()
	args := command + " --home " + homeDir + " --log-file discard"
	app.baseCmd.SetArgs(strings.Split(args, " "))
	return outputWriter, app.addAndExecuteCommand(context.Background())
}

type testKey struct {
	signer  *crypto.InMemoryEd25519Signer
	keyFile string
	pubFile string
}

// newTestKeys creates n key pairs and writes them as PEM files into dir.
func newTestKeys(t *testing.T, dir string, n int) []*testKey {
	t.Helper()
	keys := make([]*testKey, n)
	for i := range keys {
		s, err := crypto.NewInMemoryEd25519Signer()
		require.NoError(t, err)
		k := &testKey{
			signer:  s,
			keyFile: filepath.Join(dir, fmt.Sprintf("signer%d.pem", i+1)),
			pubFile: filepath.Join(dir, fmt.Sprintf("signer%d.pub.pem", i+1)),
		}
		priv, err := crypto.MarshalPrivateKeyPEM(s)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(k.keyFile, priv, 0600))
		pub, err := crypto.MarshalPublicKeyPEM(s.PublicKey())
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(k.pubFile, pub, 0600))
		keys[i] = k
	}
	return keys
}

func testRecipientB58(t *testing.T) string {
	t.Helper()
	addr, err := account.NewPublicAddress(bytes.Repeat([]byte{1}, types.AddressKeyLength), bytes.Repeat([]byte{2}, types.AddressKeyLength))
	require.NoError(t, err)
	s, err := account.B58Encode(addr)
	require.NoError(t, err)
	return s
}

type (
	mockAdminAPI struct{}

	mockStateAPI struct {
		lastBlockIndex uint64
	}

	mockMintAPI struct {
		mu        sync.Mutex
		code      rpc.ResultCode
		configTxs []*types.MintConfigTx
		mintTxs   []*types.MintTx
	}
)

func (a *mockAdminAPI) GetNodeInfo() (*rpc.NodeInfoResponse, error) {
	return &rpc.NodeInfoResponse{ChainID: testChainID, Name: "mock node", BlockVersion: 3}, nil
}

func (s *mockStateAPI) GetLastBlockIndex() (hexutil.Uint64, error) {
	return hexutil.Uint64(s.lastBlockIndex), nil
}

func (m *mockMintAPI) SubmitMintConfigTx(txBytes hexutil.Bytes) (*rpc.ProposeResponse, error) {
	tx := &types.MintConfigTx{}
	if err := cbor.Unmarshal(txBytes, tx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configTxs = append(m.configTxs, tx)
	return &rpc.ProposeResponse{Code: m.code, BlockCount: 43}, nil
}

func (m *mockMintAPI) SubmitMintTx(txBytes hexutil.Bytes) (*rpc.ProposeResponse, error) {
	tx := &types.MintTx{}
	if err := cbor.Unmarshal(txBytes, tx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mintTxs = append(m.mintTxs, tx)
	return &rpc.ProposeResponse{Code: m.code, BlockCount: 43}, nil
}

func (m *mockMintAPI) submitted() ([]*types.MintConfigTx, []*types.MintTx) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.configTxs, m.mintTxs
}

// startMockNode starts JSON-RPC node at block index 42 and returns its mint API and URI.
func startMockNode(t *testing.T, code rpc.ResultCode) (*mockMintAPI, string) {
	t.Helper()
	mint := &mockMintAPI{code: code}
	server := ethrpc.NewServer()
	t.Cleanup(server.Stop)
	require.NoError(t, server.RegisterName("admin", &mockAdminAPI{}))
	require.NoError(t, server.RegisterName("state", &mockStateAPI{lastBlockIndex: 42}))
	require.NoError(t, server.RegisterName("mint", mint))

	httpSrv := httptest.NewServer(server)
	t.Cleanup(httpSrv.Close)
	return mint, "insecure-mc://" + strings.TrimPrefix(httpSrv.URL, "http://")
}
