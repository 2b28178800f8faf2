package rpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/dolanbernard/mobilecoin/types"
)

var ErrChainIDMismatch = errors.New("chain id mismatch")

type (
	NodeInfoResponse struct {
		ChainID      string         `json:"chainId"`
		Name         string         `json:"name"`
		BlockVersion hexutil.Uint64 `json:"blockVersion"`
	}

	// ProposeResponse is the node's answer to a submitted mint transaction.
	ProposeResponse struct {
		Code       ResultCode     `json:"code"`
		Message    string         `json:"message,omitempty"`
		BlockCount hexutil.Uint64 `json:"blockCount"`
	}

	// NodeClient talks to the JSON-RPC API of a consensus node.
	NodeClient struct {
		client *ethrpc.Client
		opts   *Options
	}
)

// DialNode connects to the node at uri (mc://, insecure-mc:// or plain http(s)).
func DialNode(ctx context.Context, uri string, opts ...Option) (*NodeClient, error) {
	endpoint, err := Endpoint(uri)
	if err != nil {
		return nil, err
	}
	client, err := ethrpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dialing node '%s': %w", endpoint, err)
	}
	return NewNodeClient(client, opts...), nil
}

func NewNodeClient(client *ethrpc.Client, opts ...Option) *NodeClient {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &NodeClient{client: client, opts: o}
}

func (c *NodeClient) GetNodeInfo(ctx context.Context) (*NodeInfoResponse, error) {
	var res *NodeInfoResponse
	if err := c.call(ctx, &res, "admin_getNodeInfo"); err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errors.New("node returned empty node info")
	}
	return res, nil
}

// VerifyChainID returns ErrChainIDMismatch unless the node belongs to the chain.
func (c *NodeClient) VerifyChainID(ctx context.Context, chainID string) error {
	info, err := c.GetNodeInfo(ctx)
	if err != nil {
		return err
	}
	if info.ChainID != chainID {
		return fmt.Errorf("%w: expected '%s', node reports '%s'", ErrChainIDMismatch, chainID, info.ChainID)
	}
	return nil
}

// GetLastBlockIndex returns the index of the latest block in the ledger of the node.
func (c *NodeClient) GetLastBlockIndex(ctx context.Context) (uint64, error) {
	var res hexutil.Uint64
	if err := c.call(ctx, &res, "state_getLastBlockIndex"); err != nil {
		return 0, err
	}
	return uint64(res), nil
}

func (c *NodeClient) SubmitMintConfigTx(ctx context.Context, tx *types.MintConfigTx) (*ProposeResponse, error) {
	b, err := tx.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding mint config tx: %w", err)
	}
	return c.propose(ctx, "mint_submitMintConfigTx", b)
}

func (c *NodeClient) SubmitMintTx(ctx context.Context, tx *types.MintTx) (*ProposeResponse, error) {
	b, err := tx.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding mint tx: %w", err)
	}
	return c.propose(ctx, "mint_submitMintTx", b)
}

func (c *NodeClient) Close() {
	c.client.Close()
}

func (c *NodeClient) propose(ctx context.Context, method string, txBytes []byte) (*ProposeResponse, error) {
	var res *ProposeResponse
	if err := c.call(ctx, &res, method, hexutil.Encode(txBytes)); err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("%s: node returned empty response", method)
	}
	c.opts.log.Debug().Str("method", method).Stringer("code", res.Code).Uint64("block_count", uint64(res.BlockCount)).Msg("transaction proposed")
	if res.Code != ResultOk {
		return res, &ProposeError{Code: res.Code, Message: res.Message}
	}
	return res, nil
}

func (c *NodeClient) call(ctx context.Context, result any, method string, args ...any) error {
	if c.opts.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.requestTimeout)
		defer cancel()
	}
	if err := c.client.CallContext(ctx, result, method, args...); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}
