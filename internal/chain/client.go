package chain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"

	"poolSnapshot/internal/model"
)

// BlockTag is the block parameter sent with every pool-reader call.
const BlockTag = "latest"

// Client wraps a go-ethereum RPC client for the custom pool-reader methods.
type Client struct {
	rpcClient *rpc.Client
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return &Client{rpcClient: rpcClient}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// PoolState calls method with params [address, "latest", options] and returns the
// decoded result object.
func (c *Client) PoolState(ctx context.Context, method, address string, options any) (model.RawResult, error) {
	if c == nil || c.rpcClient == nil {
		return nil, fmt.Errorf("rpc client is nil")
	}
	if options == nil {
		options = map[string]any{}
	}

	var result json.RawMessage
	if err := c.rpcClient.CallContext(ctx, &result, method, address, BlockTag, options); err != nil {
		return nil, err
	}

	raw, err := model.ParseRawResult(result)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}
	return raw, nil
}
