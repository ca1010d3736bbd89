package chain

import (
	"context"
	"math/big"
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github/chapool/go-faucet/internal/util"
)

// RPCClient wraps one ethclient per configured URL and fails over to the next URL
// when a node is unreachable. JSON-RPC level errors are returned as-is, they are
// answers from a healthy node.
type RPCClient struct {
	urls    []string
	mu      sync.Mutex
	clients []*ethclient.Client
	current int // index of the client currently in use
}

var _ Backend = (*RPCClient)(nil)

// NewRPCClient dials every URL. Nodes that fail to dial are retried lazily on use.
func NewRPCClient(ctx context.Context, urls []string) (*RPCClient, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	clients := make([]*ethclient.Client, len(urls))
	connected := 0
	for i, url := range urls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			util.LogFromContext(ctx).Warn().
				Str("url", redactURL(url)).
				Err(err).
				Msg("Failed to connect to RPC node, will retry on use")
			continue
		}
		clients[i] = client
		connected++
	}

	if connected == 0 {
		return nil, errors.New("failed to connect to any RPC node")
	}

	return &RPCClient{
		urls:    urls,
		clients: clients,
	}, nil
}

// Close closes all client connections.
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, client := range c.clients {
		if client != nil {
			client.Close()
			c.clients[i] = nil
		}
	}
}

func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	var chainID *big.Int
	err := c.call(ctx, "failed to get chain ID", func(client *ethclient.Client) (err error) {
		chainID, err = client.ChainID(ctx)
		return err
	})

	return chainID, err
}

func (c *RPCClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	var header *types.Header
	err := c.call(ctx, "failed to get header", func(client *ethclient.Client) (err error) {
		header, err = client.HeaderByNumber(ctx, number)
		return err
	})

	return header, err
}

func (c *RPCClient) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	var balance *big.Int
	err := c.call(ctx, "failed to get balance", func(client *ethclient.Client) (err error) {
		balance, err = client.BalanceAt(ctx, account, blockNumber)
		return err
	})

	return balance, err
}

func (c *RPCClient) NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error) {
	var nonce uint64
	err := c.call(ctx, "failed to get nonce", func(client *ethclient.Client) (err error) {
		nonce, err = client.NonceAt(ctx, account, blockNumber)
		return err
	})

	return nonce, err
}

func (c *RPCClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	var nonce uint64
	err := c.call(ctx, "failed to get pending nonce", func(client *ethclient.Client) (err error) {
		nonce, err = client.PendingNonceAt(ctx, account)
		return err
	})

	return nonce, err
}

func (c *RPCClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var out []byte
	err := c.call(ctx, "failed to call contract", func(client *ethclient.Client) (err error) {
		out, err = client.CallContract(ctx, msg, blockNumber)
		return err
	})

	return out, err
}

func (c *RPCClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var price *big.Int
	err := c.call(ctx, "failed to suggest gas price", func(client *ethclient.Client) (err error) {
		price, err = client.SuggestGasPrice(ctx)
		return err
	})

	return price, err
}

func (c *RPCClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	var tipCap *big.Int
	err := c.call(ctx, "failed to suggest gas tip cap", func(client *ethclient.Client) (err error) {
		tipCap, err = client.SuggestGasTipCap(ctx)
		return err
	})

	return tipCap, err
}

func (c *RPCClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	var gas uint64
	err := c.call(ctx, "failed to estimate gas", func(client *ethclient.Client) (err error) {
		gas, err = client.EstimateGas(ctx, msg)
		return err
	})

	return gas, err
}

// SendTransaction broadcasts a signed transaction. Re-sending the same signed
// transaction to another node after a transport failure is harmless, nodes
// answer with "already known".
func (c *RPCClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return c.call(ctx, "failed to send transaction", func(client *ethclient.Client) error {
		return client.SendTransaction(ctx, tx)
	})
}

func (c *RPCClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	err := c.call(ctx, "failed to get transaction receipt", func(client *ethclient.Client) (err error) {
		receipt, err = client.TransactionReceipt(ctx, txHash)
		return err
	})

	return receipt, err
}

// call runs fn against the current client and moves on to the next URL on transport errors.
func (c *RPCClient) call(ctx context.Context, msg string, fn func(client *ethclient.Client) error) error {
	var lastErr error

	for range c.urls {
		client, idx, err := c.getClient(ctx)
		if err != nil {
			lastErr = err
			c.rotate(idx)
			continue
		}

		err = fn(client)
		if err == nil {
			return nil
		}
		if !isTransportError(ctx, err) {
			return errors.Wrap(err, msg)
		}

		util.LogFromContext(ctx).Warn().
			Str("url", redactURL(c.urls[idx])).
			Err(err).
			Msg("RPC node unavailable, failing over to next node")

		lastErr = err
		c.rotate(idx)
	}

	return errors.Wrap(lastErr, msg)
}

// getClient returns the current client, dialing it if a previous dial failed.
func (c *RPCClient) getClient(ctx context.Context) (*ethclient.Client, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.current
	if c.clients[idx] != nil {
		return c.clients[idx], idx, nil
	}

	client, err := ethclient.DialContext(ctx, c.urls[idx])
	if err != nil {
		return nil, idx, errors.Wrap(err, "failed to dial RPC node")
	}
	c.clients[idx] = client

	return client, idx, nil
}

// rotate advances to the next URL unless another caller already did.
func (c *RPCClient) rotate(failed int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == failed {
		c.current = (failed + 1) % len(c.urls)
	}
}

func isTransportError(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, ethereum.NotFound) {
		return false
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return false
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= http.StatusInternalServerError || httpErr.StatusCode == http.StatusTooManyRequests
	}

	return true
}
