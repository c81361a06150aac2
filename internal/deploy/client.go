package deploy

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client is the interface over the chain node used by the deployment
// lifecycle. It keeps no local state beyond the connection; every call is
// made at most once per lifecycle step, with no transport retries.
type Client interface {
	// ChainID returns the chain ID of the connected network.
	ChainID(ctx context.Context) (*big.Int, error)
	// BlockNumber returns the most recent block number.
	BlockNumber(ctx context.Context) (uint64, error)
	// BalanceAt returns the wei balance of an account at the given block
	// (nil for latest).
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	// NonceAt returns the account's transaction count at the given block
	// (nil for latest).
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	// SuggestGasPrice returns the node's suggested gas price.
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	// EstimateGas estimates the gas needed to execute the call.
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	// SendTransaction broadcasts a signed transaction.
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	// TransactionReceipt returns the receipt of a transaction by hash, or
	// ethereum.NotFound while the transaction is pending.
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	// CodeAt returns the contract code at the given address and block
	// (nil for latest).
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	// Close closes the underlying connection.
	Close()
}

// ClientFactory creates clients for a deployment attempt.
type ClientFactory interface {
	Dial(ctx context.Context, rpcURL string) (Client, error)
}

// EthClientFactory creates clients using go-ethereum's ethclient.
type EthClientFactory struct{}

// ethClientWrapper wraps ethclient.Client to implement the Client interface.
type ethClientWrapper struct {
	*ethclient.Client
}

// NewEthClientFactory creates a new EthClientFactory.
func NewEthClientFactory() *EthClientFactory {
	return &EthClientFactory{}
}

// Dial connects to an Ethereum JSON-RPC endpoint.
func (f *EthClientFactory) Dial(ctx context.Context, rpcURL string) (Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return &ethClientWrapper{Client: client}, nil
}

// NonceAt returns the transaction count for an account.
func (w *ethClientWrapper) NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error) {
	return w.Client.NonceAt(ctx, account, blockNumber)
}

// EstimateGas estimates the gas needed for a transaction.
func (w *ethClientWrapper) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return w.Client.EstimateGas(ctx, call)
}

// SendTransaction broadcasts a signed transaction.
func (w *ethClientWrapper) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return w.Client.SendTransaction(ctx, tx)
}

// TransactionReceipt returns the receipt of a transaction by hash.
func (w *ethClientWrapper) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return w.Client.TransactionReceipt(ctx, txHash)
}

// CodeAt returns the contract code at the given address.
func (w *ethClientWrapper) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return w.Client.CodeAt(ctx, account, blockNumber)
}
