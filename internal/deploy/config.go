package deploy

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	// DefaultGasLimit covers the largest expected contract-creation cost and
	// is used when the node cannot estimate.
	DefaultGasLimit uint64 = 10_000_000
	// DefaultConfirmationTimeout bounds the receipt wait.
	DefaultConfirmationTimeout = 300 * time.Second
	// DefaultReceiptPollInterval is the delay between receipt queries.
	DefaultReceiptPollInterval = 2 * time.Second
)

// Config contains the inputs of a single deployment attempt.
type Config struct {
	// RPCURL is the JSON-RPC endpoint of the target network.
	RPCURL string

	// PrivateKey is the deployer's hex-encoded private key, accepted with or
	// without a "0x" prefix. It is handed to the signer and never logged.
	PrivateKey string

	// Bytecode is the compiled creation bytecode.
	Bytecode []byte

	// ABI describes the contract's constructor and methods.
	ABI abi.ABI

	// ConstructorArgs are Go values matching the ABI constructor signature.
	ConstructorArgs []interface{}

	// GasLimit is the gas ceiling for the creation transaction. Zero asks
	// the node to estimate, with a 20% buffer and DefaultGasLimit fallback.
	GasLimit uint64

	// GasPrice in wei. Zero is a valid configuration on fee-less and
	// proof-of-authority networks. Nil asks the node for a suggestion.
	GasPrice *big.Int

	// ExpectedChainID, when non-nil, must match the chain ID reported by the
	// node or the attempt fails before anything is signed.
	ExpectedChainID *big.Int

	// ConfirmationTimeout bounds the receipt wait.
	ConfirmationTimeout time.Duration

	// ReceiptPollInterval is the delay between receipt queries.
	ReceiptPollInterval time.Duration
}

// Validate checks that required fields are set.
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc_url is required")
	}
	if c.PrivateKey == "" {
		return fmt.Errorf("private_key is required")
	}
	if len(c.Bytecode) == 0 {
		return fmt.Errorf("bytecode is required")
	}
	return nil
}

// ApplyDefaults sets default values for optional fields.
func (c *Config) ApplyDefaults() {
	if c.ConfirmationTimeout <= 0 {
		c.ConfirmationTimeout = DefaultConfirmationTimeout
	}
	if c.ReceiptPollInterval <= 0 {
		c.ReceiptPollInterval = DefaultReceiptPollInterval
	}
}
