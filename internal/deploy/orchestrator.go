// Package deploy implements the contract deployment transaction lifecycle:
// dial the endpoint, verify the deployer account, build and sign a
// contract-creation transaction, broadcast it, wait for the receipt under a
// bounded deadline, and verify the deployed code.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Result is the terminal success value of a deployment attempt. The contract
// address is only reported after the code at it was read back non-empty.
type Result struct {
	ContractAddress  common.Address
	DeployedCodeSize int
	DeployedCode     []byte
	TxHash           common.Hash
	BlockNumber      uint64
	GasUsed          uint64
	ChainID          *big.Int
	Deployer         common.Address
}

// Orchestrator drives a single deployment attempt through the lifecycle
// stages. Each attempt runs strictly sequentially on the calling goroutine:
// no step begins before the prior step's result is known, no step is
// retried, and any failure terminates the attempt. Concurrent attempts with
// the same account need external nonce serialization; the orchestrator does
// no internal locking.
type Orchestrator struct {
	cfg     Config
	factory ClientFactory
	logger  *slog.Logger
	stage   Stage
}

// NewOrchestrator creates an Orchestrator over the given client factory.
func NewOrchestrator(cfg Config, factory ClientFactory, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.ApplyDefaults()
	return &Orchestrator{
		cfg:     cfg,
		factory: factory,
		logger:  logger.With(slog.String("component", "deployer")),
		stage:   StageDisconnected,
	}
}

// Stage returns the last lifecycle stage the attempt reached.
func (o *Orchestrator) Stage() Stage {
	return o.stage
}

// errReceiptTimeout marks a receipt wait that exhausted its deadline. The
// transaction is not necessarily lost; the orchestrator just stops waiting.
var errReceiptTimeout = errors.New("timed out waiting for receipt")

// Deploy runs the lifecycle once and returns the deployed contract address
// and code size, or a DeploymentError carrying the failure reason and the
// stage reached. Retrying with a fresh nonce is left to the caller: blind
// rebroadcast risks a duplicate deployment.
func (o *Orchestrator) Deploy(ctx context.Context) (*Result, error) {
	// Each call is a fresh attempt; a prior run's stage must not leak into
	// this one's error reporting.
	o.stage = StageDisconnected

	if err := o.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deployment config: %w", err)
	}

	start := time.Now()

	// Constructor encoding runs before anything touches the network, so an
	// ABI mismatch costs no round-trip.
	callData, err := DeployContractData(o.cfg.Bytecode, o.cfg.ABI, o.cfg.ConstructorArgs...)
	if err != nil {
		return nil, o.fail(ReasonEncoding, err)
	}

	client, chainID, err := o.connect(ctx)
	if err != nil {
		return nil, o.fail(ReasonNetworkUnreachable, err)
	}
	defer client.Close()
	o.advance(StageConnected)
	o.logger.Info("connected",
		slog.String("rpc", o.cfg.RPCURL),
		slog.String("chain_id", chainID.String()),
	)

	signer, err := NewLocalSigner(o.cfg.PrivateKey, chainID)
	if err != nil {
		return nil, o.fail(ReasonInvalidKey, err)
	}
	deployer := signer.Address()

	// Balance and head height are diagnostics only. A zero balance does not
	// block deployment: the gas price may legitimately be zero.
	balance, err := client.BalanceAt(ctx, deployer, nil)
	if err != nil {
		return nil, o.fail(ReasonNetworkUnreachable, fmt.Errorf("get balance: %w", err))
	}
	head, err := client.BlockNumber(ctx)
	if err != nil {
		return nil, o.fail(ReasonNetworkUnreachable, fmt.Errorf("get block number: %w", err))
	}
	o.advance(StageAccountVerified)
	o.logger.Info("deployer account",
		slog.String("address", deployer.Hex()),
		slog.String("balance_wei", balance.String()),
		slog.Uint64("block_number", head),
	)

	nonce, err := client.NonceAt(ctx, deployer, nil)
	if err != nil {
		return nil, o.fail(ReasonNetworkUnreachable, fmt.Errorf("get nonce: %w", err))
	}
	gasPrice, err := o.resolveGasPrice(ctx, client)
	if err != nil {
		return nil, o.fail(ReasonNetworkUnreachable, err)
	}
	gasLimit := o.cfg.GasLimit
	if gasLimit == 0 {
		gasLimit = o.estimateGasLimit(ctx, client, deployer, gasPrice, callData)
	}

	tx := NewContractCreation(nonce, gasLimit, gasPrice, callData)
	expectedAddr := crypto.CreateAddress(deployer, nonce)
	o.advance(StageBuilt)
	o.logger.Info("transaction built",
		slog.Uint64("nonce", nonce),
		slog.Uint64("gas_limit", gasLimit),
		slog.String("gas_price", gasPrice.String()),
		slog.Int("data_bytes", len(callData)),
		slog.String("expected_address", expectedAddr.Hex()),
	)

	signedTx, err := signer.SignTransaction(ctx, tx)
	if err != nil {
		return nil, o.fail(ReasonInvalidKey, err)
	}
	o.advance(StageSigned)

	if err := client.SendTransaction(ctx, signedTx); err != nil {
		return nil, o.fail(ReasonSubmissionRejected, fmt.Errorf("send transaction: %w", err))
	}
	txHash := signedTx.Hash()
	o.advance(StageSubmitted)
	o.logger.Info("transaction submitted", slog.String("tx_hash", txHash.Hex()))

	receipt, err := waitForReceipt(ctx, client, txHash, o.cfg.ConfirmationTimeout, o.cfg.ReceiptPollInterval, o.logger)
	if err != nil {
		if errors.Is(err, errReceiptTimeout) {
			return nil, o.fail(ReasonConfirmationTimeout, err)
		}
		return nil, o.fail(ReasonNetworkUnreachable, err)
	}
	o.advance(StageConfirmed)
	o.logger.Info("transaction confirmed",
		slog.Uint64("block_number", receipt.BlockNumber.Uint64()),
		slog.Uint64("gas_used", receipt.GasUsed),
	)

	code, contractAddr, err := o.verifyDeployedCode(ctx, client, receipt, expectedAddr)
	if err != nil {
		return nil, err
	}
	o.advance(StageVerified)
	o.logger.Info("deployment verified",
		slog.String("contract_address", contractAddr.Hex()),
		slog.Int("code_size", len(code)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return &Result{
		ContractAddress:  contractAddr,
		DeployedCodeSize: len(code),
		DeployedCode:     code,
		TxHash:           txHash,
		BlockNumber:      receipt.BlockNumber.Uint64(),
		GasUsed:          receipt.GasUsed,
		ChainID:          chainID,
		Deployer:         deployer,
	}, nil
}

// connect dials the endpoint and probes it for liveness. The chain ID answer
// doubles as the probe and, when ExpectedChainID is set, as a wrong-network
// guard.
func (o *Orchestrator) connect(ctx context.Context) (Client, *big.Int, error) {
	client, err := o.factory.Dial(ctx, o.cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", o.cfg.RPCURL, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("chain id probe: %w", err)
	}
	if o.cfg.ExpectedChainID != nil && chainID.Cmp(o.cfg.ExpectedChainID) != 0 {
		client.Close()
		return nil, nil, fmt.Errorf("unexpected chain id %s, want %s", chainID, o.cfg.ExpectedChainID)
	}
	return client, chainID, nil
}

// resolveGasPrice returns the configured gas price, or the node's suggestion
// when none was set. An explicit zero is honored as-is.
func (o *Orchestrator) resolveGasPrice(ctx context.Context, client Client) (*big.Int, error) {
	if o.cfg.GasPrice != nil {
		return o.cfg.GasPrice, nil
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas price: %w", err)
	}
	return gasPrice, nil
}

// estimateGasLimit estimates gas for the creation call and adds a 20%
// buffer. Under-provisioning must fail loudly at submission, so the fallback
// when the node cannot estimate is the high default ceiling.
func (o *Orchestrator) estimateGasLimit(ctx context.Context, client Client, from common.Address, gasPrice *big.Int, callData []byte) uint64 {
	gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From:     from,
		To:       nil,
		GasPrice: gasPrice,
		Value:    new(big.Int),
		Data:     callData,
	})
	if err != nil {
		o.logger.Warn("gas estimation failed, using default",
			slog.Uint64("gas_limit", DefaultGasLimit),
			slog.String("error", err.Error()),
		)
		return DefaultGasLimit
	}
	return gasLimit * 120 / 100
}

// verifyDeployedCode checks the receipt outcome and reads back the code at
// the reported contract address. A receipt alone is not trusted: a reverted
// creation or empty code fails verification even though the transaction was
// included.
func (o *Orchestrator) verifyDeployedCode(ctx context.Context, client Client, receipt *types.Receipt, expectedAddr common.Address) ([]byte, common.Address, error) {
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, common.Address{}, o.fail(ReasonVerificationFailed,
			fmt.Errorf("transaction reverted (status %d)", receipt.Status))
	}

	contractAddr := receipt.ContractAddress
	if contractAddr == (common.Address{}) {
		return nil, common.Address{}, o.fail(ReasonVerificationFailed,
			errors.New("receipt carries no contract address"))
	}
	if contractAddr != expectedAddr {
		o.logger.Warn("contract address differs from precomputed",
			slog.String("expected", expectedAddr.Hex()),
			slog.String("actual", contractAddr.Hex()),
		)
	}

	code, err := client.CodeAt(ctx, contractAddr, nil)
	if err != nil {
		return nil, common.Address{}, o.fail(ReasonNetworkUnreachable, fmt.Errorf("get code: %w", err))
	}
	if len(code) == 0 {
		return nil, common.Address{}, o.fail(ReasonVerificationFailed,
			fmt.Errorf("no code at %s", contractAddr.Hex()))
	}
	return code, contractAddr, nil
}

// waitForReceipt polls for the receipt of txHash until it appears or the
// deadline expires. The deadline is monotonic and cancellable through ctx.
// A pending transaction reports ethereum.NotFound and keeps the loop going;
// any other error is a protocol failure and is not retried, and so is a
// receipt missing its block number.
func waitForReceipt(ctx context.Context, client Client, txHash common.Hash, timeout, pollInterval time.Duration, logger *slog.Logger) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := client.TransactionReceipt(ctx, txHash)
		if err == nil {
			if receipt == nil || receipt.BlockNumber == nil {
				return nil, fmt.Errorf("malformed receipt for %s: missing block number", txHash.Hex())
			}
			return receipt, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: transaction %s still pending after %s", errReceiptTimeout, txHash.Hex(), timeout)
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("get receipt: %w", err)
		}
		logger.Debug("receipt not available yet", slog.String("tx_hash", txHash.Hex()))

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: transaction %s still pending after %s", errReceiptTimeout, txHash.Hex(), timeout)
		case <-ticker.C:
		}
	}
}

// advance records the next lifecycle stage reached.
func (o *Orchestrator) advance(stage Stage) {
	o.stage = stage
	o.logger.Debug("stage advanced", slog.String("stage", stage.String()))
}

// fail terminates the attempt, keeping the stage that was reached in the
// returned error.
func (o *Orchestrator) fail(reason FailureReason, err error) error {
	reached := o.stage
	o.stage = StageFailed
	o.logger.Error("deployment failed",
		slog.String("reason", string(reason)),
		slog.String("stage", reached.String()),
		slog.String("error", err.Error()),
	)
	return &DeploymentError{Reason: reason, Stage: reached, Err: err}
}
