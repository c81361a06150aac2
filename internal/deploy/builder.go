package deploy

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
)

// DeployContractData creates the payload for a contract-creation transaction.
// It combines the creation bytecode with the ABI-encoded constructor
// arguments; a mismatch against the constructor signature is an encoding
// error, raised without touching the network.
func DeployContractData(bytecode []byte, contractABI abi.ABI, constructorArgs ...interface{}) ([]byte, error) {
	if len(constructorArgs) == 0 && len(contractABI.Constructor.Inputs) == 0 {
		return bytecode, nil
	}
	encodedArgs, err := contractABI.Pack("", constructorArgs...)
	if err != nil {
		return nil, fmt.Errorf("encode constructor args: %w", err)
	}
	return append(bytecode, encodedArgs...), nil
}

// NewContractCreation assembles an unsigned legacy contract-creation
// transaction: no recipient, zero value. A zero gas price is valid on
// fee-less and proof-of-authority networks and is passed through unchanged.
func NewContractCreation(nonce uint64, gasLimit uint64, gasPrice *big.Int, data []byte) *types.Transaction {
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       nil,
		Value:    new(big.Int),
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
}
