package deploy

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// TransactionSigner signs transactions for a single deployer account.
type TransactionSigner interface {
	// Address returns the account address derived from the signing key.
	Address() common.Address
	// SignTransaction returns a signed copy of tx. The input is not mutated.
	SignTransaction(ctx context.Context, tx *types.Transaction) (*types.Transaction, error)
}

// LocalSigner implements TransactionSigner with an in-memory secp256k1 key.
// The key lives in the unexported field for the lifetime of the signer and is
// never returned, logged, or serialized by any method.
type LocalSigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    *big.Int
}

// NewLocalSigner creates a LocalSigner from a hex-encoded private key.
// The key is accepted with or without a "0x" prefix; surrounding whitespace
// is ignored. Malformed or wrong-length keys are rejected.
func NewLocalSigner(hexKey string, chainID *big.Int) (*LocalSigner, error) {
	hexKey = strings.TrimSpace(hexKey)
	hexKey = strings.TrimPrefix(strings.TrimPrefix(hexKey, "0x"), "0X")

	privateKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to get public key")
	}
	address := crypto.PubkeyToAddress(*publicKey)

	return &LocalSigner{
		privateKey: privateKey,
		address:    address,
		chainID:    chainID,
	}, nil
}

// Address returns the signer's Ethereum address.
func (s *LocalSigner) Address() common.Address {
	return s.address
}

// ChainID returns the chain ID used for replay-protected signing.
func (s *LocalSigner) ChainID() *big.Int {
	return s.chainID
}

// SignTransaction signs a transaction with the local private key. Signing is
// deterministic for the same key and transaction content.
func (s *LocalSigner) SignTransaction(ctx context.Context, tx *types.Transaction) (*types.Transaction, error) {
	signer := types.LatestSignerForChainID(s.chainID)
	signedTx, err := types.SignTx(tx, signer, s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return signedTx, nil
}

// Ensure LocalSigner implements TransactionSigner.
var _ TransactionSigner = (*LocalSigner)(nil)
