// Package report records the outcome of a finished deployment as a JSON
// document for downstream tooling.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	"github.com/Bidon15/deployctl/internal/deploy"
)

// Report is the persisted record of one deployment run.
type Report struct {
	RunID           string    `json:"run_id"`
	Timestamp       time.Time `json:"timestamp"`
	RPCEndpoint     string    `json:"rpc_endpoint"`
	ChainID         string    `json:"chain_id"`
	Deployer        string    `json:"deployer"`
	ContractName    string    `json:"contract_name,omitempty"`
	ContractAddress string    `json:"contract_address"`
	TxHash          string    `json:"tx_hash"`
	BlockNumber     uint64    `json:"block_number"`
	GasUsed         uint64    `json:"gas_used"`
	CodeSize        int       `json:"code_size"`
	CodeHash        string    `json:"code_hash"`
	Duration        string    `json:"duration"`
}

// New assembles a report from a deployment result.
func New(result *deploy.Result, rpcURL, contractName string, elapsed time.Duration) *Report {
	return &Report{
		RunID:           uuid.New().String(),
		Timestamp:       time.Now().UTC(),
		RPCEndpoint:     rpcURL,
		ChainID:         result.ChainID.String(),
		Deployer:        result.Deployer.Hex(),
		ContractName:    contractName,
		ContractAddress: result.ContractAddress.Hex(),
		TxHash:          result.TxHash.Hex(),
		BlockNumber:     result.BlockNumber,
		GasUsed:         result.GasUsed,
		CodeSize:        result.DeployedCodeSize,
		CodeHash:        hexutil.Encode(keccak256(result.DeployedCode)),
		Duration:        elapsed.String(),
	}
}

// Write marshals the report to path with indentation.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// keccak256 computes the Keccak-256 hash of the deployed runtime code.
func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
