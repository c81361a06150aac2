// Package artifact loads compiled smart-contract artifacts: a JSON document
// carrying the contract name, the ABI, and the creation bytecode, in the
// shape emitted by common Solidity toolchains.
package artifact

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Artifact is a compiled contract.
type Artifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// Load reads a compiled-contract artifact from path.
func Load(path string) (*Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	a, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	return a, nil
}

// Parse decodes a compiled-contract artifact document. The abi and bytecode
// fields are required.
func Parse(raw []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if len(a.ABI) == 0 {
		return nil, fmt.Errorf("missing abi field")
	}
	if a.Bytecode == "" {
		return nil, fmt.Errorf("missing bytecode field")
	}
	return &a, nil
}

// ParseABI parses the artifact's JSON ABI into go-ethereum's ABI type.
func (a *Artifact) ParseABI() (abi.ABI, error) {
	return abi.JSON(bytes.NewReader(a.ABI))
}

// BytecodeBytes decodes the creation bytecode, accepting an optional "0x"
// prefix.
func (a *Artifact) BytecodeBytes() ([]byte, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(a.Bytecode, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode bytecode: %w", err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("bytecode is empty")
	}
	return b, nil
}
