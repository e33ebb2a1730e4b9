package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// ChainReader is the read-only view of the chain the contract path needs.
// *ethclient.Client and the simulated backend client both satisfy it.
type ChainReader interface {
	ethereum.ContractCaller

	// CodeAt returns the bytecode at the given address
	// Returns empty slice if address is an EOA or doesn't exist
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// Verification is the diagnostic outcome of a signature check
type Verification struct {
	Valid  bool   `json:"isValid"`
	Method string `json:"method,omitempty"` // MethodEOA or MethodEIP1271 when valid
	Reason string `json:"reason,omitempty"` // last reason code when invalid
}

// VerifyError is returned by the single-path verifiers.
// Reason is one of the Err* reason codes in constants.go.
type VerifyError struct {
	Reason string
	Signer common.Address
	Err    error
}

// NewVerifyError creates a VerifyError for the given reason and signer
func NewVerifyError(reason string, signer common.Address, err error) *VerifyError {
	return &VerifyError{
		Reason: reason,
		Signer: signer,
		Err:    err,
	}
}

func (e *VerifyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (signer %s): %v", e.Reason, e.Signer.Hex(), e.Err)
	}
	return fmt.Sprintf("%s (signer %s)", e.Reason, e.Signer.Hex())
}

func (e *VerifyError) Unwrap() error {
	return e.Err
}

// TypedDataDomain represents the EIP-712 domain separator
type TypedDataDomain struct {
	Name              string   `json:"name"`
	Version           string   `json:"version"`
	ChainID           *big.Int `json:"chainId"`
	VerifyingContract string   `json:"verifyingContract"`
}

// TypedDataField represents a field in EIP-712 typed data
type TypedDataField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
