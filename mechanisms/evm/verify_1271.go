package evm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// eip1271ABI is the minimal ABI for EIP-1271's isValidSignature function
const eip1271ABI = `[{
	"inputs": [
		{"type": "bytes32", "name": "hash"},
		{"type": "bytes", "name": "signature"}
	],
	"name": "isValidSignature",
	"outputs": [{"type": "bytes4", "name": "magicValue"}],
	"stateMutability": "view",
	"type": "function"
}]`

// eip1271MagicValue is the bytes4 magic value returned by isValidSignature on success
var eip1271MagicValue = [4]byte{0x16, 0x26, 0xba, 0x7e}

// eip1271MagicWord is the only return payload accepted: the ABI encoding of
// the bytes4 magic value, left-aligned in a single zero-padded word.
var eip1271MagicWord = common.RightPadBytes(eip1271MagicValue[:], 32)

var eip1271Contract = mustParseABI(eip1271ABI)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(fmt.Sprintf("invalid ABI definition: %v", err))
	}
	return parsed
}

// PackIsValidSignature encodes the calldata for isValidSignature(bytes32,bytes)
func PackIsValidSignature(hash [32]byte, signature []byte) ([]byte, error) {
	return eip1271Contract.Pack(FunctionIsValidSignature, hash, signature)
}

// VerifyEIP1271Signature verifies a signature from a smart contract wallet using EIP-1271
//
// The wallet's isValidSignature(bytes32,bytes) is invoked through a read-only
// eth_call capped at ValidationGasLimit gas and ValidationCallTimeout. The
// wallet is untrusted: the result is accepted only when the call succeeds and
// returns exactly one 32-byte word equal to the ABI-encoded magic value
// 0x1626ba7e. Extra data, truncated data, dirty padding and reverts carrying
// the magic value are all rejected.
//
// Args:
//
//	ctx: Context for cancellation
//	reader: Chain access used for CodeAt and the eth_call
//	wallet: The smart contract wallet address
//	hash: The 32-byte message hash that was signed
//	signature: The signature bytes (format is wallet-specific)
//
// Returns:
//
//	true if the contract returns the exact EIP-1271 magic word
//	*VerifyError if the wallet has no code, the call fails, or the payload is wrong
func VerifyEIP1271Signature(
	ctx context.Context,
	reader ChainReader,
	wallet common.Address,
	hash [32]byte,
	signature []byte,
) (valid bool, err error) {
	// A misbehaving ChainReader must not take the caller down with it
	defer func() {
		if r := recover(); r != nil {
			valid = false
			err = NewVerifyError(ErrValidationCallFailed, wallet, fmt.Errorf("panic during validation call: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, ValidationCallTimeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return false, NewVerifyError(ErrValidationCallFailed, wallet, err)
	}

	code, err := reader.CodeAt(ctx, wallet, nil)
	if err != nil {
		return false, NewVerifyError(ErrValidationCallFailed, wallet, err)
	}
	if len(code) == 0 {
		return false, NewVerifyError(ErrSignerHasNoCode, wallet, nil)
	}

	data, err := PackIsValidSignature(hash, signature)
	if err != nil {
		return false, NewVerifyError(ErrInvalidValidationPayload, wallet, err)
	}

	result, err := reader.CallContract(ctx, ethereum.CallMsg{
		To:   &wallet,
		Gas:  ValidationGasLimit,
		Data: data,
	}, nil)
	if err != nil {
		return false, NewVerifyError(ErrValidationCallFailed, wallet, err)
	}

	return checkMagicWord(wallet, result)
}

// checkMagicWord accepts only an exact 32-byte magic word
func checkMagicWord(wallet common.Address, result []byte) (bool, error) {
	if len(result) != len(eip1271MagicWord) {
		return false, NewVerifyError(
			ErrUnexpectedReturnSize,
			wallet,
			fmt.Errorf("expected %d bytes, got %d", len(eip1271MagicWord), len(result)),
		)
	}
	if !bytes.Equal(result, eip1271MagicWord) {
		return false, NewVerifyError(ErrMagicValueMismatch, wallet, errors.New("returned word is not the EIP-1271 magic value"))
	}
	return true, nil
}
