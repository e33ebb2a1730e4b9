package evm

import (
	"time"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// Verification methods reported by SignatureChecker.Verify
	MethodEOA     = "eoa"
	MethodEIP1271 = "eip1271"

	// EOA signature layout: r (32 bytes) || s (32 bytes) || v (1 byte)
	SignatureLength = crypto.SignatureLength

	// Added to the 0/1 recovery id to form the on-wire v byte (27/28)
	EthereumVOffset = 27

	// EIP-1271 magic value (returned by isValidSignature on success)
	// This is bytes4(keccak256("isValidSignature(bytes32,bytes)"))
	EIP1271MagicValue = "0x1626ba7e"

	// EIP-1271 function name
	FunctionIsValidSignature = "isValidSignature"

	// ValidationGasLimit is the gas handed to an isValidSignature call.
	// It covers intrinsic gas, an ecrecover and a few storage reads, which is
	// what single-owner and small multi-owner wallets need.
	ValidationGasLimit uint64 = 200_000

	// ValidationCallTimeout caps the wall-clock time of a single
	// isValidSignature round trip, independently of the caller's context.
	ValidationCallTimeout = 10 * time.Second

	// Reason codes. They are never returned from IsValidSignature; they show
	// up in Verification.Reason and in debug logs.
	ErrInvalidSignatureLength   = "invalid_signature_length"
	ErrInvalidRecoveryID        = "invalid_recovery_id"
	ErrNonCanonicalSignature    = "non_canonical_signature"
	ErrSignatureRecoveryFailed  = "signature_recovery_failed"
	ErrZeroAddressRecovered     = "zero_address_recovered"
	ErrSignerMismatch           = "signer_mismatch"
	ErrSignerHasNoCode          = "signer_has_no_code"
	ErrValidationCallFailed     = "validation_call_failed"
	ErrUnexpectedReturnSize     = "unexpected_return_size"
	ErrMagicValueMismatch       = "magic_value_mismatch"
	ErrInvalidValidationPayload = "invalid_validation_payload"
)
