package evm

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverSigner recovers the address that produced an EOA signature.
//
// Only the canonical encoding is accepted:
//   - the signature is exactly 65 bytes (r || s || v)
//   - v is 27 or 28
//   - r and s are in [1, n-1] and s is in the lower half of the curve order (EIP-2)
//
// The zero address is never returned without an error.
//
// Args:
//
//	hash: The 32-byte message hash that was signed
//	signature: The 65-byte ECDSA signature
//
// Returns:
//
//	The recovered address
//	*VerifyError describing why the signature was rejected
func RecoverSigner(hash []byte, signature []byte) (common.Address, error) {
	if len(signature) != SignatureLength {
		return common.Address{}, NewVerifyError(ErrInvalidSignatureLength, common.Address{}, errors.New("expected 65 bytes"))
	}
	if len(hash) != common.HashLength {
		return common.Address{}, NewVerifyError(ErrSignatureRecoveryFailed, common.Address{}, errors.New("expected a 32-byte hash"))
	}

	v := signature[crypto.RecoveryIDOffset]
	if v != EthereumVOffset && v != EthereumVOffset+1 {
		return common.Address{}, NewVerifyError(ErrInvalidRecoveryID, common.Address{}, nil)
	}

	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:64])
	if !crypto.ValidateSignatureValues(v-EthereumVOffset, r, s, true) {
		return common.Address{}, NewVerifyError(ErrNonCanonicalSignature, common.Address{}, nil)
	}

	// Work on a copy; the caller's signature is never touched
	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	sig[crypto.RecoveryIDOffset] = v - EthereumVOffset

	pubKey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, NewVerifyError(ErrSignatureRecoveryFailed, common.Address{}, err)
	}

	recovered := crypto.PubkeyToAddress(*pubKey)
	if recovered == (common.Address{}) {
		return common.Address{}, NewVerifyError(ErrZeroAddressRecovered, common.Address{}, nil)
	}
	return recovered, nil
}

// VerifyEOASignature verifies an ECDSA signature from an externally owned account (EOA)
//
// Args:
//
//	hash: The 32-byte message hash that was signed
//	signature: The 65-byte ECDSA signature (r: 32 bytes, s: 32 bytes, v: 1 byte)
//	expectedAddress: The Ethereum address that should have signed the message
//
// Returns:
//
//	true if the signature is canonical and recovers to the expected address
//	error if the signature is malformed, non-canonical or recovers elsewhere
func VerifyEOASignature(
	hash []byte,
	signature []byte,
	expectedAddress common.Address,
) (bool, error) {
	recovered, err := RecoverSigner(hash, signature)
	if err != nil {
		var verr *VerifyError
		if errors.As(err, &verr) {
			verr.Signer = expectedAddress
		}
		return false, err
	}

	if expectedAddress == (common.Address{}) || recovered != expectedAddress {
		return false, NewVerifyError(ErrSignerMismatch, expectedAddress, nil)
	}
	return true, nil
}
