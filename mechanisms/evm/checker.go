package evm

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// SignatureChecker verifies signatures from EOAs and EIP-1271 smart contract wallets
//
// The checker holds no mutable state and is safe for concurrent use.
type SignatureChecker struct {
	reader ChainReader
	logger *zap.Logger
}

// SignatureCheckerOption configures a SignatureChecker
type SignatureCheckerOption func(*SignatureChecker)

// WithLogger sets the logger used to report absorbed verification failures
func WithLogger(logger *zap.Logger) SignatureCheckerOption {
	return func(c *SignatureChecker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewSignatureChecker creates a SignatureChecker
// Args:
//
//	reader: Chain access for the EIP-1271 path (nil disables that path)
//	opts: Optional configuration
//
// Returns:
//
//	Configured SignatureChecker instance
func NewSignatureChecker(reader ChainReader, opts ...SignatureCheckerOption) *SignatureChecker {
	c := &SignatureChecker{
		reader: reader,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsValidSignature reports whether signature is a valid signature of hash by signer.
//
// EOA recovery is tried first; if it does not prove validity the signer is
// treated as an EIP-1271 wallet. Every failure on either path, including
// malformed input, reverts, out-of-gas and unexpected return data, yields
// false. It never panics and never returns an error.
func (c *SignatureChecker) IsValidSignature(
	ctx context.Context,
	signer common.Address,
	hash common.Hash,
	signature []byte,
) bool {
	return c.Verify(ctx, signer, hash, signature).Valid
}

// Verify performs the same check as IsValidSignature and also reports which
// path accepted the signature, or the reason code of the last rejection.
func (c *SignatureChecker) Verify(
	ctx context.Context,
	signer common.Address,
	hash common.Hash,
	signature []byte,
) Verification {
	// Step 1: EOA recovery (cheap, no chain access)
	valid, err := VerifyEOASignature(hash[:], signature, signer)
	if valid {
		return Verification{Valid: true, Method: MethodEOA}
	}
	c.logRejection(MethodEOA, signer, err)

	// Step 2: EIP-1271 callback on the claimed signer
	if c.reader == nil {
		return Verification{Reason: reasonOf(err)}
	}
	valid, err = VerifyEIP1271Signature(ctx, c.reader, signer, hash, signature)
	if valid {
		return Verification{Valid: true, Method: MethodEIP1271}
	}
	c.logRejection(MethodEIP1271, signer, err)

	return Verification{Reason: reasonOf(err)}
}

func (c *SignatureChecker) logRejection(method string, signer common.Address, err error) {
	c.logger.Debug("signature rejected",
		zap.String("method", method),
		zap.String("signer", signer.Hex()),
		zap.String("reason", reasonOf(err)),
		zap.Error(err),
	)
}

func reasonOf(err error) string {
	var verr *VerifyError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	if err != nil {
		return ErrValidationCallFailed
	}
	return ""
}
