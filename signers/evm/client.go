package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	sigevm "sigcheck-go/mechanisms/evm"
)

// ClientSigner produces 65-byte (r, s, v) signatures with an ECDSA private key.
// v is always 27 or 28, the form SignatureChecker accepts.
type ClientSigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewClientSigner wraps an existing private key
func NewClientSigner(privateKey *ecdsa.PrivateKey) *ClientSigner {
	return &ClientSigner{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}
}

// NewClientSignerFromPrivateKey creates a client signer from a hex-encoded private key.
//
// Args:
//
//	privateKeyHex: Hex-encoded private key (with or without "0x" prefix)
//
// Returns:
//
//	ClientSigner ready to sign message hashes
//	Error if private key is invalid
//
// Example:
//
//	signer, err := evm.NewClientSignerFromPrivateKey("0x1234...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sig, err := signer.SignMessage([]byte("hello"))
func NewClientSignerFromPrivateKey(privateKeyHex string) (*ClientSigner, error) {
	// Strip 0x prefix if present
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")

	// Parse hex string to ECDSA private key
	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return NewClientSigner(privateKey), nil
}

// GenerateClientSigner creates a client signer with a fresh random key
func GenerateClientSigner() (*ClientSigner, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return NewClientSigner(privateKey), nil
}

// Address returns the Ethereum address of the signer.
func (s *ClientSigner) Address() common.Address {
	return s.address
}

// SignHash signs an already-final 32-byte hash. No prefix is applied.
func (s *ClientSigner) SignHash(hash common.Hash) ([]byte, error) {
	signature, err := crypto.Sign(hash[:], s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}

	// Adjust v value for Ethereum (recovery ID 0/1 → 27/28)
	signature[crypto.RecoveryIDOffset] += sigevm.EthereumVOffset

	return signature, nil
}

// SignMessage signs message with the EIP-191 personal-sign prefix, the way
// wallets implement personal_sign. Verify the result against
// evm.HashPersonalMessage(message).
func (s *ClientSigner) SignMessage(message []byte) ([]byte, error) {
	return s.SignHash(sigevm.HashPersonalMessage(message))
}

// SignTypedData signs EIP-712 typed data.
//
// Args:
//
//	domain: EIP-712 domain separator
//	types: Type definitions for the structured data
//	primaryType: The primary type being signed
//	message: The message data to sign
//
// Returns:
//
//	65-byte signature (r, s, v)
//	Error if hashing or signing fails
func (s *ClientSigner) SignTypedData(
	domain sigevm.TypedDataDomain,
	types map[string][]sigevm.TypedDataField,
	primaryType string,
	message map[string]interface{},
) ([]byte, error) {
	digest, err := sigevm.HashTypedData(domain, types, primaryType, message)
	if err != nil {
		return nil, err
	}
	return s.SignHash(digest)
}

// DialChainReader connects to an RPC endpoint for the EIP-1271 path
func DialChainReader(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	return client, nil
}
