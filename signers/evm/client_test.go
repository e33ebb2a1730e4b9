package evm

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	sigevm "sigcheck-go/mechanisms/evm"
)

// Hardhat account #0, deterministic for testing
const (
	testPrivateKeyHex = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddressHex    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestNewClientSignerFromPrivateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{
			name:    "valid key",
			key:     testPrivateKeyHex,
			wantErr: false,
		},
		{
			name:    "valid key without prefix",
			key:     testPrivateKeyHex[2:],
			wantErr: false,
		},
		{
			name:    "invalid key - not hex",
			key:     "0xnothex",
			wantErr: true,
		},
		{
			name:    "invalid key - wrong length",
			key:     "0x1234",
			wantErr: true,
		},
		{
			name:    "empty key",
			key:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer, err := NewClientSignerFromPrivateKey(tt.key)

			if (err != nil) != tt.wantErr {
				t.Errorf("NewClientSignerFromPrivateKey() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if err != nil {
				return
			}

			if signer == nil {
				t.Error("expected non-nil signer")
			}
		})
	}
}

func TestClientSigner_Address(t *testing.T) {
	signer, err := NewClientSignerFromPrivateKey(testPrivateKeyHex)
	if err != nil {
		t.Fatalf("NewClientSignerFromPrivateKey() failed: %v", err)
	}

	if got := signer.Address().Hex(); got != testAddressHex {
		t.Errorf("Address() = %s, want %s", got, testAddressHex)
	}
}

func TestClientSigner_SignHash(t *testing.T) {
	signer, err := GenerateClientSigner()
	if err != nil {
		t.Fatalf("GenerateClientSigner() failed: %v", err)
	}

	// enough hashes to see both recovery ids
	for i := 0; i < 16; i++ {
		hash := crypto.Keccak256Hash([]byte{byte(i)})

		sig, err := signer.SignHash(hash)
		if err != nil {
			t.Fatalf("SignHash() failed: %v", err)
		}
		if len(sig) != sigevm.SignatureLength {
			t.Fatalf("signature length = %d, want %d", len(sig), sigevm.SignatureLength)
		}
		if v := sig[64]; v != 27 && v != 28 {
			t.Errorf("signature v = %d, want 27 or 28", v)
		}

		valid, err := sigevm.VerifyEOASignature(hash[:], sig, signer.Address())
		if err != nil || !valid {
			t.Errorf("VerifyEOASignature() = %v, %v; want true, nil", valid, err)
		}
	}
}

func TestClientSigner_SignMessage(t *testing.T) {
	signer, err := NewClientSignerFromPrivateKey(testPrivateKeyHex)
	if err != nil {
		t.Fatalf("NewClientSignerFromPrivateKey() failed: %v", err)
	}
	message := []byte("hello sigcheck")

	sig, err := signer.SignMessage(message)
	if err != nil {
		t.Fatalf("SignMessage() failed: %v", err)
	}

	checker := sigevm.NewSignatureChecker(nil)
	if !checker.IsValidSignature(context.Background(), signer.Address(), sigevm.HashPersonalMessage(message), sig) {
		t.Error("personal-sign signature does not verify against HashPersonalMessage")
	}
	if checker.IsValidSignature(context.Background(), signer.Address(), crypto.Keccak256Hash(message), sig) {
		t.Error("personal-sign signature verified against the unprefixed hash")
	}
}

func TestClientSigner_SignTypedData(t *testing.T) {
	signer, err := NewClientSignerFromPrivateKey(testPrivateKeyHex)
	if err != nil {
		t.Fatalf("NewClientSignerFromPrivateKey() failed: %v", err)
	}

	domain := sigevm.TypedDataDomain{
		Name:              "sigcheck",
		Version:           "1",
		ChainID:           big.NewInt(1337),
		VerifyingContract: "0x1271000000000000000000000000000000001271",
	}
	types := map[string][]sigevm.TypedDataField{
		"Permit": {
			{Name: "owner", Type: "address"},
			{Name: "nonce", Type: "uint256"},
		},
	}
	message := map[string]interface{}{
		"owner": testAddressHex,
		"nonce": "7",
	}

	sig, err := signer.SignTypedData(domain, types, "Permit", message)
	if err != nil {
		t.Fatalf("SignTypedData() failed: %v", err)
	}

	digest, err := sigevm.HashTypedData(domain, types, "Permit", message)
	if err != nil {
		t.Fatalf("HashTypedData() failed: %v", err)
	}
	valid, err := sigevm.VerifyEOASignature(digest[:], sig, signer.Address())
	if err != nil || !valid {
		t.Errorf("VerifyEOASignature() = %v, %v; want true, nil", valid, err)
	}

	if _, err := signer.SignTypedData(domain, types, "Unknown", message); err == nil {
		t.Error("SignTypedData() accepted an unknown primary type")
	}
}
