package evm

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// signEthereum signs hash and returns the signature with v = 27/28
func signEthereum(t *testing.T, hash []byte) ([]byte, common.Address) {
	t.Helper()

	privateKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	sig, err := crypto.Sign(hash, privateKey)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	sig[64] += 27
	return sig, crypto.PubkeyToAddress(privateKey.PublicKey)
}

// highSTwin returns the (r, n-s, v^1) twin of a canonical signature
func highSTwin(sig []byte) []byte {
	n := crypto.S256().Params().N
	s := new(big.Int).SetBytes(sig[32:64])

	twin := make([]byte, 65)
	copy(twin, sig)
	copy(twin[32:64], common.LeftPadBytes(new(big.Int).Sub(n, s).Bytes(), 32))
	if twin[64] == 27 {
		twin[64] = 28
	} else {
		twin[64] = 27
	}
	return twin
}

func TestVerifyEOASignature(t *testing.T) {
	testHash := crypto.Keccak256([]byte("test message"))
	sig, address := signEthereum(t, testHash)

	tests := []struct {
		name            string
		hash            []byte
		signature       func() []byte
		expectedAddress common.Address
		want            bool
		wantReason      string
	}{
		{
			name:            "valid EOA signature",
			hash:            testHash,
			signature:       func() []byte { return sig },
			expectedAddress: address,
			want:            true,
		},
		{
			name:            "invalid signature length (64 bytes)",
			hash:            testHash,
			signature:       func() []byte { return sig[:64] },
			expectedAddress: address,
			wantReason:      ErrInvalidSignatureLength,
		},
		{
			name:            "invalid signature length (66 bytes)",
			hash:            testHash,
			signature:       func() []byte { return append(append([]byte{}, sig...), 0x00) },
			expectedAddress: address,
			wantReason:      ErrInvalidSignatureLength,
		},
		{
			name:            "empty signature",
			hash:            testHash,
			signature:       func() []byte { return []byte{} },
			expectedAddress: address,
			wantReason:      ErrInvalidSignatureLength,
		},
		{
			name:            "wrong address",
			hash:            testHash,
			signature:       func() []byte { return sig },
			expectedAddress: common.HexToAddress("0x0000000000000000000000000000000000000001"),
			wantReason:      ErrSignerMismatch,
		},
		{
			name:            "wrong hash",
			hash:            crypto.Keccak256([]byte("different message")),
			signature:       func() []byte { return sig },
			expectedAddress: address,
			wantReason:      ErrSignerMismatch,
		},
		{
			name:            "zero expected address",
			hash:            testHash,
			signature:       func() []byte { return sig },
			expectedAddress: common.Address{},
			wantReason:      ErrSignerMismatch,
		},
		{
			name: "v = 0/1 is not the wire format",
			hash: testHash,
			signature: func() []byte {
				raw := append([]byte{}, sig...)
				raw[64] -= 27
				return raw
			},
			expectedAddress: address,
			wantReason:      ErrInvalidRecoveryID,
		},
		{
			name: "v out of range",
			hash: testHash,
			signature: func() []byte {
				raw := append([]byte{}, sig...)
				raw[64] = 29
				return raw
			},
			expectedAddress: address,
			wantReason:      ErrInvalidRecoveryID,
		},
		{
			name:            "high-s twin",
			hash:            testHash,
			signature:       func() []byte { return highSTwin(sig) },
			expectedAddress: address,
			wantReason:      ErrNonCanonicalSignature,
		},
		{
			name: "r = s = 0",
			hash: testHash,
			signature: func() []byte {
				raw := make([]byte, 65)
				raw[64] = 27
				return raw
			},
			expectedAddress: address,
			wantReason:      ErrNonCanonicalSignature,
		},
		{
			name: "r = s = 0 against the zero address",
			hash: testHash,
			signature: func() []byte {
				raw := make([]byte, 65)
				raw[64] = 27
				return raw
			},
			expectedAddress: common.Address{},
			wantReason:      ErrNonCanonicalSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifyEOASignature(tt.hash, tt.signature(), tt.expectedAddress)

			if got != tt.want {
				t.Errorf("VerifyEOASignature() = %v, want %v", got, tt.want)
			}
			if tt.want {
				if err != nil {
					t.Errorf("VerifyEOASignature() unexpected error = %v", err)
				}
				return
			}

			var verr *VerifyError
			if !errors.As(err, &verr) {
				t.Fatalf("VerifyEOASignature() error = %v, want *VerifyError", err)
			}
			if verr.Reason != tt.wantReason {
				t.Errorf("VerifyEOASignature() reason = %s, want %s", verr.Reason, tt.wantReason)
			}
			if verr.Signer != tt.expectedAddress {
				t.Errorf("VerifyEOASignature() error signer = %s, want %s", verr.Signer.Hex(), tt.expectedAddress.Hex())
			}
		})
	}
}

// TestVerifyEOASignature_SingleByteCorruption flips every byte of a valid
// signature in turn; none of the results may validate.
func TestVerifyEOASignature_SingleByteCorruption(t *testing.T) {
	testHash := crypto.Keccak256([]byte("corruption"))
	sig, address := signEthereum(t, testHash)

	for i := range sig {
		corrupted := append([]byte{}, sig...)
		corrupted[i]++

		got, err := VerifyEOASignature(testHash, corrupted, address)
		if got {
			t.Errorf("byte %d incremented: signature still valid", i)
		}
		if err == nil {
			t.Errorf("byte %d incremented: expected an error", i)
		}
	}
}

func TestRecoverSigner(t *testing.T) {
	testHash := crypto.Keccak256([]byte("recover"))
	sig, address := signEthereum(t, testHash)
	original := append([]byte{}, sig...)

	t.Run("recovers the signing address", func(t *testing.T) {
		recovered, err := RecoverSigner(testHash, sig)
		if err != nil {
			t.Fatalf("RecoverSigner() unexpected error = %v", err)
		}
		if recovered != address {
			t.Errorf("RecoverSigner() = %s, want %s", recovered.Hex(), address.Hex())
		}
	})

	t.Run("does not modify the signature", func(t *testing.T) {
		if _, err := RecoverSigner(testHash, sig); err != nil {
			t.Fatalf("RecoverSigner() unexpected error = %v", err)
		}
		if !bytes.Equal(sig, original) {
			t.Error("RecoverSigner() mutated its input")
		}
	})

	t.Run("rejects short hash", func(t *testing.T) {
		_, err := RecoverSigner(testHash[:31], sig)
		var verr *VerifyError
		if !errors.As(err, &verr) || verr.Reason != ErrSignatureRecoveryFailed {
			t.Errorf("RecoverSigner() error = %v, want %s", err, ErrSignatureRecoveryFailed)
		}
	})

	t.Run("r above the curve order", func(t *testing.T) {
		raw := append([]byte{}, sig...)
		copy(raw[:32], bytes.Repeat([]byte{0xff}, 32))
		_, err := RecoverSigner(testHash, raw)
		var verr *VerifyError
		if !errors.As(err, &verr) || verr.Reason != ErrNonCanonicalSignature {
			t.Errorf("RecoverSigner() error = %v, want %s", err, ErrNonCanonicalSignature)
		}
	})
}
