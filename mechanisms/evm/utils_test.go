package evm

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestParseHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    common.Hash
		wantErr bool
	}{
		{
			name:  "with prefix",
			input: "0x11" + strings.Repeat("00", 30) + "22",
			want:  common.BytesToHash(append(append([]byte{0x11}, make([]byte, 30)...), 0x22)),
		},
		{
			name:  "without prefix",
			input: "11" + strings.Repeat("00", 30) + "22",
			want:  common.BytesToHash(append(append([]byte{0x11}, make([]byte, 30)...), 0x22)),
		},
		{name: "too short", input: "0x1234", wantErr: true},
		{name: "too long", input: "0x" + strings.Repeat("00", 33), wantErr: true},
		{name: "not hex", input: "0xzz" + strings.Repeat("00", 31), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHash(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHash() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHash() = %s, want %s", got.Hex(), tt.want.Hex())
			}
		})
	}
}

func TestParseAddress(t *testing.T) {
	if _, err := ParseAddress("0x1234567890123456789012345678901234567890"); err != nil {
		t.Errorf("ParseAddress() unexpected error = %v", err)
	}
	if _, err := ParseAddress("0x1234"); err == nil {
		t.Error("ParseAddress() accepted a short address")
	}
	if NormalizeAddress("0xABCDEF0000000000000000000000000000000000") != "0xabcdef0000000000000000000000000000000000" {
		t.Error("NormalizeAddress() did not lowercase")
	}
}
