package erc1271

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
)

// Contract is bytecode installed at Address in the genesis state
type Contract struct {
	Address common.Address
	Code    []byte
}

// AddressAt returns a deterministic contract address well clear of the precompiles
func AddressAt(index uint64) common.Address {
	return common.BigToAddress(new(big.Int).SetUint64(0x1271_0000 + index))
}

// NewChain starts a fresh simulated chain holding contracts and returns its
// client. The chain is closed when the test finishes.
func NewChain(t testing.TB, contracts ...Contract) simulated.Client {
	t.Helper()

	alloc := make(types.GenesisAlloc, len(contracts))
	for _, c := range contracts {
		alloc[c.Address] = types.Account{
			Code:    c.Code,
			Balance: new(big.Int),
		}
	}

	backend := simulated.NewBackend(alloc)
	t.Cleanup(func() {
		if err := backend.Close(); err != nil {
			t.Logf("failed to close simulated backend: %v", err)
		}
	})
	return backend.Client()
}
