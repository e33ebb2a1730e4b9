// Package erc1271 provides EVM bytecode for mock EIP-1271 contract signers and
// a throwaway simulated chain to run them on.
package erc1271

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
)

// MagicValue is the bytes4 returned by a conforming isValidSignature
var MagicValue = [4]byte{0x16, 0x26, 0xba, 0x7e}

// MagicWord is MagicValue ABI-encoded as a single return word
func MagicWord() []byte {
	return common.RightPadBytes(MagicValue[:], 32)
}

// calldata offsets of isValidSignature(bytes32 hash, bytes signature)
// for a 65-byte signature
const (
	offsetHash      = 0x04
	offsetSigLength = 0x44
	offsetSigR      = 0x64
	offsetSigS      = 0x84
	offsetSigV      = 0xa4

	// ecrecover precompile
	ecrecoverAddress = 0x01
)

// WalletCode returns bytecode for an ERC-1271 wallet owned by owner.
//
// Like OpenZeppelin's ERC1271WalletMock it accepts a 65-byte signature when
// ECDSA recovery over the hash yields owner, rejecting high-s signatures.
// Any other input returns the zero word.
func WalletCode(owner common.Address) []byte {
	halfN := new(big.Int).Rsh(crypto.S256().Params().N, 1)

	p := newProgram()

	// signature.length == 65
	p.pushUint(offsetSigLength).op(vm.CALLDATALOAD).pushUint(65).op(vm.EQ, vm.ISZERO)
	p.pushLabel("reject").op(vm.JUMPI)

	// s <= n/2
	p.push(common.LeftPadBytes(halfN.Bytes(), 32))
	p.pushUint(offsetSigS).op(vm.CALLDATALOAD).op(vm.GT)
	p.pushLabel("reject").op(vm.JUMPI)

	// memory[0:128] = hash || v || r || s
	p.pushUint(offsetHash).op(vm.CALLDATALOAD).pushUint(0x00).op(vm.MSTORE)
	p.pushUint(offsetSigV).op(vm.CALLDATALOAD).pushUint(248).op(vm.SHR).pushUint(0x20).op(vm.MSTORE)
	p.pushUint(offsetSigR).op(vm.CALLDATALOAD).pushUint(0x40).op(vm.MSTORE)
	p.pushUint(offsetSigS).op(vm.CALLDATALOAD).pushUint(0x60).op(vm.MSTORE)

	// staticcall(gas, ecrecover, 0, 128, 128, 32)
	p.pushUint(0x20).pushUint(0x80).pushUint(0x80).pushUint(0x00).pushUint(ecrecoverAddress)
	p.op(vm.GAS, vm.STATICCALL, vm.POP)

	// memory[128] == owner
	p.pushUint(0x80).op(vm.MLOAD).push(owner.Bytes()).op(vm.EQ, vm.ISZERO)
	p.pushLabel("reject").op(vm.JUMPI)

	p.store(MagicWord()).exit(vm.RETURN, 0x00, 0x20)

	// memory above 0xa0 is never written, so this returns the zero word
	p.label("reject").exit(vm.RETURN, 0xa0, 0x20)

	return p.bytes()
}

// ReturnCode returns bytecode that answers every call with payload
func ReturnCode(payload []byte) []byte {
	return newProgram().store(payload).exit(vm.RETURN, 0x00, uint64(len(payload))).bytes()
}

// RevertCode returns bytecode that reverts every call with payload as revert data
func RevertCode(payload []byte) []byte {
	return newProgram().store(payload).exit(vm.REVERT, 0x00, uint64(len(payload))).bytes()
}

// GasBurnerCode returns bytecode that loops until it runs out of gas
func GasBurnerCode() []byte {
	return newProgram().label("loop").pushLabel("loop").op(vm.JUMP).bytes()
}

// AcceptAllCode returns bytecode that approves every signature
func AcceptAllCode() []byte {
	return ReturnCode(MagicWord())
}

// MaliciousCode returns bytecode equivalent to OpenZeppelin's
// ERC1271MaliciousMock: every call returns an all-ones word.
func MaliciousCode() []byte {
	word := make([]byte, 32)
	for i := range word {
		word[i] = 0xff
	}
	return ReturnCode(word)
}

// MaliciousWallets returns the hostile signer variants, keyed by description
func MaliciousWallets() map[string][]byte {
	nearMagic := MagicWord()
	nearMagic[3] ^= 0x01

	dirtyPadding := MagicWord()
	dirtyPadding[31] = 0x01

	rightAligned := common.LeftPadBytes(MagicValue[:], 32)

	return map[string][]byte{
		"all ones word":              MaliciousCode(),
		"bare bytes4 magic":          ReturnCode(MagicValue[:]),
		"magic word plus extra":      ReturnCode(append(MagicWord(), MagicWord()...)),
		"magic word truncated":       ReturnCode(MagicWord()[:31]),
		"near magic word":            ReturnCode(nearMagic),
		"magic with dirty padding":   ReturnCode(dirtyPadding),
		"magic right aligned":        ReturnCode(rightAligned),
		"empty return":               ReturnCode(nil),
		"revert without data":        RevertCode(nil),
		"revert carrying magic":      RevertCode(MagicWord()),
		"infinite loop":              GasBurnerCode(),
		"invalid opcode":             {byte(vm.INVALID)},
		"bool true instead of magic": ReturnCode(common.LeftPadBytes([]byte{0x01}, 32)),
	}
}
