package erc1271

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/vm"
)

// program assembles EVM bytecode for the mock wallets.
// Jump targets are referenced by label and patched in bytes().
type program struct {
	code   []byte
	labels map[string]int
	refs   map[int]string
}

func newProgram() *program {
	return &program{
		labels: make(map[string]int),
		refs:   make(map[int]string),
	}
}

func (p *program) op(ops ...vm.OpCode) *program {
	for _, o := range ops {
		p.code = append(p.code, byte(o))
	}
	return p
}

// push emits the shortest PUSHn carrying data (PUSH1 0x00 for empty data)
func (p *program) push(data []byte) *program {
	if len(data) == 0 {
		data = []byte{0x00}
	}
	if len(data) > 32 {
		panic(fmt.Sprintf("push of %d bytes", len(data)))
	}
	p.code = append(p.code, byte(vm.PUSH1)+byte(len(data)-1))
	p.code = append(p.code, data...)
	return p
}

func (p *program) pushUint(v uint64) *program {
	return p.push(new(big.Int).SetUint64(v).Bytes())
}

// pushLabel emits a PUSH2 whose operand is the offset of label
func (p *program) pushLabel(label string) *program {
	p.code = append(p.code, byte(vm.PUSH2))
	p.refs[len(p.code)] = label
	p.code = append(p.code, 0x00, 0x00)
	return p
}

// label marks the current position as a JUMPDEST named label
func (p *program) label(label string) *program {
	p.labels[label] = len(p.code)
	return p.op(vm.JUMPDEST)
}

// store writes data into memory starting at offset 0, one word at a time
func (p *program) store(data []byte) *program {
	for offset := 0; offset < len(data); offset += 32 {
		word := make([]byte, 32)
		copy(word, data[offset:])
		p.push(word).pushUint(uint64(offset)).op(vm.MSTORE)
	}
	return p
}

// exit ends execution with RETURN or REVERT over memory[offset:offset+size]
func (p *program) exit(halt vm.OpCode, offset, size uint64) *program {
	return p.pushUint(size).pushUint(offset).op(halt)
}

func (p *program) bytes() []byte {
	code := make([]byte, len(p.code))
	copy(code, p.code)
	for pos, label := range p.refs {
		target, ok := p.labels[label]
		if !ok {
			panic("undefined label " + label)
		}
		code[pos] = byte(target >> 8)
		code[pos+1] = byte(target)
	}
	return code
}
