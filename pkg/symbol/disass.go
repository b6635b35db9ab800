package symbol

import (
	"debug/elf"
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

// Instruction is one decoded machine instruction.
type Instruction struct {
	Addr  uint64 `json:"addr" yaml:"addr"`
	Bytes []byte `json:"bytes" yaml:"bytes"`
	Asm   string `json:"asm" yaml:"asm"`
}

// ReadText returns size bytes of the loaded image starting at addr, read
// from the allocated section that contains them.
func (bi *BinaryInfo) ReadText(addr, size uint64) ([]byte, error) {
	f := bi.dw.ELF()
	if f == nil {
		return nil, fmt.Errorf("read %#x: no ELF file", addr)
	}
	for _, sec := range f.Sections {
		if sec.Flags&elf.SHF_ALLOC == 0 || sec.Type == elf.SHT_NOBITS {
			continue
		}
		if addr < sec.Addr || addr+size > sec.Addr+sec.Size {
			continue
		}
		buf := make([]byte, size)
		if _, err := sec.ReadAt(buf, int64(addr-sec.Addr)); err != nil {
			return nil, fmt.Errorf("read %s at %#x: %w", sec.Name, addr, err)
		}
		return buf, nil
	}
	return nil, fmt.Errorf("read [%#x, %#x): %w", addr, addr+size, ErrNotFound)
}

// FunctionText returns the machine code of fn.
func (bi *BinaryInfo) FunctionText(fn *Function) ([]byte, error) {
	if fn.highpc <= fn.lowpc {
		return nil, fmt.Errorf("function %s has no code", fn.name)
	}
	return bi.ReadText(fn.lowpc, fn.highpc-fn.lowpc)
}

// Disassemble decodes at most max amd64 instructions of code, which is
// loaded at addr. max <= 0 decodes all of code.
func Disassemble(code []byte, addr uint64, max int, syntax string) ([]Instruction, error) {
	var (
		insts  []Instruction
		offset = 0
	)
	for offset < len(code) && (max <= 0 || len(insts) < max) {
		inst, err := x86asm.Decode(code[offset:], 64)
		if err != nil {
			return insts, fmt.Errorf("x86asm decode error at %#x: %v", addr+uint64(offset), err)
		}

		pc := addr + uint64(offset)
		asm, err := instSyntax(inst, pc, syntax)
		if err != nil {
			return insts, err
		}

		end := offset + inst.Len
		insts = append(insts, Instruction{Addr: pc, Bytes: code[offset:end], Asm: asm})
		offset = end
	}
	return insts, nil
}

func instSyntax(inst x86asm.Inst, pc uint64, syntax string) (string, error) {
	asm := ""
	switch syntax {
	case "go":
		asm = x86asm.GoSyntax(inst, pc, nil)
	case "gnu":
		asm = x86asm.GNUSyntax(inst, pc, nil)
	case "intel":
		asm = x86asm.IntelSyntax(inst, pc, nil)
	default:
		return "", fmt.Errorf("invalid asm syntax %q, want go, gnu or intel", syntax)
	}
	return asm, nil
}
