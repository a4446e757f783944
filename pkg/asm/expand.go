package asm

import "github.com/oisee/z80-assembler/pkg/inst"

// indexedOps are the mnemonics whose (IX)/(IY) operands need a displacement.
// JP (IX) and EX (SP), IX take none and are absent.
var indexedOps = map[inst.OpCode]bool{
	inst.LD: true, inst.LDI: true, inst.LDD: true,
	inst.ADD: true, inst.ADC: true, inst.SUB: true, inst.SBC: true,
	inst.AND: true, inst.XOR: true, inst.OR: true, inst.CP: true,
	inst.INC: true, inst.DEC: true,
	inst.RLC: true, inst.RL: true, inst.RRC: true, inst.RR: true,
	inst.SLA: true, inst.SRA: true, inst.SLL: true, inst.SRL: true,
	inst.BIT: true, inst.SET: true, inst.RES: true,
}

// Expand rewrites (IX) and (IY) to (IX+0) and (IY+0) wherever the instruction
// encodes a displacement byte. It never modifies in and is idempotent.
func Expand(in inst.Instruction) inst.Instruction {
	if !indexedOps[in.Op] {
		return in
	}
	out := in
	copied := false
	for i, a := range in.Args {
		if a.Kind != inst.KindAddressRegister || !a.Word.IsIndex() {
			continue
		}
		if !copied {
			out = in.Clone()
			copied = true
		}
		out.Args[i] = inst.Idx(a.Word, 0)
	}
	return out
}
