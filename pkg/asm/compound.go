package asm

import "github.com/oisee/z80-assembler/pkg/inst"

// Compound forms: mnemonics the Z80 has no single opcode for, encoded as a
// short sequence of real instructions. Word values are little-endian, so the
// low register (C, E, L) goes to the lower address.

func push(reg inst.WordRegister) []byte {
	if reg.IsIndex() {
		return []byte{indexPrefix(reg), 0xE5}
	}
	return []byte{0xC5 | qqField.value(reg)<<4}
}

func pop(reg inst.WordRegister) []byte {
	if reg.IsIndex() {
		return []byte{indexPrefix(reg), 0xE1}
	}
	return []byte{0xC1 | qqField.value(reg)<<4}
}

// step returns INC or DEC of a pointer register.
func step(op inst.OpCode, reg inst.WordRegister) []byte {
	var dec byte
	if op == inst.LDD {
		dec = 0x08
	}
	if reg.IsIndex() {
		return []byte{indexPrefix(reg), 0x23 | dec}
	}
	return []byte{0x03 | dec | ssField.value(reg)<<4}
}

// pairDisp returns the displacements of the low and high byte of a word
// stored at (IX+d).
func (e *encoder) pairDisp(d int) (byte, byte) {
	if d < -128 || d > 126 {
		e.fail("displacement %d and %d not both in -128..127", d, d+1)
	}
	return byte(d), byte(d + 1)
}

func isStackMovable(o inst.Operand) bool {
	return isWord(o) && (o.Word == inst.HL || o.Word.IsIndex())
}

// ldWord encodes the 16-bit LD forms built from two 8-bit moves or from a
// PUSH/POP pair. HL is preserved by the (HL) forms.
func (e *encoder) ldWord(dst, src inst.Operand) []byte {
	switch {
	case isHLi(dst) && isPair(src) && src.Word != inst.HL:
		hi, lo, _ := src.Word.Halves()
		return []byte{0x70 | r(lo), 0x23, 0x70 | r(hi), 0x2B}
	case isPair(dst) && dst.Word != inst.HL && isHLi(src):
		hi, lo, _ := dst.Word.Halves()
		return []byte{0x46 | r(lo)<<3, 0x23, 0x46 | r(hi)<<3, 0x2B}
	case isIdx(dst) && isPair(src):
		hi, lo, _ := src.Word.Halves()
		p := indexPrefix(dst.Word)
		d0, d1 := e.pairDisp(dst.Value)
		return []byte{p, 0x70 | r(lo), d0, p, 0x70 | r(hi), d1}
	case isPair(dst) && isIdx(src):
		hi, lo, _ := dst.Word.Halves()
		p := indexPrefix(src.Word)
		d0, d1 := e.pairDisp(src.Value)
		return []byte{p, 0x46 | r(lo)<<3, d0, p, 0x46 | r(hi)<<3, d1}
	case isPair(dst) && isPair(src):
		dh, dl, _ := dst.Word.Halves()
		sh, sl, _ := src.Word.Halves()
		return []byte{0x40 | r(dh)<<3 | r(sh), 0x40 | r(dl)<<3 | r(sl)}
	case isStackMovable(dst) && isStackMovable(src) && dst.Word != src.Word:
		return append(push(src.Word), pop(dst.Word)...)
	}
	return nil
}

func isPointer(o inst.Operand) bool {
	return isHLi(o) || o.IsInd(inst.BC) || o.IsInd(inst.DE) || isIdx(o)
}

// ldStep encodes LDI and LDD with operands: the load, then INC (LDI) or
// DEC (LDD) of the pointer register.
func (e *encoder) ldStep(op inst.OpCode, dst, src inst.Operand) []byte {
	var ptr inst.Operand
	switch {
	case isPointer(dst) && (isR(src) || isConst(src)):
		ptr = dst
	case isR(dst) && isPointer(src):
		ptr = src
	case op == inst.LDI:
		return e.ldiWord(dst, src)
	default:
		return nil
	}
	load := e.ld(dst, src)
	if load == nil {
		return nil
	}
	return append(load, step(op, ptr.Word)...)
}

// ldiWord moves a register pair through a pointer, stepping the pointer
// after each byte.
func (e *encoder) ldiWord(dst, src inst.Operand) []byte {
	switch {
	case isHLi(dst) && isPair(src) && src.Word != inst.HL:
		hi, lo, _ := src.Word.Halves()
		return []byte{0x70 | r(lo), 0x23, 0x70 | r(hi), 0x23}
	case isPair(dst) && dst.Word != inst.HL && isHLi(src):
		hi, lo, _ := dst.Word.Halves()
		return []byte{0x46 | r(lo)<<3, 0x23, 0x46 | r(hi)<<3, 0x23}
	case isIdx(dst) && isPair(src):
		hi, lo, _ := src.Word.Halves()
		p, d := indexPrefix(dst.Word), e.d(dst.Value)
		return []byte{p, 0x70 | r(lo), d, p, 0x23, p, 0x70 | r(hi), d, p, 0x23}
	case isPair(dst) && isIdx(src):
		hi, lo, _ := dst.Word.Halves()
		p, d := indexPrefix(src.Word), e.d(src.Value)
		return []byte{p, 0x46 | r(lo)<<3, d, p, 0x23, p, 0x46 | r(hi)<<3, d, p, 0x23}
	}
	return nil
}

// shiftPair encodes a 16-bit rotate or shift of BC, DE or HL as two CB
// operations chained through the carry flag.
func shiftPair(op inst.OpCode, reg inst.WordRegister) []byte {
	hi, lo, _ := reg.Halves()
	switch op {
	case inst.RL:
		return []byte{0xCB, 0x10 | r(lo), 0xCB, 0x10 | r(hi)}
	case inst.RR:
		return []byte{0xCB, 0x18 | r(hi), 0xCB, 0x18 | r(lo)}
	case inst.SLA:
		if reg == inst.HL {
			return []byte{0x29} // ADD HL, HL
		}
		return []byte{0xCB, 0x20 | r(lo), 0xCB, 0x10 | r(hi)}
	case inst.SLL:
		return []byte{0xCB, 0x30 | r(lo), 0xCB, 0x10 | r(hi)}
	case inst.SRA:
		return []byte{0xCB, 0x28 | r(hi), 0xCB, 0x18 | r(lo)}
	case inst.SRL:
		return []byte{0xCB, 0x38 | r(hi), 0xCB, 0x18 | r(lo)}
	}
	return nil
}
