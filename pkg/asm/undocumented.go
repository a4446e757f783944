package asm

import "github.com/oisee/z80-assembler/pkg/inst"

// EncodeUndocumented returns the bytes of a macro-expanded instruction that
// only exists as undocumented silicon behavior: SLL, the IXH/IXL/IYH/IYL
// halves, OUT (C), 0, IN F, (C) and the indexed CB forms that copy their
// result to a register.
func EncodeUndocumented(in inst.Instruction) ([]byte, error) {
	e := &encoder{in: in}
	var b []byte
	if wellFormed(in) {
		b = e.undocumented()
	}
	if e.err != nil {
		return nil, e.err
	}
	if len(b) == 0 {
		return nil, invalid(in)
	}
	return b, nil
}

func isHalf(o inst.Operand) bool { return o.Kind == inst.KindUndocumented }

// halfField is the r field an index half takes the place of: H for the high
// half, L for the low one.
func halfField(h inst.UndocumentedRegister) byte {
	if h.High() {
		return 4
	}
	return 5
}

// halfPrefix returns the prefix selecting the index register of h.
func halfPrefix(h inst.UndocumentedRegister) byte {
	return indexPrefix(h.Index())
}

// belowH reports whether o is A, B, C, D or E: the registers that keep their
// meaning under a DD or FD prefix.
func belowH(o inst.Operand) bool {
	return isR(o) && o.Byte != inst.H && o.Byte != inst.L
}

func (e *encoder) undocumented() []byte {
	in := e.in
	switch in.Op {
	case inst.SLL:
		if len(in.Args) == 1 {
			return e.sll(in.Args[0])
		}
		if len(in.Args) == 2 {
			return e.shiftCopy(in.Op, in.Args[0], in.Args[1])
		}
	case inst.RLC, inst.RRC, inst.RL, inst.RR, inst.SLA, inst.SRA, inst.SRL:
		if len(in.Args) == 2 {
			return e.shiftCopy(in.Op, in.Args[0], in.Args[1])
		}
	case inst.SET, inst.RES:
		if len(in.Args) == 2 && isIdx(in.Args[0]) && isR(in.Args[1]) {
			o := in.Args[0]
			return []byte{indexPrefix(o.Word), 0xCB, e.d(o.Value), bitOps[in.Op] | e.bit(in.N) | r(in.Args[1].Byte)}
		}
	case inst.ADD, inst.ADC, inst.SBC:
		if len(in.Args) == 2 && in.Args[0].Is(inst.A) && isHalf(in.Args[1]) {
			h := in.Args[1].Half
			return []byte{halfPrefix(h), aluOps[in.Op][0] | halfField(h)}
		}
	case inst.SUB, inst.AND, inst.XOR, inst.OR, inst.CP:
		if len(in.Args) == 1 && isHalf(in.Args[0]) {
			h := in.Args[0].Half
			return []byte{halfPrefix(h), aluOps[in.Op][0] | halfField(h)}
		}
	case inst.INC, inst.DEC:
		if len(in.Args) == 1 && isHalf(in.Args[0]) {
			h := in.Args[0].Half
			op := byte(0x04)
			if in.Op == inst.DEC {
				op = 0x05
			}
			return []byte{halfPrefix(h), op | halfField(h)<<3}
		}
	case inst.LD:
		if len(in.Args) == 2 {
			return e.ldHalf(in.Args[0], in.Args[1])
		}
	case inst.IN:
		if len(in.Args) == 2 && in.Args[0].Kind == inst.KindF && in.Args[1].IsPortC() {
			return []byte{0xED, 0x70}
		}
	case inst.OUT:
		if len(in.Args) == 2 && in.Args[0].IsPortC() && isConst(in.Args[1]) && in.Args[1].Value == 0 {
			return []byte{0xED, 0x71}
		}
	}
	return nil
}

func (e *encoder) sll(o inst.Operand) []byte {
	switch {
	case isR(o):
		return []byte{0xCB, 0x30 | r(o.Byte)}
	case isHLi(o):
		return []byte{0xCB, 0x36}
	case isIdx(o):
		return []byte{indexPrefix(o.Word), 0xCB, e.d(o.Value), 0x36}
	case isPair(o):
		return shiftPair(inst.SLL, o.Word)
	}
	return nil
}

// shiftCopy encodes RLC (IX+d), r and friends: the shifted memory byte is
// also written to r.
func (e *encoder) shiftCopy(op inst.OpCode, o, copyTo inst.Operand) []byte {
	if !isIdx(o) || !isR(copyTo) {
		return nil
	}
	return []byte{indexPrefix(o.Word), 0xCB, e.d(o.Value), shiftOps[op] | r(copyTo.Byte)}
}

// ldHalf encodes the loads that name an index half, and the word moves
// between BC/DE and IX/IY built from them.
func (e *encoder) ldHalf(dst, src inst.Operand) []byte {
	switch {
	case isHalf(dst) && isConst(src):
		return []byte{halfPrefix(dst.Half), 0x06 | halfField(dst.Half)<<3, e.n(src.Value)}
	case belowH(dst) && isHalf(src):
		return []byte{halfPrefix(src.Half), 0x40 | r(dst.Byte)<<3 | halfField(src.Half)}
	case isHalf(dst) && belowH(src):
		return []byte{halfPrefix(dst.Half), 0x40 | halfField(dst.Half)<<3 | r(src.Byte)}
	case isHalf(dst) && isHalf(src) && dst.Half.Index() == src.Half.Index():
		return []byte{halfPrefix(dst.Half), 0x40 | halfField(dst.Half)<<3 | halfField(src.Half)}

	case isPair(dst) && dst.Word != inst.HL && isIndexReg(src):
		hi, lo, _ := dst.Word.Halves()
		p := indexPrefix(src.Word)
		return []byte{p, 0x40 | r(hi)<<3 | 4, p, 0x40 | r(lo)<<3 | 5}
	case isIndexReg(dst) && isPair(src) && src.Word != inst.HL:
		hi, lo, _ := src.Word.Halves()
		p := indexPrefix(dst.Word)
		return []byte{p, 0x40 | 5<<3 | r(lo), p, 0x40 | 4<<3 | r(hi)}
	case isIndexReg(dst) && dst == src:
		p := indexPrefix(dst.Word)
		return []byte{p, 0x6D, p, 0x64}
	}
	return nil
}
