package asm

import (
	"fmt"

	"github.com/oisee/z80-assembler/pkg/inst"
)

// encoder carries the instruction being encoded and the first range error
// hit by an operand helper. Arms return nil when their shape does not match.
type encoder struct {
	in  inst.Instruction
	err error
}

func (e *encoder) fail(format string, args ...any) {
	if e.err == nil {
		e.err = outOfRange(e.in, fmt.Sprintf(format, args...))
	}
}

// n returns an 8-bit immediate. Both signed and unsigned readings are allowed.
func (e *encoder) n(v int) byte {
	if v < -128 || v >= 0x100 {
		e.fail("value %d not in -128..255", v)
	}
	return byte(v)
}

// nn returns a 16-bit immediate or address, low byte first.
func (e *encoder) nn(v int) (byte, byte) {
	if v < 0 || v >= 0x10000 {
		e.fail("value %d not in 0..65535", v)
	}
	return byte(v), byte(v >> 8)
}

// d returns a signed index displacement.
func (e *encoder) d(v int) byte {
	if v < -128 || v > 127 {
		e.fail("displacement %d not in -128..127", v)
	}
	return byte(v)
}

func (e *encoder) port(v int) byte {
	if v < 0 || v > 0xFF {
		e.fail("port %d not in 0..255", v)
	}
	return byte(v)
}

func (e *encoder) bit(v int) byte {
	if v < 0 || v > 7 {
		e.fail("bit %d not in 0..7", v)
	}
	return byte(v) << 3
}

func (e *encoder) imm16(op ...byte) func(v int) []byte {
	return func(v int) []byte {
		lo, hi := e.nn(v)
		return append(op, lo, hi)
	}
}

// Encode returns the bytes of a macro-expanded instruction (see Expand).
// Only the documented instruction set is accepted.
func Encode(in inst.Instruction) ([]byte, error) {
	e := &encoder{in: in}
	b := e.encode()
	if e.err != nil {
		return nil, e.err
	}
	if len(b) == 0 {
		return nil, invalid(in)
	}
	return b, nil
}

// Operand shape predicates.
func isR(o inst.Operand) bool     { return o.Kind == inst.KindByteRegister }
func isConst(o inst.Operand) bool { return o.Kind == inst.KindConstant }
func isAddr(o inst.Operand) bool  { return o.Kind == inst.KindAddress }
func isWord(o inst.Operand) bool  { return o.Kind == inst.KindWordRegister }
func isHLi(o inst.Operand) bool   { return o.IsInd(inst.HL) }
func isIdx(o inst.Operand) bool {
	return o.Kind == inst.KindAddressRegisterOffset && o.Word.IsIndex()
}
func isIndexReg(o inst.Operand) bool { return isWord(o) && o.Word.IsIndex() }
func isPair(o inst.Operand) bool {
	_, _, ok := o.Word.Halves()
	return isWord(o) && ok
}

var implied = map[inst.OpCode][]byte{
	inst.EXX:  {0xD9},
	inst.LDI:  {0xED, 0xA0},
	inst.LDIR: {0xED, 0xB0},
	inst.LDD:  {0xED, 0xA8},
	inst.LDDR: {0xED, 0xB8},
	inst.CPI:  {0xED, 0xA1},
	inst.CPIR: {0xED, 0xB1},
	inst.CPD:  {0xED, 0xA9},
	inst.CPDR: {0xED, 0xB9},
	inst.DAA:  {0x27},
	inst.CPL:  {0x2F},
	inst.NEG:  {0xED, 0x44},
	inst.CCF:  {0x3F},
	inst.SCF:  {0x37},
	inst.NOP:  {0x00},
	inst.HALT: {0x76},
	inst.DI:   {0xF3},
	inst.EI:   {0xFB},
	inst.RLCA: {0x07},
	inst.RLA:  {0x17},
	inst.RRCA: {0x0F},
	inst.RRA:  {0x1F},
	inst.RLD:  {0xED, 0x6F},
	inst.RRD:  {0xED, 0x67},
	inst.RETI: {0xED, 0x4D},
	inst.RETN: {0xED, 0x45},
	inst.INI:  {0xED, 0xA2},
	inst.INIR: {0xED, 0xB2},
	inst.IND:  {0xED, 0xAA},
	inst.INDR: {0xED, 0xBA},
	inst.OUTI: {0xED, 0xA3},
	inst.OTIR: {0xED, 0xB3},
	inst.OUTD: {0xED, 0xAB},
	inst.OTDR: {0xED, 0xBB},
}

// aluOps maps the 8-bit ALU mnemonics to their register-form base opcode
// and their immediate-form opcode.
var aluOps = map[inst.OpCode][2]byte{
	inst.ADD: {0x80, 0xC6},
	inst.ADC: {0x88, 0xCE},
	inst.SUB: {0x90, 0xD6},
	inst.SBC: {0x98, 0xDE},
	inst.AND: {0xA0, 0xE6},
	inst.XOR: {0xA8, 0xEE},
	inst.OR:  {0xB0, 0xF6},
	inst.CP:  {0xB8, 0xFE},
}

// shiftOps maps the CB-prefixed rotates and shifts to their base opcode.
var shiftOps = map[inst.OpCode]byte{
	inst.RLC: 0x00,
	inst.RRC: 0x08,
	inst.RL:  0x10,
	inst.RR:  0x18,
	inst.SLA: 0x20,
	inst.SRA: 0x28,
	inst.SLL: 0x30,
	inst.SRL: 0x38,
}

var bitOps = map[inst.OpCode]byte{
	inst.BIT: 0x40,
	inst.RES: 0x80,
	inst.SET: 0xC0,
}

// wellFormed rejects fields the mnemonic does not use.
func wellFormed(in inst.Instruction) bool {
	switch in.Op {
	case inst.JP, inst.JR, inst.CALL, inst.RET:
	default:
		if in.Cond != inst.CondNone {
			return false
		}
	}
	switch in.Op {
	case inst.IM, inst.RST, inst.BIT, inst.SET, inst.RES:
	default:
		if in.N != 0 {
			return false
		}
	}
	return in.Op == inst.Binary || in.Data == nil
}

func (e *encoder) encode() []byte {
	in := e.in
	if !wellFormed(in) {
		return nil
	}
	if b, ok := implied[in.Op]; ok && len(in.Args) == 0 {
		return append([]byte(nil), b...)
	}

	switch in.Op {
	case inst.LD:
		if len(in.Args) == 2 {
			return e.ld(in.Args[0], in.Args[1])
		}
	case inst.PUSH, inst.POP:
		if len(in.Args) == 1 {
			return e.pushPop(in.Op, in.Args[0])
		}
	case inst.EX:
		if len(in.Args) == 2 {
			return e.ex(in.Args[0], in.Args[1])
		}
	case inst.LDI, inst.LDD:
		if len(in.Args) == 2 {
			return e.ldStep(in.Op, in.Args[0], in.Args[1])
		}
	case inst.ADD, inst.ADC, inst.SBC:
		if len(in.Args) == 2 {
			if in.Args[0].Is(inst.A) {
				return e.alu(in.Op, in.Args[1])
			}
			return e.alu16(in.Op, in.Args[0], in.Args[1])
		}
	case inst.SUB:
		switch len(in.Args) {
		case 1:
			return e.alu(in.Op, in.Args[0])
		case 2:
			return e.alu16(in.Op, in.Args[0], in.Args[1])
		}
	case inst.AND, inst.XOR, inst.OR, inst.CP:
		if len(in.Args) == 1 {
			return e.alu(in.Op, in.Args[0])
		}
	case inst.INC, inst.DEC:
		if len(in.Args) == 1 {
			return e.incDec(in.Op, in.Args[0])
		}
	case inst.IM:
		if len(in.Args) == 0 {
			return e.im(in.N)
		}
	case inst.RLC, inst.RRC, inst.RL, inst.RR, inst.SLA, inst.SRA, inst.SRL:
		if len(in.Args) == 1 {
			return e.shift(in.Op, in.Args[0])
		}
	case inst.BIT, inst.SET, inst.RES:
		if len(in.Args) == 1 {
			return e.bitOp(in.Op, in.N, in.Args[0])
		}
	case inst.JP:
		if len(in.Args) == 1 {
			return e.jp(in.Cond, in.Args[0])
		}
	case inst.JR:
		if len(in.Args) == 1 {
			return e.jr(in.Cond, in.Args[0])
		}
	case inst.DJNZ:
		if len(in.Args) == 1 && isConst(in.Args[0]) {
			return []byte{0x10, e.d(in.Args[0].Value)}
		}
	case inst.CALL:
		if len(in.Args) == 1 && isConst(in.Args[0]) {
			if in.Cond == inst.CondNone {
				return e.imm16(0xCD)(in.Args[0].Value)
			}
			return e.imm16(0xC4 | cc(in.Cond)<<3)(in.Args[0].Value)
		}
	case inst.RET:
		if len(in.Args) == 0 {
			if in.Cond == inst.CondNone {
				return []byte{0xC9}
			}
			return []byte{0xC0 | cc(in.Cond)<<3}
		}
	case inst.RST:
		if len(in.Args) == 0 {
			if in.N < 0 || in.N > 0x38 || in.N%8 != 0 {
				e.fail("RST target %d is not a multiple of 8 in 0..56", in.N)
				return nil
			}
			return []byte{0xC7 | byte(in.N)}
		}
	case inst.IN:
		if len(in.Args) == 2 {
			return e.in8(in.Args[0], in.Args[1])
		}
	case inst.OUT:
		if len(in.Args) == 2 {
			return e.out8(in.Args[0], in.Args[1])
		}
	case inst.Binary:
		if len(in.Args) == 0 && len(in.Data) > 0 {
			return append([]byte(nil), in.Data...)
		}
	}
	return nil
}

func (e *encoder) ld(dst, src inst.Operand) []byte {
	switch {
	// 8-bit loads
	case isR(dst) && isR(src):
		return []byte{0x40 | r(dst.Byte)<<3 | r(src.Byte)}
	case isR(dst) && isConst(src):
		return []byte{0x06 | r(dst.Byte)<<3, e.n(src.Value)}
	case isR(dst) && isHLi(src):
		return []byte{0x46 | r(dst.Byte)<<3}
	case isR(dst) && isIdx(src):
		return []byte{indexPrefix(src.Word), 0x46 | r(dst.Byte)<<3, e.d(src.Value)}
	case isHLi(dst) && isR(src):
		return []byte{0x70 | r(src.Byte)}
	case isIdx(dst) && isR(src):
		return []byte{indexPrefix(dst.Word), 0x70 | r(src.Byte), e.d(dst.Value)}
	case isHLi(dst) && isConst(src):
		return []byte{0x36, e.n(src.Value)}
	case isIdx(dst) && isConst(src):
		return []byte{indexPrefix(dst.Word), 0x36, e.d(dst.Value), e.n(src.Value)}

	// Accumulator to and from memory, I and R
	case dst.Is(inst.A) && src.IsInd(inst.BC):
		return []byte{0x0A}
	case dst.Is(inst.A) && src.IsInd(inst.DE):
		return []byte{0x1A}
	case dst.Is(inst.A) && isAddr(src):
		return e.imm16(0x3A)(src.Value)
	case dst.IsInd(inst.BC) && src.Is(inst.A):
		return []byte{0x02}
	case dst.IsInd(inst.DE) && src.Is(inst.A):
		return []byte{0x12}
	case isAddr(dst) && src.Is(inst.A):
		return e.imm16(0x32)(dst.Value)
	case dst.Is(inst.A) && src.Kind == inst.KindI:
		return []byte{0xED, 0x57}
	case dst.Is(inst.A) && src.Kind == inst.KindR:
		return []byte{0xED, 0x5F}
	case dst.Kind == inst.KindI && src.Is(inst.A):
		return []byte{0xED, 0x47}
	case dst.Kind == inst.KindR && src.Is(inst.A):
		return []byte{0xED, 0x4F}

	// 16-bit loads
	case isIndexReg(dst) && isConst(src):
		return e.imm16(indexPrefix(dst.Word), 0x21)(src.Value)
	case isWord(dst) && ddField.has(dst.Word) && isConst(src):
		return e.imm16(0x01 | ddField.value(dst.Word)<<4)(src.Value)
	case dst.IsWord(inst.HL) && isAddr(src):
		return e.imm16(0x2A)(src.Value)
	case isIndexReg(dst) && isAddr(src):
		return e.imm16(indexPrefix(dst.Word), 0x2A)(src.Value)
	case isWord(dst) && ddField.has(dst.Word) && isAddr(src):
		return e.imm16(0xED, 0x4B|ddField.value(dst.Word)<<4)(src.Value)
	case isAddr(dst) && src.IsWord(inst.HL):
		return e.imm16(0x22)(dst.Value)
	case isAddr(dst) && isIndexReg(src):
		return e.imm16(indexPrefix(src.Word), 0x22)(dst.Value)
	case isAddr(dst) && isWord(src) && ddField.has(src.Word):
		return e.imm16(0xED, 0x43|ddField.value(src.Word)<<4)(dst.Value)
	case dst.IsWord(inst.SP) && src.IsWord(inst.HL):
		return []byte{0xF9}
	case dst.IsWord(inst.SP) && isIndexReg(src):
		return []byte{indexPrefix(src.Word), 0xF9}
	}
	return e.ldWord(dst, src)
}

func (e *encoder) pushPop(op inst.OpCode, o inst.Operand) []byte {
	base := byte(0xC5)
	if op == inst.POP {
		base = 0xC1
	}
	switch {
	case isIndexReg(o):
		return []byte{indexPrefix(o.Word), base | 0x20}
	case isWord(o) && qqField.has(o.Word):
		return []byte{base | qqField.value(o.Word)<<4}
	}
	return nil
}

func (e *encoder) ex(a, b inst.Operand) []byte {
	switch {
	case a.IsWord(inst.DE) && b.IsWord(inst.HL):
		return []byte{0xEB}
	case a.IsWord(inst.AF) && b.IsWord(inst.AFAlt):
		return []byte{0x08}
	case a.IsInd(inst.SP) && b.IsWord(inst.HL):
		return []byte{0xE3}
	case a.IsInd(inst.SP) && isIndexReg(b):
		return []byte{indexPrefix(b.Word), 0xE3}
	}
	return nil
}

// alu encodes the 8-bit forms: ADD A, x / SUB x and friends.
func (e *encoder) alu(op inst.OpCode, src inst.Operand) []byte {
	codes := aluOps[op]
	switch {
	case isR(src):
		return []byte{codes[0] | r(src.Byte)}
	case isConst(src):
		return []byte{codes[1], e.n(src.Value)}
	case isHLi(src):
		return []byte{codes[0] | 6}
	case isIdx(src):
		return []byte{indexPrefix(src.Word), codes[0] | 6, e.d(src.Value)}
	}
	return nil
}

func (e *encoder) alu16(op inst.OpCode, dst, src inst.Operand) []byte {
	if !isWord(dst) || !isWord(src) {
		return nil
	}
	switch op {
	case inst.ADD:
		if dst.Word != inst.HL && !dst.Word.IsIndex() {
			return nil
		}
		f := addField(dst.Word)
		if !f.has(src.Word) {
			return nil
		}
		if dst.Word.IsIndex() {
			return []byte{indexPrefix(dst.Word), 0x09 | f.value(src.Word)<<4}
		}
		return []byte{0x09 | f.value(src.Word)<<4}
	case inst.ADC, inst.SBC, inst.SUB:
		if dst.Word != inst.HL || !ssField.has(src.Word) {
			return nil
		}
		ss := ssField.value(src.Word) << 4
		switch op {
		case inst.ADC:
			return []byte{0xED, 0x4A | ss}
		case inst.SBC:
			return []byte{0xED, 0x42 | ss}
		}
		// SUB HL, ss is OR A; SBC HL, ss.
		return []byte{0xB7, 0xED, 0x42 | ss}
	}
	return nil
}

func (e *encoder) incDec(op inst.OpCode, o inst.Operand) []byte {
	var dec byte
	if op == inst.DEC {
		dec = 1
	}
	switch {
	case isR(o):
		return []byte{0x04 | dec | r(o.Byte)<<3}
	case isHLi(o):
		return []byte{0x34 | dec}
	case isIdx(o):
		return []byte{indexPrefix(o.Word), 0x34 | dec, e.d(o.Value)}
	case isIndexReg(o):
		return []byte{indexPrefix(o.Word), 0x23 | dec<<3}
	case isWord(o) && ssField.has(o.Word):
		return []byte{0x03 | dec<<3 | ssField.value(o.Word)<<4}
	}
	return nil
}

func (e *encoder) im(mode int) []byte {
	switch mode {
	case 0:
		return []byte{0xED, 0x46}
	case 1:
		return []byte{0xED, 0x56}
	case 2:
		return []byte{0xED, 0x5E}
	}
	e.fail("interrupt mode %d not in 0..2", mode)
	return nil
}

// shift encodes the documented CB rotates and shifts. SLL is undocumented
// and handled by the undocumented encoder.
func (e *encoder) shift(op inst.OpCode, o inst.Operand) []byte {
	base := shiftOps[op]
	switch {
	case isR(o):
		return []byte{0xCB, base | r(o.Byte)}
	case isHLi(o):
		return []byte{0xCB, base | 6}
	case isIdx(o):
		return []byte{indexPrefix(o.Word), 0xCB, e.d(o.Value), base | 6}
	case isPair(o):
		return shiftPair(op, o.Word)
	}
	return nil
}

func (e *encoder) bitOp(op inst.OpCode, n int, o inst.Operand) []byte {
	base := bitOps[op]
	switch {
	case isR(o):
		return []byte{0xCB, base | e.bit(n) | r(o.Byte)}
	case isHLi(o):
		return []byte{0xCB, base | e.bit(n) | 6}
	case isIdx(o):
		return []byte{indexPrefix(o.Word), 0xCB, e.d(o.Value), base | e.bit(n) | 6}
	}
	return nil
}

func (e *encoder) jp(c inst.Condition, o inst.Operand) []byte {
	if c != inst.CondNone {
		if isConst(o) {
			return e.imm16(0xC2 | cc(c)<<3)(o.Value)
		}
		return nil
	}
	switch {
	case isConst(o):
		return e.imm16(0xC3)(o.Value)
	case isHLi(o) || o.IsWord(inst.HL):
		return []byte{0xE9}
	case (o.Kind == inst.KindAddressRegister || o.Kind == inst.KindWordRegister) && o.Word.IsIndex():
		return []byte{indexPrefix(o.Word), 0xE9}
	}
	return nil
}

var jrOps = map[inst.Condition]byte{
	inst.CondNone: 0x18,
	inst.CondNZ:   0x20,
	inst.CondZ:    0x28,
	inst.CondNC:   0x30,
	inst.CondC:    0x38,
}

func (e *encoder) jr(c inst.Condition, o inst.Operand) []byte {
	op, ok := jrOps[c]
	if !ok || !isConst(o) {
		return nil
	}
	if o.Value < -126 || o.Value > 129 {
		e.fail("JR offset %d not in -126..129", o.Value)
		return nil
	}
	return []byte{op, byte(o.Value)}
}

func (e *encoder) in8(dst, src inst.Operand) []byte {
	switch {
	case dst.Is(inst.A) && src.Kind == inst.KindPort:
		return []byte{0xDB, e.port(src.Value)}
	case isR(dst) && src.IsPortC():
		return []byte{0xED, 0x40 | r(dst.Byte)<<3}
	}
	return nil
}

func (e *encoder) out8(dst, src inst.Operand) []byte {
	switch {
	case dst.Kind == inst.KindPort && src.Is(inst.A):
		return []byte{0xD3, e.port(dst.Value)}
	case dst.IsPortC() && isR(src):
		return []byte{0xED, 0x41 | r(src.Byte)<<3}
	}
	return nil
}
