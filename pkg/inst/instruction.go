package inst

import (
	"strconv"
	"strings"
)

// OpCode identifies a Z80 mnemonic family (not the raw byte encoding).
// Operand shapes are carried separately in Instruction.Args, so one OpCode
// covers every addressing mode of its mnemonic.
type OpCode uint8

const (
	// Loads and exchanges
	LD OpCode = iota
	PUSH
	POP
	EX
	EXX

	// Block transfer and search
	LDI
	LDIR
	LDD
	LDDR
	CPI
	CPIR
	CPD
	CPDR

	// 8-bit and 16-bit arithmetic and logic
	ADD
	ADC
	SUB
	SBC
	AND
	OR
	XOR
	CP
	INC
	DEC

	// General purpose arithmetic and CPU control
	DAA
	CPL
	NEG
	CCF
	SCF
	NOP
	HALT
	DI
	EI
	IM

	// Rotates and shifts
	RLCA
	RLA
	RRCA
	RRA
	RLC
	RL
	RRC
	RR
	SLA
	SRA
	SLL
	SRL
	RLD
	RRD

	// Bit set, reset and test
	BIT
	SET
	RES

	// Jumps, calls and returns
	JP
	JR
	DJNZ
	CALL
	RET
	RETI
	RETN
	RST

	// Input and output
	IN
	INI
	INIR
	IND
	INDR
	OUT
	OUTI
	OTIR
	OUTD
	OTDR

	// Binary splices pre-encoded bytes (Instruction.Data) into the stream.
	Binary

	OpCodeCount // sentinel
)

var opNames = [OpCodeCount]string{
	LD: "LD", PUSH: "PUSH", POP: "POP", EX: "EX", EXX: "EXX",
	LDI: "LDI", LDIR: "LDIR", LDD: "LDD", LDDR: "LDDR",
	CPI: "CPI", CPIR: "CPIR", CPD: "CPD", CPDR: "CPDR",
	ADD: "ADD", ADC: "ADC", SUB: "SUB", SBC: "SBC",
	AND: "AND", OR: "OR", XOR: "XOR", CP: "CP", INC: "INC", DEC: "DEC",
	DAA: "DAA", CPL: "CPL", NEG: "NEG", CCF: "CCF", SCF: "SCF",
	NOP: "NOP", HALT: "HALT", DI: "DI", EI: "EI", IM: "IM",
	RLCA: "RLCA", RLA: "RLA", RRCA: "RRCA", RRA: "RRA",
	RLC: "RLC", RL: "RL", RRC: "RRC", RR: "RR",
	SLA: "SLA", SRA: "SRA", SLL: "SLL", SRL: "SRL", RLD: "RLD", RRD: "RRD",
	BIT: "BIT", SET: "SET", RES: "RES",
	JP: "JP", JR: "JR", DJNZ: "DJNZ", CALL: "CALL",
	RET: "RET", RETI: "RETI", RETN: "RETN", RST: "RST",
	IN: "IN", INI: "INI", INIR: "INIR", IND: "IND", INDR: "INDR",
	OUT: "OUT", OUTI: "OUTI", OTIR: "OTIR", OUTD: "OUTD", OTDR: "OTDR",
	Binary: "DB",
}

func (op OpCode) String() string {
	if op < OpCodeCount {
		return opNames[op]
	}
	return "OpCode(" + strconv.Itoa(int(op)) + ")"
}

// Lookup returns the OpCode for a mnemonic, case-insensitively.
func Lookup(mnemonic string) (OpCode, bool) {
	m := strings.ToUpper(mnemonic)
	for op := OpCode(0); op < OpCodeCount; op++ {
		if opNames[op] == m {
			return op, true
		}
	}
	return 0, false
}

// Instruction is one Z80 instruction with fully resolved numeric operands.
//
// Cond is used by JP, JR, CALL and RET. N holds the IM mode, the RST target
// and the bit index of BIT, SET and RES. Data holds the bytes of Binary.
type Instruction struct {
	Op   OpCode
	Cond Condition
	N    int
	Args []Operand
	Data []byte
}

// New returns op applied to args.
func New(op OpCode, args ...Operand) Instruction {
	return Instruction{Op: op, Args: args}
}

// Cond returns a conditional JP, JR, CALL or RET.
func Cond(op OpCode, cc Condition, args ...Operand) Instruction {
	return Instruction{Op: op, Cond: cc, Args: args}
}

// Bit returns a BIT, SET or RES of bit n. An optional second operand is the
// register copy target of the indexed forms.
func Bit(op OpCode, n int, args ...Operand) Instruction {
	return Instruction{Op: op, N: n, Args: args}
}

// Num returns an instruction whose only operand is the number n (IM, RST).
func Num(op OpCode, n int) Instruction {
	return Instruction{Op: op, N: n}
}

// Raw returns a Binary instruction splicing data.
func Raw(data ...byte) Instruction {
	return Instruction{Op: Binary, Data: data}
}

// Clone returns a copy of in that shares no memory with it.
func (in Instruction) Clone() Instruction {
	out := in
	if in.Args != nil {
		out.Args = append([]Operand(nil), in.Args...)
	}
	if in.Data != nil {
		out.Data = append([]byte(nil), in.Data...)
	}
	return out
}

// String renders in as Z80 assembly, e.g. "LD A, (IX+5)".
func (in Instruction) String() string {
	buf := append([]byte(nil), in.Op.String()...)
	sep := " "
	put := func(s []byte) {
		buf = append(buf, sep...)
		buf = append(buf, s...)
		sep = ", "
	}

	switch in.Op {
	case Binary:
		for _, b := range in.Data {
			put(appendHex8(nil, b))
		}
		return string(buf)
	case IM, RST, BIT, SET, RES:
		put(strconv.AppendInt(nil, int64(in.N), 10))
	}
	if in.Cond != CondNone {
		put([]byte(in.Cond.String()))
	}
	for _, a := range in.Args {
		put(a.appendTo(nil))
	}
	return string(buf)
}
