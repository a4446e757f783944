package inst

import "strings"

// Form is one supported instruction form, as listed by zasm -l.
type Form struct {
	Op           OpCode
	Operands     string // operand placeholders, e.g. "r, (IX+d)"
	Help         string
	Undocumented bool
}

// Placeholder legend used in Form.Operands:
//
//	r      A, B, C, D, E, H or L
//	h      IXH, IXL, IYH or IYL
//	n      8-bit value (-128..255)
//	nn     16-bit value
//	d      signed displacement
//	b      bit number 0..7
//	rr     register pair
//	cc     condition

// String renders the form as "MNEMONIC operands".
func (f Form) String() string {
	if f.Operands == "" {
		return f.Op.String()
	}
	return f.Op.String() + " " + f.Operands
}

var catalog []Form

// Catalog returns every supported instruction form in listing order.
func Catalog() []Form {
	return catalog
}

func init() {
	add := func(op OpCode, operands, help string) {
		catalog = append(catalog, Form{Op: op, Operands: operands, Help: help})
	}
	undoc := func(op OpCode, operands, help string) {
		catalog = append(catalog, Form{Op: op, Operands: operands, Help: help, Undocumented: true})
	}

	// Loads
	add(LD, "r, r", "")
	add(LD, "r, n", "")
	add(LD, "r, (HL)", "")
	add(LD, "r, (IX+d)", "")
	add(LD, "(HL), r", "")
	add(LD, "(IX+d), r", "")
	add(LD, "(HL), n", "")
	add(LD, "(IX+d), n", "")
	add(LD, "A, (BC)", "")
	add(LD, "A, (DE)", "")
	add(LD, "A, (nn)", "")
	add(LD, "(BC), A", "")
	add(LD, "(DE), A", "")
	add(LD, "(nn), A", "")
	add(LD, "A, I", "")
	add(LD, "A, R", "")
	add(LD, "I, A", "")
	add(LD, "R, A", "")
	add(LD, "rr, nn", "rr is BC, DE, HL, SP, IX or IY")
	add(LD, "rr, (nn)", "")
	add(LD, "(nn), rr", "")
	add(LD, "SP, HL", "also SP, IX and SP, IY")
	add(LD, "rr, rr", "BC, DE, HL: two 8-bit moves; HL, IX, IY: PUSH then POP")
	add(LD, "(HL), rr", "stores BC or DE through HL, HL is preserved")
	add(LD, "rr, (HL)", "loads BC or DE through HL, HL is preserved")
	add(LD, "(IX+d), rr", "stores BC, DE or HL at d and d+1")
	add(LD, "rr, (IX+d)", "loads BC, DE or HL from d and d+1")
	undoc(LD, "h, n", "")
	undoc(LD, "h, r", "r is A, B, C, D or E")
	undoc(LD, "r, h", "r is A, B, C, D or E")
	undoc(LD, "h, h", "both halves of the same index register")
	undoc(LD, "rr, IX", "BC or DE from IX or IY through the half registers")
	undoc(LD, "IX, rr", "IX or IY from BC or DE through the half registers")
	add(PUSH, "rr", "rr is BC, DE, HL, AF, IX or IY")
	add(POP, "rr", "rr is BC, DE, HL, AF, IX or IY")
	add(EX, "DE, HL", "")
	add(EX, "AF, AF'", "")
	add(EX, "(SP), HL", "also (SP), IX and (SP), IY")
	add(EXX, "", "")

	// Block transfer
	add(LDI, "", "")
	add(LDI, "dst, src", "LD dst, src then INC of the pointer")
	add(LDIR, "", "")
	add(LDD, "", "")
	add(LDD, "dst, src", "LD dst, src then DEC of the pointer")
	add(LDDR, "", "")
	add(CPI, "", "")
	add(CPIR, "", "")
	add(CPD, "", "")
	add(CPDR, "", "")

	// Arithmetic and logic
	for _, op := range []OpCode{ADD, ADC, SBC} {
		add(op, "A, r", "")
		add(op, "A, n", "")
		add(op, "A, (HL)", "")
		add(op, "A, (IX+d)", "")
		undoc(op, "A, h", "")
	}
	for _, op := range []OpCode{SUB, AND, XOR, OR, CP} {
		add(op, "r", "")
		add(op, "n", "")
		add(op, "(HL)", "")
		add(op, "(IX+d)", "")
		undoc(op, "h", "")
	}
	add(ADD, "HL, rr", "")
	add(ADD, "IX, rr", "rr is BC, DE, SP or the same index register")
	add(ADC, "HL, rr", "")
	add(SBC, "HL, rr", "")
	add(SUB, "HL, rr", "OR A then SBC HL, rr")
	for _, op := range []OpCode{INC, DEC} {
		add(op, "r", "")
		add(op, "(HL)", "")
		add(op, "(IX+d)", "")
		add(op, "rr", "")
		undoc(op, "h", "")
	}

	// General purpose and control
	add(DAA, "", "")
	add(CPL, "", "")
	add(NEG, "", "")
	add(CCF, "", "")
	add(SCF, "", "")
	add(NOP, "", "")
	add(HALT, "", "")
	add(DI, "", "")
	add(EI, "", "")
	add(IM, "n", "n is 0, 1 or 2")

	// Rotates and shifts
	add(RLCA, "", "")
	add(RLA, "", "")
	add(RRCA, "", "")
	add(RRA, "", "")
	for _, op := range []OpCode{RLC, RL, RRC, RR, SLA, SRA, SRL} {
		add(op, "r", "")
		add(op, "(HL)", "")
		add(op, "(IX+d)", "")
		undoc(op, "(IX+d), r", "result is also copied to r")
	}
	for _, op := range []OpCode{RL, RR, SLA, SRA, SRL} {
		add(op, "rr", "BC, DE or HL as a 16-bit value")
	}
	undoc(SLL, "r", "shift left, bit 0 set")
	undoc(SLL, "(HL)", "")
	undoc(SLL, "(IX+d)", "")
	undoc(SLL, "(IX+d), r", "")
	undoc(SLL, "rr", "")
	add(RLD, "", "")
	add(RRD, "", "")

	// Bits
	for _, op := range []OpCode{BIT, SET, RES} {
		add(op, "b, r", "")
		add(op, "b, (HL)", "")
		add(op, "b, (IX+d)", "")
	}
	undoc(SET, "b, (IX+d), r", "result is also copied to r")
	undoc(RES, "b, (IX+d), r", "result is also copied to r")

	// Jumps
	add(JP, "nn", "")
	add(JP, "cc, nn", "")
	add(JP, "(HL)", "also (IX) and (IY)")
	add(JR, "d", "d is -126..129")
	add(JR, "cc, d", "cc is NZ, Z, NC or C")
	add(DJNZ, "d", "")
	add(CALL, "nn", "")
	add(CALL, "cc, nn", "")
	add(RET, "", "")
	add(RET, "cc", "")
	add(RETI, "", "")
	add(RETN, "", "")
	add(RST, "n", "n is 0, 8, 16 .. 56")

	// Input and output
	add(IN, "A, (n)", "")
	add(IN, "r, (C)", "")
	undoc(IN, "F, (C)", "")
	add(INI, "", "")
	add(INIR, "", "")
	add(IND, "", "")
	add(INDR, "", "")
	add(OUT, "(n), A", "")
	add(OUT, "(C), r", "")
	undoc(OUT, "(C), 0", "")
	add(OUTI, "", "")
	add(OTIR, "", "")
	add(OUTD, "", "")
	add(OTDR, "", "")

	add(Binary, "n, ...", `raw bytes and "strings" (also DEFB)`)
}

// Listing renders the catalog the way zasm -l prints it.
// Undocumented forms are marked and omitted unless withUndocumented is set.
func Listing(withUndocumented bool) string {
	var sb strings.Builder
	sb.WriteString("Here's the list of all the supported instructions:\n")
	for _, f := range catalog {
		if f.Undocumented && !withUndocumented {
			continue
		}
		sb.WriteString("- ")
		sb.WriteString(f.String())
		if f.Help != "" {
			sb.WriteString(": ")
			sb.WriteString(f.Help)
		}
		if f.Undocumented {
			sb.WriteString(" [undocumented]")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
