package inst

// ByteRegister is one of the seven 8-bit general purpose registers.
// Declaration order is A first; it has nothing to do with the 3-bit opcode
// field value, which lives in the asm register tables.
type ByteRegister uint8

const (
	A ByteRegister = iota
	B
	C
	D
	E
	H
	L
)

var byteRegNames = [...]string{"A", "B", "C", "D", "E", "H", "L"}

func (r ByteRegister) String() string {
	if int(r) < len(byteRegNames) {
		return byteRegNames[r]
	}
	return "?"
}

// WordRegister is a 16-bit register or register pair.
// The primed (Alt) pairs are the shadow set. They never appear in an opcode
// field and exist so that EX AF, AF' can be written.
type WordRegister uint8

const (
	AF WordRegister = iota
	BC
	DE
	HL
	AFAlt
	BCAlt
	DEAlt
	HLAlt
	IX
	IY
	SP
)

var wordRegNames = [...]string{"AF", "BC", "DE", "HL", "AF'", "BC'", "DE'", "HL'", "IX", "IY", "SP"}

func (r WordRegister) String() string {
	if int(r) < len(wordRegNames) {
		return wordRegNames[r]
	}
	return "?"
}

// IsIndex reports whether r is IX or IY.
func (r WordRegister) IsIndex() bool {
	return r == IX || r == IY
}

// Halves returns the high and low byte registers of BC, DE or HL.
// ok is false for every other register.
func (r WordRegister) Halves() (hi, lo ByteRegister, ok bool) {
	switch r {
	case BC:
		return B, C, true
	case DE:
		return D, E, true
	case HL:
		return H, L, true
	}
	return 0, 0, false
}

// UndocumentedRegister is one 8-bit half of IX or IY.
// It is a separate type from ByteRegister so that an instruction using it can
// only be encoded by the undocumented encoder.
type UndocumentedRegister uint8

const (
	IXH UndocumentedRegister = iota
	IXL
	IYH
	IYL
)

var undocRegNames = [...]string{"IXH", "IXL", "IYH", "IYL"}

func (r UndocumentedRegister) String() string {
	if int(r) < len(undocRegNames) {
		return undocRegNames[r]
	}
	return "?"
}

// Index returns the index register r belongs to.
func (r UndocumentedRegister) Index() WordRegister {
	if r == IYH || r == IYL {
		return IY
	}
	return IX
}

// High reports whether r is the high half of its index register.
func (r UndocumentedRegister) High() bool {
	return r == IXH || r == IYH
}

// Condition is a flag test used by JP, JR, CALL and RET.
// CondNone (the zero value) is the unconditional form.
type Condition uint8

const (
	CondNone Condition = iota
	CondZ
	CondNZ
	CondC
	CondNC
	CondPO
	CondPE
	CondP
	CondM
)

var condNames = [...]string{"", "Z", "NZ", "C", "NC", "PO", "PE", "P", "M"}

func (c Condition) String() string {
	if int(c) < len(condNames) {
		return condNames[c]
	}
	return "?"
}
