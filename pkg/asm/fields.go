package asm

import (
	"fmt"

	"github.com/oisee/z80-assembler/pkg/inst"
)

// rField is the 3-bit register field, indexed by A, B, C, D, E, H, L.
var rField = [7]byte{7, 0, 1, 2, 3, 4, 5}

// ccField is the 3-bit condition field, indexed by inst.Condition.
// CondNone has no encoding.
var ccField = [9]byte{0xFF, 1, 0, 3, 2, 4, 5, 6, 7}

func r(reg inst.ByteRegister) byte {
	return rField[reg]
}

func cc(c inst.Condition) byte {
	v := ccField[c]
	if v == 0xFF {
		panic(fmt.Sprintf("asm: condition %d has no cc encoding", c))
	}
	return v
}

// fieldTable is one of the 2-bit register pair fields of the Z80 manual.
// The encoder checks has before calling value; value panics on a register
// outside the table, since that means dispatch accepted a shape it must not.
type fieldTable struct {
	name   string
	values map[inst.WordRegister]byte
}

func (t fieldTable) has(reg inst.WordRegister) bool {
	_, ok := t.values[reg]
	return ok
}

func (t fieldTable) value(reg inst.WordRegister) byte {
	v, ok := t.values[reg]
	if !ok {
		panic(fmt.Sprintf("asm: %s field has no encoding for %s", t.name, reg))
	}
	return v
}

var (
	// ss: 16-bit arithmetic (ADD/ADC/SBC HL, INC/DEC rr)
	ssField = fieldTable{"ss", map[inst.WordRegister]byte{inst.BC: 0, inst.DE: 1, inst.HL: 2, inst.SP: 3}}
	// qq: PUSH/POP
	qqField = fieldTable{"qq", map[inst.WordRegister]byte{inst.BC: 0, inst.DE: 1, inst.HL: 2, inst.AF: 3}}
	// pp: ADD IX, pp
	ppField = fieldTable{"pp", map[inst.WordRegister]byte{inst.BC: 0, inst.DE: 1, inst.IX: 2, inst.SP: 3}}
	// rr: ADD IY, rr
	rrField = fieldTable{"rr", map[inst.WordRegister]byte{inst.BC: 0, inst.DE: 1, inst.IY: 2, inst.SP: 3}}
	// dd: LD dd, nn and LD dd, (nn)
	ddField = fieldTable{"dd", map[inst.WordRegister]byte{inst.BC: 0, inst.DE: 1, inst.HL: 2, inst.SP: 3}}
)

// indexPrefix returns 0xDD for IX and 0xFD for IY.
func indexPrefix(reg inst.WordRegister) byte {
	switch reg {
	case inst.IX:
		return 0xDD
	case inst.IY:
		return 0xFD
	}
	panic(fmt.Sprintf("asm: %s is not an index register", reg))
}

// addField returns the table used by ADD reg, rr.
func addField(reg inst.WordRegister) fieldTable {
	switch reg {
	case inst.IX:
		return ppField
	case inst.IY:
		return rrField
	}
	return ssField
}
