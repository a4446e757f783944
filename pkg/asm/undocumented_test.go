package asm_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/oisee/z80-assembler/pkg/asm"
	. "github.com/oisee/z80-assembler/pkg/inst"
)

var undoc = asm.Config{Undocumented: true}

var undocumentedCases = []encodeCase{
	{New(ADD, R8(A), Half(IXH)), []byte{0xDD, 0x84}},
	{New(ADD, R8(A), Half(IXL)), []byte{0xDD, 0x85}},
	{New(ADC, R8(A), Half(IYH)), []byte{0xFD, 0x8C}},
	{New(SBC, R8(A), Half(IYL)), []byte{0xFD, 0x9D}},
	{New(SUB, Half(IXH)), []byte{0xDD, 0x94}},
	{New(AND, Half(IXL)), []byte{0xDD, 0xA5}},
	{New(XOR, Half(IYH)), []byte{0xFD, 0xAC}},
	{New(OR, Half(IYL)), []byte{0xFD, 0xB5}},
	{New(CP, Half(IXH)), []byte{0xDD, 0xBC}},
	{New(INC, Half(IXH)), []byte{0xDD, 0x24}},
	{New(INC, Half(IXL)), []byte{0xDD, 0x2C}},
	{New(DEC, Half(IYH)), []byte{0xFD, 0x25}},
	{New(DEC, Half(IYL)), []byte{0xFD, 0x2D}},
	{New(LD, Half(IXH), Imm(0x12)), []byte{0xDD, 0x26, 0x12}},
	{New(LD, Half(IYL), Imm(0x12)), []byte{0xFD, 0x2E, 0x12}},
	{New(LD, R8(A), Half(IXH)), []byte{0xDD, 0x7C}},
	{New(LD, R8(B), Half(IXL)), []byte{0xDD, 0x45}},
	{New(LD, R8(E), Half(IYL)), []byte{0xFD, 0x5D}},
	{New(LD, Half(IXH), R8(A)), []byte{0xDD, 0x67}},
	{New(LD, Half(IXL), R8(B)), []byte{0xDD, 0x68}},
	{New(LD, Half(IYH), R8(E)), []byte{0xFD, 0x63}},
	{New(LD, Half(IXH), Half(IXH)), []byte{0xDD, 0x64}},
	{New(LD, Half(IXH), Half(IXL)), []byte{0xDD, 0x65}},
	{New(LD, Half(IXL), Half(IXH)), []byte{0xDD, 0x6C}},
	{New(LD, Half(IYL), Half(IYL)), []byte{0xFD, 0x6D}},
	{New(SLL, R8(B)), []byte{0xCB, 0x30}},
	{New(SLL, R8(A)), []byte{0xCB, 0x37}},
	{New(SLL, Ind(HL)), []byte{0xCB, 0x36}},
	{New(SLL, Ind(IX)), []byte{0xDD, 0xCB, 0x00, 0x36}},
	{New(SLL, Idx(IY, 4)), []byte{0xFD, 0xCB, 0x04, 0x36}},
	{New(SLL, Ind(IX), R8(A)), []byte{0xDD, 0xCB, 0x00, 0x37}},
	{New(SLL, R16(BC)), []byte{0xCB, 0x31, 0xCB, 0x10}},
	{New(SLL, R16(HL)), []byte{0xCB, 0x35, 0xCB, 0x14}},
	{New(RL, Ind(IX), R8(A)), []byte{0xDD, 0xCB, 0x00, 0x17}},
	{New(RL, Ind(IX), R8(B)), []byte{0xDD, 0xCB, 0x00, 0x10}},
	{New(RLC, Idx(IY, -1), R8(L)), []byte{0xFD, 0xCB, 0xFF, 0x05}},
	{Bit(SET, 0, Ind(IX), R8(A)), []byte{0xDD, 0xCB, 0x00, 0xC7}},
	{Bit(RES, 7, Idx(IY, 2), R8(C)), []byte{0xFD, 0xCB, 0x02, 0xB9}},
	{New(OUT, PortReg(C), Imm(0)), []byte{0xED, 0x71}},
	{New(IN, RegF, PortReg(C)), []byte{0xED, 0x70}},
	{New(LD, R16(BC), R16(IX)), []byte{0xDD, 0x44, 0xDD, 0x4D}},
	{New(LD, R16(DE), R16(IX)), []byte{0xDD, 0x54, 0xDD, 0x5D}},
	{New(LD, R16(IX), R16(BC)), []byte{0xDD, 0x69, 0xDD, 0x60}},
	{New(LD, R16(IY), R16(DE)), []byte{0xFD, 0x6B, 0xFD, 0x62}},
	{New(LD, R16(IX), R16(IX)), []byte{0xDD, 0x6D, 0xDD, 0x64}},
}

func TestUndocumented(t *testing.T) {
	checkEncodings(t, undoc, undocumentedCases)
}

// TestUndocumentedGated verifies every undocumented form fails without the flag.
func TestUndocumentedGated(t *testing.T) {
	for _, tc := range undocumentedCases {
		got, err := doc.Encode(tc.in)
		if err == nil {
			t.Errorf("%s: encoded to % X without the undocumented flag", tc.in, got)
			continue
		}
		if !errors.Is(err, asm.ErrUndocumented) {
			t.Errorf("%s: err = %v, want ErrUndocumented", tc.in, err)
		}
	}
}

// An undocumented form with a bad operand is out of range whatever the flag.
func TestUndocumentedOutOfRange(t *testing.T) {
	bad := []Instruction{
		Bit(SET, 9, Idx(IX, 0), R8(B)),
		Bit(RES, 0, Idx(IY, 200), R8(A)),
		New(LD, Half(IXH), Imm(256)),
		New(SLL, Idx(IX, -129)),
	}
	for _, cfg := range []asm.Config{doc, undoc} {
		checkErrors(t, cfg, bad, asm.ErrOutOfRange)
	}
	for _, in := range bad {
		if _, err := doc.Encode(in); errors.Is(err, asm.ErrUndocumented) {
			t.Errorf("%s: err = %v, want no ErrUndocumented", in, err)
		}
	}
}

func TestGatingAddIXH(t *testing.T) {
	in := New(ADD, R8(A), Half(IXH))
	on, err := undoc.Encode(in)
	if err != nil || !bytes.Equal(on, []byte{0xDD, 0x84}) {
		t.Fatalf("enabled: % X, %v", on, err)
	}
	off, err := doc.Encode(in)
	if err == nil || bytes.Equal(on, off) {
		t.Errorf("disabled: % X, %v; want failure", off, err)
	}
}

func TestUndocumentedDoesNotChangeDocumented(t *testing.T) {
	for _, in := range []Instruction{
		New(LD, R8(A), R8(B)),
		New(RL, R16(BC)),
		New(LD, R16(HL), R16(IX)),
		Bit(SET, 1, Ind(IX)),
	} {
		a, err1 := doc.Encode(in)
		b, err2 := undoc.Encode(in)
		if err1 != nil || err2 != nil || !bytes.Equal(a, b) {
			t.Errorf("%s: % X (%v) vs % X (%v)", in, a, err1, b, err2)
		}
	}
}

func TestUndocumentedInvalid(t *testing.T) {
	bad := []Instruction{
		New(LD, Half(IXH), Half(IYL)),
		New(LD, Half(IXH), R8(H)),
		New(LD, R8(L), Half(IXL)),
		New(ADD, R8(B), Half(IXH)),
		New(OUT, PortReg(C), Imm(1)),
		New(IN, RegF, Port(1)),
		New(LD, R16(IX), R16(AF)),
		Bit(BIT, 0, Ind(IX), R8(A)),
		New(RL, Ind(HL), R8(A)),
	}
	for _, in := range bad {
		if _, err := undoc.Encode(in); !errors.Is(err, asm.ErrInvalid) {
			t.Errorf("%s: err = %v, want ErrInvalid", in, err)
		}
	}
	if _, err := undoc.Encode(New(LD, Half(IXH), Imm(256))); !errors.Is(err, asm.ErrOutOfRange) {
		t.Errorf("LD IXH, 256: err = %v, want ErrOutOfRange", err)
	}
}
