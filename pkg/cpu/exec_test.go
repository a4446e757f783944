package cpu

import (
	"errors"
	"testing"
)

// TestFlagHelpers verifies sign, zero and parity computation.
func TestFlagHelpers(t *testing.T) {
	if sz(0)&FlagZ == 0 {
		t.Error("sz(0) should have Z flag")
	}
	if sz(0x80)&FlagS == 0 {
		t.Error("sz(0x80) should have S flag")
	}
	if szp(0)&FlagP == 0 {
		t.Error("szp(0) should have P flag (even parity)")
	}
	if szp(1)&FlagP != 0 {
		t.Error("szp(1) should NOT have P flag (odd parity)")
	}
	if szp(0xFF)&FlagP == 0 {
		t.Error("szp(0xFF) should have P flag")
	}
}

func TestLoads(t *testing.T) {
	s := &State{}
	s.SetHL(0x4000)
	s.IX = 0x5000
	s.B = 0x12
	s.C = 0x34
	code := []byte{
		0x78,             // LD A, B
		0x71,             // LD (HL), C
		0xDD, 0x70, 0x05, // LD (IX+5), B
		0xDD, 0x5E, 0xFF, // LD E, (IX-1)
		0x36, 0x99, // LD (HL), 99h
		0xDD, 0x36, 0x02, 0x77, // LD (IX+2), 77h
		0x16, 0xAB, // LD D, 0ABh
	}
	s.Mem[0x4FFF] = 0x5A
	if err := Run(s, code); err != nil {
		t.Fatal(err)
	}
	if s.A != 0x12 {
		t.Errorf("A = 0x%02X, want 0x12", s.A)
	}
	if s.Mem[0x4000] != 0x99 {
		t.Errorf("(HL) = 0x%02X, want 0x99", s.Mem[0x4000])
	}
	if s.Mem[0x5005] != 0x12 {
		t.Errorf("(IX+5) = 0x%02X, want 0x12", s.Mem[0x5005])
	}
	if s.E != 0x5A {
		t.Errorf("E = 0x%02X, want 0x5A", s.E)
	}
	if s.Mem[0x5002] != 0x77 {
		t.Errorf("(IX+2) = 0x%02X, want 0x77", s.Mem[0x5002])
	}
	if s.D != 0xAB {
		t.Errorf("D = 0x%02X, want 0xAB", s.D)
	}
}

func TestIndexHalves(t *testing.T) {
	s := &State{IX: 0x1234}
	s.SetHL(0xBEEF)
	// LD A, IXH; LD IXL, B; LD H, (IX+0) keeps real H
	s.B = 0x77
	s.Mem[0x1277] = 0x42
	if err := Run(s, []byte{0xDD, 0x7C, 0xDD, 0x68, 0xDD, 0x66, 0x00}); err != nil {
		t.Fatal(err)
	}
	if s.A != 0x12 {
		t.Errorf("A = 0x%02X, want 0x12", s.A)
	}
	if s.IX != 0x1277 {
		t.Errorf("IX = 0x%04X, want 0x1277", s.IX)
	}
	if s.H != 0x42 {
		t.Errorf("H = 0x%02X, want 0x42", s.H)
	}
}

func TestStack(t *testing.T) {
	s := &State{SP: 0xFFF0, IY: 0xCAFE}
	s.SetBC(0x1122)
	// PUSH BC; PUSH IY; POP HL; POP DE
	if err := Run(s, []byte{0xC5, 0xFD, 0xE5, 0xE1, 0xD1}); err != nil {
		t.Fatal(err)
	}
	if s.HL() != 0xCAFE || s.DE() != 0x1122 || s.SP != 0xFFF0 {
		t.Errorf("HL=%04X DE=%04X SP=%04X", s.HL(), s.DE(), s.SP)
	}
}

func TestArith16(t *testing.T) {
	tests := []struct {
		name      string
		code      []byte
		hl, de    uint16
		carry     bool
		wantHL    uint16
		wantCarry bool
	}{
		{"ADD HL,DE", []byte{0x19}, 0x8000, 0x8001, false, 0x0001, true},
		{"ADD HL,HL", []byte{0x29}, 0x4001, 0, false, 0x8002, false},
		{"SBC HL,DE", []byte{0xED, 0x52}, 0x1000, 0x0001, true, 0x0FFE, false},
		{"SBC HL,DE borrow", []byte{0xED, 0x52}, 0x0000, 0x0001, false, 0xFFFF, true},
		{"ADC HL,DE", []byte{0xED, 0x5A}, 0x00FF, 0x0001, true, 0x0101, false},
		{"OR A; SBC HL,DE", []byte{0xB7, 0xED, 0x52}, 0x1000, 0x0001, true, 0x0FFF, false},
	}
	for _, tc := range tests {
		s := &State{}
		s.SetHL(tc.hl)
		s.SetDE(tc.de)
		if tc.carry {
			s.F = FlagC
		}
		if err := Run(s, tc.code); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if s.HL() != tc.wantHL {
			t.Errorf("%s: HL = 0x%04X, want 0x%04X", tc.name, s.HL(), tc.wantHL)
		}
		if (s.F&FlagC != 0) != tc.wantCarry {
			t.Errorf("%s: carry = %v, want %v", tc.name, s.F&FlagC != 0, tc.wantCarry)
		}
	}
}

func TestRotates(t *testing.T) {
	tests := []struct {
		op        byte
		in        uint8
		carryIn   bool
		want      uint8
		wantCarry bool
	}{
		{0x00, 0x81, false, 0x03, true},  // RLC B
		{0x08, 0x01, false, 0x80, true},  // RRC B
		{0x10, 0x80, true, 0x01, true},   // RL B
		{0x18, 0x01, true, 0x80, true},   // RR B
		{0x20, 0xC0, false, 0x80, true},  // SLA B
		{0x28, 0x81, false, 0xC0, true},  // SRA B
		{0x30, 0x40, false, 0x81, false}, // SLL B
		{0x38, 0x81, false, 0x40, true},  // SRL B
	}
	for _, tc := range tests {
		s := &State{B: tc.in}
		if tc.carryIn {
			s.F = FlagC
		}
		if err := Run(s, []byte{0xCB, tc.op}); err != nil {
			t.Fatal(err)
		}
		if s.B != tc.want || (s.F&FlagC != 0) != tc.wantCarry {
			t.Errorf("CB %02X on 0x%02X: B=0x%02X carry=%v, want 0x%02X %v",
				tc.op, tc.in, s.B, s.F&FlagC != 0, tc.want, tc.wantCarry)
		}
	}
}

func TestIndexedCBCopy(t *testing.T) {
	s := &State{IX: 0x2000}
	s.Mem[0x2003] = 0x01
	// SET 7, (IX+3), A
	if err := Run(s, []byte{0xDD, 0xCB, 0x03, 0xFF}); err != nil {
		t.Fatal(err)
	}
	if s.Mem[0x2003] != 0x81 || s.A != 0x81 {
		t.Errorf("(IX+3)=0x%02X A=0x%02X, want 0x81 0x81", s.Mem[0x2003], s.A)
	}
}

func TestBit(t *testing.T) {
	s := &State{}
	s.SetHL(0x3000)
	s.Mem[0x3000] = 0x08
	if err := Run(s, []byte{0xCB, 0x5E}); err != nil { // BIT 3, (HL)
		t.Fatal(err)
	}
	if s.F&FlagZ != 0 {
		t.Error("BIT 3 of 0x08 should clear Z")
	}
	if err := Run(s, []byte{0xCB, 0x66}); err != nil { // BIT 4, (HL)
		t.Fatal(err)
	}
	if s.F&FlagZ == 0 {
		t.Error("BIT 4 of 0x08 should set Z")
	}
}

func TestErrors(t *testing.T) {
	s := &State{}
	err := Run(s, []byte{0x00, 0x76})
	var ue *UnsupportedError
	if !errors.As(err, &ue) {
		t.Fatalf("HALT: err = %v, want UnsupportedError", err)
	}
	if ue.Offset != 1 {
		t.Errorf("Offset = %d, want 1", ue.Offset)
	}
	if err := Run(s, []byte{0x01, 0x34}); !errors.Is(err, ErrTruncated) {
		t.Errorf("LD BC, nn cut short: err = %v, want ErrTruncated", err)
	}
}
