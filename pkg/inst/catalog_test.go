package inst

import (
	"strings"
	"testing"
)

// TestCatalogCompleteness verifies every mnemonic has at least one listed form.
func TestCatalogCompleteness(t *testing.T) {
	seen := make(map[OpCode]bool)
	for _, f := range Catalog() {
		seen[f.Op] = true
	}
	for op := OpCode(0); op < OpCodeCount; op++ {
		if op.String() == "" {
			t.Errorf("OpCode %d has no mnemonic", op)
		}
		if !seen[op] {
			t.Errorf("%s has no catalog entry", op)
		}
	}
}

func TestLookup(t *testing.T) {
	for op := OpCode(0); op < OpCodeCount; op++ {
		got, ok := Lookup(strings.ToLower(op.String()))
		if !ok || got != op {
			t.Errorf("Lookup(%q) = %v, %v; want %v", strings.ToLower(op.String()), got, ok, op)
		}
	}
	if _, ok := Lookup("MOV"); ok {
		t.Error("Lookup(MOV) should fail")
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		in   Instruction
		want string
	}{
		{New(NOP), "NOP"},
		{New(LD, R8(A), R8(B)), "LD A, B"},
		{New(LD, R8(A), Idx(IX, 5)), "LD A, (IX+5)"},
		{New(LD, Idx(IY, -3), Imm(7)), "LD (IY-3), 7"},
		{New(LD, R16(HL), Addr(0xC000)), "LD HL, (0C000h)"},
		{New(OUT, Port(0xFE), R8(A)), "OUT (0FEh), A"},
		{New(IN, R8(B), PortReg(C)), "IN B, (C)"},
		{New(EX, R16(AF), R16(AFAlt)), "EX AF, AF'"},
		{New(ADD, R8(A), Half(IXH)), "ADD A, IXH"},
		{New(LD, RegI, R8(A)), "LD I, A"},
		{Cond(JR, CondNZ, Imm(-2)), "JR NZ, -2"},
		{Cond(RET, CondPE), "RET PE"},
		{Bit(BIT, 3, Ind(HL)), "BIT 3, (HL)"},
		{Bit(SET, 1, Idx(IX, 0), R8(A)), "SET 1, (IX+0), A"},
		{Num(RST, 0x38), "RST 56"},
		{Num(IM, 2), "IM 2"},
		{Raw(0x01, 0xAB), "DB 01h, 0ABh"},
	}
	for _, tc := range tests {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestClone(t *testing.T) {
	in := New(LD, Ind(IX), R8(A))
	out := in.Clone()
	out.Args[0] = Idx(IX, 0)
	if in.Args[0] != Ind(IX) {
		t.Errorf("Clone shares operands: original now %s", in.Args[0])
	}
}

func TestUndocumentedRegister(t *testing.T) {
	tests := []struct {
		r     UndocumentedRegister
		index WordRegister
		high  bool
	}{
		{IXH, IX, true},
		{IXL, IX, false},
		{IYH, IY, true},
		{IYL, IY, false},
	}
	for _, tc := range tests {
		if tc.r.Index() != tc.index || tc.r.High() != tc.high {
			t.Errorf("%s: Index()=%s High()=%v, want %s %v", tc.r, tc.r.Index(), tc.r.High(), tc.index, tc.high)
		}
	}
}

func TestListing(t *testing.T) {
	doc := Listing(false)
	if !strings.HasPrefix(doc, "Here's the list of all the supported instructions:\n") {
		t.Errorf("missing header: %q", doc[:40])
	}
	if strings.Contains(doc, "SLL") {
		t.Error("documented listing mentions SLL")
	}
	if !strings.Contains(doc, "- JR cc, d: cc is NZ, Z, NC or C\n") {
		t.Error("listing lacks JR cc, d")
	}
	if all := Listing(true); !strings.Contains(all, "- SLL r: shift left, bit 0 set [undocumented]\n") {
		t.Error("full listing lacks SLL r")
	}
}
