package asm

import (
	"reflect"
	"testing"

	"github.com/oisee/z80-assembler/pkg/inst"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		in, want inst.Instruction
	}{
		{inst.New(inst.LD, inst.R8(inst.A), inst.Ind(inst.IX)), inst.New(inst.LD, inst.R8(inst.A), inst.Idx(inst.IX, 0))},
		{inst.New(inst.LD, inst.Ind(inst.IY), inst.Imm(3)), inst.New(inst.LD, inst.Idx(inst.IY, 0), inst.Imm(3))},
		{inst.New(inst.ADD, inst.R8(inst.A), inst.Ind(inst.IX)), inst.New(inst.ADD, inst.R8(inst.A), inst.Idx(inst.IX, 0))},
		{inst.New(inst.CP, inst.Ind(inst.IY)), inst.New(inst.CP, inst.Idx(inst.IY, 0))},
		{inst.New(inst.INC, inst.Ind(inst.IX)), inst.New(inst.INC, inst.Idx(inst.IX, 0))},
		{inst.New(inst.SLL, inst.Ind(inst.IX)), inst.New(inst.SLL, inst.Idx(inst.IX, 0))},
		{inst.Bit(inst.BIT, 2, inst.Ind(inst.IY)), inst.Bit(inst.BIT, 2, inst.Idx(inst.IY, 0))},
		{inst.New(inst.LDI, inst.Ind(inst.IX), inst.R16(inst.BC)), inst.New(inst.LDI, inst.Idx(inst.IX, 0), inst.R16(inst.BC))},
		// untouched
		{inst.New(inst.JP, inst.Ind(inst.IX)), inst.New(inst.JP, inst.Ind(inst.IX))},
		{inst.New(inst.EX, inst.Ind(inst.SP), inst.R16(inst.IX)), inst.New(inst.EX, inst.Ind(inst.SP), inst.R16(inst.IX))},
		{inst.New(inst.LD, inst.R8(inst.A), inst.Ind(inst.HL)), inst.New(inst.LD, inst.R8(inst.A), inst.Ind(inst.HL))},
		{inst.New(inst.LD, inst.R8(inst.A), inst.Idx(inst.IX, -4)), inst.New(inst.LD, inst.R8(inst.A), inst.Idx(inst.IX, -4))},
	}
	for _, tc := range tests {
		got := Expand(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Expand(%s) = %s, want %s", tc.in, got, tc.want)
		}
		if again := Expand(got); !reflect.DeepEqual(again, got) {
			t.Errorf("Expand not idempotent on %s: %s", got, again)
		}
	}
}

func TestExpandDoesNotModifyInput(t *testing.T) {
	in := inst.New(inst.LD, inst.Ind(inst.IX), inst.R8(inst.B))
	Expand(in)
	if in.Args[0] != inst.Ind(inst.IX) {
		t.Errorf("input rewritten to %s", in)
	}
}
