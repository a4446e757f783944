package cpu

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned when code ends in the middle of an instruction.
var ErrTruncated = errors.New("cpu: truncated instruction")

// UnsupportedError reports an opcode outside the executed subset.
type UnsupportedError struct {
	Bytes  []byte
	Offset int
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("cpu: unsupported opcode % X at offset %d", e.Bytes, e.Offset)
}

// index selects what the H, L and (HL) slots of an opcode refer to.
type index uint8

const (
	useHL index = iota
	useIX
	useIY
)

type decoder struct {
	code []byte
	pos  int
	err  error
}

func (d *decoder) next() uint8 {
	if d.pos >= len(d.code) {
		if d.err == nil {
			d.err = ErrTruncated
		}
		return 0
	}
	b := d.code[d.pos]
	d.pos++
	return b
}

func (d *decoder) word() uint16 {
	lo := d.next()
	hi := d.next()
	return uint16(lo) | uint16(hi)<<8
}

// Run executes code from its first byte to its last.
// It covers the loads, stack, 16-bit arithmetic, logic and CB operations
// that the assembler's multi-instruction forms are built from.
func Run(s *State, code []byte) error {
	for off := 0; off < len(code); {
		n, err := Step(s, code[off:])
		if err != nil {
			var ue *UnsupportedError
			if errors.As(err, &ue) {
				ue.Offset += off
			}
			return err
		}
		off += n
	}
	return nil
}

// Step executes the instruction at the start of code and returns its length.
func Step(s *State, code []byte) (int, error) {
	d := &decoder{code: code}
	x := useHL
	op := d.next()
	switch op {
	case 0xDD:
		x, op = useIX, d.next()
	case 0xFD:
		x, op = useIY, d.next()
	}

	var ok bool
	switch op {
	case 0xCB:
		ok = s.execCB(d, x)
	case 0xED:
		ok = x == useHL && s.execED(d)
	default:
		ok = s.exec(d, x, op)
	}
	if d.err != nil {
		return 0, d.err
	}
	if !ok {
		return 0, &UnsupportedError{Bytes: code[:d.pos]}
	}
	return d.pos, nil
}

func (s *State) reg(f uint8, x index) uint8 {
	switch f {
	case 0:
		return s.B
	case 1:
		return s.C
	case 2:
		return s.D
	case 3:
		return s.E
	case 4:
		return uint8(s.hl(x) >> 8)
	case 5:
		return uint8(s.hl(x))
	case 7:
		return s.A
	}
	panic("cpu: (HL) is not a register")
}

func (s *State) setReg(f uint8, x index, v uint8) {
	switch f {
	case 0:
		s.B = v
	case 1:
		s.C = v
	case 2:
		s.D = v
	case 3:
		s.E = v
	case 4:
		s.setHLx(x, s.hl(x)&0x00FF|uint16(v)<<8)
	case 5:
		s.setHLx(x, s.hl(x)&0xFF00|uint16(v))
	case 7:
		s.A = v
	default:
		panic("cpu: (HL) is not a register")
	}
}

func (s *State) hl(x index) uint16 {
	switch x {
	case useIX:
		return s.IX
	case useIY:
		return s.IY
	}
	return s.HL()
}

func (s *State) setHLx(x index, v uint16) {
	switch x {
	case useIX:
		s.IX = v
	case useIY:
		s.IY = v
	default:
		s.SetHL(v)
	}
}

// pair reads the ss/dd register pair p (BC, DE, HL or SP).
func (s *State) pair(p uint8, x index) uint16 {
	switch p {
	case 0:
		return s.BC()
	case 1:
		return s.DE()
	case 2:
		return s.hl(x)
	}
	return s.SP
}

func (s *State) setPair(p uint8, x index, v uint16) {
	switch p {
	case 0:
		s.SetBC(v)
	case 1:
		s.SetDE(v)
	case 2:
		s.setHLx(x, v)
	default:
		s.SP = v
	}
}

// addr returns the address of the (HL) slot, reading the displacement of
// (IX+d) and (IY+d).
func (s *State) addr(d *decoder, x index) uint16 {
	if x == useHL {
		return s.HL()
	}
	disp := int8(d.next())
	return s.hl(x) + uint16(disp)
}

func (s *State) push(v uint16) {
	s.SP -= 2
	s.SetWord(s.SP, v)
}

func (s *State) pop() uint16 {
	v := s.Word(s.SP)
	s.SP += 2
	return v
}

func (s *State) exec(d *decoder, x index, op uint8) bool {
	p := op >> 4 & 3
	switch {
	case op == 0x00:
		// NOP
	case op == 0x76:
		return false // HALT
	case op == 0x02 && x == useHL:
		s.Mem[s.BC()] = s.A
	case op == 0x12 && x == useHL:
		s.Mem[s.DE()] = s.A
	case op == 0x0A && x == useHL:
		s.A = s.Mem[s.BC()]
	case op == 0x1A && x == useHL:
		s.A = s.Mem[s.DE()]
	case op == 0x22:
		s.SetWord(d.word(), s.hl(x))
	case op == 0x2A:
		s.setHLx(x, s.Word(d.word()))
	case op == 0x32 && x == useHL:
		s.Mem[d.word()] = s.A
	case op == 0x3A && x == useHL:
		s.A = s.Mem[d.word()]
	case op == 0x36:
		a := s.addr(d, x)
		s.Mem[a] = d.next()
	case op == 0x34 || op == 0x35:
		a := s.addr(d, x)
		s.Mem[a] = s.incDec(s.Mem[a], op == 0x35)
	case op&0xCF == 0x01:
		s.setPair(p, x, d.word())
	case op&0xCF == 0x03:
		s.setPair(p, x, s.pair(p, x)+1)
	case op&0xCF == 0x0B:
		s.setPair(p, x, s.pair(p, x)-1)
	case op&0xCF == 0x09:
		s.addHL(x, s.pair(p, x))
	case op&0xC7 == 0x04 || op&0xC7 == 0x05:
		f := op >> 3 & 7
		s.setReg(f, x, s.incDec(s.reg(f, x), op&1 == 1))
	case op&0xC7 == 0x06:
		s.setReg(op>>3&7, x, d.next())
	case op&0xC0 == 0x40:
		dst, src := op>>3&7, op&7
		switch {
		case src == 6:
			s.setReg(dst, useHL, s.Mem[s.addr(d, x)])
		case dst == 6:
			s.Mem[s.addr(d, x)] = s.reg(src, useHL)
		default:
			s.setReg(dst, x, s.reg(src, x))
		}
	case op >= 0xA0 && op < 0xB8:
		var v uint8
		if f := op & 7; f == 6 {
			v = s.Mem[s.addr(d, x)]
		} else {
			v = s.reg(f, x)
		}
		switch op & 0xF8 {
		case 0xA0:
			s.A &= v
			s.F = szp(s.A) | FlagH
		case 0xA8:
			s.A ^= v
			s.F = szp(s.A)
		default:
			s.A |= v
			s.F = szp(s.A)
		}
	case op&0xCF == 0xC1:
		if p == 3 {
			s.SetAF(s.pop())
		} else {
			s.setPair(p, x, s.pop())
		}
	case op&0xCF == 0xC5:
		if p == 3 {
			s.push(s.AF())
		} else {
			s.push(s.pair(p, x))
		}
	case op == 0xEB && x == useHL:
		de, hl := s.DE(), s.HL()
		s.SetDE(hl)
		s.SetHL(de)
	case op == 0xE3:
		v := s.Word(s.SP)
		s.SetWord(s.SP, s.hl(x))
		s.setHLx(x, v)
	case op == 0xF9:
		s.SP = s.hl(x)
	default:
		return false
	}
	return true
}

func (s *State) incDec(v uint8, dec bool) uint8 {
	f := s.F & FlagC
	if dec {
		f |= FlagN
		if v&0x0F == 0 {
			f |= FlagH
		}
		if v == 0x80 {
			f |= FlagV
		}
		v--
	} else {
		if v&0x0F == 0x0F {
			f |= FlagH
		}
		if v == 0x7F {
			f |= FlagV
		}
		v++
	}
	s.F = f | sz(v)
	return v
}

func (s *State) addHL(x index, v uint16) {
	hl := s.hl(x)
	res := uint32(hl) + uint32(v)
	f := s.F & (FlagS | FlagZ | FlagV)
	if (uint32(hl)^uint32(v)^res)&0x1000 != 0 {
		f |= FlagH
	}
	if res > 0xFFFF {
		f |= FlagC
	}
	s.setHLx(x, uint16(res))
	s.F = f
}

// adcSbcHL performs ADC HL, v or SBC HL, v with full flags.
func (s *State) adcSbcHL(v uint16, sub bool) {
	hl := uint32(s.HL())
	c := uint32(s.F & FlagC)
	var res uint32
	var f uint8
	if sub {
		res = hl - uint32(v) - c
		f = FlagN
		if (hl^uint32(v))&(hl^res)&0x8000 != 0 {
			f |= FlagV
		}
	} else {
		res = hl + uint32(v) + c
		if ^(hl^uint32(v))&(hl^res)&0x8000 != 0 {
			f |= FlagV
		}
	}
	if res>>16 != 0 {
		f |= FlagC
	}
	if (hl^uint32(v)^res)&0x1000 != 0 {
		f |= FlagH
	}
	r16 := uint16(res)
	if r16 == 0 {
		f |= FlagZ
	}
	if r16&0x8000 != 0 {
		f |= FlagS
	}
	s.SetHL(r16)
	s.F = f
}

func (s *State) execED(d *decoder) bool {
	op := d.next()
	p := op >> 4 & 3
	switch {
	case op&0xCF == 0x42:
		s.adcSbcHL(s.pair(p, useHL), true)
	case op&0xCF == 0x4A:
		s.adcSbcHL(s.pair(p, useHL), false)
	case op&0xCF == 0x43:
		s.SetWord(d.word(), s.pair(p, useHL))
	case op&0xCF == 0x4B:
		s.setPair(p, useHL, s.Word(d.word()))
	default:
		return false
	}
	return true
}

// execCB runs CB-prefixed rotates, shifts and bit operations. Indexed forms
// (DD CB d op) also copy the result to a register when op&7 != 6.
func (s *State) execCB(d *decoder, x index) bool {
	var a uint16
	if x != useHL {
		a = s.addr(d, x)
	}
	op := d.next()
	f := op & 7
	mem := x != useHL || f == 6
	if mem && x == useHL {
		a = s.HL()
	}

	var v uint8
	if mem {
		v = s.Mem[a]
	} else {
		v = s.reg(f, useHL)
	}

	n := op >> 3 & 7
	switch op >> 6 {
	case 0:
		v = s.rotate(n, v)
	case 1:
		flags := s.F&FlagC | FlagH
		if v&(1<<n) == 0 {
			flags |= FlagZ | FlagP
		}
		s.F = flags
		return true
	case 2:
		v &^= 1 << n
	case 3:
		v |= 1 << n
	}

	if mem {
		s.Mem[a] = v
		if x != useHL && f != 6 {
			s.setReg(f, useHL, v)
		}
	} else {
		s.setReg(f, useHL, v)
	}
	return true
}

func (s *State) rotate(kind, v uint8) uint8 {
	c := s.F & FlagC
	var out, carry uint8
	switch kind {
	case 0: // RLC
		carry = v >> 7
		out = v<<1 | carry
	case 1: // RRC
		carry = v & 1
		out = v>>1 | carry<<7
	case 2: // RL
		carry = v >> 7
		out = v<<1 | c
	case 3: // RR
		carry = v & 1
		out = v>>1 | c<<7
	case 4: // SLA
		carry = v >> 7
		out = v << 1
	case 5: // SRA
		carry = v & 1
		out = v>>1 | v&0x80
	case 6: // SLL
		carry = v >> 7
		out = v<<1 | 1
	case 7: // SRL
		carry = v & 1
		out = v >> 1
	}
	s.F = szp(out) | carry
	return out
}
