package cpu

// State is the Z80 register file plus a flat 64 KiB memory.
// It is comparable, so two runs can be checked with ==.
type State struct {
	A, F, B, C, D, E, H, L uint8
	IX, IY, SP             uint16
	Mem                    [0x10000]uint8
}

// Equal returns true if two states are identical.
func (s *State) Equal(o *State) bool {
	return *s == *o
}

func (s *State) BC() uint16 { return uint16(s.B)<<8 | uint16(s.C) }
func (s *State) DE() uint16 { return uint16(s.D)<<8 | uint16(s.E) }
func (s *State) HL() uint16 { return uint16(s.H)<<8 | uint16(s.L) }
func (s *State) AF() uint16 { return uint16(s.A)<<8 | uint16(s.F) }

func (s *State) SetBC(v uint16) { s.B, s.C = uint8(v>>8), uint8(v) }
func (s *State) SetDE(v uint16) { s.D, s.E = uint8(v>>8), uint8(v) }
func (s *State) SetHL(v uint16) { s.H, s.L = uint8(v>>8), uint8(v) }
func (s *State) SetAF(v uint16) { s.A, s.F = uint8(v>>8), uint8(v) }

// Word reads a little-endian word from memory.
func (s *State) Word(addr uint16) uint16 {
	return uint16(s.Mem[addr]) | uint16(s.Mem[addr+1])<<8
}

// SetWord writes a little-endian word to memory.
func (s *State) SetWord(addr, v uint16) {
	s.Mem[addr] = uint8(v)
	s.Mem[addr+1] = uint8(v >> 8)
}
