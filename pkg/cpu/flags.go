package cpu

import "math/bits"

// Z80 flag bit positions in the F register.
const (
	FlagC uint8 = 0x01 // Carry
	FlagN uint8 = 0x02 // Subtract
	FlagP uint8 = 0x04 // Parity/Overflow
	FlagV       = FlagP
	FlagH uint8 = 0x10 // Half-carry
	FlagZ uint8 = 0x40 // Zero
	FlagS uint8 = 0x80 // Sign
)

// sz returns the sign and zero flags for v.
func sz(v uint8) uint8 {
	f := v & FlagS
	if v == 0 {
		f |= FlagZ
	}
	return f
}

// szp returns sz(v) plus the parity flag (set on even parity).
func szp(v uint8) uint8 {
	f := sz(v)
	if bits.OnesCount8(v)%2 == 0 {
		f |= FlagP
	}
	return f
}
