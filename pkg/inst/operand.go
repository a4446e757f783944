package inst

import "strconv"

// OperandKind identifies the shape of an Operand.
type OperandKind uint8

const (
	KindNone                  OperandKind = iota
	KindConstant                          // n, nn, d: Value
	KindAddress                           // (nn): Value
	KindPort                              // (n) in IN/OUT: Value
	KindByteRegister                      // r: Byte
	KindWordRegister                      // rr: Word
	KindPortRegister                      // (C): Byte
	KindAddressRegister                   // (rr): Word
	KindAddressRegisterOffset             // (IX+d): Word, Value
	KindUndocumented                      // IXH..IYL: Half
	KindI
	KindR
	KindF
)

// Operand is a tagged union over every operand shape the Z80 accepts.
// Only the fields named by Kind are meaningful. Operands are comparable.
type Operand struct {
	Kind  OperandKind
	Byte  ByteRegister
	Word  WordRegister
	Half  UndocumentedRegister
	Value int
}

// Operand constructors.
func Imm(n int) Operand              { return Operand{Kind: KindConstant, Value: n} }
func Addr(nn int) Operand            { return Operand{Kind: KindAddress, Value: nn} }
func Port(n int) Operand             { return Operand{Kind: KindPort, Value: n} }
func R8(r ByteRegister) Operand      { return Operand{Kind: KindByteRegister, Byte: r} }
func R16(r WordRegister) Operand     { return Operand{Kind: KindWordRegister, Word: r} }
func PortReg(r ByteRegister) Operand { return Operand{Kind: KindPortRegister, Byte: r} }
func Ind(r WordRegister) Operand     { return Operand{Kind: KindAddressRegister, Word: r} }
func Half(r UndocumentedRegister) Operand {
	return Operand{Kind: KindUndocumented, Half: r}
}

func Idx(r WordRegister, d int) Operand {
	return Operand{Kind: KindAddressRegisterOffset, Word: r, Value: d}
}

var (
	RegI = Operand{Kind: KindI}
	RegR = Operand{Kind: KindR}
	RegF = Operand{Kind: KindF}
)

// Is reports whether o is the byte register r.
func (o Operand) Is(r ByteRegister) bool {
	return o.Kind == KindByteRegister && o.Byte == r
}

// IsWord reports whether o is the word register r.
func (o Operand) IsWord(r WordRegister) bool {
	return o.Kind == KindWordRegister && o.Word == r
}

// IsInd reports whether o is the register-indirect operand (r).
func (o Operand) IsInd(r WordRegister) bool {
	return o.Kind == KindAddressRegister && o.Word == r
}

// IsPortC reports whether o is the port register (C).
func (o Operand) IsPortC() bool {
	return o.Kind == KindPortRegister && o.Byte == C
}

// String renders o in Z80 assembly syntax.
func (o Operand) String() string {
	return string(o.appendTo(nil))
}

func (o Operand) appendTo(buf []byte) []byte {
	switch o.Kind {
	case KindConstant:
		return strconv.AppendInt(buf, int64(o.Value), 10)
	case KindAddress:
		buf = append(buf, '(')
		if o.Value >= 0 && o.Value < 0x10000 {
			buf = appendHex16(buf, uint16(o.Value))
		} else {
			buf = strconv.AppendInt(buf, int64(o.Value), 10)
		}
		return append(buf, ')')
	case KindPort:
		buf = append(buf, '(')
		if o.Value >= 0 && o.Value < 0x100 {
			buf = appendHex8(buf, uint8(o.Value))
		} else {
			buf = strconv.AppendInt(buf, int64(o.Value), 10)
		}
		return append(buf, ')')
	case KindByteRegister:
		return append(buf, o.Byte.String()...)
	case KindWordRegister:
		return append(buf, o.Word.String()...)
	case KindPortRegister:
		return append(append(append(buf, '('), o.Byte.String()...), ')')
	case KindAddressRegister:
		return append(append(append(buf, '('), o.Word.String()...), ')')
	case KindAddressRegisterOffset:
		buf = append(append(buf, '('), o.Word.String()...)
		if o.Value >= 0 {
			buf = append(buf, '+')
		}
		buf = strconv.AppendInt(buf, int64(o.Value), 10)
		return append(buf, ')')
	case KindUndocumented:
		return append(buf, o.Half.String()...)
	case KindI:
		return append(buf, 'I')
	case KindR:
		return append(buf, 'R')
	case KindF:
		return append(buf, 'F')
	}
	return append(buf, '?')
}

func appendHex8(buf []byte, v uint8) []byte {
	const hex = "0123456789ABCDEF"
	if v >= 0xA0 {
		buf = append(buf, '0')
	}
	buf = append(buf, hex[v>>4], hex[v&0x0F], 'h')
	return buf
}

func appendHex16(buf []byte, v uint16) []byte {
	const hex = "0123456789ABCDEF"
	if v>>12 >= 0xA {
		buf = append(buf, '0')
	}
	buf = append(buf, hex[v>>12], hex[(v>>8)&0x0F], hex[(v>>4)&0x0F], hex[v&0x0F], 'h')
	return buf
}
