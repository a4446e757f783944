// Package parse reads Z80 assembly source into inst.Instruction values.
//
// One statement per line, or several separated by ':'. A ';' starts a
// comment. Labels and expressions are not supported: every operand is a
// register, a number or a name from Parser.Defines.
package parse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/oisee/z80-assembler/pkg/inst"
)

var (
	ErrMnemonic  = errors.New("unknown mnemonic")
	ErrOperand   = errors.New("bad operand")
	ErrUndefined = errors.New("undefined name")
)

// Error reports the source line a parse failure happened on.
type Error struct {
	Line int
	Text string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Parser turns source text into instructions.
type Parser struct {
	// Defines maps upper-case names to the values they stand for.
	Defines map[string]int
}

// Parse reads all of r.
func (p *Parser) Parse(r io.Reader) ([]inst.Instruction, error) {
	s := p.Stream(r)
	var out []inst.Instruction
	for {
		in, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, in)
	}
	return out, s.Err()
}

// ParseLine parses one statement. ok is false for a blank or comment-only
// line.
func (p *Parser) ParseLine(line string) (in inst.Instruction, ok bool, err error) {
	text := strings.TrimSpace(stripComment(line))
	if text == "" {
		return inst.Instruction{}, false, nil
	}
	mn, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		mn, rest = text[:i], text[i:]
	}
	op, found := inst.Lookup(mn)
	if !found {
		if !strings.EqualFold(mn, "DEFB") {
			return inst.Instruction{}, false, fmt.Errorf("%w %q", ErrMnemonic, mn)
		}
		op = inst.Binary
	}
	args, err := splitOperands(strings.TrimSpace(rest))
	if err != nil {
		return inst.Instruction{}, false, err
	}
	in, err = p.build(op, args)
	if err != nil {
		return inst.Instruction{}, false, err
	}
	return in, true, nil
}

// Stream parses r lazily, one statement per Next call. It satisfies
// asm.Source.
type Stream struct {
	p       *Parser
	sc      *bufio.Scanner
	line    int
	pending []string
	err     error
}

// Stream returns a Stream reading from r.
func (p *Parser) Stream(r io.Reader) *Stream {
	return &Stream{p: p, sc: bufio.NewScanner(r)}
}

// Next returns the next instruction. It returns false at the end of the
// input or at the first error; Err tells the two apart.
func (s *Stream) Next() (inst.Instruction, bool) {
	for s.err == nil {
		if len(s.pending) == 0 {
			if !s.sc.Scan() {
				s.err = s.sc.Err()
				break
			}
			s.line++
			s.pending = splitStatements(stripComment(s.sc.Text()))
			continue
		}
		text := s.pending[0]
		s.pending = s.pending[1:]
		in, ok, err := s.p.ParseLine(text)
		if err != nil {
			s.err = &Error{Line: s.line, Text: strings.TrimSpace(text), Err: err}
			break
		}
		if ok {
			return in, true
		}
	}
	return inst.Instruction{}, false
}

// Err returns the first error met, or nil at a clean end of input.
func (s *Stream) Err() error { return s.err }

// Line returns the number of the line last read.
func (s *Stream) Line() int { return s.line }

func isIdent(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c|0x20 >= 'a' && c|0x20 <= 'z'
}

// opensQuote reports whether s[i] starts a string or character literal. The
// apostrophe of AF' does not.
func opensQuote(s string, i int) bool {
	switch s[i] {
	case '"':
		return true
	case '\'':
		return i == 0 || !isIdent(s[i-1])
	}
	return false
}

// stripComment cuts line at the first ';' outside a string.
func stripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case opensQuote(line, i):
			quote = c
		case c == ';':
			return line[:i]
		}
	}
	return line
}

// splitOutside splits s at every sep that is outside quotes and parentheses.
func splitOutside(s string, sep byte) []string {
	var parts []string
	var quote byte
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case opensQuote(s, i):
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func splitStatements(line string) []string {
	return splitOutside(line, ':')
}

func splitOperands(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	parts := splitOutside(s, ',')
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if parts[i] == "" {
			return nil, fmt.Errorf("%w: empty operand in %q", ErrOperand, s)
		}
	}
	return parts, nil
}

var conditions = map[string]inst.Condition{
	"NZ": inst.CondNZ, "Z": inst.CondZ, "NC": inst.CondNC, "C": inst.CondC,
	"PO": inst.CondPO, "PE": inst.CondPE, "P": inst.CondP, "M": inst.CondM,
}

func (p *Parser) build(op inst.OpCode, args []string) (inst.Instruction, error) {
	in := inst.Instruction{Op: op}
	switch op {
	case inst.Binary:
		data, err := p.bytes(args)
		if err != nil {
			return in, err
		}
		in.Data = data
		return in, nil
	case inst.IM, inst.RST:
		if len(args) != 1 {
			return in, fmt.Errorf("%w: %s takes one number", ErrOperand, op)
		}
		n, err := p.value(args[0])
		if err != nil {
			return in, err
		}
		in.N = n
		return in, nil
	case inst.BIT, inst.SET, inst.RES:
		if len(args) == 0 {
			return in, fmt.Errorf("%w: %s needs a bit number", ErrOperand, op)
		}
		n, err := p.value(args[0])
		if err != nil {
			return in, err
		}
		in.N = n
		args = args[1:]
	case inst.JP, inst.JR, inst.CALL:
		if len(args) == 2 {
			cc, ok := conditions[strings.ToUpper(args[0])]
			if !ok {
				return in, fmt.Errorf("%w: %q is not a condition", ErrOperand, args[0])
			}
			in.Cond = cc
			args = args[1:]
		}
	case inst.RET:
		if len(args) == 1 {
			cc, ok := conditions[strings.ToUpper(args[0])]
			if !ok {
				return in, fmt.Errorf("%w: %q is not a condition", ErrOperand, args[0])
			}
			in.Cond = cc
			args = nil
		}
	}
	for _, a := range args {
		o, err := p.operand(op, a)
		if err != nil {
			return in, err
		}
		in.Args = append(in.Args, o)
	}
	return in, nil
}

// bytes evaluates the operands of DB: numbers in -128..255 and strings.
func (p *Parser) bytes(args []string) ([]byte, error) {
	var data []byte
	for _, a := range args {
		if len(a) >= 2 && a[0] == '"' && a[len(a)-1] == '"' {
			data = append(data, a[1:len(a)-1]...)
			continue
		}
		v, err := p.value(a)
		if err != nil {
			return nil, err
		}
		if v < -128 || v > 255 {
			return nil, fmt.Errorf("%w: DB value %d does not fit a byte", ErrOperand, v)
		}
		data = append(data, byte(v))
	}
	return data, nil
}

var byteRegs = map[string]inst.ByteRegister{
	"A": inst.A, "B": inst.B, "C": inst.C, "D": inst.D,
	"E": inst.E, "H": inst.H, "L": inst.L,
}

var wordRegs = map[string]inst.WordRegister{
	"AF": inst.AF, "BC": inst.BC, "DE": inst.DE, "HL": inst.HL,
	"AF'": inst.AFAlt, "BC'": inst.BCAlt, "DE'": inst.DEAlt, "HL'": inst.HLAlt,
	"IX": inst.IX, "IY": inst.IY, "SP": inst.SP,
}

var halfRegs = map[string]inst.UndocumentedRegister{
	"IXH": inst.IXH, "IXL": inst.IXL, "IYH": inst.IYH, "IYL": inst.IYL,
}

// operand parses one operand of op.
func (p *Parser) operand(op inst.OpCode, s string) (inst.Operand, error) {
	u := strings.ToUpper(s)
	if r, ok := byteRegs[u]; ok {
		return inst.R8(r), nil
	}
	if r, ok := wordRegs[u]; ok {
		return inst.R16(r), nil
	}
	if r, ok := halfRegs[u]; ok {
		return inst.Half(r), nil
	}
	switch u {
	case "I":
		return inst.RegI, nil
	case "R":
		return inst.RegR, nil
	case "F":
		return inst.RegF, nil
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		return p.indirect(op, strings.TrimSpace(s[1:len(s)-1]))
	}
	v, err := p.value(s)
	if err != nil {
		return inst.Operand{}, err
	}
	return inst.Imm(v), nil
}

func (p *Parser) indirect(op inst.OpCode, s string) (inst.Operand, error) {
	u := strings.ToUpper(s)
	if u == "C" {
		return inst.PortReg(inst.C), nil
	}
	if r, ok := wordRegs[u]; ok && !strings.HasSuffix(u, "'") && r != inst.AF {
		return inst.Ind(r), nil
	}
	for _, r := range []inst.WordRegister{inst.IX, inst.IY} {
		name := r.String()
		if !strings.HasPrefix(u, name) {
			continue
		}
		rest := strings.TrimSpace(s[len(name):])
		if rest == "" || (rest[0] != '+' && rest[0] != '-') {
			break
		}
		d, err := p.value(strings.TrimSpace(rest[1:]))
		if err != nil {
			return inst.Operand{}, err
		}
		if rest[0] == '-' {
			d = -d
		}
		return inst.Idx(r, d), nil
	}
	v, err := p.value(s)
	if err != nil {
		return inst.Operand{}, err
	}
	if op == inst.IN || op == inst.OUT {
		return inst.Port(v), nil
	}
	return inst.Addr(v), nil
}

// value evaluates a number or a defined name. Numbers are decimal, hex with
// a 0x or $ prefix or an h suffix, binary with a 0b or % prefix, or a
// character in single quotes. A leading '-' negates.
func (p *Parser) value(s string) (int, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg, s = true, strings.TrimSpace(s[1:])
	} else if strings.HasPrefix(s, "+") {
		s = strings.TrimSpace(s[1:])
	}
	v, err := p.unsigned(s)
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}

func (p *Parser) unsigned(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: missing value", ErrOperand)
	}
	if len(s) == 3 && s[0] == '\'' && s[2] == '\'' {
		return int(s[1]), nil
	}
	if c := s[0]; c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z') {
		if v, ok := p.Defines[strings.ToUpper(s)]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("%w %q", ErrUndefined, s)
	}

	digits, base := s, 10
	lower := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lower, "h"):
		digits, base = s[:len(s)-1], 16
	case strings.HasPrefix(lower, "0x"):
		digits, base = s[2:], 16
	case strings.HasPrefix(s, "$"):
		digits, base = s[1:], 16
	case strings.HasPrefix(lower, "0b"):
		digits, base = s[2:], 2
	case strings.HasPrefix(s, "%"):
		digits, base = s[1:], 2
	}
	v, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrOperand, s)
	}
	return int(v), nil
}
