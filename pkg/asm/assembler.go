package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/oisee/z80-assembler/pkg/inst"
)

// Config holds assembler configuration.
type Config struct {
	Undocumented bool      // Accept undocumented instructions
	Verbose      bool      // Log every encoded instruction
	Log          io.Writer // Verbose output (defaults to os.Stderr)
}

// Encode macro-expands and encodes one instruction, falling back to the
// undocumented encoder when c.Undocumented is set. With the flag clear, an
// undocumented form fails with ErrUndocumented.
func (c Config) Encode(in inst.Instruction) ([]byte, error) {
	x := Expand(in)
	b, err := Encode(x)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, ErrInvalid) {
		return nil, withInst(err, in)
	}
	ub, uerr := EncodeUndocumented(x)
	switch {
	case uerr == nil && c.Undocumented:
		return ub, nil
	case uerr == nil:
		return nil, &EncodingError{Inst: in, Kind: NeedsUndocumented}
	case !errors.Is(uerr, ErrInvalid):
		return nil, withInst(uerr, in)
	}
	return nil, withInst(err, in)
}

// withInst reports err against the instruction as written, before expansion.
func withInst(err error, in inst.Instruction) error {
	var ee *EncodingError
	if errors.As(err, &ee) {
		c := *ee
		c.Inst = in
		return &c
	}
	return err
}

// Source yields instructions in program order.
type Source interface {
	Next() (inst.Instruction, bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (inst.Instruction, bool)

func (f SourceFunc) Next() (inst.Instruction, bool) { return f() }

type sliceSource struct {
	insts []inst.Instruction
}

func (s *sliceSource) Next() (inst.Instruction, bool) {
	if len(s.insts) == 0 {
		return inst.Instruction{}, false
	}
	in := s.insts[0]
	s.insts = s.insts[1:]
	return in, true
}

// Slice returns a Source over insts.
func Slice(insts ...inst.Instruction) Source {
	return &sliceSource{insts: insts}
}

// Assembler turns a Source into a stream of bytes, one instruction at a time.
//
// The first encoding failure halts it for good: Next reports end of stream
// from then on, the Source is never read again, and Err returns the failure.
// Bytes of a failed instruction are never produced.
type Assembler struct {
	src    Source
	cfg    Config
	queue  []byte
	head   int
	halted bool
	err    error
	offset int // bytes encoded so far
}

// New returns an Assembler reading from src.
func New(src Source, cfg Config) *Assembler {
	if cfg.Log == nil {
		cfg.Log = os.Stderr
	}
	return &Assembler{
		src:   src,
		cfg:   cfg,
		queue: make([]byte, 0, 4),
	}
}

// Next returns the next byte of the program. ok is false at the end of the
// input or after an encoding error; Err tells the two apart.
func (a *Assembler) Next() (b byte, ok bool) {
	for {
		if a.head < len(a.queue) {
			b = a.queue[a.head]
			a.head++
			return b, true
		}
		if a.halted {
			return 0, false
		}
		in, more := a.src.Next()
		if !more {
			a.halted = true
			return 0, false
		}
		enc, err := a.cfg.Encode(in)
		if err != nil {
			a.err = err
			a.halted = true
			return 0, false
		}
		if a.cfg.Verbose {
			fmt.Fprintf(a.cfg.Log, "%04X: % X\t%s\n", a.offset, enc, in)
		}
		a.offset += len(enc)
		a.queue = append(a.queue[:0], enc...)
		a.head = 0
	}
}

// Err returns the encoding error that halted the assembler, if any.
func (a *Assembler) Err() error {
	return a.err
}

// Failed reports whether an encoding error has occurred. Once true it stays true.
func (a *Assembler) Failed() bool {
	return a.err != nil
}

// All returns an iterator over the remaining bytes.
func (a *Assembler) All() iter.Seq[byte] {
	return func(yield func(byte) bool) {
		for {
			b, ok := a.Next()
			if !ok || !yield(b) {
				return
			}
		}
	}
}

// WriteTo writes the remaining bytes to w. It returns the encoding error, if
// one halts the assembler, after flushing the bytes produced before it.
func (a *Assembler) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for b := range a.All() {
		if err := bw.WriteByte(b); err != nil {
			return n, err
		}
		n++
	}
	if err := bw.Flush(); err != nil {
		return n, err
	}
	return n, a.err
}

// Assemble encodes insts into one byte slice.
func Assemble(insts []inst.Instruction, cfg Config) ([]byte, error) {
	a := New(Slice(insts...), cfg)
	var out []byte
	for b := range a.All() {
		out = append(out, b)
	}
	if err := a.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
