package asm

import (
	"errors"

	"github.com/oisee/z80-assembler/pkg/inst"
)

// Sentinel errors matched with errors.Is against an *EncodingError.
var (
	ErrInvalid      = errors.New("no such instruction form")
	ErrOutOfRange   = errors.New("operand out of range")
	ErrUndocumented = errors.New("undocumented instruction not enabled")
)

// ErrorKind classifies an encoding failure.
type ErrorKind uint8

const (
	InvalidForm ErrorKind = iota
	OutOfRange
	NeedsUndocumented
)

func (k ErrorKind) String() string {
	switch k {
	case OutOfRange:
		return "out of range"
	case NeedsUndocumented:
		return "undocumented"
	}
	return "invalid"
}

// EncodingError reports an instruction that cannot be encoded.
type EncodingError struct {
	Inst   inst.Instruction
	Kind   ErrorKind
	Reason string // optional detail, e.g. "JR offset 200 not in -126..129"
}

func (e *EncodingError) Error() string {
	msg := "invalid instruction: " + e.Inst.String()
	if e.Reason != "" {
		return msg + ": " + e.Reason
	}
	return msg + ": " + e.Unwrap().Error()
}

func (e *EncodingError) Unwrap() error {
	switch e.Kind {
	case OutOfRange:
		return ErrOutOfRange
	case NeedsUndocumented:
		return ErrUndocumented
	}
	return ErrInvalid
}

func invalid(in inst.Instruction) error {
	return &EncodingError{Inst: in, Kind: InvalidForm}
}

func outOfRange(in inst.Instruction, reason string) error {
	return &EncodingError{Inst: in, Kind: OutOfRange, Reason: reason}
}
