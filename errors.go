package rame

import (
	"errors"
	"fmt"
)

// Parse-time errors.

// ErrDisabledIndirect is returned when a "@N" jump operand appears but
// ParseOptions.AllowIndirectJumps is false.
var ErrDisabledIndirect = errors.New("indirect jump operand is disabled")

// ErrNoInst is returned by Parse when a program has no
// instructions left after stripping comments and blank lines.
var ErrNoInst = errors.New("no instructions")

// UnknownInstructionError reports a mnemonic that isn't in the
// instruction set.
type UnknownInstructionError struct {
	Text string
}

func (e *UnknownInstructionError) Error() string {
	return fmt.Sprintf("unknown instruction %q", e.Text)
}

// InvalidValueError reports an operand that failed to parse as the
// chosen word type T.
type InvalidValueError[T Int] struct {
	Text  string
	Cause error
}

func (e *InvalidValueError[T]) Error() string {
	return fmt.Sprintf("invalid value %q for word type: %s", e.Text, e.Cause)
}

func (e *InvalidValueError[T]) Unwrap() error { return e.Cause }

// InvalidRegisterError reports a register operand whose index failed
// to parse.
type InvalidRegisterError struct {
	Text  string
	Cause error
}

func (e *InvalidRegisterError) Error() string {
	return fmt.Sprintf("invalid register %q: %s", e.Text, e.Cause)
}

func (e *InvalidRegisterError) Unwrap() error { return e.Cause }

// InvalidAddressError reports a jump-target operand whose index
// failed to parse.
type InvalidAddressError struct {
	Text  string
	Cause error
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q: %s", e.Text, e.Cause)
}

func (e *InvalidAddressError) Unwrap() error { return e.Cause }

// ParseCodeError wraps a per-line parse failure with its location.
type ParseCodeError struct {
	Line  int // 1-based
	Raw   string
	Cause error
}

func (e *ParseCodeError) Error() string {
	return fmt.Sprintf("%d: %q: %s", e.Line, e.Raw, e.Cause)
}

func (e *ParseCodeError) Unwrap() error { return e.Cause }

// Run-time errors. Every RunError carries enough to build a rich
// diagnostic; the offending Ir and rendered instruction are not stored
// here, a diagnostic reads them from the Ram (Ram.Ir, Ram.Current),
// which Ram.Step leaves on the failing instruction.

// ErrReadEof is returned by a Read instruction with no input left.
var ErrReadEof = errors.New("nothing left to read")

// ErrIntegerOverflow is returned by any checked arithmetic failure,
// including division and modulus by zero.
var ErrIntegerOverflow = errors.New("integer overflow")

// ErrInexistentJump is returned when a resolved jump target falls
// outside the code's range.
var ErrInexistentJump = errors.New("jumping to an inexistent location")

// ErrEof is returned by Ram.Step when execution runs past the last
// instruction without having hit Stop.
var ErrEof = errors.New("unexpected end of file")

// ReadUninitError reports a read of a register that was never
// written.
type ReadUninitError struct {
	Adr int
}

func (e *ReadUninitError) Error() string {
	return fmt.Sprintf("reading uninitialized memory R%d", e.Adr)
}

// InvalidAddressRunError reports an indirect register value that
// cannot be converted into a memory index.
type InvalidAddressRunError struct {
	Adr   int
	Cause error
}

func (e *InvalidAddressRunError) Error() string {
	return fmt.Sprintf("invalid address R%d: %s", e.Adr, e.Cause)
}

func (e *InvalidAddressRunError) Unwrap() error { return e.Cause }

// InvalidJumpError reports an indirect jump register value that
// cannot be converted into an Ir.
type InvalidJumpError struct {
	Cause error
}

func (e *InvalidJumpError) Error() string {
	return fmt.Sprintf("jumping to an invalid location: %s", e.Cause)
}

func (e *InvalidJumpError) Unwrap() error { return e.Cause }
