package rame

import (
	"bufio"
	"io"
	"strings"
)

// Code is an ordered, nonempty sequence of instructions addressed
// 0-based by Ir. It is immutable once constructed; every rewrite
// (Map, TryMap, Optimize) produces a new Code.
type Code[T Int] struct {
	insts []Instruction[T]
}

// NewCode wraps a nonempty instruction slice. Panics on an empty
// slice; use Parse for the fallible, caller-facing constructor.
func NewCode[T Int](insts []Instruction[T]) Code[T] {
	if len(insts) == 0 {
		panic("rame: Code must be nonempty")
	}
	cp := make([]Instruction[T], len(insts))
	copy(cp, insts)
	return Code[T]{insts: cp}
}

// DefaultCode returns the singleton [Stop] program.
func DefaultCode[T Int]() Code[T] {
	return Code[T]{insts: []Instruction[T]{{Op: OpStop}}}
}

// Len returns the number of instructions.
func (c Code[T]) Len() int { return len(c.insts) }

// Get returns the instruction at ir and whether ir was in range.
func (c Code[T]) Get(ir Ir) (Instruction[T], bool) {
	i := int(ir)
	if i < 0 || i >= len(c.insts) {
		return Instruction[T]{}, false
	}
	return c.insts[i], true
}

// Instructions returns the underlying instructions as a read-only
// slice; callers must not mutate it.
func (c Code[T]) Instructions() []Instruction[T] { return c.insts }

// Parse reads a RAM text program: one instruction per nonblank,
// non-comment-only line, "; comment" stripped, leading/trailing space
// trimmed. Fails on the first invalid line (1-based line number, raw
// text, inner cause reported via ParseCodeError) or if no
// instructions remain.
func Parse[T Int](r io.Reader, opts ParseOptions) (Code[T], error) {
	scanner := bufio.NewScanner(r)
	var insts []Instruction[T]
	lineNb := 0
	for scanner.Scan() {
		lineNb++
		raw := scanner.Text()
		stripped := raw
		if idx := strings.IndexByte(raw, ';'); idx >= 0 {
			stripped = raw[:idx]
		}
		stripped = strings.TrimSpace(stripped)
		if stripped == "" {
			continue
		}
		inst, err := ParseInstruction[T](stripped, opts)
		if err != nil {
			return Code[T]{}, &ParseCodeError{Line: lineNb, Raw: raw, Cause: err}
		}
		insts = append(insts, inst)
	}
	if err := scanner.Err(); err != nil {
		return Code[T]{}, err
	}
	if len(insts) == 0 {
		return Code[T]{}, ErrNoInst
	}
	return Code[T]{insts: insts}, nil
}

// ParseString is a convenience wrapper around Parse for in-memory text.
func ParseString[T Int](s string, opts ParseOptions) (Code[T], error) {
	return Parse[T](strings.NewReader(s), opts)
}

// Write serializes c in its canonical textual form: one instruction
// per line, newline-separated, no trailing newline.
func (c Code[T]) Write(w io.Writer) error {
	_, err := io.WriteString(w, c.String())
	return err
}

func (c Code[T]) String() string {
	if len(c.insts) == 0 {
		return "<no code>"
	}
	var b strings.Builder
	for i, inst := range c.insts {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(inst.String())
	}
	return b.String()
}

// Map remaps every instruction's word type via f, which must not
// fail; addresses and registers are preserved as-is.
func Map[T, U Int](c Code[T], f func(T) U) Code[U] {
	out := make([]Instruction[U], len(c.insts))
	for i, inst := range c.insts {
		out[i] = mapInstruction(inst, f)
	}
	return Code[U]{insts: out}
}

// TryMap remaps every instruction's word type via f, stopping at the
// first failure.
func TryMap[T, U Int](c Code[T], f func(T) (U, error)) (Code[U], error) {
	out := make([]Instruction[U], len(c.insts))
	for i, inst := range c.insts {
		u, err := tryMapInstruction(inst, f)
		if err != nil {
			return Code[U]{}, err
		}
		out[i] = u
	}
	return Code[U]{insts: out}, nil
}

func mapInstruction[T, U Int](inst Instruction[T], f func(T) U) Instruction[U] {
	out := Instruction[U]{Op: inst.Op, WReg: inst.WReg, RwReg: inst.RwReg, Address: inst.Address}
	switch inst.Value.Kind {
	case ValueConstant:
		out.Value = ConstantValue[U](f(inst.Value.Num))
	case ValueRegister:
		out.Value = RegisterValue[U](inst.Value.Reg)
	}
	return out
}

func tryMapInstruction[T, U Int](inst Instruction[T], f func(T) (U, error)) (Instruction[U], error) {
	out := Instruction[U]{Op: inst.Op, WReg: inst.WReg, RwReg: inst.RwReg, Address: inst.Address}
	switch inst.Value.Kind {
	case ValueConstant:
		u, err := f(inst.Value.Num)
		if err != nil {
			return Instruction[U]{}, err
		}
		out.Value = ConstantValue[U](u)
	case ValueRegister:
		out.Value = RegisterValue[U](inst.Value.Reg)
	}
	return out, nil
}

// Optimize runs the full rewrite pipeline and returns the result; a
// convenience equivalent to calling Optimize(c).
func (c Code[T]) Optimize() (Code[T], error) {
	return Optimize(c)
}
