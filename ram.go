package rame

import "fmt"

// Input is a finite, fused source of words: once Next reports no
// value, it must keep reporting no value.
type Input[T Int] interface {
	Next() (T, bool)
}

// SliceInput adapts a plain slice into a fused Input.
type SliceInput[T Int] struct {
	vals []T
	pos  int
}

// NewSliceInput returns an Input that yields vals in order, then ends.
func NewSliceInput[T Int](vals []T) *SliceInput[T] {
	return &SliceInput[T]{vals: vals}
}

func (s *SliceInput[T]) Next() (T, bool) {
	if s.pos >= len(s.vals) {
		return 0, false
	}
	v := s.vals[s.pos]
	s.pos++
	return v, true
}

type cell[T Int] struct {
	init bool
	val  T
}

// Ram is the RAM machine interpreter. It owns its memory, input
// cursor and output vector for its lifetime.
type Ram[T Int] struct {
	code    Code[T]
	memory  []cell[T]
	input   Input[T]
	done    bool // input exhausted (fused)
	output  []T
	ir      Ir
	current Instruction[T]
}

// New builds an interpreter over code starting at Ir 0, consuming
// input on Read. code is guaranteed nonempty by its own invariant.
func New[T Int](code Code[T], input Input[T]) *Ram[T] {
	first, _ := code.Get(0)
	return &Ram[T]{code: code, input: input, ir: 0, current: first}
}

// Ir returns the program counter of the instruction about to execute
// (or that last failed to execute).
func (r *Ram[T]) Ir() Ir { return r.ir }

// Current returns the instruction about to execute (or that last
// failed).
func (r *Ram[T]) Current() Instruction[T] { return r.current }

// Output returns a copy of the accumulated write-stream so far.
func (r *Ram[T]) Output() []T {
	out := make([]T, len(r.output))
	copy(out, r.output)
	return out
}

// PeekRegister reads a register without side effects, for
// diagnostics; ok is false if the index was never initialized.
func (r *Ram[T]) PeekRegister(idx int) (v T, ok bool) {
	if idx < 0 || idx >= len(r.memory) || !r.memory[idx].init {
		return 0, false
	}
	return r.memory[idx].val, true
}

func (r *Ram[T]) readRegister(idx int) (T, error) {
	if idx < 0 || idx >= len(r.memory) || !r.memory[idx].init {
		return 0, &ReadUninitError{Adr: idx}
	}
	return r.memory[idx].val, nil
}

func (r *Ram[T]) writeRegister(idx int, v T) {
	if idx >= len(r.memory) {
		grown := make([]cell[T], idx+1)
		copy(grown, r.memory)
		r.memory = grown
	}
	r.memory[idx] = cell[T]{init: true, val: v}
}

// resolveIndirect reads loc's value and converts it to a memory index.
func (r *Ram[T]) resolveIndirect(loc int) (int, error) {
	v, err := r.readRegister(loc)
	if err != nil {
		return 0, err
	}
	idx, err := ToIndex(v)
	if err != nil {
		return 0, &InvalidAddressRunError{Adr: loc, Cause: err}
	}
	return idx, nil
}

func (r *Ram[T]) resolveValue(v Value[T]) (T, error) {
	if v.Kind == ValueConstant {
		return v.Num, nil
	}
	if v.Reg.Indirect() {
		idx, err := r.resolveIndirect(v.Reg.Loc())
		if err != nil {
			return 0, err
		}
		return r.readRegister(idx)
	}
	return r.readRegister(v.Reg.Loc())
}

func (r *Ram[T]) resolveWriteTarget(loc int, indirect bool) (int, error) {
	if !indirect {
		return loc, nil
	}
	return r.resolveIndirect(loc)
}

func (r *Ram[T]) resolveAddress(a Address) (Ir, error) {
	if a.Kind == AddressConstant {
		return a.Ir, nil
	}
	idx, err := r.resolveIndirect(a.Reg.Loc())
	if err != nil {
		if ae, ok := err.(*InvalidAddressRunError); ok {
			return 0, &InvalidJumpError{Cause: ae.Cause}
		}
		return 0, err
	}
	return Ir(idx), nil
}

func checkedInc[T Int](a T) (T, bool) { return CheckedAdd(a, T(1)) }
func checkedDec[T Int](a T) (T, bool) { return CheckedSub(a, T(1)) }

// Step executes the current instruction. It returns nil and leaves
// Current() == Stop on termination, nil with the next instruction
// fetched on ordinary progress, or a RunError-family error on failure,
// in which case Ir() and Current() still describe the instruction
// that failed.
func (r *Ram[T]) Step() error {
	cur := r.current
	nextIr := r.ir + 1
	jumped := false
	switch cur.Op {
	case OpRead:
		if r.done {
			return ErrReadEof
		}
		v, ok := r.input.Next()
		if !ok {
			r.done = true
			return ErrReadEof
		}
		r.writeRegister(0, v)
	case OpWrite:
		v, err := r.readRegister(0)
		if err != nil {
			return err
		}
		r.output = append(r.output, v)
	case OpLoad:
		v, err := r.resolveValue(cur.Value)
		if err != nil {
			return err
		}
		r.writeRegister(0, v)
	case OpStore:
		acc, err := r.readRegister(0)
		if err != nil {
			return err
		}
		idx, err := r.resolveWriteTarget(cur.WReg.Loc(), cur.WReg.Indirect())
		if err != nil {
			return err
		}
		r.writeRegister(idx, acc)
	case OpInc, OpDec:
		idx, err := r.resolveWriteTarget(cur.RwReg.Loc(), cur.RwReg.Indirect())
		if err != nil {
			return err
		}
		v, err := r.readRegister(idx)
		if err != nil {
			return err
		}
		var res T
		var ok bool
		if cur.Op == OpInc {
			res, ok = checkedInc(v)
		} else {
			res, ok = checkedDec(v)
		}
		if !ok {
			return ErrIntegerOverflow
		}
		r.writeRegister(idx, res)
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		acc, err := r.readRegister(0)
		if err != nil {
			return err
		}
		v, err := r.resolveValue(cur.Value)
		if err != nil {
			return err
		}
		var res T
		var ok bool
		switch cur.Op {
		case OpAdd:
			res, ok = CheckedAdd(acc, v)
		case OpSub:
			res, ok = CheckedSub(acc, v)
		case OpMul:
			res, ok = CheckedMul(acc, v)
		case OpDiv:
			res, ok = CheckedDiv(acc, v)
		case OpMod:
			res, ok = CheckedMod(acc, v)
		}
		if !ok {
			return ErrIntegerOverflow
		}
		r.writeRegister(0, res)
	case OpJump:
		target, err := r.resolveAddress(cur.Address)
		if err != nil {
			return err
		}
		nextIr = target
		jumped = true
	case OpJumpZero, OpJumpLtz, OpJumpGtz:
		acc, err := r.readRegister(0)
		if err != nil {
			return err
		}
		hold := false
		switch cur.Op {
		case OpJumpZero:
			hold = acc == 0
		case OpJumpLtz:
			hold = acc < 0
		case OpJumpGtz:
			hold = acc > 0
		}
		if hold {
			target, err := r.resolveAddress(cur.Address)
			if err != nil {
				return err
			}
			nextIr = target
			jumped = true
		}
	case OpStop:
		return nil
	case OpNop:
		// fall through to ir+1
	default:
		return fmt.Errorf("rame: unhandled opcode %v", cur.Op)
	}

	if cur.Op == OpStop {
		return nil
	}
	inst, ok := r.code.Get(nextIr)
	if !ok {
		if jumped {
			return ErrInexistentJump
		}
		return ErrEof
	}
	r.ir = nextIr
	r.current = inst
	return nil
}

// Run drives the interpreter to completion: repeated Step calls until
// Current() == Stop (returning the accumulated output) or an error.
func (r *Ram[T]) Run() ([]T, error) {
	for !r.current.IsStop() {
		if err := r.Step(); err != nil {
			return nil, err
		}
	}
	return r.Output(), nil
}
