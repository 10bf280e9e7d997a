package rame

import "testing"

func runProgram[T Int](t *testing.T, src string, input []T) ([]T, error) {
	t.Helper()
	code, err := ParseString[T](src, DefaultParseOptions())
	assert(t, err == nil, "parse failed: %s", err)
	vm := New(code, NewSliceInput(input))
	return vm.Run()
}

func TestScenarioReadAddWrite(t *testing.T) {
	out, err := runProgram[int32](t, "READ\nADD #2\nWRITE\nSTOP", []int32{1})
	assert(t, err == nil, "run failed: %s", err)
	assert(t, len(out) == 1 && out[0] == 3, "expected [3], got %v", out)
}

func TestScenarioTruncatedSignedMod(t *testing.T) {
	src := "LOAD #2\nSTORE 1\nLOAD #-5\nSTORE 2\nMOD 1\nWRITE\nLOAD #-2\nSTORE 1\nLOAD 2\nMOD 1\nWRITE\nSTOP"
	out, err := runProgram[int32](t, src, nil)
	assert(t, err == nil, "run failed: %s", err)
	assert(t, len(out) == 2 && out[0] == -1 && out[1] == -1, "expected [-1 -1], got %v", out)
}

func TestScenarioIncOverflow8BitUnsigned(t *testing.T) {
	_, err := runProgram[uint8](t, "LOAD #255\nINC 0", nil)
	assert(t, err == ErrIntegerOverflow, "expected ErrIntegerOverflow, got %v", err)
}

func TestReadEofWithNoInput(t *testing.T) {
	_, err := runProgram[int32](t, "READ\nSTOP", nil)
	assert(t, err == ErrReadEof, "expected ErrReadEof, got %v", err)
}

func TestReadingUninitializedRegisterFails(t *testing.T) {
	_, err := runProgram[int32](t, "STORE 1\nSTOP", nil)
	var ru *ReadUninitError
	assert(t, errAsReadUninit(err, &ru), "expected ReadUninitError, got %v", err)
}

func errAsReadUninit(err error, target **ReadUninitError) bool {
	if ru, ok := err.(*ReadUninitError); ok {
		*target = ru
		return true
	}
	return false
}

func TestDirectJumpOutOfRangeIsInexistentJump(t *testing.T) {
	_, err := runProgram[int32](t, "JUMP 9\nSTOP", nil)
	assert(t, err == ErrInexistentJump, "expected ErrInexistentJump, got %v", err)
}

func TestFallingOffTheEndWithoutStopIsEof(t *testing.T) {
	_, err := runProgram[int32](t, "LOAD #1", nil)
	assert(t, err == ErrEof, "expected ErrEof, got %v", err)
}

func TestIndirectAddressing(t *testing.T) {
	src := "LOAD #3\nSTORE 1\nLOAD #99\nSTORE @1\nLOAD @1\nWRITE\nSTOP"
	out, err := runProgram[int32](t, src, nil)
	assert(t, err == nil, "run failed: %s", err)
	assert(t, len(out) == 1 && out[0] == 99, "expected [99], got %v", out)
}

func TestDeterminismSameInputSameOutput(t *testing.T) {
	src := "READ\nADD #2\nWRITE\nSTOP"
	a, errA := runProgram[int32](t, src, []int32{5})
	b, errB := runProgram[int32](t, src, []int32{5})
	assert(t, errA == nil && errB == nil, "unexpected errors: %v %v", errA, errB)
	assert(t, len(a) == len(b) && a[0] == b[0], "expected identical output, got %v vs %v", a, b)
}

func TestPeekRegisterReflectsLastWrite(t *testing.T) {
	code, err := ParseString[int32]("LOAD #7\nSTOP", DefaultParseOptions())
	assert(t, err == nil, "parse failed: %s", err)
	vm := New(code, NewSliceInput[int32](nil))
	assert(t, vm.Step() == nil, "step failed")
	v, ok := vm.PeekRegister(0)
	assert(t, ok && v == 7, "expected acc=7, got %v ok=%v", v, ok)
}
