package rame

import (
	"strings"
	"testing"
)

func TestParseStringBasicProgram(t *testing.T) {
	src := "READ\nADD #2\nWRITE\nSTOP\n"
	code, err := ParseString[int32](src, DefaultParseOptions())
	assert(t, err == nil, "parse failed: %s", err)
	assert(t, code.Len() == 4, "expected 4 instructions, got %d", code.Len())
}

func TestParseStripsCommentsAndBlankLines(t *testing.T) {
	src := "; a full comment line\nREAD ; trailing comment\n\nWRITE\nSTOP\n"
	code, err := ParseString[int32](src, DefaultParseOptions())
	assert(t, err == nil, "parse failed: %s", err)
	assert(t, code.Len() == 3, "expected 3 instructions after stripping, got %d", code.Len())
}

func TestParseFailsOnFirstError(t *testing.T) {
	src := "READ\nFROB 1\nBARF 2\nSTOP\n"
	_, err := ParseString[int32](src, DefaultParseOptions())
	assert(t, err != nil, "expected parse error")
	pe, ok := err.(*ParseCodeError)
	assert(t, ok, "expected *ParseCodeError, got %T", err)
	assert(t, pe.Line == 2, "should report the first bad line (2), got %d", pe.Line)
}

func TestParseEmptyYieldsErrNoInst(t *testing.T) {
	_, err := ParseString[int32]("; only a comment\n\n", DefaultParseOptions())
	assert(t, err == ErrNoInst, "expected ErrNoInst, got %v", err)
}

func TestDefaultCodeIsSingletonStop(t *testing.T) {
	c := DefaultCode[int32]()
	assert(t, c.Len() == 1, "expected a single instruction")
	inst, _ := c.Get(0)
	assert(t, inst.IsStop(), "default code should be STOP")
}

func TestNewCodePanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic constructing Code from an empty slice")
		}
	}()
	NewCode[int32](nil)
}

func TestCodeWriteRoundTrip(t *testing.T) {
	src := "READ\nADD #2\nWRITE\nSTOP"
	code, err := ParseString[int32](src, DefaultParseOptions())
	assert(t, err == nil, "parse failed: %s", err)

	var b strings.Builder
	assert(t, code.Write(&b) == nil, "write failed")
	assert(t, b.String() == src, "round trip mismatch:\n%q\nvs\n%q", b.String(), src)
}

func TestMapPreservesStructureRewritesConstants(t *testing.T) {
	src := "LOAD #5\nADD #2\nSTOP"
	code, err := ParseString[int32](src, DefaultParseOptions())
	assert(t, err == nil, "parse failed: %s", err)

	mapped := Map(code, func(v int32) int64 { return int64(v) * 10 })
	inst, _ := mapped.Get(0)
	assert(t, inst.Value.Num == 50, "expected mapped constant 50, got %v", inst.Value.Num)
}

func TestTryMapStopsOnFirstError(t *testing.T) {
	src := "LOAD #5\nADD #2\nSTOP"
	code, err := ParseString[int32](src, DefaultParseOptions())
	assert(t, err == nil, "parse failed: %s", err)

	_, err = TryMap(code, func(v int32) (int8, error) {
		if v == 5 {
			return 0, &IndexError[int32]{Value: v}
		}
		return int8(v), nil
	})
	assert(t, err != nil, "expected TryMap to fail on the first bad value")
}
