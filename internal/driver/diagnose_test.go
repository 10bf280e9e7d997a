package driver

import (
	"strings"
	"testing"

	"rame"
)

func TestFormatParseErrorWithLocation(t *testing.T) {
	_, err := rame.ParseString[int32]("READ\nFROB 1\nSTOP", rame.DefaultParseOptions())
	if err == nil {
		t.Fatal("expected a parse error")
	}
	msg := FormatParseError("prog.ram", err)
	if !strings.Contains(msg, "prog.ram:2:") {
		t.Fatalf("expected the 1-based line number in the message, got %q", msg)
	}
	if !strings.Contains(msg, "FROB 1") {
		t.Fatalf("expected the offending line text in the message, got %q", msg)
	}
}

func TestFormatRunErrorIncludesOverflowHelp(t *testing.T) {
	code, err := rame.ParseString[uint8]("LOAD #255\nINC 0", rame.DefaultParseOptions())
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	vm := rame.New(code, rame.NewSliceInput[uint8](nil))
	var runErr error
	for {
		if runErr = vm.Step(); runErr != nil {
			break
		}
		if vm.Current().IsStop() {
			break
		}
	}
	if runErr == nil {
		t.Fatal("expected an overflow error")
	}
	msg := FormatRunError(vm, runErr)
	if !strings.Contains(msg, "word range is [0, 255]") {
		t.Fatalf("expected a word-range help line, got %q", msg)
	}
}

func TestFormatRunErrorIncludesMissingStopHint(t *testing.T) {
	code, err := rame.ParseString[int32]("LOAD #1", rame.DefaultParseOptions())
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	vm := rame.New(code, rame.NewSliceInput[int32](nil))
	_, runErr := vm.Run()
	if runErr == nil {
		t.Fatal("expected ErrEof")
	}
	msg := FormatRunError(vm, runErr)
	if !strings.Contains(msg, "missing STOP?") {
		t.Fatalf("expected a missing-STOP hint, got %q", msg)
	}
}
