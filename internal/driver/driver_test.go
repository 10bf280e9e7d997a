package driver

import (
	"os"
	"testing"
)

func TestTempFileCreatesAndRemoves(t *testing.T) {
	tmp, err := NewTempFile("program.ram")
	if err != nil {
		t.Fatalf("NewTempFile failed: %s", err)
	}
	if _, err := os.Stat(tmp.Path()); err != nil {
		t.Fatalf("temp file should exist after creation: %s", err)
	}
	tmp.Remove()
	if _, err := os.Stat(tmp.Path()); !os.IsNotExist(err) {
		t.Fatalf("temp file should be gone after Remove, stat err = %v", err)
	}
}

func TestDriveWithoutCompileReturnsInfileUnchanged(t *testing.T) {
	path, cleanup, err := New().Infile("program.ram").Drive()
	if err != nil {
		t.Fatalf("Drive failed: %s", err)
	}
	defer cleanup()
	if path != "program.ram" {
		t.Fatalf("expected Drive to pass through the infile path unchanged, got %q", path)
	}
}

func TestDriveRequiresInfile(t *testing.T) {
	if _, _, err := New().Drive(); err == nil {
		t.Fatal("expected Drive to fail without an Infile set")
	}
}

func TestRunCompilerReportsFailure(t *testing.T) {
	err := RunCompiler("/nonexistent/compiler/binary", "in.src", "out.ram")
	if err == nil {
		t.Fatal("expected RunCompiler to fail for a nonexistent binary")
	}
}
