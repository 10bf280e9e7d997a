package driver

import (
	"strings"
	"testing"
)

func TestPromptReaderYieldsUntilBlankLine(t *testing.T) {
	r := NewPromptReader[int32](strings.NewReader("1\n2\n\n3\n"), &strings.Builder{})
	var got []int32
	for {
		v, ok := r.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2], got %v", got)
	}
}

func TestPromptReaderEndsOnEof(t *testing.T) {
	r := NewPromptReader[int32](strings.NewReader("5\n7"), &strings.Builder{})
	var got []int32
	for {
		v, ok := r.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != 5 || got[1] != 7 {
		t.Fatalf("expected [5 7], got %v", got)
	}
	if _, ok := r.Next(); ok {
		t.Fatal("expected the reader to stay exhausted after EOF")
	}
}

func TestPromptReaderSkipsUnparsableThenRecovers(t *testing.T) {
	r := NewPromptReader[int32](strings.NewReader("oops\n9\n"), &strings.Builder{})
	v, ok := r.Next()
	if !ok || v != 9 {
		t.Fatalf("expected the reader to skip the bad line and yield 9, got %v ok=%v", v, ok)
	}
}
