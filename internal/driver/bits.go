// Package driver supplies the ambient CLI plumbing shared by the
// cmd/rame-* binaries: the external compiler-collaborator contract,
// temp-file handling, interactive stdin prompting and the word-width
// dispatch. None of it is part of the RAM machine core; it exists
// only at the process boundary, per the core's own error-handling
// policy (diagnostics and recovery belong to the caller).
package driver

import "fmt"

// Bits selects the concrete word type a cmd binary instantiates the
// generic core with.
type Bits int

const (
	Int8 Bits = iota
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
)

func (b Bits) String() string {
	switch b {
	case Int8:
		return "i8"
	case Int16:
		return "i16"
	case Int32:
		return "i32"
	case Int64:
		return "i64"
	case Uint8:
		return "u8"
	case Uint16:
		return "u16"
	case Uint32:
		return "u32"
	case Uint64:
		return "u64"
	default:
		return "unknown"
	}
}

// ParseBits parses a -bits flag value (default "i16").
func ParseBits(s string) (Bits, error) {
	switch s {
	case "i8":
		return Int8, nil
	case "i16":
		return Int16, nil
	case "i32":
		return Int32, nil
	case "i64":
		return Int64, nil
	case "u8":
		return Uint8, nil
	case "u16":
		return Uint16, nil
	case "u32":
		return Uint32, nil
	case "u64":
		return Uint64, nil
	default:
		return 0, fmt.Errorf("unknown -bits value %q (want one of i8,i16,i32,i64,u8,u16,u32,u64)", s)
	}
}
