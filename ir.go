package rame

import (
	"fmt"
	"strconv"
)

// Ir is a program-counter value: the index of an instruction in a
// Code. Always non-negative.
type Ir int

// NewIr wraps a non-negative int as an Ir.
func NewIr(i int) Ir { return Ir(i) }

// CheckedAddSigned computes self+rhs, reporting whether the result
// stayed non-negative.
func (ir Ir) CheckedAddSigned(rhs int) (Ir, bool) {
	r := int(ir) + rhs
	if r < 0 {
		return 0, false
	}
	return Ir(r), true
}

func (ir Ir) String() string { return strconv.Itoa(int(ir)) }

// ParseIr parses the textual form of an Ir.
func ParseIr(s string) (Ir, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative instruction index %q", s)
	}
	return Ir(n), nil
}
