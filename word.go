package rame

import (
	"fmt"
	"math/big"
)

// Int is the word-type constraint: any fixed-width signed or unsigned
// integer usable as a RAM machine word and register cell value.
type Int interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// IndexError reports a word value that cannot serve as a register or
// instruction index (negative, or too large for a Go int).
type IndexError[T Int] struct {
	Value T
}

func (e *IndexError[T]) Error() string {
	return fmt.Sprintf("value %v out of range for an index", e.Value)
}

func bitSize[T Int]() uint {
	return uint(sizeofInt[T]()) * 8
}

// sizeofInt returns T's width in bytes from a type switch on its
// concrete type, which keeps the package free of unsafe. A type
// defined over an integer type matches no case and is reported as 8
// bytes wide.
func sizeofInt[T Int]() int {
	switch any(*new(T)).(type) {
	case int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32:
		return 4
	case int64, uint64, int, uint:
		return 8
	default:
		return 8
	}
}

func isSigned[T Int]() bool {
	var z T
	z--
	return z < 0
}

func minValue[T Int]() T {
	if !isSigned[T]() {
		return 0
	}
	bits := bitSize[T]()
	return T(uint64(1) << (bits - 1))
}

func maxValue[T Int]() T {
	bits := bitSize[T]()
	if isSigned[T]() {
		return T(uint64(1)<<(bits-1) - 1)
	}
	if bits >= 64 {
		all := ^uint64(0)
		return T(all)
	}
	return T(uint64(1)<<bits - 1)
}

// MinValue returns the smallest representable value of T.
func MinValue[T Int]() T { return minValue[T]() }

// MaxValue returns the largest representable value of T.
func MaxValue[T Int]() T { return maxValue[T]() }

func toBig[T Int](v T) *big.Int {
	if isSigned[T]() {
		return big.NewInt(int64(v))
	}
	return new(big.Int).SetUint64(uint64(v))
}

func fromBig[T Int](v *big.Int) T {
	if isSigned[T]() {
		return T(v.Int64())
	}
	return T(v.Uint64())
}

func checkedOp[T Int](a, b T, op func(x, y *big.Int) *big.Int) (T, bool) {
	r := op(toBig(a), toBig(b))
	lo := toBig(minValue[T]())
	hi := toBig(maxValue[T]())
	if r.Cmp(lo) < 0 || r.Cmp(hi) > 0 {
		return 0, false
	}
	return fromBig[T](r), true
}

// CheckedAdd returns a+b and whether it fit in T's range.
func CheckedAdd[T Int](a, b T) (T, bool) {
	return checkedOp(a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Add(x, y) })
}

// CheckedSub returns a-b and whether it fit in T's range.
func CheckedSub[T Int](a, b T) (T, bool) {
	return checkedOp(a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Sub(x, y) })
}

// CheckedMul returns a*b and whether it fit in T's range.
func CheckedMul[T Int](a, b T) (T, bool) {
	return checkedOp(a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Mul(x, y) })
}

// CheckedDiv returns a/b truncated toward zero. Division by zero is
// reported as an overflow (ok=false), not a distinct failure, per the
// RAM machine's error taxonomy.
func CheckedDiv[T Int](a, b T) (T, bool) {
	if b == 0 {
		return 0, false
	}
	return checkedOp(a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Quo(x, y) })
}

// CheckedMod returns a%b with the truncated-division convention
// ((-5) % 2 == -1), not Euclidean/floored. Modulus by zero is reported
// as an overflow.
func CheckedMod[T Int](a, b T) (T, bool) {
	if b == 0 {
		return 0, false
	}
	return checkedOp(a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Rem(x, y) })
}

// ToIndex converts a word value to a non-negative Go int, failing for
// negative values or values too large to address memory with.
func ToIndex[T Int](v T) (int, error) {
	if isSigned[T]() {
		iv := int64(v)
		if iv < 0 {
			return 0, &IndexError[T]{v}
		}
		return int(iv), nil
	}
	uv := uint64(v)
	const maxInt = int64(^uint(0) >> 1)
	if uv > uint64(maxInt) {
		return 0, &IndexError[T]{v}
	}
	return int(uv), nil
}
