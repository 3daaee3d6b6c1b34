// Package arith provides overflow-checked address arithmetic shared by the
// planner and the address-space backends.
package arith

import "math"

// AlignTo rounds v up to the next multiple of align.
// align must be a power of two; 0 is treated as no alignment.
func AlignTo(v, align uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// AlignToChecked rounds v up to the next multiple of align, reporting
// whether the rounding stayed within uint64.
func AlignToChecked(v, align uint64) (uint64, bool) {
	if align == 0 {
		return v, true
	}
	sum, ok := SafeAdd(v, align-1)
	if !ok {
		return 0, false
	}
	return sum &^ (align - 1), true
}

// IsPowerOfTwo reports whether v is a positive power of two.
func IsPowerOfTwo(v uint64) bool {
	return v != 0 && v&(v-1) == 0
}

func SafeAdd(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

func SafeMul(a, b uint64) (uint64, bool) {
	if b != 0 && a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}
