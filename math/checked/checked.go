/*
Package checked implements unsigned word arithmetic
with underflow and overflow checks. The noun and jet
packages use it to stay on the direct-atom fast path
and fall back to big integers when a check fails.
*/
package checked

import "math"

// AddUint64 returns a + b
// with an integer overflow check.
func AddUint64(a, b uint64) (sum uint64, ok bool) {
	if math.MaxUint64-a < b {
		return 0, false
	}
	return a + b, true
}

// SubUint64 returns a - b
// with an integer underflow check.
func SubUint64(a, b uint64) (diff uint64, ok bool) {
	if a < b {
		return 0, false
	}
	return a - b, true
}

// MulUint64 returns a * b
// with an integer overflow check.
func MulUint64(a, b uint64) (product uint64, ok bool) {
	if b > 0 && a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

// DivUint64 returns a / b, failing on division by zero.
func DivUint64(a, b uint64) (quotient uint64, ok bool) {
	if b == 0 {
		return 0, false
	}
	return a / b, true
}

// ModUint64 returns a % b, failing on division by zero.
func ModUint64(a, b uint64) (remainder uint64, ok bool) {
	if b == 0 {
		return 0, false
	}
	return a % b, true
}

// LshiftUint64 returns a << b
// with an integer overflow check.
func LshiftUint64(a, b uint64) (result uint64, ok bool) {
	if b >= 64 {
		return 0, false
	}
	if a > math.MaxUint64>>uint(b) {
		return 0, false
	}
	return a << uint(b), true
}
