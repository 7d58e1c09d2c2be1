package secp256k1

import (
	"math/bits"
	"unsafe"
)

// memclear zeroes n bytes starting at ptr. It is used to scrub secret
// material out of stack and heap values before they are released.
func memclear(ptr unsafe.Pointer, n uintptr) {
	clear(unsafe.Slice((*byte)(ptr), n))
}

// zeroBytes scrubs a byte slice.
func zeroBytes(b []byte) {
	clear(b)
}

// ctEq64 returns 1 if a == b and 0 otherwise without branching.
func ctEq64(a, b uint64) uint64 {
	d := a ^ b
	return 1 ^ ((d | -d) >> 63)
}

// ctNonZero64 returns 1 if a != 0 and 0 otherwise without branching.
func ctNonZero64(a uint64) uint64 {
	return (a | -a) >> 63
}

// ctLt64 returns 1 if a < b and 0 otherwise without branching.
func ctLt64(a, b uint64) uint64 {
	_, borrow := bits.Sub64(a, b, 0)
	return borrow
}

// ctGeq64 returns 1 if a >= b and 0 otherwise without branching.
func ctGeq64(a, b uint64) uint64 {
	return ctLt64(a, b) ^ 1
}

// ctEqInt returns 1 if a == b and 0 otherwise without branching.
func ctEqInt(a, b int) int {
	return int(ctEq64(uint64(a), uint64(b)))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
