package secp256k1

import (
	"encoding/binary"
	"math/bits"
	"unsafe"
)

// Scalar represents an integer modulo the secp256k1 group order n, using
// 4 uint64 limbs in little-endian limb order. Every operation keeps the
// value fully reduced.
type Scalar struct {
	d [4]uint64
}

// Group order constants
const (
	// Limbs of the secp256k1 order n
	scalarN0 = 0xBFD25E8CD0364141
	scalarN1 = 0xBAAEDCE6AF48A03B
	scalarN2 = 0xFFFFFFFFFFFFFFFE
	scalarN3 = 0xFFFFFFFFFFFFFFFF

	// Limbs of 2^256 - n
	scalarNC0 = 0x402DA1732FC9BEBF
	scalarNC1 = 0x4551231950B75FC4
	scalarNC2 = 0x0000000000000001

	// Limbs of n/2
	scalarNH0 = 0xDFE92F46681B20A0
	scalarNH1 = 0x5D576E7357A4501D
	scalarNH2 = 0xFFFFFFFFFFFFFFFF
	scalarNH3 = 0x7FFFFFFFFFFFFFFF
)

var (
	// ScalarZero is the scalar 0.
	ScalarZero = Scalar{}

	// ScalarOne is the scalar 1.
	ScalarOne = Scalar{d: [4]uint64{1, 0, 0, 0}}
)

// setB32 sets r from a 32-byte big-endian value reduced modulo n and
// reports whether the input was >= n.
func (r *Scalar) setB32(b []byte) (overflow bool) {
	if len(b) != 32 {
		panic("scalar byte array must be 32 bytes")
	}
	r.d[0] = binary.BigEndian.Uint64(b[24:32])
	r.d[1] = binary.BigEndian.Uint64(b[16:24])
	r.d[2] = binary.BigEndian.Uint64(b[8:16])
	r.d[3] = binary.BigEndian.Uint64(b[0:8])

	o := r.checkOverflow()
	r.reduce(o)
	return o == 1
}

// setB32Seckey sets r from b and reports whether b is a valid secret key,
// that is a value in [1, n-1].
func (r *Scalar) setB32Seckey(b []byte) bool {
	overflow := r.setB32(b)
	return !overflow && !r.isZero()
}

// getB32 writes r as 32 big-endian bytes.
func (r *Scalar) getB32(b []byte) {
	if len(b) != 32 {
		panic("scalar byte array must be 32 bytes")
	}
	binary.BigEndian.PutUint64(b[0:8], r.d[3])
	binary.BigEndian.PutUint64(b[8:16], r.d[2])
	binary.BigEndian.PutUint64(b[16:24], r.d[1])
	binary.BigEndian.PutUint64(b[24:32], r.d[0])
}

// bytes returns the 32-byte big-endian encoding of r.
func (r *Scalar) bytes() [32]byte {
	var out [32]byte
	r.getB32(out[:])
	return out
}

// setInt sets r to a small unsigned integer.
func (r *Scalar) setInt(v uint) {
	r.d = [4]uint64{uint64(v), 0, 0, 0}
}

// checkOverflow returns 1 if the unreduced limbs are >= n, in constant
// time.
func (r *Scalar) checkOverflow() uint64 {
	var yes, no uint64
	no |= ctLt64(r.d[3], scalarN3)
	no |= ctLt64(r.d[2], scalarN2)
	yes |= ctLt64(scalarN2, r.d[2]) &^ no
	no |= ctLt64(r.d[1], scalarN1)
	yes |= ctLt64(scalarN1, r.d[1]) &^ no
	yes |= ctGeq64(r.d[0], scalarN0) &^ no
	return yes
}

// reduce subtracts overflow*n from r by adding overflow*(2^256-n) and
// discarding the carry out of the top limb. overflow must be 0 or 1.
func (r *Scalar) reduce(overflow uint64) {
	if overflow > 1 {
		panic("scalar overflow must be 0 or 1")
	}
	var c uint64
	r.d[0], c = bits.Add64(r.d[0], overflow*scalarNC0, 0)
	r.d[1], c = bits.Add64(r.d[1], overflow*scalarNC1, c)
	r.d[2], c = bits.Add64(r.d[2], overflow*scalarNC2, c)
	r.d[3], _ = bits.Add64(r.d[3], 0, c)
}

// add sets r = a + b mod n and reports whether the integer sum wrapped.
func (r *Scalar) add(a, b *Scalar) bool {
	var c uint64
	r.d[0], c = bits.Add64(a.d[0], b.d[0], 0)
	r.d[1], c = bits.Add64(a.d[1], b.d[1], c)
	r.d[2], c = bits.Add64(a.d[2], b.d[2], c)
	r.d[3], c = bits.Add64(a.d[3], b.d[3], c)

	overflow := c | r.checkOverflow()
	r.reduce(overflow)
	return overflow == 1
}

// caddBit adds 2^bit to r when flag is 1. bit must be below 256 and the
// sum must not overflow n.
func (r *Scalar) caddBit(bit uint, flag int) {
	// A cleared flag pushes bit out of range so no limb matches.
	bit += uint(int64(flag)-1) & 0x100
	var c uint64
	limb := uint64(bit >> 6)
	one := uint64(1) << (bit & 0x3F)
	r.d[0], c = bits.Add64(r.d[0], ctEq64(limb, 0)*one, 0)
	r.d[1], c = bits.Add64(r.d[1], ctEq64(limb, 1)*one, c)
	r.d[2], c = bits.Add64(r.d[2], ctEq64(limb, 2)*one, c)
	r.d[3], _ = bits.Add64(r.d[3], ctEq64(limb, 3)*one, c)
}

// negate sets r = -a mod n.
func (r *Scalar) negate(a *Scalar) {
	nonzero := -ctNonZero64(a.d[0] | a.d[1] | a.d[2] | a.d[3])
	var c uint64
	var t [4]uint64
	t[0], c = bits.Add64(^a.d[0], scalarN0+1, 0)
	t[1], c = bits.Add64(^a.d[1], scalarN1, c)
	t[2], c = bits.Add64(^a.d[2], scalarN2, c)
	t[3], _ = bits.Add64(^a.d[3], scalarN3, c)
	r.d[0] = t[0] & nonzero
	r.d[1] = t[1] & nonzero
	r.d[2] = t[2] & nonzero
	r.d[3] = t[3] & nonzero
}

// condNegate negates r when flag is 1, without branching on flag. It
// returns -1 if r was negated and 1 otherwise.
func (r *Scalar) condNegate(flag int) int {
	mask := -(uint64(flag) & 1)
	nonzero := -ctNonZero64(r.d[0] | r.d[1] | r.d[2] | r.d[3])
	var c uint64
	var t [4]uint64
	t[0], c = bits.Add64(r.d[0]^mask, (scalarN0+1)&mask, 0)
	t[1], c = bits.Add64(r.d[1]^mask, scalarN1&mask, c)
	t[2], c = bits.Add64(r.d[2]^mask, scalarN2&mask, c)
	t[3], _ = bits.Add64(r.d[3]^mask, scalarN3&mask, c)
	r.d[0] = t[0] & nonzero
	r.d[1] = t[1] & nonzero
	r.d[2] = t[2] & nonzero
	r.d[3] = t[3] & nonzero
	return 2*int(ctEq64(mask, 0)) - 1
}

// isZero reports whether r is zero.
func (r *Scalar) isZero() bool {
	return (r.d[0] | r.d[1] | r.d[2] | r.d[3]) == 0
}

// isOne reports whether r is one.
func (r *Scalar) isOne() bool {
	return ((r.d[0] ^ 1) | r.d[1] | r.d[2] | r.d[3]) == 0
}

// isEven reports whether r is even.
func (r *Scalar) isEven() bool {
	return r.d[0]&1 == 0
}

// isHigh reports whether r > n/2, in constant time.
func (r *Scalar) isHigh() bool {
	var yes, no uint64
	no |= ctLt64(r.d[3], scalarNH3)
	yes |= ctLt64(scalarNH3, r.d[3]) &^ no
	no |= ctLt64(r.d[2], scalarNH2) &^ yes
	no |= ctLt64(r.d[1], scalarNH1) &^ yes
	yes |= ctLt64(scalarNH1, r.d[1]) &^ no
	yes |= ctLt64(scalarNH0, r.d[0]) &^ no
	return yes == 1
}

// equal reports whether r == a in constant time.
func (r *Scalar) equal(a *Scalar) bool {
	return ((r.d[0] ^ a.d[0]) | (r.d[1] ^ a.d[1]) | (r.d[2] ^ a.d[2]) | (r.d[3] ^ a.d[3])) == 0
}

// getBitsLimb32 returns count bits of r starting at offset. The range
// must not cross a limb boundary.
func (r *Scalar) getBitsLimb32(offset, count uint) uint32 {
	if count == 0 || count > 32 || (offset+count-1)>>6 != offset>>6 {
		panic("invalid scalar bit range")
	}
	return uint32(r.d[offset>>6]>>(offset&0x3F)) & (1<<count - 1)
}

// getBitsVar returns count bits of r starting at offset, where the range
// may span two limbs.
func (r *Scalar) getBitsVar(offset, count uint) uint32 {
	if count == 0 || count > 32 || offset+count > 256 {
		panic("invalid scalar bit range")
	}
	if (offset+count-1)>>6 == offset>>6 {
		return r.getBitsLimb32(offset, count)
	}
	lo := r.d[offset>>6] >> (offset & 0x3F)
	hi := r.d[offset>>6+1] << (64 - offset&0x3F)
	return uint32(lo|hi) & (1<<count - 1)
}

// shrInt shifts r right by n bits (1 <= n <= 15) and returns the bits
// shifted out.
func (r *Scalar) shrInt(n uint) uint32 {
	if n == 0 || n >= 16 {
		panic("invalid scalar shift")
	}
	ret := uint32(r.d[0] & (1<<n - 1))
	r.d[0] = r.d[0]>>n | r.d[1]<<(64-n)
	r.d[1] = r.d[1]>>n | r.d[2]<<(64-n)
	r.d[2] = r.d[2]>>n | r.d[3]<<(64-n)
	r.d[3] >>= n
	return ret
}

// cmov sets r = a when flag is 1, without branching on flag.
func (r *Scalar) cmov(a *Scalar, flag int) {
	mask := -(uint64(flag) & 1)
	r.d[0] ^= mask & (r.d[0] ^ a.d[0])
	r.d[1] ^= mask & (r.d[1] ^ a.d[1])
	r.d[2] ^= mask & (r.d[2] ^ a.d[2])
	r.d[3] ^= mask & (r.d[3] ^ a.d[3])
}

// clear scrubs r.
func (r *Scalar) clear() {
	memclear(unsafe.Pointer(&r.d[0]), unsafe.Sizeof(r.d))
}
