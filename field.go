package secp256k1

import (
	"encoding/binary"
	"encoding/hex"
	"unsafe"
)

// FieldElement represents a field element modulo the secp256k1 field prime
// p = 2^256 - 2^32 - 977, using 5 uint64 limbs in base 2^52.
//
// Arithmetic defers carry propagation. The magnitude records how many
// unreduced values have been summed into the limbs: a magnitude m element
// has limbs 0..3 below m*2^53 and limb 4 below m*2^49. Operations that
// compare, serialize or branch on the value require a normalized element
// and panic otherwise.
type FieldElement struct {
	// n represents sum(i=0..4, n[i] << (i*52)) mod p
	n [5]uint64

	magnitude  int
	normalized bool
}

// FieldElementStorage is the compact, always normalized 4x64 form of a
// field element used in precomputed tables.
type FieldElementStorage struct {
	n [4]uint64
}

const (
	// 2^256 mod p
	fieldReductionConstant = 0x1000003D1
	// fieldReductionConstant << 4, used by the multiplication routines
	fieldReductionConstantShifted = 0x1000003D10

	limb0Max = 0xFFFFFFFFFFFFF // 2^52 - 1
	limb4Max = 0x0FFFFFFFFFFFF // 2^48 - 1

	fieldModulusLimb0 = 0xFFFFEFFFFFC2F
	fieldModulusLimb1 = 0xFFFFFFFFFFFFF
	fieldModulusLimb2 = 0xFFFFFFFFFFFFF
	fieldModulusLimb3 = 0xFFFFFFFFFFFFF
	fieldModulusLimb4 = 0x0FFFFFFFFFFFF

	// fieldMaxMulMagnitude is the largest input magnitude mul and sqr accept.
	fieldMaxMulMagnitude = 8
	// fieldMaxMagnitude is the largest magnitude any element may carry.
	fieldMaxMagnitude = 32
)

var (
	// FieldElementOne is the field element 1.
	FieldElementOne = FieldElement{
		n:          [5]uint64{1, 0, 0, 0, 0},
		magnitude:  1,
		normalized: true,
	}

	// FieldElementZero is the field element 0.
	FieldElementZero = FieldElement{
		magnitude:  0,
		normalized: true,
	}
)

// verify checks the limb bounds implied by the magnitude and, for
// normalized elements, that the value is below p.
func (r *FieldElement) verify() bool {
	m := uint64(r.magnitude)
	if r.normalized {
		m = 1
	} else {
		m *= 2
	}
	if r.magnitude < 0 || r.magnitude > fieldMaxMagnitude {
		return false
	}
	if r.n[0] > limb0Max*m || r.n[1] > limb0Max*m || r.n[2] > limb0Max*m ||
		r.n[3] > limb0Max*m || r.n[4] > limb4Max*m {
		return false
	}
	if r.normalized {
		if r.magnitude > 1 {
			return false
		}
		if r.n[4] == limb4Max && (r.n[3]&r.n[2]&r.n[1]) == limb0Max &&
			r.n[0] >= fieldModulusLimb0 {
			return false
		}
	}
	return true
}

func (r *FieldElement) mustNormalized() {
	if !r.normalized {
		panic("field element must be normalized")
	}
}

// setB32Mod sets r from a 32-byte big-endian value, reducing modulo p
// lazily: the result has magnitude 1 and is not normalized.
func (r *FieldElement) setB32Mod(b []byte) {
	if len(b) != 32 {
		panic("field element byte array must be 32 bytes")
	}
	d0 := binary.BigEndian.Uint64(b[24:32])
	d1 := binary.BigEndian.Uint64(b[16:24])
	d2 := binary.BigEndian.Uint64(b[8:16])
	d3 := binary.BigEndian.Uint64(b[0:8])

	r.n[0] = d0 & limb0Max
	r.n[1] = (d0>>52 | d1<<12) & limb0Max
	r.n[2] = (d1>>40 | d2<<24) & limb0Max
	r.n[3] = (d2>>28 | d3<<36) & limb0Max
	r.n[4] = d3 >> 16

	r.magnitude = 1
	r.normalized = false
}

// setB32Limit sets r from a 32-byte big-endian value and reports whether
// the value was below p. Values in [p, 2^256) are rejected; r is then
// left holding the unreduced input with magnitude 1.
func (r *FieldElement) setB32Limit(b []byte) bool {
	r.setB32Mod(b)
	overflow := r.n[4] == limb4Max && (r.n[3]&r.n[2]&r.n[1]) == limb0Max &&
		r.n[0] >= fieldModulusLimb0
	if overflow {
		return false
	}
	r.normalized = true
	return true
}

// getB32 writes the normalized element r as 32 big-endian bytes.
func (r *FieldElement) getB32(b []byte) {
	if len(b) != 32 {
		panic("field element byte array must be 32 bytes")
	}
	r.mustNormalized()

	binary.BigEndian.PutUint64(b[24:32], r.n[0]|r.n[1]<<52)
	binary.BigEndian.PutUint64(b[16:24], r.n[1]>>12|r.n[2]<<40)
	binary.BigEndian.PutUint64(b[8:16], r.n[2]>>24|r.n[3]<<28)
	binary.BigEndian.PutUint64(b[0:8], r.n[3]>>36|r.n[4]<<16)
}

// bytes returns the 32-byte big-endian encoding of a normalized element.
func (r *FieldElement) bytes() [32]byte {
	var out [32]byte
	r.getB32(out[:])
	return out
}

// normalize fully reduces r to its canonical representation in constant
// time.
func (r *FieldElement) normalize() {
	t0, t1, t2, t3, t4 := r.n[0], r.n[1], r.n[2], r.n[3], r.n[4]

	// Reduce t4 at the start so there will be at most a single carry from
	// the first pass.
	x := t4 >> 48
	t4 &= limb4Max

	t0 += x * fieldReductionConstant
	t1 += t0 >> 52
	t0 &= limb0Max
	t2 += t1 >> 52
	t1 &= limb0Max
	m := t1
	t3 += t2 >> 52
	t2 &= limb0Max
	m &= t2
	t4 += t3 >> 52
	t3 &= limb0Max
	m &= t3

	// At most one final reduction is needed; it is applied unconditionally.
	x = (t4 >> 48) | (ctEq64(t4, limb4Max) & ctEq64(m, limb0Max) & ctGeq64(t0, fieldModulusLimb0))

	t0 += x * fieldReductionConstant
	t1 += t0 >> 52
	t0 &= limb0Max
	t2 += t1 >> 52
	t1 &= limb0Max
	t3 += t2 >> 52
	t2 &= limb0Max
	t4 += t3 >> 52
	t3 &= limb0Max

	// Mask off the possible multiple of 2^256 from the final reduction.
	t4 &= limb4Max

	r.n[0], r.n[1], r.n[2], r.n[3], r.n[4] = t0, t1, t2, t3, t4
	r.magnitude = 1
	r.normalized = true
}

// normalizeWeak reduces r to magnitude 1 without producing the canonical
// representative.
func (r *FieldElement) normalizeWeak() {
	t0, t1, t2, t3, t4 := r.n[0], r.n[1], r.n[2], r.n[3], r.n[4]

	x := t4 >> 48
	t4 &= limb4Max

	t0 += x * fieldReductionConstant
	t1 += t0 >> 52
	t0 &= limb0Max
	t2 += t1 >> 52
	t1 &= limb0Max
	t3 += t2 >> 52
	t2 &= limb0Max
	t4 += t3 >> 52
	t3 &= limb0Max

	r.n[0], r.n[1], r.n[2], r.n[3], r.n[4] = t0, t1, t2, t3, t4
	r.magnitude = 1
}

// normalizeVar is normalize with a data-dependent final reduction. Only
// use it on public values.
func (r *FieldElement) normalizeVar() {
	t0, t1, t2, t3, t4 := r.n[0], r.n[1], r.n[2], r.n[3], r.n[4]

	x := t4 >> 48
	t4 &= limb4Max

	t0 += x * fieldReductionConstant
	t1 += t0 >> 52
	t0 &= limb0Max
	t2 += t1 >> 52
	t1 &= limb0Max
	m := t1
	t3 += t2 >> 52
	t2 &= limb0Max
	m &= t2
	t4 += t3 >> 52
	t3 &= limb0Max
	m &= t3

	x = t4 >> 48
	if t4 == limb4Max && m == limb0Max && t0 >= fieldModulusLimb0 {
		x = 1
	}

	if x != 0 {
		t0 += fieldReductionConstant
		t1 += t0 >> 52
		t0 &= limb0Max
		t2 += t1 >> 52
		t1 &= limb0Max
		t3 += t2 >> 52
		t2 &= limb0Max
		t4 += t3 >> 52
		t3 &= limb0Max
		t4 &= limb4Max
	}

	r.n[0], r.n[1], r.n[2], r.n[3], r.n[4] = t0, t1, t2, t3, t4
	r.magnitude = 1
	r.normalized = true
}

// normalizesToZero reports whether r is congruent to zero mod p, in
// constant time. r is not modified.
func (r *FieldElement) normalizesToZero() bool {
	t0, t1, t2, t3, t4 := r.n[0], r.n[1], r.n[2], r.n[3], r.n[4]

	x := t4 >> 48
	t4 &= limb4Max

	// z0 tracks a possible raw value of 0, z1 tracks a possible raw value
	// of p.
	t0 += x * fieldReductionConstant
	t1 += t0 >> 52
	t0 &= limb0Max
	z0 := t0
	z1 := t0 ^ 0x1000003D0
	t2 += t1 >> 52
	t1 &= limb0Max
	z0 |= t1
	z1 &= t1
	t3 += t2 >> 52
	t2 &= limb0Max
	z0 |= t2
	z1 &= t2
	t4 += t3 >> 52
	t3 &= limb0Max
	z0 |= t3
	z1 &= t3
	z0 |= t4
	z1 &= t4 ^ 0xF000000000000

	return (ctEq64(z0, 0) | ctEq64(z1, limb0Max)) == 1
}

// normalizesToZeroVar is normalizesToZero with an early exit for the
// overwhelmingly common non-zero case.
func (r *FieldElement) normalizesToZeroVar() bool {
	t0, t4 := r.n[0], r.n[4]

	x := t4 >> 48
	t0 += x * fieldReductionConstant

	z0 := t0 & limb0Max
	z1 := z0 ^ 0x1000003D0
	if z0 != 0 && z1 != limb0Max {
		return false
	}

	t1, t2, t3 := r.n[1], r.n[2], r.n[3]
	t4 &= limb4Max

	t1 += t0 >> 52
	t2 += t1 >> 52
	t1 &= limb0Max
	z0 |= t1
	z1 &= t1
	t3 += t2 >> 52
	t2 &= limb0Max
	z0 |= t2
	z1 &= t2
	t4 += t3 >> 52
	t3 &= limb0Max
	z0 |= t3
	z1 &= t3
	z0 |= t4
	z1 &= t4 ^ 0xF000000000000

	return z0 == 0 || z1 == limb0Max
}

// isZero reports whether the normalized element r is zero.
func (r *FieldElement) isZero() bool {
	r.mustNormalized()
	return (r.n[0] | r.n[1] | r.n[2] | r.n[3] | r.n[4]) == 0
}

// isOdd reports whether the normalized element r is odd.
func (r *FieldElement) isOdd() bool {
	r.mustNormalized()
	return r.n[0]&1 == 1
}

// equal reports whether r and a represent the same value, in constant
// time. r must have magnitude at most 1 and a at most 31.
func (r *FieldElement) equal(a *FieldElement) bool {
	var na FieldElement
	na.negate(r, 1)
	na.add(a)
	return na.normalizesToZero()
}

// equalVar is the variable-time counterpart of equal.
func (r *FieldElement) equalVar(a *FieldElement) bool {
	var na FieldElement
	na.negate(r, 1)
	na.add(a)
	return na.normalizesToZeroVar()
}

// cmpVar compares two normalized elements as integers and returns -1, 0
// or 1.
func (r *FieldElement) cmpVar(a *FieldElement) int {
	r.mustNormalized()
	a.mustNormalized()
	for i := 4; i >= 0; i-- {
		if r.n[i] > a.n[i] {
			return 1
		}
		if r.n[i] < a.n[i] {
			return -1
		}
	}
	return 0
}

// setInt sets r to a small non-negative integer.
func (r *FieldElement) setInt(a int) {
	if a < 0 || a > 0x7FFF {
		panic("value out of range")
	}
	r.n = [5]uint64{uint64(a), 0, 0, 0, 0}
	r.magnitude = boolToInt(a != 0)
	r.normalized = true
}

// clear scrubs r.
func (r *FieldElement) clear() {
	memclear(unsafe.Pointer(&r.n[0]), unsafe.Sizeof(r.n))
	r.magnitude = 0
	r.normalized = true
}

// negate sets r = -a, where a has magnitude at most m. The result has
// magnitude m+1.
func (r *FieldElement) negate(a *FieldElement, m int) {
	if m < 0 || m > fieldMaxMagnitude-1 {
		panic("magnitude out of range")
	}
	if a.magnitude > m {
		panic("field element magnitude exceeds negation bound")
	}
	k := 2 * uint64(m+1)
	r.n[0] = fieldModulusLimb0*k - a.n[0]
	r.n[1] = fieldModulusLimb1*k - a.n[1]
	r.n[2] = fieldModulusLimb2*k - a.n[2]
	r.n[3] = fieldModulusLimb3*k - a.n[3]
	r.n[4] = fieldModulusLimb4*k - a.n[4]

	r.magnitude = m + 1
	r.normalized = false
}

// add sets r += a.
func (r *FieldElement) add(a *FieldElement) {
	if r.magnitude+a.magnitude > fieldMaxMagnitude {
		panic("field element magnitude overflow")
	}
	r.n[0] += a.n[0]
	r.n[1] += a.n[1]
	r.n[2] += a.n[2]
	r.n[3] += a.n[3]
	r.n[4] += a.n[4]

	r.magnitude += a.magnitude
	r.normalized = false
}

// addInt sets r += a for a small non-negative a.
func (r *FieldElement) addInt(a int) {
	if a < 0 || a > 0x7FFF {
		panic("value out of range")
	}
	if r.magnitude+1 > fieldMaxMagnitude {
		panic("field element magnitude overflow")
	}
	r.n[0] += uint64(a)
	r.magnitude++
	r.normalized = false
}

// mulInt sets r *= a for a small non-negative a.
func (r *FieldElement) mulInt(a int) {
	if a < 0 || r.magnitude*a > fieldMaxMagnitude {
		panic("field element magnitude overflow")
	}
	ua := uint64(a)
	r.n[0] *= ua
	r.n[1] *= ua
	r.n[2] *= ua
	r.n[3] *= ua
	r.n[4] *= ua

	r.magnitude *= a
	r.normalized = false
}

// half sets r = a/2 mod p. The output magnitude is (m>>1)+1.
func (r *FieldElement) half(a *FieldElement) {
	t0, t1, t2, t3, t4 := a.n[0], a.n[1], a.n[2], a.n[3], a.n[4]
	mag := a.magnitude

	// Add p when a is odd so the sum is even, then shift.
	mask := -(t0 & 1) >> 12
	t0 += fieldModulusLimb0 & mask
	t1 += mask
	t2 += mask
	t3 += mask
	t4 += mask >> 4

	r.n[0] = t0>>1 + (t1&1)<<51
	r.n[1] = t1>>1 + (t2&1)<<51
	r.n[2] = t2>>1 + (t3&1)<<51
	r.n[3] = t3>>1 + (t4&1)<<51
	r.n[4] = t4 >> 1

	r.magnitude = mag>>1 + 1
	r.normalized = false
}

// cmov sets r = a when flag is 1 and leaves r unchanged when flag is 0,
// without branching on flag. The bookkeeping fields take the weaker of
// the two inputs since they must not depend on flag.
func (r *FieldElement) cmov(a *FieldElement, flag int) {
	mask := -(uint64(flag) & 1)
	r.n[0] ^= mask & (r.n[0] ^ a.n[0])
	r.n[1] ^= mask & (r.n[1] ^ a.n[1])
	r.n[2] ^= mask & (r.n[2] ^ a.n[2])
	r.n[3] ^= mask & (r.n[3] ^ a.n[3])
	r.n[4] ^= mask & (r.n[4] ^ a.n[4])

	r.magnitude = max(r.magnitude, a.magnitude)
	r.normalized = r.normalized && a.normalized
}

// toStorage converts a normalized element to storage form.
func (r *FieldElement) toStorage(s *FieldElementStorage) {
	r.mustNormalized()
	s.n[0] = r.n[0] | r.n[1]<<52
	s.n[1] = r.n[1]>>12 | r.n[2]<<40
	s.n[2] = r.n[2]>>24 | r.n[3]<<28
	s.n[3] = r.n[3]>>36 | r.n[4]<<16
}

// fromStorage converts from storage form. The result is normalized.
func (r *FieldElement) fromStorage(s *FieldElementStorage) {
	r.n[0] = s.n[0] & limb0Max
	r.n[1] = (s.n[0]>>52 | s.n[1]<<12) & limb0Max
	r.n[2] = (s.n[1]>>40 | s.n[2]<<24) & limb0Max
	r.n[3] = (s.n[2]>>28 | s.n[3]<<36) & limb0Max
	r.n[4] = s.n[3] >> 16

	r.magnitude = 1
	r.normalized = true
}

// cmov is the storage-form conditional move.
func (r *FieldElementStorage) cmov(a *FieldElementStorage, flag int) {
	mask := -(uint64(flag) & 1)
	r.n[0] ^= mask & (r.n[0] ^ a.n[0])
	r.n[1] ^= mask & (r.n[1] ^ a.n[1])
	r.n[2] ^= mask & (r.n[2] ^ a.n[2])
	r.n[3] ^= mask & (r.n[3] ^ a.n[3])
}

// batchInverse sets out[i] = 1/a[i] for every element using a single
// inversion (Montgomery's trick). No input may be zero. out and a may be
// the same slice.
func batchInverse(out []FieldElement, a []FieldElement) {
	n := len(a)
	if n == 0 {
		return
	}

	// s[i] = a[0] * a[1] * ... * a[i-1]
	s := make([]FieldElement, n)
	s[0].setInt(1)
	for i := 1; i < n; i++ {
		s[i].mul(&s[i-1], &a[i-1])
	}

	var u FieldElement
	u.mul(&s[n-1], &a[n-1])
	u.inv(&u)

	// Walk backwards so out may alias a.
	for i := n - 1; i >= 0; i-- {
		ai := a[i]
		out[i].mul(&u, &s[i])
		u.mul(&u, &ai)
	}
}

// fieldFromHex parses a 64-digit big-endian hex constant. It panics on
// malformed input and is only meant for package-level constants.
func fieldFromHex(s string) FieldElement {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		panic("invalid field element constant " + s)
	}
	var f FieldElement
	if !f.setB32Limit(b) {
		panic("field element constant exceeds the field prime")
	}
	return f
}
