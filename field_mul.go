package secp256k1

import "math/bits"

// acc128 is a 128-bit accumulator used by the field multiplication
// routines.
type acc128 struct {
	hi, lo uint64
}

func mul128(a, b uint64) acc128 {
	hi, lo := bits.Mul64(a, b)
	return acc128{hi: hi, lo: lo}
}

// mulAdd sets u += a*b.
func (u *acc128) mulAdd(a, b uint64) {
	hi, lo := bits.Mul64(a, b)
	var carry uint64
	u.lo, carry = bits.Add64(u.lo, lo, 0)
	u.hi, _ = bits.Add64(u.hi, hi, carry)
}

// addU64 sets u += a.
func (u *acc128) addU64(a uint64) {
	var carry uint64
	u.lo, carry = bits.Add64(u.lo, a, 0)
	u.hi += carry
}

// shr52 shifts u right by 52 bits.
func (u *acc128) shr52() {
	u.lo = u.lo>>52 | u.hi<<12
	u.hi >>= 52
}

// shr64 shifts u right by 64 bits.
func (u *acc128) shr64() {
	u.lo = u.hi
	u.hi = 0
}

func checkMulMagnitude(a *FieldElement) {
	if a.magnitude > fieldMaxMulMagnitude {
		panic("field element magnitude too large for multiplication")
	}
}

// mul sets r = a * b. Both inputs must have magnitude at most 8; the
// result has magnitude 1. r may alias a or b.
func (r *FieldElement) mul(a, b *FieldElement) {
	checkMulMagnitude(a)
	checkMulMagnitude(b)

	a0, a1, a2, a3, a4 := a.n[0], a.n[1], a.n[2], a.n[3], a.n[4]
	b0, b1, b2, b3, b4 := b.n[0], b.n[1], b.n[2], b.n[3], b.n[4]

	const M = limb0Max
	const R = fieldReductionConstantShifted

	// [... a b c] is shorthand for ... + a<<104 + b<<52 + c<<0 mod p.
	// d accumulates the high column sums, c the low ones.
	d := mul128(a0, b3)
	d.mulAdd(a1, b2)
	d.mulAdd(a2, b1)
	d.mulAdd(a3, b0)
	c := mul128(a4, b4)
	d.mulAdd(R, c.lo)
	c.shr64()
	t3 := d.lo & M
	d.shr52()

	d.mulAdd(a0, b4)
	d.mulAdd(a1, b3)
	d.mulAdd(a2, b2)
	d.mulAdd(a3, b1)
	d.mulAdd(a4, b0)
	d.mulAdd(R<<12, c.lo)
	t4 := d.lo & M
	d.shr52()
	tx := t4 >> 48
	t4 &= M >> 4

	c = mul128(a0, b0)
	d.mulAdd(a1, b4)
	d.mulAdd(a2, b3)
	d.mulAdd(a3, b2)
	d.mulAdd(a4, b1)
	u0 := d.lo & M
	d.shr52()
	u0 = u0<<4 | tx
	c.mulAdd(u0, R>>4)
	r0 := c.lo & M
	c.shr52()

	c.mulAdd(a0, b1)
	c.mulAdd(a1, b0)
	d.mulAdd(a2, b4)
	d.mulAdd(a3, b3)
	d.mulAdd(a4, b2)
	c.mulAdd(R, d.lo&M)
	d.shr52()
	r1 := c.lo & M
	c.shr52()

	c.mulAdd(a0, b2)
	c.mulAdd(a1, b1)
	c.mulAdd(a2, b0)
	d.mulAdd(a3, b4)
	d.mulAdd(a4, b3)
	c.mulAdd(R, d.lo)
	d.shr64()
	r2 := c.lo & M
	c.shr52()

	c.mulAdd(R<<12, d.lo)
	c.addU64(t3)
	r3 := c.lo & M
	c.shr52()
	r4 := c.lo + t4

	r.n = [5]uint64{r0, r1, r2, r3, r4}
	r.magnitude = 1
	r.normalized = false
}

// sqr sets r = a^2. The input must have magnitude at most 8.
func (r *FieldElement) sqr(a *FieldElement) {
	checkMulMagnitude(a)

	a0, a1, a2, a3, a4 := a.n[0], a.n[1], a.n[2], a.n[3], a.n[4]

	const M = limb0Max
	const R = fieldReductionConstantShifted

	d := mul128(a0*2, a3)
	d.mulAdd(a1*2, a2)
	c := mul128(a4, a4)
	d.mulAdd(R, c.lo)
	c.shr64()
	t3 := d.lo & M
	d.shr52()

	a4 *= 2
	d.mulAdd(a0, a4)
	d.mulAdd(a1*2, a3)
	d.mulAdd(a2, a2)
	d.mulAdd(R<<12, c.lo)
	t4 := d.lo & M
	d.shr52()
	tx := t4 >> 48
	t4 &= M >> 4

	c = mul128(a0, a0)
	d.mulAdd(a1, a4)
	d.mulAdd(a2*2, a3)
	u0 := d.lo & M
	d.shr52()
	u0 = u0<<4 | tx
	c.mulAdd(u0, R>>4)
	r0 := c.lo & M
	c.shr52()

	a0 *= 2
	c.mulAdd(a0, a1)
	d.mulAdd(a2, a4)
	d.mulAdd(a3, a3)
	c.mulAdd(R, d.lo&M)
	d.shr52()
	r1 := c.lo & M
	c.shr52()

	c.mulAdd(a0, a2)
	c.mulAdd(a1, a1)
	d.mulAdd(a3, a4)
	c.mulAdd(R, d.lo)
	d.shr64()
	r2 := c.lo & M
	c.shr52()

	c.mulAdd(R<<12, d.lo)
	c.addU64(t3)
	r3 := c.lo & M
	c.shr52()
	r4 := c.lo + t4

	r.n = [5]uint64{r0, r1, r2, r3, r4}
	r.magnitude = 1
	r.normalized = false
}

// sqrN sets r = a^(2^n).
func (r *FieldElement) sqrN(a *FieldElement, n int) {
	*r = *a
	for i := 0; i < n; i++ {
		r.sqr(r)
	}
}

// powChain computes the shared prefix of the inversion and square root
// addition chains and returns a^(2^223-1) along with the intermediate
// powers a^(2^2-1) and a^(2^22-1).
func powChain(a *FieldElement) (x2, x22, x223 FieldElement) {
	var x3, x6, x9, x11, x44, x88, x176, x220 FieldElement

	x2.sqr(a)
	x2.mul(&x2, a)

	x3.sqr(&x2)
	x3.mul(&x3, a)

	x6.sqrN(&x3, 3)
	x6.mul(&x6, &x3)

	x9.sqrN(&x6, 3)
	x9.mul(&x9, &x3)

	x11.sqrN(&x9, 2)
	x11.mul(&x11, &x2)

	x22.sqrN(&x11, 11)
	x22.mul(&x22, &x11)

	x44.sqrN(&x22, 22)
	x44.mul(&x44, &x22)

	x88.sqrN(&x44, 44)
	x88.mul(&x88, &x44)

	x176.sqrN(&x88, 88)
	x176.mul(&x176, &x88)

	x220.sqrN(&x176, 44)
	x220.mul(&x220, &x44)

	x223.sqrN(&x220, 3)
	x223.mul(&x223, &x3)
	return
}

// inv sets r = 1/a via a fixed exponentiation to p-2, so the running time
// does not depend on a. The inverse of zero is zero.
func (r *FieldElement) inv(a *FieldElement) {
	in := *a
	if in.magnitude > fieldMaxMulMagnitude {
		in.normalizeWeak()
	}

	x2, x22, x223 := powChain(&in)

	// The low 33 bits of p-2 are handled by the tail of the chain.
	var t FieldElement
	t.sqrN(&x223, 23)
	t.mul(&t, &x22)
	t.sqrN(&t, 5)
	t.mul(&t, &in)
	t.sqrN(&t, 3)
	t.mul(&t, &x2)
	t.sqrN(&t, 2)
	r.mul(&t, &in)
}

// invVar is the variable-time inverse. It shares the addition chain with
// inv; the distinction only matters to callers that document which
// inputs are public.
func (r *FieldElement) invVar(a *FieldElement) {
	r.inv(a)
}

// sqrt sets r to a square root of a and reports whether one exists. When
// a is not a square, r holds the square root of -a.
//
// Since p = 3 mod 4, the root is a^((p+1)/4).
func (r *FieldElement) sqrt(a *FieldElement) bool {
	in := *a
	if in.magnitude > fieldMaxMulMagnitude {
		in.normalizeWeak()
	}

	x2, x22, x223 := powChain(&in)

	var t FieldElement
	t.sqrN(&x223, 23)
	t.mul(&t, &x22)
	t.sqrN(&t, 6)
	t.mul(&t, &x2)
	t.sqr(&t)
	r.sqr(&t)

	var check FieldElement
	check.sqr(r)
	return check.equal(&in)
}

// isSquareVar reports whether a has a square root in the field.
func (a *FieldElement) isSquareVar() bool {
	var r FieldElement
	return r.sqrt(a)
}
