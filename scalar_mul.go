package secp256k1

import "math/bits"

// acc192 is the 192-bit column accumulator (c0, c1, c2) used by the
// schoolbook scalar multiplication and the reduction modulo n.
type acc192 struct {
	c0, c1, c2 uint64
}

// muladd adds a*b to the accumulator.
func (c *acc192) muladd(a, b uint64) {
	th, tl := bits.Mul64(a, b)
	var carry uint64
	c.c0, carry = bits.Add64(c.c0, tl, 0)
	// th <= 2^64-2 so this cannot overflow.
	th += carry
	c.c1, carry = bits.Add64(c.c1, th, 0)
	c.c2 += carry
}

// sumadd adds a to the accumulator.
func (c *acc192) sumadd(a uint64) {
	var carry uint64
	c.c0, carry = bits.Add64(c.c0, a, 0)
	c.c1, carry = bits.Add64(c.c1, carry, 0)
	c.c2 += carry
}

// extract returns the low limb and shifts the accumulator down by 64 bits.
func (c *acc192) extract() uint64 {
	n := c.c0
	c.c0 = c.c1
	c.c1 = c.c2
	c.c2 = 0
	return n
}

// mul512 computes the full 512-bit product of a and b.
func mul512(a, b *Scalar) (l [8]uint64) {
	var c acc192

	c.muladd(a.d[0], b.d[0])
	l[0] = c.extract()

	c.muladd(a.d[0], b.d[1])
	c.muladd(a.d[1], b.d[0])
	l[1] = c.extract()

	c.muladd(a.d[0], b.d[2])
	c.muladd(a.d[1], b.d[1])
	c.muladd(a.d[2], b.d[0])
	l[2] = c.extract()

	c.muladd(a.d[0], b.d[3])
	c.muladd(a.d[1], b.d[2])
	c.muladd(a.d[2], b.d[1])
	c.muladd(a.d[3], b.d[0])
	l[3] = c.extract()

	c.muladd(a.d[1], b.d[3])
	c.muladd(a.d[2], b.d[2])
	c.muladd(a.d[3], b.d[1])
	l[4] = c.extract()

	c.muladd(a.d[2], b.d[3])
	c.muladd(a.d[3], b.d[2])
	l[5] = c.extract()

	c.muladd(a.d[3], b.d[3])
	l[6] = c.extract()
	l[7] = c.c0
	return l
}

// reduce512 sets r to the 512-bit value l reduced modulo n. It folds the
// high half down with 2^256 = 2^256-n (mod n) three times: 512 to 385
// bits, 385 to 258 bits and finally 258 to 256 bits.
func (r *Scalar) reduce512(l *[8]uint64) {
	n0, n1, n2, n3 := l[4], l[5], l[6], l[7]

	// m[0..6] = l[0..3] + n[0..3] * (2^256-n)
	c := acc192{c0: l[0]}
	c.muladd(n0, scalarNC0)
	m0 := c.extract()
	c.sumadd(l[1])
	c.muladd(n1, scalarNC0)
	c.muladd(n0, scalarNC1)
	m1 := c.extract()
	c.sumadd(l[2])
	c.muladd(n2, scalarNC0)
	c.muladd(n1, scalarNC1)
	c.sumadd(n0)
	m2 := c.extract()
	c.sumadd(l[3])
	c.muladd(n3, scalarNC0)
	c.muladd(n2, scalarNC1)
	c.sumadd(n1)
	m3 := c.extract()
	c.muladd(n3, scalarNC1)
	c.sumadd(n2)
	m4 := c.extract()
	c.sumadd(n3)
	m5 := c.extract()
	m6 := c.c0

	// p[0..4] = m[0..3] + m[4..6] * (2^256-n)
	c = acc192{c0: m0}
	c.muladd(m4, scalarNC0)
	p0 := c.extract()
	c.sumadd(m1)
	c.muladd(m5, scalarNC0)
	c.muladd(m4, scalarNC1)
	p1 := c.extract()
	c.sumadd(m2)
	c.muladd(m6, scalarNC0)
	c.muladd(m5, scalarNC1)
	c.sumadd(m4)
	p2 := c.extract()
	c.sumadd(m3)
	c.muladd(m6, scalarNC1)
	c.sumadd(m5)
	p3 := c.extract()
	p4 := c.c0 + m6

	// r[0..3] = p[0..3] + p4 * (2^256-n)
	var hi, lo, carry, top uint64
	hi, lo = bits.Mul64(p4, scalarNC0)
	r.d[0], carry = bits.Add64(p0, lo, 0)
	top = hi + carry

	hi, lo = bits.Mul64(p4, scalarNC1)
	lo, carry = bits.Add64(lo, top, 0)
	hi += carry
	r.d[1], carry = bits.Add64(p1, lo, 0)
	top = hi + carry

	lo, carry = bits.Add64(p4, top, 0)
	hi = carry
	r.d[2], carry = bits.Add64(p2, lo, 0)
	top = hi + carry

	r.d[3], carry = bits.Add64(p3, top, 0)

	r.reduce(carry + r.checkOverflow())
}

// mul sets r = a * b mod n.
func (r *Scalar) mul(a, b *Scalar) {
	l := mul512(a, b)
	r.reduce512(&l)
}

// sqr sets r = a^2 mod n.
func (r *Scalar) sqr(a *Scalar) {
	r.mul(a, a)
}

// scalarOrderMinus2 is n-2 as big-endian 32-bit words, the exponent used
// for inversion by Fermat's little theorem.
var scalarOrderMinus2 = [8]uint32{
	0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFE,
	0xBAAEDCE6, 0xAF48A03B, 0xBFD25E8C, 0xD036413F,
}

// inverse sets r = 1/a mod n. The exponent is public and walked with a
// fixed 4-bit window, so the sequence of operations does not depend on a.
// The inverse of zero is zero.
func (r *Scalar) inverse(a *Scalar) {
	// table[i] = a^i
	var table [16]Scalar
	table[0] = ScalarOne
	table[1] = *a
	for i := 2; i < 16; i++ {
		table[i].mul(&table[i-1], a)
	}

	x := ScalarOne
	for _, word := range scalarOrderMinus2 {
		for shift := 28; shift >= 0; shift -= 4 {
			for j := 0; j < 4; j++ {
				x.sqr(&x)
			}
			x.mul(&x, &table[(word>>uint(shift))&0xF])
		}
	}

	for i := range table {
		table[i].clear()
	}
	*r = x
}

// inverseVar sets r = 1/a mod n for public a.
func (r *Scalar) inverseVar(a *Scalar) {
	r.inverse(a)
}

// mulShiftVar returns round(k*g / 2^shift) for shift >= 256, rounding
// the discarded bits to nearest.
func mulShiftVar(k, g *Scalar, shift uint) Scalar {
	if shift < 256 || shift >= 512 {
		panic("invalid shift for mulShiftVar")
	}
	l := mul512(k, g)
	limbs := shift >> 6
	low := shift & 0x3F
	high := 64 - low

	word := func(i uint) uint64 {
		if i >= 8 {
			return 0
		}
		return l[i]
	}

	var r Scalar
	for i := uint(0); i < 4; i++ {
		v := word(limbs+i) >> low
		if low != 0 {
			v |= word(limbs+i+1) << high
		}
		r.d[i] = v
	}
	roundBit := (l[(shift-1)>>6] >> ((shift - 1) & 0x3F)) & 1
	r.caddBit(0, int(roundBit))
	return r
}

// split128 returns the low and high 128 bits of k as scalars.
func split128(k *Scalar) (lo, hi Scalar) {
	lo.d[0], lo.d[1] = k.d[0], k.d[1]
	hi.d[0], hi.d[1] = k.d[2], k.d[3]
	return lo, hi
}
