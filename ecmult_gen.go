package secp256k1

import (
	"time"
	"unsafe"
)

const (
	// ecmultGenBits is the number of scalar bits consumed per table row.
	ecmultGenBits = 4
	// ecmultGenRows is the number of 4-bit windows in a 256-bit scalar.
	ecmultGenRows = 256 / ecmultGenBits
	// ecmultGenCols is the number of entries per row.
	ecmultGenCols = 1 << ecmultGenBits
)

// numsX is the x coordinate of a point whose discrete logarithm nobody
// knows. Its multiples offset every table row so that no intermediate
// sum in MultGen is ever a known multiple of G.
const numsX = "The scalar for this x is unknown"

// EcmultGenContext multiplies the generator by secret scalars in
// constant time. The table row j holds U_j + i*16^j*G for i in [0, 16),
// where the offsets U_j sum to the point at infinity.
//
// The result is additionally blinded: MultGen computes
// (gn + blind)*G + initial with initial = -blind*G, and initial is kept
// in a randomized projective representation. Blind refreshes both and
// must not run concurrently with MultGen.
type EcmultGenContext struct {
	prec [ecmultGenRows][ecmultGenCols]GroupElementStorage

	blind   Scalar
	initial GroupElementJacobian
}

// numsPoint returns the nothing-up-my-sleeve point plus G.
func numsPoint() GroupElementJacobian {
	var x FieldElement
	if !x.setB32Limit([]byte(numsX)) {
		panic("invalid nums x coordinate")
	}
	var ge GroupElementAffine
	if !ge.setXOVar(&x, false) {
		panic("nums x coordinate is not on the curve")
	}
	var r GroupElementJacobian
	r.setGE(&ge)
	// Adding G spreads the bits of x uniformly.
	r.addGEVar(&r, &Generator, nil)
	return r
}

// NewEcmultGenContext builds the generator table and resets the
// blinding.
func NewEcmultGenContext() *EcmultGenContext {
	start := time.Now()
	ctx := &EcmultGenContext{}

	nums := numsPoint()
	precj := make([]GroupElementJacobian, ecmultGenRows*ecmultGenCols)

	var gbase GroupElementJacobian
	gbase.setGE(&Generator)
	numsbase := nums
	for j := 0; j < ecmultGenRows; j++ {
		row := precj[j*ecmultGenCols : (j+1)*ecmultGenCols]
		row[0] = numsbase
		for i := 1; i < ecmultGenCols; i++ {
			row[i].addVar(&row[i-1], &gbase, nil)
		}
		for i := 0; i < ecmultGenBits; i++ {
			gbase.doubleVar(&gbase, nil)
		}
		numsbase.doubleVar(&numsbase, nil)
		if j == ecmultGenRows-2 {
			// The last row uses (1 - 2^63)*nums so the offsets cancel.
			numsbase.negate(&numsbase)
			numsbase.addVar(&numsbase, &nums, nil)
		}
	}

	prec := make([]GroupElementAffine, len(precj))
	setAllGEJVar(prec, precj)
	for j := 0; j < ecmultGenRows; j++ {
		for i := 0; i < ecmultGenCols; i++ {
			prec[j*ecmultGenCols+i].toStorage(&ctx.prec[j][i])
		}
	}

	ctx.Blind(nil)
	log.Debugf("Built ecmult_gen table in %v", time.Since(start))
	return ctx
}

// MultGen sets r = gn*G. The running time and memory access pattern do
// not depend on gn.
func (ctx *EcmultGenContext) MultGen(r *GroupElementJacobian, gn *Scalar) {
	*r = ctx.initial

	var gnb Scalar
	gnb.add(gn, &ctx.blind)

	var add GroupElementAffine
	var adds GroupElementStorage
	for j := 0; j < ecmultGenRows; j++ {
		bits := int(gnb.getBitsLimb32(uint(j*ecmultGenBits), ecmultGenBits))
		for i := 0; i < ecmultGenCols; i++ {
			adds.cmov(&ctx.prec[j][i], ctEqInt(i, bits))
		}
		add.fromStorage(&adds)
		r.addGE(r, &add)
	}

	add.clear()
	memclear(unsafe.Pointer(&adds), unsafe.Sizeof(adds))
	gnb.clear()
}

// Blind re-randomizes the blinding from seed32 chained with the current
// blinding value. A nil seed restores the initial, unrandomized state.
//
// Blind is not safe for concurrent use with MultGen.
func (ctx *EcmultGenContext) Blind(seed32 []byte) {
	if seed32 != nil && len(seed32) != 32 {
		panic("blinding seed must be 32 bytes")
	}
	if seed32 == nil {
		ctx.initial.setGE(&Generator)
		ctx.initial.negate(&ctx.initial)
		ctx.blind.setInt(1)
	}

	// The previous blinding value is hashed in, so repeated seeds keep
	// producing fresh values.
	var keydata [64]byte
	ctx.blind.getB32(keydata[:32])
	keylen := 32
	if seed32 != nil {
		copy(keydata[32:], seed32)
		keylen = 64
	}
	rng := NewRFC6979HMACSHA256(keydata[:keylen])
	memclear(unsafe.Pointer(&keydata), unsafe.Sizeof(keydata))

	// A projective rescale factor s. Invalid or zero outputs are replaced
	// by one without branching on them.
	var nonce32 [32]byte
	var s FieldElement
	rng.Generate(nonce32[:])
	valid := s.setB32Limit(nonce32[:])
	s.normalize()
	s.cmov(&FieldElementOne, boolToInt(!valid || s.isZero()))
	ctx.initial.rescale(&s)
	s.clear()

	// A fresh additive blind b, with zero replaced by one.
	var b Scalar
	rng.Generate(nonce32[:])
	b.setB32(nonce32[:])
	b.cmov(&ScalarOne, boolToInt(b.isZero()))
	rng.Clear()
	memclear(unsafe.Pointer(&nonce32), unsafe.Sizeof(nonce32))

	var gb GroupElementJacobian
	ctx.MultGen(&gb, &b)
	b.negate(&b)
	ctx.blind = b
	ctx.initial = gb
	b.clear()
	gb.clear()

	log.Trace("Refreshed generator multiplication blinding")
}
