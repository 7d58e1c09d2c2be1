package secp256k1

import (
	"time"
)

const (
	// ecmultWindowA is the wNAF window used for arbitrary points.
	ecmultWindowA = 5

	// DefaultWindowG is the default wNAF window for the generator tables.
	// The tables hold 2^(w-2) entries each.
	DefaultWindowG = 15

	// MinWindowG and MaxWindowG bound the configurable generator window.
	MinWindowG = 2
	MaxWindowG = 24

	// straussWnafLen is the digit count for 128-bit half-scalars; the extra
	// digit absorbs the final carry.
	straussWnafLen = wnafBits + 1
)

// ecmultTableSize returns the number of odd multiples 1P, 3P, ...,
// (2^(w-1)-1)P held by a table for window w.
func ecmultTableSize(w int) int {
	return 1 << (w - 2)
}

// EcmultContext holds the generator tables for variable-time
// multiplication: odd multiples of G and of 2^128*G. It is read-only once
// built and safe for concurrent use.
type EcmultContext struct {
	windowG            int
	pippengerThreshold int

	preG    []GroupElementStorage
	preG128 []GroupElementStorage
}

// NewEcmultContext builds the generator tables for window windowG.
func NewEcmultContext(windowG int) *EcmultContext {
	if windowG < MinWindowG || windowG > MaxWindowG {
		panic("generator window out of range")
	}
	start := time.Now()

	var g, g128 GroupElementJacobian
	g.setGE(&Generator)
	g128 = g
	for i := 0; i < 128; i++ {
		g128.doubleVar(&g128, nil)
	}

	ctx := &EcmultContext{
		windowG:            windowG,
		pippengerThreshold: DefaultPippengerThreshold,
		preG:               oddMultiplesStorage(&g, ecmultTableSize(windowG)),
		preG128:            oddMultiplesStorage(&g128, ecmultTableSize(windowG)),
	}
	log.Debugf("Built ecmult tables (window %d, %d entries each) in %v",
		windowG, len(ctx.preG), time.Since(start))
	return ctx
}

// oddMultiplesJacobian returns 1a, 3a, 5a, ... in Jacobian form.
func oddMultiplesJacobian(a *GroupElementJacobian, n int) []GroupElementJacobian {
	out := make([]GroupElementJacobian, n)
	out[0] = *a

	var d GroupElementJacobian
	var dAff GroupElementAffine
	d.doubleVar(a, nil)
	dAff.setGEJVar(&d)
	for i := 1; i < n; i++ {
		out[i].addGEVar(&out[i-1], &dAff, nil)
	}
	return out
}

// oddMultiplesStorage returns the odd multiples of a finite point in
// storage form, sharing a single inversion.
func oddMultiplesStorage(a *GroupElementJacobian, n int) []GroupElementStorage {
	jac := oddMultiplesJacobian(a, n)
	aff := make([]GroupElementAffine, n)
	setAllGEJVar(aff, jac)

	out := make([]GroupElementStorage, n)
	for i := range aff {
		aff[i].toStorage(&out[i])
	}
	return out
}

// oddMultiplesAffine fills pre with the odd multiples of the finite point
// a and preLam with their images under the endomorphism.
func oddMultiplesAffine(pre, preLam []GroupElementAffine, a *GroupElementAffine) {
	var aj GroupElementJacobian
	aj.setGE(a)
	jac := oddMultiplesJacobian(&aj, len(pre))
	setAllGEJVar(pre, jac)
	for i := range pre {
		preLam[i].mulLambda(&pre[i])
	}
}

// tableGetGE returns the entry for the odd wNAF digit n from a table of
// odd multiples, negating for negative digits.
func tableGetGE(pre []GroupElementAffine, n int) GroupElementAffine {
	if n > 0 {
		return pre[(n-1)/2]
	}
	var r GroupElementAffine
	r.negate(&pre[(-n-1)/2])
	return r
}

// tableGetGEStorage is tableGetGE for a storage table.
func tableGetGEStorage(pre []GroupElementStorage, n int) GroupElementAffine {
	var r GroupElementAffine
	if n > 0 {
		r.fromStorage(&pre[(n-1)/2])
		return r
	}
	r.fromStorage(&pre[(-n-1)/2])
	r.negate(&r)
	return r
}

// straussPointState is the per-point scratch space of the Strauss loop.
type straussPointState struct {
	wnafNa1   [straussWnafLen]int
	wnafNaLam [straussWnafLen]int
	bitsNa1   int
	bitsNaLam int

	pre    [1 << (ecmultWindowA - 2)]GroupElementAffine
	preLam [1 << (ecmultWindowA - 2)]GroupElementAffine
}

// Mult sets r = na*a + ng*G using Strauss's method with the endomorphism.
// ng may be nil, meaning zero. a may be the point at infinity.
//
// Mult runs in variable time and must only be used with public inputs.
func (ctx *EcmultContext) Mult(r *GroupElementJacobian, a *GroupElementAffine, na, ng *Scalar) {
	ctx.strauss(r, []GroupElementAffine{*a}, []Scalar{*na}, ng)
}

// strauss sets r = sum(scalars[i]*points[i]) + ng*G.
func (ctx *EcmultContext) strauss(r *GroupElementJacobian, points []GroupElementAffine, scalars []Scalar, ng *Scalar) {
	states := make([]straussPointState, 0, len(points))
	bits := 0
	for i := range points {
		if scalars[i].isZero() || points[i].infinity {
			continue
		}
		states = append(states, straussPointState{})
		st := &states[len(states)-1]

		na1, naLam := splitLambda(&scalars[i])
		st.bitsNa1 = wnafVar(st.wnafNa1[:], &na1, ecmultWindowA)
		st.bitsNaLam = wnafVar(st.wnafNaLam[:], &naLam, ecmultWindowA)
		bits = max(bits, st.bitsNa1, st.bitsNaLam)

		oddMultiplesAffine(st.pre[:], st.preLam[:], &points[i])
	}

	var wnafNg1, wnafNg128 [straussWnafLen]int
	bitsNg1, bitsNg128 := 0, 0
	if ng != nil && !ng.isZero() {
		ng1, ng128 := split128(ng)
		bitsNg1 = wnafVar(wnafNg1[:], &ng1, ctx.windowG)
		bitsNg128 = wnafVar(wnafNg128[:], &ng128, ctx.windowG)
		bits = max(bits, bitsNg1, bitsNg128)
	}

	r.setInfinity()
	var tmp GroupElementAffine
	for i := bits - 1; i >= 0; i-- {
		r.doubleVar(r, nil)
		for j := range states {
			st := &states[j]
			if i < st.bitsNa1 {
				if n := st.wnafNa1[i]; n != 0 {
					tmp = tableGetGE(st.pre[:], n)
					r.addGEVar(r, &tmp, nil)
				}
			}
			if i < st.bitsNaLam {
				if n := st.wnafNaLam[i]; n != 0 {
					tmp = tableGetGE(st.preLam[:], n)
					r.addGEVar(r, &tmp, nil)
				}
			}
		}
		if i < bitsNg1 {
			if n := wnafNg1[i]; n != 0 {
				tmp = tableGetGEStorage(ctx.preG, n)
				r.addGEVar(r, &tmp, nil)
			}
		}
		if i < bitsNg128 {
			if n := wnafNg128[i]; n != 0 {
				tmp = tableGetGEStorage(ctx.preG128, n)
				r.addGEVar(r, &tmp, nil)
			}
		}
	}
}

// MultBatch sets r = sum(scalars[i]*points[i]) + ng*G, choosing Strauss
// for small batches and Pippenger's bucket method once the number of
// points reaches the context's threshold. ng may be nil. Zero scalars
// and infinity points contribute nothing.
//
// MultBatch runs in variable time and must only be used with public
// inputs.
func (ctx *EcmultContext) MultBatch(r *GroupElementJacobian, ng *Scalar, scalars []Scalar, points []GroupElementAffine) error {
	if len(scalars) != len(points) {
		return makeError(ErrBatchLengthMismatch, "scalar and point counts differ")
	}
	if len(points) < ctx.pippengerThreshold {
		ctx.strauss(r, points, scalars, ng)
		return nil
	}
	log.Tracef("Using Pippenger for a batch of %d points", len(points))
	ctx.pippenger(r, points, scalars, ng)
	return nil
}
