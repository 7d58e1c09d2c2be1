package secp256k1

const (
	// ecmultConstWindow is the wNAF window of the constant-time
	// multiplication. Digits are odd and in (-2^w, 2^w), which matches
	// the odd multiples table of window ecmultWindowA.
	ecmultConstWindow = ecmultWindowA - 1

	// ecmultConstDigits is the number of digits per half-scalar.
	ecmultConstDigits = (wnafBits+ecmultConstWindow-1)/ecmultConstWindow + 1
)

// constTableGet sets r to the table entry for the odd digit n without
// data-dependent memory access or branches: every entry is read and the
// wanted one kept with cmov, and the sign is applied with cmov.
func constTableGet(r *GroupElementAffine, pre []GroupElementAffine, n int) {
	// Constant-time absolute value.
	mask := n >> 63
	absN := (n + mask) ^ mask
	idx := absN >> 1

	r.x = pre[0].x
	r.y = pre[0].y
	for m := 1; m < len(pre); m++ {
		flag := ctEqInt(m, idx)
		r.x.cmov(&pre[m].x, flag)
		r.y.cmov(&pre[m].y, flag)
	}
	r.infinity = false

	var negY FieldElement
	negY.negate(&r.y, 1)
	r.y.cmov(&negY, ctEqInt(absN, n)^1)
}

// EcmultConst sets r = q*a in constant time with respect to q. a must be
// a valid point; the result is infinity when a is infinity or q is zero.
func EcmultConst(r *GroupElementJacobian, a *GroupElementAffine, q *Scalar) {
	if a.infinity {
		r.setInfinity()
		return
	}

	var pre, preLam [1 << (ecmultWindowA - 2)]GroupElementAffine
	oddMultiplesAffine(pre[:], preLam[:], a)
	for i := range pre {
		pre[i].normalizeVar()
		preLam[i].normalizeVar()
	}

	q1, qLam := splitLambda(q)
	var wnaf1, wnafLam [ecmultConstDigits]int
	skew1 := wnafConst(wnaf1[:], &q1, ecmultConstWindow, wnafBits)
	skewLam := wnafConst(wnafLam[:], &qLam, ecmultConstWindow, wnafBits)

	// The top digits start the accumulator so it never begins at
	// infinity.
	var tmp GroupElementAffine
	top := ecmultConstDigits - 1
	constTableGet(&tmp, pre[:], wnaf1[top])
	r.setGE(&tmp)
	constTableGet(&tmp, preLam[:], wnafLam[top])
	r.addGE(r, &tmp)

	for i := top - 1; i >= 0; i-- {
		for j := 0; j < ecmultConstWindow; j++ {
			r.double(r)
		}
		constTableGet(&tmp, pre[:], wnaf1[i])
		r.addGE(r, &tmp)
		constTableGet(&tmp, preLam[:], wnafLam[i])
		r.addGE(r, &tmp)
	}

	// Undo the skew: subtract a or 2a from each half, chosen with cmov.
	var a2j GroupElementJacobian
	var a2 GroupElementAffine
	a2j.setGE(a)
	a2j.doubleVar(&a2j, nil)
	a2.setGEJ(&a2j)

	var corr1, corrLam, a2s GroupElementStorage
	a.toStorage(&corr1)
	a.toStorage(&corrLam)
	a2.toStorage(&a2s)
	corr1.cmov(&a2s, ctEqInt(skew1, 2))
	corrLam.cmov(&a2s, ctEqInt(skewLam, 2))

	var corr GroupElementAffine
	corr.fromStorage(&corr1)
	corr.negate(&corr)
	r.addGE(r, &corr)

	corr.fromStorage(&corrLam)
	corr.negate(&corr)
	corr.mulLambda(&corr)
	r.addGE(r, &corr)
}
