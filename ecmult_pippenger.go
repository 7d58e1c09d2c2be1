package secp256k1

// DefaultPippengerThreshold is the number of points at which MultBatch
// switches from Strauss to Pippenger.
const DefaultPippengerThreshold = 88

// pippengerMaxBucketWindow is the largest bucket window used.
const pippengerMaxBucketWindow = 12

// pippengerBucketWindow returns the optimal bucket window for n points.
// The cut-offs come from benchmarks of the bucket method with the
// endomorphism enabled, where each input contributes two points.
func pippengerBucketWindow(n int) int {
	switch {
	case n <= 1:
		return 1
	case n <= 4:
		return 2
	case n <= 20:
		return 3
	case n <= 57:
		return 4
	case n <= 136:
		return 5
	case n <= 235:
		return 6
	case n <= 1260:
		return 7
	case n <= 4420:
		return 9
	case n <= 7880:
		return 10
	case n <= 16050:
		return 11
	default:
		return pippengerMaxBucketWindow
	}
}

// endoSplit replaces (s1, p1) with the two half-size terms of the
// endomorphism split, writing the second into (s2, p2). Both scalars end
// up below 2^128, with the points negated as needed.
func endoSplit(s1, s2 *Scalar, p1, p2 *GroupElementAffine) {
	k := *s1
	*s1, *s2 = splitLambda(&k)
	p2.mulLambda(p1)
	if s1.isHigh() {
		s1.negate(s1)
		p1.negate(p1)
	}
	if s2.isHigh() {
		s2.negate(s2)
		p2.negate(p2)
	}
}

// pippengerPointState records where a point's digits live in the shared
// wNAF buffer.
type pippengerPointState struct {
	inputPos int
	skew     int
}

// pippenger sets r = sum(scalars[i]*points[i]) + ng*G with the bucket
// method.
func (ctx *EcmultContext) pippenger(r *GroupElementJacobian, points []GroupElementAffine, scalars []Scalar, ng *Scalar) {
	n := 2 * len(points)
	if ng != nil {
		n += 2
	}
	sc := make([]Scalar, 0, n)
	pt := make([]GroupElementAffine, 0, n)

	add := func(s *Scalar, p *GroupElementAffine) {
		sc = append(sc, *s, Scalar{})
		pt = append(pt, *p, GroupElementAffine{})
		i := len(sc) - 2
		endoSplit(&sc[i], &sc[i+1], &pt[i], &pt[i+1])
	}
	if ng != nil {
		add(ng, &Generator)
	}
	for i := range points {
		add(&scalars[i], &points[i])
	}

	bucketWindow := pippengerBucketWindow(len(points))
	pippengerWnaf(r, bucketWindow, sc, pt)
}

// pippengerWnaf runs the bucket method over half-size scalars. Each pass
// handles one window of bucketWindow+1 bits, sorting points into
// 2^bucketWindow buckets by digit and combining the buckets with a
// running sum.
func pippengerWnaf(r *GroupElementJacobian, bucketWindow int, sc []Scalar, pt []GroupElementAffine) {
	w := bucketWindow + 1
	nWnaf := wnafSize(wnafBits, w)

	states := make([]pippengerPointState, 0, len(sc))
	wnafs := make([]int, len(sc)*nWnaf)
	for i := range sc {
		if sc[i].isZero() || pt[i].infinity {
			continue
		}
		no := len(states)
		skew := wnafFixed(wnafs[no*nWnaf:(no+1)*nWnaf], &sc[i], w)
		states = append(states, pippengerPointState{inputPos: i, skew: skew})
	}

	r.setInfinity()
	if len(states) == 0 {
		return
	}

	buckets := make([]GroupElementJacobian, 1<<bucketWindow)
	var tmp GroupElementAffine
	var runningSum GroupElementJacobian
	for i := nWnaf - 1; i >= 0; i-- {
		for j := range buckets {
			buckets[j].setInfinity()
		}

		for np, st := range states {
			p := &pt[st.inputPos]
			if i == 0 && st.skew != 0 {
				tmp.negate(p)
				buckets[0].addGEVar(&buckets[0], &tmp, nil)
			}
			d := wnafs[np*nWnaf+i]
			switch {
			case d > 0:
				idx := (d - 1) / 2
				buckets[idx].addGEVar(&buckets[idx], p, nil)
			case d < 0:
				idx := -(d + 1) / 2
				tmp.negate(p)
				buckets[idx].addGEVar(&buckets[idx], &tmp, nil)
			}
		}

		for j := 0; j < bucketWindow; j++ {
			r.doubleVar(r, nil)
		}

		// bucket[0] + 3*bucket[1] + 5*bucket[2] + ... is accumulated as
		// the running sum of all buckets plus twice the weighted sum, with
		// the factor of two folded into the final doubling of r.
		runningSum.setInfinity()
		for j := len(buckets) - 1; j > 0; j-- {
			runningSum.addVar(&runningSum, &buckets[j], nil)
			r.addVar(r, &runningSum, nil)
		}
		runningSum.addVar(&runningSum, &buckets[0], nil)
		r.doubleVar(r, nil)
		r.addVar(r, &runningSum, nil)
	}
}
