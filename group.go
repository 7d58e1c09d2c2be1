package secp256k1

// GroupElementAffine is a point on the secp256k1 curve y^2 = x^3 + 7 in
// affine coordinates, or the point at infinity.
type GroupElementAffine struct {
	x, y     FieldElement
	infinity bool
}

// GroupElementJacobian is a point in Jacobian coordinates, representing
// the affine point (x/z^2, y/z^3).
//
// The coordinates carry bounded magnitudes: x and y at most
// groupMaxMagnitudeX and groupMaxMagnitudeY, z at most 1.
type GroupElementJacobian struct {
	x, y, z  FieldElement
	infinity bool
}

// GroupElementStorage is the compact form of a non-infinity affine point
// used in precomputed tables.
type GroupElementStorage struct {
	x, y FieldElementStorage
}

const (
	groupMaxMagnitudeX = 4
	groupMaxMagnitudeY = 4

	curveB = 7
)

var (
	generatorX = fieldFromHex("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	generatorY = fieldFromHex("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8")

	// Generator is the secp256k1 base point G.
	Generator = GroupElementAffine{x: generatorX, y: generatorY}
)

// setXY sets r to the point (x, y) without checking it is on the curve.
func (r *GroupElementAffine) setXY(x, y *FieldElement) {
	r.x = *x
	r.y = *y
	r.infinity = false
}

// setXOVar sets r to the point with x coordinate x and the requested y
// parity. It reports false when x is not the x coordinate of a curve
// point.
func (r *GroupElementAffine) setXOVar(x *FieldElement, odd bool) bool {
	var x2, x3 FieldElement
	x2.sqr(x)
	x3.mul(x, &x2)
	r.x = *x
	r.infinity = false
	x3.addInt(curveB)
	if !r.y.sqrt(&x3) {
		return false
	}
	r.x.normalizeVar()
	r.y.normalizeVar()
	if r.y.isOdd() != odd {
		r.y.negate(&r.y, 1)
		r.y.normalizeVar()
	}
	return true
}

// isInfinity reports whether r is the point at infinity.
func (r *GroupElementAffine) isInfinity() bool {
	return r.infinity
}

// setInfinity sets r to the point at infinity.
func (r *GroupElementAffine) setInfinity() {
	r.x = FieldElementZero
	r.y = FieldElementZero
	r.infinity = true
}

// isValidVar reports whether r is a finite point on the curve.
func (r *GroupElementAffine) isValidVar() bool {
	if r.infinity {
		return false
	}
	var y2, x3 FieldElement
	y2.sqr(&r.y)
	x3.sqr(&r.x)
	x3.mul(&x3, &r.x)
	x3.addInt(curveB)
	return y2.equalVar(&x3)
}

// negate sets r = -a.
func (r *GroupElementAffine) negate(a *GroupElementAffine) {
	*r = *a
	r.y.normalizeWeak()
	r.y.negate(&r.y, 1)
}

// normalizeVar brings both coordinates to canonical form.
func (r *GroupElementAffine) normalizeVar() {
	r.x.normalizeVar()
	r.y.normalizeVar()
}

// equalVar reports whether r and a are the same point.
func (r *GroupElementAffine) equalVar(a *GroupElementAffine) bool {
	if r.infinity || a.infinity {
		return r.infinity == a.infinity
	}
	rx, ry, ax, ay := r.x, r.y, a.x, a.y
	rx.normalizeVar()
	ry.normalizeVar()
	ax.normalizeVar()
	ay.normalizeVar()
	return rx.cmpVar(&ax) == 0 && ry.cmpVar(&ay) == 0
}

// equal reports whether r and a are the same point without branching on
// their coordinates.
func (r *GroupElementAffine) equal(a *GroupElementAffine) bool {
	rx, ry := r.x, r.y
	rx.normalizeWeak()
	ry.normalizeWeak()
	eq := boolToInt(rx.equal(&a.x)) & boolToInt(ry.equal(&a.y))
	ri, ai := boolToInt(r.infinity), boolToInt(a.infinity)
	return (eq&^(ri|ai))|(ri&ai) == 1
}

// cmov sets r = a when flag is 1, without branching on flag. The
// infinity flags must match.
func (r *GroupElementAffine) cmov(a *GroupElementAffine, flag int) {
	r.x.cmov(&a.x, flag)
	r.y.cmov(&a.y, flag)
}

// setGEJZInv sets r to the affine form of a given zi = 1/a.z.
func (r *GroupElementAffine) setGEJZInv(a *GroupElementJacobian, zi *FieldElement) {
	var zi2, zi3 FieldElement
	zi2.sqr(zi)
	zi3.mul(&zi2, zi)
	r.x.mul(&a.x, &zi2)
	r.y.mul(&a.y, &zi3)
	r.infinity = a.infinity
}

// setGEJ sets r to the affine form of a in constant time.
func (r *GroupElementAffine) setGEJ(a *GroupElementJacobian) {
	var zi FieldElement
	zi.inv(&a.z)
	r.setGEJZInv(a, &zi)
	r.x.normalize()
	r.y.normalize()
}

// setGEJVar sets r to the affine form of a.
func (r *GroupElementAffine) setGEJVar(a *GroupElementJacobian) {
	if a.infinity {
		r.setInfinity()
		return
	}
	var zi FieldElement
	zi.invVar(&a.z)
	r.setGEJZInv(a, &zi)
	r.normalizeVar()
}

// setAllGEJVar converts a batch of Jacobian points to affine form with a
// single field inversion. Infinity inputs produce infinity outputs.
func setAllGEJVar(r []GroupElementAffine, a []GroupElementJacobian) {
	if len(r) != len(a) {
		panic("mismatched batch lengths")
	}
	zs := make([]FieldElement, 0, len(a))
	for i := range a {
		if !a[i].infinity {
			zs = append(zs, a[i].z)
		}
	}
	batchInverse(zs, zs)

	j := 0
	for i := range a {
		if a[i].infinity {
			r[i].setInfinity()
			continue
		}
		r[i].setGEJZInv(&a[i], &zs[j])
		r[i].normalizeVar()
		j++
	}
}

// toStorage converts a non-infinity point to storage form.
func (r *GroupElementAffine) toStorage(s *GroupElementStorage) {
	if r.infinity {
		panic("cannot store the point at infinity")
	}
	x, y := r.x, r.y
	x.normalize()
	y.normalize()
	x.toStorage(&s.x)
	y.toStorage(&s.y)
}

// fromStorage sets r from storage form.
func (r *GroupElementAffine) fromStorage(s *GroupElementStorage) {
	r.x.fromStorage(&s.x)
	r.y.fromStorage(&s.y)
	r.infinity = false
}

// cmov is the storage-form conditional move.
func (r *GroupElementStorage) cmov(a *GroupElementStorage, flag int) {
	r.x.cmov(&a.x, flag)
	r.y.cmov(&a.y, flag)
}

// clear scrubs r.
func (r *GroupElementAffine) clear() {
	r.x.clear()
	r.y.clear()
	r.infinity = false
}

// setInfinity sets r to the point at infinity.
func (r *GroupElementJacobian) setInfinity() {
	r.x = FieldElementZero
	r.y = FieldElementZero
	r.z = FieldElementZero
	r.infinity = true
}

// isInfinity reports whether r is the point at infinity.
func (r *GroupElementJacobian) isInfinity() bool {
	return r.infinity
}

// setGE sets r to the Jacobian form of a.
func (r *GroupElementJacobian) setGE(a *GroupElementAffine) {
	r.x = a.x
	r.y = a.y
	r.z = FieldElementOne
	r.infinity = a.infinity
}

// negate sets r = -a.
func (r *GroupElementJacobian) negate(a *GroupElementJacobian) {
	r.infinity = a.infinity
	r.x = a.x
	r.y = a.y
	r.z = a.z
	r.y.normalizeWeak()
	r.y.negate(&r.y, 1)
}

// cmov sets r = a when flag is 1, without branching on flag.
func (r *GroupElementJacobian) cmov(a *GroupElementJacobian, flag int) {
	r.x.cmov(&a.x, flag)
	r.y.cmov(&a.y, flag)
	r.z.cmov(&a.z, flag)
	inf := boolToInt(r.infinity)
	inf ^= -(flag & 1) & (inf ^ boolToInt(a.infinity))
	r.infinity = inf == 1
}

// equalVar reports whether r and a are the same point.
func (r *GroupElementJacobian) equalVar(a *GroupElementJacobian) bool {
	var t GroupElementJacobian
	t.negate(r)
	t.addVar(&t, a, nil)
	return t.infinity
}

// eqXVar reports whether the affine x coordinate of the finite point a
// equals x. The magnitude of x may be up to 8.
func (a *GroupElementJacobian) eqXVar(x *FieldElement) bool {
	if a.infinity {
		panic("eqXVar on point at infinity")
	}
	var r FieldElement
	r.sqr(&a.z)
	r.mul(&r, x)
	return r.equalVar(&a.x)
}

// rescale changes the representation of r to (x*s^2, y*s^3, z*s), which
// denotes the same point.
func (r *GroupElementJacobian) rescale(s *FieldElement) {
	if r.infinity {
		return
	}
	var zz FieldElement
	zz.sqr(s)
	r.x.mul(&r.x, &zz)
	r.y.mul(&r.y, &zz)
	r.y.mul(&r.y, s)
	r.z.mul(&r.z, s)
}

// double sets r = 2*a in constant time. The result is infinity exactly
// when a is.
func (r *GroupElementJacobian) double(a *GroupElementJacobian) {
	// L = (3/2)*X1^2, S = Y1^2, T = -X1*S,
	// X3 = L^2 + 2*T, Y3 = -(L*(X3 + T) + S^2), Z3 = Y1*Z1
	var l, s, t FieldElement

	r.infinity = a.infinity
	r.z.mul(&a.z, &a.y)
	s.sqr(&a.y)
	l.sqr(&a.x)
	l.mulInt(3)
	l.half(&l)
	t.negate(&s, 1)
	t.mul(&t, &a.x)
	r.x.sqr(&l)
	r.x.add(&t)
	r.x.add(&t)
	s.sqr(&s)
	t.add(&r.x)
	r.y.mul(&t, &l)
	r.y.add(&s)
	r.y.negate(&r.y, 2)
}

// doubleVar sets r = 2*a. If rzr is non-nil it receives r.z/a.z.
func (r *GroupElementJacobian) doubleVar(a *GroupElementJacobian, rzr *FieldElement) {
	if a.infinity {
		r.setInfinity()
		if rzr != nil {
			rzr.setInt(1)
		}
		return
	}
	if rzr != nil {
		*rzr = a.y
		rzr.normalizeWeak()
	}
	r.double(a)
}

// addVar sets r = a + b. If rzr is non-nil it receives r.z/a.z; a must
// then be finite.
func (r *GroupElementJacobian) addVar(a, b *GroupElementJacobian, rzr *FieldElement) {
	if a.infinity {
		if rzr != nil {
			panic("addVar ratio requested for infinite input")
		}
		*r = *b
		return
	}
	if b.infinity {
		if rzr != nil {
			rzr.setInt(1)
		}
		*r = *a
		return
	}

	var z22, z12, u1, u2, s1, s2, h, i, h2, h3, t FieldElement
	z22.sqr(&b.z)
	z12.sqr(&a.z)
	u1.mul(&a.x, &z22)
	u2.mul(&b.x, &z12)
	s1.mul(&a.y, &z22)
	s1.mul(&s1, &b.z)
	s2.mul(&b.y, &z12)
	s2.mul(&s2, &a.z)
	h.negate(&u1, 1)
	h.add(&u2)
	i.negate(&s2, 1)
	i.add(&s1)
	if h.normalizesToZeroVar() {
		if i.normalizesToZeroVar() {
			r.doubleVar(a, rzr)
		} else {
			if rzr != nil {
				rzr.setInt(0)
			}
			r.setInfinity()
		}
		return
	}

	t.mul(&h, &b.z)
	if rzr != nil {
		*rzr = t
	}
	r.infinity = false
	r.z.mul(&a.z, &t)

	h2.sqr(&h)
	h2.negate(&h2, 1)
	h3.mul(&h2, &h)
	t.mul(&u1, &h2)

	r.x.sqr(&i)
	r.x.add(&h3)
	r.x.add(&t)
	r.x.add(&t)

	t.add(&r.x)
	r.y.mul(&t, &i)
	h3.mul(&h3, &s1)
	r.y.add(&h3)
}

// addGEVar sets r = a + b for an affine b. If rzr is non-nil it receives
// r.z/a.z; a must then be finite.
func (r *GroupElementJacobian) addGEVar(a *GroupElementJacobian, b *GroupElementAffine, rzr *FieldElement) {
	if a.infinity {
		if rzr != nil {
			panic("addGEVar ratio requested for infinite input")
		}
		r.setGE(b)
		return
	}
	if b.infinity {
		if rzr != nil {
			rzr.setInt(1)
		}
		*r = *a
		return
	}

	var z12, u1, u2, s1, s2, h, i, h2, h3, t FieldElement
	z12.sqr(&a.z)
	u1 = a.x
	u2.mul(&b.x, &z12)
	s1 = a.y
	s2.mul(&b.y, &z12)
	s2.mul(&s2, &a.z)
	h.negate(&u1, groupMaxMagnitudeX)
	h.add(&u2)
	i.negate(&s2, 1)
	i.add(&s1)
	if h.normalizesToZeroVar() {
		if i.normalizesToZeroVar() {
			r.doubleVar(a, rzr)
		} else {
			if rzr != nil {
				rzr.setInt(0)
			}
			r.setInfinity()
		}
		return
	}

	if rzr != nil {
		*rzr = h
	}
	r.infinity = false
	r.z.mul(&a.z, &h)

	h2.sqr(&h)
	h2.negate(&h2, 1)
	h3.mul(&h2, &h)
	t.mul(&u1, &h2)

	r.x.sqr(&i)
	r.x.add(&h3)
	r.x.add(&t)
	r.x.add(&t)

	t.add(&r.x)
	r.y.mul(&t, &i)
	h3.mul(&h3, &s1)
	r.y.add(&h3)
}

// addGE sets r = a + b in constant time. b must be finite; a may be
// infinity. The formula handles doubling and the case a = -b without
// branches.
func (r *GroupElementJacobian) addGE(a *GroupElementJacobian, b *GroupElementAffine) {
	if b.infinity {
		panic("addGE with point at infinity")
	}
	var zz, u1, u2, s1, s2, t, tt, m, n, q, rr, mAlt, rrAlt FieldElement

	zz.sqr(&a.z)
	u1 = a.x
	u2.mul(&b.x, &zz)
	s1 = a.y
	s2.mul(&b.y, &zz)
	s2.mul(&s2, &a.z)
	t = u1
	t.add(&u2)
	m = s1
	m.add(&s2)
	rr.sqr(&t)
	mAlt.negate(&u2, 1)
	tt.mul(&u1, &mAlt)
	rr.add(&tt)

	// R/M is 0/0 only when y1 = -y2 and x1^3 = x2^3 with x1 != x2. The
	// alternative (y1-y2)/(x1-x2) is well defined in that case.
	degenerate := boolToInt(m.normalizesToZero())
	rrAlt = s1
	rrAlt.mulInt(2)
	mAlt.add(&u1)
	rrAlt.cmov(&rr, degenerate^1)
	mAlt.cmov(&m, degenerate^1)

	n.sqr(&mAlt)
	q.negate(&t, groupMaxMagnitudeX+1)
	q.mul(&q, &n)

	// M^3*Malt is either Malt^4 or zero.
	n.sqr(&n)
	n.cmov(&m, degenerate)
	t.sqr(&rrAlt)
	r.z.mul(&a.z, &mAlt)
	t.add(&q)
	r.x = t
	t.mulInt(2)
	t.add(&q)
	t.mul(&t, &rrAlt)
	t.add(&n)
	r.y.negate(&t, groupMaxMagnitudeY+2)
	r.y.half(&r.y)

	// An infinite a yields (b.x, b.y, 1).
	ainf := boolToInt(a.infinity)
	r.x.cmov(&b.x, ainf)
	r.y.cmov(&b.y, ainf)
	r.z.cmov(&FieldElementOne, ainf)

	r.infinity = r.z.normalizesToZero()
}

// clear scrubs r.
func (r *GroupElementJacobian) clear() {
	r.x.clear()
	r.y.clear()
	r.z.clear()
	r.infinity = false
}
