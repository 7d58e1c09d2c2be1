package secp256k1

// The secp256k1 curve has an efficiently computable endomorphism
// (x, y) -> (beta*x, y) which acts on points as multiplication by lambda.
// Splitting a scalar k = k1 + k2*lambda with k1, k2 around 128 bits long
// halves the number of doublings a multiplication needs.

// scalarLambda is a primitive cube root of unity modulo n.
var scalarLambda = Scalar{d: [4]uint64{
	0xDF02967C1B23BD72, 0x122E22EA20816678,
	0xA5261C028812645A, 0x5363AD4CC05C30E0,
}}

// fieldBeta is a primitive cube root of unity modulo p matching
// scalarLambda.
var fieldBeta = fieldFromHex("7ae96a2b657c07106e64479eac3434e99cf0497512f58995c1396c28719501ee")

var (
	// -b1 and -b2 from the lattice basis used by the split
	scalarMinusB1 = Scalar{d: [4]uint64{
		0x6F547FA90ABFE4C3, 0xE4437ED6010E8828, 0, 0,
	}}
	scalarMinusB2 = Scalar{d: [4]uint64{
		0xD765CDA83DB1562C, 0x8A280AC50774346D,
		0xFFFFFFFFFFFFFFFE, 0xFFFFFFFFFFFFFFFF,
	}}
	// g1 = round(2^384 * b2 / n), g2 = round(2^384 * -b1 / n)
	scalarG1 = Scalar{d: [4]uint64{
		0xE893209A45DBB031, 0x3DAA8A1471E8CA7F,
		0xE86C90E49284EB15, 0x3086D221A7D46BCD,
	}}
	scalarG2 = Scalar{d: [4]uint64{
		0x1571B4AE8AC47F71, 0x221208AC9DF506C6,
		0x6F547FA90ABFE4C4, 0xE4437ED6010E8828,
	}}
)

// splitLambda splits k into r1 and r2 with r1 + r2*lambda = k (mod n),
// where r1 and r2, or their negations, are below 2^128.
func splitLambda(k *Scalar) (r1, r2 Scalar) {
	c1 := mulShiftVar(k, &scalarG1, 384)
	c2 := mulShiftVar(k, &scalarG2, 384)
	c1.mul(&c1, &scalarMinusB1)
	c2.mul(&c2, &scalarMinusB2)
	r2.add(&c1, &c2)

	r1.mul(&r2, &scalarLambda)
	r1.negate(&r1)
	r1.add(&r1, k)
	return r1, r2
}

// mulLambda sets r = lambda*a.
func (r *GroupElementAffine) mulLambda(a *GroupElementAffine) {
	*r = *a
	r.x.mul(&r.x, &fieldBeta)
}
