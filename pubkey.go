package secp256k1

import "fmt"

// These constants define the lengths of serialized public keys.
const (
	PubKeyBytesLenCompressed   = 33
	PubKeyBytesLenUncompressed = 65
)

const (
	pubkeyCompressed   byte = 0x2 // y_bit + x coord
	pubkeyUncompressed byte = 0x4 // x coord + y coord
	pubkeyHybrid       byte = 0x6 // y_bit + x coord + y coord
)

// PublicKey is a finite point on the secp256k1 curve with both
// coordinates normalized.
type PublicKey struct {
	point GroupElementAffine
}

// ParsePubKey parses a public key in the compressed (33 bytes),
// uncompressed (65 bytes) or hybrid (65 bytes) SEC formats. The point is
// checked to be on the curve.
func ParsePubKey(serialized []byte) (*PublicKey, error) {
	var x, y FieldElement
	var p PublicKey
	switch len(serialized) {
	case PubKeyBytesLenUncompressed:
		format := serialized[0]
		switch format {
		case pubkeyUncompressed, pubkeyHybrid, pubkeyHybrid | 1:
		default:
			return nil, makeError(ErrPubKeyInvalidFormat,
				fmt.Sprintf("invalid public key: unsupported format %#x", format))
		}
		if !x.setB32Limit(serialized[1:33]) {
			return nil, makeError(ErrPubKeyXTooBig,
				"invalid public key: x >= field prime")
		}
		if !y.setB32Limit(serialized[33:65]) {
			return nil, makeError(ErrPubKeyYTooBig,
				"invalid public key: y >= field prime")
		}
		if format != pubkeyUncompressed && y.isOdd() != (format == pubkeyHybrid|1) {
			return nil, makeError(ErrPubKeyMismatchedOddness,
				"invalid public key: y oddness does not match specified value")
		}
		p.point.setXY(&x, &y)
		if !p.point.isValidVar() {
			return nil, makeError(ErrPubKeyNotOnCurve,
				fmt.Sprintf("invalid public key: [%x,%x] is not on the secp256k1 curve",
					serialized[1:33], serialized[33:65]))
		}

	case PubKeyBytesLenCompressed:
		format := serialized[0]
		if format != pubkeyCompressed && format != pubkeyCompressed|1 {
			return nil, makeError(ErrPubKeyInvalidFormat,
				fmt.Sprintf("invalid public key: unsupported format %#x", format))
		}
		if !x.setB32Limit(serialized[1:33]) {
			return nil, makeError(ErrPubKeyXTooBig,
				"invalid public key: x >= field prime")
		}
		if !p.point.setXOVar(&x, format == pubkeyCompressed|1) {
			return nil, makeError(ErrPubKeyNotOnCurve,
				fmt.Sprintf("invalid public key: x coordinate %x is not on the secp256k1 curve",
					serialized[1:33]))
		}

	default:
		return nil, makeError(ErrPubKeyInvalidLen,
			"malformed public key: invalid length")
	}
	return &p, nil
}

// serializeCompressed encodes a finite point with normalized coordinates
// in the 33-byte compressed form.
func serializeCompressed(p *GroupElementAffine) []byte {
	b := make([]byte, PubKeyBytesLenCompressed)
	b[0] = pubkeyCompressed
	if p.y.isOdd() {
		b[0] |= 1
	}
	p.x.getB32(b[1:])
	return b
}

// serializeUncompressed encodes a finite point with normalized
// coordinates in the 65-byte uncompressed form.
func serializeUncompressed(p *GroupElementAffine) []byte {
	b := make([]byte, PubKeyBytesLenUncompressed)
	b[0] = pubkeyUncompressed
	p.x.getB32(b[1:33])
	p.y.getB32(b[33:])
	return b
}

// SerializeCompressed returns the 33-byte compressed encoding.
func (p *PublicKey) SerializeCompressed() []byte {
	return serializeCompressed(&p.point)
}

// SerializeUncompressed returns the 65-byte uncompressed encoding.
func (p *PublicKey) SerializeUncompressed() []byte {
	return serializeUncompressed(&p.point)
}

// X returns the 32-byte big-endian x coordinate.
func (p *PublicKey) X() []byte {
	b := p.point.x.bytes()
	return b[:]
}

// Y returns the 32-byte big-endian y coordinate.
func (p *PublicKey) Y() []byte {
	b := p.point.y.bytes()
	return b[:]
}

// IsEqual reports whether p and other are the same point.
func (p *PublicKey) IsEqual(other *PublicKey) bool {
	return p.point.x.equalVar(&other.point.x) &&
		p.point.y.equalVar(&other.point.y)
}

// Negate returns the point -p.
func (p *PublicKey) Negate() *PublicKey {
	var r PublicKey
	r.point.negate(&p.point)
	r.point.normalizeVar()
	return &r
}

// setGEJ converts a Jacobian result into p, reporting false when it is
// the point at infinity.
func (p *PublicKey) setGEJ(a *GroupElementJacobian) bool {
	if a.isInfinity() {
		return false
	}
	p.point.setGEJVar(a)
	return true
}

// PubKeyTweakAdd returns p + tweak*G.
func (ctx *Context) PubKeyTweakAdd(p *PublicKey, tweak []byte) (*PublicKey, error) {
	t, err := parseTweak(tweak)
	if err != nil {
		return nil, err
	}
	var rj GroupElementJacobian
	ctx.ecmult.Mult(&rj, &p.point, &ScalarOne, &t)
	var r PublicKey
	if !r.setGEJ(&rj) {
		return nil, makeError(ErrTweakResultZero, "tweaked public key is the point at infinity")
	}
	return &r, nil
}

// PubKeyTweakMul returns tweak*p. The tweak must be in [1, n-1].
func (ctx *Context) PubKeyTweakMul(p *PublicKey, tweak []byte) (*PublicKey, error) {
	t, err := parseTweak(tweak)
	if err != nil {
		return nil, err
	}
	if t.isZero() {
		return nil, makeError(ErrTweakOutOfRange, "multiplicative tweak is zero")
	}
	var rj GroupElementJacobian
	ctx.ecmult.Mult(&rj, &p.point, &t, nil)
	var r PublicKey
	r.setGEJ(&rj)
	return &r, nil
}

// TweakAdd returns p + tweak*G using the default context.
func (p *PublicKey) TweakAdd(tweak []byte) (*PublicKey, error) {
	return DefaultContext().PubKeyTweakAdd(p, tweak)
}

// TweakMul returns tweak*p using the default context.
func (p *PublicKey) TweakMul(tweak []byte) (*PublicKey, error) {
	return DefaultContext().PubKeyTweakMul(p, tweak)
}

// CombinePubKeys returns the sum of keys. It fails when no keys are given
// or the sum is the point at infinity.
func CombinePubKeys(keys ...*PublicKey) (*PublicKey, error) {
	if len(keys) == 0 {
		return nil, makeError(ErrPubKeyInvalidLen, "no public keys to combine")
	}
	var sum GroupElementJacobian
	sum.setInfinity()
	for _, k := range keys {
		sum.addGEVar(&sum, &k.point, nil)
	}
	var r PublicKey
	if !r.setGEJ(&sum) {
		return nil, makeError(ErrTweakResultZero, "combined public key is the point at infinity")
	}
	return &r, nil
}

// XOnly returns the x-only form of p together with the parity of its y
// coordinate.
func (p *PublicKey) XOnly() (*XOnlyPubKey, bool) {
	var x XOnlyPubKey
	x.point = p.point
	odd := x.point.y.isOdd()
	if odd {
		x.point.negate(&x.point)
		x.point.normalizeVar()
	}
	return &x, odd
}
