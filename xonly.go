package secp256k1

import (
	"bytes"
	"fmt"
)

// XOnlyPubKeyLen is the length of a serialized x-only public key.
const XOnlyPubKeyLen = 32

// XOnlyPubKey is a BIP-340 public key: the curve point with the given x
// coordinate and even y.
type XOnlyPubKey struct {
	point GroupElementAffine
}

// ParseXOnlyPubKey parses a 32-byte x coordinate.
func ParseXOnlyPubKey(b []byte) (*XOnlyPubKey, error) {
	if len(b) != XOnlyPubKeyLen {
		return nil, makeError(ErrPubKeyInvalidLen, "x-only public key must be 32 bytes")
	}
	var x FieldElement
	if !x.setB32Limit(b) {
		return nil, makeError(ErrPubKeyXTooBig, "invalid public key: x >= field prime")
	}
	var p XOnlyPubKey
	if !p.point.setXOVar(&x, false) {
		return nil, makeError(ErrPubKeyNotOnCurve,
			fmt.Sprintf("invalid public key: x coordinate %x is not on the secp256k1 curve", b))
	}
	return &p, nil
}

// Serialize returns the 32-byte x coordinate.
func (p *XOnlyPubKey) Serialize() []byte {
	b := p.point.x.bytes()
	return b[:]
}

// Cmp compares the serializations of p and other lexicographically.
func (p *XOnlyPubKey) Cmp(other *XOnlyPubKey) int {
	return bytes.Compare(p.Serialize(), other.Serialize())
}

// PubKey returns the full public key with even y.
func (p *XOnlyPubKey) PubKey() *PublicKey {
	return &PublicKey{point: p.point}
}

// XOnlyTweakAdd computes Q = P + tweak*G, as used for taproot outputs,
// and returns the x-only form of Q along with the parity of its y
// coordinate.
func (ctx *Context) XOnlyTweakAdd(p *XOnlyPubKey, tweak []byte) (*XOnlyPubKey, bool, error) {
	q, err := ctx.PubKeyTweakAdd(p.PubKey(), tweak)
	if err != nil {
		return nil, false, err
	}
	x, odd := q.XOnly()
	return x, odd, nil
}

// XOnlyTweakAddCheck reports whether tweaked32 with parity is the result
// of tweaking p by tweak.
func (ctx *Context) XOnlyTweakAddCheck(p *XOnlyPubKey, tweaked32 []byte, parity bool, tweak []byte) bool {
	if len(tweaked32) != XOnlyPubKeyLen {
		return false
	}
	q, odd, err := ctx.XOnlyTweakAdd(p, tweak)
	if err != nil {
		return false
	}
	return odd == parity && bytes.Equal(q.Serialize(), tweaked32)
}

// TweakAdd computes P + tweak*G with the default context.
func (p *XOnlyPubKey) TweakAdd(tweak []byte) (*XOnlyPubKey, bool, error) {
	return DefaultContext().XOnlyTweakAdd(p, tweak)
}

// TweakAddCheck verifies a tweak with the default context.
func (p *XOnlyPubKey) TweakAddCheck(tweaked32 []byte, parity bool, tweak []byte) bool {
	return DefaultContext().XOnlyTweakAddCheck(p, tweaked32, parity, tweak)
}
