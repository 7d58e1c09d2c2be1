package secp256k1

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/decred/dcrd/crypto/rand"
)

var (
	bigP = fromHexBig("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")
	bigN = fromHexBig("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
)

func fromHexBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid hex in test: " + s)
	}
	return v
}

// hexToBytes converts the passed hex string into bytes and will panic if
// there is an error. It must only be called with hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

func bigTo32(v *big.Int) []byte {
	var b [32]byte
	v.FillBytes(b[:])
	return b[:]
}

func randBytes32(t testing.TB) []byte {
	t.Helper()
	b := make([]byte, 32)
	rand.Read(b)
	return b
}

func randScalar(t testing.TB) Scalar {
	t.Helper()
	var s Scalar
	s.setB32(randBytes32(t))
	return s
}

func randFieldElement(t testing.TB) FieldElement {
	t.Helper()
	var f FieldElement
	f.setB32Mod(randBytes32(t))
	f.normalize()
	return f
}

func scalarToBig(s *Scalar) *big.Int {
	b := s.bytes()
	return new(big.Int).SetBytes(b[:])
}

func scalarFromBig(v *big.Int) Scalar {
	var s Scalar
	s.setB32(bigTo32(new(big.Int).Mod(v, bigN)))
	return s
}

func feToBig(f *FieldElement) *big.Int {
	c := *f
	c.normalize()
	b := c.bytes()
	return new(big.Int).SetBytes(b[:])
}

func feFromBig(v *big.Int) FieldElement {
	var f FieldElement
	f.setB32Mod(bigTo32(new(big.Int).Mod(v, bigP)))
	f.normalize()
	return f
}

// naiveMult computes k*a by double-and-add over the bits of k. It is the
// reference the windowed multiplications are checked against.
func naiveMult(r *GroupElementJacobian, a *GroupElementAffine, k *Scalar) {
	r.setInfinity()
	for i := 255; i >= 0; i-- {
		r.doubleVar(r, nil)
		if k.getBitsVar(uint(i), 1) == 1 {
			r.addGEVar(r, a, nil)
		}
	}
}

// gejEqualsGE reports whether the Jacobian point a equals the affine b.
func gejEqualsGE(a *GroupElementJacobian, b *GroupElementAffine) bool {
	var aa GroupElementAffine
	aa.setGEJVar(a)
	return aa.equalVar(b)
}

// randPoint returns k*G for a random k.
func randPoint(t testing.TB) GroupElementAffine {
	t.Helper()
	k := randScalar(t)
	var rj GroupElementJacobian
	DefaultContext().EcmultGen().MultGen(&rj, &k)
	var r GroupElementAffine
	r.setGEJVar(&rj)
	return r
}
