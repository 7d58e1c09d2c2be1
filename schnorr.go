package secp256k1

import "unsafe"

// SchnorrSigLen is the length of a BIP-340 signature.
const SchnorrSigLen = 64

// bip340Challenge sets e = H_challenge(rx || px || msg) mod n.
func bip340Challenge(e *Scalar, rx, px, msg []byte) {
	h := TaggedHash([]byte(tagBIP340Challenge), rx, px, msg)
	e.setB32(h[:])
}

// schnorrNonce derives the BIP-340 nonce from the masked key, the x-only
// public key and the message. It is a variable so tests can force nonces
// that reduce to zero.
var schnorrNonce = func(masked, pk32, msg []byte) [32]byte {
	return TaggedHash([]byte(tagBIP340Nonce), masked, pk32, msg)
}

// SchnorrSign produces a BIP-340 signature of the 32-byte msg. aux32 is
// the auxiliary randomness; nil is treated as 32 zero bytes.
func (ctx *Context) SchnorrSign(key *PrivateKey, msg, aux32 []byte) ([]byte, error) {
	if len(msg) != 32 {
		return nil, makeError(ErrMessageLen, "message must be 32 bytes")
	}
	var aux [32]byte
	if aux32 != nil {
		if len(aux32) != 32 {
			return nil, makeError(ErrSigInvalidLen, "auxiliary randomness must be 32 bytes")
		}
		copy(aux[:], aux32)
	}

	// The signing key is negated when its point has odd y.
	sk := *key.scalar()
	var pk GroupElementAffine
	ctx.pubKeyPoint(&pk, &sk)
	sk.condNegate(boolToInt(pk.y.isOdd()))
	defer sk.clear()
	var pk32 [32]byte
	pk.x.getB32(pk32[:])

	// t = bytes(d) xor H_aux(a).
	var t [32]byte
	sk.getB32(t[:])
	masked := TaggedHash([]byte(tagBIP340Aux), aux[:])
	for i := range t {
		t[i] ^= masked[i]
	}
	nonce := schnorrNonce(t[:], pk32[:], msg)
	memclear(unsafe.Pointer(&t), unsafe.Sizeof(t))

	var k Scalar
	k.setB32(nonce[:])
	memclear(unsafe.Pointer(&nonce), unsafe.Sizeof(nonce))
	defer k.clear()
	if k.isZero() {
		return nil, makeError(ErrSigNonceZero, "derived nonce is zero")
	}

	var r GroupElementAffine
	ctx.pubKeyPoint(&r, &k)
	k.condNegate(boolToInt(r.y.isOdd()))

	sig := make([]byte, SchnorrSigLen)
	r.x.getB32(sig[:32])
	r.clear()

	var e Scalar
	bip340Challenge(&e, sig[:32], pk32[:], msg)
	e.mul(&e, &sk)
	e.add(&e, &k)
	e.getB32(sig[32:])
	e.clear()
	return sig, nil
}

// SchnorrVerify reports whether sig is a valid BIP-340 signature of the
// 32-byte msg under pub.
func (ctx *Context) SchnorrVerify(pub *XOnlyPubKey, msg, sig []byte) bool {
	if len(msg) != 32 || len(sig) != SchnorrSigLen {
		return false
	}
	var rx FieldElement
	if !rx.setB32Limit(sig[:32]) {
		return false
	}
	var s Scalar
	if s.setB32(sig[32:]) {
		return false
	}

	var e Scalar
	pk32 := pub.Serialize()
	bip340Challenge(&e, sig[:32], pk32, msg)
	e.negate(&e)

	// R = s*G - e*P.
	var rj GroupElementJacobian
	ctx.ecmult.Mult(&rj, &pub.point, &e, &s)
	if rj.isInfinity() {
		return false
	}
	var r GroupElementAffine
	r.setGEJVar(&rj)
	if r.y.isOdd() {
		return false
	}
	return rx.equalVar(&r.x)
}

// SchnorrSign signs msg with the default context.
func (k *PrivateKey) SchnorrSign(msg, aux32 []byte) ([]byte, error) {
	return DefaultContext().SchnorrSign(k, msg, aux32)
}

// SchnorrVerify verifies a BIP-340 signature with the default context.
func SchnorrVerify(pub *XOnlyPubKey, msg, sig []byte) bool {
	return DefaultContext().SchnorrVerify(pub, msg, sig)
}
