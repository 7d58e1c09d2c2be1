package secp256k1

import "unsafe"

var (
	// orderAsField is the group order n as a field element.
	orderAsField = fieldFromHex("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")

	// pMinusOrder is p - n. An x coordinate below it may have been
	// reduced when it was turned into r.
	pMinusOrder = fieldFromHex("000000000000000000000000000000014551231950b75fc4402da1722fc9baee")
)

// nonceRFC6979 writes the deterministic nonce candidate number counter
// for key32 and the message reduced modulo n.
func nonceRFC6979(nonce32, key32 []byte, msg *Scalar, counter uint32) {
	var keydata [64]byte
	copy(keydata[:32], key32)
	msg.getB32(keydata[32:])
	rng := NewRFC6979HMACSHA256(keydata[:])
	memclear(unsafe.Pointer(&keydata), unsafe.Sizeof(keydata))
	for i := uint32(0); i <= counter; i++ {
		rng.Generate(nonce32)
	}
	rng.Clear()
}

// ecdsaSigSign computes a signature of msg with seckey and the given
// nonce, returning the recovery id. It reports false when r or s is zero.
func (ctx *Context) ecdsaSigSign(sig *ECDSASignature, seckey, msg, nonce *Scalar) (byte, bool) {
	var rp GroupElementJacobian
	var r GroupElementAffine
	ctx.ecmultGen.MultGen(&rp, nonce)
	r.setGEJ(&rp)
	rp.clear()

	var b [32]byte
	r.x.getB32(b[:])
	overflow := sig.r.setB32(b[:])
	recid := byte(boolToInt(overflow))<<1 | byte(boolToInt(r.y.isOdd()))
	r.clear()

	var n, k Scalar
	n.mul(&sig.r, seckey)
	n.add(&n, msg)
	k.inverse(nonce)
	sig.s.mul(&k, &n)
	n.clear()
	k.clear()

	high := boolToInt(sig.s.isHigh())
	sig.s.condNegate(high)
	recid ^= byte(high)

	return recid, !sig.r.isZero() && !sig.s.isZero()
}

// SignRecoverable produces a deterministic low-s ECDSA signature of the
// 32-byte hash together with its recovery id in [0, 3]. Nonces follow
// RFC 6979; a candidate that is out of range or yields a zero r or s is
// skipped by advancing the generator.
func (ctx *Context) SignRecoverable(key *PrivateKey, hash []byte) (*ECDSASignature, byte, error) {
	if len(hash) != 32 {
		return nil, 0, makeError(ErrMessageLen, "message hash must be 32 bytes")
	}
	seckey := key.scalar()
	var msg Scalar
	msg.setB32(hash)

	var key32, nonce32 [32]byte
	seckey.getB32(key32[:])
	defer zeroBytes(key32[:])
	defer zeroBytes(nonce32[:])

	var sig ECDSASignature
	var nonce Scalar
	for counter := uint32(0); ; counter++ {
		nonceRFC6979(nonce32[:], key32[:], &msg, counter)
		if nonce.setB32Seckey(nonce32[:]) {
			recid, ok := ctx.ecdsaSigSign(&sig, seckey, &msg, &nonce)
			if ok {
				nonce.clear()
				return &sig, recid, nil
			}
		}
		log.Tracef("Retrying ECDSA nonce generation (counter %d)", counter+1)
	}
}

// Sign produces a deterministic low-s ECDSA signature of the 32-byte hash.
func (ctx *Context) Sign(key *PrivateKey, hash []byte) (*ECDSASignature, error) {
	sig, _, err := ctx.SignRecoverable(key, hash)
	return sig, err
}

// ecdsaSigVerify checks sig against msg and the public key point.
func (ctx *Context) ecdsaSigVerify(sig *ECDSASignature, pub *GroupElementAffine, msg *Scalar) bool {
	if sig.r.isZero() || sig.s.isZero() {
		return false
	}
	var sn, u1, u2 Scalar
	sn.inverseVar(&sig.s)
	u1.mul(&sn, msg)
	u2.mul(&sn, &sig.r)

	var pr GroupElementJacobian
	ctx.ecmult.Mult(&pr, pub, &u2, &u1)
	if pr.isInfinity() {
		return false
	}

	var c [32]byte
	sig.r.getB32(c[:])
	var xr FieldElement
	xr.setB32Limit(c[:])
	if pr.eqXVar(&xr) {
		return true
	}
	// r may be the reduction of an x coordinate in [n, p).
	if xr.cmpVar(&pMinusOrder) >= 0 {
		return false
	}
	xr.add(&orderAsField)
	return pr.eqXVar(&xr)
}

// Verify reports whether sig is a valid low-s signature of the 32-byte
// hash under pub.
func (ctx *Context) Verify(sig *ECDSASignature, hash []byte, pub *PublicKey) bool {
	if len(hash) != 32 || sig.s.isHigh() {
		return false
	}
	var msg Scalar
	msg.setB32(hash)
	return ctx.ecdsaSigVerify(sig, &pub.point, &msg)
}

// Sign signs the 32-byte hash with the default context.
func (k *PrivateKey) Sign(hash []byte) (*ECDSASignature, error) {
	return DefaultContext().Sign(k, hash)
}

// Verify checks the signature with the default context.
func (sig *ECDSASignature) Verify(hash []byte, pub *PublicKey) bool {
	return DefaultContext().Verify(sig, hash, pub)
}
