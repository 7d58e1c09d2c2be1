package secp256k1

// RecoverableSigLen is the length of a compact signature with a leading
// recovery code byte.
const RecoverableSigLen = 65

const (
	// compactSigMagicOffset is added to the recovery id in the first byte
	// of a recoverable compact signature.
	compactSigMagicOffset = 27

	// compactSigCompPubKey is added when the key is meant to be
	// serialized compressed.
	compactSigCompPubKey = 4
)

// ecdsaSigRecover reconstructs the signing key point from sig, the
// recovery id and msg.
func (ctx *Context) ecdsaSigRecover(pub *GroupElementAffine, sig *ECDSASignature, msg *Scalar, recid byte) bool {
	if sig.r.isZero() || sig.s.isZero() {
		return false
	}

	var brx [32]byte
	sig.r.getB32(brx[:])
	var fx FieldElement
	fx.setB32Limit(brx[:])
	if recid&2 != 0 {
		if fx.cmpVar(&pMinusOrder) >= 0 {
			return false
		}
		fx.add(&orderAsField)
	}
	var x GroupElementAffine
	if !x.setXOVar(&fx, recid&1 != 0) {
		return false
	}

	var rn, u1, u2 Scalar
	rn.inverseVar(&sig.r)
	u1.mul(&rn, msg)
	u1.negate(&u1)
	u2.mul(&rn, &sig.s)

	var qj GroupElementJacobian
	ctx.ecmult.Mult(&qj, &x, &u2, &u1)
	if qj.isInfinity() {
		return false
	}
	pub.setGEJVar(&qj)
	return true
}

// RecoverPubKey returns the public key that produced sig over the 32-byte
// hash, given the recovery id returned by SignRecoverable. High-s
// signatures are accepted.
func (ctx *Context) RecoverPubKey(sig *ECDSASignature, recid byte, hash []byte) (*PublicKey, error) {
	if len(hash) != 32 {
		return nil, makeError(ErrMessageLen, "message hash must be 32 bytes")
	}
	if recid > 3 {
		return nil, makeError(ErrSigInvalidRecoveryID, "recovery id must be in [0, 3]")
	}
	var msg Scalar
	msg.setB32(hash)
	var p PublicKey
	if !ctx.ecdsaSigRecover(&p.point, sig, &msg, recid) {
		return nil, makeError(ErrRecoveryFailed, "no public key recovers from signature")
	}
	return &p, nil
}

// SignCompact produces a 65-byte recoverable signature: a code byte
// 27 + recid (+4 when compressed) followed by r and s. The format matches
// the one used for Bitcoin signed messages.
func (ctx *Context) SignCompact(key *PrivateKey, hash []byte, compressed bool) ([]byte, error) {
	sig, recid, err := ctx.SignRecoverable(key, hash)
	if err != nil {
		return nil, err
	}
	b := make([]byte, RecoverableSigLen)
	b[0] = compactSigMagicOffset + recid
	if compressed {
		b[0] += compactSigCompPubKey
	}
	sig.r.getB32(b[1:33])
	sig.s.getB32(b[33:])
	return b, nil
}

// RecoverCompact recovers the public key from a SignCompact signature and
// reports whether it was marked as compressed.
func (ctx *Context) RecoverCompact(signature, hash []byte) (*PublicKey, bool, error) {
	if len(signature) != RecoverableSigLen {
		return nil, false, makeError(ErrSigInvalidLen, "recoverable signature must be 65 bytes")
	}
	code := signature[0]
	if code < compactSigMagicOffset || code >= compactSigMagicOffset+2*compactSigCompPubKey {
		return nil, false, makeError(ErrSigInvalidRecoveryID, "invalid compact signature recovery code")
	}
	code -= compactSigMagicOffset
	compressed := code&compactSigCompPubKey != 0
	recid := code & 3

	sig, err := NewECDSASignature(signature[1:33], signature[33:])
	if err != nil {
		return nil, false, err
	}
	pub, err := ctx.RecoverPubKey(sig, recid, hash)
	if err != nil {
		return nil, false, err
	}
	return pub, compressed, nil
}

// SignRecoverable signs with the default context and returns the
// recovery id.
func (k *PrivateKey) SignRecoverable(hash []byte) (*ECDSASignature, byte, error) {
	return DefaultContext().SignRecoverable(k, hash)
}

// SignCompact produces a recoverable compact signature with the default
// context.
func (k *PrivateKey) SignCompact(hash []byte, compressed bool) ([]byte, error) {
	return DefaultContext().SignCompact(k, hash, compressed)
}

// RecoverPubKey recovers the signing key with the default context.
func RecoverPubKey(sig *ECDSASignature, recid byte, hash []byte) (*PublicKey, error) {
	return DefaultContext().RecoverPubKey(sig, recid, hash)
}

// RecoverCompact recovers the signing key of a compact signature with the
// default context.
func RecoverCompact(signature, hash []byte) (*PublicKey, bool, error) {
	return DefaultContext().RecoverCompact(signature, hash)
}
