package secp256k1

import (
	"runtime"

	"github.com/decred/dcrd/crypto/rand"
)

// PrivKeyBytesLen defines the length in bytes of a serialized private key.
const PrivKeyBytesLen = 32

// PrivateKey is a secp256k1 secret key: a scalar in [1, n-1].
//
// The scalar is scrubbed by Clear, and by a finalizer once the key becomes
// unreachable. Any use of a cleared key panics.
type PrivateKey struct {
	key     Scalar
	cleared bool
}

// newPrivateKey wraps a valid secret scalar.
func newPrivateKey(s *Scalar) *PrivateKey {
	k := &PrivateKey{key: *s}
	runtime.SetFinalizer(k, (*PrivateKey).Clear)
	return k
}

// PrivKeyFromBytes parses a 32-byte big-endian secret key. Values that are
// zero or not below the group order are rejected.
func PrivKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != PrivKeyBytesLen {
		return nil, makeError(ErrPrivKeyInvalidLen, "private key must be 32 bytes")
	}
	var s Scalar
	if !s.setB32Seckey(b) {
		s.clear()
		return nil, makeError(ErrPrivKeyOutOfRange, "private key is zero or not below the group order")
	}
	k := newPrivateKey(&s)
	s.clear()
	return k, nil
}

// GeneratePrivateKey returns a new private key drawn from the system
// CSPRNG. Out of range candidates are discarded and redrawn.
func GeneratePrivateKey() (*PrivateKey, error) {
	var b [PrivKeyBytesLen]byte
	defer zeroBytes(b[:])
	for {
		rand.Read(b[:])
		var s Scalar
		if s.setB32Seckey(b[:]) {
			k := newPrivateKey(&s)
			s.clear()
			return k, nil
		}
		log.Trace("Discarding out of range private key candidate")
	}
}

// scalar returns the secret scalar, panicking if the key was cleared.
func (k *PrivateKey) scalar() *Scalar {
	if k.cleared {
		panic("use of cleared private key")
	}
	return &k.key
}

// Bytes returns the 32-byte big-endian encoding of the key.
func (k *PrivateKey) Bytes() []byte {
	b := k.scalar().bytes()
	return b[:]
}

// Clear scrubs the secret scalar. The key must not be used afterwards.
func (k *PrivateKey) Clear() {
	k.key.clear()
	k.cleared = true
}

// IsCleared reports whether Clear has been called.
func (k *PrivateKey) IsCleared() bool {
	return k.cleared
}

// Negate returns the key -k.
func (k *PrivateKey) Negate() *PrivateKey {
	var s Scalar
	s.negate(k.scalar())
	r := newPrivateKey(&s)
	s.clear()
	return r
}

// parseTweak parses a 32-byte tweak. The zero value is accepted; callers
// that cannot use it check separately.
func parseTweak(tweak []byte) (Scalar, error) {
	var t Scalar
	if len(tweak) != 32 {
		return t, makeError(ErrTweakInvalidLen, "tweak must be 32 bytes")
	}
	if t.setB32(tweak) {
		t.clear()
		return t, makeError(ErrTweakOutOfRange, "tweak is not below the group order")
	}
	return t, nil
}

// TweakAdd returns the key k + tweak. It fails when the tweak is not
// below the group order or the sum is zero; k is never modified.
func (k *PrivateKey) TweakAdd(tweak []byte) (*PrivateKey, error) {
	t, err := parseTweak(tweak)
	if err != nil {
		return nil, err
	}
	var s Scalar
	s.add(k.scalar(), &t)
	t.clear()
	if s.isZero() {
		return nil, makeError(ErrTweakResultZero, "tweaked private key is zero")
	}
	r := newPrivateKey(&s)
	s.clear()
	return r, nil
}

// TweakMul returns the key k * tweak. The tweak must be in [1, n-1].
func (k *PrivateKey) TweakMul(tweak []byte) (*PrivateKey, error) {
	t, err := parseTweak(tweak)
	if err != nil {
		return nil, err
	}
	if t.isZero() {
		return nil, makeError(ErrTweakOutOfRange, "multiplicative tweak is zero")
	}
	var s Scalar
	s.mul(k.scalar(), &t)
	t.clear()
	r := newPrivateKey(&s)
	s.clear()
	return r, nil
}

// PubKey returns the public key k*G.
func (ctx *Context) PubKey(k *PrivateKey) *PublicKey {
	var p PublicKey
	ctx.pubKeyPoint(&p.point, k.scalar())
	return &p
}

// PubKey returns the public key for k using the default context.
func (k *PrivateKey) PubKey() *PublicKey {
	return DefaultContext().PubKey(k)
}
