package signer

import (
	"errors"

	"secp256k1.mleku.dev"
)

// KeySigner implements the I interface over secp256k1.mleku.dev. Secret
// keys are held with even-y public keys so that the x-only key published
// through Pub always signs and derives shared secrets for the stored
// secret.
type KeySigner struct {
	ctx   *secp256k1.Context
	sec   *secp256k1.PrivateKey
	xonly *secp256k1.XOnlyPubKey
}

// NewKeySigner creates a KeySigner using the default context.
func NewKeySigner() *KeySigner {
	return &KeySigner{ctx: secp256k1.DefaultContext()}
}

// NewKeySignerWithContext creates a KeySigner bound to ctx.
func NewKeySignerWithContext(ctx *secp256k1.Context) *KeySigner {
	return &KeySigner{ctx: ctx}
}

// setEven stores k, negated if needed so that its public key has even y.
func (s *KeySigner) setEven(k *secp256k1.PrivateKey) {
	xonly, odd := s.ctx.PubKey(k).XOnly()
	if odd {
		neg := k.Negate()
		k.Clear()
		k = neg
	}
	s.sec = k
	s.xonly = xonly
}

// Generate creates a fresh key pair from system entropy with an even-y
// public key.
func (s *KeySigner) Generate() error {
	k, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return err
	}
	s.Zero()
	s.setEven(k)
	return nil
}

// InitSec initialises the secret key from 32 raw bytes and derives the
// public key. A key with an odd-y public key is replaced by its negation.
func (s *KeySigner) InitSec(sec []byte) error {
	k, err := secp256k1.PrivKeyFromBytes(sec)
	if err != nil {
		return err
	}
	s.Zero()
	s.setEven(k)
	return nil
}

// InitPub initialises a verify-only signer from a 32-byte x-only key.
func (s *KeySigner) InitPub(pub []byte) error {
	xonly, err := secp256k1.ParseXOnlyPubKey(pub)
	if err != nil {
		return err
	}
	s.Zero()
	s.xonly = xonly
	return nil
}

// Sec returns the secret key bytes, or nil for a verify-only signer.
func (s *KeySigner) Sec() []byte {
	if s.sec == nil {
		return nil
	}
	return s.sec.Bytes()
}

// Pub returns the x-only public key.
func (s *KeySigner) Pub() []byte {
	if s.xonly == nil {
		return nil
	}
	return s.xonly.Serialize()
}

// Sign creates a BIP-340 signature of the 32-byte msg with zero auxiliary
// randomness.
func (s *KeySigner) Sign(msg []byte) (sig []byte, err error) {
	if s.sec == nil {
		return nil, errors.New("no secret key available for signing")
	}
	return s.ctx.SchnorrSign(s.sec, msg, nil)
}

// Verify checks a BIP-340 signature against the stored public key.
func (s *KeySigner) Verify(msg, sig []byte) (valid bool, err error) {
	if s.xonly == nil {
		return false, errors.New("no public key available for verification")
	}
	if len(msg) != 32 {
		return false, errors.New("message must be 32 bytes")
	}
	if len(sig) != secp256k1.SchnorrSigLen {
		return false, errors.New("signature must be 64 bytes")
	}
	return s.ctx.SchnorrVerify(s.xonly, msg, sig), nil
}

// Zero wipes the secret key and forgets the public key.
func (s *KeySigner) Zero() {
	if s.sec != nil {
		s.sec.Clear()
		s.sec = nil
	}
	s.xonly = nil
}

// ECDH returns the x coordinate of the shared point between the stored
// secret and the x-only key pub.
func (s *KeySigner) ECDH(pub []byte) (secret []byte, err error) {
	if s.sec == nil {
		return nil, errors.New("no secret key available for ECDH")
	}
	xonly, err := secp256k1.ParseXOnlyPubKey(pub)
	if err != nil {
		return nil, err
	}
	return secp256k1.ECDHXOnly(s.sec, xonly.PubKey()), nil
}

// KeyGen implements the Gen interface for vanity key searches: it exposes
// the compressed key so callers can test y parity and flip it cheaply.
type KeyGen struct {
	sec *secp256k1.PrivateKey
	pub *secp256k1.PublicKey
}

// NewKeyGen creates a new KeyGen.
func NewKeyGen() *KeyGen {
	return &KeyGen{}
}

// Generate draws a new key and returns its 33-byte compressed public key.
func (g *KeyGen) Generate() (pubBytes []byte, err error) {
	k, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	if g.sec != nil {
		g.sec.Clear()
	}
	g.sec = k
	g.pub = k.PubKey()
	return g.pub.SerializeCompressed(), nil
}

// Negate flips the y parity of the current key pair.
func (g *KeyGen) Negate() {
	if g.sec == nil {
		return
	}
	neg := g.sec.Negate()
	g.sec.Clear()
	g.sec = neg
	g.pub = g.pub.Negate()
}

// KeyPairBytes returns the secret key and the 32-byte x-only public key.
func (g *KeyGen) KeyPairBytes() (secBytes, cmprPubBytes []byte) {
	if g.sec == nil {
		return nil, nil
	}
	return g.sec.Bytes(), g.pub.X()
}
