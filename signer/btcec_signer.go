package signer

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// BtcecSigner implements the I interface using btcec. It follows the same
// conventions as KeySigner (even-y secret keys, zero auxiliary randomness
// and raw x ECDH) so the two produce identical outputs.
type BtcecSigner struct {
	privKey  *btcec.PrivateKey
	pubKey   *btcec.PublicKey
	xonlyPub []byte
}

// NewBtcecSigner creates a new BtcecSigner instance.
func NewBtcecSigner() *BtcecSigner {
	return &BtcecSigner{}
}

// setEven stores privKey, negating it when its public key has odd y.
func (s *BtcecSigner) setEven(privKey *btcec.PrivateKey) {
	pubKey := privKey.PubKey()
	if pubKey.SerializeCompressed()[0] == 0x03 {
		scalar := privKey.Key
		scalar.Negate()
		privKey.Zero()
		privKey = &btcec.PrivateKey{Key: scalar}
		pubKey = privKey.PubKey()
	}
	s.privKey = privKey
	s.pubKey = pubKey
	s.xonlyPub = schnorr.SerializePubKey(pubKey)
}

// Generate creates a fresh key pair from system entropy with an even-y
// public key.
func (s *BtcecSigner) Generate() error {
	privKey, err := btcec.NewPrivateKey()
	if err != nil {
		return err
	}
	s.Zero()
	s.setEven(privKey)
	return nil
}

// InitSec initialises the secret key from 32 raw bytes.
func (s *BtcecSigner) InitSec(sec []byte) error {
	if len(sec) != 32 {
		return errors.New("secret key must be 32 bytes")
	}
	var key btcec.ModNScalar
	if overflow := key.SetByteSlice(sec); overflow || key.IsZero() {
		return errors.New("secret key is zero or not below the group order")
	}
	s.Zero()
	s.setEven(&btcec.PrivateKey{Key: key})
	return nil
}

// InitPub initialises a verify-only signer from a 32-byte x-only key.
func (s *BtcecSigner) InitPub(pub []byte) error {
	pubKey, err := schnorr.ParsePubKey(pub)
	if err != nil {
		return err
	}
	s.Zero()
	s.pubKey = pubKey
	s.xonlyPub = append([]byte(nil), pub...)
	return nil
}

// Sec returns the secret key bytes.
func (s *BtcecSigner) Sec() []byte {
	if s.privKey == nil {
		return nil
	}
	return s.privKey.Serialize()
}

// Pub returns the x-only public key.
func (s *BtcecSigner) Pub() []byte {
	return s.xonlyPub
}

// Sign creates a BIP-340 signature with zero auxiliary randomness.
func (s *BtcecSigner) Sign(msg []byte) (sig []byte, err error) {
	if s.privKey == nil {
		return nil, errors.New("no secret key available for signing")
	}
	if len(msg) != 32 {
		return nil, errors.New("message must be 32 bytes")
	}
	signature, err := schnorr.Sign(s.privKey, msg, schnorr.CustomNonce([32]byte{}))
	if err != nil {
		return nil, err
	}
	return signature.Serialize(), nil
}

// Verify checks a message hash and signature match the stored public key.
func (s *BtcecSigner) Verify(msg, sig []byte) (valid bool, err error) {
	if s.pubKey == nil {
		return false, errors.New("no public key available for verification")
	}
	if len(msg) != 32 {
		return false, errors.New("message must be 32 bytes")
	}
	signature, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false, err
	}
	return signature.Verify(msg, s.pubKey), nil
}

// Zero wipes the secret key.
func (s *BtcecSigner) Zero() {
	if s.privKey != nil {
		s.privKey.Zero()
		s.privKey = nil
	}
	s.pubKey = nil
	s.xonlyPub = nil
}

// ECDH returns the x coordinate of the shared point with the x-only key
// pub.
func (s *BtcecSigner) ECDH(pub []byte) (secret []byte, err error) {
	if s.privKey == nil {
		return nil, errors.New("no secret key available for ECDH")
	}
	pubKey, err := schnorr.ParsePubKey(pub)
	if err != nil {
		return nil, err
	}
	return btcec.GenerateSharedSecret(s.privKey, pubKey), nil
}
