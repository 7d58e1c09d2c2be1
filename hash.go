package secp256k1

import (
	"hash"
	"sync"
	"unsafe"

	sha256 "github.com/minio/sha256-simd"
)

// Cached SHA256(tag) prefixes for the BIP-340 tags.
var (
	bip340AuxTagHash       [32]byte
	bip340NonceTagHash     [32]byte
	bip340ChallengeTagHash [32]byte
	taggedHashInitOnce     sync.Once
)

const (
	tagBIP340Aux       = "BIP0340/aux"
	tagBIP340Nonce     = "BIP0340/nonce"
	tagBIP340Challenge = "BIP0340/challenge"
)

func initTaggedHashPrefixes() {
	bip340AuxTagHash = sha256.Sum256([]byte(tagBIP340Aux))
	bip340NonceTagHash = sha256.Sum256([]byte(tagBIP340Nonce))
	bip340ChallengeTagHash = sha256.Sum256([]byte(tagBIP340Challenge))
}

// tagHashPrefix returns SHA256(tag), from the cache for the BIP-340 tags.
func tagHashPrefix(tag []byte) [32]byte {
	taggedHashInitOnce.Do(initTaggedHashPrefixes)
	switch string(tag) {
	case tagBIP340Aux:
		return bip340AuxTagHash
	case tagBIP340Nonce:
		return bip340NonceTagHash
	case tagBIP340Challenge:
		return bip340ChallengeTagHash
	}
	return sha256.Sum256(tag)
}

// TaggedHash computes SHA256(SHA256(tag) || SHA256(tag) || data...) as
// defined by BIP-340.
func TaggedHash(tag []byte, data ...[]byte) [32]byte {
	prefix := tagHashPrefix(tag)
	h := sha256.New()
	h.Write(prefix[:])
	h.Write(prefix[:])
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// SHA256 is an incremental SHA-256 hasher.
type SHA256 struct {
	h hash.Hash
}

// NewSHA256 returns a fresh SHA-256 context.
func NewSHA256() *SHA256 {
	return &SHA256{h: sha256.New()}
}

// Write absorbs data.
func (s *SHA256) Write(data []byte) {
	s.h.Write(data)
}

// Finalize writes the 32-byte digest to out32.
func (s *SHA256) Finalize(out32 []byte) {
	if len(out32) != 32 {
		panic("output buffer must be 32 bytes")
	}
	s.h.Sum(out32[:0])
}

// Clear resets the context so no absorbed data remains in it.
func (s *SHA256) Clear() {
	s.h.Reset()
}

// HMACSHA256 computes HMAC-SHA256 per RFC 2104.
type HMACSHA256 struct {
	inner, outer SHA256
}

// NewHMACSHA256 returns an HMAC-SHA256 context keyed with key.
func NewHMACSHA256(key []byte) *HMACSHA256 {
	var rkey [64]byte
	if len(key) <= len(rkey) {
		copy(rkey[:], key)
	} else {
		sum := sha256.Sum256(key)
		copy(rkey[:], sum[:])
	}

	h := &HMACSHA256{inner: *NewSHA256(), outer: *NewSHA256()}
	for i := range rkey {
		rkey[i] ^= 0x5c
	}
	h.outer.Write(rkey[:])
	for i := range rkey {
		rkey[i] ^= 0x5c ^ 0x36
	}
	h.inner.Write(rkey[:])

	memclear(unsafe.Pointer(&rkey), unsafe.Sizeof(rkey))
	return h
}

// Write absorbs message data.
func (h *HMACSHA256) Write(data []byte) {
	h.inner.Write(data)
}

// Finalize writes the 32-byte MAC to out32.
func (h *HMACSHA256) Finalize(out32 []byte) {
	var temp [32]byte
	h.inner.Finalize(temp[:])
	h.outer.Write(temp[:])
	h.outer.Finalize(out32)
	memclear(unsafe.Pointer(&temp), unsafe.Sizeof(temp))
}

// Clear resets both inner and outer contexts.
func (h *HMACSHA256) Clear() {
	h.inner.Clear()
	h.outer.Clear()
}

// hmacSHA256 is a one-shot HMAC over the concatenation of parts.
func hmacSHA256(out32, key []byte, parts ...[]byte) {
	h := NewHMACSHA256(key)
	for _, p := range parts {
		h.Write(p)
	}
	h.Finalize(out32)
	h.Clear()
}

// RFC6979HMACSHA256 is the HMAC-DRBG of RFC 6979 section 3.2, used to
// derive deterministic nonces and blinding values.
type RFC6979HMACSHA256 struct {
	v     [32]byte
	k     [32]byte
	retry bool
}

// NewRFC6979HMACSHA256 seeds a generator with key, which is typically
// the secret key followed by the message hash and optional extra data.
func NewRFC6979HMACSHA256(key []byte) *RFC6979HMACSHA256 {
	rng := &RFC6979HMACSHA256{}
	for i := range rng.v {
		rng.v[i] = 0x01
	}

	// K = HMAC_K(V || 0x00 || key); V = HMAC_K(V)
	hmacSHA256(rng.k[:], rng.k[:], rng.v[:], []byte{0x00}, key)
	hmacSHA256(rng.v[:], rng.k[:], rng.v[:])

	// K = HMAC_K(V || 0x01 || key); V = HMAC_K(V)
	hmacSHA256(rng.k[:], rng.k[:], rng.v[:], []byte{0x01}, key)
	hmacSHA256(rng.v[:], rng.k[:], rng.v[:])
	return rng
}

// Generate fills out with the next bytes of the stream. Calls after the
// first reseed K and V as in step 3.2.h.
func (rng *RFC6979HMACSHA256) Generate(out []byte) {
	if rng.retry {
		hmacSHA256(rng.k[:], rng.k[:], rng.v[:], []byte{0x00})
		hmacSHA256(rng.v[:], rng.k[:], rng.v[:])
	}

	for len(out) > 0 {
		hmacSHA256(rng.v[:], rng.k[:], rng.v[:])
		n := copy(out, rng.v[:])
		out = out[n:]
	}
	rng.retry = true
}

// Clear scrubs the generator state.
func (rng *RFC6979HMACSHA256) Clear() {
	memclear(unsafe.Pointer(rng), unsafe.Sizeof(*rng))
}
