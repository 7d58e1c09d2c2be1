package secp256k1

import (
	"io"
	"unsafe"

	sha256 "github.com/minio/sha256-simd"
	"golang.org/x/crypto/hkdf"
)

// ECDHHashFunc derives the shared secret from the 32-byte big-endian
// coordinates of the shared point.
type ECDHHashFunc func(x32, y32 []byte) ([]byte, error)

// ECDHHashSHA256 returns SHA256((0x02 | y&1) || x), the compressed
// encoding of the shared point hashed once.
func ECDHHashSHA256(x32, y32 []byte) ([]byte, error) {
	h := NewSHA256()
	h.Write([]byte{0x02 | y32[31]&1})
	h.Write(x32)
	out := make([]byte, 32)
	h.Finalize(out)
	h.Clear()
	return out, nil
}

// sharedPoint computes key*pub in constant time and writes the affine
// coordinates of the result.
func sharedPoint(x32, y32 []byte, key *PrivateKey, pub *PublicKey) {
	var res GroupElementJacobian
	EcmultConst(&res, &pub.point, key.scalar())
	var pt GroupElementAffine
	pt.setGEJ(&res)
	pt.x.getB32(x32)
	pt.y.getB32(y32)
	res.clear()
	pt.clear()
}

// ECDH computes a shared secret between key and pub. A nil hashfn selects
// ECDHHashSHA256.
func ECDH(key *PrivateKey, pub *PublicKey, hashfn ECDHHashFunc) ([]byte, error) {
	if hashfn == nil {
		hashfn = ECDHHashSHA256
	}
	var x, y [32]byte
	sharedPoint(x[:], y[:], key, pub)
	out, err := hashfn(x[:], y[:])
	memclear(unsafe.Pointer(&x), unsafe.Sizeof(x))
	memclear(unsafe.Pointer(&y), unsafe.Sizeof(y))
	if err != nil {
		return nil, wrapError(ErrECDHHash, "ecdh hash function failed", err)
	}
	return out, nil
}

// ECDHXOnly returns the raw x coordinate of key*pub.
func ECDHXOnly(key *PrivateKey, pub *PublicKey) []byte {
	var x, y [32]byte
	sharedPoint(x[:], y[:], key, pub)
	memclear(unsafe.Pointer(&y), unsafe.Sizeof(y))
	return x[:]
}

// ECDHWithHKDF derives length bytes of key material from the default ECDH
// secret with HKDF-SHA256 (RFC 5869). An empty salt is replaced by a
// block of zeros.
func ECDHWithHKDF(key *PrivateKey, pub *PublicKey, salt, info []byte, length int) ([]byte, error) {
	secret, err := ECDH(key, pub, nil)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(secret)

	out := make([]byte, length)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, info), out); err != nil {
		return nil, wrapError(ErrECDHHash, "hkdf expansion failed", err)
	}
	return out, nil
}
