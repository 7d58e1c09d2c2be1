package secp256k1

import (
	encasn1 "encoding/asn1"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Serialized lengths of the SEC1 private key encoding with explicit
// curve parameters.
const (
	PrivKeyDERCompressedLen   = 214
	PrivKeyDERUncompressedLen = 279
)

var (
	// oidPrimeField is the X9.62 prime-field identifier.
	oidPrimeField = encasn1.ObjectIdentifier{1, 2, 840, 10045, 1, 1}

	fieldPrimeBytes = [32]byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xfe, 0xff, 0xff, 0xfc, 0x2f,
	}
	groupOrderBytes = [32]byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe,
		0xba, 0xae, 0xdc, 0xe6, 0xaf, 0x48, 0xa0, 0x3b,
		0xbf, 0xd2, 0x5e, 0x8c, 0xd0, 0x36, 0x41, 0x41,
	}
)

// addUnsignedInt adds a positive DER INTEGER with a leading zero byte,
// as required for values with the top bit set.
func addUnsignedInt(b *cryptobyte.Builder, v []byte) {
	b.AddASN1(asn1.INTEGER, func(b *cryptobyte.Builder) {
		b.AddUint8(0)
		b.AddBytes(v)
	})
}

// SerializeDER encodes the key as a SEC1 ECPrivateKey carrying the full
// secp256k1 domain parameters and the public key, in compressed or
// uncompressed point form. The layout is fixed, so compressed output is
// always 214 bytes and uncompressed output 279 bytes.
func (ctx *Context) SerializeDER(k *PrivateKey, compressed bool) []byte {
	pub := ctx.PubKey(k)
	var pubBytes, genBytes []byte
	if compressed {
		pubBytes = pub.SerializeCompressed()
		genBytes = serializeCompressed(&Generator)
	} else {
		pubBytes = pub.SerializeUncompressed()
		genBytes = serializeUncompressed(&Generator)
	}
	sk := k.Bytes()
	defer zeroBytes(sk)

	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(1)
		b.AddASN1OctetString(sk)
		b.AddASN1(asn1.Tag(0).Constructed().ContextSpecific(), func(b *cryptobyte.Builder) {
			b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1Int64(1)
				b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
					b.AddASN1ObjectIdentifier(oidPrimeField)
					addUnsignedInt(b, fieldPrimeBytes[:])
				})
				// Curve coefficients a = 0 and b = 7.
				b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
					b.AddASN1OctetString([]byte{0x00})
					b.AddASN1OctetString([]byte{curveB})
				})
				b.AddASN1OctetString(genBytes)
				addUnsignedInt(b, groupOrderBytes[:])
				b.AddASN1Int64(1)
			})
		})
		b.AddASN1(asn1.Tag(1).Constructed().ContextSpecific(), func(b *cryptobyte.Builder) {
			b.AddASN1(asn1.BIT_STRING, func(b *cryptobyte.Builder) {
				b.AddUint8(0)
				b.AddBytes(pubBytes)
			})
		})
	})
	out, err := b.Bytes()
	if err != nil {
		panic("private key DER encoding failed: " + err.Error())
	}
	return out
}

// SerializeDER encodes the key using the default context.
func (k *PrivateKey) SerializeDER(compressed bool) []byte {
	return DefaultContext().SerializeDER(k, compressed)
}

// ParsePrivKeyDER extracts the secret key from a SEC1 ECPrivateKey
// encoding. Only the version and the private key octet string are
// inspected; keys shorter than 32 bytes are left padded with zeros.
func ParsePrivKeyDER(der []byte) (*PrivateKey, error) {
	input := cryptobyte.String(der)
	var seq, keyBytes cryptobyte.String
	var version int64
	if !input.ReadASN1(&seq, asn1.SEQUENCE) {
		return nil, makeError(ErrPrivKeyDER, "malformed private key sequence")
	}
	if !seq.ReadASN1Integer(&version) || version != 1 {
		return nil, makeError(ErrPrivKeyDER, "unsupported private key version")
	}
	if !seq.ReadASN1(&keyBytes, asn1.OCTET_STRING) || len(keyBytes) > PrivKeyBytesLen {
		return nil, makeError(ErrPrivKeyDER, "malformed private key octet string")
	}

	var padded [PrivKeyBytesLen]byte
	copy(padded[PrivKeyBytesLen-len(keyBytes):], keyBytes)
	defer zeroBytes(padded[:])
	return PrivKeyFromBytes(padded[:])
}
