package secp256k1

import "fmt"

// CompactSigLen is the length of a 64-byte r || s signature.
const CompactSigLen = 64

// ECDSASignature is an ECDSA signature (r, s) with both values reduced
// modulo the group order.
type ECDSASignature struct {
	r, s Scalar
}

// NewECDSASignature builds a signature from 32-byte big-endian r and s,
// rejecting values not below the group order.
func NewECDSASignature(r, s []byte) (*ECDSASignature, error) {
	var sig ECDSASignature
	if len(r) != 32 || len(s) != 32 {
		return nil, makeError(ErrSigInvalidLen, "signature components must be 32 bytes")
	}
	if sig.r.setB32(r) {
		return nil, makeError(ErrSigRTooBig, "signature R is >= curve order")
	}
	if sig.s.setB32(s) {
		return nil, makeError(ErrSigSTooBig, "signature S is >= curve order")
	}
	return &sig, nil
}

// R returns the 32-byte big-endian r value.
func (sig *ECDSASignature) R() []byte {
	b := sig.r.bytes()
	return b[:]
}

// S returns the 32-byte big-endian s value.
func (sig *ECDSASignature) S() []byte {
	b := sig.s.bytes()
	return b[:]
}

// IsEqual reports whether sig and other hold the same r and s.
func (sig *ECDSASignature) IsEqual(other *ECDSASignature) bool {
	return sig.r.equal(&other.r) && sig.s.equal(&other.s)
}

// IsLowS reports whether s is at most half the group order.
func (sig *ECDSASignature) IsLowS() bool {
	return !sig.s.isHigh()
}

// NormalizeS returns the signature with s replaced by n - s when s is in
// the upper half of the range. Both forms verify against the same key,
// but Verify only accepts the lower one.
func (sig *ECDSASignature) NormalizeS() *ECDSASignature {
	r := *sig
	r.s.condNegate(boolToInt(r.s.isHigh()))
	return &r
}

// ParseCompactSignature parses a 64-byte r || s signature.
func ParseCompactSignature(sig []byte) (*ECDSASignature, error) {
	if len(sig) != CompactSigLen {
		return nil, makeError(ErrSigInvalidLen,
			fmt.Sprintf("malformed signature: compact signature is %d bytes instead of %d",
				len(sig), CompactSigLen))
	}
	return NewECDSASignature(sig[:32], sig[32:])
}

// SerializeCompact returns the 64-byte r || s encoding.
func (sig *ECDSASignature) SerializeCompact() []byte {
	b := make([]byte, CompactSigLen)
	sig.r.getB32(b[:32])
	sig.s.getB32(b[32:])
	return b
}

// canonicalizeInt returns the minimal unsigned DER integer body for a
// 32-byte big-endian value.
func canonicalizeInt(b []byte) []byte {
	for len(b) > 1 && b[0] == 0 {
		b = b[1:]
	}
	if b[0]&0x80 != 0 {
		b = append([]byte{0}, b...)
	}
	return b
}

// Serialize returns the strict DER encoding
// 0x30 <len> 0x02 <len r> r 0x02 <len s> s, which is at most 72 bytes.
func (sig *ECDSASignature) Serialize() []byte {
	rb, sb := sig.r.bytes(), sig.s.bytes()
	r := canonicalizeInt(rb[:])
	s := canonicalizeInt(sb[:])

	total := 6 + len(r) + len(s)
	b := make([]byte, 0, total)
	b = append(b, asn1SequenceID, byte(total-2))
	b = append(b, asn1IntegerID, byte(len(r)))
	b = append(b, r...)
	b = append(b, asn1IntegerID, byte(len(s)))
	b = append(b, s...)
	return b
}

const (
	asn1SequenceID = 0x30
	asn1IntegerID  = 0x02

	// minSigLen is the minimum length of a DER encoded signature: both
	// integers one byte long.
	//
	// 0x30 + <1-byte> + 0x02 + 0x01 + <byte> + 0x2 + 0x01 + <byte>
	minSigLen = 8

	// maxSigLen is the maximum length of a DER encoded signature: both
	// integers 33 bytes long.
	//
	// 0x30 + <1-byte> + 0x02 + 0x21 + <33 bytes> + 0x2 + 0x21 + <33 bytes>
	maxSigLen = 72
)

// ParseDERSignature parses a signature in the strict DER format used by
// Bitcoin consensus rules. Lengths must be exact, integers must be
// positive and minimally encoded, and r and s must both be in [1, n-1].
func ParseDERSignature(sig []byte) (*ECDSASignature, error) {
	const (
		sequenceOffset = 0
		dataLenOffset  = 1
		rTypeOffset    = 2
		rLenOffset     = 3
		rOffset        = 4
	)

	sigLen := len(sig)
	if sigLen < minSigLen {
		return nil, makeError(ErrSigTooShort, fmt.Sprintf("malformed signature: "+
			"too short: %d < %d", sigLen, minSigLen))
	}
	if sigLen > maxSigLen {
		return nil, makeError(ErrSigTooLong, fmt.Sprintf("malformed signature: "+
			"too long: %d > %d", sigLen, maxSigLen))
	}
	if sig[sequenceOffset] != asn1SequenceID {
		return nil, makeError(ErrSigInvalidSeqID, fmt.Sprintf("malformed "+
			"signature: format has wrong type: %#x", sig[sequenceOffset]))
	}
	if int(sig[dataLenOffset]) != sigLen-2 {
		return nil, makeError(ErrSigInvalidDataLen, fmt.Sprintf("malformed "+
			"signature: bad length: %d != %d", sig[dataLenOffset], sigLen-2))
	}

	// The S offsets follow from the R length.
	rLen := int(sig[rLenOffset])
	sTypeOffset := rOffset + rLen
	sLenOffset := sTypeOffset + 1
	if sTypeOffset >= sigLen {
		return nil, makeError(ErrSigMissingSTypeID,
			"malformed signature: S type indicator missing")
	}
	if sLenOffset >= sigLen {
		return nil, makeError(ErrSigMissingSLen,
			"malformed signature: S length missing")
	}
	sOffset := sLenOffset + 1
	sLen := int(sig[sLenOffset])
	if sOffset+sLen != sigLen {
		return nil, makeError(ErrSigInvalidSLen,
			"malformed signature: invalid S length")
	}

	if sig[rTypeOffset] != asn1IntegerID {
		return nil, makeError(ErrSigInvalidRIntID, fmt.Sprintf("malformed "+
			"signature: R integer marker: %#x != %#x", sig[rTypeOffset],
			asn1IntegerID))
	}
	if rLen == 0 {
		return nil, makeError(ErrSigZeroRLen,
			"malformed signature: R length is zero")
	}
	if sig[rOffset]&0x80 != 0 {
		return nil, makeError(ErrSigNegativeR,
			"malformed signature: R is negative")
	}
	if rLen > 1 && sig[rOffset] == 0x00 && sig[rOffset+1]&0x80 == 0 {
		return nil, makeError(ErrSigTooMuchRPadding,
			"malformed signature: R value has too much padding")
	}

	if sig[sTypeOffset] != asn1IntegerID {
		return nil, makeError(ErrSigInvalidSIntID, fmt.Sprintf("malformed "+
			"signature: S integer marker: %#x != %#x", sig[sTypeOffset],
			asn1IntegerID))
	}
	if sLen == 0 {
		return nil, makeError(ErrSigZeroSLen,
			"malformed signature: S length is zero")
	}
	if sig[sOffset]&0x80 != 0 {
		return nil, makeError(ErrSigNegativeS,
			"malformed signature: S is negative")
	}
	if sLen > 1 && sig[sOffset] == 0x00 && sig[sOffset+1]&0x80 == 0 {
		return nil, makeError(ErrSigTooMuchSPadding,
			"malformed signature: S value has too much padding")
	}

	var out ECDSASignature
	if err := parseDERInt(&out.r, sig[rOffset:rOffset+rLen], ErrSigRTooBig, ErrSigRIsZero, "R"); err != nil {
		return nil, err
	}
	if err := parseDERInt(&out.s, sig[sOffset:sOffset+sLen], ErrSigSTooBig, ErrSigSIsZero, "S"); err != nil {
		return nil, err
	}
	return &out, nil
}

// parseDERInt loads a validated DER integer body into r.
func parseDERInt(r *Scalar, b []byte, tooBig, isZero ErrorKind, name string) error {
	for len(b) > 0 && b[0] == 0x00 {
		b = b[1:]
	}
	if len(b) > 32 {
		return makeError(tooBig, "invalid signature: "+name+" is larger than 256 bits")
	}
	var buf [32]byte
	copy(buf[32-len(b):], b)
	if r.setB32(buf[:]) {
		return makeError(tooBig, "invalid signature: "+name+" >= group order")
	}
	if r.isZero() {
		return makeError(isZero, "invalid signature: "+name+" is 0")
	}
	return nil
}
