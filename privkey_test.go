package secp256k1

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	dcrsecp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

func TestPrivKeyFromBytes(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
		err  error
	}{
		{"one", bigTo32(big.NewInt(1)), nil},
		{"n-1", bigTo32(new(big.Int).Sub(bigN, big.NewInt(1))), nil},
		{"zero", make([]byte, 32), ErrPrivKeyOutOfRange},
		{"n", bigTo32(bigN), ErrPrivKeyOutOfRange},
		{"all ones", bytes.Repeat([]byte{0xff}, 32), ErrPrivKeyOutOfRange},
		{"short", make([]byte, 31), ErrPrivKeyInvalidLen},
		{"long", make([]byte, 33), ErrPrivKeyInvalidLen},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			k, err := PrivKeyFromBytes(test.key)
			if !errors.Is(err, test.err) {
				t.Fatalf("got error %v, want %v", err, test.err)
			}
			if err != nil {
				var kerr Error
				if !errors.As(err, &kerr) || kerr.Description == "" {
					t.Fatalf("error %v is not a described Error", err)
				}
				return
			}
			if !bytes.Equal(k.Bytes(), test.key) {
				t.Fatalf("Bytes() = %x, want %x", k.Bytes(), test.key)
			}
		})
	}
}

func TestPubKeyMatchesReferences(t *testing.T) {
	for i := 0; i < 20; i++ {
		k, err := GeneratePrivateKey()
		if err != nil {
			t.Fatal(err)
		}
		pub := k.PubKey()

		_, btcPub := btcec.PrivKeyFromBytes(k.Bytes())
		if !bytes.Equal(pub.SerializeCompressed(), btcPub.SerializeCompressed()) {
			t.Fatalf("compressed key differs from btcec for %x", k.Bytes())
		}
		dcrPub := dcrsecp.PrivKeyFromBytes(k.Bytes()).PubKey()
		if !bytes.Equal(pub.SerializeUncompressed(), dcrPub.SerializeUncompressed()) {
			t.Fatalf("uncompressed key differs from decred for %x", k.Bytes())
		}
	}
}

func TestPrivKeyClear(t *testing.T) {
	k, err := GeneratePrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	k.Clear()
	if !k.IsCleared() {
		t.Fatal("IsCleared false after Clear")
	}
	if !k.key.isZero() {
		t.Fatal("secret scalar not scrubbed")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic using a cleared key")
		}
	}()
	k.PubKey()
}

func TestPrivKeyNegate(t *testing.T) {
	k, _ := GeneratePrivateKey()
	neg := k.Negate()
	if !neg.PubKey().IsEqual(k.PubKey().Negate()) {
		t.Fatal("(-k)*G != -(k*G)")
	}
	if bytes.Equal(neg.Bytes(), k.Bytes()) {
		t.Fatal("negation returned the same key")
	}
}

func TestPrivKeyTweakAdd(t *testing.T) {
	k, _ := PrivKeyFromBytes(bigTo32(big.NewInt(1000)))
	orig := k.Bytes()

	tests := []struct {
		name  string
		tweak []byte
		want  []byte
		err   error
	}{
		{"zero tweak", make([]byte, 32), bigTo32(big.NewInt(1000)), nil},
		{"small", bigTo32(big.NewInt(5)), bigTo32(big.NewInt(1005)), nil},
		{"wraps", bigTo32(new(big.Int).Sub(bigN, big.NewInt(1))), bigTo32(big.NewInt(999)), nil},
		{"n-d gives zero", bigTo32(new(big.Int).Sub(bigN, big.NewInt(1000))), nil, ErrTweakResultZero},
		{"tweak = n", bigTo32(bigN), nil, ErrTweakOutOfRange},
		{"bad length", make([]byte, 16), nil, ErrTweakInvalidLen},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := k.TweakAdd(test.tweak)
			if !errors.Is(err, test.err) {
				t.Fatalf("got error %v, want %v", err, test.err)
			}
			if !bytes.Equal(k.Bytes(), orig) {
				t.Fatal("input key modified")
			}
			if err != nil {
				if got != nil {
					t.Fatal("key returned alongside error")
				}
				return
			}
			if !bytes.Equal(got.Bytes(), test.want) {
				t.Fatalf("got %x, want %x", got.Bytes(), test.want)
			}

			// (k + t)*G == k*G + t*G.
			pub, err := k.PubKey().TweakAdd(test.tweak)
			if err != nil {
				t.Fatalf("public tweak failed: %v", err)
			}
			if !pub.IsEqual(got.PubKey()) {
				t.Fatal("private and public tweak-add disagree")
			}
		})
	}
}

func TestPrivKeyTweakMul(t *testing.T) {
	k, _ := GeneratePrivateKey()
	orig := k.Bytes()

	tests := []struct {
		name  string
		tweak []byte
		err   error
	}{
		{"random", randBytes32(t)[:32], nil},
		{"one", bigTo32(big.NewInt(1)), nil},
		{"zero", make([]byte, 32), ErrTweakOutOfRange},
		{"n", bigTo32(bigN), ErrTweakOutOfRange},
		{"bad length", make([]byte, 33), ErrTweakInvalidLen},
	}
	tests[0].tweak[0] &= 0x7f

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := k.TweakMul(test.tweak)
			if !errors.Is(err, test.err) {
				t.Fatalf("got error %v, want %v", err, test.err)
			}
			if !bytes.Equal(k.Bytes(), orig) {
				t.Fatal("input key modified")
			}
			pub, perr := k.PubKey().TweakMul(test.tweak)
			if !errors.Is(perr, test.err) {
				t.Fatalf("public tweak error %v, want %v", perr, test.err)
			}
			if err != nil {
				return
			}
			want := new(big.Int).Mul(new(big.Int).SetBytes(orig), new(big.Int).SetBytes(test.tweak))
			want.Mod(want, bigN)
			if !bytes.Equal(got.Bytes(), bigTo32(want)) {
				t.Fatalf("got %x, want %x", got.Bytes(), bigTo32(want))
			}
			if !pub.IsEqual(got.PubKey()) {
				t.Fatal("private and public tweak-mul disagree")
			}
		})
	}
}

func TestPrivKeyDER(t *testing.T) {
	for _, compressed := range []bool{true, false} {
		k, _ := GeneratePrivateKey()
		der := k.SerializeDER(compressed)

		wantLen := PrivKeyDERUncompressedLen
		pubLen := PubKeyBytesLenUncompressed
		pub := k.PubKey().SerializeUncompressed()
		if compressed {
			wantLen = PrivKeyDERCompressedLen
			pubLen = PubKeyBytesLenCompressed
			pub = k.PubKey().SerializeCompressed()
		}
		if len(der) != wantLen {
			t.Fatalf("compressed=%v: DER length %d, want %d", compressed, len(der), wantLen)
		}
		if !bytes.Equal(der[len(der)-pubLen:], pub) {
			t.Fatalf("compressed=%v: DER does not end with the public key", compressed)
		}
		// SEQUENCE header, version 1, then a 32-byte OCTET STRING.
		wantPrefix := []byte{0x30, 0x82, 0x01, 0x13, 0x02, 0x01, 0x01, 0x04, 0x20}
		if compressed {
			wantPrefix = []byte{0x30, 0x81, 0xd3, 0x02, 0x01, 0x01, 0x04, 0x20}
		}
		if !bytes.HasPrefix(der, wantPrefix) {
			t.Fatalf("compressed=%v: DER prefix %x, want %x", compressed, der[:len(wantPrefix)], wantPrefix)
		}

		parsed, err := ParsePrivKeyDER(der)
		if err != nil {
			t.Fatalf("ParsePrivKeyDER: %v", err)
		}
		if !bytes.Equal(parsed.Bytes(), k.Bytes()) {
			t.Fatal("DER round trip mismatch")
		}
	}
}

func TestParsePrivKeyDERErrors(t *testing.T) {
	k, _ := GeneratePrivateKey()
	good := k.SerializeDER(true)

	badVersion := append([]byte(nil), good...)
	badVersion[5] = 0x02

	// A short key octet string is left padded.
	short := []byte{0x30, 0x06, 0x02, 0x01, 0x01, 0x04, 0x01, 0x07}

	tests := []struct {
		name string
		der  []byte
		err  error
	}{
		{"empty", nil, ErrPrivKeyDER},
		{"not a sequence", []byte{0x04, 0x01, 0x00}, ErrPrivKeyDER},
		{"bad version", badVersion, ErrPrivKeyDER},
		{"zero key", []byte{0x30, 0x06, 0x02, 0x01, 0x01, 0x04, 0x01, 0x00}, ErrPrivKeyOutOfRange},
		{"short key", short, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParsePrivKeyDER(test.der)
			if !errors.Is(err, test.err) {
				t.Fatalf("got %v, want %v", err, test.err)
			}
			if err == nil && !bytes.Equal(got.Bytes(), bigTo32(big.NewInt(7))) {
				t.Fatalf("short key parsed as %x", got.Bytes())
			}
		})
	}
}
