package secp256k1

import (
	"bytes"
	stdsha256 "crypto/sha256"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
)

func TestECDHSymmetric(t *testing.T) {
	for i := 0; i < 20; i++ {
		a, _ := GeneratePrivateKey()
		b, _ := GeneratePrivateKey()

		ab, err := ECDH(a, b.PubKey(), nil)
		if err != nil {
			t.Fatal(err)
		}
		ba, err := ECDH(b, a.PubKey(), nil)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(ab, ba) {
			t.Fatal("shared secrets differ")
		}

		// The default hash is SHA256 of the compressed shared point.
		shared, err := b.PubKey().TweakMul(a.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		want := stdsha256.Sum256(shared.SerializeCompressed())
		if !bytes.Equal(ab, want[:]) {
			t.Fatalf("got %x, want %x", ab, want)
		}
	}
}

func TestECDHXOnlyMatchesBtcec(t *testing.T) {
	for i := 0; i < 20; i++ {
		a, _ := GeneratePrivateKey()
		b, _ := GeneratePrivateKey()

		btcA, _ := btcec.PrivKeyFromBytes(a.Bytes())
		_, btcB := btcec.PrivKeyFromBytes(b.Bytes())
		want := btcec.GenerateSharedSecret(btcA, btcB)

		if got := ECDHXOnly(a, b.PubKey()); !bytes.Equal(got, want) {
			t.Fatalf("got %x, want %x", got, want)
		}
	}
}

func TestECDHCustomHash(t *testing.T) {
	a, _ := GeneratePrivateKey()
	b, _ := GeneratePrivateKey()

	var gotX, gotY []byte
	raw := func(x32, y32 []byte) ([]byte, error) {
		gotX = append([]byte(nil), x32...)
		gotY = append([]byte(nil), y32...)
		return append(append([]byte(nil), x32...), y32...), nil
	}
	out, err := ECDH(a, b.PubKey(), raw)
	if err != nil {
		t.Fatal(err)
	}
	shared, _ := b.PubKey().TweakMul(a.Bytes())
	if !bytes.Equal(gotX, shared.X()) || !bytes.Equal(gotY, shared.Y()) {
		t.Fatal("hash function received the wrong coordinates")
	}
	if !bytes.Equal(out, shared.SerializeUncompressed()[1:]) {
		t.Fatal("hash output not returned")
	}

	errRefused := errors.New("refused")
	failing := func(x32, y32 []byte) ([]byte, error) {
		return nil, errRefused
	}
	_, err = ECDH(a, b.PubKey(), failing)
	if !errors.Is(err, ErrECDHHash) {
		t.Fatalf("got %v, want ErrECDHHash", err)
	}
	if !errors.Is(err, errRefused) {
		t.Fatalf("got %v, want the hash function's error wrapped", err)
	}
	var kerr Error
	if !errors.As(err, &kerr) || kerr.Err != ErrECDHHash {
		t.Fatalf("errors.As found %#v", kerr)
	}
}

func TestECDHWithHKDF(t *testing.T) {
	a, _ := GeneratePrivateKey()
	b, _ := GeneratePrivateKey()
	salt := []byte("salt")

	tests := []struct {
		name   string
		info   []byte
		length int
	}{
		{"16 bytes", []byte("aes-128"), 16},
		{"32 bytes", []byte("aes-256"), 32},
		{"long", []byte("stream"), 100},
		{"empty info", nil, 32},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			k1, err := ECDHWithHKDF(a, b.PubKey(), salt, test.info, test.length)
			if err != nil {
				t.Fatal(err)
			}
			k2, err := ECDHWithHKDF(b, a.PubKey(), salt, test.info, test.length)
			if err != nil {
				t.Fatal(err)
			}
			if len(k1) != test.length || !bytes.Equal(k1, k2) {
				t.Fatal("derived keys differ or have the wrong length")
			}
		})
	}

	x, _ := ECDHWithHKDF(a, b.PubKey(), salt, []byte("one"), 32)
	y, _ := ECDHWithHKDF(a, b.PubKey(), salt, []byte("two"), 32)
	if bytes.Equal(x, y) {
		t.Fatal("different info produced the same key")
	}

	// HKDF-SHA256 cannot expand beyond 255 blocks.
	if _, err := ECDHWithHKDF(a, b.PubKey(), salt, nil, 255*32+1); !errors.Is(err, ErrECDHHash) {
		t.Fatalf("got %v, want ErrECDHHash", err)
	}
}
