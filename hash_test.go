package secp256k1

import (
	"bytes"
	"crypto/hmac"
	stdsha256 "crypto/sha256"
	"testing"
)

func TestSHA256(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"two blocks", "abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq",
			"248d6a61d20638b8e5c026930c3e6039a33ce45964ff2167f6ecedd419db06c1"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := NewSHA256()
			// Split writes must not change the digest.
			mid := len(test.in) / 2
			h.Write([]byte(test.in[:mid]))
			h.Write([]byte(test.in[mid:]))
			out := make([]byte, 32)
			h.Finalize(out)
			if !bytes.Equal(out, hexToBytes(test.want)) {
				t.Fatalf("got %x, want %s", out, test.want)
			}
		})
	}
}

func TestHMACSHA256(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
		msg  []byte
	}{
		{"rfc4231 case 1", bytes.Repeat([]byte{0x0b}, 20), []byte("Hi There")},
		{"short key", []byte("Jefe"), []byte("what do ya want for nothing?")},
		{"block-size key", bytes.Repeat([]byte{0xaa}, 64), []byte("message")},
		{"long key", bytes.Repeat([]byte{0xaa}, 131),
			[]byte("Test Using Larger Than Block-Size Key - Hash Key First")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ref := hmac.New(stdsha256.New, test.key)
			ref.Write(test.msg)
			want := ref.Sum(nil)

			h := NewHMACSHA256(test.key)
			h.Write(test.msg)
			got := make([]byte, 32)
			h.Finalize(got)
			if !bytes.Equal(got, want) {
				t.Fatalf("got %x, want %x", got, want)
			}
		})
	}
}

// refRFC6979 is a direct transcription of RFC 6979 section 3.2 steps b
// through h on top of crypto/hmac, producing n 32-byte outputs.
func refRFC6979(key []byte, n int) [][]byte {
	mac := func(k []byte, parts ...[]byte) []byte {
		h := hmac.New(stdsha256.New, k)
		for _, p := range parts {
			h.Write(p)
		}
		return h.Sum(nil)
	}
	v := bytes.Repeat([]byte{0x01}, 32)
	k := make([]byte, 32)
	k = mac(k, v, []byte{0x00}, key)
	v = mac(k, v)
	k = mac(k, v, []byte{0x01}, key)
	v = mac(k, v)

	var out [][]byte
	for i := 0; i < n; i++ {
		if i > 0 {
			k = mac(k, v, []byte{0x00})
			v = mac(k, v)
		}
		v = mac(k, v)
		out = append(out, v)
	}
	return out
}

func TestRFC6979HMACSHA256(t *testing.T) {
	keys := [][]byte{
		make([]byte, 64),
		randBytes32(t),
		append(randBytes32(t), randBytes32(t)...),
	}
	for _, key := range keys {
		rng := NewRFC6979HMACSHA256(key)
		for i, want := range refRFC6979(key, 4) {
			got := make([]byte, 32)
			rng.Generate(got)
			if !bytes.Equal(got, want) {
				t.Fatalf("output %d: got %x, want %x", i, got, want)
			}
		}
		rng.Clear()
	}
}

func TestTaggedHash(t *testing.T) {
	data := randBytes32(t)
	for _, tag := range []string{tagBIP340Aux, tagBIP340Nonce, tagBIP340Challenge, "TapLeaf", ""} {
		th := stdsha256.Sum256([]byte(tag))
		ref := stdsha256.New()
		ref.Write(th[:])
		ref.Write(th[:])
		ref.Write(data[:10])
		ref.Write(data[10:])
		want := ref.Sum(nil)

		got := TaggedHash([]byte(tag), data[:10], data[10:])
		if !bytes.Equal(got[:], want) {
			t.Fatalf("tag %q: got %x, want %x", tag, got, want)
		}
	}
}
