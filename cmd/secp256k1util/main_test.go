package main

import (
	"bytes"
	stdsha256 "crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

// run parses and executes args, returning the trimmed output lines.
func run(t *testing.T, args ...string) ([]string, error) {
	t.Helper()
	var out bytes.Buffer
	a := &app{out: &out}
	_, err := newParser(a).ParseArgs(args)
	text := strings.TrimSpace(out.String())
	if text == "" {
		return nil, err
	}
	return strings.Split(text, "\n"), err
}

func mustRun(t *testing.T, args ...string) []string {
	t.Helper()
	lines, err := run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return lines
}

// field returns the value of a "name: value" line.
func field(t *testing.T, lines []string, name string) string {
	t.Helper()
	for _, l := range lines {
		if strings.HasPrefix(l, name+":") {
			return strings.TrimSpace(strings.TrimPrefix(l, name+":"))
		}
	}
	t.Fatalf("no %q in output %q", name, lines)
	return ""
}

func TestMessageHash(t *testing.T) {
	abc := []byte("abc")
	first := stdsha256.Sum256(abc)
	double := stdsha256.Sum256(first[:])

	tests := []struct {
		name    string
		hash    string
		hexMsg  bool
		msg     string
		want    string
		wantErr bool
	}{
		{"sha256", "sha256", false, "abc", hex.EncodeToString(first[:]), false},
		{"sha256d", "sha256d", false, "abc", hex.EncodeToString(double[:]), false},
		{"blake256 empty", "blake256", false, "",
			"716f6e863f744b9ac22c97ec7b76ea5f5908bc5b2f67c61510bfc4751384ea7a", false},
		{"blake3 empty", "blake3", false, "",
			"af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", false},
		{"none", "none", true, strings.Repeat("ab", 32), strings.Repeat("ab", 32), false},
		{"none wrong length", "none", false, "abc", "", true},
		{"bad hex", "sha256", true, "zz", "", true},
		{"unknown", "md5", false, "abc", "", true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			a := &app{cfg: config{Hash: test.hash, HexMessage: test.hexMsg}}
			got, err := a.messageHash(test.msg)
			if (err != nil) != test.wantErr {
				t.Fatalf("error = %v, want error %v", err, test.wantErr)
			}
			if err == nil && hex.EncodeToString(got) != test.want {
				t.Fatalf("got %x, want %s", got, test.want)
			}
		})
	}
}

func TestSignVerifyCommands(t *testing.T) {
	keys := mustRun(t, "keygen", "--der")
	priv := field(t, keys, "private")
	pub := field(t, keys, "public")
	xonly := field(t, keys, "x-only")
	if len(field(t, keys, "der")) != 2*214 {
		t.Fatal("unexpected DER length")
	}

	if got := mustRun(t, "pubkey", priv); got[0] != pub {
		t.Fatalf("pubkey = %s, want %s", got[0], pub)
	}
	if got := mustRun(t, "pubkey", "--xonly", priv); got[0] != xonly {
		t.Fatalf("x-only pubkey = %s, want %s", got[0], xonly)
	}
	if got := mustRun(t, "pubkey", "--uncompressed", priv); len(got[0]) != 130 {
		t.Fatalf("uncompressed pubkey %s", got[0])
	}

	for _, hash := range []string{"sha256", "sha256d", "blake256", "blake3"} {
		t.Run(hash, func(t *testing.T) {
			sig := mustRun(t, "--hash="+hash, "sign", "--key", priv, "hello")[0]
			if got := mustRun(t, "--hash="+hash, "verify", "--pubkey", pub, "--sig", sig, "hello"); got[0] != "valid" {
				t.Fatalf("verify printed %q", got)
			}
			if _, err := run(t, "--hash="+hash, "verify", "--pubkey", pub, "--sig", sig, "goodbye"); !errors.Is(err, errInvalidSignature) {
				t.Fatalf("wrong message: got %v", err)
			}

			compact := mustRun(t, "--hash="+hash, "sign", "--compact", "--key", priv, "hello")[0]
			if got := mustRun(t, "--hash="+hash, "recover", "--sig", compact, "hello"); got[0] != pub {
				t.Fatalf("recovered %s, want %s", got[0], pub)
			}

			ssig := mustRun(t, "--hash="+hash, "schnorr-sign", "--key", priv, "hello")[0]
			if got := mustRun(t, "--hash="+hash, "schnorr-verify", "--pubkey", xonly, "--sig", ssig, "hello"); got[0] != "valid" {
				t.Fatalf("schnorr-verify printed %q", got)
			}
		})
	}
}

func TestSchnorrSignCommandVector(t *testing.T) {
	zero := strings.Repeat("00", 32)
	got := mustRun(t, "--hash=none", "--hexmsg", "schnorr-sign",
		"--key", strings.Repeat("00", 31)+"03", "--aux", zero, zero)
	want := "e907831f80848d1069a5371b402410364bdf1c5f8307b0084c55f1ce2dca8215" +
		"25f66a4a85ea8b71e482a74f382d2ce5ebeee8fdb2172f477df4900d310536c0"
	if got[0] != want {
		t.Fatalf("got %s, want %s", got[0], want)
	}
}

func TestECDHCommand(t *testing.T) {
	a := mustRun(t, "keygen")
	b := mustRun(t, "keygen")
	for _, extra := range [][]string{nil, {"--raw"}, {"--info", "session", "--length", "48"}} {
		ab := mustRun(t, append([]string{"ecdh", "--key", field(t, a, "private"), "--pubkey", field(t, b, "public")}, extra...)...)
		ba := mustRun(t, append([]string{"ecdh", "--key", field(t, b, "private"), "--pubkey", field(t, a, "public")}, extra...)...)
		if ab[0] != ba[0] {
			t.Fatalf("%v: shared secrets differ", extra)
		}
	}
	hk := mustRun(t, "ecdh", "--key", field(t, a, "private"), "--pubkey", field(t, b, "public"), "--info", "x", "--length", "48")
	if len(hk[0]) != 96 {
		t.Fatalf("HKDF output %s is not 48 bytes", hk[0])
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad key", []string{"pubkey", "00"}},
		{"missing argument", []string{"pubkey"}},
		{"missing required flag", []string{"sign", "hello"}},
		{"bad debug level", []string{"--debuglevel=loud", "info"}},
		{"bad signature hex", []string{"verify", "--pubkey", "02", "--sig", "zz", "m"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := run(t, test.args...); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestInfoCommand(t *testing.T) {
	lines := mustRun(t, "--debuglevel=debug", "info")
	if field(t, lines, "generator window") != "15" {
		t.Fatalf("unexpected info output %q", lines)
	}
	field(t, lines, "sha extensions")
}
