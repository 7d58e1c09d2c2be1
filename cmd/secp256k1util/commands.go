package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"secp256k1.mleku.dev"
)

var errInvalidSignature = errors.New("signature is invalid")

// singleArg returns the only positional argument.
func singleArg(args []string, what string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected exactly one %s argument, got %d", what, len(args))
	}
	return args[0], nil
}

func parsePrivKey(s string) (*secp256k1.PrivateKey, error) {
	b, err := decodeHex("private key", s)
	if err != nil {
		return nil, err
	}
	return secp256k1.PrivKeyFromBytes(b)
}

type keygenCmd struct {
	app *app
	DER bool `long:"der" description:"also print the SEC1 DER encoding of the key"`
}

func (c *keygenCmd) Execute(args []string) error {
	k, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return err
	}
	defer k.Clear()
	pub := k.PubKey()
	xonly, _ := pub.XOnly()
	fmt.Fprintf(c.app.out, "private: %x\n", k.Bytes())
	fmt.Fprintf(c.app.out, "public:  %x\n", pub.SerializeCompressed())
	fmt.Fprintf(c.app.out, "x-only:  %x\n", xonly.Serialize())
	if c.DER {
		fmt.Fprintf(c.app.out, "der:     %x\n", k.SerializeDER(true))
	}
	return nil
}

type pubkeyCmd struct {
	app          *app
	Uncompressed bool `long:"uncompressed" description:"print the 65-byte uncompressed form"`
	XOnly        bool `long:"xonly" description:"print the 32-byte x-only form"`
}

func (c *pubkeyCmd) Execute(args []string) error {
	arg, err := singleArg(args, "private key")
	if err != nil {
		return err
	}
	k, err := parsePrivKey(arg)
	if err != nil {
		return err
	}
	defer k.Clear()
	pub := k.PubKey()
	switch {
	case c.XOnly:
		xonly, _ := pub.XOnly()
		fmt.Fprintf(c.app.out, "%x\n", xonly.Serialize())
	case c.Uncompressed:
		fmt.Fprintf(c.app.out, "%x\n", pub.SerializeUncompressed())
	default:
		fmt.Fprintf(c.app.out, "%x\n", pub.SerializeCompressed())
	}
	return nil
}

type signCmd struct {
	app     *app
	Key     string `long:"key" description:"hex private key" required:"true"`
	Compact bool   `long:"compact" description:"produce a 65-byte recoverable signature instead of DER"`
}

func (c *signCmd) Execute(args []string) error {
	arg, err := singleArg(args, "message")
	if err != nil {
		return err
	}
	hash, err := c.app.messageHash(arg)
	if err != nil {
		return err
	}
	k, err := parsePrivKey(c.Key)
	if err != nil {
		return err
	}
	defer k.Clear()

	if c.Compact {
		sig, err := k.SignCompact(hash, true)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.app.out, "%x\n", sig)
		return nil
	}
	sig, err := k.Sign(hash)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "%x\n", sig.Serialize())
	return nil
}

type verifyCmd struct {
	app    *app
	PubKey string `long:"pubkey" description:"hex public key (compressed or uncompressed)" required:"true"`
	Sig    string `long:"sig" description:"hex DER signature" required:"true"`
}

func (c *verifyCmd) Execute(args []string) error {
	arg, err := singleArg(args, "message")
	if err != nil {
		return err
	}
	hash, err := c.app.messageHash(arg)
	if err != nil {
		return err
	}
	pb, err := decodeHex("public key", c.PubKey)
	if err != nil {
		return err
	}
	pub, err := secp256k1.ParsePubKey(pb)
	if err != nil {
		return err
	}
	sb, err := decodeHex("signature", c.Sig)
	if err != nil {
		return err
	}
	sig, err := secp256k1.ParseDERSignature(sb)
	if err != nil {
		return err
	}
	if !sig.Verify(hash, pub) {
		return errInvalidSignature
	}
	fmt.Fprintln(c.app.out, "valid")
	return nil
}

type schnorrSignCmd struct {
	app *app
	Key string `long:"key" description:"hex private key" required:"true"`
	Aux string `long:"aux" description:"hex 32-byte auxiliary randomness (default zeros)"`
}

func (c *schnorrSignCmd) Execute(args []string) error {
	arg, err := singleArg(args, "message")
	if err != nil {
		return err
	}
	hash, err := c.app.messageHash(arg)
	if err != nil {
		return err
	}
	k, err := parsePrivKey(c.Key)
	if err != nil {
		return err
	}
	defer k.Clear()
	var aux []byte
	if c.Aux != "" {
		if aux, err = decodeHex("aux", c.Aux); err != nil {
			return err
		}
	}
	sig, err := k.SchnorrSign(hash, aux)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "%x\n", sig)
	return nil
}

type schnorrVerifyCmd struct {
	app    *app
	PubKey string `long:"pubkey" description:"hex 32-byte x-only public key" required:"true"`
	Sig    string `long:"sig" description:"hex 64-byte signature" required:"true"`
}

func (c *schnorrVerifyCmd) Execute(args []string) error {
	arg, err := singleArg(args, "message")
	if err != nil {
		return err
	}
	hash, err := c.app.messageHash(arg)
	if err != nil {
		return err
	}
	pb, err := decodeHex("public key", c.PubKey)
	if err != nil {
		return err
	}
	pub, err := secp256k1.ParseXOnlyPubKey(pb)
	if err != nil {
		return err
	}
	sig, err := decodeHex("signature", c.Sig)
	if err != nil {
		return err
	}
	if !secp256k1.SchnorrVerify(pub, hash, sig) {
		return errInvalidSignature
	}
	fmt.Fprintln(c.app.out, "valid")
	return nil
}

type recoverCmd struct {
	app *app
	Sig string `long:"sig" description:"hex 65-byte compact recoverable signature" required:"true"`
}

func (c *recoverCmd) Execute(args []string) error {
	arg, err := singleArg(args, "message")
	if err != nil {
		return err
	}
	hash, err := c.app.messageHash(arg)
	if err != nil {
		return err
	}
	sig, err := decodeHex("signature", c.Sig)
	if err != nil {
		return err
	}
	pub, compressed, err := secp256k1.RecoverCompact(sig, hash)
	if err != nil {
		return err
	}
	if compressed {
		fmt.Fprintf(c.app.out, "%x\n", pub.SerializeCompressed())
	} else {
		fmt.Fprintf(c.app.out, "%x\n", pub.SerializeUncompressed())
	}
	return nil
}

type ecdhCmd struct {
	app    *app
	Key    string `long:"key" description:"hex private key" required:"true"`
	PubKey string `long:"pubkey" description:"hex peer public key" required:"true"`
	Raw    bool   `long:"raw" description:"print the raw x coordinate of the shared point"`
	Info   string `long:"info" description:"derive key material with HKDF-SHA256 using this info string"`
	Length int    `long:"length" description:"number of HKDF output bytes" default:"32"`
}

func (c *ecdhCmd) Execute(args []string) error {
	k, err := parsePrivKey(c.Key)
	if err != nil {
		return err
	}
	defer k.Clear()
	pb, err := decodeHex("public key", c.PubKey)
	if err != nil {
		return err
	}
	pub, err := secp256k1.ParsePubKey(pb)
	if err != nil {
		return err
	}

	var secret []byte
	switch {
	case c.Raw:
		secret = secp256k1.ECDHXOnly(k, pub)
	case c.Info != "":
		secret, err = secp256k1.ECDHWithHKDF(k, pub, nil, []byte(c.Info), c.Length)
	default:
		secret, err = secp256k1.ECDH(k, pub, nil)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "%x\n", secret)
	return nil
}

type infoCmd struct {
	app *app
}

func (c *infoCmd) Execute(args []string) error {
	cfg := secp256k1.DefaultContextConfig()
	fmt.Fprintf(c.app.out, "go:                  %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(c.app.out, "cpu:                 %s\n", cpuid.CPU.BrandName)
	fmt.Fprintf(c.app.out, "sha extensions:      %v\n", cpuid.CPU.Supports(cpuid.SHA))
	fmt.Fprintf(c.app.out, "avx2:                %v\n", cpuid.CPU.Supports(cpuid.AVX2))
	fmt.Fprintf(c.app.out, "generator window:    %d\n", cfg.WindowG)
	fmt.Fprintf(c.app.out, "pippenger threshold: %d\n", cfg.PippengerThreshold)
	return nil
}
