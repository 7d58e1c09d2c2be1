package main

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/blake256"
	sha256 "github.com/minio/sha256-simd"
	"lukechampine.com/blake3"
)

// digestFuncs maps the --hash names to 32-byte digest functions.
var digestFuncs = map[string]func([]byte) []byte{
	"sha256": func(b []byte) []byte {
		h := sha256.Sum256(b)
		return h[:]
	},
	"sha256d": chainhash.DoubleHashB,
	"blake256": func(b []byte) []byte {
		h := blake256.Sum256(b)
		return h[:]
	},
	"blake3": func(b []byte) []byte {
		h := blake3.Sum256(b)
		return h[:]
	},
}

// messageHash turns a message argument into the 32-byte value that is
// signed. With --hash=none the message itself must be 32 bytes.
func (a *app) messageHash(arg string) ([]byte, error) {
	msg := []byte(arg)
	if a.cfg.HexMessage {
		var err error
		if msg, err = hex.DecodeString(arg); err != nil {
			return nil, fmt.Errorf("message is not valid hex: %w", err)
		}
	}
	if a.cfg.Hash == "none" {
		if len(msg) != 32 {
			return nil, fmt.Errorf("--hash=none requires a 32-byte message, got %d bytes", len(msg))
		}
		return msg, nil
	}
	digest, ok := digestFuncs[a.cfg.Hash]
	if !ok {
		return nil, fmt.Errorf("unknown hash %q", a.cfg.Hash)
	}
	h := digest(msg)
	log.Debugf("Message digest (%s): %x", a.cfg.Hash, h)
	return h, nil
}

// decodeHex decodes a hex argument named what.
func decodeHex(what, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid hex: %w", what, err)
	}
	return b, nil
}
