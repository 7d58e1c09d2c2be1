// Command secp256k1util generates keys, signs and verifies messages and
// derives shared secrets with secp256k1.mleku.dev.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/decred/slog"
	flags "github.com/jessevdk/go-flags"
	"secp256k1.mleku.dev"
)

// log is the command's own logger; the library logs through a second
// subsystem on the same backend.
var log = slog.Disabled

type config struct {
	Hash       string `long:"hash" description:"message digest applied before signing (one of: sha256, sha256d, blake256, blake3, none)" default:"sha256"`
	HexMessage bool   `long:"hexmsg" description:"message arguments are hex encoded"`
	DebugLevel string `long:"debuglevel" description:"logging level (one of: trace, debug, info, warn, error, critical, off)" default:"off"`
}

// app carries the parsed global options and the output stream shared by
// every command.
type app struct {
	cfg config
	out io.Writer
}

// setupLogging routes both loggers to stderr at the configured level.
func setupLogging(level string) error {
	lvl, ok := slog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("invalid debug level %q", level)
	}
	backend := slog.NewBackend(os.Stderr)
	libLog := backend.Logger("SECP")
	libLog.SetLevel(lvl)
	secp256k1.UseLogger(libLog)
	cmdLog := backend.Logger("UTIL")
	cmdLog.SetLevel(lvl)
	log = cmdLog
	return nil
}

// newParser builds the command parser around a.
func newParser(a *app) *flags.Parser {
	parser := flags.NewParser(&a.cfg, flags.Default)
	add := func(name, short string, cmd flags.Commander) {
		if _, err := parser.AddCommand(name, short, "", cmd); err != nil {
			panic(err)
		}
	}
	add("keygen", "generate a private key", &keygenCmd{app: a})
	add("pubkey", "derive the public key of a private key", &pubkeyCmd{app: a})
	add("sign", "create an ECDSA signature", &signCmd{app: a})
	add("verify", "verify an ECDSA signature", &verifyCmd{app: a})
	add("schnorr-sign", "create a BIP-340 signature", &schnorrSignCmd{app: a})
	add("schnorr-verify", "verify a BIP-340 signature", &schnorrVerifyCmd{app: a})
	add("recover", "recover the public key from a compact signature", &recoverCmd{app: a})
	add("ecdh", "derive a shared secret", &ecdhCmd{app: a})
	add("info", "show build and CPU information", &infoCmd{app: a})

	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if err := setupLogging(a.cfg.DebugLevel); err != nil {
			return err
		}
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}
	return parser
}

func main() {
	a := &app{out: os.Stdout}
	parser := newParser(a)
	if _, err := parser.Parse(); err != nil {
		// The parser has already printed the error.
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
