package secp256k1

import (
	"sync"
	"unsafe"

	"github.com/decred/dcrd/crypto/rand"
)

// ContextConfig controls the precomputation and blinding of a Context.
type ContextConfig struct {
	// WindowG is the wNAF window of the generator tables used for
	// verification. Each table holds 2^(WindowG-2) points.
	WindowG int

	// PippengerThreshold is the number of points at which batch
	// multiplication switches from Strauss to Pippenger.
	PippengerThreshold int

	// BlindSeed seeds the generator blinding. When nil a seed is drawn
	// from the system CSPRNG.
	BlindSeed []byte
}

// DefaultContextConfig returns the configuration used by DefaultContext.
func DefaultContextConfig() ContextConfig {
	return ContextConfig{
		WindowG:            DefaultWindowG,
		PippengerThreshold: DefaultPippengerThreshold,
	}
}

// Context bundles the precomputed tables every operation needs. Tables
// are read-only after construction so a Context may be shared between
// goroutines, with the exception of Randomize which must not run
// concurrently with any signing or key derivation.
type Context struct {
	ecmult    *EcmultContext
	ecmultGen *EcmultGenContext
}

var (
	defaultContext     *Context
	defaultContextOnce sync.Once
)

// DefaultContext returns the shared context used by the package-level key
// and signature functions. It is built on first use.
func DefaultContext() *Context {
	defaultContextOnce.Do(func() {
		defaultContext = NewContext(DefaultContextConfig())
	})
	return defaultContext
}

// NewContext builds an independent context from cfg. Zero fields take
// their defaults.
func NewContext(cfg ContextConfig) *Context {
	if cfg.WindowG == 0 {
		cfg.WindowG = DefaultWindowG
	}
	if cfg.PippengerThreshold <= 0 {
		cfg.PippengerThreshold = DefaultPippengerThreshold
	}

	ctx := &Context{
		ecmult:    NewEcmultContext(cfg.WindowG),
		ecmultGen: NewEcmultGenContext(),
	}
	ctx.ecmult.pippengerThreshold = cfg.PippengerThreshold

	seed := cfg.BlindSeed
	if seed == nil {
		var buf [32]byte
		rand.Read(buf[:])
		seed = buf[:]
		defer memclear(unsafe.Pointer(&buf), unsafe.Sizeof(buf))
	}
	ctx.ecmultGen.Blind(seed)
	return ctx
}

// Randomize refreshes the blinding of generator multiplication from
// seed32. A nil seed resets the blinding to its deterministic initial
// state.
//
// Randomize is not safe for concurrent use with other operations on the
// same context.
func (ctx *Context) Randomize(seed32 []byte) error {
	if seed32 != nil && len(seed32) != 32 {
		return makeError(ErrSeedInvalidLen, "randomization seed must be 32 bytes")
	}
	ctx.ecmultGen.Blind(seed32)
	return nil
}

// Ecmult returns the variable-time multiplication context.
func (ctx *Context) Ecmult() *EcmultContext {
	return ctx.ecmult
}

// EcmultGen returns the constant-time generator multiplication context.
func (ctx *Context) EcmultGen() *EcmultGenContext {
	return ctx.ecmultGen
}

// pubKeyPoint sets r = sk*G as a normalized affine point.
func (ctx *Context) pubKeyPoint(r *GroupElementAffine, sk *Scalar) {
	var rj GroupElementJacobian
	ctx.ecmultGen.MultGen(&rj, sk)
	r.setGEJ(&rj)
	rj.clear()
}
