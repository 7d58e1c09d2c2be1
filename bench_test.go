package secp256k1

import (
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

var (
	benchSeckey  = hexToBytes("0101010101010101010101010101010101010101010101010101010101010101")
	benchSeckey2 = hexToBytes("0202020202020202020202020202020202020202020202020202020202020202")
	benchMsghash = hexToBytes("243f6a8885a308d313198a2e03707344a4093822299f31d0082efa98ec4e6c89")
)

func benchKey(b *testing.B, raw []byte) *PrivateKey {
	k, err := PrivKeyFromBytes(raw)
	if err != nil {
		b.Fatalf("failed to parse bench key: %v", err)
	}
	return k
}

// BenchmarkPubkeyDerivation compares public key derivation from a private
// key.
func BenchmarkPubkeyDerivation(b *testing.B) {
	k := benchKey(b, benchSeckey)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = k.PubKey()
	}
}

func BenchmarkPubkeyDerivation_Btcec(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = btcec.PrivKeyFromBytes(benchSeckey)
	}
}

func BenchmarkECDSASign(b *testing.B) {
	k := benchKey(b, benchSeckey)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := k.Sign(benchMsghash); err != nil {
			b.Fatalf("failed to sign: %v", err)
		}
	}
}

func BenchmarkECDSASign_Btcec(b *testing.B) {
	priv, _ := btcec.PrivKeyFromBytes(benchSeckey)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = btcecdsa.Sign(priv, benchMsghash)
	}
}

func BenchmarkECDSAVerify(b *testing.B) {
	k := benchKey(b, benchSeckey)
	pub := k.PubKey()
	sig, _ := k.Sign(benchMsghash)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !sig.Verify(benchMsghash, pub) {
			b.Fatal("verification failed")
		}
	}
}

func BenchmarkECDSAVerify_Btcec(b *testing.B) {
	priv, pub := btcec.PrivKeyFromBytes(benchSeckey)
	sig := btcecdsa.Sign(priv, benchMsghash)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !sig.Verify(benchMsghash, pub) {
			b.Fatal("verification failed")
		}
	}
}

func BenchmarkRecoverCompact(b *testing.B) {
	k := benchKey(b, benchSeckey)
	sig, _ := k.SignCompact(benchMsghash, true)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := RecoverCompact(sig, benchMsghash); err != nil {
			b.Fatalf("failed to recover: %v", err)
		}
	}
}

func BenchmarkSchnorrSign(b *testing.B) {
	k := benchKey(b, benchSeckey)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := k.SchnorrSign(benchMsghash, nil); err != nil {
			b.Fatalf("failed to sign: %v", err)
		}
	}
}

func BenchmarkSchnorrSign_Btcec(b *testing.B) {
	priv, _ := btcec.PrivKeyFromBytes(benchSeckey)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := schnorr.Sign(priv, benchMsghash, schnorr.CustomNonce([32]byte{})); err != nil {
			b.Fatalf("failed to sign: %v", err)
		}
	}
}

func BenchmarkSchnorrVerify(b *testing.B) {
	k := benchKey(b, benchSeckey)
	pub, _ := k.PubKey().XOnly()
	sig, _ := k.SchnorrSign(benchMsghash, nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !SchnorrVerify(pub, benchMsghash, sig) {
			b.Fatal("verification failed")
		}
	}
}

func BenchmarkSchnorrVerify_Btcec(b *testing.B) {
	priv, pub := btcec.PrivKeyFromBytes(benchSeckey)
	sig, _ := schnorr.Sign(priv, benchMsghash, schnorr.CustomNonce([32]byte{}))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !sig.Verify(benchMsghash, pub) {
			b.Fatal("verification failed")
		}
	}
}

func BenchmarkECDH(b *testing.B) {
	k := benchKey(b, benchSeckey)
	pub := benchKey(b, benchSeckey2).PubKey()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ECDH(k, pub, nil); err != nil {
			b.Fatalf("failed to compute shared secret: %v", err)
		}
	}
}

func BenchmarkECDH_Btcec(b *testing.B) {
	priv, _ := btcec.PrivKeyFromBytes(benchSeckey)
	_, pub := btcec.PrivKeyFromBytes(benchSeckey2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = btcec.GenerateSharedSecret(priv, pub)
	}
}

func BenchmarkMultBatch(b *testing.B) {
	for _, n := range []int{16, 64, 128, 512} {
		points := make([]GroupElementAffine, n)
		scalars := make([]Scalar, n)
		for i := range points {
			points[i] = randPoint(b)
			scalars[i] = randScalar(b)
		}
		ctx := DefaultContext().Ecmult()
		b.Run(fmt.Sprintf("%d points", n), func(b *testing.B) {
			var r GroupElementJacobian
			for i := 0; i < b.N; i++ {
				if err := ctx.MultBatch(&r, nil, scalars, points); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEcmultConst(b *testing.B) {
	p := randPoint(b)
	k := randScalar(b)
	var r GroupElementJacobian
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		EcmultConst(&r, &p, &k)
	}
}
