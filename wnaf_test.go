package secp256k1

import (
	"math/big"
	"testing"
)

// wnafValue evaluates sum(wnaf[i] * 2^(i*stride)) modulo n.
func wnafValue(wnaf []int, stride int) *big.Int {
	v := new(big.Int)
	for i := len(wnaf) - 1; i >= 0; i-- {
		v.Lsh(v, uint(stride))
		v.Add(v, big.NewInt(int64(wnaf[i])))
	}
	return v.Mod(v, bigN)
}

// halfScalars returns scalars whose value or negation is below 2^128,
// the inputs the encoders see after the endomorphism split.
func halfScalars(t *testing.T) []Scalar {
	out := []Scalar{ScalarZero, ScalarOne}
	var minusOne Scalar
	minusOne.negate(&ScalarOne)
	out = append(out, minusOne)
	for i := 0; i < 50; i++ {
		k := randScalar(t)
		r1, r2 := splitLambda(&k)
		out = append(out, r1, r2)
	}
	return out
}

func TestWnafVar(t *testing.T) {
	for _, w := range []int{ecmultWindowA, 8, DefaultWindowG} {
		for _, s := range halfScalars(t) {
			wnaf := make([]int, straussWnafLen)
			bits := wnafVar(wnaf, &s, w)

			if got := wnafValue(wnaf, 1); got.Cmp(scalarToBig(&s)) != 0 {
				t.Fatalf("w=%d: wnaf value %x != scalar %x", w, got, scalarToBig(&s))
			}
			for i, d := range wnaf {
				if i >= bits && d != 0 {
					t.Fatalf("w=%d: non-zero digit %d beyond returned length %d", w, i, bits)
				}
				if d == 0 {
					continue
				}
				if d&1 == 0 || d >= 1<<(w-1) || d <= -(1<<(w-1)) {
					t.Fatalf("w=%d: digit %d = %d out of range", w, i, d)
				}
				for j := i + 1; j < i+w && j < len(wnaf); j++ {
					if wnaf[j] != 0 {
						t.Fatalf("w=%d: digits %d and %d within one window", w, i, j)
					}
				}
			}
		}
	}
}

func TestWnafConst(t *testing.T) {
	tests := []struct {
		name string
		size int
		gen  func() []Scalar
	}{
		{"128-bit halves", wnafBits, func() []Scalar { return halfScalars(t) }},
		{"full scalars", 256, func() []Scalar {
			var minusOne, minusTwo Scalar
			minusOne.negate(&ScalarOne)
			two := ScalarOne
			two.add(&two, &ScalarOne)
			minusTwo.negate(&two)
			out := []Scalar{ScalarZero, ScalarOne, two, minusOne, minusTwo}
			for i := 0; i < 50; i++ {
				out = append(out, randScalar(t))
			}
			return out
		}},
	}

	const w = ecmultConstWindow
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for _, s := range test.gen() {
				wnaf := make([]int, wnafSize(test.size, w)+1)
				skew := wnafConst(wnaf, &s, w, test.size)
				if skew != 1 && skew != 2 {
					t.Fatalf("skew = %d, want 1 or 2", skew)
				}
				want := new(big.Int).Add(scalarToBig(&s), big.NewInt(int64(skew)))
				want.Mod(want, bigN)
				if got := wnafValue(wnaf, w); got.Cmp(want) != 0 {
					t.Fatalf("wnaf value %x != scalar+skew %x", got, want)
				}
				for i, d := range wnaf {
					if d&1 == 0 || d >= 1<<w || d <= -(1<<w) {
						t.Fatalf("digit %d = %d is not odd and in range", i, d)
					}
				}
			}
		})
	}
}

func TestWnafFixed(t *testing.T) {
	for _, w := range []int{2, 3, 5, 8, 13} {
		for _, s := range halfScalars(t) {
			if s.isHigh() {
				s.negate(&s)
			}
			wnaf := make([]int, wnafSize(wnafBits, w))
			skew := wnafFixed(wnaf, &s, w)

			want := new(big.Int).Add(scalarToBig(&s), big.NewInt(int64(skew)))
			if got := wnafValue(wnaf, w); got.Cmp(want) != 0 {
				t.Fatalf("w=%d: value %x != scalar+skew %x", w, got, want)
			}
			for i, d := range wnaf {
				if d != 0 && (d&1 == 0 || d >= 1<<w || d <= -(1<<w)) {
					t.Fatalf("w=%d: digit %d = %d out of range", w, i, d)
				}
			}
		}
	}
}
