package secp256k1

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestGeneratorIsValid(t *testing.T) {
	if !Generator.isValidVar() {
		t.Fatal("generator is not on the curve")
	}
	var g GroupElementAffine
	if !g.setXOVar(&Generator.x, Generator.y.isOdd()) {
		t.Fatal("setXOVar failed for generator x")
	}
	if !g.equalVar(&Generator) {
		t.Fatalf("setXOVar(G.x) mismatch: %s", spew.Sdump(g))
	}

	var bad GroupElementAffine
	bad.setXY(&Generator.x, &FieldElementOne)
	if bad.isValidVar() {
		t.Fatal("(G.x, 1) accepted as a curve point")
	}
}

func TestSetXOVarRejectsNonResidue(t *testing.T) {
	// x = 5 gives x^3 + 7 = 132, which is not a square mod p.
	var x FieldElement
	x.setInt(5)
	var r GroupElementAffine
	if r.setXOVar(&x, false) {
		t.Fatal("x = 5 is not on the curve")
	}
}

func TestGroupAdditionFormulasAgree(t *testing.T) {
	for i := 0; i < 30; i++ {
		a := randPoint(t)
		b := randPoint(t)

		var aj, bj GroupElementJacobian
		aj.setGE(&a)
		bj.setGE(&b)

		var s1, s2, s3 GroupElementJacobian
		s1.addVar(&aj, &bj, nil)
		s2.addGEVar(&aj, &b, nil)
		s3.addGE(&aj, &b)
		if !s1.equalVar(&s2) || !s1.equalVar(&s3) {
			t.Fatal("addVar, addGEVar and addGE disagree")
		}

		// Doubling through every path.
		var d1, d2, d3, d4 GroupElementJacobian
		d1.double(&aj)
		d2.doubleVar(&aj, nil)
		d3.addGEVar(&aj, &a, nil)
		d4.addGE(&aj, &a)
		if !d1.equalVar(&d2) || !d1.equalVar(&d3) || !d1.equalVar(&d4) {
			t.Fatal("doubling formulas disagree")
		}

		// P + (-P) is infinity.
		var na GroupElementAffine
		na.negate(&a)
		var z1, z2, z3 GroupElementJacobian
		z1.addGEVar(&aj, &na, nil)
		z2.addGE(&aj, &na)
		var naj GroupElementJacobian
		naj.setGE(&na)
		z3.addVar(&aj, &naj, nil)
		if !z1.isInfinity() || !z2.isInfinity() || !z3.isInfinity() {
			t.Fatal("P + (-P) is not infinity")
		}

		// Infinity + P is P.
		var inf, r GroupElementJacobian
		inf.setInfinity()
		r.addGE(&inf, &a)
		if !gejEqualsGE(&r, &a) {
			t.Fatal("constant-time add with infinite first operand is wrong")
		}
		r.addGEVar(&inf, &a, nil)
		if !gejEqualsGE(&r, &a) {
			t.Fatal("addGEVar with infinite first operand is wrong")
		}
	}
}

func TestAddVarRatio(t *testing.T) {
	a := randPoint(t)
	b := randPoint(t)
	var aj, r GroupElementJacobian
	aj.setGE(&a)
	aj.doubleVar(&aj, nil)

	var rzr FieldElement
	r.addGEVar(&aj, &b, &rzr)
	var want FieldElement
	want.mul(&aj.z, &rzr)
	want.normalize()
	if !want.equalVar(&r.z) {
		t.Fatal("r.z != a.z * rzr")
	}
}

func TestGroupAddGEInfinityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic adding infinity in constant time")
		}
	}()
	var inf GroupElementAffine
	inf.setInfinity()
	var r GroupElementJacobian
	r.setGE(&Generator)
	r.addGE(&r, &inf)
}

func TestJacobianConversions(t *testing.T) {
	pts := make([]GroupElementJacobian, 8)
	for i := range pts {
		p := randPoint(t)
		pts[i].setGE(&p)
		pts[i].doubleVar(&pts[i], nil)
	}
	pts[3].setInfinity()

	batch := make([]GroupElementAffine, len(pts))
	setAllGEJVar(batch, pts)
	for i := range pts {
		var ct, vt GroupElementAffine
		vt.setGEJVar(&pts[i])
		if !vt.equalVar(&batch[i]) {
			t.Fatalf("batch conversion %d mismatch", i)
		}
		if pts[i].isInfinity() {
			continue
		}
		ct.setGEJ(&pts[i])
		if !ct.equalVar(&vt) || !ct.isValidVar() {
			t.Fatalf("constant-time conversion %d mismatch", i)
		}

		var s FieldElement
		s.setInt(12345)
		rescaled := pts[i]
		rescaled.rescale(&s)
		if !rescaled.equalVar(&pts[i]) {
			t.Fatal("rescale changed the point")
		}
		if !pts[i].eqXVar(&vt.x) {
			t.Fatal("eqXVar rejected the point's own x")
		}
	}
}

func TestGroupStorage(t *testing.T) {
	p := randPoint(t)
	var s GroupElementStorage
	p.toStorage(&s)
	var back GroupElementAffine
	back.fromStorage(&s)
	if !back.equalVar(&p) {
		t.Fatal("storage round trip mismatch")
	}

	q := randPoint(t)
	var qs GroupElementStorage
	q.toStorage(&qs)
	c := s
	c.cmov(&qs, 0)
	if c != s {
		t.Fatal("storage cmov flag 0 changed value")
	}
	c.cmov(&qs, 1)
	if c != qs {
		t.Fatal("storage cmov flag 1 did not copy")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic storing infinity")
		}
	}()
	var inf GroupElementAffine
	inf.setInfinity()
	inf.toStorage(&s)
}

func TestConstantTimeHelpers(t *testing.T) {
	p, q := randPoint(t), randPoint(t)
	var inf GroupElementAffine
	inf.setInfinity()

	tests := []struct {
		name string
		a, b *GroupElementAffine
		want bool
	}{
		{"same", &p, &p, true},
		{"different", &p, &q, false},
		{"infinity", &inf, &inf, true},
		{"infinity and finite", &inf, &p, false},
		{"finite and infinity", &p, &inf, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.a.equal(test.b); got != test.want {
				t.Fatalf("equal = %v, want %v", got, test.want)
			}
			if got := test.a.equalVar(test.b); got != test.want {
				t.Fatalf("equalVar = %v, want %v", got, test.want)
			}
		})
	}

	var pj, qj GroupElementJacobian
	pj.setGE(&p)
	qj.setInfinity()
	c := pj
	c.cmov(&qj, 0)
	if c.infinity || !c.equalVar(&pj) {
		t.Fatal("cmov flag 0 changed value")
	}
	c.cmov(&qj, 1)
	if !c.infinity {
		t.Fatal("cmov flag 1 did not copy infinity")
	}
	c.cmov(&pj, 1)
	if c.infinity || !c.equalVar(&pj) {
		t.Fatalf("cmov flag 1 did not copy point: %s", spew.Sdump(c))
	}
}
