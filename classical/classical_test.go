// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package classical

import (
	"math"
	"testing"

	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ham"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
)

func chainCrystal(a float64) *crystal.Crystal {
	c, err := crystal.New(
		crystal.Mat3{{a, 0, 0}, {0, 10 * a, 0}, {0, 0, 10 * a}},
		[]crystal.Vec3{{0, 0, 0}},
		[]string{"A"},
		[]crystal.SymOp{{R: crystal.Identity3()}},
		1e-8,
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Test_classical_zeeman_favors_field_alignment checks that Energy
// decreases (more negative) as a polarized system's field grows along
// the direction the dipoles already point, a basic sanity check on the
// Zeeman term's sign convention.
func Test_classical_zeeman_favors_field_alignment(tst *testing.T) {
	chk.PrintTitle("classical_zeeman_favors_field_alignment")
	c := chainCrystal(3.0)
	s, err := ham.New(c, [3]int{4, 1, 1}, []ham.SiteInfo{{S: 0.5, G: crystal.Identity3()}}, ham.Dipole)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	s.SetExternalField([3]float64{0, 0, 1})
	e1 := Energy(s)
	s.SetExternalField([3]float64{0, 0, 2})
	e2 := Energy(s)
	if e2 >= e1 {
		tst.Errorf("expected stronger aligned field to lower energy further, got e1=%g e2=%g", e1, e2)
	}
}

// Test_classical_heisenberg_ferro_vs_antialigned checks that an isotropic
// ferromagnetic bond (J<0 by convention E=J s_i.s_j) favors alignment: the
// fully aligned configuration must have lower bond energy than one flipped
// site.
func Test_classical_heisenberg_ferro_vs_antialigned(tst *testing.T) {
	chk.PrintTitle("classical_heisenberg_ferro_vs_antialigned")
	c := chainCrystal(3.0)
	s, err := ham.New(c, [3]int{2, 1, 1}, []ham.SiteInfo{{S: 0.5, G: crystal.Identity3()}}, ham.Dipole)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	J := crystal.Mat3{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}
	bond := crystal.Bond{I: 0, J: 0, N: [3]int{1, 0, 0}}
	if err := s.SetExchange(J, bond); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	aligned := Energy(s)

	flipped := s.Clone()
	idx := flipped.Index([3]int{1, 0, 0}, 0)
	flipped.Dipoles[idx] = [3]float64{0, 0, -flipped.Dipoles[idx][2]}
	flippedE := Energy(flipped)

	if aligned >= flippedE {
		tst.Errorf("expected aligned configuration to have lower energy than flipped, got aligned=%g flipped=%g", aligned, flippedE)
	}
}

// Test_classical_local_energy_change_matches_recompute checks that
// LocalEnergyChange agrees with recomputing the full energy before and
// after mutating one site's dipole directly, the property Metropolis
// proposals rely on for O(1) acceptance checks.
func Test_classical_local_energy_change_matches_recompute(tst *testing.T) {
	chk.PrintTitle("classical_local_energy_change_matches_recompute")
	c := chainCrystal(3.0)
	s, err := ham.New(c, [3]int{4, 1, 1}, []ham.SiteInfo{{S: 0.5, G: crystal.Identity3()}}, ham.Dipole)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	J := crystal.Mat3{{0.3, 0, 0}, {0, 0.3, 0}, {0, 0, 0.3}}
	bond := crystal.Bond{I: 0, J: 0, N: [3]int{1, 0, 0}}
	if err := s.SetExchange(J, bond); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	s.SetExternalField([3]float64{0.1, 0.2, 0.3})

	cell := [3]int{2, 0, 0}
	sub := 0
	proposed := [3]float64{0.2, -0.1, 0.45}

	before := Energy(s)
	want := LocalEnergyChange(s, cell, sub, proposed)

	s2 := s.Clone()
	s2.Dipoles[s2.Index(cell, sub)] = proposed
	after := Energy(s2)

	if math.Abs((after-before)-want) > 1e-8 {
		tst.Errorf("LocalEnergyChange()=%g does not match recomputed difference %g", want, after-before)
	}
}

// Test_classical_gradient_matches_numeric_derivative checks
// SetEnergyGradDipoles against a central-difference derivative of Energy
// with respect to each Cartesian component of one site's dipole, taken
// one component at a time (the gradient here is the free dE/ds, not
// projected onto the unit-sphere tangent space).
func Test_classical_gradient_matches_numeric_derivative(tst *testing.T) {
	chk.PrintTitle("classical_gradient_matches_numeric_derivative")
	c := chainCrystal(3.0)
	s, err := ham.New(c, [3]int{4, 1, 1}, []ham.SiteInfo{{S: 0.5, G: crystal.Identity3()}}, ham.Dipole)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	J := crystal.Mat3{{0.3, 0, 0}, {0, 0.3, 0}, {0, 0, 0.3}}
	bond := crystal.Bond{I: 0, J: 0, N: [3]int{1, 0, 0}}
	if err := s.SetExchange(J, bond); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	s.SetExternalField([3]float64{0.1, 0.2, 0.3})

	cell := [3]int{2, 0, 0}
	idx := s.Index(cell, 0)
	grad := make([][3]float64, len(s.Dipoles))

	tol := 1e-6
	for a := 0; a < 3; a++ {
		dnum := num.DerivCen(func(x float64, args ...interface{}) (res float64) {
			orig := s.Dipoles[idx][a]
			s.Dipoles[idx][a] = x
			SetEnergyGradDipoles(grad, s)
			res = Energy(s)
			s.Dipoles[idx][a] = orig
			return
		}, s.Dipoles[idx][a])
		SetEnergyGradDipoles(grad, s)
		chk.Scalar(tst, "dE/ds"+string(rune('x'+a)), tol, grad[idx][a], dnum)
	}
}
