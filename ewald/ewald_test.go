// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ewald

import (
	"math"
	"testing"

	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/cpmech/gosl/chk"
)

func cubicP1(a float64) *crystal.Crystal {
	c, err := crystal.New(
		crystal.Mat3{{a, 0, 0}, {0, a, 0}, {0, 0, a}},
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

// Test_ewald_cubic_selfterm_isotropic checks a textbook property of the
// dipole lattice sum: on a simple cubic Bravais lattice, the rank-2 tensor
// obtained by summing the dipole interaction over the whole lattice is
// forced isotropic by the lattice's cubic point symmetry, independent of
// any symmetry table supplied to the crystal (§4.3's tensorAt depends only
// on lattice geometry, not on Crystal.SymOps).
func Test_ewald_cubic_selfterm_isotropic(tst *testing.T) {
	chk.PrintTitle("ewald_cubic_selfterm_isotropic")
	c := cubicP1(1.0)
	e, err := New(c, [3]int{6, 6, 6}, 1.0)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	A := e.Tensor[e.tensorIndex([3]int{0, 0, 0}, 0, 0)]

	if math.Abs(A[0][0]-A[1][1]) > 1e-6 || math.Abs(A[1][1]-A[2][2]) > 1e-6 {
		tst.Errorf("expected isotropic diagonal on a cubic lattice, got %v", A)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				continue
			}
			if math.Abs(A[i][j]) > 1e-6 {
				tst.Errorf("expected vanishing off-diagonal A[%d][%d]=%g on a cubic lattice", i, j, A[i][j])
			}
		}
	}
}

// Test_ewald_tensor_reciprocity checks A(Δcell,i,j) = A(-Δcell,j,i)^T, the
// reciprocity the dipole-dipole interaction tensor must satisfy since it is
// built from a symmetric two-body kernel.
func Test_ewald_tensor_reciprocity(tst *testing.T) {
	chk.PrintTitle("ewald_tensor_reciprocity")
	c := cubicP1(1.0)
	e, err := New(c, [3]int{4, 4, 4}, 1.0)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	fwd := e.Tensor[e.tensorIndex([3]int{1, 2, 0}, 0, 0)]
	bwd := e.Tensor[e.tensorIndex([3]int{-1, -2, 0}, 0, 0)].T()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(fwd[i][j]-bwd[i][j]) > 1e-9 {
				tst.Errorf("reciprocity violated at [%d][%d]: %g vs %g", i, j, fwd[i][j], bwd[i][j])
			}
		}
	}
}

// Test_ewald_energy_matches_field checks that Energy is consistent with
// Field by direct substitution (E = 1/2 sum mu.phi), guarding against a
// factor-of-two or normalization slip in the FFT convolution.
func Test_ewald_energy_matches_field(tst *testing.T) {
	chk.PrintTitle("ewald_energy_matches_field")
	c := cubicP1(1.0)
	e, err := New(c, [3]int{2, 2, 2}, 1.0)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	n := e.ncells()
	mu := make(Moment, n)
	for i := range mu {
		mu[i] = [3]float64{0, 0, 1}
	}
	phi := e.Field(mu)
	want := 0.0
	for i, m := range mu {
		want += 0.5 * (m[0]*phi[i][0] + m[1]*phi[i][1] + m[2]*phi[i][2])
	}
	got := e.Energy(mu)
	if math.Abs(got-want) > 1e-8 {
		tst.Errorf("Energy()=%g does not match direct sum over Field()=%g", got, want)
	}
}

// Test_ewald_delta_matches_recompute checks that Delta's single-site
// shortcut agrees with recomputing the full energy before and after
// flipping one moment, the property the Metropolis/Langevin integrators
// rely on for O(1) local updates.
func Test_ewald_delta_matches_recompute(tst *testing.T) {
	chk.PrintTitle("ewald_delta_matches_recompute")
	c := cubicP1(1.0)
	e, err := New(c, [3]int{2, 2, 2}, 1.0)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	n := e.ncells()
	mu := make(Moment, n)
	for i := range mu {
		mu[i] = [3]float64{0, 0, 1}
	}
	site := 3
	newMu := [3]float64{1, 0, 0}

	before := e.Energy(mu)
	mu2 := make(Moment, n)
	copy(mu2, mu)
	mu2[site] = newMu
	after := e.Energy(mu2)

	delta := e.Delta(mu, site, 0, newMu)
	if math.Abs(delta-(after-before)) > 1e-7 {
		tst.Errorf("Delta()=%g does not match recomputed difference %g", delta, after-before)
	}
}
