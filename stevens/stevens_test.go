// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stevens

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_stevens_roundtrip(tst *testing.T) {
	chk.PrintTitle("stevens_roundtrip")
	N := 6 // S=5/2
	var e Expansion
	e.C2[2] = 1.3  // q=0
	e.C4[4] = -0.7 // q=0
	e.C4[8] = 0.2  // q=4
	lam := e.BuildHermitian(N)
	got, err := Decompose(N, lam)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for i := range e.C2 {
		if math.Abs(got.C2[i]-e.C2[i]) > 1e-8 {
			tst.Errorf("C2[%d]: got %v want %v", i, got.C2[i], e.C2[i])
		}
	}
	for i := range e.C4 {
		if math.Abs(got.C4[i]-e.C4[i]) > 1e-8 {
			tst.Errorf("C4[%d]: got %v want %v", i, got.C4[i], e.C4[i])
		}
	}
}

func Test_stevens_hermitian(tst *testing.T) {
	chk.PrintTitle("stevens_hermitian")
	N := 4
	var e Expansion
	e.C6[6] = 0.5
	lam := e.BuildHermitian(N)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			d := lam.At(i, j) - cconj(lam.At(j, i))
			if math.Hypot(real(d), imag(d)) > 1e-9 {
				tst.Errorf("Lambda not Hermitian at (%d,%d)", i, j)
			}
		}
	}
}

func Test_stevens_rejects_non_stevens(tst *testing.T) {
	chk.PrintTitle("stevens_rejects_non_stevens")
	N := 3
	Jz, _, _ := SpinOps(N)
	// Jz itself (k=1, odd order) is not representable by even-k Stevens ops.
	_, err := Decompose(N, Jz)
	if err == nil {
		tst.Errorf("expected UnsupportedAnisotropy-style error for an odd-order operator")
	}
}

func Test_stevens_coherent_energy_easy_axis(tst *testing.T) {
	chk.PrintTitle("stevens_coherent_energy_easy_axis")
	N := 6 // S=5/2
	var e Expansion
	e.C2[2] = -1.0 // easy-axis-like q=0 term
	E0, grad, err := e.EnergyAndGradient(N, [3]float64{0, 0, 2.5})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	Epi, _, err := e.EnergyAndGradient(N, [3]float64{2.5, 0, 0})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if E0 >= Epi {
		tst.Errorf("expected easy-axis energy along z (%v) below along x (%v)", E0, Epi)
	}
	// gradient must be tangential to the sphere at s=(0,0,2.5): dot with s ~ 0
	dot := grad[2] * 2.5
	if math.Abs(dot) > 1e-4*math.Abs(E0) {
		tst.Errorf("gradient should be tangential at the pole, got radial component %v", dot)
	}
}
