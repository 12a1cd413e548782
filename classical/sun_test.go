// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package classical

import (
	"math"
	"testing"

	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ham"
	"github.com/MagSims/FastDipole-sub000/stevens"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

func sunChain(tst *testing.T, n int, S, J float64) *ham.System {
	c := chainCrystal(3.0)
	s, err := ham.New(c, [3]int{n, 1, 1}, []ham.SiteInfo{{S: S, G: crystal.Identity3()}}, ham.SUN)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	Jmat := crystal.Mat3{{J, 0, 0}, {0, J, 0}, {0, 0, J}}
	bond := crystal.Bond{I: 0, J: 0, N: [3]int{1, 0, 0}}
	if err := s.SetExchange(Jmat, bond); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	s.SetExternalField([3]float64{0, 0, 0.3})
	return s
}

// Test_classical_sun_energy_matches_dipole_when_polarized checks that
// an SU(N) system and a dipole system share the same Zeeman plus
// bilinear energy at the polarized configuration: the bilinear channel
// acts through the expected dipoles, which coincide.
func Test_classical_sun_energy_matches_dipole_when_polarized(tst *testing.T) {
	chk.PrintTitle("classical_sun_energy_matches_dipole_when_polarized")
	c := chainCrystal(3.0)
	J := -0.7
	Jmat := crystal.Mat3{{J, 0, 0}, {0, J, 0}, {0, 0, J}}
	bond := crystal.Bond{I: 0, J: 0, N: [3]int{1, 0, 0}}

	build := func(mode ham.Mode) *ham.System {
		s, err := ham.New(c, [3]int{4, 1, 1}, []ham.SiteInfo{{S: 1, G: crystal.Identity3()}}, mode)
		if err != nil {
			tst.Fatalf("unexpected error: %v", err)
		}
		if err := s.SetExchange(Jmat, bond); err != nil {
			tst.Fatalf("unexpected error: %v", err)
		}
		s.SetExternalField([3]float64{0, 0, 0.3})
		return s
	}
	eD := Energy(build(ham.Dipole))
	eS := Energy(build(ham.SUN))
	if math.Abs(eD-eS) > 1e-10 {
		tst.Errorf("polarized energies differ: dipole %v vs SUN %v", eD, eS)
	}
}

// Test_classical_sun_local_energy_change_matches_recompute is §8
// property 2 for the ket path: LocalEnergyChangeKet must equal the full
// energy difference after applying the proposal and resyncing dipoles.
func Test_classical_sun_local_energy_change_matches_recompute(tst *testing.T) {
	chk.PrintTitle("classical_sun_local_energy_change_matches_recompute")
	s := sunChain(tst, 4, 1, -0.6)

	ops := stevens.DipoleOps(3)
	Sz2 := mat.NewCDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var acc complex128
			for k := 0; k < 3; k++ {
				acc += ops[2].At(i, k) * ops[2].At(k, j)
			}
			Sz2.Set(i, j, complex(-0.25, 0)*acc)
		}
	}
	if err := s.SetOnsiteCoupling(Sz2, 0); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if err := s.SetPairCoupling([]ham.GeneralTerm{{A: ops[2], B: ops[2]}}, crystal.Bond{I: 0, J: 0, N: [3]int{1, 0, 0}}); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	cell := [3]int{1, 0, 0}
	idx := s.Index(cell, 0)
	proposed := []complex128{complex(0.6, 0.1), complex(0.3, -0.4), complex(0.2, 0.55)}
	nrm := 0.0
	for _, z := range proposed {
		nrm += real(z)*real(z) + imag(z)*imag(z)
	}
	for k := range proposed {
		proposed[k] /= complex(math.Sqrt(nrm), 0)
	}

	e0 := Energy(s)
	dE := LocalEnergyChangeKet(s, cell, 0, proposed)

	copy(s.Coherents[idx], proposed)
	s.Dipoles[idx] = stevens.ExpectedSpin(3, proposed)
	e1 := Energy(s)

	if math.Abs(dE-(e1-e0)) > 1e-10 {
		tst.Errorf("local ket energy change %v != energy difference %v", dE, e1-e0)
	}
}

// Test_classical_sun_coherent_gradient_matches_numeric_derivative checks
// SetEnergyGradCoherents against a central finite difference of the
// total energy along a fixed complex direction of one ket, using the
// Wirtinger convention dE = 2 Re(<dZ|HZ>).
func Test_classical_sun_coherent_gradient_matches_numeric_derivative(tst *testing.T) {
	chk.PrintTitle("classical_sun_coherent_gradient_matches_numeric_derivative")
	s := sunChain(tst, 3, 1, -0.8)

	HZ := make([][]complex128, len(s.Coherents))
	SyncExpectedDipoles(s)
	SetEnergyGradCoherents(HZ, s)

	idx := s.Index([3]int{1, 0, 0}, 0)
	dir := []complex128{complex(0.2, -0.3), complex(0.5, 0.1), complex(-0.1, 0.4)}

	h := 1e-6
	perturb := func(eps float64) float64 {
		sc := s.Clone()
		for k := range dir {
			sc.Coherents[idx][k] += complex(eps, 0) * dir[k]
		}
		SyncExpectedDipoles(sc)
		return Energy(sc)
	}
	numeric := (perturb(h) - perturb(-h)) / (2 * h)

	var analytic float64
	for k := range dir {
		analytic += 2 * real(cconj(dir[k])*HZ[idx][k])
	}
	if math.Abs(numeric-analytic) > 1e-5*(1+math.Abs(numeric)) {
		tst.Errorf("coherent gradient mismatch: numeric %v vs analytic %v", numeric, analytic)
	}
}
