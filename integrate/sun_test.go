// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"math"
	"testing"

	"github.com/MagSims/FastDipole-sub000/classical"
	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ham"
	"github.com/MagSims/FastDipole-sub000/stevens"
	"github.com/cpmech/gosl/chk"
)

func sunTestChain(tst *testing.T, n int, S, J float64) *ham.System {
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
	s.SetExternalField([3]float64{0.1, 0, 0.4})
	return s
}

// Test_integrate_sun_midpoint_preserves_ket_norm is §8 property 3 for
// the SU(N) branch: after repeated implicit-midpoint steps every
// coherent ket stays unit-norm to 1e-12.
func Test_integrate_sun_midpoint_preserves_ket_norm(tst *testing.T) {
	chk.PrintTitle("integrate_sun_midpoint_preserves_ket_norm")
	s := sunTestChain(tst, 3, 1, -0.9)
	// start away from the polarized state so the dynamics are nontrivial
	for i := range s.Coherents {
		s.Coherents[i][0] = complex(0.8, 0.1)
		s.Coherents[i][1] = complex(0.2, -0.4)
		s.Coherents[i][2] = complex(0.3, 0.2)
		normalizeKet(s.Coherents[i])
	}
	classical.SyncExpectedDipoles(s)

	for step := 0; step < 50; step++ {
		ImplicitMidpoint(s, 0.01)
	}
	for i, z := range s.Coherents {
		nrm := 0.0
		for _, v := range z {
			nrm += real(v)*real(v) + imag(v)*imag(v)
		}
		if math.Abs(math.Sqrt(nrm)-1) > 1e-12 {
			tst.Errorf("ket %d drifted off the unit sphere: |Z|=%v", i, math.Sqrt(nrm))
		}
		want := stevens.ExpectedSpin(3, z)
		for a := 0; a < 3; a++ {
			if math.Abs(want[a]-s.Dipoles[i][a]) > 1e-10 {
				tst.Errorf("site %d: dipole out of sync with coherent expectation", i)
			}
		}
	}
}

// Test_integrate_sun_midpoint_conserves_energy checks the drift bound of
// §8 property 4 on the ket integrator: without damping or noise the
// implicit midpoint scheme holds the total energy to a small drift.
func Test_integrate_sun_midpoint_conserves_energy(tst *testing.T) {
	chk.PrintTitle("integrate_sun_midpoint_conserves_energy")
	s := sunTestChain(tst, 3, 1, -0.9)
	for i := range s.Coherents {
		s.Coherents[i][0] = complex(0.7, 0)
		s.Coherents[i][1] = complex(0.5, 0.3)
		s.Coherents[i][2] = complex(0.1, -0.4)
		normalizeKet(s.Coherents[i])
	}
	classical.SyncExpectedDipoles(s)

	eMin := math.Inf(1)
	eMax := math.Inf(-1)
	for step := 0; step < 300; step++ {
		ImplicitMidpoint(s, 0.002)
		e := classical.Energy(s)
		if e < eMin {
			eMin = e
		}
		if e > eMax {
			eMax = e
		}
	}
	nSites := float64(len(s.Coherents))
	if (eMax-eMin)/math.Sqrt(nSites) > 1e-3 {
		tst.Errorf("energy drift too large: min %v max %v", eMin, eMax)
	}
}

// Test_integrate_sun_metropolis_keeps_invariants runs SU(N) Metropolis
// sweeps and checks the §3 invariants afterwards: unit-norm kets and
// dipoles equal to the coherent expectations.
func Test_integrate_sun_metropolis_keeps_invariants(tst *testing.T) {
	chk.PrintTitle("integrate_sun_metropolis_keeps_invariants")
	s := sunTestChain(tst, 4, 1, -0.5)
	for sweep := 0; sweep < 5; sweep++ {
		MetropolisSweep(s, ProposalUniform, 0, 0.7)
		MetropolisSweep(s, ProposalDelta, 0.2, 0.7)
		MetropolisSweep(s, ProposalFlip, 0, 0.7)
	}
	for i, z := range s.Coherents {
		nrm := 0.0
		for _, v := range z {
			nrm += real(v)*real(v) + imag(v)*imag(v)
		}
		if math.Abs(math.Sqrt(nrm)-1) > 1e-10 {
			tst.Errorf("ket %d not unit-norm after sweeps", i)
		}
		want := stevens.ExpectedSpin(3, z)
		for a := 0; a < 3; a++ {
			if math.Abs(want[a]-s.Dipoles[i][a]) > 1e-10 {
				tst.Errorf("site %d: dipole out of sync after sweeps", i)
			}
		}
	}
}

// Test_integrate_sun_flip_negates_expected_spin checks the time-reversal
// proposal: exp(-i pi Sy) conj(Z) must carry the opposite dipole.
func Test_integrate_sun_flip_negates_expected_spin(tst *testing.T) {
	chk.PrintTitle("integrate_sun_flip_negates_expected_spin")
	z := []complex128{complex(0.6, 0.2), complex(0.1, -0.5), complex(0.4, 0.3)}
	normalizeKet(z)
	before := stevens.ExpectedSpin(3, z)
	after := stevens.ExpectedSpin(3, stevens.FlipKet(3, z))
	for a := 0; a < 3; a++ {
		if math.Abs(before[a]+after[a]) > 1e-10 {
			tst.Errorf("component %d: expected spin %v not negated to %v", a, before, after)
		}
	}
}
