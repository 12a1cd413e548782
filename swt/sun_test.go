// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swt

import (
	"math"
	"sort"
	"testing"

	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ham"
	"github.com/MagSims/FastDipole-sub000/stevens"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

func spinHalfChain(tst *testing.T, n int, J float64, mode ham.Mode) *ham.System {
	c := chainCrystal(3.0)
	s, err := ham.New(c, [3]int{n, 1, 1}, []ham.SiteInfo{{S: 0.5, G: crystal.Identity3()}}, mode)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	Jmat := crystal.Mat3{{J, 0, 0}, {0, J, 0}, {0, 0, J}}
	bond := crystal.Bond{I: 0, J: 0, N: [3]int{1, 0, 0}}
	if err := s.SetExchange(Jmat, bond); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	s.SetExternalField([3]float64{0, 0, 0.2})
	return s
}

// Test_swt_sun_matches_dipole_for_spin_half_chain checks that the SU(2)
// flavor assembly and the Holstein-Primakoff assembly agree entry for
// entry: for S=1/2 both carry one boson per site, and linear spin-wave
// theory is exact, so H(q) must coincide. The two assemblies phase
// their hole blocks by opposite conventions (the SU(N) template tracks
// the -q hole sector), so the entrywise comparison runs at q points
// with real Bloch phases, where the conventions coincide; the generic-q
// agreement is checked at the spectrum level by
// Test_swt_sun_dispersion_matches_dipole.
func Test_swt_sun_matches_dipole_for_spin_half_chain(tst *testing.T) {
	chk.PrintTitle("swt_sun_matches_dipole_for_spin_half_chain")
	sD := spinHalfChain(tst, 4, -1, ham.Dipole)
	sS := spinHalfChain(tst, 4, -1, ham.SUN)
	swD := New(sD)
	swS := New(sS)

	for _, q := range [][3]float64{{0, 0, 0}, {0.5, 0, 0}} {
		HD := swD.HamiltonianAt(q)
		HS := swS.HamiltonianAt(q)

		rd, _ := HD.Dims()
		rs, _ := HS.Dims()
		if rd != rs {
			tst.Fatalf("dimension mismatch: dipole %d vs SUN %d", rd, rs)
		}
		for i := 0; i < rd; i++ {
			for j := 0; j < rd; j++ {
				d := HD.At(i, j) - HS.At(i, j)
				if math.Hypot(real(d), imag(d)) > 1e-9 {
					tst.Errorf("q=%v: H mismatch at (%d,%d): dipole %v vs SUN %v", q, i, j, HD.At(i, j), HS.At(i, j))
				}
			}
		}
	}
}

// Test_swt_sun_dispersion_matches_dipole checks the same agreement at
// the level of Bogoliubov energies, through the full Diagonalize path.
func Test_swt_sun_dispersion_matches_dipole(tst *testing.T) {
	chk.PrintTitle("swt_sun_dispersion_matches_dipole")
	sD := spinHalfChain(tst, 4, -1, ham.Dipole)
	sS := spinHalfChain(tst, 4, -1, ham.SUN)

	path := [][3]float64{{0.1, 0, 0}, {0.3, 0, 0}}
	bD, err := New(sD).Dispersion(path)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	bS, err := New(sS).Dispersion(path)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for qi := range path {
		d := append([]float64(nil), bD[qi]...)
		s := append([]float64(nil), bS[qi]...)
		sort.Float64s(d)
		sort.Float64s(s)
		for b := range d {
			if math.Abs(d[b]-s[b]) > 1e-7 {
				tst.Errorf("q %d band %d: dipole %v vs SUN %v", qi, b, d[b], s[b])
			}
		}
	}
}

// Test_swt_sun_hamiltonian_hermitian_with_onsite_and_general exercises
// the SU(3) path with an easy-axis onsite operator, a bilinear exchange
// and a general (Sz,Sz) pair term, checking Hermiticity and a stable
// Bogoliubov factorization around the polarized ground state.
func Test_swt_sun_hamiltonian_hermitian_with_onsite_and_general(tst *testing.T) {
	chk.PrintTitle("swt_sun_hamiltonian_hermitian_with_onsite_and_general")
	c := chainCrystal(3.0)
	s, err := ham.New(c, [3]int{4, 1, 1}, []ham.SiteInfo{{S: 1, G: crystal.Identity3()}}, ham.SUN)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	J := -1.0
	Jmat := crystal.Mat3{{J, 0, 0}, {0, J, 0}, {0, 0, J}}
	bond := crystal.Bond{I: 0, J: 0, N: [3]int{1, 0, 0}}
	if err := s.SetExchange(Jmat, bond); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	ops := stevens.DipoleOps(3)
	Sz2 := matmulC(ops[2], ops[2])
	easyAxis := mat.NewCDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			easyAxis.Set(i, j, complex(-0.3, 0)*Sz2.At(i, j))
		}
	}
	if err := s.SetOnsiteCoupling(easyAxis, 0); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if err := s.SetPairCoupling([]ham.GeneralTerm{{A: scaleTest(ops[2], -0.1), B: ops[2]}}, bond); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	sw := New(s)
	H := sw.HamiltonianAt([3]float64{0.17, 0, 0})
	n, _ := H.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := H.At(i, j) - cmplxConj(H.At(j, i))
			if math.Hypot(real(d), imag(d)) > 1e-9 {
				tst.Errorf("H not Hermitian at (%d,%d)", i, j)
			}
		}
	}
	bog, err := Diagonalize(H)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for _, e := range bog.Energies {
		if e < 0 {
			tst.Errorf("expected nonnegative excitation energies, got %v", bog.Energies)
		}
	}
}

// Test_swt_onsite_anisotropy_rotates_with_local_frame checks that an
// easy-axis chain magnetized along x with its axis along x reproduces
// the spectrum of the same chain magnetized along z with its axis along
// z: the local-frame rotation of the Stevens expansion must make the
// two configurations indistinguishable.
func Test_swt_onsite_anisotropy_rotates_with_local_frame(tst *testing.T) {
	chk.PrintTitle("swt_onsite_anisotropy_rotates_with_local_frame")
	build := func(axis int) *ham.System {
		c := chainCrystal(3.0)
		s, err := ham.New(c, [3]int{4, 1, 1}, []ham.SiteInfo{{S: 1, G: crystal.Identity3()}}, ham.Dipole)
		if err != nil {
			tst.Fatalf("unexpected error: %v", err)
		}
		J := -1.0
		Jmat := crystal.Mat3{{J, 0, 0}, {0, J, 0}, {0, 0, J}}
		bond := crystal.Bond{I: 0, J: 0, N: [3]int{1, 0, 0}}
		if err := s.SetExchange(Jmat, bond); err != nil {
			tst.Fatalf("unexpected error: %v", err)
		}
		ops := stevens.DipoleOps(3)
		S2 := matmulC(ops[axis], ops[axis])
		op := scaleTest(S2, -0.4)
		if err := s.SetOnsiteCoupling(op, 0); err != nil {
			tst.Fatalf("unexpected error: %v", err)
		}
		return s
	}

	sZ := build(2)
	sX := build(0)
	for i := range sX.Dipoles {
		sX.Dipoles[i] = [3]float64{1, 0, 0}
	}

	path := [][3]float64{{0.23, 0, 0}}
	bZ, err := New(sZ).Dispersion(path)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	bX, err := New(sX).Dispersion(path)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	z := append([]float64(nil), bZ[0]...)
	x := append([]float64(nil), bX[0]...)
	sort.Float64s(z)
	sort.Float64s(x)
	for b := range z {
		if math.Abs(z[b]-x[b]) > 1e-7 {
			tst.Errorf("band %d: z-axis %v vs x-axis %v", b, z[b], x[b])
		}
	}
}

// Test_swt_dipole_dipole_enters_hamiltonian checks that enabling the
// Ewald engine changes H(q) while keeping it Hermitian and stable around
// an exchange-dominated ferromagnetic ground state.
func Test_swt_dipole_dipole_enters_hamiltonian(tst *testing.T) {
	chk.PrintTitle("swt_dipole_dipole_enters_hamiltonian")
	s := ferroChain(tst, 4, -1)
	q := [3]float64{0.25, 0, 0}
	H0 := New(s).HamiltonianAt(q)
	if err := s.EnableDipoleDipole(); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	H1 := New(s).HamiltonianAt(q)

	n, _ := H1.Dims()
	maxDiff := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := H1.At(i, j) - cmplxConj(H1.At(j, i))
			if math.Hypot(real(d), imag(d)) > 1e-9 {
				tst.Errorf("H not Hermitian at (%d,%d)", i, j)
			}
			dd := H1.At(i, j) - H0.At(i, j)
			if m := math.Hypot(real(dd), imag(dd)); m > maxDiff {
				maxDiff = m
			}
		}
	}
	if maxDiff == 0 {
		tst.Errorf("expected the dipole-dipole channel to contribute to H(q)")
	}
	if _, err := Diagonalize(H1); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
}

func scaleTest(a *mat.CDense, s float64) *mat.CDense {
	r, c := a.Dims()
	out := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, complex(s, 0)*a.At(i, j))
		}
	}
	return out
}
