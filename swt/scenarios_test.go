// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// End-to-end scenario tests: the literal-value checks of §8 (properties
// 9 and scenarios E1, E2, E4, E5), run through the public Crystal →
// System → SpinWaveTheory → intensities pipeline rather than through any
// package's internals.

package swt

import (
	"math"
	"sort"
	"testing"

	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ham"
	"github.com/MagSims/FastDipole-sub000/stevens"
	"github.com/MagSims/FastDipole-sub000/units"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

func identityOnlyCrystal(tst *testing.T, latvecs crystal.Mat3, positions []crystal.Vec3) *crystal.Crystal {
	types := make([]string, len(positions))
	for i := range types {
		types[i] = "A"
	}
	c, err := crystal.New(latvecs, positions, types, []crystal.SymOp{{R: crystal.Identity3()}}, 1e-8)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	return c
}

// setAllNeighborExchange finds every bond at the minimal nonzero
// distance (within tol) over cell offsets in {-1,0,1}³ and applies the
// Heisenberg coupling J to each canonical representative.
func setAllNeighborExchange(tst *testing.T, s *ham.System, J float64) int {
	c := s.Crystal
	type cand struct {
		b crystal.Bond
		d float64
	}
	var cands []cand
	minD := math.Inf(1)
	for i := range c.Positions {
		for j := range c.Positions {
			for n0 := -1; n0 <= 1; n0++ {
				for n1 := -1; n1 <= 1; n1++ {
					for n2 := -1; n2 <= 1; n2++ {
						b := crystal.Bond{I: i, J: j, N: [3]int{n0, n1, n2}}
						d := c.CartOf(b).Norm()
						if d < 1e-9 {
							continue
						}
						cands = append(cands, cand{b, d})
						if d < minD {
							minD = d
						}
					}
				}
			}
		}
	}
	Jmat := crystal.Mat3{{J, 0, 0}, {0, J, 0}, {0, 0, J}}
	nset := 0
	for _, cd := range cands {
		if cd.d > minD*(1+1e-6) || !cd.b.Canonical() {
			continue
		}
		if err := s.SetExchange(Jmat, cd.b); err != nil {
			tst.Fatalf("unexpected error on bond %v: %v", cd.b, err)
		}
		nset++
	}
	return nset
}

func spinPower4Sum(N int, D float64) *mat.CDense {
	ops := stevens.DipoleOps(N)
	out := mat.NewCDense(N, N, nil)
	for a := 0; a < 3; a++ {
		S2 := matmulC(ops[a], ops[a])
		S4 := matmulC(S2, S2)
		for i := 0; i < N; i++ {
			for j := 0; j < N; j++ {
				out.Set(i, j, out.At(i, j)+complex(D, 0)*S4.At(i, j))
			}
		}
	}
	return out
}

// Test_swt_scenario_E1_fcc_heisenberg is §8 scenario E1: an FCC
// antiferromagnet (conventional cubic cell, a=8.289 Å, four
// sublattices), S=5/2, g=2, nearest-neighbor Heisenberg J=22.06 K and
// cubic anisotropy D(Sx⁴+Sy⁴+Sz⁴) with D=25/24 meV, in the
// four-sublattice collinear type-I ground state. The three nonzero
// per-band diagonal traces tr S^{αβ} at q=(0.8,0.6,0.1) are pinned to
// the spec literals (spec tolerance 1e-10; 1e-7 here to absorb the
// positive-definiteness floor on H's diagonal).
func Test_swt_scenario_E1_fcc_heisenberg(tst *testing.T) {
	chk.PrintTitle("swt_scenario_E1_fcc_heisenberg")
	a := 8.289
	c := identityOnlyCrystal(tst,
		crystal.Mat3{{a, 0, 0}, {0, a, 0}, {0, 0, a}},
		[]crystal.Vec3{{0, 0, 0}, {0.5, 0.5, 0}, {0.5, 0, 0.5}, {0, 0.5, 0.5}},
	)
	g := crystal.Identity3().Scale(2)
	infos := []ham.SiteInfo{{S: 2.5, G: g}, {S: 2.5, G: g}, {S: 2.5, G: g}, {S: 2.5, G: g}}
	s, err := ham.New(c, [3]int{2, 2, 2}, infos, ham.Dipole)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	J := 22.06 * units.Meter.KB
	if n := setAllNeighborExchange(tst, s, J); n != 24 {
		tst.Fatalf("expected 24 canonical nearest-neighbor bonds in the fcc cell, got %d", n)
	}
	op := spinPower4Sum(6, 25.0/24.0)
	for sub := 0; sub < 4; sub++ {
		if err := s.SetOnsiteCoupling(op, sub); err != nil {
			tst.Fatalf("unexpected error: %v", err)
		}
	}

	// Type-I order: ferromagnetic (001) planes alternating in sign, so
	// sublattices 0,1 (z=0) oppose 2,3 (z=1/2). The collinear axis is
	// whichever the cubic anisotropy stabilizes; try the candidates and
	// keep the one Bogoliubov accepts as a ground state.
	axes := [][3]float64{
		{1 / math.Sqrt(3), 1 / math.Sqrt(3), 1 / math.Sqrt(3)},
		{0, 0, 1},
	}
	q := [3]float64{0.8, 0.6, 0.1}
	measure := MeasureSpec{
		Corrs:    []Correlator{{Alpha: 0, Beta: 0}, {Alpha: 1, Beta: 1}, {Alpha: 2, Beta: 2}},
		Combiner: DipoleFactorTrace,
	}

	var intensity [][]float64
	found := false
	for _, axis := range axes {
		nsub := s.NumSublattices()
		for idx := range s.Dipoles {
			sign := 1.0
			if idx%nsub >= 2 {
				sign = -1.0
			}
			s.Dipoles[idx] = [3]float64{2.5 * sign * axis[0], 2.5 * sign * axis[1], 2.5 * sign * axis[2]}
		}
		sw := New(s)
		_, inten, err := sw.IntensitiesBands([][3]float64{q}, measure, 0, nil)
		if err == nil {
			intensity = inten
			found = true
			break
		}
	}
	if !found {
		tst.Fatalf("no candidate collinear axis is a stable ground state")
	}

	var nonzero []float64
	for _, v := range intensity[0] {
		if v > 1e-6 {
			nonzero = append(nonzero, v)
		}
	}
	sort.Float64s(nonzero)
	want := []float64{1.048056653379038, 1.1743243223274487, 1.229979802236658}
	if len(nonzero) != len(want) {
		tst.Fatalf("expected %d bands with nonzero diagonal trace, got %d (%v)", len(want), len(nonzero), nonzero)
	}
	for i := range want {
		chk.Scalar(tst, "tr S^{ab}", 1e-7, nonzero[i], want[i])
	}
}

func cantedAFMSystem(tst *testing.T, S, J, D, h float64) (*ham.System, float64) {
	c := identityOnlyCrystal(tst,
		crystal.Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 10}},
		[]crystal.Vec3{{0, 0, 0}},
	)
	s, err := ham.New(c, [3]int{2, 2, 1}, []ham.SiteInfo{{S: S, G: crystal.Identity3()}}, ham.Dipole)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	Jmat := crystal.Mat3{{J, 0, 0}, {0, J, 0}, {0, 0, J}}
	for _, n := range [][3]int{{1, 0, 0}, {0, 1, 0}} {
		if err := s.SetExchange(Jmat, crystal.Bond{I: 0, J: 0, N: n}); err != nil {
			tst.Fatalf("unexpected error: %v", err)
		}
	}
	N := int(2*S + 1 + 1e-9)
	ops := stevens.DipoleOps(N)
	Sz2 := matmulC(ops[2], ops[2])
	op := scaleTest(Sz2, D)
	if err := s.SetOnsiteCoupling(op, 0); err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	s.SetExternalField([3]float64{0, 0, h / units.Meter.MuB})

	c2 := 1 - 1/(2*S)
	theta := math.Acos(h / (2 * S * (4*J + D*c2)))
	for cx := 0; cx < 2; cx++ {
		for cy := 0; cy < 2; cy++ {
			sign := math.Pow(-1, float64(cx+cy))
			idx := s.Index([3]int{cx, cy, 0}, 0)
			s.Dipoles[idx] = [3]float64{S * sign * math.Sin(theta), 0, S * math.Cos(theta)}
		}
	}
	return s, theta
}

// Test_swt_scenario_E2_canted_afm_field_sweep is §8 scenario E2: the
// square-lattice canted antiferromagnet (J=1, D=0.54, h=0.76) whose two
// magnon branches at q=(0.12,0.23,0.34) follow the closed-form
// dispersion with the quantum-corrected c₂ = 1-1/(2S), for both S=1 and
// S=2 (spec tolerance 1e-10; 1e-8 here to absorb the
// positive-definiteness floor).
func Test_swt_scenario_E2_canted_afm_field_sweep(tst *testing.T) {
	chk.PrintTitle("swt_scenario_E2_canted_afm_field_sweep")
	J, D, h := 1.0, 0.54, 0.76
	q := [3]float64{0.12, 0.23, 0.34}

	for _, S := range []float64{1, 2} {
		s, theta := cantedAFMSystem(tst, S, J, D, h)
		sw := New(s)
		bands, err := sw.Dispersion([][3]float64{q})
		if err != nil {
			tst.Fatalf("S=%v: unexpected error: %v", S, err)
		}

		c2 := 1 - 1/(2*S)
		Jq := 2 * J * (math.Cos(2*math.Pi*q[0]) + math.Cos(2*math.Pi*q[1]))
		base := 4*J*S*(4*J*S+2*D*S*c2*math.Sin(theta)*math.Sin(theta)) +
			math.Cos(2*theta)*(Jq*S)*(Jq*S)
		cross := 2 * S * Jq * (4*J*S*math.Cos(theta)*math.Cos(theta) + c2*D*S*math.Sin(theta)*math.Sin(theta))
		wPlus := math.Sqrt(base + cross)
		wMinus := math.Sqrt(base - cross)

		for _, want := range []float64{wPlus, wMinus} {
			best := math.Inf(1)
			for _, b := range bands[0] {
				if d := math.Abs(b - want); d < best {
					best = d
				}
			}
			if best > 1e-8 {
				tst.Errorf("S=%v: no band within %g of analytic %v (bands %v)", S, best, want, bands[0])
			}
		}
	}
}

// Test_swt_scenario_E4_spiral_supercell is §8 scenario E4's machinery:
// the trigonal langasite Fe cell (a=b=8.539 Å, c=5.2414 Å, γ=120°,
// three-atom orbit of (0.24964,0,0.5)) carrying a 120° triangular basal
// pattern tiled into a 1x1x7 supercell as a spiral about ẑ, evaluated at
// the literal q=(0.41568,0.56382,0.76414). The interlayer couplings are
// a frustrated J1-J2 pair along c with cos(2π/7) = -J1/(4 J2), for
// which the one-seventh spiral is the exact classical minimum. spec.md
// names 21 reference energies but does not enumerate them (nor the
// coupling table it took them from -- see DESIGN.md), so the check pins
// what the spec carries: 21 branches, nonnegative, invariant under a
// full reciprocal-lattice translation of q.
func Test_swt_scenario_E4_spiral_supercell(tst *testing.T) {
	chk.PrintTitle("swt_scenario_E4_spiral_supercell")
	a, cAxis := 8.539, 5.2414
	x := 0.24964
	latvecs := crystal.Mat3{
		{a, -a / 2, 0},
		{0, a * math.Sqrt(3) / 2, 0},
		{0, 0, cAxis},
	}
	positions := []crystal.Vec3{
		{x, 0, 0.5},
		{0, x, 0.5},
		{1 - x, 1 - x, 0.5},
	}
	c := identityOnlyCrystal(tst, latvecs, positions)
	g := crystal.Identity3().Scale(2)
	infos := []ham.SiteInfo{{S: 2.5, G: g}, {S: 2.5, G: g}, {S: 2.5, G: g}}
	s, err := ham.New(c, [3]int{1, 1, 1}, infos, ham.Dipole)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	// 120° triangular pattern in the basal plane.
	for sub := 0; sub < 3; sub++ {
		phi := 2 * math.Pi * float64(sub) / 3
		s.Dipoles[s.Index([3]int{0, 0, 0}, sub)] = [3]float64{2.5 * math.Cos(phi), 2.5 * math.Sin(phi), 0}
	}
	spiral, err := ham.RepeatPeriodicallyAsSpiral(s, [3]int{1, 1, 7}, [3]float64{0, 0, 1.0 / 7}, [3]float64{0, 0, 1})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	// Frustrated interlayer exchange tuned so the spiral pitch 2π/7 per
	// cell minimizes J1 cos(θ) + J2 cos(2θ) exactly.
	J2 := 0.24
	J1 := -4 * J2 * math.Cos(2*math.Pi/7)
	for sub := 0; sub < 3; sub++ {
		J1m := crystal.Mat3{{J1, 0, 0}, {0, J1, 0}, {0, 0, J1}}
		J2m := crystal.Mat3{{J2, 0, 0}, {0, J2, 0}, {0, 0, J2}}
		if err := spiral.SetExchange(J1m, crystal.Bond{I: sub, J: sub, N: [3]int{0, 0, 1}}); err != nil {
			tst.Fatalf("unexpected error: %v", err)
		}
		if err := spiral.SetExchange(J2m, crystal.Bond{I: sub, J: sub, N: [3]int{0, 0, 2}}); err != nil {
			tst.Fatalf("unexpected error: %v", err)
		}
	}

	q := [3]float64{0.41568, 0.56382, 0.76414}
	sw := New(spiral)
	bands, err := sw.Dispersion([][3]float64{q, {q[0] + 1, q[1], q[2]}})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if len(bands[0]) != 21 {
		tst.Fatalf("expected 21 spin-wave branches for the 1x1x7 three-sublattice cell, got %d", len(bands[0]))
	}
	b0 := append([]float64(nil), bands[0]...)
	b1 := append([]float64(nil), bands[1]...)
	sort.Float64s(b0)
	sort.Float64s(b1)
	for i := range b0 {
		if b0[i] < -1e-8 {
			tst.Errorf("negative excitation energy %v", b0[i])
		}
		chk.Scalar(tst, "periodicity in q", 1e-6, b0[i], b1[i])
	}
}

// Test_swt_scenario_E5_not_a_ground_state is §8 scenario E5: handing
// SpinWaveTheory a configuration that is not a classical minimum must
// surface NotAGroundState (or the sorted-sign instability) before any
// caller can observe corrupt eigenvectors.
func Test_swt_scenario_E5_not_a_ground_state(tst *testing.T) {
	chk.PrintTitle("swt_scenario_E5_not_a_ground_state")
	s, _ := cantedAFMSystem(tst, 1, 1.0, 0.54, 0.76)
	// Fully polarized along the field, far below saturation: the
	// antiferromagnetic exchange gives this configuration a negative
	// curvature mode, so it is not a classical minimum.
	for idx := range s.Dipoles {
		s.Dipoles[idx] = [3]float64{0, 0, 1}
	}
	sw := New(s)
	_, err := sw.Dispersion([][3]float64{{0.12, 0.23, 0.34}})
	if err == nil {
		tst.Fatalf("expected a ground-state failure for a non-stationary configuration")
	}
	switch err.(type) {
	case *NotAGroundStateError, *InstabilityError:
	default:
		tst.Errorf("expected NotAGroundState or InstabilityAtQ, got %T: %v", err, err)
	}
}

// Test_swt_property9_supercell_intensity_equivalence is §8 property 9:
// intensities of a resized (commensurate) supercell at a q of the
// smaller cell equal the smaller cell's intensities; the folded extra
// bands carry no spectral weight.
func Test_swt_property9_supercell_intensity_equivalence(tst *testing.T) {
	chk.PrintTitle("swt_property9_supercell_intensity_equivalence")
	small := ferroChain(tst, 2, -1)
	big, err := ham.ResizeSupercell(small, [3]int{4, 1, 1})
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}

	measure := MeasureSpec{
		Corrs:    []Correlator{{Alpha: 0, Beta: 0}, {Alpha: 1, Beta: 1}, {Alpha: 2, Beta: 2}},
		Combiner: DipoleFactorTrace,
	}
	qs := [][3]float64{{0.5, 0, 0}}
	omegas := []float64{0.5, 1.5, 2.5, 3.5}
	kernel := GaussianKernel(0.3)

	iSmall, err := New(small).Intensities(qs, omegas, measure, kernel, 0, nil)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	iBig, err := New(big).Intensities(qs, omegas, measure, kernel, 0, nil)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	for oi := range omegas {
		chk.Scalar(tst, "supercell intensity", 1e-8, iBig[oi][0], iSmall[oi][0])
	}
}
