// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swt

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/crystal"
)

// MeasureSpec selects which correlators BandIntensities's output is
// folded into a single scalar intensity per band (§3's MeasureSpec
// entity): an ordered list of (alpha,beta) correlator pairs and a
// combiner mapping a q-point and that band's corr[(alpha,beta)] values
// to one real number.
type MeasureSpec struct {
	Corrs    []Correlator
	Combiner func(q [3]float64, corr map[Correlator]float64) float64
}

// DipoleFactorTrace is the unpolarized-neutron combiner used when Corrs
// is exactly the three diagonal correlators {(0,0),(1,1),(2,2)}: it
// returns their unweighted sum, matching §8 scenario E1's "three
// nonzero diagonal tr S^{alpha,beta}" testable property (no q-dependent
// dipole-factor projection is applied here, since E1/E2 report the raw
// diagonal trace, not the polarization-factor-contracted powder
// average; callers wanting the full (delta_ab - qhat_a qhat_b)
// projection should supply their own Combiner).
func DipoleFactorTrace(q [3]float64, corr map[Correlator]float64) float64 {
	sum := 0.0
	for _, v := range corr {
		sum += v
	}
	return sum
}

// qCartesianNorm converts a q-point in reciprocal-lattice units to its
// Cartesian magnitude (1/Angstrom), for use as the argument to a
// magnetic form factor f(|q|).
func qCartesianNorm(c *crystal.Crystal, q [3]float64) float64 {
	G := reciprocalLattice(c.Latvecs)
	v := G.MulVec(crystal.Vec3(q))
	return v.Norm()
}

func reciprocalLattice(L crystal.Mat3) crystal.Mat3 {
	Linv := L.Inverse()
	LinvT := Linv.T()
	out := crystal.Mat3{}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = 2 * math.Pi * LinvT[i][j]
		}
	}
	return out
}

// IntensitiesBands evaluates BandIntensities at every q in qpoints and
// folds each band's correlator set through measure.Combiner, optionally
// scaled by formFactor(|q|)^2 when non-nil (§6's
// `intensities_bands(swt, qpoints) -> (dispersion, intensity)`).
// Returns dispersion[qi] = band energies at qpoints[qi] and
// intensity[qi] = combined per-band intensity at qpoints[qi].
func (s *SWT) IntensitiesBands(qpoints [][3]float64, measure MeasureSpec, kT float64, formFactor func(qNorm float64) float64) (dispersion [][]float64, intensity [][]float64, err error) {
	dispersion = make([][]float64, len(qpoints))
	intensity = make([][]float64, len(qpoints))
	for qi, q := range qpoints {
		energies, corr, err2 := s.BandIntensities(q, measure.Corrs, kT)
		if err2 != nil {
			return nil, nil, err2
		}
		dispersion[qi] = energies

		ff2 := 1.0
		if formFactor != nil {
			qNorm := qCartesianNorm(s.Sys.Crystal, q)
			f := formFactor(qNorm)
			ff2 = f * f
		}

		bandI := make([]float64, s.L)
		for b := 0; b < s.L; b++ {
			perBand := make(map[Correlator]float64, len(measure.Corrs))
			for _, c := range measure.Corrs {
				perBand[c] = corr[c][b]
			}
			bandI[b] = ff2 * measure.Combiner(q, perBand)
		}
		intensity[qi] = bandI
	}
	return dispersion, intensity, nil
}

// Intensities evaluates I(q,omega) over every (q,omega) pair by
// broadening IntensitiesBands's per-band output with kernel (§6's
// `intensities(swt, qpoints; energies, kernel, formfactors, kT)`).
// Returns a grid indexed [omega-index][q-index], matching §6's "array
// indexed by (omega,q)".
func (s *SWT) Intensities(qpoints [][3]float64, omegas []float64, measure MeasureSpec, kernel Kernel, kT float64, formFactor func(qNorm float64) float64) ([][]float64, error) {
	dispersion, bandI, err := s.IntensitiesBands(qpoints, measure, kT, formFactor)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(omegas))
	for oi, om := range omegas {
		row := make([]float64, len(qpoints))
		for qi := range qpoints {
			row[qi] = Broaden(om, dispersion[qi], bandI[qi], kernel)
		}
		out[oi] = row
	}
	return out, nil
}
