// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swt

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ham"
)

// Correlator names one (alpha,beta) Cartesian pair of the spin structure
// factor S^{alpha,beta}(q,ω).
type Correlator struct{ Alpha, Beta int }

// BandIntensities returns, for wavevector q, the per-band energies and
// the per-correlator per-band intensities corr[(α,β)][band] =
// A_α(band) A_β(band)* / N_cells, thermal-weighted (§4.9/§4.10). No
// magnetic form factor is applied here; IntensitiesBands applies it. The per-site observable A_mu(q) is built from the linear
// Holstein-Primakoff transverse components s_local^x,y rotated back to
// the lab frame by R_i^T, summed with the Bloch phase exp(i q . r_i).
func (s *SWT) BandIntensities(q [3]float64, corrs []Correlator, kT float64) ([]float64, map[Correlator][]float64, error) {
	H := s.HamiltonianAt(q)
	bog, err := Diagonalize(H)
	if err != nil {
		return nil, nil, err
	}
	L := s.L
	ncells := float64(s.Sys.NumCells())

	A := make(map[int][]complex128, len(corrs))
	for _, c := range []int{0, 1, 2} {
		A[c] = make([]complex128, L)
	}
	for band := 0; band < L; band++ {
		var Ax, Ay, Az complex128
		if s.Sys.Mode == ham.SUN {
			Ax, Ay, Az = s.sunBandAmplitude(q, bog.T, band)
			A[0][band] = Ax
			A[1][band] = Ay
			A[2][band] = Az
			continue
		}
		for i := 0; i < L; i++ {
			sub := subOf(s.Sys, i)
			S := s.Sys.SiteInfos[sub].S
			cell := cellOf(s.Sys, i)
			r := crystal.CellOffsetVec3(cell).Add(s.Sys.Crystal.Positions[sub])
			phase := cmplxPhase(2 * math.Pi * dot3(q, [3]float64(r)))

			u := bog.T.At(i, band)
			v := bog.T.At(L+i, band)
			sx := math.Sqrt(S/2) * (u + v)
			sy := complex(0, -math.Sqrt(S/2)) * (u - v)

			R := s.Frames[i]
			// lab-frame s^alpha = sum_beta (R_i^T)_{alpha,beta} s_local^beta, beta in {x,y}.
			Ax += phase * (complex(R[0][0], 0)*sx + complex(R[1][0], 0)*sy)
			Ay += phase * (complex(R[0][1], 0)*sx + complex(R[1][1], 0)*sy)
			Az += phase * (complex(R[0][2], 0)*sx + complex(R[1][2], 0)*sy)
		}
		A[0][band] = Ax
		A[1][band] = Ay
		A[2][band] = Az
	}

	out := make(map[Correlator][]float64, len(corrs))
	for _, c := range corrs {
		vals := make([]float64, L)
		for band := 0; band < L; band++ {
			prod := A[c.Alpha][band] * cmplxConj(A[c.Beta][band])
			thermal := ThermalPrefactor(bog.Energies[band], kT)
			vals[band] = real(prod) / ncells * thermal
		}
		out[c] = vals
	}
	return bog.Energies, out, nil
}
