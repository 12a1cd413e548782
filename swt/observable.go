// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swt

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ham"
)

// ObservableVector returns the length-2L Nambu-basis weight vector u_alpha
// such that the lab-frame spin operator S^alpha_q = u_alpha^dagger . Psi,
// Psi = (b_1..b_L, b_1†..b_L†)^T, to linear Holstein-Primakoff order
// (§4.8.1's general observable tensor collapsed to the single dipole-mode
// boson flavor, see Open Question decision 6). alpha is 0,1,2 for x,y,z.
// Used directly by kpm's Chebyshev moment recursion, which needs the raw
// operator rather than its projection onto Bogoliubov bands (the latter
// is what BandIntensities computes instead).
func (s *SWT) ObservableVector(q [3]float64, alpha int) []complex128 {
	L := s.L
	u := make([]complex128, 2*L)
	if s.Sys.Mode == ham.SUN {
		for site := 0; site < s.NSites; site++ {
			sd := s.Sun[site]
			cell := cellOf(s.Sys, site)
			r := crystal.CellOffsetVec3(cell).Add(s.Sys.Crystal.Positions[sd.Sub])
			phase := cmplxPhase(2 * math.Pi * dot3(q, [3]float64(r)))
			for m := 1; m < sd.N; m++ {
				row := s.RowOffset[site] + m - 1
				u[row] = phase * sd.Obs[alpha].At(0, m)
				u[L+row] = phase * sd.Obs[alpha].At(m, 0)
			}
		}
		return u
	}
	// HP linear-order coefficients of b_i (particle) and b_i† (hole) in
	// the local-frame transverse spin operators.
	for i := 0; i < L; i++ {
		sub := subOf(s.Sys, i)
		S := s.Sys.SiteInfos[sub].S
		root := math.Sqrt(S / 2)
		cxP, cxH := complex(root, 0), complex(root, 0)
		cyP, cyH := complex(0, -root), complex(0, root)

		R := s.Frames[i]
		var wP, wH complex128
		switch alpha {
		case 0:
			wP = complex(R[0][0], 0)*cxP + complex(R[1][0], 0)*cyP
			wH = complex(R[0][0], 0)*cxH + complex(R[1][0], 0)*cyH
		case 1:
			wP = complex(R[0][1], 0)*cxP + complex(R[1][1], 0)*cyP
			wH = complex(R[0][1], 0)*cxH + complex(R[1][1], 0)*cyH
		default:
			wP = complex(R[0][2], 0)*cxP + complex(R[1][2], 0)*cyP
			wH = complex(R[0][2], 0)*cxH + complex(R[1][2], 0)*cyH
		}

		cell := cellOf(s.Sys, i)
		r := crystal.CellOffsetVec3(cell).Add(s.Sys.Crystal.Positions[sub])
		phase := cmplxPhase(2 * math.Pi * dot3(q, [3]float64(r)))

		u[i] = phase * wP
		u[L+i] = phase * wH
	}
	return u
}
