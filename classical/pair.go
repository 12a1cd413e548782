// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package classical

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ham"
)

// pairEnergy returns one PairCoupling's contribution at endpoint i (site
// idx, sublattice isub) against its bonded partner at site jdx
// (sublattice jsub): bilinear, mode-specific biquadratic, and (SUN only)
// general sparse-tensor terms, per §4.5.
func pairEnergy(sys *ham.System, pc ham.PairCoupling, idx, jdx, isub, jsub int) float64 {
	E := 0.0
	if sys.Mode == ham.SUN {
		// Bilinear exchange acts through the expected dipoles, which the
		// SU(N) samplers and integrators keep synced to the coherents.
		si := crystal.Vec3(sys.Dipoles[idx])
		sj := crystal.Vec3(sys.Dipoles[jdx])
		E += si.Dot(pc.BilinMat.MulVec(sj))
		for _, term := range pc.General {
			ai := realQuadraticForm(term.A, sys.Coherents[idx])
			bj := realQuadraticForm(term.B, sys.Coherents[jdx])
			E += ai * bj
		}
		return E
	}

	si := crystal.Vec3(sys.Dipoles[idx])
	sj := crystal.Vec3(sys.Dipoles[jdx])
	E += si.Dot(pc.BilinMat.MulVec(sj))

	if pc.HasBiquad {
		sdot := si.Dot(sj)
		if sys.Mode == ham.LargeS {
			E += pc.Biquad * sdot * sdot
		} else {
			S := biquadS(sys.SiteInfos[isub].S, sys.SiteInfos[jsub].S)
			r := biquadRenorm(S)
			E += pc.Biquad * r * sdot * sdot
		}
	}
	return E
}

func biquadS(si, sj float64) float64 {
	return math.Sqrt(si * sj)
}

// biquadRenorm returns r = 1 - 1/S + 1/(4S^2), the dipole-mode biquadratic
// renormalization of §4.5.
func biquadRenorm(S float64) float64 {
	return 1 - 1/S + 1/(4*S*S)
}
