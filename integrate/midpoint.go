// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/classical"
	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ham"
)

// ImplicitMidpoint advances sys.Dipoles by dt using the norm-preserving
// implicit midpoint scheme of §4.6: solve s' = s + dt*(s'+s)/2 x
// B((s'+s)/2) by fixed-point iteration, then renormalize s' to the
// site's kappa. In SU(N) mode, advances sys.Coherents by the analogous
// ket fixed-point iteration instead.
func ImplicitMidpoint(sys *ham.System, dt float64) {
	if sys.Mode == ham.SUN {
		implicitMidpointSUN(sys, dt)
		return
	}
	n := len(sys.Dipoles)
	prev := make([][3]float64, n)
	copy(prev, sys.Dipoles)
	next := make([][3]float64, n)
	copy(next, sys.Dipoles)

	grad := make([][3]float64, n)
	mid := make([][3]float64, n)
	scratch := sys.Clone()

	for iter := 0; iter < 100; iter++ {
		for i := range mid {
			mid[i] = [3]float64{
				0.5 * (next[i][0] + prev[i][0]),
				0.5 * (next[i][1] + prev[i][1]),
				0.5 * (next[i][2] + prev[i][2]),
			}
		}
		copy(scratch.Dipoles, mid)
		classical.SetEnergyGradDipoles(grad, scratch)

		maxDiff := 0.0
		for i := range next {
			B := crystal.Vec3{-grad[i][0], -grad[i][1], -grad[i][2]}
			mv := crystal.Vec3(mid[i])
			torque := mv.Cross(B)
			cand := [3]float64{prev[i][0] + dt*torque[0], prev[i][1] + dt*torque[1], prev[i][2] + dt*torque[2]}
			d := [3]float64{cand[0] - next[i][0], cand[1] - next[i][1], cand[2] - next[i][2]}
			dn := math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
			if dn > maxDiff {
				maxDiff = dn
			}
			next[i] = cand
		}
		if maxDiff < 1e-12*dt {
			break
		}
	}

	for i, kappa := range sys.Kappas {
		v := crystal.Vec3(next[i])
		nrm := v.Norm()
		if nrm < 1e-300 {
			continue
		}
		sys.Dipoles[i] = v.Scale(kappa / nrm)
	}
}
