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

// Langevin advances sys.Dipoles by dt under ds = s×B dt − λ s×(s×B) dt +
// sqrt(2λkT) s×ξ dt (§4.6), with B = −∇E: one explicit forward step of
// the precession, damping and noise terms together, after which each
// dipole is rescaled to its kappa. No implicit-midpoint iteration is
// done. In SU(N) mode the kick is instead projected onto the tangent
// hyperplane of each ket.
func Langevin(sys *ham.System, dt, damping, kT float64) {
	if sys.Mode == ham.SUN {
		langevinSUN(sys, dt, damping, kT)
		return
	}
	n := len(sys.Dipoles)
	grad := make([][3]float64, n)
	classical.SetEnergyGradDipoles(grad, sys)

	next := make([][3]float64, n)
	for i, s := range sys.Dipoles {
		sv := crystal.Vec3(s)
		B := crystal.Vec3{-grad[i][0], -grad[i][1], -grad[i][2]}
		precession := sv.Cross(B)
		damp := sv.Cross(sv.Cross(B)).Scale(-damping)
		sigma := 0.0
		if damping > 0 && kT > 0 {
			sigma = math.Sqrt(2 * damping * kT)
		}
		xi := crystal.Vec3{sys.RNG.Normal(), sys.RNG.Normal(), sys.RNG.Normal()}
		noise := sv.Cross(xi).Scale(sigma)

		ds := precession.Add(damp).Add(noise)
		cand := [3]float64{s[0] + dt*ds[0], s[1] + dt*ds[1], s[2] + dt*ds[2]}
		next[i] = cand
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

