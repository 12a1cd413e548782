// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package classical

import (
	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ewald"
	"github.com/MagSims/FastDipole-sub000/ham"
	"github.com/MagSims/FastDipole-sub000/stevens"
	"github.com/cpmech/gosl/chk"
)

// LocalEnergyChange returns the scalar energy difference from replacing
// the dipole at flattened grid index idx (cell, sublattice sub) with
// proposed, holding every other site fixed (§4.5's
// `local_energy_change`): Zeeman and anisotropy evaluated at old and new,
// the per-bond bilinear term `dot(Δs, J, s_j)` plus the mode-specific
// biquadratic delta, and the Ewald delta via the Ewald engine when
// present.
func LocalEnergyChange(sys *ham.System, cell [3]int, sub int, proposed [3]float64) float64 {
	idx := sys.Index(cell, sub)
	info := sys.SiteInfos[sub]
	it := sys.InteractionsAt(cell, sub)
	old := sys.Dipoles[idx]

	dE := 0.0

	oldGs := info.G.MulVec(crystal.Vec3(old))
	newGs := info.G.MulVec(crystal.Vec3(proposed))
	B := sys.ExtField[idx]
	dE -= sys.Units.MuB * dot3(B, [3]float64{newGs[0] - oldGs[0], newGs[1] - oldGs[1], newGs[2] - oldGs[2]})

	if it.OnsiteClassical != (stevens.Expansion{}) {
		E0, _, err0 := it.OnsiteClassical.EnergyAndGradient(sys.Ns[sub], old)
		E1, _, err1 := it.OnsiteClassical.EnergyAndGradient(sys.Ns[sub], proposed)
		if err0 != nil || err1 != nil {
			chk.Panic("classical: onsite anisotropy delta failed on a validated System: %v %v", err0, err1)
		}
		dE += E1 - E0
	}

	delta := crystal.Vec3{proposed[0] - old[0], proposed[1] - old[1], proposed[2] - old[2]}
	for _, pc := range it.Pair {
		jCell := wrapCell(addOffset(cell, pc.Bond.N), sys.Latsize)
		jIdx := sys.Index(jCell, pc.Bond.J)
		sj := crystal.Vec3(sys.Dipoles[jIdx])

		dE += delta.Dot(pc.BilinMat.MulVec(sj))

		if pc.HasBiquad {
			oldDot := crystal.Vec3(old).Dot(sj)
			newDot := crystal.Vec3(proposed).Dot(sj)
			r := 1.0
			if sys.Mode != ham.LargeS {
				r = biquadRenorm(biquadS(sys.SiteInfos[sub].S, sys.SiteInfos[pc.Bond.J].S))
			}
			dE += pc.Biquad * r * (newDot*newDot - oldDot*oldDot)
		}
	}

	if e, ok := sys.Ewald.(*ewald.Ewald); ok && e != nil {
		newMu := [3]float64{sys.Units.MuB * newGs[0], sys.Units.MuB * newGs[1], sys.Units.MuB * newGs[2]}
		dE += e.Delta(dipoleMoments(sys), idx, sub, newMu)
	}

	return dE
}
