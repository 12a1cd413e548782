// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package classical

import (
	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ewald"
	"github.com/MagSims/FastDipole-sub000/ham"
)

// SetEnergyGradDipoles accumulates dE/ds into grad (one entry per flattened
// (cell,sublattice) index, same layout as sys.Dipoles), so the caller
// builds the effective field B = -grad (§4.5's `set_energy_grad_dipoles!`).
// Valid in dipole and largeS mode.
func SetEnergyGradDipoles(grad [][3]float64, sys *ham.System) {
	for i := range grad {
		grad[i] = [3]float64{}
	}
	nsub := sys.NumSublattices()
	for cx := 0; cx < sys.Latsize[0]; cx++ {
		for cy := 0; cy < sys.Latsize[1]; cy++ {
			for cz := 0; cz < sys.Latsize[2]; cz++ {
				cell := [3]int{cx, cy, cz}
				for sub := 0; sub < nsub; sub++ {
					idx := sys.Index(cell, sub)
					info := sys.SiteInfos[sub]
					it := sys.InteractionsAt(cell, sub)

					zg := info.G.T().MulVec(crystal.Vec3(sys.ExtField[idx]))
					grad[idx][0] -= sys.Units.MuB * zg[0]
					grad[idx][1] -= sys.Units.MuB * zg[1]
					grad[idx][2] -= sys.Units.MuB * zg[2]

					ag := anisotropyGradient(sys, it, idx, sub)
					grad[idx][0] += ag[0]
					grad[idx][1] += ag[1]
					grad[idx][2] += ag[2]

					for _, pc := range it.Pair {
						if pc.IsCulled {
							continue
						}
						jCell := wrapCell(addOffset(cell, pc.Bond.N), sys.Latsize)
						jIdx := sys.Index(jCell, pc.Bond.J)
						addPairGradient(sys, pc, grad, idx, jIdx, sub, pc.Bond.J)
					}
				}
			}
		}
	}
	if e, ok := sys.Ewald.(*ewald.Ewald); ok && e != nil {
		addEwaldGradient(sys, e, grad)
	}
}

// addPairGradient adds dE/dsi = J sj (+ biquadratic) to grad[i] and
// dE/dsj = J^T si (+ biquadratic) to grad[j], the two-sided accumulation
// needed because only one of a bond's two directions is stored unculled.
func addPairGradient(sys *ham.System, pc ham.PairCoupling, grad [][3]float64, idx, jdx, isub, jsub int) {
	si := crystal.Vec3(sys.Dipoles[idx])
	sj := crystal.Vec3(sys.Dipoles[jdx])

	Jsj := pc.BilinMat.MulVec(sj)
	JTsi := pc.BilinMat.T().MulVec(si)
	for a := 0; a < 3; a++ {
		grad[idx][a] += Jsj[a]
		grad[jdx][a] += JTsi[a]
	}

	if !pc.HasBiquad {
		return
	}
	sdot := si.Dot(sj)
	coeff := 2 * pc.Biquad * sdot
	if sys.Mode != ham.LargeS {
		S := biquadS(sys.SiteInfos[isub].S, sys.SiteInfos[jsub].S)
		coeff *= biquadRenorm(S)
	}
	for a := 0; a < 3; a++ {
		grad[idx][a] += coeff * sj[a]
		grad[jdx][a] += coeff * si[a]
	}
}

// addEwaldGradient adds the dipole-dipole contribution mu_B g^T phi, where
// phi = e.Field(mu) is the Ewald field of the moments mu =
// dipoleMoments(sys): the gradient of 1/2 mu.A.mu with respect to the
// bare spin (the g-tensor and mu_B factors fold in by the chain rule).
func addEwaldGradient(sys *ham.System, e *ewald.Ewald, grad [][3]float64) {
	phi := e.Field(dipoleMoments(sys))
	nsub := sys.NumSublattices()
	for cx := 0; cx < sys.Latsize[0]; cx++ {
		for cy := 0; cy < sys.Latsize[1]; cy++ {
			for cz := 0; cz < sys.Latsize[2]; cz++ {
				for sub := 0; sub < nsub; sub++ {
					idx := sys.Index([3]int{cx, cy, cz}, sub)
					gphi := sys.SiteInfos[sub].G.T().MulVec(crystal.Vec3(phi[idx]))
					grad[idx][0] += sys.Units.MuB * gphi[0]
					grad[idx][1] += sys.Units.MuB * gphi[1]
					grad[idx][2] += sys.Units.MuB * gphi[2]
				}
			}
		}
	}
}
