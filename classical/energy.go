// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package classical implements the classical (dipole/largeS) and SU(N)
// coherent-state energy functional of §4.5: Zeeman, single-ion
// anisotropy, and per-bond bilinear/biquadratic/general pair terms,
// plus the single-site local_energy_change shortcut the Monte Carlo and
// dynamical integrators drive their proposals through.
package classical

import (
	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ewald"
	"github.com/MagSims/FastDipole-sub000/ham"
)

// Energy returns the total classical energy of sys (§4.5's `energy`):
// summed over every cell and sublattice, the Zeeman, anisotropy, and
// per-bond contributions, plus the Ewald dipole-dipole term when sys
// carries an Ewald handle.
func Energy(sys *ham.System) float64 {
	E := 0.0
	nsub := sys.NumSublattices()
	for cx := 0; cx < sys.Latsize[0]; cx++ {
		for cy := 0; cy < sys.Latsize[1]; cy++ {
			for cz := 0; cz < sys.Latsize[2]; cz++ {
				cell := [3]int{cx, cy, cz}
				for sub := 0; sub < nsub; sub++ {
					E += siteEnergy(sys, cell, sub)
				}
			}
		}
	}
	if e, ok := sys.Ewald.(*ewald.Ewald); ok && e != nil {
		E += e.Energy(dipoleMoments(sys))
	}
	return E
}

// dipoleMoments converts sys.Dipoles (bare spin vectors) into physical
// magnetic moments g·s scaled by the Bohr magneton, in the System's unit
// convention, for consumption by the Ewald engine.
func dipoleMoments(sys *ham.System) ewald.Moment {
	nsub := sys.NumSublattices()
	mu := make(ewald.Moment, len(sys.Dipoles))
	for cx := 0; cx < sys.Latsize[0]; cx++ {
		for cy := 0; cy < sys.Latsize[1]; cy++ {
			for cz := 0; cz < sys.Latsize[2]; cz++ {
				for sub := 0; sub < nsub; sub++ {
					idx := sys.Index([3]int{cx, cy, cz}, sub)
					gs := sys.SiteInfos[sub].G.MulVec(crystal.Vec3(sys.Dipoles[idx]))
					mu[idx] = [3]float64{sys.Units.MuB * gs[0], sys.Units.MuB * gs[1], sys.Units.MuB * gs[2]}
				}
			}
		}
	}
	return mu
}

// siteEnergy returns site (cell,sub)'s Zeeman, anisotropy, and own
// pair-bond contributions. Only the canonical (non-culled) direction of
// each bond is stored uncancelled, so a physical bond is counted exactly
// once, at whichever endpoint its canonical PairCoupling lives (§4.5's
// `!pc.isculled` guard).
func siteEnergy(sys *ham.System, cell [3]int, sub int) float64 {
	idx := sys.Index(cell, sub)
	info := sys.SiteInfos[sub]
	it := sys.InteractionsAt(cell, sub)

	E := zeeman(sys, idx, info)
	E += anisotropyEnergy(sys, it, idx, sub)

	for _, pc := range it.Pair {
		if pc.IsCulled {
			continue
		}
		jCell := wrapCell(addOffset(cell, pc.Bond.N), sys.Latsize)
		jIdx := sys.Index(jCell, pc.Bond.J)
		E += pairEnergy(sys, pc, idx, jIdx, sub, pc.Bond.J)
	}
	return E
}

// zeeman returns -mu_B B·(g s), §4.5's Zeeman term for a single site.
func zeeman(sys *ham.System, idx int, info ham.SiteInfo) float64 {
	gs := info.G.MulVec(crystal.Vec3(sys.Dipoles[idx]))
	B := sys.ExtField[idx]
	return -sys.Units.MuB * dot3(B, [3]float64{gs[0], gs[1], gs[2]})
}

func addOffset(cell, n [3]int) [3]int {
	return [3]int{cell[0] + n[0], cell[1] + n[1], cell[2] + n[2]}
}

func wrapCell(cell, latsize [3]int) [3]int {
	return [3]int{wrap(cell[0], latsize[0]), wrap(cell[1], latsize[1]), wrap(cell[2], latsize[2])}
}

func wrap(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

func dot3(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
