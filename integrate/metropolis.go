// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/classical"
	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ham"
	"github.com/MagSims/FastDipole-sub000/stevens"
)

// Proposal names one of §4.7's local proposal kinds.
type Proposal int

const (
	ProposalUniform Proposal = iota
	ProposalFlip
	ProposalDelta
)

// propose returns a candidate dipole for site idx under the given
// proposal kind; ProposalDelta perturbs by width sigma and renormalizes
// to the site's current length.
func propose(sys *ham.System, idx int, kind Proposal, sigma float64) [3]float64 {
	cur := sys.Dipoles[idx]
	kappa := sys.Kappas[idx]
	switch kind {
	case ProposalFlip:
		return [3]float64{-cur[0], -cur[1], -cur[2]}
	case ProposalDelta:
		n := crystal.Vec3{cur[0] + sigma*sys.RNG.Normal(), cur[1] + sigma*sys.RNG.Normal(), cur[2] + sigma*sys.RNG.Normal()}
		nrm := n.Norm()
		if nrm < 1e-300 {
			return cur
		}
		return n.Scale(kappa / nrm)
	default:
		v := sys.RNG.UniformSphere()
		return [3]float64{kappa * v[0], kappa * v[1], kappa * v[2]}
	}
}

// MetropolisSweep attempts one local-update proposal per site (in
// lattice order), accepting with probability min(1, exp(-ΔE/kT)) using
// classical.LocalEnergyChange, and returns the number of accepted moves
// (§4.7).
func MetropolisSweep(sys *ham.System, kind Proposal, sigma, kT float64) int {
	accepted := 0
	nsub := sys.NumSublattices()
	for cx := 0; cx < sys.Latsize[0]; cx++ {
		for cy := 0; cy < sys.Latsize[1]; cy++ {
			for cz := 0; cz < sys.Latsize[2]; cz++ {
				cell := [3]int{cx, cy, cz}
				for sub := 0; sub < nsub; sub++ {
					idx := sys.Index(cell, sub)
					if sys.Mode == ham.SUN {
						cand := proposeKet(sys, idx, sub, kind, sigma)
						dE := classical.LocalEnergyChangeKet(sys, cell, sub, cand)
						if accept(sys, dE, kT) {
							copy(sys.Coherents[idx], cand)
							sys.Dipoles[idx] = stevens.ExpectedSpin(sys.Ns[sub], cand)
							accepted++
						}
						continue
					}
					cand := propose(sys, idx, kind, sigma)
					dE := classical.LocalEnergyChange(sys, cell, sub, cand)
					if accept(sys, dE, kT) {
						sys.Dipoles[idx] = cand
						accepted++
					}
				}
			}
		}
	}
	return accepted
}

func accept(sys *ham.System, dE, kT float64) bool {
	if dE <= 0 {
		return true
	}
	if kT <= 0 {
		return false
	}
	p := math.Exp(-dE / kT)
	return sys.RNG.Float64() < p
}
