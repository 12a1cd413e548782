// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"math"
	"math/cmplx"

	"github.com/MagSims/FastDipole-sub000/classical"
	"github.com/MagSims/FastDipole-sub000/ham"
	"github.com/MagSims/FastDipole-sub000/stevens"
)

// implicitMidpointSUN advances sys.Coherents by dt: solve
// iZ' = iZ + dt*H_eff((Z'+Z)/2)*(Z'+Z)/2 by fixed-point iteration, then
// renormalize each ket to unit norm (§4.6's SU(N) branch).
func implicitMidpointSUN(sys *ham.System, dt float64) {
	n := len(sys.Coherents)
	prev := make([][]complex128, n)
	next := make([][]complex128, n)
	mid := make([][]complex128, n)
	for i, z := range sys.Coherents {
		prev[i] = append([]complex128(nil), z...)
		next[i] = append([]complex128(nil), z...)
		mid[i] = make([]complex128, len(z))
	}

	HZ := make([][]complex128, n)
	scratch := sys.Clone()

	for iter := 0; iter < 100; iter++ {
		for i := range mid {
			for k := range mid[i] {
				mid[i][k] = 0.5 * (next[i][k] + prev[i][k])
			}
			copy(scratch.Coherents[i], mid[i])
		}
		classical.SyncExpectedDipoles(scratch)
		classical.SetEnergyGradCoherents(HZ, scratch)

		maxDiff := 0.0
		for i := range next {
			diff := 0.0
			for k := range next[i] {
				cand := prev[i][k] + complex(0, -dt)*HZ[i][k]
				d := cand - next[i][k]
				diff += real(d)*real(d) + imag(d)*imag(d)
				next[i][k] = cand
			}
			if d := math.Sqrt(diff); d > maxDiff {
				maxDiff = d
			}
		}
		if maxDiff < 1e-12*dt {
			break
		}
	}

	for i := range next {
		normalizeKet(next[i])
		copy(sys.Coherents[i], next[i])
	}
	classical.SyncExpectedDipoles(sys)
}

// langevinSUN advances sys.Coherents by dt with a damping-noise pair
// projected onto the tangent hyperplane of the unit-norm ket (§4.6).
func langevinSUN(sys *ham.System, dt, damping, kT float64) {
	n := len(sys.Coherents)
	HZ := make([][]complex128, n)
	classical.SetEnergyGradCoherents(HZ, sys)

	sigma := 0.0
	if damping > 0 && kT > 0 {
		sigma = math.Sqrt(2 * damping * kT)
	}

	for i, Z := range sys.Coherents {
		N := len(Z)
		// Tangent projection P v = v - (Z^dag v) Z.
		proj := func(v []complex128) []complex128 {
			var overlap complex128
			for k := 0; k < N; k++ {
				overlap += cmplx.Conj(Z[k]) * v[k]
			}
			out := make([]complex128, N)
			for k := 0; k < N; k++ {
				out[k] = v[k] - overlap*Z[k]
			}
			return out
		}

		damp := proj(HZ[i])
		xi := make([]complex128, N)
		for k := 0; k < N; k++ {
			xi[k] = complex(sys.RNG.Normal(), sys.RNG.Normal())
		}
		noise := proj(xi)

		for k := 0; k < N; k++ {
			Z[k] += dt * (complex(0, -1)*HZ[i][k] - complex(damping, 0)*damp[k] + complex(sigma, 0)*noise[k])
		}
		normalizeKet(Z)
	}
	classical.SyncExpectedDipoles(sys)
}

// proposeKet returns a candidate coherent ket for site idx under the
// given proposal kind (§4.7's SU(N) proposals): uniform on the unit
// sphere of C^N, the time-reversal ket flip, or a renormalized small
// perturbation of width sigma.
func proposeKet(sys *ham.System, idx, sub int, kind Proposal, sigma float64) []complex128 {
	N := sys.Ns[sub]
	cur := sys.Coherents[idx]
	switch kind {
	case ProposalFlip:
		return stevens.FlipKet(N, cur)
	case ProposalDelta:
		out := make([]complex128, N)
		for k := 0; k < N; k++ {
			out[k] = cur[k] + complex(sigma*sys.RNG.Normal(), sigma*sys.RNG.Normal())
		}
		normalizeKet(out)
		return out
	default:
		out := make([]complex128, N)
		for k := 0; k < N; k++ {
			out[k] = complex(sys.RNG.Normal(), sys.RNG.Normal())
		}
		normalizeKet(out)
		return out
	}
}

func normalizeKet(z []complex128) {
	s := 0.0
	for _, v := range z {
		s += real(v)*real(v) + imag(v)*imag(v)
	}
	nrm := math.Sqrt(s)
	if nrm < 1e-300 {
		return
	}
	for k := range z {
		z[k] /= complex(nrm, 0)
	}
}
