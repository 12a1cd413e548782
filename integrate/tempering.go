// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/classical"
	"github.com/MagSims/FastDipole-sub000/ham"
)

// ReplicaLabel is the per-replica state machine of §4.7: UNLABELED until
// the walker first reaches an extremal temperature bath, then UP/DOWN
// tracking which extremum it most recently visited.
type ReplicaLabel int

const (
	Unlabeled ReplicaLabel = iota
	Up
	Down
)

// Walker is one Monte Carlo trajectory (its own System and tempering
// label); which temperature bath it currently sits in is implicit in its
// slot index within the []Walker passed to ExchangeStep.
type Walker struct {
	Sys   *ham.System
	Label ReplicaLabel
}

// ExchangeStep attempts one odd/even-alternating pairwise swap across
// slots (ordered by increasing beta, i.e. decreasing temperature, so
// slot 0 is hottest and slot n-1 is coldest), using acceptance
// min(1, exp((β_r−β_{r+1})(E_{r+1}−E_r))) (§4.7). oddPass selects
// (0,1),(2,3),... vs (1,2),(3,4),... to keep the exchange irreversible
// but balanced. After any swaps, walkers occupying the hottest/coldest
// slot are labeled DOWN/UP and every other walker keeps its label,
// matching the "transitions flip on the opposite extremum" rule.
func ExchangeStep(betas []float64, walkers []Walker, oddPass bool, uniform01 func() float64) {
	n := len(walkers)
	start := 0
	if oddPass {
		start = 1
	}
	for r := start; r+1 < n; r += 2 {
		e0 := classical.Energy(walkers[r].Sys)
		e1 := classical.Energy(walkers[r+1].Sys)
		dBeta := betas[r] - betas[r+1]
		logP := dBeta * (e1 - e0)
		if logP >= 0 || math.Log(uniform01()) < logP {
			walkers[r], walkers[r+1] = walkers[r+1], walkers[r]
		}
	}
	if n > 0 {
		walkers[0].Label = Down
		walkers[n-1].Label = Up
	}
}

// FeedbackTemperatures computes new inverse-temperature bin boundaries
// from a measured round-trip flux profile f (monotone, f[0]=0,
// f[n-1]=1) over the current beta grid, using the feedback-optimized
// scheme of §4.7: η(β) = sqrt((Δf/Δβ)/Δβ), redistributing bins so each
// carries equal ∫η dβ.
func FeedbackTemperatures(betas []float64, flux []float64) []float64 {
	n := len(betas)
	if n < 2 || len(flux) != n {
		return append([]float64(nil), betas...)
	}
	eta := make([]float64, n-1)
	cum := make([]float64, n)
	for i := 0; i < n-1; i++ {
		dBeta := betas[i+1] - betas[i]
		dFlux := flux[i+1] - flux[i]
		if dBeta == 0 {
			eta[i] = 0
		} else {
			eta[i] = math.Sqrt(math.Abs(dFlux/dBeta) / math.Abs(dBeta))
		}
		cum[i+1] = cum[i] + eta[i]*math.Abs(dBeta)
	}
	total := cum[n-1]
	out := make([]float64, n)
	out[0] = betas[0]
	out[n-1] = betas[n-1]
	if total == 0 {
		copy(out, betas)
		return out
	}
	j := 0
	for i := 1; i < n-1; i++ {
		target := total * float64(i) / float64(n-1)
		for j < n-2 && cum[j+1] < target {
			j++
		}
		span := cum[j+1] - cum[j]
		frac := 0.0
		if span > 0 {
			frac = (target - cum[j]) / span
		}
		out[i] = betas[j] + frac*(betas[j+1]-betas[j])
	}
	return out
}
