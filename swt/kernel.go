// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swt

import "math"

// Kernel broadens a band's contribution to I(q,ω); it must integrate to
// 1 over ω for fixed band energy ωb (§4.9).
type Kernel func(domega, omegaB float64) float64

// DeltaKernel is the unbroadened limit: it returns +Inf when domega is
// exactly 0 and 0 otherwise, so it does not integrate to 1 and Broaden
// with it is infinite (or NaN for a zero-intensity band) exactly at a
// band energy and 0 elsewhere. Unbroadened per-band data come from
// BandIntensities, which takes no kernel.
func DeltaKernel(domega, omegaB float64) float64 {
	if domega == 0 {
		return math.Inf(1)
	}
	return 0
}

// LorentzianKernel returns (Γ/π)/(Δω²+Γ²).
func LorentzianKernel(gamma float64) Kernel {
	return func(domega, omegaB float64) float64 {
		return (gamma / math.Pi) / (domega*domega + gamma*gamma)
	}
}

// GaussianKernel returns a normalized Gaussian of width sigma centered on
// the band energy.
func GaussianKernel(sigma float64) Kernel {
	norm := 1 / (sigma * math.Sqrt(2*math.Pi))
	return func(domega, omegaB float64) float64 {
		return norm * math.Exp(-0.5*domega*domega/(sigma*sigma))
	}
}

// Broaden evaluates I(q,ω) = Σ_b kernel(ω−ω_b, ω_b) · intensity_b for one
// ω, given the band energies and intensities at a single q (§4.9).
func Broaden(omega float64, bandOmegas, bandIntensities []float64, kernel Kernel) float64 {
	I := 0.0
	for b, wb := range bandOmegas {
		I += kernel(omega-wb, wb) * bandIntensities[b]
	}
	return I
}

// ThermalPrefactor returns |1+n_B(ω)| = |1/(1-e^{-ω/kT})|, with the
// zero-ω limit resolved per §4.9: 1 for ω>0 (by continuity from above),
// 0 for ω<0, and the literal kT->0 limit treated as T=0 occupation.
func ThermalPrefactor(omega, kT float64) float64 {
	if kT <= 0 {
		if omega > 0 {
			return 1
		}
		return 0
	}
	denom := 1 - math.Exp(-omega/kT)
	if math.Abs(denom) < 1e-12 {
		if omega > 0 {
			return 1
		}
		return 0
	}
	return math.Abs(1 / denom)
}
