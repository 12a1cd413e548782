// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kpm

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/swt"
	"gonum.org/v1/gonum/mat"
)

// Plan owns the per-(q)-reusable scratch state for one KPM evaluation:
// the spin-wave context it draws H(q) and observable vectors from, plus
// the kernel width and truncation tolerance that set the Chebyshev
// order (§4.10).
type Plan struct {
	SW   *swt.SWT
	FWHM float64
	Tol  float64
}

// New builds a Plan. fwhm sets the target energy resolution and tol the
// Chebyshev truncation tolerance (§4.10's factor = max(-3 log10(tol),1)).
func New(sw *swt.SWT, fwhm, tol float64) *Plan {
	return &Plan{SW: sw, FWHM: fwhm, Tol: tol}
}

// chebyshevMoments returns alpha_0..alpha_{M-1}, the Chebyshev vector
// sequence of §4.10: alpha_0 = Itilde*u, alpha_1 = Htilde*alpha_0,
// alpha_{m+1} = 2*Htilde*alpha_m - alpha_{m-1}. Htilde = 2*Itilde*H/gamma
// is the rescaled dynamical operator: the spectrum of 2*Itilde*H is the
// physical +-omega band structure (it is similar to 2*K*Itilde*K^dagger,
// whose eigenvalues are the signed Bogoliubov energies), so the moments
// place spectral weight at the same energies Diagonalize reports.
func chebyshevMoments(H *mat.CDense, gamma float64, order int, u []complex128) [][]complex128 {
	n, _ := H.Dims()
	L := n / 2
	out := make([][]complex128, order)

	a0 := make([]complex128, n)
	for i := 0; i < n; i++ {
		sign := 1.0
		if i >= L {
			sign = -1.0
		}
		a0[i] = complex(sign, 0) * u[i]
	}
	out[0] = a0
	if order == 1 {
		return out
	}
	a1 := htildeMul(H, gamma, a0)
	out[1] = a1
	for m := 1; m < order-1; m++ {
		next := htildeMul(H, gamma, out[m])
		for i := range next {
			next[i] = 2*next[i] - out[m-1][i]
		}
		out[m+1] = next
	}
	return out
}

func htildeMul(H *mat.CDense, gamma float64, v []complex128) []complex128 {
	w := matvec(H, v)
	n := len(w)
	L := n / 2
	inv := complex(2/gamma, 0)
	for i := range w {
		if i >= L {
			w[i] = -w[i]
		}
		w[i] *= inv
	}
	return w
}

// jacksonKernel returns the Jackson damping coefficients g_0..g_{M-1}
// that suppress Gibbs oscillations in the truncated Chebyshev series.
func jacksonKernel(order int) []float64 {
	g := make([]float64, order)
	Mp1 := float64(order + 1)
	cot := math.Cos(math.Pi/Mp1) / math.Sin(math.Pi/Mp1)
	for k := 0; k < order; k++ {
		kf := float64(k)
		g[k] = ((Mp1-kf)*math.Cos(math.Pi*kf/Mp1) + math.Sin(math.Pi*kf/Mp1)*cot) / Mp1
	}
	return g
}

// dctIICoefficients samples f at the order Chebyshev-Gauss nodes
// x_m = gamma*cos(pi*(m+1/2)/order) and returns the type-II DCT
// coefficients c_0..c_{order-1} of §4.10, normalized so that
// sum_k g_k c_k T_k(x/gamma) reconstructs f(x) directly (the 1/order,
// 2/order weighting is folded in here rather than at the contraction
// step).
func dctIICoefficients(order int, gamma float64, f func(x float64) float64) []float64 {
	samples := make([]float64, order)
	for m := 0; m < order; m++ {
		theta := math.Pi * (float64(m) + 0.5) / float64(order)
		x := gamma * math.Cos(theta)
		samples[m] = f(x)
	}
	c := make([]float64, order)
	for k := 0; k < order; k++ {
		var acc float64
		for m := 0; m < order; m++ {
			theta := math.Pi * (float64(m) + 0.5) / float64(order)
			acc += samples[m] * math.Cos(float64(k)*theta)
		}
		weight := 2.0 / float64(order)
		if k == 0 {
			weight = 1.0 / float64(order)
		}
		c[k] = weight * acc
	}
	return c
}

// Intensities evaluates I(q,ω) for every ω in omegas and every requested
// correlator, using the Chebyshev/KPM expansion of §4.10 instead of an
// explicit Bogoliubov diagonalization.
func (p *Plan) Intensities(q [3]float64, omegas []float64, corrs []swt.Correlator, kernel swt.Kernel, kT float64) (map[swt.Correlator][]float64, error) {
	H := p.SW.HamiltonianAt(q)
	lo, hi := LanczosBounds(H, 10)
	// The dynamical operator is 2*Itilde*H; its spectrum is bounded in
	// magnitude by twice H's, so the Lanczos bounds double.
	gamma := 2 * Gamma(lo, hi)
	order := Order(gamma, p.FWHM, p.Tol)
	gk := jacksonKernel(order)

	ncells := float64(p.SW.Sys.NumCells())

	betas := map[int]bool{}
	for _, c := range corrs {
		betas[c.Beta] = true
	}
	alphaMoments := map[int][][]complex128{} // beta -> alpha_m sequence
	for beta := range betas {
		u := p.SW.ObservableVector(q, beta)
		alphaMoments[beta] = chebyshevMoments(H, gamma, order, u)
	}

	uAlphaCache := map[int][]complex128{}
	uAlpha := func(alpha int) []complex128 {
		if v, ok := uAlphaCache[alpha]; ok {
			return v
		}
		v := p.SW.ObservableVector(q, alpha)
		uAlphaCache[alpha] = v
		return v
	}

	momentScalars := map[swt.Correlator][]float64{}
	for _, c := range corrs {
		seq := alphaMoments[c.Beta]
		ua := uAlpha(c.Alpha)
		vals := make([]float64, order)
		for m := 0; m < order; m++ {
			vals[m] = real(innerProduct(ua, seq[m]))
		}
		momentScalars[c] = vals
	}

	out := make(map[swt.Correlator][]float64, len(corrs))
	for _, c := range corrs {
		vals := make([]float64, len(omegas))
		moments := momentScalars[c]
		for oi, omega := range omegas {
			coeffs := dctIICoefficients(order, gamma, func(x float64) float64 {
				return kernel(x-omega, omega) * swt.ThermalPrefactor(x, kT)
			})
			var I float64
			for k := 0; k < order; k++ {
				I += gk[k] * coeffs[k] * moments[k]
			}
			vals[oi] = I / ncells
		}
		out[c] = vals
	}
	return out, nil
}
