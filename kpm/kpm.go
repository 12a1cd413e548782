// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kpm expands the kernel-weighted spin-wave spectral density in
// Chebyshev polynomials of the rescaled Bogoliubov-de Gennes Hamiltonian
// (§4.10), avoiding an explicit diagonalization for large systems.
package kpm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// LanczosBounds runs steps iterations of Hermitian Lanczos starting from
// a fixed, deterministic unit vector (every call with the same H and
// steps reproduces the same bound, matching §7's reproducibility
// requirement for the tempering/KPM paths) and returns the extremal
// eigenvalues of the resulting real tridiagonal matrix, an upper/lower
// bound on H's spectrum (§4.10's "10-step Lanczos bounds").
func LanczosBounds(H *mat.CDense, steps int) (lo, hi float64) {
	n, _ := H.Dims()
	if steps > n {
		steps = n
	}
	v := make([]complex128, n)
	norm := 1 / math.Sqrt(float64(n))
	for i := range v {
		v[i] = complex(norm, 0)
	}

	alpha := make([]float64, steps)
	beta := make([]float64, steps) // beta[i] links v_i to v_{i+1}; beta[0] unused
	vPrev := make([]complex128, n)

	for k := 0; k < steps; k++ {
		w := matvec(H, v)
		a := real(innerProduct(v, w))
		alpha[k] = a
		for i := range w {
			w[i] -= complex(a, 0) * v[i]
			if k > 0 {
				w[i] -= complex(beta[k-1], 0) * vPrev[i]
			}
		}
		b := vectorNorm(w)
		if k+1 < steps {
			beta[k] = b
		}
		if b < 1e-13 {
			steps = k + 1
			break
		}
		copy(vPrev, v)
		for i := range w {
			v[i] = w[i] / complex(b, 0)
		}
	}

	T := mat.NewSymDense(steps, nil)
	for i := 0; i < steps; i++ {
		T.SetSym(i, i, alpha[i])
		if i+1 < steps {
			T.SetSym(i, i+1, beta[i])
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(T, false) {
		return -1, 1
	}
	vals := eig.Values(nil)
	lo, hi = vals[0], vals[0]
	for _, e := range vals {
		if e < lo {
			lo = e
		}
		if e > hi {
			hi = e
		}
	}
	return lo, hi
}

func matvec(H *mat.CDense, v []complex128) []complex128 {
	n, _ := H.Dims()
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		var acc complex128
		for j := 0; j < n; j++ {
			acc += H.At(i, j) * v[j]
		}
		out[i] = acc
	}
	return out
}

func innerProduct(a, b []complex128) complex128 {
	var acc complex128
	for i := range a {
		acc += complex(real(a[i]), -imag(a[i])) * b[i]
	}
	return acc
}

func vectorNorm(v []complex128) float64 {
	var acc float64
	for _, z := range v {
		acc += real(z)*real(z) + imag(z)*imag(z)
	}
	return math.Sqrt(acc)
}

// Gamma returns the Chebyshev rescaling radius of §4.10: 1.1 times the
// larger-magnitude Lanczos bound.
func Gamma(lo, hi float64) float64 {
	m := math.Abs(lo)
	if math.Abs(hi) > m {
		m = math.Abs(hi)
	}
	return 1.1 * m
}

// Order returns the Chebyshev expansion order M of §4.10, M = ceil(factor
// * 2*gamma/fwhm), factor = max(-3*log10(tol), 1).
func Order(gamma, fwhm, tol float64) int {
	factor := -3 * math.Log10(tol)
	if factor < 1 {
		factor = 1
	}
	m := math.Ceil(factor * 2 * gamma / fwhm)
	if m < 1 {
		m = 1
	}
	return int(m)
}
