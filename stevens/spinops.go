// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stevens implements the Stevens-operator expansion of a
// single-ion anisotropy (§4.2): construction of the spin operators for a
// local Hilbert space of dimension N=2S+1, the recursive "standard
// form" construction of the rank-k (k=2,4,6) tensor operator basis,
// decomposition of an arbitrary Hermitian operator into real Stevens
// coefficients, and the classical (large-S) evaluation used by the
// classical energy/force engine.
package stevens

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// SpinOps returns the (2S+1)x(2S+1) matrices Jz, J+, J- for spin
// S=(N-1)/2, in the standard |S,m> basis ordered m = S, S-1, ..., -S
// (index 0 is the stretched state |S,S>).
func SpinOps(N int) (Jz, Jp, Jm *mat.CDense) {
	if N < 1 {
		chk.Panic("stevens.SpinOps: N must be >= 1, got %d", N)
	}
	S := float64(N-1) / 2
	Jz = mat.NewCDense(N, N, nil)
	Jp = mat.NewCDense(N, N, nil)
	Jm = mat.NewCDense(N, N, nil)
	for i := 0; i < N; i++ {
		m := S - float64(i)
		Jz.Set(i, i, complex(m, 0))
	}
	for i := 0; i < N-1; i++ {
		mRow := S - float64(i)   // bra <m|
		mCol := S - float64(i+1) // ket |m-1>, since row index increases as m decreases
		// J+|m-1> = sqrt(S(S+1)-(m-1)(m-1+1)) |m>
		coef := math.Sqrt(S*(S+1) - mCol*(mCol+1))
		Jp.Set(i, i+1, complex(coef, 0))
		// J-|m> = sqrt(S(S+1)-m(m-1)) |m-1>
		coef2 := math.Sqrt(S*(S+1) - mRow*(mRow-1))
		Jm.Set(i+1, i, complex(coef2, 0))
	}
	return
}
