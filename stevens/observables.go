// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stevens

import (
	"sync"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

var dipoleOpsCache sync.Map // int -> [3]*mat.CDense

// DipoleOps returns the Cartesian spin operators Sx, Sy, Sz for a local
// Hilbert space of dimension N, in the same m-descending basis as
// SpinOps. The triple is cached per N: these matrices are read on every
// coherent-gradient evaluation and every SU(N) spin-wave assembly.
func DipoleOps(N int) [3]*mat.CDense {
	if v, ok := dipoleOpsCache.Load(N); ok {
		return v.([3]*mat.CDense)
	}
	Jz, Jp, Jm := SpinOps(N)
	Sx := scaleC(addC(Jp, Jm), complex(0.5, 0))
	Sy := scaleC(subC(Jp, Jm), complex(0, -0.5))
	ops := [3]*mat.CDense{Sx, Sy, Jz}
	dipoleOpsCache.Store(N, ops)
	return ops
}

// ExpectedSpin returns <Z|S|Z>, the classical dipole carried by the
// coherent ket Z (§3's invariant `dipoles = kappa*<Z|S|Z>` in SU(N)
// mode).
func ExpectedSpin(N int, Z []complex128) [3]float64 {
	if len(Z) != N {
		chk.Panic("stevens.ExpectedSpin: ket has length %d, expected %d", len(Z), N)
	}
	ops := DipoleOps(N)
	var out [3]float64
	for a := 0; a < 3; a++ {
		var e complex128
		for i := 0; i < N; i++ {
			var row complex128
			for j := 0; j < N; j++ {
				row += ops[a].At(i, j) * Z[j]
			}
			e += cconj(Z[i]) * row
		}
		out[a] = real(e)
	}
	return out
}

// FlipKet returns exp(-i*pi*Sy) * conj(Z), the time-reversal ket flip
// used as the SU(N) analogue of negating a dipole (§4.7). The expected
// spin of the result is the negative of Z's.
func FlipKet(N int, Z []complex128) []complex128 {
	U := flipOperator(N)
	out := make([]complex128, N)
	for i := 0; i < N; i++ {
		var acc complex128
		for j := 0; j < N; j++ {
			acc += U.At(i, j) * cconj(Z[j])
		}
		out[i] = acc
	}
	return out
}

var flipOpCache sync.Map // int -> *mat.CDense

func flipOperator(N int) *mat.CDense {
	if v, ok := flipOpCache.Load(N); ok {
		return v.(*mat.CDense)
	}
	// A pi rotation about y maps z -> -z, x -> -x.
	Ry := [3][3]float64{{-1, 0, 0}, {0, 1, 0}, {0, 0, -1}}
	U, err := RotationOperator(N, Ry)
	if err != nil {
		chk.Panic("stevens.flipOperator: %v", err)
	}
	flipOpCache.Store(N, U)
	return U
}
