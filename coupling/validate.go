// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coupling

import (
	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/cpmech/gosl/la"
)

// frobeniusNorm is the Frobenius norm of m, computed as the Euclidean
// norm of its flattened entries via la.VecNorm.
func frobeniusNorm(m crystal.Mat3) float64 {
	flat := make([]float64, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			flat[3*i+j] = m[i][j]
		}
	}
	return la.VecNorm(flat)
}

// IsCouplingValid reports whether J (a 3x3 exchange matrix assigned to
// bond b) is compatible with b's self-symmetry group: for every (s,pi) in
// G_b, ||R_s*J*R_s^T - target|| < symprec, where target is J for pi=+1
// and J^T for pi=-1. This is the acceptance test used by SetExchange
// before it accepts a user-supplied coupling (§4.1, §7's
// SymmetryViolation error).
func IsCouplingValid(c *crystal.Crystal, b crystal.Bond, J crystal.Mat3) bool {
	for _, ss := range c.SelfSymmetries(b) {
		R := c.CartesianR(ss.S)
		img := R.Mul(J).Mul(R.T())
		target := J
		if ss.Sign < 0 {
			target = J.T()
		}
		if frobeniusNorm(img.Sub(target)) >= c.SymPrec {
			return false
		}
	}
	return true
}
