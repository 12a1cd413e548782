// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coupling

import "github.com/MagSims/FastDipole-sub000/crystal"

// AllSymmetryRelatedCouplings propagates a reference coupling Jref,
// assigned to bond bRef, to every bond in bRef's orbit: for each orbit
// member b it finds the first (s,pi) in the symops table mapping bRef to
// b (or reverse(b)) and returns R_s*Jref*R_s^T (transposed if pi=-1),
// implementing the "apply the first matching symmetry operation" rule of
// §4.1's set_exchange!.
func AllSymmetryRelatedCouplings(c *crystal.Crystal, bRef crystal.Bond, Jref crystal.Mat3) map[crystal.Bond]crystal.Mat3 {
	out := map[crystal.Bond]crystal.Mat3{}
	for _, b := range c.Orbit(bRef) {
		ss, ok := c.OrbitFirstOp(bRef, b)
		if !ok {
			continue
		}
		R := c.CartesianR(ss.S)
		img := R.Mul(Jref).Mul(R.T())
		if ss.Sign < 0 {
			img = img.T()
		}
		out[b] = img
	}
	return out
}
