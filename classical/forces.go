// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package classical

import "github.com/MagSims/FastDipole-sub000/ham"

// Forces returns the per-site effective field B = -dE/ds (§6's
// `forces(sys)`), one entry per flattened (cell,sublattice) index in the
// same layout as sys.Dipoles. Valid in dipole/largeS mode; SU(N) systems
// should instead read off SetEnergyGradCoherents's HZ (used directly by
// the integrators, since an SU(N) "force" has no single per-site vector
// analogue).
func Forces(sys *ham.System) [][3]float64 {
	grad := make([][3]float64, len(sys.Dipoles))
	SetEnergyGradDipoles(grad, sys)
	out := make([][3]float64, len(grad))
	for i, g := range grad {
		out[i] = [3]float64{-g[0], -g[1], -g[2]}
	}
	return out
}
