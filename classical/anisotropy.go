// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package classical

import (
	"github.com/MagSims/FastDipole-sub000/ham"
	"github.com/MagSims/FastDipole-sub000/stevens"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// anisotropyEnergy returns the single-ion anisotropy contribution at site
// idx (sublattice sub): the classical coherent-state energy of §4.2 in
// dipole/largeS mode, or Re<Z|Lambda|Z> in SUN mode, per §4.5.
func anisotropyEnergy(sys *ham.System, it *ham.Interactions, idx, sub int) float64 {
	if sys.Mode == ham.SUN {
		if it.OnsiteQuantum == nil {
			return 0
		}
		return realQuadraticForm(it.OnsiteQuantum, sys.Coherents[idx])
	}
	if it.OnsiteClassical == (stevens.Expansion{}) {
		return 0
	}
	E, _, err := it.OnsiteClassical.EnergyAndGradient(sys.Ns[sub], sys.Dipoles[idx])
	if err != nil {
		// §7: every onsite coupling was validated at set_* time, so a
		// rotation-operator failure here is an internal invariant
		// violation, not a recoverable caller error.
		chk.Panic("classical: onsite anisotropy evaluation failed on a validated System: %v", err)
	}
	return E
}

// anisotropyGradient returns dE/ds (dipole/largeS) of the onsite term at
// site idx, used by set_energy_grad_dipoles!.
func anisotropyGradient(sys *ham.System, it *ham.Interactions, idx, sub int) [3]float64 {
	if it.OnsiteClassical == (stevens.Expansion{}) {
		return [3]float64{}
	}
	_, grad, err := it.OnsiteClassical.EnergyAndGradient(sys.Ns[sub], sys.Dipoles[idx])
	if err != nil {
		chk.Panic("classical: onsite anisotropy gradient failed on a validated System: %v", err)
	}
	return grad
}

func realQuadraticForm(lam *mat.CDense, z []complex128) float64 {
	n, _ := lam.Dims()
	var e complex128
	for i := 0; i < n; i++ {
		var row complex128
		for j := 0; j < n; j++ {
			row += lam.At(i, j) * z[j]
		}
		e += cconj(z[i]) * row
	}
	return real(e)
}

func cconj(z complex128) complex128 { return complex(real(z), -imag(z)) }
