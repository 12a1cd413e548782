// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ewald

import "github.com/MagSims/FastDipole-sub000/crystal"

// Moment is a flattened per-(cell,sublattice) magnetic moment field in
// the same row-major layout as ham.System's grids (cellIndex*nsub+sub),
// expressed in physical units (mu_B * g * spin), not bare spin.
type Moment [][3]float64

func (e *Ewald) ncells() int { return e.Latsize[0] * e.Latsize[1] * e.Latsize[2] }

func (e *Ewald) ahatIndex(cellIdx, i, j, a, b int) int {
	return ((cellIdx*e.nsub+i)*e.nsub+j)*9 + a*3 + b
}

// buildAhat Fourier-transforms the real-space tensor once per Ewald
// instance (cached for the life of the handle, rebuilt only by New --
// §9's "FFT plans are not clonable... rebuild rather than copy").
func (e *Ewald) buildAhat() []complex128 {
	n := e.ncells()
	ahat := make([]complex128, n*e.nsub*e.nsub*9)
	for i := 0; i < e.nsub; i++ {
		for j := 0; j < e.nsub; j++ {
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					for c0 := 0; c0 < e.Latsize[0]; c0++ {
						for c1 := 0; c1 < e.Latsize[1]; c1++ {
							for c2 := 0; c2 < e.Latsize[2]; c2++ {
								cellIdx := (c0*e.Latsize[1]+c1)*e.Latsize[2] + c2
								ahat[e.ahatIndex(cellIdx, i, j, a, b)] = complex(e.Tensor[e.tensorIndex([3]int{c0, c1, c2}, i, j)][a][b], 0)
							}
						}
					}
					e.plans.forward3D(ahat, e.nsub*e.nsub*9, (i*e.nsub+j)*9+a*3+b)
				}
			}
		}
	}
	return ahat
}

// Field returns phi[site] = sum_j sum_Δcell A(Δcell,i,j) mu_j(cell-Δcell),
// the periodic dipole field produced by moment configuration mu, computed
// via the cached Fourier-transformed tensor and a per-call FFT of mu.
func (e *Ewald) Field(mu Moment) [][3]float64 {
	if e.ahat == nil {
		e.ahat = e.buildAhat()
	}
	n := e.ncells()
	stride := e.nsub * 3
	muHat := make([]complex128, n*stride)
	for idx, m := range mu {
		for a := 0; a < 3; a++ {
			muHat[idx*3+a] = complex(m[a], 0)
		}
	}
	for s := 0; s < e.nsub; s++ {
		for a := 0; a < 3; a++ {
			e.plans.forward3D(muHat, stride, s*3+a)
		}
	}

	phiHat := make([]complex128, n*stride)
	for cellIdx := 0; cellIdx < n; cellIdx++ {
		for i := 0; i < e.nsub; i++ {
			for a := 0; a < 3; a++ {
				var acc complex128
				for j := 0; j < e.nsub; j++ {
					for b := 0; b < 3; b++ {
						acc += e.ahat[e.ahatIndex(cellIdx, i, j, a, b)] * muHat[(cellIdx*e.nsub+j)*3+b]
					}
				}
				phiHat[(cellIdx*e.nsub+i)*3+a] = acc
			}
		}
	}
	for s := 0; s < e.nsub; s++ {
		for a := 0; a < 3; a++ {
			e.plans.inverse3D(phiHat, stride, s*3+a)
		}
	}

	out := make([][3]float64, n*e.nsub)
	norm := float64(n)
	for idx := range out {
		for a := 0; a < 3; a++ {
			out[idx][a] = real(phiHat[idx*3+a]) / norm
		}
	}
	return out
}

// Energy returns E = 1/2 sum_site mu[site].Field(mu)[site], the total
// dipole-dipole energy of §4.3.
func (e *Ewald) Energy(mu Moment) float64 {
	phi := e.Field(mu)
	E := 0.0
	for idx, m := range mu {
		E += m[0]*phi[idx][0] + m[1]*phi[idx][1] + m[2]*phi[idx][2]
	}
	return 0.5 * E
}

// Delta returns the energy change from replacing the moment at flattened
// grid index site (whose sublattice is sub) with newMu, holding every
// other site's moment fixed (§4.3's single-site delta formula): dE =
// Δmu.phi[site] + 1/2 Δmu . A[0,i,i] . Δmu, where phi is evaluated at the
// OLD configuration and A[0,i,i] is the same-cell self-interaction
// tensor.
func (e *Ewald) Delta(mu Moment, site, sub int, newMu [3]float64) float64 {
	phi := e.Field(mu)
	old := mu[site]
	dmu := crystal.Vec3{newMu[0] - old[0], newMu[1] - old[1], newMu[2] - old[2]}
	linear := dmu[0]*phi[site][0] + dmu[1]*phi[site][1] + dmu[2]*phi[site][2]
	A0 := e.Tensor[e.tensorIndex([3]int{0, 0, 0}, sub, sub)]
	Adv := A0.MulVec(dmu)
	quad := dmu.Dot(Adv)
	return linear + 0.5*quad
}
