// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ewald precomputes the periodic dipole-dipole interaction
// tensor of §4.3 by a real-space + reciprocal-space Ewald sum with a
// Gaussian splitting parameter, and convolves it with a magnetic-moment
// field via FFT to evaluate the dipole-dipole energy, its gradient, and
// single-site energy deltas.
package ewald

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/crystal"
)

// Ewald owns the precomputed tensor A[Δcell,i,j] (one crystal.Mat3 per
// flattened (Δcell,i,j) triple), the supercell geometry it was built for,
// and the FFT plans used by Field (and through it Energy and Delta)
// (§3's Ewald entity).
type Ewald struct {
	Crystal *crystal.Crystal
	Latsize [3]int
	Mu0     float64
	Sigma   float64

	nsub   int
	Tensor []crystal.Mat3  // indexed by tensorIndex(Δcell,i,j)
	ahat   []complex128    // lazily built Fourier-transformed tensor, see energy.go

	plans fftPlans
}

// TensorAt returns the precomputed interaction tensor A[Δcell,i,j];
// Δcell is wrapped into the supercell.
func (e *Ewald) TensorAt(dcell [3]int, i, j int) crystal.Mat3 {
	return e.Tensor[e.tensorIndex(dcell, i, j)]
}

func (e *Ewald) tensorIndex(dcell [3]int, i, j int) int {
	c0 := wrapMod(dcell[0], e.Latsize[0])
	c1 := wrapMod(dcell[1], e.Latsize[1])
	c2 := wrapMod(dcell[2], e.Latsize[2])
	return ((((c0*e.Latsize[1]+c1)*e.Latsize[2]+c2)*e.nsub)+i)*e.nsub + j
}

func wrapMod(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

// New precomputes the Ewald tensor for the given crystal replicated
// latsize times, using vacuum permeability mu0 (units-system dependent,
// §6's numeric constants).
func New(c *crystal.Crystal, latsize [3]int, mu0 float64) (*Ewald, error) {
	nsub := len(c.Positions)
	Lsuper := superLattice(c.Latvecs, latsize)
	V := math.Abs(Lsuper.Det())
	sigma := math.Cbrt(V) / 3

	e := &Ewald{
		Crystal: c,
		Latsize: latsize,
		Mu0:     mu0,
		Sigma:   sigma,
		nsub:    nsub,
	}
	e.Tensor = make([]crystal.Mat3, latsize[0]*latsize[1]*latsize[2]*nsub*nsub)

	Gsuper := reciprocalLattice(Lsuper)

	for c0 := 0; c0 < latsize[0]; c0++ {
		for c1 := 0; c1 < latsize[1]; c1++ {
			for c2 := 0; c2 < latsize[2]; c2++ {
				dcell := [3]int{c0, c1, c2}
				for i := 0; i < nsub; i++ {
					for j := 0; j < nsub; j++ {
						delta := crystal.CellOffsetVec3(dcell).Add(c.Positions[j]).Sub(c.Positions[i])
						deltaCart := c.Latvecs.MulVec(delta)
						e.Tensor[e.tensorIndex(dcell, i, j)] = tensorAt(deltaCart, Lsuper, Gsuper, V, sigma, mu0)
					}
				}
			}
		}
	}
	e.plans = newFFTPlans(latsize)
	return e, nil
}

func superLattice(L crystal.Mat3, latsize [3]int) crystal.Mat3 {
	var out crystal.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = L[i][j] * float64(latsizeAt(latsize, j))
		}
	}
	return out
}

func latsizeAt(latsize [3]int, j int) int { return latsize[j] }

func reciprocalLattice(L crystal.Mat3) crystal.Mat3 {
	Linv := L.Inverse()
	twoPi := 2 * math.Pi
	return Linv.T().Scale(twoPi)
}

// tensorAt evaluates A_{alpha,beta}(Δr) per §4.3's real+reciprocal sum
// plus the Δr=0 self term.
func tensorAt(deltaCart crystal.Vec3, Lsuper, Gsuper crystal.Mat3, V, sigma, mu0 float64) crystal.Mat3 {
	rmax := 6 * math.Sqrt2 * sigma
	kmax := 6 * math.Sqrt2 / sigma
	nmax := neighborRange(Lsuper, rmax)
	mmax := neighborRange(Gsuper, kmax)

	var A crystal.Mat3
	for n0 := -nmax[0]; n0 <= nmax[0]; n0++ {
		for n1 := -nmax[1]; n1 <= nmax[1]; n1++ {
			for n2 := -nmax[2]; n2 <= nmax[2]; n2++ {
				nvec := Lsuper.MulVec(crystal.Vec3{float64(n0), float64(n1), float64(n2)})
				r := deltaCart.Add(nvec)
				rn := r.Norm()
				if rn < 1e-12 || rn > rmax {
					continue
				}
				g0 := math.Sqrt(2/math.Pi) * (rn / sigma) * math.Exp(-rn*rn/(2*sigma*sigma))
				erfc := math.Erfc(rn / (math.Sqrt2 * sigma))
				r3 := rn * rn * rn
				for a := 0; a < 3; a++ {
					for b := 0; b < 3; b++ {
						delta := 0.0
						if a == b {
							delta = 1
						}
						rhat := r[a] * r[b] / (rn * rn)
						term := (mu0 / (4 * math.Pi)) * ((erfc+g0)/r3*delta - (3*rhat/r3)*(erfc+(1+rn*rn/(3*sigma*sigma))*g0))
						A[a][b] += term
					}
				}
			}
		}
	}

	for m0 := -mmax[0]; m0 <= mmax[0]; m0++ {
		for m1 := -mmax[1]; m1 <= mmax[1]; m1++ {
			for m2 := -mmax[2]; m2 <= mmax[2]; m2++ {
				if m0 == 0 && m1 == 0 && m2 == 0 {
					continue
				}
				k := Gsuper.MulVec(crystal.Vec3{float64(m0), float64(m1), float64(m2)})
				kn := k.Norm()
				if kn > kmax {
					continue
				}
				phase := math.Cos(k.Dot(deltaCart))
				pref := (mu0 / V) * math.Exp(-sigma*sigma*kn*kn/2) / (kn * kn)
				for a := 0; a < 3; a++ {
					for b := 0; b < 3; b++ {
						A[a][b] += pref * k[a] * k[b] * phase
					}
				}
			}
		}
	}

	if deltaCart.Norm() < 1e-12 {
		self := -mu0 / (3 * math.Pow(2*math.Pi, 1.5) * sigma * sigma * sigma)
		A[0][0] += self
		A[1][1] += self
		A[2][2] += self
	}
	return A
}

func neighborRange(L crystal.Mat3, rmax float64) [3]int {
	Linv := L.Inverse()
	var out [3]int
	for i := 0; i < 3; i++ {
		row := crystal.Vec3{Linv[0][i], Linv[1][i], Linv[2][i]}
		out[i] = int(math.Ceil(rmax*row.Norm())) + 1
	}
	return out
}
