// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stevens

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CoherentState returns the spin-coherent ket for a classical spin
// direction dir (need not be normalized): the rotation of the stretched
// state |S,S> (index 0 in our m-descending convention) onto dir.
func CoherentState(N int, dir [3]float64) ([]complex128, error) {
	n := normalize3(dir)
	R := rotationAligningZTo(n)
	U, err := RotationOperator(N, R)
	if err != nil {
		return nil, err
	}
	ket := make([]complex128, N)
	for i := 0; i < N; i++ {
		ket[i] = U.At(i, 0)
	}
	return ket, nil
}

// LocalFrame returns the rotation matrix R with R*dir = +z (up to the
// normalization of dir), the local-frame rotation swt's dipole-mode
// Hamiltonian assembly applies to each site's classical moment (§4.8).
func LocalFrame(dir [3]float64) [3][3]float64 {
	return transpose3(rotationAligningZTo(normalize3(dir)))
}

func transpose3(r [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[j][i] = r[i][j]
		}
	}
	return out
}

func normalize3(v [3]float64) [3]float64 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n < 1e-300 {
		return [3]float64{0, 0, 1}
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}

// rotationAligningZTo returns a rotation matrix mapping +z onto the unit
// vector n (any such rotation; we take the minimal-angle one).
func rotationAligningZTo(n [3]float64) [3][3]float64 {
	z := [3]float64{0, 0, 1}
	dot := z[0]*n[0] + z[1]*n[1] + z[2]*n[2]
	if dot > 1-1e-12 {
		return identity3()
	}
	if dot < -1+1e-12 {
		// 180 degree rotation about any axis perpendicular to z, e.g. x.
		return [3][3]float64{{1, 0, 0}, {0, -1, 0}, {0, 0, -1}}
	}
	axis := [3]float64{z[1]*n[2] - z[2]*n[1], z[2]*n[0] - z[0]*n[2], z[0]*n[1] - z[1]*n[0]}
	al := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	axis = [3]float64{axis[0] / al, axis[1] / al, axis[2] / al}
	theta := math.Acos(dot)
	return rodrigues(axis, theta)
}

func rodrigues(axis [3]float64, theta float64) [3][3]float64 {
	c, s := math.Cos(theta), math.Sin(theta)
	ux, uy, uz := axis[0], axis[1], axis[2]
	K := [3][3]float64{{0, -uz, uy}, {uz, 0, -ux}, {-uy, ux, 0}}
	var R [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			outer := axis[i] * axis[j]
			var kij float64
			if i == j {
				kij = 1
			}
			R[i][j] = c*kij + s*K[i][j] + (1-c)*outer
		}
	}
	return R
}

func identity3() [3][3]float64 {
	return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// CoherentEnergy returns Re<Z(dir)|Lambda|Z(dir)>, the classical-limit
// anisotropy energy at spin direction dir, for the Hermitian operator
// Lambda built from a Stevens (or general) expansion.
func CoherentEnergy(N int, lam *mat.CDense, dir [3]float64) (float64, error) {
	ket, err := CoherentState(N, dir)
	if err != nil {
		return 0, err
	}
	var e complex128
	for i := 0; i < N; i++ {
		var row complex128
		for j := 0; j < N; j++ {
			row += lam.At(i, j) * ket[j]
		}
		e += cconj(ket[i]) * row
	}
	return real(e), nil
}

func cconj(z complex128) complex128 { return complex(real(z), -imag(z)) }

// EnergyAndGradient implements energy_and_gradient_for_classical_anisotropy
// of §4.2: the classical energy at spin vector s (|s| assumed equal to the
// spin length S=(N-1)/2 of the local Hilbert space) and its gradient
// dE/ds, evaluated as the coherent-state expectation of Lambda and its
// numerical (central-difference) derivative. Because CoherentEnergy
// depends only on the direction of s, its gradient is automatically
// tangential to the sphere |s|=S, exactly the torque-relevant quantity
// used downstream by the effective-field construction of §4.5.
func (e Expansion) EnergyAndGradient(N int, s [3]float64) (float64, [3]float64, error) {
	lam := e.BuildHermitian(N)
	E0, err := CoherentEnergy(N, lam, s)
	if err != nil {
		return 0, [3]float64{}, err
	}
	S := math.Max(1e-6, math.Sqrt(s[0]*s[0]+s[1]*s[1]+s[2]*s[2]))
	h := 1e-6 * S
	var grad [3]float64
	for k := 0; k < 3; k++ {
		sp, sm := s, s
		sp[k] += h
		sm[k] -= h
		ep, err := CoherentEnergy(N, lam, sp)
		if err != nil {
			return 0, [3]float64{}, err
		}
		em, err := CoherentEnergy(N, lam, sm)
		if err != nil {
			return 0, [3]float64{}, err
		}
		grad[k] = (ep - em) / (2 * h)
	}
	return E0, grad, nil
}
