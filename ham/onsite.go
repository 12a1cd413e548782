// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import (
	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/internal/herm"
	"github.com/MagSims/FastDipole-sub000/stevens"
	"gonum.org/v1/gonum/mat"
)

// SetOnsiteCoupling validates that op (an NxN Hermitian matrix, N =
// Ns[sublattice]) decomposes cleanly into a StevensExpansion in
// dipole/largeS mode (stored directly as a Hermitian matrix in SUN
// mode), then propagates it via the rotation-operator substitute for
// Wigner-D (§9) to every symmetry-equivalent sublattice, and warns
// (throttled to five messages) when it overwrites a previously-set
// onsite coupling with a materially different one (§4.4).
func (s *System) SetOnsiteCoupling(op *mat.CDense, sublattice int) error {
	c := s.Crystal
	N := s.Ns[sublattice]
	r, cdim := op.Dims()
	if r != N || cdim != N {
		return newErr(KindUnsupportedAnisotropy, "onsite operator has dimension %dx%d, expected %dx%d", r, cdim, N, N)
	}

	exp, err := s.onsiteToExpansion(op, N)
	if err != nil {
		return err
	}
	s.applyOnsite(sublattice, exp, op)

	class := c.Classes[sublattice]
	for k := range c.Positions {
		if k == sublattice || c.Classes[k] != class || s.Ns[k] != N {
			continue
		}
		sym, ok := findMappingOp(c, sublattice, k)
		if !ok {
			continue
		}
		R := c.CartesianR(sym)
		rexp, rop, err := rotateOnsite(N, exp, op, R, s.Mode == SUN)
		if err != nil {
			return err
		}
		s.applyOnsite(k, rexp, rop)
	}
	return nil
}

func (s *System) onsiteToExpansion(op *mat.CDense, N int) (stevens.Expansion, error) {
	if s.Mode == SUN {
		return stevens.Expansion{}, nil
	}
	exp, err := stevens.Decompose(N, op)
	if err != nil {
		return stevens.Expansion{}, newErr(KindUnsupportedAnisotropy, "onsite operator is not a valid Stevens expansion: %v", err)
	}
	return exp, nil
}

// rotateOnsite carries an onsite operator from a reference site to a
// symmetry-equivalent one: the forward conjugation U(R) op U(R)†, the
// operator analogue of the R*J*R^T propagation of bond couplings.
// Expansion.Rotate implements the inverse (local-frame) conjugation, so
// the classical path passes R^T.
func rotateOnsite(N int, exp stevens.Expansion, op *mat.CDense, R crystal.Mat3, sun bool) (stevens.Expansion, *mat.CDense, error) {
	if sun {
		Rm := [3][3]float64{{R[0][0], R[0][1], R[0][2]}, {R[1][0], R[1][1], R[1][2]}, {R[2][0], R[2][1], R[2][2]}}
		U, err := stevens.RotationOperator(N, Rm)
		if err != nil {
			return stevens.Expansion{}, nil, err
		}
		rotated := herm.MulC(herm.MulC(U, op), herm.Dagger(U))
		return stevens.Expansion{}, rotated, nil
	}
	Rt := R.T()
	Rm := [3][3]float64{{Rt[0][0], Rt[0][1], Rt[0][2]}, {Rt[1][0], Rt[1][1], Rt[1][2]}, {Rt[2][0], Rt[2][1], Rt[2][2]}}
	rexp, err := exp.Rotate(N, Rm)
	if err != nil {
		return stevens.Expansion{}, nil, newErr(KindUnsupportedAnisotropy, "failed to rotate onsite coupling to an equivalent site: %v", err)
	}
	return rexp, nil, nil
}

// findMappingOp returns the first symop in the crystal's table mapping
// atom i onto atom j modulo a lattice translation.
func findMappingOp(c *crystal.Crystal, i, j int) (crystal.SymOp, bool) {
	for _, sym := range c.SymOps {
		if k, ok := c.MapAtom(sym, i); ok && k == j {
			return sym, true
		}
	}
	return crystal.SymOp{}, false
}

func (s *System) applyOnsite(sublattice int, exp stevens.Expansion, op *mat.CDense) {
	it := &s.Interactions[sublattice]
	differs := false
	if s.Mode == SUN {
		if prev := it.OnsiteQuantum; prev != nil {
			r, c := prev.Dims()
			for i := 0; i < r*c && !differs; i++ {
				d := prev.At(i/c, i%c) - op.At(i/c, i%c)
				differs = real(d)*real(d)+imag(d)*imag(d) > 1e-24
			}
		}
	} else if prev := it.OnsiteClassical; prev != (stevens.Expansion{}) {
		differs = prev != exp
	}
	if differs {
		s.warnings.warn("overwriting onsite coupling on sublattice %d\n", sublattice)
	}
	if s.Mode == SUN {
		it.OnsiteQuantum = op
	} else {
		it.OnsiteClassical = exp
	}
}
