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

// SetPairCoupling stores a general pair interaction sum_k A_k (x) B_k on
// bond, propagated to every bond in the orbit (§3's `general` sparse
// tensor decomposition, SUN mode only). Each operator is conjugated by
// the spin-rotation representation of the mapping symmetry operation,
// the operator analogue of AllSymmetryRelatedCouplings' R*J*R^T; a
// reversed orbit member carries the swapped pair (B,A), the operator
// analogue of the transposed matrix.
func (s *System) SetPairCoupling(terms []GeneralTerm, bond crystal.Bond) error {
	if s.Mode != SUN {
		return newErr(KindUnsupportedAnisotropy, "general pair couplings require SUN mode")
	}
	c := s.Crystal
	Ni, Nj := s.Ns[bond.I], s.Ns[bond.J]
	for k, t := range terms {
		if r, cc := t.A.Dims(); r != Ni || cc != Ni {
			return newErr(KindUnsupportedAnisotropy, "general term %d: A has dimension %dx%d, expected %dx%d", k, r, cc, Ni, Ni)
		}
		if r, cc := t.B.Dims(); r != Nj || cc != Nj {
			return newErr(KindUnsupportedAnisotropy, "general term %d: B has dimension %dx%d, expected %dx%d", k, r, cc, Nj, Nj)
		}
	}

	orbit := c.Orbit(bond)
	for _, b := range orbit {
		if !crystal.WithinSystem(b.N, s.Latsize) {
			return &Error{Kind: KindBondWrapsSystem, Msg: "a symmetry-related bond wraps the finite lattice", Site: b.I}
		}
	}

	for _, b := range orbit {
		ss, ok := c.OrbitFirstOp(bond, b)
		if !ok {
			continue
		}
		R := c.CartesianR(ss.S)
		Rm := [3][3]float64{{R[0][0], R[0][1], R[0][2]}, {R[1][0], R[1][1], R[1][2]}, {R[2][0], R[2][1], R[2][2]}}
		rotated := make([]GeneralTerm, len(terms))
		for k, t := range terms {
			Ar, err := conjugateBySpinRotation(t.A, Rm)
			if err != nil {
				return newErr(KindSymmetryViolation, "failed to propagate general coupling to an equivalent bond: %v", err)
			}
			Br, err := conjugateBySpinRotation(t.B, Rm)
			if err != nil {
				return newErr(KindSymmetryViolation, "failed to propagate general coupling to an equivalent bond: %v", err)
			}
			if ss.Sign < 0 {
				Ar, Br = Br, Ar
			}
			rotated[k] = GeneralTerm{A: Ar, B: Br}
		}
		s.upsertGeneral(b, rotated)
	}
	return nil
}

func conjugateBySpinRotation(op *mat.CDense, R [3][3]float64) (*mat.CDense, error) {
	n, _ := op.Dims()
	U, err := stevens.RotationOperator(n, R)
	if err != nil {
		return nil, err
	}
	return herm.MulC(herm.MulC(U, op), herm.Dagger(U)), nil
}

// upsertGeneral merges the rotated terms into sublattice b.I's entry for
// bond b, preserving any bilinear coupling already set there.
func (s *System) upsertGeneral(b crystal.Bond, terms []GeneralTerm) {
	it := &s.Interactions[b.I]
	for i := range it.Pair {
		if it.Pair[i].Bond == b {
			it.Pair[i].General = terms
			return
		}
	}
	it.Pair = append(it.Pair, PairCoupling{Bond: b, IsCulled: !b.Canonical(), General: terms})
}
