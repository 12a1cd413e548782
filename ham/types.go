// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import (
	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/stevens"
	"gonum.org/v1/gonum/mat"
)

// Mode selects the representation of a site's quantum state.
type Mode int

const (
	Dipole Mode = iota
	LargeS
	SUN
)

// FormFactor holds the dimensionless magnetic-form-factor coefficients
// A,a,B,b,C,c,D of the usual ⟨j0⟩ parametrization (§8 property 10).
type FormFactor struct {
	Ion        string
	A, a       float64
	B, b       float64
	C, c       float64
	D          float64
}

// SiteInfo carries the per-sublattice quantum numbers and g-tensor of
// §3's SiteInfo entity.
type SiteInfo struct {
	S          float64
	G          crystal.Mat3
	FormFactor *FormFactor
}

// GeneralTerm is one (A,B) entry of a PairCoupling's general sparse
// tensor decomposition (§3), valid only in SUN mode.
type GeneralTerm struct {
	A, B *mat.CDense
}

// PairCoupling stores one bond's contribution to Interactions: a bond, a
// cull flag, a bilinear term (scalar Heisenberg or full 3x3), an optional
// scalar biquadratic, and an optional general sparse tensor decomposition
// (§3, SUN mode only).
type PairCoupling struct {
	Bond         crystal.Bond
	IsCulled     bool
	BilinScalar  bool
	BilinJ       float64
	BilinMat     crystal.Mat3
	HasBiquad    bool
	Biquad       float64
	General      []GeneralTerm
}

// Interactions is the per-sublattice (or per-cell-and-sublattice, in
// inhomogeneous systems) bundle of onsite anisotropy plus an ordered list
// of pair couplings (§3).
type Interactions struct {
	OnsiteClassical stevens.Expansion
	OnsiteQuantum   *mat.CDense // non-nil only in SUN mode
	Pair            []PairCoupling
}

// Clone deep-copies an Interactions value.
func (it Interactions) Clone() Interactions {
	out := Interactions{OnsiteClassical: it.OnsiteClassical}
	if it.OnsiteQuantum != nil {
		r, c := it.OnsiteQuantum.Dims()
		cp := mat.NewCDense(r, c, nil)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				cp.Set(i, j, it.OnsiteQuantum.At(i, j))
			}
		}
		out.OnsiteQuantum = cp
	}
	out.Pair = append([]PairCoupling(nil), it.Pair...)
	return out
}
