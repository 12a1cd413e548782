// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/coupling"
	"github.com/MagSims/FastDipole-sub000/crystal"
)

// SetExchange validates J against bond's symmetry-allowed subspace,
// rejects any symmetry-related bond that would wrap the finite lattice,
// then writes one PairCoupling per orbit member, the canonical member
// unculled and its reverse-equivalent culled (§4.4).
func (s *System) SetExchange(J crystal.Mat3, bond crystal.Bond) error {
	return s.setExchange(J, bond, false, 0)
}

// SetExchangeBiquad is SetExchange plus a scalar biquadratic coupling on
// the same bond, permitted only outside SUN mode (§4.4, §7
// UnsupportedBiquadratic).
func (s *System) SetExchangeBiquad(J crystal.Mat3, bond crystal.Bond, biquad float64) error {
	return s.setExchange(J, bond, true, biquad)
}

func (s *System) setExchange(J crystal.Mat3, bond crystal.Bond, hasBiquad bool, biquad float64) error {
	c := s.Crystal
	if !coupling.IsCouplingValid(c, bond, J) {
		return &Error{Kind: KindSymmetryViolation, Msg: "coupling matrix is not invariant under the bond's self-symmetry group", Site: bond.I}
	}
	if hasBiquad && s.Mode == SUN {
		return &Error{Kind: KindUnsupportedBiquadratic, Msg: "biquadratic coupling is not supported in SUN mode", Site: bond.I}
	}

	orbit := c.Orbit(bond)
	for _, b := range orbit {
		if !crystal.WithinSystem(b.N, s.Latsize) {
			return &Error{Kind: KindBondWrapsSystem, Msg: "a symmetry-related bond wraps the finite lattice", Site: b.I}
		}
	}

	propagated := coupling.AllSymmetryRelatedCouplings(c, bond, J)
	for b, Jb := range propagated {
		pc := PairCoupling{Bond: b, IsCulled: !b.Canonical()}
		pc.BilinScalar, pc.BilinJ = classifyScalar(Jb)
		pc.BilinMat = Jb
		if hasBiquad {
			pc.HasBiquad = true
			pc.Biquad = biquad
		}
		s.upsertPair(b.I, pc)
		// the reverse bond carries the transposed matrix by construction
		// of AllSymmetryRelatedCouplings; nothing further to do here.
	}
	return nil
}

// classifyScalar reports whether J is (to within numerical tolerance) a
// multiple of the identity, and if so returns that multiple -- the
// `bilin` scalar-vs-matrix classification of §4.4.
func classifyScalar(J crystal.Mat3) (bool, float64) {
	j0 := J[0][0]
	iso := crystal.Mat3{{j0, 0, 0}, {0, j0, 0}, {0, 0, j0}}
	diff := J.Sub(iso)
	nrm := 0.0
	for i := 0; i < 3; i++ {
		for k := 0; k < 3; k++ {
			nrm += diff[i][k] * diff[i][k]
		}
	}
	return math.Sqrt(nrm) < 1e-10, j0
}

// upsertPair stores pc among sublattice sub's pair couplings, replacing
// an existing entry for the same bond.
func (s *System) upsertPair(sub int, pc PairCoupling) {
	it := &s.Interactions[sub]
	for i := range it.Pair {
		if it.Pair[i].Bond == pc.Bond {
			it.Pair[i] = pc
			return
		}
	}
	it.Pair = append(it.Pair, pc)
}

// SetBiquadratic writes (or overwrites) the scalar biquadratic coupling
// of an already-exchange-coupled bond, propagated over its orbit.
func (s *System) SetBiquadratic(biquad float64, bond crystal.Bond) error {
	if s.Mode == SUN {
		return &Error{Kind: KindUnsupportedBiquadratic, Msg: "biquadratic coupling is not supported in SUN mode", Site: bond.I}
	}
	orbit := s.Crystal.Orbit(bond)
	for _, b := range orbit {
		it := &s.Interactions[b.I]
		found := false
		for i := range it.Pair {
			if it.Pair[i].Bond == b {
				it.Pair[i].HasBiquad = true
				it.Pair[i].Biquad = biquad
				found = true
			}
		}
		if !found {
			it.Pair = append(it.Pair, PairCoupling{Bond: b, IsCulled: !b.Canonical(), HasBiquad: true, Biquad: biquad})
		}
	}
	return nil
}
