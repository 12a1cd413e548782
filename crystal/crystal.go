// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crystal

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Crystal is an immutable unit cell: lattice vectors, sublattice positions
// with string types, equivalence classes, and a symmetry-operation table.
// It is assumed the caller supplies a trusted list of SymOps (§1: the
// CIF/space-group-symbol parser is out of scope); Crystal never derives
// symmetry operations from a space-group number itself.
type Crystal struct {
	Latvecs   Mat3     // columns are the lattice vectors a1,a2,a3
	Positions []Vec3   // fractional coordinates in [0,1)^3, sorted by class then lex order
	Types     []string // parallel to Positions
	Classes   []int    // equivalence class index per atom, parallel to Positions
	SymOps    []SymOp
	SymPrec   float64
}

// New builds a Crystal from lattice vectors, fractional atom positions,
// per-atom type tags and a trusted symmetry-operation table. Positions are
// wrapped into [0,1)^3, validated unique modulo symprec, partitioned into
// equivalence classes under the symops' orbit action, and finally sorted
// by (class, lexicographic fractional coordinate) as required by the
// Crystal constructor invariant of §6.
func New(latvecs Mat3, positions []Vec3, types []string, symops []SymOp, symprec float64) (*Crystal, error) {
	if len(positions) != len(types) {
		return nil, chk.Err("crystal.New: len(positions)=%d must equal len(types)=%d", len(positions), len(types))
	}
	if symprec <= 0 {
		return nil, chk.Err("crystal.New: symprec must be positive, got %v", symprec)
	}
	n := len(positions)
	wrapped := make([]Vec3, n)
	for i, p := range positions {
		wrapped[i] = FracNorm(p)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if FracDist(wrapped[i], wrapped[j]).Norm() < symprec {
				return nil, chk.Err("crystal.New: positions %d and %d coincide modulo symprec=%v", i, j, symprec)
			}
		}
	}

	classes := classifyOrbits(wrapped, symops, symprec)
	for i, ci := range classes {
		for j, cj := range classes {
			if ci == cj && types[i] != types[j] {
				return nil, chk.Err("crystal.New: atoms %d and %d share class %d but have different types %q vs %q", i, j, ci, types[i], types[j])
			}
		}
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if classes[ia] != classes[ib] {
			return classes[ia] < classes[ib]
		}
		return lexLess(wrapped[ia], wrapped[ib])
	})
	c := &Crystal{
		Latvecs: latvecs,
		SymOps:  symops,
		SymPrec: symprec,
	}
	c.Positions = make([]Vec3, n)
	c.Types = make([]string, n)
	c.Classes = make([]int, n)
	for newi, oldi := range idx {
		c.Positions[newi] = wrapped[oldi]
		c.Types[newi] = types[oldi]
		c.Classes[newi] = classes[oldi]
	}
	return c, nil
}

func lexLess(u, v Vec3) bool {
	for i := 0; i < 3; i++ {
		if u[i] != v[i] {
			return u[i] < v[i]
		}
	}
	return false
}

// classifyOrbits groups atoms into equivalence classes under the orbit
// action of symops: i~j if some symop maps position i onto position j
// modulo a lattice translation.
func classifyOrbits(positions []Vec3, symops []SymOp, symprec float64) []int {
	n := len(positions)
	classes := make([]int, n)
	for i := range classes {
		classes[i] = -1
	}
	next := 0
	for i := 0; i < n; i++ {
		if classes[i] >= 0 {
			continue
		}
		classes[i] = next
		for _, s := range symops {
			img := FracNorm(s.Apply(positions[i]))
			for j := 0; j < n; j++ {
				if classes[j] >= 0 {
					continue
				}
				if FracDist(img, positions[j]).Norm() < symprec {
					classes[j] = next
				}
			}
		}
		next++
	}
	return classes
}

// NumClasses returns the number of distinct equivalence classes.
func (c *Crystal) NumClasses() int {
	m := -1
	for _, ci := range c.Classes {
		if ci > m {
			m = ci
		}
	}
	return m + 1
}

// Volume returns the unit cell volume |det(Latvecs)|.
func (c *Crystal) Volume() float64 {
	d := c.Latvecs.Det()
	if d < 0 {
		d = -d
	}
	return d
}

// CartesianPos returns the Cartesian position of atom i.
func (c *Crystal) CartesianPos(i int) Vec3 {
	return c.Latvecs.MulVec(c.Positions[i])
}

// MapAtom applies symop s to atom i's position and reports which atom
// index the image coincides with modulo a lattice translation, used to
// propagate a per-site quantity (e.g. an onsite anisotropy) to every
// symmetry-equivalent sublattice.
func (c *Crystal) MapAtom(s SymOp, i int) (int, bool) {
	img := FracNorm(s.Apply(c.Positions[i]))
	for j, p := range c.Positions {
		if FracDist(img, p).Norm() < c.SymPrec {
			return j, true
		}
	}
	return 0, false
}
