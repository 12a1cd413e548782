// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crystal

// Bond is a directed connection (i,j,n) between sublattice atom i in cell 0
// and sublattice atom j in cell n (an integer 3-vector of cell offsets).
// The reverse bond (j,i,-n) denotes the same physical pair.
type Bond struct {
	I, J int
	N    [3]int
}

// Reverse returns (j,i,-n).
func (b Bond) Reverse() Bond {
	return Bond{I: b.J, J: b.I, N: [3]int{-b.N[0], -b.N[1], -b.N[2]}}
}

// IsSelfReverse reports whether b equals its own reverse (i==j and n==0,
// i.e. an onsite "bond").
func (b Bond) IsSelfReverse() bool {
	return b.I == b.J && b.N == [3]int{0, 0, 0}
}

// Canonical reports whether b is the canonical (non-culled) representative
// of the unordered pair {b, b.Reverse()}: the lexicographically smaller of
// the two under (i,j,n1,n2,n3) ordering. Exactly one of b, b.Reverse() is
// canonical unless b is self-reverse, which is always canonical.
func (b Bond) Canonical() bool {
	r := b.Reverse()
	return !bondLess(r, b)
}

func bondLess(a, b Bond) bool {
	if a.I != b.I {
		return a.I < b.I
	}
	if a.J != b.J {
		return a.J < b.J
	}
	for k := 0; k < 3; k++ {
		if a.N[k] != b.N[k] {
			return a.N[k] < b.N[k]
		}
	}
	return false
}

// CellOffsetVec3 converts an integer cell offset to a fractional Vec3.
func CellOffsetVec3(n [3]int) Vec3 {
	return Vec3{float64(n[0]), float64(n[1]), float64(n[2])}
}

// FracOf returns the fractional displacement vector of the bond, from site
// i in cell 0 to site j in cell n: (pos[j]+n) - pos[i].
func (c *Crystal) FracOf(b Bond) Vec3 {
	return c.Positions[b.J].Add(CellOffsetVec3(b.N)).Sub(c.Positions[b.I])
}

// CartOf returns the Cartesian displacement vector of the bond.
func (c *Crystal) CartOf(b Bond) Vec3 {
	return c.Latvecs.MulVec(c.FracOf(b))
}

// SelfSymOp pairs a symmetry operation with the sign (+1 direct, -1 via
// reversal) under which it maps a bond to itself.
type SelfSymOp struct {
	S    SymOp
	Sign int
}

// SelfSymmetries returns G_b = {(s,pi)}: the symmetry operations mapping
// bond b to itself (pi=+1) or to reverse(b) (pi=-1), per §4.1.
func (c *Crystal) SelfSymmetries(b Bond) []SelfSymOp {
	var out []SelfSymOp
	rev := b.Reverse()
	for _, s := range c.SymOps {
		if img, ok := c.mapBond(s, b); ok {
			if bondsEqual(img, b, c.SymPrec) {
				out = append(out, SelfSymOp{s, +1})
			} else if bondsEqual(img, rev, c.SymPrec) {
				out = append(out, SelfSymOp{s, -1})
			}
		}
	}
	return out
}

// mapBond applies symop s to bond b, returning the image bond whose cell
// offset is an integer vector found by solving for n. ok is false if no
// atom matches (should not happen for a trusted symop table).
func (c *Crystal) mapBond(s SymOp, b Bond) (Bond, bool) {
	pi := FracNorm(s.Apply(c.Positions[b.I]))
	pj := s.R.MulVec(c.Positions[b.J].Add(CellOffsetVec3(b.N))).Add(s.T)
	ii, oki := findAtom(c.Positions, pi, c.SymPrec)
	if !oki {
		return Bond{}, false
	}
	jj, okj, n := findAtomWithOffset(c.Positions, pj, c.SymPrec)
	if !okj {
		return Bond{}, false
	}
	return Bond{I: ii, J: jj, N: n}, true
}

func findAtom(positions []Vec3, p Vec3, tol float64) (int, bool) {
	pw := FracNorm(p)
	for i, q := range positions {
		if FracDist(pw, q).Norm() < tol {
			return i, true
		}
	}
	return 0, false
}

// findAtomWithOffset finds the atom whose position matches p modulo the
// lattice, returning which integer cell offset was needed.
func findAtomWithOffset(positions []Vec3, p Vec3, tol float64) (int, bool, [3]int) {
	for i, q := range positions {
		d := p.Sub(q)
		n := [3]int{int(round(d[0])), int(round(d[1])), int(round(d[2]))}
		rem := Vec3{d[0] - float64(n[0]), d[1] - float64(n[1]), d[2] - float64(n[2])}
		if rem.Norm() < tol {
			return i, true, n
		}
	}
	return 0, false, [3]int{}
}

func round(x float64) float64 {
	if x >= 0 {
		return float64(int(x + 0.5))
	}
	return -float64(int(-x + 0.5))
}

func bondsEqual(a, b Bond, tol float64) bool {
	return a.I == b.I && a.J == b.J && a.N == b.N
}

// Orbit enumerates the set of bonds obtained by applying every symmetry
// operation to bRef, together with the reverse of each image,
// deduplicated. Used by §4.1's
// all_symmetry_related_couplings and by set_exchange!'s orbit propagation.
func (c *Crystal) Orbit(bRef Bond) []Bond {
	seen := map[Bond]bool{}
	var out []Bond
	for _, s := range c.SymOps {
		if img, ok := c.mapBond(s, bRef); ok {
			if !seen[img] {
				seen[img] = true
				out = append(out, img)
			}
			rev := img.Reverse()
			if !seen[rev] {
				seen[rev] = true
				out = append(out, rev)
			}
		}
	}
	return out
}

// OrbitFirstOp returns, for a bond b in the orbit of bRef, the first (s,pi)
// found in the symops table such that mapping bRef through s yields b
// (pi=+1) or reverse(b) (pi=-1). This realizes the "for each atom i ...
// apply the first (s,pi) that maps that bond to b_ref" rule of §4.1.
func (c *Crystal) OrbitFirstOp(bRef, b Bond) (SelfSymOp, bool) {
	rev := b.Reverse()
	for _, s := range c.SymOps {
		img, ok := c.mapBond(s, bRef)
		if !ok {
			continue
		}
		if bondsEqual(img, b, c.SymPrec) {
			return SelfSymOp{s, +1}, true
		}
		if bondsEqual(img, rev, c.SymPrec) {
			return SelfSymOp{s, -1}, true
		}
	}
	return SelfSymOp{}, false
}

// WithinSystem reports whether |n_k| < latsize_k for all k, the
// BondWrapsSystem check of §7.
func WithinSystem(n [3]int, latsize [3]int) bool {
	for k := 0; k < 3; k++ {
		if n[k] < 0 {
			if -n[k] >= latsize[k] {
				return false
			}
		} else if n[k] >= latsize[k] {
			return false
		}
	}
	return true
}
