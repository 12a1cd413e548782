// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crystal

// PointGroup returns the stabilizer of atom i: the symmetry operations
// that fix position i modulo a lattice translation. This is the
// "point-group generators per atom" of §2 item 1, used to validate a
// SiteInfo's g-tensor and onsite anisotropy are consistent with the site
// symmetry (§3, SiteInfo invariant).
func (c *Crystal) PointGroup(i int) []SymOp {
	var out []SymOp
	for _, s := range c.SymOps {
		img := FracNorm(s.Apply(c.Positions[i]))
		if FracDist(img, c.Positions[i]).Norm() < c.SymPrec {
			out = append(out, s)
		}
	}
	return out
}
