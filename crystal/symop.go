// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crystal

import "math"

// SymOp is a crystal symmetry operation (R,t) acting on fractional
// coordinates as x' = R*x + t. R is an orthogonal-in-Cartesian-sense
// matrix whose entries, expressed in the lattice basis, are integers
// (it maps the lattice onto itself); t is a fractional translation
// taken modulo 1.
type SymOp struct {
	R Mat3
	T Vec3
}

// Apply maps a fractional point through the operation.
func (s SymOp) Apply(x Vec3) Vec3 {
	return s.R.MulVec(x).Add(s.T)
}

// Compose returns the operation equivalent to applying s first, then u:
// u(s(x)) = u.R*(s.R*x+s.T) + u.T = (u.R*s.R)*x + (u.R*s.T + u.T).
func Compose(u, s SymOp) SymOp {
	return SymOp{
		R: u.R.Mul(s.R),
		T: FracNorm(u.R.MulVec(s.T).Add(u.T)),
	}
}

// closeEnough reports whether two SymOps agree modulo a lattice translation
// to within tol, which is the closure criterion of property 8.1.
func closeEnough(a, b SymOp, tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(a.R[i][j]-b.R[i][j]) > tol {
				return false
			}
		}
	}
	d := FracDist(a.T, b.T)
	return d.Norm() < tol
}

// ValidateClosure implements testable property 8.1: symops must be closed
// under composition modulo lattice translation.
func (c *Crystal) ValidateClosure() error {
	tol := c.SymPrec
	for _, s := range c.SymOps {
		for _, t := range c.SymOps {
			u := Compose(s, t)
			found := false
			for _, cand := range c.SymOps {
				if closeEnough(cand, u, tol) {
					found = true
					break
				}
			}
			if !found {
				return errSymClosure{s, t}
			}
		}
	}
	return nil
}

type errSymClosure struct{ s, t SymOp }

func (e errSymClosure) Error() string {
	return "crystal: symmetry operations are not closed under composition modulo lattice translation"
}

// CartesianR returns latvecs * s.R * latvecs^-1, the rotation acting on
// Cartesian vectors that corresponds to the fractional rotation s.R.
func (c *Crystal) CartesianR(s SymOp) Mat3 {
	Linv := c.Latvecs.Inverse()
	return c.Latvecs.Mul(s.R).Mul(Linv)
}
