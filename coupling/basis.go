// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coupling

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/crystal"
)

var sqrt2 = math.Sqrt2

// symBasis is an orthonormal (Frobenius inner product) basis of the
// 6-dimensional space of symmetric 3x3 matrices.
var symBasis = [6]crystal.Mat3{
	{{1, 0, 0}, {0, 0, 0}, {0, 0, 0}},
	{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}},
	{{0, 0, 0}, {0, 0, 0}, {0, 0, 1}},
	{{0, 1 / sqrt2, 0}, {1 / sqrt2, 0, 0}, {0, 0, 0}},
	{{0, 0, 1 / sqrt2}, {0, 0, 0}, {1 / sqrt2, 0, 0}},
	{{0, 0, 0}, {0, 0, 1 / sqrt2}, {0, 1 / sqrt2, 0}},
}

// antisymBasis is an orthonormal basis of the 3-dimensional space of
// antisymmetric 3x3 matrices (the Dzyaloshinskii-Moriya subspace).
var antisymBasis = [3]crystal.Mat3{
	{{0, 1 / sqrt2, 0}, {-1 / sqrt2, 0, 0}, {0, 0, 0}},
	{{0, 0, 1 / sqrt2}, {0, 0, 0}, {-1 / sqrt2, 0, 0}},
	{{0, 0, 0}, {0, 0, 1 / sqrt2}, {0, -1 / sqrt2, 0}},
}

func matDot(a, b crystal.Mat3) float64 {
	s := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s += a[i][j] * b[i][j]
		}
	}
	return s
}

func coeffsSym(m crystal.Mat3) [6]float64 {
	var c [6]float64
	for i, e := range symBasis {
		c[i] = matDot(e, m)
	}
	return c
}

func coeffsAntisym(m crystal.Mat3) [3]float64 {
	var c [3]float64
	for i, e := range antisymBasis {
		c[i] = matDot(e, m)
	}
	return c
}

func fromCoeffsSym(c []float64) crystal.Mat3 {
	var out crystal.Mat3
	for i, v := range c {
		if v == 0 {
			continue
		}
		for r := 0; r < 3; r++ {
			for cc := 0; cc < 3; cc++ {
				out[r][cc] += v * symBasis[i][r][cc]
			}
		}
	}
	return out
}

func fromCoeffsAntisym(c []float64) crystal.Mat3 {
	var out crystal.Mat3
	for i, v := range c {
		if v == 0 {
			continue
		}
		for r := 0; r < 3; r++ {
			for cc := 0; cc < 3; cc++ {
				out[r][cc] += v * antisymBasis[i][r][cc]
			}
		}
	}
	return out
}

// conjugateOnSym returns the 6x6 matrix of the linear map J -> R*J*R^T
// restricted to symmetric J, expressed in the symBasis coordinates.
func conjugateOnSym(R crystal.Mat3) [6][6]float64 {
	var M [6][6]float64
	for j := 0; j < 6; j++ {
		img := R.Mul(symBasis[j]).Mul(R.T())
		c := coeffsSym(img)
		for i := 0; i < 6; i++ {
			M[i][j] = c[i]
		}
	}
	return M
}

// conjugateOnAntisym returns the 3x3 matrix of J -> R*J*R^T restricted to
// antisymmetric J, in antisymBasis coordinates.
func conjugateOnAntisym(R crystal.Mat3) [3][3]float64 {
	var M [3][3]float64
	for j := 0; j < 3; j++ {
		img := R.Mul(antisymBasis[j]).Mul(R.T())
		c := coeffsAntisym(img)
		for i := 0; i < 3; i++ {
			M[i][j] = c[i]
		}
	}
	return M
}

// SymAllowedBasis returns a basis for the subspace of 3x3 coupling
// matrices invariant under the self-symmetry group of bond b (§4.1): the
// solution set of R_s*J*R_s^T = J for pi=+1 operations and R_s*J*R_s^T =
// J^T for pi=-1 operations, simultaneously over every (s,pi) in G_b. The
// basis is returned sparsified (row-reduced) and sorted by leading
// nonzero index, each vector rescaled so its largest entry is 1, matching
// the canonical form fixed by §4.1 so that repeated calls for equivalent
// bonds give comparable bases.
func SymAllowedBasis(c *crystal.Crystal, b crystal.Bond) []crystal.Mat3 {
	selfsyms := c.SelfSymmetries(b)

	var symRows []float64
	var antisymRows []float64
	nSymRows, nAntiRows := 0, 0
	for _, ss := range selfsyms {
		R := c.CartesianR(ss.S)
		Msym := conjugateOnSym(R)
		for i := 0; i < 6; i++ {
			for j := 0; j < 6; j++ {
				v := Msym[i][j]
				if i == j {
					v -= 1
				}
				symRows = append(symRows, v)
			}
		}
		nSymRows++

		Manti := conjugateOnAntisym(R)
		pi := float64(ss.Sign)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				v := Manti[i][j]
				if i == j {
					v -= pi
				}
				antisymRows = append(antisymRows, v)
			}
		}
		nAntiRows++
	}

	symNull := rrefSparsify(nullSpace(symRows, nSymRows*6, 6, 1e-8))
	antiNull := rrefSparsify(nullSpace(antisymRows, nAntiRows*3, 3, 1e-8))

	out := make([]crystal.Mat3, 0, len(symNull)+len(antiNull))
	for _, v := range symNull {
		out = append(out, fromCoeffsSym(v))
	}
	for _, v := range antiNull {
		out = append(out, fromCoeffsAntisym(v))
	}
	return out
}
