// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coupling builds the symmetry-allowed coupling subspace for a
// bond (or a single-ion anisotropy site) and propagates a user-supplied
// coupling matrix to every symmetry-equivalent bond in the crystal, per
// the projector construction of §4.1.
package coupling

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// nullSpace returns an orthonormal basis for the null space of the m x n
// matrix rows (flattened row-major), found via the SVD: right-singular
// vectors whose singular value is below tol*max(sigma_max,1) are a basis for
// {x : rows*x = 0}. Returns nil if the null space is empty ({0} only).
func nullSpace(rows []float64, m, n int, tol float64) [][]float64 {
	if m == 0 {
		// No constraints: the whole space is allowed.
		out := make([][]float64, n)
		for i := range out {
			v := make([]float64, n)
			v[i] = 1
			out[i] = v
		}
		return out
	}
	A := mat.NewDense(m, n, rows)
	var svd mat.SVD
	ok := svd.Factorize(A, mat.SVDFull)
	if !ok {
		panic("coupling: SVD factorization failed")
	}
	sv := svd.Values(nil)
	var V mat.Dense
	svd.VTo(&V)
	sigmaMax := 0.0
	for _, s := range sv {
		if s > sigmaMax {
			sigmaMax = s
		}
	}
	thresh := tol * math.Max(sigmaMax, 1)
	var out [][]float64
	for j := 0; j < n; j++ {
		s := 0.0
		if j < len(sv) {
			s = sv[j]
		}
		if s < thresh {
			col := make([]float64, n)
			for i := 0; i < n; i++ {
				col[i] = V.At(i, j)
			}
			out = append(out, col)
		}
	}
	return out
}

// rrefSparsify row-reduces the basis vectors (stacked as rows) so that
// each has the smallest possible support, matching the "sparsify via
// reduced row echelon form" step of §4.1's basis construction, then
// sorts by the index of the first nonzero entry and rescales each row so
// its largest-magnitude component is 1.
func rrefSparsify(basis [][]float64) [][]float64 {
	if len(basis) == 0 {
		return nil
	}
	n := len(basis[0])
	rows := make([][]float64, len(basis))
	for i, b := range basis {
		rows[i] = append([]float64(nil), b...)
	}
	rank := 0
	for col := 0; col < n && rank < len(rows); col++ {
		piv := -1
		best := 1e-9
		for r := rank; r < len(rows); r++ {
			if math.Abs(rows[r][col]) > best {
				best = math.Abs(rows[r][col])
				piv = r
			}
		}
		if piv < 0 {
			continue
		}
		rows[rank], rows[piv] = rows[piv], rows[rank]
		pv := rows[rank][col]
		for c := 0; c < n; c++ {
			rows[rank][c] /= pv
		}
		for r := 0; r < len(rows); r++ {
			if r == rank {
				continue
			}
			f := rows[r][col]
			if f == 0 {
				continue
			}
			for c := 0; c < n; c++ {
				rows[r][c] -= f * rows[rank][c]
			}
		}
		rank++
	}
	rows = rows[:rank]
	for _, r := range rows {
		maxAbs, maxIdx := 0.0, -1
		for i, v := range r {
			if math.Abs(v) > maxAbs {
				maxAbs = math.Abs(v)
				maxIdx = i
			}
		}
		if maxIdx >= 0 {
			for i := range r {
				r[i] /= r[maxIdx]
			}
		}
	}
	firstNonzero := func(r []float64) int {
		for i, v := range r {
			if math.Abs(v) > 1e-9 {
				return i
			}
		}
		return len(r)
	}
	for i := 1; i < len(rows); i++ {
		j := i
		for j > 0 && firstNonzero(rows[j-1]) > firstNonzero(rows[j]) {
			rows[j-1], rows[j] = rows[j], rows[j-1]
			j--
		}
	}
	return rows
}
