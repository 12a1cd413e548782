// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package herm provides the small amount of dense complex-Hermitian
// linear algebra needed across the Hamiltonian-assembly, spin-rotation and
// para-unitary Bogoliubov code paths: an eigendecomposition and a
// Cholesky factorization for complex Hermitian matrices, plus a matrix
// exponential built on top of the eigendecomposition.
//
// gonum.org/v1/gonum/mat supports complex dense matrices (CDense) but its
// eigensolvers and Cholesky factorization are only implemented for real
// symmetric matrices. Rather than hand-rolling a complex eigensolver from
// scratch, every n x n complex Hermitian matrix A = Ar + i*Ai is embedded
// as the 2n x 2n real symmetric matrix M = [[Ar,-Ai],[Ai,Ar]]; M's
// eigenvalues are those of A, each repeated twice, and its eigenvectors
// pair up into A's complex eigenvectors. This lets gonum's real
// mat.EigenSym carry the numerical work while keeping the complex
// Cholesky and the complex matrix-multiply/conjugate-transpose helpers
// (for which no library in the retrieval pack has a complex variant)
// explicit, using only CDense.At/Set to stay clear of less-standardized
// corners of gonum's complex API.
package herm

import (
	"math"
	"math/cmplx"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// MulC returns a*b for complex dense matrices.
func MulC(a, b *mat.CDense) *mat.CDense {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ca != rb {
		chk.Panic("herm.MulC: dimension mismatch %dx%d * %dx%d", ra, ca, rb, cb)
	}
	out := mat.NewCDense(ra, cb, nil)
	for i := 0; i < ra; i++ {
		for j := 0; j < cb; j++ {
			var s complex128
			for k := 0; k < ca; k++ {
				s += a.At(i, k) * b.At(k, j)
			}
			out.Set(i, j, s)
		}
	}
	return out
}

// Dagger returns the conjugate transpose of a.
func Dagger(a *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	out := mat.NewCDense(c, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(j, i, cmplx.Conj(a.At(i, j)))
		}
	}
	return out
}

// embed builds the 2n x 2n real symmetric embedding of a complex Hermitian
// n x n matrix.
func embed(a *mat.CDense) *mat.SymDense {
	n, _ := a.Dims()
	m := mat.NewSymDense(2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := a.At(i, j)
			m.SetSym(i, j, real(v))
			m.SetSym(i, n+j, -imag(v))
			m.SetSym(n+i, j, imag(v))
			m.SetSym(n+i, n+j, real(v))
		}
	}
	return m
}

// Eigh returns the eigenvalues (ascending) and orthonormal eigenvectors of
// a complex Hermitian matrix A, using the real-embedding technique
// described in the package doc.
func Eigh(a *mat.CDense) (vals []float64, vecs *mat.CDense, err error) {
	n, nc := a.Dims()
	if n != nc {
		return nil, nil, chk.Err("herm.Eigh: matrix must be square, got %dx%d", n, nc)
	}
	m := embed(a)
	var eig mat.EigenSym
	ok := eig.Factorize(m, true)
	if !ok {
		return nil, nil, chk.Err("herm.Eigh: real-embedded eigendecomposition failed to converge")
	}
	raw := eig.Values(nil)
	var evec mat.Dense
	eig.VectorsTo(&evec)

	type pair struct {
		val float64
		idx int
	}
	ps := make([]pair, len(raw))
	for i, v := range raw {
		ps[i] = pair{v, i}
	}
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0 && ps[j].val < ps[j-1].val; j-- {
			ps[j], ps[j-1] = ps[j-1], ps[j]
		}
	}

	// Each true eigenvalue of A appears twice in ps (from the doubled
	// real embedding); walk in ascending order and keep one eigenvector
	// per pair, reconstructed from the top/bottom halves of the
	// corresponding real eigenvector.
	vals = make([]float64, 0, n)
	vecs = mat.NewCDense(n, n, nil)
	col := 0
	k := 0
	for k < len(ps) && col < n {
		val := ps[k].val
		idx := ps[k].idx
		for i := 0; i < n; i++ {
			re := evec.At(i, idx)
			im := evec.At(n+i, idx)
			vecs.Set(i, col, complex(re, im))
		}
		normalizeCol(vecs, col)
		vals = append(vals, val)
		col++
		k++
		if k < len(ps) && math.Abs(ps[k].val-val) < 1e-8 {
			k++
		}
	}
	if col != n {
		return nil, nil, chk.Err("herm.Eigh: expected %d distinct eigenpairs after de-duplication, got %d", n, col)
	}
	return vals, vecs, nil
}

func normalizeCol(m *mat.CDense, j int) {
	n, _ := m.Dims()
	s := 0.0
	for i := 0; i < n; i++ {
		v := m.At(i, j)
		s += real(v)*real(v) + imag(v)*imag(v)
	}
	s = math.Sqrt(s)
	if s < 1e-300 {
		return
	}
	for i := 0; i < n; i++ {
		m.Set(i, j, m.At(i, j)/complex(s, 0))
	}
}

// CholUpper computes the upper-triangular Cholesky factor K of a complex
// Hermitian positive-definite matrix A such that K^dagger K = A, matching
// the convention used by swt's Bogoliubov step (K = chol(H) upper
// triangular, per spec §4.9).
func CholUpper(a *mat.CDense) (*mat.CDense, error) {
	n, nc := a.Dims()
	if n != nc {
		return nil, chk.Err("herm.CholUpper: matrix must be square, got %dx%d", n, nc)
	}
	k := mat.NewCDense(n, n, nil)
	for j := 0; j < n; j++ {
		s := a.At(j, j)
		for p := 0; p < j; p++ {
			kpj := k.At(p, j)
			s -= complex(real(kpj)*real(kpj)+imag(kpj)*imag(kpj), 0)
		}
		if real(s) <= 0 {
			return nil, chk.Err("herm.CholUpper: matrix is not positive-definite at pivot %d (residual=%v)", j, s)
		}
		kjj := complex(math.Sqrt(real(s)), 0)
		k.Set(j, j, kjj)
		for i := j + 1; i < n; i++ {
			v := a.At(j, i)
			for p := 0; p < j; p++ {
				v -= cmplx.Conj(k.At(p, j)) * k.At(p, i)
			}
			k.Set(j, i, v/kjj)
		}
	}
	return k, nil
}

// Expm returns exp(i*a) for a complex Hermitian a, computed by
// diagonalizing a and exponentiating its (real) eigenvalues with a unit
// imaginary factor. Used to build the SU(2)/SU(N) representation of an
// SO(3) rotation, exp(-i*theta*(axis.S)) (see stevens.RotationOperator,
// which passes a = -theta*(axis.S)).
func Expm(a *mat.CDense) (*mat.CDense, error) {
	n, _ := a.Dims()
	vals, vecs, err := Eigh(a)
	if err != nil {
		return nil, err
	}
	d := mat.NewCDense(n, n, nil)
	for i, v := range vals {
		d.Set(i, i, cmplx.Exp(complex(0, v)))
	}
	return MulC(MulC(vecs, d), Dagger(vecs)), nil
}
