// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stevens

import (
	"fmt"
	"math"

	"github.com/MagSims/FastDipole-sub000/internal/herm"
	"gonum.org/v1/gonum/mat"
)

// Expansion is a StevensExpansion: c2 (q=-2..2), c4 (q=-4..4), c6
// (q=-6..6), each indexed by q+k (0-based Go index), matching the
// q=0 component sitting at c2[2], c4[4], c6[6]. See DESIGN.md for why
// spec.md's literal "c2[3]"/"c4[5]"/"c6[7]" (Julia 1-based) all name that
// same q=0 slot.
type Expansion struct {
	C2 [5]float64
	C4 [9]float64
	C6 [13]float64
}

// UnsupportedAnisotropyError reports an odd-order or out-of-range Stevens
// coefficient found while decomposing an operator (§7).
type UnsupportedAnisotropyError struct {
	Residual float64
}

func (e *UnsupportedAnisotropyError) Error() string {
	return "stevens: operator has a non-Stevens (odd-order or k>6) component of magnitude " + formatFloat(e.Residual)
}

func (e *UnsupportedAnisotropyError) Kind() string { return "UnsupportedAnisotropy" }

func formatFloat(v float64) string {
	return fmt.Sprintf("%v", mat.Formatted(mat.NewDense(1, 1, []float64{v})))
}

// BuildHermitian assembles Lambda = sum_{k,q} c_{k,q} O_{k,q}, the
// Hermitian matrix used by the quantum (SU(N)) evaluation path of §4.2.
func (e Expansion) BuildHermitian(N int) *mat.CDense {
	b := basis(N)
	out := mat.NewCDense(N, N, nil)
	add := func(coefs []float64, k int) {
		ops := b[k]
		for i, c := range coefs {
			if c == 0 {
				continue
			}
			op := ops[i]
			for r := 0; r < N; r++ {
				for cc := 0; cc < N; cc++ {
					out.Set(r, cc, out.At(r, cc)+complex(c, 0)*op.At(r, cc))
				}
			}
		}
	}
	add(e.C2[:], 2)
	add(e.C4[:], 4)
	add(e.C6[:], 6)
	return out
}

// Decompose projects a Hermitian operator A (size NxN) onto the Stevens
// basis, returning the real coefficients c_{k,q} = tr(O_{k,q}^dagger A) /
// tr(O_{k,q}^dagger O_{k,q}), and failing with UnsupportedAnisotropyError
// if the Frobenius norm of the residual A - Lambda(c) - c0*I exceeds 1e-9
// (c0 the identity part; the check is absolute, so A carrying an
// odd-order, or higher than k=6, component not representable as a
// classical-limit anisotropy), per §4.2 and §7.
func Decompose(N int, A *mat.CDense) (Expansion, error) {
	b := basis(N)
	var e Expansion
	project := func(dst []float64, k int) {
		for i, op := range b[k] {
			num := real(traceInner(op, A))
			den := real(traceInner(op, op))
			dst[i] = num / den
		}
	}
	project(e.C2[:], 2)
	project(e.C4[:], 4)
	project(e.C6[:], 6)

	// A k=0 (identity) component is a constant energy offset, dropped
	// rather than rejected: it shifts neither forces nor energy
	// differences.
	var tr complex128
	for i := 0; i < N; i++ {
		tr += A.At(i, i)
	}
	c0 := real(tr) / float64(N)

	recon := e.BuildHermitian(N)
	for i := 0; i < N; i++ {
		recon.Set(i, i, recon.At(i, i)+complex(c0, 0))
	}
	residual := frobeniusDist(A, recon)
	if residual > 1e-9 {
		return Expansion{}, &UnsupportedAnisotropyError{Residual: residual}
	}
	return e, nil
}

func frobeniusDist(a, b *mat.CDense) float64 {
	r, c := a.Dims()
	s := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := a.At(i, j) - b.At(i, j)
			s += real(d)*real(d) + imag(d)*imag(d)
		}
	}
	return math.Sqrt(s)
}

// Rotate returns the Stevens expansion of the anisotropy after rotating
// the local frame by the Cartesian rotation R: it builds Lambda, conjugates
// it by the (2S+1)-dim spin-rotation representation of R (the Wigner-D
// analogue used by set_onsite_coupling!'s propagation to symmetry
// equivalent sites, §4.4), and decomposes the result back into Stevens
// coefficients.
func (e Expansion) Rotate(N int, R [3][3]float64) (Expansion, error) {
	U, err := RotationOperator(N, R)
	if err != nil {
		return Expansion{}, err
	}
	lam := e.BuildHermitian(N)
	rotated := herm.MulC(herm.MulC(herm.Dagger(U), lam), U)
	return Decompose(N, rotated)
}
