// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stevens

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/MagSims/FastDipole-sub000/internal/herm"
	"gonum.org/v1/gonum/mat"
)

// Orders is the set of anisotropy ranks supported by StevensExpansion;
// odd ranks and k>6 are rejected per §4.2 (UnsupportedAnisotropy).
var Orders = [3]int{2, 4, 6}

type basisKey struct {
	N int
}

var basisCache sync.Map // basisKey -> map[int][]*mat.CDense (k -> ordered by q=-k..k)

// basis returns, for a given local Hilbert dimension N, the real Hermitian
// Stevens operator basis O_{k,q} for k in {2,4,6}, ordered within each k by
// q=-k..k (index = q+k, matching the Julia-1-based "c4[5]" = q=0 literal
// indices carried over by spec.md -- see DESIGN.md).
//
// Built via the "standard recursive form" explicitly permitted by §4.2:
// start from the stretched tensor component T^k_k=(J+)^k and descend via
// the rank-k ladder identity [J-,T^k_q] = sqrt((k+q)(k-q+1)) T^k_{q-1},
// then take real/imaginary combinations of +-q pairs to obtain a
// Hermitian basis, exactly as real spherical harmonics are built from
// complex ones.
func basis(N int) map[int][]*mat.CDense {
	key := basisKey{N}
	if v, ok := basisCache.Load(key); ok {
		return v.(map[int][]*mat.CDense)
	}
	_, Jp, Jm := SpinOps(N)
	out := make(map[int][]*mat.CDense, len(Orders))
	for _, k := range Orders {
		Tk := tensorComponents(Jp, Jm, N, k)
		out[k] = realBasisFromTensor(Tk, k)
	}
	basisCache.Store(key, out)
	return out
}

// tensorComponents returns T^k_q for q=k downto -k, index 0 is q=k.
func tensorComponents(Jp, Jm *mat.CDense, N, k int) []*mat.CDense {
	T := make([]*mat.CDense, 2*k+1) // T[0]=q=k, T[2k]=q=-k
	top := identityC(N)
	for i := 0; i < k; i++ {
		top = herm.MulC(top, Jp)
	}
	T[0] = top
	for idx := 0; idx < 2*k; idx++ {
		q := k - idx
		denom := math.Sqrt(float64((k + q) * (k - q + 1)))
		if denom < 1e-300 {
			panic(fmt.Sprintf("stevens: degenerate ladder coefficient at k=%d q=%d", k, q))
		}
		comm := subC(herm.MulC(Jm, T[idx]), herm.MulC(T[idx], Jm))
		T[idx+1] = scaleC(comm, complex(1/denom, 0))
	}
	return T
}

// realBasisFromTensor builds the Hermitian real Stevens basis for a given
// k from the complex tensor components Tk[i] (q = k-i), returning a slice
// of length 2k+1 ordered by q=-k..k (index = q+k).
func realBasisFromTensor(Tk []*mat.CDense, k int) []*mat.CDense {
	n := len(Tk)
	idxOf := func(q int) int { return k - q } // position of T^k_q in Tk
	out := make([]*mat.CDense, n)
	// q=0
	T0 := Tk[idxOf(0)]
	out[k] = hermitize(T0)
	for p := 1; p <= k; p++ {
		Tp := Tk[idxOf(p)]
		Tmp := Tk[idxOf(-p)]
		sign := 1.0
		if p%2 == 1 {
			sign = -1.0
		}
		// O_{k,+p} = (T_{-p} + sign*T_p)/sqrt2
		pos := scaleC(addC(Tmp, scaleC(Tp, complex(sign, 0))), complex(1/math.Sqrt2, 0))
		out[k+p] = hermitize(pos)
		// O_{k,-p} = (T_{-p} - sign*T_p)/(i*sqrt2)
		neg := scaleC(subC(Tmp, scaleC(Tp, complex(sign, 0))), complex(0, -1/math.Sqrt2))
		out[k-p] = hermitize(neg)
	}
	return out
}

func hermitize(a *mat.CDense) *mat.CDense {
	d := herm.Dagger(a)
	return scaleC(addC(a, d), complex(0.5, 0))
}

func identityC(n int) *mat.CDense {
	m := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func addC(a, b *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	out := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, a.At(i, j)+b.At(i, j))
		}
	}
	return out
}

func subC(a, b *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	out := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, a.At(i, j)-b.At(i, j))
		}
	}
	return out
}

func scaleC(a *mat.CDense, s complex128) *mat.CDense {
	r, c := a.Dims()
	out := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, s*a.At(i, j))
		}
	}
	return out
}

// traceInner returns tr(A^dagger B).
func traceInner(a, b *mat.CDense) complex128 {
	r, c := a.Dims()
	var s complex128
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			s += cmplx.Conj(a.At(i, j)) * b.At(i, j)
		}
	}
	return s
}
