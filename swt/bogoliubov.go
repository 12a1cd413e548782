// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swt

import (
	"math"
	"sort"

	"github.com/MagSims/FastDipole-sub000/internal/herm"
	"gonum.org/v1/gonum/mat"
)

// NotAGroundStateError is raised when H is not positive-definite after
// the energy-epsilon diagonal bump, meaning the classical configuration
// the Hamiltonian was assembled around is not a local energy minimum.
type NotAGroundStateError struct {
	Msg string
}

func (e *NotAGroundStateError) Error() string { return "NotAGroundState: " + e.Msg }

// Bogoliubov holds the para-unitary transform T and the physical
// excitation energies of a diagonalized H(q) (§4.9).
type Bogoliubov struct {
	T         *mat.CDense // 2L x 2L
	Energies  []float64   // length L, ascending +q branch
}

// Diagonalize performs the para-unitary Bogoliubov transform of §4.9:
// K = chol(H) (upper triangular), solve the Hermitian eigenproblem
// K Ĩ K† = U Λ U† with eigenvalues sorted (-sign, |λ|) so positive come
// first, then T = K^-1 U diag(sqrt(|λ|)). The physical excitation
// energies are ω_i = 2|λ_i|, so that T† H T = diag(ω)/2 and
// T† Ĩ T = Ĩ both hold exactly (Colpa's construction). Returns
// NotAGroundStateError on Cholesky failure (H not positive-definite,
// meaning the classical configuration is not a local energy minimum),
// or InstabilityError when the sorted eigenvalues do not split into L
// positive followed by L negative.
func Diagonalize(H *mat.CDense) (*Bogoliubov, error) {
	n2, _ := H.Dims()
	L := n2 / 2

	K, err := herm.CholUpper(H)
	if err != nil {
		return nil, &NotAGroundStateError{Msg: err.Error()}
	}

	Itilde := mat.NewCDense(n2, n2, nil)
	for i := 0; i < L; i++ {
		Itilde.Set(i, i, 1)
	}
	for i := L; i < n2; i++ {
		Itilde.Set(i, i, -1)
	}

	M := herm.MulC(herm.MulC(K, Itilde), herm.Dagger(K))
	lambda, U, err := herm.Eigh(M)
	if err != nil {
		return nil, &NotAGroundStateError{Msg: err.Error()}
	}

	idx := make([]int, n2)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		sa, sb := sign(lambda[idx[a]]), sign(lambda[idx[b]])
		if sa != sb {
			return sa > sb
		}
		return math.Abs(lambda[idx[a]]) < math.Abs(lambda[idx[b]])
	})

	Usorted := mat.NewCDense(n2, n2, nil)
	lamSorted := make([]float64, n2)
	for col, oi := range idx {
		lamSorted[col] = lambda[oi]
		for r := 0; r < n2; r++ {
			Usorted.Set(r, col, U.At(r, oi))
		}
	}

	for i := 0; i < n2; i++ {
		if (i < L) != (lamSorted[i] > 0) {
			return nil, &InstabilityError{Index: i, Lambda: lamSorted[i]}
		}
	}

	Kinv := invertUpper(K)
	D := mat.NewCDense(n2, n2, nil)
	for i := 0; i < n2; i++ {
		D.Set(i, i, complex(math.Sqrt(math.Abs(lamSorted[i])), 0))
	}
	T := herm.MulC(herm.MulC(Kinv, Usorted), D)

	energies := make([]float64, L)
	for i := 0; i < L; i++ {
		energies[i] = 2 * math.Abs(lamSorted[i])
	}
	return &Bogoliubov{T: T, Energies: energies}, nil
}

// InstabilityError reports a wrong sign pattern among the sorted
// eigenvalues of K Ĩ K† (§7's InstabilityAtQ); Dispersion and the
// intensity paths annotate it with the offending q.
type InstabilityError struct {
	Index  int
	Lambda float64
	HasQ   bool
	Q      [3]float64
}

func (e *InstabilityError) Error() string {
	msg := "InstabilityAtQ: eigenvalue with the wrong sign after sorting"
	if e.HasQ {
		return msg + " (q set)"
	}
	return msg
}

func sign(x float64) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

// invertUpper inverts a (nonsingular) upper-triangular complex matrix by
// back substitution.
func invertUpper(K *mat.CDense) *mat.CDense {
	n, _ := K.Dims()
	inv := mat.NewCDense(n, n, nil)
	for col := 0; col < n; col++ {
		e := make([]complex128, n)
		e[col] = 1
		x := make([]complex128, n)
		for i := n - 1; i >= 0; i-- {
			s := e[i]
			for j := i + 1; j < n; j++ {
				s -= K.At(i, j) * x[j]
			}
			x[i] = s / K.At(i, i)
		}
		for i := 0; i < n; i++ {
			inv.Set(i, col, x[i])
		}
	}
	return inv
}
