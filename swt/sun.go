// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swt

import (
	"math"
	"math/cmplx"

	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ham"
	"github.com/MagSims/FastDipole-sub000/stevens"
	"gonum.org/v1/gonum/mat"
)

// SunSite holds one site's local data for the SU(N) spin-wave path: the
// unitary rotating the site's coherent ground ket onto the first basis
// vector, the localized onsite operator (anisotropy plus Zeeman), and
// the localized Cartesian spin operators used as observables. The site's
// N-1 boson flavors are the excited local basis states 1..N-1.
type SunSite struct {
	N      int
	Sub    int
	U      *mat.CDense
	Onsite *mat.CDense
	Obs    [3]*mat.CDense
}

func newSUN(sys *ham.System) *SWT {
	nsites := len(sys.Coherents)
	s := &SWT{Sys: sys, NSites: nsites}
	s.Sun = make([]SunSite, nsites)
	s.RowOffset = make([]int, nsites)
	nsub := sys.NumSublattices()

	row := 0
	for cx := 0; cx < sys.Latsize[0]; cx++ {
		for cy := 0; cy < sys.Latsize[1]; cy++ {
			for cz := 0; cz < sys.Latsize[2]; cz++ {
				cell := [3]int{cx, cy, cz}
				for sub := 0; sub < nsub; sub++ {
					idx := sys.Index(cell, sub)
					N := sys.Ns[sub]
					U := localUnitary(sys.Coherents[idx])
					sd := SunSite{N: N, Sub: sub, U: U}

					ops := stevens.DipoleOps(N)
					for a := 0; a < 3; a++ {
						sd.Obs[a] = localize(U, ops[a])
					}

					on := mat.NewCDense(N, N, nil)
					it := sys.InteractionsAt(cell, sub)
					if it.OnsiteQuantum != nil {
						addInto(on, it.OnsiteQuantum, 1)
					}
					info := sys.SiteInfos[sub]
					gB := info.G.T().MulVec(crystal.Vec3(sys.ExtField[idx]))
					for a := 0; a < 3; a++ {
						addInto(on, ops[a], complex(-sys.Units.MuB*gB[a], 0))
					}
					sd.Onsite = localize(U, on)

					s.Sun[idx] = sd
					s.RowOffset[idx] = row
					row += N - 1
				}
			}
		}
	}
	s.L = row
	return s
}

// localUnitary returns a unitary whose first column is Z, completed by
// Gram-Schmidt over the canonical basis.
func localUnitary(Z []complex128) *mat.CDense {
	N := len(Z)
	cols := make([][]complex128, 0, N)
	z := append([]complex128(nil), Z...)
	normalizeCol(z)
	cols = append(cols, z)
	for k := 0; k < N && len(cols) < N; k++ {
		v := make([]complex128, N)
		v[k] = 1
		for _, c := range cols {
			var overlap complex128
			for i := 0; i < N; i++ {
				overlap += cmplx.Conj(c[i]) * v[i]
			}
			for i := 0; i < N; i++ {
				v[i] -= overlap * c[i]
			}
		}
		nrm := 0.0
		for _, x := range v {
			nrm += real(x)*real(x) + imag(x)*imag(x)
		}
		if math.Sqrt(nrm) < 1e-8 {
			continue
		}
		normalizeCol(v)
		cols = append(cols, v)
	}
	U := mat.NewCDense(N, N, nil)
	for j, c := range cols {
		for i := 0; i < N; i++ {
			U.Set(i, j, c[i])
		}
	}
	return U
}

func normalizeCol(v []complex128) {
	s := 0.0
	for _, x := range v {
		s += real(x)*real(x) + imag(x)*imag(x)
	}
	nrm := math.Sqrt(s)
	if nrm < 1e-300 {
		return
	}
	for i := range v {
		v[i] /= complex(nrm, 0)
	}
}

// localize conjugates a lab-frame operator into the site's local basis.
func localize(U *mat.CDense, op *mat.CDense) *mat.CDense {
	N, _ := op.Dims()
	out := mat.NewCDense(N, N, nil)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			var acc complex128
			for a := 0; a < N; a++ {
				var row complex128
				for b := 0; b < N; b++ {
					row += op.At(a, b) * U.At(b, j)
				}
				acc += cmplx.Conj(U.At(a, i)) * row
			}
			out.Set(i, j, acc)
		}
	}
	return out
}

func addInto(dst, src *mat.CDense, scale complex128) {
	r, c := dst.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(i, j, dst.At(i, j)+scale*src.At(i, j))
		}
	}
}

// hamiltonianSUN assembles H(q) in the N-1 flavor basis of §4.8's SU(N)
// mode: onsite operators through the single-site template, bilinear
// exchange expanded into spin-operator pairs, and general pair couplings
// through the ten-element template of §4.8.1.
func (s *SWT) hamiltonianSUN(q [3]float64) *mat.CDense {
	L := s.L
	H := mat.NewCDense(2*L, 2*L, nil)
	nsub := s.Sys.NumSublattices()

	for cx := 0; cx < s.Sys.Latsize[0]; cx++ {
		for cy := 0; cy < s.Sys.Latsize[1]; cy++ {
			for cz := 0; cz < s.Sys.Latsize[2]; cz++ {
				cell := [3]int{cx, cy, cz}
				for sub := 0; sub < nsub; sub++ {
					i := s.Sys.Index(cell, sub)
					s.addOnsiteSUN(H, i)

					it := s.Sys.InteractionsAt(cell, sub)
					for _, pc := range it.Pair {
						if pc.IsCulled {
							continue
						}
						jCell := wrapCell(addOffset(cell, pc.Bond.N), s.Sys.Latsize)
						j := s.Sys.Index(jCell, pc.Bond.J)
						phase := cmplxPhase(2 * math.Pi * dot3(q, float64N(pc.Bond.N)))

						if pc.BilinMat != (crystal.Mat3{}) {
							s.addBilinearSUN(H, i, j, pc.BilinMat, phase)
						}
						for _, t := range pc.General {
							s.addPairSUN(H, i, j, t.A, t.B, phase)
						}
					}
				}
			}
		}
	}

	hermitize2L(H, L)
	return H
}

// addOnsiteSUN applies the single-site template c_{mn} =
// (op[m,n] - δ_{mn} op[g,g])/2 with the ground state at local index 0.
func (s *SWT) addOnsiteSUN(H *mat.CDense, i int) {
	sd := s.Sun[i]
	L := s.L
	r0 := s.RowOffset[i]
	op := sd.Onsite
	g := op.At(0, 0)
	for m := 1; m < sd.N; m++ {
		for n := 1; n < sd.N; n++ {
			c := op.At(m, n) / 2
			if m == n {
				c -= g / 2
			}
			H.Set(r0+m-1, r0+n-1, H.At(r0+m-1, r0+n-1)+c)
			H.Set(L+r0+n-1, L+r0+m-1, H.At(L+r0+n-1, L+r0+m-1)+c)
		}
	}
}

// addBilinearSUN expands s_i · J · s_j into spin-operator pairs
// (S^a, Σ_b J_ab S^b) and routes each through the general template.
func (s *SWT) addBilinearSUN(H *mat.CDense, i, j int, J crystal.Mat3, phase complex128) {
	Ni := s.Sun[i].N
	Nj := s.Sun[j].N
	opsI := stevens.DipoleOps(Ni)
	opsJ := stevens.DipoleOps(Nj)
	for a := 0; a < 3; a++ {
		B := mat.NewCDense(Nj, Nj, nil)
		nonzero := false
		for b := 0; b < 3; b++ {
			if J[a][b] == 0 {
				continue
			}
			addInto(B, opsJ[b], complex(J[a][b], 0))
			nonzero = true
		}
		if !nonzero {
			continue
		}
		s.addPairSUN(H, i, j, opsI[a], B, phase)
	}
}

// addPairSUN applies §4.8.1's ten-element template for one (A,B)
// operator pair on the bond i→j, with the ground state at local index 0
// and φ the bond's Bloch phase. H21 entries are written explicitly as
// the conjugates of their H12 partners.
func (s *SWT) addPairSUN(H *mat.CDense, i, j int, A, B *mat.CDense, phase complex128) {
	L := s.L
	sdI, sdJ := s.Sun[i], s.Sun[j]
	At := localize(sdI.U, A)
	Bt := localize(sdJ.U, B)
	ri, rj := s.RowOffset[i], s.RowOffset[j]
	a00 := At.At(0, 0)
	b00 := Bt.At(0, 0)

	for m := 1; m < sdI.N; m++ {
		for n := 1; n < sdI.N; n++ {
			c1 := At.At(m, n) / 2 * b00
			if m == n {
				c1 -= a00 / 2 * b00
			}
			H.Set(ri+m-1, ri+n-1, H.At(ri+m-1, ri+n-1)+c1)
			H.Set(L+ri+n-1, L+ri+m-1, H.At(L+ri+n-1, L+ri+m-1)+c1)
		}
	}
	for m := 1; m < sdJ.N; m++ {
		for n := 1; n < sdJ.N; n++ {
			c2 := a00 / 2 * Bt.At(m, n)
			if m == n {
				c2 -= a00 / 2 * b00
			}
			H.Set(rj+m-1, rj+n-1, H.At(rj+m-1, rj+n-1)+c2)
			H.Set(L+rj+n-1, L+rj+m-1, H.At(L+rj+n-1, L+rj+m-1)+c2)
		}
	}
	for m := 1; m < sdI.N; m++ {
		for n := 1; n < sdJ.N; n++ {
			rm := ri + m - 1
			rn := rj + n - 1
			c3 := At.At(m, 0) / 2 * Bt.At(0, n)
			c4 := At.At(0, m) / 2 * Bt.At(n, 0)
			c5 := At.At(m, 0) / 2 * Bt.At(n, 0)

			H.Set(rm, rn, H.At(rm, rn)+c3*phase)
			H.Set(L+rn, L+rm, H.At(L+rn, L+rm)+c3*cmplxConj(phase))

			H.Set(rn, rm, H.At(rn, rm)+c4*cmplxConj(phase))
			H.Set(L+rm, L+rn, H.At(L+rm, L+rn)+c4*phase)

			H.Set(rm, L+rn, H.At(rm, L+rn)+c5*phase)
			H.Set(rn, L+rm, H.At(rn, L+rm)+c5*cmplxConj(phase))
			H.Set(L+rn, rm, H.At(L+rn, rm)+cmplxConj(c5*phase))
			H.Set(L+rm, rn, H.At(L+rm, rn)+cmplxConj(c5*cmplxConj(phase)))
		}
	}
}

// sunBandAmplitude contracts the localized observables with one
// Bogoliubov eigenvector: A_α = Σ_{site,m} phase_site (O[0,m] u_{m} +
// O[m,0] v_{m}), the SU(N) generalization of the linear
// Holstein-Primakoff transverse pair.
func (s *SWT) sunBandAmplitude(q [3]float64, T *mat.CDense, band int) (Ax, Ay, Az complex128) {
	L := s.L
	for site := 0; site < s.NSites; site++ {
		sd := s.Sun[site]
		cell := cellOf(s.Sys, site)
		r := crystal.CellOffsetVec3(cell).Add(s.Sys.Crystal.Positions[sd.Sub])
		phase := cmplxPhase(2 * math.Pi * dot3(q, [3]float64(r)))
		for m := 1; m < sd.N; m++ {
			row := s.RowOffset[site] + m - 1
			u := T.At(row, band)
			v := T.At(L+row, band)
			Ax += phase * (sd.Obs[0].At(0, m)*u + sd.Obs[0].At(m, 0)*v)
			Ay += phase * (sd.Obs[1].At(0, m)*u + sd.Obs[1].At(m, 0)*v)
			Az += phase * (sd.Obs[2].At(0, m)*u + sd.Obs[2].At(m, 0)*v)
		}
	}
	return
}
