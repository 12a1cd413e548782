// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package swt assembles the bosonic linear spin-wave Hamiltonian H(q) of
// §4.8 (dipole mode via Holstein-Primakoff local frames, SU(N) mode via
// the N-1 boson flavors per site of §4.8.1), diagonalizes it with the
// para-unitary Bogoliubov transform of §4.9, and reports dispersion and
// broadened intensity.
package swt

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ewald"
	"github.com/MagSims/FastDipole-sub000/ham"
	"github.com/MagSims/FastDipole-sub000/internal/herm"
	"github.com/MagSims/FastDipole-sub000/stevens"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// energyEpsilon is added to H's diagonal before Cholesky so a marginally
// stable (gapless) mode does not break the factorization (§4.8). It is
// kept just above double-precision roundoff on H's scale so dispersion
// values stay accurate to ~1e-10.
const energyEpsilon = 1e-12

// SWT precomputes the per-site local data needed to assemble H(q) for a
// classically converged System: local frames and local-frame onsite
// coefficients in dipole/largeS mode, local unitaries and localized
// operators in SU(N) mode.
type SWT struct {
	Sys    *ham.System
	Frames [][3][3]float64 // per (cell,sublattice); dipole/largeS mode only
	L      int             // total boson flavors
	NSites int             // number of (cell,sublattice) sites

	// RowOffset[site] is the first boson row belonging to site; the
	// site's flavors occupy RowOffset[site]..RowOffset[site+1]-1. In
	// dipole mode every site carries exactly one flavor.
	RowOffset []int

	// Dipole-mode local-frame onsite anisotropy, precomputed once: the
	// per-site diagonal coefficient (added to both particle and hole
	// blocks) and the anomalous b†b† coefficient.
	onsiteDiag []float64
	onsitePair []complex128

	Sun []SunSite // SU(N) mode only
}

// New builds an SWT context from sys's current classical configuration.
// In dipole/largeS mode each site's local frame rotates its dipole onto
// +z; in SU(N) mode each site's local unitary rotates its coherent ket
// onto the first basis vector. sys should already be at a local energy
// minimum (§4.8's precondition, surfaced downstream by Bogoliubov's
// NotAGroundState failure rather than here).
func New(sys *ham.System) *SWT {
	if sys.Mode == ham.SUN {
		return newSUN(sys)
	}
	n := len(sys.Dipoles)
	frames := make([][3][3]float64, n)
	for i, d := range sys.Dipoles {
		frames[i] = stevens.LocalFrame(d)
	}
	offsets := make([]int, n)
	for i := range offsets {
		offsets[i] = i
	}
	s := &SWT{Sys: sys, Frames: frames, L: n, NSites: n, RowOffset: offsets}
	s.precomputeOnsite()
	return s
}

// precomputeOnsite rotates each site's anisotropy operator into the
// local frame and extracts the quadratic boson coefficients of its
// coherent-state (renormalized classical) energy surface: second
// derivatives of E(n) = <n|Λ|n> on the spin sphere at the ground
// direction, evaluated analytically through double commutators with the
// transverse spin generators. Coherent expectations of rank-k Stevens
// operators carry the 1-1/(2S)-family renormalization factors exactly,
// which is what the canted-AFM reference dispersions (and the classical
// engine's own CoherentEnergy path) assume -- see DESIGN.md decision 9.
func (s *SWT) precomputeOnsite() {
	n := s.NSites
	s.onsiteDiag = make([]float64, n)
	s.onsitePair = make([]complex128, n)
	for i := 0; i < n; i++ {
		sub := subOf(s.Sys, i)
		N := s.Sys.Ns[sub]
		exp := s.Sys.InteractionsAt(cellOf(s.Sys, i), sub).OnsiteClassical
		if exp == (stevens.Expansion{}) || N < 2 {
			continue
		}
		lam := exp.BuildHermitian(N)
		U, err := stevens.RotationOperator(N, transposeFrame(s.Frames[i]))
		if err != nil {
			chk.Panic("swt: cannot rotate onsite anisotropy into the local frame: %v", err)
		}
		local := herm.MulC(herm.MulC(herm.Dagger(U), lam), U)

		ops := stevens.DipoleOps(N)
		Jx, Jy := ops[0], ops[1]
		// f(a,b) = <0| exp(i(a Jy - b Jx)) Λ exp(-i(a Jy - b Jx)) |0> is
		// the coherent energy at transverse displacement (sx,sy)=(Sa,Sb);
		// its second derivatives are expectation values of double
		// commutators in the local stretched state (index 0).
		faa := -real(commC(Jy, commC(Jy, local)).At(0, 0))
		fbb := -real(commC(Jx, commC(Jx, local)).At(0, 0))
		cross := addInto2(commC(Jy, commC(Jx, local)), commC(Jx, commC(Jy, local)))
		fab := real(cross.At(0, 0)) / 2

		S := s.Sys.SiteInfos[sub].S
		s.onsiteDiag[i] = (faa + fbb) / (4 * S)
		s.onsitePair[i] = complex((faa-fbb)/(4*S), fab/(2*S))
	}
}

func commC(a, b *mat.CDense) *mat.CDense {
	ab := herm.MulC(a, b)
	ba := herm.MulC(b, a)
	n, m := ab.Dims()
	out := mat.NewCDense(n, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			out.Set(i, j, ab.At(i, j)-ba.At(i, j))
		}
	}
	return out
}

func addInto2(a, b *mat.CDense) *mat.CDense {
	n, m := a.Dims()
	out := mat.NewCDense(n, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			out.Set(i, j, a.At(i, j)+b.At(i, j))
		}
	}
	return out
}

func transposeFrame(R [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[j][i] = R[i][j]
		}
	}
	return out
}

// HamiltonianAt assembles H(q), the 2L x 2L bosonic Bogoliubov-de Gennes
// matrix of §4.8, for wavevector q (fractional reciprocal coordinates).
func (s *SWT) HamiltonianAt(q [3]float64) *mat.CDense {
	if s.Sys.Mode == ham.SUN {
		return s.hamiltonianSUN(q)
	}
	L := s.L
	H := mat.NewCDense(2*L, 2*L, nil)
	nsub := s.Sys.NumSublattices()

	for cx := 0; cx < s.Sys.Latsize[0]; cx++ {
		for cy := 0; cy < s.Sys.Latsize[1]; cy++ {
			for cz := 0; cz < s.Sys.Latsize[2]; cz++ {
				cell := [3]int{cx, cy, cz}
				for sub := 0; sub < nsub; sub++ {
					i := s.Sys.Index(cell, sub)
					s.addOnsite(H, i, sub)

					it := s.Sys.InteractionsAt(cell, sub)
					for _, pc := range it.Pair {
						if pc.IsCulled {
							continue
						}
						jCell := wrapCell(addOffset(cell, pc.Bond.N), s.Sys.Latsize)
						j := s.Sys.Index(jCell, pc.Bond.J)
						phase := cmplxPhase(2 * math.Pi * dot3(q, float64N(pc.Bond.N)))
						s.addBilinear(H, i, j, pc, phase)
					}
				}
			}
		}
	}

	if e, ok := s.Sys.Ewald.(*ewald.Ewald); ok && e != nil {
		s.addDipoleDipole(H, e, q)
	}

	hermitize2L(H, L)
	return H
}

// hermitize2L enforces H = (H+H†)/2 and bumps the diagonal by
// energyEpsilon so Cholesky is guaranteed to succeed on a marginally
// stable assembly.
func hermitize2L(H *mat.CDense, L int) {
	for i := 0; i < 2*L; i++ {
		for j := i + 1; j < 2*L; j++ {
			avg := (H.At(i, j) + cmplxConj(H.At(j, i))) / 2
			H.Set(i, j, avg)
			H.Set(j, i, cmplxConj(avg))
		}
		H.Set(i, i, complex(real(H.At(i, i)), 0)+energyEpsilon)
	}
}

func (s *SWT) addOnsite(H *mat.CDense, i, sub int) {
	info := s.Sys.SiteInfos[sub]
	R := s.Frames[i]
	B := s.Sys.ExtField[i]
	gB := info.G.T().MulVec(crystal.Vec3(B))
	// R[:,2] (0-based third column) is spec's R_i[:,3] (Julia 1-based).
	zeeman := s.Sys.Units.MuB * (R[0][2]*gB[0] + R[1][2]*gB[1] + R[2][2]*gB[2]) / 2

	L := s.L
	v := complex(s.onsiteDiag[i]+zeeman, 0)
	H.Set(i, i, H.At(i, i)+v)
	H.Set(L+i, L+i, H.At(L+i, L+i)+v)
	if w := s.onsitePair[i]; w != 0 {
		H.Set(i, L+i, H.At(i, L+i)+w)
		H.Set(L+i, i, H.At(L+i, i)+cmplxConj(w))
	}
}

func cellOf(sys *ham.System, idx int) [3]int {
	nsub := sys.NumSublattices()
	ncellIdx := idx / nsub
	L2 := sys.Latsize[2]
	L1 := sys.Latsize[1]
	c2 := ncellIdx % L2
	rest := ncellIdx / L2
	c1 := rest % L1
	c0 := rest / L1
	return [3]int{c0, c1, c2}
}

// addBilinear adds one PairCoupling's contribution to the four H blocks,
// per §4.8's P/Q construction: Rtilde = S * R_i^T J R_j, P = 1/4(R11-R22
// -i R12 -i R21), Q = 1/4(R11+R22 -i R12 +i R21), diag = -1/2 R33.
func (s *SWT) addBilinear(H *mat.CDense, i, j int, pc ham.PairCoupling, phase complex128) {
	Ri := s.Frames[i]
	Rj := s.Frames[j]
	Si := s.Sys.SiteInfos[subOf(s.Sys, i)].S
	Sj := s.Sys.SiteInfos[subOf(s.Sys, j)].S
	Sfac := math.Sqrt(Si * Sj)

	Rt := sandwich(Ri, pc.BilinMat, Rj, Sfac)
	if pc.HasBiquad {
		Rt = matAdd3(Rt, scale3(sandwich(Ri, identity3(), Rj, 1), -pc.Biquad*Sfac/2))
	}
	s.addBlocks(H, i, j, Rt, phase)
}

// addExchangeMatrix folds an explicit Cartesian coupling J between sites
// i and j through the same local-frame P/Q machinery addBilinear uses
// for stored pair couplings; the dipole-dipole channel enters H(q) this
// way.
func (s *SWT) addExchangeMatrix(H *mat.CDense, i, j int, J crystal.Mat3, phase complex128) {
	Ri := s.Frames[i]
	Rj := s.Frames[j]
	Si := s.Sys.SiteInfos[subOf(s.Sys, i)].S
	Sj := s.Sys.SiteInfos[subOf(s.Sys, j)].S
	Rt := sandwich(Ri, J, Rj, math.Sqrt(Si*Sj))
	s.addBlocks(H, i, j, Rt, phase)
}

func (s *SWT) addBlocks(H *mat.CDense, i, j int, Rt [3][3]float64, phase complex128) {
	L := s.L
	P := complex(0.25*(Rt[0][0]-Rt[1][1]), -0.25*(Rt[0][1]+Rt[1][0]))
	Q := complex(0.25*(Rt[0][0]+Rt[1][1]), 0.25*(-Rt[0][1]+Rt[1][0]))
	diag := complex(-0.5*Rt[2][2], 0)

	H.Set(i, i, H.At(i, i)+diag)
	H.Set(j, j, H.At(j, j)+diag)
	H.Set(L+i, L+i, H.At(L+i, L+i)+diag)
	H.Set(L+j, L+j, H.At(L+j, L+j)+diag)

	H.Set(i, j, H.At(i, j)+Q*phase)
	H.Set(j, i, H.At(j, i)+cmplxConj(Q*phase))
	H.Set(L+i, L+j, H.At(L+i, L+j)+cmplxConj(Q*phase))
	H.Set(L+j, L+i, H.At(L+j, L+i)+Q*phase)

	H.Set(i, L+j, H.At(i, L+j)+P*phase)
	H.Set(L+j, i, H.At(L+j, i)+cmplxConj(P*phase))
	H.Set(L+i, j, H.At(L+i, j)+cmplxConj(P*phase))
	H.Set(j, L+i, H.At(j, L+i)+P*phase)
}

// addDipoleDipole folds the precomputed Ewald tensor into H(q): every
// ordered site pair carries the effective bilinear coupling
// (1/2) muB^2 g_i^T A(Δcell,i,j) g_j with Bloch phase exp(2πi q·Δcell).
// The tensor already sums over periodic images at supercell spacing, so
// the result is exact for q commensurate with the system's supercell.
func (s *SWT) addDipoleDipole(H *mat.CDense, e *ewald.Ewald, q [3]float64) {
	nsub := s.Sys.NumSublattices()
	muB := s.Sys.Units.MuB
	ls := s.Sys.Latsize
	for cx := 0; cx < ls[0]; cx++ {
		for cy := 0; cy < ls[1]; cy++ {
			for cz := 0; cz < ls[2]; cz++ {
				cell := [3]int{cx, cy, cz}
				for a := 0; a < nsub; a++ {
					i := s.Sys.Index(cell, a)
					ga := s.Sys.SiteInfos[a].G
					for dx := 0; dx < ls[0]; dx++ {
						for dy := 0; dy < ls[1]; dy++ {
							for dz := 0; dz < ls[2]; dz++ {
								dcell := [3]int{dx, dy, dz}
								jCell := wrapCell(addOffset(cell, dcell), ls)
								for b := 0; b < nsub; b++ {
									j := s.Sys.Index(jCell, b)
									gb := s.Sys.SiteInfos[b].G
									A := e.TensorAt(dcell, a, b)
									J := ga.T().Mul(A).Mul(gb).Scale(0.5 * muB * muB)
									phase := cmplxPhase(2 * math.Pi * dot3(q, float64N(dcell)))
									s.addExchangeMatrix(H, i, j, J, phase)
								}
							}
						}
					}
				}
			}
		}
	}
}

func subOf(sys *ham.System, idx int) int { return idx % sys.NumSublattices() }

func sandwich(Ri [3][3]float64, J crystal.Mat3, Rj [3][3]float64, scale float64) [3][3]float64 {
	var RiT [3][3]float64
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			RiT[a][b] = Ri[b][a]
		}
	}
	var tmp, out [3][3]float64
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			var acc float64
			for k := 0; k < 3; k++ {
				acc += RiT[a][k] * J[k][b]
			}
			tmp[a][b] = acc
		}
	}
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			var acc float64
			for k := 0; k < 3; k++ {
				acc += tmp[a][k] * Rj[k][b]
			}
			out[a][b] = acc * scale
		}
	}
	return out
}

func identity3() crystal.Mat3 { return crystal.Identity3() }

func matAdd3(a, b [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][j] + b[i][j]
		}
	}
	return out
}

func scale3(a [3][3]float64, s float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][j] * s
		}
	}
	return out
}

func addOffset(cell, n [3]int) [3]int {
	return [3]int{cell[0] + n[0], cell[1] + n[1], cell[2] + n[2]}
}

func wrapCell(cell, latsize [3]int) [3]int {
	return [3]int{wrap(cell[0], latsize[0]), wrap(cell[1], latsize[1]), wrap(cell[2], latsize[2])}
}

func wrap(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

func dot3(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func float64N(n [3]int) [3]float64 { return [3]float64{float64(n[0]), float64(n[1]), float64(n[2])} }

func cmplxPhase(theta float64) complex128 { return complex(math.Cos(theta), math.Sin(theta)) }

func cmplxConj(z complex128) complex128 { return complex(real(z), -imag(z)) }
