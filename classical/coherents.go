// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package classical

import (
	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ewald"
	"github.com/MagSims/FastDipole-sub000/ham"
	"github.com/MagSims/FastDipole-sub000/stevens"
)

// SyncExpectedDipoles rewrites sys.Dipoles from sys.Coherents in SU(N)
// mode, restoring §3's invariant `dipoles = <Z|S|Z>`. The SU(N) samplers
// and integrators call this after every ket update so the bilinear
// exchange channel (which reads dipoles) stays consistent.
func SyncExpectedDipoles(sys *ham.System) {
	if sys.Mode != ham.SUN {
		return
	}
	nsub := sys.NumSublattices()
	for idx := range sys.Coherents {
		sub := idx % nsub
		sys.Dipoles[idx] = stevens.ExpectedSpin(sys.Ns[sub], sys.Coherents[idx])
	}
}

// SetEnergyGradCoherents builds HZ[site] = (Lambda + (dE/ds).S) Z +
// sum_k (A_k Z) <B_k>, the coherent-state gradient of §4.5 used by the
// SU(N) integrator: the dipole-channel gradient (Zeeman, bilinear
// exchange, Ewald) enters through the spin operators, the onsite
// anisotropy through its Hermitian matrix, and the general pair terms
// through their operator halves contracted with the partner's
// expectation value. HZ must have one slice per site, each of the site's
// Hilbert dimension (a nil entry is allocated).
func SetEnergyGradCoherents(HZ [][]complex128, sys *ham.System) {
	grad := make([][3]float64, len(sys.Dipoles))
	SetEnergyGradDipoles(grad, sys)

	nsub := sys.NumSublattices()
	for cx := 0; cx < sys.Latsize[0]; cx++ {
		for cy := 0; cy < sys.Latsize[1]; cy++ {
			for cz := 0; cz < sys.Latsize[2]; cz++ {
				cell := [3]int{cx, cy, cz}
				for sub := 0; sub < nsub; sub++ {
					idx := sys.Index(cell, sub)
					N := sys.Ns[sub]
					if len(HZ[idx]) != N {
						HZ[idx] = make([]complex128, N)
					} else {
						for i := range HZ[idx] {
							HZ[idx][i] = 0
						}
					}
					Z := sys.Coherents[idx]
					it := sys.InteractionsAt(cell, sub)

					if it.OnsiteQuantum != nil {
						for i := 0; i < N; i++ {
							var acc complex128
							for j := 0; j < N; j++ {
								acc += it.OnsiteQuantum.At(i, j) * Z[j]
							}
							HZ[idx][i] += acc
						}
					}

					ops := stevens.DipoleOps(N)
					for a := 0; a < 3; a++ {
						g := complex(grad[idx][a], 0)
						if g == 0 {
							continue
						}
						for i := 0; i < N; i++ {
							var acc complex128
							for j := 0; j < N; j++ {
								acc += ops[a].At(i, j) * Z[j]
							}
							HZ[idx][i] += g * acc
						}
					}

					for _, pc := range it.Pair {
						if len(pc.General) == 0 {
							continue
						}
						jCell := wrapCell(addOffset(cell, pc.Bond.N), sys.Latsize)
						jIdx := sys.Index(jCell, pc.Bond.J)
						for _, term := range pc.General {
							bj := complex(realQuadraticForm(term.B, sys.Coherents[jIdx]), 0)
							for i := 0; i < N; i++ {
								var acc complex128
								for j := 0; j < N; j++ {
									acc += term.A.At(i, j) * Z[j]
								}
								HZ[idx][i] += bj * acc
							}
						}
					}
				}
			}
		}
	}
}

// LocalEnergyChangeKet is the SU(N) counterpart of LocalEnergyChange: the
// scalar energy difference from replacing the coherent ket at (cell,sub)
// with proposed, holding every other site fixed. The bilinear and Ewald
// channels act through the change in the expected dipole; the onsite and
// general channels through the coherent expectation values directly.
func LocalEnergyChangeKet(sys *ham.System, cell [3]int, sub int, proposed []complex128) float64 {
	idx := sys.Index(cell, sub)
	info := sys.SiteInfos[sub]
	it := sys.InteractionsAt(cell, sub)
	N := sys.Ns[sub]

	old := sys.Dipoles[idx]
	snew := stevens.ExpectedSpin(N, proposed)
	ds := crystal.Vec3{snew[0] - old[0], snew[1] - old[1], snew[2] - old[2]}

	dE := 0.0

	dgs := info.G.MulVec(ds)
	B := sys.ExtField[idx]
	dE -= sys.Units.MuB * dot3(B, [3]float64(dgs))

	if it.OnsiteQuantum != nil {
		dE += realQuadraticForm(it.OnsiteQuantum, proposed) - realQuadraticForm(it.OnsiteQuantum, sys.Coherents[idx])
	}

	for _, pc := range it.Pair {
		jCell := wrapCell(addOffset(cell, pc.Bond.N), sys.Latsize)
		jIdx := sys.Index(jCell, pc.Bond.J)
		sj := crystal.Vec3(sys.Dipoles[jIdx])

		dE += ds.Dot(pc.BilinMat.MulVec(sj))

		for _, term := range pc.General {
			aiOld := realQuadraticForm(term.A, sys.Coherents[idx])
			aiNew := realQuadraticForm(term.A, proposed)
			dE += (aiNew - aiOld) * realQuadraticForm(term.B, sys.Coherents[jIdx])
		}
	}

	if e, ok := sys.Ewald.(*ewald.Ewald); ok && e != nil {
		gs := info.G.MulVec(crystal.Vec3(snew))
		newMu := [3]float64{sys.Units.MuB * gs[0], sys.Units.MuB * gs[1], sys.Units.MuB * gs[2]}
		dE += e.Delta(dipoleMoments(sys), idx, sub, newMu)
	}

	return dE
}
