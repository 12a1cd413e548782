// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/crystal"
)

// retile copies every per-site grid (Kappas, Dipoles, Coherents,
// ExtField, and Interactions when inhomogeneous) from src (shape
// src.Latsize) into a freshly allocated System of shape newLatsize,
// wrapping each destination cell back into src's grid modulo src's own
// size. This is the shared machinery behind ResizeSupercell,
// RepeatPeriodically and the diagonal case of ReshapeSupercell: all
// three produce a new commensurate lattice whose per-cell state is a
// periodic copy of the original.
func retile(src *System, newLatsize [3]int) *System {
	out := src.Clone()
	out.Latsize = newLatsize
	nsub := out.NumSublattices()
	total := numCells(newLatsize) * nsub

	newKappas := make([]float64, total)
	newDipoles := make([][3]float64, total)
	newCoherents := make([][]complex128, total)
	newExt := make([][3]float64, total)
	var newInter []Interactions
	if out.Inhomogeneous {
		newInter = make([]Interactions, total)
	}

	for cx := 0; cx < newLatsize[0]; cx++ {
		for cy := 0; cy < newLatsize[1]; cy++ {
			for cz := 0; cz < newLatsize[2]; cz++ {
				srcCell := [3]int{
					wrapMod(cx, src.Latsize[0]),
					wrapMod(cy, src.Latsize[1]),
					wrapMod(cz, src.Latsize[2]),
				}
				for sub := 0; sub < nsub; sub++ {
					srcIdx := src.Index(srcCell, sub)
					dstIdx := cellIndex(newLatsize, nsub, [3]int{cx, cy, cz}, sub)
					newKappas[dstIdx] = src.Kappas[srcIdx]
					newDipoles[dstIdx] = src.Dipoles[srcIdx]
					newCoherents[dstIdx] = append([]complex128(nil), src.Coherents[srcIdx]...)
					newExt[dstIdx] = src.ExtField[srcIdx]
					if out.Inhomogeneous {
						newInter[dstIdx] = src.InteractionsAt(srcCell, sub).Clone()
					}
				}
			}
		}
	}

	out.Kappas, out.Dipoles, out.Coherents, out.ExtField = newKappas, newDipoles, newCoherents, newExt
	if out.Inhomogeneous {
		out.Interactions = newInter
	}
	out.Ewald = nil
	if src.HasDipoleDipole() {
		// Built afresh for newLatsize; a failed build leaves out without
		// a handle.
		_ = out.EnableDipoleDipole()
	}
	return out
}

// ResizeSupercell returns a clone of sys reshaped to latsize, §6's
// `resize_supercell`. Every bond must still fit inside the new shape
// (§7's BondWrapsSystem); homogeneous Interactions need no further
// check since they are defined per-sublattice, not per-cell, but an
// inhomogeneous System's per-cell table is retiled periodically, which
// is only physically meaningful when latsize is an integer multiple (in
// each direction) of the System's existing periodicity or a divisor of
// it with no coupling crossing the new boundary; callers driving a
// genuinely new periodicity on an inhomogeneous System should rebuild
// Interactions explicitly afterward.
func ResizeSupercell(sys *System, latsize [3]int) (*System, error) {
	if latsize[0] < 1 || latsize[1] < 1 || latsize[2] < 1 {
		return nil, newErr(KindSymmetryViolation, "ham.ResizeSupercell: latsize must be >= 1, got %v", latsize)
	}
	if !sys.Inhomogeneous {
		for sub := range sys.Interactions {
			for _, pc := range sys.Interactions[sub].Pair {
				if !crystal.WithinSystem(pc.Bond.N, latsize) {
					return nil, newErr(KindBondWrapsSystem, "ham.ResizeSupercell: bond %+v does not fit in latsize %v", pc.Bond, latsize)
				}
			}
		}
	}
	return retile(sys, latsize), nil
}

// RepeatPeriodically returns a clone of sys whose supercell is repeated
// counts[k] times along axis k (§6's `repeat_periodically`): a pure
// integer tiling that never changes what the Hamiltonian computes, only
// how many copies of the magnetic unit cell are simulated (useful to
// seed a larger Metropolis/Langevin run from an equilibrated small one).
func RepeatPeriodically(sys *System, counts [3]int) (*System, error) {
	if counts[0] < 1 || counts[1] < 1 || counts[2] < 1 {
		return nil, newErr(KindSymmetryViolation, "ham.RepeatPeriodically: counts must be >= 1, got %v", counts)
	}
	newLatsize := [3]int{
		sys.Latsize[0] * counts[0],
		sys.Latsize[1] * counts[1],
		sys.Latsize[2] * counts[2],
	}
	return retile(sys, newLatsize), nil
}

// RepeatPeriodicallyAsSpiral returns RepeatPeriodically(sys, counts)
// with every repeated copy's dipoles rotated by n*k*2*pi about axis,
// where n is the integer cell offset of the copy from the original
// (§6's `repeat_periodically_as_spiral`). Valid in dipole/largeS mode
// only; it imprints a long-period spiral ansatz (e.g. §8 scenario E4's
// 120-degree spiral) onto a tiled supercell without the caller hand
// rotating every site.
func RepeatPeriodicallyAsSpiral(sys *System, counts [3]int, k [3]float64, axis [3]float64) (*System, error) {
	out, err := RepeatPeriodically(sys, counts)
	if err != nil {
		return nil, err
	}
	axisN := normalizeOrZ(axis)
	nsub := out.NumSublattices()
	for cx := 0; cx < out.Latsize[0]; cx++ {
		for cy := 0; cy < out.Latsize[1]; cy++ {
			for cz := 0; cz < out.Latsize[2]; cz++ {
				n := [3]int{
					cx - wrapMod(cx, sys.Latsize[0]),
					cy - wrapMod(cy, sys.Latsize[1]),
					cz - wrapMod(cz, sys.Latsize[2]),
				}
				theta := 2 * math.Pi * (k[0]*float64(n[0]) + k[1]*float64(n[1]) + k[2]*float64(n[2]))
				for sub := 0; sub < nsub; sub++ {
					idx := out.Index([3]int{cx, cy, cz}, sub)
					out.Dipoles[idx] = rotateAboutAxis(out.Dipoles[idx], axisN, theta)
				}
			}
		}
	}
	return out, nil
}

// ReshapeSupercell returns a clone of sys whose supercell is the new
// lattice shape*sys.Latvecs (§6's `reshape_supercell`). Only diagonal
// integer shape matrices are supported directly (equivalent to
// ResizeSupercell on the scaled latsize); a non-diagonal shape signals a
// genuinely sheared/rotated supercell, which this module does not
// attempt to retile automatically since doing so would require
// re-deriving which (cell,sublattice) of the old lattice maps to which
// site of the new one under a non-axis-aligned integer combination --
// callers needing that need to build a fresh Crystal for the reshaped
// lattice and propagate couplings into it via set_exchange! instead.
func ReshapeSupercell(sys *System, shape [3][3]int) (*System, error) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i != j && shape[i][j] != 0 {
				return nil, newErr(KindSymmetryViolation, "ham.ReshapeSupercell: non-diagonal shape %v not supported, use a fresh Crystal+set_exchange! for sheared supercells", shape)
			}
		}
	}
	newLatsize := [3]int{shape[0][0], shape[1][1], shape[2][2]}
	return ResizeSupercell(sys, newLatsize)
}

func normalizeOrZ(v [3]float64) [3]float64 {
	u := crystal.Vec3(v)
	if u.Norm() < 1e-300 {
		return [3]float64{0, 0, 1}
	}
	return [3]float64(u.Normalize())
}

// rotateAboutAxis applies Rodrigues' rotation formula, rotating v by
// angle theta about the unit vector axis.
func rotateAboutAxis(v [3]float64, axis [3]float64, theta float64) [3]float64 {
	c, s := math.Cos(theta), math.Sin(theta)
	vv, ax := crystal.Vec3(v), crystal.Vec3(axis)
	rotated := vv.Scale(c).Add(ax.Cross(vv).Scale(s)).Add(ax.Scale(ax.Dot(vv) * (1 - c)))
	return [3]float64(rotated)
}
