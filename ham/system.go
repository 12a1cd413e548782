// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import (
	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/internal/rng"
	"github.com/MagSims/FastDipole-sub000/units"
)

// overrideWarnings is the per-process throttle of §9's "reproduce with a
// small struct per process" instruction: at most five messages, then
// silent, matching §4.4's onsite-override warning policy.
type overrideWarnings struct {
	count int
}

const maxOverrideWarnings = 5

func (w *overrideWarnings) warn(format string, args ...interface{}) {
	if w.count >= maxOverrideWarnings {
		return
	}
	w.count++
	warnPfyel(format, args...)
}

// System is the central mutable object of §3: a Crystal, a supercell
// shape, a quantum-representation mode, per-site Hilbert dimensions, spin
// configuration grids, external field, the homogeneous (or
// inhomogeneous) interaction table, an optional Ewald handle and a
// per-System RNG.
type System struct {
	Crystal *crystal.Crystal
	Latsize [3]int
	Mode    Mode
	Units   units.System

	SiteInfos []SiteInfo // one per sublattice
	Ns        []int      // Ns[sub] = 2S+1

	// Interactions: one entry per sublattice when Inhomogeneous is
	// false, or one entry per (cell,sublattice) flattened index when
	// true (see §6's to_inhomogeneous).
	Inhomogeneous bool
	Interactions  []Interactions

	Kappas    []float64    // per (cell,sublattice), flattened
	Dipoles   [][3]float64 // per (cell,sublattice), flattened
	Coherents [][]complex128

	ExtField [][3]float64 // per (cell,sublattice), flattened

	Ewald interface{} // *ewald.Ewald once EnableDipoleDipole has run, nil otherwise

	warnings overrideWarnings
	RNG      *rng.RNG
}

// NumSublattices returns the number of distinct sublattices (atoms in
// the unit cell).
func (s *System) NumSublattices() int { return len(s.Ns) }

// NumCells returns L1*L2*L3.
func (s *System) NumCells() int { return numCells(s.Latsize) }

// Index flattens (cell,sub) into the grid index used by Dipoles,
// Coherents, Kappas and ExtField.
func (s *System) Index(cell [3]int, sub int) int {
	return cellIndex(s.Latsize, s.NumSublattices(), cell, sub)
}

// InteractionsAt returns the Interactions governing site (cell,sub).
func (s *System) InteractionsAt(cell [3]int, sub int) *Interactions {
	if !s.Inhomogeneous {
		return &s.Interactions[sub]
	}
	return &s.Interactions[s.Index(cell, sub)]
}

// New constructs a System with every site fully polarized along +z
// (§6): Ns[sub] = 2*S+1, kappa=1, dipole = S*zhat (or the analogous
// stretched coherent ket in SUN/largeS mode).
func New(c *crystal.Crystal, latsize [3]int, infos []SiteInfo, mode Mode) (*System, error) {
	if len(infos) != len(c.Positions) {
		return nil, newErr(KindSymmetryViolation, "ham.New: need one SiteInfo per sublattice (%d atoms), got %d", len(c.Positions), len(infos))
	}
	nsub := len(c.Positions)
	s := &System{
		Crystal:   c,
		Latsize:   latsize,
		Mode:      mode,
		Units:     units.Meter,
		SiteInfos: infos,
		Ns:        make([]int, nsub),
		RNG:       rng.New(1),
	}
	for i, info := range infos {
		n := int(2*info.S + 1.0 + 1e-9)
		if n < 1 {
			return nil, newErr(KindUnsupportedAnisotropy, "ham.New: sublattice %d has non-positive S=%v", i, info.S)
		}
		s.Ns[i] = n
	}
	s.Interactions = make([]Interactions, nsub)

	ncells := s.NumCells()
	total := ncells * nsub
	s.Kappas = make([]float64, total)
	s.Dipoles = make([][3]float64, total)
	s.Coherents = make([][]complex128, total)
	s.ExtField = make([][3]float64, total)

	for cx := 0; cx < latsize[0]; cx++ {
		for cy := 0; cy < latsize[1]; cy++ {
			for cz := 0; cz < latsize[2]; cz++ {
				for sub := 0; sub < nsub; sub++ {
					idx := s.Index([3]int{cx, cy, cz}, sub)
					s.Kappas[idx] = infos[sub].S
					s.Dipoles[idx] = [3]float64{0, 0, infos[sub].S}
					ket := make([]complex128, s.Ns[sub])
					ket[0] = 1 // stretched state, index 0 is m=+S in our convention
					s.Coherents[idx] = ket
				}
			}
		}
	}
	return s, nil
}

// SetExternalField sets a uniform field on every site.
func (s *System) SetExternalField(B [3]float64) {
	for i := range s.ExtField {
		s.ExtField[i] = B
	}
}

// SetExternalFieldAt sets the field at one site.
func (s *System) SetExternalFieldAt(B [3]float64, cell [3]int, sub int) {
	s.ExtField[s.Index(cell, sub)] = B
}

// Clone returns a deep copy of s, suitable for handing to a parallel
// worker (§5: "parallel workers receive independent deep copies").
func (s *System) Clone() *System {
	out := *s
	out.Interactions = make([]Interactions, len(s.Interactions))
	for i, it := range s.Interactions {
		out.Interactions[i] = it.Clone()
	}
	out.Kappas = append([]float64(nil), s.Kappas...)
	out.Dipoles = append([][3]float64(nil), s.Dipoles...)
	out.ExtField = append([][3]float64(nil), s.ExtField...)
	out.Coherents = make([][]complex128, len(s.Coherents))
	for i, c := range s.Coherents {
		out.Coherents[i] = append([]complex128(nil), c...)
	}
	out.warnings = overrideWarnings{}
	out.RNG = rng.New(1)
	return &out
}

// ToInhomogeneous returns a clone with per-cell Interactions (§6), each
// cell initialized to a copy of its sublattice's homogeneous entry.
func (s *System) ToInhomogeneous() *System {
	out := s.Clone()
	if out.Inhomogeneous {
		return out
	}
	nsub := out.NumSublattices()
	ncells := out.NumCells()
	flat := make([]Interactions, ncells*nsub)
	for cx := 0; cx < out.Latsize[0]; cx++ {
		for cy := 0; cy < out.Latsize[1]; cy++ {
			for cz := 0; cz < out.Latsize[2]; cz++ {
				for sub := 0; sub < nsub; sub++ {
					flat[out.Index([3]int{cx, cy, cz}, sub)] = out.Interactions[sub].Clone()
				}
			}
		}
	}
	out.Interactions = flat
	out.Inhomogeneous = true
	return out
}
