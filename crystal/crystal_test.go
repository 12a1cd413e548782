// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crystal

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// cubicP1 builds a trivial P1 cubic crystal (identity-only symmetry).
func cubicP1(a float64) *Crystal {
	lat := Mat3{{a, 0, 0}, {0, a, 0}, {0, 0, a}}
	c, err := New(lat, []Vec3{{0, 0, 0}}, []string{"Fe"}, []SymOp{{R: Identity3()}}, 1e-8)
	if err != nil {
		panic(err)
	}
	return c
}

// cubicFm3m builds a cubic crystal with the three Fm-3m face-centering
// translations plus identity, enough to exercise orbit enumeration on a
// single-atom fcc-style cell, as used by scenario E1.
func cubicFm3m(a float64) *Crystal {
	lat := Mat3{{a, 0, 0}, {0, a, 0}, {0, 0, a}}
	ops := []SymOp{
		{R: Identity3(), T: Vec3{0, 0, 0}},
		{R: Identity3(), T: Vec3{0, 0.5, 0.5}},
		{R: Identity3(), T: Vec3{0.5, 0, 0.5}},
		{R: Identity3(), T: Vec3{0.5, 0.5, 0}},
	}
	c, err := New(lat, []Vec3{{0, 0, 0}}, []string{"Fe"}, ops, 1e-8)
	if err != nil {
		panic(err)
	}
	return c
}

func Test_crystal_closure(tst *testing.T) {
	chk.PrintTitle("crystal_closure")
	c := cubicFm3m(8.289)
	if err := c.ValidateClosure(); err != nil {
		tst.Errorf("fcc translation group should be closed: %v", err)
	}
	bad := cubicFm3m(8.289)
	bad.SymOps = append(bad.SymOps, SymOp{R: Identity3(), T: Vec3{0.1, 0.2, 0.3}})
	if err := bad.ValidateClosure(); err == nil {
		tst.Errorf("expected closure violation to be detected")
	}
}

func Test_crystal_duplicate_positions(tst *testing.T) {
	chk.PrintTitle("crystal_duplicate_positions")
	lat := Identity3()
	_, err := New(lat, []Vec3{{0, 0, 0}, {1e-10, 0, 0}}, []string{"A", "A"}, []SymOp{{R: Identity3()}}, 1e-8)
	if err == nil {
		tst.Errorf("expected duplicate-position error")
	}
}

func Test_crystal_classes_and_sort(tst *testing.T) {
	chk.PrintTitle("crystal_classes_and_sort")
	lat := Identity3()
	positions := []Vec3{{0.5, 0, 0}, {0, 0, 0}}
	ops := []SymOp{
		{R: Identity3(), T: Vec3{0, 0, 0}},
		{R: Identity3(), T: Vec3{0.5, 0, 0}},
	}
	c, err := New(lat, positions, []string{"A", "A"}, ops, 1e-8)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if !lexLess(c.Positions[0], c.Positions[1]) {
		tst.Errorf("expected positions sorted lexicographically within class, got %v then %v", c.Positions[0], c.Positions[1])
	}
}

func Test_crystal_orbit(tst *testing.T) {
	chk.PrintTitle("crystal_orbit")
	c := cubicFm3m(8.289)
	b := Bond{I: 0, J: 0, N: [3]int{1, 0, 0}}
	orb := c.Orbit(b)
	if len(orb) == 0 {
		tst.Errorf("expected a nonempty orbit")
	}
	for _, ob := range orb {
		if ob.I != 0 || ob.J != 0 {
			tst.Errorf("single-atom cell orbit must stay within atom 0, got %+v", ob)
		}
	}
}

func Test_crystal_bond_canonical(tst *testing.T) {
	chk.PrintTitle("crystal_bond_canonical")
	b := Bond{I: 1, J: 2, N: [3]int{0, 0, 0}}
	r := b.Reverse()
	if b.Canonical() == r.Canonical() {
		tst.Errorf("exactly one of a bond and its reverse must be canonical")
	}
}

func Test_crystal_within_system(tst *testing.T) {
	chk.PrintTitle("crystal_within_system")
	if !WithinSystem([3]int{1, -1, 0}, [3]int{2, 2, 2}) {
		tst.Errorf("expected offset within a 2x2x2 system to be accepted")
	}
	if WithinSystem([3]int{2, 0, 0}, [3]int{2, 2, 2}) {
		tst.Errorf("expected offset wrapping a 2x2x2 system to be rejected")
	}
}
