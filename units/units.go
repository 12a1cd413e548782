// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package units defines the physical constants and unit system used by
// the glue code of §2 item 10: Bohr magneton, vacuum permeability and the
// Boltzmann constant, each expressed in the convention a caller selects.
package units

// System names the physical unit convention a System is built in. Both
// conventions keep lengths in Angstrom and energies in meV; they differ
// in how the dipole-dipole prefactor mu_0 is carried.
type System struct {
	Name  string
	MuB   float64 // Bohr magneton, meV/T
	Mu0   float64 // vacuum permeability, Angstrom^3*T^2/meV in this convention
	KB    float64 // Boltzmann constant, meV/K
}

// Meter is the conventional "physical" unit system: lengths in
// Angstrom, fields in Tesla, energies in meV.
var Meter = System{
	Name: "meV_Angstrom_Tesla",
	MuB:  0.057883818060,
	Mu0:  201.33545383470705,
	KB:   0.08617333262,
}

// Theory is a convention with mu_0/4pi folded to 1, used by several
// textbook spin-wave derivations; dipole-dipole coupling strength is then
// carried entirely by the caller-supplied coupling constant.
var Theory = System{
	Name: "theory_mu0=4pi",
	MuB:  1,
	Mu0:  4 * 3.14159265358979323846,
	KB:   1,
}
