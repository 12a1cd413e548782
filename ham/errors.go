// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ham holds the Hamiltonian data model: Interactions, PairCoupling
// and System, plus the set_*! operations of §4.4 that route a
// user-supplied coupling through the symmetry machinery of the coupling
// package into a System's per-sublattice interaction table.
package ham

import "github.com/cpmech/gosl/io"

// Kind names one of the typed error kinds of §7; callers can switch on it
// without needing errors.As against every concrete type.
type Kind string

const (
	KindSymmetryViolation       Kind = "SymmetryViolation"
	KindBondWrapsSystem         Kind = "BondWrapsSystem"
	KindUnsupportedAnisotropy   Kind = "UnsupportedAnisotropy"
	KindUnsupportedBiquadratic  Kind = "UnsupportedBiquadratic"
	KindNotAGroundState         Kind = "NotAGroundState"
	KindInstabilityAtQ          Kind = "InstabilityAtQ"
	KindKernelWidthMissing      Kind = "KernelWidthMissing"
	KindTemperingCommFailure    Kind = "TemperingCommFailure"
	KindFormFactorElementUnknown Kind = "FormFactorElementUnknown"
)

// Error is the common typed error carried by every set_*! and solver
// failure in this module, exposing the structured fields Site, Q (valid
// when HasQ) and MatNrm alongside a human message built the way the
// teacher builds its own via gosl/io.Sf. The bond involved is not
// recorded as a field.
type Error struct {
	Kind   Kind
	Msg    string
	Site   int
	HasQ   bool
	Q      [3]float64
	MatNrm float64
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Msg }

func newErr(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: io.Sf(format, args...)}
}
