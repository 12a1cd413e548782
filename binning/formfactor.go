// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binning

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/ham"
)

// formFactorCoeffs holds the dipole-approximation magnetic form factor
// coefficients A,a,B,b,C,c,D of the standard <j0> tables (§4.11's
// "magnetic form factors"), such that f(s^2) = A exp(-a s^2) +
// B exp(-b s^2) + C exp(-c s^2) + D with s = |q|/(4 pi).
type formFactorCoeffs struct {
	A, a, B, b, C, c, D float64
}

var formFactorTable = map[string]formFactorCoeffs{
	"Fe2": {A: 0.0263, a: 34.960, B: 0.3668, b: 15.943, C: 0.6188, c: 5.594, D: -0.0119},
	"Mn2": {A: 0.4220, a: 17.684, B: 0.5948, b: 6.005, C: -0.0043, c: -0.609, D: -0.0219},
	"Ni2": {A: 0.0163, a: 35.883, B: 0.3916, b: 13.223, C: 0.6052, c: 4.339, D: -0.0133},
	"Cu2": {A: 0.0232, a: 34.969, B: 0.4023, b: 11.564, C: 0.5882, c: 3.843, D: -0.0137},
}

// FormFactor evaluates the magnetic form factor f(|q|^2) for ion
// (one of the formFactorTable keys) at Cartesian wavevector magnitude
// qNorm (1/Angstrom). At q=0, f = A+B+C+D (§8's property 10). Returns
// ham.Error{Kind: KindFormFactorElementUnknown} for an unlisted ion.
func FormFactor(ion string, qNorm float64) (float64, error) {
	c, ok := formFactorTable[ion]
	if !ok {
		return 0, &ham.Error{Kind: ham.KindFormFactorElementUnknown, Msg: "no tabulated form factor for ion " + ion}
	}
	s2 := (qNorm / (4 * math.Pi)) * (qNorm / (4 * math.Pi))
	return c.A*math.Exp(-c.a*s2) + c.B*math.Exp(-c.b*s2) + c.C*math.Exp(-c.c*s2) + c.D, nil
}
