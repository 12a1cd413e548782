// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stevens

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/internal/herm"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// RotationOperator builds the (2S+1)-dimensional unitary representation
// U(R) = exp(-i*theta*(axis.S)) of a Cartesian rotation R, where (axis,
// theta) is R's axis-angle decomposition. This is the operator used in
// place of an explicit Wigner-D matrix (§9's symbolic-polynomial
// replacement): conjugating a Hermitian anisotropy or Hamiltonian operator
// by U(R) rotates it exactly as a Wigner-D rotation would rotate its
// Stevens/spherical-tensor expansion, without needing tabulated D-matrix
// entries for l up to 6.
func RotationOperator(N int, R [3][3]float64) (*mat.CDense, error) {
	axis, theta, err := axisAngle(R)
	if err != nil {
		return nil, err
	}
	if theta < 1e-14 {
		return identityC(N), nil
	}
	Jz, Jp, Jm := SpinOps(N)
	Sx := scaleC(addC(Jp, Jm), complex(0.5, 0))
	Sy := scaleC(subC(Jp, Jm), complex(0, -0.5))
	gen := addC(addC(scaleC(Sx, complex(axis[0], 0)), scaleC(Sy, complex(axis[1], 0))), scaleC(Jz, complex(axis[2], 0)))
	arg := scaleC(gen, complex(-theta, 0))
	return herm.Expm(arg)
}

// axisAngle returns the axis and angle of a proper (det=+1) orthogonal
// rotation matrix R.
func axisAngle(R [3][3]float64) (axis [3]float64, theta float64, err error) {
	tr := R[0][0] + R[1][1] + R[2][2]
	cosT := (tr - 1) / 2
	if cosT > 1 {
		cosT = 1
	}
	if cosT < -1 {
		cosT = -1
	}
	theta = math.Acos(cosT)
	sinT := math.Sin(theta)
	if sinT > 1e-8 {
		axis = [3]float64{
			(R[2][1] - R[1][2]) / (2 * sinT),
			(R[0][2] - R[2][0]) / (2 * sinT),
			(R[1][0] - R[0][1]) / (2 * sinT),
		}
		return axis, theta, nil
	}
	if theta < 1e-8 {
		return [3]float64{0, 0, 1}, 0, nil
	}
	// theta near pi: sin(theta)~0, recover axis from (R+I)/2 = axis*axis^T.
	best := 0
	for i := 1; i < 3; i++ {
		if R[i][i] > R[best][best] {
			best = i
		}
	}
	var n [3]float64
	n[best] = math.Sqrt(math.Max(0, (R[best][best]+1)/2))
	if n[best] < 1e-12 {
		return axis, 0, chk.Err("stevens.axisAngle: degenerate pi-rotation axis recovery")
	}
	for i := 0; i < 3; i++ {
		if i != best {
			n[i] = (R[i][best] + R[best][i]) / (4 * n[best])
		}
	}
	return n, theta, nil
}
