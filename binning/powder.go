// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binning

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/internal/rng"
)

// FibonacciSpherePoints returns n points approximately uniformly
// distributed on the unit sphere via the Fibonacci-lattice construction
// (§4.11's powder averaging), randomly rotated by r (if non-nil) so
// repeated calls at modest n don't all share the same lattice artifacts.
func FibonacciSpherePoints(n int, r *rng.RNG) []crystal.Vec3 {
	pts := make([]crystal.Vec3, n)
	goldenAngle := math.Pi * (3 - math.Sqrt(5))
	for i := 0; i < n; i++ {
		y := 1 - 2*float64(i)/float64(n-1)
		if n == 1 {
			y = 0
		}
		radius := math.Sqrt(math.Max(0, 1-y*y))
		theta := goldenAngle * float64(i)
		pts[i] = crystal.Vec3{math.Cos(theta) * radius, y, math.Sin(theta) * radius}
	}
	if r == nil {
		return pts
	}
	rot := randomRotation(r)
	for i, p := range pts {
		pts[i] = rot.MulVec(p)
	}
	return pts
}

// randomRotation builds a uniformly random rotation matrix by sampling a
// random axis (uniform on S^2) and a random angle in [0,2pi).
func randomRotation(r *rng.RNG) crystal.Mat3 {
	axis := crystal.Vec3(r.UniformSphere()).Normalize()
	theta := 2 * math.Pi * r.Float64()
	ct, st := math.Cos(theta), math.Sin(theta)
	var K crystal.Mat3
	K[0] = [3]float64{0, -axis[2], axis[1]}
	K[1] = [3]float64{axis[2], 0, -axis[0]}
	K[2] = [3]float64{-axis[1], axis[0], 0}
	I := crystal.Identity3()
	K2 := K.Mul(K)
	return I.Add(K.Scale(st)).Add(K2.Scale(1 - ct))
}
