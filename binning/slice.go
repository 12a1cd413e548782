// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binning

import "github.com/MagSims/FastDipole-sub000/crystal"

// SliceBinningParameters builds the covector set for a 1D energy-resolved
// cut between q0 and q1 (§4.11): the cut axis ĉ = normalize(q1-q0), a
// transverse axis t̂ = normalize(planeNormal x ĉ), and the second
// transverse axis ĉperp = normalize(t̂ x ĉ); the two transverse axes are
// given single-bin integration windows of width w around the cut, and
// the energy axis uses the given omegas' bounds and a width matching
// their spacing.
func SliceBinningParameters(omegas []float64, q0, q1 crystal.Vec3, nBins int, w float64, planeNormal crystal.Vec3) *BinningParameters {
	diff := q1.Sub(q0)
	chat := diff.Normalize()
	that := planeNormal.Cross(chat).Normalize()
	cperp := that.Cross(chat).Normalize()

	length := diff.Norm()
	bw := length / float64(nBins)

	bp := &BinningParameters{}
	bp.Covectors[0] = [4]float64{chat[0], chat[1], chat[2], 0}
	bp.Covectors[1] = [4]float64{cperp[0], cperp[1], cperp[2], 0}
	bp.Covectors[2] = [4]float64{that[0], that[1], that[2], 0}
	bp.Covectors[3] = [4]float64{0, 0, 0, 1}

	c0 := chat.Dot(q0)
	bp.BinStart[0] = c0
	bp.BinEnd[0] = c0 + length
	bp.BinWidth[0] = bw

	p0 := cperp.Dot(q0)
	bp.BinStart[1] = p0 - w/2
	bp.BinEnd[1] = p0 + w/2
	bp.BinWidth[1] = w

	t0 := that.Dot(q0)
	bp.BinStart[2] = t0 - w/2
	bp.BinEnd[2] = t0 + w/2
	bp.BinWidth[2] = w

	omegaMin, omegaMax, omegaStep := omegaRange(omegas)
	bp.BinStart[3] = omegaMin
	bp.BinEnd[3] = omegaMax
	bp.BinWidth[3] = omegaStep

	return bp
}

func omegaRange(omegas []float64) (lo, hi, step float64) {
	if len(omegas) == 0 {
		return 0, 1, 1
	}
	lo, hi = omegas[0], omegas[0]
	for _, o := range omegas {
		if o < lo {
			lo = o
		}
		if o > hi {
			hi = o
		}
	}
	if len(omegas) > 1 {
		step = (hi - lo) / float64(len(omegas)-1)
	} else {
		step = 1
	}
	if step <= 0 {
		step = 1
	}
	return lo, hi, step
}
