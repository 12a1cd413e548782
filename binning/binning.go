// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binning implements the 4D (q,ω) parallelepiped histogram
// parameters, path-cut and powder-averaging utilities of §4.11.
package binning

import "math"

// BinningParameters stores the four-axis (generally non-orthogonal)
// histogram §4.11 describes: start/end/width per axis and the 4x4
// covector matrix mapping a (q,ω) point onto those axis coordinates.
type BinningParameters struct {
	BinStart    [4]float64
	BinEnd      [4]float64
	BinWidth    [4]float64
	Covectors   [4][4]float64 // row i dotted with (qx,qy,qz,ω) gives axis-i coordinate
}

// Covector applies the 4x4 covector matrix to a (q,ω) point.
func (bp *BinningParameters) Covector(qOmega [4]float64) [4]float64 {
	var out [4]float64
	for i := 0; i < 4; i++ {
		var acc float64
		for j := 0; j < 4; j++ {
			acc += bp.Covectors[i][j] * qOmega[j]
		}
		out[i] = acc
	}
	return out
}

// BinIndex returns the per-axis 0-based bin index of value (a (q,ω)
// point already passed through Covector), `floor((Cv-binstart)/binwidth)`
// -- §4.11's 1-based `1 + floor(...)` translated to Go's 0-based
// indexing the way Open Question decision 1 translates spec.md's other
// Julia-literal formulas.
func (bp *BinningParameters) BinIndex(cv [4]float64) [4]int {
	var idx [4]int
	for i := 0; i < 4; i++ {
		idx[i] = int(math.Floor((cv[i] - bp.BinStart[i]) / bp.BinWidth[i]))
	}
	return idx
}

// NumBins returns ceil((be-bs)/bw), the bin count for one axis (§4.11).
func NumBins(bs, be, bw float64) int {
	return int(math.Ceil((be - bs) / bw))
}

// NumBinsPerAxis returns NumBins applied to all four axes.
func (bp *BinningParameters) NumBinsPerAxis() [4]int {
	var n [4]int
	for i := 0; i < 4; i++ {
		n[i] = NumBins(bp.BinStart[i], bp.BinEnd[i], bp.BinWidth[i])
	}
	return n
}

// InRange reports whether idx is within [0, numbins) on every axis.
func (bp *BinningParameters) InRange(idx [4]int) bool {
	n := bp.NumBinsPerAxis()
	for i := 0; i < 4; i++ {
		if idx[i] < 0 || idx[i] >= n[i] {
			return false
		}
	}
	return true
}
