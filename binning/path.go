// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binning

import (
	"math"

	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/cpmech/gosl/gm"
)

// ReciprocalSpacePathBins lays out a concatenated histogram axis along
// a q-point path (§4.11): at each segment, nbins = round(density *
// ||q_{k+1}-q_k||); markers[k] is the starting histogram column of
// corner k in the concatenated axis, and the return value is the total
// column count.
func ReciprocalSpacePathBins(qs []crystal.Vec3, density float64) (totalBins int, markers []int) {
	markers = make([]int, len(qs))
	cum := 0
	for k := 0; k < len(qs)-1; k++ {
		markers[k] = cum
		d := qs[k+1].Sub(qs[k]).Norm()
		n := int(math.Round(density * d))
		if n < 1 {
			n = 1
		}
		cum += n
	}
	if len(qs) > 0 {
		markers[len(qs)-1] = cum
	}
	return cum, markers
}

// PathIndex supports nearest-corner lookups against a q-point path,
// built the way gofem's `out` package uses gm.Bins for nearest-node
// search: one Init over the path's bounding box, one Append per corner.
type PathIndex struct {
	bins gm.Bins
	qs   []crystal.Vec3
}

// NewPathIndex builds a PathIndex over qs.
func NewPathIndex(qs []crystal.Vec3) (*PathIndex, error) {
	if len(qs) == 0 {
		return &PathIndex{}, nil
	}
	xi := []float64{qs[0][0], qs[0][1], qs[0][2]}
	xf := []float64{qs[0][0], qs[0][1], qs[0][2]}
	for _, q := range qs {
		for a := 0; a < 3; a++ {
			if q[a] < xi[a] {
				xi[a] = q[a]
			}
			if q[a] > xf[a] {
				xf[a] = q[a]
			}
		}
	}
	delta := 1e-6
	for a := 0; a < 3; a++ {
		xi[a] -= delta
		xf[a] += delta
	}
	p := &PathIndex{qs: qs}
	if err := p.bins.Init(xi, xf, 20); err != nil {
		return nil, err
	}
	for i, q := range qs {
		if err := p.bins.Append([]float64{q[0], q[1], q[2]}, i); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// NearestCorner returns the index of the path corner nearest q.
func (p *PathIndex) NearestCorner(q crystal.Vec3) int {
	return p.bins.Find([]float64{q[0], q[1], q[2]})
}
