// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kpm

import (
	"github.com/MagSims/FastDipole-sub000/swt"
	"github.com/cpmech/gosl/io"
)

// IntensitiesOverQ evaluates Plan.Intensities at every q in qpoints,
// returning a grid indexed [omega-index][q-index] per correlator (§6's
// `intensities(kpm, qpoints; energies, kernel, kT, verbose)`). When
// verbose is true, progress is reported the way the teacher's own
// solvers report iteration progress (`io.Pf`).
func (p *Plan) IntensitiesOverQ(qpoints [][3]float64, omegas []float64, corrs []swt.Correlator, kernel swt.Kernel, kT float64, verbose bool) (map[swt.Correlator][][]float64, error) {
	out := make(map[swt.Correlator][][]float64, len(corrs))
	for _, c := range corrs {
		out[c] = make([][]float64, len(omegas))
		for oi := range omegas {
			out[c][oi] = make([]float64, len(qpoints))
		}
	}
	for qi, q := range qpoints {
		if verbose {
			io.Pf("kpm: intensities at q %d/%d = %v\n", qi+1, len(qpoints), q)
		}
		perQ, err := p.Intensities(q, omegas, corrs, kernel, kT)
		if err != nil {
			return nil, err
		}
		for _, c := range corrs {
			vals := perQ[c]
			for oi := range omegas {
				out[c][oi][qi] = vals[oi]
			}
		}
	}
	return out, nil
}
