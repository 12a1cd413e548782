// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ewald

import "gonum.org/v1/gonum/dsp/fourier"

// fftPlans holds one 1D complex FFT plan per supercell axis, shared by
// every Field/Energy/Delta call on this Ewald instance and never accessed
// concurrently from more than one goroutine at a time (§5, §9: "FFT
// plans are not clonable... the reshape pathway must rebuild plans").
type fftPlans struct {
	latsize [3]int
	p0, p1, p2 *fourier.CmplxFFT
}

func newFFTPlans(latsize [3]int) fftPlans {
	return fftPlans{
		latsize: latsize,
		p0:      fourier.NewCmplxFFT(latsize[0]),
		p1:      fourier.NewCmplxFFT(latsize[1]),
		p2:      fourier.NewCmplxFFT(latsize[2]),
	}
}

// forward3D applies a forward 3D complex DFT to one channel (offset
// within a stride-interleaved field, e.g. one Cartesian component of a
// per-cell vector) indexed (c0,c1,c2) in row-major order, in place along
// each axis in turn.
func (p *fftPlans) forward3D(field []complex128, stride, offset int) {
	p.transformAxis(field, stride, offset, 0, false)
	p.transformAxis(field, stride, offset, 1, false)
	p.transformAxis(field, stride, offset, 2, false)
}

// inverse3D applies the (unnormalized) inverse 3D complex DFT; the
// caller divides by N1*N2*N3 to complete the normalization, matching the
// convention used by Energy's accumulation (§4.3 already divides by
// prod(latsize) explicitly).
func (p *fftPlans) inverse3D(field []complex128, stride, offset int) {
	p.transformAxis(field, stride, offset, 0, true)
	p.transformAxis(field, stride, offset, 1, true)
	p.transformAxis(field, stride, offset, 2, true)
}

func (p *fftPlans) transformAxis(field []complex128, stride, offset int, axis int, inverse bool) {
	n := p.latsize[axis]
	var plan *fourier.CmplxFFT
	switch axis {
	case 0:
		plan = p.p0
	case 1:
		plan = p.p1
	case 2:
		plan = p.p2
	}
	n0, n1, n2 := p.latsize[0], p.latsize[1], p.latsize[2]
	buf := make([]complex128, n)
	out := make([]complex128, n)

	switch axis {
	case 0:
		for c1 := 0; c1 < n1; c1++ {
			for c2 := 0; c2 < n2; c2++ {
				for k := 0; k < n0; k++ {
					buf[k] = field[((k*n1+c1)*n2+c2)*stride+offset]
				}
				if inverse {
					plan.Sequence(out, buf)
				} else {
					plan.Coefficients(out, buf)
				}
				for k := 0; k < n0; k++ {
					field[((k*n1+c1)*n2+c2)*stride+offset] = out[k]
				}
			}
		}
	case 1:
		for c0 := 0; c0 < n0; c0++ {
			for c2 := 0; c2 < n2; c2++ {
				for k := 0; k < n1; k++ {
					buf[k] = field[((c0*n1+k)*n2+c2)*stride+offset]
				}
				if inverse {
					plan.Sequence(out, buf)
				} else {
					plan.Coefficients(out, buf)
				}
				for k := 0; k < n1; k++ {
					field[((c0*n1+k)*n2+c2)*stride+offset] = out[k]
				}
			}
		}
	case 2:
		for c0 := 0; c0 < n0; c0++ {
			for c1 := 0; c1 < n1; c1++ {
				for k := 0; k < n2; k++ {
					buf[k] = field[((c0*n1+c1)*n2+k)*stride+offset]
				}
				if inverse {
					plan.Sequence(out, buf)
				} else {
					plan.Coefficients(out, buf)
				}
				for k := 0; k < n2; k++ {
					field[((c0*n1+c1)*n2+k)*stride+offset] = out[k]
				}
			}
		}
	}
}
