// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command fastdipole drives a small end-to-end run: build a cubic
// Heisenberg ferromagnet, equilibrate it with Metropolis sweeps and a
// Langevin relaxation, then report its linear spin-wave dispersion along
// a Gamma-X path, mirroring the teacher's flag-driven, mpi.Start/Stop
// wrapped CLI.
package main

import (
	"flag"

	"github.com/MagSims/FastDipole-sub000/classical"
	"github.com/MagSims/FastDipole-sub000/crystal"
	"github.com/MagSims/FastDipole-sub000/ham"
	"github.com/MagSims/FastDipole-sub000/integrate"
	"github.com/MagSims/FastDipole-sub000/swt"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
)

func main() {
	n := flag.Int("n", 4, "cubic supercell side length")
	J := flag.Float64("J", -1.0, "isotropic nearest-neighbor exchange (meV), negative favors ferromagnetic order")
	B := flag.Float64("B", 0.1, "external field along z (Tesla)")
	kT := flag.Float64("kT", 0.05, "Metropolis equilibration temperature (meV)")
	sweeps := flag.Int("sweeps", 2000, "number of Metropolis sweeps before reporting dispersion")
	nq := flag.Int("nq", 20, "number of q-points along the Gamma-X path")

	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				chk.Verbose = true
				io.PfRed("ERROR: %v\n", err)
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	if mpi.Rank() == 0 {
		io.PfWhite("\nFastDipole -- lattice spin Hamiltonians and spin-wave theory\n\n")
	}
	flag.Parse()

	c, err := crystal.New(
		crystal.Mat3{{3, 0, 0}, {0, 3, 0}, {0, 0, 3}},
		[]crystal.Vec3{{0, 0, 0}},
		[]string{"A"},
		[]crystal.SymOp{{R: crystal.Identity3()}},
		1e-8,
	)
	if err != nil {
		chk.Panic("cannot build crystal: %v", err)
	}

	sys, err := ham.New(c, [3]int{*n, *n, *n}, []ham.SiteInfo{{S: 1, G: crystal.Identity3()}}, ham.Dipole)
	if err != nil {
		chk.Panic("cannot build system: %v", err)
	}
	Jmat := crystal.Mat3{{*J, 0, 0}, {0, *J, 0}, {0, 0, *J}}
	for _, nbond := range [][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		if err := sys.SetExchange(Jmat, crystal.Bond{I: 0, J: 0, N: nbond}); err != nil {
			chk.Panic("cannot set exchange: %v", err)
		}
	}
	sys.SetExternalField([3]float64{0, 0, *B})

	io.Pf("equilibrating %d^3 cubic lattice for %d Metropolis sweeps at kT=%g meV\n", *n, *sweeps, *kT)
	for i := 0; i < *sweeps; i++ {
		integrate.MetropolisSweep(sys, integrate.ProposalUniform, 1.0, *kT)
	}
	for i := 0; i < 200; i++ {
		integrate.Langevin(sys, 0.01, 0.1, *kT)
	}
	io.Pf("classical energy after equilibration: %g meV\n", classical.Energy(sys))

	sw := swt.New(sys)
	path := make([][3]float64, *nq)
	for i := range path {
		path[i] = [3]float64{float64(i) / float64(*nq-1) * 0.5, 0, 0}
	}
	bands, err := sw.Dispersion(path)
	if err != nil {
		chk.Panic("spin-wave dispersion failed: %v", err)
	}
	io.Pf("\nGamma-X spin-wave dispersion (first band, meV):\n")
	for i, b := range bands {
		io.Pf("  q=(%5.3f,0,0)  omega=%10.6f\n", path[i][0], b[0])
	}
}
