// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import "github.com/MagSims/FastDipole-sub000/ham"

// Integrator names one concrete time-stepping scheme (§4.6) that Step
// can drive generically, mirroring §6's `step!(sys, integrator)`.
type Integrator interface {
	step(sys *ham.System)
}

// ImplicitMidpointIntegrator selects the norm-preserving implicit
// midpoint scheme at fixed step size Dt.
type ImplicitMidpointIntegrator struct{ Dt float64 }

func (m ImplicitMidpointIntegrator) step(sys *ham.System) { ImplicitMidpoint(sys, m.Dt) }

// LangevinIntegrator selects the Langevin precession+damping+noise
// scheme at fixed step size Dt, damping lambda and temperature KT.
type LangevinIntegrator struct {
	Dt      float64
	Damping float64
	KT      float64
}

func (l LangevinIntegrator) step(sys *ham.System) { Langevin(sys, l.Dt, l.Damping, l.KT) }

// Step advances sys by one step of integrator (§6's `step!`), dispatched
// to whichever concrete scheme the caller selected.
func Step(sys *ham.System, integrator Integrator) {
	integrator.step(sys)
}
