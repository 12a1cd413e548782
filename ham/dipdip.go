// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

import "github.com/MagSims/FastDipole-sub000/ewald"

// EnableDipoleDipole precomputes the Ewald tensor of §4.3 for sys's
// current crystal and supercell shape and attaches it to sys, so that
// classical.Energy/SetEnergyGradDipoles/LocalEnergyChange start including
// the periodic dipole-dipole term (§6's `enable_dipole_dipole!`).
// Resizing or reshaping the supercell invalidates the attached handle;
// ResizeSupercell/ReshapeSupercell/RepeatPeriodically rebuild it rather
// than copy it (§9 open question 3).
func (s *System) EnableDipoleDipole() error {
	e, err := ewald.New(s.Crystal, s.Latsize, s.Units.Mu0)
	if err != nil {
		return err
	}
	s.Ewald = e
	return nil
}

// HasDipoleDipole reports whether sys currently carries an Ewald handle.
func (s *System) HasDipoleDipole() bool {
	e, ok := s.Ewald.(*ewald.Ewald)
	return ok && e != nil
}
