// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swt

// Dispersion evaluates §4.8+§4.9 at every q in path, returning the first
// L (ascending +q branch) eigenvalues per q.
func (s *SWT) Dispersion(path [][3]float64) ([][]float64, error) {
	out := make([][]float64, len(path))
	for i, q := range path {
		H := s.HamiltonianAt(q)
		bog, err := Diagonalize(H)
		if err != nil {
			if ie, ok := err.(*InstabilityError); ok {
				ie.HasQ = true
				ie.Q = q
			}
			return nil, err
		}
		out[i] = bog.Energies
	}
	return out, nil
}
