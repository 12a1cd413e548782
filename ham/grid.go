// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ham

// cellIndex flattens a (cell, sublattice) index into the row-major
// 3xL1xL2xL3xNsub layout noted as free-but-fixed in §9's design notes.
func cellIndex(latsize [3]int, nsub int, cell [3]int, sub int) int {
	c0 := wrapMod(cell[0], latsize[0])
	c1 := wrapMod(cell[1], latsize[1])
	c2 := wrapMod(cell[2], latsize[2])
	return ((c0*latsize[1]+c1)*latsize[2]+c2)*nsub + sub
}

func wrapMod(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

func numCells(latsize [3]int) int { return latsize[0] * latsize[1] * latsize[2] }
