// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import "github.com/cpmech/gosl/mpi"

// MPITransport is the distributed Transport of §4.7.1, a thin wrapper
// over gosl/mpi. Collective reduction is grounded directly on the
// teacher's own call site (`mpi.AllReduceSum(dst, src)`, used by every
// gofem solver to combine boundary contributions across ranks); the
// pairwise exchange uses gosl/mpi's send and receive calls, ordered by
// rank (the lower rank sends first, the higher rank receives first) to
// avoid the classic two-rank deadlock when both sides block on send.
type MPITransport struct{}

func (MPITransport) Rank() int { return mpi.Rank() }
func (MPITransport) Size() int { return mpi.Size() }

func (MPITransport) SendRecvFloat64(peer int, send []float64) ([]float64, error) {
	recv := make([]float64, len(send))
	rank := mpi.Rank()
	if rank < peer {
		mpi.SendOneF64Slice(peer, send)
		mpi.ReceiveOneF64Slice(peer, recv)
	} else {
		mpi.ReceiveOneF64Slice(peer, recv)
		mpi.SendOneF64Slice(peer, send)
	}
	return recv, nil
}

func (MPITransport) AllReduceSum(buf []float64) {
	mpi.AllReduceSum(buf, make([]float64, len(buf)))
}
