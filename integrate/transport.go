// Copyright 2024 The FastDipole Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package integrate implements the dynamical and Monte Carlo samplers of
// §4.6/§4.7: norm-preserving implicit midpoint, Langevin, Metropolis
// local proposals, and parallel-tempering replica exchange over a
// pluggable Transport.
package integrate

// Transport abstracts the point-to-point and collective operations a
// parallel-tempering run needs across replicas, so the same exchange
// logic drives both a single-process run and an MPI-distributed one
// (§4.7.1).
type Transport interface {
	Rank() int
	Size() int
	SendRecvFloat64(peer int, send []float64) (recv []float64, err error)
	AllReduceSum(buf []float64)
}

// LocalTransport is the single-process Transport: Size()==1, and any
// SendRecvFloat64 call is a programming error since there is no peer.
type LocalTransport struct{}

func (LocalTransport) Rank() int { return 0 }
func (LocalTransport) Size() int { return 1 }

func (LocalTransport) SendRecvFloat64(peer int, send []float64) ([]float64, error) {
	return nil, &TemperingCommFailure{Msg: "LocalTransport has no peers to exchange with"}
}

func (LocalTransport) AllReduceSum(buf []float64) {}

// TemperingCommFailure wraps a transport error encountered during a
// parallel-tempering exchange attempt (§4.7, §7).
type TemperingCommFailure struct {
	Msg string
	Err error
}

func (e *TemperingCommFailure) Error() string {
	if e.Err != nil {
		return "TemperingCommFailure: " + e.Msg + ": " + e.Err.Error()
	}
	return "TemperingCommFailure: " + e.Msg
}

func (e *TemperingCommFailure) Unwrap() error { return e.Err }
