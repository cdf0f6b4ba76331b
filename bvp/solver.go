// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bvp

import (
	"github.com/Bezzalel1/pre-quantum-field-theory/inp"
	"github.com/Bezzalel1/pre-quantum-field-theory/sol"
	"go.uber.org/zap"
)

// Step holds the record of one solution step
type Step struct {
	Index     int     // step number starting at 1
	Nsteps    int     // total number of steps
	Scale     float64 // coupling scale
	Center    float64 // center value φ(0)
	Converged bool    // outer condition satisfied
	Retried   bool    // the step needed the retry
	Nfeval    int     // number of residual evaluations or Newton iterations
}

// Reporter receives progress and results
type Reporter interface {
	Step(st Step)       // called after each step
	Final(sum *Summary) // called after a successful run
}

// Solver implements a solving strategy for the boundary-value problem
type Solver interface {
	Solve() (p *sol.Profile, steps []Step, err error)
}

// allocators holds all available solvers
var allocators = make(map[string]func(sim *inp.Simulation, log *zap.Logger, rep Reporter) (Solver, error))

// nopReporter discards everything
type nopReporter struct{}

func (nopReporter) Step(st Step)       {}
func (nopReporter) Final(sum *Summary) {}
