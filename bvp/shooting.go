// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bvp

import (
	"errors"

	"github.com/Bezzalel1/pre-quantum-field-theory/inp"
	"github.com/Bezzalel1/pre-quantum-field-theory/ivp"
	"github.com/Bezzalel1/pre-quantum-field-theory/shoot"
	"github.com/Bezzalel1/pre-quantum-field-theory/sol"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"go.uber.org/zap"
)

// ContinuationError reports a step of the continuation that failed after the retry
type ContinuationError struct {
	Step  int     // step number starting at 1
	Scale float64 // coupling scale
	Err   error   // error of the retry
}

// Error returns the message
func (o *ContinuationError) Error() string {
	return io.Sf("shooting failed at scale=%.2f (step %d): %v", o.Scale, o.Step, o.Err)
}

// Unwrap returns the error of the retry
func (o *ContinuationError) Unwrap() error { return o.Err }

// Shooting walks the coupling scale from 0 to 1 solving each step by shooting
type Shooting struct {
	Shooter *shoot.Shooter // root-finder
	Scales  []float64      // coupling scales
	Nudge   float64        // retry seed = previous center ± Nudge
	Log     *zap.Logger    // logger
	Rep     Reporter       // progress sink
}

// add solver to factory
func init() {
	allocators["shooting"] = func(sim *inp.Simulation, log *zap.Logger, rep Reporter) (Solver, error) {
		return NewShooting(sim, log, rep)
	}
}

// NewShooting returns a new continuation driver
func NewShooting(sim *inp.Simulation, log *zap.Logger, rep Reporter) (o *Shooting, err error) {

	// integrator
	form, err := ivp.ParseFormulation(sim.Ivp.Form)
	if err != nil {
		return
	}
	solver := ivp.NewSolver(sim.Ivp.Rtol, sim.Ivp.Atol, sim.Ivp.Hmax)
	solver.NmaxSS = sim.Ivp.NmaxSS
	integ := ivp.NewIntegrator(sim.Mdl, form, sim.Domain.Rstart, sim.Domain.Rmax, solver)

	// shooter
	sh := shoot.NewShooter(integ, sim.Domain.Outer, sim.Domain.Anchor)
	sh.Search = sim.Shoot.Search
	sh.Policy = sim.Shoot.Policy
	sh.FailRes = sim.Shoot.FailRes
	sh.Width0 = sim.Shoot.Width0
	sh.Factor = sim.Shoot.Factor
	sh.NmaxExp = sim.Shoot.NmaxExp
	sh.Npts = sim.Shoot.Npts
	sh.Widths = sim.Shoot.Widths
	sh.Seed = sim.Shoot.Seed
	sh.Xtol = sim.Shoot.Xtol
	sh.Rtol = sim.Shoot.Rtol
	sh.MaxIt = sim.Shoot.MaxIt
	sh.Ftol = sim.Shoot.Ftol
	sh.Log = log

	// driver
	o = &Shooting{
		Shooter: sh,
		Scales:  utl.LinSpace(0, 1, sim.Cont.Nsteps),
		Nudge:   sim.Cont.Nudge,
		Log:     log,
		Rep:     rep,
	}
	return
}

// Solve runs the continuation and returns the profile at the last scale
func (o *Shooting) Solve() (p *sol.Profile, steps []Step, err error) {
	prev := 0.0
	for k, s := range o.Scales {

		// search about the origin
		st := Step{Index: k + 1, Nsteps: len(o.Scales), Scale: s}
		n0 := o.Shooter.Stat.Nfeval
		var root *shoot.Root
		root, err = o.Shooter.Find(s, 0)

		// retry about the nudged previous center
		if err != nil {
			if errors.Is(err, shoot.ErrNotConverged) {
				return nil, steps, &ContinuationError{Step: k + 1, Scale: s, Err: err}
			}
			seed := prev + o.Nudge
			if prev < 0 {
				seed = prev - o.Nudge
			}
			o.Log.Warn("shooting failed; retrying", zap.Int("step", k+1), zap.Float64("s", s),
				zap.Float64("seed", seed), zap.Error(err))
			st.Retried = true
			root, err = o.Shooter.Find(s, seed)
			if err != nil {
				return nil, steps, &ContinuationError{Step: k + 1, Scale: s, Err: err}
			}
		}

		// record
		prev = root.A
		p = root.Profile
		st.Center = root.A
		st.Converged = root.Converged
		st.Nfeval = o.Shooter.Stat.Nfeval - n0
		steps = append(steps, st)
		o.Log.Info("continuation step", zap.Int("step", st.Index), zap.Float64("s", s), zap.Float64("A", root.A),
			zap.Bool("converged", root.Converged), zap.Int("nfeval", st.Nfeval))
		o.Rep.Step(st)
	}
	return
}
