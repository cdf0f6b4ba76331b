// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package bvp implements the solution of the radial field boundary-value problem
package bvp

import (
	"time"

	"github.com/Bezzalel1/pre-quantum-field-theory/inp"
	"github.com/Bezzalel1/pre-quantum-field-theory/sol"
	"github.com/Bezzalel1/pre-quantum-field-theory/valve"
	"github.com/cpmech/gosl/chk"
	"go.uber.org/zap"
)

// Summary holds the results of a run
type Summary struct {
	Key     string        // simulation key
	Method  string        // solving strategy
	Outer   string        // outer condition
	Profile *sol.Profile  // final profile
	Valve   *valve.Result // valve diagnostic
	Steps   []Step        // per-step records
	Check   float64       // outer boundary quantity at the last sample
	CPUtime time.Duration // elapsed time
}

// Main holds all data for a simulation
type Main struct {
	Sim     *inp.Simulation // simulation data
	Solver  Solver          // solving strategy; e.g. shooting, collocation
	Log     *zap.Logger     // logger
	Rep     Reporter        // progress sink
	Summary *Summary        // results of the last run
}

// NewMain returns a new Main structure
//  Input:
//   sim -- simulation data
//   log -- logger; nil means no logging
//   rep -- progress sink; nil means no reporting
func NewMain(sim *inp.Simulation, log *zap.Logger, rep Reporter) (o *Main, err error) {

	// new Main object
	o = new(Main)
	o.Sim = sim
	o.Log = log
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	o.Rep = rep
	if o.Rep == nil {
		o.Rep = nopReporter{}
	}

	// allocate solver
	alloc, ok := allocators[sim.Data.Method]
	if !ok {
		return nil, chk.Err("cannot find solver named %q", sim.Data.Method)
	}
	o.Solver, err = alloc(sim, o.Log, o.Rep)
	return
}

// Run solves the problem and computes the valve diagnostic
func (o *Main) Run() (err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// solve
	o.Log.Info("solving", zap.String("key", o.Sim.Key), zap.String("method", o.Sim.Data.Method),
		zap.String("model", o.Sim.Model.Name), zap.Float64("rmax", o.Sim.Domain.Rmax), zap.String("outer", o.Sim.Domain.Outer))
	p, steps, err := o.Solver.Solve()
	if err != nil {
		return
	}

	// diagnostic
	v, err := valve.New(o.Sim.Mdl, o.Sim.Valve.Thresh, o.Sim.Valve.Mode, o.Sim.Valve.Eps)
	if err != nil {
		return
	}
	res, err := v.Compute(p)
	if err != nil {
		return
	}

	// summary
	o.Summary = &Summary{
		Key:     o.Sim.Key,
		Method:  o.Sim.Data.Method,
		Outer:   o.Sim.Domain.Outer,
		Profile: p,
		Valve:   res,
		Steps:   steps,
		Check:   p.Residual(o.Sim.Domain.Outer, o.Sim.Domain.Anchor),
	}
	if !res.Reached {
		o.Log.Warn("valve threshold not reached", zap.String("hint", res.Hint))
	}
	if res.NonMonotone {
		o.Log.Warn("valve ratio crosses the threshold more than once", zap.Int("ncross", res.Ncross))
	}
	if res.Suspect {
		o.Log.Warn("valve ratio is above the threshold inside the valve radius", zap.String("note", res.Note))
	}
	return
}

// onexit logs the final message and reports the summary
func (o *Main) onexit(cputime time.Time, prevErr error) (err error) {
	if prevErr != nil {
		o.Log.Error("failed", zap.Error(prevErr))
		return prevErr
	}
	o.Summary.CPUtime = time.Since(cputime)
	o.Log.Info("success", zap.Duration("cputime", o.Summary.CPUtime), zap.Float64("check", o.Summary.Check),
		zap.Float64("rstar", o.Summary.Valve.Rstar))
	o.Rep.Final(o.Summary)
	return
}

// Run solves the problem described by sim
//  Note: rep may be nil
func Run(sim *inp.Simulation, rep Reporter) (p *sol.Profile, res *valve.Result, err error) {
	m, err := NewMain(sim, nil, rep)
	if err != nil {
		return
	}
	err = m.Run()
	if err != nil {
		return
	}
	return m.Summary.Profile, m.Summary.Valve, nil
}

// Compare solves the problem by shooting and by collocation and returns the largest relative
// difference of φ at the collocation nodes within the shooting grid
//  Note: floor is the smallest |φ| used in the relative difference
func Compare(sim *inp.Simulation, log *zap.Logger, rep Reporter, floor float64) (maxRel float64, shooting, collocation *Summary, err error) {
	run := func(method string) (*Summary, error) {
		s := *sim
		s.Data.Method = method
		m, err := NewMain(&s, log, rep)
		if err != nil {
			return nil, err
		}
		if err = m.Run(); err != nil {
			return nil, err
		}
		return m.Summary, nil
	}
	if shooting, err = run("shooting"); err != nil {
		return
	}
	if collocation, err = run("collocation"); err != nil {
		return
	}
	maxRel, err = collocation.Profile.Compare(shooting.Profile, floor)
	return
}
