// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bvp

import (
	"github.com/Bezzalel1/pre-quantum-field-theory/colloc"
	"github.com/Bezzalel1/pre-quantum-field-theory/inp"
	"github.com/Bezzalel1/pre-quantum-field-theory/sol"
	"go.uber.org/zap"
)

// Collocation solves the problem directly at one coupling scale
type Collocation struct {
	Colloc *colloc.Solver // collocation solver
	Scale  float64        // coupling scale
	Rep    Reporter       // progress sink
}

// add solver to factory
func init() {
	allocators["collocation"] = func(sim *inp.Simulation, log *zap.Logger, rep Reporter) (Solver, error) {
		return NewCollocation(sim, log, rep), nil
	}
}

// NewCollocation returns a new collocation strategy
func NewCollocation(sim *inp.Simulation, log *zap.Logger, rep Reporter) (o *Collocation) {
	c := colloc.NewSolver(sim.Mdl, sim.Domain.Rmax, sim.Domain.Outer, sim.Domain.Anchor)
	c.Inner = sim.Colloc.Inner
	c.OuterG = sim.Colloc.Outer
	c.Nodes = sim.Colloc.Nodes
	c.Tol = sim.Colloc.Tol
	c.MaxIt = sim.Colloc.MaxIt
	c.MeshTol = sim.Colloc.MeshTol
	c.MaxNodes = sim.Colloc.MaxNodes
	c.Relax = sim.Colloc.Relax
	c.Log = log
	return &Collocation{Colloc: c, Scale: sim.Colloc.Scale, Rep: rep}
}

// Solve solves the problem
func (o *Collocation) Solve() (p *sol.Profile, steps []Step, err error) {
	p, err = o.Colloc.Solve(o.Scale)
	if err != nil {
		return
	}
	st := Step{
		Index:     1,
		Nsteps:    1,
		Scale:     o.Scale,
		Center:    p.Center,
		Converged: p.Converged,
		Retried:   o.Colloc.Stat.Retried,
		Nfeval:    o.Colloc.Stat.Nit,
	}
	steps = []Step{st}
	o.Rep.Step(st)
	return
}
