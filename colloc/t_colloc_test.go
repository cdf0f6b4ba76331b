// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colloc

import (
	"errors"
	"testing"

	"github.com/Bezzalel1/pre-quantum-field-theory/ana"
	"github.com/Bezzalel1/pre-quantum-field-theory/mdl/field"
	"github.com/Bezzalel1/pre-quantum-field-theory/sol"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

func newModel(tst *testing.T, name string, prms dbf.Params) field.Model {
	mdl, err := field.New(name)
	if err != nil {
		tst.Fatalf("New failed: %v\n", err)
	}
	if err = mdl.Init(prms); err != nil {
		tst.Fatalf("Init failed: %v\n", err)
	}
	return mdl
}

func Test_colloc01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("colloc01. uniform source is reproduced exactly")

	c, R := 0.01, 40.0
	mdl := newModel(tst, "cte", []*dbf.P{&dbf.P{N: "c", V: c}})
	ref := ana.UniformSource{C: c}
	ref.A = ref.CenterForValue(R, 0)

	solver := NewSolver(mdl, R, sol.OuterValue, 0)
	solver.Nodes = 101
	p, err := solver.Solve(0)
	if err != nil {
		tst.Errorf("Solve failed: %v\n", err)
		return
	}
	io.Pforan("stat = %+v\n", solver.Stat)
	if err = p.Check(); err != nil {
		tst.Errorf("invalid profile: %v\n", err)
		return
	}
	chk.Int(tst, "nodes", p.Len(), 201)
	chk.Int(tst, "nrefine", solver.Stat.Nrefine, 1)
	chk.Float64(tst, "φ(0)", 1e-9, p.Center, ref.A)
	chk.Float64(tst, "R[0]", 1e-15, p.R[0], 0)
	chk.Float64(tst, "Rmax", 1e-12, p.R[p.Len()-1], R)
	for i, r := range p.R {
		chk.Float64(tst, "φ", 1e-9, p.Phi[i], ref.Phi(r))
		chk.Float64(tst, "φ'", 1e-9, p.Dphi[i], ref.Dphi(r))
	}
	if p.Method != "collocation" || !p.Converged {
		tst.Errorf("profile should be converged and tagged with the method\n")
	}
}

func Test_colloc02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("colloc02. anchored decoupled problem")

	mdl := newModel(tst, "exp", []*dbf.P{&dbf.P{N: "lam0", V: 0}})
	solver := NewSolver(mdl, 40, sol.OuterValue, 10)
	solver.MaxNodes = solver.Nodes
	p, err := solver.Solve(0)
	if err != nil {
		tst.Errorf("Solve failed: %v\n", err)
		return
	}
	io.Pforan("φ(0) = %v  stat = %+v\n", p.Center, solver.Stat)
	chk.Int(tst, "nrefine", solver.Stat.Nrefine, 0)
	chk.Float64(tst, "φ(0)", 1e-3, p.Center, 9.987789)
	chk.Float64(tst, "φ(R)", 1e-12, p.Phi[p.Len()-1], 10)
}

func Test_colloc03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("colloc03. coupled problem with slope condition")

	mdl := newModel(tst, "exp", []*dbf.P{&dbf.P{N: "lam0", V: 0.6}})
	solver := NewSolver(mdl, 60, sol.OuterSlope, 0)
	solver.Inner, solver.OuterG = 10, 5
	p, err := solver.Solve(1)
	if err != nil {
		tst.Errorf("Solve failed: %v\n", err)
		return
	}
	io.Pforan("φ(0) = %v  stat = %+v\n", p.Center, solver.Stat)
	chk.Float64(tst, "φ(0)", 2e-3, p.Center, 17.716066)
	chk.Float64(tst, "φ'(0)", 1e-15, p.Dphi[0], 0)
	chk.Float64(tst, "φ'(R)", 1e-15, p.Dphi[p.Len()-1], 0)
	chk.Float64(tst, "scale", 1e-15, p.Scale, 1)
	if solver.Stat.Retried {
		tst.Errorf("primary attempt should have converged\n")
	}
}

func Test_colloc04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("colloc04. failure after retry")

	mdl := newModel(tst, "exp", []*dbf.P{&dbf.P{N: "lam0", V: 0.6}})
	solver := NewSolver(mdl, 60, sol.OuterSlope, 0)
	solver.MaxIt = 0
	_, err := solver.Solve(1)
	if err == nil {
		tst.Errorf("Solve should have failed\n")
		return
	}
	io.Pforan("err = %v\n", err)
	if !errors.Is(err, ErrFailed) {
		tst.Errorf("error should wrap ErrFailed\n")
		return
	}
	var cerr *Error
	if !errors.As(err, &cerr) {
		tst.Errorf("error should be a *Error\n")
		return
	}
	chk.Int(tst, "nodes", cerr.Nodes, 1000)
	if !solver.Stat.Retried {
		tst.Errorf("solver should have retried\n")
	}

	// invalid mesh
	solver.Nodes = 2
	if _, err = solver.Solve(1); err == nil {
		tst.Errorf("Solve should have failed with 2 nodes\n")
	}
}
