// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ivp implements the initial-value integration of the radial field equation
//
//  Direct system:       y = {φ, φ'}
//
//    dφ/dr  = φ'
//    dφ'/dr = S(φ,r,s) − (2/r)・φ'
//
//  Regularized system:  y = {φ, w}  with  w = r²・φ'
//
//    dφ/dr = w / r²
//    dw/dr = r²・S(φ,r,s)
//
package ivp

import (
	"math"

	"github.com/Bezzalel1/pre-quantum-field-theory/mdl/field"
	"github.com/Bezzalel1/pre-quantum-field-theory/sol"
	"github.com/cpmech/gosl/chk"
)

// Formulation selects the first-order system
type Formulation int

// formulations
const (
	Direct      Formulation = iota // (φ, φ') with a floored 2/r term
	Regularized                    // (φ, r²φ')
)

// String returns the name of the formulation
func (o Formulation) String() string {
	switch o {
	case Direct:
		return "direct"
	case Regularized:
		return "regularized"
	}
	return "unknown"
}

// ParseFormulation converts a name into a Formulation
func ParseFormulation(name string) (Formulation, error) {
	switch name {
	case "direct":
		return Direct, nil
	case "regularized":
		return Regularized, nil
	}
	return Direct, chk.Err("formulation %q is not available. options are \"direct\" and \"regularized\"", name)
}

// Integrator integrates the field equation from Rstart to Rmax
type Integrator struct {
	Model  field.Model // field model
	Form   Formulation // first-order system
	Rstart float64     // first radius; e.g. 1e-6
	Rmax   float64     // outer radius
	Rfloor float64     // floor of r in the 2/r term (direct)
	R2min  float64     // floor of r² when recovering φ' (regularized)
	Solver *Solver     // adaptive Runge-Kutta solver
}

// NewIntegrator returns a new integrator with default floors
func NewIntegrator(mdl field.Model, form Formulation, rstart, rmax float64, solver *Solver) (o *Integrator) {
	return &Integrator{
		Model:  mdl,
		Form:   form,
		Rstart: rstart,
		Rmax:   rmax,
		Rfloor: 1e-9,
		R2min:  1e-18,
		Solver: solver,
	}
}

// Integrate computes the profile starting with φ(Rstart) = A at coupling scale s
//  Note: the initial slope follows the regular series φ ≈ A + S(A,0,s)・r²/6
func (o *Integrator) Integrate(A, s float64) (p *sol.Profile, err error) {

	// initial values
	r0 := o.Rstart
	S0 := field.Source(o.Model, A, 0, s)
	var y0 []float64
	var fcn Func
	switch o.Form {
	case Direct:
		y0 = []float64{A, S0 * r0 / 3.0}
		fcn = func(f []float64, r float64, y []float64) {
			f[0] = y[1]
			f[1] = field.Source(o.Model, y[0], r, s) - (2.0/math.Max(r, o.Rfloor))*y[1]
		}
	case Regularized:
		y0 = []float64{A, S0 * r0 * r0 * r0 / 3.0}
		fcn = func(f []float64, r float64, y []float64) {
			f[0] = y[1] / math.Max(r*r, o.R2min)
			f[1] = r * r * field.Source(o.Model, y[0], r, s)
		}
	default:
		chk.Panic("formulation %d is invalid", o.Form)
	}

	// solve
	err = o.Solver.Solve(fcn, r0, o.Rmax, y0)
	if err != nil {
		return
	}

	// results
	n := len(o.Solver.X)
	p = sol.NewProfile(n)
	p.Scale = s
	p.Center = A
	p.Method = "shooting"
	for i, r := range o.Solver.X {
		y := o.Solver.Y[i]
		p.R[i] = r
		p.Phi[i] = y[0]
		if o.Form == Regularized {
			p.Dphi[i] = y[1] / math.Max(r*r, o.R2min)
		} else {
			p.Dphi[i] = y[1]
		}
	}
	return
}
