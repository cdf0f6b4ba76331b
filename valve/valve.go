// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package valve implements the valve diagnostic of a field profile
//
//   χ(r) = Λ0(φ(r))・ρ(r) / V'(φ(r))
//
//  The valve radius R* is where χ crosses the threshold T (usually 1)
package valve

import (
	"math"

	"github.com/Bezzalel1/pre-quantum-field-theory/mdl/field"
	"github.com/Bezzalel1/pre-quantum-field-theory/sol"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
)

// modes for the valve radius
const (
	ModeCrossing = "crossing" // linear interpolation between the samples of the first crossing
	ModeNearest  = "nearest"  // radius of the sample with χ closest to the threshold
)

// Result holds the valve diagnostic
type Result struct {
	Chi         []float64 // χ at the profile radii
	Thresh      float64   // threshold
	Rstar       float64   // valve radius
	Index       int       // sample index associated with Rstar
	Reached     bool      // χ reaches the threshold
	Saturated   bool      // χ ≥ T at every sample; R* is the first radius
	Rising      bool      // the first crossing goes from below to above the threshold
	NonMonotone bool      // χ crosses the threshold more than once
	Suspect     bool      // χ ≥ T just inside R*
	Ncross      int       // number of crossings
	Hint        string    // advice when the threshold is not reached
	Note        string    // explanation when Suspect is set
	R1e         float64   // first radius where φ has decayed to φ(0)/e
	Found1e     bool      // R1e was found
}

// Valve computes the valve diagnostic
type Valve struct {
	Model  field.Model // field model
	Thresh float64     // threshold T
	Mode   string      // "crossing" or "nearest"
	Eps    float64     // floor of V'
}

// New returns a new valve diagnostic
func New(mdl field.Model, thresh float64, mode string, eps float64) (o *Valve, err error) {
	if mode != ModeCrossing && mode != ModeNearest {
		return nil, chk.Err("valve mode %q is not available. options are %q and %q", mode, ModeCrossing, ModeNearest)
	}
	if eps <= 0 {
		return nil, chk.Err("valve eps must be positive. eps = %g is invalid", eps)
	}
	return &Valve{Model: mdl, Thresh: thresh, Mode: mode, Eps: eps}, nil
}

// Chi computes χ(r) at one point
func (o *Valve) Chi(φ, r float64) float64 {
	return o.Model.Lambda0(φ) * o.Model.Rho(r) / math.Max(o.Model.Vp(φ), o.Eps)
}

// Compute computes the diagnostic along the profile
func (o *Valve) Compute(p *sol.Profile) (res *Result, err error) {

	// check
	if err = p.Check(); err != nil {
		return
	}

	// valve ratio
	n := p.Len()
	T := o.Thresh
	res = &Result{Chi: make([]float64, n), Thresh: T, Index: -1}
	for i, r := range p.R {
		res.Chi[i] = o.Chi(p.Phi[i], r)
	}

	// crossings
	first := -1
	for i := 1; i < n; i++ {
		if (res.Chi[i] >= T) != (res.Chi[i-1] >= T) {
			if first < 0 {
				first = i
			}
			res.Ncross++
		}
	}
	res.Saturated = first < 0 && res.Chi[0] >= T
	res.Reached = first > 0 || res.Saturated
	res.NonMonotone = res.Ncross > 1

	// direction
	if first > 0 {
		res.Rising = res.Chi[first] >= T
		if !res.Rising {
			res.Suspect = true
			res.Note = io.Sf("χ = %g ≥ %g inside the first crossing at r ≈ %g: χ falls through the threshold instead of rising",
				res.Chi[first-1], T, p.R[first])
		}
	}
	if res.Saturated {
		res.Suspect = true
		res.Note = io.Sf("χ ≥ %g at every sample of r ≤ %g (min χ = %g): the valve radius is the origin",
			T, p.R[n-1], floats.Min(res.Chi))
	}

	// valve radius
	switch o.Mode {
	case ModeNearest:
		dev := make([]float64, n)
		for i, χ := range res.Chi {
			dev[i] = math.Abs(χ - T)
		}
		res.Index = floats.MinIdx(dev)
		res.Rstar = p.R[res.Index]
	case ModeCrossing:
		if res.Reached {
			a, b := res.Chi[first-1], res.Chi[first]
			ra, rb := p.R[first-1], p.R[first]
			res.Rstar = ra
			if b != a {
				res.Rstar = ra + (T-a)*(rb-ra)/(b-a)
			}
			res.Index = first
		} else if res.Saturated {
			res.Rstar = p.R[0]
			res.Index = 0
		} else {
			res.Rstar = math.NaN()
		}
	}
	if !res.Reached {
		res.Hint = io.Sf("χ never crosses %g within r ≤ %g (max χ = %g): extend the outer radius or adjust the coupling amplitude or matter length scale",
			T, p.R[n-1], floats.Max(res.Chi))
	}

	// 1/e radius
	res.R1e, res.Found1e = Radius1e(p)
	return
}

// Radius1e returns the first radius where φ has decayed to φ(0)/e
//  Note: for φ(0) < 0 the condition is φ ≥ φ(0)/e
func Radius1e(p *sol.Profile) (r float64, found bool) {
	φ0 := p.Phi[0]
	t := φ0 / math.E
	for i, φ := range p.Phi {
		if (φ0 >= 0 && φ <= t) || (φ0 < 0 && φ >= t) {
			return p.R[i], true
		}
	}
	return math.NaN(), false
}
