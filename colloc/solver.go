// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package colloc implements a finite-difference collocation solver for the radial field equation
//
//  interior nodes:   (φ[i+1] − 2φ[i] + φ[i-1])/h² + (φ[i+1] − φ[i-1])/(h・r[i]) = S(φ[i], r[i])
//  origin (r=0):     6(φ[1] − φ[0])/h² = S(φ[0], 0)        since φ'' + (2/r)φ' → 3φ''(0)
//  outer, slope:     2(φ[n-2] − φ[n-1])/h² = S(φ[n-1], R)  ghost node φ[n] = φ[n-2]
//  outer, value:     φ[n-1] = anchor
//
package colloc

import (
	"errors"
	"math"

	"github.com/Bezzalel1/pre-quantum-field-theory/mdl/field"
	"github.com/Bezzalel1/pre-quantum-field-theory/sol"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
)

// ErrFailed is wrapped by all collocation failures
var ErrFailed = errors.New("colloc: solver failed")

// Error reports a collocation failure after the retry
type Error struct {
	Scale float64 // coupling scale
	Nodes int     // number of nodes of the failed mesh
	Nit   int     // number of Newton iterations of the last attempt
	Rms   float64 // last RMS residual
	Msg   string  // diagnostic message
}

// Error returns the message
func (o *Error) Error() string {
	return io.Sf("colloc: solver failed at scale=%.2f with %d nodes after %d iterations (rms=%g): %s", o.Scale, o.Nodes, o.Nit, o.Rms, o.Msg)
}

// Unwrap makes errors.Is(err, ErrFailed) hold
func (o *Error) Unwrap() error { return ErrFailed }

// Stat holds statistics of the last solution
type Stat struct {
	Nit     int  // total number of Newton iterations
	Nrefine int  // number of mesh refinements
	Nodes   int  // number of nodes of the returned mesh
	Retried bool // the primary attempt failed
}

// Solver solves the boundary-value problem by collocation
type Solver struct {

	// problem
	Model  field.Model // field model
	Rmax   float64     // outer radius
	Outer  string      // outer condition: "value" or "slope"
	Anchor float64     // φ(Rmax) for the "value" condition

	// initial guess
	Inner  float64 // guess of φ(0)
	OuterG float64 // guess of φ(Rmax); the anchor is used with the "value" condition

	// Newton
	Nodes int     // initial number of nodes
	Tol   float64 // tolerance on the RMS residual
	MaxIt int     // max number of iterations
	LsMin float64 // min line-search step
	Dstep float64 // finite-difference step for ∂S/∂φ
	Relax float64 // the retry uses Relax・Tol

	// refinement
	MeshTol  float64 // max change at common nodes relative to 1+max|φ|
	MaxNodes int     // max number of nodes

	// auxiliary
	Log  *zap.Logger // logger
	Stat Stat        // statistics

	// workspace
	h     float64 // mesh spacing
	s     float64 // coupling scale
	msg   string  // diagnostic of the last failure
	nit   int     // iterations of the last Newton run
	rms   float64 // last RMS residual
	nodes int     // number of nodes of the last Newton run
}

// NewSolver returns a new collocation solver with default settings
func NewSolver(mdl field.Model, rmax float64, outer string, anchor float64) (o *Solver) {
	return &Solver{
		Model:    mdl,
		Rmax:     rmax,
		Outer:    outer,
		Anchor:   anchor,
		Inner:    1,
		OuterG:   0,
		Nodes:    1000,
		Tol:      1e-8,
		MaxIt:    50,
		LsMin:    1e-4,
		Dstep:    1e-6,
		Relax:    100,
		MeshTol:  1e-3,
		MaxNodes: 8000,
		Log:      zap.NewNop(),
	}
}

// Solve computes the profile at coupling scale s
func (o *Solver) Solve(s float64) (p *sol.Profile, err error) {

	// check
	if o.Nodes < 3 {
		return nil, chk.Err("colloc: at least 3 nodes are required. Nodes = %d is invalid", o.Nodes)
	}
	o.Stat = Stat{}
	o.s = s

	// primary attempt
	out := o.OuterG
	if o.Outer == sol.OuterValue {
		out = o.Anchor
	}
	R, φ := cosineGuess(o.Inner, out, o.Rmax, o.Nodes)
	R, φ, ok := o.attempt(R, φ, o.Tol)

	// retry
	if !ok {
		o.Log.Warn("collocation failed; retrying with relaxed tolerance", zap.Float64("s", s), zap.String("reason", o.msg))
		o.Stat.Retried = true
		R, φ = linearGuess(o.Inner, out, o.Rmax, o.Nodes)
		R, φ, ok = o.attempt(R, φ, o.Tol*o.Relax)
		if !ok {
			return nil, &Error{Scale: s, Nodes: o.nodes, Nit: o.nit, Rms: o.rms, Msg: o.msg}
		}
	}

	// results
	p = o.profile(R, φ)
	o.Stat.Nodes = len(R)
	o.Log.Info("collocation converged", zap.Float64("s", s), zap.Int("nodes", len(R)), zap.Int("nit", o.Stat.Nit),
		zap.Int("nrefine", o.Stat.Nrefine), zap.Float64("phi0", φ[0]))
	return
}

// attempt runs Newton's method on the initial mesh and refines the mesh
func (o *Solver) attempt(R, φ []float64, tol float64) (Rf, φf []float64, ok bool) {

	// initial mesh
	if !o.newton(R, φ, tol) {
		return nil, nil, false
	}

	// refinement
	for {
		n := 2*len(R) - 1
		if n > o.MaxNodes {
			break
		}
		pred := new(interp.PiecewiseLinear)
		if err := pred.Fit(R, φ); err != nil {
			o.msg = err.Error()
			return nil, nil, false
		}
		Rn := utl.LinSpace(0, o.Rmax, n)
		φn := make([]float64, n)
		for i, r := range Rn {
			φn[i] = pred.Predict(r)
		}
		if !o.newton(Rn, φn, tol) {
			o.Log.Warn("refined mesh failed to converge; keeping the coarser mesh", zap.Int("nodes", n), zap.String("reason", o.msg))
			break
		}
		o.Stat.Nrefine++

		// change at common nodes
		change, φmax := 0.0, 0.0
		for i := range R {
			change = math.Max(change, math.Abs(φn[2*i]-φ[i]))
			φmax = math.Max(φmax, math.Abs(φn[2*i]))
		}
		o.Log.Debug("mesh refined", zap.Int("nodes", n), zap.Float64("change", change))
		R, φ = Rn, φn
		if change < o.MeshTol*(1.0+φmax) {
			break
		}
	}
	return R, φ, true
}

// newton solves the discrete equations in place
func (o *Solver) newton(R, φ []float64, tol float64) (ok bool) {

	// auxiliary
	n := len(R)
	o.h = R[1] - R[0]
	o.nodes, o.nit = n, 0
	F := make([]float64, n)
	Fn := make([]float64, n)
	φn := make([]float64, n)
	dl := make([]float64, n-1)
	d := make([]float64, n)
	du := make([]float64, n-1)
	rhs := mat.NewVecDense(n, nil)
	δφ := mat.NewVecDense(n, nil)

	// iterations
	o.residual(F, R, φ)
	o.rms = rmsNorm(F)
	for it := 0; it < o.MaxIt; it++ {
		if o.rms < tol {
			return true
		}

		// linear system: J δφ = −F
		o.jacobian(dl, d, du, R, φ)
		J := mat.NewTridiag(n, dl, d, du)
		for i := 0; i < n; i++ {
			rhs.SetVec(i, -F[i])
		}
		if err := J.SolveVecTo(δφ, false, rhs); err != nil {
			o.msg = io.Sf("linear solver failed: %v", err)
			return false
		}

		// backtracking line search
		t := 1.0
		for {
			for i := 0; i < n; i++ {
				φn[i] = φ[i] + t*δφ.AtVec(i)
			}
			o.residual(Fn, R, φn)
			rmsNew := rmsNorm(Fn)
			if rmsNew < (1.0-1e-4*t)*o.rms {
				copy(φ, φn)
				copy(F, Fn)
				o.rms = rmsNew
				break
			}
			t *= 0.5
			if t < o.LsMin {
				o.msg = io.Sf("line search failed to reduce the residual (rms=%g)", o.rms)
				return false
			}
		}
		o.nit++
		o.Stat.Nit++
		o.Log.Debug("newton", zap.Int("nodes", n), zap.Int("it", it), zap.Float64("t", t), zap.Float64("rms", o.rms))
	}
	if o.rms < tol {
		return true
	}
	o.msg = io.Sf("max number of iterations (%d) reached (rms=%g, tol=%g)", o.MaxIt, o.rms, tol)
	return false
}

// residual computes the discrete equations F(φ)
func (o *Solver) residual(F, R, φ []float64) {
	n := len(φ)
	h, hh := o.h, o.h*o.h
	F[0] = 6.0*(φ[1]-φ[0])/hh - field.Source(o.Model, φ[0], 0, o.s)
	for i := 1; i < n-1; i++ {
		F[i] = (φ[i+1]-2.0*φ[i]+φ[i-1])/hh + (φ[i+1]-φ[i-1])/(h*R[i]) - field.Source(o.Model, φ[i], R[i], o.s)
	}
	if o.Outer == sol.OuterSlope {
		F[n-1] = 2.0*(φ[n-2]-φ[n-1])/hh - field.Source(o.Model, φ[n-1], R[n-1], o.s)
		return
	}
	F[n-1] = φ[n-1] - o.Anchor
}

// jacobian computes the three diagonals of dF/dφ
func (o *Solver) jacobian(dl, d, du, R, φ []float64) {
	n := len(φ)
	h, hh := o.h, o.h*o.h
	d[0] = -6.0/hh - o.dsdφ(φ[0], 0)
	du[0] = 6.0 / hh
	for i := 1; i < n-1; i++ {
		dl[i-1] = 1.0/hh - 1.0/(h*R[i])
		d[i] = -2.0/hh - o.dsdφ(φ[i], R[i])
		du[i] = 1.0/hh + 1.0/(h*R[i])
	}
	if o.Outer == sol.OuterSlope {
		dl[n-2] = 2.0 / hh
		d[n-1] = -2.0/hh - o.dsdφ(φ[n-1], R[n-1])
		return
	}
	dl[n-2] = 0
	d[n-1] = 1
}

// dsdφ computes ∂S/∂φ by central differences
func (o *Solver) dsdφ(φ, r float64) float64 {
	return fd.Derivative(func(x float64) float64 {
		return field.Source(o.Model, x, r, o.s)
	}, φ, &fd.Settings{Formula: fd.Central, Step: o.Dstep})
}

// profile builds the output with derivatives by finite differences
func (o *Solver) profile(R, φ []float64) (p *sol.Profile) {
	n := len(R)
	h := R[1] - R[0]
	p = sol.NewProfile(n)
	p.Scale = o.s
	p.Center = φ[0]
	p.Converged = true
	p.Method = "collocation"
	copy(p.R, R)
	copy(p.Phi, φ)
	for i := 1; i < n-1; i++ {
		p.Dphi[i] = (φ[i+1] - φ[i-1]) / (2.0 * h)
	}
	p.Dphi[0] = 0
	if o.Outer == sol.OuterSlope || n < 3 {
		p.Dphi[n-1] = 0
	} else {
		p.Dphi[n-1] = (3.0*φ[n-1] - 4.0*φ[n-2] + φ[n-3]) / (2.0 * h)
	}
	return
}

// cosineGuess blends a and b with zero slope at both ends
func cosineGuess(a, b, rmax float64, n int) (R, φ []float64) {
	R = utl.LinSpace(0, rmax, n)
	φ = make([]float64, n)
	for i, r := range R {
		φ[i] = b + (a-b)*0.5*(1.0+math.Cos(math.Pi*r/rmax))
	}
	return
}

// linearGuess ramps linearly from a to b
func linearGuess(a, b, rmax float64, n int) (R, φ []float64) {
	R = utl.LinSpace(0, rmax, n)
	φ = make([]float64, n)
	for i, r := range R {
		φ[i] = a + (b-a)*r/rmax
	}
	return
}

// rmsNorm computes sqrt(Σ F²/n)
func rmsNorm(F []float64) float64 {
	return floats.Norm(F, 2) / math.Sqrt(float64(len(F)))
}
