// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shoot implements the shooting method: the center value φ(0) = A is adjusted until
// the outer boundary condition is satisfied
package shoot

import (
	"fmt"
	"math"

	"github.com/Bezzalel1/pre-quantum-field-theory/ivp"
	"github.com/Bezzalel1/pre-quantum-field-theory/sol"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"go.uber.org/zap"
)

// bracket searches
const (
	SearchExpand = "expand" // symmetric expansion about the centre
	SearchScan   = "scan"   // linear scan over increasing widths
)

// policies when no bracket is found
const (
	PolicyBestEffort = "best_effort" // return the better of two seeds, flagged as not converged
	PolicyFailFast   = "fail_fast"   // return a *BracketError
)

// Bracket holds an interval where the boundary residual changes sign
type Bracket struct {
	Lo, Hi   float64 // interval
	Flo, Fhi float64 // residuals at Lo and Hi
}

// Valid checks the sign-change invariant
func (o *Bracket) Valid() bool {
	return o.Flo == 0 || o.Fhi == 0 || math.Signbit(o.Flo) != math.Signbit(o.Fhi)
}

// Root holds the result of Find
type Root struct {
	A         float64      // center value
	Bracket   *Bracket     // bracket used by Brent; nil for best-effort estimates
	Converged bool         // false for best-effort estimates
	NumIt     int          // number of Brent iterations
	Nfeval    int          // number of residual evaluations
	Profile   *sol.Profile // profile integrated at A
}

// Stat holds statistics
type Stat struct {
	Nfeval int // number of residual evaluations
	Nfail  int // number of residual evaluations whose integration failed
}

// Shooter solves the boundary-value problem by shooting on the center value
type Shooter struct {

	// problem
	Integ  *ivp.Integrator // integrator
	Outer  string          // outer condition: "value" or "slope"
	Anchor float64         // φ(Rmax) for the "value" condition

	// strategy
	Search  string  // bracket search: "expand" or "scan"
	Policy  string  // "best_effort" or "fail_fast"
	FailRes float64 // magnitude of the residual assigned to failed integrations

	// expand search
	Width0  float64 // initial half width
	Factor  float64 // expansion factor
	NmaxExp int     // max number of expansions

	// scan search
	Npts   int       // number of candidates per width
	Widths []float64 // half widths

	// fallback
	Seed float64 // best-effort seeds are c ± Seed

	// Brent
	Xtol  float64 // absolute tolerance
	Rtol  float64 // relative tolerance
	MaxIt int     // max number of iterations
	Ftol  float64 // floor of the residual accepted at the refined root

	// auxiliary
	Log  *zap.Logger // logger
	Stat Stat        // statistics

	// discovery
	nd      int     // number of evaluations during the current discovery
	ndfail  int     // number of failed evaluations during the current discovery
	lastErr error   // last integration error
	last    Bracket // last interval evaluated without a sign change
}

// NewShooter returns a new shooter with default settings
func NewShooter(integ *ivp.Integrator, outer string, anchor float64) (o *Shooter) {
	return &Shooter{
		Integ:   integ,
		Outer:   outer,
		Anchor:  anchor,
		Search:  SearchExpand,
		Policy:  PolicyBestEffort,
		FailRes: 1e6,
		Width0:  3,
		Factor:  1.5,
		NmaxExp: 12,
		Npts:    80,
		Widths:  []float64{12, 20, 30},
		Seed:    0.5,
		Xtol:    1e-9,
		Rtol:    1e-8,
		MaxIt:   100,
		Ftol:    1e-10,
		Log:     zap.NewNop(),
	}
}

// Residual computes the outer boundary quantity of the trajectory started at φ(0) = A
//  Note: failed integrations return FailRes・sign(A) with sign(0) = +1
func (o *Shooter) Residual(A, s float64) float64 {
	f, _ := o.eval(A, s)
	return f
}

// eval computes the residual and tells whether it was substituted for a failed integration
func (o *Shooter) eval(A, s float64) (f float64, failed bool) {
	o.Stat.Nfeval++
	o.nd++
	p, err := o.Integ.Integrate(A, s)
	if err != nil {
		o.Stat.Nfail++
		o.ndfail++
		o.lastErr = err
		o.Log.Debug("integration failed", zap.Float64("A", A), zap.Float64("s", s), zap.Error(err))
		if A < 0 {
			return -o.FailRes, true
		}
		return o.FailRes, true
	}
	return p.Residual(o.Outer, o.Anchor), false
}

// FindBracket searches for a sign change of the residual about c
//  Output:
//   br -- bracket or nil if none was found
//   err -- integration error when every evaluation failed
func (o *Shooter) FindBracket(s, c float64) (br *Bracket, err error) {
	o.nd, o.ndfail, o.lastErr = 0, 0, nil
	switch o.Search {
	case SearchExpand:
		br = o.expand(s, c)
	case SearchScan:
		br = o.scan(s, c)
	default:
		return nil, chk.Err("bracket search %q is not available. options are %q and %q", o.Search, SearchExpand, SearchScan)
	}
	if o.nd > 0 && o.ndfail == o.nd {
		return nil, fmt.Errorf("shoot: all %d residual evaluations failed at scale=%.2f: %w", o.nd, s, o.lastErr)
	}
	if br != nil {
		o.Log.Debug("bracket found", zap.Float64("s", s), zap.Float64("lo", br.Lo), zap.Float64("hi", br.Hi),
			zap.Float64("flo", br.Flo), zap.Float64("fhi", br.Fhi))
	}
	return
}

// expand grows [c−Width0, c+Width0] about c by Factor until the residual changes sign
//  Note: sign changes involving a failed integration are not accepted
func (o *Shooter) expand(s, c float64) *Bracket {
	lo, hi := c-o.Width0, c+o.Width0
	flo, failLo := o.eval(lo, s)
	fhi, failHi := o.eval(hi, s)
	for k := 0; k < o.NmaxExp; k++ {
		if signChange(flo, fhi) && !failLo && !failHi {
			return &Bracket{lo, hi, flo, fhi}
		}
		lo = c + (lo-c)*o.Factor
		hi = c + (hi-c)*o.Factor
		flo, failLo = o.eval(lo, s)
		fhi, failHi = o.eval(hi, s)
	}
	if signChange(flo, fhi) && !failLo && !failHi {
		return &Bracket{lo, hi, flo, fhi}
	}
	o.last = Bracket{lo, hi, flo, fhi}
	return nil
}

// scan evaluates Npts equally spaced candidates in [c−W, c+W] for each width W and
// returns the first adjacent pair with a sign change between successful integrations
func (o *Shooter) scan(s, c float64) *Bracket {
	for _, w := range o.Widths {
		xs := utl.LinSpace(c-w, c+w, o.Npts)
		f0, failPrev := o.eval(xs[0], s)
		fprev := f0
		for i := 1; i < len(xs); i++ {
			fcur, failCur := o.eval(xs[i], s)
			if signChange(fprev, fcur) && !failPrev && !failCur {
				return &Bracket{xs[i-1], xs[i], fprev, fcur}
			}
			fprev, failPrev = fcur, failCur
		}
		o.last = Bracket{xs[0], xs[len(xs)-1], f0, fprev}
	}
	return nil
}

// Find computes the center value satisfying the outer condition at coupling scale s,
// searching about c
func (o *Shooter) Find(s, c float64) (root *Root, err error) {

	// bracket
	n0 := o.Stat.Nfeval
	br, err := o.FindBracket(s, c)
	if err != nil {
		return
	}

	// fallback
	if br == nil {
		if o.Policy == PolicyFailFast {
			return nil, &BracketError{Scale: s, Center: c, Search: o.Search, Lo: o.last.Lo, Hi: o.last.Hi, Flo: o.last.Flo, Fhi: o.last.Fhi}
		}
		a, b := c-o.Seed, c+o.Seed
		fa, fb := o.Residual(a, s), o.Residual(b, s)
		A := b
		if math.Abs(fa) < math.Abs(fb) {
			A = a
		}
		o.Log.Warn("no bracket found; using best-effort center value", zap.Float64("s", s), zap.Float64("A", A),
			zap.Float64("f(c-seed)", fa), zap.Float64("f(c+seed)", fb))
		root = &Root{A: A, Nfeval: o.Stat.Nfeval - n0}
		root.Profile, err = o.Integ.Integrate(A, s)
		if err != nil {
			return nil, fmt.Errorf("shoot: best-effort center value A=%g at scale=%.2f failed to integrate: %w", A, s, err)
		}
		return
	}

	// refine
	f := func(x float64) float64 { return o.Residual(x, s) }
	A, it, err := Brent(f, br.Lo, br.Hi, br.Flo, br.Fhi, o.Xtol, o.Rtol, o.MaxIt)
	if err != nil {
		return
	}

	// re-integrate
	root = &Root{A: A, Bracket: br, Converged: true, NumIt: it, Nfeval: o.Stat.Nfeval - n0}
	root.Profile, err = o.Integ.Integrate(A, s)
	if err != nil {
		return nil, fmt.Errorf("shoot: refined root A=%g at scale=%.2f failed to integrate: %w", A, s, err)
	}

	// check root
	fx, tol := root.Profile.Residual(o.Outer, o.Anchor), o.RootTol(br, A)
	if math.Abs(fx) > tol {
		return nil, &ConvergenceError{X: A, Fx: fx, Lo: br.Lo, Hi: br.Hi, NumIt: it, Tol: tol}
	}
	root.Profile.Converged = true
	return
}

// RootTol returns the largest residual accepted at a refined root A found in br:
//  tol = max(Ftol, 10・|Fhi−Flo|/|Hi−Lo|・(Xtol + Rtol・|A|))
func (o *Shooter) RootTol(br *Bracket, A float64) float64 {
	slope := math.Abs(br.Fhi-br.Flo) / math.Abs(br.Hi-br.Lo)
	return math.Max(o.Ftol, 10*slope*(o.Xtol+o.Rtol*math.Abs(A)))
}

// signChange checks whether a and b have different signs (zero counts as a change)
func signChange(a, b float64) bool {
	return sgn(a) != sgn(b)
}

// sgn returns -1, 0 or +1
func sgn(x float64) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
