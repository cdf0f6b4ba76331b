// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shoot

import (
	"errors"
	"math"
	"testing"

	"github.com/Bezzalel1/pre-quantum-field-theory/ana"
	"github.com/Bezzalel1/pre-quantum-field-theory/ivp"
	"github.com/Bezzalel1/pre-quantum-field-theory/mdl/field"
	"github.com/Bezzalel1/pre-quantum-field-theory/sol"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

func newShooter(tst *testing.T, name string, prms dbf.Params, form ivp.Formulation, rmax float64, outer string, anchor float64) *Shooter {
	mdl, err := field.New(name)
	if err != nil {
		tst.Fatalf("New failed: %v\n", err)
	}
	if err = mdl.Init(prms); err != nil {
		tst.Fatalf("Init failed: %v\n", err)
	}
	return newShooterWith(mdl, form, rmax, outer, anchor)
}

func newShooterWith(mdl field.Model, form ivp.Formulation, rmax float64, outer string, anchor float64) *Shooter {
	integ := ivp.NewIntegrator(mdl, form, 1e-6, rmax, ivp.NewSolver(1e-7, 1e-9, 0.2))
	return NewShooter(integ, outer, anchor)
}

// gap has V' = C except within (Lo, Hi) where V' is not a number;
// trajectories entering the gap fail to integrate
type gap struct{ C, Lo, Hi float64 }

func (o gap) Init(prms dbf.Params) error      { return nil }
func (o gap) GetPrms(example bool) dbf.Params { return nil }
func (o gap) Lam(φ float64) float64           { return 0 }
func (o gap) DlamDphi(φ float64) float64      { return 0 }
func (o gap) Lambda0(φ float64) float64       { return 0 }
func (o gap) Rho(r float64) float64           { return 0 }
func (o gap) Vp(φ float64) float64 {
	if φ > o.Lo && φ < o.Hi {
		return math.NaN()
	}
	return o.C
}

func Test_brent01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("brent01")

	f := func(x float64) float64 { return x*x*x - 2*x - 5 }
	x, it, err := Brent(f, 2, 3, f(2), f(3), 1e-12, 1e-12, 100)
	if err != nil {
		tst.Errorf("Brent failed: %v\n", err)
		return
	}
	io.Pforan("x = %v  it = %v\n", x, it)
	chk.Float64(tst, "x", 1e-11, x, 2.0945514815423265)

	// exact root at the boundary
	x, it, err = Brent(f, 2.0945514815423265, 3, 0, f(3), 1e-12, 1e-12, 100)
	if err != nil {
		tst.Errorf("Brent failed: %v\n", err)
		return
	}
	chk.Int(tst, "it", it, 0)

	// too few iterations
	_, _, err = Brent(math.Sin, 3, 3.5, math.Sin(3), math.Sin(3.5), 1e-15, 1e-15, 2)
	if !errors.Is(err, ErrNotConverged) {
		tst.Errorf("error should wrap ErrNotConverged. err = %v\n", err)
		return
	}
	io.Pforan("err = %v\n", err)
}

func Test_shoot01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shoot01. uniform source with value condition")

	c, R := 0.01, 40.0
	ref := ana.UniformSource{C: c}
	Aref := ref.CenterForValue(R, 0)

	for _, search := range []string{SearchExpand, SearchScan} {
		shooter := newShooter(tst, "cte", []*dbf.P{&dbf.P{N: "c", V: c}}, ivp.Direct, R, sol.OuterValue, 0)
		shooter.Search = search
		root, err := shooter.Find(0, 0)
		if err != nil {
			tst.Errorf("Find failed: %v\n", err)
			return
		}
		io.Pforan("%s: A = %v  it = %v  nfeval = %v\n", search, root.A, root.NumIt, root.Nfeval)
		if !root.Converged || !root.Profile.Converged {
			tst.Errorf("root should be converged\n")
			return
		}
		flo, fhi := shooter.Residual(root.Bracket.Lo, 0), shooter.Residual(root.Bracket.Hi, 0)
		if !signChange(flo, fhi) {
			tst.Errorf("residual must change sign across the bracket: f(%g)=%g f(%g)=%g\n", root.Bracket.Lo, flo, root.Bracket.Hi, fhi)
			return
		}
		if root.A < root.Bracket.Lo || root.A > root.Bracket.Hi {
			tst.Errorf("root must lie within the bracket\n")
			return
		}
		chk.Float64(tst, "A", 1e-6, root.A, Aref)
		chk.Float64(tst, "residual", 1e-6, root.Profile.Residual(sol.OuterValue, 0), 0)
		chk.Float64(tst, "φ(R)", 1e-6, root.Profile.Phi[root.Profile.Len()-1], 0)
	}
}

func Test_shoot02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shoot02. no bracket")

	prms := []*dbf.P{&dbf.P{N: "c", V: 0.01}}

	// best effort
	shooter := newShooter(tst, "cte", prms, ivp.Direct, 40, sol.OuterSlope, 0)
	root, err := shooter.Find(0, 0)
	if err != nil {
		tst.Errorf("Find failed: %v\n", err)
		return
	}
	io.Pforan("best effort: A = %v\n", root.A)
	if root.Converged || root.Profile.Converged {
		tst.Errorf("best-effort root must not be converged\n")
		return
	}
	if root.Bracket != nil {
		tst.Errorf("best-effort root has no bracket\n")
		return
	}
	chk.Float64(tst, "A", 1e-15, math.Abs(root.A), 0.5)

	// fail fast
	shooter = newShooter(tst, "cte", prms, ivp.Direct, 40, sol.OuterSlope, 0)
	shooter.Policy = PolicyFailFast
	_, err = shooter.Find(0.4, 1.0)
	if err == nil {
		tst.Errorf("Find should have failed\n")
		return
	}
	io.Pforan("err = %v\n", err)
	if !errors.Is(err, ErrNoBracket) {
		tst.Errorf("error should wrap ErrNoBracket\n")
		return
	}
	var berr *BracketError
	if !errors.As(err, &berr) {
		tst.Errorf("error should be a *BracketError\n")
		return
	}
	chk.Float64(tst, "scale", 1e-15, berr.Scale, 0.4)
	chk.Float64(tst, "center", 1e-15, berr.Center, 1.0)
}

func Test_shoot03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shoot03. integration failures")

	shooter := newShooter(tst, "cte", []*dbf.P{&dbf.P{N: "c", V: 0.01}}, ivp.Direct, 40, sol.OuterValue, 0)
	shooter.Integ.Solver.NmaxSS = 3

	// failed residuals
	chk.Float64(tst, "res(0)", 1e-15, shooter.Residual(0, 0), 1e6)
	chk.Float64(tst, "res(-1)", 1e-15, shooter.Residual(-1, 0), -1e6)
	chk.Int(tst, "nfail", shooter.Stat.Nfail, 2)

	// every evaluation failed
	_, err := shooter.Find(0, 0)
	if err == nil {
		tst.Errorf("Find should have failed\n")
		return
	}
	io.Pforan("err = %v\n", err)
	if !errors.Is(err, ivp.ErrFailed) {
		tst.Errorf("error should wrap ivp.ErrFailed\n")
	}
}

func Test_shoot04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shoot04. anchored decoupled problem")

	prms := []*dbf.P{&dbf.P{N: "lam0", V: 0}}
	shooter := newShooter(tst, "exp", prms, ivp.Direct, 40, sol.OuterValue, 10)
	root, err := shooter.Find(0, 10)
	if err != nil {
		tst.Errorf("Find failed: %v\n", err)
		return
	}
	io.Pforan("A = %v\n", root.A)
	chk.Float64(tst, "A", 1e-4, root.A, 9.987789)
	chk.Float64(tst, "residual", 1e-6, root.Profile.Residual(sol.OuterValue, 10), 0)
	chk.Float64(tst, "φ'(r0)", 1e-6, root.Profile.Dphi[0], 0)
}

func Test_shoot05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shoot05. coupled problem with slope condition")

	prms := []*dbf.P{&dbf.P{N: "lam0", V: 0.6}}
	shooter := newShooter(tst, "exp", prms, ivp.Regularized, 60, sol.OuterSlope, 0)

	// residual changes sign between 15 and 20
	f15, f20 := shooter.Residual(15, 1), shooter.Residual(20, 1)
	io.Pforan("f(15) = %v  f(20) = %v\n", f15, f20)
	if !(f15 > 0 && f20 < 0) {
		tst.Errorf("residual should change sign in [15, 20]\n")
		return
	}

	for _, search := range []string{SearchExpand, SearchScan} {
		shooter.Search = search
		root, err := shooter.Find(1, 0)
		if err != nil {
			tst.Errorf("Find failed: %v\n", err)
			return
		}
		io.Pforan("%s: A = %v  it = %v\n", search, root.A, root.NumIt)
		chk.Float64(tst, "A", 1e-4, root.A, 17.716066)
		if root.A < root.Bracket.Lo || root.A > root.Bracket.Hi {
			tst.Errorf("root must lie within the bracket\n")
			return
		}
	}
}

func Test_shoot06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shoot06. sign change against a failed integration")

	// A < -0.5 fails (residual -FailRes); A ≥ -0.5 gives φ(R) + 1 = A + 1/6 + 1 > 0
	mdl := gap{C: 0.01, Lo: math.Inf(-1), Hi: -0.5}
	for _, search := range []string{SearchExpand, SearchScan} {
		shooter := newShooterWith(mdl, ivp.Direct, 10, sol.OuterValue, -1)
		shooter.Search = search
		shooter.Policy = PolicyFailFast
		_, err := shooter.Find(0, 0)
		io.Pforan("%s: err = %v\n", search, err)
		if !errors.Is(err, ErrNoBracket) {
			tst.Errorf("%s: error should wrap ErrNoBracket. err = %v\n", search, err)
			return
		}
		if shooter.Stat.Nfail == 0 {
			tst.Errorf("%s: some integrations should have failed\n", search)
			return
		}
	}
}

func Test_shoot07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shoot07. refined root on a residual jump")

	// φ(R) = A + 1/6 with R = 10; trajectories crossing (0.2, 0.6) fail, i.e. A in (1/30, 0.6).
	// the true root A = 0.3 lies inside the failed range, so Brent ends on the jump at A = 1/30
	mdl := gap{C: 0.01, Lo: 0.2, Hi: 0.6}
	anchor := 0.3 + 1.0/6.0
	shooter := newShooterWith(mdl, ivp.Direct, 10, sol.OuterValue, anchor)
	f3, fm3 := shooter.Residual(3, 0), shooter.Residual(-3, 0)
	chk.Float64(tst, "f(-3)", 1e-6, fm3, -3.3)
	chk.Float64(tst, "f(+3)", 1e-6, f3, 2.7)

	root, err := shooter.Find(0, 0)
	if err == nil {
		tst.Errorf("Find should have failed. A = %v\n", root.A)
		return
	}
	io.Pforan("err = %v\n", err)
	if !errors.Is(err, ErrNotConverged) {
		tst.Errorf("error should wrap ErrNotConverged\n")
		return
	}
	var cerr *ConvergenceError
	if !errors.As(err, &cerr) {
		tst.Errorf("error should be a *ConvergenceError\n")
		return
	}
	chk.Float64(tst, "A*", 1e-6, cerr.X, 1.0/30.0)
	chk.Float64(tst, "f(A*)", 1e-6, cerr.Fx, 1.0/30.0-0.3)
	if cerr.Tol <= 0 || cerr.Tol > 1e-6 {
		tst.Errorf("tolerance is incorrect: %v\n", cerr.Tol)
	}
}
