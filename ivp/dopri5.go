// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ivp

import (
	"errors"
	"math"

	"github.com/cpmech/gosl/io"
)

// ErrFailed is wrapped by all integration failures
var ErrFailed = errors.New("ivp: integration failed")

// Failure reports why an integration could not reach the final radius
type Failure struct {
	Reason string  // e.g. "non-finite state", "step size underflow"
	X      float64 // radius where the integration stopped
	H      float64 // last attempted step size
	Nsteps int     // number of accepted steps
}

// Error returns the message
func (o *Failure) Error() string {
	return io.Sf("ivp: integration failed at r=%g (h=%g, %d accepted steps): %s", o.X, o.H, o.Nsteps, o.Reason)
}

// Unwrap makes errors.Is(err, ErrFailed) hold
func (o *Failure) Unwrap() error { return ErrFailed }

// Func computes f = dy/dx
type Func func(f []float64, x float64, y []float64)

// Dormand-Prince 5(4) coefficients
var (
	dpC = [7]float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
		{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
		{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
		{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0},
	}
	dpE = [7]float64{71.0 / 57600.0, 0, -71.0 / 16695.0, 71.0 / 1920.0, -17253.0 / 339200.0, 22.0 / 525.0, -1.0 / 40.0}
)

// Solver implements the explicit Dormand-Prince 5(4) method with adaptive steps
//  Note: every accepted step is recorded in X and Y
type Solver struct {

	// configuration
	Rtol   float64 // relative tolerance
	Atol   float64 // absolute tolerance
	Hmax   float64 // maximum step size
	Hini   float64 // initial step size; 0 means (xf-x0)/1000 capped by Hmax
	HminF  float64 // step size underflow factor: h < HminF・max(1,|x|) is a failure
	NmaxSS int     // max number of substeps
	Mmin   float64 // min step multiplier
	Mmax   float64 // max step multiplier
	Mfac   float64 // safety factor

	// output
	X []float64   // accepted x values
	Y [][]float64 // accepted y values

	// statistics
	Nfeval  int // number of function evaluations
	Naccept int // number of accepted steps
	Nreject int // number of rejected steps

	// workspace
	k  [7][]float64
	w  []float64
	ne int
}

// NewSolver returns a new solver with default settings
func NewSolver(rtol, atol, hmax float64) (o *Solver) {
	o = new(Solver)
	o.Rtol = rtol
	o.Atol = atol
	o.Hmax = hmax
	o.HminF = 1e-14
	o.NmaxSS = 100000
	o.Mmin = 0.2
	o.Mmax = 5.0
	o.Mfac = 0.9
	return
}

// Solve integrates dy/dx = fcn(x,y) from x0 to xf starting at y0
func (o *Solver) Solve(fcn Func, x0, xf float64, y0 []float64) (err error) {

	// workspace
	ndim := len(y0)
	if o.ne != ndim {
		for i := 0; i < 7; i++ {
			o.k[i] = make([]float64, ndim)
		}
		o.w = make([]float64, ndim)
		o.ne = ndim
	}
	o.X = o.X[:0]
	o.Y = o.Y[:0]
	o.Nfeval, o.Naccept, o.Nreject = 0, 0, 0

	// initial state
	x := x0
	y := make([]float64, ndim)
	copy(y, y0)
	o.record(x, y)
	h := o.Hini
	if h <= 0 {
		h = (xf - x0) / 1000.0
	}
	h = math.Min(h, o.Hmax)
	fcn(o.k[0], x, y)
	o.Nfeval++

	// steps
	ynew := make([]float64, ndim)
	for x < xf {
		if o.Naccept+o.Nreject >= o.NmaxSS {
			return &Failure{Reason: io.Sf("max number of substeps (%d) reached", o.NmaxSS), X: x, H: h, Nsteps: o.Naccept}
		}
		last := false
		if x+h >= xf {
			h = xf - x
			last = true
		}

		// stages
		for s := 1; s < 7; s++ {
			for i := 0; i < ndim; i++ {
				sum := 0.0
				for j := 0; j < s; j++ {
					sum += dpA[s][j] * o.k[j][i]
				}
				o.w[i] = y[i] + h*sum
			}
			fcn(o.k[s], x+dpC[s]*h, o.w)
			o.Nfeval++
		}
		copy(ynew, o.w)

		// error estimate
		rms := 0.0
		finite := true
		for i := 0; i < ndim; i++ {
			if math.IsNaN(ynew[i]) || math.IsInf(ynew[i], 0) {
				finite = false
				break
			}
			e := 0.0
			for j := 0; j < 7; j++ {
				e += dpE[j] * o.k[j][i]
			}
			sk := o.Atol + o.Rtol*math.Max(math.Abs(y[i]), math.Abs(ynew[i]))
			rms += (h * e / sk) * (h * e / sk)
		}
		rms = math.Sqrt(rms / float64(ndim))
		if !finite || math.IsNaN(rms) || math.IsInf(rms, 0) {
			o.Nreject++
			h *= 0.25
			if h < o.HminF*math.Max(1, math.Abs(x)) {
				return &Failure{Reason: "non-finite state", X: x, H: h, Nsteps: o.Naccept}
			}
			continue
		}

		// accept
		if rms <= 1.0 {
			if last {
				x = xf
			} else {
				x += h
			}
			copy(y, ynew)
			copy(o.k[0], o.k[6]) // FSAL
			o.Naccept++
			o.record(x, y)
			m := o.Mmax
			if rms > 0 {
				m = math.Min(o.Mmax, math.Max(o.Mmin, o.Mfac*math.Pow(rms, -0.2)))
			}
			h = math.Min(o.Hmax, h*m)
			continue
		}

		// reject
		o.Nreject++
		h *= math.Max(o.Mmin, o.Mfac*math.Pow(rms, -0.2))
		if h < o.HminF*math.Max(1, math.Abs(x)) {
			return &Failure{Reason: "step size underflow", X: x, H: h, Nsteps: o.Naccept}
		}
	}
	return
}

// record appends a copy of the state to the output
func (o *Solver) record(x float64, y []float64) {
	yy := make([]float64, len(y))
	copy(yy, y)
	o.X = append(o.X, x)
	o.Y = append(o.Y, yy)
}
