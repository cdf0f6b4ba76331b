// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shoot

import (
	"errors"

	"github.com/cpmech/gosl/io"
)

// sentinel errors
var (
	ErrNoBracket    = errors.New("shoot: no bracket found")
	ErrNotConverged = errors.New("shoot: root refinement did not converge")
)

// BracketError reports a failed bracket discovery when the policy is fail_fast
type BracketError struct {
	Scale  float64 // coupling scale
	Center float64 // centre of the search
	Search string  // search strategy
	Lo, Hi float64 // last interval evaluated
	Flo    float64 // residual at Lo
	Fhi    float64 // residual at Hi
}

// Error returns the message
func (o *BracketError) Error() string {
	return io.Sf("shoot: no sign change of the boundary residual around A=%g at scale=%.2f (search=%s, last interval [%g, %g] with residuals [%g, %g]). "+
		"try increasing the outer radius, increasing the coupling amplitude or decreasing the matter length scale",
		o.Center, o.Scale, o.Search, o.Lo, o.Hi, o.Flo, o.Fhi)
}

// Unwrap makes errors.Is(err, ErrNoBracket) hold
func (o *BracketError) Unwrap() error { return ErrNoBracket }

// ConvergenceError reports that Brent's method exceeded the max number of iterations or
// that the refined root does not satisfy the outer condition
type ConvergenceError struct {
	X, Fx  float64 // last iterate and residual
	Lo, Hi float64 // last bracket
	NumIt  int     // number of iterations
	Tol    float64 // residual tolerance at the root; zero when maxit was exceeded
}

// Error returns the message
func (o *ConvergenceError) Error() string {
	if o.Tol > 0 {
		return io.Sf("shoot: refined root x=%g leaves residual f(x)=%g above tolerance %g after %d iterations (bracket=[%g, %g]). "+
			"the residual is discontinuous there; check failed integrations near the root", o.X, o.Fx, o.Tol, o.NumIt, o.Lo, o.Hi)
	}
	return io.Sf("shoot: root refinement did not converge after %d iterations: x=%g f(x)=%g bracket=[%g, %g]", o.NumIt, o.X, o.Fx, o.Lo, o.Hi)
}

// Unwrap makes errors.Is(err, ErrNotConverged) hold
func (o *ConvergenceError) Unwrap() error { return ErrNotConverged }
