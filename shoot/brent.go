// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shoot

import "math"

// Brent finds a root of f within the bracket [a,b] using Brent's method
// (bisection, secant and inverse quadratic interpolation)
//  Input:
//   fa, fb -- f(a) and f(b) with opposite signs (or one of them zero)
//   xtol, rtol -- convergence: |interval|/2 < (xtol + rtol・|x|)/2
//   maxit -- max number of iterations
//  Output:
//   x -- root
//   it -- number of iterations
//   err -- *ConvergenceError if maxit was exceeded
func Brent(f func(x float64) float64, a, b, fa, fb, xtol, rtol float64, maxit int) (x float64, it int, err error) {

	// trivial
	if fa == 0 {
		return a, 0, nil
	}
	if fb == 0 {
		return b, 0, nil
	}

	// state
	xpre, xcur := a, b
	fpre, fcur := fa, fb
	var xblk, fblk, spre, scur float64

	for it = 0; it < maxit; it++ {

		// keep the root bracketed by xcur and xblk
		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			xblk, fblk = xpre, fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}

		// convergence
		delta := (xtol + rtol*math.Abs(xcur)) / 2.0
		sbis := (xblk - xcur) / 2.0
		if fcur == 0 || math.Abs(sbis) < delta {
			return xcur, it, nil
		}

		// interpolate or bisect
		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			var stry float64
			if xpre == xblk {
				stry = -fcur * (xcur - xpre) / (fcur - fpre) // secant
			} else {
				dpre := (fpre - fcur) / (xpre - xcur)
				dblk := (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk*dblk - fpre*dpre) / (dblk * dpre * (fblk - fpre)) // inverse quadratic
			}
			if 2.0*math.Abs(stry) < math.Min(math.Abs(spre), 3.0*math.Abs(sbis)-delta) {
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}

		// next point
		xpre, fpre = xcur, fcur
		if math.Abs(scur) > delta {
			xcur += scur
		} else if sbis > 0 {
			xcur += delta
		} else {
			xcur -= delta
		}
		fcur = f(xcur)
	}
	return xcur, it, &ConvergenceError{X: xcur, Fx: fcur, Lo: math.Min(xcur, xblk), Hi: math.Max(xcur, xblk), NumIt: it}
}
