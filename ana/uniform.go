// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// UniformSource computes the solution of the radial field equation with constant source c
//
//   φ'' + (2/r) φ' = c     with  φ'(0) = 0
//
//   φ(r)  = A + c・r²/6
//   φ'(r) = c・r/3
//
//  Note: this is the exact solution for the "cte" field model
type UniformSource struct {
	A float64 // center value φ(0)
	C float64 // constant source
}

// Init initialises this structure
func (o *UniformSource) Init(prms dbf.Params) (err error) {
	o.A = 0.0
	o.C = 0.01
	for _, p := range prms {
		switch p.N {
		case "A":
			o.A = p.V
		case "c":
			o.C = p.V
		default:
			return chk.Err("uniform source: parameter named %q is invalid", p.N)
		}
	}
	return
}

// Phi computes φ(r)
func (o UniformSource) Phi(r float64) float64 {
	return o.A + o.C*r*r/6.0
}

// Dphi computes φ'(r)
func (o UniformSource) Dphi(r float64) float64 {
	return o.C * r / 3.0
}

// CenterForValue returns the center value A such that φ(rmax) = anchor
func (o UniformSource) CenterForValue(rmax, anchor float64) float64 {
	return anchor - o.C*rmax*rmax/6.0
}

// Residual returns the shooting residual for the value (φ(rmax) − anchor) or slope (φ'(rmax))
// outer conditions when starting from center value A
func (o UniformSource) Residual(A, rmax, anchor float64, slope bool) float64 {
	if slope {
		return o.C * rmax / 3.0
	}
	return A + o.C*rmax*rmax/6.0 - anchor
}
