// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Exp implements the exponential model
//
//   λ(φ)  = λ0 (1 − exp(−φ/φs))
//   λ'(φ) = (λ0/φs) exp(−φ/φs)
//   V'(φ) = (ρ0/φs) exp(−φ/φs)
//   ρ(r)  = exp(−r/r0)      or   exp(−(r/r0)²) if gauss
//
type Exp struct {
	Rho0  float64 // matter-density base value
	PhiS  float64 // reference field scale
	Lam0  float64 // coupling amplitude
	Mcut  float64 // cutoff mass
	R0    float64 // length scale of matter profile
	Gauss bool    // use Gaussian matter profile
}

// add model to factory
func init() {
	allocators["exp"] = func() Model { return new(Exp) }
}

// Init initialises model
func (o *Exp) Init(prms dbf.Params) (err error) {
	o.Rho0, o.PhiS, o.Lam0, o.Mcut, o.R0 = 1, 1, 0.5, 1, 5
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "rho0":
			o.Rho0 = p.V
		case "phis":
			o.PhiS = p.V
		case "lam0":
			o.Lam0 = p.V
		case "mcut":
			o.Mcut = p.V
		case "r0":
			o.R0 = p.V
		case "gauss":
			o.Gauss = p.V > 0
		default:
			return chk.Err("exp: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.Rho0 <= 0 {
		return chk.Err("exp: rho0 must be positive so that V'(φ) > 0. rho0 = %g is invalid\n", o.Rho0)
	}
	if o.PhiS <= 0 || o.Mcut <= 0 || o.R0 <= 0 {
		return chk.Err("exp: phis, Mcut and r0 must be positive. phis=%g Mcut=%g r0=%g\n", o.PhiS, o.Mcut, o.R0)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Exp) GetPrms(example bool) dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "rho0", V: 1},
		&dbf.P{N: "phis", V: 1},
		&dbf.P{N: "lam0", V: 0.5},
		&dbf.P{N: "Mcut", V: 1},
		&dbf.P{N: "r0", V: 5},
	}
}

// Vp computes V'(φ)
func (o Exp) Vp(φ float64) float64 {
	return (o.Rho0 / o.PhiS) * SafeExp(-φ/o.PhiS)
}

// Lam computes λ(φ)
func (o Exp) Lam(φ float64) float64 {
	return o.Lam0 * (1.0 - SafeExp(-φ/o.PhiS))
}

// DlamDphi computes λ'(φ)
func (o Exp) DlamDphi(φ float64) float64 {
	return (o.Lam0 / o.PhiS) * SafeExp(-φ/o.PhiS)
}

// Lambda0 computes Λ0(φ)
func (o Exp) Lambda0(φ float64) float64 {
	return (o.DlamDphi(φ)*φ + o.Lam(φ)) / o.Mcut
}

// Rho computes ρ(r)
func (o Exp) Rho(r float64) float64 {
	x := r / o.R0
	if o.Gauss {
		return SafeExp(-x * x)
	}
	return SafeExp(-x)
}
