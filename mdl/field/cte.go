// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Cte implements a constant source without coupling
//
//   V'(φ) = c,  λ(φ) = 0,  ρ(r) = 0   ⇒   φ(r) = φ(0) + c r² / 6
//
type Cte struct {
	C float64 // constant potential derivative
}

// add model to factory
func init() {
	allocators["cte"] = func() Model { return new(Cte) }
}

// Init initialises model
func (o *Cte) Init(prms dbf.Params) (err error) {
	o.C = 0.01
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "c":
			o.C = p.V
		default:
			return chk.Err("cte: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.C <= 0 {
		return chk.Err("cte: c must be positive. c = %g is invalid\n", o.C)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Cte) GetPrms(example bool) dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "c", V: 0.01},
	}
}

// Vp returns c
func (o Cte) Vp(φ float64) float64 { return o.C }

// Lam returns zero
func (o Cte) Lam(φ float64) float64 { return 0 }

// DlamDphi returns zero
func (o Cte) DlamDphi(φ float64) float64 { return 0 }

// Lambda0 returns zero
func (o Cte) Lambda0(φ float64) float64 { return 0 }

// Rho returns zero
func (o Cte) Rho(r float64) float64 { return 0 }
