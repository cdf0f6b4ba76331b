// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package field implements models for the scalar field sourced by a matter distribution
//
//   φ'' + (2/r) φ' = V'(φ) − s・Λ0(φ)・ρ(r)
//
//   Λ0(φ) = (λ'(φ)・φ + λ(φ)) / M
//
package field

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Model defines field models
//  Note: all functions must accept any finite φ and any r ≥ 0 without overflowing
type Model interface {
	Init(prms dbf.Params) error      // Init initialises this structure
	GetPrms(example bool) dbf.Params // gets (an example) of parameters
	Vp(φ float64) float64            // Vp returns the potential derivative V'(φ) > 0
	Lam(φ float64) float64           // Lam returns the coupling function λ(φ)
	DlamDphi(φ float64) float64      // DlamDphi returns λ'(φ)
	Lambda0(φ float64) float64       // Lambda0 returns (λ'(φ)・φ + λ(φ)) / M
	Rho(r float64) float64           // Rho returns the matter density ρ(r) ≥ 0
}

// New returns a new field model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'field' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// Source computes the right-hand side of the field equation at coupling scale s
func Source(m Model, φ, r, s float64) float64 {
	return m.Vp(φ) - s*m.Lambda0(φ)*m.Rho(r)
}

// ExpLimit bounds the arguments passed to math.Exp
const ExpLimit = 50.0

// SafeExp computes exp(x) with x clamped to [-ExpLimit, ExpLimit]
func SafeExp(x float64) float64 {
	if x > ExpLimit {
		x = ExpLimit
	}
	if x < -ExpLimit {
		x = -ExpLimit
	}
	return math.Exp(x)
}
