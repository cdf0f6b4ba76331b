// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sol implements the radial field profile produced by the solvers
package sol

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/interp"
)

// outer boundary conditions
const (
	OuterValue = "value" // φ(Rmax) = anchor
	OuterSlope = "slope" // φ'(Rmax) = 0
)

// Profile holds samples (r, φ, φ') along a strictly increasing radial grid
type Profile struct {
	R         []float64 // radii
	Phi       []float64 // field values
	Dphi      []float64 // field derivatives
	Scale     float64   // coupling scale s the profile was solved at
	Center    float64   // trial center value φ(R[0]) used to produce this profile
	Converged bool      // outer condition satisfied (false for best-effort estimates)
	Method    string    // "shooting" or "collocation"
}

// NewProfile allocates a profile with n samples
func NewProfile(n int) *Profile {
	return &Profile{
		R:    make([]float64, n),
		Phi:  make([]float64, n),
		Dphi: make([]float64, n),
	}
}

// Len returns the number of samples
func (o *Profile) Len() int {
	return len(o.R)
}

// Last returns the last sample
func (o *Profile) Last() (r, φ, dφ float64) {
	n := len(o.R) - 1
	return o.R[n], o.Phi[n], o.Dphi[n]
}

// Residual returns the outer boundary quantity that must vanish on a converged solution
func (o *Profile) Residual(outer string, anchor float64) float64 {
	_, φ, dφ := o.Last()
	if outer == OuterSlope {
		return dφ
	}
	return φ - anchor
}

// Check verifies the ordering invariant of the radial grid
func (o *Profile) Check() (err error) {
	n := len(o.R)
	if n < 2 {
		return chk.Err("profile must have at least 2 samples. n=%d is invalid", n)
	}
	if len(o.Phi) != n || len(o.Dphi) != n {
		return chk.Err("profile slices have inconsistent lengths: R=%d Phi=%d Dphi=%d", n, len(o.Phi), len(o.Dphi))
	}
	for i := 1; i < n; i++ {
		if !(o.R[i] > o.R[i-1]) {
			return chk.Err("radii must be strictly increasing: R[%d]=%g, R[%d]=%g", i-1, o.R[i-1], i, o.R[i])
		}
	}
	return
}

// Predictor returns a piecewise linear interpolator of φ(r)
func (o *Profile) Predictor() (p *interp.PiecewiseLinear, err error) {
	if err = o.Check(); err != nil {
		return
	}
	p = new(interp.PiecewiseLinear)
	err = p.Fit(o.R, o.Phi)
	return
}

// Compare computes the largest relative difference |φa − φb| / max(|φa|, floor) between
// this profile and another at the radii of this profile that lie within the other's grid
func (o *Profile) Compare(other *Profile, floor float64) (maxRel float64, err error) {
	pred, err := other.Predictor()
	if err != nil {
		return
	}
	rmin, rmax := other.R[0], other.R[other.Len()-1]
	for i, r := range o.R {
		if r < rmin || r > rmax {
			continue
		}
		den := math.Max(math.Abs(o.Phi[i]), floor)
		rel := math.Abs(o.Phi[i]-pred.Predict(r)) / den
		if rel > maxRel {
			maxRel = rel
		}
	}
	return
}
