// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

func Test_uniform01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("uniform01")

	var sol UniformSource
	err := sol.Init([]*dbf.P{
		&dbf.P{N: "A", V: 2.0},
		&dbf.P{N: "c", V: 0.03},
	})
	if err != nil {
		tst.Errorf("Init failed: %v\n", err)
		return
	}

	// equation: φ'' + (2/r)φ' = c
	r := 4.0
	d2 := sol.C / 3.0
	io.Pforan("φ(4) = %v\n", sol.Phi(r))
	chk.Float64(tst, "φ(0)", 1e-15, sol.Phi(0), 2.0)
	chk.Float64(tst, "φ'(0)", 1e-15, sol.Dphi(0), 0.0)
	chk.Float64(tst, "φ(4)", 1e-15, sol.Phi(r), 2.0+0.03*16.0/6.0)
	chk.Float64(tst, "equation", 1e-15, d2+2.0*sol.Dphi(r)/r, sol.C)

	// value condition
	A := sol.CenterForValue(40, 1.0)
	chk.Float64(tst, "A", 1e-13, A, 1.0-0.03*1600.0/6.0)
	chk.Float64(tst, "residual(A)", 1e-13, sol.Residual(A, 40, 1.0, false), 0)
	chk.Float64(tst, "slope residual", 1e-15, sol.Residual(A, 40, 1.0, true), 0.4)
}

func Test_uniform02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("uniform02. invalid parameter")

	var sol UniformSource
	err := sol.Init([]*dbf.P{&dbf.P{N: "k", V: 1}})
	if err == nil {
		tst.Errorf("Init should have failed with unknown parameter\n")
		return
	}
}
