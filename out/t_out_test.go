// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/Bezzalel1/pre-quantum-field-theory/bvp"
	"github.com/Bezzalel1/pre-quantum-field-theory/sol"
	"github.com/Bezzalel1/pre-quantum-field-theory/valve"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// newSummary returns a summary with φ = 4e^{-r/10} and χ = 2e^{-r/5}
func newSummary(reached bool) *bvp.Summary {
	n := 101
	p := sol.NewProfile(n)
	copy(p.R, utl.LinSpace(0, 20, n))
	res := &valve.Result{Chi: make([]float64, n), Thresh: 1, Index: -1, Rstar: math.NaN()}
	for i, r := range p.R {
		p.Phi[i] = 4 * math.Exp(-r/10)
		p.Dphi[i] = -0.4 * math.Exp(-r/10)
		res.Chi[i] = 2 * math.Exp(-r/5)
	}
	if reached {
		res.Reached, res.Rstar, res.Index, res.Ncross = true, 5*math.Ln2, 18, 1
	} else {
		res.Hint = "extend the outer radius"
		for i := range res.Chi {
			res.Chi[i] *= 0.25
		}
	}
	res.R1e, res.Found1e = valve.Radius1e(p)
	return &bvp.Summary{Key: "test", Method: "shooting", Outer: "slope", Profile: p, Valve: res, Check: 1e-12}
}

func Test_console01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("console01")

	var buf bytes.Buffer
	con := &Console{W: &buf}
	con.Step(bvp.Step{Index: 2, Nsteps: 6, Scale: 0.2, Center: 1.5, Converged: true})
	con.Step(bvp.Step{Index: 3, Nsteps: 6, Scale: 0.4, Center: -0.5, Retried: true})
	con.Final(newSummary(true))
	txt := buf.String()
	io.Pforan("%s", txt)
	for _, s := range []string{"step 2/6  scale=0.20  phi(0)=1.500000", "(retried)", "method: shooting", "phi'(Rmax)", "R* = 3.466", "R_1e = "} {
		if !strings.Contains(txt, s) {
			tst.Errorf("output should contain %q\n", s)
		}
	}

	buf.Reset()
	sum := newSummary(true)
	sum.Valve.Suspect, sum.Valve.Note = true, "chi falls through the threshold"
	con.Final(sum)
	if !strings.Contains(buf.String(), "warning: chi falls through the threshold") {
		tst.Errorf("output should warn about the falling crossing\n")
	}

	buf.Reset()
	con.Final(newSummary(false))
	txt = buf.String()
	io.Pforan("%s", txt)
	if !strings.Contains(txt, "not reached") || !strings.Contains(txt, "hint: extend the outer radius") {
		tst.Errorf("output should report that the valve was not reached\n")
	}
}

func Test_plot01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("plot01")

	dir := tst.TempDir()
	if chk.Verbose {
		dir = "/tmp/pqf"
	}
	for _, reached := range []bool{true, false} {
		fnphi, fnchi, err := Plot(dir, io.Sf("test%v", reached), newSummary(reached))
		if err != nil {
			tst.Errorf("Plot failed: %v\n", err)
			return
		}
		for _, fn := range []string{fnphi, fnchi} {
			info, err := os.Stat(fn)
			if err != nil {
				tst.Errorf("file %q should exist: %v\n", fn, err)
				return
			}
			if info.Size() == 0 {
				tst.Errorf("file %q is empty\n", fn)
			}
		}
	}
}
