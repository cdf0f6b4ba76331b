// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements the presentation of results: console reports and plots
package out

import (
	goio "io"

	"github.com/Bezzalel1/pre-quantum-field-theory/bvp"
	"github.com/cpmech/gosl/io"
)

// Console prints progress lines and the final summary
type Console struct {
	W goio.Writer // output; nil means standard output
}

// Step prints one progress line
func (o *Console) Step(st bvp.Step) {
	mark := "✓"
	if !st.Converged {
		mark = "~"
	}
	if st.Retried {
		mark += " (retried)"
	}
	o.print(io.Sf("%s step %d/%d  scale=%.2f  phi(0)=%.6f\n", mark, st.Index, st.Nsteps, st.Scale, st.Center))
}

// Final prints the summary
func (o *Console) Final(sum *bvp.Summary) {
	l := io.Sf("method: %s\n", sum.Method)
	if sum.Outer == "slope" {
		l += io.Sf("boundary check: phi'(Rmax) = %.3e\n", sum.Check)
	} else {
		l += io.Sf("boundary check: phi(Rmax) - anchor = %.3e\n", sum.Check)
	}
	v := sum.Valve
	if v.Reached {
		l += io.Sf("phase-valve core radius (chi=%g): R* = %.3f\n", v.Thresh, v.Rstar)
		if v.NonMonotone {
			l += io.Sf("warning: chi crosses the threshold %d times\n", v.Ncross)
		}
		if v.Suspect {
			l += io.Sf("warning: %s\n", v.Note)
		}
	} else {
		l += io.Sf("phase-valve core radius (chi=%g): not reached\n", v.Thresh)
		if v.Index >= 0 {
			l += io.Sf("closest point: R* = %.3f with chi = %.3f\n", v.Rstar, v.Chi[v.Index])
		}
		l += io.Sf("hint: %s\n", v.Hint)
	}
	if v.Found1e {
		l += io.Sf("1/e geometric radius (aux): R_1e = %.3f\n", v.R1e)
	}
	l += io.Sf("cpu time = %v\n", sum.CPUtime)
	o.print(l)
}

// print writes to W or standard output
func (o *Console) print(l string) {
	if o.W == nil {
		io.Pf("%s", l)
		return
	}
	goio.WriteString(o.W, l)
}
