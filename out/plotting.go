// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"
	"os"
	"path/filepath"

	"github.com/Bezzalel1/pre-quantum-field-theory/bvp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
)

// Plot saves two figures into dirout:
//  <key>_phi.png -- φ(r) with vertical markers at R* and R_1e
//  <key>_chi.png -- χ(r) with a horizontal line at the threshold
func Plot(dirout, key string, sum *bvp.Summary) (fnphi, fnchi string, err error) {

	// output directory
	err = os.MkdirAll(dirout, 0777)
	if err != nil {
		return "", "", chk.Err("cannot create directory for plots (%s):\n%v", dirout, err)
	}
	fnphi = filepath.Join(dirout, key+"_phi.png")
	fnchi = filepath.Join(dirout, key+"_chi.png")
	p, v := sum.Profile, sum.Valve

	// φ(r)
	pl := plot.New()
	pl.Title.Text = io.Sf("field profile (%s)", sum.Method)
	pl.X.Label.Text = "r"
	pl.Y.Label.Text = "phi(r)"
	pl.Add(plotter.NewGrid())
	err = addCurve(pl, p.R, p.Phi, StyleCurve, "")
	if err != nil {
		return
	}
	ymin, ymax := floats.Min(p.Phi), floats.Max(p.Phi)
	if !math.IsNaN(v.Rstar) && v.Index >= 0 {
		err = addCurve(pl, []float64{v.Rstar, v.Rstar}, []float64{ymin, ymax}, StyleRstar, io.Sf("R* = %.2f", v.Rstar))
		if err != nil {
			return
		}
	}
	if v.Found1e {
		err = addCurve(pl, []float64{v.R1e, v.R1e}, []float64{ymin, ymax}, StyleR1e, io.Sf("R_1e = %.2f", v.R1e))
		if err != nil {
			return
		}
	}
	err = pl.Save(FigWidth, FigHeight, fnphi)
	if err != nil {
		return
	}

	// χ(r)
	pl = plot.New()
	pl.Title.Text = "phase-valve criterion"
	pl.X.Label.Text = "r"
	pl.Y.Label.Text = "chi(r)"
	pl.Add(plotter.NewGrid())
	err = addCurve(pl, p.R, v.Chi, StyleCurve, "")
	if err != nil {
		return
	}
	err = addCurve(pl, []float64{p.R[0], p.R[p.Len()-1]}, []float64{v.Thresh, v.Thresh}, StyleThresh, io.Sf("chi = %g", v.Thresh))
	if err != nil {
		return
	}
	pl.Y.Min = 0
	pl.Y.Max = math.Max(1.2*v.Thresh, 1.05*floats.Max(v.Chi))
	err = pl.Save(FigWidth, FigHeight, fnchi)
	return
}

// addCurve adds a line to the plot and to the legend if label is given
func addCurve(pl *plot.Plot, x, y []float64, style draw.LineStyle, label string) error {
	xys := make(plotter.XYs, len(x))
	for i := range x {
		xys[i].X = x[i]
		xys[i].Y = y[i]
	}
	l, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	l.LineStyle = style
	pl.Add(l)
	if label != "" {
		pl.Legend.Add(label, l)
	}
	return nil
}
