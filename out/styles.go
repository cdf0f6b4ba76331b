// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"image/color"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// styles of plot entities
var (
	StyleCurve  = draw.LineStyle{Color: color.RGBA{R: 31, G: 119, B: 180, A: 255}, Width: vg.Points(2.5)}
	StyleRstar  = draw.LineStyle{Color: color.Black, Width: vg.Points(1), Dashes: []vg.Length{vg.Points(6), vg.Points(3)}}
	StyleR1e    = draw.LineStyle{Color: color.Gray{Y: 128}, Width: vg.Points(1), Dashes: []vg.Length{vg.Points(1), vg.Points(3)}}
	StyleThresh = draw.LineStyle{Color: color.Black, Width: vg.Points(1), Dashes: []vg.Length{vg.Points(6), vg.Points(3)}}
)

// figure size
var (
	FigWidth  = 6 * vg.Inch
	FigHeight = 4 * vg.Inch
)
