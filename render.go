/*
Copyright © 2018 the PrecipAttractor authors.
This file is part of PrecipAttractor.

PrecipAttractor is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PrecipAttractor is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PrecipAttractor.  If not, see <http://www.gnu.org/licenses/>.
*/

package precipattractor

import (
	"fmt"
	"io"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	frameWidth    = 5 * vg.Inch
	frameHeight   = 5 * vg.Inch
	legendHeight  = 0.6 * vg.Inch
	paletteColors = 255
)

// fieldGrid adapts a 2-d field to plotter.GridXYZ. The first row of the
// field is drawn at the top.
type fieldGrid struct {
	a *sparse.DenseArray
}

func (g fieldGrid) Dims() (c, r int) { return g.a.Shape[1], g.a.Shape[0] }
func (g fieldGrid) Z(c, r int) float64 {
	return g.a.Elements[(g.a.Shape[0]-1-r)*g.a.Shape[1]+c]
}
func (g fieldGrid) X(c int) float64 { return float64(c + 1) }
func (g fieldGrid) Y(r int) float64 { return float64(r + 1) }

// RenderFrame draws the 2-d field as a PNG heat map with a color bar
// and writes it to w. Values are colored on a scale from zmin to zmax.
func RenderFrame(w io.Writer, field *sparse.DenseArray, title string, zmin, zmax float64) error {
	if len(field.Shape) != 2 {
		return fmt.Errorf("precipattractor: can only render 2-d fields but the shape is %v", field.Shape)
	}
	if zmax <= zmin {
		zmax = zmin + 1
	}
	cm := moreland.ExtendedBlackBody()
	cm.SetMin(zmin)
	cm.SetMax(zmax)

	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("precipattractor: rendering frame: %v", err)
	}
	p.Title.Text = title
	p.X.Label.Text = "column (west-east)"
	p.Y.Label.Text = "row (south-north)"
	h := plotter.NewHeatMap(fieldGrid{a: field}, cm.Palette(paletteColors))
	h.Min, h.Max = zmin, zmax
	p.Add(h)

	l, err := plot.New()
	if err != nil {
		return fmt.Errorf("precipattractor: rendering legend: %v", err)
	}
	l.Add(&plotter.ColorBar{ColorMap: cm})
	l.HideY()
	l.X.Padding = 0

	img := vgimg.New(frameWidth, frameHeight+legendHeight)
	dc := draw.New(img)
	p.Draw(draw.Crop(dc, 0, 0, legendHeight, 0))
	l.Draw(draw.Crop(dc, 0, 0, 0, -frameHeight))

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("precipattractor: writing frame: %v", err)
	}
	return nil
}

// RenderLeadTime draws lead time l of the forecast with RenderFrame,
// using the range of values across all lead times so frames can be
// compared.
func (f *Forecast) RenderLeadTime(w io.Writer, l int) error {
	field, err := f.LeadTime(l)
	if err != nil {
		return err
	}
	zmin, zmax := floats.Min(f.Fields.Elements), floats.Max(f.Fields.Elements)
	return RenderFrame(w, field, fmt.Sprintf("lead time %d", l), zmin, zmax)
}
