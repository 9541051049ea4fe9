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
	"math"

	"github.com/ctessum/sparse"
)

// UniformVelocity returns a velocity field of nvx by nvy points where
// every point has north-south velocity vx and west-east velocity vy.
func UniformVelocity(nvx, nvy int, vx, vy float64) *VelocityField {
	v := &VelocityField{
		VX: sparse.ZerosDense(nvx, nvy),
		VY: sparse.ZerosDense(nvx, nvy),
	}
	for i := range v.VX.Elements {
		v.VX.Elements[i] = vx
		v.VY.Elements[i] = vy
	}
	return v
}

// RotationVelocity returns a velocity field of nvx by nvy points
// rotating counterclockwise around the center of the grid with the
// given angular speed in radians per time step. The velocity is
// expressed in velocity-grid cells, so it should be scaled by the
// field-to-velocity grid ratio before use with a coarser velocity grid.
func RotationVelocity(nvx, nvy int, omega float64) *VelocityField {
	v := &VelocityField{
		VX: sparse.ZerosDense(nvx, nvy),
		VY: sparse.ZerosDense(nvx, nvy),
	}
	ci, cj := float64(nvx-1)/2, float64(nvy-1)/2
	for i := 0; i < nvx; i++ {
		for j := 0; j < nvy; j++ {
			k := i*nvy + j
			v.VX.Elements[k] = omega * (float64(j) - cj)
			v.VY.Elements[k] = -omega * (float64(i) - ci)
		}
	}
	return v
}

// GaussianField returns an nx by ny field holding a Gaussian bump of the
// given peak value and width (standard deviation, in grid cells)
// centered at 1-based position (ci, cj).
func GaussianField(nx, ny int, ci, cj, width, peak float64) *sparse.DenseArray {
	a := sparse.ZerosDense(nx, ny)
	for i := 1; i <= nx; i++ {
		for j := 1; j <= ny; j++ {
			d2 := (float64(i)-ci)*(float64(i)-ci) + (float64(j)-cj)*(float64(j)-cj)
			a.Elements[(i-1)*ny+j-1] = peak * math.Exp(-d2/(2*width*width))
		}
	}
	return a
}

// LinearField returns an nx by ny field whose value at 1-based indices
// (i, j) is c + a*i + b*j. Bilinear interpolation reproduces such a
// field exactly.
func LinearField(nx, ny int, a, b, c float64) *sparse.DenseArray {
	f := sparse.ZerosDense(nx, ny)
	for i := 1; i <= nx; i++ {
		for j := 1; j <= ny; j++ {
			f.Elements[(i-1)*ny+j-1] = c + a*float64(i) + b*float64(j)
		}
	}
	return f
}

// ConstantField returns an nx by ny field where every value is v.
func ConstantField(nx, ny int, v float64) *sparse.DenseArray {
	f := sparse.ZerosDense(nx, ny)
	for i := range f.Elements {
		f.Elements[i] = v
	}
	return f
}
