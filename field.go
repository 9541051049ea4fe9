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

	"github.com/ctessum/sparse"
)

// VelocityField holds a stationary motion field on a grid that is
// coarser than, and inset by the kernel margin from, the field grid.
//
// Note the axis naming: VX is the north-south component, i.e. motion
// along the first (row) array dimension, and VY is the west-east
// component, along the second (column) dimension. Both are in field-grid
// cells per time step once scaled by Dte/Dx and Dte/Dy respectively.
type VelocityField struct {
	VX, VY *sparse.DenseArray
}

// Dims returns the number of velocity grid points along each axis.
func (v *VelocityField) Dims() (nvx, nvy int) {
	return v.VX.Shape[0], v.VX.Shape[1]
}

func (v *VelocityField) check() error {
	if v == nil || v.VX == nil || v.VY == nil {
		return fmt.Errorf("precipattractor: velocity field is missing a component")
	}
	if len(v.VX.Shape) != 2 || len(v.VY.Shape) != 2 {
		return fmt.Errorf("precipattractor: velocity components must be 2-d but have shapes %v and %v",
			v.VX.Shape, v.VY.Shape)
	}
	if v.VX.Shape[0] != v.VY.Shape[0] || v.VX.Shape[1] != v.VY.Shape[1] {
		return fmt.Errorf("precipattractor: velocity components have different shapes: vx=%v, vy=%v",
			v.VX.Shape, v.VY.Shape)
	}
	if err := checkElements(v.VX); err != nil {
		return fmt.Errorf("precipattractor: vx: %v", err)
	}
	if err := checkElements(v.VY); err != nil {
		return fmt.Errorf("precipattractor: vy: %v", err)
	}
	return nil
}

// checkElements makes sure the backing array matches the shape.
func checkElements(a *sparse.DenseArray) error {
	n := 1
	for _, v := range a.Shape {
		n *= v
	}
	if len(a.Elements) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(a.Elements))
	}
	return nil
}

// cell returns the four corners of the interpolation cell whose
// lower-left corner is at 1-based indices (i, j), in the order expected
// by Bilinear.
func cell(a *sparse.DenseArray, i, j int) (vll, vlr, vul, vur float64) {
	ny := a.Shape[1]
	k := (i-1)*ny + j - 1
	return a.Elements[k], a.Elements[k+ny], a.Elements[k+1], a.Elements[k+ny+1]
}
