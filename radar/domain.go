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

package radar

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// ExtractMiddleDomain returns the centered sizeY by sizeX window of the
// 2-d field, where sizeX is the number of columns and sizeY the number of
// rows. When the border can't be split evenly the extra row or column is
// left on the far side.
func ExtractMiddleDomain(field *sparse.DenseArray, sizeX, sizeY int) (*sparse.DenseArray, error) {
	if len(field.Shape) != 2 {
		return nil, fmt.Errorf("radar: field must be 2-d but has shape %v", field.Shape)
	}
	rows, cols := field.Shape[0], field.Shape[1]
	if sizeX < 1 || sizeY < 1 || sizeX > cols || sizeY > rows {
		return nil, fmt.Errorf("radar: can't extract a %dx%d domain from a %dx%d field", sizeY, sizeX, rows, cols)
	}
	borderX := (cols - sizeX) / 2
	borderY := (rows - sizeY) / 2
	o := sparse.ZerosDense(sizeY, sizeX)
	for i := 0; i < sizeY; i++ {
		src := field.Elements[(i+borderY)*cols+borderX : (i+borderY)*cols+borderX+sizeX]
		copy(o.Elements[i*sizeX:(i+1)*sizeX], src)
	}
	return o, nil
}

// SparseGrid returns the column (x) and row (y) indices of every
// spacing-th pixel along both axes of a rows by cols grid, starting at
// (0, 0) and ordered row by row.
func SparseGrid(spacing, rows, cols int) (x, y []int) {
	if spacing < 1 {
		return nil, nil
	}
	for i := 0; i < rows; i += spacing {
		for j := 0; j < cols; j += spacing {
			x = append(x, j)
			y = append(y, i)
		}
	}
	return x, y
}
