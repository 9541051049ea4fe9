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

import "math"

// Grid coordinates used by the index mappers are 1-based: the center of
// the pixel stored at 0-based array index i sits at coordinate i+1.

// velocityEpsilon keeps clamped velocity-grid coordinates strictly
// below the last grid point so that index+1 is always addressable.
const velocityEpsilon = 1.e-5

// VelocityIndex converts the field-grid coordinate p into a 1-based
// velocity-grid cell index and the fractional offset within that cell.
// n is the number of velocity grid points along the axis, margin is the
// number of field-grid cells at each border not covered by the velocity
// grid, and nd is the number of field-grid cells per velocity-grid cell,
// (fieldExtent - 2*margin) / n.
//
// Coordinates outside of the covered domain are clamped to the nearest
// interpolation cell, so the returned index is always in [1, n-1].
func VelocityIndex(p float64, n int, nd float64, margin int) (index int, fraction float64) {
	u := (p-(float64(margin)+nd/2+0.5))/nd + 1.0
	return VelocityGridIndex(u, n)
}

// VelocityGridIndex is like VelocityIndex, but u is already expressed in
// 1-based velocity-grid units.
func VelocityGridIndex(u float64, n int) (index int, fraction float64) {
	upper := float64(n) - velocityEpsilon
	if u < 1.0 || math.IsNaN(u) {
		u = 1.0
	} else if u > upper {
		u = upper
	}
	index = int(math.Floor(u))
	return index, u - float64(index)
}

// FieldIndex converts the field-grid coordinate p into the 1-based index
// of the lower-left sample of the interpolation cell holding p and the
// fractional offset within that cell. n is the number of grid points
// along the axis. ok is false if p is outside of [1, n), in which case
// index and fraction are zero and no lookup may be attempted.
func FieldIndex(p float64, n int) (index int, fraction float64, ok bool) {
	if !(p >= 1 && p < float64(n)) {
		return 0, 0, false
	}
	index = int(math.Floor(p))
	return index, p - float64(index), true
}
