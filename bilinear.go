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

// Bilinear interpolates between the four corners of a grid cell.
// a is the fractional offset along the first (row) axis and b along the
// second (column) axis; vll is the value at (0,0), vlr at (1,0),
// vul at (0,1) and vur at (1,1).
//
// It is algebraically equal to
//	(1-a)(1-b)vll + a(1-b)vlr + (1-a)b vul + ab vur
// but uses fewer multiplications.
func Bilinear(a, b, vll, vlr, vul, vur float64) float64 {
	return vll + a*(vlr-vll) + b*(vul-vll) + a*b*(vur+vll-vlr-vul)
}
