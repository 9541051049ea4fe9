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

// Package radar holds utilities for working with gridded weather radar
// products: unit conversions between rain rate and reflectivity,
// decoding of 8-bit composites, wet-area statistics and domain
// handling.
package radar

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// MissingReflectivity is the reflectivity assigned by
// RainrateToReflectivity to pixels with negative (missing) rain rates.
const MissingReflectivity = -999.0

// DefaultMinRainrate is the rain rate [mm/h] used to compute the
// reflectivity of dry pixels when there are too few rainy pixels to
// estimate it from the data.
const DefaultMinRainrate = 0.012

// minRainyPixels is the number of rainy pixels needed to estimate the
// minimum rain rate from the data.
const minRainyPixels = 10

// Marshall-Palmer Z-R coefficients used by the 8-bit lookup table.
const (
	MarshallPalmerA = 316.0
	MarshallPalmerB = 1.5
)

// DBValue converts x to decibels: 10*log10(x+offset). An offset of -1
// means that no offset is added.
func DBValue(x, offset float64) float64 {
	if offset == -1 {
		return 10 * math.Log10(x)
	}
	return 10 * math.Log10(x+offset)
}

// DB returns a new array holding every element of a converted to
// decibels with DBValue.
func DB(a *sparse.DenseArray, offset float64) *sparse.DenseArray {
	o := sparse.ZerosDense(a.Shape...)
	for i, v := range a.Elements {
		o.Elements[i] = DBValue(v, offset)
	}
	return o
}

// ZR converts rain rate r [mm/h] to reflectivity [dBZ] with the power-law
// Z-R relationship Z = A*r^b.
func ZR(r, A, b float64) float64 {
	return 10 * math.Log10(A*math.Pow(r, b))
}

// RZ converts reflectivity dbz [dBZ] to rain rate [mm/h]. It is the
// inverse of ZR.
func RZ(dbz, A, b float64) float64 {
	return math.Pow(math.Pow(10, dbz/10)/A, 1/b)
}

// RainrateToReflectivity converts a rain-rate field [mm/h] to
// reflectivity [dBZ] as 10*log10(A*R+b).
//
// Dry pixels (R == 0) are given the reflectivity of the smallest rain
// rate in the field if there are at least 10 rainy pixels, or of
// DefaultMinRainrate otherwise. Pixels with negative rain rates are
// set to MissingReflectivity.
func RainrateToReflectivity(rainrate *sparse.DenseArray, A, b float64) *sparse.DenseArray {
	nRain := 0
	minRain := math.Inf(1)
	for _, r := range rainrate.Elements {
		if r > 0 {
			nRain++
			minRain = math.Min(minRain, r)
		}
	}
	if nRain < minRainyPixels {
		minRain = DefaultMinRainrate
	}
	minDBZ := 10 * math.Log10(A*minRain+b)

	o := sparse.ZerosDense(rainrate.Shape...)
	for i, r := range rainrate.Elements {
		switch {
		case r > 0:
			o.Elements[i] = 10 * math.Log10(A*r+b)
		case r == 0:
			o.Elements[i] = minDBZ
		default:
			o.Elements[i] = MissingReflectivity
		}
	}
	return o
}

// precipIndexOffset is the 8-bit composite value that corresponds to
// 0 dBZ.
const precipIndexOffset = 71.5

// RainfallLookupTable returns the table mapping the 256 values of an
// 8-bit radar composite to rain rates [mm/h]. Values 0, 1 and 251-254
// map to zero rain and 255 maps to noData.
func RainfallLookupTable(noData float64) [256]float64 {
	var lut [256]float64
	for i := range lut {
		switch {
		case i < 2 || (i > 250 && i < 255):
			lut[i] = 0
		case i == 255:
			lut[i] = noData
		default:
			lut[i] = math.Pow(math.Pow(10, (float64(i)-precipIndexOffset)/20)/MarshallPalmerA, 0.6666667)
		}
	}
	return lut
}

// DecodeComposite converts 8-bit composite values stored row-major in
// data into a rain-rate field of shape [nx, ny] using lut.
func DecodeComposite(data []byte, nx, ny int, lut [256]float64) (*sparse.DenseArray, error) {
	if len(data) != nx*ny {
		return nil, fmt.Errorf("radar: composite has %d values but the grid is %dx%d", len(data), nx, ny)
	}
	o := sparse.ZerosDense(nx, ny)
	for i, v := range data {
		o.Elements[i] = lut[v]
	}
	return o, nil
}
