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
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Percentiles returns the empirical percentiles p (in [0, 100]) of x.
// NaN values are ignored.
func Percentiles(x []float64, p []float64) ([]float64, error) {
	v := dropNaN(x)
	if len(v) == 0 {
		return nil, fmt.Errorf("radar: no valid values to compute percentiles of")
	}
	sort.Float64s(v)
	o := make([]float64, len(p))
	for i, pp := range p {
		if pp < 0 || pp > 100 {
			return nil, fmt.Errorf("radar: percentile %g out of range [0, 100]", pp)
		}
		o[i] = stat.Quantile(pp/100, stat.Empirical, v, nil)
	}
	return o, nil
}

// Scatter returns the difference between the maxQ and minQ percentiles
// of x, which for normally distributed data is twice the standard
// deviation when minQ=16 and maxQ=84.
func Scatter(x []float64, minQ, maxQ float64) (float64, error) {
	p, err := Percentiles(x, []float64{minQ, maxQ})
	if err != nil {
		return math.NaN(), err
	}
	return p[1] - p[0], nil
}

// ZScores returns the standard scores of x along with the mean and
// population standard deviation they were computed with. NaN values
// are ignored when computing the mean and standard deviation and stay
// NaN in the output.
func ZScores(x []float64) (z []float64, mean, std float64) {
	v := dropNaN(x)
	mean = stat.Mean(v, nil)
	std = math.Sqrt(stat.MomentAbout(2, v, mean, nil))
	z = make([]float64, len(x))
	for i, xx := range x {
		z[i] = (xx - mean) / std
	}
	return z, mean, std
}

// FromZScores is the inverse of ZScores.
func FromZScores(z []float64, mean, std float64) []float64 {
	o := make([]float64, len(z))
	copy(o, z)
	floats.Scale(std, o)
	floats.AddConst(mean, o)
	return o
}

// BoxCox returns the Box-Cox transform of x with parameter lambda.
func BoxCox(x []float64, lambda float64) []float64 {
	o := make([]float64, len(x))
	for i, v := range x {
		if lambda == 0 {
			o[i] = math.Log(v)
		} else {
			o[i] = (math.Pow(v, lambda) - 1) / lambda
		}
	}
	return o
}

// SpectralSlope fits a line to log power against log scale, e.g. of a
// radially averaged power spectrum, and returns the slope beta, the
// intercept and the correlation coefficient r, which has the sign of
// beta. weights may be nil.
func SpectralSlope(logScale, logPower, weights []float64) (beta, intercept, r float64, err error) {
	if len(logScale) != len(logPower) {
		return 0, 0, 0, fmt.Errorf("radar: %d scales but %d powers", len(logScale), len(logPower))
	}
	if weights != nil && len(weights) != len(logScale) {
		return 0, 0, 0, fmt.Errorf("radar: %d weights for %d points", len(weights), len(logScale))
	}
	if len(logScale) < 2 {
		return 0, 0, 0, fmt.Errorf("radar: need at least 2 points to fit a slope")
	}
	intercept, beta = stat.LinearRegression(logScale, logPower, weights, false)
	r = math.Sqrt(stat.RSquared(logScale, logPower, weights, intercept, beta))
	if beta < 0 {
		r = -r
	}
	return beta, intercept, r, nil
}

func dropNaN(x []float64) []float64 {
	o := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			o = append(o, v)
		}
	}
	return o
}
