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
	"math"
	"testing"
)

const testTolerance = 1.e-10

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b float64) bool {
	return math.Abs(a-b) > testTolerance || math.IsNaN(a) || math.IsNaN(b)
}

func TestVelocityIndex(t *testing.T) {
	// 100 field cells, margin 10, 8 velocity points: 10 field cells per
	// velocity cell, and the first velocity point is at field
	// coordinate 15.5.
	const (
		n      = 8
		nd     = 10.
		margin = 10
	)
	tests := []struct {
		p        float64
		index    int
		fraction float64
	}{
		{p: 15.5, index: 1, fraction: 0},
		{p: 20.5, index: 1, fraction: 0.5},
		{p: 25.5, index: 2, fraction: 0},
		{p: 83, index: 7, fraction: 0.75},
		{p: 1, index: 1, fraction: 0},     // inside the margin
		{p: -1000, index: 1, fraction: 0}, // far outside
		{p: 85.5, index: 7, fraction: 1 - velocityEpsilon},
		{p: 1e6, index: 7, fraction: 1 - velocityEpsilon},
		{p: math.NaN(), index: 1, fraction: 0},
	}
	for _, test := range tests {
		t.Run(fmt.Sprint(test.p), func(t *testing.T) {
			index, fraction := VelocityIndex(test.p, n, nd, margin)
			if index != test.index {
				t.Errorf("index: have %d, want %d", index, test.index)
			}
			if math.Abs(fraction-test.fraction) > 1.e-9 {
				t.Errorf("fraction: have %g, want %g", fraction, test.fraction)
			}
			if index < 1 || index > n-1 || fraction < 0 || fraction >= 1 {
				t.Errorf("index %d, fraction %g out of range", index, fraction)
			}
		})
	}
}

func TestVelocityGridIndex(t *testing.T) {
	tests := []struct {
		u        float64
		index    int
		fraction float64
	}{
		{u: 3.25, index: 3, fraction: 0.25},
		{u: 1, index: 1, fraction: 0},
		{u: 0.2, index: 1, fraction: 0},
		{u: 4, index: 3, fraction: 1 - velocityEpsilon},
		{u: math.Inf(1), index: 3, fraction: 1 - velocityEpsilon},
		{u: math.Inf(-1), index: 1, fraction: 0},
	}
	for _, test := range tests {
		index, fraction := VelocityGridIndex(test.u, 4)
		if index != test.index || math.Abs(fraction-test.fraction) > 1.e-9 {
			t.Errorf("u=%g: have (%d, %g), want (%d, %g)", test.u, index, fraction, test.index, test.fraction)
		}
	}
}

func TestFieldIndex(t *testing.T) {
	tests := []struct {
		p        float64
		index    int
		fraction float64
		ok       bool
	}{
		{p: 1, index: 1, fraction: 0, ok: true},
		{p: 5.25, index: 5, fraction: 0.25, ok: true},
		{p: 9.5, index: 9, fraction: 0.5, ok: true},
		{p: 0.999, ok: false},
		{p: 10, ok: false},
		{p: -3, ok: false},
		{p: 42, ok: false},
		{p: math.NaN(), ok: false},
	}
	for _, test := range tests {
		index, fraction, ok := FieldIndex(test.p, 10)
		if ok != test.ok {
			t.Errorf("p=%g: ok is %v, want %v", test.p, ok, test.ok)
			continue
		}
		if !ok {
			if index != 0 || fraction != 0 {
				t.Errorf("p=%g: out of domain but returned (%d, %g)", test.p, index, fraction)
			}
			continue
		}
		if index != test.index || absDifferent(fraction, test.fraction) {
			t.Errorf("p=%g: have (%d, %g), want (%d, %g)", test.p, index, fraction, test.index, test.fraction)
		}
	}
}
