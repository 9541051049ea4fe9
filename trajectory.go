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

import "fmt"

// TrajectorySolver traces positions backward through a stationary
// velocity field, one time step at a time. It is safe for concurrent use
// because it holds no mutable state.
type TrajectorySolver struct {
	vx, vy     []float64
	nvx, nvy   int
	ndx, ndy   float64 // field-grid cells per velocity-grid cell
	margin     int
	iterations int

	stepX, stepY float64 // dte/dx, dte/dy
	halfX, halfY float64 // dte/dx/2, dte/dy/2
}

// NewTrajectorySolver returns a solver for velocity field vel covering a
// field grid of nx by ny points.
func NewTrajectorySolver(vel *VelocityField, nx, ny int, cfg KernelConfig) (*TrajectorySolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := vel.check(); err != nil {
		return nil, err
	}
	nvx, nvy := vel.Dims()
	if err := checkGrids(nx, ny, nvx, nvy, cfg.Margin); err != nil {
		return nil, err
	}
	return &TrajectorySolver{
		vx:         vel.VX.Elements,
		vy:         vel.VY.Elements,
		nvx:        nvx,
		nvy:        nvy,
		ndx:        float64(nx-2*cfg.Margin) / float64(nvx),
		ndy:        float64(ny-2*cfg.Margin) / float64(nvy),
		margin:     cfg.Margin,
		iterations: cfg.Iterations,
		stepX:      cfg.Dte / cfg.Dx,
		stepY:      cfg.Dte / cfg.Dy,
		halfX:      cfg.Dte / cfg.Dx / 2,
		halfY:      cfg.Dte / cfg.Dy / 2,
	}, nil
}

// checkGrids checks the relationship between the field and velocity
// grid dimensions.
func checkGrids(nx, ny, nvx, nvy, margin int) error {
	if nx <= 2*margin || ny <= 2*margin {
		return fmt.Errorf("precipattractor: field grid %dx%d must be larger than twice the margin (%d) along each axis",
			nx, ny, margin)
	}
	if nvx < 2 || nvy < 2 {
		return fmt.Errorf("precipattractor: velocity grid %dx%d needs at least 2 points along each axis", nvx, nvy)
	}
	if nvx > nx || nvy > ny {
		return fmt.Errorf("precipattractor: velocity grid %dx%d is finer than the field grid %dx%d",
			nvx, nvy, nx, ny)
	}
	return nil
}

// Velocity returns the bilinearly-interpolated (north-south, west-east)
// velocity at field-grid position (x, y). Positions outside of the area
// covered by the velocity grid get the velocity at the nearest edge.
func (s *TrajectorySolver) Velocity(x, y float64) (vx, vy float64) {
	i, a := VelocityIndex(x, s.nvx, s.ndx, s.margin)
	j, b := VelocityIndex(y, s.nvy, s.ndy, s.margin)
	k := (i-1)*s.nvy + j - 1
	n := s.nvy
	vx = Bilinear(a, b, s.vx[k], s.vx[k+n], s.vx[k+1], s.vx[k+n+1])
	vy = Bilinear(a, b, s.vy[k], s.vy[k+n], s.vy[k+1], s.vy[k+n+1])
	return vx, vy
}

// Step returns the position one time step before position (x, y).
//
// The midpoint velocity is estimated with a fixed number of half-step
// predictor passes, each re-sampling the velocity at the midpoint found
// by the previous pass, and the full step is then taken with the
// velocity at the final midpoint. With the default two passes this is
// three velocity evaluations per step.
func (s *TrajectorySolver) Step(x, y float64) (float64, float64) {
	xm, ym := x, y
	for k := 0; k < s.iterations; k++ {
		vx, vy := s.Velocity(xm, ym)
		xm = x - vx*s.halfX
		ym = y - vy*s.halfY
	}
	vx, vy := s.Velocity(xm, ym)
	return x - vx*s.stepX, y - vy*s.stepY
}
