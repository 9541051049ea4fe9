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

// KernelConfig holds the scalar constants of the advection kernel.
type KernelConfig struct {
	Dx  float64 // grid spacing in the north-south (row) direction
	Dy  float64 // grid spacing in the west-east (column) direction
	Dte float64 // time step between lead times

	// Margin is the number of field-grid cells at each domain border
	// that are not covered by the velocity grid.
	Margin int

	// Iterations is the number of half-step predictor passes used to
	// refine the midpoint velocity before the full step is taken.
	// The reference scheme uses 2. There is no convergence test.
	Iterations int

	// Workers is the number of goroutines the driver splits the output
	// pixels among. If < 1, runtime.GOMAXPROCS(0) is used.
	Workers int
}

// DefaultKernelConfig returns the reference configuration, in which
// velocities are expressed directly in grid cells per time step.
func DefaultKernelConfig() KernelConfig {
	return KernelConfig{
		Dx:         1,
		Dy:         1,
		Dte:        1,
		Margin:     10,
		Iterations: 2,
	}
}

// PhysicalKernelConfig returns the physically-scaled configuration:
// 1 km grid cells, a 5 minute time step, and velocities in m/s.
func PhysicalKernelConfig() KernelConfig {
	return KernelConfig{
		Dx:         1000,
		Dy:         1000,
		Dte:        300,
		Margin:     10,
		Iterations: 2,
	}
}

// Validate checks that c describes a usable kernel.
func (c KernelConfig) Validate() error {
	if c.Dx <= 0 {
		return fmt.Errorf("precipattractor: grid spacing Dx must be > 0 but is %g", c.Dx)
	}
	if c.Dy <= 0 {
		return fmt.Errorf("precipattractor: grid spacing Dy must be > 0 but is %g", c.Dy)
	}
	if c.Dte <= 0 {
		return fmt.Errorf("precipattractor: time step Dte must be > 0 but is %g", c.Dte)
	}
	if c.Margin < 0 {
		return fmt.Errorf("precipattractor: velocity margin must be >= 0 but is %d", c.Margin)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("precipattractor: number of predictor iterations must be >= 0 but is %d", c.Iterations)
	}
	if c.Workers < 0 {
		return fmt.Errorf("precipattractor: number of workers must be >= 0 but is %d", c.Workers)
	}
	return nil
}

// String implements fmt.Stringer.
func (c KernelConfig) String() string {
	return fmt.Sprintf("dx=%g dy=%g dte=%g mag=%d iterations=%d", c.Dx, c.Dy, c.Dte, c.Margin, c.Iterations)
}
