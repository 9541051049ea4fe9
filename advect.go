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
	"runtime"
	"sync"

	"github.com/ctessum/sparse"
)

// Forecast holds the extrapolated fields produced by Advect.
type Forecast struct {
	// Fields has shape [nx, ny, net]; Fields.Get(i, j, l-1) is the value
	// of pixel (i, j) at lead time l.
	Fields *sparse.DenseArray

	// InDomain holds, for each lead time, the number of pixels whose
	// trajectory origin fell inside the source grid.
	InDomain []int

	// Config is the kernel configuration the forecast was made with.
	Config KernelConfig
}

// Dims returns the field grid dimensions and the number of lead times.
func (f *Forecast) Dims() (nx, ny, net int) {
	return f.Fields.Shape[0], f.Fields.Shape[1], f.Fields.Shape[2]
}

// LeadTime returns a copy of the field at lead time l, where
// 1 <= l <= net.
func (f *Forecast) LeadTime(l int) (*sparse.DenseArray, error) {
	nx, ny, net := f.Dims()
	if l < 1 || l > net {
		return nil, fmt.Errorf("precipattractor: lead time %d out of range [1, %d]", l, net)
	}
	o := sparse.ZerosDense(nx, ny)
	for k := range o.Elements {
		o.Elements[k] = f.Fields.Elements[k*net+l-1]
	}
	return o, nil
}

// Advect extrapolates source field r0 (shape [nx, ny]) through the
// stationary velocity field vel for net lead times.
//
// Each pixel (i, j) starts at its own grid position and is stepped back
// one time step per lead time with a TrajectorySolver, each lead time
// continuing from the previous one's position. The source field is then
// bilinearly interpolated at the resulting position, or set to zero if
// the position is outside of the source grid. A trajectory that left
// the grid keeps evolving and may produce values again at later lead
// times.
//
// Pixels are distributed among cfg.Workers goroutines. The result does
// not depend on the number of workers.
func Advect(r0 *sparse.DenseArray, vel *VelocityField, net int, cfg KernelConfig) (*Forecast, error) {
	if r0 == nil || len(r0.Shape) != 2 {
		return nil, fmt.Errorf("precipattractor: the source field must be 2-d")
	}
	if err := checkElements(r0); err != nil {
		return nil, fmt.Errorf("precipattractor: source field: %v", err)
	}
	if net < 1 {
		return nil, fmt.Errorf("precipattractor: the number of lead times must be >= 1 but is %d", net)
	}
	nx, ny := r0.Shape[0], r0.Shape[1]
	solver, err := NewTrajectorySolver(vel, nx, ny, cfg)
	if err != nil {
		return nil, err
	}

	re := sparse.ZerosDense(nx, ny, net)

	nprocs := cfg.Workers
	if nprocs < 1 {
		nprocs = runtime.GOMAXPROCS(0) // number of processors
	}
	if nprocs > nx {
		nprocs = nx
	}
	counts := make([][]int, nprocs)

	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			c := make([]int, net)
			// Each worker owns whole rows, so no two workers write the
			// same output cell.
			for i := pp + 1; i <= nx; i += nprocs {
				for j := 1; j <= ny; j++ {
					out := re.Elements[((i-1)*ny+j-1)*net : ((i-1)*ny+j)*net]
					advectPixel(solver, r0, i, j, out, c)
				}
			}
			counts[pp] = c
			wg.Done()
		}(pp)
	}
	wg.Wait()

	inDomain := make([]int, net)
	for _, c := range counts {
		for l, n := range c {
			inDomain[l] += n
		}
	}
	return &Forecast{Fields: re, InDomain: inDomain, Config: cfg}, nil
}

// advectPixel fills out, which has one element per lead time, for the
// pixel at 1-based indices (i, j), and increments inDomain for every lead
// time whose trajectory origin is inside of the grid.
func advectPixel(s *TrajectorySolver, r0 *sparse.DenseArray, i, j int, out []float64, inDomain []int) {
	nx, ny := r0.Shape[0], r0.Shape[1]
	x, y := float64(i), float64(j)
	for l := range out {
		x, y = s.Step(x, y)
		ii, a, okx := FieldIndex(x, nx)
		jj, b, oky := FieldIndex(y, ny)
		if !okx || !oky {
			out[l] = 0
			continue
		}
		vll, vlr, vul, vur := cell(r0, ii, jj)
		out[l] = Bilinear(a, b, vll, vlr, vul, vur)
		inDomain[l]++
	}
}
