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
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
)

// at returns the value of forecast f at 1-based pixel (i, j) and lead
// time l.
func at(f *Forecast, i, j, l int) float64 {
	_, ny, net := f.Dims()
	return f.Fields.Elements[((i-1)*ny+j-1)*net+l-1]
}

func TestAdvectZeroMotion(t *testing.T) {
	const nx, ny, net = 40, 30, 4
	r0 := GaussianField(nx, ny, 20, 15, 5, 50)
	f, err := Advect(r0, UniformVelocity(6, 5, 0, 0), net, DefaultKernelConfig())
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < nx; i++ {
		for j := 1; j < ny; j++ {
			want := r0.Elements[(i-1)*ny+j-1]
			for l := 1; l <= net; l++ {
				if v := at(f, i, j, l); v != want {
					t.Fatalf("(%d, %d, %d): have %g, want %g", i, j, l, v, want)
				}
			}
		}
	}
	// The last row and column have no upper neighbor to interpolate with.
	for l := 1; l <= net; l++ {
		if v := at(f, nx, 3, l); v != 0 {
			t.Errorf("last row, lead time %d: have %g, want 0", l, v)
		}
		if v := at(f, 3, ny, l); v != 0 {
			t.Errorf("last column, lead time %d: have %g, want 0", l, v)
		}
		if want := (nx - 1) * (ny - 1); f.InDomain[l-1] != want {
			t.Errorf("in domain, lead time %d: have %d, want %d", l, f.InDomain[l-1], want)
		}
	}
}

func TestAdvectChaining(t *testing.T) {
	// r0 holds the row number, so the value sampled at each lead time is
	// the row the trajectory started from.
	r0 := LinearField(100, 100, 1, 0, 0)
	f, err := Advect(r0, UniformVelocity(8, 8, 1, 0), 3, DefaultKernelConfig())
	if err != nil {
		t.Fatal(err)
	}
	for l, want := range []float64{49, 48, 47} {
		if v := at(f, 50, 50, l+1); absDifferent(v, want) {
			t.Errorf("lead time %d: have %g, want %g", l+1, v, want)
		}
	}
}

func TestAdvectLinearField(t *testing.T) {
	// Bilinear interpolation reproduces a linear field exactly, so the
	// forecast at a pixel is the field value at the displaced position.
	const nx, ny = 60, 50
	r0 := LinearField(nx, ny, 0.5, -0.25, 3)
	f, err := Advect(r0, UniformVelocity(5, 5, 1.25, -0.75), 4, DefaultKernelConfig())
	if err != nil {
		t.Fatal(err)
	}
	i, j := 30, 20
	for l := 1; l <= 4; l++ {
		x := float64(i) - 1.25*float64(l)
		y := float64(j) + 0.75*float64(l)
		want := 3 + 0.5*x - 0.25*y
		if v := at(f, i, j, l); different(v, want, 1.e-9) {
			t.Errorf("lead time %d: have %g, want %g", l, v, want)
		}
	}
}

func TestAdvectBoundaryZeroFill(t *testing.T) {
	const (
		nx, ny, net = 30, 20, 3
		speed       = 5.
	)
	cfg := DefaultKernelConfig()
	cfg.Margin = 2
	f, err := Advect(ConstantField(nx, ny, 1), UniformVelocity(4, 4, speed, 0), net, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for l := 1; l <= net; l++ {
		for i := 1; i <= nx; i++ {
			for j := 1; j <= ny; j++ {
				want := 1.
				if float64(i)-speed*float64(l) < 1 || j == ny {
					want = 0
				}
				if v := at(f, i, j, l); v != want {
					t.Fatalf("(%d, %d, %d): have %g, want %g", i, j, l, v, want)
				}
			}
		}
		if want := (nx - 5*l) * (ny - 1); f.InDomain[l-1] != want {
			t.Errorf("in domain, lead time %d: have %d, want %d", l, f.InDomain[l-1], want)
		}
	}
}

func TestAdvectUniformField(t *testing.T) {
	const (
		nx, ny, net = 50, 50, 6
		v           = 7.5
	)
	vel := RotationVelocity(5, 5, 0.3)
	f, err := Advect(ConstantField(nx, ny, v), vel, net, DefaultKernelConfig())
	if err != nil {
		t.Fatal(err)
	}
	for l := 1; l <= net; l++ {
		n := 0
		for i := 1; i <= nx; i++ {
			for j := 1; j <= ny; j++ {
				switch at(f, i, j, l) {
				case v:
					n++
				case 0:
				default:
					t.Fatalf("(%d, %d, %d): have %g, want %g or 0", i, j, l, at(f, i, j, l), v)
				}
			}
		}
		if n != f.InDomain[l-1] {
			t.Errorf("lead time %d: %d pixels have the field value but %d are in the domain", l, n, f.InDomain[l-1])
		}
	}
}

func TestAdvectReentry(t *testing.T) {
	// Without a margin the velocity and field grids coincide, and a
	// rotation carries corner trajectories out of the grid and back in.
	const (
		n, net = 40, 12
		v      = 5.
	)
	cfg := DefaultKernelConfig()
	cfg.Margin = 0
	vel := RotationVelocity(n, n, 0.6)
	f, err := Advect(ConstantField(n, n, v), vel, net, cfg)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewTrajectorySolver(vel, n, n, cfg)
	if err != nil {
		t.Fatal(err)
	}
	reentered := 0
	for i := 1; i <= n; i++ {
		for j := 1; j <= n; j++ {
			x, y := float64(i), float64(j)
			left, back := false, false
			for l := 1; l <= net; l++ {
				x, y = s.Step(x, y)
				want := 0.
				if x >= 1 && x < n && y >= 1 && y < n {
					want = v
					if left {
						back = true
					}
				} else {
					left = true
				}
				if have := at(f, i, j, l); absDifferent(have, want) {
					t.Fatalf("(%d, %d, %d) at (%g, %g): have %g, want %g", i, j, l, x, y, have, want)
				}
			}
			if back {
				reentered++
			}
		}
	}
	if reentered == 0 {
		t.Error("no trajectory left the grid and came back")
	}
}

func TestAdvectWorkers(t *testing.T) {
	r0 := GaussianField(64, 48, 30, 20, 8, 40)
	vel := RotationVelocity(7, 6, 0.5)
	var want *Forecast
	for _, workers := range []int{1, 3, 7, 0} {
		cfg := DefaultKernelConfig()
		cfg.Workers = workers
		f, err := Advect(r0, vel, 5, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if want == nil {
			want = f
			continue
		}
		if !reflect.DeepEqual(f.Fields.Elements, want.Fields.Elements) {
			t.Errorf("%d workers: fields differ from 1 worker", workers)
		}
		if !reflect.DeepEqual(f.InDomain, want.InDomain) {
			t.Errorf("%d workers: in-domain counts %v differ from %v", workers, f.InDomain, want.InDomain)
		}
	}
}

func TestAdvectErrors(t *testing.T) {
	vel := UniformVelocity(8, 8, 1, 1)
	cfg := DefaultKernelConfig()
	tests := []struct {
		name string
		r0   *sparse.DenseArray
		vel  *VelocityField
		net  int
	}{
		{name: "nil field", r0: nil, vel: vel, net: 1},
		{name: "1-d field", r0: sparse.ZerosDense(100), vel: vel, net: 1},
		{name: "short field", r0: &sparse.DenseArray{Shape: []int{100, 100}, Elements: make([]float64, 10)}, vel: vel, net: 1},
		{name: "no lead times", r0: sparse.ZerosDense(100, 100), vel: vel, net: 0},
		{name: "small field", r0: sparse.ZerosDense(20, 100), vel: vel, net: 1},
		{name: "no velocity", r0: sparse.ZerosDense(100, 100), vel: nil, net: 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := Advect(test.r0, test.vel, test.net, cfg); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestForecastLeadTime(t *testing.T) {
	r0 := LinearField(30, 25, 1, 2, 0)
	f, err := Advect(r0, UniformVelocity(4, 4, 0, 0), 2, DefaultKernelConfig())
	if err != nil {
		t.Fatal(err)
	}
	field, err := f.LeadTime(2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(field.Shape, []int{30, 25}) {
		t.Errorf("shape: have %v, want [30 25]", field.Shape)
	}
	if v, want := field.Get(4, 6), at(f, 5, 7, 2); v != want {
		t.Errorf("have %g, want %g", v, want)
	}
	if _, err := f.LeadTime(3); err == nil {
		t.Error("expected an error for lead time 3")
	}
	if _, err := f.LeadTime(0); err == nil {
		t.Error("expected an error for lead time 0")
	}
}

func BenchmarkAdvect(b *testing.B) {
	r0 := GaussianField(512, 512, 256, 256, 60, 45)
	vel := RotationVelocity(32, 32, 0.05)
	cfg := DefaultKernelConfig()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Advect(r0, vel, 12, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
