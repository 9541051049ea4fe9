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

import "testing"

func TestKernelConfigValidate(t *testing.T) {
	if err := DefaultKernelConfig().Validate(); err != nil {
		t.Errorf("default: %v", err)
	}
	if err := PhysicalKernelConfig().Validate(); err != nil {
		t.Errorf("physical: %v", err)
	}

	tests := map[string]func(c *KernelConfig){
		"dx":         func(c *KernelConfig) { c.Dx = 0 },
		"dy":         func(c *KernelConfig) { c.Dy = -1 },
		"dte":        func(c *KernelConfig) { c.Dte = 0 },
		"margin":     func(c *KernelConfig) { c.Margin = -1 },
		"iterations": func(c *KernelConfig) { c.Iterations = -2 },
		"workers":    func(c *KernelConfig) { c.Workers = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := DefaultKernelConfig()
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestKernelConfigString(t *testing.T) {
	want := "dx=1000 dy=1000 dte=300 mag=10 iterations=2"
	if s := PhysicalKernelConfig().String(); s != want {
		t.Errorf("have %q, want %q", s, want)
	}
}
