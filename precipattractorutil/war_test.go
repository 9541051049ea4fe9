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


package precipattractorutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/ringsaturn/precipattractor"
)

func TestWARDomain(t *testing.T) {
	// A 4x6 field that is wet only in its middle 2x2 window.
	fields := sparse.ZerosDense(4, 6, 1)
	for _, ij := range [][2]int{{1, 2}, {1, 3}, {2, 2}, {2, 3}} {
		fields.Set(5, ij[0], ij[1], 0)
	}
	f := &precipattractor.Forecast{
		Fields:   fields,
		InDomain: []int{24},
		Config:   precipattractor.DefaultKernelConfig(),
	}
	path := filepath.Join(t.TempDir(), "forecast.ncf")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Write(w, nil); err != nil {
		t.Fatal(err)
	}
	w.Close()

	for _, test := range []struct {
		rows, cols int
		want       string
	}{
		{want: "1\t16.67\n"},
		{rows: 2, cols: 2, want: "1\t100\n"},
		{rows: 2, want: "1\t33.33\n"},
		{rows: 4, cols: 4, want: "1\t25\n"},
	} {
		var buf bytes.Buffer
		if err := WAR(context.Background(), &buf, path, 1, -999, test.rows, test.cols); err != nil {
			t.Fatal(err)
		}
		if buf.String() != test.want {
			t.Errorf("%dx%d: have %q, want %q", test.rows, test.cols, buf.String(), test.want)
		}
	}

	if err := WAR(context.Background(), new(bytes.Buffer), path, 1, -999, 5, 2); err == nil {
		t.Error("expected an error for a window larger than the field")
	}
}
