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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ctessum/sparse"
	"github.com/ringsaturn/precipattractor"
	"github.com/ringsaturn/precipattractor/radar"
)

// WAR prints the wet-area ratio of each lead time of the forecast in
// inputFile to w. If rows or cols is greater than zero, only the
// centered window of that many rows or columns is considered.
func WAR(ctx context.Context, w io.Writer, inputFile string, rainThreshold, noData float64, rows, cols int) error {
	local, err := maybeDownload(ctx, inputFile)
	if err != nil {
		return err
	}
	r, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("precipattractor: opening input file: %v", err)
	}
	defer r.Close()
	f, err := precipattractor.LoadForecast(r)
	if err != nil {
		return fmt.Errorf("precipattractor: reading %s: %v", inputFile, err)
	}
	nx, ny, net := f.Dims()
	if rows <= 0 {
		rows = nx
	}
	if cols <= 0 {
		cols = ny
	}
	fields := make([]*sparse.DenseArray, net)
	for l := 1; l <= net; l++ {
		field, err := f.LeadTime(l)
		if err != nil {
			return err
		}
		if rows != nx || cols != ny {
			if field, err = radar.ExtractMiddleDomain(field, cols, rows); err != nil {
				return err
			}
		}
		fields[l-1] = field
	}
	war, err := radar.WARSeries(fields, rainThreshold, noData)
	if err != nil {
		Log.WithError(err).Warn("some wet-area ratios could not be computed")
	}
	for l, v := range war {
		if _, err := fmt.Fprintf(w, "%d\t%.4g\n", l+1, v); err != nil {
			return err
		}
	}
	return nil
}
