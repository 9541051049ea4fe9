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
	"io"

	"github.com/gocarina/gocsv"
	"github.com/ringsaturn/precipattractor/radar"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LeadTimeSummary holds summary statistics of one lead time of a
// forecast.
type LeadTimeSummary struct {
	LeadTime int     `csv:"lead_time"`
	Mean     float64 `csv:"mean"`
	Max      float64 `csv:"max"`
	StdDev   float64 `csv:"stddev"`
	P50      float64 `csv:"p50"`
	P90      float64 `csv:"p90"`

	// WAR is the wet-area ratio in percent, or -1 if it could not be
	// computed. Pixels whose trajectory origin left the source grid are
	// zero-filled by Advect, so they count as dry pixels inside of the
	// radar domain rather than as missing data.
	WAR float64 `csv:"war"`

	// InDomainFraction is the share of pixels whose trajectory origin
	// was inside of the source grid.
	InDomainFraction float64 `csv:"in_domain_fraction"`
}

var summaryPercentiles = []float64{50, 90}

// Summarize calculates summary statistics for every lead time of f.
// Pixels with values >= rainThreshold are counted as wet, and pixels
// with values <= noData+1 are outside of the radar domain. Zero-filled
// pixels are inside of the domain; InDomainFraction tells how many of
// them there are.
func Summarize(f *Forecast, rainThreshold, noData float64) ([]*LeadTimeSummary, error) {
	nx, ny, net := f.Dims()
	if len(f.InDomain) != 0 && len(f.InDomain) != net {
		return nil, fmt.Errorf("precipattractor: forecast has %d lead times but %d in-domain counts",
			net, len(f.InDomain))
	}
	o := make([]*LeadTimeSummary, net)
	for l := 1; l <= net; l++ {
		field, err := f.LeadTime(l)
		if err != nil {
			return nil, err
		}
		s := &LeadTimeSummary{LeadTime: l, Max: floats.Max(field.Elements)}
		s.Mean, s.StdDev = stat.MeanStdDev(field.Elements, nil)
		p, err := radar.Percentiles(field.Elements, summaryPercentiles)
		if err != nil {
			return nil, fmt.Errorf("precipattractor: lead time %d: %v", l, err)
		}
		s.P50, s.P90 = p[0], p[1]
		// The wet-area ratio is -1 when the radar domain is empty.
		s.WAR, _ = radar.WAR(field, rainThreshold, noData)
		if len(f.InDomain) == net {
			s.InDomainFraction = float64(f.InDomain[l-1]) / float64(nx*ny)
		}
		o[l-1] = s
	}
	return o, nil
}

// WriteSummary writes s to w in CSV format.
func WriteSummary(w io.Writer, s []*LeadTimeSummary) error {
	if err := gocsv.Marshal(s, w); err != nil {
		return fmt.Errorf("precipattractor: writing summary: %v", err)
	}
	return nil
}
