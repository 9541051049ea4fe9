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

	"github.com/ctessum/sparse"
)

// WAR returns the wet-area ratio of field in percent: the share of the
// pixels inside the radar domain (value > noData+1) whose value is at
// least rainThreshold. If the radar domain is empty, or more pixels are
// wet than are in the domain (which happens when rainThreshold is not
// above noData), WAR returns -1 and an error.
func WAR(field *sparse.DenseArray, rainThreshold, noData float64) (float64, error) {
	return war(field.Elements, rainThreshold, noData)
}

// WARSeries returns the wet-area ratio of each of fields. Fields whose
// ratio cannot be computed get -1; the first error is returned.
func WARSeries(fields []*sparse.DenseArray, rainThreshold, noData float64) ([]float64, error) {
	o := make([]float64, len(fields))
	var firstErr error
	for i, f := range fields {
		var err error
		o[i], err = WAR(f, rainThreshold, noData)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("field %d: %v", i, err)
		}
	}
	return o, firstErr
}

func war(values []float64, rainThreshold, noData float64) (float64, error) {
	var nRain, nDomain int
	for _, v := range values {
		if v >= rainThreshold {
			nRain++
		}
		if v > noData+1 {
			nDomain++
		}
	}
	if nDomain == 0 || nRain > nDomain {
		return -1, fmt.Errorf("radar: can't compute wet-area ratio with %d rainy pixels "+
			"and %d pixels in the radar domain", nRain, nDomain)
	}
	return 100 * float64(nRain) / float64(nDomain), nil
}
