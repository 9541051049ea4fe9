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

// Command precipattractor is a command-line interface for extrapolating
// precipitation fields by semi-Lagrangian advection.
package main

import (
	"fmt"
	"os"

	"github.com/ringsaturn/precipattractor/precipattractorutil"
)

func main() {
	if err := precipattractorutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
