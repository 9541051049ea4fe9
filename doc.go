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

// Package precipattractor extrapolates gridded fields, such as radar
// reflectivity images, forward in time by semi-Lagrangian advection
// through a stationary velocity field.
//
// For every output pixel, a backward trajectory is traced through the
// velocity field one time step per lead time, with each lead time
// starting from the position found at the previous one, and the source
// field is bilinearly resampled at the origin of the trajectory.
// Trajectories that leave the source grid produce zeros.
//
// Axis convention: the first array dimension of every field is the
// north-south (row) direction and the second is the west-east (column)
// direction. Accordingly, the velocity component VX moves along rows and
// VY along columns. This is the opposite of the common x/y naming, so
// take care not to transpose inputs.
package precipattractor

// Version is the version of this software.
const Version = "0.3.0"

// DataVersion is the version of the netCDF file layout read and written
// by this package.
const DataVersion = "1.0.0"
