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
	"os"
	"sort"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Default names of the netCDF variables holding the model inputs and
// outputs.
const (
	SourceVar   = "R0"
	VXVar       = "VX"
	VYVar       = "VY"
	ForecastVar = "RE"
)

// Inputs holds the data needed for one kernel invocation.
type Inputs struct {
	// R0 is the source field, shape [nx, ny].
	R0 *sparse.DenseArray

	// Velocity is the stationary motion field.
	Velocity *VelocityField

	// Kernel holds the kernel constants stored with the inputs, if
	// HasKernel is true.
	Kernel    KernelConfig
	HasKernel bool

	// Units of the source field, e.g. "dBZ" or "mm/h".
	Units string
}

// LoadInputs reads model inputs from the netCDF file rw. source, vx
// and vy are the names of the variables holding the source field and
// the two velocity components; empty names select the defaults.
func LoadInputs(rw cdf.ReaderWriterAt, source, vx, vy string) (*Inputs, error) {
	if source == "" {
		source = SourceVar
	}
	if vx == "" {
		vx = VXVar
	}
	if vy == "" {
		vy = VYVar
	}
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("precipattractor.LoadInputs: %v", err)
	}
	o := new(Inputs)
	if o.R0, err = readVar(f, source); err != nil {
		return nil, fmt.Errorf("precipattractor.LoadInputs: %v", err)
	}
	if len(o.R0.Shape) != 2 {
		return nil, fmt.Errorf("precipattractor.LoadInputs: variable %s must be 2-d but has shape %v", source, o.R0.Shape)
	}
	o.Velocity = new(VelocityField)
	if o.Velocity.VX, err = readVar(f, vx); err != nil {
		return nil, fmt.Errorf("precipattractor.LoadInputs: %v", err)
	}
	if o.Velocity.VY, err = readVar(f, vy); err != nil {
		return nil, fmt.Errorf("precipattractor.LoadInputs: %v", err)
	}
	if err = o.Velocity.check(); err != nil {
		return nil, err
	}
	if u, ok := f.Header.GetAttribute(source, "units").(string); ok {
		o.Units = u
	}
	o.Kernel, o.HasKernel = readKernel(f.Header)
	return o, nil
}

// WriteInputs writes in to netCDF file w.
func WriteInputs(w *os.File, in *Inputs) error {
	if in.R0 == nil || len(in.R0.Shape) != 2 {
		return fmt.Errorf("precipattractor: the source field must be 2-d")
	}
	if err := in.Velocity.check(); err != nil {
		return err
	}
	nvx, nvy := in.Velocity.Dims()
	h := cdf.NewHeader(
		[]string{"x", "y", "xv", "yv"},
		[]int{in.R0.Shape[0], in.R0.Shape[1], nvx, nvy})
	h.AddAttribute("", "comment", "PrecipAttractor advection input data file")
	h.AddAttribute("", "data_version", DataVersion)
	if in.HasKernel {
		writeKernel(h, in.Kernel)
	}

	vars := map[string]ncfVar{
		SourceVar: {dims: []string{"x", "y"}, description: "Source field", units: in.Units, data: in.R0},
		VXVar:     {dims: []string{"xv", "yv"}, description: "North-south velocity", units: "cells per time step", data: in.Velocity.VX},
		VYVar:     {dims: []string{"xv", "yv"}, description: "West-east velocity", units: "cells per time step", data: in.Velocity.VY},
	}
	if in.HasKernel && in.Kernel.Dx != 1 {
		vars[VXVar] = withUnits(vars[VXVar], "m/s")
		vars[VYVar] = withUnits(vars[VYVar], "m/s")
	}
	return writeVars(w, h, vars)
}

// Write writes the forecast to netCDF file w. attributes are stored as
// additional global attributes.
func (f *Forecast) Write(w *os.File, attributes map[string]string) error {
	nx, ny, net := f.Dims()
	h := cdf.NewHeader([]string{"x", "y", "leadtime"}, []int{nx, ny, net})
	h.AddAttribute("", "comment", "PrecipAttractor advection output data file")
	h.AddAttribute("", "data_version", DataVersion)
	writeKernel(h, f.Config)
	if len(f.InDomain) > 0 {
		inDomain := make([]int32, len(f.InDomain))
		for i, v := range f.InDomain {
			inDomain[i] = int32(v)
		}
		h.AddAttribute("", "in_domain", inDomain)
	}

	keys := make([]string, 0, len(attributes))
	for k := range attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.AddAttribute("", k, attributes[k])
	}

	return writeVars(w, h, map[string]ncfVar{
		ForecastVar: {dims: []string{"x", "y", "leadtime"}, description: "Extrapolated field", data: f.Fields},
	})
}

// LoadForecast reads a forecast written by Forecast.Write.
func LoadForecast(rw cdf.ReaderWriterAt) (*Forecast, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("precipattractor.LoadForecast: %v", err)
	}
	if v, ok := f.Header.GetAttribute("", "data_version").(string); !ok || v != DataVersion {
		return nil, fmt.Errorf("precipattractor.LoadForecast: data version %v is incompatible "+
			"with the required version %s", f.Header.GetAttribute("", "data_version"), DataVersion)
	}
	o := new(Forecast)
	if o.Fields, err = readVar(f, ForecastVar); err != nil {
		return nil, fmt.Errorf("precipattractor.LoadForecast: %v", err)
	}
	if len(o.Fields.Shape) != 3 {
		return nil, fmt.Errorf("precipattractor.LoadForecast: variable %s must be 3-d but has shape %v",
			ForecastVar, o.Fields.Shape)
	}
	o.Config, _ = readKernel(f.Header)
	if v, ok := f.Header.GetAttribute("", "in_domain").([]int32); ok {
		o.InDomain = make([]int, len(v))
		for i, n := range v {
			o.InDomain[i] = int(n)
		}
	}
	return o, nil
}

type ncfVar struct {
	dims               []string
	description, units string
	data               *sparse.DenseArray
}

func withUnits(v ncfVar, units string) ncfVar {
	v.units = units
	return v
}

// writeVars defines the variables in h and writes them to w.
func writeVars(w *os.File, h *cdf.Header, vars map[string]ncfVar) error {
	// Sort the names so they write in the same order every time.
	names := make([]string, 0, len(vars))
	for n := range vars {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		v := vars[name]
		h.AddVariable(name, v.dims, []float32{0})
		h.AddAttribute(name, "description", v.description)
		units := v.units
		if units == "" {
			units = "-"
		}
		h.AddAttribute(name, "units", units)
	}
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return err
	}
	for _, name := range names {
		if err = writeNCF(f, name, vars[name].data); err != nil {
			return fmt.Errorf("precipattractor: writing variable %s to netcdf file: %v", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

// writeNCF writes data to variable Var of f.
func writeNCF(f *cdf.File, Var string, data *sparse.DenseArray) error {
	if err := checkElements(data); err != nil {
		return err
	}
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(Var)
	start := make([]int, len(end))
	w := f.Writer(Var, start, end)
	_, err := w.Write(data32)
	return err
}

// readVar reads variable v of f, which may be stored as single or
// double precision.
func readVar(f *cdf.File, v string) (*sparse.DenseArray, error) {
	dims := f.Header.Lengths(v)
	if len(dims) == 0 {
		return nil, fmt.Errorf("variable %s not in file", v)
	}
	r := f.Reader(v, nil, nil)
	data := sparse.ZerosDense(dims...)
	buf := r.Zero(len(data.Elements))
	n, err := r.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("reading variable %s: %v", v, err)
	}
	if n != len(data.Elements) {
		return nil, fmt.Errorf("reading variable %s: dims are %d but array length is %d", v, len(data.Elements), n)
	}
	switch b := buf.(type) {
	case []float32:
		for i, val := range b {
			data.Elements[i] = float64(val)
		}
	case []float64:
		copy(data.Elements, b)
	default:
		return nil, fmt.Errorf("variable %s has unsupported type %T", v, buf)
	}
	return data, nil
}

func writeKernel(h *cdf.Header, c KernelConfig) {
	h.AddAttribute("", "dx", []float64{c.Dx})
	h.AddAttribute("", "dy", []float64{c.Dy})
	h.AddAttribute("", "dte", []float64{c.Dte})
	h.AddAttribute("", "mag", []int32{int32(c.Margin)})
	h.AddAttribute("", "iterations", []int32{int32(c.Iterations)})
}

// readKernel reads the kernel constants stored in the global attributes
// of h. ok is false unless dx, dy, dte and mag are all present.
func readKernel(h *cdf.Header) (c KernelConfig, ok bool) {
	c = DefaultKernelConfig()
	dx, ok1 := h.GetAttribute("", "dx").([]float64)
	dy, ok2 := h.GetAttribute("", "dy").([]float64)
	dte, ok3 := h.GetAttribute("", "dte").([]float64)
	mag, ok4 := h.GetAttribute("", "mag").([]int32)
	if !(ok1 && ok2 && ok3 && ok4) || len(dx) == 0 || len(dy) == 0 || len(dte) == 0 || len(mag) == 0 {
		return c, false
	}
	c.Dx, c.Dy, c.Dte, c.Margin = dx[0], dy[0], dte[0], int(mag[0])
	if it, ok := h.GetAttribute("", "iterations").([]int32); ok && len(it) > 0 {
		c.Iterations = int(it[0])
	}
	return c, true
}
