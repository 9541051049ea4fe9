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
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/ringsaturn/precipattractor"
	"github.com/ringsaturn/precipattractor/cloud"
	"github.com/spf13/cast"
)

// RunConfig holds the settings of an advection run.
type RunConfig struct {
	InputFile, OutputFile string

	SourceVariable, VXVariable, VYVariable string

	NumLeadTimes int

	Kernel precipattractor.KernelConfig

	// KernelFromInput specifies that the kernel constants stored in
	// InputFile, if any, take precedence over Kernel.
	KernelFromInput bool

	InputTransform, OutputTransform string

	SummaryFile, FrameDir string

	RainThreshold, NoData float64
}

// SynthConfig holds the settings of a synthetic input file.
type SynthConfig struct {
	Nx, Ny, Nvx, Nvy int
	VX, VY, Rotation float64
	Peak, Width      float64
	Units            string
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="forecast.ncf")`)
	}
	f = os.ExpandEnv(f)
	if cloud.IsBlob(f) {
		b, loc, err := cloud.OpenBucket(context.TODO(), f)
		if err != nil {
			return f, fmt.Errorf("precipattractor: error when checking OutputFile location: %v", err)
		}
		b.Close()
		if loc.Key == "" {
			return f, fmt.Errorf("precipattractor: OutputFile '%s' names a bucket rather than a file", f)
		}
		return f, nil
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("precipattractor: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkInputFile makes sure that the input file is specified, and expands
// any environment variables.
func checkInputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an input file configuration variable (for example: InputFile="inputs.ncf")`)
	}
	return os.ExpandEnv(f), nil
}

// checkNumLeadTimes makes sure that at least one lead time is requested.
func checkNumLeadTimes(i interface{}) (int, error) {
	n, err := cast.ToIntE(i)
	if err != nil {
		return 0, fmt.Errorf("precipattractor: NumLeadTimes: %v", err)
	}
	if n < 1 {
		return 0, fmt.Errorf("precipattractor: NumLeadTimes must be at least 1 but is %d", n)
	}
	return n, nil
}

// checkTransform makes sure that a transform expression, if there is one,
// can be parsed.
func checkTransform(name, expression string) (string, error) {
	if expression == "" {
		return "", nil
	}
	if _, err := precipattractor.NewTransform(expression, nil); err != nil {
		return "", fmt.Errorf("precipattractor: %s: %v", name, err)
	}
	return expression, nil
}

// KernelConfig unmarshals a viper configuration for the advection kernel.
// Kernel.Physical selects the preset to start from, and the remaining
// Kernel options override the preset where they are set.
func KernelConfig(cfg *viper.Viper) (precipattractor.KernelConfig, error) {
	physical, err := cast.ToBoolE(cfg.Get("Kernel.Physical"))
	if err != nil {
		return precipattractor.KernelConfig{}, fmt.Errorf("precipattractor: Kernel.Physical: %v", err)
	}
	c := precipattractor.DefaultKernelConfig()
	if physical {
		c = precipattractor.PhysicalKernelConfig()
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{name: "Kernel.Dx", v: &c.Dx},
		{name: "Kernel.Dy", v: &c.Dy},
		{name: "Kernel.Dte", v: &c.Dte},
	} {
		if !cfg.IsSet(f.name) {
			continue
		}
		v, err := cast.ToFloat64E(cfg.Get(f.name))
		if err != nil {
			return c, fmt.Errorf("precipattractor: %s: %v", f.name, err)
		}
		if v != 0 {
			*f.v = v
		}
	}
	for _, f := range []struct {
		name string
		v    *int
	}{
		{name: "Kernel.Margin", v: &c.Margin},
		{name: "Kernel.Iterations", v: &c.Iterations},
	} {
		if !cfg.IsSet(f.name) {
			continue
		}
		v, err := cast.ToIntE(cfg.Get(f.name))
		if err != nil {
			return c, fmt.Errorf("precipattractor: %s: %v", f.name, err)
		}
		if v >= 0 {
			*f.v = v
		}
	}
	c.Workers, err = cast.ToIntE(cfg.Get("Kernel.Workers"))
	if err != nil {
		return c, fmt.Errorf("precipattractor: Kernel.Workers: %v", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// runConfig unmarshals a viper configuration for an advection run.
func runConfig(cfg *viper.Viper) (*RunConfig, error) {
	var err error
	rc := &RunConfig{
		SourceVariable: cfg.GetString("SourceVariable"),
		VXVariable:     cfg.GetString("VXVariable"),
		VYVariable:     cfg.GetString("VYVariable"),
		SummaryFile:    os.ExpandEnv(cfg.GetString("SummaryFile")),
		FrameDir:       os.ExpandEnv(cfg.GetString("FrameDir")),
		RainThreshold:  cfg.GetFloat64("RainThreshold"),
		NoData:         cfg.GetFloat64("NoData"),
	}
	if rc.InputFile, err = checkInputFile(cfg.GetString("InputFile")); err != nil {
		return nil, err
	}
	if rc.OutputFile, err = checkOutputFile(cfg.GetString("OutputFile")); err != nil {
		return nil, err
	}
	if rc.NumLeadTimes, err = checkNumLeadTimes(cfg.Get("NumLeadTimes")); err != nil {
		return nil, err
	}
	if rc.Kernel, err = KernelConfig(cfg); err != nil {
		return nil, err
	}
	if rc.KernelFromInput, err = cast.ToBoolE(cfg.Get("Kernel.FromInput")); err != nil {
		return nil, fmt.Errorf("precipattractor: Kernel.FromInput: %v", err)
	}
	if rc.InputTransform, err = checkTransform("InputTransform", cfg.GetString("InputTransform")); err != nil {
		return nil, err
	}
	if rc.OutputTransform, err = checkTransform("OutputTransform", cfg.GetString("OutputTransform")); err != nil {
		return nil, err
	}
	return rc, nil
}

// synthConfig unmarshals a viper configuration for a synthetic input file.
func synthConfig(cfg *viper.Viper) (*SynthConfig, error) {
	sc := &SynthConfig{
		Nx:       cfg.GetInt("synth.Nx"),
		Ny:       cfg.GetInt("synth.Ny"),
		Nvx:      cfg.GetInt("synth.Nvx"),
		Nvy:      cfg.GetInt("synth.Nvy"),
		VX:       cfg.GetFloat64("synth.VX"),
		VY:       cfg.GetFloat64("synth.VY"),
		Rotation: cfg.GetFloat64("synth.Rotation"),
		Peak:     cfg.GetFloat64("synth.Peak"),
		Width:    cfg.GetFloat64("synth.Width"),
		Units:    cfg.GetString("synth.Units"),
	}
	if sc.Nx < 1 || sc.Ny < 1 {
		return nil, fmt.Errorf("precipattractor: synthetic field size must be positive but is %dx%d", sc.Nx, sc.Ny)
	}
	if sc.Nvx < 2 || sc.Nvy < 2 {
		return nil, fmt.Errorf("precipattractor: synthetic velocity grid must be at least 2x2 but is %dx%d", sc.Nvx, sc.Nvy)
	}
	if sc.Width <= 0 {
		return nil, fmt.Errorf("precipattractor: synth.Width must be > 0 but is %g", sc.Width)
	}
	return sc, nil
}

// WriteConfig writes the values of all configuration options in cfg to
// w in TOML format, so that they can be edited and read back in with the
// --config flag.
func WriteConfig(w io.Writer, cfg *viper.Viper) error {
	o := make(map[string]interface{})
	for _, option := range options {
		if option.name == "config" {
			continue
		}
		m := o
		parts := strings.Split(option.name, ".")
		for _, p := range parts[:len(parts)-1] {
			sub, ok := m[p].(map[string]interface{})
			if !ok {
				sub = make(map[string]interface{})
				m[p] = sub
			}
			m = sub
		}
		// Flag values can come back as strings, so they are converted
		// to the type of the default.
		v := cfg.Get(option.name)
		switch option.defaultVal.(type) {
		case float64:
			v = cast.ToFloat64(v)
		case int:
			v = cast.ToInt(v)
		case bool:
			v = cast.ToBool(v)
		case string:
			v = cast.ToString(v)
		}
		m[parts[len(parts)-1]] = v
	}
	if err := toml.NewEncoder(w).Encode(o); err != nil {
		return fmt.Errorf("precipattractor: writing configuration: %v", err)
	}
	return nil
}
