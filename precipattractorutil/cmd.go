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
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/ringsaturn/precipattractor"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	kernelSets := []*pflag.FlagSet{advectCmd.Flags()}

	// Options are the configuration options available to PrecipAttractor.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages to print:
              one of debug, info, warn, or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the path to the netCDF file holding the source
              field and the velocity field. It can be a local path, an
              http(s) URL, or a blob storage location such as
              gs://bucket/file.ncf or s3://bucket/file.ncf.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{advectCmd.Flags(), warCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the output netCDF file should be
              written. It can be a local path or a blob storage location.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{advectCmd.Flags(), synthCmd.Flags()},
		},
		{
			name: "SourceVariable",
			usage: `
              SourceVariable is the name of the variable in InputFile that
              holds the field to be advected.`,
			defaultVal: precipattractor.SourceVar,
			flagsets:   []*pflag.FlagSet{advectCmd.Flags()},
		},
		{
			name: "VXVariable",
			usage: `
              VXVariable is the name of the variable in InputFile that holds
              the north-south (row direction) velocity component.`,
			defaultVal: precipattractor.VXVar,
			flagsets:   []*pflag.FlagSet{advectCmd.Flags()},
		},
		{
			name: "VYVariable",
			usage: `
              VYVariable is the name of the variable in InputFile that holds
              the west-east (column direction) velocity component.`,
			defaultVal: precipattractor.VYVar,
			flagsets:   []*pflag.FlagSet{advectCmd.Flags()},
		},
		{
			name: "NumLeadTimes",
			usage: `
              NumLeadTimes is the number of lead times to extrapolate the
              source field to.`,
			shorthand:  "n",
			defaultVal: 12,
			flagsets:   []*pflag.FlagSet{advectCmd.Flags()},
		},
		{
			name: "Kernel.Physical",
			usage: `
              Kernel.Physical specifies whether to start from the physically
              scaled kernel constants (1 km grid cells, a 5 minute time step,
              and velocities in m/s) instead of the default constants, where
              velocities are in grid cells per time step. Kernel options that
              are set explicitly override the preset.`,
			defaultVal: false,
			flagsets:   kernelSets,
		},
		{
			name: "Kernel.FromInput",
			usage: `
              Kernel.FromInput specifies whether to use the kernel constants
              stored in InputFile, if it has any, instead of the configured
              ones.`,
			defaultVal: false,
			flagsets:   kernelSets,
		},
		{
			name: "Kernel.Dx",
			usage: `
              Kernel.Dx is the grid spacing in the north-south direction.
              The default of 0 means to use the value of the preset.`,
			defaultVal: 0.0,
			flagsets:   kernelSets,
		},
		{
			name: "Kernel.Dy",
			usage: `
              Kernel.Dy is the grid spacing in the west-east direction.
              The default of 0 means to use the value of the preset.`,
			defaultVal: 0.0,
			flagsets:   kernelSets,
		},
		{
			name: "Kernel.Dte",
			usage: `
              Kernel.Dte is the time step between lead times.
              The default of 0 means to use the value of the preset.`,
			defaultVal: 0.0,
			flagsets:   kernelSets,
		},
		{
			name: "Kernel.Margin",
			usage: `
              Kernel.Margin is the number of field grid cells at each border
              of the domain that are not covered by the velocity grid.
              The default of -1 means to use the value of the preset.`,
			defaultVal: -1,
			flagsets:   kernelSets,
		},
		{
			name: "Kernel.Iterations",
			usage: `
              Kernel.Iterations is the number of half-step predictor passes
              used to estimate the midpoint velocity of each trajectory step.
              The default of -1 means to use the value of the preset.`,
			defaultVal: -1,
			flagsets:   kernelSets,
		},
		{
			name: "Kernel.Workers",
			usage: `
              Kernel.Workers is the number of goroutines to split the output
              pixels among. The default of 0 means one per processor.`,
			defaultVal: 0,
			flagsets:   kernelSets,
		},
		{
			name: "InputTransform",
			usage: `
              InputTransform is an expression applied to every value of the
              source field before advection, where x is the value, e.g.
              'dB(x, 0.01)'. Available functions are exp, log10, pow, dB,
              fromdB, zr, rz, max, and min. Empty means no transform.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{advectCmd.Flags()},
		},
		{
			name: "OutputTransform",
			usage: `
              OutputTransform is an expression applied to every value of the
              advected fields, e.g. 'fromdB(x) - 0.01'. Empty means no
              transform.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{advectCmd.Flags()},
		},
		{
			name: "SummaryFile",
			usage: `
              SummaryFile is the path of an optional CSV file to write summary
              statistics of each lead time to.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{advectCmd.Flags()},
		},
		{
			name: "FrameDir",
			usage: `
              FrameDir is an optional directory (local or blob storage) to
              write a PNG image of each lead time to.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{advectCmd.Flags()},
		},
		{
			name: "RainThreshold",
			usage: `
              RainThreshold is the value at or above which a pixel counts as
              wet when computing wet-area ratios.`,
			defaultVal: 0.08,
			flagsets:   []*pflag.FlagSet{advectCmd.Flags(), warCmd.Flags()},
		},
		{
			name: "NoData",
			usage: `
              NoData is the value marking pixels outside of the radar domain.
              Pixels with values at or below NoData+1 are excluded when
              computing wet-area ratios.`,
			defaultVal: -999.0,
			flagsets:   []*pflag.FlagSet{advectCmd.Flags(), warCmd.Flags()},
		},
		{
			name: "Domain.Rows",
			usage: `
              Domain.Rows is the number of rows of the centered window that
              wet-area ratios are computed over. Zero means all rows.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{warCmd.Flags()},
		},
		{
			name: "Domain.Cols",
			usage: `
              Domain.Cols is the number of columns of the centered window that
              wet-area ratios are computed over. Zero means all columns.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{warCmd.Flags()},
		},
		{
			name: "synth.Nx",
			usage: `
              synth.Nx is the number of rows of the synthetic field.`,
			defaultVal: 200,
			flagsets:   []*pflag.FlagSet{synthCmd.Flags()},
		},
		{
			name: "synth.Ny",
			usage: `
              synth.Ny is the number of columns of the synthetic field.`,
			defaultVal: 200,
			flagsets:   []*pflag.FlagSet{synthCmd.Flags()},
		},
		{
			name: "synth.Nvx",
			usage: `
              synth.Nvx is the number of rows of the synthetic velocity grid.`,
			defaultVal: 18,
			flagsets:   []*pflag.FlagSet{synthCmd.Flags()},
		},
		{
			name: "synth.Nvy",
			usage: `
              synth.Nvy is the number of columns of the synthetic velocity grid.`,
			defaultVal: 18,
			flagsets:   []*pflag.FlagSet{synthCmd.Flags()},
		},
		{
			name: "synth.VX",
			usage: `
              synth.VX is the uniform north-south velocity of the synthetic case.`,
			defaultVal: 2.0,
			flagsets:   []*pflag.FlagSet{synthCmd.Flags()},
		},
		{
			name: "synth.VY",
			usage: `
              synth.VY is the uniform west-east velocity of the synthetic case.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{synthCmd.Flags()},
		},
		{
			name: "synth.Rotation",
			usage: `
              synth.Rotation is the angular speed, in radians per time step,
              of a solid-body rotation added to the uniform velocity.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{synthCmd.Flags()},
		},
		{
			name: "synth.Peak",
			usage: `
              synth.Peak is the peak value of the synthetic Gaussian field.`,
			defaultVal: 50.0,
			flagsets:   []*pflag.FlagSet{synthCmd.Flags()},
		},
		{
			name: "synth.Width",
			usage: `
              synth.Width is the standard deviation, in grid cells, of the
              synthetic Gaussian field.`,
			defaultVal: 15.0,
			flagsets:   []*pflag.FlagSet{synthCmd.Flags()},
		},
		{
			name: "synth.Units",
			usage: `
              synth.Units are the units of the synthetic field.`,
			defaultVal: "dBZ",
			flagsets:   []*pflag.FlagSet{synthCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("PRECIPATTRACTOR")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(advectCmd)
	Root.AddCommand(synthCmd)
	Root.AddCommand(warCmd)
	Root.AddCommand(configCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the logging level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("precipattractor: problem reading configuration file: %v", err)
		}
	}
	return setLogLevel(Cfg.GetString("LogLevel"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "precipattractor",
	Short: "Extrapolate precipitation fields by semi-Lagrangian advection.",
	Long: `PrecipAttractor extrapolates gridded fields such as radar reflectivity
images forward in time through a stationary velocity field. For every output
pixel, a backward trajectory is traced through the velocity field, one time
step per lead time, and the source field is resampled at its origin.

Note the axis convention: the first array dimension is the north-south (row)
direction, and the VX velocity component moves along it; VY moves along the
second, west-east (column), dimension.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'PRECIPATTRACTOR_var' where
'var' is the name of the variable to be set, with '.' replaced by '_'.
File path variables may contain environment variables.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of PrecipAttractor.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("PrecipAttractor v%s (data format v%s)\n", precipattractor.Version, precipattractor.DataVersion)
	},
	DisableAutoGenTag: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the current configuration",
	Long: `config prints the values of all configuration options, after applying
any configuration file, environment variables, and command-line arguments, in
TOML format. The output can be used as a starting point for a configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return WriteConfig(cmd.OutOrStdout(), Cfg)
	},
	DisableAutoGenTag: true,
}

// advectCmd extrapolates a source field.
var advectCmd = &cobra.Command{
	Use:   "advect",
	Short: "Extrapolate a field through a velocity field.",
	Long: `advect reads a source field and a velocity field from InputFile,
extrapolates the source field to NumLeadTimes lead times, and writes the
results to OutputFile. Summary statistics and images of each lead time can
optionally be written to SummaryFile and FrameDir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rc, err := runConfig(Cfg)
		if err != nil {
			return err
		}
		return Run(context.Background(), rc)
	},
	DisableAutoGenTag: true,
}

// synthCmd creates a synthetic input file.
var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Create a synthetic input file.",
	Long: `synth writes an input file holding a Gaussian source field and a uniform
velocity field, optionally with a solid-body rotation, to OutputFile. It is
useful for demonstrations and for testing a processing chain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := synthConfig(Cfg)
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		return Synth(context.Background(), outputFile, sc)
	},
	DisableAutoGenTag: true,
}

// warCmd prints wet-area ratios.
var warCmd = &cobra.Command{
	Use:   "war",
	Short: "Print the wet-area ratio of each lead time of a forecast.",
	Long: `war reads the forecast file given by InputFile and prints the wet-area
ratio, in percent, of each of its lead times. Pixels at or above RainThreshold
count as wet, and pixels at or below NoData+1 are outside of the radar domain.
Domain.Rows and Domain.Cols restrict the ratio to a window in the middle of
the field.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile, err := checkInputFile(Cfg.GetString("InputFile"))
		if err != nil {
			return err
		}
		return WAR(context.Background(), cmd.OutOrStdout(), inputFile,
			Cfg.GetFloat64("RainThreshold"), Cfg.GetFloat64("NoData"),
			Cfg.GetInt("Domain.Rows"), Cfg.GetInt("Domain.Cols"))
	},
	DisableAutoGenTag: true,
}
