/*
Copyright © 2016 the Sambuca authors.
This file is part of Sambuca.

Sambuca is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Sambuca is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Sambuca.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package sambucautil provides the command-line interface and
// configuration handling for the Sambuca forward model.
package sambucautil

import (
	"fmt"
	"sort"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	sambuca "github.com/obarrilero/sambuca-core"
	"github.com/obarrilero/sambuca-core/speclib"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to Sambuca.
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
			name: "Chl",
			usage: `
              Chl is the concentration of chlorophyll (algal organic
              particulates) in the modelled water column.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CDOM",
			usage: `
              CDOM is the concentration of coloured dissolved organic
              matter in the modelled water column.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "NAP",
			usage: `
              NAP is the concentration of non-algal particulates (tripton)
              in the modelled water column.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Depth",
			usage: `
              Depth is the water column depth.`,
			shorthand:  "d",
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SubstrateFraction",
			usage: `
              SubstrateFraction is the proportion of the first substrate
              used when blending two benthic substrates. It is ignored when
              only one substrate is specified.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SubstrateLibrary",
			usage: `
              SubstrateLibrary is the path to the spectral library file or
              directory containing the benthic substrate spectra. The path
              can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Substrate1",
			usage: `
              Substrate1 names the primary benthic substrate spectrum
              within the substrate library, in the form "base:band".`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Substrate2",
			usage: `
              Substrate2 names an optional second benthic substrate
              spectrum to blend with Substrate1.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "AWater",
			usage: `
              AWater is the path to the spectral library file holding the
              pure-water absorption spectrum. The path can include
              environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "AWaterName",
			usage: `
              AWaterName names the pure-water absorption spectrum within
              its library. When empty, the library must contain exactly
              one spectrum.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "APhyStar",
			usage: `
              APhyStar is the path to the spectral library file holding
              the specific absorption of phytoplankton. The path can
              include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "APhyStarName",
			usage: `
              APhyStarName names the phytoplankton specific absorption
              spectrum within its library. When empty, the library must
              contain exactly one spectrum.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SensorFilterFile",
			usage: `
              SensorFilterFile is the path to an Excel workbook of sensor
              spectral-response filters. When set together with
              SensorFilterName, the modelled reflectance is additionally
              reduced to the sensor bands.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SensorFilterName",
			usage: `
              SensorFilterName names the worksheet holding the sensor
              filter to apply.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path of the CSV file to write the model
              results to. The path can include environment variables.`,
			shorthand:  "o",
			defaultVal: "sambuca_output.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "normalise",
			usage: `
              normalise scales listed sensor filters so that the maximum
              response is 1.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{filtersCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SAMBUCA")

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
	Root.AddCommand(runCmd)
	Root.AddCommand(speclibCmd)
	Root.AddCommand(filtersCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("sambuca: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "sambuca",
	Short: "A semi-analytical shallow-water reflectance model.",
	Long: `Sambuca computes the semi-analytical Lee/Sambuca forward model of
shallow-water remote-sensing reflectance from water-column constituent
concentrations, depth, benthic substrate reflectance and inherent optical
properties.

Configuration can be changed by using a TOML configuration file (and
providing the path to the file using the --config flag), by using
command-line arguments, or by setting environment variables in the format
'SAMBUCA_var' where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of Sambuca.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Sambuca v%s\n", sambuca.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the forward model.",
	Long: `run evaluates the forward model for the configured constituent
concentrations, depth and substrates, and writes the modelled spectra to a
CSV file. Input spectra are reduced to their common wavelength range before
the model is evaluated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := runConfig(Cfg)
		if err != nil {
			return err
		}
		return Run(cfg)
	},
	DisableAutoGenTag: true,
}

// speclibCmd lists the spectra in a spectral library file or directory.
var speclibCmd = &cobra.Command{
	Use:   "speclib [path]",
	Short: "List the spectra in a spectral library",
	Long: `speclib loads the spectral library file or directory at the given
path and lists the name, band count and wavelength range of every spectrum
it contains.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loadLibraryPath(args[0])
		if err != nil {
			return err
		}
		names := make([]string, 0, len(lib))
		for name := range lib {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s := lib[name]
			cmd.Printf("%s: %d bands, %g-%g nm\n", name, s.Len(),
				s.Wavelengths[0], s.Wavelengths[s.Len()-1])
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// filtersCmd lists the sensor filters in an Excel workbook.
var filtersCmd = &cobra.Command{
	Use:   "filters [path]",
	Short: "List the sensor filters in an Excel workbook",
	Long: `filters loads the Excel workbook at the given path and lists the
name and dimensions of every sensor spectral-response filter it contains.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := speclib.LoadSensorFiltersExcel(args[0], &speclib.FilterOptions{
			Normalise: Cfg.GetBool("normalise"),
		})
		if err != nil {
			return err
		}
		names := make([]string, 0, len(filters))
		for name := range filters {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			f := filters[name]
			out, in := f.Bands()
			cmd.Printf("%s: %d output bands, %d input bands, %g-%g nm\n",
				name, out, in, f.Wavelengths[0], f.Wavelengths[in-1])
		}
		return nil
	},
	DisableAutoGenTag: true,
}
