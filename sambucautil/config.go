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

package sambucautil

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	sambuca "github.com/obarrilero/sambuca-core"
)

// RunConfig holds the information needed for one forward model run.
type RunConfig struct {
	// Chl, CDOM and NAP are the water-column constituent concentrations:
	// chlorophyll, coloured dissolved organic matter and non-algal
	// particulates respectively.
	Chl  float64
	CDOM float64
	NAP  float64

	// Depth is the water column depth.
	Depth float64

	// SubstrateFraction is the proportion of Substrate1 used when
	// blending two substrates. Ignored when Substrate2 is empty.
	SubstrateFraction float64

	// SubstrateLibrary is the path to the spectral library file or
	// directory holding the benthic substrate spectra. The path can
	// include environment variables.
	SubstrateLibrary string

	// Substrate1 and Substrate2 name substrate spectra within the
	// substrate library in the form "base:band". Substrate2 is optional;
	// when set, the modelled bottom is the convex combination of the two.
	Substrate1 string
	Substrate2 string

	// AWater is the path to the spectral library holding the pure-water
	// absorption spectrum; AWaterName names the spectrum within it. When
	// AWaterName is empty the library must hold exactly one spectrum.
	// The path can include environment variables.
	AWater     string
	AWaterName string

	// APhyStar is the path to the spectral library holding the specific
	// absorption of phytoplankton; APhyStarName names the spectrum
	// within it. The path can include environment variables.
	APhyStar     string
	APhyStarName string

	// SensorFilterFile is the path to an Excel workbook of sensor
	// spectral-response filters, and SensorFilterName the worksheet
	// holding the filter to apply. Both are optional; when set, the
	// modelled reflectance is additionally reduced to the sensor bands.
	SensorFilterFile string
	SensorFilterName string

	// OutputFile is the path of the CSV file to write results to.
	// The path can include environment variables.
	OutputFile string

	// Model holds the scalar SIOP and geometry parameters. Fields left
	// unset in the configuration file keep their published defaults.
	Model sambuca.ModelParameters
}

// defaultRunConfig returns a RunConfig with every parameter at its
// default value.
func defaultRunConfig() *RunConfig {
	return &RunConfig{
		Depth:             1.0,
		SubstrateFraction: 1.0,
		OutputFile:        "sambuca_output.csv",
		Model:             sambuca.DefaultModelParameters(),
	}
}

// ReadConfigFile reads a forward model run configuration from a TOML file.
// Paths in the configuration may contain environment variables.
func ReadConfigFile(path string) (*RunConfig, error) {
	cfg := defaultRunConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("sambuca: problem reading configuration file: %v", err)
	}
	cfg.expandEnv()
	return cfg, cfg.check()
}

// runConfig builds a RunConfig from the viper configuration, which merges
// the configuration file, command-line flags and environment variables.
func runConfig(v *viper.Viper) (*RunConfig, error) {
	cfg := defaultRunConfig()
	cfg.Chl = cast.ToFloat64(v.Get("Chl"))
	cfg.CDOM = cast.ToFloat64(v.Get("CDOM"))
	cfg.NAP = cast.ToFloat64(v.Get("NAP"))
	cfg.Depth = cast.ToFloat64(v.Get("Depth"))
	cfg.SubstrateFraction = cast.ToFloat64(v.Get("SubstrateFraction"))
	cfg.SubstrateLibrary = v.GetString("SubstrateLibrary")
	cfg.Substrate1 = v.GetString("Substrate1")
	cfg.Substrate2 = v.GetString("Substrate2")
	cfg.AWater = v.GetString("AWater")
	cfg.AWaterName = v.GetString("AWaterName")
	cfg.APhyStar = v.GetString("APhyStar")
	cfg.APhyStarName = v.GetString("APhyStarName")
	cfg.SensorFilterFile = v.GetString("SensorFilterFile")
	cfg.SensorFilterName = v.GetString("SensorFilterName")
	cfg.OutputFile = v.GetString("OutputFile")

	// Scalar model parameters may be overridden from the [Model] table
	// of the configuration file.
	for key, dst := range map[string]*float64{
		"Model.SlopeCDOM":            &cfg.Model.SlopeCDOM,
		"Model.SlopeNAP":             &cfg.Model.SlopeNAP,
		"Model.SlopeBackscatter":     &cfg.Model.SlopeBackscatter,
		"Model.Lambda0CDOM":          &cfg.Model.Lambda0CDOM,
		"Model.Lambda0NAP":           &cfg.Model.Lambda0NAP,
		"Model.Lambda0X":             &cfg.Model.Lambda0X,
		"Model.XPhLambda0X":          &cfg.Model.XPhLambda0X,
		"Model.XNAPLambda0X":         &cfg.Model.XNAPLambda0X,
		"Model.ACDOMLambda0CDOM":     &cfg.Model.ACDOMLambda0CDOM,
		"Model.ANAPLambda0NAP":       &cfg.Model.ANAPLambda0NAP,
		"Model.BBLambdaRef":          &cfg.Model.BBLambdaRef,
		"Model.WaterRefractiveIndex": &cfg.Model.WaterRefractiveIndex,
		"Model.ThetaAir":             &cfg.Model.ThetaAir,
		"Model.OffNadir":             &cfg.Model.OffNadir,
	} {
		if v.IsSet(key) {
			*dst = cast.ToFloat64(v.Get(key))
		}
	}

	cfg.expandEnv()
	return cfg, cfg.check()
}

// expandEnv expands environment variables within the configured paths.
func (cfg *RunConfig) expandEnv() {
	cfg.SubstrateLibrary = os.ExpandEnv(cfg.SubstrateLibrary)
	cfg.AWater = os.ExpandEnv(cfg.AWater)
	cfg.APhyStar = os.ExpandEnv(cfg.APhyStar)
	cfg.SensorFilterFile = os.ExpandEnv(cfg.SensorFilterFile)
	cfg.OutputFile = os.ExpandEnv(cfg.OutputFile)
}

// check verifies that the required configuration fields are present.
func (cfg *RunConfig) check() error {
	for name, value := range map[string]string{
		"SubstrateLibrary": cfg.SubstrateLibrary,
		"Substrate1":       cfg.Substrate1,
		"AWater":           cfg.AWater,
		"APhyStar":         cfg.APhyStar,
		"OutputFile":       cfg.OutputFile,
	} {
		if value == "" {
			return fmt.Errorf("sambuca: configuration is missing %s", name)
		}
	}
	if cfg.SensorFilterFile != "" && cfg.SensorFilterName == "" {
		return fmt.Errorf("sambuca: SensorFilterFile is set but SensorFilterName is not")
	}
	return nil
}
