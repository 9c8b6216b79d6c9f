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
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	sambuca "github.com/obarrilero/sambuca-core"
	"github.com/obarrilero/sambuca-core/speclib"
)

// loadLibraryPath loads a spectral library from either a single file or a
// directory of library files.
func loadLibraryPath(path string) (speclib.Library, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return speclib.LoadAll(path)
	}
	return speclib.LoadSpectralLibrary(path)
}

// pickSpectrum returns the named spectrum from a library. When name is
// empty the library must contain exactly one spectrum, which is returned.
func pickSpectrum(lib speclib.Library, name, what string) (sambuca.Spectrum, error) {
	if name == "" {
		if len(lib) != 1 {
			return sambuca.Spectrum{}, fmt.Errorf(
				"sambuca: %s library holds %d spectra; a spectrum name is required",
				what, len(lib))
		}
		for _, s := range lib {
			return s, nil
		}
	}
	s, ok := lib[name]
	if !ok {
		return sambuca.Spectrum{}, fmt.Errorf("sambuca: %s spectrum %q not found",
			what, name)
	}
	return s, nil
}

// alignSpectra reduces a set of spectra to their common wavelength range.
// All loaded spectra are specified at 1 nm bands, so after masking each
// spectrum to the shared range they lie on one grid.
func alignSpectra(spectra []sambuca.Spectrum) ([]sambuca.Spectrum, []float64, error) {
	common := spectra[0].Wavelengths
	for _, s := range spectra[1:] {
		common = sambuca.CommonWavelengths(common, s.Wavelengths)
	}
	if len(common) == 0 {
		return nil, nil, fmt.Errorf("sambuca: input spectra share no wavelengths")
	}

	aligned := make([]sambuca.Spectrum, len(spectra))
	for i, s := range spectra {
		aligned[i] = sambuca.ApplyWavelengthMask(s, common)
		if aligned[i].Len() != len(common) {
			return nil, nil, fmt.Errorf(
				"sambuca: input spectra do not share a common 1nm grid")
		}
	}
	return aligned, common, nil
}

// Run evaluates the forward model for one configuration and writes the
// resulting spectra to the configured CSV file.
func Run(cfg *RunConfig) error {
	logrus.Infof("loading substrate library %s", cfg.SubstrateLibrary)
	substrates, err := loadLibraryPath(cfg.SubstrateLibrary)
	if err != nil {
		return err
	}
	substrate1, err := pickSpectrum(substrates, cfg.Substrate1, "substrate")
	if err != nil {
		return err
	}

	logrus.Infof("loading water absorption from %s", cfg.AWater)
	awaterLib, err := loadLibraryPath(cfg.AWater)
	if err != nil {
		return err
	}
	awater, err := pickSpectrum(awaterLib, cfg.AWaterName, "water absorption")
	if err != nil {
		return err
	}

	logrus.Infof("loading phytoplankton absorption from %s", cfg.APhyStar)
	aphyLib, err := loadLibraryPath(cfg.APhyStar)
	if err != nil {
		return err
	}
	aphyStar, err := pickSpectrum(aphyLib, cfg.APhyStarName, "phytoplankton absorption")
	if err != nil {
		return err
	}

	inputs := []sambuca.Spectrum{substrate1, awater, aphyStar}
	if cfg.Substrate2 != "" {
		substrate2, err := pickSpectrum(substrates, cfg.Substrate2, "substrate")
		if err != nil {
			return err
		}
		inputs = append(inputs, substrate2)
	}

	aligned, wavelengths, err := alignSpectra(inputs)
	if err != nil {
		return err
	}
	numBands := len(wavelengths)
	logrus.Infof("modelling %d bands, %g-%g nm", numBands,
		wavelengths[0], wavelengths[numBands-1])

	substratum := sambuca.SingleSubstratum(aligned[0].Values)
	if cfg.Substrate2 != "" {
		substratum = sambuca.BlendedSubstratum(
			aligned[0].Values, aligned[3].Values, cfg.SubstrateFraction)
	}

	results, err := sambuca.ForwardModel(
		cfg.Chl, cfg.CDOM, cfg.NAP, cfg.Depth,
		substratum,
		wavelengths, aligned[1].Values, aligned[2].Values,
		numBands, cfg.Model)
	if err != nil {
		return err
	}

	if err := writeResultsCSV(cfg.OutputFile, wavelengths, results); err != nil {
		return err
	}
	logrus.Infof("wrote %s", cfg.OutputFile)

	if cfg.SensorFilterFile == "" {
		return nil
	}

	logrus.Infof("applying sensor filter %s from %s",
		cfg.SensorFilterName, cfg.SensorFilterFile)
	filters, err := speclib.LoadSensorFiltersExcel(cfg.SensorFilterFile,
		&speclib.FilterOptions{SheetNames: []string{cfg.SensorFilterName}})
	if err != nil {
		return err
	}
	filter, ok := filters[cfg.SensorFilterName]
	if !ok {
		return fmt.Errorf("sambuca: sensor filter %q not found in %s",
			cfg.SensorFilterName, cfg.SensorFilterFile)
	}
	filtered, err := filter.Apply(results.Rrs)
	if err != nil {
		return err
	}

	filteredFile := filteredFileName(cfg.OutputFile)
	if err := writeFilteredCSV(filteredFile, filtered); err != nil {
		return err
	}
	logrus.Infof("wrote %s", filteredFile)
	return nil
}

// filteredFileName derives the sensor-band output file name from the main
// output file name.
func filteredFileName(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_filtered" + ext
}

// writeResultsCSV writes the per-band forward model outputs to a CSV file.
func writeResultsCSV(path string, wavelengths []float64, r *sambuca.ForwardModelResults) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"wavelength", "rrs", "rrsdp", "kd", "kub", "kuc", "a", "bb", "r_substratum",
	}); err != nil {
		return err
	}
	for i := range wavelengths {
		record := []string{
			formatFloat(wavelengths[i]),
			formatFloat(r.Rrs[i]),
			formatFloat(r.Rrsdp[i]),
			formatFloat(r.Kd[i]),
			formatFloat(r.Kub[i]),
			formatFloat(r.Kuc[i]),
			formatFloat(r.A[i]),
			formatFloat(r.Bb[i]),
			formatFloat(r.RSubstratum[i]),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeFilteredCSV writes a sensor-band reduced reflectance to a CSV file.
func writeFilteredCSV(path string, filtered []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"band", "rrs"}); err != nil {
		return err
	}
	for i, v := range filtered {
		if err := w.Write([]string{strconv.Itoa(i + 1), formatFloat(v)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
