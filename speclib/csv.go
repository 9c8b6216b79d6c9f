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

package speclib

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	sambuca "github.com/obarrilero/sambuca-core"
)

// LoadCSVSpectralLibrary loads spectra from a CSV file. The first column
// holds the band-centre wavelengths and each remaining column holds one
// spectrum. A non-numeric first row is taken as the spectra names;
// otherwise names are generated from column positions.
func LoadCSVSpectralLibrary(path string) (Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("speclib: reading CSV file %s: %v", path, err)
	}
	if len(records) < 3 || len(records[0]) < 2 {
		return nil, fmt.Errorf("%w: CSV file %s is too small",
			ErrInvalidSpectralData, path)
	}

	names := make([]string, len(records[0])-1)
	dataStart := 0
	if _, err := strconv.ParseFloat(strings.TrimSpace(records[0][1]), 64); err != nil {
		for c := 1; c < len(records[0]); c++ {
			names[c-1] = strings.TrimSpace(records[0][c])
		}
		dataStart = 1
	} else {
		for c := range names {
			names[c] = fmt.Sprintf("Band %d", c+1)
		}
	}

	numBands := len(records) - dataStart
	wavelengths := make([]float64, 0, numBands)
	columns := make([][]float64, len(names))
	for _, record := range records[dataStart:] {
		if len(record) != len(names)+1 {
			return nil, fmt.Errorf("%w: CSV file %s has ragged rows",
				ErrInvalidSpectralData, path)
		}
		wl, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: CSV file %s wavelength %q: %v",
				ErrInvalidSpectralData, path, record[0], err)
		}
		wavelengths = append(wavelengths, wl)
		for c := range names {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[c+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: CSV file %s value %q: %v",
					ErrInvalidSpectralData, path, record[c+1], err)
			}
			columns[c] = append(columns[c], v)
		}
	}

	if err := validateWavelengths(wavelengths); err != nil {
		return nil, fmt.Errorf("CSV file %s failed validation: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	lib := Library{}
	for i, name := range names {
		wl := make([]float64, len(wavelengths))
		copy(wl, wavelengths)
		lib[SpectrumName(base, name)] = sambuca.Spectrum{
			Wavelengths: wl,
			Values:      columns[i],
		}
	}
	return lib, nil
}
