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

// Package speclib loads collections of spectra from Sambuca spectral
// database files and directories. Supported formats are ENVI spectral
// libraries (.hdr/.lib pairs), Microsoft Excel workbooks and CSV files.
//
// Loaded spectra are keyed "base:band", where base is the file name
// without its extension and band is the spectrum name within the file,
// so spectra from many files can be collected into one Library without
// ambiguity. All loaders validate that band-centre wavelengths are
// strictly increasing and specified at exact 1 nm spacing; interpolation
// and band-averaging are not supported.
package speclib

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sambuca "github.com/obarrilero/sambuca-core"
)

// ErrInvalidSpectralData indicates spectral data that failed validation,
// such as non-increasing wavelengths or non-1nm band spacing.
var ErrInvalidSpectralData = errors.New("speclib: invalid spectral data")

// Library is a collection of named spectra, keyed "base:band".
type Library map[string]sambuca.Spectrum

// SpectrumName forms the Library key for a band name within a file.
func SpectrumName(base, band string) string {
	return base + ":" + band
}

// Merge adds every spectrum in src to dst, returning an error if a key
// already exists in dst.
func Merge(dst, src Library) error {
	for name, s := range src {
		if _, ok := dst[name]; ok {
			return fmt.Errorf("speclib: duplicate spectrum name %q", name)
		}
		dst[name] = s
	}
	return nil
}

// validateWavelengths checks that a wavelength grid is strictly increasing
// and specified at exact 1 nm bands.
func validateWavelengths(wavelengths []float64) error {
	if len(wavelengths) < 2 {
		return fmt.Errorf("%w: fewer than two bands", ErrInvalidSpectralData)
	}
	if !sambuca.StrictlyIncreasing(wavelengths) {
		return fmt.Errorf("%w: wavelengths are not strictly increasing",
			ErrInvalidSpectralData)
	}
	for i := 1; i < len(wavelengths); i++ {
		if wavelengths[i]-wavelengths[i-1] != 1.0 {
			return fmt.Errorf("%w: only 1nm band spacing is supported",
				ErrInvalidSpectralData)
		}
	}
	return nil
}

// LoadSpectralLibrary loads all spectra from a single file, dispatching on
// the file extension. ENVI libraries may be referred to by either their
// header or data file.
func LoadSpectralLibrary(path string) (Library, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return LoadExcelSpectralLibrary(path)
	case ".csv":
		return LoadCSVSpectralLibrary(path)
	case ".hdr", ".lib":
		dir := filepath.Dir(path)
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return LoadENVISpectralLibrary(dir, base)
	}
	return nil, fmt.Errorf("speclib: unsupported file format: %s", path)
}

// LoadAll loads every supported spectral library file in a directory into
// a single Library. Files that fail validation are skipped; duplicate
// spectrum names across files are an error.
func LoadAll(dir string) (Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("speclib: scanning directory: %v", err)
	}

	all := Library{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".xlsx", ".xls", ".csv", ".hdr":
		default:
			continue
		}
		lib, err := LoadSpectralLibrary(filepath.Join(dir, entry.Name()))
		if err != nil {
			if errors.Is(err, ErrInvalidSpectralData) {
				continue
			}
			return nil, err
		}
		if err := Merge(all, lib); err != nil {
			return nil, err
		}
	}
	return all, nil
}
