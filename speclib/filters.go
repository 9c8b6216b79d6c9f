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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"
	"gonum.org/v1/gonum/mat"

	sambuca "github.com/obarrilero/sambuca-core"
)

// FilterOptions controls sensor filter loading.
type FilterOptions struct {
	// Normalise scales the loaded response values so that the maximum
	// response is 1.
	Normalise bool

	// SheetNames restricts loading to the named worksheets. When empty,
	// every worksheet is considered. Named worksheets that are missing
	// or fail validation are skipped rather than reported as errors.
	SheetNames []string
}

// LoadSensorFiltersExcel loads sensor spectral-response filters from an
// Excel workbook, one filter per worksheet. The first column of a
// worksheet holds the band-centre wavelengths, and each remaining column
// holds the response of one sensor output band at those wavelengths.
// Filters are keyed by worksheet name. Worksheets whose wavelengths are
// not strictly increasing at exact 1 nm spacing are skipped.
func LoadSensorFiltersExcel(path string, opts *FilterOptions) (map[string]sambuca.SensorFilter, error) {
	f, err := loadExcelFile(path)
	if err != nil {
		return nil, err
	}
	return SensorFiltersFromExcelFile(f, opts)
}

// SensorFiltersFromExcelFile extracts sensor filters from an
// already-opened workbook.
func SensorFiltersFromExcelFile(f *xlsx.File, opts *FilterOptions) (map[string]sambuca.SensorFilter, error) {
	if opts == nil {
		opts = &FilterOptions{}
	}

	sheets := f.Sheets
	if len(opts.SheetNames) > 0 {
		sheets = nil
		for _, name := range opts.SheetNames {
			if sheet, ok := f.Sheet[name]; ok {
				sheets = append(sheets, sheet)
			}
		}
	}

	filters := make(map[string]sambuca.SensorFilter)
	for _, sheet := range sheets {
		filter, err := sheetSensorFilter(sheet, opts.Normalise)
		if err != nil {
			// Invalid worksheets are skipped; the workbook may mix
			// filters with unrelated sheets.
			continue
		}
		filters[sheet.Name] = filter
	}
	return filters, nil
}

// sheetSensorFilter reads one sensor filter from a worksheet. The
// worksheet layout is transposed relative to the response matrix: rows
// are wavelengths and columns are sensor output bands.
func sheetSensorFilter(sheet *xlsx.Sheet, normalise bool) (sambuca.SensorFilter, error) {
	if sheet.MaxRow < 3 || sheet.MaxCol < 2 {
		return sambuca.SensorFilter{}, fmt.Errorf(
			"%w: worksheet %s is too small", ErrInvalidSpectralData, sheet.Name)
	}

	numOut := 0
	for c := 1; c < sheet.MaxCol; c++ {
		if strings.TrimSpace(sheet.Cell(0, c).Value) == "" {
			break
		}
		numOut++
	}
	if numOut == 0 {
		return sambuca.SensorFilter{}, fmt.Errorf(
			"%w: worksheet %s has no response columns",
			ErrInvalidSpectralData, sheet.Name)
	}

	var wavelengths []float64
	columns := make([][]float64, numOut)
	for r := 0; r < sheet.MaxRow; r++ {
		wlCell := strings.TrimSpace(sheet.Cell(r, 0).Value)
		if wlCell == "" {
			break
		}
		wl, err := strconv.ParseFloat(wlCell, 64)
		if err != nil {
			return sambuca.SensorFilter{}, fmt.Errorf(
				"%w: worksheet %s wavelength %q: %v",
				ErrInvalidSpectralData, sheet.Name, wlCell, err)
		}
		wavelengths = append(wavelengths, wl)
		for c := 0; c < numOut; c++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(sheet.Cell(r, c+1).Value), 64)
			if err != nil {
				return sambuca.SensorFilter{}, fmt.Errorf(
					"%w: worksheet %s cell (%d,%d): %v",
					ErrInvalidSpectralData, sheet.Name, r, c+1, err)
			}
			columns[c] = append(columns[c], v)
		}
	}

	if err := validateWavelengths(wavelengths); err != nil {
		return sambuca.SensorFilter{}, fmt.Errorf(
			"worksheet %s failed validation: %w", sheet.Name, err)
	}

	numIn := len(wavelengths)
	response := mat.NewDense(numOut, numIn, nil)
	maxResponse := 0.0
	for i := 0; i < numOut; i++ {
		for j := 0; j < numIn; j++ {
			v := columns[i][j]
			response.Set(i, j, v)
			if v > maxResponse {
				maxResponse = v
			}
		}
	}
	if normalise && maxResponse > 0 {
		response.Scale(1.0/maxResponse, response)
	}

	return sambuca.SensorFilter{
		Wavelengths: wavelengths,
		Response:    response,
	}, nil
}

// LoadSensorFilters loads all sensor filters from every Excel workbook in
// a directory. Filters are keyed by worksheet name; a worksheet name that
// appears in more than one workbook is an error.
func LoadSensorFilters(dir string, opts *FilterOptions) (map[string]sambuca.SensorFilter, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("speclib: scanning directory: %v", err)
	}

	all := make(map[string]sambuca.SensorFilter)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".xlsx", ".xls":
		default:
			continue
		}
		filters, err := LoadSensorFiltersExcel(filepath.Join(dir, entry.Name()), opts)
		if err != nil {
			return nil, err
		}
		for name, filter := range filters {
			if _, ok := all[name]; ok {
				return nil, fmt.Errorf("speclib: duplicate sensor filter name %q", name)
			}
			all[name] = filter
		}
	}
	return all, nil
}
