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
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/tealeg/xlsx"

	sambuca "github.com/obarrilero/sambuca-core"
)

// excelCache holds previously opened Microsoft Excel files to avoid
// reading the same workbook multiple times: substrate spectra and sensor
// filters are often stored in the same file.
var excelCache *requestcache.Cache

var loadExcelCacheOnce sync.Once

// loadExcelFile loads a Microsoft Excel file from disk, utilizing a cache
// to avoid loading the same file more than once.
func loadExcelFile(fileName string) (*xlsx.File, error) {
	loadExcelCacheOnce.Do(func() {
		excelCache = requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
			filename := req.(string)
			f, err := xlsx.OpenFile(filename)
			if err != nil {
				return nil, fmt.Errorf("speclib: opening xlsx file: %v", err)
			}
			return f, nil
		}, runtime.GOMAXPROCS(-1), requestcache.Memory(100))
	})
	r := excelCache.NewRequest(context.Background(), fileName, fileName)
	fI, err := r.Result()
	if err != nil {
		return nil, err
	}
	return fI.(*xlsx.File), nil
}

// LoadExcelSpectralLibrary loads all spectra from every worksheet of an
// Excel workbook. The first column of a worksheet holds the band-centre
// wavelengths, the header row holds spectra names, and each remaining
// column holds one spectrum. Worksheets that fail validation are skipped.
func LoadExcelSpectralLibrary(path string) (Library, error) {
	f, err := loadExcelFile(path)
	if err != nil {
		return nil, err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return SpectraFromExcelFile(f, base)
}

// SpectraFromExcelFile extracts spectra from an already-opened workbook,
// keyed by baseName. Worksheets that fail validation are skipped.
func SpectraFromExcelFile(f *xlsx.File, baseName string) (Library, error) {
	lib := Library{}
	for _, sheet := range f.Sheets {
		sheetLib, err := sheetSpectra(sheet, baseName)
		if err != nil {
			if errors.Is(err, ErrInvalidSpectralData) {
				continue
			}
			return nil, err
		}
		if err := Merge(lib, sheetLib); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// sheetSpectra reads the spectra in a single worksheet. The header row
// gives the spectra names; the first column gives the wavelengths.
func sheetSpectra(sheet *xlsx.Sheet, baseName string) (Library, error) {
	if sheet.MaxRow < 3 || sheet.MaxCol < 2 {
		return nil, fmt.Errorf("%w: worksheet %s is too small",
			ErrInvalidSpectralData, sheet.Name)
	}

	names := make([]string, 0, sheet.MaxCol-1)
	for c := 1; c < sheet.MaxCol; c++ {
		name := strings.TrimSpace(sheet.Cell(0, c).Value)
		if name == "" {
			break
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: worksheet %s has no spectra names",
			ErrInvalidSpectralData, sheet.Name)
	}

	wavelengths, columns, err := numericColumns(sheet, 1, len(names))
	if err != nil {
		return nil, err
	}
	if err := validateWavelengths(wavelengths); err != nil {
		return nil, fmt.Errorf("worksheet %s failed validation: %w",
			sheet.Name, err)
	}

	lib := Library{}
	for i, name := range names {
		wl := make([]float64, len(wavelengths))
		copy(wl, wavelengths)
		lib[SpectrumName(baseName, name)] = sambuca.Spectrum{
			Wavelengths: wl,
			Values:      columns[i],
		}
	}
	return lib, nil
}

// numericColumns reads the wavelength column and numCols value columns from
// a worksheet, starting at startRow. Reading stops at the first row with an
// empty wavelength cell.
func numericColumns(sheet *xlsx.Sheet, startRow, numCols int) ([]float64, [][]float64, error) {
	var wavelengths []float64
	columns := make([][]float64, numCols)

	for r := startRow; r < sheet.MaxRow; r++ {
		wlCell := strings.TrimSpace(sheet.Cell(r, 0).Value)
		if wlCell == "" {
			break
		}
		wl, err := strconv.ParseFloat(wlCell, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: worksheet %s wavelength %q: %v",
				ErrInvalidSpectralData, sheet.Name, wlCell, err)
		}
		wavelengths = append(wavelengths, wl)

		for c := 0; c < numCols; c++ {
			cell := strings.TrimSpace(sheet.Cell(r, c+1).Value)
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: worksheet %s cell (%d,%d): %v",
					ErrInvalidSpectralData, sheet.Name, r, c+1, err)
			}
			columns[c] = append(columns[c], v)
		}
	}
	return wavelengths, columns, nil
}
