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
	"math"
	"testing"

	"github.com/tealeg/xlsx"
)

// addFilterSheet adds a worksheet in the sensor filter layout: no header
// row; the first column holds wavelengths and each remaining column the
// response of one output band.
func addFilterSheet(t *testing.T, f *xlsx.File, name string,
	wavelengths []float64, bands [][]float64) {
	t.Helper()

	sheet, err := f.AddSheet(name)
	if err != nil {
		t.Fatal(err)
	}
	for i, wl := range wavelengths {
		row := sheet.AddRow()
		row.AddCell().SetFloat(wl)
		for _, band := range bands {
			row.AddCell().SetFloat(band[i])
		}
	}
}

// threeBandWorkbook builds a workbook holding one valid filter with
// constant responses 1, 2 and 3, plus an invalid worksheet.
func threeBandWorkbook(t *testing.T) *xlsx.File {
	t.Helper()

	f := xlsx.NewFile()
	wavelengths := testWavelengths(350, 6)
	constant := func(v float64) []float64 {
		band := make([]float64, len(wavelengths))
		for i := range band {
			band[i] = v
		}
		return band
	}
	addFilterSheet(t, f, "3_band_350_355", wavelengths,
		[][]float64{constant(1), constant(2), constant(3)})
	addFilterSheet(t, f, "wavelengths_out_of_sequence",
		[]float64{350, 352, 351, 353, 354, 355},
		[][]float64{constant(1)})
	return f
}

func TestSensorFiltersFromExcelFile(t *testing.T) {
	f := threeBandWorkbook(t)

	filters, err := SensorFiltersFromExcelFile(f, nil)
	if err != nil {
		t.Fatal(err)
	}
	// The out-of-sequence worksheet must be skipped.
	if len(filters) != 1 {
		t.Fatalf("loaded %d filters; expected 1", len(filters))
	}

	filter, ok := filters["3_band_350_355"]
	if !ok {
		t.Fatal("filter not loaded")
	}
	out, in := filter.Bands()
	if out != 3 || in != 6 {
		t.Fatalf("filter shape (%d, %d); expected (3, 6)", out, in)
	}
	for j := 0; j < in; j++ {
		for i := 0; i < out; i++ {
			if got := filter.Response.At(i, j); got != float64(i+1) {
				t.Errorf("response (%d,%d) = %g; expected %d", i, j, got, i+1)
			}
		}
	}
}

func TestSensorFiltersNormalise(t *testing.T) {
	const tolerance = 1.e-12

	f := threeBandWorkbook(t)
	filters, err := SensorFiltersFromExcelFile(f, &FilterOptions{Normalise: true})
	if err != nil {
		t.Fatal(err)
	}
	filter := filters["3_band_350_355"]

	_, in := filter.Bands()
	want := []float64{1.0 / 3.0, 2.0 / 3.0, 1.0}
	for i, w := range want {
		for j := 0; j < in; j++ {
			if math.Abs(filter.Response.At(i, j)-w) > tolerance {
				t.Errorf("normalised response (%d,%d) = %g; expected %g",
					i, j, filter.Response.At(i, j), w)
			}
		}
	}
}

func TestSensorFiltersSheetSelection(t *testing.T) {
	f := threeBandWorkbook(t)

	// Missing and invalid worksheets are skipped without error.
	filters, err := SensorFiltersFromExcelFile(f, &FilterOptions{
		SheetNames: []string{
			"3_band_350_355",
			"Monty_Hall",
			"wavelengths_out_of_sequence",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(filters) != 1 {
		t.Fatalf("loaded %d filters; expected 1", len(filters))
	}
	if _, ok := filters["3_band_350_355"]; !ok {
		t.Error("requested filter was not loaded")
	}
}

func TestSensorFiltersUnknownSheetDoesNotError(t *testing.T) {
	f := threeBandWorkbook(t)
	filters, err := SensorFiltersFromExcelFile(f, &FilterOptions{
		SheetNames: []string{"non_existant"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(filters) != 0 {
		t.Errorf("loaded %d filters; expected 0", len(filters))
	}
}
