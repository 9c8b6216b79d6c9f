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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeENVILibrary writes an ENVI spectral library pair to dir for testing.
func writeENVILibrary(t *testing.T, dir, base string, wavelengths []float64,
	names []string, spectra [][]float64, dataType, byteOrder int) {
	t.Helper()

	wlStrings := make([]string, len(wavelengths))
	for i, wl := range wavelengths {
		wlStrings[i] = fmt.Sprintf("%g", wl)
	}
	hdr := fmt.Sprintf(`ENVI
description = {
  test spectral library}
samples = %d
lines = %d
bands = 1
data type = %d
interleave = bsq
byte order = %d
wavelength units = Nanometers
wavelength = {
  %s}
spectra names = {
  %s}
`, len(wavelengths), len(spectra), dataType, byteOrder,
		strings.Join(wlStrings, ", "), strings.Join(names, ", "))

	if err := os.WriteFile(filepath.Join(dir, base+".hdr"), []byte(hdr), 0644); err != nil {
		t.Fatal(err)
	}

	var order binary.ByteOrder = binary.LittleEndian
	if byteOrder == 1 {
		order = binary.BigEndian
	}
	buf := &bytes.Buffer{}
	for _, spectrum := range spectra {
		for _, v := range spectrum {
			var err error
			if dataType == 4 {
				err = binary.Write(buf, order, float32(v))
			} else {
				err = binary.Write(buf, order, v)
			}
			if err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := os.WriteFile(filepath.Join(dir, base+".lib"), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func testWavelengths(start, n int) []float64 {
	wl := make([]float64, n)
	for i := range wl {
		wl[i] = float64(start + i)
	}
	return wl
}

func TestLoadENVISpectralLibrary(t *testing.T) {
	const tolerance = 1.e-6 // the data file holds 32-bit floats

	dir := t.TempDir()
	wavelengths := testWavelengths(350, 5)
	names := []string{"Acropora", "sand", "Turf Algae"}
	spectra := [][]float64{
		{0.11, 0.12, 0.13, 0.14, 0.15},
		{0.31, 0.32, 0.33, 0.34, 0.35},
		{0.21, 0.22, 0.23, 0.24, 0.25},
	}
	writeENVILibrary(t, dir, "HI_3", wavelengths, names, spectra, 4, 0)

	lib, err := LoadENVISpectralLibrary(dir, "HI_3")
	if err != nil {
		t.Fatal(err)
	}
	if len(lib) != 3 {
		t.Fatalf("loaded %d spectra; expected 3", len(lib))
	}

	for i, name := range names {
		s, ok := lib[SpectrumName("HI_3", name)]
		if !ok {
			t.Errorf("spectrum %q not loaded", name)
			continue
		}
		if s.Len() != len(wavelengths) {
			t.Errorf("%s: %d bands; expected %d", name, s.Len(), len(wavelengths))
			continue
		}
		for j := range wavelengths {
			if s.Wavelengths[j] != wavelengths[j] {
				t.Errorf("%s band %d: wavelength %g; expected %g",
					name, j, s.Wavelengths[j], wavelengths[j])
			}
			if math.Abs(s.Values[j]-spectra[i][j]) > tolerance {
				t.Errorf("%s band %d: value %g; expected %g",
					name, j, s.Values[j], spectra[i][j])
			}
		}
	}
}

func TestLoadENVIFloat64BigEndian(t *testing.T) {
	dir := t.TempDir()
	wavelengths := testWavelengths(400, 4)
	spectra := [][]float64{{0.5, 0.25, 0.125, 0.0625}}
	writeENVILibrary(t, dir, "lib64", wavelengths, []string{"sand"}, spectra, 5, 1)

	lib, err := LoadENVISpectralLibrary(dir, "lib64")
	if err != nil {
		t.Fatal(err)
	}
	s, ok := lib["lib64:sand"]
	if !ok {
		t.Fatal("spectrum not loaded")
	}
	for j, want := range spectra[0] {
		// 64-bit data round-trips exactly.
		if s.Values[j] != want {
			t.Errorf("band %d: value %g; expected %g", j, s.Values[j], want)
		}
	}
}

func TestLoadENVIMissingFile(t *testing.T) {
	_, err := LoadENVISpectralLibrary(t.TempDir(), "missing_file")
	if err == nil {
		t.Fatal("expected an error for a missing library")
	}
	if !os.IsNotExist(errors.Unwrap(err)) && !os.IsNotExist(err) {
		t.Errorf("expected a not-exist error; got %v", err)
	}
}

func TestLoadENVIRejectsNon1nmBands(t *testing.T) {
	dir := t.TempDir()
	wavelengths := []float64{350, 352, 354} // 2nm spacing
	spectra := [][]float64{{0.1, 0.2, 0.3}}
	writeENVILibrary(t, dir, "coarse", wavelengths, []string{"sand"}, spectra, 4, 0)

	_, err := LoadENVISpectralLibrary(dir, "coarse")
	if !errors.Is(err, ErrInvalidSpectralData) {
		t.Errorf("expected ErrInvalidSpectralData; got %v", err)
	}
}

func TestLoadENVIUnsupportedDataType(t *testing.T) {
	dir := t.TempDir()
	wavelengths := testWavelengths(350, 3)
	spectra := [][]float64{{0.1, 0.2, 0.3}}
	// data type 2 is 16-bit integer, which spectral libraries don't use.
	writeENVILibrary(t, dir, "int16", wavelengths, []string{"sand"}, spectra, 5, 0)
	hdr, err := os.ReadFile(filepath.Join(dir, "int16.hdr"))
	if err != nil {
		t.Fatal(err)
	}
	fixed := strings.Replace(string(hdr), "data type = 5", "data type = 2", 1)
	if err := os.WriteFile(filepath.Join(dir, "int16.hdr"), []byte(fixed), 0644); err != nil {
		t.Fatal(err)
	}

	_, err = LoadENVISpectralLibrary(dir, "int16")
	if !errors.Is(err, ErrInvalidSpectralData) {
		t.Errorf("expected ErrInvalidSpectralData; got %v", err)
	}
}
