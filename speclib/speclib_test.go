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
	"strings"
	"testing"

	sambuca "github.com/obarrilero/sambuca-core"
)

func TestMerge(t *testing.T) {
	dst := Library{"a:x": sambuca.Spectrum{}}
	src := Library{"b:y": sambuca.Spectrum{}}
	if err := Merge(dst, src); err != nil {
		t.Fatal(err)
	}
	if len(dst) != 2 {
		t.Errorf("merged library has %d spectra; expected 2", len(dst))
	}

	dup := Library{"a:x": sambuca.Spectrum{}}
	err := Merge(dst, dup)
	if err == nil {
		t.Fatal("expected an error for a duplicate spectrum name")
	}
	if !strings.Contains(err.Error(), "a:x") {
		t.Errorf("duplicate error does not name the spectrum: %v", err)
	}
}

func TestLoadSpectralLibraryDispatch(t *testing.T) {
	dir := t.TempDir()

	// An ENVI library referred to by its header file.
	writeENVILibrary(t, dir, "envi_lib", testWavelengths(350, 3),
		[]string{"sand"}, [][]float64{{0.1, 0.2, 0.3}}, 4, 0)
	lib, err := LoadSpectralLibrary(dir + "/envi_lib.hdr")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := lib["envi_lib:sand"]; !ok {
		t.Error("ENVI dispatch failed")
	}

	// A CSV library.
	path := writeTestFile(t, dir, "siop.csv", "wavelength,aw\n350,1\n351,2\n352,3\n")
	lib, err = LoadSpectralLibrary(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := lib["siop:aw"]; !ok {
		t.Error("CSV dispatch failed")
	}

	// Unsupported extensions are an error.
	if _, err := LoadSpectralLibrary(dir + "/spectra.nc"); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()

	writeENVILibrary(t, dir, "HI_3", testWavelengths(350, 4),
		[]string{"Acropora", "sand"},
		[][]float64{{0.1, 0.2, 0.3, 0.4}, {0.5, 0.6, 0.7, 0.8}}, 4, 0)
	writeTestFile(t, dir, "siop.csv", "wavelength,aw\n350,1\n351,2\n352,3\n353,4\n")
	// An invalid file is skipped, not an error.
	writeTestFile(t, dir, "coarse.csv", "wavelength,aw\n350,1\n352,2\n354,3\n")
	// Unrelated files are ignored.
	writeTestFile(t, dir, "README.txt", "not spectra")

	lib, err := LoadAll(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(lib) != 3 {
		t.Fatalf("loaded %d spectra; expected 3", len(lib))
	}
	for _, name := range []string{"HI_3:Acropora", "HI_3:sand", "siop:aw"} {
		if _, ok := lib[name]; !ok {
			t.Errorf("spectrum %q not loaded", name)
		}
	}
}
