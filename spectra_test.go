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

package sambuca

import "testing"

func TestCommonWavelengths(t *testing.T) {
	one := []float64{1, 2, 3, 4, 5}
	two := []float64{2, 3, 4}

	mask := CommonWavelengths(one, two)
	want := []float64{2, 3, 4}
	if len(mask) != len(want) {
		t.Fatalf("got %d common wavelengths; expected %d", len(mask), len(want))
	}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("common wavelength %d: got %g; expected %g", i, mask[i], want[i])
		}
	}
}

func TestCommonWavelengthsDisjoint(t *testing.T) {
	mask := CommonWavelengths([]float64{1, 2}, []float64{3, 4})
	if len(mask) != 0 {
		t.Errorf("disjoint grids returned %d common wavelengths", len(mask))
	}
}

func TestApplyWavelengthMask(t *testing.T) {
	s := Spectrum{
		Wavelengths: []float64{1, 2, 3, 4, 5},
		Values:      []float64{10, 20, 30, 40, 50},
	}
	mask := CommonWavelengths(s.Wavelengths, []float64{2, 3, 4})

	masked := ApplyWavelengthMask(s, mask)
	if masked.Len() != len(mask) {
		t.Fatalf("masked spectrum has %d bands; expected %d", masked.Len(), len(mask))
	}
	wantWl := []float64{2, 3, 4}
	wantVal := []float64{20, 30, 40}
	for i := range wantWl {
		if masked.Wavelengths[i] != wantWl[i] {
			t.Errorf("wavelength %d: got %g; expected %g",
				i, masked.Wavelengths[i], wantWl[i])
		}
		if masked.Values[i] != wantVal[i] {
			t.Errorf("value %d: got %g; expected %g",
				i, masked.Values[i], wantVal[i])
		}
	}

	// The input must not be modified.
	if s.Len() != 5 {
		t.Error("masking modified the input spectrum")
	}
}

func TestStrictlyIncreasing(t *testing.T) {
	cases := []struct {
		s    []float64
		want bool
	}{
		{[]float64{1, 2, 3}, true},
		{[]float64{1}, true},
		{nil, true},
		{[]float64{1, 1, 2}, false},
		{[]float64{3, 2, 1}, false},
	}
	for _, c := range cases {
		if got := StrictlyIncreasing(c.s); got != c.want {
			t.Errorf("StrictlyIncreasing(%v) = %v; expected %v", c.s, got, c.want)
		}
	}
}
