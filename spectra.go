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

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Spectrum is a sequence of per-band values indexed by band-centre
// wavelengths in nanometres. Wavelengths and Values always have the
// same length.
type Spectrum struct {
	Wavelengths []float64
	Values      []float64
}

// Len returns the number of bands in the spectrum.
func (s Spectrum) Len() int { return len(s.Wavelengths) }

// CommonWavelengths returns the sorted set of wavelengths present in both
// grids. The input grids are expected to be strictly increasing, as
// produced by the spectral library loaders.
func CommonWavelengths(a, b []float64) []float64 {
	bSet := make(map[float64]struct{}, len(b))
	for _, w := range b {
		bSet[w] = struct{}{}
	}
	var common []float64
	for _, w := range a {
		if _, ok := bSet[w]; ok {
			common = append(common, w)
		}
	}
	sort.Float64s(common)
	return common
}

// ApplyWavelengthMask restricts a spectrum to the wavelength range spanned
// by mask, dropping every band outside [min(mask), max(mask)]. It returns
// a fresh Spectrum; the input is not modified.
func ApplyWavelengthMask(s Spectrum, mask []float64) Spectrum {
	lo := floats.Min(mask)
	hi := floats.Max(mask)

	var out Spectrum
	for i, w := range s.Wavelengths {
		if w >= lo && w <= hi {
			out.Wavelengths = append(out.Wavelengths, w)
			out.Values = append(out.Values, s.Values[i])
		}
	}
	return out
}

// StrictlyIncreasing reports whether every element of s is greater than
// the one before it.
func StrictlyIncreasing(s []float64) bool {
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			return false
		}
	}
	return true
}
