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

import "fmt"

// ShapeError reports a per-band input whose length does not match the
// expected number of spectral bands. It is returned before any computation
// takes place.
type ShapeError struct {
	Input    string // name of the offending input
	Len      int    // actual length
	NumBands int    // expected length
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("sambuca: %s has %d bands; expected %d",
		e.Input, e.Len, e.NumBands)
}

// checkShape returns a ShapeError if the given per-band sequence does not
// have exactly numBands values.
func checkShape(name string, s []float64, numBands int) error {
	if len(s) != numBands {
		return &ShapeError{Input: name, Len: len(s), NumBands: numBands}
	}
	return nil
}
