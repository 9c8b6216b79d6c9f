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
	"gonum.org/v1/gonum/mat"
)

// SensorFilter is the spectral response of a sensor. Each row of Response
// gives the proportional contribution of every input band to one output
// band; Wavelengths holds the band-centre wavelengths of the input
// (column) dimension.
type SensorFilter struct {
	Wavelengths []float64
	Response    *mat.Dense
}

// Bands returns the number of output bands and input bands of the filter.
func (f *SensorFilter) Bands() (out, in int) {
	return f.Response.Dims()
}

// ApplySensorFilter reduces a spectrum with a sensor spectral-response
// matrix. Each output band is the response-weighted average of the input
// bands: the weighted sum divided by the total weight of the row. The
// number of columns in the response matrix must equal the number of bands
// in the spectrum.
func ApplySensorFilter(spectrum []float64, response *mat.Dense) ([]float64, error) {
	rows, cols := response.Dims()
	if err := checkShape("spectrum", spectrum, cols); err != nil {
		return nil, err
	}

	var weighted mat.VecDense
	weighted.MulVec(response, mat.NewVecDense(cols, spectrum))

	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		rowSum := 0.0
		for j := 0; j < cols; j++ {
			rowSum += response.At(i, j)
		}
		out[i] = weighted.AtVec(i) / rowSum
	}
	return out, nil
}

// Apply reduces a spectrum with this filter's response matrix.
func (f *SensorFilter) Apply(spectrum []float64) ([]float64, error) {
	return ApplySensorFilter(spectrum, f.Response)
}
