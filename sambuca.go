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

// Package sambuca implements the semi-analytical Lee/Sambuca forward model
// of shallow-water remote-sensing reflectance, along with utilities for
// applying sensor spectral-response filters and for aligning spectra to a
// common wavelength grid.
//
// All spectra are ordered sequences of per-band values indexed by a shared
// grid of band-centre wavelengths in nanometres. The model assumes every
// per-band input has already been reduced to the same grid; it validates
// lengths but not wavelength values. Spectral libraries in heterogeneous
// file formats can be loaded with the speclib sub-package.
package sambuca

// Version gives the version of this version of Sambuca.
const Version = "0.1.0"

// Refractive indices of natural waters, relative to air.
// Mobley, Curtis D., 1994: Radiative Transfer in Natural Waters.
const (
	RefractiveIndexSeawater   = 1.33784
	RefractiveIndexFreshwater = 1.33328
)
