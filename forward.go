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

import "math"

// ModelParameters holds the scalar SIOP and geometry parameters of the
// forward model. The default values derive from the calibration literature
// behind the original Sambuca implementation and must not drift; use
// DefaultModelParameters and override individual fields as needed.
type ModelParameters struct {
	// SlopeCDOM is the spectral slope of CDOM absorption [1/nm].
	SlopeCDOM float64

	// SlopeNAP is the spectral slope of non-algal particulate
	// absorption [1/nm].
	SlopeNAP float64

	// SlopeBackscatter is the exponent of the particulate backscatter
	// power law.
	SlopeBackscatter float64

	// Lambda0CDOM is the reference wavelength for CDOM absorption [nm].
	Lambda0CDOM float64

	// Lambda0NAP is the reference wavelength for NAP absorption [nm].
	Lambda0NAP float64

	// Lambda0X is the reference wavelength for particulate
	// backscatter [nm].
	Lambda0X float64

	// XPhLambda0X is the specific backscatter of phytoplankton
	// at Lambda0X.
	XPhLambda0X float64

	// XNAPLambda0X is the specific backscatter of non-algal particulates
	// at Lambda0X.
	XNAPLambda0X float64

	// ACDOMLambda0CDOM is the CDOM absorption at Lambda0CDOM.
	ACDOMLambda0CDOM float64

	// ANAPLambda0NAP is the NAP specific absorption at Lambda0NAP.
	ANAPLambda0NAP float64

	// BBLambdaRef is the reference wavelength for pure-water
	// backscatter [nm].
	BBLambdaRef float64

	// WaterRefractiveIndex is the refractive index of the water column
	// relative to air.
	WaterRefractiveIndex float64

	// ThetaAir is the solar zenith angle above the surface [degrees].
	ThetaAir float64

	// OffNadir is the off-nadir viewing angle [degrees].
	OffNadir float64
}

// DefaultModelParameters returns the published Sambuca calibration defaults.
func DefaultModelParameters() ModelParameters {
	return ModelParameters{
		SlopeCDOM:            0.0168052,
		SlopeNAP:             0.00977262,
		SlopeBackscatter:     0.878138,
		Lambda0CDOM:          550.0,
		Lambda0NAP:           550.0,
		Lambda0X:             546.0,
		XPhLambda0X:          0.00157747,
		XNAPLambda0X:         0.0225353,
		ACDOMLambda0CDOM:     1.0,
		ANAPLambda0NAP:       0.00433,
		BBLambdaRef:          550.0,
		WaterRefractiveIndex: RefractiveIndexSeawater,
		ThetaAir:             30.0,
		OffNadir:             0.0,
	}
}

// Substratum describes the benthic substrate under the modelled water
// column: either a single substrate spectrum, or a convex combination of
// two substrate spectra. The blend fraction only exists in the two-substrate
// form, so "fraction is ignored when there is no second substrate" holds by
// construction.
type Substratum struct {
	r1, r2   []float64
	fraction float64
	blended  bool
}

// SingleSubstratum returns a Substratum consisting only of the given
// substrate reflectance spectrum.
func SingleSubstratum(r []float64) Substratum {
	return Substratum{r1: r}
}

// BlendedSubstratum returns a Substratum combining two substrate
// reflectance spectra as fraction*r1 + (1-fraction)*r2 per band.
// fraction is intended to lie in [0,1] but is not enforced.
func BlendedSubstratum(r1, r2 []float64, fraction float64) Substratum {
	return Substratum{r1: r1, r2: r2, fraction: fraction, blended: true}
}

// ForwardModelResults holds the output spectra of a forward model run.
// Every field has one value per wavelength band. The arrays are freshly
// allocated on each invocation and should be treated as read-only.
type ForwardModelResults struct {
	// RSubstratum is the combined benthic substrate reflectance.
	RSubstratum []float64

	// Rrs is the modelled remotely-sensed reflectance.
	Rrs []float64

	// Rrsdp is the modelled remotely-sensed reflectance for optically
	// deep water: the asymptote an infinitely deep column would exhibit.
	Rrsdp []float64

	// Kd is the downwelling attenuation coefficient.
	Kd []float64

	// Kub is the upwelling attenuation coefficient for the
	// bottom-reflected path.
	Kub []float64

	// Kuc is the upwelling attenuation coefficient for the
	// water-column-scattered path.
	Kuc []float64

	// A is the total absorption.
	A []float64

	// Bb is the total backscatter.
	Bb []float64
}

// ForwardModel computes the semi-analytical Lee/Sambuca forward model of
// shallow-water remote-sensing reflectance.
//
// chl, cdom and nap are the concentrations of chlorophyll, coloured
// dissolved organic matter and non-algal particulates (tripton); depth is
// the water column depth. awater is the absorption of pure water and
// aphyStar the specific absorption of phytoplankton, both per band on the
// same grid as wavelengths (nanometres). numBands is the expected number of
// bands; every per-band input must have exactly that length or a ShapeError
// is returned before any computation.
//
// The function is deterministic and free of side effects, so independent
// calls may run concurrently. Physically degenerate inputs (zero total
// attenuation, grazing sub-surface angles) propagate as Inf or NaN in the
// affected bands rather than returning an error; this matches the validated
// reference implementation and is deliberate.
func ForwardModel(
	chl, cdom, nap, depth float64,
	substratum Substratum,
	wavelengths, awater, aphyStar []float64,
	numBands int,
	p ModelParameters,
) (*ForwardModelResults, error) {

	if err := checkShape("substrate1", substratum.r1, numBands); err != nil {
		return nil, err
	}
	if substratum.blended {
		if err := checkShape("substrate2", substratum.r2, numBands); err != nil {
			return nil, err
		}
	}
	if err := checkShape("wavelengths", wavelengths, numBands); err != nil {
		return nil, err
	}
	if err := checkShape("awater", awater, numBands); err != nil {
		return nil, err
	}
	if err := checkShape("aphy_star", aphyStar, numBands); err != nil {
		return nil, err
	}

	// Sub-surface solar zenith and viewing angles in radians, from
	// Snell's law refraction at the air-water interface.
	invRefract := 1.0 / p.WaterRefractiveIndex
	thetaW := math.Asin(invRefract * math.Sin(p.ThetaAir*math.Pi/180.0))
	theta0 := math.Asin(invRefract * math.Sin(p.OffNadir*math.Pi/180.0))

	invCosThetaW := 1.0 / math.Cos(thetaW)
	invCosTheta0 := 1.0 / math.Cos(theta0)

	r := &ForwardModelResults{
		RSubstratum: make([]float64, numBands),
		Rrs:         make([]float64, numBands),
		Rrsdp:       make([]float64, numBands),
		Kd:          make([]float64, numBands),
		Kub:         make([]float64, numBands),
		Kuc:         make([]float64, numBands),
		A:           make([]float64, numBands),
		Bb:          make([]float64, numBands),
	}

	for i := 0; i < numBands; i++ {
		wl := wavelengths[i]

		// Derived SIOPs, based on Mobley, Curtis D., 1994:
		// Radiative Transfer in Natural Waters.
		bbWater := (0.00194 / 2.0) * math.Pow(p.BBLambdaRef/wl, 4.32)
		aCDOMStar := p.ACDOMLambda0CDOM * math.Exp(-p.SlopeCDOM*(wl-p.Lambda0CDOM))
		aNAPStar := p.ANAPLambda0NAP * math.Exp(-p.SlopeNAP*(wl-p.Lambda0NAP))

		// Particulate backscatter shape, scaled for phytoplankton
		// and tripton.
		backscatter := math.Pow(p.Lambda0X/wl, p.SlopeBackscatter)
		bbPhStar := p.XPhLambda0X * backscatter
		bbNAPStar := p.XNAPLambda0X * backscatter

		// Total absorption and backscatter. CDOM contributes no
		// backscatter by model assumption.
		a := awater[i] + chl*aphyStar[i] + cdom*aCDOMStar + nap*aNAPStar
		bb := bbWater + chl*bbPhStar + nap*bbNAPStar

		// Total bottom reflectance from the substrate(s).
		rSub := substratum.r1[i]
		if substratum.blended {
			rSub = substratum.fraction*substratum.r1[i] +
				(1.0-substratum.fraction)*substratum.r2[i]
		}

		kappa := a + bb
		u := bb / kappa

		// Optical path elongation for scattered photons, from the
		// water column and from the bottom.
		duColumn := 1.03 * math.Sqrt(1.0+2.40*u)
		duBottom := 1.04 * math.Sqrt(1.0+5.40*u)

		// Remotely sensed sub-surface reflectance for optically
		// deep water.
		rrsdp := (0.084 + 0.17*u) * u

		duColumnScaled := duColumn * invCosTheta0
		duBottomScaled := duBottom * invCosTheta0

		kappaDepth := kappa * depth
		rrs := rrsdp*(1.0-math.Exp(-(invCosThetaW+duColumnScaled)*kappaDepth)) +
			(1.0/math.Pi)*rSub*math.Exp(-(invCosThetaW+duBottomScaled)*kappaDepth)

		r.RSubstratum[i] = rSub
		r.Rrs[i] = rrs
		r.Rrsdp[i] = rrsdp
		r.Kd[i] = kappa * invCosThetaW
		r.Kub[i] = kappa * duBottomScaled
		r.Kuc[i] = kappa * duColumnScaled
		r.A[i] = a
		r.Bb[i] = bb
	}

	return r, nil
}
