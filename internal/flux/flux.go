// Package flux holds the radio-astronomy formulas the calculator consumes:
// Rayleigh-Jeans flux/brightness conversion, beam sizes and velocity widths.
package flux

import (
	"math"

	"gonum.org/v1/gonum/unit/constant"
)

const (
	// ArcsecPerRadian converts an angle in radians to arcseconds.
	ArcsecPerRadian = 180 * 3600 / math.Pi

	// JanskyInSI is one jansky in W m^-2 Hz^-1.
	JanskyInSI = 1e-26

	// TotalPowerDishM is the diameter of a total-power antenna.
	TotalPowerDishM = 12.0

	// totalPowerBeamFactor scales lambda/D to the primary beam FWHM.
	totalPowerBeamFactor = 1.13
)

var (
	speedOfLight = float64(constant.LightSpeedInVacuum)
	boltzmann    = float64(constant.Boltzmann)
)

// BeamSolidAngle returns the solid angle in steradians of a Gaussian beam
// with the given FWHM in arcseconds.
func BeamSolidAngle(beamArcsec float64) float64 {
	theta := beamArcsec / ArcsecPerRadian
	return math.Pi * theta * theta / (4 * math.Ln2)
}

// rjFactor is the Rayleigh-Jeans factor K per Jy for a frequency and beam.
func rjFactor(freqGHz, beamArcsec float64) float64 {
	nu := freqGHz * 1e9
	return JanskyInSI * speedOfLight * speedOfLight / (2 * boltzmann * nu * nu * BeamSolidAngle(beamArcsec))
}

// ToBrightnessTemp converts a flux density in Jy to a brightness
// temperature in K for the given frequency and beam size.
func ToBrightnessTemp(fluxJy, freqGHz, beamArcsec float64) float64 {
	return fluxJy * rjFactor(freqGHz, beamArcsec)
}

// ToFluxSensitivity converts a brightness temperature in K to a flux
// density in Jy. It is the inverse of ToBrightnessTemp.
func ToFluxSensitivity(tempK, freqGHz, beamArcsec float64) float64 {
	return tempK / rjFactor(freqGHz, beamArcsec)
}

// WavelengthM returns the wavelength in metres for a frequency in GHz.
func WavelengthM(freqGHz float64) float64 {
	return speedOfLight / (freqGHz * 1e9)
}

// SyntheticBeamsize returns the synthesised beam in arcseconds of an
// interferometer with the given baseline in metres.
func SyntheticBeamsize(freqGHz, baselineM float64) float64 {
	return WavelengthM(freqGHz) / baselineM * ArcsecPerRadian
}

// TotalPowerBeamsize returns the primary beam FWHM in arcseconds of a
// single 12 m dish.
func TotalPowerBeamsize(freqGHz float64) float64 {
	return totalPowerBeamFactor * WavelengthM(freqGHz) / TotalPowerDishM * ArcsecPerRadian
}

// VelocityToGHz converts a velocity width in km/s to a frequency width in
// GHz at the observing frequency.
func VelocityToGHz(velocityKmS, freqGHz float64) float64 {
	return freqGHz * velocityKmS * 1e3 / speedOfLight
}

// GHzToVelocity is the inverse of VelocityToGHz.
func GHzToVelocity(widthGHz, freqGHz float64) float64 {
	return widthGHz * speedOfLight / (freqGHz * 1e3)
}
