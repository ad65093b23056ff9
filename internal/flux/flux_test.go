package flux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestCrossConvertSymmetry(t *testing.T) {
	for _, freq := range []float64{35, 100, 345, 950} {
		for _, beam := range []float64{0.01, 0.5, 9.5, 60} {
			for _, temp := range []float64{1e-4, 0.174e-3, 1, 250} {
				got := ToBrightnessTemp(ToFluxSensitivity(temp, freq, beam), freq, beam)
				assert.True(t, scalar.EqualWithinRel(temp, got, 1e-12), "freq=%v beam=%v temp=%v got=%v", freq, beam, temp, got)
			}
		}
	}
}

func TestToBrightnessTemp(t *testing.T) {
	// 1 Jy in a 1 arcsec beam at 345 GHz is roughly 10 K.
	assert.InDelta(t, 10.27, ToBrightnessTemp(1, 345, 1), 0.01)
	assert.Zero(t, ToBrightnessTemp(0, 345, 9.5))
	// Scales inversely with the beam area.
	assert.InDelta(t, ToBrightnessTemp(1, 345, 1)/4, ToBrightnessTemp(1, 345, 2), 1e-12)
}

func TestBeamsizes(t *testing.T) {
	assert.InDelta(t, 16.88, TotalPowerBeamsize(345), 0.01)
	// 12 m array longest baseline at 345 GHz.
	assert.InDelta(t, 0.00112, SyntheticBeamsize(345, 160000), 1e-5)
	// 7 m array shortest baseline at 345 GHz.
	assert.InDelta(t, 7.17, SyntheticBeamsize(345, 25), 0.01)
}

func TestVelocityToGHz(t *testing.T) {
	assert.InDelta(t, 345e-3*1/299.792458, VelocityToGHz(1, 345), 1e-15)
	assert.InDelta(t, 12.5, GHzToVelocity(VelocityToGHz(12.5, 230), 230), 1e-12)
}
