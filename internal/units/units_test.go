package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestUnitTableIsComplete(t *testing.T) {
	for u := Invalid + 1; u < numUnits; u++ {
		assert.NotEqual(t, FamilyUnknown, u.Family(), "unit %d has no family", u)
		assert.NotEmpty(t, u.String())
		assert.Positive(t, u.Scale())
	}
}

func TestParse(t *testing.T) {
	tests := map[string]struct {
		symbol  string
		family  Family
		want    Unit
		wantErr bool
	}{
		"frequency":                   {symbol: "GHz", family: FamilyFrequency, want: GHz},
		"frequency as bandwidth":      {symbol: "MHz", family: FamilyBandwidth, want: MHz},
		"velocity bandwidth":          {symbol: "km/s", family: FamilyBandwidth, want: KmPerS},
		"velocity is not a frequency": {symbol: "km/s", family: FamilyFrequency, wantErr: true},
		"temperature":                 {symbol: "mK", family: FamilyTemperature, want: MilliKelvin},
		"kelvin is not flux":          {symbol: "K", family: FamilyFlux, wantErr: true},
		"unknown symbol":              {symbol: "furlong", family: FamilyTime, wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(tc.symbol, tc.family)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnknownUnit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRescaleRoundTrip(t *testing.T) {
	families := []Family{FamilyFrequency, FamilyTime, FamilyResolution, FamilyFlux, FamilyTemperature}
	values := []float64{0, 1, 0.00042, 345, 197.67559092477822, 86400}
	for _, f := range families {
		for _, from := range Choices(f) {
			for _, to := range Choices(f) {
				for _, v := range values {
					there, err := Rescale(v, from, to)
					require.NoError(t, err)
					back, err := Rescale(there, to, from)
					require.NoError(t, err)
					assert.True(t, scalar.EqualWithinAbsOrRel(v, back, 1e-5, 1e-9),
						"%v %s -> %s -> %s gave %v", v, from, to, from, back)
				}
			}
		}
	}
}

func TestRescale(t *testing.T) {
	v, err := Rescale(345, GHz, MHz)
	require.NoError(t, err)
	assert.InDelta(t, 345000, v, 1e-9)

	v, err = Rescale(2, Minute, Second)
	require.NoError(t, err)
	assert.InDelta(t, 120, v, 1e-12)
}

func TestRescaleErrorsLeaveValueUnchanged(t *testing.T) {
	v, err := Rescale(12, Jansky, Kelvin)
	assert.ErrorIs(t, err, ErrFamilyMismatch)
	assert.Equal(t, 12.0, v)

	v, err = Rescale(12, Invalid, Kelvin)
	assert.ErrorIs(t, err, ErrUnknownUnit)
	assert.Equal(t, 12.0, v)

	v, err = Rescale(12, KmPerS, GHz)
	assert.ErrorIs(t, err, ErrFamilyMismatch)
	assert.Equal(t, 12.0, v)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 2.08333, Round(125.0/60, 5))
	assert.Equal(t, 0.00001, Round(0.000005, 5))
	assert.Equal(t, -0.00001, Round(-0.000005, 5))
	assert.Equal(t, 197.67559, Round(197.67559092477822, 5))
	assert.True(t, math.IsNaN(Round(math.NaN(), 5)))
	assert.True(t, math.IsInf(Round(math.Inf(1), 5), 1))
}

func TestBestFit(t *testing.T) {
	tests := map[string]struct {
		magnitude  float64
		candidates []Unit
		want       Unit
	}{
		"125 seconds":       {magnitude: 125, candidates: Candidates(FamilyTime), want: Minute},
		"60 seconds":        {magnitude: 60, candidates: Candidates(FamilyTime), want: Second},
		"two days":          {magnitude: 2 * 86400, candidates: Candidates(FamilyTime), want: Hour},
		"ten days":          {magnitude: 10 * 86400, candidates: Candidates(FamilyTime), want: Day},
		"micro jansky":      {magnitude: 197.67559092477822e-6, candidates: Candidates(FamilyFlux), want: MicroJansky},
		"milli jansky":      {magnitude: 2.48e-3, candidates: Candidates(FamilyFlux), want: MilliJansky},
		"kelvin":            {magnitude: 12, candidates: Candidates(FamilyTemperature), want: Kelvin},
		"milli kelvin":      {magnitude: 1.74e-4, candidates: Candidates(FamilyTemperature), want: MilliKelvin},
		"zero is first":     {magnitude: 0, candidates: Candidates(FamilyFlux), want: MicroJansky},
		"negative is first": {magnitude: -3, candidates: Candidates(FamilyTime), want: Nanosecond},
		"nan is first":      {magnitude: math.NaN(), candidates: Candidates(FamilyTemperature), want: MilliKelvin},
		"tie goes first":    {magnitude: 5, candidates: []Unit{Jansky, Kelvin}, want: Jansky},
		"tie order matters": {magnitude: 5, candidates: []Unit{Kelvin, Jansky}, want: Kelvin},
		"no candidates":     {magnitude: 1, candidates: nil, want: Invalid},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, BestFit(tc.magnitude, tc.candidates))
		})
	}
}

func TestBestFitIsStable(t *testing.T) {
	for _, m := range []float64{1e-9, 3.3e-6, 0.5, 7, 42, 1e3, 1e6} {
		for _, f := range []Family{FamilyFlux, FamilyTemperature, FamilyTime} {
			u := BestFit(m, Candidates(f))
			v := FromBase(m, u)
			assert.Equal(t, u, BestFit(ToBase(v, u), Candidates(f)))
		}
	}
}

func TestFitValue(t *testing.T) {
	v, u := FitValue(125, FamilyTime, DisplayPlaces)
	assert.Equal(t, Minute, u)
	assert.Equal(t, 2.08333, v)
}

func TestNext(t *testing.T) {
	assert.Equal(t, Kelvin, Next(MilliKelvin, FamilyTemperature))
	assert.Equal(t, MilliKelvin, Next(Kelvin, FamilyTemperature))
	assert.Equal(t, KmPerS, Next(MPerS, FamilyBandwidth))
	assert.Equal(t, Hz, Next(KmPerS, FamilyBandwidth))
}

func TestOpposite(t *testing.T) {
	assert.Equal(t, FamilyTemperature, FamilyFlux.Opposite())
	assert.Equal(t, FamilyFlux, FamilyTemperature.Opposite())
	assert.Equal(t, FamilyTime, FamilyTime.Opposite())
	assert.True(t, FamilyFlux.IsSensitivity())
	assert.False(t, FamilyResolution.IsSensitivity())
}
