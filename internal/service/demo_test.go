package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"

	"sensitivity-calc.klederson.com/internal/calc"
)

func instantDemo() *DemoClient {
	return NewDemoClient(WithLatency(0, 0))
}

func TestLookupBands(t *testing.T) {
	assert.Equal(t, []string{"ALMA_RB_07"}, LookupBands(345))
	assert.Equal(t, []string{"ALMA_RB_02", "ALMA_RB_03"}, LookupBands(100))
	assert.Empty(t, LookupBands(60))
	assert.NotNil(t, LookupBands(60))

	b, ok := LookupBand("ALMA_RB_10")
	require.True(t, ok)
	assert.Equal(t, 787.0, b.MinGHz)
	_, ok = LookupBand("ALMA_RB_11")
	assert.False(t, ok)
}

func TestDemoAtmosphere(t *testing.T) {
	d := instantDemo()
	ctx := context.Background()

	manual, err := d.Atmosphere(ctx, calc.OctileLookup{Band: "ALMA_RB_07", Octile: 3, FreqGHz: 345, DecDegrees: -23})
	require.NoError(t, err)
	assert.Equal(t, 3, manual.Octile)
	assert.Contains(t, manual.TauAndTsky, "tau=")
	assert.Greater(t, manual.Tsys, 75.0)

	best, err := d.Atmosphere(ctx, calc.OctileLookup{Band: "ALMA_RB_09", BestFit: true, FreqGHz: 650, DecDegrees: -23})
	require.NoError(t, err)
	assert.Less(t, best.Octile, 3, "high bands need dry weather")

	drier, err := d.Atmosphere(ctx, calc.OctileLookup{Band: "ALMA_RB_07", Octile: 0, FreqGHz: 345, DecDegrees: -23})
	require.NoError(t, err)
	assert.Less(t, drier.Tsys, manual.Tsys)
}

func TestDemoFrequencyErrors(t *testing.T) {
	d := instantDemo()
	ctx := context.Background()

	_, err := d.Atmosphere(ctx, calc.OctileLookup{Band: "ALMA_RB_07", FreqGHz: 1000})
	assert.Regexp(t, `^Invalid frequency:`, Message(err))

	_, err = d.Atmosphere(ctx, calc.OctileLookup{Band: "ALMA_RB_03", FreqGHz: 345})
	assert.Regexp(t, `^Unknown frequency:`, Message(err))

	reply, err := d.Atmosphere(ctx, calc.OctileLookup{Band: calc.UnknownBand, FreqGHz: 345})
	require.NoError(t, err)
	assert.Equal(t, 0, reply.Octile)
}

func TestDemoRadiometer(t *testing.T) {
	d := instantDemo()
	ctx := context.Background()
	obs := testObservation()

	jy60, err := d.Sensitivity(ctx, obs, 60)
	require.NoError(t, err)
	jy240, err := d.Sensitivity(ctx, obs, 240)
	require.NoError(t, err)
	assert.True(t, scalar.EqualWithinRel(jy60/2, jy240, 1e-12), "noise falls with the square root of time")

	sec, err := d.IntegrationTime(ctx, obs, jy60)
	require.NoError(t, err)
	assert.True(t, scalar.EqualWithinRel(60, sec, 1e-9), "got %v", sec)

	dual := obs
	dual.Polarisation = calc.Dual
	jyDual, err := d.Sensitivity(ctx, dual, 60)
	require.NoError(t, err)
	assert.InDelta(t, jy60/math.Sqrt2, jyDual, 1e-15)
}

func TestDemoRejectsBadInput(t *testing.T) {
	d := instantDemo()
	ctx := context.Background()

	obs := testObservation()
	obs.Antennas = 1
	_, err := d.Sensitivity(ctx, obs, 60)
	assert.Equal(t, "An interferometer needs at least 2 antennas", Message(err))

	obs.Array = calc.TotalPower
	_, err = d.Sensitivity(ctx, obs, 60)
	assert.NoError(t, err)

	_, err = d.Sensitivity(ctx, testObservation(), 0)
	assert.Equal(t, "Integration time must be positive", Message(err))

	_, err = d.IntegrationTime(ctx, testObservation(), -1)
	assert.Equal(t, "Sensitivity must be positive", Message(err))
}

func TestDemoHonoursCancellation(t *testing.T) {
	d := NewDemoClient(WithLatency(time.Hour, time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.ReceiverBands(ctx, 345)
	assert.ErrorIs(t, err, context.Canceled)
}
