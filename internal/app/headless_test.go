package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensitivity-calc.klederson.com/internal/calc"
	"sensitivity-calc.klederson.com/internal/logging"
	"sensitivity-calc.klederson.com/internal/service"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	store := calc.NewStore(calc.NewState(calc.DefaultSettings()))
	gw := service.NewGateway(
		service.NewDemoClient(service.WithLatency(0, time.Millisecond)),
		service.WithGatewayLogger(logging.NullLogger()),
	)
	return NewSession(store, gw, 4, logging.NullLogger())
}

func TestSessionSensitivity(t *testing.T) {
	sess := newTestSession(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := sess.Run(ctx, calc.Started{}, calc.CalculateSensitivity{})

	assert.Equal(t, "ALMA_RB_07", s.Band)
	assert.True(t, s.Atmosphere.Known)
	assert.False(t, s.FetchingOctile)
	assert.False(t, s.FetchingBands)
	for _, id := range calc.Arrays {
		a := s.Arrays[id]
		assert.Equal(t, calc.PhaseConsistent, s.SensitivityPhase(id), id.String())
		assert.Greater(t, a.Sensitivity.Base(), 0.0, id.String())
		assert.Len(t, sess.History().Results(id), 1, id.String())
	}
}

func TestSessionTime(t *testing.T) {
	sess := newTestSession(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	before := sess.Run(ctx, calc.Started{}, calc.CalculateSensitivity{})
	after := sess.Run(ctx, calc.CalculateTime{})

	// The sensitivity was computed for the current time, so the time
	// calculated from it comes back unchanged.
	for _, id := range calc.Arrays {
		assert.Equal(t, calc.Idle, after.Arrays[id].TimeStatus, id.String())
		assert.InDelta(t, before.Arrays[id].Time.Base(), after.Arrays[id].Time.Base(), 1, id.String())
	}
}

func TestSessionFailure(t *testing.T) {
	sess := newTestSession(t)
	ctx := context.Background()

	s := sess.Run(ctx, calc.AntennasEdited{Array: calc.TwelveM, Value: 1}, calc.CalculateSensitivity{})
	require.Equal(t, calc.PhaseError, s.SensitivityPhase(calc.TwelveM))
	assert.Equal(t, "An interferometer needs at least 2 antennas", s.Arrays[calc.TwelveM].SensitivityErr)
	assert.Equal(t, calc.PhaseConsistent, s.SensitivityPhase(calc.SevenM))

	results := sess.History().Results(calc.TwelveM)
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Err)
}
