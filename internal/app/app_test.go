package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensitivity-calc.klederson.com/internal/calc"
	"sensitivity-calc.klederson.com/internal/logging"
	"sensitivity-calc.klederson.com/internal/service"
	"sensitivity-calc.klederson.com/internal/units"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	store := calc.NewStore(calc.NewState(calc.DefaultSettings()))
	gw := service.NewGateway(
		service.NewDemoClient(service.WithLatency(0, 0)),
		service.WithGatewayLogger(logging.NullLogger()),
	)
	return New(store, gw, "demo", logging.NullLogger())
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok, "%T", next)
	return model, cmd
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCursorMovement(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(t, m, key(tea.KeyUp))
	assert.Equal(t, 0, m.cursor)

	m, _ = send(t, m, runes("j"))
	m, _ = send(t, m, key(tea.KeyDown))
	assert.Equal(t, 2, m.cursor)

	m, _ = send(t, m, key(tea.KeyEnd))
	assert.Equal(t, numCursorRows-1, m.cursor)
	m, _ = send(t, m, key(tea.KeyDown))
	assert.Equal(t, numCursorRows-1, m.cursor)

	m, _ = send(t, m, key(tea.KeyHome))
	assert.Equal(t, 0, m.cursor)
}

func TestEditFrequency(t *testing.T) {
	m := newTestModel(t)
	m.cursor = int(FieldFrequency)

	m, _ = send(t, m, key(tea.KeyEnter))
	require.True(t, m.editing)
	assert.Equal(t, "345", m.buffer)

	m, cmd := send(t, m, key(tea.KeyBackspace))
	assert.Equal(t, "34", m.buffer)
	assert.Equal(t, 34.0, m.state.Frequency.Value)
	assert.True(t, m.state.FetchingBands)
	assert.NotNil(t, cmd, "a new magnitude looks up the band")

	m, _ = send(t, m, runes("5"))
	assert.Equal(t, 345.0, m.state.Frequency.Value)

	m, _ = send(t, m, key(tea.KeyEnter))
	assert.False(t, m.editing)
	assert.Equal(t, 345.0, m.shared.store.State().Frequency.Value)
}

func TestUnitAndChoiceKeys(t *testing.T) {
	m := newTestModel(t)
	m.cursor = int(FieldFrequency)

	m, _ = send(t, m, runes("u"))
	assert.Equal(t, units.Hz, m.state.Frequency.Unit)

	m.cursor = int(FieldPolarisation)
	m, _ = send(t, m, runes("l"))
	assert.Equal(t, calc.Single, m.state.Polarisation)
	m, _ = send(t, m, runes("h"))
	assert.Equal(t, calc.Dual, m.state.Polarisation)
}

func TestRescaleToggle(t *testing.T) {
	m := newTestModel(t)
	require.False(t, m.state.RescaleMode)

	m, _ = send(t, m, runes("r"))
	assert.True(t, m.state.RescaleMode)
	m, _ = send(t, m, runes("r"))
	assert.False(t, m.state.RescaleMode)
}

func TestCalculateKey(t *testing.T) {
	m := newTestModel(t)

	m, cmd := send(t, m, runes("c"))
	assert.NotNil(t, cmd)
	assert.Equal(t, "3 of 3 arrays submitted", m.notice)
	for _, id := range calc.Arrays {
		assert.Equal(t, calc.PhaseFetching, m.state.SensitivityPhase(id))
	}
}

func TestStaleReplyNotRecorded(t *testing.T) {
	m := newTestModel(t)
	before := m.state

	m, cmd := send(t, m, calc.SensitivityReceived{Array: calc.TwelveM, Token: 42, Jansky: 1})
	assert.Nil(t, cmd)
	assert.Empty(t, m.shared.history.Results(calc.TwelveM))
	assert.Equal(t, before.Arrays[calc.TwelveM], m.state.Arrays[calc.TwelveM])
}

func TestReplyRecorded(t *testing.T) {
	m := newTestModel(t)
	m, cmd := send(t, m, runes("c"))
	require.NotNil(t, cmd)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	reply := m.shared.gateway.Execute(ctx, calc.SensitivityCalc{
		Token:       1,
		Observation: calc.Observation{Array: calc.TotalPower, FreqGHz: 345, BandwidthGHz: 7.5, Antennas: 3, Octile: 3, Band: "ALMA_RB_07"},
		TimeSec:     60,
	})
	m, _ = send(t, m, reply)
	assert.Equal(t, calc.PhaseConsistent, m.state.SensitivityPhase(calc.TotalPower))
	assert.Len(t, m.shared.history.Results(calc.TotalPower), 1)
}

func TestView(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.View(), "Initializing")

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	assert.Contains(t, view, "Frequency")
	assert.Contains(t, view, calc.TotalPower.Label())
}

func TestSummary(t *testing.T) {
	out := Summary(calc.NewState(calc.DefaultSettings()))
	assert.Contains(t, out, "Declination")
	assert.Contains(t, out, "ALMA_RB_07")
	for _, id := range calc.Arrays {
		assert.Contains(t, out, id.Label())
	}
	assert.Contains(t, out, "CONSISTENT")
}
