package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sensitivity-calc.klederson.com/internal/calc"
)

func TestRingWraps(t *testing.T) {
	r := NewRing[int](3)
	_, ok := r.Last()
	assert.False(t, ok)
	assert.Nil(t, r.Values())

	for i := 1; i <= 5; i++ {
		r.Push(i)
	}
	assert.Equal(t, []int{3, 4, 5}, r.Values())
	assert.Equal(t, 3, r.Len())
	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, 5, last)
}

func TestRingPartial(t *testing.T) {
	r := NewRing[string](4)
	r.Push("a")
	r.Push("b")
	assert.Equal(t, []string{"a", "b"}, r.Values())
}

func TestHistoryRecord(t *testing.T) {
	h := NewHistory(2)
	s := calc.NewState(calc.DefaultSettings())
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	h.Record(calc.Started{}, s, at)
	h.Record(calc.BandsReceived{Bands: []string{"ALMA_RB_07"}}, s, at)
	assert.Empty(t, h.Results(calc.TwelveM))

	h.Record(calc.SensitivityReceived{Array: calc.SevenM}, s, at)
	h.Record(calc.TimeFailed{Array: calc.SevenM, Message: "Sensitivity must be positive"}, s, at)

	got := h.Results(calc.SevenM)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "sensitivity", got[0].Kind)
		assert.Equal(t, s.Arrays[calc.SevenM].Sensitivity.Quantity, got[0].Value)
		assert.Equal(t, at, got[0].At)
		assert.Equal(t, "time", got[1].Kind)
		assert.Equal(t, "Sensitivity must be positive", got[1].Err)
	}
	assert.Empty(t, h.Results(calc.TotalPower))
}
