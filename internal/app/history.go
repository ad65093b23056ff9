package app

import (
	"time"

	"sensitivity-calc.klederson.com/internal/calc"
)

// Ring is a circular buffer keeping the latest values.
type Ring[T any] struct {
	buf   []T
	pos   int
	count int
}

func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{buf: make([]T, capacity)}
}

// Push adds a value, overwriting the oldest once full.
func (r *Ring[T]) Push(val T) {
	r.buf[r.pos] = val
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns the stored values oldest first.
func (r *Ring[T]) Values() []T {
	if r.count == 0 {
		return nil
	}
	result := make([]T, r.count)
	if r.count < len(r.buf) {
		copy(result, r.buf[:r.count])
	} else {
		n := copy(result, r.buf[r.pos:])
		copy(result[n:], r.buf[:r.pos])
	}
	return result
}

// Last returns the newest value.
func (r *Ring[T]) Last() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	return r.buf[(r.pos-1+len(r.buf))%len(r.buf)], true
}

func (r *Ring[T]) Len() int {
	return r.count
}

// Result is one completed calculation.
type Result struct {
	At    time.Time
	Kind  string
	Array calc.ArrayID
	Value calc.Quantity
	// Failed results carry the service message instead of a value.
	Err string
}

// History keeps the latest results of each array.
type History struct {
	rings [calc.NumArrays]*Ring[Result]
}

func NewHistory(perArray int) *History {
	h := &History{}
	for i := range h.rings {
		h.rings[i] = NewRing[Result](perArray)
	}
	return h
}

// Record stores the outcome of a reply the engine accepted, read from the
// state it produced. Other events are ignored.
func (h *History) Record(ev calc.Event, s calc.State, at time.Time) {
	var r Result
	switch e := ev.(type) {
	case calc.SensitivityReceived:
		r = Result{Kind: "sensitivity", Array: e.Array, Value: s.Arrays[e.Array].Sensitivity.Quantity}
	case calc.SensitivityFailed:
		r = Result{Kind: "sensitivity", Array: e.Array, Err: e.Message}
	case calc.TimeReceived:
		r = Result{Kind: "time", Array: e.Array, Value: s.Arrays[e.Array].Time}
	case calc.TimeFailed:
		r = Result{Kind: "time", Array: e.Array, Err: e.Message}
	default:
		return
	}
	r.At = at
	h.rings[r.Array].Push(r)
}

// Results returns an array's results oldest first.
func (h *History) Results(id calc.ArrayID) []Result {
	return h.rings[id].Values()
}
