package calc

import (
	"fmt"
	"math"
	"strconv"

	"sensitivity-calc.klederson.com/internal/declination"
	"sensitivity-calc.klederson.com/internal/units"
)

type ValidationState int

const (
	Valid ValidationState = iota
	Invalid
)

// Validation is the advisory verdict on one field. It never blocks a
// computation.
type Validation struct {
	State   ValidationState
	Message string
}

func (v Validation) OK() bool { return v.State == Valid }

var passed = Validation{State: Valid}

func invalid(msg string) Validation {
	return Validation{State: Invalid, Message: msg}
}

func ValidateAntennas(n float64) Validation {
	if n > 0 && n == math.Trunc(n) && !math.IsInf(n, 0) {
		return passed
	}
	return invalid("Must be a positive integer")
}

func ValidateTime(q Quantity) Validation {
	if positive(q.Value) {
		return passed
	}
	return invalid("Must be a positive number")
}

func ValidateBandwidth(q Quantity) Validation {
	if positive(q.Value) {
		return passed
	}
	return invalid("Must be a positive number")
}

// ValidateResolution checks a resolution against the sensitivity family and
// the beams the array can synthesise at the frequency. Zero is a point
// source, accepted for flux sensitivities only.
func ValidateResolution(id ArrayID, res Quantity, family units.Family, freqGHz float64) Validation {
	switch {
	case math.IsNaN(res.Value) || math.IsInf(res.Value, 0):
		return invalid("Resolution must be a number")
	case res.Value < 0:
		return invalid("Resolution must be positive")
	case res.Value == 0:
		if family == units.FamilyTemperature {
			return invalid("Angular resolution is required for temperature units")
		}
		return passed
	}
	lo, hi := id.BeamRange(freqGHz)
	arcsec := res.Base()
	if arcsec < lo || arcsec > hi {
		return invalid(fmt.Sprintf("Beamsize of array %.3f arcsec < (resolution) < %.3f arcsec for %s GHz observation ",
			lo, hi, strconv.FormatFloat(freqGHz, 'f', -1, 64)))
	}
	return passed
}

func ValidateDeclination(d declination.Declination) Validation {
	if !d.Valid {
		return invalid(d.Error)
	}
	if visible, msg := d.Visible(); !visible {
		return invalid(msg)
	}
	return passed
}

// ValidateFrequency reports a local problem first, then the range error the
// service attached to the frequency.
func ValidateFrequency(q Quantity, remoteErr string) Validation {
	if !positive(q.Value) {
		return invalid("Must be a positive number")
	}
	if remoteErr != "" {
		return invalid(remoteErr)
	}
	return passed
}

// ArrayValidation groups the verdicts for one array's fields.
type ArrayValidation struct {
	Antennas   Validation
	Resolution Validation
	Time       Validation
}

// Report holds the verdict for every field of a snapshot.
type Report struct {
	Declination Validation
	Frequency   Validation
	Bandwidth   Validation
	Arrays      [NumArrays]ArrayValidation
}

// Validate checks every field of s.
func Validate(s State) Report {
	r := Report{
		Declination: ValidateDeclination(s.Declination),
		Frequency:   ValidateFrequency(s.Frequency, s.FrequencyErr),
		Bandwidth:   ValidateBandwidth(s.Bandwidth),
	}
	for _, id := range Arrays {
		a := s.Arrays[id]
		r.Arrays[id] = ArrayValidation{
			Antennas:   ValidateAntennas(a.Antennas),
			Resolution: ValidateResolution(id, a.Resolution, a.Sensitivity.Family(), s.FrequencyGHz()),
			Time:       ValidateTime(a.Time),
		}
	}
	return r
}

// Problems lists every failed verdict as "field: message", in field order.
func (r Report) Problems() []string {
	var out []string
	add := func(name string, v Validation) {
		if !v.OK() {
			out = append(out, name+": "+v.Message)
		}
	}
	add("declination", r.Declination)
	add("frequency", r.Frequency)
	add("bandwidth", r.Bandwidth)
	for _, id := range Arrays {
		a := r.Arrays[id]
		add(id.String()+" antennas", a.Antennas)
		add(id.String()+" resolution", a.Resolution)
		add(id.String()+" time", a.Time)
	}
	return out
}
