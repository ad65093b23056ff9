package calc

import (
	"fmt"
	"math"
	"strings"

	"sensitivity-calc.klederson.com/internal/declination"
	"sensitivity-calc.klederson.com/internal/flux"
	"sensitivity-calc.klederson.com/internal/units"
)

// Reduce applies an event to a snapshot and returns the next snapshot with
// the remote requests it calls for. The event's own transition runs first,
// then the propagation pass recomputes whatever depends on what changed.
// Replies to superseded requests leave the state untouched.
func Reduce(prev State, ev Event) (State, []Request) {
	if Stale(prev, ev) {
		return prev, nil
	}
	next, reqs := apply(prev, ev)
	next, more := propagate(prev, next, ev)
	return next, append(reqs, more...)
}

// Stale reports whether ev answers a request that has since been superseded.
func Stale(s State, ev Event) bool {
	switch e := ev.(type) {
	case OctileReceived:
		return e.Token != s.tokens.octile
	case OctileFailed:
		return e.Token != s.tokens.octile
	case BandsReceived:
		return e.Token != s.tokens.bands
	case BandsFailed:
		return e.Token != s.tokens.bands
	case SensitivityReceived:
		return !e.Array.valid() || e.Token != s.tokens.sensitivity[e.Array]
	case SensitivityFailed:
		return !e.Array.valid() || e.Token != s.tokens.sensitivity[e.Array]
	case TimeReceived:
		return !e.Array.valid() || e.Token != s.tokens.time[e.Array]
	case TimeFailed:
		return !e.Array.valid() || e.Token != s.tokens.time[e.Array]
	}
	return false
}

func apply(s State, ev Event) (State, []Request) {
	switch e := ev.(type) {
	case Started:
		var reqs []Request
		s, reqs = issueBandLookup(s, reqs)
		s, reqs = issueOctileLookup(s, reqs)
		return s, reqs

	case DeclinationEdited:
		s.Declination = declination.Parse(e.Text)
	case DeclinationCommitted:
		s.Declination = declination.Reformat(e.Text)

	case FrequencyEdited:
		s.Frequency.Value = e.Value
	case FrequencyUnitChanged:
		s.Frequency = changeUnit(s.Frequency, e.Unit, s.RescaleMode)

	case BandwidthEdited:
		s.Bandwidth.Value = e.Value
	case BandwidthUnitChanged:
		if s.RescaleMode {
			s.Bandwidth = rescaleBandwidth(s.Bandwidth, e.Unit, s.FrequencyGHz())
		} else {
			s.Bandwidth = s.Bandwidth.Relabel(e.Unit)
		}

	case PolarisationChanged:
		s.Polarisation = e.Polarisation

	case AntennasEdited:
		if e.Array.valid() {
			s.Arrays[e.Array].Antennas = e.Value
		}

	case ResolutionEdited:
		if e.Array.valid() && e.Array != TotalPower {
			s.Arrays[e.Array].Resolution.Value = e.Value
		}
	case ResolutionUnitChanged:
		if e.Array.valid() {
			a := &s.Arrays[e.Array]
			a.Resolution = changeUnit(a.Resolution, e.Unit, s.RescaleMode || e.Array == TotalPower)
		}

	case TimeEdited:
		if e.Array.valid() {
			a := &s.Arrays[e.Array]
			a.Time.Value = e.Value
			clearTimeFailure(a)
		}
	case TimeUnitChanged:
		if e.Array.valid() {
			a := &s.Arrays[e.Array]
			a.Time = changeUnit(a.Time, e.Unit, s.RescaleMode)
			clearTimeFailure(a)
		}

	case SensitivityEdited:
		if e.Array.valid() {
			s.Arrays[e.Array].Sensitivity.Value = e.Value
		}
	case SensitivityUnitChanged:
		if e.Array.valid() {
			s.Arrays[e.Array].Sensitivity = changeSensitivityUnit(s, e.Array, e.Unit)
		}

	case SensitivityPolicyChanged:
		s.SensitivityPolicy = e.Policy
	case TimePolicyChanged:
		s.TimePolicy = e.Policy
	case RescaleModeSet:
		s.RescaleMode = e.On

	case OctileSelected:
		if e.Octile >= 0 && e.Octile < NumOctiles {
			s.Octile = e.Octile
		}
	case OctileModeChanged:
		s.OctileMode = e.Mode
	case BandSelected:
		s.Band = e.Band

	case CalculateSensitivity:
		return calculateSensitivity(s)
	case CalculateTime:
		return calculateTime(s)

	case OctileReceived:
		s.FetchingOctile = false
		if e.Octile >= 0 && e.Octile < NumOctiles {
			s.Octile = e.Octile
		}
		s.Atmosphere = e.Atmosphere
		s.Atmosphere.Known = true
		s.FrequencyErr = ""
	case OctileFailed:
		s.FetchingOctile = false
		s.Atmosphere = Atmosphere{Message: e.Message}
		if isFrequencyRangeMessage(e.Message) {
			s.FrequencyErr = e.Message
		}

	case BandsReceived:
		s.FetchingBands = false
		if len(e.Bands) == 0 {
			s.Bands = []string{UnknownBand}
			s.Band = UnknownBand
		} else {
			s.Bands = append([]string(nil), e.Bands...)
			s.Band = s.Bands[0]
		}
	case BandsFailed:
		s.FetchingBands = false

	case SensitivityReceived:
		a := &s.Arrays[e.Array]
		a.Sensitivity = receiveSensitivity(s, e.Array, e.Jansky)
		a.SensitivityStatus = Idle
		a.SensitivityErr = ""
	case SensitivityFailed:
		a := &s.Arrays[e.Array]
		a.SensitivityStatus = Failed
		a.SensitivityErr = e.Message

	case TimeReceived:
		a := &s.Arrays[e.Array]
		a.Time = receiveTime(a.Time, e.Seconds, s.TimePolicy)
		a.TimeStatus = Idle
		a.TimeErr = ""
	case TimeFailed:
		a := &s.Arrays[e.Array]
		a.TimeStatus = Failed
		a.TimeErr = e.Message

	default:
		panic(fmt.Sprintf("calc: unhandled event %T", ev))
	}
	return s, nil
}

func changeUnit(q Quantity, u units.Unit, rescale bool) Quantity {
	if rescale {
		return q.Rescale(u)
	}
	return q.Relabel(u)
}

// changeSensitivityUnit handles a unit change that may cross between flux
// and temperature. A rescale across families goes through the physical
// conversion when the beam allows it.
func changeSensitivityUnit(s State, id ArrayID, u units.Unit) Sensitivity {
	sens := s.Arrays[id].Sensitivity
	if !s.RescaleMode {
		sens.Quantity = sens.Relabel(u)
		return sens
	}
	if u.Family() == sens.Family() {
		sens.Quantity = sens.Rescale(u)
		return sens
	}
	base, ok := CrossConvert(sens, s.FrequencyGHz(), s.Arrays[id].Resolution.Base())
	if !ok {
		sens.Quantity = sens.Relabel(u)
		return sens
	}
	sens.Quantity = Quantity{Value: units.Round(units.FromBase(base, u), units.DisplayPlaces), Unit: u}
	return sens
}

func clearTimeFailure(a *Array) {
	if a.TimeStatus == Failed {
		a.TimeStatus = Idle
		a.TimeErr = ""
	}
}

func isFrequencyRangeMessage(msg string) bool {
	return strings.HasPrefix(msg, "Invalid frequency:") || strings.HasPrefix(msg, "Unknown frequency:")
}

// receiveSensitivity expresses a computed Jy value in the family the
// array's primary unit was in. The alt pair is left in the other family's
// base unit at full precision; the propagation pass formats it.
func receiveSensitivity(s State, id ArrayID, jansky float64) Sensitivity {
	prev := s.Arrays[id].Sensitivity
	freq := s.FrequencyGHz()
	beam := s.Arrays[id].Resolution.Base()

	family := units.FamilyFlux
	primary, alt, altUnit := jansky, 0.0, units.Kelvin
	hasAlt := false
	tempOK := positive(freq) && positive(beam)
	if tempOK {
		alt, hasAlt = flux.ToBrightnessTemp(jansky, freq, beam), true
	}
	if prev.Family() == units.FamilyTemperature && tempOK {
		family = units.FamilyTemperature
		primary, alt, altUnit = alt, jansky, units.Jansky
	}

	next := Sensitivity{Alt: alt, AltUnit: altUnit, HasAlt: hasAlt}
	if s.SensitivityPolicy == Automatic || prev.Family() != family {
		u := units.BestFit(primary, units.Candidates(family))
		next.Quantity = Quantity{Value: units.FromBase(primary, u), Unit: u}
	} else {
		next.Quantity = Quantity{Value: units.FromBase(primary, prev.Unit), Unit: prev.Unit}
	}
	return next
}

func receiveTime(prev Quantity, seconds float64, policy UnitPolicy) Quantity {
	if policy == Automatic {
		v, u := units.FitValue(seconds, units.FamilyTime, units.DisplayPlaces)
		return Quantity{Value: v, Unit: u}
	}
	return Quantity{Value: units.Round(units.FromBase(seconds, prev.Unit), units.DisplayPlaces), Unit: prev.Unit}
}

// ConversionValid reports whether an array's sensitivity can be sent to the
// service. A temperature sensitivity needs a beam to be converted to Jy;
// the total-power beam is always defined.
func ConversionValid(s State, id ArrayID) bool {
	if id == TotalPower {
		return true
	}
	a := s.Arrays[id]
	if a.Sensitivity.Family() == units.FamilyTemperature {
		return positive(a.Resolution.Base())
	}
	return true
}

func (s State) observation(id ArrayID) Observation {
	a := s.Arrays[id]
	antennas := 0
	if !math.IsNaN(a.Antennas) && !math.IsInf(a.Antennas, 0) {
		antennas = int(a.Antennas)
	}
	return Observation{
		Array:        id,
		BeamArcsec:   a.Resolution.Base(),
		FreqGHz:      s.FrequencyGHz(),
		BandwidthGHz: s.BandwidthGHz(),
		DecDegrees:   s.Declination.Degrees,
		Antennas:     antennas,
		Polarisation: s.Polarisation,
		Octile:       s.Octile,
		Band:         s.Band,
	}
}

func calculateSensitivity(s State) (State, []Request) {
	var reqs []Request
	for _, id := range Arrays {
		if !ConversionValid(s, id) {
			continue
		}
		s.tokens.sensitivity[id]++
		a := &s.Arrays[id]
		a.SensitivityStatus = Fetching
		a.SensitivityErr = ""
		reqs = append(reqs, SensitivityCalc{
			Token:       s.tokens.sensitivity[id],
			Observation: s.observation(id),
			TimeSec:     a.Time.Base(),
		})
	}
	return s, reqs
}

func calculateTime(s State) (State, []Request) {
	var reqs []Request
	for _, id := range Arrays {
		if !ConversionValid(s, id) {
			continue
		}
		a := &s.Arrays[id]
		jy := a.Sensitivity.Base()
		if a.Sensitivity.Family() == units.FamilyTemperature {
			jy = flux.ToFluxSensitivity(jy, s.FrequencyGHz(), a.Resolution.Base())
		}
		s.tokens.time[id]++
		a.TimeStatus = Fetching
		a.TimeErr = ""
		reqs = append(reqs, TimeCalc{
			Token:         s.tokens.time[id],
			Observation:   s.observation(id),
			SensitivityJy: jy,
		})
	}
	return s, reqs
}

func issueOctileLookup(s State, reqs []Request) (State, []Request) {
	s.tokens.octile++
	s.FetchingOctile = true
	return s, append(reqs, OctileLookup{
		Token:      s.tokens.octile,
		Band:       s.Band,
		Octile:     s.Octile,
		BestFit:    s.OctileMode == OctileAutomatic,
		FreqGHz:    s.FrequencyGHz(),
		DecDegrees: s.Declination.Degrees,
	})
}

func issueBandLookup(s State, reqs []Request) (State, []Request) {
	s.tokens.bands++
	s.FetchingBands = true
	return s, append(reqs, BandLookup{Token: s.tokens.bands, FreqGHz: s.FrequencyGHz()})
}
