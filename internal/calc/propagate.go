package calc

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"

	"sensitivity-calc.klederson.com/internal/flux"
	"sensitivity-calc.klederson.com/internal/units"
)

// propagate compares two snapshots and recomputes the derived fields whose
// inputs changed. The total-power beam is derived before any alt pair
// because the total-power alt depends on it.
func propagate(prev, next State, ev Event) (State, []Request) {
	var reqs []Request

	freqChanged := next.Frequency != prev.Frequency
	if freqChanged && !sameMagnitude(next.FrequencyGHz(), prev.FrequencyGHz()) && positive(next.FrequencyGHz()) {
		next = deriveTotalPowerResolution(next)
		next, reqs = issueBandLookup(next, reqs)
	}

	var stale [NumArrays]bool
	for _, id := range Arrays {
		p, n := prev.Arrays[id], next.Arrays[id]
		stale[id] = freqChanged ||
			n.Resolution != p.Resolution ||
			n.Sensitivity != p.Sensitivity
	}
	for _, id := range Arrays {
		if !stale[id] {
			continue
		}
		a := &next.Arrays[id]
		a.Sensitivity = refreshAlt(a.Sensitivity, next.FrequencyGHz(), a.Resolution.Base(), next.SensitivityPolicy)
		// An edit clears a failed calculation; a reply has already set the status.
		if a.SensitivityStatus == Failed && isUserEdit(ev) {
			a.SensitivityStatus = Idle
			a.SensitivityErr = ""
		}
	}

	if octileInputsChanged(prev, next, ev) && positive(next.FrequencyGHz()) && next.Declination.Valid {
		next, reqs = issueOctileLookup(next, reqs)
	}
	return next, reqs
}

// sameMagnitude treats values within rescale rounding as unchanged.
func sameMagnitude(a, b float64) bool {
	return scalar.EqualWithinRel(a, b, 1e-12)
}

func octileInputsChanged(prev, next State, ev Event) bool {
	if next.Declination.Degrees != prev.Declination.Degrees ||
		next.Frequency != prev.Frequency ||
		next.Band != prev.Band ||
		next.OctileMode != prev.OctileMode {
		return true
	}
	// Only a user choice refetches; a reply that moves the octile does not.
	_, chosen := ev.(OctileSelected)
	return chosen && next.Octile != prev.Octile
}

func isUserEdit(ev Event) bool {
	switch ev.(type) {
	case SensitivityReceived, SensitivityFailed, TimeReceived, TimeFailed,
		OctileReceived, OctileFailed, BandsReceived, BandsFailed,
		CalculateSensitivity, CalculateTime, Started:
		return false
	}
	return true
}

// deriveTotalPowerResolution sets the total-power beam from the frequency,
// keeping the unit it is displayed in.
func deriveTotalPowerResolution(s State) State {
	freq := s.FrequencyGHz()
	if !positive(freq) {
		return s
	}
	res := &s.Arrays[TotalPower].Resolution
	if res.Unit.Family() != units.FamilyResolution {
		res.Unit = units.Arcsec
	}
	res.Value = units.Round(units.FromBase(flux.TotalPowerBeamsize(freq), res.Unit), units.DisplayPlaces)
	return s
}

// CrossConvert returns the sensitivity in the base unit of the opposite
// family (K for flux, Jy for temperature). ok is false when the conversion
// is undefined: an unreadable value, or a missing beam or frequency. A zero
// sensitivity converts to zero without either.
func CrossConvert(sens Sensitivity, freqGHz, beamArcsec float64) (float64, bool) {
	v := sens.Base()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v == 0 {
		return 0, true
	}
	if !positive(beamArcsec) || !positive(freqGHz) {
		return 0, false
	}
	switch sens.Family() {
	case units.FamilyFlux:
		return flux.ToBrightnessTemp(v, freqGHz, beamArcsec), true
	case units.FamilyTemperature:
		return flux.ToFluxSensitivity(v, freqGHz, beamArcsec), true
	default:
		return 0, false
	}
}

// refreshAlt recomputes the alt pair from the primary value. The alt unit is
// re-selected when the policy is automatic or the alt has just changed
// family; otherwise the previous alt unit is kept.
func refreshAlt(sens Sensitivity, freqGHz, beamArcsec float64, policy UnitPolicy) Sensitivity {
	target := sens.Family().Opposite()
	alt, ok := CrossConvert(sens, freqGHz, beamArcsec)
	if !ok {
		sens.Alt, sens.HasAlt = 0, false
		return sens
	}
	flipped := sens.AltUnit.Family() != target
	if policy == Automatic || flipped {
		sens.Alt, sens.AltUnit = units.FitValue(alt, target, units.AltPlaces)
	} else {
		sens.Alt = units.Round(units.FromBase(alt, sens.AltUnit), units.AltPlaces)
	}
	sens.HasAlt = true
	return sens
}
