package units

import "math"

var (
	fluxCandidates        = []Unit{MicroJansky, MilliJansky, Jansky}
	temperatureCandidates = []Unit{MilliKelvin, Kelvin}
	timeCandidates        = []Unit{Nanosecond, Microsecond, Millisecond, Second, Minute, Hour, Day}
)

// Candidates returns the ordered units the best-fit selector chooses from
// for a family. Families without automatic selection return nil.
func Candidates(f Family) []Unit {
	switch f {
	case FamilyFlux:
		return fluxCandidates
	case FamilyTemperature:
		return temperatureCandidates
	case FamilyTime:
		return timeCandidates
	default:
		return nil
	}
}

// BestFit picks the candidate whose displayed value lands closest to the
// order of ten. magnitude is in the candidates' base unit. The first
// candidate wins ties, and also wins outright when the magnitude is zero,
// negative or not finite. BestFit returns Invalid for an empty list.
func BestFit(magnitude float64, candidates []Unit) Unit {
	if len(candidates) == 0 {
		return Invalid
	}
	best := candidates[0]
	if !(magnitude > 0) || math.IsInf(magnitude, 0) {
		return best
	}
	bestDist := math.Inf(1)
	for _, u := range candidates {
		mag := -math.Log10(magnitude / u.Scale())
		dist := math.Abs(mag + 1)
		if dist < bestDist {
			best, bestDist = u, dist
		}
	}
	return best
}

// FitValue selects the best-fit unit in family f for a base-unit magnitude
// and returns the value in that unit rounded to places.
func FitValue(magnitude float64, f Family, places int32) (float64, Unit) {
	u := BestFit(magnitude, Candidates(f))
	if u == Invalid {
		return magnitude, u
	}
	return Round(FromBase(magnitude, u), places), u
}
