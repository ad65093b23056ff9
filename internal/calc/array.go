package calc

import (
	"math"

	"sensitivity-calc.klederson.com/internal/flux"
)

// ArrayID names one of the three instrument configurations.
type ArrayID int

const (
	TwelveM ArrayID = iota
	SevenM
	TotalPower

	NumArrays
)

// Arrays lists every configuration in display order.
var Arrays = [NumArrays]ArrayID{TwelveM, SevenM, TotalPower}

type arrayInfo struct {
	short     string
	label     string
	tag       string
	baselines Baselines
}

// Baselines bound the projected antenna separations of an array in metres.
type Baselines struct {
	MinM float64
	MaxM float64
}

var arrayTable = [NumArrays]arrayInfo{
	TwelveM:    {short: "12m", label: "12 m Array", tag: "ARRAY_12M", baselines: Baselines{MinM: 120, MaxM: 160000}},
	SevenM:     {short: "7m", label: "7 m Array", tag: "ARRAY_7M", baselines: Baselines{MinM: 25, MaxM: 60}},
	TotalPower: {short: "tp", label: "Total Power", tag: "ARRAY_TP", baselines: Baselines{MinM: 0, MaxM: math.Inf(1)}},
}

func (a ArrayID) valid() bool {
	return a >= 0 && a < NumArrays
}

func (a ArrayID) String() string {
	if !a.valid() {
		return "unknown"
	}
	return arrayTable[a].short
}

// Label is the human-readable name.
func (a ArrayID) Label() string {
	if !a.valid() {
		return "Unknown"
	}
	return arrayTable[a].label
}

// Tag is the identifier the calculation service expects.
func (a ArrayID) Tag() string {
	if !a.valid() {
		return ""
	}
	return arrayTable[a].tag
}

func (a ArrayID) Baselines() Baselines {
	return arrayTable[a].baselines
}

// BeamRange returns the smallest and largest synthesised beam in arcsec the
// array can produce at a frequency. The total-power array is unbounded.
func (a ArrayID) BeamRange(freqGHz float64) (lo, hi float64) {
	b := a.Baselines()
	if b.MinM <= 0 || math.IsInf(b.MaxM, 1) {
		return 0, math.Inf(1)
	}
	return flux.SyntheticBeamsize(freqGHz, b.MaxM), flux.SyntheticBeamsize(freqGHz, b.MinM)
}

// ArrayIDFromTag maps a service tag back to an ArrayID.
func ArrayIDFromTag(tag string) (ArrayID, bool) {
	for _, a := range Arrays {
		if arrayTable[a].tag == tag {
			return a, true
		}
	}
	return 0, false
}

// Status tracks a remote calculation for one array.
type Status int

const (
	Idle Status = iota
	Fetching
	Failed
)

func (s Status) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Array is the state owned by one configuration.
type Array struct {
	// Antennas holds the number as typed; NaN when the text is not a number.
	Antennas    float64
	Resolution  Quantity
	Time        Quantity
	Sensitivity Sensitivity

	SensitivityStatus Status
	SensitivityErr    string
	TimeStatus        Status
	TimeErr           string
}
