package calc

import (
	"strings"

	"sensitivity-calc.klederson.com/internal/declination"
	"sensitivity-calc.klederson.com/internal/units"
)

// UnitPolicy decides which unit a recomputed value is shown in.
type UnitPolicy int

const (
	// Automatic picks the best-fit unit after every recompute.
	Automatic UnitPolicy = iota
	// PreserveDisplayed keeps the unit the user last chose.
	PreserveDisplayed
)

func (p UnitPolicy) String() string {
	if p == PreserveDisplayed {
		return "Preserve"
	}
	return "Automatic"
}

// ParseUnitPolicy accepts "automatic" or "preserve" (also "manual"),
// case-insensitively.
func ParseUnitPolicy(s string) (UnitPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "automatic", "auto":
		return Automatic, true
	case "preserve", "preservedisplayed", "preserve-displayed", "manual":
		return PreserveDisplayed, true
	}
	return Automatic, false
}

type Polarisation int

const (
	Dual Polarisation = iota
	Single
)

// String is the identifier sent to the calculation service.
func (p Polarisation) String() string {
	if p == Single {
		return "SINGLE"
	}
	return "DUAL"
}

// ParsePolarisation maps the picker value "1" to single and anything else
// to dual polarisation.
func ParsePolarisation(s string) Polarisation {
	if strings.TrimSpace(s) == "1" {
		return Single
	}
	return Dual
}

// OctileMode selects how the atmosphere octile is chosen.
type OctileMode int

const (
	OctileAutomatic OctileMode = iota
	OctileManual
)

func (m OctileMode) String() string {
	if m == OctileManual {
		return "Manual"
	}
	return "Automatic"
}

// OctileLabels are the precipitable water vapour columns of the seven octiles.
var OctileLabels = [...]string{
	"0.472mm",
	"0.658mm",
	"0.913mm",
	"1.262mm",
	"1.796mm",
	"2.748mm",
	"5.186mm",
}

// NumOctiles is the number of selectable octiles.
const NumOctiles = len(OctileLabels)

// OctileLabel returns the water column for an octile index.
func OctileLabel(octile int) string {
	if octile < 0 || octile >= NumOctiles {
		return "Unknown"
	}
	return OctileLabels[octile]
}

// UnknownBand is selected when no receiver band covers the frequency.
const UnknownBand = "Unknown"

// Atmosphere holds the conditions reported for the selected octile.
type Atmosphere struct {
	Known   bool
	TauTsky string
	Tsys    float64
	Message string
}

// Token correlates a reply with the request that produced it.
type Token uint64

type tokens struct {
	sensitivity [NumArrays]Token
	time        [NumArrays]Token
	octile      Token
	bands       Token
}

// State is an immutable snapshot of every calculator field. It is only
// advanced by Reduce.
type State struct {
	Declination  declination.Declination
	Frequency    Quantity
	FrequencyErr string
	Bandwidth    Quantity
	Polarisation Polarisation

	Arrays [NumArrays]Array

	SensitivityPolicy UnitPolicy
	TimePolicy        UnitPolicy
	// RescaleMode makes unit changes convert the value instead of relabelling it.
	RescaleMode bool

	Octile         int
	OctileMode     OctileMode
	Atmosphere     Atmosphere
	FetchingOctile bool

	Band          string
	Bands         []string
	FetchingBands bool

	tokens tokens
}

// FrequencyGHz is the observing frequency in GHz.
func (s State) FrequencyGHz() float64 {
	return s.Frequency.Base()
}

// BandwidthGHz is the bandwidth in GHz, converting velocity widths.
func (s State) BandwidthGHz() float64 {
	return BandwidthGHz(s.Bandwidth, s.FrequencyGHz())
}

func (s State) Array(id ArrayID) Array {
	return s.Arrays[id]
}

// Phase is the lifecycle of an array's sensitivity as seen between events.
type Phase int

const (
	PhaseConsistent Phase = iota
	PhaseFetching
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseFetching:
		return "FETCHING"
	case PhaseError:
		return "ERROR_DISPLAYED"
	default:
		return "CONSISTENT"
	}
}

// SensitivityPhase reports where an array's sensitivity stands. The alt
// pair is always refreshed within the event that staled it, so a stale
// phase is never observable from outside Reduce.
func (s State) SensitivityPhase(id ArrayID) Phase {
	switch s.Arrays[id].SensitivityStatus {
	case Fetching:
		return PhaseFetching
	case Failed:
		return PhaseError
	default:
		return PhaseConsistent
	}
}

// Defaults seeds a new session.
type Defaults struct {
	Declination       string
	Frequency         Quantity
	Bandwidth         Quantity
	Polarisation      Polarisation
	Arrays            [NumArrays]ArrayDefaults
	SensitivityPolicy UnitPolicy
	TimePolicy        UnitPolicy
	Octile            int
	OctileMode        OctileMode
	Band              string
}

// ArrayDefaults seeds one array.
type ArrayDefaults struct {
	Antennas    float64
	Resolution  Quantity
	Time        Quantity
	Sensitivity Quantity
	AltUnit     units.Unit
}

// DefaultSettings are the values the calculator opens with.
func DefaultSettings() Defaults {
	arcsec := func(v float64) Quantity { return Quantity{Value: v, Unit: units.Arcsec} }
	seconds := Quantity{Value: 60, Unit: units.Second}
	return Defaults{
		Declination:  " 00:00:00.00",
		Frequency:    Quantity{Value: 345, Unit: units.GHz},
		Bandwidth:    Quantity{Value: 7.5, Unit: units.GHz},
		Polarisation: Dual,
		Arrays: [NumArrays]ArrayDefaults{
			TwelveM: {
				Antennas:    43,
				Resolution:  arcsec(0),
				Time:        seconds,
				Sensitivity: Quantity{Value: 197.67559092477822, Unit: units.MicroJansky},
				AltUnit:     units.Kelvin,
			},
			SevenM: {
				Antennas:    10,
				Resolution:  arcsec(0),
				Time:        seconds,
				Sensitivity: Quantity{Value: 2.4826852653365648, Unit: units.MilliJansky},
				AltUnit:     units.Kelvin,
			},
			TotalPower: {
				Antennas:    3,
				Resolution:  arcsec(9.5),
				Time:        seconds,
				Sensitivity: Quantity{Value: 4.85010668201959, Unit: units.MilliJansky},
				AltUnit:     units.MilliKelvin,
			},
		},
		SensitivityPolicy: Automatic,
		TimePolicy:        Automatic,
		Octile:            3,
		OctileMode:        OctileAutomatic,
		Band:              "ALMA_RB_07",
	}
}

// NewState builds the opening snapshot. The total-power beam is derived from
// the frequency and every alt pair is computed, so the snapshot is
// consistent before the first event.
func NewState(d Defaults) State {
	s := State{
		Declination:       declination.Parse(d.Declination),
		Frequency:         d.Frequency,
		Bandwidth:         d.Bandwidth,
		Polarisation:      d.Polarisation,
		SensitivityPolicy: d.SensitivityPolicy,
		TimePolicy:        d.TimePolicy,
		Octile:            d.Octile,
		OctileMode:        d.OctileMode,
		Band:              d.Band,
		Bands:             []string{d.Band},
	}
	for _, id := range Arrays {
		ad := d.Arrays[id]
		s.Arrays[id] = Array{
			Antennas:   ad.Antennas,
			Resolution: ad.Resolution,
			Time:       ad.Time,
			Sensitivity: Sensitivity{
				Quantity: ad.Sensitivity,
				AltUnit:  ad.AltUnit,
			},
		}
	}
	s = deriveTotalPowerResolution(s)
	for _, id := range Arrays {
		s.Arrays[id].Sensitivity = refreshAlt(s.Arrays[id].Sensitivity, s.FrequencyGHz(), s.Arrays[id].Resolution.Base(), s.SensitivityPolicy)
	}
	return s
}
