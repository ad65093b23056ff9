package units

import (
	"errors"
	"fmt"
)

// Family groups units that share a base unit.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyFrequency
	FamilyBandwidth
	FamilyTime
	FamilyResolution
	FamilyFlux
	FamilyTemperature
)

func (f Family) String() string {
	switch f {
	case FamilyFrequency:
		return "frequency"
	case FamilyBandwidth:
		return "bandwidth"
	case FamilyTime:
		return "time"
	case FamilyResolution:
		return "resolution"
	case FamilyFlux:
		return "flux"
	case FamilyTemperature:
		return "temperature"
	default:
		return "unknown"
	}
}

// IsSensitivity reports whether f is one of the two sensitivity families.
func (f Family) IsSensitivity() bool {
	return f == FamilyFlux || f == FamilyTemperature
}

// Opposite returns the other sensitivity family. Non-sensitivity families
// are returned unchanged.
func (f Family) Opposite() Family {
	switch f {
	case FamilyFlux:
		return FamilyTemperature
	case FamilyTemperature:
		return FamilyFlux
	default:
		return f
	}
}

// Unit is a display unit. The zero value is Invalid.
type Unit int

const (
	Invalid Unit = iota

	Hz
	KHz
	MHz
	GHz

	// Bandwidth-only velocity units.
	MPerS
	KmPerS

	Nanosecond
	Microsecond
	Millisecond
	Second
	Minute
	Hour
	Day

	Milliarcsec
	Arcsec

	MicroJansky
	MilliJansky
	Jansky

	MilliKelvin
	Kelvin

	numUnits
)

type unitInfo struct {
	symbol   string
	scale    float64
	family   Family
	velocity bool
}

// unitTable is indexed by Unit. Frequency units are listed once and shared
// with the bandwidth family; velocity units carry their scale in km/s.
var unitTable = [...]unitInfo{
	Invalid: {symbol: "?", scale: 1, family: FamilyUnknown},

	Hz:  {symbol: "Hz", scale: 1e-9, family: FamilyFrequency},
	KHz: {symbol: "kHz", scale: 1e-6, family: FamilyFrequency},
	MHz: {symbol: "MHz", scale: 1e-3, family: FamilyFrequency},
	GHz: {symbol: "GHz", scale: 1, family: FamilyFrequency},

	MPerS:  {symbol: "m/s", scale: 1e-3, family: FamilyBandwidth, velocity: true},
	KmPerS: {symbol: "km/s", scale: 1, family: FamilyBandwidth, velocity: true},

	Nanosecond:  {symbol: "ns", scale: 1e-9, family: FamilyTime},
	Microsecond: {symbol: "us", scale: 1e-6, family: FamilyTime},
	Millisecond: {symbol: "ms", scale: 1e-3, family: FamilyTime},
	Second:      {symbol: "s", scale: 1, family: FamilyTime},
	Minute:      {symbol: "min", scale: 60, family: FamilyTime},
	Hour:        {symbol: "h", scale: 3600, family: FamilyTime},
	Day:         {symbol: "d", scale: 86400, family: FamilyTime},

	Milliarcsec: {symbol: "mas", scale: 1e-3, family: FamilyResolution},
	Arcsec:      {symbol: "arcsec", scale: 1, family: FamilyResolution},

	MicroJansky: {symbol: "uJy", scale: 1e-6, family: FamilyFlux},
	MilliJansky: {symbol: "mJy", scale: 1e-3, family: FamilyFlux},
	Jansky:      {symbol: "Jy", scale: 1, family: FamilyFlux},

	MilliKelvin: {symbol: "mK", scale: 1e-3, family: FamilyTemperature},
	Kelvin:      {symbol: "K", scale: 1, family: FamilyTemperature},
}

// Fails to compile when a unit is added without a table row.
var _ = [1]struct{}{}[len(unitTable)-int(numUnits)]

var (
	// ErrUnknownUnit is returned when a unit is not part of the requested family.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrFamilyMismatch is returned when converting between unrelated families.
	ErrFamilyMismatch = errors.New("unit family mismatch")
)

func (u Unit) valid() bool {
	return u > Invalid && u < numUnits
}

func (u Unit) String() string {
	if !u.valid() {
		return unitTable[Invalid].symbol
	}
	return unitTable[u].symbol
}

// Scale returns the factor from u to its family's base unit (GHz, s,
// arcsec, Jy or K). Velocity units return their factor to km/s.
func (u Unit) Scale() float64 {
	if !u.valid() {
		return 1
	}
	return unitTable[u].scale
}

// Family returns the family u belongs to.
func (u Unit) Family() Family {
	if !u.valid() {
		return FamilyUnknown
	}
	return unitTable[u].family
}

// IsVelocity reports whether u is a bandwidth velocity unit.
func (u Unit) IsVelocity() bool {
	return u.valid() && unitTable[u].velocity
}

// In reports whether u can be displayed for family f. Frequency units are
// valid bandwidth units as well.
func (u Unit) In(f Family) bool {
	if !u.valid() {
		return false
	}
	if u.Family() == f {
		return true
	}
	return f == FamilyBandwidth && u.Family() == FamilyFrequency
}

// Parse looks up a unit symbol within a family.
func Parse(symbol string, f Family) (Unit, error) {
	for u := Invalid + 1; u < numUnits; u++ {
		if unitTable[u].symbol == symbol && u.In(f) {
			return u, nil
		}
	}
	return Invalid, fmt.Errorf("%w: %q in %s", ErrUnknownUnit, symbol, f)
}

// Choices lists the units a picker offers for a family, smallest first.
func Choices(f Family) []Unit {
	var out []Unit
	for u := Invalid + 1; u < numUnits; u++ {
		if u.In(f) {
			out = append(out, u)
		}
	}
	return out
}

// Next returns the unit after u in its family's picker order, wrapping.
func Next(u Unit, f Family) Unit {
	choices := Choices(f)
	for i, c := range choices {
		if c == u {
			return choices[(i+1)%len(choices)]
		}
	}
	if len(choices) == 0 {
		return u
	}
	return choices[0]
}
