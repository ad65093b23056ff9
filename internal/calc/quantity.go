package calc

import (
	"math"

	"sensitivity-calc.klederson.com/internal/flux"
	"sensitivity-calc.klederson.com/internal/units"
)

// Quantity is a displayed number and the unit it is shown in. The scale is
// always taken from the unit, so Value*Scale() is the base-unit magnitude.
type Quantity struct {
	Value float64
	Unit  units.Unit
}

func (q Quantity) Scale() float64 {
	return q.Unit.Scale()
}

// Base returns the magnitude in the family's base unit.
func (q Quantity) Base() float64 {
	return units.ToBase(q.Value, q.Unit)
}

// Relabel changes the unit and keeps the number.
func (q Quantity) Relabel(u units.Unit) Quantity {
	q.Unit = u
	return q
}

// Rescale changes the unit and converts the number so the magnitude is
// preserved. A unit from another family falls back to a relabel.
func (q Quantity) Rescale(u units.Unit) Quantity {
	v, err := units.Rescale(q.Value, q.Unit, u)
	if err != nil {
		return q.Relabel(u)
	}
	return Quantity{Value: units.Round(v, units.DisplayPlaces), Unit: u}
}

// BandwidthGHz returns a bandwidth as a frequency width. Velocity units are
// converted at the observing frequency.
func BandwidthGHz(bw Quantity, freqGHz float64) float64 {
	if bw.Unit.IsVelocity() {
		return flux.VelocityToGHz(bw.Base(), freqGHz)
	}
	return bw.Base()
}

// rescaleBandwidth converts a bandwidth between frequency and velocity units.
func rescaleBandwidth(bw Quantity, u units.Unit, freqGHz float64) Quantity {
	if !bw.Unit.IsVelocity() && !u.IsVelocity() {
		return bw.Rescale(u)
	}
	if !positive(freqGHz) {
		return bw.Relabel(u)
	}
	ghz := BandwidthGHz(bw, freqGHz)
	var v float64
	if u.IsVelocity() {
		v = units.FromBase(flux.GHzToVelocity(ghz, freqGHz), u)
	} else {
		v = units.FromBase(ghz, u)
	}
	return Quantity{Value: units.Round(v, units.DisplayPlaces), Unit: u}
}

// Sensitivity is a sensitivity quantity with its equivalent in the other
// family. HasAlt is false when the equivalent cannot be computed.
type Sensitivity struct {
	Quantity
	Alt     float64
	AltUnit units.Unit
	HasAlt  bool
}

// Family is the family of the primary unit, flux or temperature.
func (s Sensitivity) Family() units.Family {
	return s.Unit.Family()
}

// AltQuantity returns the alt pair as a Quantity.
func (s Sensitivity) AltQuantity() (Quantity, bool) {
	return Quantity{Value: s.Alt, Unit: s.AltUnit}, s.HasAlt
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
