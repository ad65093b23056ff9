package units

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	// DisplayPlaces is the precision of a primary value after a rescale or a reply.
	DisplayPlaces = 5
	// AltPlaces is the precision of an alt value.
	AltPlaces = 6
)

// Rescale converts value from one unit to another of the same family so the
// physical magnitude is preserved. Velocity units cannot be rescaled without
// an observing frequency and are rejected here. On error the value is
// returned unchanged.
func Rescale(value float64, from, to Unit) (float64, error) {
	if !from.valid() || !to.valid() {
		return value, fmt.Errorf("%w: %s -> %s", ErrUnknownUnit, from, to)
	}
	if from.Family() != to.Family() {
		return value, fmt.Errorf("%w: %s (%s) -> %s (%s)", ErrFamilyMismatch, from, from.Family(), to, to.Family())
	}
	if from == to {
		return value, nil
	}
	return value * from.Scale() / to.Scale(), nil
}

// ToBase returns value expressed in u's base unit.
func ToBase(value float64, u Unit) float64 {
	return value * u.Scale()
}

// FromBase returns a base-unit magnitude expressed in u.
func FromBase(magnitude float64, u Unit) float64 {
	return magnitude / u.Scale()
}

// Round rounds x half away from zero to the given number of decimal places.
// Non-finite inputs are returned as-is.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}
