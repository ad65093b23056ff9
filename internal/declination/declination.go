// Package declination parses and formats sexagesimal declinations.
package declination

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	masPerDegree = 3600 * 1000

	// MaxVisibleDegrees is the northernmost declination visible from the site.
	MaxVisibleDegrees = 66.5
)

// Declination is a source declination as typed by the user together with
// the values derived from it.
type Declination struct {
	Formatted string
	Degrees   float64
	Mas       float64
	Valid     bool
	Error     string
}

// Parse derives a Declination from user input. Accepted forms are
// [+-]DD, [+-]DD:MM and [+-]DD:MM:SS.ss; a lone number is taken as decimal
// degrees. Input that does not parse yields Valid=false with a message,
// and Formatted keeps the raw text.
func Parse(text string) Declination {
	d := Declination{Formatted: text}
	deg, msg := toDegrees(text)
	if msg != "" {
		d.Error = msg
		return d
	}
	d.Degrees = deg
	d.Mas = deg * masPerDegree
	d.Valid = true
	return d
}

// Reformat parses text and replaces the raw input with the canonical
// sexagesimal form. Invalid input is left as typed.
func Reformat(text string) Declination {
	d := Parse(text)
	if d.Valid {
		d.Formatted = FormatMas(d.Mas)
	}
	return d
}

// Visible reports whether the source rises above the horizon, returning the
// message to show when it does not.
func (d Declination) Visible() (bool, string) {
	if d.Degrees > MaxVisibleDegrees {
		return false, fmt.Sprintf("Source at declination %s is not visible.", FormatMas(d.Mas))
	}
	return true, ""
}

const (
	msgRequired = "Declination is required"
	msgFormat   = "Declination must be in the form DD:MM:SS.ss"
	msgSixty    = "Minutes and seconds must be less than 60"
	msgRange    = "Declination must be between -90:00:00 and +90:00:00"
)

// toDegrees returns the parsed angle, or a user-facing message when the text
// is not a declination.
func toDegrees(text string) (float64, string) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, msgRequired
	}
	sign := 1.0
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, msgFormat
	}

	var fields [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || !(v >= 0) || math.IsInf(v, 0) {
			return 0, msgFormat
		}
		// Only the last field may be fractional.
		if i < len(parts)-1 && v != math.Trunc(v) {
			return 0, msgFormat
		}
		if i > 0 && v >= 60 {
			return 0, msgSixty
		}
		fields[i] = v
	}

	deg := fields[0] + fields[1]/60 + fields[2]/3600
	if deg > 90 {
		return 0, msgRange
	}
	return sign * deg, ""
}

// FormatMas renders an angle in milliarcseconds as [ -]DD:MM:SS.ss. Positive
// angles carry a leading space so columns line up with negative ones.
func FormatMas(mas float64) string {
	sign := " "
	if mas < 0 {
		sign = "-"
		mas = -mas
	}
	// Work in hundredths of an arcsecond so rounding carries into minutes.
	centi := int64(math.Round(mas / 10))
	deg := centi / (3600 * 100)
	centi -= deg * 3600 * 100
	mins := centi / (60 * 100)
	centi -= mins * 60 * 100
	return fmt.Sprintf("%s%02d:%02d:%02d.%02d", sign, deg, mins, centi/100, centi%100)
}
