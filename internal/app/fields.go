package app

import (
	"math"
	"strconv"
	"strings"

	"sensitivity-calc.klederson.com/internal/calc"
	"sensitivity-calc.klederson.com/internal/units"
)

// Field identifies an editable row of the parameter table.
type Field int

const (
	FieldDeclination Field = iota
	FieldFrequency
	FieldBandwidth
	FieldPolarisation
	FieldBand
	FieldOctileMode
	FieldOctile
	FieldSensitivityPolicy
	FieldTimePolicy
	numGlobalFields
)

// Column identifies a per-array field.
type Column int

const (
	ColumnAntennas Column = iota
	ColumnResolution
	ColumnTime
	ColumnSensitivity
	numColumns
)

// numCursorRows is the count of rows the cursor can rest on: the global
// fields followed by each array's columns.
const numCursorRows = int(numGlobalFields) + int(calc.NumArrays)*int(numColumns)

// target is the field under the cursor.
type target struct {
	field    Field
	array    calc.ArrayID
	column   Column
	perArray bool
}

func targetAt(cursor int) target {
	if cursor < int(numGlobalFields) {
		return target{field: Field(cursor)}
	}
	i := cursor - int(numGlobalFields)
	return target{
		array:    calc.ArrayID(i / int(numColumns)),
		column:   Column(i % int(numColumns)),
		perArray: true,
	}
}

// typed reports whether the field takes text input.
func (t target) typed() bool {
	if t.perArray {
		return !(t.column == ColumnResolution && t.array == calc.TotalPower)
	}
	switch t.field {
	case FieldDeclination, FieldFrequency, FieldBandwidth:
		return true
	}
	return false
}

// parseNumber reads an edit buffer; unreadable text is NaN so the value
// flows through as typed and validation reports it.
func parseNumber(text string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// editEvent maps the text of a typed field to its edit event.
func (t target) editEvent(text string) calc.Event {
	v := parseNumber(text)
	if t.perArray {
		switch t.column {
		case ColumnAntennas:
			return calc.AntennasEdited{Array: t.array, Value: v}
		case ColumnResolution:
			return calc.ResolutionEdited{Array: t.array, Value: v}
		case ColumnTime:
			return calc.TimeEdited{Array: t.array, Value: v}
		case ColumnSensitivity:
			return calc.SensitivityEdited{Array: t.array, Value: v}
		}
		return nil
	}
	switch t.field {
	case FieldDeclination:
		return calc.DeclinationEdited{Text: text}
	case FieldFrequency:
		return calc.FrequencyEdited{Value: v}
	case FieldBandwidth:
		return calc.BandwidthEdited{Value: v}
	}
	return nil
}

// commitEvent is sent when editing of the field ends.
func (t target) commitEvent(text string) calc.Event {
	if !t.perArray && t.field == FieldDeclination {
		return calc.DeclinationCommitted{Text: text}
	}
	return nil
}

// initialText is what the edit buffer starts from.
func (t target) initialText(s calc.State) string {
	if t.perArray {
		a := s.Arrays[t.array]
		switch t.column {
		case ColumnAntennas:
			return formatNumber(a.Antennas)
		case ColumnResolution:
			return formatNumber(a.Resolution.Value)
		case ColumnTime:
			return formatNumber(a.Time.Value)
		case ColumnSensitivity:
			return formatNumber(a.Sensitivity.Value)
		}
		return ""
	}
	switch t.field {
	case FieldDeclination:
		return strings.TrimSpace(s.Declination.Formatted)
	case FieldFrequency:
		return formatNumber(s.Frequency.Value)
	case FieldBandwidth:
		return formatNumber(s.Bandwidth.Value)
	}
	return ""
}

// sensitivityUnits is the picker order for sensitivities: flux then
// temperature.
var sensitivityUnits = append(units.Choices(units.FamilyFlux), units.Choices(units.FamilyTemperature)...)

func nextIn(u units.Unit, choices []units.Unit) units.Unit {
	for i, c := range choices {
		if c == u {
			return choices[(i+1)%len(choices)]
		}
	}
	return choices[0]
}

// unitEvent cycles the unit of the field, or returns nil for fields
// without one.
func (t target) unitEvent(s calc.State) calc.Event {
	if t.perArray {
		a := s.Arrays[t.array]
		switch t.column {
		case ColumnResolution:
			return calc.ResolutionUnitChanged{Array: t.array, Unit: units.Next(a.Resolution.Unit, units.FamilyResolution)}
		case ColumnTime:
			return calc.TimeUnitChanged{Array: t.array, Unit: units.Next(a.Time.Unit, units.FamilyTime)}
		case ColumnSensitivity:
			return calc.SensitivityUnitChanged{Array: t.array, Unit: nextIn(a.Sensitivity.Unit, sensitivityUnits)}
		}
		return nil
	}
	switch t.field {
	case FieldFrequency:
		return calc.FrequencyUnitChanged{Unit: units.Next(s.Frequency.Unit, units.FamilyFrequency)}
	case FieldBandwidth:
		return calc.BandwidthUnitChanged{Unit: units.Next(s.Bandwidth.Unit, units.FamilyBandwidth)}
	}
	return nil
}

// choiceEvent steps a choice field by delta (+1 or -1).
func (t target) choiceEvent(s calc.State, delta int) calc.Event {
	if t.perArray {
		return nil
	}
	switch t.field {
	case FieldPolarisation:
		if s.Polarisation == calc.Dual {
			return calc.PolarisationChanged{Polarisation: calc.Single}
		}
		return calc.PolarisationChanged{Polarisation: calc.Dual}
	case FieldBand:
		if len(s.Bands) == 0 {
			return nil
		}
		i := indexOf(s.Bands, s.Band)
		return calc.BandSelected{Band: s.Bands[wrap(i+delta, len(s.Bands))]}
	case FieldOctileMode:
		if s.OctileMode == calc.OctileManual {
			return calc.OctileModeChanged{Mode: calc.OctileAutomatic}
		}
		return calc.OctileModeChanged{Mode: calc.OctileManual}
	case FieldOctile:
		return calc.OctileSelected{Octile: wrap(s.Octile+delta, calc.NumOctiles)}
	case FieldSensitivityPolicy:
		return calc.SensitivityPolicyChanged{Policy: togglePolicy(s.SensitivityPolicy)}
	case FieldTimePolicy:
		return calc.TimePolicyChanged{Policy: togglePolicy(s.TimePolicy)}
	}
	return nil
}

func togglePolicy(p calc.UnitPolicy) calc.UnitPolicy {
	if p == calc.Automatic {
		return calc.PreserveDisplayed
	}
	return calc.Automatic
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return 0
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
