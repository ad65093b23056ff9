package app

import (
	"fmt"
	"math"
	"strings"

	"sensitivity-calc.klederson.com/internal/calc"
	"sensitivity-calc.klederson.com/internal/ui"
	"sensitivity-calc.klederson.com/internal/units"
)

// formatValue shows a value as stored; an unreadable value shows blank.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return formatNumber(v)
}

func noteFor(v calc.Validation) (string, bool) {
	if v.OK() {
		return "", false
	}
	return v.Message, true
}

func quantityRow(label string, q calc.Quantity, v calc.Validation) ui.Row {
	note, bad := noteFor(v)
	return ui.Row{Label: label, Value: formatValue(q.Value), Unit: q.Unit.String(), Note: note, Invalid: bad}
}

// buildRows lays out the parameter table in cursor order.
func buildRows(s calc.State) []ui.Row {
	r := calc.Validate(s)
	rows := make([]ui.Row, 0, numCursorRows)

	decNote, decBad := noteFor(r.Declination)
	rows = append(rows, ui.Row{
		Section: "Observation",
		Label:   "Declination",
		Value:   strings.TrimSpace(s.Declination.Formatted),
		Note:    decNote,
		Invalid: decBad,
	})
	freq := quantityRow("Frequency", s.Frequency, r.Frequency)
	freq.Busy = s.FetchingBands
	rows = append(rows,
		freq,
		quantityRow("Bandwidth", s.Bandwidth, r.Bandwidth),
		ui.Row{Label: "Polarisation", Value: polarisationLabel(s.Polarisation)},
		ui.Row{Label: "Receiver band", Value: s.Band, Busy: s.FetchingBands},
		ui.Row{Label: "Octile mode", Value: s.OctileMode.String()},
		ui.Row{Label: "Octile", Value: fmt.Sprintf("%d", s.Octile), Unit: calc.OctileLabel(s.Octile), Busy: s.FetchingOctile},
		ui.Row{Label: "Sensitivity units", Value: s.SensitivityPolicy.String()},
		ui.Row{Label: "Time units", Value: s.TimePolicy.String()},
	)

	for _, id := range calc.Arrays {
		a := s.Arrays[id]
		v := r.Arrays[id]

		antNote, antBad := noteFor(v.Antennas)
		rows = append(rows, ui.Row{
			Section: id.Label(),
			Label:   "Antennas",
			Value:   formatValue(a.Antennas),
			Note:    antNote,
			Invalid: antBad,
		})

		res := quantityRow("Resolution", a.Resolution, v.Resolution)
		res.ReadOnly = id == calc.TotalPower
		rows = append(rows, res)

		tm := quantityRow("Integration time", a.Time, v.Time)
		tm.Busy = a.TimeStatus == calc.Fetching
		if a.TimeStatus == calc.Failed {
			tm.Note, tm.Invalid = a.TimeErr, true
		}
		rows = append(rows, tm)

		sens := ui.Row{
			Label: "Sensitivity",
			Value: formatValue(a.Sensitivity.Value),
			Unit:  a.Sensitivity.Unit.String(),
			Busy:  a.SensitivityStatus == calc.Fetching,
		}
		if alt, ok := a.Sensitivity.AltQuantity(); ok {
			sens.Alt = formatValue(alt.Value) + " " + alt.Unit.String()
		}
		if a.SensitivityStatus == calc.Failed {
			sens.Note, sens.Invalid = a.SensitivityErr, true
		}
		rows = append(rows, sens)
	}
	return rows
}

// historyBlocks renders each array's results, newest first.
func historyBlocks(h *History) []ui.HistoryBlock {
	blocks := make([]ui.HistoryBlock, 0, calc.NumArrays)
	for _, id := range calc.Arrays {
		results := h.Results(id)
		b := ui.HistoryBlock{Title: id.Label()}
		for i := len(results) - 1; i >= 0; i-- {
			b.Lines = append(b.Lines, describe(results[i]))
		}
		b.Values = sensitivityTrend(results)
		blocks = append(blocks, b)
	}
	return blocks
}

func describe(r Result) string {
	stamp := r.At.Format("15:04:05")
	if r.Err != "" {
		return fmt.Sprintf("%s %-11s failed: %s", stamp, r.Kind, r.Err)
	}
	return fmt.Sprintf("%s %-11s %s %s", stamp, r.Kind, formatValue(r.Value.Value), r.Value.Unit)
}

// sensitivityTrend returns the base magnitudes of the successful
// sensitivity results in the family of the newest one.
func sensitivityTrend(results []Result) []float64 {
	family := units.FamilyUnknown
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].Kind == "sensitivity" && results[i].Err == "" {
			family = results[i].Value.Unit.Family()
			break
		}
	}
	var values []float64
	for _, r := range results {
		if r.Kind != "sensitivity" || r.Err != "" || r.Value.Unit.Family() != family {
			continue
		}
		if v := r.Value.Base(); !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	return values
}

func polarisationLabel(p calc.Polarisation) string {
	if p == calc.Single {
		return "Single"
	}
	return "Dual"
}
