package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"sensitivity-calc.klederson.com/internal/calc"
)

// Summary renders a snapshot as plain tables for the compute command.
func Summary(s calc.State) string {
	atm := "Unknown"
	if s.Atmosphere.Known {
		atm = fmt.Sprintf("%s, Tsys %.1f K", s.Atmosphere.TauTsky, s.Atmosphere.Tsys)
	}
	obs := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Parameter", "Value").
		Row("Declination", strings.TrimSpace(s.Declination.Formatted)).
		Row("Frequency", formatValue(s.Frequency.Value)+" "+s.Frequency.Unit.String()).
		Row("Bandwidth", formatValue(s.Bandwidth.Value)+" "+s.Bandwidth.Unit.String()).
		Row("Polarisation", polarisationLabel(s.Polarisation)).
		Row("Receiver band", s.Band).
		Row("Octile", fmt.Sprintf("%d (%s)", s.Octile, calc.OctileLabel(s.Octile))).
		Row("Atmosphere", atm)
	if s.FrequencyErr != "" {
		obs = obs.Row("Frequency error", s.FrequencyErr)
	}

	arrays := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Array", "Antennas", "Resolution", "Time", "Sensitivity", "Alt", "Status")
	for _, id := range calc.Arrays {
		a := s.Arrays[id]
		alt := ""
		if q, ok := a.Sensitivity.AltQuantity(); ok {
			alt = formatValue(q.Value) + " " + q.Unit.String()
		}
		status := s.SensitivityPhase(id).String()
		switch {
		case a.SensitivityErr != "":
			status += ": " + a.SensitivityErr
		case a.TimeErr != "":
			status += ": " + a.TimeErr
		}
		arrays = arrays.Row(
			id.Label(),
			formatValue(a.Antennas),
			formatValue(a.Resolution.Value)+" "+a.Resolution.Unit.String(),
			formatValue(a.Time.Value)+" "+a.Time.Unit.String(),
			formatValue(a.Sensitivity.Value)+" "+a.Sensitivity.Unit.String(),
			alt,
			status,
		)
	}
	return obs.Render() + "\n" + arrays.Render() + "\n"
}
