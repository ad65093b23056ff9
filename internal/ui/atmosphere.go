package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sensitivity-calc.klederson.com/internal/calc"
)

// tsysScaleK is the system temperature that fills the bar.
const tsysScaleK = 1000.0

// RenderAtmosphere renders the receiver band and atmosphere details.
func RenderAtmosphere(s calc.State, width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	title := StylePanelTitle.Render("ATMOSPHERE")
	hint := ""
	if s.FetchingOctile || s.FetchingBands {
		hint = StyleStatusBusy.Render("[fetching]")
	}
	titleLine := title + strings.Repeat(" ", max(0, innerW-lipgloss.Width(title)-lipgloss.Width(hint))) + hint
	sep := StyleSeparator.Render(strings.Repeat("-", innerW))
	lines := []string{titleLine, sep}

	atm := s.Atmosphere
	tauTsky, tsys := "Unknown", "Unknown"
	if atm.Known {
		if atm.TauTsky != "" {
			tauTsky = atm.TauTsky
		}
		if atm.Tsys > 0 {
			tsys = fmt.Sprintf("%.1f K", atm.Tsys)
		}
	}

	fields := []struct{ label, value string }{
		{"Band", s.Band},
		{"Covering", strings.Join(s.Bands, ", ")},
		{"Octile", fmt.Sprintf("%d (%s) %s", s.Octile, calc.OctileLabel(s.Octile), s.OctileMode)},
		{"Tau/Tsky", tauTsky},
		{"Tsys", tsys},
	}
	for _, f := range fields {
		lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-10s", f.label))+StyleValue.Render(f.value))
	}

	if atm.Known && atm.Tsys > 0 {
		barWidth := innerW - 14
		if barWidth < 10 {
			barWidth = 10
		}
		lines = append(lines, StyleLabel.Render("  Tsys      ")+renderTsysBar(atm.Tsys, barWidth))
	}
	if atm.Message != "" {
		lines = append(lines, StyleHelp.Render("  "+atm.Message))
	}
	if s.FrequencyErr != "" {
		lines = append(lines, "", StyleInvalid.Render(truncRaw("  "+s.FrequencyErr, innerW)))
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	content := strings.Join(lines, "\n")
	return clampLines(StylePanelActive.Width(width-2).Height(height-2).Render(content), height)
}

// renderTsysBar fills in proportion to the system temperature; a low
// temperature is good weather.
func renderTsysBar(tsys float64, width int) string {
	ratio := tsys / tsysScaleK
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(math.Round(ratio * float64(width)))

	color := ColorGreen
	switch {
	case ratio > 0.6:
		color = ColorError
	case ratio > 0.3:
		color = ColorWarning
	}
	filledPart := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("|", filled))
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(strings.Repeat("-", width-filled))
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
