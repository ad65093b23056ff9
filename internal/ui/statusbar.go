package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sensitivity-calc.klederson.com/internal/calc"
)

// RenderStatusBar renders the bottom status bar: the sensitivity phase of
// each array, the spinner and the last notice.
func RenderStatusBar(width int, s calc.State, glyph, notice string) string {
	parts := make([]string, 0, calc.NumArrays)
	for _, id := range calc.Arrays {
		phase := s.SensitivityPhase(id)
		text := fmt.Sprintf("[%s %s]", id, phase)
		switch phase {
		case calc.PhaseFetching:
			parts = append(parts, StyleStatusBusy.Render(text))
		case calc.PhaseError:
			parts = append(parts, StyleStatusError.Render(text))
		default:
			parts = append(parts, StyleStatusReady.Render(text))
		}
	}

	content := glyph + " " + strings.Join(parts, " ")
	if notice != "" {
		content += StyleStatusBar.Render(" " + notice)
	}

	gap := width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
