package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout puts the parameter table beside the side panels, with the
// menu bar on top and the status bar at the bottom.
func ComposeLayout(menuBar, params string, side []string, statusBar string) string {
	right := lipgloss.JoinVertical(lipgloss.Left, side...)
	middle := lipgloss.JoinHorizontal(lipgloss.Top, params, right)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
