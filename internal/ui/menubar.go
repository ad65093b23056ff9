package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sensitivity-calc.klederson.com/internal/config"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, backend string, rescale bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"C", "alc sens"},
		{"T", "ime"},
		{"U", "nit"},
		{"R", "escale"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	mode := StyleStatusBusy.Render("RELABEL")
	if rescale {
		mode = StyleStatusReady.Render("RESCALE")
	}

	left := StyleMenuKey.Render(title) + menu
	right := mode + "  " + StyleMenuLabel.Render("Service: "+backend) + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
