package ui

import (
	"fmt"
	"strings"
)

// Row is one line of the parameter table.
type Row struct {
	Section  string // starts a new section with this heading
	Label    string
	Value    string
	Unit     string
	Alt      string // the value in the other sensitivity family
	Note     string // validation or service message
	Invalid  bool
	Busy     bool
	ReadOnly bool
}

// EditState is the in-progress text of the row under the cursor.
type EditState struct {
	Active bool
	Buffer string
}

// RenderParams renders the scrollable parameter table with the cursor row
// highlighted. Section headings scroll with their rows.
func RenderParams(rows []Row, width, height, cursor int, edit EditState) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	title := StylePanelTitle.Render("PARAMETERS")
	separator := StyleSeparator.Render(strings.Repeat("-", innerW))
	headerLines := []string{title, separator}

	innerH := height - 2
	if innerH < len(headerLines)+1 {
		innerH = len(headerLines) + 1
	}
	rowSpace := innerH - len(headerLines)

	// Each row is one line plus an optional heading and note line.
	var lines []string
	cursorLine := 0
	for i, r := range rows {
		if r.Section != "" {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, " "+StyleSection.Render(r.Section))
		}
		if i == cursor {
			cursorLine = len(lines)
		}
		lines = append(lines, renderRow(r, innerW, i == cursor, edit))
		if r.Note != "" {
			lines = append(lines, renderNote(r, innerW))
		}
	}

	// Keep the cursor line inside the viewport.
	viewStart := 0
	if cursorLine >= rowSpace {
		viewStart = cursorLine - rowSpace + 1
	}
	if viewStart > len(lines) {
		viewStart = len(lines)
	}
	lines = lines[viewStart:]
	if len(lines) > rowSpace {
		lines = lines[:rowSpace]
	}
	for len(lines) < rowSpace {
		lines = append(lines, "")
	}

	all := append(headerLines, lines...)
	content := strings.Join(all, "\n")
	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(content)
	return clampLines(rendered, height)
}

func renderRow(r Row, maxW int, isCursor bool, edit EditState) string {
	value := r.Value
	if isCursor && edit.Active {
		value = edit.Buffer + "_"
	}
	busy := " "
	if r.Busy {
		busy = "~"
	}

	if isCursor {
		raw := fmt.Sprintf(">> %-16s %s %s %s", r.Label, value, r.Unit, busy)
		if r.Alt != "" {
			raw += " (" + r.Alt + ")"
		}
		return StyleCursorRow.Render(truncRaw(raw, maxW))
	}

	valSty := StyleValue
	switch {
	case r.Invalid:
		valSty = StyleInvalid
	case r.ReadOnly:
		valSty = StyleReadOnly
	}
	line := "   " + StyleLabel.Render(fmt.Sprintf("%-16s", r.Label)) + " " +
		valSty.Render(value) + " " + StyleUnit.Render(r.Unit) + " " + StyleStatusBusy.Render(busy)
	if r.Alt != "" {
		line += " " + StyleAlt.Render("("+r.Alt+")")
	}
	return line
}

func renderNote(r Row, maxW int) string {
	note := truncRaw("      "+r.Note, maxW)
	if r.Invalid {
		return StyleInvalid.Render(note)
	}
	return StyleHelp.Render(note)
}

// truncRaw pads or truncates a raw string to exactly w characters.
func truncRaw(s string, w int) string {
	if len(s) > w {
		return s[:w]
	}
	if len(s) < w {
		return s + strings.Repeat(" ", w-len(s))
	}
	return s
}

// clampLines cuts or pads rendered output to exactly height lines. lipgloss
// Height only sets a minimum.
func clampLines(rendered string, height int) string {
	out := strings.Split(rendered, "\n")
	if len(out) > height {
		out = out[:height]
	}
	for len(out) < height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}
