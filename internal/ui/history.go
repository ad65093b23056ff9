package ui

import "strings"

// HistoryBlock is the recent results of one array.
type HistoryBlock struct {
	Title  string
	Lines  []string
	Values []float64 // base-unit magnitudes, oldest first
}

// RenderHistory renders the latest results of each array with a sparkline
// of their magnitudes.
func RenderHistory(blocks []HistoryBlock, width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}
	lines := []string{
		StylePanelTitle.Render("HISTORY"),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
	}

	for _, b := range blocks {
		head := " " + StyleSection.Render(b.Title)
		if len(b.Values) > 1 {
			head += "  " + StyleAlt.Render(renderSparkline(b.Values, innerW-len(b.Title)-3))
		}
		lines = append(lines, head)
		if len(b.Lines) == 0 {
			lines = append(lines, StyleHelp.Render("  no results yet"))
		}
		for _, l := range b.Lines {
			lines = append(lines, StyleValue.Render(truncRaw("  "+l, innerW)))
		}
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	content := strings.Join(lines, "\n")
	return clampLines(StylePanelBorder.Width(width-2).Height(height-2).Render(content), height)
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	rng := maxV - minV
	if rng <= 0 {
		rng = 1
	}

	start := 0
	if len(values) > width {
		start = len(values) - width
	}

	var sb strings.Builder
	for i := start; i < len(values); i++ {
		idx := int((values[i] - minV) / rng * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		sb.WriteByte(chars[idx])
	}
	return sb.String()
}
