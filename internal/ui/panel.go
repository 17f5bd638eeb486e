package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Truncate shortens s to at most width cells, escape codes aside.
func Truncate(s string, width int) string {
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "...")
}

// Panel draws a framed box using the current theme.
func Panel(lines []string) {
	fmt.Fprintln(out, PanelString(lines))
}

// PanelString is Panel without printing.
func PanelString(lines []string) string {
	return renderer.NewStyle().
		Border(current.Border).
		BorderForeground(current.Muted.GetForeground()).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
