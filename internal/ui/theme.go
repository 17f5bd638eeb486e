package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                          string
	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Dim                                           lipgloss.Style
	BoxUnchecked, BoxChecked                      string
	Border                                        lipgloss.Border
	SymDone, SymUnchecked                         string
}

var current Theme

func init() { SetTheme("classic") }

func SetTheme(name string) {
	s := renderer.NewStyle
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: s().Bold(true).Foreground(lipgloss.Color("13")),
			Muted: s().Foreground(lipgloss.Color("8")), Accent: s().Foreground(lipgloss.Color("14")),
			Success: s().Foreground(lipgloss.Color("2")), Error: s().Foreground(lipgloss.Color("1")).Bold(true),
			Pending:      s().Foreground(lipgloss.Color("11")),
			Dim:          s().Faint(true),
			BoxUnchecked: "◻", BoxChecked: "◼",
			Border:  lipgloss.RoundedBorder(),
			SymDone: "✔", SymUnchecked: "•",
		}
	case "mono":
		renderer.SetColorProfile(termenv.Ascii)
		current = Theme{
			Name:  "mono",
			Title: s(), Muted: s(), Accent: s(), Success: s(), Error: s(), Pending: s(), Dim: s(),
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			Border:  lipgloss.ASCIIBorder(),
			SymDone: "x", SymUnchecked: "-",
		}
	default: // classic
		current = Theme{
			Name:  "classic",
			Title: s().Bold(true),
			Muted: s().Foreground(lipgloss.Color("8")), Accent: s().Foreground(lipgloss.Color("4")),
			Success: s().Foreground(lipgloss.Color("2")), Error: s().Foreground(lipgloss.Color("1")).Bold(true),
			Pending:      s().Foreground(lipgloss.Color("3")),
			Dim:          s().Faint(true),
			BoxUnchecked: "☐", BoxChecked: "☑",
			Border:  lipgloss.NormalBorder(),
			SymDone: "✔", SymUnchecked: "•",
		}
	}
}

// Expose what renderers need
func Current() Theme { return current }
