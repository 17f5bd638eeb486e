package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr

	renderer = lipgloss.NewRenderer(os.Stdout)

	forceColor   bool
	disableColor bool
)

const (
	symCheck = "✔"
	symCross = "✖"
)

// SetOutput redirects normal and error output. The colour profile is
// detected from out unless colours are forced or disabled.
func SetOutput(stdout, stderr io.Writer) {
	out, errOut = stdout, stderr
	renderer = lipgloss.NewRenderer(stdout)
	applyProfile()
	SetTheme(current.Name)
}

// SetColorForcing overrides terminal detection.
func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
	applyProfile()
	SetTheme(current.Name)
}

func applyProfile() {
	switch {
	case disableColor:
		renderer.SetColorProfile(termenv.Ascii)
	case forceColor:
		renderer.SetColorProfile(termenv.ANSI256)
	}
}

func OK(msg string)   { fmt.Fprintln(out, current.Success.Render(symCheck+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(errOut, current.Error.Render(symCross+" "+msg)) }

// Hint prints a muted follow-up line under a failure.
func Hint(msg string) { fmt.Fprintln(errOut, current.Muted.Render(msg)) }
