package output

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Heading  *color.Color
	Label    *color.Color
	Value    *color.Color
	Success  *color.Color
	Warning  *color.Color
	Error    *color.Color
	Subtle   *color.Color
	Scenario *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Heading:  color.New(color.FgCyan, color.Bold),
		Label:    color.New(color.FgYellow),
		Value:    color.New(color.FgWhite),
		Success:  color.New(color.FgGreen),
		Warning:  color.New(color.FgYellow, color.Bold),
		Error:    color.New(color.FgRed, color.Bold),
		Subtle:   color.New(color.FgHiBlack),
		Scenario: color.New(color.FgMagenta, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	scheme.Heading.DisableColor()
	scheme.Label.DisableColor()
	scheme.Value.DisableColor()
	scheme.Success.DisableColor()
	scheme.Warning.DisableColor()
	scheme.Error.DisableColor()
	scheme.Subtle.DisableColor()
	scheme.Scenario.DisableColor()

	return scheme
}

// IsTerminal returns true when the file is attached to a terminal. Output
// to pipes and files is rendered without color.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
