// Package styles provides shared lipgloss styles for terminal output.
package styles

import (
	"image/color"
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
)

// Colors used throughout the output
var (
	// Accent is the highlight color for matched characters (pink)
	Accent color.Color = lipgloss.Color("212")

	// Muted is used for secondary columns (gray)
	Muted color.Color = lipgloss.Color("240")

	// Success is used for positive outcomes (green)
	Success color.Color = lipgloss.Color("82")

	// Error is used for failures (red)
	Error color.Color = lipgloss.Color("196")

	// Warning is used for favorites and partial failures (orange)
	Warning color.Color = lipgloss.Color("214")
)

// MatchHighlightStyle for highlighting fuzzy matched characters
func MatchHighlightStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true).
		Underline(true)
}

// MutedStyle for secondary text
func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Muted)
}

// SuccessStyle for positive outcomes
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Success)
}

// ErrorStyle for failures
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Error)
}

// WarningStyle for favorites and partial failures
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Warning)
}

// ColorEnabled reports whether styled output should be written to w: w
// must be a terminal and NO_COLOR must be unset.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Writer wraps w so that colors are downsampled to what the terminal
// behind w supports. Escape sequences are stripped when w is not a terminal.
func Writer(w io.Writer) io.Writer {
	return colorprofile.NewWriter(w, os.Environ())
}
