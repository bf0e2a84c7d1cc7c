package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Categories: cyan
	colorCategory = color.New(color.FgCyan)

	// Conflicts: yellow so they stand out in a preview
	colorConflict = color.New(color.FgYellow)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatCategory(s string) string {
	return colorCategory.Sprint(s)
}

func formatConflict(s string) string {
	return colorConflict.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
