package ui

import (
	"fmt"
	"strings"

	"github.com/arveiter/blockplan/internal/block"
	"github.com/arveiter/blockplan/internal/planner"
)

// printPreview renders a plan preview: steps, blocks, and conflicts.
func printPreview(preview *planner.PlanPreview) {
	fmt.Println(formatHeader("Steps:"))
	for i, s := range preview.Steps {
		fmt.Printf("  %d. %s %s\n", i+1, s.Title, formatMuted(FormatDuration(s.DurationMinutes)))
	}

	fmt.Println()
	fmt.Println(formatHeader("Blocks:"))
	if len(preview.SuggestedBlocks) == 0 {
		fmt.Println(formatMuted("  (none placed)"))
	}
	for _, b := range preview.SuggestedBlocks {
		start, end, err := b.Interval()
		if err != nil {
			continue
		}
		printBlockRow(b, start, end)
	}

	if len(preview.Conflicts) > 0 {
		fmt.Println()
		fmt.Println(formatConflict("Conflicts:"))
		for _, c := range preview.Conflicts {
			fmt.Printf("  %s\n", formatConflict("! "+c))
		}
	}
}

// plannerConfirm builds a confirm request from a previewed plan.
func plannerConfirm(preview *planner.PlanPreview, category block.Category, note string) planner.ConfirmRequest {
	return planner.ConfirmRequest{
		Steps:    preview.Steps,
		Blocks:   preview.SuggestedBlocks,
		Category: category,
		NoteText: note,
	}
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// truncate shortens a title to fit the terminal, keeping it readable.
func truncate(s string, width int) string {
	if width <= 3 || len(s) <= width {
		return s
	}
	return strings.TrimSpace(s[:width-3]) + "..."
}
