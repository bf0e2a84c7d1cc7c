package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arveiter/blockplan/internal/block"
)

func (a *App) listCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled blocks",
		Long: `List blocks, optionally limited to those starting on a given date.

Example:
  blockplan list
  blockplan list --date=2025-03-10`,
		RunE: func(_ *cobra.Command, _ []string) error {
			blocks, err := a.planner.Blocks(context.Background(), date)
			if err != nil {
				return fmt.Errorf("listing blocks: %w", err)
			}

			if len(blocks) == 0 {
				fmt.Println("No blocks found.")
				return nil
			}

			var currentDay string
			for _, b := range blocks {
				start, end, err := b.Interval()
				if err != nil {
					fmt.Printf("  %s #%d %s (unreadable times)\n", statusSymbol(b.Status), b.ID, b.Title)
					continue
				}

				day := start.Format("2006-01-02")
				if day != currentDay {
					if currentDay != "" {
						fmt.Println()
					}
					fmt.Println(formatHeader(fmt.Sprintf("=== %s ===", day)))
					currentDay = day
				}

				printBlockRow(b, start, end)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Only blocks starting on this date (YYYY-MM-DD)")

	return cmd
}

func printBlockRow(b *block.Block, start, end time.Time) {
	category := "          "
	if b.Category != "" {
		category = fmt.Sprintf("[%-8s]", b.Category)
	}

	fixed := " "
	if b.Fixed {
		fixed = "!"
	}

	title := truncate(b.Title, termWidth()-40)
	fmt.Printf("  %s #%-3d %s-%s %s %s %s %s\n",
		statusSymbol(b.Status),
		b.ID,
		start.Format("15:04"),
		end.Format("15:04"),
		formatCategory(category),
		fixed,
		title,
		formatMuted(FormatDuration(b.DurationMinutes)),
	)
}

func statusSymbol(s block.Status) string {
	switch s {
	case block.StatusPlanned:
		return "○"
	case block.StatusActive:
		return "●"
	case block.StatusDone:
		return "✓"
	case block.StatusCancelled:
		return "✗"
	default:
		return "?"
	}
}
