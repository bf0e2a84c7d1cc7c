package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arveiter/blockplan/internal/reflow"
)

func (a *App) adjustCmd() *cobra.Command {
	var (
		newStart string
		newEnd   string
		extend   int
	)

	cmd := &cobra.Command{
		Use:   "adjust [block-id]",
		Short: "Move or extend a block, shifting followers",
		Long: `Move or extend a block. Movable blocks behind it on the same day are
pushed later so nothing overlaps; fixed blocks stay where they are.

Example:
  blockplan adjust 12 --extend=30
  blockplan adjust 12 --start=2025-03-10T10:00:00
  blockplan adjust 12 --end=2025-03-10T11:30:00 --extend=15`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid block id %q", args[0])
			}

			if newStart == "" && newEnd == "" && extend == 0 {
				return fmt.Errorf("nothing to adjust: pass --start, --end, or --extend")
			}

			updates, err := a.planner.Adjust(context.Background(), reflow.Request{
				BlockID:       id,
				NewStart:      newStart,
				NewEnd:        newEnd,
				ExtendMinutes: extend,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Adjusted %d blocks:\n", len(updates))
			for _, u := range updates {
				marker := " "
				if u.ID == id {
					marker = "*"
				}
				fmt.Printf("  %s #%-3d %s -> %s\n", marker, u.ID, u.NewStart, u.NewEnd)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&newStart, "start", "", "New start (YYYY-MM-DDTHH:MM:SS)")
	cmd.Flags().StringVar(&newEnd, "end", "", "New end (YYYY-MM-DDTHH:MM:SS)")
	cmd.Flags().IntVar(&extend, "extend", 0, "Minutes to extend the block by")

	return cmd
}
