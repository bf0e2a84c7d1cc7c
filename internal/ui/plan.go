package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) planCmd() *cobra.Command {
	var (
		save     bool
		priority int
	)

	cmd := &cobra.Command{
		Use:   "plan [note]",
		Short: "Plan a free-text note into time blocks",
		Long: `Parse a note, split it into steps, and place the steps into free
slots on the target day. Without --save the result is a preview only.

Example:
  blockplan plan "bericht schreiben morgen 2 stunden"
  blockplan plan "sport 9 uhr" --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			note := args[0]

			var prio *int
			if priority > 0 {
				prio = &priority
			}

			preview, err := a.planner.PreviewNote(ctx, note, prio, time.Now())
			if err != nil {
				return err
			}

			printPreview(preview)

			if !save {
				fmt.Println(formatMuted("\nPreview only. Re-run with --save to keep it."))
				return nil
			}

			parsed := a.planner.ParseNote(note, time.Now())
			result, err := a.planner.Confirm(ctx, plannerConfirm(preview, parsed.Category, note))
			if err != nil {
				return fmt.Errorf("saving plan: %w", err)
			}

			fmt.Printf("\nSaved %d tasks and %d blocks.\n", len(result.TaskIDs), len(result.BlockIDs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Persist the plan instead of previewing")
	cmd.Flags().IntVar(&priority, "priority", 0, "Priority for the steps (1 high to 5 low)")

	return cmd
}
