package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"stellar/internal/journal"
)

func newUndoCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo [directory]",
		Short: "Revert the most recent organization run",
		Long: `Undo restores every file the last session moved back to its original
location and removes directories that session created, when they are empty.
Files that were moved or deleted since are reported and left alone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			abs, err := filepath.Abs(target)
			if err != nil {
				return err
			}

			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			report, err := store.Undo(context.Background(), abs)
			out := cmd.OutOrStdout()
			if err != nil {
				if errors.Is(err, journal.ErrNothingToUndo) {
					fmt.Fprintf(out, "Nothing to undo for %s\n", abs)
					return nil
				}
				return err
			}

			fmt.Fprintf(out, "Reverted session %s from %s\n",
				shortID(report.SessionID), report.StartedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "%d restored, %d removed folders\n", report.Restored, len(report.RemovedDirs))
			for _, skip := range report.Skipped {
				fmt.Fprintf(out, "left alone: %s\n", skip)
			}
			return nil
		},
	}
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
