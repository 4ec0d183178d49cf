package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [directory]",
		Short: "Show past organization sessions for a directory",
		Args:  cobra.MaximumNArgs(1),
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

			sessions, err := store.History(context.Background(), abs, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintf(out, "No sessions recorded for %s\n", abs)
				return nil
			}

			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				rows = append(rows, []string{
					shortID(s.ID),
					humanize.Time(s.StartedAt),
					strconv.Itoa(s.FilesMoved),
					strconv.Itoa(s.FilesRenamed),
					strconv.Itoa(s.FilesSkipped),
					humanize.IBytes(uint64(s.BytesMoved)),
					s.Duration.Round(time.Millisecond).String(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"SESSION", "WHEN", "MOVED", "RENAMED", "SKIPPED", "SIZE", "DURATION"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum sessions to show (0 uses the retention bound)")
	return cmd
}
