package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"stellar/internal/journal"
	"stellar/internal/organize"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string
	var renameFlag string
	var recursive bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "organize <directory>",
		Short: "Organize a directory's files into category folders",
		Long: `Organize moves every file in the target directory into a folder derived
from its type or modification date. Runs are journaled and can be reverted
with "stellar undo". Use --dry-run to preview without touching anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ctx.runOptions(cmd, modeFlag, renameFlag, recursive, dryRun)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var store *journal.Store
			if !opts.DryRun {
				store, err = ctx.openJournal()
				if err != nil {
					return err
				}
				defer store.Close()
			}

			runner := organize.NewRunner(cfg, store, ctx.ensureLogger())

			sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, err := runner.Run(sigCtx, args[0], opts)
			if err != nil {
				return err
			}

			renderSummary(cmd.OutOrStdout(), summary)
			if summary.HasSkips() {
				return errCompletedWithSkips
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Organization mode: category, date, or hybrid")
	cmd.Flags().StringVarP(&renameFlag, "rename", "r", "", "Rename mode: skip, clean, or date-prefix")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Descend into subdirectories")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Preview without moving anything")
	return cmd
}

// maxSummaryRows bounds the per-file table; the full list is always in the
// session log.
const maxSummaryRows = 100

func renderSummary(out io.Writer, summary *organize.Summary) {
	if summary.DryRun {
		fmt.Fprintln(out, "Dry run: no files were moved.")
	}

	if len(summary.Moves) > 0 {
		shown := summary.Moves
		overflow := 0
		if len(shown) > maxSummaryRows {
			overflow = len(shown) - maxSummaryRows
			shown = shown[:maxSummaryRows]
		}
		rows := make([][]string, 0, len(shown))
		for _, op := range shown {
			status := "moved"
			if summary.DryRun {
				status = "planned"
			}
			destination := relativeTo(summary.Target, op.Destination)
			if !op.Succeeded() {
				status = "skipped: " + op.Reason.String()
				destination = ""
			}
			rows = append(rows, []string{relativeTo(summary.Target, op.Source), destination, status})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"FILE", "DESTINATION", "STATUS"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft},
		))
		if overflow > 0 {
			fmt.Fprintf(out, "... and %d more files (full detail in the session log)\n", overflow)
		}
	}

	for _, fr := range summary.FolderRenames {
		if fr.Skipped {
			fmt.Fprintf(out, "Folder %s kept its name (%s)\n", relativeTo(summary.Target, fr.From), fr.Detail)
			continue
		}
		fmt.Fprintf(out, "Folder %s renamed to %s (%d%% one category)\n",
			relativeTo(summary.Target, fr.From), filepath.Base(fr.To), int(fr.Ratio*100))
	}

	if counts := categoryCounts(summary); len(counts) > 0 {
		fmt.Fprint(out, "Per folder:")
		for i, c := range counts {
			if i > 0 {
				fmt.Fprint(out, ",")
			}
			fmt.Fprintf(out, " %s %d", c.name, c.count)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "%d moved (%s), %d renamed, %d skipped in %s\n",
		summary.FilesMoved,
		humanize.IBytes(uint64(summary.BytesMoved)),
		summary.FilesRenamed,
		summary.FilesSkipped,
		summary.Duration.Round(time.Millisecond),
	)
}

type folderCount struct {
	name  string
	count int
}

// categoryCounts tallies successful moves by their first destination folder.
func categoryCounts(summary *organize.Summary) []folderCount {
	tally := make(map[string]int)
	for _, op := range summary.Moves {
		if !op.Succeeded() {
			continue
		}
		rel := relativeTo(summary.Target, op.Destination)
		first := rel
		if idx := firstSeparator(rel); idx >= 0 {
			first = rel[:idx]
		}
		tally[first]++
	}

	counts := make([]folderCount, 0, len(tally))
	for name, count := range tally {
		counts = append(counts, folderCount{name: name, count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})
	return counts
}

func firstSeparator(path string) int {
	for i := 0; i < len(path); i++ {
		if os.IsPathSeparator(path[i]) {
			return i
		}
	}
	return -1
}

func relativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}
