package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"stellar/internal/duplicates"
	"stellar/internal/lockfile"
	"stellar/internal/organize"
	"stellar/internal/organizer"
	"stellar/internal/pathguard"
	"stellar/internal/scanner"
)

func newDuplicatesCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var prune bool

	cmd := &cobra.Command{
		Use:     "duplicates <directory>",
		Aliases: []string{"dup"},
		Short:   "Find files with identical content",
		Long: `Duplicates groups files by size and content hash. With --prune, every
copy after the first in each group is deleted; the first file found is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			abs, err := organize.NewRunner(cfg, nil, logger).Preflight(args[0])
			if err != nil {
				return err
			}

			// Pruning mutates the target, so it contends for the same lock as
			// organize and watch sessions.
			if prune {
				lock, err := lockfile.NewManager(cfg.Paths.StateDir).Acquire(abs)
				if err != nil {
					return err
				}
				defer func() { _ = lock.Release() }()
			}

			guard := pathguard.New(cfg.ProtectedPaths())
			scan := scanner.New(guard, cfg.Categories, logger)
			result, err := scan.Scan(abs, recursive)
			if err != nil {
				return err
			}

			report := duplicates.Find(result.Entries, logger)
			out := cmd.OutOrStdout()

			if len(report.Groups) == 0 {
				fmt.Fprintln(out, "No duplicates found.")
				return nil
			}

			engine := organizer.New(logger, false)
			var freed uint64
			for i, group := range report.Groups {
				fmt.Fprintf(out, "Group %d: %s each (%s)\n", i+1, humanize.IBytes(uint64(group.Size)), shortID(group.Hash))
				for j, path := range group.Paths {
					if j == 0 {
						fmt.Fprintf(out, "  keep    %s\n", path)
						continue
					}
					if prune {
						if err := engine.Remove(path); err != nil {
							fmt.Fprintf(out, "  failed  %s (%v)\n", path, err)
							continue
						}
						freed += uint64(group.Size)
						fmt.Fprintf(out, "  deleted %s\n", path)
					} else {
						fmt.Fprintf(out, "  dupe    %s\n", path)
					}
				}
			}
			for _, skip := range report.Skipped {
				fmt.Fprintf(out, "unreadable: %s (%s)\n", skip.Path, skip.Detail)
			}

			if prune {
				fmt.Fprintf(out, "Freed %s\n", humanize.IBytes(freed))
			} else {
				fmt.Fprintf(out, "%s wasted across %d groups; rerun with --prune to delete copies\n",
					humanize.IBytes(uint64(report.WastedBytes())), len(report.Groups))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&recursive, "recursive", false, "Descend into subdirectories")
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete every copy after the first in each group")
	return cmd
}
