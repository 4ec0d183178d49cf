package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stellar/internal/organize"
	"stellar/internal/watchmode"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string
	var renameFlag string

	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Continuously organize files as they appear",
		Long: `Watch monitors the target directory and organizes every new file once
its writes have settled. The directory stays locked for the whole session.
Stop with Ctrl-C; files already waiting are processed before shutdown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ctx.runOptions(cmd, modeFlag, renameFlag, false, false)
			if err != nil {
				return err
			}
			// Watch only ever handles files landing at the top level.
			opts.Recursive = false

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			logger := ctx.ensureLogger()
			runner := organize.NewRunner(cfg, store, logger)
			watcher := watchmode.New(cfg, runner, logger)

			sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watcher.Watch(sigCtx, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Organization mode: category, date, or hybrid")
	cmd.Flags().StringVarP(&renameFlag, "rename", "r", "", "Rename mode: skip, clean, or date-prefix")
	return cmd
}
